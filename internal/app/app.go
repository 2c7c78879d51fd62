package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eduforge_backend/internal/config"
	"eduforge_backend/internal/controller"
	"eduforge_backend/internal/grading"
	"eduforge_backend/internal/repository"
	"eduforge_backend/internal/service"
	"eduforge_backend/pkg/cache"
	"eduforge_backend/pkg/database"
	"eduforge_backend/pkg/logger"
	"eduforge_backend/pkg/monitoring"
	"eduforge_backend/pkg/security"
	"eduforge_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user       *repository.UserRepository
	topic      *repository.TopicRepository
	checkpoint *repository.CheckpointRepository
	progress   *repository.ProgressRepository
	submission *repository.SubmissionRepository
	sprint     *repository.SprintRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	ai         *service.AIService
	progress   *service.ProgressService
	content    *service.ContentService
	attempt    *service.AttemptService
	submission *service.SubmissionService
	sprint     *service.SprintService
}

type controllers struct {
	auth       *controller.AuthController
	content    *controller.ContentController
	learning   *controller.LearningController
	attempt    *controller.AttemptController
	submission *controller.SubmissionController
	sprint     *controller.SprintController
	tutor      *controller.TutorController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		topic:      repository.NewTopicRepository(db),
		checkpoint: repository.NewCheckpointRepository(db),
		progress:   repository.NewProgressRepository(db),
		submission: repository.NewSubmissionRepository(db),
		sprint:     repository.NewSprintRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	store := cache.NewStore(rdb, "eduforge")

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.ai = service.NewAIService(cfg.AI)
	s.progress = service.NewProgressService(repos.topic, repos.checkpoint, repos.progress, store)
	s.content = service.NewContentService(repos.topic, repos.checkpoint, s.progress, store)

	sessions := service.NewAttemptManager()
	grader := grading.NewGrader(s.ai)
	s.attempt = service.NewAttemptService(
		repos.checkpoint,
		repos.progress,
		repos.submission,
		s.progress,
		sessions,
		grader,
		store,
		cfg,
	)

	s.submission = service.NewSubmissionService(repos.submission, repos.progress, repos.checkpoint, store)
	s.sprint = service.NewSprintService(repos.sprint, store, cfg)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		content:    controller.NewContentController(s.content, s.storage),
		learning:   controller.NewLearningController(s.content, s.progress),
		attempt:    controller.NewAttemptController(s.attempt),
		submission: controller.NewSubmissionController(s.submission),
		sprint:     controller.NewSprintController(s.sprint),
		tutor:      controller.NewTutorController(s.ai),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	gin.SetMode(ginMode(cfg.Server.Mode))

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("eduforge-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
