package app

import (
	"eduforge_backend/internal/config"
	"eduforge_backend/internal/middleware"
	"eduforge_backend/internal/model"

	"eduforge_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	// 学习路径与进度
	rg.GET("/topics", c.learning.ListTopics)
	rg.GET("/topics/:id", c.learning.TopicDetail)
	rg.GET("/topics/:id/progress", c.learning.TopicProgress)

	// 答题会话
	rg.POST("/checkpoints/:id/attempts", c.attempt.Start)
	rg.GET("/checkpoints/:id/review", c.attempt.Review)
	rg.PUT("/attempts/:id/answers", c.attempt.SaveAnswer)
	rg.POST("/attempts/:id/submit", c.attempt.Submit)
	rg.DELETE("/attempts/:id", c.attempt.Cancel)

	// 冲刺挑战
	rg.POST("/sprint/runs", c.sprint.StartRun)
	rg.POST("/sprint/runs/:id/submit", c.sprint.SubmitRun)
	rg.GET("/sprint/leaderboard", c.sprint.Leaderboard)
	rg.GET("/sprint/history", c.sprint.History)

	// AI 答疑
	rg.POST("/tutor/chat", c.tutor.Chat)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		// 主题与检查点
		teacher.POST("/topics", c.content.CreateTopic)
		teacher.GET("/topics", c.content.ListTopics)
		teacher.PUT("/topics/:id", c.content.UpdateTopic)
		teacher.DELETE("/topics/:id", c.content.DeleteTopic)
		teacher.POST("/checkpoints", c.content.CreateCheckpoint)
		teacher.GET("/topics/:id/checkpoints", c.content.ListCheckpoints)
		teacher.PUT("/checkpoints/:id", c.content.UpdateCheckpoint)
		teacher.DELETE("/checkpoints/:id", c.content.DeleteCheckpoint)

		// 题目维护
		teacher.POST("/questions", c.content.CreateQuestion)
		teacher.GET("/checkpoints/:id/questions", c.content.ListQuestions)
		teacher.PUT("/questions/:id", c.content.UpdateQuestion)
		teacher.DELETE("/questions/:id", c.content.DeleteQuestion)
		teacher.POST("/questions/image", c.content.UploadQuestionImage)

		// 答卷管理
		teacher.GET("/submissions", c.submission.List)
		teacher.GET("/submissions/:id", c.submission.Get)
		teacher.PUT("/submissions/:id/grade", c.submission.OverrideGrade)
		teacher.DELETE("/submissions/:id", c.submission.Delete)

		// 冲刺题库
		teacher.POST("/sprint/questions", c.sprint.CreateQuestion)
		teacher.GET("/sprint/questions", c.sprint.ListQuestions)
		teacher.PUT("/sprint/questions/:id", c.sprint.UpdateQuestion)
		teacher.DELETE("/sprint/questions/:id", c.sprint.DeleteQuestion)
	}
}
