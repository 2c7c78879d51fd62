package main

import (
	"log"

	"eduforge_backend/internal/app"
	"eduforge_backend/internal/config"
	"eduforge_backend/pkg/configwatcher"
	"eduforge_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 配置文件热加载
	go configwatcher.WatchConfig("configs/config.yaml", func(next *config.Config) {
		logger.Log.Info("config reloaded")
	})

	application.Run()
}
