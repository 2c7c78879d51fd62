package database

import (
	"fmt"
	"log"

	"eduforge_backend/internal/config"
	"eduforge_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Topic{},
		&model.Checkpoint{},
		&model.CheckpointQuestion{},
		&model.StudentCheckpointProgress{},
		&model.FinalAssessmentResult{},
		&model.Submission{},
		&model.SprintQuestion{},
		&model.SprintResult{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 冲刺挑战默认题目（空库时写入，方便本地起服即玩）
	var count int64
	db.Model(&model.SprintQuestion{}).Count(&count)
	if count == 0 {
		defaultQuestions := []model.SprintQuestion{
			{Content: "What does CPU stand for?", Answer: "central processing unit", Category: "hardware", Enabled: true},
			{Content: "What data structure works first-in first-out?", Answer: "queue", Category: "data structures", Enabled: true},
			{Content: "What does HTML stand for?", Answer: "hypertext markup language", Category: "web", Enabled: true},
			{Content: "Which keyword defines a constant in Go?", Answer: "const", Category: "go", Enabled: true},
		}
		for _, q := range defaultQuestions {
			db.Create(&q)
		}
	}

	return db, nil
}
