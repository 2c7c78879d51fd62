package model

import "time"

// SprintQuestion 冲刺挑战（限时小游戏）题库
type SprintQuestion struct {
	BaseModel
	Content  string `gorm:"type:text;not null" json:"content"`
	Answer   string `gorm:"type:text;not null" json:"answer"`
	Category string `gorm:"size:50" json:"category"`
	Enabled  bool   `gorm:"default:true" json:"enabled"`
}

func (SprintQuestion) TableName() string {
	return "sprint_questions"
}

// SprintResult 一局冲刺挑战的成绩
type SprintResult struct {
	BaseModel
	UserID      uint      `gorm:"index;type:bigint unsigned" json:"userId"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Correct     int       `gorm:"default:0" json:"correct"`
	Total       int       `gorm:"default:0" json:"total"`
	Score       int       `gorm:"default:0" json:"score"`
	DurationSec int       `gorm:"default:0" json:"durationSec"`
	PlayedAt    time.Time `json:"playedAt"`
}

func (SprintResult) TableName() string {
	return "sprint_results"
}
