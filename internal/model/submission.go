package model

import (
	"encoding/json"
	"time"
)

// 提交状态
const (
	SubmissionStatusPending   = "pending"   // 含待人工复核的理论题
	SubmissionStatusCompleted = "completed" // 自动评分完成或教师已复核
)

// Submission 一次已评分的测验提交（检查点或结课测评）
type Submission struct {
	UUIDBase
	UserID       uint            `gorm:"index;type:bigint unsigned" json:"userId"`
	User         *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TopicID      uint            `gorm:"index;type:bigint unsigned" json:"topicId"`
	CheckpointID uint            `gorm:"index;type:bigint unsigned" json:"checkpointId"` // 结课测评同样指向其检查点行，靠 IsFinal 区分
	IsFinal      bool            `gorm:"default:false" json:"isFinal"`
	Score        int             `gorm:"default:0" json:"score"`
	Passed       bool            `gorm:"default:false" json:"passed"`
	Breakdown    json.RawMessage `gorm:"type:json" json:"breakdown"` // JSON: []QuestionBreakdown
	Status       string          `gorm:"size:20;default:'completed'" json:"status"`
	AutoExpired  bool            `gorm:"default:false" json:"autoExpired"` // 计时到期自动提交
	Graded       bool            `gorm:"default:false" json:"graded"`      // 教师人工改分后为 true
	Feedback     string          `gorm:"type:text" json:"feedback"`
	StartedAt    time.Time       `json:"startedAt"`
	SubmittedAt  time.Time       `json:"submittedAt"`
}

func (Submission) TableName() string {
	return "submissions"
}

// QuestionBreakdown 单题评分明细，序列化进 Submission.Breakdown
type QuestionBreakdown struct {
	QuestionID    uint   `json:"questionId"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
	Score         int    `json:"score"` // 0-100，该题得分
	Feedback      string `json:"feedback,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
	NeedsReview   bool   `json:"needsReview,omitempty"`
}
