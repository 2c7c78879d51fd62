package model

import "time"

// StudentCheckpointProgress 每个 (学生, 检查点) 一行，后续提交覆盖之前的结果
type StudentCheckpointProgress struct {
	BaseModel
	UserID       uint      `gorm:"uniqueIndex:idx_user_checkpoint;type:bigint unsigned" json:"userId"`
	CheckpointID uint      `gorm:"uniqueIndex:idx_user_checkpoint;type:bigint unsigned" json:"checkpointId"`
	TopicID      uint      `gorm:"index;type:bigint unsigned" json:"topicId"`
	Score        int       `gorm:"default:0" json:"score"`
	Passed       bool      `gorm:"default:false" json:"passed"`
	CompletedAt  time.Time `json:"completedAt"`
}

func (StudentCheckpointProgress) TableName() string {
	return "student_checkpoint_progress"
}

// FinalAssessmentResult 结课测评通过记录，每个 (学生, 主题) 一行
type FinalAssessmentResult struct {
	BaseModel
	UserID      uint      `gorm:"uniqueIndex:idx_user_topic_final;type:bigint unsigned" json:"userId"`
	TopicID     uint      `gorm:"uniqueIndex:idx_user_topic_final;type:bigint unsigned" json:"topicId"`
	Score       int       `gorm:"default:0" json:"score"`
	Passed      bool      `gorm:"default:false" json:"passed"`
	CompletedAt time.Time `json:"completedAt"`
}

func (FinalAssessmentResult) TableName() string {
	return "final_assessment_results"
}
