package repository

import (
	"eduforge_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// UpsertCheckpointProgress 每个 (学生, 检查点) 仅保留最新一次结果
func (r *ProgressRepository) UpsertCheckpointProgress(p *model.StudentCheckpointProgress) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "checkpoint_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"topic_id", "score", "passed", "completed_at", "updated_at"}),
	}).Create(p).Error
}

func (r *ProgressRepository) ListCheckpointProgress(userID, topicID uint) ([]model.StudentCheckpointProgress, error) {
	var ps []model.StudentCheckpointProgress
	err := r.DB.Where("user_id = ? AND topic_id = ?", userID, topicID).Find(&ps).Error
	return ps, err
}

func (r *ProgressRepository) FindCheckpointProgress(userID, checkpointID uint) (*model.StudentCheckpointProgress, error) {
	var p model.StudentCheckpointProgress
	err := r.DB.Where("user_id = ? AND checkpoint_id = ?", userID, checkpointID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertFinalResult 每个 (学生, 主题) 仅保留最新一次结课测评结果
func (r *ProgressRepository) UpsertFinalResult(fr *model.FinalAssessmentResult) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "topic_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "passed", "completed_at", "updated_at"}),
	}).Create(fr).Error
}

func (r *ProgressRepository) FindFinalResult(userID, topicID uint) (*model.FinalAssessmentResult, error) {
	var fr model.FinalAssessmentResult
	err := r.DB.Where("user_id = ? AND topic_id = ?", userID, topicID).First(&fr).Error
	if err != nil {
		return nil, err
	}
	return &fr, nil
}
