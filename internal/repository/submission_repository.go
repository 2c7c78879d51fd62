package repository

import (
	"eduforge_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(s *model.Submission) error {
	return r.DB.Create(s).Error
}

func (r *SubmissionRepository) FindByID(id string) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.Preload("User").Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindLatestByUserAndCheckpoint 回看最近一次提交用
func (r *SubmissionRepository) FindLatestByUserAndCheckpoint(userID, checkpointID uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.Where("user_id = ? AND checkpoint_id = ?", userID, checkpointID).
		Order("submitted_at desc").First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepository) List(page, limit int, status string, topicID uint, studentName string) ([]model.Submission, int64, error) {
	var ss []model.Submission
	var total int64

	query := r.DB.Model(&model.Submission{}).Preload("User")
	if status != "" {
		query = query.Where("submissions.status = ?", status)
	}
	if topicID > 0 {
		query = query.Where("submissions.topic_id = ?", topicID)
	}
	if studentName != "" {
		query = query.Joins("JOIN users ON users.id = submissions.user_id").
			Where("users.name LIKE ?", "%"+studentName+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("submissions.submitted_at desc").Offset(offset).Limit(limit).Find(&ss).Error
	return ss, total, err
}

func (r *SubmissionRepository) Update(s *model.Submission) error {
	return r.DB.Save(s).Error
}

func (r *SubmissionRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Submission{}).Error
}
