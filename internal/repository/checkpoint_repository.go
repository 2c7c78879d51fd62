package repository

import (
	"eduforge_backend/internal/model"

	"gorm.io/gorm"
)

type CheckpointRepository struct {
	DB *gorm.DB
}

func NewCheckpointRepository(db *gorm.DB) *CheckpointRepository {
	return &CheckpointRepository{DB: db}
}

func (r *CheckpointRepository) Create(cp *model.Checkpoint) error {
	return r.DB.Create(cp).Error
}

func (r *CheckpointRepository) FindByID(id uint) (*model.Checkpoint, error) {
	var cp model.Checkpoint
	err := r.DB.First(&cp, id).Error
	return &cp, err
}

func (r *CheckpointRepository) ListByTopic(topicID uint, publishedOnly bool) ([]model.Checkpoint, error) {
	var cps []model.Checkpoint
	query := r.DB.Where("topic_id = ?", topicID)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	err := query.Order("`order` asc, created_at asc").Find(&cps).Error
	return cps, err
}

func (r *CheckpointRepository) Update(cp *model.Checkpoint) error {
	return r.DB.Save(cp).Error
}

func (r *CheckpointRepository) Delete(id uint) error {
	if err := r.DB.Where("checkpoint_id = ?", id).Delete(&model.CheckpointQuestion{}).Error; err != nil {
		return err
	}
	return r.DB.Delete(&model.Checkpoint{}, id).Error
}

// ClearGateExcept 一个主题内只保留一个门禁检查点
func (r *CheckpointRepository) ClearGateExcept(topicID, checkpointID uint) error {
	return r.DB.Model(&model.Checkpoint{}).
		Where("topic_id = ? AND id <> ?", topicID, checkpointID).
		Update("is_gate", false).Error
}

// Question related methods

func (r *CheckpointRepository) CreateQuestion(q *model.CheckpointQuestion) error {
	return r.DB.Create(q).Error
}

func (r *CheckpointRepository) FindQuestionByID(id uint) (*model.CheckpointQuestion, error) {
	var q model.CheckpointQuestion
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *CheckpointRepository) ListQuestions(checkpointID uint) ([]model.CheckpointQuestion, error) {
	var qs []model.CheckpointQuestion
	err := r.DB.Where("checkpoint_id = ?", checkpointID).
		Order("`order` asc, created_at asc").Find(&qs).Error
	return qs, err
}

// FindQuestionsByIDs 按 ID 批量取题；已删除的题目直接缺席结果集
func (r *CheckpointRepository) FindQuestionsByIDs(ids []uint) ([]model.CheckpointQuestion, error) {
	var qs []model.CheckpointQuestion
	err := r.DB.Where("id IN ?", ids).Find(&qs).Error
	return qs, err
}

func (r *CheckpointRepository) UpdateQuestion(q *model.CheckpointQuestion) error {
	return r.DB.Save(q).Error
}

func (r *CheckpointRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.CheckpointQuestion{}, id).Error
}
