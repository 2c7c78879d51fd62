package repository

import (
	"eduforge_backend/internal/model"

	"gorm.io/gorm"
)

type SprintRepository struct {
	DB *gorm.DB
}

func NewSprintRepository(db *gorm.DB) *SprintRepository {
	return &SprintRepository{DB: db}
}

func (r *SprintRepository) CreateQuestion(q *model.SprintQuestion) error {
	return r.DB.Create(q).Error
}

func (r *SprintRepository) FindQuestionByID(id uint) (*model.SprintQuestion, error) {
	var q model.SprintQuestion
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *SprintRepository) ListQuestions(page, limit int) ([]model.SprintQuestion, int64, error) {
	var qs []model.SprintQuestion
	var total int64
	query := r.DB.Model(&model.SprintQuestion{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&qs).Error
	return qs, total, err
}

// RandomEnabled 随机抽取一局游戏的题目
func (r *SprintRepository) RandomEnabled(count int) ([]model.SprintQuestion, error) {
	var qs []model.SprintQuestion
	err := r.DB.Where("enabled = ?", true).Order("RAND()").Limit(count).Find(&qs).Error
	return qs, err
}

func (r *SprintRepository) UpdateQuestion(q *model.SprintQuestion) error {
	return r.DB.Save(q).Error
}

func (r *SprintRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.SprintQuestion{}, id).Error
}

func (r *SprintRepository) CreateResult(res *model.SprintResult) error {
	return r.DB.Create(res).Error
}

func (r *SprintRepository) Leaderboard(limit int) ([]model.SprintResult, error) {
	var rs []model.SprintResult
	err := r.DB.Preload("User").Order("score desc, duration_sec asc").Limit(limit).Find(&rs).Error
	return rs, err
}

func (r *SprintRepository) ListResultsByUser(userID uint, limit int) ([]model.SprintResult, error) {
	var rs []model.SprintResult
	err := r.DB.Where("user_id = ?", userID).Order("played_at desc").Limit(limit).Find(&rs).Error
	return rs, err
}
