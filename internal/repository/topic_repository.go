package repository

import (
	"eduforge_backend/internal/model"

	"gorm.io/gorm"
)

type TopicRepository struct {
	DB *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: db}
}

func (r *TopicRepository) Create(t *model.Topic) error {
	return r.DB.Create(t).Error
}

func (r *TopicRepository) FindByID(id uint) (*model.Topic, error) {
	var t model.Topic
	err := r.DB.First(&t, id).Error
	return &t, err
}

func (r *TopicRepository) List(page, limit int, publishedOnly bool) ([]model.Topic, int64, error) {
	var ts []model.Topic
	var total int64
	query := r.DB.Model(&model.Topic{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("`order` asc, created_at desc").Offset(offset).Limit(limit).Find(&ts).Error
	return ts, total, err
}

func (r *TopicRepository) Update(t *model.Topic) error {
	return r.DB.Save(t).Error
}

func (r *TopicRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Topic{}, id).Error
}
