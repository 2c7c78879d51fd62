package model

import "time"

// Topic 一个学习主题，包含若干检查点测验和一个结课测评
type Topic struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Order       int        `gorm:"default:0" json:"order"`
	IsPublished bool       `gorm:"default:false" json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatorID   uint       `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (Topic) TableName() string {
	return "topics"
}
