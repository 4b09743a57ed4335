package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is user-authored content with at most one associated Media.
type Post struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Title       string     `gorm:"column:title;not null"`
	Description *string    `gorm:"column:description"`
	AuthorID    uuid.UUID  `gorm:"column:author_id;type:uuid;not null"`
	MediaID     *uuid.UUID `gorm:"column:media_id;type:uuid"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Post) TableName() string { return "posts" }

func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
