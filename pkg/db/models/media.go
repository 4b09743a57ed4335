package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cropdev/crop-backend/pkg/enums"
)

// Media captures metadata for an object held in the object store.
type Media struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ObjectKey  string          `gorm:"column:object_key;not null;unique"`
	URL        string          `gorm:"column:url;not null"`
	Alt        *string         `gorm:"column:alt"`
	Type       enums.MediaType `gorm:"column:type;not null"`
	Size       int64           `gorm:"column:size;not null"`
	MimeType   string          `gorm:"column:mime_type;not null"`
	Filename   string          `gorm:"column:filename;not null"`
	UploadedBy *uuid.UUID      `gorm:"column:uploaded_by;type:uuid"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Media) TableName() string { return "media" }

// BeforeCreate assigns the primary key so every dialect gets the same ids.
func (m *Media) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// OwnedBy reports whether userID uploaded the media.
func (m Media) OwnedBy(userID uuid.UUID) bool {
	return m.UploadedBy != nil && *m.UploadedBy == userID
}
