package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cropdev/crop-backend/pkg/enums"
)

// User is the account record shared with the identity provider.
type User struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Email         string     `gorm:"column:email;not null;uniqueIndex"`
	Name          string     `gorm:"column:name;not null"`
	EmailVerified bool       `gorm:"column:email_verified;not null;default:false"`
	Image         *string    `gorm:"column:image"`
	Role          enums.Role `gorm:"column:role;not null;default:PUBLIC"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = enums.RolePublic
	}
	return nil
}
