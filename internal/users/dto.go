package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/cropdev/crop-backend/pkg/db/models"
	"github.com/cropdev/crop-backend/pkg/enums"
)

// DTO is the client-facing user shape, including the derived capabilities.
type DTO struct {
	ID            uuid.UUID          `json:"id"`
	Email         string             `json:"email"`
	Name          string             `json:"name"`
	EmailVerified bool               `json:"emailVerified"`
	Image         *string            `json:"image"`
	Role          enums.Role         `json:"role"`
	Capabilities  enums.Capabilities `json:"capabilities"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

func ToDTO(u *models.User) DTO {
	return DTO{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		EmailVerified: u.EmailVerified,
		Image:         u.Image,
		Role:          u.Role,
		Capabilities:  u.Role.Capabilities(),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
