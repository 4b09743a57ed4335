package posts

import (
	"time"

	"github.com/google/uuid"

	"github.com/cropdev/crop-backend/pkg/db/models"
)

// DTO is the client-facing post shape.
type DTO struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	AuthorID    uuid.UUID  `json:"authorId"`
	MediaID     *uuid.UUID `json:"mediaId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func ToDTO(p *models.Post) DTO {
	return DTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		AuthorID:    p.AuthorID,
		MediaID:     p.MediaID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
