package media

import (
	"time"

	"github.com/google/uuid"

	"github.com/cropdev/crop-backend/pkg/db/models"
	"github.com/cropdev/crop-backend/pkg/enums"
)

// DTO is the client-facing representation of a media record.
type DTO struct {
	ID         uuid.UUID       `json:"id"`
	ObjectKey  string          `json:"objectKey"`
	URL        string          `json:"url"`
	Alt        *string         `json:"alt"`
	Type       enums.MediaType `json:"type"`
	Size       int64           `json:"size"`
	MimeType   string          `json:"mimeType"`
	Filename   string          `json:"filename"`
	UploadedBy *uuid.UUID      `json:"uploadedBy"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ToDTO maps a media model to its client shape.
func ToDTO(m *models.Media) DTO {
	return DTO{
		ID:         m.ID,
		ObjectKey:  m.ObjectKey,
		URL:        m.URL,
		Alt:        m.Alt,
		Type:       m.Type,
		Size:       m.Size,
		MimeType:   m.MimeType,
		Filename:   m.Filename,
		UploadedBy: m.UploadedBy,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
