package media

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cropdev/crop-backend/internal/repo"
	"github.com/cropdev/crop-backend/pkg/db/models"
	"github.com/cropdev/crop-backend/pkg/enums"
	"github.com/cropdev/crop-backend/pkg/pagination"
)

// Repository exposes media metadata persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a media repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListQuery filters a media listing.
type ListQuery struct {
	Page pagination.Page
	Type *enums.MediaType
}

// Create persists a media record.
func (r *Repository) Create(ctx context.Context, media *models.Media) (*models.Media, error) {
	if err := r.DB(ctx).Create(media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

// FindByID retrieves a media record by ID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var m models.Media
	if err := r.DB(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns media newest first.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Media, error) {
	tx := r.DB(ctx).Model(&models.Media{})
	if q.Type != nil {
		tx = tx.Where("type = ?", *q.Type)
	}
	if q.Page.HasSearch() {
		tx = tx.Scopes(repo.ContainsFold(q.Page.Search, "filename", "alt"))
	}

	var rows []models.Media
	err := tx.Scopes(repo.Paginate(q.Page)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateScoped applies updates in a single statement. When owner is set the
// row must also belong to that user. The affected row count tells the caller
// whether the predicate matched.
func (r *Repository) UpdateScoped(ctx context.Context, id uuid.UUID, owner *uuid.UUID, updates map[string]any) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	values := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		values[k] = v
	}
	values["updated_at"] = time.Now().UTC()

	res := scopedToOwner(r.DB(ctx).Model(&models.Media{}).Where("id = ?", id), owner).Updates(values)
	return res.RowsAffected, res.Error
}

// DeleteScoped deletes the row in a single statement, honouring owner like UpdateScoped.
func (r *Repository) DeleteScoped(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (int64, error) {
	res := scopedToOwner(r.DB(ctx).Where("id = ?", id), owner).Delete(&models.Media{})
	return res.RowsAffected, res.Error
}

func scopedToOwner(tx *gorm.DB, owner *uuid.UUID) *gorm.DB {
	if owner == nil {
		return tx
	}
	return tx.Where("uploaded_by = ?", *owner)
}
