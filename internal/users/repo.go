package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cropdev/crop-backend/internal/repo"
	"github.com/cropdev/crop-backend/pkg/db/models"
	"github.com/cropdev/crop-backend/pkg/pagination"
)

// Repository persists user accounts.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.DB(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) List(ctx context.Context, page pagination.Page) ([]models.User, error) {
	tx := r.DB(ctx).Model(&models.User{})
	if page.HasSearch() {
		tx = tx.Scopes(repo.ContainsFold(page.Search, "name", "email"))
	}
	var rows []models.User
	if err := tx.Scopes(repo.Paginate(page)).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	values := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		values[k] = v
	}
	values["updated_at"] = time.Now().UTC()
	res := r.DB(ctx).Model(&models.User{}).Where("id = ?", id).Updates(values)
	return res.RowsAffected, res.Error
}

// Delete removes the user. Their posts cascade and their media is kept
// without an uploader.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.User{})
	return res.RowsAffected, res.Error
}
