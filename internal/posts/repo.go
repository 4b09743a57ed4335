package posts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cropdev/crop-backend/internal/repo"
	"github.com/cropdev/crop-backend/pkg/db/models"
	"github.com/cropdev/crop-backend/pkg/pagination"
)

// Repository persists posts.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := r.DB(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var p models.Post
	if err := r.DB(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns posts newest first, optionally filtered by a title/description search.
func (r *Repository) List(ctx context.Context, page pagination.Page) ([]models.Post, error) {
	tx := r.DB(ctx).Model(&models.Post{})
	if page.HasSearch() {
		tx = tx.Scopes(repo.ContainsFold(page.Search, "title", "description"))
	}
	var rows []models.Post
	if err := tx.Scopes(repo.Paginate(page)).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateScoped updates the post in one statement, restricted to author when set.
func (r *Repository) UpdateScoped(ctx context.Context, id uuid.UUID, author *uuid.UUID, updates map[string]any) (int64, error) {
	values := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		values[k] = v
	}
	values["updated_at"] = time.Now().UTC()
	res := scopedToAuthor(r.DB(ctx).Model(&models.Post{}).Where("id = ?", id), author).Updates(values)
	return res.RowsAffected, res.Error
}

func (r *Repository) DeleteScoped(ctx context.Context, id uuid.UUID, author *uuid.UUID) (int64, error) {
	res := scopedToAuthor(r.DB(ctx).Where("id = ?", id), author).Delete(&models.Post{})
	return res.RowsAffected, res.Error
}

func scopedToAuthor(tx *gorm.DB, author *uuid.UUID) *gorm.DB {
	if author == nil {
		return tx
	}
	return tx.Where("author_id = ?", *author)
}
