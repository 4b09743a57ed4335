package posts

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cropdev/crop-backend/pkg/auth"
	"github.com/cropdev/crop-backend/pkg/db"
	"github.com/cropdev/crop-backend/pkg/db/models"
	"github.com/cropdev/crop-backend/pkg/enums"
	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
	"github.com/cropdev/crop-backend/pkg/pagination"
	"github.com/cropdev/crop-backend/pkg/validation"
)

// ListBounds are the accepted pagination ranges for post listings.
var ListBounds = pagination.Bounds{
	DefaultTake: pagination.DefaultTake,
	MaxTake:     pagination.MaxTake,
	MaxSkip:     100,
	SearchMin:   3,
	SearchMax:   100,
}

var dbMessages = db.Messages{
	pkgerrors.CodeNotFound:   "post not found",
	pkgerrors.CodeForeignKey: "referenced media does not exist",
}

type postRepository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	List(ctx context.Context, page pagination.Page) ([]models.Post, error)
	UpdateScoped(ctx context.Context, id uuid.UUID, author *uuid.UUID, updates map[string]any) (int64, error)
	DeleteScoped(ctx context.Context, id uuid.UUID, author *uuid.UUID) (int64, error)
}

// Service manages posts and their optional media reference.
type Service interface {
	Create(ctx context.Context, actor *auth.Actor, input CreateInput) (*models.Post, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Post, error)
	List(ctx context.Context, params pagination.Params) ([]models.Post, error)
	Update(ctx context.Context, actor *auth.Actor, id uuid.UUID, input UpdateInput) (*models.Post, error)
	Delete(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*models.Post, error)
}

// CreateInput carries a new post. MediaID is only checked by the foreign key.
type CreateInput struct {
	Title       string     `json:"title" validate:"trimmed_min=3,max=100"`
	Description *string    `json:"description,omitempty" validate:"omitempty,trimmed_min=10,max=1000"`
	MediaID     *uuid.UUID `json:"mediaId,omitempty"`
}

// UpdateInput changes a post. ClearMedia detaches the media reference.
type UpdateInput struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,trimmed_min=3,max=100"`
	Description *string    `json:"description,omitempty" validate:"omitempty,trimmed_min=10,max=1000"`
	MediaID     *uuid.UUID `json:"mediaId,omitempty"`
	ClearMedia  bool       `json:"-"`
}

type service struct {
	repo postRepository
}

func NewService(repo postRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("post repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, actor *auth.Actor, input CreateInput) (*models.Post, error) {
	if err := auth.Require(actor, enums.RolePublic); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       strings.TrimSpace(input.Title),
		Description: trimmed(input.Description),
		AuthorID:    actor.UserID,
		MediaID:     input.MediaID,
	}
	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, db.TranslateError(err, dbMessages)
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.TranslateError(err, dbMessages)
	}
	return post, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.Post, error) {
	page, err := ListBounds.Validate(params)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, db.TranslateError(err, dbMessages)
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, actor *auth.Actor, id uuid.UUID, input UpdateInput) (*models.Post, error) {
	if err := auth.Require(actor, enums.RolePublic); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	switch {
	case input.ClearMedia:
		updates["media_id"] = nil
	case input.MediaID != nil:
		updates["media_id"] = *input.MediaID
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "nothing to update")
	}

	affected, err := s.repo.UpdateScoped(ctx, id, actor.OwnerScope(), updates)
	if err != nil {
		return nil, db.TranslateError(err, dbMessages)
	}
	if affected == 0 {
		return nil, s.missOrForbidden(ctx, id)
	}
	return s.Get(ctx, id)
}

// Delete removes the post. Its media is left in place.
func (s *service) Delete(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*models.Post, error) {
	if err := auth.Require(actor, enums.RolePublic); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	affected, err := s.repo.DeleteScoped(ctx, id, actor.OwnerScope())
	if err != nil {
		return nil, db.TranslateError(err, dbMessages)
	}
	if affected == 0 {
		return nil, s.missOrForbidden(ctx, id)
	}
	return existing, nil
}

func (s *service) missOrForbidden(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return pkgerrors.Unauthorized("you are not allowed to modify this post")
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	clean := strings.TrimSpace(*value)
	return &clean
}
