package users

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

// ListBounds are the accepted pagination ranges for user listings.
var ListBounds = pagination.Bounds{
	DefaultTake: pagination.DefaultTake,
	MaxTake:     pagination.MaxTake,
	MaxSkip:     1000,
	SearchMin:   3,
	SearchMax:   50,
}

var dbMessages = db.Messages{
	pkgerrors.CodeNotFound:       "user not found",
	pkgerrors.CodeDuplicateField: "user with this email already exists",
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, page pagination.Page) ([]models.User, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// Service manages user accounts. Sign-in itself belongs to the identity
// provider; this service only reads and edits the shared user rows.
type Service interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Me(ctx context.Context, actor *auth.Actor) (*models.User, error)
	Get(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, actor *auth.Actor, params pagination.Params) ([]models.User, error)
	UpdateMe(ctx context.Context, actor *auth.Actor, input ProfileInput) (*models.User, error)
	DeleteMe(ctx context.Context, actor *auth.Actor) (*models.User, error)
	UpdateUser(ctx context.Context, actor *auth.Actor, id uuid.UUID, input AdminUpdateInput) (*models.User, error)
	DeleteUser(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*models.User, error)
}

// ProfileInput is what users may change about themselves.
type ProfileInput struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,trimmed_min=2,max=100"`
	Image *string `json:"image,omitempty" validate:"omitempty,http_url"`
}

// AdminUpdateInput additionally lets an admin change the role.
type AdminUpdateInput struct {
	ProfileInput
	Role *enums.Role `json:"role,omitempty"`
}

type service struct {
	repo userRepository
}

func NewService(repo userRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.TranslateError(err, dbMessages)
	}
	return u, nil
}

// Me returns nil without error for anonymous callers.
func (s *service) Me(ctx context.Context, actor *auth.Actor) (*models.User, error) {
	if !actor.Authenticated() {
		return nil, nil
	}
	return s.FindByID(ctx, actor.UserID)
}

func (s *service) Get(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*models.User, error) {
	if err := auth.Require(actor, enums.RoleAdmin); err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, actor *auth.Actor, params pagination.Params) ([]models.User, error) {
	if err := auth.Require(actor, enums.RoleAdmin); err != nil {
		return nil, err
	}
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

func (s *service) UpdateMe(ctx context.Context, actor *auth.Actor, input ProfileInput) (*models.User, error) {
	if err := auth.Require(actor, enums.RolePublic); err != nil {
		return nil, err
	}
	updates, err := profileUpdates(input)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, actor.UserID, updates)
}

func (s *service) DeleteMe(ctx context.Context, actor *auth.Actor) (*models.User, error) {
	if err := auth.Require(actor, enums.RolePublic); err != nil {
		return nil, err
	}
	return s.remove(ctx, actor.UserID)
}

func (s *service) UpdateUser(ctx context.Context, actor *auth.Actor, id uuid.UUID, input AdminUpdateInput) (*models.User, error) {
	if err := auth.Require(actor, enums.RoleAdmin); err != nil {
		return nil, err
	}
	updates, err := profileUpdates(input.ProfileInput)
	if err != nil && !pkgerrors.Is(err, pkgerrors.CodeBadRequest) {
		return nil, err
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.InvalidInput("invalid input").WithDetails(map[string]any{"field": "role"})
		}
		if updates == nil {
			updates = map[string]any{}
		}
		updates["role"] = *input.Role
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "nothing to update")
	}
	return s.apply(ctx, id, updates)
}

func (s *service) DeleteUser(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*models.User, error) {
	if err := auth.Require(actor, enums.RoleAdmin); err != nil {
		return nil, err
	}
	return s.remove(ctx, id)
}

func (s *service) apply(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.User, error) {
	affected, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, db.TranslateError(err, dbMessages)
	}
	if affected == 0 {
		return nil, pkgerrors.NotFound("user not found")
	}
	return s.FindByID(ctx, id)
}

func (s *service) remove(ctx context.Context, id uuid.UUID) (*models.User, error) {
	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, db.TranslateError(err, dbMessages)
	}
	if affected == 0 {
		return nil, pkgerrors.NotFound("user not found")
	}
	return existing, nil
}

func profileUpdates(input ProfileInput) (map[string]any, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Image != nil {
		updates["image"] = strings.TrimSpace(*input.Image)
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "nothing to update")
	}
	return updates, nil
}
