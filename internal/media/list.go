package media

import (
	"context"

	"github.com/cropdev/crop-backend/pkg/db"
	"github.com/cropdev/crop-backend/pkg/db/models"
	"github.com/cropdev/crop-backend/pkg/enums"
	"github.com/cropdev/crop-backend/pkg/pagination"
)

// ListBounds are the accepted pagination ranges for media listings.
var ListBounds = pagination.Bounds{
	DefaultTake: pagination.DefaultTake,
	MaxTake:     pagination.MaxTake,
	MaxSkip:     1000,
	SearchMin:   1,
	SearchMax:   100,
}

// ListParams configures media listing filters and pagination.
type ListParams struct {
	Take   *int
	Skip   *int
	Type   *enums.MediaType
	Search *string
}

func (s *service) List(ctx context.Context, params ListParams) ([]models.Media, error) {
	page, err := ListBounds.Validate(pagination.Params{
		Take:   params.Take,
		Skip:   params.Skip,
		Search: params.Search,
	})
	if err != nil {
		return nil, err
	}
	if params.Type != nil && !params.Type.IsValid() {
		return nil, fieldError("type")
	}

	rows, err := s.repo.List(ctx, ListQuery{Page: page, Type: params.Type})
	if err != nil {
		return nil, db.TranslateError(err, dbMessages)
	}
	return rows, nil
}
