package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
)

// OptionalQueryInt returns nil when key is absent. Range checks are left to
// the service so REST and GraphQL share the same bounds.
func OptionalQueryInt(r *http.Request, key string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, pkgerrors.InvalidInput("invalid input").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

// OptionalQueryString returns nil when key is absent from the query string.
func OptionalQueryString(r *http.Request, key string) *string {
	values, ok := r.URL.Query()[key]
	if !ok || len(values) == 0 {
		return nil
	}
	value := values[0]
	return &value
}

// PathUUID parses a chi URL parameter as a UUID.
func PathUUID(r *http.Request, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, key)))
	if err != nil {
		return uuid.Nil, pkgerrors.InvalidInput("invalid input").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}
