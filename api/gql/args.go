package gql

import (
	"strings"

	"github.com/google/uuid"

	"github.com/cropdev/crop-backend/pkg/enums"
	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
)

func invalidField(field string) error {
	return pkgerrors.InvalidInput("invalid input").WithDetails(map[string]any{"field": field})
}

func parseID(raw any, field string) (uuid.UUID, error) {
	s, _ := raw.(string)
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, invalidField(field)
	}
	return id, nil
}

func optionalInt(args map[string]interface{}, key string) *int {
	if v, ok := args[key].(int); ok {
		return &v
	}
	return nil
}

func optionalString(args map[string]interface{}, key string) *string {
	if v, ok := args[key].(string); ok {
		return &v
	}
	return nil
}

func inputMap(args map[string]interface{}) map[string]interface{} {
	if in, ok := args["input"].(map[string]interface{}); ok {
		return in
	}
	return map[string]interface{}{}
}

func optionalID(args map[string]interface{}, key string) (*uuid.UUID, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	id, err := parseID(raw, key)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalMediaType(args map[string]interface{}, key string) (*enums.MediaType, error) {
	raw, ok := args[key].(string)
	if !ok {
		return nil, nil
	}
	mediaType, err := enums.ParseMediaType(strings.ToUpper(strings.TrimSpace(raw)))
	if err != nil {
		return nil, invalidField(key)
	}
	return &mediaType, nil
}

func optionalRole(args map[string]interface{}, key string) *enums.Role {
	if v, ok := args[key].(enums.Role); ok {
		return &v
	}
	return nil
}
