package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
)

type sample struct {
	Title string  `json:"title" validate:"trimmed_min=3,max=10"`
	Image *string `json:"image,omitempty" validate:"omitempty,http_url"`
	Role  string  `json:"role,omitempty" validate:"omitempty,oneof=PUBLIC ADMIN"`
}

func TestStructValid(t *testing.T) {
	img := "https://example.com/a.png"
	require.NoError(t, Struct(sample{Title: "hello", Image: &img}))
}

func TestStructReportsFieldsByJSONName(t *testing.T) {
	img := "ftp://example.com/a.png"
	err := Struct(sample{Title: "  a  ", Image: &img, Role: "ROOT"})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInvalidInput, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be at least 3 characters", details["title"])
	assert.Equal(t, "must be a valid URL", details["image"])
	assert.Contains(t, details["role"], "must be one of")
}

func TestStructMax(t *testing.T) {
	err := Struct(sample{Title: "this title is too long"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "must be at most 10 characters", typed.Details().(map[string]string)["title"])
}

func TestVar(t *testing.T) {
	require.NoError(t, Var("url", "https://cdn.example.com/a", "required,http_url"))

	err := Var("url", "not a url", "required,http_url")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "must be a valid URL", typed.Details().(map[string]string)["url"])

	err = Var("url", "", "required,http_url")
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "is required", typed.Details().(map[string]string)["url"])
}
