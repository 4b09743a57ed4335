package db

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslateErrorNil(t *testing.T) {
	require.NoError(t, TranslateError(nil, nil))
}

func TestTranslateErrorPassesTypedErrors(t *testing.T) {
	typed := pkgerrors.Unauthorized("nope")
	assert.Same(t, typed, TranslateError(typed, nil))
}

func TestTranslateErrorRecordNotFound(t *testing.T) {
	err := TranslateError(fmt.Errorf("find: %w", gorm.ErrRecordNotFound), Messages{pkgerrors.CodeNotFound: "media not found"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "media not found", typed.Message())
}

func TestTranslateErrorPostgresCodes(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    pkgerrors.Code
		details any
	}{
		{
			name:    "unique pgx",
			err:     &pgconn.PgError{Code: "23505", ConstraintName: "media_object_key_key"},
			code:    pkgerrors.CodeDuplicateField,
			details: map[string]any{"fields": []string{"object_key"}},
		},
		{
			name:    "foreign key pgx",
			err:     &pgconn.PgError{Code: "23503", ConstraintName: "posts_media_id_fkey"},
			code:    pkgerrors.CodeForeignKey,
			details: map[string]any{"field": "media_id"},
		},
		{
			name: "invalid text pq",
			err:  &pq.Error{Code: "22P02"},
			code: pkgerrors.CodeInvalidInput,
		},
		{
			name:    "not null pq",
			err:     &pq.Error{Code: "23502", Column: "title"},
			code:    pkgerrors.CodeBadRequest,
			details: map[string]any{"field": "title"},
		},
		{
			name: "unknown",
			err:  &pgconn.PgError{Code: "40001"},
			code: pkgerrors.CodeInternal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			typed := pkgerrors.As(TranslateError(tc.err, nil))
			require.NotNil(t, typed)
			assert.Equal(t, tc.code, typed.Code())
			assert.Equal(t, tc.details, typed.Details())
			assert.True(t, errors.Is(typed, tc.err))
		})
	}
}

func TestTranslateErrorSQLiteMessages(t *testing.T) {
	typed := pkgerrors.As(TranslateError(errors.New("UNIQUE constraint failed: users.email"), Messages{
		pkgerrors.CodeDuplicateField: "user with this email already exists",
	}))
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDuplicateField, typed.Code())
	assert.Equal(t, "user with this email already exists", typed.Message())
	assert.Equal(t, map[string]any{"fields": []string{"email"}}, typed.Details())

	typed = pkgerrors.As(TranslateError(errors.New("FOREIGN KEY constraint failed"), nil))
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForeignKey, typed.Code())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, IsUniqueViolation(errors.New("other")))
	assert.False(t, IsUniqueViolation(nil))
}
