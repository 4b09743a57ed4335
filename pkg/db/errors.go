package db

import (
	"errors"
	"regexp"
	"strings"

	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SQLSTATE codes the translator understands.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgInvalidText         = "22P02"
	pgCheckViolation      = "23514"
	pgStringTooLong       = "22001"
)

// Messages overrides the default message per code for one call site.
type Messages map[pkgerrors.Code]string

var defaultMessages = Messages{
	pkgerrors.CodeNotFound:       "resource not found",
	pkgerrors.CodeDuplicateField: "a record with this value already exists",
	pkgerrors.CodeForeignKey:     "related record does not exist",
	pkgerrors.CodeInvalidInput:   "invalid input",
	pkgerrors.CodeBadRequest:     "bad request",
	pkgerrors.CodeInternal:       "internal server error",
}

func (m Messages) message(code pkgerrors.Code) string {
	if msg, ok := m[code]; ok && msg != "" {
		return msg
	}
	return defaultMessages[code]
}

// TranslateError maps persistence failures onto the error taxonomy.
// Typed errors pass through unchanged; nil stays nil.
func TranslateError(err error, msgs Messages) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msgs.message(pkgerrors.CodeNotFound))
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return duplicate(err, msgs, nil)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return foreignKey(err, msgs, "")
	case errors.Is(err, gorm.ErrInvalidData), errors.Is(err, gorm.ErrInvalidField):
		return pkgerrors.Wrap(pkgerrors.CodeInvalidInput, err, msgs.message(pkgerrors.CodeInvalidInput))
	}

	if code, constraint, column, ok := sqlState(err); ok {
		switch code {
		case pgUniqueViolation:
			return duplicate(err, msgs, fieldsFromConstraint(constraint))
		case pgForeignKeyViolation:
			return foreignKey(err, msgs, fieldFromConstraint(constraint))
		case pgInvalidText, pgStringTooLong, pgCheckViolation:
			return pkgerrors.Wrap(pkgerrors.CodeInvalidInput, err, msgs.message(pkgerrors.CodeInvalidInput))
		case pgNotNullViolation:
			wrapped := pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, msgs.message(pkgerrors.CodeBadRequest))
			if column != "" {
				wrapped.WithDetails(map[string]any{"field": column})
			}
			return wrapped
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return duplicate(err, msgs, fieldsFromMessage(msg))
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return foreignKey(err, msgs, "")
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, msgs.message(pkgerrors.CodeBadRequest))
	}

	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msgs.message(pkgerrors.CodeInternal))
}

func duplicate(err error, msgs Messages, fields []string) error {
	wrapped := pkgerrors.Wrap(pkgerrors.CodeDuplicateField, err, msgs.message(pkgerrors.CodeDuplicateField))
	if len(fields) > 0 {
		wrapped.WithDetails(map[string]any{"fields": fields})
	}
	return wrapped
}

func foreignKey(err error, msgs Messages, field string) error {
	wrapped := pkgerrors.Wrap(pkgerrors.CodeForeignKey, err, msgs.message(pkgerrors.CodeForeignKey))
	if field != "" {
		wrapped.WithDetails(map[string]any{"field": field})
	}
	return wrapped
}

func sqlState(err error) (code, constraint, column string, ok bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName, pgxErr.ColumnName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, pqErr.Column, true
	}
	return "", "", "", false
}

// fieldsFromConstraint turns "media_object_key_key" or "ux_users_email" into
// the column list it guards. Table prefixes are stripped when recognised.
func fieldsFromConstraint(constraint string) []string {
	name := strings.TrimSpace(constraint)
	if name == "" {
		return nil
	}
	name = strings.TrimPrefix(name, "ux_")
	name = strings.TrimSuffix(name, "_key")
	for _, table := range knownTables {
		if strings.HasPrefix(name, table+"_") {
			name = strings.TrimPrefix(name, table+"_")
			break
		}
	}
	return []string{name}
}

func fieldFromConstraint(constraint string) string {
	name := strings.TrimSpace(constraint)
	name = strings.TrimPrefix(name, "fk_")
	name = strings.TrimSuffix(name, "_fkey")
	for _, table := range knownTables {
		if strings.HasPrefix(name, table+"_") {
			return strings.TrimPrefix(name, table+"_")
		}
	}
	return name
}

var knownTables = []string{"media", "posts", "users"}

var sqliteUniqueColumns = regexp.MustCompile(`UNIQUE constraint failed: ([\w., ]+)`)

// fieldsFromMessage extracts columns from a SQLite unique failure message.
func fieldsFromMessage(msg string) []string {
	m := sqliteUniqueColumns.FindStringSubmatch(msg)
	if len(m) < 2 {
		return nil
	}
	var out []string
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if idx := strings.LastIndex(part, "."); idx >= 0 {
			part = part[idx+1:]
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsUniqueViolation reports whether err is a unique constraint failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	code, _, _, ok := sqlState(err)
	return ok && code == pgUniqueViolation
}
