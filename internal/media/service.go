package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/cropdev/crop-backend/pkg/auth"
	"github.com/cropdev/crop-backend/pkg/db"
	"github.com/cropdev/crop-backend/pkg/db/models"
	"github.com/cropdev/crop-backend/pkg/enums"
	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
	"github.com/cropdev/crop-backend/pkg/logger"
	"github.com/cropdev/crop-backend/pkg/metrics"
	"github.com/cropdev/crop-backend/pkg/validation"
)

const (
	DefaultMaxUploadBytes = 100 << 20

	maxAltLength      = 500
	maxPrefixLength   = 100
	maxFilenameLength = 255

	DefaultSignedURLSeconds = 3600
	MinSignedURLSeconds     = 60
	MaxSignedURLSeconds     = 7 * 24 * 3600
)

type mediaRepository interface {
	Create(ctx context.Context, media *models.Media) (*models.Media, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	List(ctx context.Context, q ListQuery) ([]models.Media, error)
	UpdateScoped(ctx context.Context, id uuid.UUID, owner *uuid.UUID, updates map[string]any) (int64, error)
	DeleteScoped(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (int64, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string, metadata map[string]string) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	GenerateKey(prefix string) string
}

// Service exposes the media upload pipeline and media record operations.
type Service interface {
	Upload(ctx context.Context, actor *auth.Actor, input UploadInput) (*models.Media, error)
	Create(ctx context.Context, actor *auth.Actor, input CreateInput) (*models.Media, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Media, error)
	List(ctx context.Context, params ListParams) ([]models.Media, error)
	Update(ctx context.Context, actor *auth.Actor, id uuid.UUID, input UpdateInput) (*models.Media, error)
	Delete(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*models.Media, error)
	SignedURL(ctx context.Context, media *models.Media, expiresInSeconds int) (string, error)
	MaxUploadBytes() int64
}

// Options tunes the service. Zero values fall back to defaults.
type Options struct {
	MaxUploadBytes int64
	SignedURLTTL   time.Duration
	Metrics        *metrics.UploadMetrics
	Logger         *logger.Logger
}

type service struct {
	repo     mediaRepository
	store    objectStore
	maxBytes int64
	ttl      int
	metrics  *metrics.UploadMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs a media service backed by the repository and object store.
func NewService(repo mediaRepository, store objectStore, opts Options) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	maxBytes := opts.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	ttl := int(opts.SignedURLTTL / time.Second)
	if ttl < MinSignedURLSeconds || ttl > MaxSignedURLSeconds {
		ttl = DefaultSignedURLSeconds
	}
	return &service{
		repo:     repo,
		store:    store,
		maxBytes: maxBytes,
		ttl:      ttl,
		metrics:  opts.Metrics,
		logg:     opts.Logger,
		now:      time.Now,
	}, nil
}

// UploadInput is one file received by the upload endpoint.
type UploadInput struct {
	Data             []byte
	Filename         string
	DeclaredMimeType string
	Alt              string
	Prefix           string
}

// CreateInput registers an object that is already in the store.
type CreateInput struct {
	ObjectKey string
	URL       string
	Alt       *string
	Type      enums.MediaType
	Size      int64
	MimeType  string
	Filename  string
}

// UpdateInput changes mutable fields. Nil fields are left untouched.
type UpdateInput struct {
	Alt *string
	URL *string
}

var dbMessages = db.Messages{
	pkgerrors.CodeNotFound:       "media not found",
	pkgerrors.CodeDuplicateField: "media with this object key already exists",
}

func (s *service) MaxUploadBytes() int64 {
	return s.maxBytes
}

func (s *service) Upload(ctx context.Context, actor *auth.Actor, input UploadInput) (*models.Media, error) {
	started := s.now()
	media, mediaType, err := s.upload(ctx, actor, input)
	if err != nil {
		s.metrics.ObserveFailure(mediaType.String(), string(pkgerrors.CodeOf(err)))
		return nil, err
	}
	s.metrics.ObserveSuccess(mediaType.String(), media.Size, s.now().Sub(started))
	return media, nil
}

func (s *service) upload(ctx context.Context, actor *auth.Actor, input UploadInput) (*models.Media, enums.MediaType, error) {
	if err := auth.Require(actor, enums.RoleCollaborator); err != nil {
		return nil, "", err
	}

	if input.Data == nil && strings.TrimSpace(input.Filename) == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeBadRequest, "file is required")
	}
	size := int64(len(input.Data))
	if size == 0 {
		return nil, "", pkgerrors.New(pkgerrors.CodeBadRequest, "file is empty")
	}
	if size > s.maxBytes {
		return nil, "", pkgerrors.New(pkgerrors.CodePayloadTooLarge, "file exceeds the maximum upload size").
			WithDetails(map[string]any{"maxBytes": s.maxBytes, "size": size})
	}

	mimeType := resolveMimeType(input.DeclaredMimeType, input.Data)
	mediaType, ok := enums.MediaTypeFromMime(mimeType)
	if !ok {
		return nil, "", pkgerrors.New(pkgerrors.CodeUnsupportedMediaType, "file type could not be determined").
			WithDetails(map[string]any{"mimeType": mimeType})
	}
	if !mimeAllowed(mediaType, mimeType) {
		return nil, mediaType, pkgerrors.New(pkgerrors.CodeUnsupportedMediaType, "file type is not allowed").
			WithDetails(map[string]any{"mimeType": mimeType, "type": mediaType.String()})
	}

	alt := strings.TrimSpace(input.Alt)
	if utf8.RuneCountInString(alt) > maxAltLength {
		return nil, mediaType, fieldLengthError("alt", maxAltLength)
	}
	if utf8.RuneCountInString(input.Prefix) > maxPrefixLength {
		return nil, mediaType, fieldLengthError("prefix", maxPrefixLength)
	}
	prefix := sanitizePrefix(input.Prefix)
	if prefix == "" {
		prefix = strings.ToLower(mediaType.String())
	}

	filename := sanitizeFileName(input.Filename)
	if filename == "" {
		filename = "upload"
	}
	filename = truncateRunes(filename, maxFilenameLength)

	key := s.store.GenerateKey(prefix)
	url, err := s.store.Upload(ctx, key, input.Data, mimeType, map[string]string{
		"uploadedBy":   actor.UserID.String(),
		"originalName": input.Filename,
	})
	if err != nil {
		return nil, mediaType, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to store file")
	}

	uploader := actor.UserID
	row := &models.Media{
		ObjectKey:  key,
		URL:        url,
		Type:       mediaType,
		Size:       size,
		MimeType:   mimeType,
		Filename:   filename,
		UploadedBy: &uploader,
	}
	if alt != "" {
		row.Alt = &alt
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		// the object is orphaned without its row
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			err = multierr.Append(err, fmt.Errorf("compensating delete of %q: %w", key, delErr))
		}
		return nil, mediaType, db.TranslateError(err, dbMessages)
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"media_id": created.ID.String(), "object_key": key, "size": size})
		s.logg.Info(ctx, "media.upload.complete")
	}
	return created, mediaType, nil
}

func (s *service) Create(ctx context.Context, actor *auth.Actor, input CreateInput) (*models.Media, error) {
	if err := auth.Require(actor, enums.RoleCollaborator); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(input.ObjectKey)
	if key == "" {
		return nil, requiredFieldError("objectKey")
	}
	if err := validation.Var("url", strings.TrimSpace(input.URL), "required,http_url"); err != nil {
		return nil, err
	}
	if !input.Type.IsValid() {
		return nil, fieldError("type")
	}
	if input.Size <= 0 {
		return nil, fieldError("size")
	}
	mimeType := normalizeMimeType(input.MimeType)
	if !mimeAllowed(input.Type, mimeType) {
		return nil, pkgerrors.InvalidInput("file type is not allowed").
			WithDetails(map[string]any{"field": "mimeType", "type": input.Type.String()})
	}
	filename := strings.TrimSpace(input.Filename)
	if filename == "" || utf8.RuneCountInString(filename) > maxFilenameLength {
		return nil, fieldLengthError("filename", maxFilenameLength)
	}
	if input.Alt != nil && utf8.RuneCountInString(*input.Alt) > maxAltLength {
		return nil, fieldLengthError("alt", maxAltLength)
	}

	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "internal server error")
	}
	if !exists {
		return nil, pkgerrors.InvalidInput("object does not exist in storage").
			WithDetails(map[string]any{"field": "objectKey"})
	}

	uploader := actor.UserID
	row := &models.Media{
		ObjectKey:  key,
		URL:        strings.TrimSpace(input.URL),
		Alt:        input.Alt,
		Type:       input.Type,
		Size:       input.Size,
		MimeType:   mimeType,
		Filename:   filename,
		UploadedBy: &uploader,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, db.TranslateError(err, dbMessages)
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.TranslateError(err, dbMessages)
	}
	return m, nil
}

func (s *service) Update(ctx context.Context, actor *auth.Actor, id uuid.UUID, input UpdateInput) (*models.Media, error) {
	if err := auth.Require(actor, enums.RoleCollaborator); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Alt != nil {
		if utf8.RuneCountInString(*input.Alt) > maxAltLength {
			return nil, fieldLengthError("alt", maxAltLength)
		}
		updates["alt"] = *input.Alt
	}
	if input.URL != nil {
		url := strings.TrimSpace(*input.URL)
		if url == "" {
			return nil, requiredFieldError("url")
		}
		if err := validation.Var("url", url, "http_url"); err != nil {
			return nil, err
		}
		updates["url"] = url
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

func (s *service) Delete(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*models.Media, error) {
	if err := auth.Require(actor, enums.RoleCollaborator); err != nil {
		return nil, err
	}

	// read first so the deleted record can be returned
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !existing.OwnedBy(actor.UserID) {
		return nil, pkgerrors.Unauthorized("you are not allowed to modify this media")
	}

	affected, err := s.repo.DeleteScoped(ctx, id, actor.OwnerScope())
	if err != nil {
		return nil, db.TranslateError(err, dbMessages)
	}
	if affected == 0 {
		return nil, s.missOrForbidden(ctx, id)
	}

	if err := s.store.Delete(ctx, existing.ObjectKey); err != nil && s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{"media_id": id.String(), "object_key": existing.ObjectKey})
		s.logg.Error(logCtx, "media.delete.object_failed", err)
	}
	return existing, nil
}

// missOrForbidden explains a conditional statement that matched no row.
// Absence wins over authorization.
func (s *service) missOrForbidden(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return pkgerrors.Unauthorized("you are not allowed to modify this media")
}

func (s *service) SignedURL(ctx context.Context, media *models.Media, expiresInSeconds int) (string, error) {
	if media == nil {
		return "", pkgerrors.NotFound("media not found")
	}
	if expiresInSeconds == 0 {
		expiresInSeconds = s.ttl
	}
	if expiresInSeconds < MinSignedURLSeconds || expiresInSeconds > MaxSignedURLSeconds {
		return "", pkgerrors.InvalidInput("invalid input").WithDetails(map[string]any{
			"field": "expiresIn", "min": MinSignedURLSeconds, "max": MaxSignedURLSeconds,
		})
	}
	url, err := s.store.SignedURL(ctx, media.ObjectKey, time.Duration(expiresInSeconds)*time.Second)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "internal server error")
	}
	return url, nil
}

func requiredFieldError(field string) error {
	return pkgerrors.InvalidInput("invalid input").WithDetails(map[string]any{"field": field, "required": true})
}

func fieldError(field string) error {
	return pkgerrors.InvalidInput("invalid input").WithDetails(map[string]any{"field": field})
}

func fieldLengthError(field string, max int) error {
	return pkgerrors.InvalidInput("invalid input").WithDetails(map[string]any{"field": field, "maxLength": max})
}

// sanitizePrefix keeps a safe, lower-case key path: [a-z0-9._-] segments
// joined by "/". Traversal segments are dropped.
func sanitizePrefix(prefix string) string {
	var segments []string
	for _, raw := range strings.Split(strings.ToLower(strings.TrimSpace(prefix)), "/") {
		var b strings.Builder
		for _, r := range raw {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
				b.WriteRune(r)
			case unicode.IsSpace(r):
				b.WriteRune('-')
			}
		}
		seg := strings.Trim(b.String(), ".-")
		if seg == "" {
			continue
		}
		segments = append(segments, seg)
	}
	return strings.Join(segments, "/")
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if clean == "." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
