package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cropdev/crop-backend/api/middleware"
	"github.com/cropdev/crop-backend/internal/media"
	"github.com/cropdev/crop-backend/pkg/auth"
	"github.com/cropdev/crop-backend/pkg/db/models"
	"github.com/cropdev/crop-backend/pkg/enums"
	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
)

type stubMediaService struct {
	media.Service
	maxBytes   int64
	uploadErr  error
	lastUpload media.UploadInput
	lastActor  *auth.Actor
	lastList   media.ListParams
	rows       []models.Media
}

func (s *stubMediaService) MaxUploadBytes() int64 { return s.maxBytes }

func (s *stubMediaService) Upload(_ context.Context, actor *auth.Actor, input media.UploadInput) (*models.Media, error) {
	s.lastUpload = input
	s.lastActor = actor
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	uploader := actor.UserID
	return &models.Media{
		ID:         uuid.New(),
		ObjectKey:  "image/abc",
		URL:        "https://cdn.example.com/image/abc",
		Type:       enums.MediaTypeImage,
		Size:       int64(len(input.Data)),
		MimeType:   input.DeclaredMimeType,
		Filename:   input.Filename,
		UploadedBy: &uploader,
	}, nil
}

func (s *stubMediaService) List(_ context.Context, params media.ListParams) ([]models.Media, error) {
	s.lastList = params
	return s.rows, nil
}

func (s *stubMediaService) Get(_ context.Context, id uuid.UUID) (*models.Media, error) {
	for i := range s.rows {
		if s.rows[i].ID == id {
			return &s.rows[i], nil
		}
	}
	return nil, pkgerrors.NotFound("media not found")
}

func multipartRequest(t *testing.T, withFile bool, content []byte, contentType string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if withFile {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="photo.png"`)
		h.Set("Content-Type", contentType)
		part, err := writer.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/media/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	actor := &auth.Actor{UserID: uuid.New(), Role: enums.RoleCollaborator}
	return req.WithContext(middleware.WithActor(req.Context(), actor))
}

func TestMediaUploadCreated(t *testing.T) {
	svc := &stubMediaService{maxBytes: 1024}
	req := multipartRequest(t, true, []byte("png-bytes"), "image/png", map[string]string{"alt": "a field", "prefix": "posts"})
	rec := httptest.NewRecorder()

	MediaUpload(svc, nil)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastUpload.Alt != "a field" || svc.lastUpload.Prefix != "posts" {
		t.Fatalf("form fields not forwarded: %+v", svc.lastUpload)
	}
	if svc.lastUpload.DeclaredMimeType != "image/png" || svc.lastUpload.Filename != "photo.png" {
		t.Fatalf("file metadata not forwarded: %+v", svc.lastUpload)
	}
	if svc.lastActor == nil {
		t.Fatalf("actor should be passed to the service")
	}

	var body struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data["objectKey"] != "image/abc" || body.Data["type"] != "IMAGE" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestMediaUploadMissingFile(t *testing.T) {
	svc := &stubMediaService{maxBytes: 1024}
	req := multipartRequest(t, false, nil, "", map[string]string{"alt": "x"})
	rec := httptest.NewRecorder()

	MediaUpload(svc, nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMediaUploadTooLarge(t *testing.T) {
	svc := &stubMediaService{maxBytes: 16}
	req := multipartRequest(t, true, bytes.Repeat([]byte("a"), 64), "image/png", nil)
	rec := httptest.NewRecorder()

	MediaUpload(svc, nil)(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	if svc.lastUpload.Data != nil {
		t.Fatalf("service must not be called for oversized files")
	}
}

func TestMediaUploadBodyOverLimit(t *testing.T) {
	svc := &stubMediaService{maxBytes: 16}
	req := multipartRequest(t, true, bytes.Repeat([]byte("a"), multipartOverhead+64), "image/png", nil)
	rec := httptest.NewRecorder()

	MediaUpload(svc, nil)(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

func TestMediaUploadPropagatesServiceErrors(t *testing.T) {
	svc := &stubMediaService{maxBytes: 1024, uploadErr: pkgerrors.New(pkgerrors.CodeUnsupportedMediaType, "file type is not allowed")}
	req := multipartRequest(t, true, []byte("x"), "application/zip", nil)
	rec := httptest.NewRecorder()

	MediaUpload(svc, nil)(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
}

func TestMediaUploadRejectsNonMultipart(t *testing.T) {
	svc := &stubMediaService{maxBytes: 1024}
	req := httptest.NewRequest(http.MethodPost, "/api/media/upload", bytes.NewBufferString(`{"file":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	MediaUpload(svc, nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMediaListParsesQuery(t *testing.T) {
	svc := &stubMediaService{rows: []models.Media{{ID: uuid.New(), Type: enums.MediaTypeVideo}}}
	req := httptest.NewRequest(http.MethodGet, "/api/media?take=5&skip=0&type=video&search=clip", nil)
	rec := httptest.NewRecorder()

	MediaList(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastList.Take == nil || *svc.lastList.Take != 5 {
		t.Fatalf("take not forwarded: %+v", svc.lastList)
	}
	if svc.lastList.Type == nil || *svc.lastList.Type != enums.MediaTypeVideo {
		t.Fatalf("type not parsed: %+v", svc.lastList)
	}
	if svc.lastList.Search == nil || *svc.lastList.Search != "clip" {
		t.Fatalf("search not forwarded: %+v", svc.lastList)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/media?type=document", nil)
	rec = httptest.NewRecorder()
	MediaList(svc, nil)(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", rec.Code)
	}
}

func TestMediaGetNotFound(t *testing.T) {
	svc := &stubMediaService{}
	r := chi.NewRouter()
	r.Get("/api/media/{id}", MediaGet(svc, nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/media/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/media/not-a-uuid", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
