package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/cropdev/crop-backend/api/middleware"
	"github.com/cropdev/crop-backend/api/responses"
	"github.com/cropdev/crop-backend/api/validators"
	"github.com/cropdev/crop-backend/internal/media"
	"github.com/cropdev/crop-backend/pkg/enums"
	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
	"github.com/cropdev/crop-backend/pkg/logger"
)

const (
	uploadFileField = "file"
	// multipart framing and the text fields on top of the file itself
	multipartOverhead = 1 << 20
	// parts beyond this are spooled to disk by net/http
	multipartMemory = 32 << 20
)

// MediaUpload accepts a multipart form with file, alt and prefix fields and
// stores it through the media pipeline.
func MediaUpload(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		maxBytes := svc.MaxUploadBytes()
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			responses.WriteError(r.Context(), logg, w, multipartError(err, maxBytes))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, header, err := r.FormFile(uploadFileField)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeBadRequest, "file is required"))
				return
			}
			responses.WriteError(r.Context(), logg, w, multipartError(err, maxBytes))
			return
		}
		defer file.Close()

		if header.Size > maxBytes {
			responses.WriteError(r.Context(), logg, w, tooLarge(maxBytes))
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, multipartError(err, maxBytes))
			return
		}

		created, err := svc.Upload(r.Context(), middleware.ActorFromContext(r.Context()), media.UploadInput{
			Data:             data,
			Filename:         header.Filename,
			DeclaredMimeType: declaredContentType(header),
			Alt:              r.FormValue("alt"),
			Prefix:           r.FormValue("prefix"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, media.ToDTO(created))
	}
}

// MediaList serves GET /api/media with take, skip, type and search query parameters.
func MediaList(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		take, err := validators.OptionalQueryInt(r, "take")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		skip, err := validators.OptionalQueryInt(r, "skip")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := media.ListParams{
			Take:   take,
			Skip:   skip,
			Search: validators.OptionalQueryString(r, "search"),
		}
		if raw := validators.OptionalQueryString(r, "type"); raw != nil {
			mediaType, err := enums.ParseMediaType(strings.ToUpper(strings.TrimSpace(*raw)))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.InvalidInput("invalid input").WithDetails(map[string]any{"field": "type"}))
				return
			}
			params.Type = &mediaType
		}

		rows, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]media.DTO, 0, len(rows))
		for i := range rows {
			out = append(out, media.ToDTO(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

func MediaGet(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, media.ToDTO(m))
	}
}

type mediaUpdateRequest struct {
	Alt *string `json:"alt,omitempty" validate:"omitempty,max=500"`
	URL *string `json:"url,omitempty" validate:"omitempty,http_url"`
}

func MediaUpdate(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload mediaUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, media.UpdateInput{
			Alt: payload.Alt,
			URL: payload.URL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, media.ToDTO(updated))
	}
}

func MediaDelete(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deleted, err := svc.Delete(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, media.ToDTO(deleted))
	}
}

// MediaSignedURL returns a time-limited read URL for the media object.
func MediaSignedURL(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		expiresIn, err := validators.OptionalQueryInt(r, "expiresIn")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		seconds := 0
		if expiresIn != nil {
			seconds = *expiresIn
		}
		url, err := svc.SignedURL(r.Context(), m, seconds)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"url": url})
	}
}

func declaredContentType(header *multipart.FileHeader) string {
	if header == nil {
		return ""
	}
	return header.Header.Get("Content-Type")
}

func multipartError(err error, maxBytes int64) error {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large") {
		return tooLarge(maxBytes)
	}
	return pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, "invalid multipart form")
}

func tooLarge(maxBytes int64) error {
	return pkgerrors.New(pkgerrors.CodePayloadTooLarge, "file exceeds the maximum upload size").
		WithDetails(map[string]any{"maxBytes": maxBytes})
}
