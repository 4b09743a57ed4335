package controllers

import (
	"net/http"

	"github.com/cropdev/crop-backend/api/responses"
	"github.com/cropdev/crop-backend/api/validators"
	"github.com/cropdev/crop-backend/internal/posts"
	"github.com/cropdev/crop-backend/pkg/logger"
	"github.com/cropdev/crop-backend/pkg/pagination"
)

// PostList serves GET /api/posts with take, skip and search query parameters.
func PostList(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
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

		rows, err := svc.List(r.Context(), pagination.Params{
			Take:   take,
			Skip:   skip,
			Search: validators.OptionalQueryString(r, "search"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]posts.DTO, 0, len(rows))
		for i := range rows {
			out = append(out, posts.ToDTO(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

func PostGet(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		post, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, posts.ToDTO(post))
	}
}
