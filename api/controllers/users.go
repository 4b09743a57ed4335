package controllers

import (
	"net/http"

	"github.com/cropdev/crop-backend/api/middleware"
	"github.com/cropdev/crop-backend/api/responses"
	"github.com/cropdev/crop-backend/internal/users"
	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
	"github.com/cropdev/crop-backend/pkg/logger"
)

// Me returns the session user with its capabilities.
func Me(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.Me(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if u == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Unauthorized("authentication required"))
			return
		}
		responses.WriteSuccess(w, users.ToDTO(u))
	}
}
