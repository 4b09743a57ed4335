package middleware

import (
	"net/http"

	"github.com/cropdev/crop-backend/api/responses"
	pkgAuth "github.com/cropdev/crop-backend/pkg/auth"
	"github.com/cropdev/crop-backend/pkg/enums"
	"github.com/cropdev/crop-backend/pkg/logger"
)

// RequireRole rejects the request unless the caller holds at least min.
func RequireRole(min enums.Role, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := pkgAuth.Require(ActorFromContext(r.Context()), min); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
