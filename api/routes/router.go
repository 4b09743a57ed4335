package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/graphql-go/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cropdev/crop-backend/api/controllers"
	"github.com/cropdev/crop-backend/api/gql"
	"github.com/cropdev/crop-backend/api/middleware"
	"github.com/cropdev/crop-backend/internal/media"
	"github.com/cropdev/crop-backend/internal/posts"
	"github.com/cropdev/crop-backend/internal/users"
	"github.com/cropdev/crop-backend/pkg/config"
	"github.com/cropdev/crop-backend/pkg/enums"
	"github.com/cropdev/crop-backend/pkg/i18n"
	"github.com/cropdev/crop-backend/pkg/logger"
	"github.com/cropdev/crop-backend/pkg/metrics"
	"github.com/cropdev/crop-backend/pkg/redis"
)

// NewRouter wires every HTTP surface. redisClient and storage may be nil;
// upload rate limiting is then disabled and readiness reports them as such.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	loc *i18n.Localizer,
	registry *prometheus.Registry,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	storage controllers.Pinger,
	userService users.Service,
	mediaService media.Service,
	postService posts.Service,
	schema *graphql.Schema,
) http.Handler {
	var httpMetrics *metrics.HTTPMetrics
	if registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Language(loc),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.FrontendURLs),
	)

	uploadPolicy := middleware.NewRateLimitPolicy(
		"upload",
		cfg.UploadRateLimit.Window,
		cfg.UploadRateLimit.IPLimit,
		cfg.UploadRateLimit.UserLimit,
	)
	uploadLimit := middleware.RateLimit(uploadPolicy, nil, logg)
	var redisPinger controllers.Pinger
	if redisClient != nil {
		uploadLimit = middleware.RateLimit(uploadPolicy, redisClient, logg)
		redisPinger = redisClient
	}

	deps := map[string]controllers.Pinger{
		"db":      dbP,
		"redis":   redisPinger,
		"storage": storage,
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Auth, userService, logg))

		r.Get("/api/me", controllers.Me(userService, logg))

		r.Route("/api/media", func(r chi.Router) {
			r.Get("/", controllers.MediaList(mediaService, logg))
			r.With(
				middleware.RequireRole(enums.RoleCollaborator, logg),
				uploadLimit,
			).Post("/upload", controllers.MediaUpload(mediaService, logg))
			r.Get("/{id}", controllers.MediaGet(mediaService, logg))
			r.Patch("/{id}", controllers.MediaUpdate(mediaService, logg))
			r.Delete("/{id}", controllers.MediaDelete(mediaService, logg))
			r.Get("/{id}/signed-url", controllers.MediaSignedURL(mediaService, logg))
		})

		r.Route("/api/posts", func(r chi.Router) {
			r.Get("/", controllers.PostList(postService, logg))
			r.Get("/{id}", controllers.PostGet(postService, logg))
		})

		if schema != nil {
			graphqlHandler := gql.NewHandler(schema, !cfg.App.IsProd(), logg)
			r.Get("/api/graphql", graphqlHandler.ServeHTTP)
			r.Post("/api/graphql", graphqlHandler.ServeHTTP)
		}
	})

	return r
}
