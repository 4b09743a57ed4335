package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cropdev/crop-backend/api/gql"
	"github.com/cropdev/crop-backend/internal/media"
	"github.com/cropdev/crop-backend/internal/posts"
	"github.com/cropdev/crop-backend/internal/users"
	"github.com/cropdev/crop-backend/pkg/auth"
	"github.com/cropdev/crop-backend/pkg/config"
	"github.com/cropdev/crop-backend/pkg/db/dbtest"
	"github.com/cropdev/crop-backend/pkg/enums"
	"github.com/cropdev/crop-backend/pkg/i18n"
	"github.com/cropdev/crop-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type nopStore struct{}

func (nopStore) Upload(_ context.Context, key string, _ []byte, _ string, _ map[string]string) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

func (nopStore) Delete(context.Context, string) error { return nil }

func (nopStore) Exists(context.Context, string) (bool, error) { return true, nil }

func (nopStore) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://signed.example.com/" + key, nil
}

func (nopStore) GenerateKey(prefix string) string { return prefix + "/" + uuid.NewString() }

type testServer struct {
	handler http.Handler
	cfg     *config.Config
	userID  uuid.UUID
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	conn := dbtest.Open(t)
	user := dbtest.CreateUser(t, conn, enums.RolePublic)

	cfg := &config.Config{
		App:  config.AppConfig{Env: "dev", FrontendURLs: []string{"http://localhost:3000"}},
		Auth: config.AuthConfig{Secret: "secret", Issuer: "crop", CookieName: "crop.session_token"},
		UploadRateLimit: config.UploadRateLimitConfig{
			Window:    time.Minute,
			UserLimit: 30,
			IPLimit:   60,
		},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	mediaSvc, err := media.NewService(media.NewRepository(conn), nopStore{}, media.Options{})
	if err != nil {
		t.Fatalf("media service: %v", err)
	}
	postSvc, err := posts.NewService(posts.NewRepository(conn))
	if err != nil {
		t.Fatalf("post service: %v", err)
	}
	userSvc, err := users.NewService(users.NewRepository(conn))
	if err != nil {
		t.Fatalf("user service: %v", err)
	}
	schema, err := gql.NewSchema(&gql.Resolver{Media: mediaSvc, Posts: postSvc, Users: userSvc, Logger: logg})
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	handler := NewRouter(
		cfg,
		logg,
		i18n.New("es"),
		prometheus.NewRegistry(),
		stubPinger{},
		nil,
		stubPinger{},
		userSvc,
		mediaSvc,
		postSvc,
		&schema,
	)
	return testServer{handler: handler, cfg: cfg, userID: user.ID}
}

func (s testServer) token(t *testing.T) string {
	t.Helper()
	token, err := auth.MintSessionToken(s.cfg.Auth, time.Now(), s.userID, "user@example.com", time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func (s testServer) graphql(t *testing.T, query, token, lang string) map[string]any {
	t.Helper()
	body, _ := json.Marshal(map[string]any{"query": query})
	req := httptest.NewRequest(http.MethodPost, "/api/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("graphql status %d: %s", rec.Code, rec.Body.String())
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode graphql response: %v", err)
	}
	return out
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if !strings.Contains(rec.Body.String(), `"redis":"disabled"`) {
		t.Fatalf("expected redis reported as disabled, got %s", rec.Body.String())
	}
}

func TestMetricsEndpointExposesHTTPMetrics(t *testing.T) {
	s := newTestServer(t)

	s.handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatalf("expected http_requests_total in metrics output")
	}
}

func TestUploadRequiresCollaborator(t *testing.T) {
	s := newTestServer(t)

	for name, token := range map[string]string{"anonymous": "", "public": s.token(t)} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/media/upload", strings.NewReader(""))
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestMediaListIsPublic(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/media?take=5&type=video", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGraphQLResolvesSessionUser(t *testing.T) {
	s := newTestServer(t)

	out := s.graphql(t, `{ me { id role } }`, s.token(t), "")
	data, _ := out["data"].(map[string]any)
	me, _ := data["me"].(map[string]any)
	if me["id"] != s.userID.String() || me["role"] != "PUBLIC" {
		t.Fatalf("unexpected me payload %+v", out)
	}
}

func TestGraphQLErrorsFollowAcceptLanguage(t *testing.T) {
	s := newTestServer(t)

	cases := map[string]string{
		"en":    "authentication required",
		"es-MX": "Autenticación requerida",
	}
	for lang, want := range cases {
		out := s.graphql(t, `mutation { deleteMe { id } }`, "", lang)
		errs, _ := out["errors"].([]any)
		if len(errs) == 0 {
			t.Fatalf("%s: expected errors, got %+v", lang, out)
		}
		first, _ := errs[0].(map[string]any)
		if first["message"] != want {
			t.Fatalf("%s: expected %q, got %v", lang, want, first["message"])
		}
		ext, _ := first["extensions"].(map[string]any)
		if ext["code"] != "UNAUTHORIZED" {
			t.Fatalf("%s: expected UNAUTHORIZED code, got %v", lang, ext["code"])
		}
	}
}

func TestGraphQLGetRejectsMutations(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t)

	get := func(query, operationName string) *httptest.ResponseRecorder {
		values := url.Values{"query": {query}}
		if operationName != "" {
			values.Set("operationName", operationName)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/graphql?"+values.Encode(), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		return rec
	}

	rec := get(`mutation { deleteMe { id } }`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for GET mutation, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"BAD_REQUEST"`) {
		t.Fatalf("expected BAD_REQUEST code, got %s", rec.Body.String())
	}

	rec = get(`query Me { me { id } } mutation Drop { deleteMe { id } }`, "Drop")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for selected mutation, got %d", rec.Code)
	}

	rec = get(`query Me { me { id } } mutation Drop { deleteMe { id } }`, "Me")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), s.userID.String()) {
		t.Fatalf("expected GET query to run, got %d: %s", rec.Code, rec.Body.String())
	}

	out := s.graphql(t, `{ me { id } }`, token, "")
	data, _ := out["data"].(map[string]any)
	if me, _ := data["me"].(map[string]any); me["id"] != s.userID.String() {
		t.Fatalf("user should survive the rejected mutation, got %+v", out)
	}
}

func TestMeAndPostsRoutes(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+s.token(t))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"capabilities"`) {
		t.Fatalf("expected me with capabilities, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous me, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts?take=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for post list, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
