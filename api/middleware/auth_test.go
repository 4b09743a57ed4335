package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cropdev/crop-backend/pkg/auth"
	"github.com/cropdev/crop-backend/pkg/config"
	"github.com/cropdev/crop-backend/pkg/db/models"
	"github.com/cropdev/crop-backend/pkg/enums"
	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
)

var testAuthConfig = config.AuthConfig{Secret: "secret", Issuer: "crop", CookieName: "crop.session_token"}

type stubUsers map[uuid.UUID]models.User

func (s stubUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, pkgerrors.NotFound("user not found")
	}
	return &u, nil
}

func captureActor(got **auth.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func mintTestToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := auth.MintSessionToken(testAuthConfig, time.Now(), userID, "user@example.com", time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthAllowsAnonymous(t *testing.T) {
	var actor *auth.Actor
	handler := Auth(testAuthConfig, stubUsers{}, nil)(captureActor(&actor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if actor != nil {
		t.Fatalf("expected anonymous actor, got %+v", actor)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	var actor *auth.Actor
	handler := Auth(testAuthConfig, stubUsers{}, nil)(captureActor(&actor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsUnknownUser(t *testing.T) {
	var actor *auth.Actor
	handler := Auth(testAuthConfig, stubUsers{}, nil)(captureActor(&actor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, uuid.New()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthResolvesRoleFromDatabase(t *testing.T) {
	user := models.User{ID: uuid.New(), Email: "admin@example.com", Role: enums.RoleAdmin}
	var actor *auth.Actor
	handler := Auth(testAuthConfig, stubUsers{user.ID: user}, nil)(captureActor(&actor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, user.ID))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if actor == nil || actor.UserID != user.ID || actor.Role != enums.RoleAdmin {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestAuthReadsSessionCookie(t *testing.T) {
	user := models.User{ID: uuid.New(), Role: enums.RoleCollaborator}
	var actor *auth.Actor
	handler := Auth(testAuthConfig, stubUsers{user.ID: user}, nil)(captureActor(&actor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testAuthConfig.CookieName, Value: mintTestToken(t, user.ID)})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if actor == nil || actor.Role != enums.RoleCollaborator {
		t.Fatalf("expected collaborator from cookie, got %+v", actor)
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(enums.RoleCollaborator, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		actor  *auth.Actor
		status int
	}{
		{name: "anonymous", actor: nil, status: http.StatusUnauthorized},
		{name: "public", actor: &auth.Actor{UserID: uuid.New(), Role: enums.RolePublic}, status: http.StatusUnauthorized},
		{name: "collaborator", actor: &auth.Actor{UserID: uuid.New(), Role: enums.RoleCollaborator}, status: http.StatusNoContent},
		{name: "admin", actor: &auth.Actor{UserID: uuid.New(), Role: enums.RoleAdmin}, status: http.StatusNoContent},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithActor(req.Context(), tc.actor))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tc.status {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.status, resp.Code)
		}
	}
}
