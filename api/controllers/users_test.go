package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/cropdev/crop-backend/api/middleware"
	"github.com/cropdev/crop-backend/internal/users"
	"github.com/cropdev/crop-backend/pkg/auth"
	"github.com/cropdev/crop-backend/pkg/db/models"
	"github.com/cropdev/crop-backend/pkg/enums"
)

type stubUserService struct {
	users.Service
}

func (stubUserService) Me(_ context.Context, actor *auth.Actor) (*models.User, error) {
	if !actor.Authenticated() {
		return nil, nil
	}
	return &models.User{ID: actor.UserID, Email: "grower@example.com", Role: actor.Role}, nil
}

func TestMeReturnsCapabilities(t *testing.T) {
	actor := &auth.Actor{UserID: uuid.New(), Role: enums.RoleCollaborator}
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req = req.WithContext(middleware.WithActor(req.Context(), actor))
	rec := httptest.NewRecorder()

	Me(stubUserService{}, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data struct {
			ID           string `json:"id"`
			Role         string `json:"role"`
			Capabilities struct {
				Public       bool `json:"public"`
				Collaborator bool `json:"collaborator"`
				Admin        bool `json:"admin"`
			} `json:"capabilities"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	caps := body.Data.Capabilities
	if body.Data.ID != actor.UserID.String() || body.Data.Role != "COLLABORATOR" || !caps.Public || !caps.Collaborator || caps.Admin {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestMeRequiresSession(t *testing.T) {
	rec := httptest.NewRecorder()
	Me(stubUserService{}, nil)(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
