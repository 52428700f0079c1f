package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/shop-api/internal/core/domain"
)

func newUserFixture() *UserHandler {
	return NewUserHandler(&stubUserService{users: map[string]*domain.User{
		anaID:   {ID: anaID, Email: "ana@example.com", Name: "Ana", PasswordHash: "$2a$10$hash", Roles: []domain.Role{domain.RoleUser}},
		"other": {ID: "other", Email: "bo@example.com", Roles: []domain.Role{domain.RoleUser}},
	}})
}

func TestUserHandler_Register(t *testing.T) {
	h := newUserFixture()
	c, rec := newRequestContext(http.MethodPost, "/api/users",
		`{"email":"new@example.com","name":"New","password":"longenough"}`, nil)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Email != "new@example.com" || len(resp.Roles) != 1 || resp.Roles[0] != "ROLE_USER" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestUserHandler_Register_Invalid(t *testing.T) {
	h := newUserFixture()
	for _, body := range []string{
		`{"email":"not-an-email","password":"longenough"}`,
		`{"email":"x@example.com","password":"short"}`,
	} {
		c, _ := newRequestContext(http.MethodPost, "/api/users", body, nil)
		err := h.Register(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %v", body, err)
		}
	}
}

func TestUserHandler_Register_Duplicate(t *testing.T) {
	h := newUserFixture()
	c, _ := newRequestContext(http.MethodPost, "/api/users",
		`{"email":"ana@example.com","password":"longenough"}`, nil)

	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserHandler_Me(t *testing.T) {
	h := newUserFixture()
	c, rec := newRequestContext(http.MethodGet, "/api/users/me", "", customer("ana@example.com"))

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["id"] != anaID {
		t.Errorf("id = %v", body["id"])
	}
	if _, leaked := body["password_hash"]; leaked {
		t.Error("password hash must not be serialized")
	}
}

func TestUserHandler_Get_SelfOnlyForCustomers(t *testing.T) {
	h := newUserFixture()

	tests := []struct {
		name     string
		id       string
		wantCode int
	}{
		{"customer reads self", anaID, http.StatusOK},
		{"customer reads other", "other", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newRequestContext(http.MethodGet, "/api/users/"+tt.id, "", customer("ana@example.com"))
			c.SetParamNames("id")
			c.SetParamValues(tt.id)

			err := h.Get(c)
			code := rec.Code
			if he, ok := err.(*echo.HTTPError); ok {
				code = he.Code
			} else if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("status = %d, want %d", code, tt.wantCode)
			}
		})
	}

	c, rec := newRequestContext(http.MethodGet, "/api/users/other", "", manager("admin"))
	c.SetParamNames("id")
	c.SetParamValues("other")
	if err := h.Get(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("manager read: %d %v", rec.Code, err)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	h := newUserFixture()

	c, rec := newRequestContext(http.MethodDelete, "/api/users/other", "", manager("admin"))
	c.SetParamNames("id")
	c.SetParamValues("other")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	c, _ = newRequestContext(http.MethodDelete, "/api/users/other", "", manager("admin"))
	c.SetParamNames("id")
	c.SetParamValues("other")
	if err := h.Delete(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
