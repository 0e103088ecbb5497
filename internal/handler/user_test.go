package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inkwell/inkwell/internal/handler/dto"
	"github.com/inkwell/inkwell/internal/model"
)

// seedUser inserts a user directly into the store.
func seedUser(t *testing.T, store interface {
	CreateUser(ctx context.Context, user *model.User) error
}, username, email string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: email, Password: "pw"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func TestCreateUser_Validation(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		name string
		body map[string]string
		code string
	}{
		{"missing username", map[string]string{"email": "a@x.com", "password": "pw"}, "USERNAME_REQUIRED"},
		{"missing email", map[string]string{"username": "a", "password": "pw"}, "EMAIL_REQUIRED"},
		{"missing password", map[string]string{"username": "a", "email": "a@x.com"}, "PASSWORD_REQUIRED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var resp dto.ErrorResponse
			rec := doJSON(t, router, http.MethodPost, "/users/", tc.body, &resp)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
			}
			if resp.Code != tc.code {
				t.Fatalf("error code = %q, want %q", resp.Code, tc.code)
			}
		})
	}
}

func TestCreateUser_MalformedBody(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/users/", bytes.NewBufferString("{not json"))
	rec := doRaw(t, router, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestGetUser(t *testing.T) {
	router, store := newTestRouter(t)
	seedUser(t, store, "alice", "a@x.com")

	var resp dto.UserResponse
	rec := doJSON(t, router, http.MethodGet, "/users/1", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.ID != 1 || resp.Username != "alice" || resp.Email != "a@x.com" {
		t.Fatalf("got %+v", resp)
	}

	rec = doJSON(t, router, http.MethodGet, "/users/99", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing user status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec = doJSON(t, router, http.MethodGet, "/users/abc", nil, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad id status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestListUsers(t *testing.T) {
	router, store := newTestRouter(t)

	var resp []dto.UserResponse
	rec := doJSON(t, router, http.MethodGet, "/users/", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(resp) != 0 {
		t.Fatalf("empty store listed %d users", len(resp))
	}

	seedUser(t, store, "alice", "a@x.com")
	seedUser(t, store, "bob", "b@x.com")

	rec = doJSON(t, router, http.MethodGet, "/users/", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(resp) != 2 {
		t.Fatalf("listed %d users, want 2", len(resp))
	}
	if resp[0].Username != "alice" || resp[1].Username != "bob" {
		t.Fatalf("unexpected order: %+v", resp)
	}
}

func TestDeleteUser(t *testing.T) {
	router, store := newTestRouter(t)
	seedUser(t, store, "alice", "a@x.com")

	var resp dto.MessageResponse
	rec := doJSON(t, router, http.MethodDelete, "/users/1", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.Message != "User deleted" {
		t.Fatalf("message = %q", resp.Message)
	}

	rec = doJSON(t, router, http.MethodDelete, "/users/1", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestChangeEmail(t *testing.T) {
	router, store := newTestRouter(t)
	seedUser(t, store, "alice", "a@x.com")
	seedUser(t, store, "bob", "b@x.com")

	var resp dto.UserResponse
	rec := doJSON(t, router, http.MethodPatch, "/users/1/email", map[string]string{
		"email": "new@x.com",
	}, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if resp.Email != "new@x.com" {
		t.Fatalf("email = %q", resp.Email)
	}
	if resp.Username != "alice" {
		t.Fatalf("username = %q, want alice", resp.Username)
	}

	rec = doJSON(t, router, http.MethodPatch, "/users/1/email", map[string]string{
		"email": "b@x.com",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("taken email status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = doJSON(t, router, http.MethodPatch, "/users/99/email", map[string]string{
		"email": "ghost@x.com",
	}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing user status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

// Creating a user and changing an email are separate routes, so one can
// never shadow the other.
func TestCreateAndChangeEmailAreIndependentRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/users/", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "pw",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPatch, "/users/1/email", map[string]string{
		"email": "a2@x.com",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("change email status = %d", rec.Code)
	}

	// A second create still works after the email change.
	rec = doJSON(t, router, http.MethodPost, "/users/", map[string]string{
		"username": "bob",
		"email":    "b@x.com",
		"password": "pw",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("second create status = %d", rec.Code)
	}
}
