package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSetAuthCookiesSkipsEmptyTokens(t *testing.T) {
	svc := NewAuthService(nil, "test-secret")

	rec := httptest.NewRecorder()
	svc.SetAuthCookies(rec, "access-value", "", "")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected only the access cookie to be set, got %d cookies", len(cookies))
	}
	if cookies[0].Name != "access_token" || cookies[0].Value != "access-value" {
		t.Errorf("unexpected cookie %s=%s", cookies[0].Name, cookies[0].Value)
	}

	rec = httptest.NewRecorder()
	svc.SetAuthCookies(rec, "a", "r", "p")
	if got := len(rec.Result().Cookies()); got != 3 {
		t.Errorf("expected all three cookies, got %d", got)
	}
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	svc := NewAuthService(nil, "test-secret")

	_, err := svc.Signup(context.Background(), "new@example.com", "short", "New User")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := normalizeEmail("  Test@Example.COM "); got != "test@example.com" {
		t.Errorf("normalizeEmail = %q", got)
	}
}

func TestAuthErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"email taken", ErrEmailTaken, http.StatusConflict},
		{"weak password", ErrWeakPassword, http.StatusBadRequest},
		{"unknown", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := authErrorStatus(tt.err)
			if status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if msg == "" {
				t.Error("expected a client-facing message")
			}
		})
	}
}
