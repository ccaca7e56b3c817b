package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jobhelper/backend/models"
)

// AuthEndpoints exposes the cookie-based auth flow over HTTP.
type AuthEndpoints struct {
	authService *AuthService
}

func NewAuthEndpoints(authService *AuthService) *AuthEndpoints {
	return &AuthEndpoints{authService: authService}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// authErrorStatus maps service errors to HTTP statuses without leaking
// internals to the client.
func authErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, ErrWeakPassword):
		return http.StatusBadRequest, ErrWeakPassword.Error()
	default:
		return http.StatusInternalServerError, "Authentication failed"
	}
}

func (e *AuthEndpoints) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	resp, err := e.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Email, "error", err)
		status, msg := authErrorStatus(err)
		http.Error(w, msg, status)
		return
	}

	e.authService.SetAuthCookies(w, resp.AccessToken, resp.RefreshToken, resp.PermanentToken)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":    resp.User,
		"message": "Login successful",
	})
}

func (e *AuthEndpoints) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	resp, err := e.authService.Signup(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		slog.Warn("Signup failed", "email", req.Email, "error", err)
		status, msg := authErrorStatus(err)
		http.Error(w, msg, status)
		return
	}

	e.authService.SetAuthCookies(w, resp.AccessToken, resp.RefreshToken, resp.PermanentToken)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":    resp.User,
		"profile": resp.Profile,
		"message": "Account created",
	})
}

func (e *AuthEndpoints) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	refreshToken := e.authService.GetTokenFromCookie(r, "refresh_token")
	if refreshToken == "" {
		http.Error(w, "Refresh token not found", http.StatusUnauthorized)
		return
	}

	resp, err := e.authService.RefreshToken(r.Context(), refreshToken)
	if err != nil {
		slog.Warn("Token refresh failed", "error", err)
		http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}

	// Only the access cookie is rotated here; refresh and permanent
	// cookies keep their original expiry.
	e.authService.SetAuthCookies(w, resp.AccessToken, "", "")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":    resp.User,
		"message": "Token refreshed",
	})
}

func (e *AuthEndpoints) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	if err := e.authService.Logout(r.Context(), user.ID); err != nil {
		slog.Error("Logout failed", "user_id", user.ID, "error", err)
		http.Error(w, "Logout failed", http.StatusInternalServerError)
		return
	}

	e.authService.ClearAuthCookies(w)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Logged out",
	})
}

func (e *AuthEndpoints) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	profile, err := e.authService.Profile(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":    user,
		"profile": profile,
	})
}
