package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jobhelper/backend/models"
	"github.com/jobhelper/backend/repository"
)

const maxResumeUploadBytes = 10 << 20 // 10 MB

type ProfileEndpoints struct {
	repo      *repository.GORMRepository
	storage   *StorageService
	extractor *ExtractorService
}

func NewProfileEndpoints(repo *repository.GORMRepository, storage *StorageService, extractor *ExtractorService) *ProfileEndpoints {
	return &ProfileEndpoints{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
	}
}

type UpdateProfileRequest struct {
	ResumeText *string `json:"resume_text"`
}

func (e *ProfileEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.Get("/", e.GetProfileHandler)
		r.Put("/", e.UpdateProfileHandler)
		r.Post("/resume", e.UploadResumeHandler)
	})
}

func (e *ProfileEndpoints) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	profile, err := e.loadProfile(r, user.ID)
	if err != nil {
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"profile": profile,
	})
}

func (e *ProfileEndpoints) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := e.loadProfile(r, user.ID)
	if err != nil {
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	if req.ResumeText != nil {
		profile.ResumeText = strings.TrimSpace(*req.ResumeText)
	}

	if err := e.repo.UpdateProfile(r.Context(), profile); err != nil {
		slog.Error("Failed to update profile", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"profile": profile,
		"message": "Profile updated successfully",
	})
}

func (e *ProfileEndpoints) UploadResumeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxResumeUploadBytes)
	if err := r.ParseMultipartForm(maxResumeUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		http.Error(w, "Resume file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" && ext != ".docx" {
		http.Error(w, "Only PDF and DOCX files are supported", http.StatusBadRequest)
		return
	}

	stored, err := e.storage.SaveFile(file, header.Filename)
	if err != nil {
		slog.Error("Failed to save resume", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	data, err := e.storage.ReadFile(stored)
	if err != nil {
		slog.Error("Failed to read stored resume", "error", err, "file", stored)
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	// Extraction failures are not fatal; the file is kept and the user
	// can still paste text directly.
	extracted := e.extractor.ExtractText(data, header.Filename)

	profile, err := e.loadProfile(r, user.ID)
	if err != nil {
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	profile.ResumeFile = stored
	profile.ExtractedText = extracted

	if err := e.repo.UpdateProfile(r.Context(), profile); err != nil {
		slog.Error("Failed to update profile", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"profile":   profile,
		"extracted": extracted != "",
		"message":   "Resume uploaded successfully",
	})

	slog.Info("Resume uploaded", "user_id", user.ID, "file", stored, "extracted_chars", len(extracted))
}

// loadProfile tolerates users created before profiles became mandatory.
func (e *ProfileEndpoints) loadProfile(r *http.Request, userID string) (*models.Profile, error) {
	profile, err := e.repo.GetProfileByUserID(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &models.Profile{UserID: userID}
		if err := e.repo.CreateProfile(r.Context(), profile); err != nil {
			return nil, err
		}
	}
	return profile, nil
}
