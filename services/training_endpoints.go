package services

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jobhelper/backend/models"
	"github.com/jobhelper/backend/repository"
)

type TrainingEndpoints struct {
	repo     *repository.GORMRepository
	convRepo *repository.ConversationRepository
	training *TrainingService
}

func NewTrainingEndpoints(repo *repository.GORMRepository, convRepo *repository.ConversationRepository, training *TrainingService) *TrainingEndpoints {
	return &TrainingEndpoints{
		repo:     repo,
		convRepo: convRepo,
		training: training,
	}
}

type CreateTrainingRequest struct {
	JobDescription string `json:"job_description"`
}

type TrainingTurnRequest struct {
	Message string `json:"message"`
}

func (e *TrainingEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/trainings", func(r chi.Router) {
		r.Post("/", e.CreateTrainingHandler)
		r.Get("/", e.GetTrainingsHandler)
		r.Get("/{id}", e.GetTrainingHandler)
		r.Post("/{id}/messages", e.TurnHandler)
	})
}

func (e *TrainingEndpoints) CreateTrainingHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req CreateTrainingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := e.repo.GetProfileByUserID(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	resumeText := ""
	if profile != nil {
		resumeText = profile.EffectiveResume()
	}

	session, err := e.training.StartSession(r.Context(), user.ID, req.JobDescription, resumeText)
	if err != nil {
		slog.Error("Failed to start training session", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"session": session,
		"message": "Session created successfully",
	})

	slog.Info("Training session created", "session_id", session.ID, "user_id", user.ID)
}

func (e *TrainingEndpoints) GetTrainingsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	sessions, err := e.convRepo.GetTrainingSessions(r.Context(), user.ID)
	if err != nil {
		slog.Error("Failed to get training sessions", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to get sessions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (e *TrainingEndpoints) GetTrainingHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	sessionID := chi.URLParam(r, "id")
	session, err := e.convRepo.GetTrainingSession(r.Context(), sessionID, user.ID)
	if err != nil {
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return
	}
	if session == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	messages, err := e.convRepo.GetTrainingMessages(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Failed to get messages", http.StatusInternalServerError)
		return
	}
	session.Messages = messages

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"session": session,
	})
}

func (e *TrainingEndpoints) TurnHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	sessionID := chi.URLParam(r, "id")
	session, err := e.convRepo.GetTrainingSession(r.Context(), sessionID, user.ID)
	if err != nil {
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return
	}
	if session == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	var req TrainingTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := e.training.Turn(r.Context(), session, req.Message)
	if err != nil {
		slog.Error("Training turn failed", "error", err, "session_id", sessionID)
		http.Error(w, "Failed to process message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"reply": reply,
	})
}
