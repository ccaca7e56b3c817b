package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jobhelper/backend/models"
	"github.com/jobhelper/backend/repository"
)

type InterviewEndpoints struct {
	repo      *repository.GORMRepository
	convRepo  *repository.ConversationRepository
	interview *InterviewService
}

func NewInterviewEndpoints(repo *repository.GORMRepository, convRepo *repository.ConversationRepository, interview *InterviewService) *InterviewEndpoints {
	return &InterviewEndpoints{
		repo:      repo,
		convRepo:  convRepo,
		interview: interview,
	}
}

type CreateInterviewRequest struct {
	JobDescription string `json:"job_description"`
	TotalQuestions int    `json:"total_questions,omitempty"`
}

type InterviewTurnRequest struct {
	Answer string `json:"answer"`
}

func (e *InterviewEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/interviews", func(r chi.Router) {
		r.Post("/", e.CreateInterviewHandler)
		r.Get("/", e.GetInterviewsHandler)
		r.Get("/{id}", e.GetInterviewHandler)
		r.Post("/{id}/messages", e.TurnHandler)
	})
}

func (e *InterviewEndpoints) CreateInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req CreateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		http.Error(w, "Job description is required", http.StatusBadRequest)
		return
	}

	// Snapshot the profile resume into the session
	profile, err := e.repo.GetProfileByUserID(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	resumeText := ""
	if profile != nil {
		resumeText = profile.EffectiveResume()
	}

	session, err := e.interview.StartSession(r.Context(), user.ID, req.JobDescription, resumeText, req.TotalQuestions)
	if err != nil {
		slog.Error("Failed to start interview", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"session": session,
		"message": "Session created successfully",
	})

	slog.Info("Interview session created", "session_id", session.ID, "user_id", user.ID)
}

func (e *InterviewEndpoints) GetInterviewsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	sessions, err := e.convRepo.GetInterviewSessions(r.Context(), user.ID)
	if err != nil {
		slog.Error("Failed to get interview sessions", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to get sessions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (e *InterviewEndpoints) GetInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	sessionID := chi.URLParam(r, "id")
	session, err := e.convRepo.GetInterviewSession(r.Context(), sessionID, user.ID)
	if err != nil {
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return
	}
	if session == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	messages, err := e.convRepo.GetInterviewMessages(r.Context(), sessionID)
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

func (e *InterviewEndpoints) TurnHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	sessionID := chi.URLParam(r, "id")
	session, err := e.convRepo.GetInterviewSession(r.Context(), sessionID, user.ID)
	if err != nil {
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return
	}
	if session == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	var req InterviewTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := e.interview.Turn(r.Context(), session, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionCompleted):
			http.Error(w, "Interview is already completed", http.StatusBadRequest)
		case errors.Is(err, repository.ErrStaleTurn):
			http.Error(w, "Another turn is already in progress", http.StatusConflict)
		default:
			slog.Error("Interview turn failed", "error", err, "session_id", sessionID)
			http.Error(w, "Failed to process turn", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"reply":   reply,
		"session": session,
	})

	slog.Info("Interview turn processed", "session_id", sessionID, "completed", session.Completed)
}
