package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jobhelper/backend/models"
	"github.com/jobhelper/backend/repository"
)

const analysisHistoryLimit = 10

type AnalysisEndpoints struct {
	repo     *repository.GORMRepository
	analysis *AnalysisService
}

func NewAnalysisEndpoints(repo *repository.GORMRepository, analysis *AnalysisService) *AnalysisEndpoints {
	return &AnalysisEndpoints{repo: repo, analysis: analysis}
}

type AnalyzeRequest struct {
	JobDescription string `json:"job_description"`
}

func (e *AnalysisEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/analysis", func(r chi.Router) {
		r.Post("/", e.AnalyzeHandler)
		r.Get("/", e.HistoryHandler)
	})
}

func (e *AnalysisEndpoints) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		http.Error(w, "Job description is required", http.StatusBadRequest)
		return
	}

	profile, err := e.repo.GetProfileByUserID(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	if profile == nil || strings.TrimSpace(profile.EffectiveResume()) == "" {
		http.Error(w, "No resume text found in your profile. Please update your profile first", http.StatusBadRequest)
		return
	}

	analysis, err := e.analysis.AnalyzeResume(r.Context(), profile.EffectiveResume(), req.JobDescription)
	if err != nil {
		slog.Error("Resume analysis failed", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to analyze resume", http.StatusBadGateway)
		return
	}

	suggestions := analysis.Suggestions
	if analysis.OverallFeedback != "" {
		suggestions = analysis.OverallFeedback + "\n\n" + analysis.Suggestions
	}

	result := &models.AnalysisResult{
		UserID:         user.ID,
		JobDescription: req.JobDescription,
		Score:          analysis.ATSScore,
		Suggestions:    suggestions,
		ImprovedResume: analysis.ImprovedResume,
	}
	if err := e.repo.CreateAnalysisResult(r.Context(), result); err != nil {
		http.Error(w, "Failed to save result", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"result": result,
	})

	slog.Info("Resume analysis completed", "user_id", user.ID, "score", analysis.ATSScore)
}

func (e *AnalysisEndpoints) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	results, err := e.repo.GetAnalysisResults(r.Context(), user.ID, analysisHistoryLimit)
	if err != nil {
		http.Error(w, "Failed to get results", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}
