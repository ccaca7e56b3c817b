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

const atsHistoryLimit = 10

type ATSEndpoints struct {
	repo *repository.GORMRepository
	ats  *ATSService
}

func NewATSEndpoints(repo *repository.GORMRepository, ats *ATSService) *ATSEndpoints {
	return &ATSEndpoints{repo: repo, ats: ats}
}

type ATSCheckRequest struct {
	JobDescription string `json:"job_description"`
	Rewrite        bool   `json:"rewrite,omitempty"`
}

func (e *ATSEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/ats", func(r chi.Router) {
		r.Post("/", e.CheckHandler)
		r.Get("/", e.HistoryHandler)
	})
}

func (e *ATSEndpoints) CheckHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req ATSCheckRequest
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
		http.Error(w, "Add your resume to your profile before running an ATS check", http.StatusBadRequest)
		return
	}
	resumeText := profile.EffectiveResume()

	analysis := AnalyzeATS(resumeText, req.JobDescription)

	// The LLM pass enriches suggestions; the persisted score stays the
	// heuristic one.
	suggestions := ""
	optimizedResume := ""
	missingKeywords := strings.Join(analysis.MissingKeywords, ", ")

	llmResult, err := e.ats.GroqAnalysis(r.Context(), resumeText, req.JobDescription, req.Rewrite)
	if err != nil {
		slog.Warn("Groq ATS analysis failed, using heuristic suggestions", "error", err, "user_id", user.ID)
		suggestions = FallbackSuggestions(analysis)
	} else {
		suggestions = llmResult.Suggestions
		optimizedResume = llmResult.OptimizedResume
		if llmResult.MissingKeywords != "" {
			missingKeywords = llmResult.MissingKeywords
		}
	}

	result := &models.ATSResult{
		UserID:          user.ID,
		JobDescription:  req.JobDescription,
		BaselineScore:   analysis.KeywordScore,
		FinalScore:      analysis.FinalScore,
		MissingKeywords: missingKeywords,
		Suggestions:     suggestions,
		OptimizedResume: optimizedResume,
	}
	if err := e.repo.CreateATSResult(r.Context(), result); err != nil {
		http.Error(w, "Failed to save result", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"result":   result,
		"analysis": analysis,
	})

	slog.Info("ATS check completed", "user_id", user.ID, "final_score", analysis.FinalScore)
}

func (e *ATSEndpoints) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	results, err := e.repo.GetATSResults(r.Context(), user.ID, atsHistoryLimit)
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
