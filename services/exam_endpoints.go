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

type ExamEndpoints struct {
	repo   *repository.GORMRepository
	exams  *ExamService
	worker *ExamWorker
}

func NewExamEndpoints(repo *repository.GORMRepository, exams *ExamService, worker *ExamWorker) *ExamEndpoints {
	return &ExamEndpoints{
		repo:   repo,
		exams:  exams,
		worker: worker,
	}
}

type CreateExamRequest struct {
	JobRole string `json:"job_role"`
}

type ExamAnswerRequest struct {
	QuestionID string `json:"question_id"`
	Selected   string `json:"selected"`
}

func (e *ExamEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/exams", func(r chi.Router) {
		r.Post("/", e.CreateExamHandler)
		r.Get("/{id}", e.GetExamHandler)
		r.Post("/{id}/answers", e.AnswerHandler)
		r.Get("/{id}/result", e.ResultHandler)
	})
}

func (e *ExamEndpoints) CreateExamHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req CreateExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.JobRole) == "" {
		http.Error(w, "Job role is required", http.StatusBadRequest)
		return
	}

	exam := &models.Exam{
		UserID:  user.ID,
		JobRole: strings.TrimSpace(req.JobRole),
		Status:  models.ExamStatusQueued,
	}
	if err := e.repo.CreateExam(r.Context(), exam); err != nil {
		slog.Error("Failed to create exam", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to create exam", http.StatusInternalServerError)
		return
	}

	e.worker.Enqueue(exam.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"exam":    exam,
		"message": "Exam queued for generation",
	})

	slog.Info("Exam queued", "exam_id", exam.ID, "user_id", user.ID, "job_role", exam.JobRole)
}

func (e *ExamEndpoints) GetExamHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	examID := chi.URLParam(r, "id")
	exam, err := e.repo.GetExam(r.Context(), examID, user.ID)
	if err != nil {
		http.Error(w, "Failed to get exam", http.StatusInternalServerError)
		return
	}
	if exam == nil {
		http.Error(w, "Exam not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"exam": exam,
	})
}

func (e *ExamEndpoints) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	examID := chi.URLParam(r, "id")
	exam, err := e.repo.GetExam(r.Context(), examID, user.ID)
	if err != nil {
		http.Error(w, "Failed to get exam", http.StatusInternalServerError)
		return
	}
	if exam == nil {
		http.Error(w, "Exam not found", http.StatusNotFound)
		return
	}
	if exam.Status != models.ExamStatusCompleted {
		http.Error(w, "Exam is not ready yet", http.StatusConflict)
		return
	}

	var req ExamAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	selected := strings.ToUpper(strings.TrimSpace(req.Selected))
	if selected != "A" && selected != "B" && selected != "C" && selected != "D" {
		http.Error(w, "Selected option must be A, B, C or D", http.StatusBadRequest)
		return
	}

	answer, err := e.exams.AnswerQuestion(r.Context(), user.ID, exam.ID, req.QuestionID, selected)
	if err != nil {
		slog.Error("Failed to record answer", "error", err, "exam_id", examID)
		http.Error(w, "Failed to record answer", http.StatusInternalServerError)
		return
	}
	if answer == nil {
		http.Error(w, "Question not found in this exam", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"answer": answer,
	})
}

func (e *ExamEndpoints) ResultHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	examID := chi.URLParam(r, "id")
	exam, err := e.repo.GetExam(r.Context(), examID, user.ID)
	if err != nil {
		http.Error(w, "Failed to get exam", http.StatusInternalServerError)
		return
	}
	if exam == nil {
		http.Error(w, "Exam not found", http.StatusNotFound)
		return
	}
	if exam.Status != models.ExamStatusCompleted {
		http.Error(w, "Exam is not ready yet", http.StatusConflict)
		return
	}

	score, err := e.exams.Score(r.Context(), exam)
	if err != nil {
		slog.Error("Failed to score exam", "error", err, "exam_id", examID)
		http.Error(w, "Failed to score exam", http.StatusInternalServerError)
		return
	}

	// Reveal the answer key only once the result is requested
	type questionResult struct {
		ID            string `json:"id"`
		Position      int    `json:"position"`
		Text          string `json:"text"`
		CorrectOption string `json:"correct_option"`
		Explanation   string `json:"explanation,omitempty"`
		Selected      string `json:"selected,omitempty"`
		IsCorrect     bool   `json:"is_correct"`
	}

	answers, err := e.repo.GetExamAnswers(r.Context(), exam.ID, user.ID)
	if err != nil {
		http.Error(w, "Failed to get answers", http.StatusInternalServerError)
		return
	}
	answered := make(map[string]models.ExamAnswer, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = a
	}

	results := make([]questionResult, 0, len(exam.Questions))
	for _, q := range exam.Questions {
		qr := questionResult{
			ID:            q.ID,
			Position:      q.Position,
			Text:          q.Text,
			CorrectOption: q.CorrectOption,
			Explanation:   q.Explanation,
		}
		if a, ok := answered[q.ID]; ok {
			qr.Selected = a.Selected
			qr.IsCorrect = a.IsCorrect
		}
		results = append(results, qr)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"score":     score,
		"questions": results,
	})
}
