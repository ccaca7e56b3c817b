package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jobhelper/backend/models"
	"github.com/jobhelper/backend/repository"
)

type examAI interface {
	GenerateExamQuestions(ctx context.Context, jobRole string, count int) (string, error)
}

// ExamService generates MCQ exams in the background and grades answers.
type ExamService struct {
	repo             *repository.GORMRepository
	ai               examAI
	questionsPerExam int
}

func NewExamService(repo *repository.GORMRepository, ai examAI, questionsPerExam int) *ExamService {
	if questionsPerExam <= 0 {
		questionsPerExam = 10
	}
	return &ExamService{repo: repo, ai: ai, questionsPerExam: questionsPerExam}
}

// GenerateExam runs one queued exam through the model. The claim makes
// processing idempotent when the poller and the queue race.
func (s *ExamService) GenerateExam(ctx context.Context, examID string) error {
	claimed, err := s.repo.ClaimExam(ctx, examID)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	exam, err := s.repo.GetExamByID(ctx, examID)
	if err != nil {
		return err
	}
	if exam == nil {
		return fmt.Errorf("exam not found: %s", examID)
	}

	content, err := s.ai.GenerateExamQuestions(ctx, exam.JobRole, s.questionsPerExam)
	if err != nil {
		s.fail(ctx, examID, err)
		return err
	}

	questions, err := ParseExamQuestions(content)
	if err != nil {
		s.fail(ctx, examID, err)
		return err
	}
	for i := range questions {
		questions[i].ExamID = examID
		questions[i].Position = i + 1
	}

	if err := s.repo.CreateExamQuestions(ctx, questions); err != nil {
		s.fail(ctx, examID, err)
		return err
	}

	if err := s.repo.UpdateExamStatus(ctx, examID, models.ExamStatusCompleted, ""); err != nil {
		return err
	}

	slog.Info("Exam generated", "exam_id", examID, "questions", len(questions))
	return nil
}

func (s *ExamService) fail(ctx context.Context, examID string, cause error) {
	slog.Error("Exam generation failed", "exam_id", examID, "error", cause)
	if err := s.repo.UpdateExamStatus(ctx, examID, models.ExamStatusFailed, cause.Error()); err != nil {
		slog.Error("Failed to mark exam as failed", "exam_id", examID, "error", err)
	}
}

// AnswerQuestion records the user's pick, computing correctness server-side.
// The question must belong to examID; answers across exams are rejected
// before anything is written.
func (s *ExamService) AnswerQuestion(ctx context.Context, userID, examID, questionID, selected string) (*models.ExamAnswer, error) {
	question, err := s.repo.GetExamQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil || question.ExamID != examID {
		return nil, nil
	}

	answer := &models.ExamAnswer{
		QuestionID: questionID,
		UserID:     userID,
		Selected:   selected,
		IsCorrect:  selected == question.CorrectOption,
	}
	if err := s.repo.UpsertExamAnswer(ctx, answer); err != nil {
		return nil, err
	}

	return answer, nil
}

// Score computes the percentage over all questions; unanswered questions
// count as wrong. The result is persisted on the exam row.
func (s *ExamService) Score(ctx context.Context, exam *models.Exam) (int, error) {
	answers, err := s.repo.GetExamAnswers(ctx, exam.ID, exam.UserID)
	if err != nil {
		return 0, err
	}

	total := len(exam.Questions)
	if total == 0 {
		return 0, fmt.Errorf("exam has no questions")
	}

	correct := 0
	for _, answer := range answers {
		if answer.IsCorrect {
			correct++
		}
	}

	score := ScorePercentage(correct, total)
	if err := s.repo.UpdateExamScore(ctx, exam.ID, score); err != nil {
		return 0, err
	}

	return score, nil
}

// ScorePercentage rounds correct/total to a whole percentage.
func ScorePercentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(correct)/float64(total)*100 + 0.5)
}

type examQuestionPayload struct {
	Questions []struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correct_answer"`
		Explanation   string   `json:"explanation"`
	} `json:"questions"`
}

// ParseExamQuestions reads the model's JSON MCQ set, tolerating markdown
// fences around the object. Malformed questions fail the whole set; a
// partial exam is worse than a failed one the worker can retry.
func ParseExamQuestions(content string) ([]models.ExamQuestion, error) {
	var payload examQuestionPayload
	if err := json.Unmarshal([]byte(ExtractJSON(content)), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse exam questions: %w", err)
	}
	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("no questions in response")
	}

	questions := make([]models.ExamQuestion, 0, len(payload.Questions))
	for i, q := range payload.Questions {
		if len(q.Options) != 4 {
			return nil, fmt.Errorf("question %d has %d options, want 4", i+1, len(q.Options))
		}
		correct := strings.ToUpper(strings.TrimSpace(q.CorrectAnswer))
		if correct != "A" && correct != "B" && correct != "C" && correct != "D" {
			return nil, fmt.Errorf("question %d has invalid correct answer %q", i+1, q.CorrectAnswer)
		}

		questions = append(questions, models.ExamQuestion{
			Text:          q.Question,
			OptionA:       q.Options[0],
			OptionB:       q.Options[1],
			OptionC:       q.Options[2],
			OptionD:       q.Options[3],
			CorrectOption: correct,
			Explanation:   q.Explanation,
		})
	}

	return questions, nil
}
