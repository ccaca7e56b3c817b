package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jobhelper/backend/models"
)

// WelcomeMessage opens every interview session. It is not counted as a
// question.
const WelcomeMessage = "Hello! I will be conducting your interview today. I've reviewed your resume and the job description. I'll ask you a series of questions relevant to the position. Please take your time to provide detailed and specific answers. Are you ready to begin?"

// fallbackQuestion is used when the model returns an empty question.
const fallbackQuestion = "Can you tell me about a challenging project you've worked on and how you handled it?"

// ErrSessionCompleted is returned for turns on an already finished session.
var ErrSessionCompleted = errors.New("interview session is already completed")

type interviewStore interface {
	CreateInterviewSession(ctx context.Context, session *models.InterviewSession) error
	GetInterviewSessions(ctx context.Context, userID string) ([]models.InterviewSession, error)
	AppendInterviewMessage(ctx context.Context, message *models.InterviewMessage) error
	GetInterviewMessages(ctx context.Context, sessionID string) ([]models.InterviewMessage, error)
	AdvanceInterviewSession(ctx context.Context, session *models.InterviewSession, expectedVersion int) error
}

type interviewAI interface {
	GenerateInterviewQuestion(ctx context.Context, sessionID, resumeText, jobDescription string, history []models.InterviewMessage, questionNum, totalQuestions int) (string, error)
	GenerateInterviewFeedback(ctx context.Context, sessionID, resumeText, jobDescription string, history []models.InterviewMessage) (string, error)
}

// transcriptFeed receives every appended message for live fan-out.
type transcriptFeed interface {
	PublishMessage(sessionID, role, content string, seq int)
}

// InterviewService drives the question/answer state machine for mock
// interviews.
type InterviewService struct {
	store interviewStore
	ai    interviewAI
	feed  transcriptFeed
}

func NewInterviewService(store interviewStore, ai interviewAI, feed transcriptFeed) *InterviewService {
	return &InterviewService{store: store, ai: ai, feed: feed}
}

// StartSession creates a session with a snapshot of the user's resume and
// the welcome message as the first transcript line.
func (s *InterviewService) StartSession(ctx context.Context, userID, jobDescription, resumeText string, totalQuestions int) (*models.InterviewSession, error) {
	if totalQuestions <= 0 {
		totalQuestions = 10
	}

	session := &models.InterviewSession{
		UserID:         userID,
		JobDescription: jobDescription,
		ResumeText:     resumeText,
		TotalQuestions: totalQuestions,
	}
	if err := s.store.CreateInterviewSession(ctx, session); err != nil {
		return nil, err
	}

	welcome := &models.InterviewMessage{
		SessionID: session.ID,
		Seq:       1,
		Role:      models.RoleInterviewer,
		Content:   WelcomeMessage,
	}
	if err := s.store.AppendInterviewMessage(ctx, welcome); err != nil {
		return nil, err
	}
	s.publish(welcome)

	session.Messages = []models.InterviewMessage{*welcome}
	return session, nil
}

// Turn advances a session by one answer. On a non-final answer the reply is
// the next question; a gateway failure becomes the question text so the
// conversation keeps moving. On the final answer the reply is the raw
// evaluation and the session is marked completed.
func (s *InterviewService) Turn(ctx context.Context, session *models.InterviewSession, answer string) (*models.InterviewMessage, error) {
	if session.Completed {
		return nil, ErrSessionCompleted
	}

	expectedVersion := session.TurnVersion

	messages, err := s.store.GetInterviewMessages(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	candidate := &models.InterviewMessage{
		SessionID: session.ID,
		Seq:       len(messages) + 1,
		Role:      models.RoleCandidate,
		Content:   answer,
	}
	if err := s.store.AppendInterviewMessage(ctx, candidate); err != nil {
		return nil, err
	}
	s.publish(candidate)
	history := append(messages, *candidate)

	var reply *models.InterviewMessage
	if session.CurrentQuestion >= session.TotalQuestions {
		reply = s.finishSession(ctx, session, history)
	} else {
		reply = s.nextQuestion(ctx, session, history)
	}

	if err := s.store.AppendInterviewMessage(ctx, reply); err != nil {
		return nil, err
	}
	s.publish(reply)

	if err := s.store.AdvanceInterviewSession(ctx, session, expectedVersion); err != nil {
		return nil, err
	}

	return reply, nil
}

func (s *InterviewService) nextQuestion(ctx context.Context, session *models.InterviewSession, history []models.InterviewMessage) *models.InterviewMessage {
	// The welcome line is interviewer-authored but not a question, so the
	// next question number is the interviewer message count.
	questionNum := 0
	for _, message := range history {
		if message.Role == models.RoleInterviewer {
			questionNum++
		}
	}

	question, err := s.ai.GenerateInterviewQuestion(ctx, session.ID, session.ResumeText, session.JobDescription, history, questionNum, session.TotalQuestions)
	if err != nil {
		// The turn must not fail on a gateway error; surface it in the
		// conversation instead.
		slog.Error("Question generation failed", "error", err, "session_id", session.ID)
		question = fmt.Sprintf("Error generating question: %v", err)
	} else if strings.TrimSpace(question) == "" {
		question = fallbackQuestion
	}

	session.CurrentQuestion++

	return &models.InterviewMessage{
		SessionID: session.ID,
		Seq:       len(history) + 1,
		Role:      models.RoleInterviewer,
		Content:   question,
	}
}

func (s *InterviewService) finishSession(ctx context.Context, session *models.InterviewSession, history []models.InterviewMessage) *models.InterviewMessage {
	raw, err := s.ai.GenerateInterviewFeedback(ctx, session.ID, session.ResumeText, session.JobDescription, history)
	if err != nil {
		slog.Error("Feedback generation failed", "error", err, "session_id", session.ID)
		raw = fmt.Sprintf("Error generating feedback: %v", err)
	}

	parsed := ParseFeedback(raw)
	score := parsed.Score
	session.Completed = true
	session.PerformanceScore = &score
	session.FeedbackSummary = parsed.Feedback
	session.ScoreParsed = parsed.Parsed

	slog.Info("Interview completed", "session_id", session.ID, "score", score, "score_parsed", parsed.Parsed)

	return &models.InterviewMessage{
		SessionID: session.ID,
		Seq:       len(history) + 1,
		Role:      models.RoleInterviewer,
		Content:   raw,
	}
}

func (s *InterviewService) publish(message *models.InterviewMessage) {
	if s.feed != nil {
		s.feed.PublishMessage(message.SessionID, message.Role, message.Content, message.Seq)
	}
}
