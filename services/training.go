package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jobhelper/backend/models"
)

// CoachWelcomeMessage opens every training session.
const CoachWelcomeMessage = "Hi! I'm your AI career coach. I can help you prepare for interviews, improve your resume, practice answering questions, or talk through your career goals. What would you like to work on today?"

type trainingStore interface {
	CreateTrainingSession(ctx context.Context, session *models.TrainingSession) error
	AppendTrainingMessage(ctx context.Context, message *models.TrainingMessage) error
	GetTrainingMessages(ctx context.Context, sessionID string) ([]models.TrainingMessage, error)
}

type coachAI interface {
	GenerateCoachReply(ctx context.Context, systemInstruction string, history []models.TrainingMessage) (string, error)
}

// TrainingService runs the open-ended coaching chat. Replies are stored
// verbatim; a gateway failure is stored as the reply so the conversation
// always renders.
type TrainingService struct {
	store trainingStore
	ai    coachAI
	feed  transcriptFeed
}

func NewTrainingService(store trainingStore, ai coachAI, feed transcriptFeed) *TrainingService {
	return &TrainingService{store: store, ai: ai, feed: feed}
}

func (s *TrainingService) StartSession(ctx context.Context, userID, jobDescription, resumeText string) (*models.TrainingSession, error) {
	session := &models.TrainingSession{
		UserID:         userID,
		JobDescription: jobDescription,
		ResumeText:     resumeText,
	}
	if err := s.store.CreateTrainingSession(ctx, session); err != nil {
		return nil, err
	}

	welcome := &models.TrainingMessage{
		SessionID: session.ID,
		Seq:       1,
		Role:      models.RoleBot,
		Content:   CoachWelcomeMessage,
	}
	if err := s.store.AppendTrainingMessage(ctx, welcome); err != nil {
		return nil, err
	}
	s.publish(welcome)

	session.Messages = []models.TrainingMessage{*welcome}
	return session, nil
}

// Turn appends the user message, asks the coach for a reply over the full
// history and appends that verbatim.
func (s *TrainingService) Turn(ctx context.Context, session *models.TrainingSession, text string) (*models.TrainingMessage, error) {
	messages, err := s.store.GetTrainingMessages(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	userMessage := &models.TrainingMessage{
		SessionID: session.ID,
		Seq:       len(messages) + 1,
		Role:      models.RoleUser,
		Content:   text,
	}
	if err := s.store.AppendTrainingMessage(ctx, userMessage); err != nil {
		return nil, err
	}
	s.publish(userMessage)
	history := append(messages, *userMessage)

	reply, err := s.ai.GenerateCoachReply(ctx, s.buildSystemInstruction(session), history)
	if err != nil {
		// Degrade to an inline error so the chat still renders
		slog.Error("Coach reply generation failed", "error", err, "session_id", session.ID)
		reply = fmt.Sprintf("Sorry, I ran into a problem generating a response: %v", err)
	}

	botMessage := &models.TrainingMessage{
		SessionID: session.ID,
		Seq:       len(history) + 1,
		Role:      models.RoleBot,
		Content:   reply,
	}
	if err := s.store.AppendTrainingMessage(ctx, botMessage); err != nil {
		return nil, err
	}
	s.publish(botMessage)

	return botMessage, nil
}

func (s *TrainingService) buildSystemInstruction(session *models.TrainingSession) string {
	return fmt.Sprintf(`You are an experienced career coach helping a job seeker prepare for their career.

Candidate resume:
%s

Target job description:
%s

Coaching guidelines:
- Give practical, specific advice grounded in the candidate's background.
- When asked to practice interview questions, ask one question at a time and give feedback on answers.
- Help improve resume wording when asked, with concrete rewrites.
- Keep responses focused and conversational.`,
		session.ResumeText, session.JobDescription)
}

func (s *TrainingService) publish(message *models.TrainingMessage) {
	if s.feed != nil {
		s.feed.PublishMessage(message.SessionID, message.Role, message.Content, message.Seq)
	}
}
