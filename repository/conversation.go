package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jobhelper/backend/models"
	"gorm.io/gorm"
)

// ErrStaleTurn is returned when a turn advance races another request on the
// same session version.
var ErrStaleTurn = errors.New("session turn version is stale")

// ConversationRepository handles interview and training sessions together
// with their ordered message transcripts.
type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Interview sessions

func (r *ConversationRepository) CreateInterviewSession(ctx context.Context, session *models.InterviewSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		slog.Error("Failed to create interview session", "error", err, "user_id", session.UserID)
		return fmt.Errorf("failed to create interview session: %w", err)
	}
	slog.Info("Interview session created", "session_id", session.ID, "user_id", session.UserID)
	return nil
}

func (r *ConversationRepository) GetInterviewSession(ctx context.Context, sessionID, userID string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get interview session", "error", err, "session_id", sessionID)
		return nil, err
	}
	return &session, nil
}

func (r *ConversationRepository) GetInterviewSessions(ctx context.Context, userID string) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&sessions).Error
	if err != nil {
		slog.Error("Failed to get interview sessions", "error", err, "user_id", userID)
		return nil, err
	}
	return sessions, nil
}

// AppendInterviewMessage writes the next transcript line. Seq must already
// be set by the caller from the ordered history it holds.
func (r *ConversationRepository) AppendInterviewMessage(ctx context.Context, message *models.InterviewMessage) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		slog.Error("Failed to append interview message", "error", err, "session_id", message.SessionID)
		return fmt.Errorf("failed to append interview message: %w", err)
	}
	return nil
}

func (r *ConversationRepository) GetInterviewMessages(ctx context.Context, sessionID string) ([]models.InterviewMessage, error) {
	var messages []models.InterviewMessage
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("seq").Find(&messages).Error
	if err != nil {
		slog.Error("Failed to get interview messages", "error", err, "session_id", sessionID)
		return nil, fmt.Errorf("failed to get interview messages: %w", err)
	}
	return messages, nil
}

// AdvanceInterviewSession persists a turn transition guarded by the session's
// turn version. A concurrent turn on the same version loses with ErrStaleTurn.
func (r *ConversationRepository) AdvanceInterviewSession(ctx context.Context, session *models.InterviewSession, expectedVersion int) error {
	res := r.db.WithContext(ctx).
		Model(&models.InterviewSession{}).
		Where("id = ? AND turn_version = ?", session.ID, expectedVersion).
		Updates(map[string]interface{}{
			"current_question":  session.CurrentQuestion,
			"completed":         session.Completed,
			"performance_score": session.PerformanceScore,
			"feedback_summary":  session.FeedbackSummary,
			"score_parsed":      session.ScoreParsed,
			"turn_version":      expectedVersion + 1,
		})
	if res.Error != nil {
		slog.Error("Failed to advance interview session", "error", res.Error, "session_id", session.ID)
		return res.Error
	}
	if res.RowsAffected == 0 {
		slog.Warn("Stale turn rejected", "session_id", session.ID, "expected_version", expectedVersion)
		return ErrStaleTurn
	}
	session.TurnVersion = expectedVersion + 1
	return nil
}

// Training sessions

func (r *ConversationRepository) CreateTrainingSession(ctx context.Context, session *models.TrainingSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		slog.Error("Failed to create training session", "error", err, "user_id", session.UserID)
		return fmt.Errorf("failed to create training session: %w", err)
	}
	slog.Info("Training session created", "session_id", session.ID, "user_id", session.UserID)
	return nil
}

func (r *ConversationRepository) GetTrainingSession(ctx context.Context, sessionID, userID string) (*models.TrainingSession, error) {
	var session models.TrainingSession
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get training session", "error", err, "session_id", sessionID)
		return nil, err
	}
	return &session, nil
}

func (r *ConversationRepository) GetTrainingSessions(ctx context.Context, userID string) ([]models.TrainingSession, error) {
	var sessions []models.TrainingSession
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&sessions).Error
	if err != nil {
		slog.Error("Failed to get training sessions", "error", err, "user_id", userID)
		return nil, err
	}
	return sessions, nil
}

func (r *ConversationRepository) AppendTrainingMessage(ctx context.Context, message *models.TrainingMessage) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		slog.Error("Failed to append training message", "error", err, "session_id", message.SessionID)
		return fmt.Errorf("failed to append training message: %w", err)
	}
	return nil
}

func (r *ConversationRepository) GetTrainingMessages(ctx context.Context, sessionID string) ([]models.TrainingMessage, error) {
	var messages []models.TrainingMessage
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("seq").Find(&messages).Error
	if err != nil {
		slog.Error("Failed to get training messages", "error", err, "session_id", sessionID)
		return nil, fmt.Errorf("failed to get training messages: %w", err)
	}
	return messages, nil
}
