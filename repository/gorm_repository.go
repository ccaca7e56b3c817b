package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/jobhelper/backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GORMRepository struct {
	db *gorm.DB
}

func NewGORMRepository(db *gorm.DB) *GORMRepository {
	return &GORMRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GORMRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.RefreshToken{},
		&models.PermanentToken{},
		&models.InterviewSession{},
		&models.InterviewMessage{},
		&models.TrainingSession{},
		&models.TrainingMessage{},
		&models.Exam{},
		&models.ExamQuestion{},
		&models.ExamAnswer{},
		&models.AnalysisResult{},
		&models.ATSResult{},
	)
}

// User operations
func (r *GORMRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		slog.Error("Failed to create user", "error", err)
		return err
	}
	slog.Info("User created", "user_id", user.ID, "email", user.Email)
	return nil
}

func (r *GORMRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get user by email", "error", err, "email", email)
		return nil, err
	}
	return &user, nil
}

func (r *GORMRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get user by ID", "error", err, "user_id", id)
		return nil, err
	}
	return &user, nil
}

// Profile operations
func (r *GORMRepository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		slog.Error("Failed to create profile", "error", err, "user_id", profile.UserID)
		return err
	}
	slog.Info("Profile created", "profile_id", profile.ID, "user_id", profile.UserID)
	return nil
}

func (r *GORMRepository) GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get profile", "error", err, "user_id", userID)
		return nil, err
	}
	return &profile, nil
}

func (r *GORMRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		slog.Error("Failed to update profile", "error", err, "profile_id", profile.ID)
		return err
	}
	return nil
}

// Token operations
func (r *GORMRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		slog.Error("Failed to create refresh token", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ? AND expires_at > ?", token, time.Now()).First(&refreshToken).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get refresh token", "error", err)
		return nil, err
	}
	return &refreshToken, nil
}

func (r *GORMRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	if err := r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{}).Error; err != nil {
		slog.Error("Failed to delete refresh token", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) CreatePermanentToken(ctx context.Context, token *models.PermanentToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		slog.Error("Failed to create permanent token", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) GetPermanentToken(ctx context.Context, token string) (*models.PermanentToken, error) {
	var permanentToken models.PermanentToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&permanentToken).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get permanent token", "error", err)
		return nil, err
	}
	return &permanentToken, nil
}

func (r *GORMRepository) DeletePermanentToken(ctx context.Context, token string) error {
	if err := r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.PermanentToken{}).Error; err != nil {
		slog.Error("Failed to delete permanent token", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) DeleteAllUserTokens(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
		slog.Error("Failed to delete user refresh tokens", "error", err, "user_id", userID)
		return err
	}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.PermanentToken{}).Error; err != nil {
		slog.Error("Failed to delete user permanent tokens", "error", err, "user_id", userID)
		return err
	}
	return nil
}

// Analysis operations
func (r *GORMRepository) CreateAnalysisResult(ctx context.Context, result *models.AnalysisResult) error {
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		slog.Error("Failed to create analysis result", "error", err, "user_id", result.UserID)
		return err
	}
	slog.Info("Analysis result created", "result_id", result.ID, "user_id", result.UserID)
	return nil
}

func (r *GORMRepository) GetAnalysisResults(ctx context.Context, userID string, limit int) ([]models.AnalysisResult, error) {
	var results []models.AnalysisResult
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&results).Error
	if err != nil {
		slog.Error("Failed to get analysis results", "error", err, "user_id", userID)
		return nil, err
	}
	return results, nil
}

// ATS operations
func (r *GORMRepository) CreateATSResult(ctx context.Context, result *models.ATSResult) error {
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		slog.Error("Failed to create ATS result", "error", err, "user_id", result.UserID)
		return err
	}
	slog.Info("ATS result created", "result_id", result.ID, "user_id", result.UserID, "final_score", result.FinalScore)
	return nil
}

func (r *GORMRepository) GetATSResults(ctx context.Context, userID string, limit int) ([]models.ATSResult, error) {
	var results []models.ATSResult
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&results).Error
	if err != nil {
		slog.Error("Failed to get ATS results", "error", err, "user_id", userID)
		return nil, err
	}
	return results, nil
}

// Exam operations
func (r *GORMRepository) CreateExam(ctx context.Context, exam *models.Exam) error {
	if err := r.db.WithContext(ctx).Create(exam).Error; err != nil {
		slog.Error("Failed to create exam", "error", err, "user_id", exam.UserID)
		return err
	}
	slog.Info("Exam created", "exam_id", exam.ID, "user_id", exam.UserID, "job_role", exam.JobRole)
	return nil
}

func (r *GORMRepository) GetExam(ctx context.Context, examID string, userID string) (*models.Exam, error) {
	var exam models.Exam
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", examID, userID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&exam).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get exam", "error", err, "exam_id", examID, "user_id", userID)
		return nil, err
	}
	return &exam, nil
}

// GetExamByID gets an exam without a user check, for background workers
func (r *GORMRepository) GetExamByID(ctx context.Context, examID string) (*models.Exam, error) {
	var exam models.Exam
	if err := r.db.WithContext(ctx).Where("id = ?", examID).First(&exam).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get exam by ID", "error", err, "exam_id", examID)
		return nil, err
	}
	return &exam, nil
}

func (r *GORMRepository) GetQueuedExamIDs(ctx context.Context, limit int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Exam{}).
		Where("status = ?", models.ExamStatusQueued).
		Order("created_at").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		slog.Error("Failed to get queued exams", "error", err)
		return nil, err
	}
	return ids, nil
}

func (r *GORMRepository) UpdateExamStatus(ctx context.Context, examID string, status string, errMsg string) error {
	updates := map[string]interface{}{"status": status, "error": errMsg}
	if err := r.db.WithContext(ctx).Model(&models.Exam{}).Where("id = ?", examID).Updates(updates).Error; err != nil {
		slog.Error("Failed to update exam status", "error", err, "exam_id", examID, "status", status)
		return err
	}
	return nil
}

// ClaimExam flips a queued exam to processing. Returns false when another
// worker already claimed it.
func (r *GORMRepository) ClaimExam(ctx context.Context, examID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Exam{}).
		Where("id = ? AND status = ?", examID, models.ExamStatusQueued).
		Update("status", models.ExamStatusProcessing)
	if res.Error != nil {
		slog.Error("Failed to claim exam", "error", res.Error, "exam_id", examID)
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GORMRepository) UpdateExamScore(ctx context.Context, examID string, score int) error {
	if err := r.db.WithContext(ctx).Model(&models.Exam{}).Where("id = ?", examID).Update("score", score).Error; err != nil {
		slog.Error("Failed to update exam score", "error", err, "exam_id", examID)
		return err
	}
	return nil
}

func (r *GORMRepository) CreateExamQuestions(ctx context.Context, questions []models.ExamQuestion) error {
	if err := r.db.WithContext(ctx).Create(&questions).Error; err != nil {
		slog.Error("Failed to create exam questions", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) GetExamQuestion(ctx context.Context, questionID string) (*models.ExamQuestion, error) {
	var question models.ExamQuestion
	if err := r.db.WithContext(ctx).Where("id = ?", questionID).First(&question).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get exam question", "error", err, "question_id", questionID)
		return nil, err
	}
	return &question, nil
}

// UpsertExamAnswer writes or replaces the user's answer for a question
func (r *GORMRepository) UpsertExamAnswer(ctx context.Context, answer *models.ExamAnswer) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "question_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"selected", "is_correct", "updated_at"}),
	}).Create(answer).Error
	if err != nil {
		slog.Error("Failed to upsert exam answer", "error", err, "question_id", answer.QuestionID)
		return err
	}
	return nil
}

func (r *GORMRepository) GetExamAnswers(ctx context.Context, examID string, userID string) ([]models.ExamAnswer, error) {
	var answers []models.ExamAnswer
	err := r.db.WithContext(ctx).
		Joins("JOIN exam_questions ON exam_questions.id = exam_answers.question_id").
		Where("exam_questions.exam_id = ? AND exam_answers.user_id = ?", examID, userID).
		Find(&answers).Error
	if err != nil {
		slog.Error("Failed to get exam answers", "error", err, "exam_id", examID, "user_id", userID)
		return nil, err
	}
	return answers, nil
}
