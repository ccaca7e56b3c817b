package models

import (
	"time"

	"gorm.io/gorm"
)

// Exam generation runs in the background; Status tracks the pipeline.
const (
	ExamStatusQueued     = "queued"
	ExamStatusProcessing = "processing"
	ExamStatusCompleted  = "completed"
	ExamStatusFailed     = "failed"
)

type Exam struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	JobRole   string         `gorm:"size:255;not null" json:"job_role"`
	Status    string         `gorm:"not null;default:'queued';check:status IN ('queued', 'processing', 'completed', 'failed')" json:"status"`
	Error     string         `gorm:"type:text" json:"error,omitempty"`
	Score     *int           `json:"score,omitempty"` // Final percentage, set when the result is computed
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User      User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Questions []ExamQuestion `gorm:"foreignKey:ExamID" json:"questions,omitempty"`
}

type ExamQuestion struct {
	ID            string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ExamID        string         `gorm:"type:uuid;not null;index" json:"exam_id"`
	Position      int            `gorm:"not null" json:"position"`
	Text          string         `gorm:"type:text;not null" json:"text"`
	OptionA       string         `gorm:"type:text;not null" json:"option_a"`
	OptionB       string         `gorm:"type:text;not null" json:"option_b"`
	OptionC       string         `gorm:"type:text;not null" json:"option_c"`
	OptionD       string         `gorm:"type:text;not null" json:"option_d"`
	CorrectOption string         `gorm:"size:1;not null;check:correct_option IN ('A', 'B', 'C', 'D')" json:"-"`
	Explanation   string         `gorm:"type:text" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Exam Exam `gorm:"foreignKey:ExamID" json:"-"`
}

// ExamAnswer records the user's pick for one question. IsCorrect is computed
// when the answer is written, never trusted from the client.
type ExamAnswer struct {
	ID         string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	QuestionID string         `gorm:"type:uuid;not null;uniqueIndex:idx_answer_question_user" json:"question_id"`
	UserID     string         `gorm:"type:uuid;not null;uniqueIndex:idx_answer_question_user" json:"user_id"`
	Selected   string         `gorm:"size:1;not null;check:selected IN ('A', 'B', 'C', 'D')" json:"selected"`
	IsCorrect  bool           `gorm:"not null" json:"is_correct"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Question ExamQuestion `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	User     User         `gorm:"foreignKey:UserID" json:"-"`
}
