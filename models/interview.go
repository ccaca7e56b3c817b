package models

import (
	"time"

	"gorm.io/gorm"
)

// InterviewSession records one mock interview: a counted sequence of
// question/answer turns against the user's resume and a job description.
type InterviewSession struct {
	ID               string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID           string         `gorm:"type:uuid;not null;index" json:"user_id"`
	JobDescription   string         `gorm:"type:text;not null" json:"job_description"`
	ResumeText       string         `gorm:"type:text" json:"resume_text"` // Snapshot of the profile resume at creation
	CurrentQuestion  int            `gorm:"not null;default:0" json:"current_question"`
	TotalQuestions   int            `gorm:"not null;default:10" json:"total_questions"`
	Completed        bool           `gorm:"not null;default:false" json:"completed"`
	PerformanceScore *float64       `gorm:"type:decimal(5,2)" json:"performance_score,omitempty"` // 0.00 to 100.00
	FeedbackSummary  string         `gorm:"type:text" json:"feedback_summary,omitempty"`
	ScoreParsed      bool           `gorm:"not null;default:false" json:"score_parsed"` // False when the final score could not be read from the feedback
	TurnVersion      int            `gorm:"not null;default:0" json:"-"`                // Optimistic lock for turn advancement
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User     User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Messages []InterviewMessage `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

// InterviewMessage is one immutable line of the interview transcript,
// ordered by Seq within its session.
type InterviewMessage struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID string         `gorm:"type:uuid;not null;index" json:"session_id"`
	Seq       int            `gorm:"not null" json:"seq"`
	Role      string         `gorm:"not null;check:role IN ('interviewer', 'candidate')" json:"role"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Session InterviewSession `gorm:"foreignKey:SessionID" json:"-"`
}

const (
	RoleInterviewer = "interviewer"
	RoleCandidate   = "candidate"
)
