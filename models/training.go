package models

import (
	"time"

	"gorm.io/gorm"
)

// TrainingSession is an open-ended coaching chat. Unlike interviews it has
// no turn counter and never completes.
type TrainingSession struct {
	ID             string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID         string         `gorm:"type:uuid;not null;index" json:"user_id"`
	JobDescription string         `gorm:"type:text" json:"job_description"`
	ResumeText     string         `gorm:"type:text" json:"resume_text"` // Snapshot of the profile resume at creation
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User     User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Messages []TrainingMessage `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

type TrainingMessage struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID string         `gorm:"type:uuid;not null;index" json:"session_id"`
	Seq       int            `gorm:"not null" json:"seq"`
	Role      string         `gorm:"not null;check:role IN ('bot', 'user')" json:"role"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Session TrainingSession `gorm:"foreignKey:SessionID" json:"-"`
}

const (
	RoleBot  = "bot"
	RoleUser = "user"
)
