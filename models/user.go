package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"size:255" json:"-"` // Hashed password (excluded from JSON)
	FullName  string         `gorm:"size:255" json:"full_name,omitempty"`
	Role      string         `gorm:"default:'user'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Profile           *Profile           `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	InterviewSessions []InterviewSession `gorm:"foreignKey:UserID" json:"interview_sessions,omitempty"`
	TrainingSessions  []TrainingSession  `gorm:"foreignKey:UserID" json:"training_sessions,omitempty"`
	RefreshTokens     []RefreshToken     `gorm:"foreignKey:UserID" json:"refresh_tokens,omitempty"`
}

// Profile holds a user's resume material. Created explicitly at signup,
// one row per user.
type Profile struct {
	ID            string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID        string         `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	ResumeText    string         `gorm:"type:text" json:"resume_text"` // Pasted by the user
	ResumeFile    string         `gorm:"size:500" json:"resume_file,omitempty"`
	ExtractedText string         `gorm:"type:text" json:"extracted_text"` // Pulled from the uploaded file
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// EffectiveResume prefers the pasted text, falling back to the extracted
// upload text.
func (p *Profile) EffectiveResume() string {
	if p.ResumeText != "" {
		return p.ResumeText
	}
	return p.ExtractedText
}

type RefreshToken struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string         `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time      `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type PermanentToken struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string         `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
