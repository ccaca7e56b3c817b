package models

import (
	"time"

	"gorm.io/gorm"
)

// AnalysisResult stores one AI resume-vs-job-description analysis run.
type AnalysisResult struct {
	ID             string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID         string         `gorm:"type:uuid;not null;index" json:"user_id"`
	JobDescription string         `gorm:"type:text;not null" json:"job_description"`
	Score          float64        `gorm:"type:decimal(5,2)" json:"score"` // 0.00 to 100.00
	Suggestions    string         `gorm:"type:text" json:"suggestions"`
	ImprovedResume string         `gorm:"type:text" json:"improved_resume"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// ATSResult stores one ATS compatibility check. FinalScore is the fused
// heuristic score; BaselineScore is the keyword-only component.
type ATSResult struct {
	ID              string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID          string         `gorm:"type:uuid;not null;index" json:"user_id"`
	JobDescription  string         `gorm:"type:text;not null" json:"job_description"`
	BaselineScore   int            `gorm:"not null" json:"baseline_score"`
	FinalScore      int            `gorm:"not null" json:"final_score"`
	MissingKeywords string         `gorm:"type:text" json:"missing_keywords"`
	Suggestions     string         `gorm:"type:text" json:"suggestions"`
	OptimizedResume string         `gorm:"type:text" json:"optimized_resume,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}
