package course

import (
	"time"

	"gorm.io/gorm"
)

// Badge is awarded when a student passes a course quiz
type Badge struct {
	gorm.Model
	UserID        string    `json:"user_id" gorm:"index;not null"`
	CourseID      string    `json:"course_id" gorm:"index;not null"`
	BadgeID       string    `json:"badge_id"` // badge_<course-id>
	QuizAttemptID uint      `json:"quiz_attempt_id"`
	EarnedAt      time.Time `json:"earned_at"`
	IsDeleted     bool      `gorm:"default:false"`
}

// Certificate represents the programme completion certificate, issued once
// every SCORM course quiz has been passed
type Certificate struct {
	gorm.Model
	UserID            string    `json:"user_id" gorm:"index;not null"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique"`
	CertificateURL    string    `json:"certificate_url"`
	IssuedAt          time.Time `json:"issued_at"`
	IsDeleted         bool      `gorm:"default:false"`
}
