package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enrollment is the central mutable record bridging a user and a course.
// Progress is last-write-wins: the reconciler applies whatever the runtime
// bridge reported most recently, with no monotonicity guard, so a retake may
// legally lower it.
type Enrollment struct {
	gorm.Model
	UserID   string `json:"user_id" gorm:"index:idx_enrollment_user_course,unique;not null"`
	CourseID string `json:"course_id" gorm:"index:idx_enrollment_user_course,unique;not null"`

	Progress int `json:"progress" gorm:"default:0"` // 0-100

	// ScormData mirrors every key/value pair the embedded content reported.
	// It is opaque to the application beyond progress derivation.
	ScormData datatypes.JSONMap `json:"scorm_data"`

	// CurrentLocation and SuspendData duplicate the bookmark keys inside
	// ScormData for any reader of the flat columns; the working-state copy
	// is the one the bridge serves back to content.
	CurrentLocation string `json:"current_location"`
	SuspendData     string `json:"suspend_data" gorm:"type:text"`

	EnrolledAt     time.Time  `json:"enrolled_at"`
	CompletedAt    *time.Time `json:"completed_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at"`
	IsDeleted      bool       `gorm:"default:false"`
}

// ScormEvent records launch/close telemetry from the course player
type ScormEvent struct {
	gorm.Model
	UserID    string `json:"user_id" gorm:"index;not null"`
	CourseID  string `json:"course_id" gorm:"index;not null"`
	EventType string `json:"event_type"` // LAUNCH, CLOSE
	LaunchURL string `json:"launch_url"`
	IsDeleted bool   `gorm:"default:false"`
}
