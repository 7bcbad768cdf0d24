package course

import "time"

// Category groups courses in the catalog
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Course represents a learning course. SCORM-derived courses carry stable
// string IDs produced by the manifest parser (e.g. scorm-course-3), so the
// primary key is text rather than an auto-increment.
type Course struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	InstructorID string    `json:"instructor_id" gorm:"index"`
	CategoryID   string    `json:"category_id" gorm:"index"`
	Duration     int       `json:"duration" gorm:"default:0"` // duration in weeks
	Difficulty   string    `json:"difficulty"`                // Foundation, Intermediate, Advanced, Professional
	LaunchURL    string    `json:"launch_url"`                // SCORM entry point, empty for authored courses
	IsPublished  bool      `json:"is_published" gorm:"default:false"`
	IsDeleted    bool      `gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
