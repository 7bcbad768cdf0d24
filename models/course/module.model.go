package course

import "time"

// Module represents a section/module within a course
type Module struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	CourseID    string    `json:"course_id" gorm:"index;not null"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OrderIndex  int       `json:"order_index" gorm:"default:0"` // Module order in course
	IsDeleted   bool      `gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
}
