package course

import "time"

// Lesson holds the renderable content of one unit inside a module. For a
// SCORM-derived course the single lesson's content is the generated embed
// payload that launches the package; it is never independently authored.
type Lesson struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	ModuleID   string    `json:"module_id" gorm:"index;not null"`
	Title      string    `json:"title"`
	Content    string    `json:"content" gorm:"type:text"`
	VideoURL   string    `json:"video_url"`
	Duration   *int      `json:"duration"` // in minutes, nil when unknown (SCORM)
	OrderIndex int       `json:"order_index" gorm:"default:0"`
	IsDeleted  bool      `gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
}
