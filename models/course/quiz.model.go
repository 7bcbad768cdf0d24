package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizQuestion represents one multiple-choice question attached to a course
type QuizQuestion struct {
	gorm.Model
	CourseID      string         `json:"course_id" gorm:"index;not null"`
	Question      string         `json:"question" gorm:"type:text"`
	Options       datatypes.JSON `json:"options"` // JSON array of option strings
	CorrectAnswer int            `json:"correct_answer"`
	Explanation   string         `json:"explanation" gorm:"type:text"`
	OrderIndex    int            `json:"order_index" gorm:"default:0"`
	IsDeleted     bool           `gorm:"default:false"`
}

// QuizAttempt represents a student's submission of a course quiz
type QuizAttempt struct {
	gorm.Model
	UserID    string         `json:"user_id" gorm:"index;not null"`
	CourseID  string         `json:"course_id" gorm:"index;not null"`
	Answers   datatypes.JSON `json:"answers"` // JSON array of selected option indexes
	Score     int            `json:"score"`   // percentage 0-100
	Passed    bool           `json:"passed" gorm:"default:false"`
	TimeSpent int            `json:"time_spent"` // in seconds
	IsDeleted bool           `gorm:"default:false"`
}
