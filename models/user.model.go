package models

import "time"

// User mirrors the account record provisioned by the external identity
// provider. IDs are the provider's subject strings, not auto-increments.
type User struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	Email           string    `json:"email" gorm:"uniqueIndex"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	ProfileImageURL string    `json:"profile_image_url"`
	Role            string    `json:"role" gorm:"default:'student'"` // student, instructor, admin
	IsDeleted       bool      `gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
