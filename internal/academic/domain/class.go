package domain

import "time"

// Class represents a course the user takes. Notes and assignments
// reference a class; classes are created on first mention and never
// deleted.
type Class struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	Code      string    `json:"code,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
