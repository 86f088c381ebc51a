package domain

import "time"

// Note is a captured piece of information, optionally filed under a
// class. Notes are immutable after creation.
type Note struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	ClassID   *string   `json:"class_id,omitempty" gorm:"index"`
	Content   string    `json:"content" gorm:"not null"`
	NoteType  string    `json:"note_type" gorm:"default:general"`
	Metadata  string    `json:"metadata,omitempty"` // JSON-encoded extraction metadata
	CreatedAt time.Time `json:"created_at"`
}
