package domain

import "time"

// ProcessedEmail is the deduplication marker for inbound messages.
// Existence of a row is the sole authority for "already handled":
// the poller checks it before acting and writes it after acting.
type ProcessedEmail struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	MessageID   string    `json:"message_id" gorm:"uniqueIndex;not null"`
	Subject     string    `json:"subject,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}
