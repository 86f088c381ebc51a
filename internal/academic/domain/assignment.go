package domain

import "time"

// AssignmentStatus represents the current state of an assignment
type AssignmentStatus string

const (
	StatusPending   AssignmentStatus = "pending"
	StatusCompleted AssignmentStatus = "completed"
)

// Priority represents assignment priority level
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Assignment is a deadline-bearing task extracted from email.
// Status moves pending -> completed only by explicit request, never
// because the due date passed. RemindedAt is set at most once, by the
// reminder scheduler after a reminder email went out.
type Assignment struct {
	ID            string           `json:"id" gorm:"primaryKey"`
	ClassID       *string          `json:"class_id,omitempty" gorm:"index"`
	Title         string           `json:"title" gorm:"not null"`
	Description   string           `json:"description,omitempty"`
	DueDate       time.Time        `json:"due_date" gorm:"index;not null"`
	ReminderHours int              `json:"reminder_hours" gorm:"default:24"`
	Priority      Priority         `json:"priority" gorm:"default:medium"`
	Status        AssignmentStatus `json:"status" gorm:"default:pending;index"`
	RemindedAt    *time.Time       `json:"reminded_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}
