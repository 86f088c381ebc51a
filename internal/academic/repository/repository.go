package repository

import (
	"unihelper/internal/academic/domain"
)

// ClassRepository defines data access for classes
type ClassRepository interface {
	// GetOrCreate finds a class by name (case-insensitive) or inserts
	// a new one. All calls with the same name return the same row.
	GetOrCreate(name string) (*domain.Class, error)

	// FindByName finds a class by name (case-insensitive), nil if absent
	FindByName(name string) (*domain.Class, error)

	// FindByID finds a class by ID, nil if absent
	FindByID(id string) (*domain.Class, error)

	// GetAll returns every class ordered by name
	GetAll() ([]*domain.Class, error)
}

// NoteRepository defines data access for notes
type NoteRepository interface {
	// Create inserts a new note
	Create(note *domain.Note) error

	// Search returns notes whose content contains query,
	// most-recent-first, at most limit rows
	Search(query string, limit int) ([]*domain.Note, error)

	// FindByClass returns notes for a class, most-recent-first
	FindByClass(classID string, limit int) ([]*domain.Note, error)
}

// AssignmentRepository defines data access for assignments
type AssignmentRepository interface {
	// Create inserts a new assignment. A zero due date is rejected
	// with domain.ErrValidation.
	Create(assignment *domain.Assignment) error

	// FindByID finds an assignment by ID, nil if absent
	FindByID(id string) (*domain.Assignment, error)

	// GetUpcoming returns pending assignments due within the next
	// `days` days, due-date ascending
	GetUpcoming(days int) ([]*domain.Assignment, error)

	// GetDueSoon returns pending assignments due within the next
	// `hours` hours that have not been reminded yet, due-date
	// ascending. The reminded_at IS NULL predicate is the reminder
	// deduplication guard.
	GetDueSoon(hours int) ([]*domain.Assignment, error)

	// MarkReminded records that a reminder was sent
	MarkReminded(id string) error

	// MarkCompleted sets the assignment status to completed
	MarkCompleted(id string) error

	// FindByClass returns assignments for a class, due-date descending
	FindByClass(classID string) ([]*domain.Assignment, error)
}

// ProcessedEmailRepository defines the inbound deduplication pair
type ProcessedEmailRepository interface {
	// IsProcessed reports whether a marker exists for the message
	IsProcessed(messageID string) (bool, error)

	// MarkProcessed writes the marker. Calling it twice for the same
	// message leaves exactly one row.
	MarkProcessed(messageID, subject string) error
}
