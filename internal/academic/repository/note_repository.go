package repository

import (
	"errors"
	"time"

	"unihelper/internal/academic/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormNoteRepository implements NoteRepository using GORM
type gormNoteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new GORM-based NoteRepository
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &gormNoteRepository{db: db}
}

func (r *gormNoteRepository) Create(note *domain.Note) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	if err := r.db.Create(note).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConstraint
		}
		return err
	}
	return nil
}

func (r *gormNoteRepository) Search(query string, limit int) ([]*domain.Note, error) {
	var notes []*domain.Note
	err := r.db.Where("content LIKE ?", "%"+query+"%").
		Order("created_at DESC").
		Limit(limit).
		Find(&notes).Error
	return notes, err
}

func (r *gormNoteRepository) FindByClass(classID string, limit int) ([]*domain.Note, error) {
	var notes []*domain.Note
	err := r.db.Where("class_id = ?", classID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notes).Error
	return notes, err
}
