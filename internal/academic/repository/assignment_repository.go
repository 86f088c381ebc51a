package repository

import (
	"errors"
	"fmt"
	"time"

	"unihelper/internal/academic/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormAssignmentRepository implements AssignmentRepository using GORM
type gormAssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new GORM-based AssignmentRepository
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &gormAssignmentRepository{db: db}
}

func (r *gormAssignmentRepository) Create(assignment *domain.Assignment) error {
	if assignment.DueDate.IsZero() {
		return fmt.Errorf("%w: assignment due date is required", domain.ErrValidation)
	}
	if assignment.Title == "" {
		return fmt.Errorf("%w: assignment title is required", domain.ErrValidation)
	}
	if assignment.ID == "" {
		assignment.ID = uuid.New().String()
	}
	if assignment.Status == "" {
		assignment.Status = domain.StatusPending
	}
	if assignment.Priority == "" {
		assignment.Priority = domain.PriorityMedium
	}
	assignment.DueDate = assignment.DueDate.UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	if err := r.db.Create(assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConstraint
		}
		return err
	}
	return nil
}

func (r *gormAssignmentRepository) FindByID(id string) (*domain.Assignment, error) {
	var assignment domain.Assignment
	err := r.db.Where("id = ?", id).First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *gormAssignmentRepository) GetUpcoming(days int) ([]*domain.Assignment, error) {
	now := time.Now().UTC()
	end := now.Add(time.Duration(days) * 24 * time.Hour)

	var assignments []*domain.Assignment
	err := r.db.Where("status = ? AND due_date >= ? AND due_date <= ?",
		domain.StatusPending, now, end).
		Order("due_date ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *gormAssignmentRepository) GetDueSoon(hours int) ([]*domain.Assignment, error) {
	now := time.Now().UTC()
	threshold := now.Add(time.Duration(hours) * time.Hour)

	var assignments []*domain.Assignment
	err := r.db.Where("status = ? AND reminded_at IS NULL AND due_date >= ? AND due_date <= ?",
		domain.StatusPending, now, threshold).
		Order("due_date ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *gormAssignmentRepository) MarkReminded(id string) error {
	now := time.Now().UTC()
	return r.db.Model(&domain.Assignment{}).Where("id = ?", id).
		Update("reminded_at", now).Error
}

func (r *gormAssignmentRepository) MarkCompleted(id string) error {
	return r.db.Model(&domain.Assignment{}).Where("id = ?", id).
		Update("status", domain.StatusCompleted).Error
}

func (r *gormAssignmentRepository) FindByClass(classID string) ([]*domain.Assignment, error) {
	var assignments []*domain.Assignment
	err := r.db.Where("class_id = ?", classID).
		Order("due_date DESC").
		Find(&assignments).Error
	return assignments, err
}
