package repository

import (
	"errors"
	"fmt"
	"time"

	"unihelper/internal/academic/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormClassRepository implements ClassRepository using GORM
type gormClassRepository struct {
	db *gorm.DB
}

// NewClassRepository creates a new GORM-based ClassRepository
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &gormClassRepository{db: db}
}

func (r *gormClassRepository) FindByName(name string) (*domain.Class, error) {
	var class domain.Class
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&class).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &class, nil
}

func (r *gormClassRepository) FindByID(id string) (*domain.Class, error) {
	var class domain.Class
	err := r.db.Where("id = ?", id).First(&class).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &class, nil
}

func (r *gormClassRepository) GetOrCreate(name string) (*domain.Class, error) {
	existing, err := r.FindByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	class := &domain.Class{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.Create(class).Error; err != nil {
		// Lost the lookup-then-insert race against another writer:
		// the row exists now, return it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.FindByName(name)
		}
		return nil, fmt.Errorf("create class %q: %w", name, err)
	}
	return class, nil
}

func (r *gormClassRepository) GetAll() ([]*domain.Class, error) {
	var classes []*domain.Class
	err := r.db.Order("name ASC").Find(&classes).Error
	return classes, err
}
