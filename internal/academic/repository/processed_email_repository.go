package repository

import (
	"errors"
	"time"

	"unihelper/internal/academic/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormProcessedEmailRepository implements ProcessedEmailRepository using GORM
type gormProcessedEmailRepository struct {
	db *gorm.DB
}

// NewProcessedEmailRepository creates a new GORM-based ProcessedEmailRepository
func NewProcessedEmailRepository(db *gorm.DB) ProcessedEmailRepository {
	return &gormProcessedEmailRepository{db: db}
}

func (r *gormProcessedEmailRepository) IsProcessed(messageID string) (bool, error) {
	var marker domain.ProcessedEmail
	err := r.db.Where("message_id = ?", messageID).First(&marker).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *gormProcessedEmailRepository) MarkProcessed(messageID, subject string) error {
	var marker domain.ProcessedEmail
	// FirstOrCreate keeps the marker unique per message ID: a second
	// call for the same message is a no-op.
	result := r.db.Where(domain.ProcessedEmail{MessageID: messageID}).
		Attrs(domain.ProcessedEmail{
			ID:          uuid.New().String(),
			Subject:     subject,
			ProcessedAt: time.Now().UTC(),
		}).
		FirstOrCreate(&marker)
	return result.Error
}
