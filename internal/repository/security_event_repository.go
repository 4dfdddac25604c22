// internal/repository/security_event_repository.go
package repository

import (
	"context"

	"innerpath/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SecurityEventRepository is append-only; events are never updated or
// deleted.
type SecurityEventRepository interface {
	Create(ctx context.Context, db *gorm.DB, event *model.SecurityEvent) error
	ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.SecurityEvent, error)
}

type gormSecurityEventRepository struct{}

func NewGormSecurityEventRepository() SecurityEventRepository {
	return &gormSecurityEventRepository{}
}

func (r *gormSecurityEventRepository) Create(ctx context.Context, db *gorm.DB, event *model.SecurityEvent) error {
	return db.WithContext(ctx).Create(event).Error
}

func (r *gormSecurityEventRepository) ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.SecurityEvent, error) {
	var events []*model.SecurityEvent
	result := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}
	return events, nil
}
