// internal/repository/journey_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"innerpath/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JourneyRepository interface {
	Create(ctx context.Context, tx *gorm.DB, journey *model.UserJourney) error
	// FindByID loads a journey with its template and pause intervals.
	FindByID(ctx context.Context, db *gorm.DB, journeyID uuid.UUID) (*model.UserJourney, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.UserJourney, error)
	ListActiveByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.UserJourney, error)
	// CountNonTerminal counts active+paused journeys; enforces the cap.
	CountNonTerminal(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	// UpdateStatus is a conditional write: the row moves to `to` only if its
	// current status is one of `from`. Zero rows affected means the
	// transition lost to a concurrent one or was illegal to begin with.
	UpdateStatus(ctx context.Context, tx *gorm.DB, journeyID uuid.UUID, from []model.JourneyStatus, to model.JourneyStatus, at time.Time) (bool, error)
	AppendPause(ctx context.Context, tx *gorm.DB, interval *model.PauseInterval) error
	CloseOpenPause(ctx context.Context, tx *gorm.DB, journeyID uuid.UUID, resumedAt time.Time) (bool, error)
}

type gormJourneyRepository struct{}

func NewGormJourneyRepository() JourneyRepository {
	return &gormJourneyRepository{}
}

func (r *gormJourneyRepository) Create(ctx context.Context, tx *gorm.DB, journey *model.UserJourney) error {
	return tx.WithContext(ctx).Create(journey).Error
}

func (r *gormJourneyRepository) FindByID(ctx context.Context, db *gorm.DB, journeyID uuid.UUID) (*model.UserJourney, error) {
	var journey model.UserJourney
	result := db.WithContext(ctx).
		Preload("Template.Blueprints").
		Preload("Template").
		Preload("PauseIntervals", func(db *gorm.DB) *gorm.DB {
			return db.Order("paused_at ASC")
		}).
		First(&journey, "journey_id = ?", journeyID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &journey, nil
}

func (r *gormJourneyRepository) ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.UserJourney, error) {
	var journeys []*model.UserJourney
	result := db.WithContext(ctx).
		Preload("Template").
		Preload("PauseIntervals").
		Where("user_id = ?", userID).
		Order("started_at ASC").
		Find(&journeys)
	if result.Error != nil {
		return nil, result.Error
	}
	return journeys, nil
}

func (r *gormJourneyRepository) ListActiveByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.UserJourney, error) {
	var journeys []*model.UserJourney
	result := db.WithContext(ctx).
		Preload("Template.Blueprints").
		Preload("Template").
		Preload("PauseIntervals").
		Where("user_id = ? AND status = ?", userID, model.JourneyStatusActive).
		Order("started_at ASC").
		Limit(limit).
		Find(&journeys)
	if result.Error != nil {
		return nil, result.Error
	}
	return journeys, nil
}

func (r *gormJourneyRepository) CountNonTerminal(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	result := tx.WithContext(ctx).
		Model(&model.UserJourney{}).
		Where("user_id = ? AND status IN ?", userID,
			[]model.JourneyStatus{model.JourneyStatusActive, model.JourneyStatusPaused}).
		Count(&count)
	return count, result.Error
}

func (r *gormJourneyRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, journeyID uuid.UUID, from []model.JourneyStatus, to model.JourneyStatus, at time.Time) (bool, error) {
	updates := map[string]interface{}{"status": to, "updated_at": at}
	switch to {
	case model.JourneyStatusCompleted:
		updates["completed_at"] = at
	case model.JourneyStatusAbandoned:
		updates["abandoned_at"] = at
	}
	result := tx.WithContext(ctx).
		Model(&model.UserJourney{}).
		Where("journey_id = ? AND status IN ?", journeyID, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormJourneyRepository) AppendPause(ctx context.Context, tx *gorm.DB, interval *model.PauseInterval) error {
	return tx.WithContext(ctx).Create(interval).Error
}

func (r *gormJourneyRepository) CloseOpenPause(ctx context.Context, tx *gorm.DB, journeyID uuid.UUID, resumedAt time.Time) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&model.PauseInterval{}).
		Where("journey_id = ? AND resumed_at IS NULL", journeyID).
		Update("resumed_at", resumedAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
