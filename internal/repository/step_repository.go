// internal/repository/step_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"innerpath/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletionFields is the payload written by the conditional completion
// update.
type CompletionFields struct {
	CompletedAt          time.Time
	ReflectionCiphertext *string
	ReflectionKeyVersion *string
	CheckInIntensity     *int
}

type StepRepository interface {
	Find(ctx context.Context, db *gorm.DB, journeyID uuid.UUID, dayIndex int) (*model.StepRecord, error)
	// FindOrCreate lazily creates the row for a day on first access. The
	// insert ignores conflicts so concurrent first accesses both succeed.
	FindOrCreate(ctx context.Context, db *gorm.DB, journeyID uuid.UUID, dayIndex int) (*model.StepRecord, error)
	ListByJourney(ctx context.Context, db *gorm.DB, journeyID uuid.UUID) ([]*model.StepRecord, error)
	// SetContentIfEmpty is the write-once content cache: the update only
	// lands when content_json is still NULL. Returns false when another
	// writer won; callers must re-read and serve the winner's bytes.
	SetContentIfEmpty(ctx context.Context, db *gorm.DB, journeyID uuid.UUID, dayIndex int, contentJSON, provider string, generatedAt time.Time) (bool, error)
	// Complete is the compare-and-swap at the storage layer: status moves to
	// completed only if it is not completed already. Exactly one concurrent
	// caller observes true.
	Complete(ctx context.Context, tx *gorm.DB, journeyID uuid.UUID, dayIndex int, fields CompletionFields) (bool, error)
}

type gormStepRepository struct{}

func NewGormStepRepository() StepRepository {
	return &gormStepRepository{}
}

func (r *gormStepRepository) Find(ctx context.Context, db *gorm.DB, journeyID uuid.UUID, dayIndex int) (*model.StepRecord, error) {
	var rec model.StepRecord
	result := db.WithContext(ctx).
		First(&rec, "journey_id = ? AND day_index = ?", journeyID, dayIndex)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &rec, nil
}

func (r *gormStepRepository) FindOrCreate(ctx context.Context, db *gorm.DB, journeyID uuid.UUID, dayIndex int) (*model.StepRecord, error) {
	rec := &model.StepRecord{
		JourneyID: journeyID,
		DayIndex:  dayIndex,
		Status:    model.StepStatusAvailable,
	}
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rec)
	if result.Error != nil {
		return nil, result.Error
	}
	// Re-read so a lost insert race still returns the canonical row.
	return r.Find(ctx, db, journeyID, dayIndex)
}

func (r *gormStepRepository) ListByJourney(ctx context.Context, db *gorm.DB, journeyID uuid.UUID) ([]*model.StepRecord, error) {
	var recs []*model.StepRecord
	result := db.WithContext(ctx).
		Where("journey_id = ?", journeyID).
		Order("day_index ASC").
		Find(&recs)
	if result.Error != nil {
		return nil, result.Error
	}
	return recs, nil
}

func (r *gormStepRepository) SetContentIfEmpty(ctx context.Context, db *gorm.DB, journeyID uuid.UUID, dayIndex int, contentJSON, provider string, generatedAt time.Time) (bool, error) {
	result := db.WithContext(ctx).
		Model(&model.StepRecord{}).
		Where("journey_id = ? AND day_index = ? AND content_json IS NULL", journeyID, dayIndex).
		Updates(map[string]interface{}{
			"content_json": contentJSON,
			"provider":     provider,
			"generated_at": generatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormStepRepository) Complete(ctx context.Context, tx *gorm.DB, journeyID uuid.UUID, dayIndex int, fields CompletionFields) (bool, error) {
	updates := map[string]interface{}{
		"status":       model.StepStatusCompleted,
		"completed_at": fields.CompletedAt,
	}
	if fields.ReflectionCiphertext != nil {
		updates["reflection_ciphertext"] = fields.ReflectionCiphertext
		updates["reflection_key_version"] = fields.ReflectionKeyVersion
	}
	if fields.CheckInIntensity != nil {
		updates["check_in_intensity"] = fields.CheckInIntensity
	}
	result := tx.WithContext(ctx).
		Model(&model.StepRecord{}).
		Where("journey_id = ? AND day_index = ? AND status <> ?",
			journeyID, dayIndex, model.StepStatusCompleted).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
