// internal/service/step_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"innerpath/internal/crypto"
	"innerpath/internal/middleware"
	"innerpath/internal/model"
	"innerpath/internal/repository"
	"innerpath/internal/safety"
	"innerpath/internal/scheduler"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StepService serves and completes individual journey days.
type StepService interface {
	GetStep(ctx context.Context, userID, journeyID uuid.UUID, dayIndex int) (*model.StepResponse, error)
	CompleteStep(ctx context.Context, userID, journeyID uuid.UUID, dayIndex int, req *model.CompleteStepRequest) (*model.CompleteStepResponse, error)
}

type stepService struct {
	db        *gorm.DB
	jrnRepo   repository.JourneyRepository
	stepRepo  repository.StepRepository
	secRepo   repository.SecurityEventRepository
	generator ContentGenerator
	gate      *safety.Gate
	cipher    *crypto.Cipher
	mailer    Mailer
	alertTo   string
}

func NewStepService(db *gorm.DB, jrnRepo repository.JourneyRepository, stepRepo repository.StepRepository, secRepo repository.SecurityEventRepository, generator ContentGenerator, gate *safety.Gate, cipher *crypto.Cipher, mailer Mailer, alertTo string) StepService {
	return &stepService{
		db:        db,
		jrnRepo:   jrnRepo,
		stepRepo:  stepRepo,
		secRepo:   secRepo,
		generator: generator,
		gate:      gate,
		cipher:    cipher,
		mailer:    mailer,
		alertTo:   alertTo,
	}
}

func (s *stepService) GetStep(ctx context.Context, userID, journeyID uuid.UUID, dayIndex int) (*model.StepResponse, error) {
	journey, err := s.loadOwned(ctx, userID, journeyID)
	if err != nil {
		return nil, err
	}
	duration := journey.Template.DurationDays
	if dayIndex < 1 || dayIndex > duration {
		return nil, model.NewAppError("VALIDATION_ERROR",
			fmt.Sprintf("Day index must be between 1 and %d.", duration), "day_index", model.ErrInvalidInput)
	}

	now := time.Now().UTC()
	due := scheduler.DueDayIndex(journey, duration, now)
	if dayIndex > due {
		// Locked days exist only as a client view; no row, no generation.
		return &model.StepResponse{
			JourneyID: journeyID,
			DayIndex:  dayIndex,
			Status:    model.StepStatusLocked,
		}, nil
	}

	content, err := s.generator.GetOrGenerate(ctx, journey, journey.Template, dayIndex)
	if err != nil {
		return nil, err
	}
	rec, err := s.stepRepo.Find(ctx, s.db, journeyID, dayIndex)
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to re-read step record", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to load step.", "", model.ErrInternalServer)
	}

	return &model.StepResponse{
		JourneyID:   journeyID,
		DayIndex:    dayIndex,
		Status:      scheduler.EffectiveStepStatus(rec.Status, dayIndex, due),
		Content:     content,
		CompletedAt: rec.CompletedAt,
	}, nil
}

func (s *stepService) CompleteStep(ctx context.Context, userID, journeyID uuid.UUID, dayIndex int, req *model.CompleteStepRequest) (*model.CompleteStepResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "journey_id", journeyID, "day_index", dayIndex)

	journey, err := s.loadOwned(ctx, userID, journeyID)
	if err != nil {
		return nil, err
	}
	duration := journey.Template.DurationDays
	if dayIndex < 1 || dayIndex > duration {
		return nil, model.NewAppError("VALIDATION_ERROR",
			fmt.Sprintf("Day index must be between 1 and %d.", duration), "day_index", model.ErrInvalidInput)
	}
	if journey.Status != model.JourneyStatusActive {
		return nil, model.NewAppError("INVALID_STATE", "Steps can only be completed on an active journey.", "", model.ErrInvalidTransition)
	}

	now := time.Now().UTC()
	// Due or past-due days are completable; missed days stay completable
	// retroactively. Only future days are off limits.
	if !scheduler.IsAvailable(journey, duration, dayIndex, now) {
		return nil, model.NewAppError("VALIDATION_ERROR", "This day has not unlocked yet.", "day_index", model.ErrInvalidInput)
	}

	fields := repository.CompletionFields{
		CompletedAt:      now,
		CheckInIntensity: req.CheckInIntensity,
	}

	// Safety gate first: flagged text never reaches storage or any
	// provider, but program progress is not held hostage to it.
	var safetyInfo *model.SafetyInfo
	if req.Reflection != "" {
		verdict := s.gate.Scan(req.Reflection)
		if verdict.Flagged {
			logger.Warn("Reflection flagged by safety gate", "reason", verdict.Reason)
			s.recordSafetyFlag(ctx, userID, journeyID, verdict.Reason)
			safetyInfo = &model.SafetyInfo{Flagged: true, Message: safety.SafeHarborMessage}
		} else {
			ciphertext, keyVersion, err := s.cipher.Encrypt(req.Reflection)
			if err != nil {
				logger.Error("Failed to encrypt reflection", "error", err)
				return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to save reflection.", "", model.ErrInternalServer)
			}
			fields.ReflectionCiphertext = &ciphertext
			fields.ReflectionKeyVersion = &keyVersion
		}
	}

	// Row must exist before the conditional update can land.
	if _, err := s.stepRepo.FindOrCreate(ctx, s.db, journeyID, dayIndex); err != nil {
		logger.Error("Failed to ensure step record", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to complete step.", "", model.ErrInternalServer)
	}

	journeyCompleted := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The compare-and-swap: only one concurrent completion can move the
		// row to completed; everyone else sees zero rows affected.
		won, err := s.stepRepo.Complete(ctx, tx, journeyID, dayIndex, fields)
		if err != nil {
			logger.Error("Failed to complete step", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to complete step.", "", model.ErrInternalServer)
		}
		if !won {
			return model.NewAppError("ALREADY_COMPLETED", "This step was already completed.", "", model.ErrAlreadyCompleted)
		}
		if dayIndex == duration {
			completed, err := s.jrnRepo.UpdateStatus(ctx, tx, journeyID,
				[]model.JourneyStatus{model.JourneyStatusActive}, model.JourneyStatusCompleted, now)
			if err != nil {
				logger.Error("Failed to complete journey", "error", err)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to complete step.", "", model.ErrInternalServer)
			}
			journeyCompleted = completed
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyCompleted) {
			// Idempotent success shape, not a failure.
			logger.Info("Step completion raced, already completed")
			return &model.CompleteStepResponse{
				JourneyID: journeyID,
				DayIndex:  dayIndex,
				Status:    "already_completed",
			}, nil
		}
		return nil, err
	}

	logger.Info("Step completed", "journey_completed", journeyCompleted)
	return &model.CompleteStepResponse{
		JourneyID:        journeyID,
		DayIndex:         dayIndex,
		Status:           "completed",
		JourneyCompleted: journeyCompleted,
		Safety:           safetyInfo,
	}, nil
}

// recordSafetyFlag appends the audit row and fires the best-effort ops
// alert. Neither may block or fail the user's request.
func (s *stepService) recordSafetyFlag(ctx context.Context, userID, journeyID uuid.UUID, reason string) {
	event := &model.SecurityEvent{
		EventID:   uuid.New(),
		UserID:    userID,
		JourneyID: &journeyID,
		Kind:      model.SecurityEventSafetyFlag,
		Reason:    reason,
	}
	if err := s.secRepo.Create(ctx, s.db, event); err != nil {
		middleware.GetLogger(ctx).Error("Failed to record security event", "error", err)
	}
	if s.alertTo != "" {
		go func() {
			sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			subject := "Safety gate triggered"
			body := fmt.Sprintf("Reason: %s\nEvent: %s\nTime: %s", reason, event.EventID, time.Now().UTC().Format(time.RFC3339))
			if err := s.mailer.Send(sendCtx, s.alertTo, subject, body); err != nil {
				middleware.GetLogger(ctx).Warn("Failed to send safety alert", "error", err)
			}
		}()
	}
}

func (s *stepService) loadOwned(ctx context.Context, userID, journeyID uuid.UUID) (*model.UserJourney, error) {
	journey, err := s.jrnRepo.FindByID(ctx, s.db, journeyID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "Journey not found.", "", model.ErrNotFound)
		}
		middleware.GetLogger(ctx).Error("Failed to load journey", "error", err, "journey_id", journeyID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to load journey.", "", model.ErrInternalServer)
	}
	if journey.UserID != userID {
		return nil, model.NewAppError("FORBIDDEN", "Journey belongs to another user.", "", model.ErrForbidden)
	}
	if journey.Template == nil {
		middleware.GetLogger(ctx).Error("Journey has no template loaded", "journey_id", journeyID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to load journey.", "", model.ErrInternalServer)
	}
	return journey, nil
}
