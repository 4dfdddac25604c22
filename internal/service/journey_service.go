// internal/service/journey_service.go
package service

import (
	"context"
	"errors"
	"time"

	"innerpath/internal/config"
	"innerpath/internal/crypto"
	"innerpath/internal/middleware"
	"innerpath/internal/model"
	"innerpath/internal/repository"
	"innerpath/internal/scheduler"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JourneyService owns the journey lifecycle: start, pause, resume, abandon
// and the history view.
type JourneyService interface {
	ListTemplates(ctx context.Context) ([]*model.JourneyTemplate, error)
	StartJourneys(ctx context.Context, userID uuid.UUID, req *model.StartJourneysRequest) ([]*model.JourneyResponse, error)
	ListJourneys(ctx context.Context, userID uuid.UUID) ([]*model.JourneyResponse, error)
	Pause(ctx context.Context, userID, journeyID uuid.UUID) (*model.JourneyResponse, error)
	Resume(ctx context.Context, userID, journeyID uuid.UUID) (*model.JourneyResponse, error)
	Abandon(ctx context.Context, userID, journeyID uuid.UUID) (*model.JourneyResponse, error)
	History(ctx context.Context, userID, journeyID uuid.UUID) (*model.JourneyHistoryResponse, error)
}

type journeyService struct {
	db       *gorm.DB
	jrnRepo  repository.JourneyRepository
	tplRepo  repository.TemplateRepository
	stepRepo repository.StepRepository
	cipher   *crypto.Cipher
	cfg      *config.Config
}

func NewJourneyService(db *gorm.DB, jrnRepo repository.JourneyRepository, tplRepo repository.TemplateRepository, stepRepo repository.StepRepository, cipher *crypto.Cipher, cfg *config.Config) JourneyService {
	return &journeyService{
		db:       db,
		jrnRepo:  jrnRepo,
		tplRepo:  tplRepo,
		stepRepo: stepRepo,
		cipher:   cipher,
		cfg:      cfg,
	}
}

func (s *journeyService) ListTemplates(ctx context.Context) ([]*model.JourneyTemplate, error) {
	logger := middleware.GetLogger(ctx)

	templates, err := s.tplRepo.List(ctx, s.db)
	if err != nil {
		logger.Error("Failed to list journey templates", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to list templates.", "", model.ErrInternalServer)
	}
	return templates, nil
}

func (s *journeyService) StartJourneys(ctx context.Context, userID uuid.UUID, req *model.StartJourneysRequest) ([]*model.JourneyResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	// Resolve templates up front so a bad id rejects before any state is
	// touched.
	templates := make([]*model.JourneyTemplate, 0, len(req.Journeys))
	for _, item := range req.Journeys {
		if !item.Pace.Valid() {
			return nil, model.NewAppError("VALIDATION_ERROR", "Unknown pace.", "pace", model.ErrInvalidInput)
		}
		tpl, err := s.tplRepo.FindByID(ctx, s.db, item.TemplateID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, model.NewAppError("VALIDATION_ERROR", "Unknown journey template.", "template_id", model.ErrInvalidInput)
			}
			logger.Error("Failed to resolve template", "error", err, "template_id", item.TemplateID)
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to start journeys.", "", model.ErrInternalServer)
		}
		templates = append(templates, tpl)
	}

	now := time.Now().UTC()
	created := make([]*model.UserJourney, 0, len(req.Journeys))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.jrnRepo.CountNonTerminal(ctx, tx, userID)
		if err != nil {
			logger.Error("Failed to count active journeys", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to start journeys.", "", model.ErrInternalServer)
		}
		// Paused journeys occupy a slot too; only terminal states free one.
		if count+int64(len(req.Journeys)) > int64(s.cfg.App.MaxActiveJourneys) {
			return model.NewAppError("MAX_ACTIVE_JOURNEYS",
				"You have reached the maximum number of concurrent journeys. Complete or release one first.",
				"", model.ErrMaxActiveJourneys)
		}

		for i, item := range req.Journeys {
			journey := &model.UserJourney{
				JourneyID:  uuid.New(),
				UserID:     userID,
				TemplateID: item.TemplateID,
				Status:     model.JourneyStatusActive,
				Pace:       item.Pace,
				Tone:       item.Tone,
				StartedAt:  now,
			}
			if err := s.jrnRepo.Create(ctx, tx, journey); err != nil {
				logger.Error("Failed to create journey", "error", err)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to start journeys.", "", model.ErrInternalServer)
			}
			journey.Template = templates[i]
			created = append(created, journey)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*model.JourneyResponse, 0, len(created))
	for _, j := range created {
		responses = append(responses, s.toResponse(j, now))
	}
	logger.Info("Journeys started", "count", len(responses))
	return responses, nil
}

func (s *journeyService) ListJourneys(ctx context.Context, userID uuid.UUID) ([]*model.JourneyResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	journeys, err := s.jrnRepo.ListByUser(ctx, s.db, userID)
	if err != nil {
		logger.Error("Failed to list journeys", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to list journeys.", "", model.ErrInternalServer)
	}

	now := time.Now().UTC()
	responses := make([]*model.JourneyResponse, 0, len(journeys))
	for _, j := range journeys {
		if j.Template == nil {
			logger.Warn("Journey with missing template, skipping", "journey_id", j.JourneyID)
			continue
		}
		responses = append(responses, s.toResponse(j, now))
	}
	return responses, nil
}

func (s *journeyService) Pause(ctx context.Context, userID, journeyID uuid.UUID) (*model.JourneyResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "journey_id", journeyID)
	now := time.Now().UTC()

	journey, err := s.loadOwned(ctx, userID, journeyID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.jrnRepo.UpdateStatus(ctx, tx, journeyID,
			[]model.JourneyStatus{model.JourneyStatusActive}, model.JourneyStatusPaused, now)
		if err != nil {
			logger.Error("Failed to pause journey", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to pause journey.", "", model.ErrInternalServer)
		}
		if !ok {
			return model.NewAppError("INVALID_STATE", "Only an active journey can be paused.", "", model.ErrInvalidTransition)
		}
		return s.jrnRepo.AppendPause(ctx, tx, &model.PauseInterval{
			IntervalID: uuid.New(),
			JourneyID:  journeyID,
			PausedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Journey paused")
	journey.Status = model.JourneyStatusPaused
	journey.PauseIntervals = append(journey.PauseIntervals, model.PauseInterval{JourneyID: journeyID, PausedAt: now})
	return s.toResponse(journey, now), nil
}

func (s *journeyService) Resume(ctx context.Context, userID, journeyID uuid.UUID) (*model.JourneyResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "journey_id", journeyID)
	now := time.Now().UTC()

	journey, err := s.loadOwned(ctx, userID, journeyID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.jrnRepo.UpdateStatus(ctx, tx, journeyID,
			[]model.JourneyStatus{model.JourneyStatusPaused}, model.JourneyStatusActive, now)
		if err != nil {
			logger.Error("Failed to resume journey", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to resume journey.", "", model.ErrInternalServer)
		}
		if !ok {
			return model.NewAppError("INVALID_STATE", "Only a paused journey can be resumed.", "", model.ErrInvalidTransition)
		}
		closed, err := s.jrnRepo.CloseOpenPause(ctx, tx, journeyID, now)
		if err != nil {
			logger.Error("Failed to close pause interval", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to resume journey.", "", model.ErrInternalServer)
		}
		if !closed {
			logger.Warn("Resumed journey had no open pause interval")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Journey resumed")
	journey.Status = model.JourneyStatusActive
	if open := journey.OpenPause(); open != nil {
		t := now
		open.ResumedAt = &t
	}
	return s.toResponse(journey, now), nil
}

func (s *journeyService) Abandon(ctx context.Context, userID, journeyID uuid.UUID) (*model.JourneyResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "journey_id", journeyID)
	now := time.Now().UTC()

	journey, err := s.loadOwned(ctx, userID, journeyID)
	if err != nil {
		return nil, err
	}
	// Abandoning an abandoned journey is a no-op, not an error.
	if journey.Status == model.JourneyStatusAbandoned {
		return s.toResponse(journey, now), nil
	}
	if journey.Status == model.JourneyStatusCompleted {
		return nil, model.NewAppError("INVALID_STATE", "A completed journey cannot be abandoned.", "", model.ErrInvalidTransition)
	}

	ok, err := s.jrnRepo.UpdateStatus(ctx, s.db, journeyID,
		[]model.JourneyStatus{model.JourneyStatusActive, model.JourneyStatusPaused}, model.JourneyStatusAbandoned, now)
	if err != nil {
		logger.Error("Failed to abandon journey", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to abandon journey.", "", model.ErrInternalServer)
	}
	if !ok {
		// Lost to a concurrent abandon; still a no-op success.
		logger.Info("Journey already abandoned concurrently")
	} else {
		logger.Info("Journey abandoned")
	}

	journey.Status = model.JourneyStatusAbandoned
	return s.toResponse(journey, now), nil
}

func (s *journeyService) History(ctx context.Context, userID, journeyID uuid.UUID) (*model.JourneyHistoryResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "journey_id", journeyID)
	now := time.Now().UTC()

	journey, err := s.loadOwned(ctx, userID, journeyID)
	if err != nil {
		return nil, err
	}

	records, err := s.stepRepo.ListByJourney(ctx, s.db, journeyID)
	if err != nil {
		logger.Error("Failed to list step records", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to load journey history.", "", model.ErrInternalServer)
	}

	due := scheduler.DueDayIndex(journey, journey.Template.DurationDays, now)
	entries := make([]model.HistoryEntry, 0, len(records))
	for _, rec := range records {
		entry := model.HistoryEntry{
			DayIndex:         rec.DayIndex,
			Status:           scheduler.EffectiveStepStatus(rec.Status, rec.DayIndex, due),
			CheckInIntensity: rec.CheckInIntensity,
			CompletedAt:      rec.CompletedAt,
		}
		if content, err := rec.Content(); err == nil {
			entry.Content = content
		}
		// Reflections decrypt only here, for the owning user.
		if rec.ReflectionCiphertext != nil && rec.ReflectionKeyVersion != nil {
			plain, err := s.cipher.Decrypt(*rec.ReflectionCiphertext, *rec.ReflectionKeyVersion)
			if err != nil {
				logger.Error("Failed to decrypt reflection", "error", err, "day_index", rec.DayIndex)
			} else {
				entry.Reflection = plain
			}
		}
		entries = append(entries, entry)
	}

	return &model.JourneyHistoryResponse{
		Journey: *s.toResponse(journey, now),
		Steps:   entries,
	}, nil
}

// loadOwned fetches a journey and enforces ownership. Non-owners get the
// same forbidden error regardless of whether the journey exists.
func (s *journeyService) loadOwned(ctx context.Context, userID, journeyID uuid.UUID) (*model.UserJourney, error) {
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

func (s *journeyService) toResponse(j *model.UserJourney, now time.Time) *model.JourneyResponse {
	resp := &model.JourneyResponse{
		JourneyID:    j.JourneyID,
		TemplateID:   j.TemplateID,
		Theme:        j.Template.Theme,
		Title:        j.Template.Title,
		Status:       j.Status,
		Pace:         j.Pace,
		DurationDays: j.Template.DurationDays,
		DueDayIndex:  scheduler.DueDayIndex(j, j.Template.DurationDays, now),
		StartedAt:    j.StartedAt,
	}
	if next := scheduler.NextUnlockAt(j, j.Template.DurationDays, now); !next.IsZero() {
		resp.NextUnlockAt = &next
	}
	return resp
}
