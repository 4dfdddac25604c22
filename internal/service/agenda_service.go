// internal/service/agenda_service.go
package service

import (
	"context"
	"sort"
	"time"

	"innerpath/internal/config"
	"innerpath/internal/middleware"
	"innerpath/internal/model"
	"innerpath/internal/repository"
	"innerpath/internal/scheduler"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AgendaService merges due steps across all of a user's active journeys
// into one prioritized agenda.
type AgendaService interface {
	TodayAgenda(ctx context.Context, userID uuid.UUID) ([]*model.TodayAgendaEntry, error)
}

type agendaService struct {
	db        *gorm.DB
	jrnRepo   repository.JourneyRepository
	stepRepo  repository.StepRepository
	generator ContentGenerator
	cfg       *config.Config
}

func NewAgendaService(db *gorm.DB, jrnRepo repository.JourneyRepository, stepRepo repository.StepRepository, generator ContentGenerator, cfg *config.Config) AgendaService {
	return &agendaService{
		db:        db,
		jrnRepo:   jrnRepo,
		stepRepo:  stepRepo,
		generator: generator,
		cfg:       cfg,
	}
}

func (s *agendaService) TodayAgenda(ctx context.Context, userID uuid.UUID) ([]*model.TodayAgendaEntry, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)
	now := time.Now().UTC()

	journeys, err := s.jrnRepo.ListActiveByUser(ctx, s.db, userID, s.cfg.App.AgendaJourneyLimit)
	if err != nil {
		logger.Error("Failed to list active journeys", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to build today's agenda.", "", model.ErrInternalServer)
	}

	type candidate struct {
		journey *model.UserJourney
		day     int
	}
	candidates := make([]candidate, 0, len(journeys))
	for _, j := range journeys {
		if j.Template == nil {
			logger.Warn("Active journey with missing template, skipping", "journey_id", j.JourneyID)
			continue
		}
		due := scheduler.DueDayIndex(j, j.Template.DurationDays, now)
		rec, err := s.stepRepo.Find(ctx, s.db, j.JourneyID, due)
		if err == nil && rec.Status == model.StepStatusCompleted {
			continue
		}
		candidates = append(candidates, candidate{journey: j, day: due})
	}

	// Stable deterministic order: explicit template priority first, then
	// oldest enrollment, then id so the agenda never flickers between
	// calls.
	sort.SliceStable(candidates, func(a, b int) bool {
		ja, jb := candidates[a].journey, candidates[b].journey
		if ja.Template.Priority != jb.Template.Priority {
			return ja.Template.Priority > jb.Template.Priority
		}
		if !ja.StartedAt.Equal(jb.StartedAt) {
			return ja.StartedAt.Before(jb.StartedAt)
		}
		return ja.JourneyID.String() < jb.JourneyID.String()
	})

	entries := make([]*model.TodayAgendaEntry, 0, len(candidates))
	for i, c := range candidates {
		content, err := s.generator.GetOrGenerate(ctx, c.journey, c.journey.Template, c.day)
		if err != nil {
			logger.Error("Failed to produce agenda content, skipping journey", "error", err, "journey_id", c.journey.JourneyID)
			continue
		}
		entries = append(entries, &model.TodayAgendaEntry{
			JourneyID:    c.journey.JourneyID,
			Theme:        c.journey.Template.Theme,
			Title:        c.journey.Template.Title,
			DayIndex:     c.day,
			DurationDays: c.journey.Template.DurationDays,
			Content:      content,
			PriorityRank: i + 1,
		})
	}

	logger.Info("Agenda built", "entries", len(entries))
	return entries, nil
}
