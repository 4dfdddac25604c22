// internal/service/agenda_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"innerpath/internal/corpus"
	"innerpath/internal/llm"
	"innerpath/internal/model"
	"innerpath/internal/repository"
	"innerpath/internal/safety"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type agendaFixture struct {
	db       *gorm.DB
	agenda   AgendaService
	steps    StepService
	journey  JourneyService
	provider *llm.MockProvider
	userID   uuid.UUID
}

func newAgendaFixture(t *testing.T) *agendaFixture {
	t.Helper()
	db := setupServiceDB(t)

	corpusAdapter, err := corpus.NewStatic()
	require.NoError(t, err)

	jrnRepo := repository.NewGormJourneyRepository()
	stepRepo := repository.NewGormStepRepository()
	secRepo := repository.NewGormSecurityEventRepository()
	gate := safety.NewGate()
	provider := &llm.MockProvider{ProviderName: "primary", Responses: []string{validProviderJSON}}
	generator := NewContentGenerator(db, stepRepo, secRepo, []llm.Provider{provider}, corpusAdapter, gate)
	cipher := plaintextCipher(t)
	cfg := testConfig()

	return &agendaFixture{
		db:       db,
		agenda:   NewAgendaService(db, jrnRepo, stepRepo, generator, cfg),
		steps:    NewStepService(db, jrnRepo, stepRepo, secRepo, generator, gate, cipher, &recordingMailer{}, ""),
		journey:  NewJourneyService(db, jrnRepo, repository.NewGormTemplateRepository(), stepRepo, cipher, cfg),
		provider: provider,
		userID:   uuid.New(),
	}
}

func seedPrioritizedTemplate(t *testing.T, db *gorm.DB, theme model.Theme, title string, priority int) *model.JourneyTemplate {
	t.Helper()
	tpl := &model.JourneyTemplate{
		TemplateID:   uuid.New(),
		Theme:        theme,
		Title:        title,
		DurationDays: 7,
		Priority:     priority,
		Blueprints: []model.StepBlueprint{
			{DayIndex: 1, Tags: "grounding", MaxTokens: 400},
		},
	}
	require.NoError(t, db.Create(tpl).Error)
	return tpl
}

func TestTodayAgenda_OrderedByPriority(t *testing.T) {
	f := newAgendaFixture(t)
	ctx := context.Background()

	low := seedPrioritizedTemplate(t, f.db, model.ThemeBurnout, "Refill the Well", 10)
	high := seedPrioritizedTemplate(t, f.db, model.ThemeOverthinking, "Quiet the Loop", 90)

	startOne(t, f.journey, f.userID, low.TemplateID)
	startOne(t, f.journey, f.userID, high.TemplateID)

	entries, err := f.agenda.TodayAgenda(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Quiet the Loop", entries[0].Title)
	assert.Equal(t, 1, entries[0].PriorityRank)
	assert.Equal(t, "Refill the Well", entries[1].Title)
	assert.Equal(t, 2, entries[1].PriorityRank)
	for _, e := range entries {
		assert.Equal(t, 1, e.DayIndex)
		require.NotNil(t, e.Content)
	}
}

func TestTodayAgenda_TiesBreakByEnrollmentTime(t *testing.T) {
	f := newAgendaFixture(t)
	ctx := context.Background()

	tpl := seedPrioritizedTemplate(t, f.db, model.ThemeAvoidance, "Small Brave Steps", 10)
	first := startOne(t, f.journey, f.userID, tpl.TemplateID)
	second := startOne(t, f.journey, f.userID, tpl.TemplateID)

	// Separate the enrollment times explicitly; both rows were created
	// within the same instant.
	require.NoError(t, f.db.Model(&model.UserJourney{}).
		Where("journey_id = ?", second.JourneyID).
		Update("started_at", time.Now().UTC().Add(time.Minute)).Error)

	entries, err := f.agenda.TodayAgenda(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.JourneyID, entries[0].JourneyID)
	assert.Equal(t, second.JourneyID, entries[1].JourneyID)
}

func TestTodayAgenda_SkipsCompletedAndInactive(t *testing.T) {
	f := newAgendaFixture(t)
	ctx := context.Background()
	tpl := seedPrioritizedTemplate(t, f.db, model.ThemeDisconnection, "Reaching Back Out", 10)

	done := startOne(t, f.journey, f.userID, tpl.TemplateID)
	paused := startOne(t, f.journey, f.userID, tpl.TemplateID)
	open := startOne(t, f.journey, f.userID, tpl.TemplateID)

	_, err := f.steps.CompleteStep(ctx, f.userID, done.JourneyID, 1, &model.CompleteStepRequest{})
	require.NoError(t, err)
	_, err = f.journey.Pause(ctx, f.userID, paused.JourneyID)
	require.NoError(t, err)

	entries, err := f.agenda.TodayAgenda(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, open.JourneyID, entries[0].JourneyID)
}

func TestTodayAgenda_EmptyWithoutJourneys(t *testing.T) {
	f := newAgendaFixture(t)

	entries, err := f.agenda.TodayAgenda(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// The agenda reuses the per-step content cache: a step already fetched via
// GetStep costs no further provider calls.
func TestTodayAgenda_ReusesContentCache(t *testing.T) {
	f := newAgendaFixture(t)
	ctx := context.Background()
	tpl := seedPrioritizedTemplate(t, f.db, model.ThemeSelfCriticism, "A Kinder Voice", 10)

	j := startOne(t, f.journey, f.userID, tpl.TemplateID)
	_, err := f.steps.GetStep(ctx, f.userID, j.JourneyID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, f.provider.Calls())

	entries, err := f.agenda.TodayAgenda(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, f.provider.Calls())
}
