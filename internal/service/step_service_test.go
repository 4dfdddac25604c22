// internal/service/step_service_test.go
package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"innerpath/internal/corpus"
	"innerpath/internal/crypto"
	"innerpath/internal/llm"
	"innerpath/internal/model"
	"innerpath/internal/repository"
	"innerpath/internal/safety"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stepFixture struct {
	db      *gorm.DB
	steps   StepService
	journey JourneyService
	cipher  *crypto.Cipher
	mailer  *recordingMailer
	tpl     *model.JourneyTemplate
	userID  uuid.UUID
}

// recordingMailer captures safety alerts sent during a test.
type recordingMailer struct {
	mu    sync.Mutex
	sent  int
	chans []chan struct{}
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	for _, c := range m.chans {
		close(c)
	}
	m.chans = nil
	return nil
}

// expect returns a channel closed by the next Send. Alerts fire on a
// detached goroutine, so tests wait instead of sleeping.
func (m *recordingMailer) expect() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := make(chan struct{})
	m.chans = append(m.chans, c)
	return c
}

func newStepFixture(t *testing.T, durationDays int) *stepFixture {
	t.Helper()
	db := setupServiceDB(t)
	tpl := seedTemplate(t, db, durationDays)

	cipher, err := crypto.New(map[string]string{"v1": "step-secret"}, "v1", false, nil)
	require.NoError(t, err)

	corpusAdapter, err := corpus.NewStatic()
	require.NoError(t, err)

	jrnRepo := repository.NewGormJourneyRepository()
	stepRepo := repository.NewGormStepRepository()
	secRepo := repository.NewGormSecurityEventRepository()
	gate := safety.NewGate()
	mailer := &recordingMailer{}
	provider := &llm.MockProvider{ProviderName: "primary", Responses: []string{validProviderJSON}}
	generator := NewContentGenerator(db, stepRepo, secRepo, []llm.Provider{provider}, corpusAdapter, gate)

	return &stepFixture{
		db:      db,
		steps:   NewStepService(db, jrnRepo, stepRepo, secRepo, generator, gate, cipher, mailer, "oncall@example.com"),
		journey: NewJourneyService(db, jrnRepo, repository.NewGormTemplateRepository(), stepRepo, cipher, testConfig()),
		cipher:  cipher,
		mailer:  mailer,
		tpl:     tpl,
		userID:  uuid.New(),
	}
}

func (f *stepFixture) start(t *testing.T) *model.JourneyResponse {
	t.Helper()
	return startOne(t, f.journey, f.userID, f.tpl.TemplateID)
}

// rewind moves a journey's start time into the past so later days unlock.
func (f *stepFixture) rewind(t *testing.T, journeyID uuid.UUID, d time.Duration) {
	t.Helper()
	require.NoError(t, f.db.Model(&model.UserJourney{}).
		Where("journey_id = ?", journeyID).
		Update("started_at", time.Now().UTC().Add(-d)).Error)
}

func TestGetStep(t *testing.T) {
	f := newStepFixture(t, 7)
	j := f.start(t)
	ctx := context.Background()

	step, err := f.steps.GetStep(ctx, f.userID, j.JourneyID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.StepStatusAvailable, step.Status)
	require.NotNil(t, step.Content)
	assert.Equal(t, "primary", step.Content.Provider)

	// Repeat fetch serves the identical cached payload.
	again, err := f.steps.GetStep(ctx, f.userID, j.JourneyID, 1)
	require.NoError(t, err)
	assert.Equal(t, step.Content, again.Content)
}

func TestGetStep_LockedDayHasNoContent(t *testing.T) {
	f := newStepFixture(t, 7)
	j := f.start(t)

	step, err := f.steps.GetStep(context.Background(), f.userID, j.JourneyID, 3)
	require.NoError(t, err)
	assert.Equal(t, model.StepStatusLocked, step.Status)
	assert.Nil(t, step.Content)

	// A locked view must not create a row or trigger generation.
	var count int64
	require.NoError(t, f.db.Model(&model.StepRecord{}).Where("journey_id = ?", j.JourneyID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetStep_DayIndexOutOfRange(t *testing.T) {
	f := newStepFixture(t, 7)
	j := f.start(t)
	ctx := context.Background()

	_, err := f.steps.GetStep(ctx, f.userID, j.JourneyID, 0)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	_, err = f.steps.GetStep(ctx, f.userID, j.JourneyID, 8)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestGetStep_MissedDayVisibleButNotPersisted(t *testing.T) {
	f := newStepFixture(t, 7)
	j := f.start(t)
	f.rewind(t, j.JourneyID, 72*time.Hour) // day 4 due, days 1-3 missed

	step, err := f.steps.GetStep(context.Background(), f.userID, j.JourneyID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.StepStatusMissed, step.Status)

	// The stored status is untouched; missed is a read-time view.
	var rec model.StepRecord
	require.NoError(t, f.db.First(&rec, "journey_id = ? AND day_index = ?", j.JourneyID, 1).Error)
	assert.Equal(t, model.StepStatusAvailable, rec.Status)
}

func TestCompleteStep(t *testing.T) {
	f := newStepFixture(t, 7)
	j := f.start(t)
	ctx := context.Background()

	intensity := 6
	resp, err := f.steps.CompleteStep(ctx, f.userID, j.JourneyID, 1, &model.CompleteStepRequest{
		Reflection:       "I noticed the loop and stepped outside instead.",
		CheckInIntensity: &intensity,
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.False(t, resp.JourneyCompleted)
	assert.Nil(t, resp.Safety)

	var rec model.StepRecord
	require.NoError(t, f.db.First(&rec, "journey_id = ? AND day_index = ?", j.JourneyID, 1).Error)
	assert.Equal(t, model.StepStatusCompleted, rec.Status)
	require.NotNil(t, rec.CompletedAt)
	require.NotNil(t, rec.CheckInIntensity)
	assert.Equal(t, 6, *rec.CheckInIntensity)

	// Reflection lands encrypted, never as the original text.
	require.NotNil(t, rec.ReflectionCiphertext)
	require.NotNil(t, rec.ReflectionKeyVersion)
	assert.Equal(t, "v1", *rec.ReflectionKeyVersion)
	assert.NotContains(t, *rec.ReflectionCiphertext, "stepped outside")
	plain, err := f.cipher.Decrypt(*rec.ReflectionCiphertext, *rec.ReflectionKeyVersion)
	require.NoError(t, err)
	assert.Equal(t, "I noticed the loop and stepped outside instead.", plain)
}

func TestCompleteStep_SecondAttemptIsIdempotent(t *testing.T) {
	f := newStepFixture(t, 7)
	j := f.start(t)
	ctx := context.Background()

	first, err := f.steps.CompleteStep(ctx, f.userID, j.JourneyID, 1, &model.CompleteStepRequest{Reflection: "first"})
	require.NoError(t, err)
	assert.Equal(t, "completed", first.Status)

	second, err := f.steps.CompleteStep(ctx, f.userID, j.JourneyID, 1, &model.CompleteStepRequest{Reflection: "second"})
	require.NoError(t, err)
	assert.Equal(t, "already_completed", second.Status)

	// The first completion's data is untouched.
	var rec model.StepRecord
	require.NoError(t, f.db.First(&rec, "journey_id = ? AND day_index = ?", j.JourneyID, 1).Error)
	plain, err := f.cipher.Decrypt(*rec.ReflectionCiphertext, *rec.ReflectionKeyVersion)
	require.NoError(t, err)
	assert.Equal(t, "first", plain)
}

func TestCompleteStep_ConcurrentAttemptsOneWinner(t *testing.T) {
	f := newStepFixture(t, 7)
	j := f.start(t)

	const n = 8
	statuses := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.steps.CompleteStep(context.Background(), f.userID, j.JourneyID, 1, &model.CompleteStepRequest{})
			if assert.NoError(t, err) {
				statuses[i] = resp.Status
			}
		}(i)
	}
	wg.Wait()

	completed := 0
	for _, s := range statuses {
		if s == "completed" {
			completed++
		} else {
			assert.Equal(t, "already_completed", s)
		}
	}
	assert.Equal(t, 1, completed)
}

func TestCompleteStep_LockedDayRejected(t *testing.T) {
	f := newStepFixture(t, 7)
	j := f.start(t)

	_, err := f.steps.CompleteStep(context.Background(), f.userID, j.JourneyID, 2, &model.CompleteStepRequest{})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

// A day that scrolled past without completion can still be completed later.
func TestCompleteStep_MissedDayCompletableRetroactively(t *testing.T) {
	f := newStepFixture(t, 7)
	j := f.start(t)
	f.rewind(t, j.JourneyID, 72*time.Hour)

	resp, err := f.steps.CompleteStep(context.Background(), f.userID, j.JourneyID, 1, &model.CompleteStepRequest{})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
}

func TestCompleteStep_InactiveJourneyRejected(t *testing.T) {
	f := newStepFixture(t, 7)
	j := f.start(t)
	ctx := context.Background()

	_, err := f.journey.Pause(ctx, f.userID, j.JourneyID)
	require.NoError(t, err)

	_, err = f.steps.CompleteStep(ctx, f.userID, j.JourneyID, 1, &model.CompleteStepRequest{})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestCompleteStep_FinalDayCompletesJourney(t *testing.T) {
	f := newStepFixture(t, 3)
	j := f.start(t)
	f.rewind(t, j.JourneyID, 5*24*time.Hour)

	resp, err := f.steps.CompleteStep(context.Background(), f.userID, j.JourneyID, 3, &model.CompleteStepRequest{})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.True(t, resp.JourneyCompleted)

	var journey model.UserJourney
	require.NoError(t, f.db.First(&journey, "journey_id = ?", j.JourneyID).Error)
	assert.Equal(t, model.JourneyStatusCompleted, journey.Status)
	assert.NotNil(t, journey.CompletedAt)
}

func TestCompleteStep_FlaggedReflection(t *testing.T) {
	f := newStepFixture(t, 7)
	j := f.start(t)
	alerted := f.mailer.expect()

	resp, err := f.steps.CompleteStep(context.Background(), f.userID, j.JourneyID, 1, &model.CompleteStepRequest{
		Reflection: "honestly I've been thinking about killing myself",
	})
	require.NoError(t, err)

	// Progress is recorded, with the fixed safe-harbor message attached.
	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, resp.Safety)
	assert.True(t, resp.Safety.Flagged)
	assert.Equal(t, safety.SafeHarborMessage, resp.Safety.Message)

	// The flagged text is stored nowhere.
	var rec model.StepRecord
	require.NoError(t, f.db.First(&rec, "journey_id = ? AND day_index = ?", j.JourneyID, 1).Error)
	assert.Equal(t, model.StepStatusCompleted, rec.Status)
	assert.Nil(t, rec.ReflectionCiphertext)
	assert.Nil(t, rec.ReflectionKeyVersion)

	// Exactly one audit row, reason code only.
	var events []model.SecurityEvent
	require.NoError(t, f.db.Find(&events, "user_id = ?", f.userID).Error)
	require.Len(t, events, 1)
	assert.Equal(t, model.SecurityEventSafetyFlag, events[0].Kind)
	assert.Equal(t, safety.ReasonSelfHarm, events[0].Reason)

	// The ops alert fires asynchronously.
	select {
	case <-alerted:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a safety alert to be sent")
	}
}

func TestCompleteStep_Ownership(t *testing.T) {
	f := newStepFixture(t, 7)
	j := f.start(t)

	_, err := f.steps.CompleteStep(context.Background(), uuid.New(), j.JourneyID, 1, &model.CompleteStepRequest{})
	assert.ErrorIs(t, err, model.ErrForbidden)
	_, err = f.steps.GetStep(context.Background(), uuid.New(), j.JourneyID, 1)
	assert.ErrorIs(t, err, model.ErrForbidden)
}
