// internal/scheduler/scheduler_test.go
package scheduler

import (
	"testing"
	"time"

	"innerpath/internal/model"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func journey(pace model.Pace, status model.JourneyStatus, pauses ...model.PauseInterval) *model.UserJourney {
	return &model.UserJourney{
		Status:         status,
		Pace:           pace,
		StartedAt:      t0,
		PauseIntervals: pauses,
	}
}

func closedPause(from, to time.Time) model.PauseInterval {
	return model.PauseInterval{PausedAt: from, ResumedAt: &to}
}

func openPause(from time.Time) model.PauseInterval {
	return model.PauseInterval{PausedAt: from}
}

func TestDueDayIndex(t *testing.T) {
	tests := []struct {
		name     string
		journey  *model.UserJourney
		duration int
		now      time.Time
		want     int
	}{
		{
			name:     "day one at start",
			journey:  journey(model.PaceDaily, model.JourneyStatusActive),
			duration: 7,
			now:      t0,
			want:     1,
		},
		{
			name:     "still day one just before the period elapses",
			journey:  journey(model.PaceDaily, model.JourneyStatusActive),
			duration: 7,
			now:      t0.Add(24*time.Hour - time.Second),
			want:     1,
		},
		{
			name:     "day two after 25h",
			journey:  journey(model.PaceDaily, model.JourneyStatusActive),
			duration: 7,
			now:      t0.Add(25 * time.Hour),
			want:     2,
		},
		{
			name:     "clamped to the final day",
			journey:  journey(model.PaceDaily, model.JourneyStatusActive),
			duration: 7,
			now:      t0.Add(30 * 24 * time.Hour),
			want:     7,
		},
		{
			name:     "every other day pace",
			journey:  journey(model.PaceEveryOtherDay, model.JourneyStatusActive),
			duration: 7,
			now:      t0.Add(49 * time.Hour),
			want:     2,
		},
		{
			name:     "weekly pace",
			journey:  journey(model.PaceWeekly, model.JourneyStatusActive),
			duration: 4,
			now:      t0.Add(15 * 24 * time.Hour),
			want:     3,
		},
		{
			name: "open pause freezes the due day",
			journey: journey(model.PaceDaily, model.JourneyStatusPaused,
				openPause(t0.Add(25*time.Hour))),
			duration: 7,
			now:      t0.Add(10 * 24 * time.Hour),
			want:     2,
		},
		{
			name: "closed pause shifts the schedule by its length",
			journey: journey(model.PaceDaily, model.JourneyStatusActive,
				closedPause(t0.Add(25*time.Hour), t0.Add(73*time.Hour))),
			duration: 7,
			// 73h wall clock minus 48h paused = 25h active, still day 2.
			now:  t0.Add(73 * time.Hour),
			want: 2,
		},
		{
			name: "resumed journey keeps advancing",
			journey: journey(model.PaceDaily, model.JourneyStatusActive,
				closedPause(t0.Add(25*time.Hour), t0.Add(73*time.Hour))),
			duration: 7,
			// 97h wall clock minus 48h paused = 49h active, day 3.
			now:  t0.Add(97 * time.Hour),
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DueDayIndex(tt.journey, tt.duration, tt.now))
		})
	}
}

// A day that has unlocked must never lock again, whatever happens to the
// pause history afterwards.
func TestDueDayIndex_Monotonic(t *testing.T) {
	j := journey(model.PaceDaily, model.JourneyStatusActive,
		closedPause(t0.Add(30*time.Hour), t0.Add(40*time.Hour)),
		closedPause(t0.Add(60*time.Hour), t0.Add(90*time.Hour)),
	)

	prev := 0
	for h := 0; h <= 24*10; h++ {
		due := DueDayIndex(j, 7, t0.Add(time.Duration(h)*time.Hour))
		assert.GreaterOrEqual(t, due, prev, "due day regressed at hour %d", h)
		prev = due
	}
}

func TestActiveElapsed_NeverNegative(t *testing.T) {
	j := journey(model.PaceDaily, model.JourneyStatusActive)
	assert.Equal(t, time.Duration(0), ActiveElapsed(j, t0.Add(-time.Hour)))
}

func TestIsAvailable(t *testing.T) {
	j := journey(model.PaceDaily, model.JourneyStatusActive)
	now := t0.Add(25 * time.Hour) // day 2 due

	assert.True(t, IsAvailable(j, 7, 1, now))
	assert.True(t, IsAvailable(j, 7, 2, now))
	assert.False(t, IsAvailable(j, 7, 3, now))
	assert.False(t, IsAvailable(j, 7, 0, now))
	assert.False(t, IsAvailable(j, 7, 8, now))
}

func TestNextUnlockAt(t *testing.T) {
	t.Run("active journey on day one", func(t *testing.T) {
		j := journey(model.PaceDaily, model.JourneyStatusActive)
		got := NextUnlockAt(j, 7, t0.Add(time.Hour))
		assert.Equal(t, t0.Add(24*time.Hour), got)
	})

	t.Run("closed pause pushes the unlock time out", func(t *testing.T) {
		j := journey(model.PaceDaily, model.JourneyStatusActive,
			closedPause(t0.Add(2*time.Hour), t0.Add(8*time.Hour)))
		got := NextUnlockAt(j, 7, t0.Add(10*time.Hour))
		assert.Equal(t, t0.Add(30*time.Hour), got)
	})

	t.Run("zero when the final day is due", func(t *testing.T) {
		j := journey(model.PaceDaily, model.JourneyStatusActive)
		got := NextUnlockAt(j, 3, t0.Add(10*24*time.Hour))
		assert.True(t, got.IsZero())
	})

	t.Run("zero while paused", func(t *testing.T) {
		j := journey(model.PaceDaily, model.JourneyStatusPaused, openPause(t0.Add(time.Hour)))
		got := NextUnlockAt(j, 7, t0.Add(2*time.Hour))
		assert.True(t, got.IsZero())
	})

	t.Run("zero after abandonment", func(t *testing.T) {
		j := journey(model.PaceDaily, model.JourneyStatusAbandoned)
		got := NextUnlockAt(j, 7, t0.Add(time.Hour))
		assert.True(t, got.IsZero())
	})
}

func TestEffectiveStepStatus(t *testing.T) {
	tests := []struct {
		name      string
		persisted model.StepStatus
		dayIndex  int
		due       int
		want      model.StepStatus
	}{
		{"completed stays completed even when past due", model.StepStatusCompleted, 1, 5, model.StepStatusCompleted},
		{"future day is locked", model.StepStatusAvailable, 4, 2, model.StepStatusLocked},
		{"past uncompleted day reads as missed", model.StepStatusAvailable, 1, 3, model.StepStatusMissed},
		{"due day is available", model.StepStatusAvailable, 2, 2, model.StepStatusAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveStepStatus(tt.persisted, tt.dayIndex, tt.due))
		})
	}
}
