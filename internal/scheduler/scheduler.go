// internal/scheduler/scheduler.go
//
// Pure day-scheduling functions over a journey's temporal fields. No side
// effects, no clock reads: callers pass `now` so everything is testable and
// server time is the only time that matters.
package scheduler

import (
	"time"

	"innerpath/internal/model"
)

// ActiveElapsed returns how much unpaused time has passed since the journey
// started. While a pause is open, elapsed time freezes at the pause start.
func ActiveElapsed(j *model.UserJourney, now time.Time) time.Duration {
	end := now
	var paused time.Duration
	for i := range j.PauseIntervals {
		iv := &j.PauseIntervals[i]
		if iv.ResumedAt != nil {
			paused += iv.ResumedAt.Sub(iv.PausedAt)
			continue
		}
		// Open pause: the clock stopped when it began.
		if iv.PausedAt.Before(end) {
			end = iv.PausedAt
		}
	}
	elapsed := end.Sub(j.StartedAt) - paused
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// DueDayIndex computes which day index is due at `now`, clamped to
// [1, durationDays]. Monotonic in `now`: pauses only freeze it, never roll
// it back, so a day that has unlocked stays unlocked.
func DueDayIndex(j *model.UserJourney, durationDays int, now time.Time) int {
	period := j.Pace.Period()
	due := 1 + int(ActiveElapsed(j, now)/period)
	if due < 1 {
		due = 1
	}
	if due > durationDays {
		due = durationDays
	}
	return due
}

// IsAvailable reports whether dayIndex has unlocked at `now`.
func IsAvailable(j *model.UserJourney, durationDays, dayIndex int, now time.Time) bool {
	if dayIndex < 1 || dayIndex > durationDays {
		return false
	}
	return dayIndex <= DueDayIndex(j, durationDays, now)
}

// NextUnlockAt returns the earliest future time at which DueDayIndex would
// increase, or the zero time when nothing further unlocks (final day due,
// journey paused, or journey not active). Informational only, never used
// for gating.
func NextUnlockAt(j *model.UserJourney, durationDays int, now time.Time) time.Time {
	if j.Status != model.JourneyStatusActive {
		return time.Time{}
	}
	due := DueDayIndex(j, durationDays, now)
	if due >= durationDays {
		return time.Time{}
	}
	var paused time.Duration
	for i := range j.PauseIntervals {
		iv := &j.PauseIntervals[i]
		if iv.ResumedAt != nil {
			paused += iv.ResumedAt.Sub(iv.PausedAt)
		}
	}
	// Day due+1 unlocks once active elapsed time reaches due*period.
	return j.StartedAt.Add(paused + time.Duration(due)*j.Pace.Period())
}

// EffectiveStepStatus derives the status a client should see for one day.
// "missed" is computed here on read, never persisted: a persisted row only
// ever holds available or completed.
func EffectiveStepStatus(persisted model.StepStatus, dayIndex, dueDayIndex int) model.StepStatus {
	if persisted == model.StepStatusCompleted {
		return model.StepStatusCompleted
	}
	switch {
	case dayIndex > dueDayIndex:
		return model.StepStatusLocked
	case dayIndex < dueDayIndex:
		return model.StepStatusMissed
	default:
		return model.StepStatusAvailable
	}
}
