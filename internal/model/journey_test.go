// internal/model/journey_test.go
package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserJourney_OpenPause(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	resumed := t0.Add(2 * time.Hour)

	t.Run("no intervals", func(t *testing.T) {
		j := &UserJourney{}
		assert.Nil(t, j.OpenPause())
	})

	t.Run("all closed", func(t *testing.T) {
		j := &UserJourney{PauseIntervals: []PauseInterval{
			{PausedAt: t0, ResumedAt: &resumed},
		}}
		assert.Nil(t, j.OpenPause())
	})

	t.Run("open interval after a closed one", func(t *testing.T) {
		j := &UserJourney{PauseIntervals: []PauseInterval{
			{PausedAt: t0, ResumedAt: &resumed},
			{PausedAt: t0.Add(5 * time.Hour)},
		}}
		open := j.OpenPause()
		require.NotNil(t, open)
		assert.Equal(t, t0.Add(5*time.Hour), open.PausedAt)

		// The returned pointer aliases the slice so callers can patch it.
		now := t0.Add(6 * time.Hour)
		open.ResumedAt = &now
		assert.Nil(t, j.OpenPause())
	})
}
