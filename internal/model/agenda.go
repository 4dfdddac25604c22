// internal/model/agenda.go
package model

import "github.com/google/uuid"

// TodayAgendaEntry is one due step in the user's merged agenda. Derived on
// every call, never persisted; only the step-level content cache is reused.
type TodayAgendaEntry struct {
	JourneyID    uuid.UUID    `json:"journey_id"`
	Theme        Theme        `json:"theme"`
	Title        string       `json:"title"`
	DayIndex     int          `json:"day_index"`
	DurationDays int          `json:"duration_days"`
	Content      *StepContent `json:"content"`
	PriorityRank int          `json:"priority_rank"`
}
