// internal/model/step.go
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type StepStatus string

const (
	StepStatusLocked    StepStatus = "locked"
	StepStatusAvailable StepStatus = "available"
	StepStatusCompleted StepStatus = "completed"
	// StepStatusMissed is computed on read; it is never written to the
	// status column. A missed day can still be completed retroactively.
	StepStatusMissed StepStatus = "missed"
)

// StepRecord is the per-day state of a journey. Created lazily on first
// access; exactly one row per (journey_id, day_index).
type StepRecord struct {
	JourneyID uuid.UUID  `gorm:"type:uuid;primaryKey" json:"journey_id"`
	DayIndex  int        `gorm:"primaryKey" json:"day_index"`
	Status    StepStatus `gorm:"type:varchar(16);not null;default:'available'" json:"status"`
	// ContentJSON is the serialized StepContent. Write-once: populated at
	// most once so repeated fetches return identical bytes.
	ContentJSON *string    `gorm:"type:text" json:"-"`
	Provider    string     `gorm:"type:varchar(32);not null;default:''" json:"provider,omitempty"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// Reflection is stored encrypted only; the key version names which key
	// in the ring decrypts it ("none" marks a plaintext dev fallback).
	ReflectionCiphertext *string   `gorm:"type:text" json:"-"`
	ReflectionKeyVersion *string   `gorm:"type:varchar(32)" json:"-"`
	CheckInIntensity     *int      `json:"check_in_intensity,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (StepRecord) TableName() string {
	return "step_records"
}

// Content deserializes the cached payload, or nil when not yet generated.
func (r *StepRecord) Content() (*StepContent, error) {
	if r.ContentJSON == nil || *r.ContentJSON == "" {
		return nil, nil
	}
	var c StepContent
	if err := json.Unmarshal([]byte(*r.ContentJSON), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// StepContent is the generated guidance payload for one day.
type StepContent struct {
	Title            string    `json:"title"`
	Body             string    `json:"body"`
	ReflectionPrompt string    `json:"reflection_prompt"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model,omitempty"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// ProviderFallback marks content served from the static corpus instead of
// an AI provider.
const ProviderFallback = "fallback"

// CompleteStepRequest carries the optional reflection and self-report.
type CompleteStepRequest struct {
	Reflection       string `json:"reflection" validate:"omitempty,max=4000"`
	CheckInIntensity *int   `json:"check_in_intensity" validate:"omitempty,min=0,max=10"`
}

// SafetyInfo is attached to a completion response when the gate flagged
// the reflection. The message is fixed, never generated.
type SafetyInfo struct {
	Flagged bool   `json:"flagged"`
	Message string `json:"message"`
}

// CompleteStepResponse reports the outcome of a completion attempt.
// An already-completed step is a success-shaped idempotent response.
type CompleteStepResponse struct {
	JourneyID        uuid.UUID   `json:"journey_id"`
	DayIndex         int         `json:"day_index"`
	Status           string      `json:"status"` // "completed" | "already_completed"
	JourneyCompleted bool        `json:"journey_completed"`
	Safety           *SafetyInfo `json:"safety,omitempty"`
}

// StepResponse is the client view of one day's step.
type StepResponse struct {
	JourneyID   uuid.UUID    `json:"journey_id"`
	DayIndex    int          `json:"day_index"`
	Status      StepStatus   `json:"status"`
	Content     *StepContent `json:"content,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// HistoryEntry is one step in the owner's journey history, reflection
// decrypted.
type HistoryEntry struct {
	DayIndex         int          `json:"day_index"`
	Status           StepStatus   `json:"status"`
	Content          *StepContent `json:"content,omitempty"`
	Reflection       string       `json:"reflection,omitempty"`
	CheckInIntensity *int         `json:"check_in_intensity,omitempty"`
	CompletedAt      *time.Time   `json:"completed_at,omitempty"`
}

// JourneyHistoryResponse bundles a journey with its step history.
type JourneyHistoryResponse struct {
	Journey JourneyResponse `json:"journey"`
	Steps   []HistoryEntry  `json:"steps"`
}
