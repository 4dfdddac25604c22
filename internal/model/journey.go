// internal/model/journey.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Theme is the behavioral pattern a template is built around.
type Theme string

const (
	ThemeOverthinking  Theme = "overthinking"
	ThemeSelfCriticism Theme = "self_criticism"
	ThemeAvoidance     Theme = "avoidance"
	ThemeBurnout       Theme = "burnout"
	ThemeDisconnection Theme = "disconnection"
)

// Pace is the period between scheduled days. Immutable after start.
type Pace string

const (
	PaceDaily         Pace = "daily"
	PaceEveryOtherDay Pace = "every_other_day"
	PaceWeekly        Pace = "weekly"
)

// Period returns the wall-clock duration of one scheduled day.
func (p Pace) Period() time.Duration {
	switch p {
	case PaceEveryOtherDay:
		return 48 * time.Hour
	case PaceWeekly:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Valid reports whether p is one of the known paces.
func (p Pace) Valid() bool {
	switch p {
	case PaceDaily, PaceEveryOtherDay, PaceWeekly:
		return true
	}
	return false
}

type JourneyStatus string

const (
	JourneyStatusActive    JourneyStatus = "active"
	JourneyStatusPaused    JourneyStatus = "paused"
	JourneyStatusCompleted JourneyStatus = "completed"
	JourneyStatusAbandoned JourneyStatus = "abandoned"
)

// Terminal reports whether the status is final. Terminal journeys do not
// count toward the max-active cap.
func (s JourneyStatus) Terminal() bool {
	return s == JourneyStatusCompleted || s == JourneyStatusAbandoned
}

// JourneyTemplate is an authored program definition. Immutable at runtime;
// referenced by many UserJourney rows.
type JourneyTemplate struct {
	TemplateID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"template_id"`
	Theme        Theme     `gorm:"type:varchar(32);not null;index" json:"theme"`
	Title        string    `gorm:"not null" json:"title"`
	DurationDays int       `gorm:"not null" json:"duration_days"`
	Difficulty   int       `gorm:"not null;default:1" json:"difficulty"`
	// Priority ranks agenda entries across journeys. 0 means unset.
	Priority  int       `gorm:"not null;default:0" json:"priority"`
	CreatedAt time.Time `json:"created_at"`

	Blueprints []StepBlueprint `gorm:"foreignKey:TemplateID;references:TemplateID" json:"-"`
}

func (JourneyTemplate) TableName() string {
	return "journey_templates"
}

// BlueprintFor returns the generation hints for one day, or nil if the
// template has no blueprint row for it.
func (t *JourneyTemplate) BlueprintFor(dayIndex int) *StepBlueprint {
	for i := range t.Blueprints {
		if t.Blueprints[i].DayIndex == dayIndex {
			return &t.Blueprints[i]
		}
	}
	return nil
}

// StepBlueprint holds the per-day generation hints of a template.
type StepBlueprint struct {
	TemplateID uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	DayIndex   int       `gorm:"primaryKey" json:"day_index"`
	// Tags index into the content corpus, stored as a comma-separated list.
	Tags      string `gorm:"not null;default:''" json:"tags"`
	MaxTokens int    `gorm:"not null;default:400" json:"max_tokens"`
}

func (StepBlueprint) TableName() string {
	return "step_blueprints"
}

// TagList splits the comma-separated tag column.
func (b *StepBlueprint) TagList() []string {
	if b == nil || b.Tags == "" {
		return nil
	}
	parts := strings.Split(b.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// UserJourney is one enrollment of a user in a template program.
// Never hard-deleted; abandon is a status transition.
type UserJourney struct {
	JourneyID  uuid.UUID     `gorm:"type:uuid;primaryKey" json:"journey_id"`
	UserID     uuid.UUID     `gorm:"type:uuid;not null;index:idx_journeys_user_status" json:"user_id"`
	TemplateID uuid.UUID     `gorm:"type:uuid;not null" json:"template_id"`
	Status     JourneyStatus `gorm:"type:varchar(16);not null;default:'active';index:idx_journeys_user_status" json:"status"`
	Pace       Pace          `gorm:"type:varchar(16);not null" json:"pace"`
	// Tone is the user's preferred voice for generated content. Free text,
	// safety-gated before it reaches a provider prompt.
	Tone        string     `gorm:"type:varchar(128);not null;default:''" json:"tone,omitempty"`
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	AbandonedAt *time.Time `json:"abandoned_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Template       *JourneyTemplate `gorm:"foreignKey:TemplateID;references:TemplateID" json:"-"`
	PauseIntervals []PauseInterval  `gorm:"foreignKey:JourneyID;references:JourneyID" json:"-"`
}

func (UserJourney) TableName() string {
	return "user_journeys"
}

// OpenPause returns the pause interval that has not been resumed yet, if any.
func (j *UserJourney) OpenPause() *PauseInterval {
	for i := range j.PauseIntervals {
		if j.PauseIntervals[i].ResumedAt == nil {
			return &j.PauseIntervals[i]
		}
	}
	return nil
}

// PauseInterval is one pause/resume pair. ResumedAt is nil while the pause
// is still open.
type PauseInterval struct {
	IntervalID uuid.UUID  `gorm:"type:uuid;primaryKey" json:"-"`
	JourneyID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	PausedAt   time.Time  `gorm:"not null" json:"paused_at"`
	ResumedAt  *time.Time `json:"resumed_at,omitempty"`
}

func (PauseInterval) TableName() string {
	return "pause_intervals"
}

type ContextKey string

const (
	UserIDKey ContextKey = "userID"
)

// StartJourneyItem is one enrollment in a batch start request.
type StartJourneyItem struct {
	TemplateID uuid.UUID `json:"template_id" validate:"required"`
	Pace       Pace      `json:"pace" validate:"required,oneof=daily every_other_day weekly"`
	Tone       string    `json:"tone" validate:"omitempty,max=128"`
}

// StartJourneysRequest starts up to five journeys at once.
type StartJourneysRequest struct {
	Journeys []StartJourneyItem `json:"journeys" validate:"required,min=1,max=5,dive"`
}

// JourneyResponse is the client view of one enrollment.
type JourneyResponse struct {
	JourneyID    uuid.UUID     `json:"journey_id"`
	TemplateID   uuid.UUID     `json:"template_id"`
	Theme        Theme         `json:"theme"`
	Title        string        `json:"title"`
	Status       JourneyStatus `json:"status"`
	Pace         Pace          `json:"pace"`
	DurationDays int           `json:"duration_days"`
	DueDayIndex  int           `json:"due_day_index"`
	StartedAt    time.Time     `json:"started_at"`
	NextUnlockAt *time.Time    `json:"next_unlock_at,omitempty"`
}
