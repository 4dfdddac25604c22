// internal/model/security_event.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type SecurityEventKind string

const (
	SecurityEventSafetyFlag     SecurityEventKind = "safety_flag"
	SecurityEventCryptoDisabled SecurityEventKind = "crypto_disabled"
)

// SecurityEvent is one row of the append-only safety audit log. Reason is a
// code, never the user's raw text.
type SecurityEvent struct {
	EventID   uuid.UUID         `gorm:"type:uuid;primaryKey" json:"event_id"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	JourneyID *uuid.UUID        `gorm:"type:uuid" json:"journey_id,omitempty"`
	Kind      SecurityEventKind `gorm:"type:varchar(32);not null" json:"kind"`
	Reason    string            `gorm:"type:varchar(64);not null" json:"reason"`
	CreatedAt time.Time         `json:"created_at"`
}

func (SecurityEvent) TableName() string {
	return "security_events"
}
