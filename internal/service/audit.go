// internal/service/audit.go
package service

import (
	"context"
	"log/slog"

	"innerpath/internal/model"
	"innerpath/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordCryptoDisabled appends the audit row noting that reflections are
// being stored in plaintext. Called once at boot when no encryption key is
// configured; the row carries the zero user id since no user is involved.
func RecordCryptoDisabled(ctx context.Context, db *gorm.DB, secRepo repository.SecurityEventRepository, logger *slog.Logger) error {
	event := &model.SecurityEvent{
		EventID: uuid.New(),
		UserID:  uuid.Nil,
		Kind:    model.SecurityEventCryptoDisabled,
		Reason:  "no_key_configured",
	}
	if err := secRepo.Create(ctx, db, event); err != nil {
		logger.Error("Failed to record crypto-disabled audit event", "error", err)
		return err
	}
	logger.Warn("Plaintext reflection storage recorded in security audit log", "event_id", event.EventID)
	return nil
}
