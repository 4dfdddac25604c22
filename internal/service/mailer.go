// internal/service/mailer.go
package service

import (
	"context"
	"log/slog"

	"innerpath/internal/config"
	"innerpath/internal/middleware"
)

// Mailer delivers ops notifications. The only caller today is the safety
// gate alert path; delivery is always best-effort and must never block or
// fail a user request.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes the mail to the log instead of sending it. Used in dev
// and whenever alerts are disabled.
type LogMailer struct{}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	logger := middleware.GetLogger(ctx)
	logger.Info("--- Sending Email (LogMailer) ---", "to", to, "subject", subject, "body", body)
	return nil
}

// NewMailer picks the implementation from config.
func NewMailer(cfg *config.Config) Mailer {
	logger := slog.Default()
	if cfg.Alerts.Enabled && cfg.Alerts.SESRegion != "" {
		logger.Info("Initializing SES mailer for safety alerts...")
		return NewSESMailer(cfg)
	}
	logger.Info("Safety alerts disabled or SES not configured, using LogMailer")
	return &LogMailer{}
}
