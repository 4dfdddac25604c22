// internal/llm/provider.go
package llm

import (
	"context"
	"errors"
)

// Provider is one entry of the generation chain. Implementations must be
// safe for concurrent use.
type Provider interface {
	Name() string
	// Generate returns the raw model output for a prompt within a token
	// budget. Errors should be classified via Retryable/Skippable so the
	// chain can decide between retrying and falling through.
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Error classes driving chain behavior: transient errors earn one retry on
// the same provider, config errors skip straight to the next one.
var (
	ErrTransient = errors.New("transient provider error")
	ErrConfig    = errors.New("provider configuration error")
	ErrBadOutput = errors.New("provider returned unusable output")
)

// Retryable reports whether the same provider deserves one more attempt.
func Retryable(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, context.DeadlineExceeded)
}

// Skippable reports whether retrying this provider is pointless.
func Skippable(err error) bool {
	return errors.Is(err, ErrConfig)
}
