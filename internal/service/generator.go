// internal/service/generator.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"innerpath/internal/corpus"
	"innerpath/internal/llm"
	"innerpath/internal/middleware"
	"innerpath/internal/model"
	"innerpath/internal/repository"
	"innerpath/internal/safety"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ContentGenerator produces the guidance content for one (journey, day),
// idempotently: once a payload lands in the step record it is returned
// unchanged forever.
type ContentGenerator interface {
	GetOrGenerate(ctx context.Context, journey *model.UserJourney, tpl *model.JourneyTemplate, dayIndex int) (*model.StepContent, error)
}

type contentGenerator struct {
	db        *gorm.DB
	stepRepo  repository.StepRepository
	secRepo   repository.SecurityEventRepository
	providers []llm.Provider
	corpus    corpus.Adapter
	gate      *safety.Gate
	group     singleflight.Group
}

func NewContentGenerator(db *gorm.DB, stepRepo repository.StepRepository, secRepo repository.SecurityEventRepository, providers []llm.Provider, corpusAdapter corpus.Adapter, gate *safety.Gate) ContentGenerator {
	return &contentGenerator{
		db:        db,
		stepRepo:  stepRepo,
		secRepo:   secRepo,
		providers: providers,
		corpus:    corpusAdapter,
		gate:      gate,
	}
}

func (g *contentGenerator) GetOrGenerate(ctx context.Context, journey *model.UserJourney, tpl *model.JourneyTemplate, dayIndex int) (*model.StepContent, error) {
	logger := middleware.GetLogger(ctx).With("journey_id", journey.JourneyID, "day_index", dayIndex)

	rec, err := g.stepRepo.FindOrCreate(ctx, g.db, journey.JourneyID, dayIndex)
	if err != nil {
		logger.Error("Failed to load step record for generation", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to load step content.", "", model.ErrInternalServer)
	}
	if content, err := rec.Content(); err == nil && content != nil {
		return content, nil
	}

	// One generation per (journey, day) across concurrent requests; losers
	// wait here and share the winner's result instead of calling providers
	// themselves. The work runs on a detached context so a client that
	// abandons the request still warms the cache for the next fetch.
	key := journey.JourneyID.String() + ":" + fmt.Sprint(dayIndex)
	v, err, _ := g.group.Do(key, func() (interface{}, error) {
		return g.generate(context.WithoutCancel(ctx), journey, tpl, dayIndex)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.StepContent), nil
}

func (g *contentGenerator) generate(ctx context.Context, journey *model.UserJourney, tpl *model.JourneyTemplate, dayIndex int) (*model.StepContent, error) {
	logger := middleware.GetLogger(ctx).With("journey_id", journey.JourneyID, "day_index", dayIndex)

	// Re-read inside the flight: a racer may have persisted while this
	// caller waited for the lock.
	rec, err := g.stepRepo.Find(ctx, g.db, journey.JourneyID, dayIndex)
	if err == nil {
		if content, cerr := rec.Content(); cerr == nil && content != nil {
			return content, nil
		}
	}

	blueprint := tpl.BlueprintFor(dayIndex)
	maxTokens := 400
	if blueprint != nil && blueprint.MaxTokens > 0 {
		maxTokens = blueprint.MaxTokens
	}
	prompt := g.buildPrompt(ctx, journey, tpl, dayIndex, blueprint)

	content := g.runChain(ctx, logger, prompt, maxTokens)
	if content == nil {
		// Static fallback. Local data, cannot fail; the user always sees
		// something.
		content = g.corpus.FallbackContent(tpl.Theme, dayIndex, time.Now().UTC())
		logger.Info("All providers failed, serving static fallback content")
	}

	raw, err := json.Marshal(content)
	if err != nil {
		logger.Error("Failed to marshal generated content", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to store step content.", "", model.ErrInternalServer)
	}

	won, err := g.stepRepo.SetContentIfEmpty(ctx, g.db, journey.JourneyID, dayIndex, string(raw), content.Provider, content.GeneratedAt)
	if err != nil {
		logger.Error("Failed to persist generated content", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to store step content.", "", model.ErrInternalServer)
	}
	if !won {
		// Lost the write-once race; serve the winner's bytes.
		rec, err := g.stepRepo.Find(ctx, g.db, journey.JourneyID, dayIndex)
		if err != nil {
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to load step content.", "", model.ErrInternalServer)
		}
		stored, cerr := rec.Content()
		if cerr != nil || stored == nil {
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to load step content.", "", model.ErrInternalServer)
		}
		return stored, nil
	}

	logger.Info("Step content generated", "provider", content.Provider)
	return content, nil
}

// runChain walks the provider list in priority order. Transient failures
// (timeouts, rate limits) earn one retry on the same provider; config
// failures skip ahead immediately; structurally invalid output counts as a
// provider failure. Returns nil when the chain is exhausted.
func (g *contentGenerator) runChain(ctx context.Context, logger *slog.Logger, prompt string, maxTokens int) *model.StepContent {
	for _, provider := range g.providers {
		raw, err := provider.Generate(ctx, prompt, maxTokens)
		if err != nil && llm.Retryable(err) {
			logger.Warn("Provider failed transiently, retrying once", "provider", provider.Name(), "error", err)
			raw, err = provider.Generate(ctx, prompt, maxTokens)
		}
		if err != nil {
			if llm.Skippable(err) {
				logger.Warn("Provider misconfigured, skipping", "provider", provider.Name(), "error", err)
			} else {
				logger.Warn("Provider failed, falling through", "provider", provider.Name(), "error", err)
			}
			continue
		}

		content, err := parseGenerated(raw, maxTokens)
		if err != nil {
			logger.Warn("Provider output failed structural validation, falling through", "provider", provider.Name(), "error", err)
			continue
		}
		content.Provider = provider.Name()
		content.GeneratedAt = time.Now().UTC()
		return content
	}
	return nil
}

func (g *contentGenerator) buildPrompt(ctx context.Context, journey *model.UserJourney, tpl *model.JourneyTemplate, dayIndex int, blueprint *model.StepBlueprint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write day %d of %d of a program about %s.\n",
		dayIndex, tpl.DurationDays, strings.ReplaceAll(string(tpl.Theme), "_", " "))

	if blueprint != nil {
		if materials := g.corpus.MaterialsByTags(blueprint.TagList()); len(materials) > 0 {
			b.WriteString("Ground the guidance in these ideas:\n")
			for _, m := range materials {
				b.WriteString("- " + strings.TrimSpace(m.Text) + "\n")
			}
		}
	}

	// Personalization passes the same gate as reflections: flagged tone
	// never reaches a provider payload.
	if tone := strings.TrimSpace(journey.Tone); tone != "" {
		if verdict := g.gate.Scan(tone); verdict.Flagged {
			middleware.GetLogger(ctx).Warn("Personalization text flagged by safety gate, omitting from prompt",
				"reason", verdict.Reason, "journey_id", journey.JourneyID)
			g.recordSafetyEvent(ctx, journey.UserID, journey.JourneyID, verdict.Reason)
		} else {
			fmt.Fprintf(&b, "Write in a %s tone.\n", tone)
		}
	}

	b.WriteString("Keep the body under 200 words. One concrete practice for today, plus one reflection question.")
	return b.String()
}

func (g *contentGenerator) recordSafetyEvent(ctx context.Context, userID, journeyID uuid.UUID, reason string) {
	event := &model.SecurityEvent{
		EventID:   uuid.New(),
		UserID:    userID,
		JourneyID: &journeyID,
		Kind:      model.SecurityEventSafetyFlag,
		Reason:    reason,
	}
	if err := g.secRepo.Create(ctx, g.db, event); err != nil {
		middleware.GetLogger(ctx).Error("Failed to record security event", "error", err)
	}
}

// parseGenerated validates provider output against the expected shape:
// a JSON object with non-empty title, body and reflection_prompt within
// sane length bounds.
func parseGenerated(raw string, maxTokens int) (*model.StepContent, error) {
	jsonPart := extractJSON(raw)
	if jsonPart == "" {
		return nil, fmt.Errorf("no JSON object in output: %w", llm.ErrBadOutput)
	}
	var payload struct {
		Title            string `json:"title"`
		Body             string `json:"body"`
		ReflectionPrompt string `json:"reflection_prompt"`
	}
	if err := json.Unmarshal([]byte(jsonPart), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrBadOutput, err)
	}
	payload.Title = strings.TrimSpace(payload.Title)
	payload.Body = strings.TrimSpace(payload.Body)
	payload.ReflectionPrompt = strings.TrimSpace(payload.ReflectionPrompt)
	if payload.Title == "" || payload.Body == "" || payload.ReflectionPrompt == "" {
		return nil, fmt.Errorf("missing required fields: %w", llm.ErrBadOutput)
	}
	// A token is roughly four bytes; double that as a generous ceiling.
	if limit := maxTokens * 8; len(payload.Body) > limit {
		return nil, fmt.Errorf("body exceeds length bound (%d > %d): %w", len(payload.Body), limit, llm.ErrBadOutput)
	}
	return &model.StepContent{
		Title:            payload.Title,
		Body:             payload.Body,
		ReflectionPrompt: payload.ReflectionPrompt,
	}, nil
}

// extractJSON pulls the outermost JSON object out of model output that may
// be wrapped in code fences or prose.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
