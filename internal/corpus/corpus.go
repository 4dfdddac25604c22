// internal/corpus/corpus.go
//
// Read-only adapter over the curated content corpus. Two capabilities:
// material lookup by tag (prompt grounding for generation) and the static
// per-theme fallback payloads. Everything is local data compiled into the
// binary, so the fallback path cannot fail at runtime.
package corpus

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"innerpath/internal/model"
)

//go:embed corpus.yaml
var corpusYAML []byte

// Material is one curated passage usable as generation grounding.
type Material struct {
	Tag  string `yaml:"tag"`
	Text string `yaml:"text"`
}

type fallbackDay struct {
	Title            string `yaml:"title"`
	Body             string `yaml:"body"`
	ReflectionPrompt string `yaml:"reflection_prompt"`
}

type themeEntry struct {
	Days []fallbackDay `yaml:"days"`
}

type corpusFile struct {
	Materials []Material                 `yaml:"materials"`
	Fallbacks map[model.Theme]themeEntry `yaml:"fallbacks"`
}

// Adapter is the lookup interface handed to the generator, so tests can
// substitute a fixture corpus.
type Adapter interface {
	MaterialsByTags(tags []string) []Material
	FallbackContent(theme model.Theme, dayIndex int, now time.Time) *model.StepContent
}

type staticAdapter struct {
	byTag     map[string][]Material
	fallbacks map[model.Theme][]fallbackDay
}

// NewStatic parses the embedded corpus. A parse failure is a build defect,
// reported at startup rather than swallowed.
func NewStatic() (Adapter, error) {
	var f corpusFile
	if err := yaml.Unmarshal(corpusYAML, &f); err != nil {
		return nil, fmt.Errorf("parsing embedded corpus: %w", err)
	}
	a := &staticAdapter{
		byTag:     make(map[string][]Material),
		fallbacks: make(map[model.Theme][]fallbackDay),
	}
	for _, m := range f.Materials {
		a.byTag[m.Tag] = append(a.byTag[m.Tag], m)
	}
	for theme, entry := range f.Fallbacks {
		if len(entry.Days) == 0 {
			return nil, fmt.Errorf("corpus theme %q has no fallback days", theme)
		}
		a.fallbacks[theme] = entry.Days
	}
	return a, nil
}

func (a *staticAdapter) MaterialsByTags(tags []string) []Material {
	var out []Material
	for _, tag := range tags {
		out = append(out, a.byTag[tag]...)
	}
	return out
}

// FallbackContent returns the pre-authored payload for theme+day. Day
// indexes past the authored list wrap around so no valid input yields an
// empty payload.
func (a *staticAdapter) FallbackContent(theme model.Theme, dayIndex int, now time.Time) *model.StepContent {
	days, ok := a.fallbacks[theme]
	if !ok {
		days = a.fallbacks[model.ThemeOverthinking]
	}
	if dayIndex < 1 {
		dayIndex = 1
	}
	d := days[(dayIndex-1)%len(days)]
	return &model.StepContent{
		Title:            d.Title,
		Body:             d.Body,
		ReflectionPrompt: d.ReflectionPrompt,
		Provider:         model.ProviderFallback,
		GeneratedAt:      now,
	}
}
