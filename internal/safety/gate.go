// internal/safety/gate.go
//
// Crisis-language gate for user free text. Deliberately a fixed, reviewable
// pattern list rather than a model so the behavior is auditable and the
// tests are exact. Sits in front of both personalization input (before any
// provider prompt) and reflection input (before storage).
package safety

import "regexp"

// Reason codes recorded in the security event log. Codes only, never the
// scanned text.
const (
	ReasonSelfHarm = "self_harm"
	ReasonCrisis   = "crisis"
	ReasonAbuse    = "abuse"
)

// SafeHarborMessage is the fixed response shown when crisis content is
// detected. Never generated, never personalized.
const SafeHarborMessage = "It sounds like you're going through something really hard right now. " +
	"You don't have to face this alone. Please reach out to a mental health professional, " +
	"or contact a crisis line such as 988 (Suicide & Crisis Lifeline) - they are available 24/7. " +
	"Your reflection was not saved, but your progress for today has been recorded."

// Verdict is the result of scanning one piece of text.
type Verdict struct {
	Flagged bool
	Reason  string
}

type pattern struct {
	re     *regexp.Regexp
	reason string
}

// Gate scans free text against the crisis pattern list.
type Gate struct {
	patterns []pattern
}

var defaultPatterns = []struct {
	expr   string
	reason string
}{
	{`(?i)\bkill(ing)? myself\b`, ReasonSelfHarm},
	{`(?i)\bsuicid(e|al)\b`, ReasonSelfHarm},
	{`(?i)\bend(ing)? (my|it) (life|all)\b`, ReasonSelfHarm},
	{`(?i)\bself[- ]harm(ing)?\b`, ReasonSelfHarm},
	{`(?i)\bhurt(ing)? myself\b`, ReasonSelfHarm},
	{`(?i)\bcut(ting)? myself\b`, ReasonSelfHarm},
	{`(?i)\bwant(ed)? to die\b`, ReasonSelfHarm},
	{`(?i)\bbetter off dead\b`, ReasonSelfHarm},
	{`(?i)\bno reason to live\b`, ReasonCrisis},
	{`(?i)\bcan'?t go on\b`, ReasonCrisis},
	{`(?i)\boverdos(e|ing)\b`, ReasonCrisis},
	{`(?i)\bbeing abused\b`, ReasonAbuse},
	{`(?i)\babus(es|ing) me\b`, ReasonAbuse},
	{`(?i)\bhits? me\b`, ReasonAbuse},
	{`(?i)\bafraid of (him|her|them)\b`, ReasonAbuse},
}

// NewGate builds the gate with the fixed default pattern list.
func NewGate() *Gate {
	g := &Gate{patterns: make([]pattern, 0, len(defaultPatterns))}
	for _, p := range defaultPatterns {
		g.patterns = append(g.patterns, pattern{
			re:     regexp.MustCompile(p.expr),
			reason: p.reason,
		})
	}
	return g
}

// Scan returns the first matching verdict. Patterns are checked in list
// order so self-harm reasons win over the broader crisis ones.
func (g *Gate) Scan(text string) Verdict {
	if text == "" {
		return Verdict{}
	}
	for _, p := range g.patterns {
		if p.re.MatchString(text) {
			return Verdict{Flagged: true, Reason: p.reason}
		}
	}
	return Verdict{}
}
