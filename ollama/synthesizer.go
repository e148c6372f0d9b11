package ollama

import (
	"context"
	"log/slog"
	"strings"

	"metadesc"
)

// Ensure Synthesizer implements metadesc.Synthesizer at compile time.
var _ metadesc.Synthesizer = (*Synthesizer)(nil)

// Synthesizer produces description candidates from excerpts. It owns the
// prompt construction, the retry-exactly-once length policy, and the
// post-generation sanitize pass.
type Synthesizer struct {
	completer metadesc.Completer
	entities  *metadesc.EntityContext
	banned    []string
	logger    *slog.Logger
}

// NewSynthesizer creates a Synthesizer. A nil logger falls back to the
// default slog logger.
func NewSynthesizer(completer metadesc.Completer, entities *metadesc.EntityContext, banned []string, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{
		completer: completer,
		entities:  entities,
		banned:    banned,
		logger:    logger,
	}
}

// Synthesize asks the model for a description. The state machine is fixed:
// draft, length check, then at most one retry with an amended prompt. The
// second response is accepted even when it is still outside the target
// window; the miss is logged, not retried.
func (s *Synthesizer) Synthesize(ctx context.Context, excerpt string) (*metadesc.Candidate, error) {
	text, err := s.completer.Complete(ctx, buildPrompt(excerpt, s.banned, s.entities))
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, metadesc.Errorf(metadesc.EEMPTYRESPONSE, "model returned an empty response")
	}

	retried := false
	if len(text) < metadesc.MinDescriptionLen {
		s.logger.Debug("draft too short, retrying once", "length", len(text))
		retried = true
		second, err := s.completer.Complete(ctx, buildRetryPrompt(excerpt, s.banned, s.entities))
		if err != nil {
			return nil, err
		}
		if second = strings.TrimSpace(second); second != "" {
			text = second
		}
	}

	clean := metadesc.Sanitize(text, s.banned, s.entities)
	if clean == "" {
		return nil, metadesc.Errorf(metadesc.EEMPTYRESPONSE, "description empty after cleanup")
	}

	candidate := &metadesc.Candidate{Text: clean, Retried: retried}
	if !candidate.InWindow() {
		s.logger.Warn("description outside target length window",
			"length", candidate.Len(),
			"retried", retried,
		)
	}
	return candidate, nil
}
