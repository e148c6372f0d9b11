package ollama

import (
	"context"
	"log/slog"

	"metadesc"
)

// Ensure Validator implements metadesc.Validator at compile time.
var _ metadesc.Validator = (*Validator)(nil)

// Validator refines a candidate with a second model call that only corrects
// grammar and phrasing. A failed call degrades silently to the unvalidated
// candidate.
type Validator struct {
	completer metadesc.Completer
	entities  *metadesc.EntityContext
	banned    []string
	logger    *slog.Logger
}

// NewValidator creates a Validator. A nil logger falls back to the default
// slog logger.
func NewValidator(completer metadesc.Completer, entities *metadesc.EntityContext, banned []string, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		completer: completer,
		entities:  entities,
		banned:    banned,
		logger:    logger,
	}
}

// Validate returns a grammar-checked copy of c, or c unchanged when the
// check fails or produces nothing usable.
func (v *Validator) Validate(ctx context.Context, c *metadesc.Candidate) *metadesc.Candidate {
	corrected, err := v.completer.Complete(ctx, buildValidatePrompt(c.Text))
	if err != nil {
		v.logger.Warn("grammar validation failed, keeping draft", "error", err)
		return c
	}
	clean := metadesc.Sanitize(corrected, v.banned, v.entities)
	if clean == "" || clean == c.Text {
		return c
	}
	v.logger.Debug("grammar corrected", "before", c.Text, "after", clean)
	return &metadesc.Candidate{Text: clean, Retried: c.Retried}
}
