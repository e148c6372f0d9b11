// Package slog provides logging decorators for metadesc interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"metadesc"
)

// Ensure LoggingCompleter implements metadesc.Completer.
var _ metadesc.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a Completer with debug logging of prompt size and
// model latency.
type LoggingCompleter struct {
	next   metadesc.Completer
	logger *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next metadesc.Completer, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, logger: logger}
}

// Complete delegates to the wrapped completer and logs the call.
func (c *LoggingCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	begin := time.Now()
	text, err := c.next.Complete(ctx, prompt)
	if err != nil {
		c.logger.Error("completion",
			"prompt_bytes", len(prompt),
			"duration", time.Since(begin),
			"err", err,
		)
		return "", err
	}
	c.logger.Debug("completion",
		"prompt_bytes", len(prompt),
		"response_bytes", len(text),
		"duration", time.Since(begin),
	)
	return text, nil
}

// Ensure LoggingSynthesizer implements metadesc.Synthesizer.
var _ metadesc.Synthesizer = (*LoggingSynthesizer)(nil)

// LoggingSynthesizer wraps a Synthesizer with info logging of the produced
// candidate.
type LoggingSynthesizer struct {
	next   metadesc.Synthesizer
	logger *slog.Logger
}

// NewLoggingSynthesizer creates a new LoggingSynthesizer.
func NewLoggingSynthesizer(next metadesc.Synthesizer, logger *slog.Logger) *LoggingSynthesizer {
	return &LoggingSynthesizer{next: next, logger: logger}
}

// Synthesize delegates to the wrapped synthesizer and logs the outcome.
func (s *LoggingSynthesizer) Synthesize(ctx context.Context, excerpt string) (*metadesc.Candidate, error) {
	begin := time.Now()
	c, err := s.next.Synthesize(ctx, excerpt)
	if err != nil {
		s.logger.Error("synthesize",
			"excerpt_bytes", len(excerpt),
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	s.logger.Info("synthesize",
		"excerpt_bytes", len(excerpt),
		"length", c.Len(),
		"retried", c.Retried,
		"in_window", c.InWindow(),
		"duration", time.Since(begin),
	)
	return c, nil
}
