package slog

import (
	"context"
	"log/slog"

	"metadesc"
)

// Ensure LoggingReporter implements metadesc.Reporter.
var _ metadesc.Reporter = (*LoggingReporter)(nil)

// LoggingReporter wraps a Reporter with per-outcome and run-summary logging.
type LoggingReporter struct {
	next   metadesc.Reporter
	logger *slog.Logger
}

// NewLoggingReporter creates a new LoggingReporter.
func NewLoggingReporter(next metadesc.Reporter, logger *slog.Logger) *LoggingReporter {
	return &LoggingReporter{next: next, logger: logger}
}

// Record logs the outcome and delegates to the wrapped reporter.
func (r *LoggingReporter) Record(ctx context.Context, rec *metadesc.OutcomeRecord) error {
	if rec.Status == metadesc.StatusError {
		r.logger.Error("outcome",
			"path", rec.Path,
			"status", string(rec.Status),
			"code", rec.ErrCode,
			"detail", rec.Detail,
		)
	} else {
		r.logger.Info("outcome",
			"path", rec.Path,
			"status", string(rec.Status),
			"detail", rec.Detail,
		)
	}
	return r.next.Record(ctx, rec)
}

// Flush logs the run counters and delegates to the wrapped reporter.
func (r *LoggingReporter) Flush(ctx context.Context, stats *metadesc.RunStats) error {
	r.logger.Info("run summary",
		"scanned", stats.Scanned,
		"written", stats.Written,
		"previewed", stats.Previewed,
		"skipped_existing", stats.SkippedExisting,
		"skipped_no_excerpt", stats.SkippedNoExcerpt,
		"errored", stats.Errored,
		"duration", stats.Duration,
	)
	return r.next.Flush(ctx, stats)
}
