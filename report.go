package metadesc

import (
	"context"
	"errors"
)

// Reporter receives outcome records as they are produced. One record is
// emitted per processed document; Flush is called once after the last
// document with the run-level counters.
type Reporter interface {
	Record(ctx context.Context, rec *OutcomeRecord) error
	Flush(ctx context.Context, stats *RunStats) error
}

// Ensure MultiReporter implements Reporter at compile time.
var _ Reporter = (MultiReporter)(nil)

// MultiReporter fans records out to several reporters. A failing reporter
// does not prevent the others from receiving the record.
type MultiReporter []Reporter

// Record delivers the record to every reporter and joins any errors.
func (m MultiReporter) Record(ctx context.Context, rec *OutcomeRecord) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Flush flushes every reporter and joins any errors.
func (m MultiReporter) Flush(ctx context.Context, stats *RunStats) error {
	var errs []error
	for _, r := range m {
		if err := r.Flush(ctx, stats); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
