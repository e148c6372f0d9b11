package mock

import (
	"context"

	"metadesc"
)

var _ metadesc.Reporter = (*Reporter)(nil)

// Reporter is a mock implementation of metadesc.Reporter.
type Reporter struct {
	RecordFn func(ctx context.Context, rec *metadesc.OutcomeRecord) error
	FlushFn  func(ctx context.Context, stats *metadesc.RunStats) error
}

func (r *Reporter) Record(ctx context.Context, rec *metadesc.OutcomeRecord) error {
	return r.RecordFn(ctx, rec)
}

func (r *Reporter) Flush(ctx context.Context, stats *metadesc.RunStats) error {
	return r.FlushFn(ctx, stats)
}
