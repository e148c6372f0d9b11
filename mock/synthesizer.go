package mock

import (
	"context"

	"metadesc"
)

var _ metadesc.Synthesizer = (*Synthesizer)(nil)

// Synthesizer is a mock implementation of metadesc.Synthesizer.
type Synthesizer struct {
	SynthesizeFn func(ctx context.Context, excerpt string) (*metadesc.Candidate, error)
}

func (s *Synthesizer) Synthesize(ctx context.Context, excerpt string) (*metadesc.Candidate, error) {
	return s.SynthesizeFn(ctx, excerpt)
}

var _ metadesc.Validator = (*Validator)(nil)

// Validator is a mock implementation of metadesc.Validator.
type Validator struct {
	ValidateFn func(ctx context.Context, c *metadesc.Candidate) *metadesc.Candidate
}

func (v *Validator) Validate(ctx context.Context, c *metadesc.Candidate) *metadesc.Candidate {
	return v.ValidateFn(ctx, c)
}
