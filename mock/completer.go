// Package mock provides mock implementations of metadesc interfaces for
// testing.
package mock

import (
	"context"

	"metadesc"
)

var _ metadesc.Completer = (*Completer)(nil)

// Completer is a mock implementation of metadesc.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, prompt string) (string, error)
}

func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteFn(ctx, prompt)
}
