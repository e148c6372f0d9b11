package metadesc

import "context"

// Target length window for a final description, in characters, inclusive.
const (
	MinDescriptionLen = 120
	MaxDescriptionLen = 160
)

// Completer is a synchronous text-completion service. Implementations hide
// the transport; the prompt goes in, generated text comes out.
type Completer interface {
	// Complete generates text for the given prompt. Returns EUNAVAILABLE
	// when the endpoint cannot be reached and EEMPTYRESPONSE when the
	// response cannot be decoded.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Candidate is a synthesized description sentence.
type Candidate struct {
	// Text is the sanitized description.
	Text string

	// Retried reports whether a second model call was needed to reach the
	// target length.
	Retried bool
}

// Len returns the character count of the candidate text.
func (c *Candidate) Len() int {
	return len(c.Text)
}

// InWindow reports whether the candidate length is within the target window.
func (c *Candidate) InWindow() bool {
	return c.Len() >= MinDescriptionLen && c.Len() <= MaxDescriptionLen
}

// Synthesizer produces a description candidate from an excerpt. The retry
// policy is fixed: if the first model response is shorter than
// MinDescriptionLen characters, exactly one additional call is made with an
// amended prompt, and whatever it returns is accepted.
type Synthesizer interface {
	Synthesize(ctx context.Context, excerpt string) (*Candidate, error)
}

// Validator refines a candidate with a grammar and phrasing check.
// Validation is best-effort: implementations return the original candidate
// unchanged when the check fails.
type Validator interface {
	Validate(ctx context.Context, c *Candidate) *Candidate
}
