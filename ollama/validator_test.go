package ollama_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metadesc"
	"metadesc/mock"
	"metadesc/ollama"
)

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	t.Run("corrected sentence replaces the draft", func(t *testing.T) {
		t.Parallel()

		completer := &mock.Completer{
			CompleteFn: func(_ context.Context, prompt string) (string, error) {
				assert.Contains(t, prompt, "Original sentence")
				assert.Contains(t, prompt, "Configure gateway listener")
				return "Configure the gateway listener ports", nil
			},
		}
		v := ollama.NewValidator(completer, nil, nil, nil)

		draft := &metadesc.Candidate{Text: "Configure gateway listener", Retried: true}
		got := v.Validate(context.Background(), draft)
		require.NotNil(t, got)
		assert.Equal(t, "Configure the gateway listener ports", got.Text)
		assert.True(t, got.Retried)
	})

	t.Run("failed check keeps the draft", func(t *testing.T) {
		t.Parallel()

		completer := &mock.Completer{
			CompleteFn: func(context.Context, string) (string, error) {
				return "", metadesc.Errorf(metadesc.EUNAVAILABLE, "down")
			},
		}
		v := ollama.NewValidator(completer, nil, nil, nil)

		draft := &metadesc.Candidate{Text: "Configure the gateway"}
		got := v.Validate(context.Background(), draft)
		assert.Same(t, draft, got)
	})

	t.Run("unchanged sentence keeps the draft", func(t *testing.T) {
		t.Parallel()

		completer := &mock.Completer{
			CompleteFn: func(context.Context, string) (string, error) {
				return "Configure the gateway", nil
			},
		}
		v := ollama.NewValidator(completer, nil, nil, nil)

		draft := &metadesc.Candidate{Text: "Configure the gateway"}
		got := v.Validate(context.Background(), draft)
		assert.Same(t, draft, got)
	})

	t.Run("empty correction keeps the draft", func(t *testing.T) {
		t.Parallel()

		completer := &mock.Completer{
			CompleteFn: func(context.Context, string) (string, error) {
				return "\"\"", nil
			},
		}
		v := ollama.NewValidator(completer, nil, nil, nil)

		draft := &metadesc.Candidate{Text: "Configure the gateway"}
		got := v.Validate(context.Background(), draft)
		assert.Same(t, draft, got)
	})

	t.Run("correction passes through the cleanup pass", func(t *testing.T) {
		t.Parallel()

		completer := &mock.Completer{
			CompleteFn: func(context.Context, string) (string, error) {
				return "Configure the gateway listener ports.", nil
			},
		}
		v := ollama.NewValidator(completer, nil, nil, nil)

		draft := &metadesc.Candidate{Text: "Configure the gateway"}
		got := v.Validate(context.Background(), draft)
		assert.Equal(t, "Configure the gateway listener ports", got.Text)
	})
}
