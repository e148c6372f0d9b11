package ollama_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metadesc"
	"metadesc/mock"
	"metadesc/ollama"
)

// inWindowSentence is 130 characters long, inside the 120-160 target window.
const inWindowSentence = "Learn how to configure the gateway listener ports and routing tables so that incoming traffic reaches the correct backend services"

func TestSynthesizer_Synthesize(t *testing.T) {
	t.Parallel()

	t.Run("single call when the draft is long enough", func(t *testing.T) {
		t.Parallel()

		calls := 0
		completer := &mock.Completer{
			CompleteFn: func(_ context.Context, prompt string) (string, error) {
				calls++
				assert.Contains(t, prompt, "Page content")
				assert.Contains(t, prompt, "the excerpt text")
				return inWindowSentence, nil
			},
		}
		s := ollama.NewSynthesizer(completer, nil, nil, nil)

		c, err := s.Synthesize(context.Background(), "the excerpt text")
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, inWindowSentence, c.Text)
		assert.False(t, c.Retried)
		assert.True(t, c.InWindow())
	})

	t.Run("retries exactly once when the draft is too short", func(t *testing.T) {
		t.Parallel()

		var prompts []string
		completer := &mock.Completer{
			CompleteFn: func(_ context.Context, prompt string) (string, error) {
				prompts = append(prompts, prompt)
				if len(prompts) == 1 {
					return "Configure the gateway", nil
				}
				return inWindowSentence, nil
			},
		}
		s := ollama.NewSynthesizer(completer, nil, nil, nil)

		c, err := s.Synthesize(context.Background(), "the excerpt text")
		require.NoError(t, err)
		require.Len(t, prompts, 2)
		assert.Contains(t, prompts[1], "too short")
		assert.Equal(t, inWindowSentence, c.Text)
		assert.True(t, c.Retried)
	})

	t.Run("empty retry response keeps the first draft", func(t *testing.T) {
		t.Parallel()

		calls := 0
		completer := &mock.Completer{
			CompleteFn: func(context.Context, string) (string, error) {
				calls++
				if calls == 1 {
					return "Configure the gateway", nil
				}
				return "   ", nil
			},
		}
		s := ollama.NewSynthesizer(completer, nil, nil, nil)

		c, err := s.Synthesize(context.Background(), "the excerpt text")
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, "Configure the gateway", c.Text)
		assert.True(t, c.Retried)
		assert.False(t, c.InWindow())
	})

	t.Run("short second response is accepted without a third call", func(t *testing.T) {
		t.Parallel()

		calls := 0
		completer := &mock.Completer{
			CompleteFn: func(context.Context, string) (string, error) {
				calls++
				return "Configure the gateway", nil
			},
		}
		s := ollama.NewSynthesizer(completer, nil, nil, nil)

		c, err := s.Synthesize(context.Background(), "the excerpt text")
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.True(t, c.Retried)
		assert.False(t, c.InWindow())
	})

	t.Run("empty first response is an error", func(t *testing.T) {
		t.Parallel()

		completer := &mock.Completer{
			CompleteFn: func(context.Context, string) (string, error) {
				return "  \n ", nil
			},
		}
		s := ollama.NewSynthesizer(completer, nil, nil, nil)

		_, err := s.Synthesize(context.Background(), "the excerpt text")
		require.Error(t, err)
		assert.Equal(t, metadesc.EEMPTYRESPONSE, metadesc.ErrorCode(err))
	})

	t.Run("completer errors are propagated", func(t *testing.T) {
		t.Parallel()

		completer := &mock.Completer{
			CompleteFn: func(context.Context, string) (string, error) {
				return "", metadesc.Errorf(metadesc.EUNAVAILABLE, "down")
			},
		}
		s := ollama.NewSynthesizer(completer, nil, nil, nil)

		_, err := s.Synthesize(context.Background(), "the excerpt text")
		require.Error(t, err)
		assert.Equal(t, metadesc.EUNAVAILABLE, metadesc.ErrorCode(err))
	})

	t.Run("response is sanitized before length reporting", func(t *testing.T) {
		t.Parallel()

		completer := &mock.Completer{
			CompleteFn: func(context.Context, string) (string, error) {
				return "\"" + inWindowSentence + ".\"", nil
			},
		}
		s := ollama.NewSynthesizer(completer, nil, nil, nil)

		c, err := s.Synthesize(context.Background(), "the excerpt text")
		require.NoError(t, err)
		assert.Equal(t, inWindowSentence, c.Text)
		assert.False(t, strings.HasSuffix(c.Text, "."))
	})

	t.Run("banned terms appear in the prompt rules", func(t *testing.T) {
		t.Parallel()

		completer := &mock.Completer{
			CompleteFn: func(_ context.Context, prompt string) (string, error) {
				assert.Contains(t, prompt, "Do NOT use the following terms: easily, simply.")
				return inWindowSentence, nil
			},
		}
		s := ollama.NewSynthesizer(completer, nil, []string{"simply", "easily"}, nil)

		_, err := s.Synthesize(context.Background(), "the excerpt text")
		require.NoError(t, err)
	})
}
