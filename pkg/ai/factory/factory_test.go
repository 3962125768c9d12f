package factory

import (
	"context"
	"testing"

	"ai-studyflow-be/pkg/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	t.Run("gemini without key degrades to stub", func(t *testing.T) {
		p, err := NewLLMProvider("gemini", "gemini-1.5-flash", "", "")
		require.NoError(t, err)

		_, err = p.Generate(context.Background(), "hello")
		assert.ErrorIs(t, err, ai.ErrUnavailable)
	})

	t.Run("empty and none are stubs", func(t *testing.T) {
		for _, name := range []string{"", "none"} {
			p, err := NewLLMProvider(name, "", "", "")
			require.NoError(t, err)

			_, err = p.Chat(context.Background(), []ai.Message{{Role: "user", Content: "hi"}})
			assert.ErrorIs(t, err, ai.ErrUnavailable)
		}
	})

	t.Run("gemini with key is real", func(t *testing.T) {
		p, err := NewLLMProvider("gemini", "gemini-1.5-flash", "", "fake-key")
		require.NoError(t, err)
		assert.NotNil(t, p)
		_, isStub := p.(*ai.UnavailableProvider)
		assert.False(t, isStub)
	})

	t.Run("ollama needs no key", func(t *testing.T) {
		p, err := NewLLMProvider("ollama", "llama3", "http://localhost:11434", "")
		require.NoError(t, err)
		assert.NotNil(t, p)
	})

	t.Run("unknown provider is an error", func(t *testing.T) {
		_, err := NewLLMProvider("watson", "", "", "")
		assert.Error(t, err)
	})
}
