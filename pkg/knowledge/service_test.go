package knowledge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"edu-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedLLM struct {
	response string
	err      error
	prompts  []string
}

func (s *scriptedLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	if len(history) > 0 {
		s.prompts = append(s.prompts, history[len(history)-1].Content)
	}
	return s.response, s.err
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func TestDetectPrerequisite(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     string
	}{
		{"plain topic", "limits", "limits"},
		{"topic with whitespace", "  linear equations \n", "linear equations"},
		{"prefixed despite instructions", "Prerequisite: cellular respiration", "cellular respiration"},
		{"none", "None", ""},
		{"lowercase none", "none", ""},
		{"prefixed none", "Prerequisite: None", ""},
		{"empty", "", ""},
		{"low value short answer", "basic concept", ""},
		{"low value single word", "definition", ""},
		{"generic word inside specific topic passes", "fundamental theorem of calculus", "fundamental theorem of calculus"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(&scriptedLLM{response: tc.response})
			got, err := svc.DetectPrerequisite(context.Background(), "What is a derivative?")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDetectPrerequisite_PropagatesProviderError(t *testing.T) {
	svc := NewService(&scriptedLLM{err: errors.New("timeout")})
	got, err := svc.DetectPrerequisite(context.Background(), "What is a derivative?")
	assert.Error(t, err)
	assert.Empty(t, got)
}

func TestExplain(t *testing.T) {
	t.Run("wraps explanation", func(t *testing.T) {
		svc := NewService(&scriptedLLM{response: "A limit describes the value a function approaches."})
		got := svc.Explain(context.Background(), "limits")

		assert.True(t, strings.HasPrefix(got, "*Prerequisite: limits*\n\n"))
		assert.Contains(t, got, "A limit describes the value a function approaches.")
		assert.True(t, strings.HasSuffix(got, "\n\n---\n\nNow, about your original question:"))
	})

	t.Run("degrades on failure", func(t *testing.T) {
		svc := NewService(&scriptedLLM{err: errors.New("timeout")})
		got := svc.Explain(context.Background(), "limits")
		assert.Equal(t, "Error explaining 'limits'.", got)
	})
}
