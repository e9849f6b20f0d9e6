package service

import (
	"testing"

	"edu-chatbot-be/internal/entity"
	"edu-chatbot-be/pkg/dialog"

	"github.com/stretchr/testify/assert"
)

func TestAutoTitle(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     string
	}{
		{
			name:     "short question kept whole",
			question: "What is a derivative?",
			want:     "What is a derivative?",
		},
		{
			name:     "exactly thirty runes kept whole",
			question: "123456789012345678901234567890",
			want:     "123456789012345678901234567890",
		},
		{
			name:     "long question truncated with ellipsis",
			question: "Can you explain the chain rule with a worked example please?",
			want:     "Can you explain the chain rule...",
		},
		{
			name:     "multibyte runes counted as runes not bytes",
			question: "čo je derivácia a ako sa počíta v praxi presne?",
			want:     "čo je derivácia a ako sa počít...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, autoTitle(tt.question))
		})
	}
}

func TestFragmentsToEntity(t *testing.T) {
	frags := []dialog.Fragment{
		{Text: "first chunk", Page: 3},
		{Text: "second chunk", Page: 4},
	}

	got := fragmentsToEntity(frags)
	assert.Equal(t, []entity.MessageFragment{
		{Text: "first chunk", Page: 3},
		{Text: "second chunk", Page: 4},
	}, got)

	assert.Nil(t, fragmentsToEntity(nil))
}
