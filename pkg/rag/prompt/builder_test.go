package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildContext(t *testing.T) {
	snippets := []Snippet{
		{Text: "The derivative measures rate of change.", Page: 3},
		{Text: "Limits are the foundation.", Page: 0},
	}

	got := BuildContext(snippets)

	assert.Contains(t, got, "[page 3] The derivative measures rate of change.")
	assert.Contains(t, got, "Limits are the foundation.")
	assert.NotContains(t, got, "[page 0]")
}

func TestBuildGroundedAnswer(t *testing.T) {
	got := BuildGroundedAnswer([]Snippet{{Text: "snippet", Page: 1}}, "What is a derivative?")

	assert.Contains(t, got, "[page 1] snippet")
	assert.Contains(t, got, "What is a derivative?")
	assert.Contains(t, got, "based STRICTLY on the provided text snippets")
}
