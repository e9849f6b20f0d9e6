package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitText(t *testing.T) {
	t.Run("short text stays whole", func(t *testing.T) {
		chunks := SplitText("tiny", 300, 150)
		assert.Equal(t, []string{"tiny"}, chunks)
	})

	t.Run("overlap repeats boundary text", func(t *testing.T) {
		text := strings.Repeat("a", 250) + strings.Repeat("b", 250)
		chunks := SplitText(text, 300, 150)

		assert.True(t, len(chunks) >= 2)
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 300)
		}
		// With step 150, the second chunk starts at offset 150 and must
		// re-include the last 150 chars of the first.
		assert.Equal(t, chunks[0][150:], chunks[1][:150])
	})

	t.Run("overlap larger than chunk falls back to full step", func(t *testing.T) {
		text := strings.Repeat("x", 1000)
		chunks := SplitText(text, 100, 100)
		assert.Equal(t, 10, len(chunks))
	})
}

func TestSplitPages(t *testing.T) {
	pages := []PageText{
		{Page: 1, Text: strings.Repeat("a", 500)},
		{Page: 2, Text: ""},
		{Page: 3, Text: "short"},
	}

	chunks := SplitPages(pages, 300, 150)

	assert.True(t, len(chunks) >= 3)
	for _, c := range chunks[:len(chunks)-1] {
		if c.Page == 1 {
			assert.Contains(t, c.Text, "a")
		}
	}
	last := chunks[len(chunks)-1]
	assert.Equal(t, 3, last.Page)
	assert.Equal(t, "short", last.Text)

	for _, c := range chunks {
		assert.NotEqual(t, 2, c.Page, "empty pages produce no chunks")
	}
}
