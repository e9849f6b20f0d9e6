package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAffirmative(t *testing.T) {
	cases := []struct {
		name      string
		utterance string
		want      bool
	}{
		{"plain yes", "yes", true},
		{"single letter", "y", true},
		{"sure", "sure", true},
		{"ok", "ok", true},
		{"okay with punctuation", "okay!", true},
		{"explain", "explain", true},
		{"please", "please", true},
		{"uppercase", "YES", true},
		{"embedded token", "ok then", true},
		{"token inside sentence", "yes, go ahead", true},
		{"substring of larger word", "okayish", true},
		{"skip", "skip", false},
		{"no", "no", false},
		{"definitely is not affirmative", "definitely", false},
		{"empty", "", false},
		{"garbage", "asdfgh", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsAffirmative(tc.utterance))
		})
	}
}

func TestIsRawTextRequest(t *testing.T) {
	cases := []struct {
		name     string
		question string
		want     bool
	}{
		{"exact text", "show me the exact text about limits", true},
		{"verbatim", "give me the section VERBATIM", true},
		{"raw text", "what is the raw text of chapter 2", true},
		{"ordinary question", "what is a derivative?", false},
		{"near miss", "give me the exact answer", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRawTextRequest(tc.question))
		})
	}
}

func TestFormatRawFragments(t *testing.T) {
	t.Run("no fragments", func(t *testing.T) {
		assert.Equal(t, "Relevant section not found.", FormatRawFragments(nil))
	})

	t.Run("pages deduplicated and sorted", func(t *testing.T) {
		got := FormatRawFragments([]Fragment{
			{Text: "chunk one", Page: 5},
			{Text: "chunk two", Page: 2},
			{Text: "chunk three", Page: 2},
		})
		want := "Relevant text:\n\n---\nchunk one\n\nchunk two\n\nchunk three\n---\n\nFound on page(s): 2, 5"
		assert.Equal(t, want, got)
	})

	t.Run("no page metadata", func(t *testing.T) {
		got := FormatRawFragments([]Fragment{{Text: "orphan chunk"}})
		want := "Relevant text:\n\n---\norphan chunk\n---\n\nPage info unavailable."
		assert.Equal(t, want, got)
	})
}
