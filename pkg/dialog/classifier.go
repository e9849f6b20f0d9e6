package dialog

import "strings"

// affirmativeTokens is the fixed token set a pending-prerequisite reply is
// matched against. Matching is a substring check on the whole lowered
// utterance, not a token match: "ok then" is affirmative because it contains
// "ok", while "definitely" is not because none of the tokens appear in it.
var affirmativeTokens = []string{"yes", "y", "sure", "ok", "okay", "explain", "please"}

// IsAffirmative classifies a reply to an outstanding prerequisite question.
// Anything that is not affirmative is treated as a skip, garbage included.
func IsAffirmative(utterance string) bool {
	lowered := strings.ToLower(utterance)
	for _, token := range affirmativeTokens {
		if strings.Contains(lowered, token) {
			return true
		}
	}
	return false
}

// rawRequestMarkers trigger the verbatim-fragment override when present in
// the original question text.
var rawRequestMarkers = []string{"exact text", "verbatim", "raw text"}

// IsRawTextRequest reports whether the question asks for the document text
// itself rather than a narrative answer.
func IsRawTextRequest(question string) bool {
	lowered := strings.ToLower(question)
	for _, marker := range rawRequestMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
