package prompt

import (
	"fmt"
	"strings"

	"edu-chatbot-be/internal/constant"
)

// Snippet is one retrieved piece of document context.
type Snippet struct {
	Text string
	Page int // 1-indexed, 0 when unknown
}

// BuildContext joins retrieved snippets into the context block fed to the
// grounded-answer prompt. Page markers help the model cite locations.
func BuildContext(snippets []Snippet) string {
	var b strings.Builder
	for i, s := range snippets {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if s.Page > 0 {
			b.WriteString(fmt.Sprintf("[page %d] ", s.Page))
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// BuildGroundedAnswer renders the full answering prompt for a question and
// its retrieved context.
func BuildGroundedAnswer(snippets []Snippet, question string) string {
	return fmt.Sprintf(constant.GroundedAnswerPromptV1, BuildContext(snippets), question)
}
