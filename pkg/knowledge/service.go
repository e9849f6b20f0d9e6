package knowledge

import (
	"context"
	"fmt"
	"strings"

	"edu-chatbot-be/internal/constant"
	"edu-chatbot-be/pkg/llm"
)

// lowValueTopics are detector outputs too generic to be worth a detour. A
// short answer containing one of these is treated the same as "None".
var lowValueTopics = []string{"basic", "fundamental", "introduction", "concept", "definition"}

// Service answers general-knowledge lookups through an LLM, independent of
// any uploaded document.
type Service struct {
	provider llm.LLMProvider
}

func NewService(provider llm.LLMProvider) *Service {
	return &Service{provider: provider}
}

// DetectPrerequisite asks the model whether the question builds on a topic
// the student should understand first. It returns "" when no prerequisite is
// warranted; the error is only for transport-level failures.
func (s *Service) DetectPrerequisite(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf(constant.DetectPrerequisitePromptV1, query)

	raw, err := s.provider.Generate(ctx, prompt, llm.WithTemperature(0.1))
	if err != nil {
		return "", err
	}

	topic := strings.TrimSpace(raw)
	// Some models prefix their answer despite the instructions.
	topic = strings.TrimSpace(strings.ReplaceAll(topic, "Prerequisite:", ""))

	if topic == "" || strings.EqualFold(topic, "none") {
		return "", nil
	}

	if isLowValue(topic) {
		return "", nil
	}

	return topic, nil
}

// isLowValue reports whether a short detector answer is a generic non-topic
// like "basic concept". Longer answers pass even if they contain a generic
// word, since they name something specific.
func isLowValue(topic string) bool {
	if len(strings.Fields(topic)) > 2 {
		return false
	}
	lowered := strings.ToLower(topic)
	for _, term := range lowValueTopics {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

// Explain produces a general-knowledge explanation of a topic, already
// wrapped for insertion ahead of the deferred document answer. It never
// fails: lookup errors degrade to a short notice so the conversation can
// continue.
func (s *Service) Explain(ctx context.Context, topic string) string {
	prompt := fmt.Sprintf(constant.ExplainPrerequisitePromptV1, topic, topic)

	explanation, err := s.provider.Generate(ctx, prompt, llm.WithTemperature(0.1))
	if err != nil {
		return fmt.Sprintf("Error explaining '%s'.", topic)
	}

	return fmt.Sprintf("*Prerequisite: %s*\n\n%s\n\n---\n\nNow, about your original question:", topic, explanation)
}
