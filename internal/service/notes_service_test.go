package service

import (
	"testing"

	"edu-chatbot-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestBuildTranscript(t *testing.T) {
	messages := []*entity.Message{
		{Role: entity.MessageRoleAssistant, Content: greetingMessage},
		{Role: entity.MessageRoleAssistant, Content: "Processed 'calculus.pdf'. Ask a question!"},
		{Role: entity.MessageRoleUser, Content: "What is a derivative?"},
		{Role: entity.MessageRoleAssistant, Content: "A derivative measures the rate of change."},
	}

	got := buildTranscript(messages)
	want := "User: What is a derivative?\nAssistant: A derivative measures the rate of change."
	assert.Equal(t, want, got)
}

func TestBuildTranscriptGreetingOnly(t *testing.T) {
	messages := []*entity.Message{
		{Role: entity.MessageRoleAssistant, Content: greetingMessage},
	}
	assert.Empty(t, buildTranscript(messages))
}
