package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendChatRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	Message        string    `json:"message" validate:"required"`
}

type FragmentDTO struct {
	Text string `json:"text"`
	Page int    `json:"page"`
}

type ChatMessageDTO struct {
	Id        uuid.UUID     `json:"id"`
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	Fragments []FragmentDTO `json:"fragments,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type SendChatResponse struct {
	ConversationId    uuid.UUID       `json:"conversation_id"`
	ConversationTitle string          `json:"title"`
	Sent              *ChatMessageDTO `json:"sent"`
	Reply             *ChatMessageDTO `json:"reply"`
	DialogState       string          `json:"dialog_state"`
}

type PrereqToggleRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	Enabled        *bool     `json:"enabled" validate:"required"`
}

type PrereqToggleResponse struct {
	Enabled bool `json:"enabled"`
	// Deferred is true when a prerequisite offer is pending and the new
	// setting only applies after the current cycle resolves.
	Deferred bool `json:"deferred"`
}
