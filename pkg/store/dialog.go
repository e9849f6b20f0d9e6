package store

import (
	"context"

	"edu-chatbot-be/pkg/dialog"
)

// DialogState is the per-conversation controller state persisted between
// stateless HTTP requests.
type DialogState struct {
	ConversationID string          `json:"conversation_id"`
	UserID         string          `json:"user_id"`
	Snapshot       dialog.Snapshot `json:"snapshot"`
}

// DialogStateRepository stores dialog state keyed by conversation ID. Get
// returns (nil, nil) when no state is stored, which callers treat as a fresh
// controller.
type DialogStateRepository interface {
	Save(ctx context.Context, state *DialogState) error
	Get(ctx context.Context, conversationID string) (*DialogState, error)
	Delete(ctx context.Context, conversationID string) error
}
