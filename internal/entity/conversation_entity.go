package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

type Conversation struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	DocumentId *uuid.UUID
	Title      string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}

// MessageFragment is a citation attached to an assistant message: the chunk
// text that grounded the answer and the page it came from.
type MessageFragment struct {
	Text string `json:"text"`
	Page int    `json:"page"`
}

type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Role           MessageRole
	Content        string
	Fragments      []MessageFragment
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
