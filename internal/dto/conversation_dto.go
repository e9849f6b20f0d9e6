package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	DocumentId *uuid.UUID `json:"document_id"`
	Title      string     `json:"title"`
}

type CreateConversationResponse struct {
	Id       uuid.UUID       `json:"id"`
	Title    string          `json:"title"`
	Greeting *ChatMessageDTO `json:"greeting,omitempty"`
}

type ConversationSummaryResponse struct {
	Id           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	DocumentId   *uuid.UUID `json:"document_id,omitempty"`
	DocumentName string     `json:"document_name,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

type ConversationDetailResponse struct {
	Id         uuid.UUID         `json:"id"`
	Title      string            `json:"title"`
	DocumentId *uuid.UUID        `json:"document_id,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	Messages   []*ChatMessageDTO `json:"messages"`
}

type RenameConversationRequest struct {
	Title string `json:"title" validate:"required,min=1,max=100"`
}

type AttachDocumentRequest struct {
	DocumentId uuid.UUID `json:"document_id" validate:"required"`
}
