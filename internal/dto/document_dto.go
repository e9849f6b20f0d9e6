package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadDocumentResponse struct {
	Id       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	Status   string    `json:"status"`
	// ConversationId is the fresh conversation started for this document.
	ConversationId uuid.UUID `json:"conversation_id"`
}

type DocumentResponse struct {
	Id            uuid.UUID `json:"id"`
	Filename      string    `json:"filename"`
	Status        string    `json:"status"`
	FailureReason *string   `json:"failure_reason,omitempty"`
	PageCount     int       `json:"page_count"`
	ChunkCount    int       `json:"chunk_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type PageTextDTO struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// ProcessDocumentMessage is the watermill payload handed from the upload
// handler to the ingestion consumer. Page text is extracted at upload time
// and carried in the message so the consumer never touches the raw file.
type ProcessDocumentMessage struct {
	DocumentId uuid.UUID     `json:"document_id"`
	UserId     uuid.UUID     `json:"user_id"`
	Pages      []PageTextDTO `json:"pages"`
}
