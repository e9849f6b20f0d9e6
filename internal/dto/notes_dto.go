package dto

import "github.com/google/uuid"

type GenerateStudyNotesRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
}

type GenerateStudyNotesResponse struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	Notes          string    `json:"notes"`
}
