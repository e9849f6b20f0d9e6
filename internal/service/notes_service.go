package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"edu-chatbot-be/internal/constant"
	"edu-chatbot-be/internal/dto"
	"edu-chatbot-be/internal/entity"
	"edu-chatbot-be/internal/repository/specification"
	"edu-chatbot-be/internal/repository/unitofwork"
	"edu-chatbot-be/pkg/llm"

	"github.com/google/uuid"
)

type INotesService interface {
	GenerateStudyNotes(ctx context.Context, userId uuid.UUID, req *dto.GenerateStudyNotesRequest) (*dto.GenerateStudyNotesResponse, error)
}

type notesService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
}

func NewNotesService(uowFactory unitofwork.RepositoryFactory, llmProvider llm.LLMProvider) INotesService {
	return &notesService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
	}
}

func (s *notesService) GenerateStudyNotes(ctx context.Context, userId uuid.UUID, req *dto.GenerateStudyNotesRequest) (*dto.GenerateStudyNotesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: req.ConversationId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: req.ConversationId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	transcript := buildTranscript(messages)
	if transcript == "" {
		return nil, errors.New("conversation has no messages to summarize")
	}

	prompt := fmt.Sprintf(constant.StudyNotesPromptV1, transcript)
	notes, err := s.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.3))
	if err != nil {
		return nil, fmt.Errorf("failed to generate study notes: %w", err)
	}

	sourceName := "(no document)"
	if conversation.DocumentId != nil {
		if doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: *conversation.DocumentId}); err == nil && doc != nil {
			sourceName = doc.Filename
		}
	}

	header := fmt.Sprintf(
		"# Study Notes\n\nGenerated: %s\nSource document: %s\nQ/A pairs: %d\n\n---\n\n",
		time.Now().Format("2006-01-02 15:04"),
		sourceName,
		countQuestions(messages),
	)

	return &dto.GenerateStudyNotesResponse{
		ConversationId: req.ConversationId,
		Notes:          header + strings.TrimSpace(notes),
	}, nil
}

func countQuestions(messages []*entity.Message) int {
	n := 0
	for _, m := range messages {
		if m.Role == entity.MessageRoleUser {
			n++
		}
	}
	return n
}

func buildTranscript(messages []*entity.Message) string {
	var b strings.Builder
	for _, m := range messages {
		// Canned greetings carry no study value.
		if m.Role == entity.MessageRoleAssistant &&
			(m.Content == greetingMessage || strings.HasPrefix(m.Content, "Processed '")) {
			continue
		}
		switch m.Role {
		case entity.MessageRoleUser:
			b.WriteString("User: ")
		case entity.MessageRoleAssistant:
			b.WriteString("Assistant: ")
		}
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
