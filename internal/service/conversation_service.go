package service

import (
	"context"
	"errors"
	"time"

	"edu-chatbot-be/internal/dto"
	"edu-chatbot-be/internal/entity"
	"edu-chatbot-be/internal/repository/specification"
	"edu-chatbot-be/internal/repository/unitofwork"
	"edu-chatbot-be/pkg/store"

	"github.com/google/uuid"
)

const (
	DefaultConversationTitle = "New Conversation"

	greetingMessage = "Hello! How can I help you today?"
)

type IConversationService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationSummaryResponse, error)
	GetById(ctx context.Context, userId, conversationId uuid.UUID) (*dto.ConversationDetailResponse, error)
	Rename(ctx context.Context, userId, conversationId uuid.UUID, title string) error
	Delete(ctx context.Context, userId, conversationId uuid.UUID) error
	AttachDocument(ctx context.Context, userId, conversationId, documentId uuid.UUID) error
}

type conversationService struct {
	uowFactory   unitofwork.RepositoryFactory
	dialogStates store.DialogStateRepository
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory, dialogStates store.DialogStateRepository) IConversationService {
	return &conversationService{
		uowFactory:   uowFactory,
		dialogStates: dialogStates,
	}
}

func (s *conversationService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if req.DocumentId != nil {
		doc, err := uow.DocumentRepository().FindOne(ctx,
			specification.ByID{ID: *req.DocumentId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, errors.New("document not found")
		}
	}

	title := req.Title
	if title == "" {
		title = DefaultConversationTitle
	}

	conversation := &entity.Conversation{
		Id:         uuid.New(),
		UserId:     userId,
		DocumentId: req.DocumentId,
		Title:      title,
		CreatedAt:  time.Now(),
	}

	greeting := &entity.Message{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           entity.MessageRoleAssistant,
		Content:        greetingMessage,
		CreatedAt:      time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}
	if err := uow.MessageRepository().Create(ctx, greeting); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateConversationResponse{
		Id:       conversation.Id,
		Title:    conversation.Title,
		Greeting: toChatMessageDTO(greeting),
	}, nil
}

func (s *conversationService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	// One lookup resolves every referenced document name.
	var docIds []uuid.UUID
	seen := map[uuid.UUID]struct{}{}
	for _, c := range conversations {
		if c.DocumentId == nil {
			continue
		}
		if _, ok := seen[*c.DocumentId]; ok {
			continue
		}
		seen[*c.DocumentId] = struct{}{}
		docIds = append(docIds, *c.DocumentId)
	}

	docNames := map[uuid.UUID]string{}
	if len(docIds) > 0 {
		docs, err := uow.DocumentRepository().FindAll(ctx, specification.ByIDs{IDs: docIds})
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			docNames[d.Id] = d.Filename
		}
	}

	out := make([]*dto.ConversationSummaryResponse, len(conversations))
	for i, c := range conversations {
		summary := &dto.ConversationSummaryResponse{
			Id:         c.Id,
			Title:      c.Title,
			DocumentId: c.DocumentId,
			CreatedAt:  c.CreatedAt,
			UpdatedAt:  c.UpdatedAt,
		}
		if c.DocumentId != nil {
			summary.DocumentName = docNames[*c.DocumentId]
		}
		out[i] = summary
	}
	return out, nil
}

func (s *conversationService) GetById(ctx context.Context, userId, conversationId uuid.UUID) (*dto.ConversationDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := s.findOwned(ctx, uow, userId, conversationId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	msgDTOs := make([]*dto.ChatMessageDTO, len(messages))
	for i, m := range messages {
		msgDTOs[i] = toChatMessageDTO(m)
	}

	return &dto.ConversationDetailResponse{
		Id:         conversation.Id,
		Title:      conversation.Title,
		DocumentId: conversation.DocumentId,
		CreatedAt:  conversation.CreatedAt,
		Messages:   msgDTOs,
	}, nil
}

func (s *conversationService) Rename(ctx context.Context, userId, conversationId uuid.UUID, title string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := s.findOwned(ctx, uow, userId, conversationId)
	if err != nil {
		return err
	}

	conversation.Title = title
	return uow.ConversationRepository().Update(ctx, conversation)
}

func (s *conversationService) Delete(ctx context.Context, userId, conversationId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findOwned(ctx, uow, userId, conversationId); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().DeleteByConversationId(ctx, conversationId); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Delete(ctx, conversationId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	return s.dialogStates.Delete(ctx, conversationId.String())
}

// AttachDocument binds (or replaces) the conversation's document. Any pending
// dialog state belongs to the old document, so it is discarded.
func (s *conversationService) AttachDocument(ctx context.Context, userId, conversationId, documentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := s.findOwned(ctx, uow, userId, conversationId)
	if err != nil {
		return err
	}

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if doc == nil {
		return errors.New("document not found")
	}

	conversation.DocumentId = &documentId
	if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
		return err
	}

	return s.dialogStates.Delete(ctx, conversationId.String())
}

func (s *conversationService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, conversationId uuid.UUID) (*entity.Conversation, error) {
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}
	return conversation, nil
}
