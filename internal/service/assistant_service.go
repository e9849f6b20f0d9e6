package service

import (
	"context"
	"errors"
	"time"

	"edu-chatbot-be/internal/dto"
	"edu-chatbot-be/internal/entity"
	"edu-chatbot-be/internal/pkg/logger"
	"edu-chatbot-be/internal/repository/specification"
	"edu-chatbot-be/internal/repository/unitofwork"
	"edu-chatbot-be/pkg/dialog"
	"edu-chatbot-be/pkg/embedding"
	"edu-chatbot-be/pkg/knowledge"
	"edu-chatbot-be/pkg/llm"
	"edu-chatbot-be/pkg/rag"
	"edu-chatbot-be/pkg/store"

	"github.com/google/uuid"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrDocumentNotReady covers both "no document attached" and "document
	// still processing". The turn is rejected before anything is persisted.
	ErrDocumentNotReady = errors.New("no ready document for this conversation; upload a PDF document first")
)

type IAssistantService interface {
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	SetPrereqToggle(ctx context.Context, userId uuid.UUID, req *dto.PrereqToggleRequest) (*dto.PrereqToggleResponse, error)
}

type assistantService struct {
	uowFactory        unitofwork.RepositoryFactory
	dialogStates      store.DialogStateRepository
	embeddingProvider embedding.EmbeddingProvider
	llmProvider       llm.LLMProvider
	knowledgeService  *knowledge.Service
	logger            logger.ILogger
}

func NewAssistantService(
	uowFactory unitofwork.RepositoryFactory,
	dialogStates store.DialogStateRepository,
	embeddingProvider embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	knowledgeService *knowledge.Service,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		uowFactory:        uowFactory,
		dialogStates:      dialogStates,
		embeddingProvider: embeddingProvider,
		llmProvider:       llmProvider,
		knowledgeService:  knowledgeService,
		logger:            log,
	}
}

// chunkRetriever adapts the chunk repository to the retrieval interface,
// scoped to a single document.
type chunkRetriever struct {
	uowFactory unitofwork.RepositoryFactory
	documentId uuid.UUID
}

func (r *chunkRetriever) Search(ctx context.Context, vector []float32, limit int) ([]rag.Chunk, error) {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	chunks, err := uow.DocumentChunkRepository().SearchSimilar(ctx, vector, limit, r.documentId)
	if err != nil {
		return nil, err
	}
	out := make([]rag.Chunk, len(chunks))
	for i, c := range chunks {
		out[i] = rag.Chunk{Text: c.Content, Page: c.Page}
	}
	return out, nil
}

func (s *assistantService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
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

	// The turn is rejected up front when no ready document backs the
	// conversation; nothing is persisted in that case.
	if conversation.DocumentId == nil {
		return nil, ErrDocumentNotReady
	}
	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: *conversation.DocumentId})
	if err != nil {
		return nil, err
	}
	if document == nil || document.Status != entity.DocumentStatusReady {
		return nil, ErrDocumentNotReady
	}

	ctrl, err := s.loadController(ctx, conversation.Id)
	if err != nil {
		return nil, err
	}
	answerer := rag.NewAnswerer(
		s.embeddingProvider,
		&chunkRetriever{uowFactory: s.uowFactory, documentId: document.Id},
		s.llmProvider,
	)
	ctrl.BindAnswerer(answerer)

	turn, err := ctrl.HandleUtterance(ctx, req.Message)
	if err != nil {
		return nil, err
	}
	// A degraded turn still produced a user-facing reply; the cause only
	// goes to the log.
	if cause := ctrl.LastFailure(); cause != nil {
		s.logger.Error("AssistantService", "Answer generation failed, degraded reply sent", map[string]interface{}{
			"conversation_id": conversation.Id.String(),
			"error":           cause.Error(),
		})
	}

	entities := make([]*entity.Message, len(turn))
	for i, m := range turn {
		entities[i] = &entity.Message{
			Id:             uuid.New(),
			ConversationId: conversation.Id,
			Role:           entity.MessageRole(m.Role),
			Content:        m.Content,
			Fragments:      fragmentsToEntity(m.Fragments),
			CreatedAt:      time.Now(),
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().CreateBulk(ctx, entities); err != nil {
		return nil, err
	}

	// The first question names the conversation.
	if conversation.Title == DefaultConversationTitle {
		conversation.Title = autoTitle(req.Message)
		if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
			return nil, err
		}
	} else if err := uow.ConversationRepository().Touch(ctx, conversation.Id); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if err := s.saveController(ctx, userId, conversation.Id, ctrl); err != nil {
		return nil, err
	}

	return &dto.SendChatResponse{
		ConversationId:    conversation.Id,
		ConversationTitle: conversation.Title,
		Sent:              toChatMessageDTO(entities[0]),
		Reply:             toChatMessageDTO(entities[1]),
		DialogState:       ctrl.State().String(),
	}, nil
}

func (s *assistantService) SetPrereqToggle(ctx context.Context, userId uuid.UUID, req *dto.PrereqToggleRequest) (*dto.PrereqToggleResponse, error) {
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

	ctrl, err := s.loadController(ctx, conversation.Id)
	if err != nil {
		return nil, err
	}

	enabled := *req.Enabled
	ctrl.SetPrereqToggle(enabled)
	deferred := ctrl.State() == dialog.StateAwaitingPrereq

	if err := s.saveController(ctx, userId, conversation.Id, ctrl); err != nil {
		return nil, err
	}

	return &dto.PrereqToggleResponse{Enabled: enabled, Deferred: deferred}, nil
}

func (s *assistantService) loadController(ctx context.Context, conversationId uuid.UUID) (*dialog.Controller, error) {
	ctrl := dialog.NewController(nil, s.knowledgeService)
	state, err := s.dialogStates.Get(ctx, conversationId.String())
	if err != nil {
		return nil, err
	}
	if state != nil {
		ctrl.Restore(state.Snapshot)
	}
	return ctrl, nil
}

func (s *assistantService) saveController(ctx context.Context, userId, conversationId uuid.UUID, ctrl *dialog.Controller) error {
	return s.dialogStates.Save(ctx, &store.DialogState{
		ConversationID: conversationId.String(),
		UserID:         userId.String(),
		Snapshot:       ctrl.Snapshot(),
	})
}

func fragmentsToEntity(frags []dialog.Fragment) []entity.MessageFragment {
	if len(frags) == 0 {
		return nil
	}
	out := make([]entity.MessageFragment, len(frags))
	for i, f := range frags {
		out[i] = entity.MessageFragment{Text: f.Text, Page: f.Page}
	}
	return out
}

func toChatMessageDTO(m *entity.Message) *dto.ChatMessageDTO {
	var frags []dto.FragmentDTO
	for _, f := range m.Fragments {
		frags = append(frags, dto.FragmentDTO{Text: f.Text, Page: f.Page})
	}
	return &dto.ChatMessageDTO{
		Id:        m.Id,
		Role:      string(m.Role),
		Content:   m.Content,
		Fragments: frags,
		CreatedAt: m.CreatedAt,
	}
}

// autoTitle derives a conversation title from the first question.
func autoTitle(question string) string {
	if runes := []rune(question); len(runes) > 30 {
		return string(runes[:30]) + "..."
	}
	return question
}
