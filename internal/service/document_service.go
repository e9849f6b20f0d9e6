package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"edu-chatbot-be/internal/dto"
	"edu-chatbot-be/internal/entity"
	"edu-chatbot-be/internal/repository/specification"
	"edu-chatbot-be/internal/repository/unitofwork"
	pdfextract "edu-chatbot-be/pkg/pdf"
	"edu-chatbot-be/pkg/utils"

	"github.com/google/uuid"
)

var ErrNotPDF = errors.New("only PDF files are supported")

type IDocumentService interface {
	Upload(ctx context.Context, userId uuid.UUID, filename string, file io.ReaderAt, size int64) (*dto.UploadDocumentResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error)
	GetActive(ctx context.Context, userId uuid.UUID) (*dto.DocumentResponse, error)
	GetById(ctx context.Context, userId, documentId uuid.UUID) (*dto.DocumentResponse, error)
	Delete(ctx context.Context, userId, documentId uuid.UUID) error
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

func (s *documentService) Upload(ctx context.Context, userId uuid.UUID, filename string, file io.ReaderAt, size int64) (*dto.UploadDocumentResponse, error) {
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return nil, ErrNotPDF
	}

	// Text extraction happens at upload time; chunking and embedding are
	// deferred to the consumer.
	pages, err := pdfextract.ExtractPages(file, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	if !pdfextract.HasText(pages) {
		return nil, errors.New("no extractable text in document")
	}

	doc := &entity.Document{
		Id:        uuid.New(),
		UserId:    userId,
		Filename:  filename,
		Status:    entity.DocumentStatusProcessing,
		PageCount: len(pages),
		CreatedAt: time.Now(),
	}

	// A new document starts a fresh conversation; prior conversations keep
	// their own document bindings.
	conversation := &entity.Conversation{
		Id:         uuid.New(),
		UserId:     userId,
		DocumentId: &doc.Id,
		Title:      DefaultConversationTitle,
		CreatedAt:  time.Now(),
	}
	greeting := &entity.Message{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           entity.MessageRoleAssistant,
		Content:        fmt.Sprintf("Processed '%s'. Ask a question!", filename),
		CreatedAt:      time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		return nil, err
	}
	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}
	if err := uow.MessageRepository().Create(ctx, greeting); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	msgPayload := dto.ProcessDocumentMessage{
		DocumentId: doc.Id,
		UserId:     userId,
		Pages:      pagesToDTO(pages),
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, fmt.Errorf("failed to queue document for processing: %w", err)
	}

	return &dto.UploadDocumentResponse{
		Id:             doc.Id,
		Filename:       doc.Filename,
		Status:         string(doc.Status),
		ConversationId: conversation.Id,
	}, nil
}

// GetActive returns the most recently uploaded document, the one a new
// conversation binds to by default.
func (s *documentService) GetActive(ctx context.Context, userId uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("no document uploaded yet")
	}
	return toDocumentResponse(doc), nil
}

func pagesToDTO(pages []utils.PageText) []dto.PageTextDTO {
	out := make([]dto.PageTextDTO, len(pages))
	for i, p := range pages {
		out[i] = dto.PageTextDTO{Page: p.Page, Text: p.Text}
	}
	return out
}

func (s *documentService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.DocumentResponse, len(docs))
	for i, d := range docs {
		out[i] = toDocumentResponse(d)
	}
	return out, nil
}

func (s *documentService) GetById(ctx context.Context, userId, documentId uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("document not found")
	}
	return toDocumentResponse(doc), nil
}

func (s *documentService) Delete(ctx context.Context, userId, documentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
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

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, documentId); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, documentId); err != nil {
		return err
	}

	return uow.Commit()
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:            d.Id,
		Filename:      d.Filename,
		Status:        string(d.Status),
		FailureReason: d.FailureReason,
		PageCount:     d.PageCount,
		ChunkCount:    d.ChunkCount,
		CreatedAt:     d.CreatedAt,
	}
}
