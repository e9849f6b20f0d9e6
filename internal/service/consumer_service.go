package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"edu-chatbot-be/internal/dto"
	"edu-chatbot-be/internal/entity"
	"edu-chatbot-be/internal/repository/specification"
	"edu-chatbot-be/internal/repository/unitofwork"
	"edu-chatbot-be/internal/websocket"
	"edu-chatbot-be/pkg/embedding"
	"edu-chatbot-be/pkg/events"
	pktNats "edu-chatbot-be/pkg/nats"
	"edu-chatbot-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const (
	// Chunking mirrors the retrieval window: small chunks with half overlap
	// keep page attribution tight.
	chunkSize    = 300
	chunkOverlap = 150
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	wsHub             *websocket.Hub
	eventPublisher    *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	wsHub *websocket.Hub,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		wsHub:             wsHub,
		eventPublisher:    eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ProcessDocumentMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing document %s", payload.DocumentId)
	cs.notify(payload.UserId, websocket.EventDocumentProcessing, payload.DocumentId, nil)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to get document %s: %v", payload.DocumentId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if doc == nil {
		log.Printf("[ERROR] Document not found: %s", payload.DocumentId)
		msg.Ack() // Document deleted? Ack.
		return
	}

	pages := make([]utils.PageText, len(payload.Pages))
	for i, p := range payload.Pages {
		pages[i] = utils.PageText{Page: p.Page, Text: p.Text}
	}

	chunks := utils.SplitPages(pages, chunkSize, chunkOverlap)
	log.Printf("[INFO] Document %s split into %d chunks", payload.DocumentId, len(chunks))

	if len(chunks) == 0 {
		cs.markFailed(ctx, uow, payload, "no extractable text in document")
		msg.Ack()
		return
	}

	var newChunks []*entity.DocumentChunk
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk.Text, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of document %s: %v", i, payload.DocumentId, err)
			cs.markFailed(ctx, uow, payload, "embedding generation failed")
			msg.Nack()
			return
		}

		newChunks = append(newChunks, &entity.DocumentChunk{
			Id:             uuid.New(),
			DocumentId:     doc.Id,
			Content:        chunk.Text,
			Page:           chunk.Page,
			ChunkIndex:     i,
			EmbeddingValue: res.Embedding.Values,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// Re-uploads replace prior chunks wholesale.
	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old chunks: %v", err)
		msg.Nack()
		return
	}

	if err := uow.DocumentChunkRepository().CreateBulk(ctx, newChunks); err != nil {
		log.Printf("[ERROR] Failed to create bulk chunks: %v", err)
		msg.Nack()
		return
	}

	doc.Status = entity.DocumentStatusReady
	doc.ChunkCount = len(newChunks)
	doc.FailureReason = nil
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		log.Printf("[ERROR] Failed to update document status: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Document processed: %d chunks for %s", len(newChunks), payload.DocumentId)
	cs.notify(payload.UserId, websocket.EventDocumentReady, payload.DocumentId, map[string]interface{}{
		"chunk_count": len(newChunks),
	})
	cs.publishEvent(ctx, events.TypeDocumentProcessed, payload, nil)
	msg.Ack()
}

func (cs *consumerService) markFailed(ctx context.Context, uow unitofwork.UnitOfWork, payload dto.ProcessDocumentMessage, reason string) {
	if err := uow.DocumentRepository().UpdateStatus(ctx, payload.DocumentId, entity.DocumentStatusFailed, &reason); err != nil {
		log.Printf("[ERROR] Failed to mark document %s failed: %v", payload.DocumentId, err)
	}
	cs.notify(payload.UserId, websocket.EventDocumentFailed, payload.DocumentId, map[string]interface{}{
		"reason": reason,
	})
	cs.publishEvent(ctx, events.TypeDocumentFailed, payload, &reason)
}

func (cs *consumerService) notify(userId uuid.UUID, eventType string, documentId uuid.UUID, extra map[string]interface{}) {
	if cs.wsHub == nil {
		return
	}
	data := map[string]interface{}{"document_id": documentId}
	for k, v := range extra {
		data[k] = v
	}
	cs.wsHub.Send(userId, websocket.Event{Type: eventType, Data: data})
}

func (cs *consumerService) publishEvent(ctx context.Context, eventType string, payload dto.ProcessDocumentMessage, reason *string) {
	if cs.eventPublisher == nil {
		return
	}
	data := map[string]interface{}{
		"document_id": payload.DocumentId,
		"user_id":     payload.UserId,
	}
	if reason != nil {
		data["reason"] = *reason
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish %s event: %v", eventType, err)
	}
}
