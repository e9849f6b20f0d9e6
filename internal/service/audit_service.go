package service

import (
	"context"

	"edu-chatbot-be/internal/pkg/logger"
	"edu-chatbot-be/pkg/events"
	pktNats "edu-chatbot-be/pkg/nats"
)

type IAuditService interface {
	Start() error
}

// auditService drains the durable event stream into the structured log so
// registrations, logins and document outcomes leave a persistent trail.
type auditService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewAuditService(subscriber *pktNats.Subscriber, log logger.ILogger) IAuditService {
	return &auditService{
		subscriber: subscriber,
		logger:     log,
	}
}

func (s *auditService) Start() error {
	return s.subscriber.Subscribe("events.>", "audit-log", func(ctx context.Context, event events.Event) error {
		s.logger.Info("Audit", event.EventType(), event.Payload())
		return nil
	})
}
