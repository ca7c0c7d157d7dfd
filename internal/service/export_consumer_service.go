package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"mathdoc-be/internal/dto"
	"mathdoc-be/internal/pkg/logger"
	"mathdoc-be/internal/pkg/serverutils"

	"github.com/ThreeDotsLabs/watermill/message"
)

const maxExportAttempts = 3

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type exportConsumerService struct {
	subscriber    message.Subscriber
	topicName     string
	exportService IExportService
	log           logger.ILogger

	mu       sync.Mutex
	attempts map[string]int
}

func NewExportConsumerService(
	subscriber message.Subscriber,
	topicName string,
	exportService IExportService,
	log logger.ILogger,
) IConsumerService {
	return &exportConsumerService{
		subscriber:    subscriber,
		topicName:     topicName,
		exportService: exportService,
		log:           log,
		attempts:      make(map[string]int),
	}
}

func (cs *exportConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
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

func (cs *exportConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var job dto.ExportJobMessage
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		cs.log.Error("EXPORT", "Failed to unmarshal export job", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.UUID,
		})
		msg.Ack() // invalid payloads would be redelivered forever
		return
	}

	details := map[string]interface{}{
		"document_id": job.DocumentId.String(),
		"action":      job.Action,
		"message_id":  msg.UUID,
	}

	var err error
	switch job.Action {
	case dto.ExportActionRemove:
		_, err = cs.exportService.Remove(ctx, "", job.Handle)
	default:
		_, err = cs.exportService.ExportOne(ctx, "", job.DocumentId)
	}

	if err == nil {
		cs.forget(msg.UUID)
		cs.log.Info("EXPORT", "Export job done", details)
		msg.Ack()
		return
	}

	details["error"] = err.Error()
	if errors.Is(err, serverutils.ErrNotFound) {
		cs.forget(msg.UUID)
		cs.log.Warn("EXPORT", "Export job target is gone", details)
		msg.Ack()
		return
	}

	if attempt := cs.attempt(msg.UUID); attempt >= maxExportAttempts {
		cs.forget(msg.UUID)
		details["attempts"] = attempt
		cs.log.Error("EXPORT", "Export job failed permanently", details)
		msg.Ack()
		return
	}

	cs.log.Warn("EXPORT", "Export job failed, retrying", details)
	msg.Nack()
}

func (cs *exportConsumerService) attempt(id string) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.attempts[id]++
	return cs.attempts[id]
}

func (cs *exportConsumerService) forget(id string) {
	cs.mu.Lock()
	delete(cs.attempts, id)
	cs.mu.Unlock()
}
