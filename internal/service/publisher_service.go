package service

import (
	"context"
	"encoding/json"

	"mathdoc-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
	PublishExportJob(ctx context.Context, job dto.ExportJobMessage) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (p *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.publisher.Publish(p.topicName, msg)
}

func (p *publisherService) PublishExportJob(ctx context.Context, job dto.ExportJobMessage) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return p.Publish(ctx, payload)
}
