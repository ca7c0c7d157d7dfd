package nats

import (
	"context"
	"fmt"
	"sync"

	"mathdoc-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

// EventHandler is a function that processes an event.
type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber listens for document events through durable consumers.
type Subscriber struct {
	nc  *nats.Conn
	js  jetstream.JetStream
	log *zap.Logger

	mu       sync.Mutex
	consumes []jetstream.ConsumeContext
}

func NewSubscriber(url string, log *zap.Logger) (*Subscriber, error) {
	if log == nil {
		log = zap.NewNop()
	}
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	if err := ensureStream(js); err != nil {
		log.Warn("failed to ensure stream", zap.String("stream", StreamName), zap.Error(err))
	}
	return &Subscriber{nc: nc, js: js, log: log}, nil
}

// Subscribe registers handler for events of the given type. Handler errors
// nak the message so it is redelivered; undecodable messages are acked and
// dropped.
func (s *Subscriber) Subscribe(ctx context.Context, eventType, durableName string, handler EventHandler) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: Subject(eventType),
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		event, err := decodeEvent(msg.Subject(), msg.Data())
		if err != nil {
			s.log.Error("dropping malformed event", zap.String("subject", msg.Subject()), zap.Error(err))
			_ = msg.Ack()
			return
		}

		if err := handler(ctx, event); err != nil {
			s.log.Error("event handler failed", zap.String("subject", msg.Subject()), zap.Error(err))
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	s.mu.Lock()
	s.consumes = append(s.consumes, cc)
	s.mu.Unlock()

	s.log.Info("subscribed", zap.String("subject", Subject(eventType)), zap.String("durable", durableName))
	return nil
}

// Close stops all consumers and closes the connection.
func (s *Subscriber) Close() {
	s.mu.Lock()
	for _, cc := range s.consumes {
		cc.Stop()
	}
	s.consumes = nil
	s.mu.Unlock()

	if s.nc != nil {
		s.nc.Close()
	}
}
