package nats

import (
	"context"
	"fmt"

	"mathdoc-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

// Publisher sends document events to the NATS bus.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

var _ events.Publisher = (*Publisher)(nil)

// NewPublisher connects and makes sure the document stream exists. A stream
// setup failure is only logged; the stream may already exist or NATS may not
// be ready yet.
func NewPublisher(url string, log *zap.Logger) (*Publisher, error) {
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

	return &Publisher{nc: nc, js: js}, nil
}

// Publish sends an event to documents.<type>.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := encodeEvent(event)
	if err != nil {
		return err
	}

	subject := Subject(event.EventType())
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, err)
	}
	return nil
}

// Close closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
