package nats

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mathdoc-be/pkg/events"
)

const (
	// StreamName is the JetStream stream holding document events.
	StreamName    = "DOCUMENTS"
	subjectPrefix = "documents."
)

// Subject returns the subject an event type is published on.
func Subject(eventType string) string {
	return subjectPrefix + eventType
}

type envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func encodeEvent(event events.Event) ([]byte, error) {
	data, err := json.Marshal(envelope{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return data, nil
}

// decodeEvent rebuilds an event. Messages without a type fall back to the
// subject suffix.
func decodeEvent(subject string, data []byte) (events.BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return events.BaseEvent{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if env.Type == "" {
		env.Type = strings.TrimPrefix(subject, subjectPrefix)
	}
	if env.OccurredAt.IsZero() {
		env.OccurredAt = time.Now()
	}
	if env.Data == nil {
		env.Data = map[string]interface{}{}
	}
	return events.BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}
