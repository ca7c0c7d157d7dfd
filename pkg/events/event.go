package events

import (
	"context"
	"time"
)

// Event types emitted on the bus.
const (
	RevisionSaved   = "REVISION_SAVED"
	DocumentDeleted = "DOCUMENT_DELETED"
	ExportCompleted = "EXPORT_COMPLETED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "REVISION_SAVED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher sends events to the bus. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewRevisionSaved(documentId, revisionId, handle string, published bool) BaseEvent {
	return BaseEvent{
		Type: RevisionSaved,
		Data: map[string]interface{}{
			"document_id": documentId,
			"revision_id": revisionId,
			"handle":      handle,
			"published":   published,
		},
		OccurredAt: time.Now(),
	}
}

func NewDocumentDeleted(documentId, handle string) BaseEvent {
	return BaseEvent{
		Type: DocumentDeleted,
		Data: map[string]interface{}{
			"document_id": documentId,
			"handle":      handle,
		},
		OccurredAt: time.Now(),
	}
}

func NewExportCompleted(root string, written, failed int, elapsed time.Duration) BaseEvent {
	return BaseEvent{
		Type: ExportCompleted,
		Data: map[string]interface{}{
			"root":       root,
			"written":    written,
			"failed":     failed,
			"elapsed_ms": elapsed.Milliseconds(),
		},
		OccurredAt: time.Now(),
	}
}

// StringField reads a string value from an event payload.
func StringField(e Event, key string) string {
	if e == nil {
		return ""
	}
	v, _ := e.Payload()[key].(string)
	return v
}
