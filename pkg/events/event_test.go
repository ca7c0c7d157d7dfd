package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	saved := NewRevisionSaved("doc-1", "rev-1", "hello", true)
	assert.Equal(t, RevisionSaved, saved.EventType())
	assert.Equal(t, "doc-1", StringField(saved, "document_id"))
	assert.Equal(t, true, saved.Payload()["published"])
	assert.WithinDuration(t, time.Now(), saved.Timestamp(), time.Second)

	deleted := NewDocumentDeleted("doc-2", "bye")
	assert.Equal(t, DocumentDeleted, deleted.EventType())
	assert.Equal(t, "bye", StringField(deleted, "handle"))

	done := NewExportCompleted("/tmp/out", 3, 1, 1500*time.Millisecond)
	assert.Equal(t, ExportCompleted, done.EventType())
	assert.Equal(t, int64(1500), done.Payload()["elapsed_ms"])
	assert.Equal(t, 3, done.Payload()["written"])
}

func TestStringField(t *testing.T) {
	e := BaseEvent{Data: map[string]interface{}{"n": 1, "s": "x"}}
	assert.Equal(t, "x", StringField(e, "s"))
	assert.Equal(t, "", StringField(e, "n"))
	assert.Equal(t, "", StringField(e, "missing"))
	assert.Equal(t, "", StringField(nil, "s"))
}
