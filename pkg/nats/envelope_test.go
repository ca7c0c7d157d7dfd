package nats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mathdoc-be/pkg/events"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "documents.REVISION_SAVED", Subject(events.RevisionSaved))
}

func TestEnvelopeRoundTrip(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	in := events.BaseEvent{
		Type:       events.RevisionSaved,
		Data:       map[string]interface{}{"document_id": "abc"},
		OccurredAt: at,
	}

	data, err := encodeEvent(in)
	require.NoError(t, err)

	out, err := decodeEvent("documents.ignored", data)
	require.NoError(t, err)
	assert.Equal(t, events.RevisionSaved, out.Type)
	assert.Equal(t, "abc", events.StringField(out, "document_id"))
	assert.True(t, at.Equal(out.OccurredAt))
}

func TestDecodeEvent_LegacyPayload(t *testing.T) {
	out, err := decodeEvent("documents.DOCUMENT_DELETED", []byte(`{"data":null}`))
	require.NoError(t, err)
	assert.Equal(t, events.DocumentDeleted, out.Type)
	assert.NotNil(t, out.Data)
	assert.False(t, out.OccurredAt.IsZero())

	_, err = decodeEvent("documents.X", []byte(`not json`))
	assert.Error(t, err)
}
