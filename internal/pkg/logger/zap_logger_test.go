package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromZap_WritesModuleAndDetails(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	l.Info("export", "page written", map[string]interface{}{"handle": "intro"})
	l.Warn("export", "no details", nil)

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "page written", entries[0].Message)
		fields := entries[0].ContextMap()
		assert.Equal(t, "export", fields["module"])
		assert.Equal(t, map[string]interface{}{"handle": "intro"}, fields["details"])
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	}
}

func TestFromZap_ErrorRef(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	l.Error("export", "failed", map[string]interface{}{"error": "boom"})

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "boom", fields["error_ref"])
}

func TestNopLogger(t *testing.T) {
	var l ILogger = NewNopLogger()
	l.Debug("m", "x", nil)
	assert.NoError(t, l.Sync())
}
