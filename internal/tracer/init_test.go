package tracer

import (
	"context"
	"testing"

	"mathdoc-be/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestInitTracer_Disabled(t *testing.T) {
	shutdown := InitTracer(config.TracingConfig{Enabled: false}, "test")
	assert.NoError(t, shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(2).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, sampler(0.5).Description(), "TraceIDRatioBased{0.5}")
}
