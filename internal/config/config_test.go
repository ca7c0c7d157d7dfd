package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"RENDER_MAX_DEPTH", "RENDER_CACHE_TTL_SECONDS", "EXPORT_WORKERS", "EXPORT_MINIFY", "EXPORT_ROOT"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, 128, cfg.Render.MaxDepth)
	assert.Equal(t, 10*time.Minute, cfg.Render.CacheTTL)
	assert.Equal(t, 4, cfg.Export.Workers)
	assert.False(t, cfg.Export.Minify)
}

func TestFromEnv_Tracing(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SAMPLE_RATIO", "0.25")

	cfg := FromEnv()
	assert.True(t, cfg.Tracing.Enabled)
	assert.InDelta(t, 0.25, cfg.Tracing.SampleRatio, 1e-9)

	t.Setenv("OTEL_SAMPLE_RATIO", "lots")
	assert.InDelta(t, 1.0, FromEnv().Tracing.SampleRatio, 1e-9)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("RENDER_MAX_DEPTH", "32")
	t.Setenv("RENDER_CACHE_TTL_SECONDS", "5")
	t.Setenv("RENDER_CACHE_ENABLED", "false")
	t.Setenv("EXPORT_ROOT", "/srv/site")
	t.Setenv("EXPORT_WORKERS", "not-a-number")
	t.Setenv("EXPORT_MINIFY", "1")

	cfg := FromEnv()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 32, cfg.Render.MaxDepth)
	assert.Equal(t, 5*time.Second, cfg.Render.CacheTTL)
	assert.False(t, cfg.Render.CacheEnabled)
	assert.Equal(t, "/srv/site", cfg.Export.Root)
	assert.Equal(t, 4, cfg.Export.Workers)
	assert.True(t, cfg.Export.Minify)
}
