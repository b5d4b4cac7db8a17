package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("reviews-service", "info", &buf)

	log.Info("import complete", slog.Int("stored", 3))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "reviews-service", entry["service"])
	assert.Equal(t, "import complete", entry["msg"])
	assert.Equal(t, float64(3), entry["stored"])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("reviews-service", "warn", &buf)

	log.Info("should be dropped")
	assert.Zero(t, buf.Len())

	log.Warn("should be written")
	assert.NotZero(t, buf.Len())
}

func TestCorrelationID(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "corr-123")
	assert.Equal(t, "corr-123", CorrelationIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("reviews-service", "info", &buf)

	ctx := NewContext(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}

func TestWithContext_AddsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("reviews-service", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "corr-456")
	WithContext(ctx, log).Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "corr-456", entry["correlation_id"])
}
