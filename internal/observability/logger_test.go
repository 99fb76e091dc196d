package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFromContextAddsIDs(t *testing.T) {
	prev := logger
	t.Cleanup(func() { logger = prev })

	var buf bytes.Buffer
	Setup(&buf, "debug")

	ctx := WithCallID(WithRequestID(context.Background(), "req-1"), "CA1")
	LoggerFromContext(ctx).Debug("turn handled")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "turn handled", line["msg"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "CA1", line["call_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}
