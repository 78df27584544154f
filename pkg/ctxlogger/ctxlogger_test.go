package ctxlogger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendCtx(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(ContextHandler{Handler: slog.NewJSONHandler(&buf, nil)})

	ctx := AppendCtx(context.Background(), slog.String("request_id", "r1"))
	child := AppendCtx(ctx, slog.String("frame_id", "f1"))

	logger.InfoContext(child, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "r1", record["request_id"])
	assert.Equal(t, "f1", record["frame_id"])

	buf.Reset()
	logger.InfoContext(ctx, "parent")
	var parent map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parent))
	_, ok := parent["frame_id"]
	assert.False(t, ok, "parent context must not see child attrs")
}
