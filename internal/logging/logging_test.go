package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beginnings/internal/logging"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(logging.Options{Level: "warn", Format: "json", Output: &buf})

	l.Info("loader.loaded")
	assert.Zero(t, buf.Len())

	l.Warn("loader.unmapped_locations", "locations", []string{"fremont"})
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "loader.unmapped_locations", rec["msg"])
	assert.Equal(t, "beginnings", rec["app"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("verbose"))
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(logging.Options{Format: "text", Output: &buf})

	ctx := logging.WithLogger(context.Background(), l)
	ctx = logging.With(ctx, "request_id", "abc")
	logging.From(ctx).Info("http.request")

	assert.Contains(t, buf.String(), "request_id=abc")
	assert.NotNil(t, logging.From(context.Background()))
}
