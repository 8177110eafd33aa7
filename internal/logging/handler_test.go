// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/parkspot/parkspot/internal/config"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "not JSON: %s", buf.String())
	return entry
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Service: "parkspot", Version: "1.2.3", Writer: &buf})
	require.NoError(t, err)

	logger.Info("hello", "route", "/token")

	entry := decode(t, &buf)
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "parkspot", entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Equal(t, "/token", entry["route"])
	assert.NotContains(t, entry, "trace_id")
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Service: "parkspot", Format: "text", Writer: &buf})
	require.NoError(t, err)

	logger.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "service=parkspot")
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Writer: &buf})
	require.NoError(t, err)

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.ErrorIs(t, err, config.ErrConfiguration)

	_, err = New(Options{Level: "loud"})
	assert.ErrorIs(t, err, config.ErrConfiguration)
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestHandler_TraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Service: "parkspot", Writer: &buf})
	require.NoError(t, err)

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.With("component", "auth").InfoContext(ctx, "traced")

	entry := decode(t, &buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])
	assert.Equal(t, "auth", entry["component"])
	assert.Equal(t, "parkspot", entry["service"])
}
