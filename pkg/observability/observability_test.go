package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{name: "debug level", input: "debug", expected: slog.LevelDebug},
		{name: "info level", input: "info", expected: slog.LevelInfo},
		{name: "warn level", input: "warn", expected: slog.LevelWarn},
		{name: "warning level", input: "warning", expected: slog.LevelWarn},
		{name: "error level", input: "error", expected: slog.LevelError},
		{name: "uppercase DEBUG", input: "DEBUG", expected: slog.LevelDebug},
		{name: "mixed case Info", input: "Info", expected: slog.LevelInfo},
		{name: "empty string defaults to info", input: "", expected: slog.LevelInfo},
		{name: "unknown level defaults to info", input: "xyzzy", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestInitLogger(t *testing.T) {
	t.Run("json output carries the service name", func(t *testing.T) {
		var buf bytes.Buffer
		logger := InitLogger(LogConfig{Output: &buf, Level: "debug", Format: "json", ServiceName: "trust-service"})

		logger.Debug("score computed", slog.String("identity_id", "abc"))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "score computed", entry["msg"])
		assert.Equal(t, "trust-service", entry["service"])
		assert.Equal(t, "abc", entry["identity_id"])
	})

	t.Run("level filters lower records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := InitLogger(LogConfig{Output: &buf, Level: "warn"})

		logger.Info("hidden")
		assert.Empty(t, buf.String())

		logger.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("installs the default logger", func(t *testing.T) {
		var buf bytes.Buffer
		InitLogger(LogConfig{Output: &buf, Format: "text"})

		slog.Info("via default")
		assert.Contains(t, buf.String(), "via default")
	})
}

func TestInitMetrics(t *testing.T) {
	provider, handler, err := InitMetrics(MetricsConfig{ServiceName: "trust-service"})
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(context.Background()) }()

	counter, err := otel.Meter("test").Int64Counter("trust_test_events_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "trust_test_events_total")
}

func TestInitTracer(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), TracingConfig{ServiceName: "trust-service"})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, shutdown(context.Background()))
}
