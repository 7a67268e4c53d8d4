package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monostock/trust/internal/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, ":8091", cfg.GRPCAddress())
	assert.Equal(t, ":9091", cfg.HTTPAddress())
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "trust.events", cfg.Kafka.EventsTopic)
	assert.Equal(t, "trust.inputs", cfg.Kafka.InputsTopic)
	assert.Equal(t, 5*time.Minute, cfg.Scoring.MaxAge)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 4, cfg.Recompute.Workers)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("GRPC_PORT", "7000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SCORE_MAX_AGE", "90s")
	t.Setenv("RECOMPUTE_WORKERS", "8")
	t.Setenv("RECOMPUTE_TIMEOUT", "not-a-duration")

	cfg := config.Load()

	assert.Equal(t, ":7000", cfg.GRPCAddress())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 90*time.Second, cfg.Scoring.MaxAge)
	assert.Equal(t, 8, cfg.Recompute.Workers)
	assert.Equal(t, 10*time.Second, cfg.Recompute.Timeout, "invalid durations fall back to the default")
}

func TestConfig_Validate(t *testing.T) {
	t.Run("requires a JWT key", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("JWT_PUBLIC_KEY_FILE", "")

		err := config.Load().Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("accepts a secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")

		require.NoError(t, config.Load().Validate())
	})

	t.Run("rejects zero workers", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("RECOMPUTE_WORKERS", "0")

		err := config.Load().Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RECOMPUTE_WORKERS")
	})
}

func TestLoad_TransportSettings(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("KAFKA_SASL_ENABLED", "true")
	t.Setenv("GRPC_REFLECTION", "yes-please")
	t.Setenv("OTEL_TRACES_SAMPLE_RATIO", "0.25")

	cfg := config.Load()

	assert.False(t, cfg.Kafka.Enabled(), "an empty broker list disables kafka")
	assert.True(t, cfg.Kafka.SASLEnabled)
	assert.Equal(t, "PLAIN", cfg.Kafka.SASLMechanism)
	assert.False(t, cfg.GRPC.Reflection, "unparseable booleans fall back to the default")
	assert.InDelta(t, 0.25, cfg.Telemetry.SampleRatio, 1e-9)
}

func TestConfig_ValidateTLSPair(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("GRPC_TLS_CERT_FILE", "/etc/trust/tls.crt")

	err := config.Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GRPC_TLS_KEY_FILE")

	t.Setenv("GRPC_TLS_KEY_FILE", "/etc/trust/tls.key")
	assert.NoError(t, config.Load().Validate())
}
