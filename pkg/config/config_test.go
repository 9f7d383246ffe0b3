package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int           `env:"TEST_HTTP_PORT" envDefault:"8080"`
	LogLevel string        `env:"TEST_LOG_LEVEL" envDefault:"info"`
	Brokers  []string      `env:"TEST_KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	Timeout  time.Duration `env:"TEST_TIMEOUT" envDefault:"15s"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TEST_HTTP_PORT", "9001")
	t.Setenv("TEST_LOG_LEVEL", "debug")
	t.Setenv("TEST_KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("TEST_HTTP_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
