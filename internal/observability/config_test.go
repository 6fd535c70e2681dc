package observability

import (
	"testing"

	"github.com/smallbiznis/billhub/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigNormalizes(t *testing.T) {
	cfg := LoadConfig(config.Config{
		AppName:     "  ",
		AppVersion:  " 1.2.0 ",
		Environment: "production",
		Observability: config.ObservabilityConfig{
			LogLevel:      "VERBOSE",
			LogFormat:     " Console ",
			OtelEnabled:   true,
			OTLPEndpoint:  " collector:4318 ",
			OTLPProtocol:  "HTTP/Protobuf",
			SamplingRatio: 0.5,
		},
	})

	assert.Equal(t, "billhub", cfg.ServiceName)
	assert.Equal(t, "1.2.0", cfg.Version)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, "collector:4318", cfg.OtelExporterEndpoint)
	assert.Equal(t, "http/protobuf", cfg.OtelExporterProtocol)
	assert.True(t, cfg.OtelEnabled)
	assert.False(t, cfg.Debug())
}

func TestConfigDebug(t *testing.T) {
	assert.True(t, Config{Environment: "test"}.Debug())
	assert.True(t, Config{Environment: "production", LogLevel: "debug"}.Debug())
	assert.False(t, Config{Environment: "staging", LogLevel: "warn"}.Debug())
}
