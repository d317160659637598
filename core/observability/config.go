package observability

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/scriptbridge/scriptbridge/core/config"
)

// Config controls the OpenTelemetry providers. It is read from
// SCRIPTBRIDGE_OTEL_* environment variables.
type Config struct {
	Enabled           bool
	TracesEnabled     bool
	MetricsEnabled    bool
	ServiceName       string
	ServiceVersion    string
	Environment       string
	OTLPEndpoint      string
	OTLPProtocol      string
	TraceSamplingRate float64
}

func ResolveConfig() (Config, error) {
	cfg := Config{
		Enabled:           false,
		TracesEnabled:     true,
		MetricsEnabled:    true,
		ServiceName:       "scriptbridge",
		ServiceVersion:    "dev",
		Environment:       "development",
		OTLPEndpoint:      "localhost:4317",
		OTLPProtocol:      "grpc",
		TraceSamplingRate: 1.0,
	}

	overrideBool("SCRIPTBRIDGE_OTEL_ENABLED", &cfg.Enabled)
	overrideBool("SCRIPTBRIDGE_OTEL_TRACES_ENABLED", &cfg.TracesEnabled)
	overrideBool("SCRIPTBRIDGE_OTEL_METRICS_ENABLED", &cfg.MetricsEnabled)
	overrideString("SCRIPTBRIDGE_OTEL_SERVICE_NAME", &cfg.ServiceName)
	overrideString("SCRIPTBRIDGE_OTEL_SERVICE_VERSION", &cfg.ServiceVersion)
	overrideString("SCRIPTBRIDGE_OTEL_ENVIRONMENT", &cfg.Environment)
	overrideString("SCRIPTBRIDGE_OTEL_ENDPOINT", &cfg.OTLPEndpoint)
	overrideString("SCRIPTBRIDGE_OTEL_PROTOCOL", &cfg.OTLPProtocol)
	overrideFloat("SCRIPTBRIDGE_OTEL_TRACE_SAMPLING_RATIO", &cfg.TraceSamplingRate)

	if cfg.TraceSamplingRate < 0 {
		cfg.TraceSamplingRate = 0
	}
	if cfg.TraceSamplingRate > 1 {
		cfg.TraceSamplingRate = 1
	}

	var err error
	cfg.ServiceName, err = config.SubstituteEnvVars(cfg.ServiceName)
	if err != nil {
		return Config{}, fmt.Errorf("resolve observability service name: %w", err)
	}
	cfg.ServiceVersion, err = config.SubstituteEnvVars(cfg.ServiceVersion)
	if err != nil {
		return Config{}, fmt.Errorf("resolve observability service version: %w", err)
	}
	cfg.Environment, err = config.SubstituteEnvVars(cfg.Environment)
	if err != nil {
		return Config{}, fmt.Errorf("resolve observability environment: %w", err)
	}
	cfg.OTLPEndpoint, err = config.SubstituteEnvVars(cfg.OTLPEndpoint)
	if err != nil {
		return Config{}, fmt.Errorf("resolve observability otlp endpoint: %w", err)
	}
	cfg.OTLPProtocol = strings.ToLower(cfg.OTLPProtocol)
	if cfg.OTLPProtocol != "grpc" {
		return Config{}, fmt.Errorf("unsupported otlp protocol %q (only grpc is available)", cfg.OTLPProtocol)
	}

	return cfg, nil
}

func overrideString(name string, target *string) {
	if value := os.Getenv(name); value != "" {
		*target = value
	}
}

func overrideBool(name string, target *bool) {
	value := os.Getenv(name)
	if value == "" {
		return
	}
	parsed, err := strconv.ParseBool(value)
	if err == nil {
		*target = parsed
	}
}

func overrideFloat(name string, target *float64) {
	value := os.Getenv(name)
	if value == "" {
		return
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err == nil {
		*target = parsed
	}
}
