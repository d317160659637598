package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, err := ResolveConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "scriptbridge", cfg.ServiceName)
	assert.Equal(t, "grpc", cfg.OTLPProtocol)
	assert.Equal(t, 1.0, cfg.TraceSamplingRate)
}

func TestResolveConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SCRIPTBRIDGE_OTEL_ENABLED", "true")
	t.Setenv("SCRIPTBRIDGE_OTEL_SERVICE_NAME", "bridge-{{ env.SB_SITE }}")
	t.Setenv("SB_SITE", "plant7")
	t.Setenv("SCRIPTBRIDGE_OTEL_TRACE_SAMPLING_RATIO", "4")
	t.Setenv("SCRIPTBRIDGE_OTEL_PROTOCOL", "GRPC")

	cfg, err := ResolveConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "bridge-plant7", cfg.ServiceName)
	assert.Equal(t, 1.0, cfg.TraceSamplingRate)
	assert.Equal(t, "grpc", cfg.OTLPProtocol)
}

func TestResolveConfig_MissingEnvReference(t *testing.T) {
	t.Setenv("SCRIPTBRIDGE_OTEL_ENDPOINT", "{{ env.SB_UNSET_COLLECTOR }}")

	_, err := ResolveConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SB_UNSET_COLLECTOR")
}

func TestResolveConfig_RejectsHTTPProtocol(t *testing.T) {
	t.Setenv("SCRIPTBRIDGE_OTEL_PROTOCOL", "http/protobuf")

	_, err := ResolveConfig()
	require.Error(t, err)
}
