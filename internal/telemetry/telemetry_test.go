package telemetry

import (
	"context"
	"testing"

	"storefront/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSetup_Disabled(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := Setup(context.Background(), config.TelemetryConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider())
}

func TestSetup_Enabled(t *testing.T) {
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	for _, endpoint := range []string{"localhost:4318", "http://localhost:4318"} {
		shutdown, err := Setup(context.Background(), config.TelemetryConfig{
			Enabled:     true,
			Endpoint:    endpoint,
			Insecure:    true,
			ServiceName: "storefront-test",
		})
		require.NoError(t, err, endpoint)

		_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
		assert.True(t, ok, endpoint)
		assert.NoError(t, shutdown(context.Background()), endpoint)
	}
}
