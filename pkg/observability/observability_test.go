package observability

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupDisabled(t *testing.T) {
	p, err := Setup(Config{ServiceName: "world-relay"})
	require.NoError(t, err)

	assert.Nil(t, p.MetricsHandler())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSetupMetricsExposesCounters(t *testing.T) {
	p, err := Setup(Config{ServiceName: "world-relay", ServiceVersion: "test", MetricsEnabled: true})
	require.NoError(t, err)
	defer func() { _ = p.Shutdown(context.Background()) }()

	counter, err := otel.Meter("observability_test").Int64Counter("entities_generated")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	require.NotNil(t, p.MetricsHandler())
	w := httptest.NewRecorder()
	p.MetricsHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "entities_generated_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestSetupTracingWritesSpans(t *testing.T) {
	var out bytes.Buffer
	p, err := Setup(Config{ServiceName: "world-relay", TracingEnabled: true, TraceOutput: &out})
	require.NoError(t, err)

	_, span := otel.Tracer("observability_test").Start(context.Background(), "upstream.chat")
	span.End()

	// Shutdown flushes the batcher
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Contains(t, out.String(), "upstream.chat")
}
