package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Config selects which signals are exported
type Config struct {
	ServiceName    string
	ServiceVersion string
	MetricsEnabled bool
	TracingEnabled bool
	// TraceOutput receives stdout spans; defaults to os.Stdout
	TraceOutput io.Writer
}

// Provider owns the installed meter and tracer providers
type Provider struct {
	metricsHandler http.Handler
	shutdowns      []func(context.Context) error
}

// Setup installs global OpenTelemetry providers. Metrics are exported through
// a Prometheus registry served by MetricsHandler; spans go to stdout.
// With both signals disabled the global no-op providers stay in place.
func Setup(cfg Config) (*Provider, error) {
	p := &Provider{}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	)

	if cfg.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
		if err != nil {
			return nil, fmt.Errorf("initializing prometheus exporter: %w", err)
		}

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(exporter),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(mp)

		p.metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
		p.shutdowns = append(p.shutdowns, mp.Shutdown)
	}

	if cfg.TracingEnabled {
		out := cfg.TraceOutput
		if out == nil {
			out = os.Stdout
		}

		exporter, err := stdouttrace.New(stdouttrace.WithWriter(out), stdouttrace.WithPrettyPrint())
		if err != nil {
			_ = p.Shutdown(context.Background())
			return nil, fmt.Errorf("initializing stdouttrace exporter: %w", err)
		}

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tp)

		p.shutdowns = append(p.shutdowns, tp.Shutdown)
	}

	return p, nil
}

// MetricsHandler serves the Prometheus exposition, or nil when metrics are disabled
func (p *Provider) MetricsHandler() http.Handler {
	return p.metricsHandler
}

// Shutdown flushes and stops every installed provider
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(p.shutdowns) - 1; i >= 0; i-- {
		if err := p.shutdowns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.shutdowns = nil
	return errors.Join(errs...)
}
