// Package metrics owns the OpenTelemetry instruments shared by the provider
// clients and the lookup pipeline, exported to Prometheus.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

const meterName = "proplookup"

// NewMeterProvider returns an SDK meter provider whose readings are exported
// through the given Prometheus registerer.
func NewMeterProvider(reg prometheus.Registerer) (*sdkmetric.MeterProvider, error) {
	exp, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)), nil
}

// Metrics holds the application instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	providerRequests metric.Int64Counter
	providerDuration metric.Float64Histogram
	lookups          metric.Int64Counter
	batches          metric.Int64Counter
	batchRows        metric.Int64Counter
}

// New creates the instruments on a meter obtained from mp.
func New(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)

	m := &Metrics{}
	var err error
	if m.providerRequests, err = meter.Int64Counter("provider_requests",
		metric.WithDescription("Outbound provider requests by provider and outcome."),
	); err != nil {
		return nil, fmt.Errorf("could not create provider requests counter: %w", err)
	}
	if m.providerDuration, err = meter.Float64Histogram("provider_request_duration",
		metric.WithDescription("Outbound provider request latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...),
	); err != nil {
		return nil, fmt.Errorf("could not create provider duration histogram: %w", err)
	}
	if m.lookups, err = meter.Int64Counter("lookups",
		metric.WithDescription("Address lookups by outcome."),
	); err != nil {
		return nil, fmt.Errorf("could not create lookups counter: %w", err)
	}
	if m.batches, err = meter.Int64Counter("batches",
		metric.WithDescription("Batch runs."),
	); err != nil {
		return nil, fmt.Errorf("could not create batches counter: %w", err)
	}
	if m.batchRows, err = meter.Int64Counter("batch_rows",
		metric.WithDescription("Batch rows by disposition (ok, failed, dropped)."),
	); err != nil {
		return nil, fmt.Errorf("could not create batch rows counter: %w", err)
	}

	return m, nil
}

// ProviderRequest records one finished outbound call. Outcome is an HTTP
// status code as text, or "error" when no response was received.
func (m *Metrics) ProviderRequest(ctx context.Context, provider, outcome string, took time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	)
	m.providerRequests.Add(ctx, 1, attrs)
	m.providerDuration.Record(ctx, took.Seconds(), attrs)
}

// Lookup records a finished single lookup. Outcome is "ok" or an error kind.
func (m *Metrics) Lookup(ctx context.Context, outcome string) {
	if m == nil {
		return
	}

	m.lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// Batch records a finished batch run.
func (m *Metrics) Batch(ctx context.Context, ok, failed, dropped int) {
	if m == nil {
		return
	}

	m.batches.Add(ctx, 1)
	for disposition, n := range map[string]int{"ok": ok, "failed": failed, "dropped": dropped} {
		if n > 0 {
			m.batchRows.Add(ctx, int64(n), metric.WithAttributes(attribute.String("disposition", disposition)))
		}
	}
}
