package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "rink-live-service"
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

type otelInstruments struct {
	ctx                 context.Context
	meter               metric.Meter
	requests            metric.Int64Counter
	requestLatencyMs    metric.Float64Histogram
	statUpdates         metric.Int64Counter
	statUpdateErrors    metric.Int64Counter
	statUpdateLatencyMs metric.Float64Histogram
	finalizes           metric.Int64Counter
	finalizeErrors      metric.Int64Counter
	finalizeLatencyMs   metric.Float64Histogram
	archiveSaves        metric.Int64Counter
	archiveErrors       metric.Int64Counter
	archiveLatencyMs    metric.Float64Histogram
	checkpointCycles    metric.Int64Counter
	checkpointErrors    metric.Int64Counter
	checkpointLatencyMs metric.Float64Histogram
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter("rink-live-service")
	ctx := context.Background()

	requests, err := meter.Int64Counter("http_requests_total")
	if err != nil {
		return nil, err
	}
	requestLatency, err := meter.Float64Histogram("http_request_duration_ms")
	if err != nil {
		return nil, err
	}

	statUpdates, err := meter.Int64Counter("stat_updates_total")
	if err != nil {
		return nil, err
	}
	statUpdateErrors, err := meter.Int64Counter("stat_update_errors_total")
	if err != nil {
		return nil, err
	}
	statUpdateLatency, err := meter.Float64Histogram("stat_update_duration_ms")
	if err != nil {
		return nil, err
	}
	finalizes, err := meter.Int64Counter("finalizes_total")
	if err != nil {
		return nil, err
	}
	finalizeErrors, err := meter.Int64Counter("finalize_errors_total")
	if err != nil {
		return nil, err
	}
	finalizeLatency, err := meter.Float64Histogram("finalize_duration_ms")
	if err != nil {
		return nil, err
	}
	archiveSaves, err := meter.Int64Counter("archive_saves_total")
	if err != nil {
		return nil, err
	}
	archiveErrors, err := meter.Int64Counter("archive_errors_total")
	if err != nil {
		return nil, err
	}
	archiveLatency, err := meter.Float64Histogram("archive_save_duration_ms")
	if err != nil {
		return nil, err
	}
	checkpointCycles, err := meter.Int64Counter("checkpoint_cycles_total")
	if err != nil {
		return nil, err
	}
	checkpointErrors, err := meter.Int64Counter("checkpoint_errors_total")
	if err != nil {
		return nil, err
	}
	checkpointLatency, err := meter.Float64Histogram("checkpoint_cycle_duration_ms")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:                 ctx,
		meter:               meter,
		requests:            requests,
		requestLatencyMs:    requestLatency,
		statUpdates:         statUpdates,
		statUpdateErrors:    statUpdateErrors,
		statUpdateLatencyMs: statUpdateLatency,
		finalizes:           finalizes,
		finalizeErrors:      finalizeErrors,
		finalizeLatencyMs:   finalizeLatency,
		archiveSaves:        archiveSaves,
		archiveErrors:       archiveErrors,
		archiveLatencyMs:    archiveLatency,
		checkpointCycles:    checkpointCycles,
		checkpointErrors:    checkpointErrors,
		checkpointLatencyMs: checkpointLatency,
	}, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordStatUpdate(statType string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrStatType, statType)}
	o.recordCounter(o.statUpdates, 1, attrs...)
	o.recordHistogram(o.statUpdateLatencyMs, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.statUpdateErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordFinalize(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.recordCounter(o.finalizes, 1)
	o.recordHistogram(o.finalizeLatencyMs, float64(duration.Milliseconds()))
	if err != nil {
		o.recordCounter(o.finalizeErrors, 1)
	}
}

func (o *otelInstruments) recordArchiveSave(backend string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrBackend, backend)}
	o.recordCounter(o.archiveSaves, 1, attrs...)
	o.recordHistogram(o.archiveLatencyMs, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.archiveErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordCheckpoint(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.recordCounter(o.checkpointCycles, 1)
	o.recordHistogram(o.checkpointLatencyMs, float64(duration.Milliseconds()))
	if err != nil {
		o.recordCounter(o.checkpointErrors, 1)
	}
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
