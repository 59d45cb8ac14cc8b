package otel

import (
	"context"
	"errors"
	"fmt"

	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/MrEthical07/campusAuth/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() campusAuth.MetricsSnapshot
	NotificationsDropped() uint64
	Snapshot() campusAuth.Snapshot
}

// family is one observable counter with a precomputed attribute set per series.
type family struct {
	instrument metric.Int64ObservableCounter
	series     []familySeries
}

type familySeries struct {
	id    campusAuth.MetricID
	attrs metric.ObserveOption
}

// OTelExporter publishes the portal's session metrics through observable instruments.
// Counter families carry the same labels as the Prometheus output; values are read from
// the source on each collection cycle.
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration

	families      []family
	latencyBucket metric.Int64ObservableGauge
	latencyCount  metric.Int64ObservableGauge
	latencySum    metric.Float64ObservableGauge
	bucketAttrs   []metric.ObserveOption
	authenticated metric.Int64ObservableGauge
	loading       metric.Int64ObservableGauge
	dropped       metric.Int64ObservableCounter
}

func NewOTelExporter(meter metric.Meter, engine *campusAuth.Engine) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, engine)
}

func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &OTelExporter{source: source}
	var observables []metric.Observable

	for _, def := range internaldefs.CounterFamilies {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", def.Name, err)
		}
		f := family{instrument: ins}
		for _, s := range def.Series {
			f.series = append(f.series, familySeries{id: s.ID, attrs: metric.WithAttributes(toAttributes(s.Labels)...)})
		}
		e.families = append(e.families, f)
		observables = append(observables, ins)
	}

	var err error
	if e.latencyBucket, err = meter.Int64ObservableGauge(internaldefs.LatencyName+"_bucket",
		metric.WithDescription("Cumulative auth latency bucket counts, labelled by upper bound.")); err != nil {
		return nil, fmt.Errorf("create latency buckets: %w", err)
	}
	if e.latencyCount, err = meter.Int64ObservableGauge(internaldefs.LatencyName+"_count",
		metric.WithDescription(internaldefs.LatencyHelp)); err != nil {
		return nil, fmt.Errorf("create latency count: %w", err)
	}
	if e.latencySum, err = meter.Float64ObservableGauge(internaldefs.LatencyName+"_sum",
		metric.WithDescription(internaldefs.LatencyHelp), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("create latency sum: %w", err)
	}
	for _, le := range internaldefs.HistogramBounds {
		e.bucketAttrs = append(e.bucketAttrs, metric.WithAttributes(attribute.String("le", le)))
	}
	if e.authenticated, err = meter.Int64ObservableGauge(internaldefs.AuthenticatedName,
		metric.WithDescription(internaldefs.AuthenticatedHelp)); err != nil {
		return nil, fmt.Errorf("create authenticated gauge: %w", err)
	}
	if e.loading, err = meter.Int64ObservableGauge(internaldefs.LoadingName,
		metric.WithDescription(internaldefs.LoadingHelp)); err != nil {
		return nil, fmt.Errorf("create loading gauge: %w", err)
	}
	if e.dropped, err = meter.Int64ObservableCounter(internaldefs.DroppedName,
		metric.WithDescription(internaldefs.DroppedHelp)); err != nil {
		return nil, fmt.Errorf("create dropped counter: %w", err)
	}
	observables = append(observables,
		e.latencyBucket, e.latencyCount, e.latencySum, e.authenticated, e.loading, e.dropped)

	registration, err := meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	e.registration = registration
	return e, nil
}

func (e *OTelExporter) observe(_ context.Context, o metric.Observer) error {
	counters := e.source.MetricsSnapshot()
	for _, f := range e.families {
		for _, s := range f.series {
			o.ObserveInt64(f.instrument, int64(counters.Counters[s.id]), s.attrs)
		}
	}

	if raw, ok := counters.Histograms[campusAuth.MetricAuthLatency]; ok {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		for i, attrs := range e.bucketAttrs {
			o.ObserveInt64(e.latencyBucket, int64(cumulative[i]), attrs)
		}
		o.ObserveInt64(e.latencyCount, int64(cumulative[len(cumulative)-1]))
		o.ObserveFloat64(e.latencySum, counters.LatencySum.Seconds())
	}

	snap := e.source.Snapshot()
	for _, g := range internaldefs.AuthenticatedByRole(snap) {
		o.ObserveInt64(e.authenticated, g.Value, metric.WithAttributes(attribute.String("role", g.Role)))
	}
	var loading int64
	if snap.Loading {
		loading = 1
	}
	o.ObserveInt64(e.loading, loading)
	o.ObserveInt64(e.dropped, int64(e.source.NotificationsDropped()))
	return nil
}

func toAttributes(labels []internaldefs.Label) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(labels))
	for _, l := range labels {
		out = append(out, attribute.String(l.Name, l.Value))
	}
	return out
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
