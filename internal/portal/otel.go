package portal

import (
	"context"
	"fmt"
	"net/http"

	campusAuth "github.com/MrEthical07/campusAuth"
	otelexport "github.com/MrEthical07/campusAuth/metrics/export/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

const meterName = "github.com/MrEthical07/campusAuth"

// otelMetrics is an in-process OpenTelemetry pipeline over the engine metrics.
// Collection is pull based: every GET on the handler runs one reader cycle.
type otelMetrics struct {
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
	exporter *otelexport.OTelExporter
}

func newOTelMetrics(engine *campusAuth.Engine) (*otelMetrics, error) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	exporter, err := otelexport.NewOTelExporter(provider.Meter(meterName), engine)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, fmt.Errorf("register otel exporter: %w", err)
	}
	return &otelMetrics{reader: reader, provider: provider, exporter: exporter}, nil
}

func (m *otelMetrics) Close() error {
	if err := m.exporter.Close(); err != nil {
		return err
	}
	return m.provider.Shutdown(context.Background())
}

type otelPoint struct {
	Attributes map[string]string `json:"attributes,omitempty"`
	Value      float64           `json:"value"`
}

type otelMetric struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Unit        string      `json:"unit,omitempty"`
	Points      []otelPoint `json:"points"`
}

// Handler serves the collected instruments as JSON.
func (m *otelMetrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rm metricdata.ResourceMetrics
		if err := m.reader.Collect(r.Context(), &rm); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "metrics unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Metrics []otelMetric `json:"metrics"`
		}{Metrics: flattenMetrics(rm)})
	})
}

func flattenMetrics(rm metricdata.ResourceMetrics) []otelMetric {
	out := []otelMetric{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			om := otelMetric{Name: m.Name, Description: m.Description, Unit: m.Unit}
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				om.Points = intPoints(data.DataPoints)
			case metricdata.Gauge[int64]:
				om.Points = intPoints(data.DataPoints)
			case metricdata.Gauge[float64]:
				om.Points = floatPoints(data.DataPoints)
			case metricdata.Sum[float64]:
				om.Points = floatPoints(data.DataPoints)
			default:
				continue
			}
			out = append(out, om)
		}
	}
	return out
}

func intPoints(points []metricdata.DataPoint[int64]) []otelPoint {
	out := make([]otelPoint, 0, len(points))
	for _, p := range points {
		out = append(out, otelPoint{Attributes: attributesOf(p), Value: float64(p.Value)})
	}
	return out
}

func floatPoints(points []metricdata.DataPoint[float64]) []otelPoint {
	out := make([]otelPoint, 0, len(points))
	for _, p := range points {
		out = append(out, otelPoint{Attributes: attributesOf(p), Value: p.Value})
	}
	return out
}

func attributesOf[N int64 | float64](p metricdata.DataPoint[N]) map[string]string {
	if p.Attributes.Len() == 0 {
		return nil
	}
	attrs := make(map[string]string, p.Attributes.Len())
	iter := p.Attributes.Iter()
	for iter.Next() {
		kv := iter.Attribute()
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	return attrs
}
