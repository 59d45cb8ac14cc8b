package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/MrEthical07/campusAuth/metrics/export/internaldefs"
)

type metricsSource interface {
	MetricsSnapshot() campusAuth.MetricsSnapshot
	NotificationsDropped() uint64
	Snapshot() campusAuth.Snapshot
}

// PrometheusExporter renders the portal's session metrics in Prometheus text format.
type PrometheusExporter struct {
	source metricsSource
}

// NewPrometheusExporter creates an exporter that reads from engine.
func NewPrometheusExporter(engine *campusAuth.Engine) *PrometheusExporter {
	return &PrometheusExporter{source: engine}
}

// NewPrometheusExporterFromSource creates an exporter over any metrics source.
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	return &PrometheusExporter{source: source}
}

// Handler serves the rendered metrics.
func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render returns the current metrics. It returns "" while metrics are disabled.
func (p *PrometheusExporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	counters := p.source.MetricsSnapshot()
	dropped := p.source.NotificationsDropped()
	if len(counters.Counters) == 0 && len(counters.Histograms) == 0 && dropped == 0 {
		return ""
	}
	snap := p.source.Snapshot()

	var b strings.Builder
	b.Grow(2048)

	for _, fam := range internaldefs.CounterFamilies {
		writeHeader(&b, fam.Name, fam.Help, "counter")
		for _, s := range fam.Series {
			writeSample(&b, fam.Name, s.Labels, strconv.FormatUint(counters.Counters[s.ID], 10))
		}
	}

	if raw, ok := counters.Histograms[campusAuth.MetricAuthLatency]; ok {
		writeLatency(&b, internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw)), counters.LatencySum.Seconds())
	}

	writeHeader(&b, internaldefs.AuthenticatedName, internaldefs.AuthenticatedHelp, "gauge")
	for _, g := range internaldefs.AuthenticatedByRole(snap) {
		writeSample(&b, internaldefs.AuthenticatedName, []internaldefs.Label{{Name: "role", Value: g.Role}}, strconv.FormatInt(g.Value, 10))
	}
	writeHeader(&b, internaldefs.LoadingName, internaldefs.LoadingHelp, "gauge")
	writeSample(&b, internaldefs.LoadingName, nil, boolValue(snap.Loading))

	writeHeader(&b, internaldefs.DroppedName, internaldefs.DroppedHelp, "counter")
	writeSample(&b, internaldefs.DroppedName, nil, strconv.FormatUint(dropped, 10))

	return b.String()
}

func writeLatency(b *strings.Builder, cumulative [8]uint64, sumSeconds float64) {
	name := internaldefs.LatencyName
	writeHeader(b, name, internaldefs.LatencyHelp, "histogram")
	for i, le := range internaldefs.HistogramBounds {
		writeSample(b, name+"_bucket", []internaldefs.Label{{Name: "le", Value: le}}, strconv.FormatUint(cumulative[i], 10))
	}
	writeSample(b, name+"_sum", nil, strconv.FormatFloat(sumSeconds, 'g', -1, 64))
	writeSample(b, name+"_count", nil, strconv.FormatUint(cumulative[len(cumulative)-1], 10))
}

func writeHeader(b *strings.Builder, name, help, kind string) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(escapeHelp(help))
	b.WriteString("\n# TYPE ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(kind)
	b.WriteByte('\n')
}

func writeSample(b *strings.Builder, name string, labels []internaldefs.Label, value string) {
	b.WriteString(name)
	if len(labels) > 0 {
		b.WriteByte('{')
		for i, l := range labels {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(l.Name)
			b.WriteString(`="`)
			b.WriteString(escapeLabel(l.Value))
			b.WriteByte('"')
		}
		b.WriteByte('}')
	}
	b.WriteByte(' ')
	b.WriteString(value)
	b.WriteByte('\n')
}

func boolValue(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func escapeHelp(help string) string {
	help = strings.ReplaceAll(help, "\\", "\\\\")
	return strings.ReplaceAll(help, "\n", "\\n")
}

func escapeLabel(v string) string {
	v = strings.ReplaceAll(v, "\\", "\\\\")
	v = strings.ReplaceAll(v, "\"", "\\\"")
	return strings.ReplaceAll(v, "\n", "\\n")
}
