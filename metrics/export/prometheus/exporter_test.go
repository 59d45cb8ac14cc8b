package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/MrEthical07/campusAuth/permission"
	"github.com/MrEthical07/campusAuth/session"
)

type fakeSource struct {
	counters campusAuth.MetricsSnapshot
	session  campusAuth.Snapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() campusAuth.MetricsSnapshot { return f.counters }
func (f fakeSource) NotificationsDropped() uint64              { return f.dropped }
func (f fakeSource) Snapshot() campusAuth.Snapshot             { return f.session }

type memStorage struct{ data []byte }

func (m *memStorage) Load(context.Context) ([]byte, error) {
	if m.data == nil {
		return nil, session.ErrNotFound
	}
	return m.data, nil
}
func (m *memStorage) Save(_ context.Context, d []byte) error { m.data = d; return nil }
func (m *memStorage) Clear(context.Context) error            { m.data = nil; return nil }

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		counters: campusAuth.MetricsSnapshot{
			Counters:   map[campusAuth.MetricID]uint64{},
			Histograms: map[campusAuth.MetricID][]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderLabelledFamilies(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		counters: campusAuth.MetricsSnapshot{
			Counters: map[campusAuth.MetricID]uint64{
				campusAuth.MetricLoginSuccess:       7,
				campusAuth.MetricRegisterFailure:    2,
				campusAuth.MetricRestoreMalformed:   1,
				campusAuth.MetricGuardLoginRedirect: 4,
			},
			Histograms: map[campusAuth.MetricID][]uint64{
				campusAuth.MetricAuthLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
			LatencySum: 1500 * time.Millisecond,
		},
		session: campusAuth.Snapshot{
			User:  &session.User{ID: "user-1", Role: permission.RoleCommitteeHead},
			State: campusAuth.StateAuthenticated,
		},
		dropped: 2,
	})

	out := exp.Render()
	assertContains(t, out,
		"# TYPE campus_auth_attempts_total counter\n",
		`campus_auth_attempts_total{operation="login",outcome="success"} 7`,
		`campus_auth_attempts_total{operation="register",outcome="failure"} 2`,
		`campus_session_restores_total{outcome="malformed"} 1`,
		`campus_guard_decisions_total{decision="login_redirect"} 4`,
		`campus_auth_latency_seconds_bucket{le="0.01"} 1`,
		`campus_auth_latency_seconds_bucket{le="+Inf"} 36`,
		"campus_auth_latency_seconds_sum 1.5\n",
		"campus_auth_latency_seconds_count 36\n",
		`campus_session_authenticated{role="committee-head"} 1`,
		`campus_session_authenticated{role="student"} 0`,
		"campus_session_loading 0\n",
		"campus_notifications_dropped_total 2\n",
	)
	if strings.Count(out, "# TYPE campus_auth_attempts_total") != 1 {
		t.Fatalf("family header repeated:\n%s", out)
	}
}

func TestRenderOmitsLatencyWhenHistogramsOff(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		counters: campusAuth.MetricsSnapshot{
			Counters:   map[campusAuth.MetricID]uint64{campusAuth.MetricLogout: 1},
			Histograms: map[campusAuth.MetricID][]uint64{},
		},
		session: campusAuth.Snapshot{Loading: true},
	})

	out := exp.Render()
	if strings.Contains(out, "campus_auth_latency_seconds") {
		t.Fatalf("latency rendered without histograms:\n%s", out)
	}
	assertContains(t, out, "campus_logouts_total 1\n", "campus_session_loading 1\n")
}

func TestRenderFromEngine(t *testing.T) {
	cfg := campusAuth.DefaultConfig()
	cfg.Latency.Simulated = 0
	engine, err := campusAuth.New().WithConfig(cfg).WithStorage(&memStorage{}).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()
	engine.Restore(context.Background())
	_ = engine.Login(context.Background(), "exam@x.com", "pw")
	engine.AuthorizePath("/dashboard/committee")

	assertContains(t, NewPrometheusExporter(engine).Render(),
		`campus_auth_attempts_total{operation="login",outcome="success"} 1`,
		`campus_session_restores_total{outcome="empty"} 1`,
		`campus_guard_decisions_total{decision="role_redirect"} 1`,
		`campus_session_authenticated{role="exam-cell"} 1`,
	)
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		counters: campusAuth.MetricsSnapshot{
			Counters:   map[campusAuth.MetricID]uint64{campusAuth.MetricLoginSuccess: 1},
			Histograms: map[campusAuth.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEscapeLabel(t *testing.T) {
	if got := escapeLabel("a\"b\\c\nd"); got != `a\"b\\c\nd` {
		t.Fatalf("unexpected escape %q", got)
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		counters: campusAuth.MetricsSnapshot{
			Counters: map[campusAuth.MetricID]uint64{
				campusAuth.MetricLoginSuccess: 1000,
				campusAuth.MetricLoginFailure: 40,
				campusAuth.MetricGuardRender:  8000,
				campusAuth.MetricGuardLoading: 12,
				campusAuth.MetricRestoreFound: 3,
			},
			Histograms: map[campusAuth.MetricID][]uint64{
				campusAuth.MetricAuthLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
