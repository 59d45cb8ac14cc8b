package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/MrEthical07/campusAuth/permission"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newEngine(t *testing.T) *campusAuth.Engine {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	cfg := campusAuth.DefaultConfig()
	cfg.Latency.Simulated = 0
	engine, err := campusAuth.New().WithConfig(cfg).WithRedis(rdb).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func okHandler(t *testing.T, wantRole permission.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			t.Errorf("expected user in context")
		} else if u.Role != wantRole {
			t.Errorf("expected role %s, got %s", wantRole, u.Role)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestGuardLoading(t *testing.T) {
	engine := newEngine(t)
	h := Guard(engine, permission.RoleStudent)(okHandler(t, permission.RoleStudent))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard/student", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After 1, got %q", rr.Header().Get("Retry-After"))
	}
}

func TestGuardAnonymousRedirectsToLogin(t *testing.T) {
	engine := newEngine(t)
	engine.Restore(context.Background())
	h := Guard(engine, permission.RoleCommitteeHead)(okHandler(t, permission.RoleCommitteeHead))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard/committee?tab=2", nil))

	if rr.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rr.Code)
	}
	want := "/login?from=%2Fdashboard%2Fcommittee%3Ftab%3D2"
	if got := rr.Header().Get("Location"); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestGuardRoleMismatchRedirectsHome(t *testing.T) {
	engine := newEngine(t)
	engine.Restore(context.Background())
	if err := engine.Login(context.Background(), "student1@x.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	h := Guard(engine, permission.RoleCommitteeHead)(okHandler(t, permission.RoleCommitteeHead))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard/committee", nil))

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/dashboard/student" {
		t.Fatalf("expected 302 to student dashboard, got %d %s", rr.Code, rr.Header().Get("Location"))
	}
}

func TestGuardRendersAllowedRole(t *testing.T) {
	engine := newEngine(t)
	engine.Restore(context.Background())
	if err := engine.Login(context.Background(), "committee.head@x.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	h := Guard(engine, permission.RoleCommitteeHead)(okHandler(t, permission.RoleCommitteeHead))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard/committee", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRouteGuardUsesTable(t *testing.T) {
	engine := newEngine(t)
	engine.Restore(context.Background())
	if err := engine.Login(context.Background(), "exam@x.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	h := RouteGuard(engine)(okHandler(t, permission.RoleExamCell))

	tests := []struct {
		path     string
		code     int
		location string
	}{
		{"/dashboard/exam-cell", http.StatusOK, ""},
		{"/dashboard/internship", http.StatusFound, "/dashboard/exam-cell"},
		{"/events", http.StatusOK, ""},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rr.Code != tc.code || rr.Header().Get("Location") != tc.location {
			t.Fatalf("%s: expected %d %q, got %d %q", tc.path, tc.code, tc.location, rr.Code, rr.Header().Get("Location"))
		}
	}
}

func TestRenderUsesDecidedUser(t *testing.T) {
	engine := newEngine(t)
	engine.Restore(context.Background())
	if err := engine.Login(context.Background(), "committee.head@x.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	d := engine.Authorize("/dashboard/committee", permission.RoleCommitteeHead)
	engine.Logout(context.Background())

	rr := httptest.NewRecorder()
	serve(d, okHandler(t, permission.RoleCommitteeHead), rr, httptest.NewRequest(http.MethodGet, "/dashboard/committee", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestNilEngine(t *testing.T) {
	rr := httptest.NewRecorder()
	Guard(nil)(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
