package campusAuth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/campusAuth/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type recordingNavigator struct {
	mu   sync.Mutex
	navs []Navigation
}

func (r *recordingNavigator) Navigate(_ context.Context, nav Navigation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navs = append(r.navs, nav)
}

func (r *recordingNavigator) last() (Navigation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.navs) == 0 {
		return Navigation{}, false
	}
	return r.navs[len(r.navs)-1], true
}

type recordingNotifier struct {
	mu  sync.Mutex
	got []Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recordingNotifier) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.got))
	copy(out, r.got)
	return out
}

type testHarness struct {
	engine   *Engine
	mr       *miniredis.Miniredis
	rdb      *redis.Client
	storage  *session.RedisStorage
	nav      *recordingNavigator
	notifier *recordingNotifier
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
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
	return mr, rdb
}

func newHarness(t *testing.T, mutate func(*Config)) *testHarness {
	t.Helper()
	mr, rdb := newTestRedis(t)

	cfg := DefaultConfig()
	cfg.Latency.Simulated = 0
	if mutate != nil {
		mutate(&cfg)
	}

	h := &testHarness{
		mr:       mr,
		rdb:      rdb,
		storage:  session.NewRedisStorage(rdb, cfg.Session.RedisPrefix),
		nav:      &recordingNavigator{},
		notifier: &recordingNotifier{},
	}
	engine, err := New().
		WithConfig(cfg).
		WithStorage(h.storage).
		WithNotifier(h.notifier).
		WithNavigator(h.nav).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	h.engine = engine
	return h
}

// restored returns a harness whose session has settled as anonymous.
func restored(t *testing.T, mutate func(*Config)) *testHarness {
	t.Helper()
	h := newHarness(t, mutate)
	h.engine.Restore(context.Background())
	return h
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

// memStorage keeps the record in memory; benchmarks use it to keep Redis out of the loop.
type memStorage struct {
	mu   sync.Mutex
	data []byte
}

func (m *memStorage) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, session.ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *memStorage) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *memStorage) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}
