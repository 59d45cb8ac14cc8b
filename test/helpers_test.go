//go:build integration
// +build integration

package test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/MrEthical07/campusAuth/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// storageMode describes one backend the integration suite runs against.
type storageMode struct {
	name  string
	setup func(t *testing.T) (session.Storage, func())
}

// storageModes returns the backends to test. miniredis and SQLite are always
// available; a real Redis is used when REDIS_ADDR is set (e.g. "127.0.0.1:6379").
func storageModes(t *testing.T) []storageMode {
	t.Helper()
	modes := []storageMode{
		{
			name: "miniredis",
			setup: func(t *testing.T) (session.Storage, func()) {
				t.Helper()
				mr, err := miniredis.Run()
				if err != nil {
					t.Fatalf("miniredis: %v", err)
				}
				rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
				return session.NewRedisStorage(rdb, "it"), func() { _ = rdb.Close(); mr.Close() }
			},
		},
		{
			name: "sqlite",
			setup: func(t *testing.T) (session.Storage, func()) {
				t.Helper()
				store, err := session.OpenSQLite(filepath.Join(t.TempDir(), "session.db"))
				if err != nil {
					t.Fatalf("sqlite: %v", err)
				}
				return store, func() { _ = store.Close() }
			},
		},
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		modes = append(modes, storageMode{
			name: "standalone:" + addr,
			setup: func(t *testing.T) (session.Storage, func()) {
				t.Helper()
				rdb := redis.NewClient(&redis.Options{Addr: addr})
				if err := rdb.Ping(context.Background()).Err(); err != nil {
					t.Skipf("redis %s unreachable: %v", addr, err)
				}
				store := session.NewRedisStorage(rdb, "it:"+t.Name())
				return store, func() {
					_ = store.Clear(context.Background())
					_ = rdb.Close()
				}
			},
		})
	}
	return modes
}

type navRecorder struct {
	mu   sync.Mutex
	navs []campusAuth.Navigation
}

func (r *navRecorder) Navigate(_ context.Context, nav campusAuth.Navigation) {
	r.mu.Lock()
	r.navs = append(r.navs, nav)
	r.mu.Unlock()
}

func (r *navRecorder) last() (campusAuth.Navigation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.navs) == 0 {
		return campusAuth.Navigation{}, false
	}
	return r.navs[len(r.navs)-1], true
}

func buildEngine(t *testing.T, store session.Storage, mutate func(*campusAuth.Config)) (*campusAuth.Engine, *navRecorder) {
	t.Helper()
	cfg := campusAuth.DefaultConfig()
	cfg.Latency.Simulated = 0
	if mutate != nil {
		mutate(&cfg)
	}
	nav := &navRecorder{}
	engine, err := campusAuth.New().
		WithConfig(cfg).
		WithStorage(store).
		WithNavigator(nav).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, nav
}
