package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStorageTest(t *testing.T) (*RedisStorage, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStorage(rdb, "kjc")
	return store, mr, func() {
		rdb.Close()
		mr.Close()
	}
}

func exerciseStorage(t *testing.T, store Storage) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear on empty store: %v", err)
	}

	if err := store.Save(ctx, []byte("first")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, []byte("second")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("expected last write to win, got %q", got)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestRedisStorageLifecycle(t *testing.T) {
	store, mr, done := newRedisStorageTest(t)
	defer done()

	exerciseStorage(t, store)

	if err := store.Save(context.Background(), []byte("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("kjc:user") {
		t.Fatal("expected record under kjc:user")
	}
	if ttl := mr.TTL("kjc:user"); ttl != 0 {
		t.Fatalf("expected no expiry, got %v", ttl)
	}
}

func TestRedisStorageUnavailable(t *testing.T) {
	store, mr, done := newRedisStorageTest(t)
	defer done()
	mr.Close()

	if _, err := store.Load(context.Background()); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if err := store.Save(context.Background(), []byte("x")); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable on save, got %v", err)
	}
}

func TestSQLiteStorageLifecycle(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	exerciseStorage(t, store)
}

func TestSQLiteStorageSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	ctx := context.Background()

	first, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := first.Save(ctx, []byte("persisted")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer second.Close()

	got, err := second.Load(ctx)
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if string(got) != "persisted" {
		t.Fatalf("expected persisted record, got %q", got)
	}
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}
