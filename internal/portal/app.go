package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/MrEthical07/campusAuth/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// App owns the engine, its storage and the HTTP server of one portal process.
type App struct {
	cfg     Config
	logger  *slog.Logger
	engine  *campusAuth.Engine
	server  *http.Server
	closers []func() error
}

// NewApp opens storage, builds and restores the engine and prepares the HTTP server.
func NewApp(ctx context.Context, cfg Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = cfg.NewLogger()
	}
	app := &App{cfg: cfg, logger: logger}

	storage, err := app.openStorage()
	if err != nil {
		app.Close()
		return nil, err
	}

	toasts := NewToasts(cfg.ToastCapacity)
	engine, err := campusAuth.New().
		WithConfig(cfg.EngineConfig()).
		WithStorage(storage).
		WithNotifier(campusAuth.MultiNotifier{toasts, campusAuth.NewLogNotifier(logger)}).
		WithNavigator(RequestNavigator{Logger: logger}).
		WithLogger(logger).
		Build()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("build engine: %w", err)
	}
	app.engine = engine
	app.closers = append(app.closers, func() error {
		engine.Close()
		return nil
	})

	engine.Restore(ctx)
	logger.InfoContext(ctx, "session restored", "state", engine.State().String())

	server := NewServer(engine, toasts, logger, cfg.CORSOrigins)
	if cfg.OTelMetrics {
		om, err := newOTelMetrics(engine)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, om.Close)
		server.WithOTelHandler(om.Handler())
	}

	app.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return app, nil
}

func (a *App) openStorage() (session.Storage, error) {
	switch a.cfg.Storage {
	case StorageRedis:
		addr := a.cfg.RedisAddr
		if addr == EmbeddedRedis {
			mr, err := miniredis.Run()
			if err != nil {
				return nil, fmt.Errorf("start embedded redis: %w", err)
			}
			a.closers = append(a.closers, func() error {
				mr.Close()
				return nil
			})
			addr = mr.Addr()
			a.logger.Warn("using embedded redis; sessions do not survive restarts", "addr", addr)
		}
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		a.closers = append(a.closers, client.Close)
		return session.NewRedisStorage(client, a.cfg.RedisPrefix), nil
	case StorageSQLite:
		storage, err := session.OpenSQLite(a.cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, storage.Close)
		return storage, nil
	default:
		return nil, fmt.Errorf("unsupported storage %q", a.cfg.Storage)
	}
}

// Engine returns the session engine.
func (a *App) Engine() *campusAuth.Engine {
	return a.engine
}

// Handler returns the HTTP handler.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.InfoContext(ctx, "portal listening", "addr", a.cfg.Addr)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the engine and storage in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}
