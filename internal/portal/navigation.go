package portal

import (
	"context"
	"sync"

	campusAuth "github.com/MrEthical07/campusAuth"
)

type navigationKey struct{}

// navigationRecorder captures the navigation the Engine requests while serving one
// request.
type navigationRecorder struct {
	mu  sync.Mutex
	nav *campusAuth.Navigation
}

func withNavigationRecorder(ctx context.Context) (context.Context, *navigationRecorder) {
	rec := &navigationRecorder{}
	return context.WithValue(ctx, navigationKey{}, rec), rec
}

func (r *navigationRecorder) target(fallback string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nav == nil {
		return fallback
	}
	return r.nav.Path
}

// RequestNavigator routes Engine navigations to the request that triggered them.
// Navigations outside a request are logged and dropped.
type RequestNavigator struct {
	Logger interface {
		DebugContext(ctx context.Context, msg string, args ...any)
	}
}

func (n RequestNavigator) Navigate(ctx context.Context, nav campusAuth.Navigation) {
	rec, ok := ctx.Value(navigationKey{}).(*navigationRecorder)
	if !ok {
		if n.Logger != nil {
			n.Logger.DebugContext(ctx, "navigation outside request", "path", nav.Path)
		}
		return
	}
	rec.mu.Lock()
	rec.nav = &nav
	rec.mu.Unlock()
}
