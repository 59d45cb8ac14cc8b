package flows

import (
	"context"
	"time"

	"github.com/MrEthical07/campusAuth/session"
)

// Deps groups flow dependency sets. The root engine builds this once and delegates
// each transition to the matching flow.
type Deps struct {
	Restore  RestoreDeps
	Login    LoginDeps
	Register RegisterDeps
	Logout   LogoutDeps
}

// NotifyFunc emits one user-facing notification.
type NotifyFunc func(ctx context.Context, event, title, description string, destructive bool, userID string)

// NavigateFunc asks the host to move the visitor to path.
type NavigateFunc func(ctx context.Context, path string, replace bool)

// AuthMetrics carries metric IDs shared by login and register.
type AuthMetrics struct {
	Success int
	Failure int
	Latency int
}

// AuthEvents carries notification event names shared by login and register.
type AuthEvents struct {
	Success string
	Failure string
}

// AuthDeps is the dependency set shared by login and register.
type AuthDeps struct {
	Latency   time.Duration
	Sleep     func(time.Duration)
	Now       func() time.Time
	NewUserID func() string

	Persist    func(context.Context, *session.User) error
	SetCurrent func(*session.User)
	Target     func(context.Context, *session.User) string

	Notify    NotifyFunc
	Navigate  NavigateFunc
	MetricInc func(int)
	Observe   func(int, time.Duration)
	Warn      func(string, ...any)

	Metrics AuthMetrics
	Events  AuthEvents

	EngineNotReady error
	PersistFailed  error
}

func (d *AuthDeps) fill() bool {
	if d.Sleep == nil {
		d.Sleep = time.Sleep
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Notify == nil {
		d.Notify = func(context.Context, string, string, string, bool, string) {}
	}
	if d.Navigate == nil {
		d.Navigate = func(context.Context, string, bool) {}
	}
	if d.MetricInc == nil {
		d.MetricInc = func(int) {}
	}
	if d.Observe == nil {
		d.Observe = func(int, time.Duration) {}
	}
	if d.Warn == nil {
		d.Warn = func(string, ...any) {}
	}
	return d.NewUserID != nil && d.Persist != nil && d.SetCurrent != nil && d.Target != nil
}

// establish persists u and makes it current. The in-memory state only changes once
// storage accepted the record.
func establish(ctx context.Context, u *session.User, deps AuthDeps) error {
	if err := deps.Persist(ctx, u); err != nil {
		return wrapPersist(deps.PersistFailed, err)
	}
	deps.SetCurrent(u)
	return nil
}
