package flows

import "context"

// LogoutDeps captures logout dependencies.
type LogoutDeps struct {
	LandingPath string

	Clear        func(context.Context) error
	ClearCurrent func() string

	Notify    NotifyFunc
	Navigate  NavigateFunc
	MetricInc func(int)
	Warn      func(string, ...any)

	LogoutMetric   int
	StorageFailure int
	Event          string
}

// RunLogout ends the session. A storage failure is reported through Warn and never
// stops the in-memory logout.
func RunLogout(ctx context.Context, deps LogoutDeps) {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}

	var userID string
	if deps.ClearCurrent != nil {
		userID = deps.ClearCurrent()
	}
	if deps.Clear != nil {
		if err := deps.Clear(ctx); err != nil {
			deps.MetricInc(deps.StorageFailure)
			deps.Warn("campusAuth: clearing persisted session failed", "error", err)
		}
	}

	deps.MetricInc(deps.LogoutMetric)
	if deps.Notify != nil {
		deps.Notify(ctx, deps.Event, "Logged Out", "You have been successfully logged out.", false, userID)
	}
	if deps.Navigate != nil {
		deps.Navigate(ctx, deps.LandingPath, false)
	}
}
