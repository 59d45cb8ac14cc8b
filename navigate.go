package campusAuth

import "context"

// Navigation is a request to move the visitor to Path. Replace asks the navigator to
// replace the current history entry instead of pushing a new one.
type Navigation struct {
	Path    string `json:"path"`
	From    string `json:"from,omitempty"`
	Replace bool   `json:"replace"`
}

// Navigator performs navigations requested by Login, Register and Logout.
type Navigator interface {
	Navigate(ctx context.Context, nav Navigation)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(ctx context.Context, nav Navigation)

func (f NavigatorFunc) Navigate(ctx context.Context, nav Navigation) {
	f(ctx, nav)
}

type noopNavigator struct{}

func (noopNavigator) Navigate(context.Context, Navigation) {}
