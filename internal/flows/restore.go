package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/campusAuth/session"
)

// RestoreMetrics carries metric IDs used by the restore flow.
type RestoreMetrics struct {
	Found          int
	Empty          int
	Malformed      int
	StorageFailure int
}

// RestoreDeps captures restore dependencies.
type RestoreDeps struct {
	Load      func(context.Context) ([]byte, error)
	Decode    func([]byte) (*session.User, error)
	MetricInc func(int)
	Warn      func(string, ...any)

	Metrics RestoreMetrics
}

// RunRestore reads the persisted user. Every failure degrades to "no session": the
// returned user is nil and the cause is reported through Warn.
func RunRestore(ctx context.Context, deps RestoreDeps) *session.User {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
	if deps.Load == nil || deps.Decode == nil {
		return nil
	}

	data, err := deps.Load(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			deps.MetricInc(deps.Metrics.Empty)
			return nil
		}
		deps.MetricInc(deps.Metrics.StorageFailure)
		deps.Warn("campusAuth: loading persisted session failed", "error", err)
		return nil
	}

	u, err := deps.Decode(data)
	if err != nil || u == nil {
		deps.MetricInc(deps.Metrics.Malformed)
		deps.Warn("campusAuth: persisted session malformed; starting anonymous", "error", err)
		return nil
	}

	deps.MetricInc(deps.Metrics.Found)
	return u
}
