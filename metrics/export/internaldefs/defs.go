package internaldefs

import (
	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/MrEthical07/campusAuth/permission"
)

// Label is one name="value" pair of a series.
type Label struct {
	Name  string
	Value string
}

// Series binds one engine counter to its labels inside a family.
type Series struct {
	ID     campusAuth.MetricID
	Labels []Label
}

// Family is one exported counter and its labelled series.
type Family struct {
	Name   string
	Help   string
	Series []Series
}

func attempt(id campusAuth.MetricID, operation, outcome string) Series {
	return Series{ID: id, Labels: []Label{{"operation", operation}, {"outcome", outcome}}}
}

func single(id campusAuth.MetricID, name, value string) Series {
	return Series{ID: id, Labels: []Label{{name, value}}}
}

// CounterFamilies groups the engine counters by what an operator asks about: how
// sign-ins went, what restore found, and what the guard decided.
var CounterFamilies = []Family{
	{
		Name: "campus_auth_attempts_total",
		Help: "Login and registration attempts by outcome.",
		Series: []Series{
			attempt(campusAuth.MetricLoginSuccess, "login", "success"),
			attempt(campusAuth.MetricLoginFailure, "login", "failure"),
			attempt(campusAuth.MetricRegisterSuccess, "register", "success"),
			attempt(campusAuth.MetricRegisterFailure, "register", "failure"),
		},
	},
	{
		Name:   "campus_logouts_total",
		Help:   "Logouts.",
		Series: []Series{{ID: campusAuth.MetricLogout}},
	},
	{
		Name: "campus_session_restores_total",
		Help: "Session restores by what the store held.",
		Series: []Series{
			single(campusAuth.MetricRestoreFound, "outcome", "found"),
			single(campusAuth.MetricRestoreEmpty, "outcome", "empty"),
			single(campusAuth.MetricRestoreMalformed, "outcome", "malformed"),
		},
	},
	{
		Name:   "campus_storage_failures_total",
		Help:   "Session storage I/O failures.",
		Series: []Series{{ID: campusAuth.MetricStorageFailure}},
	},
	{
		Name: "campus_guard_decisions_total",
		Help: "Route guard decisions.",
		Series: []Series{
			single(campusAuth.MetricGuardRender, "decision", "render"),
			single(campusAuth.MetricGuardLoading, "decision", "loading"),
			single(campusAuth.MetricGuardLoginRedirect, "decision", "login_redirect"),
			single(campusAuth.MetricGuardRoleRedirect, "decision", "role_redirect"),
		},
	},
}

// Auth latency histogram.
const (
	LatencyName = "campus_auth_latency_seconds"
	LatencyHelp = "Login and register latency, simulated round trip included."
)

// Session gauges, read from the live snapshot rather than the counters.
const (
	AuthenticatedName = "campus_session_authenticated"
	AuthenticatedHelp = "1 for the role of the signed-in user, 0 for every other role."
	LoadingName       = "campus_session_loading"
	LoadingHelp       = "1 while the session is restoring or a login is in flight."
)

// DroppedName counts notifications lost to a full async dispatcher.
const (
	DroppedName = "campus_notifications_dropped_total"
	DroppedHelp = "Notifications dropped due to dispatcher backpressure."
)

// HistogramBounds are the upper bounds, in seconds, of the latency buckets. They are
// used verbatim as the le label.
var HistogramBounds = []string{
	"0.01",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"1",
	"2.5",
	"+Inf",
}

// RoleGauge is one point of the authenticated gauge.
type RoleGauge struct {
	Role  string
	Value int64
}

// AuthenticatedByRole returns one point per role, in role order. At most one is 1.
func AuthenticatedByRole(snap campusAuth.Snapshot) []RoleGauge {
	roles := permission.AllRoles()
	out := make([]RoleGauge, 0, len(roles))
	for _, r := range roles {
		g := RoleGauge{Role: r.String()}
		if snap.User != nil && snap.User.Role == r {
			g.Value = 1
		}
		out = append(out, g)
	}
	return out
}

// NormalizeBuckets pads or truncates raw to the fixed bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
