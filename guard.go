package campusAuth

import (
	"context"
	"net/url"
	"strings"

	"github.com/MrEthical07/campusAuth/permission"
	"github.com/MrEthical07/campusAuth/session"
)

// DefaultLoginPath is the login page used by [Authorize].
const DefaultLoginPath = "/login"

// DecisionKind is the outcome class of a guard evaluation.
type DecisionKind uint8

const (
	// DecisionRender shows the protected content.
	DecisionRender DecisionKind = iota
	// DecisionShowLoading shows a loading indicator; the session is not settled yet.
	DecisionShowLoading
	// DecisionRedirect sends the visitor to Target.
	DecisionRedirect
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionRender:
		return "render"
	case DecisionShowLoading:
		return "loading"
	case DecisionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating a route against a session snapshot.
//
// For a redirect to the login page Origin carries the route the visitor asked for.
// Replace is set on every redirect. A render carries the user of the evaluated snapshot,
// which is nil on public routes visited anonymously.
type Decision struct {
	Kind    DecisionKind
	Target  string
	Origin  string
	Replace bool
	User    *session.User
}

// Authorize evaluates one route against snap. It is a pure function; the rules apply
// in order:
//
//  1. loading session: show loading
//  2. no user: redirect to the login page, remembering route as the origin
//  3. restricted route and role not in allowed: redirect to the role's home path
//  4. otherwise: render
func Authorize(snap Snapshot, route string, allowed permission.RoleSet, restricted bool) Decision {
	return authorize(snap, route, allowed, restricted, DefaultLoginPath)
}

func authorize(snap Snapshot, route string, allowed permission.RoleSet, restricted bool, loginPath string) Decision {
	if snap.Loading {
		return Decision{Kind: DecisionShowLoading}
	}
	if snap.User == nil {
		return Decision{
			Kind:    DecisionRedirect,
			Target:  loginPath,
			Origin:  route,
			Replace: true,
		}
	}
	if restricted && !allowed.Has(snap.User.Role) {
		return Decision{
			Kind:    DecisionRedirect,
			Target:  permission.HomePath(snap.User.Role),
			Replace: true,
		}
	}
	return Decision{Kind: DecisionRender, User: snap.User}
}

// Authorize evaluates route against the live session. With no roles given any
// authenticated user may render the route.
func (e *Engine) Authorize(route string, allowed ...permission.Role) Decision {
	set := permission.NewRoleSet(allowed...)
	return e.decide(route, set, !set.Empty())
}

// AuthorizePath looks path up in the route table. Public and unknown paths render;
// restricted paths are evaluated with the table's allowed roles.
func (e *Engine) AuthorizePath(path string) Decision {
	if e == nil {
		return Decision{Kind: DecisionRender}
	}
	rule, ok := e.routes.Lookup(path)
	if !ok || rule.Public {
		return Decision{Kind: DecisionRender, User: e.CurrentUser()}
	}
	return e.decide(path, rule.Allowed, !rule.Allowed.Empty())
}

func (e *Engine) decide(route string, allowed permission.RoleSet, restricted bool) Decision {
	if e == nil {
		return Decision{Kind: DecisionShowLoading}
	}
	d := authorize(e.Snapshot(), route, allowed, restricted, e.config.Redirect.LoginPath)
	switch {
	case d.Kind == DecisionShowLoading:
		e.metricInc(MetricGuardLoading)
	case d.Kind == DecisionRedirect && d.Origin != "":
		e.metricInc(MetricGuardLoginRedirect)
	case d.Kind == DecisionRedirect:
		e.metricInc(MetricGuardRoleRedirect)
	default:
		e.metricInc(MetricGuardRender)
	}
	return d
}

// PostAuthTarget returns where a freshly authenticated user with role lands. By default
// that is always the role's home path. With Config.Redirect.ReturnToOrigin set, the origin
// carried by ctx (see [WithOrigin]) wins when the route table lists it as a restricted
// route admitting role.
func (e *Engine) PostAuthTarget(ctx context.Context, role permission.Role) string {
	home := permission.HomePath(role)
	if e == nil || !e.config.Redirect.ReturnToOrigin {
		return home
	}
	origin, ok := OriginFromContext(ctx)
	if !ok {
		return home
	}
	path, ok := localPath(origin)
	if !ok {
		return home
	}
	rule, found := e.routes.Lookup(path)
	if !found || rule.Public {
		return home
	}
	if !rule.Allowed.Empty() && !rule.Allowed.Has(role) {
		return home
	}
	return origin
}

// localPath returns the path of a same-site reference. Absolute URLs, scheme-relative
// references and anything with a host are rejected.
func localPath(ref string) (string, bool) {
	if !strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "//") || strings.HasPrefix(ref, "/\\") {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "", false
	}
	return u.Path, true
}
