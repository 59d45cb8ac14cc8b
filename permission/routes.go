package permission

import (
	"errors"
	"sync"
)

// Route is one entry of the route access table. A public route has no role
// restriction; a restricted route admits only the roles in Allowed.
type Route struct {
	Path    string
	Allowed RoleSet
	Public  bool
}

// RouteTable maps paths to access rules in registration order.
//
// Register calls must happen before [RouteTable.Freeze]; lookups are safe for
// concurrent use at any time.
type RouteTable struct {
	mu     sync.RWMutex
	order  []string
	routes map[string]Route
	frozen bool
}

// NewRouteTable returns an empty, unfrozen table.
func NewRouteTable() *RouteTable {
	return &RouteTable{
		routes: make(map[string]Route),
	}
}

// RegisterPublic adds a path that every visitor may render.
func (t *RouteTable) RegisterPublic(path string) error {
	return t.register(Route{Path: path, Public: true})
}

// Register adds a restricted path. At least one valid role is required.
func (t *RouteTable) Register(path string, allowed ...Role) error {
	set := NewRoleSet(allowed...)
	if set.Empty() {
		return errors.New("restricted route requires at least one role")
	}
	return t.register(Route{Path: path, Allowed: set})
}

func (t *RouteTable) register(route Route) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.frozen {
		return errors.New("route table frozen")
	}
	if route.Path == "" || route.Path[0] != '/' {
		return errors.New("route path must start with /")
	}
	if _, exists := t.routes[route.Path]; exists {
		return errors.New("route already registered: " + route.Path)
	}

	t.routes[route.Path] = route
	t.order = append(t.order, route.Path)
	return nil
}

// Lookup returns the rule for path, or false when the path is not in the table.
func (t *RouteTable) Lookup(path string) (Route, bool) {
	if t == nil {
		return Route{}, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	route, ok := t.routes[path]
	return route, ok
}

// Routes returns a copy of the table in registration order.
func (t *RouteTable) Routes() []Route {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Route, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, t.routes[p])
	}
	return out
}

// Freeze prevents further registrations.
func (t *RouteTable) Freeze() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frozen = true
}

func (t *RouteTable) Frozen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frozen
}

// Count returns the number of registered routes.
func (t *RouteTable) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}

// DefaultRoutes returns the frozen portal table: six public pages and one
// dashboard per role.
func DefaultRoutes() *RouteTable {
	t := NewRouteTable()
	for _, p := range []string{"/", "/events", "/internships", "/exam-cell", "/login", "/about"} {
		_ = t.RegisterPublic(p)
	}
	for _, r := range AllRoles() {
		_ = t.Register(HomePath(r), r)
	}
	t.Freeze()
	return t
}
