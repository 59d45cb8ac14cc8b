package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/MrEthical07/campusAuth/permission"
	"github.com/MrEthical07/campusAuth/session"
)

// FromParam is the query parameter carrying the originally requested URI on a
// redirect to the login page.
const FromParam = "from"

// RetryAfterSeconds is sent with the loading response.
const RetryAfterSeconds = 1

type userContextKey struct{}

// UserFromContext returns the user injected by a guard.
func UserFromContext(ctx context.Context) (*session.User, bool) {
	u, ok := ctx.Value(userContextKey{}).(*session.User)
	return u, ok && u != nil
}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *session.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// Guard admits the roles in allowed. With no roles any authenticated user passes.
func Guard(engine *campusAuth.Engine, allowed ...permission.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
			serve(engine.Authorize(r.URL.Path, allowed...), next, w, r)
		})
	}
}

// RouteGuard evaluates every request against the Engine's route table. Public and
// unregistered paths pass through untouched.
func RouteGuard(engine *campusAuth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
			serve(engine.AuthorizePath(r.URL.Path), next, w, r)
		})
	}
}

// serve acts on d alone; the rendered user is the one d was decided for.
func serve(d campusAuth.Decision, next http.Handler, w http.ResponseWriter, r *http.Request) {
	switch d.Kind {
	case campusAuth.DecisionShowLoading:
		w.Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
		w.Header().Set("Cache-Control", "no-store")
		http.Error(w, "Loading...", http.StatusServiceUnavailable)
	case campusAuth.DecisionRedirect:
		target := d.Target
		if d.Origin != "" {
			target = LoginURL(d.Target, r.URL.RequestURI())
		}
		w.Header().Set("Cache-Control", "no-store")
		http.Redirect(w, r, target, http.StatusFound)
	default:
		ctx := r.Context()
		if d.User != nil {
			ctx = WithUser(ctx, d.User)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// LoginURL builds the login redirect target carrying origin.
func LoginURL(loginPath, origin string) string {
	if origin == "" {
		return loginPath
	}
	return loginPath + "?" + url.Values{FromParam: {origin}}.Encode()
}
