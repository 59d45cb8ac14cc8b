package campusAuth

import "context"

type originContextKey struct{}

// WithOrigin attaches the path the visitor originally requested before being sent to the
// login page. [Engine.PostAuthTarget] may return it after a successful login or register.
func WithOrigin(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, originContextKey{}, path)
}

// OriginFromContext returns the origin set by [WithOrigin], if any.
func OriginFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	origin, _ := ctx.Value(originContextKey{}).(string)
	return origin, origin != ""
}
