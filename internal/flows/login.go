package flows

import (
	"context"
	"strings"

	"github.com/MrEthical07/campusAuth/permission"
	"github.com/MrEthical07/campusAuth/session"
)

// LoginDeps captures login dependencies.
type LoginDeps struct {
	AuthDeps
	InvalidCredentials error
}

// NameFromEmail returns the part of email before the first "@", or the whole email
// when it has none.
func NameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

// RunLogin waits out the simulated round trip, then accepts any non-empty email and
// password. The role is derived from the email.
func RunLogin(ctx context.Context, email, password string, deps LoginDeps) (*session.User, error) {
	if !deps.fill() {
		return nil, deps.EngineNotReady
	}

	start := deps.Now()
	deps.Sleep(deps.Latency)
	defer func() {
		deps.Observe(deps.Metrics.Latency, deps.Now().Sub(start))
	}()

	fail := func(err error) (*session.User, error) {
		deps.MetricInc(deps.Metrics.Failure)
		deps.Notify(ctx, deps.Events.Failure, "Login Failed", failureDescription(err, deps.AuthDeps), true, "")
		return nil, err
	}

	if email == "" || password == "" {
		return fail(deps.InvalidCredentials)
	}

	u := &session.User{
		ID:    deps.NewUserID(),
		Name:  NameFromEmail(email),
		Email: email,
		Role:  permission.RoleFromEmail(email),
	}
	if err := establish(ctx, u, deps.AuthDeps); err != nil {
		return fail(err)
	}

	deps.MetricInc(deps.Metrics.Success)
	deps.Notify(ctx, deps.Events.Success, "Login Successful", "Welcome back, "+u.Name+"!", false, u.ID)
	deps.Navigate(ctx, deps.Target(ctx, u), true)
	return u, nil
}
