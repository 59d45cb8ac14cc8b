package flows

import (
	"context"

	"github.com/MrEthical07/campusAuth/permission"
	"github.com/MrEthical07/campusAuth/session"
)

// RegisterInput is the flow-local registration form.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Role       permission.Role
	Department string
}

// RegisterDeps captures register dependencies.
type RegisterDeps struct {
	AuthDeps
	MissingFields error
}

// RunRegister waits out the simulated round trip, then creates the user from the form
// verbatim. Name, email, password and a valid role are required.
func RunRegister(ctx context.Context, in RegisterInput, deps RegisterDeps) (*session.User, error) {
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
		deps.Notify(ctx, deps.Events.Failure, "Registration Failed", failureDescription(err, deps.AuthDeps), true, "")
		return nil, err
	}

	if in.Name == "" || in.Email == "" || in.Password == "" || !in.Role.Valid() {
		return fail(deps.MissingFields)
	}

	u := &session.User{
		ID:         deps.NewUserID(),
		Name:       in.Name,
		Email:      in.Email,
		Role:       in.Role,
		Department: in.Department,
	}
	if err := establish(ctx, u, deps.AuthDeps); err != nil {
		return fail(err)
	}

	deps.MetricInc(deps.Metrics.Success)
	deps.Notify(ctx, deps.Events.Success, "Registration Successful", "Welcome to KJ CONNECT, "+u.Name+"!", false, u.ID)
	deps.Navigate(ctx, deps.Target(ctx, u), true)
	return u, nil
}
