package campusAuth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/MrEthical07/campusAuth/internal/flows"
	"github.com/MrEthical07/campusAuth/permission"
	"github.com/MrEthical07/campusAuth/session"
	"github.com/google/uuid"
)

// Engine holds the single current user of the portal.
type Engine struct {
	config    Config
	storage   session.Storage
	codec     session.Codec
	routes    *permission.RouteTable
	notify    *notifyDispatcher
	navigator Navigator
	logger    *slog.Logger
	metrics   *Metrics

	flowDeps flows.Deps

	// opMu queues login, register, logout and restore behind each other.
	opMu sync.Mutex

	mu        sync.RWMutex
	user      *session.User
	restored  bool
	restoring bool
	inFlight  int
}

func (e *Engine) initFlowDeps() {
	auth := flows.AuthDeps{
		Latency:    e.config.Latency.Simulated,
		NewUserID:  newUserID,
		Persist:    e.persist,
		SetCurrent: e.setCurrent,
		Target: func(ctx context.Context, u *session.User) string {
			return e.PostAuthTarget(ctx, u.Role)
		},
		Notify:         e.emitNotification,
		Navigate:       e.navigate,
		MetricInc:      e.metricIncInt,
		Observe:        e.observeInt,
		Warn:           e.logger.Warn,
		EngineNotReady: ErrEngineNotReady,
		PersistFailed:  ErrSessionPersistFailed,
	}

	login := auth
	login.Metrics = flows.AuthMetrics{
		Success: int(MetricLoginSuccess),
		Failure: int(MetricLoginFailure),
		Latency: int(MetricAuthLatency),
	}
	login.Events = flows.AuthEvents{Success: eventLoginSuccess, Failure: eventLoginFailure}

	register := auth
	register.Metrics = flows.AuthMetrics{
		Success: int(MetricRegisterSuccess),
		Failure: int(MetricRegisterFailure),
		Latency: int(MetricAuthLatency),
	}
	register.Events = flows.AuthEvents{Success: eventRegisterSuccess, Failure: eventRegisterFailure}

	e.flowDeps = flows.Deps{
		Restore: flows.RestoreDeps{
			Load:      e.storage.Load,
			Decode:    e.codec.Decode,
			MetricInc: e.metricIncInt,
			Warn:      e.logger.Warn,
			Metrics: flows.RestoreMetrics{
				Found:          int(MetricRestoreFound),
				Empty:          int(MetricRestoreEmpty),
				Malformed:      int(MetricRestoreMalformed),
				StorageFailure: int(MetricStorageFailure),
			},
		},
		Login: flows.LoginDeps{
			AuthDeps:           login,
			InvalidCredentials: ErrInvalidCredentials,
		},
		Register: flows.RegisterDeps{
			AuthDeps:      register,
			MissingFields: ErrMissingFields,
		},
		Logout: flows.LogoutDeps{
			LandingPath:    e.config.Redirect.LandingPath,
			Clear:          e.clearStorage,
			ClearCurrent:   e.clearCurrent,
			Notify:         e.emitNotification,
			Navigate:       e.navigate,
			MetricInc:      e.metricIncInt,
			Warn:           e.logger.Warn,
			LogoutMetric:   int(MetricLogout),
			StorageFailure: int(MetricStorageFailure),
			Event:          eventLogout,
		},
	}
}

func newUserID() string {
	return "user-" + uuid.NewString()
}

// Close flushes pending notifications. The Engine must not be used afterwards.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.notify.Close()
}

// NotificationsDropped returns how many notifications the async dispatcher discarded
// because its buffer was full.
func (e *Engine) NotificationsDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.notify.Dropped()
}

func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Routes returns the frozen route table.
func (e *Engine) Routes() *permission.RouteTable {
	if e == nil {
		return nil
	}
	return e.routes
}

// LoginPath returns the configured login page.
func (e *Engine) LoginPath() string {
	if e == nil {
		return DefaultLoginPath
	}
	return e.config.Redirect.LoginPath
}

/*
====================================
SESSION TRANSITIONS
====================================
*/

// Restore loads the persisted user. Missing, malformed or unreadable data leaves the
// session anonymous; Restore never fails and always settles Loading.
func (e *Engine) Restore(ctx context.Context) {
	if e == nil || e.storage == nil {
		return
	}
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	e.restoring = true
	e.mu.Unlock()

	u := flows.RunRestore(ctx, e.flowDeps.Restore)

	e.mu.Lock()
	e.user = u
	e.restored = true
	e.restoring = false
	e.mu.Unlock()
}

// Login authenticates with any non-empty email and password after the simulated round
// trip. The role is derived from the email. Failures are notified and returned; the
// previous session is kept.
func (e *Engine) Login(ctx context.Context, email, password string) error {
	if e == nil || e.storage == nil {
		return ErrEngineNotReady
	}
	e.beginInFlight()
	defer e.endInFlight()

	e.opMu.Lock()
	defer e.opMu.Unlock()

	_, err := flows.RunLogin(ctx, email, password, e.flowDeps.Login)
	return err
}

// Register creates a user from the form after the simulated round trip.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) error {
	if e == nil || e.storage == nil {
		return ErrEngineNotReady
	}
	e.beginInFlight()
	defer e.endInFlight()

	e.opMu.Lock()
	defer e.opMu.Unlock()

	_, err := flows.RunRegister(ctx, flows.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Department: req.Department,
	}, e.flowDeps.Register)
	return err
}

// Logout clears the session and navigates to the landing page. It cannot fail; storage
// errors are logged.
func (e *Engine) Logout(ctx context.Context) {
	if e == nil || e.storage == nil {
		return
	}
	e.opMu.Lock()
	defer e.opMu.Unlock()

	flows.RunLogout(ctx, e.flowDeps.Logout)
}

/*
====================================
ACCESSORS
====================================
*/

// Snapshot returns a consistent copy of the session state.
func (e *Engine) Snapshot() Snapshot {
	if e == nil {
		return Snapshot{Loading: true}
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := Snapshot{
		User:    e.user.Clone(),
		Loading: !e.restored || e.restoring || e.inFlight > 0,
	}
	switch {
	case e.restoring:
		s.State = StateRestoring
	case !e.restored:
		s.State = StateUninitialized
	case e.user != nil:
		s.State = StateAuthenticated
	default:
		s.State = StateAnonymous
	}
	return s
}

func (e *Engine) State() State {
	return e.Snapshot().State
}

// CurrentUser returns a copy of the current user, or nil.
func (e *Engine) CurrentUser() *session.User {
	if e == nil {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.user.Clone()
}

func (e *Engine) IsAuthenticated() bool {
	if e == nil {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.user != nil
}

func (e *Engine) IsLoading() bool {
	return e.Snapshot().Loading
}

/*
====================================
FLOW DEPENDENCIES
====================================
*/

func (e *Engine) beginInFlight() {
	e.mu.Lock()
	e.inFlight++
	e.mu.Unlock()
}

func (e *Engine) endInFlight() {
	e.mu.Lock()
	e.inFlight--
	e.mu.Unlock()
}

// persist runs detached from ctx cancellation; a started login always completes.
func (e *Engine) persist(ctx context.Context, u *session.User) error {
	data, err := e.codec.Encode(u)
	if err != nil {
		return err
	}
	return e.storage.Save(context.WithoutCancel(ctx), data)
}

func (e *Engine) clearStorage(ctx context.Context) error {
	return e.storage.Clear(context.WithoutCancel(ctx))
}

// setCurrent also settles a session that was never restored.
func (e *Engine) setCurrent(u *session.User) {
	e.mu.Lock()
	e.user = u.Clone()
	e.restored = true
	e.mu.Unlock()
}

func (e *Engine) clearCurrent() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var id string
	if e.user != nil {
		id = e.user.ID
	}
	e.user = nil
	e.restored = true
	return id
}

func (e *Engine) emitNotification(ctx context.Context, event, title, description string, destructive bool, userID string) {
	variant := VariantDefault
	if destructive {
		variant = VariantDestructive
	}
	e.notify.Notify(ctx, Notification{
		Timestamp:   time.Now().UTC(),
		Event:       event,
		Title:       title,
		Description: description,
		Variant:     variant,
		UserID:      userID,
	})
}

func (e *Engine) navigate(ctx context.Context, path string, replace bool) {
	nav := Navigation{Path: path, Replace: replace}
	if origin, ok := OriginFromContext(ctx); ok && origin != path {
		nav.From = origin
	}
	e.navigator.Navigate(ctx, nav)
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricIncInt(id int) {
	e.metricInc(MetricID(id))
}

func (e *Engine) observeInt(id int, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(MetricID(id), d)
}
