package campusAuth

import (
	"errors"
	"log/slog"

	"github.com/MrEthical07/campusAuth/jwt"
	"github.com/MrEthical07/campusAuth/permission"
	"github.com/MrEthical07/campusAuth/session"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. A Builder is single use.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	storage   session.Storage
	codec     session.Codec
	routes    *permission.RouteTable
	notifier  Notifier
	navigator Navigator
	logger    *slog.Logger

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis stores the session in Redis under Config.Session.RedisPrefix.
// WithStorage takes precedence when both are set.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

func (b *Builder) WithStorage(s session.Storage) *Builder {
	b.storage = s
	return b
}

// WithCodec overrides the record encoding chosen from Config.Session.
func (b *Builder) WithCodec(c session.Codec) *Builder {
	b.codec = c
	return b
}

// WithRoutes replaces [permission.DefaultRoutes]. The table is frozen by Build.
func (b *Builder) WithRoutes(t *permission.RouteTable) *Builder {
	b.routes = t
	return b
}

func (b *Builder) WithNotifier(n Notifier) *Builder {
	b.notifier = n
	return b
}

func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.navigator = n
	return b
}

func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready Engine. Restore must still be
// called before the session settles.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	storage := b.storage
	if storage == nil && b.redis != nil {
		storage = session.NewRedisStorage(b.redis, cfg.Session.RedisPrefix)
	}
	if storage == nil {
		return nil, errors.New("session storage required")
	}

	codec := b.codec
	if codec == nil {
		c, err := codecFromConfig(cfg.Session)
		if err != nil {
			return nil, err
		}
		codec = c
	}

	routes := b.routes
	if routes == nil {
		routes = permission.DefaultRoutes()
	}
	routes.Freeze()

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	navigator := b.navigator
	if navigator == nil {
		navigator = noopNavigator{}
	}

	e := &Engine{
		config:    cfg,
		storage:   storage,
		codec:     codec,
		routes:    routes,
		notify:    newNotifyDispatcher(cfg.Notify, b.notifier),
		navigator: navigator,
		logger:    logger,
		metrics:   NewMetrics(cfg.Metrics),
	}
	e.initFlowDeps()

	b.built = true
	return e, nil
}

func codecFromConfig(cfg SessionConfig) (session.Codec, error) {
	if len(cfg.SigningKey) == 0 {
		return session.BinaryCodec{}, nil
	}
	return jwt.NewManager(jwt.Config{
		SigningMethod: jwt.SigningMethod(cfg.SigningMethod),
		PrivateKey:    cfg.SigningKey,
		Issuer:        cfg.Issuer,
	})
}
