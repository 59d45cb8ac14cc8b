package campusAuth

import (
	"errors"
	"strings"
	"time"
)

// Config holds Engine settings. Start from [DefaultConfig] and override fields.
type Config struct {
	Session  SessionConfig
	Latency  LatencyConfig
	Redirect RedirectConfig
	Notify   NotifyConfig
	Metrics  MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls where and how the current user is persisted.
//
// When SigningKey is set the record is stored as a signed token ("hs256" with a shared
// secret, "ed25519" with a private key); otherwise the compact binary encoding is used.
type SessionConfig struct {
	RedisPrefix   string
	SigningMethod string
	SigningKey    []byte
	Issuer        string
}

// LatencyConfig models the remote round trip of login and register.
type LatencyConfig struct {
	Simulated time.Duration
}

// RedirectConfig holds the fixed navigation targets.
type RedirectConfig struct {
	LoginPath   string
	LandingPath string
	// ReturnToOrigin sends a freshly authenticated user back to the restricted page that
	// bounced them to the login page, provided their role may open it. Off by default:
	// every route in [permission.DefaultRoutes] admits one role and is that role's home,
	// so the option only changes the outcome with custom route tables.
	ReturnToOrigin bool
}

// NotifyConfig controls notification delivery. With Async unset, notifications are
// delivered before Login/Register/Logout return.
type NotifyConfig struct {
	Async      bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the portal defaults: one second of simulated latency, "/login"
// and "/" as fixed targets, return-to-origin enabled, synchronous notifications.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			RedisPrefix:   "campus",
			SigningMethod: "hs256",
			Issuer:        "kjconnect",
		},
		Latency: LatencyConfig{
			Simulated: time.Second,
		},
		Redirect: RedirectConfig{
			LoginPath:      "/login",
			LandingPath:    "/",
			ReturnToOrigin: false,
		},
		Notify: NotifyConfig{
			Async:      false,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Session.SigningKey = cloneBytes(cfg.Session.SigningKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Session.RedisPrefix) == "" {
		return errors.New("Session RedisPrefix must not be empty")
	}
	if len(c.Session.SigningKey) > 0 &&
		c.Session.SigningMethod != "hs256" &&
		c.Session.SigningMethod != "ed25519" {
		return errors.New("unsupported Session SigningMethod")
	}
	if c.Session.SigningMethod == "hs256" && len(c.Session.SigningKey) > 0 && len(c.Session.SigningKey) < 16 {
		return errors.New("hs256 SigningKey must be at least 16 bytes")
	}

	if c.Latency.Simulated < 0 {
		return errors.New("Latency Simulated must be >= 0")
	}
	if c.Latency.Simulated > time.Minute {
		return errors.New("Latency Simulated must be <= 1m")
	}

	if !strings.HasPrefix(c.Redirect.LoginPath, "/") {
		return errors.New("Redirect LoginPath must be an absolute path")
	}
	if !strings.HasPrefix(c.Redirect.LandingPath, "/") {
		return errors.New("Redirect LandingPath must be an absolute path")
	}

	if c.Notify.Async && c.Notify.BufferSize <= 0 {
		return errors.New("Notify BufferSize must be > 0 when Async is true")
	}

	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}
