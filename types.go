package campusAuth

import (
	"github.com/MrEthical07/campusAuth/permission"
	"github.com/MrEthical07/campusAuth/session"
)

// State is the session lifecycle state.
type State uint8

const (
	// StateUninitialized means Restore has not run yet.
	StateUninitialized State = iota
	// StateRestoring means Restore is reading durable storage.
	StateRestoring
	// StateAnonymous means nobody is logged in.
	StateAnonymous
	// StateAuthenticated means a current user is set.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRestoring:
		return "restoring"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is a consistent view of the session at one instant.
//
// Loading is true before the first restore finishes, while restoring, and while a login
// or register is in flight. During an in-flight login the previous identity is still
// reported; Loading never implies "logged out".
type Snapshot struct {
	User    *session.User `json:"user"`
	Loading bool          `json:"loading"`
	State   State         `json:"state"`
}

// Authenticated reports whether a current user is set.
func (s Snapshot) Authenticated() bool {
	return s.User != nil
}

// RegisterRequest carries the registration form. Department is optional.
type RegisterRequest struct {
	Name       string
	Email      string
	Password   string
	Role       permission.Role
	Department string
}
