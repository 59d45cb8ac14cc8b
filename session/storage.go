package session

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Load when no record is stored.
	ErrNotFound = errors.New("session record not found")
	// ErrCorrupt is returned when a stored record cannot be decoded.
	ErrCorrupt = errors.New("session record corrupt")
	// ErrStorageUnavailable wraps backend I/O failures.
	ErrStorageUnavailable = errors.New("session storage unavailable")
)

// Storage is durable single-key storage for the encoded current user.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

// Codec converts a [User] to and from its persisted form.
type Codec interface {
	Encode(u *User) ([]byte, error)
	Decode(data []byte) (*User, error)
}
