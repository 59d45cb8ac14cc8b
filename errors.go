package campusAuth

import "errors"

var (
	// ErrInvalidCredentials is returned by Login when the email or password is empty.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrMissingFields is returned by Register when a required field is absent.
	ErrMissingFields = errors.New("please fill in all required fields")
	// ErrSessionPersistFailed is returned when the new user could not be written to storage.
	ErrSessionPersistFailed = errors.New("session persist failed")
	// ErrEngineNotReady is returned when an Engine method is called on a nil or unbuilt Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
