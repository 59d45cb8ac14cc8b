package flows

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

func wrapPersist(sentinel, err error) error {
	if sentinel == nil {
		return err
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

// PersistFailedDescription is shown instead of the storage error, which stays in the log.
const PersistFailedDescription = "Your session could not be saved. Please try again."

// failureDescription returns the notification text for a failed login or register.
func failureDescription(err error, deps AuthDeps) string {
	if deps.PersistFailed != nil && errors.Is(err, deps.PersistFailed) {
		deps.Warn("campusAuth: persisting session failed", "error", err)
		return PersistFailedDescription
	}
	return Describe(err)
}

// Describe turns an error into notification text: the error message with its first
// letter upper-cased.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
