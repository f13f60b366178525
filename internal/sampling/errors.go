package sampling

import (
	"fmt"
	"net/http"
)

// invalidInputError signals malformed mode-specific fields (400).
type invalidInputError struct{ msg string }

func (e invalidInputError) Error() string   { return e.msg }
func (e invalidInputError) StatusCode() int { return http.StatusBadRequest }

// ErrInvalidInput constructs an invalidInputError.
func ErrInvalidInput(format string, args ...any) error {
	return invalidInputError{msg: fmt.Sprintf(format, args...)}
}

// IsInvalidInput reports whether err indicates malformed request fields.
func IsInvalidInput(err error) bool {
	_, ok := err.(invalidInputError)
	return ok
}

// backendNotReadyError signals that no model is loaded yet (401). It carries
// the backend's last recorded error when one exists.
type backendNotReadyError struct{ msg string }

func (e backendNotReadyError) Error() string   { return e.msg }
func (e backendNotReadyError) StatusCode() int { return http.StatusUnauthorized }

// IsBackendNotReady reports whether err indicates the backend has no model.
func IsBackendNotReady(err error) bool {
	_, ok := err.(backendNotReadyError)
	return ok
}

// modelMismatchError signals the caller asked for a model other than the
// loaded one (401).
type modelMismatchError struct{ requested, loaded string }

func (e modelMismatchError) Error() string {
	return fmt.Sprintf("requested model '%s' doesn't match server model '%s'", e.requested, e.loaded)
}
func (e modelMismatchError) StatusCode() int { return http.StatusUnauthorized }

// IsModelMismatch reports whether err indicates a caller/server model mismatch.
func IsModelMismatch(err error) bool {
	_, ok := err.(modelMismatchError)
	return ok
}

// unknownModelError signals the backend advertises no usable capability set (401).
type unknownModelError struct{ model string }

func (e unknownModelError) Error() string   { return fmt.Sprintf("unknown model '%s'", e.model) }
func (e unknownModelError) StatusCode() int { return http.StatusUnauthorized }

// IsUnknownModel reports whether err indicates an empty capability set.
func IsUnknownModel(err error) bool {
	_, ok := err.(unknownModelError)
	return ok
}

// capabilityUnavailableError signals chat was requested but the loaded model
// does not support it (401).
type capabilityUnavailableError struct{ model string }

func (e capabilityUnavailableError) Error() string {
	return fmt.Sprintf("chat is not available for %s model", e.model)
}
func (e capabilityUnavailableError) StatusCode() int { return http.StatusUnauthorized }

// IsCapabilityUnavailable reports whether err indicates a missing chat capability.
func IsCapabilityUnavailable(err error) bool {
	_, ok := err.(capabilityUnavailableError)
	return ok
}
