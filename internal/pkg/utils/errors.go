package utils

import "errors"

// workflow error taxonomy
// every transactional operation surfaces exactly one of these, wrapped with context
var (
	// ErrUnauthorized - missing or invalid credential
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden - role or ownership mismatch
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound - no such audio/transcription/user
	ErrNotFound = errors.New("not found")
	// ErrConflict - precondition race lost: double assign, double control, wrong state
	ErrConflict = errors.New("conflict")
	// ErrUnavailable - transient store or transaction failure
	ErrUnavailable = errors.New("unavailable")
)

// ErrField indicates a bad input field value
type ErrField struct {
	Field, Msg string
}

// NewErrField creates new error
func NewErrField(field, msg string) error {
	return &ErrField{Field: field, Msg: msg}
}

func (e *ErrField) Error() string {
	return "wrong field '" + e.Field + "' - " + e.Msg
}
