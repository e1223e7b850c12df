package apperrors

import "errors"

// Error kinds. Every error returned by a service wraps exactly one of these.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrTooMany      = errors.New("too many requests")
	ErrInternal     = errors.New("internal error")
)

// Registration errors
var (
	ErrFormNotFound         = NewCustomError(ErrNotFound, "Registration form not found")
	ErrRegistrationNotFound = NewCustomError(ErrNotFound, "Registration not found")
	ErrRegistrationClosed   = NewCustomError(ErrForbidden, "Registration is currently closed")
	ErrAlreadyRegistered    = NewCustomError(ErrConflict, "You have already registered for this exam. Each student can only register once per form.")
)

// Student errors
var (
	ErrStudentNotFound = NewCustomError(ErrNotFound, "Student not found")
)

// Authentication errors
var (
	ErrInvalidCredentials = NewCustomError(ErrUnauthorized, "Invalid username or password")
	ErrAccountInactive    = NewCustomError(ErrUnauthorized, "Account is inactive. Please contact administrator.")
	ErrSessionInvalid     = NewCustomError(ErrUnauthorized, "Not authenticated")
	ErrTooManyAttempts    = NewCustomError(ErrTooMany, "Too many login attempts. Please try again later.")
	ErrUserExists         = NewCustomError(ErrConflict, "Username or email already exists")
)

// NewNotFoundError creates a not-found error with a message
func NewNotFoundError(message string) error {
	return NewCustomError(ErrNotFound, message)
}

// NewForbiddenError creates a forbidden error with a message
func NewForbiddenError(message string) error {
	return NewCustomError(ErrForbidden, message)
}

// NewConflictError creates a conflict error with a message
func NewConflictError(message string) error {
	return NewCustomError(ErrConflict, message)
}

// NewInvalidInputError creates an invalid-input error with a message
func NewInvalidInputError(message string) error {
	return NewCustomError(ErrInvalidInput, message)
}

// NewInternalError wraps an unexpected failure. The cause is kept for logging only.
func NewInternalError(message string, cause error) error {
	return &CustomError{Err: ErrInternal, Message: message, Cause: cause}
}

// CustomError carries an error kind together with a user-facing message
type CustomError struct {
	Err     error
	Message string
	Cause   error
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As
func (e *CustomError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// NewCustomError creates a CustomError with underlying kind
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// Message returns the user-facing message of err, or fallback when err carries none
func Message(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}
