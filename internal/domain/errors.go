package domain

import "errors"

// Domain errors
var (
	// Validation errors
	ErrValidation        = errors.New("validation error")
	ErrMissingTitle      = errors.New("title is required")
	ErrMissingDate       = errors.New("date is required")
	ErrMissingTime       = errors.New("time is required")
	ErrMissingStation    = errors.New("station is required")
	ErrInvalidDate       = errors.New("date must be YYYY-MM-DD")
	ErrInvalidTime       = errors.New("time must be HH:MM")
	ErrInvalidSpiceLevel = errors.New("spice level must be between 0 and 3")
	ErrInvalidCapacity   = errors.New("capacity must be a positive number")
	ErrInvalidSlot       = errors.New("arrival slot interval must be a positive number of minutes")
	ErrInvalidBuffer     = errors.New("buffer time cannot be negative")
	ErrInvalidTheme      = errors.New("unknown theme")
	ErrInvalidImageURL   = errors.New("image url must be an absolute http(s) url")
	ErrMissingGuestName  = errors.New("guest name is required")
	ErrInvalidDiet       = errors.New("unknown dietary restriction")
	ErrInvalidBottle     = errors.New("unknown bottle option")
	ErrInvalidEventID    = errors.New("invalid event id")

	// Lookup errors
	ErrEventNotFound = errors.New("event not found")

	// Admission errors
	ErrCapacityExceeded = errors.New("event is at capacity")
	ErrDuplicateRSVP    = errors.New("this device has already RSVP'd to the event")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrEventNotFound)
}

// IsAdmissionError checks if the error is an expected RSVP rejection
func IsAdmissionError(err error) bool {
	return errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrDuplicateRSVP)
}

// IsStorageError checks if the error came from the backing medium
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// validationError joins ErrValidation with the field-level cause so callers can
// match either one with errors.Is.
type validationError struct {
	cause error
}

func (e *validationError) Error() string {
	return e.cause.Error()
}

func (e *validationError) Unwrap() []error {
	return []error{ErrValidation, e.cause}
}

// NewValidationError wraps a field error as a validation error
func NewValidationError(cause error) error {
	return &validationError{cause: cause}
}

// storageError joins ErrStorageUnavailable with the medium's own error.
type storageError struct {
	op    string
	cause error
}

func (e *storageError) Error() string {
	return e.op + ": " + ErrStorageUnavailable.Error() + ": " + e.cause.Error()
}

func (e *storageError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.cause}
}

// NewStorageError wraps a backend failure for the given operation
func NewStorageError(op string, cause error) error {
	return &storageError{op: op, cause: cause}
}
