package service

import "errors"

// Business-rule failures the handlers translate to HTTP statuses.
var (
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrQuotaExceeded   = errors.New("suggestion limit reached for this group")
	ErrAlreadyVoted    = errors.New("vote already cast in this poll")
	ErrPollNotClosed   = errors.New("poll has not ended yet")
	ErrTieOrNoVotes    = errors.New("poll has no single winner")
	ErrAheadOfProgress = errors.New("cannot comment ahead of your own progress")

	ErrStorageNotConfigured = errors.New("storage not configured")
)

// ValidationError marks malformed input: missing fields, bad ranges.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
