package app

import (
	"errors"
	"fmt"

	"github.com/example/certbatch/internal/core/batch"
)

// Batch-level validation failures. Messages are surfaced to clients verbatim.
var (
	ErrMissingDestination = errors.New("Google Drive folder URL required")
	ErrInvalidDestination = errors.New("Invalid folder URL")
	ErrMissingRecipients  = errors.New("CSV file required")
)

// Per-recipient failures.
var (
	ErrMissingRequiredFields     = errors.New(batch.ReasonMissingFields)
	ErrPublishVerificationFailed = errors.New("publish verification failed")
)

// ValidationError rejects a whole batch before any recipient is processed.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError wraps err as a batch-level validation failure.
func NewValidationError(err error) *ValidationError {
	return &ValidationError{Err: err}
}

// IsValidationError reports whether err rejects the batch as a client error.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// StepError records which pipeline step failed for a recipient. Its message
// is the underlying message, unchanged.
type StepError struct {
	Step       batch.Step
	TemplateID string // empty for recipient-wide steps
	Err        error
}

func (e *StepError) Error() string { return e.Err.Error() }

func (e *StepError) Unwrap() error { return e.Err }

func stepFailed(step batch.Step, templateID string, err error) error {
	return &StepError{Step: step, TemplateID: templateID, Err: err}
}

func verificationFailed(fileName, folderID string) error {
	return fmt.Errorf("%w: failed to find uploaded file %s in folder %s", ErrPublishVerificationFailed, fileName, folderID)
}
