/*
errors.go - Error types for period construction

PURPOSE:
  All error types of the period package in one place. Callers branch on
  the sentinels with errors.Is; the structured types carry the rejected
  input for messages and logs.

USAGE:
  iv, err := period.Build(0, period.PrecisionMonth, now)
  if errors.Is(err, period.ErrInvalidPeriodLength) {
      ...
  }

SEE ALSO:
  - builder.go: Returns these errors
  - api/handlers.go: Maps them to HTTP status codes
*/
package period

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPrecision is returned when a precision is not one of the
	// enumerated values.
	ErrInvalidPrecision = errors.New("invalid precision")

	// ErrInvalidPeriodLength is returned when a period length is below 1.
	ErrInvalidPeriodLength = errors.New("invalid period length")

	// ErrMissingReference is returned when an interval is built without a
	// reference instant and no clock is available.
	ErrMissingReference = errors.New("missing reference instant")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidPrecisionError reports the rejected precision value.
type InvalidPrecisionError struct {
	Value string
}

func (e *InvalidPrecisionError) Error() string {
	return fmt.Sprintf("invalid precision %q: must be one of %v", e.Value, Precisions())
}

func (e *InvalidPrecisionError) Unwrap() error {
	return ErrInvalidPrecision
}

// InvalidPeriodLengthError reports the rejected period length.
type InvalidPeriodLengthError struct {
	Length int
}

func (e *InvalidPeriodLengthError) Error() string {
	return fmt.Sprintf("invalid period length %d: must be at least 1", e.Length)
}

func (e *InvalidPeriodLengthError) Unwrap() error {
	return ErrInvalidPeriodLength
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPrecision) ||
		errors.Is(err, ErrInvalidPeriodLength) ||
		errors.Is(err, ErrMissingReference)
}
