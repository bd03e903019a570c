package booking

import (
	"errors"
	"strings"
)

var (
	// ErrPastDate is returned when a date earlier than today is chosen.
	ErrPastDate = errors.New("date is in the past")

	// ErrPrevMonthDisabled is returned when navigating before the current month.
	ErrPrevMonthDisabled = errors.New("previous month is not selectable")

	// ErrInvalidDay is returned when a day outside the displayed month is selected.
	ErrInvalidDay = errors.New("day is not in the displayed month")

	// ErrPickerClosed is returned when selecting a day while the picker is closed.
	ErrPickerClosed = errors.New("date picker is closed")

	// ErrInvalidTransition is returned when an operation is not allowed in the wizard's current step.
	ErrInvalidTransition = errors.New("invalid wizard transition")

	// ErrSubmissionInProgress is returned when submit is called while a submission is in flight.
	ErrSubmissionInProgress = errors.New("submission already in progress")

	// ErrSubmissionFailed is returned when the submission gateway rejects the draft.
	ErrSubmissionFailed = errors.New("failed to create booking")

	// ErrUnknownChildPolicy is returned for an unrecognised child discount policy name.
	ErrUnknownChildPolicy = errors.New("unknown child discount policy")
)

// Messages surfaced to the guest.
const (
	MsgSelectDate     = "Please select a travel date"
	MsgDatePassed     = "The selected date has passed. Please choose another date"
	MsgFillContact    = "Please fill in all required fields"
	MsgAdultsRequired = "At least one adult is required"
	MsgSubmitFailed   = "Failed to create booking. Please try again."
)

// ValidationError is a user-correctable input problem detected before any submission.
type ValidationError struct {
	Step    Step
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
