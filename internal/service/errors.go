package service

import "errors"

var (
	// ErrInvalidActivityID is returned when activity ID is empty.
	ErrInvalidActivityID = errors.New("invalid activity id")

	// ErrInvalidWizardID is returned when wizard ID is empty.
	ErrInvalidWizardID = errors.New("invalid wizard id")

	// ErrInvalidBookingID is returned when a booking ID or reference is blank.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidGuestCount is returned when a quote asks for negative guest counts.
	ErrInvalidGuestCount = errors.New("guest counts must not be negative")

	// ErrWizardNotFound is returned when a wizard session is missing or expired.
	ErrWizardNotFound = errors.New("wizard not found or expired")

	// ErrWizardBusy is returned when another request holds the wizard, typically a submission in flight.
	ErrWizardBusy = errors.New("wizard is busy with another request")

	// ErrPersistenceFailed is returned when the booking store rejects a write.
	ErrPersistenceFailed = errors.New("failed to persist booking")

	// ErrNotificationFailed is returned when one or more notification channels fail.
	ErrNotificationFailed = errors.New("failed to deliver booking notification")
)
