// Package booking implements the reservation rule engine: field
// validation, slot conflict detection, the temporal eligibility policy,
// the reservation state machine and the QR check-in workflow.  The
// package owns no I/O of its own – persistence is injected through the
// Store and StationStore interfaces so the same engine runs against
// MySQL in production and an in-memory store in tests.
package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/ev-station-booking/internal/model"
)

// Sentinel errors shared across the engine.  Higher layers translate
// these into HTTP responses: not-found conditions become 404, the
// remaining ones 409.  Comparing with errors.Is is the supported way to
// distinguish them.
var (
	// ErrReservationNotFound is returned when an id resolves to no
	// stored reservation.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrStationNotFound is returned when a reservation references an
	// unknown station.
	ErrStationNotFound = errors.New("station not found")

	// ErrStationInactive is returned when a reservation targets a
	// station that is not accepting bookings.
	ErrStationInactive = errors.New("station is not active")

	// ErrTokenNotFound is returned by Scan when the presented QR token
	// maps to no reservation.
	ErrTokenNotFound = errors.New("qr token not found")

	// ErrAlreadyCompleted is returned by Scan when the resolved
	// reservation has already been completed.
	ErrAlreadyCompleted = errors.New("reservation already completed")
)

// FieldValidationError reports that a single input field is missing or
// malformed.  It is recoverable: the caller corrects the field and
// retries.
type FieldValidationError struct {
	Field   string
	Message string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ConflictError reports that the requested slot and time range is
// already taken by another active reservation.
type ConflictError struct {
	StationID  string
	SlotNumber int
	Date       string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot %d at station %s is already booked on %s", e.SlotNumber, e.StationID, e.Date)
}

// CreationWindowError reports a booking date outside the forward
// advance-booking horizon.
type CreationWindowError struct {
	Date string
}

func (e *CreationWindowError) Error() string {
	return fmt.Sprintf("date %s is outside the %d-day booking window", e.Date, AdvanceBookingDays)
}

// ModificationWindowError reports a mutation attempt inside the minimum
// notice period before the reservation starts.  It is distinct from a
// validation error so callers can surface "too late to modify" rather
// than a generic message.
type ModificationWindowError struct {
	ReservationID string
	StartsAt      time.Time
}

func (e *ModificationWindowError) Error() string {
	return fmt.Sprintf("reservation %s starting at %s can no longer be modified (%dh notice required)",
		e.ReservationID, e.StartsAt.Format(time.RFC3339), ModificationNoticeHours)
}

// IllegalTransitionError reports a state-machine violation.  A
// well-behaved client never triggers it, but every transition is
// checked regardless.
type IllegalTransitionError struct {
	From model.ReservationStatus
	To   model.ReservationStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s", e.From, e.To)
}
