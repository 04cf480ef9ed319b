package model

import "time"

// ReservationStatus enumerates the lifecycle states of a reservation.
// The source of truth for legal transitions is the booking engine:
// PENDING -> APPROVED or CANCELLED, APPROVED -> COMPLETED or CANCELLED.
// COMPLETED and CANCELLED are terminal.  Cancellation is a state, not a
// deletion – cancelled rows stay in the store forever.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusApproved  ReservationStatus = "APPROVED"
	StatusCompleted ReservationStatus = "COMPLETED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// Terminal reports whether the status permits no further transitions.
func (s ReservationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Active reports whether the reservation still occupies its slot.  Only
// non-cancelled, non-completed reservations participate in conflict
// detection and block station deactivation.
func (s ReservationStatus) Active() bool {
	return s == StatusPending || s == StatusApproved
}

// Layouts for the civil date and wall-clock time fields.  All values are
// stored zero-padded so that lexicographic comparison matches temporal
// order.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Reservation is a booking of one physical charging point (SlotNumber)
// at a station for a time range on a single civil date.
//
// Fields:
//  ID            – opaque unique identifier, assigned at creation.
//  OwnerID       – account that requested the booking.
//  StationID     – target charging station.
//  SlotNumber    – charging point index within [1, station.TotalSlots].
//  Date          – civil date in DateLayout, no timezone component.
//  StartTime     – wall-clock start in ClockLayout, on Date.
//  EndTime       – wall-clock end in ClockLayout, after StartTime.
//  DurationHours – session length in 0.5h increments, 0.5 .. 8.
//  VehicleModel  – free-text vehicle description.
//  LicensePlate  – canonical plate string.
//  Status        – current lifecycle state.
//  TotalCost     – amount computed at creation/update, fixed once terminal.
//  QRToken       – opaque check-in credential, empty until approval.
//  CreatedAt     – set once at creation, never mutated.
//  UpdatedAt     – last mutation timestamp.
type Reservation struct {
	ID            string            `json:"id"`
	OwnerID       string            `json:"owner_id"`
	StationID     string            `json:"station_id"`
	SlotNumber    int               `json:"slot_number"`
	Date          string            `json:"date"`
	StartTime     string            `json:"start"`
	EndTime       string            `json:"end"`
	DurationHours float64           `json:"duration_hours"`
	VehicleModel  string            `json:"vehicle_model"`
	LicensePlate  string            `json:"license_plate"`
	Status        ReservationStatus `json:"status"`
	TotalCost     float64           `json:"total_cost"`
	QRToken       string            `json:"qr_token,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// StartsAt combines Date and StartTime into a single UTC instant.  All
// cutoff arithmetic (the 12-hour modification window in particular) must
// go through this method so the comparison is done in one time zone.
func (r *Reservation) StartsAt() (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+ClockLayout, r.Date+" "+r.StartTime, time.UTC)
}

// EndsAt combines Date and EndTime into a single UTC instant.
func (r *Reservation) EndsAt() (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+ClockLayout, r.Date+" "+r.EndTime, time.UTC)
}
