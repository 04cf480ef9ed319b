package booking

import (
	"context"
	"time"

	"github.com/iliyamo/ev-station-booking/internal/model"
)

// Store is the persistence boundary of the booking engine.  The MySQL
// repository implements it in production; tests inject the in-memory
// store from memory.go.  Implementations must keep all timestamps in
// UTC.
//
// The conflict check in the engine is a read (ListActive) followed by a
// write (Create/Update).  A production implementation must make that
// pair serializable, for example with a unique constraint or row lock
// over (station_id, slot_number, date) during commit, or two
// concurrent creates can both pass the check before either lands.
type Store interface {
	// Create persists a new reservation.  The engine has already
	// assigned the ID and timestamps.
	Create(ctx context.Context, r *model.Reservation) error

	// GetByID returns the reservation with the given id or
	// ErrReservationNotFound.
	GetByID(ctx context.Context, id string) (*model.Reservation, error)

	// GetByToken resolves a QR token to its reservation or returns
	// ErrTokenNotFound.
	GetByToken(ctx context.Context, token string) (*model.Reservation, error)

	// ListActive returns every PENDING or APPROVED reservation for the
	// station on the given civil date.  This is the comparison set for
	// conflict detection.
	ListActive(ctx context.Context, stationID, date string) ([]model.Reservation, error)

	// ListByOwner returns all reservations of one account, newest
	// first.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Reservation, error)

	// ListApprovedStartingBetween returns APPROVED reservations whose
	// start instant falls in [from, to).  Used by the reminder job.
	ListApprovedStartingBetween(ctx context.Context, from, to time.Time) ([]model.Reservation, error)

	// CountActiveByStation returns how many PENDING or APPROVED
	// reservations reference the station.  Station deactivation is
	// refused while this is non-zero.
	CountActiveByStation(ctx context.Context, stationID string) (int, error)

	// Update overwrites the stored reservation identified by r.ID or
	// returns ErrReservationNotFound.
	Update(ctx context.Context, r *model.Reservation) error
}

// StationStore is the read side of station reference data needed by the
// engine: capacity bounds and pricing.
type StationStore interface {
	// GetStation returns the station with the given id or
	// ErrStationNotFound.
	GetStation(ctx context.Context, id string) (*model.Station, error)
}
