package booking

import (
	"time"

	"github.com/iliyamo/ev-station-booking/internal/model"
)

// Temporal business rules governing reservation mutability.
const (
	// AdvanceBookingDays is the forward horizon for new reservations:
	// a booking date must fall in [today, today+AdvanceBookingDays].
	AdvanceBookingDays = 7

	// ModificationNoticeHours is the minimum gap between "now" and the
	// reservation start for a modification or cancellation to be
	// accepted.  The boundary is inclusive: exactly 12 hours of notice
	// is still allowed.
	ModificationNoticeHours = 12

	// Bounds on a single charging session.  Both are float constants so
	// they can feed duration arithmetic and formatting directly.
	MinDurationHours = 0.5
	MaxDurationHours = 8.0
)

// CanCreate reports whether a reservation may be created for the given
// civil date.  The comparison is done at day granularity in UTC:
// time-of-day is stripped from now before comparing, so a booking for
// today is always inside the window regardless of the hour.
func CanCreate(date string, now time.Time) bool {
	d, err := time.ParseInLocation(model.DateLayout, date, time.UTC)
	if err != nil {
		return false
	}
	today := now.UTC().Truncate(24 * time.Hour)
	latest := today.AddDate(0, 0, AdvanceBookingDays)
	return !d.Before(today) && !d.After(latest)
}

// CanModify reports whether a reservation may still be modified or
// cancelled: the gap between now and the reservation start must be at
// least ModificationNoticeHours.  The start instant is derived from the
// stored date and start time in UTC – never from a client-supplied
// patch.
func CanModify(r *model.Reservation, now time.Time) bool {
	start, err := r.StartsAt()
	if err != nil {
		return false
	}
	return start.Sub(now.UTC()) >= ModificationNoticeHours*time.Hour
}
