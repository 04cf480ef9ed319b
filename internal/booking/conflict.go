package booking

import "github.com/iliyamo/ev-station-booking/internal/model"

// HasConflict reports whether the candidate reservation overlaps any of
// the supplied existing reservations.  Two reservations conflict iff
// they share station, slot number and date, neither is cancelled, and
// their time ranges overlap as half-open intervals: touching endpoints
// (one ends exactly when the other starts) do not conflict.
//
// excludeID lets an in-place edit exclude itself from the comparison
// set; pass the empty string for a create.  The function is pure over
// the supplied slice – fetching the active set is the caller's job.
//
// Time values are compared as strings, which is correct because all
// stored times are zero-padded "HH:MM" (enforced by ValidateClockTime).
func HasConflict(candidate *model.Reservation, existing []model.Reservation, excludeID string) bool {
	for i := range existing {
		ex := &existing[i]
		if excludeID != "" && ex.ID == excludeID {
			continue
		}
		if ex.Status == model.StatusCancelled {
			continue
		}
		if ex.StationID != candidate.StationID || ex.SlotNumber != candidate.SlotNumber || ex.Date != candidate.Date {
			continue
		}
		if ex.StartTime < candidate.EndTime && candidate.StartTime < ex.EndTime {
			return true
		}
	}
	return false
}
