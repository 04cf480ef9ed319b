package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/ev-station-booking/internal/model"
)

func res(id, station string, slot int, date, start, end string, status model.ReservationStatus) model.Reservation {
	return model.Reservation{
		ID:         id,
		StationID:  station,
		SlotNumber: slot,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Status:     status,
	}
}

func TestHasConflictTouchingEndpoints(t *testing.T) {
	existing := []model.Reservation{
		res("a", "S1", 1, "2025-06-01", "09:00", "10:00", model.StatusPending),
	}
	// Back-to-back ranges share an endpoint but do not overlap.
	candidate := res("b", "S1", 1, "2025-06-01", "10:00", "11:00", model.StatusPending)
	assert.False(t, HasConflict(&candidate, existing, ""))

	candidate = res("b", "S1", 1, "2025-06-01", "09:30", "10:30", model.StatusPending)
	assert.True(t, HasConflict(&candidate, existing, ""))
}

func TestHasConflictContainment(t *testing.T) {
	existing := []model.Reservation{
		res("a", "S1", 1, "2025-06-01", "08:00", "18:00", model.StatusApproved),
	}
	candidate := res("b", "S1", 1, "2025-06-01", "10:00", "11:00", model.StatusPending)
	assert.True(t, HasConflict(&candidate, existing, ""))
}

func TestHasConflictRequiresSameStationSlotAndDate(t *testing.T) {
	existing := []model.Reservation{
		res("a", "S1", 1, "2025-06-01", "09:00", "10:00", model.StatusPending),
	}
	otherSlot := res("b", "S1", 2, "2025-06-01", "09:00", "10:00", model.StatusPending)
	otherStation := res("c", "S2", 1, "2025-06-01", "09:00", "10:00", model.StatusPending)
	otherDate := res("d", "S1", 1, "2025-06-02", "09:00", "10:00", model.StatusPending)
	assert.False(t, HasConflict(&otherSlot, existing, ""))
	assert.False(t, HasConflict(&otherStation, existing, ""))
	assert.False(t, HasConflict(&otherDate, existing, ""))
}

func TestHasConflictIgnoresCancelled(t *testing.T) {
	existing := []model.Reservation{
		res("a", "S1", 1, "2025-06-01", "09:00", "10:00", model.StatusCancelled),
	}
	candidate := res("b", "S1", 1, "2025-06-01", "09:00", "10:00", model.StatusPending)
	assert.False(t, HasConflict(&candidate, existing, ""))
}

func TestHasConflictExcludesSelfOnEdit(t *testing.T) {
	existing := []model.Reservation{
		res("a", "S1", 1, "2025-06-01", "09:00", "10:00", model.StatusPending),
	}
	// An in-place edit of "a" must not collide with its own stored row.
	edited := res("a", "S1", 1, "2025-06-01", "09:30", "10:30", model.StatusPending)
	assert.False(t, HasConflict(&edited, existing, "a"))
	assert.True(t, HasConflict(&edited, existing, ""))
}
