package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/ev-station-booking/internal/model"
)

func TestCanCreateWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 45, 0, 0, time.UTC)

	assert.True(t, CanCreate("2025-06-01", now), "today is inside the window even late in the day")
	assert.True(t, CanCreate("2025-06-08", now), "today+7 is the inclusive upper bound")
	assert.False(t, CanCreate("2025-06-09", now), "today+8 is outside")
	assert.False(t, CanCreate("2025-05-31", now), "yesterday is outside")
	assert.False(t, CanCreate("06/01/2025", now), "malformed dates never pass")
}

func TestCanModifyCutoff(t *testing.T) {
	r := &model.Reservation{Date: "2025-06-02", StartTime: "14:00"}

	// Exactly 12 hours of notice is still allowed (boundary inclusive).
	at := time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC)
	assert.True(t, CanModify(r, at))

	// One minute later the window has closed.
	assert.False(t, CanModify(r, at.Add(time.Minute)))

	// Plenty of notice.
	assert.True(t, CanModify(r, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))

	// Reservation already started.
	assert.False(t, CanModify(r, time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)))
}

func TestCanModifyUsesUTC(t *testing.T) {
	r := &model.Reservation{Date: "2025-06-02", StartTime: "14:00"}
	// The same instant expressed in another zone must give the same
	// verdict: 02:00 UTC == 07:30 in UTC+5:30.
	colombo := time.FixedZone("UTC+5:30", int((5*time.Hour + 30*time.Minute).Seconds()))
	at := time.Date(2025, 6, 2, 7, 30, 0, 0, colombo)
	assert.True(t, CanModify(r, at))
	assert.False(t, CanModify(r, at.Add(time.Minute)))
}

func TestCanModifyMalformedStart(t *testing.T) {
	r := &model.Reservation{Date: "junk", StartTime: "14:00"}
	assert.False(t, CanModify(r, time.Now()))
}
