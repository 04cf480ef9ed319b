package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ev-station-booking/internal/model"
)

// fixedNow is the pinned clock for engine tests: all window arithmetic
// is relative to this instant.
var fixedNow = time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *MemoryStore, *MemoryStations) {
	t.Helper()
	store := NewMemoryStore()
	stations := NewMemoryStations()
	stations.Seed(model.Station{
		ID:           "STN001",
		Name:         "Galle Road Supercharge",
		TotalSlots:   4,
		PricePerUnit: 45,
		SessionFee:   50,
		IsActive:     true,
	})
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewEngine(store, stations, opts...), store, stations
}

func validInput() CreateInput {
	return CreateInput{
		OwnerID:       "owner-1",
		StationID:     "STN001",
		SlotNumber:    3,
		Date:          "2025-06-10",
		Start:         "14:00",
		End:           "16:00",
		DurationHours: 2,
		VehicleModel:  "Nissan Leaf",
		LicensePlate:  "ABC1234",
	}
}

func TestCreateComputesCost(t *testing.T) {
	e, _, _ := newTestEngine(t)
	r, err := e.Create(context.Background(), validInput())
	require.NoError(t, err)

	// 45/unit * 2h * 30 units/h + 50 session fee
	assert.Equal(t, 2750.0, r.TotalCost)
	assert.Equal(t, model.StatusPending, r.Status)
	assert.NotEmpty(t, r.ID)
	assert.Empty(t, r.QRToken)
	assert.Equal(t, fixedNow, r.CreatedAt)
	assert.Equal(t, "ABC-1234", r.LicensePlate, "plate is canonicalised on create")
}

func TestCreateRespectsUnitsPerHourOption(t *testing.T) {
	e, _, _ := newTestEngine(t, WithUnitsPerHour(10))
	r, err := e.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, 45.0*2*10+50, r.TotalCost)
}

func TestCreateDerivesDurationFromRange(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	// The duration field is derivable, so the wire shape may omit it.
	in := validInput()
	in.DurationHours = 0
	r, err := e.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 2.0, r.DurationHours)
	assert.Equal(t, 2750.0, r.TotalCost)

	// A derived duration still honours the session bounds.
	in = validInput()
	in.DurationHours = 0
	in.Start, in.End = "08:00", "18:00"
	_, err = e.Create(ctx, in)
	var fieldErr *FieldValidationError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "duration_hours", fieldErr.Field)
}

func TestUpdateDerivesDurationFromPatchedRange(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	created, err := e.Create(ctx, validInput())
	require.NoError(t, err)

	// Shrinking the range without sending a duration re-derives it and
	// recomputes the cost.
	end := "15:00"
	updated, err := e.Update(ctx, created.ID, UpdatePatch{End: &end})
	require.NoError(t, err)
	assert.Equal(t, 1.0, updated.DurationHours)
	assert.Equal(t, 45.0*1*30+50, updated.TotalCost)
}

func TestCreateOutsideWindow(t *testing.T) {
	e, _, _ := newTestEngine(t)
	in := validInput()
	in.Date = "2025-06-13" // +8 days from the pinned clock
	_, err := e.Create(context.Background(), in)
	var winErr *CreationWindowError
	require.ErrorAs(t, err, &winErr)
	assert.Equal(t, "2025-06-13", winErr.Date)
}

func TestCreateRejectsConflict(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Create(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.OwnerID = "owner-2"
	in.Start, in.End = "15:00", "17:00"
	_, err = e.Create(ctx, in)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 3, conflict.SlotNumber)

	// Touching ranges on the same slot are fine.
	in.Start, in.End = "16:00", "18:00"
	_, err = e.Create(ctx, in)
	assert.NoError(t, err)
}

func TestCreateValidation(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		patch func(*CreateInput)
		field string
	}{
		{"missing owner", func(in *CreateInput) { in.OwnerID = "" }, "owner_id"},
		{"slot out of range", func(in *CreateInput) { in.SlotNumber = 9 }, "slot_number"},
		{"bad start", func(in *CreateInput) { in.Start = "2pm" }, "start"},
		{"end before start", func(in *CreateInput) { in.Start, in.End = "16:00", "14:00" }, "end"},
		{"duration out of bounds", func(in *CreateInput) { in.DurationHours = 9; in.End = "23:00" }, "duration_hours"},
		{"duration range mismatch", func(in *CreateInput) { in.DurationHours = 1.5 }, "duration_hours"},
		{"missing vehicle", func(in *CreateInput) { in.VehicleModel = "" }, "vehicle_model"},
		{"bad plate", func(in *CreateInput) { in.LicensePlate = "!!" }, "license_plate"},
		{"bad date", func(in *CreateInput) { in.Date = "10-06-2025" }, "date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.patch(&in)
			_, err := e.Create(ctx, in)
			var fieldErr *FieldValidationError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tc.field, fieldErr.Field)
		})
	}
}

func TestCreateAgainstInactiveOrUnknownStation(t *testing.T) {
	e, _, stations := newTestEngine(t)
	ctx := context.Background()

	in := validInput()
	in.StationID = "STN999"
	_, err := e.Create(ctx, in)
	assert.ErrorIs(t, err, ErrStationNotFound)

	stations.Seed(model.Station{ID: "STN002", TotalSlots: 2, IsActive: false})
	in.StationID = "STN002"
	_, err = e.Create(ctx, in)
	assert.ErrorIs(t, err, ErrStationInactive)
}

func TestApproveScanFinalizeRoundTrip(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	created, err := e.Create(ctx, validInput())
	require.NoError(t, err)

	approved, err := e.Approve(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.Status)
	require.NotEmpty(t, approved.QRToken)

	scanned, err := e.Scan(ctx, approved.QRToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, scanned.ID)

	done, err := e.Finalize(ctx, scanned.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, done.Status)

	// Double-tap: a second finalize is a no-op success.
	again, err := e.Finalize(ctx, scanned.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, again.Status)

	// But scanning the token of a completed reservation is an error.
	_, err = e.Scan(ctx, approved.QRToken)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestScanUnknownToken(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, err := e.Scan(context.Background(), "NOSUCHTOKEN")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestIllegalTransitions(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	created, err := e.Create(ctx, validInput())
	require.NoError(t, err)

	var transErr *IllegalTransitionError

	// Completing a PENDING reservation skips approval.
	_, err = e.Complete(ctx, created.ID)
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, model.StatusPending, transErr.From)

	// Finalize is equally strict about PENDING.
	_, err = e.Finalize(ctx, created.ID)
	require.ErrorAs(t, err, &transErr)

	_, err = e.Approve(ctx, created.ID)
	require.NoError(t, err)

	// A second approval is illegal.
	_, err = e.Approve(ctx, created.ID)
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, model.StatusApproved, transErr.From)

	_, err = e.Complete(ctx, created.ID)
	require.NoError(t, err)

	// Terminal states accept nothing.
	_, err = e.Cancel(ctx, created.ID)
	require.ErrorAs(t, err, &transErr)
	_, err = e.Update(ctx, created.ID, UpdatePatch{})
	require.ErrorAs(t, err, &transErr)
}

func TestCancelInsideNoticeWindow(t *testing.T) {
	e, store, _ := newTestEngine(t)
	ctx := context.Background()

	// Starts six hours from the pinned clock – inside the 12h cutoff.
	store.Seed(model.Reservation{
		ID:         "soon",
		OwnerID:    "owner-1",
		StationID:  "STN001",
		SlotNumber: 1,
		Date:       "2025-06-05",
		StartTime:  "15:00",
		EndTime:    "16:00",
		Status:     model.StatusApproved,
	})

	_, err := e.Cancel(ctx, "soon")
	var winErr *ModificationWindowError
	require.ErrorAs(t, err, &winErr)
	assert.Equal(t, "soon", winErr.ReservationID)

	// The failed cancel must leave the status untouched.
	stored, err := e.Get(ctx, "soon")
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, stored.Status)
}

func TestCancelWithNoticeFreesTheSlot(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	first, err := e.Create(ctx, validInput())
	require.NoError(t, err)

	cancelled, err := e.Cancel(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	// The identical slot and range can now be booked again.
	in := validInput()
	in.OwnerID = "owner-2"
	_, err = e.Create(ctx, in)
	assert.NoError(t, err)
}

func TestUpdateReValidatesAndRecomputesCost(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	created, err := e.Create(ctx, validInput())
	require.NoError(t, err)

	// Shrinking the session must recompute the cost.
	end := "15:00"
	hours := 1.0
	updated, err := e.Update(ctx, created.ID, UpdatePatch{End: &end, DurationHours: &hours})
	require.NoError(t, err)
	assert.Equal(t, 45.0*1*30+50, updated.TotalCost)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt, "created_at is never mutated")

	// An unchanged patch must not collide with the reservation itself.
	_, err = e.Update(ctx, created.ID, UpdatePatch{})
	assert.NoError(t, err)
}

func TestUpdateConflictsWithOtherReservation(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Create(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.OwnerID = "owner-2"
	in.Start, in.End = "16:00", "18:00"
	second, err := e.Create(ctx, in)
	require.NoError(t, err)

	// Moving the second booking onto the first one's range conflicts.
	start, end := "14:30", "16:30"
	_, err = e.Update(ctx, second.ID, UpdatePatch{Start: &start, End: &end})
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestUpdateInsideNoticeWindowUsesStoredStart(t *testing.T) {
	e, store, _ := newTestEngine(t)
	ctx := context.Background()

	store.Seed(model.Reservation{
		ID:            "soon",
		OwnerID:       "owner-1",
		StationID:     "STN001",
		SlotNumber:    1,
		Date:          "2025-06-05",
		StartTime:     "15:00",
		EndTime:       "16:00",
		DurationHours: 1,
		VehicleModel:  "Nissan Leaf",
		LicensePlate:  "ABC-1234",
		Status:        model.StatusPending,
	})

	// Patching the date far into the future must not help: the cutoff
	// is checked against the stored start.
	date := "2025-06-11"
	_, err := e.Update(ctx, "soon", UpdatePatch{Date: &date})
	var winErr *ModificationWindowError
	assert.ErrorAs(t, err, &winErr)
}

func TestTokenUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		tok, err := NewToken()
		require.NoError(t, err)
		assert.Len(t, tok, 26)
		assert.False(t, seen[tok], "tokens must not repeat")
		seen[tok] = true
	}
}
