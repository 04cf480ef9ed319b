package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/ev-station-booking/internal/model"
)

// DefaultUnitsPerHour is the assumed conversion between one hour of
// charging and billed consumption units.  Cost is computed as
// pricePerUnit * durationHours * unitsPerHour + sessionFee.  The value
// is an engine option rather than a literal so deployments with
// different metering can override it.
const DefaultUnitsPerHour = 30

// Engine owns the reservation lifecycle.  Every operation is
// transactional over a single reservation record; the only cross-record
// read is the conflict check against the active set at write time.
// The clock is injected so tests can pin "now".
type Engine struct {
	store        Store
	stations     StationStore
	unitsPerHour float64
	now          func() time.Time
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithClock replaces the engine's time source.  Tests use it to pin
// window and cutoff arithmetic to a fixed instant.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithUnitsPerHour overrides the duration-to-consumption conversion
// used in cost computation.
func WithUnitsPerHour(units float64) Option {
	return func(e *Engine) { e.unitsPerHour = units }
}

// NewEngine constructs a booking engine over the given stores.  Both
// stores must be non-nil.
func NewEngine(store Store, stations StationStore, opts ...Option) *Engine {
	if store == nil || stations == nil {
		panic("nil store passed to NewEngine")
	}
	e := &Engine{
		store:        store,
		stations:     stations,
		unitsPerHour: DefaultUnitsPerHour,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateInput is the wire shape of a reservation request.
type CreateInput struct {
	OwnerID       string  `json:"owner_id"`
	StationID     string  `json:"station_id"`
	SlotNumber    int     `json:"slot_number"`
	Date          string  `json:"date"`
	Start         string  `json:"start"`
	End           string  `json:"end"`
	DurationHours float64 `json:"duration_hours"`
	VehicleModel  string  `json:"vehicle_model"`
	LicensePlate  string  `json:"license_plate"`
}

// UpdatePatch is a partial update of a reservation.  Nil fields are
// left untouched.
type UpdatePatch struct {
	StationID     *string  `json:"station_id"`
	SlotNumber    *int     `json:"slot_number"`
	Date          *string  `json:"date"`
	Start         *string  `json:"start"`
	End           *string  `json:"end"`
	DurationHours *float64 `json:"duration_hours"`
	VehicleModel  *string  `json:"vehicle_model"`
	LicensePlate  *string  `json:"license_plate"`
}

// totalCost derives the session price from station rates and duration.
func (e *Engine) totalCost(st *model.Station, hours float64) float64 {
	return st.PricePerUnit*hours*e.unitsPerHour + st.SessionFee
}

// validateFields checks every reservation field and the internal
// consistency of the time range against the declared duration.  The
// duration is derivable from the range but arrives separately on the
// wire, so both the explicit bounds and the consistency are enforced.
func (e *Engine) validateFields(in *CreateInput, st *model.Station) error {
	if in.OwnerID == "" {
		return &FieldValidationError{Field: "owner_id", Message: "owner_id is required"}
	}
	if res := ValidateSlotNumber(in.SlotNumber, st.TotalSlots); !res.Valid {
		return &FieldValidationError{Field: "slot_number", Message: res.Message}
	}
	if res := ValidateClockTime(in.Start); !res.Valid {
		return &FieldValidationError{Field: "start", Message: res.Message}
	}
	if res := ValidateClockTime(in.End); !res.Valid {
		return &FieldValidationError{Field: "end", Message: res.Message}
	}
	if in.Start >= in.End {
		return &FieldValidationError{Field: "end", Message: "end time must be after start time"}
	}
	if res := ValidateDuration(in.DurationHours); !res.Valid {
		return &FieldValidationError{Field: "duration_hours", Message: res.Message}
	}
	if rangeMin := clockMinutes(in.End) - clockMinutes(in.Start); float64(rangeMin) != in.DurationHours*60 {
		return &FieldValidationError{Field: "duration_hours", Message: "duration does not match the time range"}
	}
	if in.VehicleModel == "" {
		return &FieldValidationError{Field: "vehicle_model", Message: "vehicle_model is required"}
	}
	if res := ValidateLicensePlate(in.LicensePlate); !res.Valid {
		return &FieldValidationError{Field: "license_plate", Message: res.Message}
	}
	// The date window check comes last so malformed dates surface as a
	// field error and out-of-window dates as a CreationWindowError.
	if in.Date == "" {
		return &FieldValidationError{Field: "date", Message: "date is required"}
	}
	if _, err := time.ParseInLocation(model.DateLayout, in.Date, time.UTC); err != nil {
		return &FieldValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"}
	}
	return nil
}

// Create validates the input, enforces the advance-booking window,
// checks the active set for conflicts, computes the cost and persists a
// new PENDING reservation.
func (e *Engine) Create(ctx context.Context, in CreateInput) (*model.Reservation, error) {
	st, err := e.stations.GetStation(ctx, in.StationID)
	if err != nil {
		return nil, err
	}
	if !st.IsActive {
		return nil, ErrStationInactive
	}
	in.LicensePlate = FormatLicensePlate(in.LicensePlate)
	// The duration is redundant derived data: clients may omit it and
	// have it computed from the time range.  An explicit value is still
	// checked against the range below.
	if in.DurationHours == 0 {
		if d, derived := durationFromRange(in.Start, in.End); derived {
			in.DurationHours = d
		}
	}
	if err := e.validateFields(&in, st); err != nil {
		return nil, err
	}
	now := e.now().UTC()
	if !CanCreate(in.Date, now) {
		return nil, &CreationWindowError{Date: in.Date}
	}
	r := &model.Reservation{
		ID:            uuid.NewString(),
		OwnerID:       in.OwnerID,
		StationID:     in.StationID,
		SlotNumber:    in.SlotNumber,
		Date:          in.Date,
		StartTime:     in.Start,
		EndTime:       in.End,
		DurationHours: in.DurationHours,
		VehicleModel:  in.VehicleModel,
		LicensePlate:  in.LicensePlate,
		Status:        model.StatusPending,
		TotalCost:     e.totalCost(st, in.DurationHours),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	active, err := e.store.ListActive(ctx, r.StationID, r.Date)
	if err != nil {
		return nil, err
	}
	if HasConflict(r, active, "") {
		return nil, &ConflictError{StationID: r.StationID, SlotNumber: r.SlotNumber, Date: r.Date}
	}
	if err := e.store.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Update applies a partial patch to a stored reservation.  The
// modification window is evaluated against the *stored* start time, not
// the patched one, so a reservation inside the cutoff cannot be pushed
// out of it.  Changed fields are re-validated, the conflict check runs
// excluding the reservation itself, and the cost is recomputed when
// duration or station change.
func (e *Engine) Update(ctx context.Context, id string, patch UpdatePatch) (*model.Reservation, error) {
	cur, err := e.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.Status.Terminal() {
		return nil, &IllegalTransitionError{From: cur.Status, To: cur.Status}
	}
	now := e.now().UTC()
	if !CanModify(cur, now) {
		start, _ := cur.StartsAt()
		return nil, &ModificationWindowError{ReservationID: cur.ID, StartsAt: start}
	}

	next := *cur
	dateChanged := false
	costInputsChanged := false
	if patch.StationID != nil && *patch.StationID != next.StationID {
		next.StationID = *patch.StationID
		costInputsChanged = true
	}
	if patch.SlotNumber != nil {
		next.SlotNumber = *patch.SlotNumber
	}
	if patch.Date != nil && *patch.Date != next.Date {
		next.Date = *patch.Date
		dateChanged = true
	}
	if patch.Start != nil {
		next.StartTime = *patch.Start
	}
	if patch.End != nil {
		next.EndTime = *patch.End
	}
	if patch.DurationHours != nil && *patch.DurationHours != next.DurationHours {
		next.DurationHours = *patch.DurationHours
		costInputsChanged = true
	}
	if patch.VehicleModel != nil {
		next.VehicleModel = *patch.VehicleModel
	}
	if patch.LicensePlate != nil {
		next.LicensePlate = FormatLicensePlate(*patch.LicensePlate)
	}
	// A patched time range without an explicit duration re-derives it,
	// keeping the stored redundant field consistent with the range.
	if patch.DurationHours == nil && (patch.Start != nil || patch.End != nil) {
		if d, derived := durationFromRange(next.StartTime, next.EndTime); derived && d != next.DurationHours {
			next.DurationHours = d
			costInputsChanged = true
		}
	}

	st, err := e.stations.GetStation(ctx, next.StationID)
	if err != nil {
		return nil, err
	}
	if !st.IsActive {
		return nil, ErrStationInactive
	}
	in := CreateInput{
		OwnerID:       next.OwnerID,
		StationID:     next.StationID,
		SlotNumber:    next.SlotNumber,
		Date:          next.Date,
		Start:         next.StartTime,
		End:           next.EndTime,
		DurationHours: next.DurationHours,
		VehicleModel:  next.VehicleModel,
		LicensePlate:  next.LicensePlate,
	}
	if err := e.validateFields(&in, st); err != nil {
		return nil, err
	}
	if dateChanged && !CanCreate(next.Date, now) {
		return nil, &CreationWindowError{Date: next.Date}
	}
	active, err := e.store.ListActive(ctx, next.StationID, next.Date)
	if err != nil {
		return nil, err
	}
	if HasConflict(&next, active, next.ID) {
		return nil, &ConflictError{StationID: next.StationID, SlotNumber: next.SlotNumber, Date: next.Date}
	}
	if costInputsChanged {
		next.TotalCost = e.totalCost(st, next.DurationHours)
	}
	next.UpdatedAt = now
	if err := e.store.Update(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// Approve transitions a PENDING reservation to APPROVED and mints its
// QR token.  Any other starting state is an illegal transition.
func (e *Engine) Approve(ctx context.Context, id string) (*model.Reservation, error) {
	cur, err := e.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.Status != model.StatusPending {
		return nil, &IllegalTransitionError{From: cur.Status, To: model.StatusApproved}
	}
	token, err := NewToken()
	if err != nil {
		return nil, err
	}
	cur.Status = model.StatusApproved
	cur.QRToken = token
	cur.UpdatedAt = e.now().UTC()
	if err := e.store.Update(ctx, cur); err != nil {
		return nil, err
	}
	return cur, nil
}

// Cancel transitions a PENDING or APPROVED reservation to CANCELLED,
// subject to the modification notice period.  The freed slot becomes
// available to conflict detection immediately.
func (e *Engine) Cancel(ctx context.Context, id string) (*model.Reservation, error) {
	cur, err := e.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cur.Status.Active() {
		return nil, &IllegalTransitionError{From: cur.Status, To: model.StatusCancelled}
	}
	now := e.now().UTC()
	if !CanModify(cur, now) {
		start, _ := cur.StartsAt()
		return nil, &ModificationWindowError{ReservationID: cur.ID, StartsAt: start}
	}
	cur.Status = model.StatusCancelled
	cur.UpdatedAt = now
	if err := e.store.Update(ctx, cur); err != nil {
		return nil, err
	}
	return cur, nil
}

// Complete transitions an APPROVED reservation to COMPLETED.  This is
// the strict form used by backoffice actions; the operator-facing
// Finalize is the idempotent variant.
func (e *Engine) Complete(ctx context.Context, id string) (*model.Reservation, error) {
	cur, err := e.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.Status != model.StatusApproved {
		return nil, &IllegalTransitionError{From: cur.Status, To: model.StatusCompleted}
	}
	cur.Status = model.StatusCompleted
	cur.UpdatedAt = e.now().UTC()
	if err := e.store.Update(ctx, cur); err != nil {
		return nil, err
	}
	return cur, nil
}

// Scan resolves a QR token to its reservation snapshot for operator
// display.  Unknown tokens yield ErrTokenNotFound; a reservation that
// was already completed yields ErrAlreadyCompleted.
func (e *Engine) Scan(ctx context.Context, token string) (*model.Reservation, error) {
	r, err := e.store.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if r.Status == model.StatusCompleted {
		return nil, ErrAlreadyCompleted
	}
	return r, nil
}

// Finalize completes a reservation after a successful scan.  Operators
// may double-tap, so finalizing an already-completed reservation is a
// no-op success rather than an error.
func (e *Engine) Finalize(ctx context.Context, id string) (*model.Reservation, error) {
	cur, err := e.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.Status == model.StatusCompleted {
		return cur, nil
	}
	if cur.Status != model.StatusApproved {
		return nil, &IllegalTransitionError{From: cur.Status, To: model.StatusCompleted}
	}
	cur.Status = model.StatusCompleted
	cur.UpdatedAt = e.now().UTC()
	if err := e.store.Update(ctx, cur); err != nil {
		return nil, err
	}
	return cur, nil
}

// Get returns one reservation by id.
func (e *Engine) Get(ctx context.Context, id string) (*model.Reservation, error) {
	return e.store.GetByID(ctx, id)
}

// ListByOwner returns all reservations belonging to one account.
func (e *Engine) ListByOwner(ctx context.Context, ownerID string) ([]model.Reservation, error) {
	return e.store.ListByOwner(ctx, ownerID)
}
