package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/ev-station-booking/internal/booking"
	"github.com/iliyamo/ev-station-booking/internal/model"
)

// ReservationRepo persists reservations in the reservations table and
// implements booking.Store.  Rows are never deleted: cancellation is a
// status, so the full history stays queryable.
//
// The schema carries a composite index on (station_id, date, status)
// for the active-set read and a UNIQUE index on qr_token.  The engine's
// conflict check is advisory read-then-write; Create and Update
// therefore re-run the overlap check inside their own transaction with
// a SELECT ... FOR UPDATE over the station's active rows, so two
// concurrent overlapping writes serialize on the row locks and the
// second one fails with a ConflictError instead of committing.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, owner_id, station_id, slot_number, date, start_time, end_time,
	duration_hours, vehicle_model, license_plate, status, total_cost, qr_token, created_at, updated_at`

// scanReservation reads one row in reservationColumns order.
func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var r model.Reservation
	var token sql.NullString
	err := row.Scan(
		&r.ID, &r.OwnerID, &r.StationID, &r.SlotNumber, &r.Date, &r.StartTime, &r.EndTime,
		&r.DurationHours, &r.VehicleModel, &r.LicensePlate, &r.Status, &r.TotalCost,
		&token, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if token.Valid {
		r.QRToken = token.String
	}
	return &r, nil
}

// Create inserts a new reservation row.  The engine has already
// assigned the id, status, cost and timestamps.  The insert runs in a
// transaction behind a locked conflict re-check.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := conflictGuard(ctx, tx, res, ""); err != nil {
		return err
	}

	const q = `INSERT INTO reservations
		(id, owner_id, station_id, slot_number, date, start_time, end_time,
		 duration_hours, vehicle_model, license_plate, status, total_cost, qr_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, q,
		res.ID, res.OwnerID, res.StationID, res.SlotNumber, res.Date, res.StartTime, res.EndTime,
		res.DurationHours, res.VehicleModel, res.LicensePlate, res.Status, res.TotalCost,
		nullableToken(res.QRToken), res.CreatedAt, res.UpdatedAt,
	); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// conflictGuard re-reads the active set inside the transaction with
// FOR UPDATE row locks.  Concurrent writers against the same station
// and date serialize on those locks, so the second writer observes the
// first one's committed row and fails the overlap check.
func conflictGuard(ctx context.Context, tx *sql.Tx, res *model.Reservation, excludeID string) error {
	if !res.Status.Active() {
		return nil
	}
	const q = `SELECT ` + reservationColumns + ` FROM reservations
		WHERE station_id = ? AND date = ? AND status IN ('PENDING', 'APPROVED')
		FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, res.StationID, res.Date)
	if err != nil {
		return err
	}
	defer rows.Close()
	var active []model.Reservation
	for rows.Next() {
		ex, err := scanReservation(rows)
		if err != nil {
			return err
		}
		active = append(active, *ex)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if booking.HasConflict(res, active, excludeID) {
		return &booking.ConflictError{StationID: res.StationID, SlotNumber: res.SlotNumber, Date: res.Date}
	}
	return nil
}

// GetByID returns one reservation or booking.ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, booking.ErrReservationNotFound
	}
	return res, err
}

// GetByToken resolves a QR token or returns booking.ErrTokenNotFound.
func (r *ReservationRepo) GetByToken(ctx context.Context, token string) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE qr_token = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, token))
	if err == sql.ErrNoRows {
		return nil, booking.ErrTokenNotFound
	}
	return res, err
}

// ListActive returns the conflict comparison set: every PENDING or
// APPROVED reservation of the station on the given civil date.
func (r *ReservationRepo) ListActive(ctx context.Context, stationID, date string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
		WHERE station_id = ? AND date = ? AND status IN ('PENDING', 'APPROVED')`
	return r.queryMany(ctx, q, stationID, date)
}

// ListByOwner returns all reservations of one account, newest first.
func (r *ReservationRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
		WHERE owner_id = ? ORDER BY created_at DESC`
	return r.queryMany(ctx, q, ownerID)
}

// ListApprovedStartingBetween returns APPROVED reservations whose start
// instant (date + start_time, UTC) falls in [from, to).  Feeds the
// reminder job.
func (r *ReservationRepo) ListApprovedStartingBetween(ctx context.Context, from, to time.Time) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
		WHERE status = 'APPROVED'
		  AND STR_TO_DATE(CONCAT(date, ' ', start_time), '%Y-%m-%d %H:%i') >= ?
		  AND STR_TO_DATE(CONCAT(date, ' ', start_time), '%Y-%m-%d %H:%i') < ?`
	return r.queryMany(ctx, q, from.UTC(), to.UTC())
}

// CountActiveByStation counts PENDING/APPROVED reservations for a
// station.  Station deactivation is refused while this is non-zero.
func (r *ReservationRepo) CountActiveByStation(ctx context.Context, stationID string) (int, error) {
	const q = `SELECT COUNT(*) FROM reservations
		WHERE station_id = ? AND status IN ('PENDING', 'APPROVED')`
	var n int
	err := r.db.QueryRowContext(ctx, q, stationID).Scan(&n)
	return n, err
}

// Update overwrites every mutable column of the stored row inside a
// transaction, re-running the locked conflict check with the row's own
// id excluded.  Status-only transitions out of the active set (cancel,
// complete) skip the check.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := conflictGuard(ctx, tx, res, res.ID); err != nil {
		return err
	}

	const q = `UPDATE reservations SET
		station_id = ?, slot_number = ?, date = ?, start_time = ?, end_time = ?,
		duration_hours = ?, vehicle_model = ?, license_plate = ?, status = ?,
		total_cost = ?, qr_token = ?, updated_at = ?
		WHERE id = ?`
	result, err := tx.ExecContext(ctx, q,
		res.StationID, res.SlotNumber, res.Date, res.StartTime, res.EndTime,
		res.DurationHours, res.VehicleModel, res.LicensePlate, res.Status,
		res.TotalCost, nullableToken(res.QRToken), res.UpdatedAt, res.ID,
	)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		// Zero affected rows can also mean an identical overwrite;
		// confirm the row exists before reporting not-found.
		var exists int
		if scanErr := tx.QueryRowContext(ctx, `SELECT 1 FROM reservations WHERE id = ?`, res.ID).Scan(&exists); scanErr == sql.ErrNoRows {
			return booking.ErrReservationNotFound
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *ReservationRepo) queryMany(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// nullableToken maps the empty token to NULL so the UNIQUE index on
// qr_token ignores unapproved reservations.
func nullableToken(token string) any {
	if token == "" {
		return nil
	}
	return token
}
