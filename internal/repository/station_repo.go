package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/ev-station-booking/internal/booking"
	"github.com/iliyamo/ev-station-booking/internal/model"
)

// StationRepo provides CRUD access to the stations table and
// implements booking.StationStore for the rule engine.
type StationRepo struct {
	db *sql.DB
}

// NewStationRepo returns a StationRepo bound to the given database.
func NewStationRepo(db *sql.DB) *StationRepo { return &StationRepo{db: db} }

const stationColumns = `id, name, total_slots, price_per_unit, session_fee, is_active, created_at, updated_at`

func scanStation(row interface{ Scan(...any) error }) (*model.Station, error) {
	var st model.Station
	err := row.Scan(&st.ID, &st.Name, &st.TotalSlots, &st.PricePerUnit, &st.SessionFee,
		&st.IsActive, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// GetStation returns one station or booking.ErrStationNotFound.  The
// method name satisfies booking.StationStore.
func (r *StationRepo) GetStation(ctx context.Context, id string) (*model.Station, error) {
	const q = `SELECT ` + stationColumns + ` FROM stations WHERE id = ?`
	st, err := scanStation(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, booking.ErrStationNotFound
	}
	return st, err
}

// List returns all stations ordered by name.
func (r *StationRepo) List(ctx context.Context) ([]model.Station, error) {
	const q = `SELECT ` + stationColumns + ` FROM stations ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Station
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

// Create inserts a new station row.
func (r *StationRepo) Create(ctx context.Context, st *model.Station) error {
	const q = `INSERT INTO stations
		(id, name, total_slots, price_per_unit, session_fee, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		st.ID, st.Name, st.TotalSlots, st.PricePerUnit, st.SessionFee, st.IsActive,
		st.CreatedAt, st.UpdatedAt)
	return err
}

// Update overwrites the mutable columns of a station.
func (r *StationRepo) Update(ctx context.Context, st *model.Station) error {
	const q = `UPDATE stations SET
		name = ?, total_slots = ?, price_per_unit = ?, session_fee = ?, is_active = ?, updated_at = ?
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q,
		st.Name, st.TotalSlots, st.PricePerUnit, st.SessionFee, st.IsActive, st.UpdatedAt, st.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		var exists int
		if scanErr := r.db.QueryRowContext(ctx, `SELECT 1 FROM stations WHERE id = ?`, st.ID).Scan(&exists); scanErr == sql.ErrNoRows {
			return booking.ErrStationNotFound
		}
	}
	return nil
}
