package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/ev-station-booking/internal/model"
)

// ScheduleRepo persists station operating-hours templates.  One row per
// window; an upsert replaces the full day inside a transaction so the
// template never exists half-written.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo returns a ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// Upsert replaces the schedule for (station, date) with the supplied
// template.  The caller is expected to have assembled the schedule via
// booking.BuildSchedule so the windows are validated and ordered.
func (r *ScheduleRepo) Upsert(ctx context.Context, sched *model.Schedule) error {
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
	const del = `DELETE FROM schedule_slots WHERE station_id = ? AND date = ?`
	if _, err := tx.ExecContext(ctx, del, sched.StationID, sched.Date); err != nil {
		return err
	}
	const ins = `INSERT INTO schedule_slots (station_id, date, start_time, end_time, capacity, available)
		VALUES (?, ?, ?, ?, ?, ?)`
	for _, s := range sched.Slots {
		if _, err := tx.ExecContext(ctx, ins, sched.StationID, sched.Date, s.Start, s.End, s.Capacity, s.Available); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Get returns the schedule for (station, date).  A station with no
// stored template yields an empty slot list, not an error.
func (r *ScheduleRepo) Get(ctx context.Context, stationID, date string) (*model.Schedule, error) {
	const q = `SELECT start_time, end_time, capacity, available FROM schedule_slots
		WHERE station_id = ? AND date = ? ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, stationID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sched := &model.Schedule{StationID: stationID, Date: date, Slots: []model.ScheduleSlot{}}
	for rows.Next() {
		var s model.ScheduleSlot
		if err := rows.Scan(&s.Start, &s.End, &s.Capacity, &s.Available); err != nil {
			return nil, err
		}
		sched.Slots = append(sched.Slots, s)
	}
	return sched, rows.Err()
}
