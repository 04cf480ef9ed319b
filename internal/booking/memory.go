package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/ev-station-booking/internal/model"
)

// MemoryStore is an in-memory Store implementation with an explicit
// seed/reset lifecycle.  It backs the engine in tests and local
// development; production uses the MySQL repository.  All methods are
// safe for concurrent use.
type MemoryStore struct {
	mu           sync.RWMutex
	reservations map[string]model.Reservation
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reservations: make(map[string]model.Reservation)}
}

// Reset drops every stored reservation.  Tests call it between cases.
func (m *MemoryStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations = make(map[string]model.Reservation)
}

// Seed inserts reservations directly, bypassing engine checks.  Only
// for test fixtures.
func (m *MemoryStore) Seed(rs ...model.Reservation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rs {
		m.reservations[r.ID] = r
	}
}

func (m *MemoryStore) Create(_ context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.conflictGuardLocked(r, ""); err != nil {
		return err
	}
	m.reservations[r.ID] = *r
	return nil
}

func (m *MemoryStore) GetByID(_ context.Context, id string) (*model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, found := m.reservations[id]
	if !found {
		return nil, ErrReservationNotFound
	}
	return &r, nil
}

func (m *MemoryStore) GetByToken(_ context.Context, token string) (*model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if token != "" {
		for _, r := range m.reservations {
			if r.QRToken == token {
				out := r
				return &out, nil
			}
		}
	}
	return nil, ErrTokenNotFound
}

func (m *MemoryStore) ListActive(_ context.Context, stationID, date string) ([]model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Reservation
	for _, r := range m.reservations {
		if r.StationID == stationID && r.Date == date && r.Status.Active() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Reservation
	for _, r := range m.reservations {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) ListApprovedStartingBetween(_ context.Context, from, to time.Time) ([]model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Reservation
	for _, r := range m.reservations {
		if r.Status != model.StatusApproved {
			continue
		}
		start, err := r.StartsAt()
		if err != nil {
			continue
		}
		if !start.Before(from) && start.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) CountActiveByStation(_ context.Context, stationID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.reservations {
		if r.StationID == stationID && r.Status.Active() {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Update(_ context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, found := m.reservations[r.ID]; !found {
		return ErrReservationNotFound
	}
	if err := m.conflictGuardLocked(r, r.ID); err != nil {
		return err
	}
	m.reservations[r.ID] = *r
	return nil
}

// conflictGuardLocked mirrors the MySQL repository's transactional
// conflict re-check.  Writes serialize on mu, so the overlap test here
// sees every committed row even when two writers raced through the
// engine's advisory check.  Callers must hold the write lock.
func (m *MemoryStore) conflictGuardLocked(r *model.Reservation, excludeID string) error {
	if !r.Status.Active() {
		return nil
	}
	var active []model.Reservation
	for _, ex := range m.reservations {
		if ex.StationID == r.StationID && ex.Date == r.Date && ex.Status.Active() {
			active = append(active, ex)
		}
	}
	if HasConflict(r, active, excludeID) {
		return &ConflictError{StationID: r.StationID, SlotNumber: r.SlotNumber, Date: r.Date}
	}
	return nil
}

// MemoryStations is an in-memory StationStore for tests.
type MemoryStations struct {
	mu       sync.RWMutex
	stations map[string]model.Station
}

// NewMemoryStations returns an empty MemoryStations.
func NewMemoryStations() *MemoryStations {
	return &MemoryStations{stations: make(map[string]model.Station)}
}

// Seed inserts or replaces stations.
func (m *MemoryStations) Seed(sts ...model.Station) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, st := range sts {
		m.stations[st.ID] = st
	}
}

func (m *MemoryStations) GetStation(_ context.Context, id string) (*model.Station, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, found := m.stations[id]
	if !found {
		return nil, ErrStationNotFound
	}
	return &st, nil
}
