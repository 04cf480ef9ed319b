package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ev-station-booking/internal/booking"
	"github.com/iliyamo/ev-station-booking/internal/config"
	"github.com/iliyamo/ev-station-booking/internal/handler"
	"github.com/iliyamo/ev-station-booking/internal/model"
	"github.com/iliyamo/ev-station-booking/internal/repository"
	"github.com/iliyamo/ev-station-booking/internal/utils"
)

// newTestServer wires the full route table over in-memory stores.  The
// repository-backed handlers receive repos over a nil database; routes
// that would reach them are not exercised here.
func newTestServer(t *testing.T) (*echo.Echo, config.Config) {
	t.Helper()
	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 15}
	engine := booking.NewEngine(booking.NewMemoryStore(), booking.NewMemoryStations())
	h := Handlers{
		Auth:         handler.NewAuthHandler(cfg, repository.NewUserRepo(nil)),
		Reservations: handler.NewReservationHandler(engine),
		Stations:     handler.NewStationHandler(repository.NewStationRepo(nil), repository.NewReservationRepo(nil)),
		Schedules:    handler.NewScheduleHandler(repository.NewStationRepo(nil), repository.NewScheduleRepo(nil)),
		Scan:         handler.NewScanHandler(engine),
	}
	e := echo.New()
	RegisterRoutes(e, h, cfg, config.RateLimitConfig{Enabled: false}, nil)
	return e, cfg
}

func doAs(t *testing.T, e *echo.Echo, cfg config.Config, role, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	tok, err := utils.NewAccessToken(cfg.JWTSecret, "acct-1", role, cfg.AccessTTLMin)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCancelRouteAdmitsBackoffice(t *testing.T) {
	e, cfg := newTestServer(t)

	// The role gate must pass; 404 means the handler ran and simply
	// found no such reservation.
	rec := doAs(t, e, cfg, model.RoleBackoffice, http.MethodDelete, "/v1/reservations/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doAs(t, e, cfg, model.RoleOwner, http.MethodDelete, "/v1/reservations/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Operators have no business cancelling bookings.
	rec = doAs(t, e, cfg, model.RoleOperator, http.MethodDelete, "/v1/reservations/missing")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestApproveRouteIsBackofficeOnly(t *testing.T) {
	e, cfg := newTestServer(t)

	rec := doAs(t, e, cfg, model.RoleOwner, http.MethodPost, "/v1/reservations/missing/approve")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doAs(t, e, cfg, model.RoleBackoffice, http.MethodPost, "/v1/reservations/missing/approve")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutesRejectMissingToken(t *testing.T) {
	e, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/reservations/mine", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
