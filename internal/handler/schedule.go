package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-station-booking/internal/booking"
	"github.com/iliyamo/ev-station-booking/internal/model"
	"github.com/iliyamo/ev-station-booking/internal/repository"
)

// ScheduleHandler edits and serves station operating-hours templates.
// The overlap rule lives in booking.BuildSchedule; the handler only
// binds the wire shape and persists the validated template.
type ScheduleHandler struct {
	Stations  *repository.StationRepo
	Schedules *repository.ScheduleRepo
}

// NewScheduleHandler constructs a ScheduleHandler and panics on nil
// dependencies.
func NewScheduleHandler(stations *repository.StationRepo, schedules *repository.ScheduleRepo) *ScheduleHandler {
	if stations == nil || schedules == nil {
		panic("nil repository passed to NewScheduleHandler")
	}
	return &ScheduleHandler{Stations: stations, Schedules: schedules}
}

// Upsert handles PUT /v1/stations/:id/schedule.  The body carries the
// civil date and the full day template; the stored template for that
// date is replaced wholesale.  Overlapping windows are rejected with a
// per-slot validation error.
func (h *ScheduleHandler) Upsert(c echo.Context) error {
	ctx := c.Request().Context()
	stationID := c.Param("id")
	if _, err := h.Stations.GetStation(ctx, stationID); err != nil {
		if errors.Is(err, booking.ErrStationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load station"})
	}
	var body struct {
		Date  string               `json:"date"`
		Slots []model.ScheduleSlot `json:"slots"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	sched, err := booking.BuildSchedule(stationID, body.Date, body.Slots)
	if err != nil {
		return writeBookingError(c, err)
	}
	if err := h.Schedules.Upsert(ctx, sched); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save schedule"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": sched})
}

// Get handles GET /v1/stations/:id/schedule?date=YYYY-MM-DD.  A day
// without a stored template returns an empty slot list.
func (h *ScheduleHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	stationID := c.Param("id")
	date := c.QueryParam("date")
	if date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date query parameter is required"})
	}
	if _, err := h.Stations.GetStation(ctx, stationID); err != nil {
		if errors.Is(err, booking.ErrStationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load station"})
	}
	sched, err := h.Schedules.Get(ctx, stationID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load schedule"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": sched})
}
