package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-station-booking/internal/booking"
	"github.com/iliyamo/ev-station-booking/internal/model"
	"github.com/iliyamo/ev-station-booking/internal/repository"
)

// StationHandler administers charging stations.  All routes are
// backoffice-only except the read endpoints, which every authenticated
// role may call to browse capacity and pricing.
type StationHandler struct {
	Stations     *repository.StationRepo
	Reservations *repository.ReservationRepo
}

// NewStationHandler constructs a StationHandler and panics on nil
// dependencies.
func NewStationHandler(stations *repository.StationRepo, reservations *repository.ReservationRepo) *StationHandler {
	if stations == nil || reservations == nil {
		panic("nil repository passed to NewStationHandler")
	}
	return &StationHandler{Stations: stations, Reservations: reservations}
}

type stationReq struct {
	Name         string  `json:"name"`
	TotalSlots   int     `json:"total_slots"`
	PricePerUnit float64 `json:"price_per_unit"`
	SessionFee   float64 `json:"session_fee"`
}

// List handles GET /v1/stations.
func (h *StationHandler) List(c echo.Context) error {
	items, err := h.Stations.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stations"})
	}
	if items == nil {
		items = []model.Station{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/stations/:id.
func (h *StationHandler) Get(c echo.Context) error {
	st, err := h.Stations.GetStation(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, booking.ErrStationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load station"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": st})
}

// Create handles POST /v1/stations.  New stations start active.
func (h *StationHandler) Create(c echo.Context) error {
	var body stationReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.TotalSlots < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_slots must be at least 1"})
	}
	if body.PricePerUnit < 0 || body.SessionFee < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prices must not be negative"})
	}
	now := time.Now().UTC()
	st := &model.Station{
		ID:           uuid.NewString(),
		Name:         body.Name,
		TotalSlots:   body.TotalSlots,
		PricePerUnit: body.PricePerUnit,
		SessionFee:   body.SessionFee,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.Stations.Create(c.Request().Context(), st); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create station"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": st})
}

// Update handles PATCH /v1/stations/:id.  Pricing changes only affect
// reservations created or updated afterwards – stored costs are never
// rewritten.
func (h *StationHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	st, err := h.Stations.GetStation(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, booking.ErrStationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load station"})
	}
	var body struct {
		Name         *string  `json:"name"`
		TotalSlots   *int     `json:"total_slots"`
		PricePerUnit *float64 `json:"price_per_unit"`
		SessionFee   *float64 `json:"session_fee"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil {
		if *body.Name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must not be empty"})
		}
		st.Name = *body.Name
	}
	if body.TotalSlots != nil {
		if *body.TotalSlots < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_slots must be at least 1"})
		}
		st.TotalSlots = *body.TotalSlots
	}
	if body.PricePerUnit != nil {
		if *body.PricePerUnit < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "prices must not be negative"})
		}
		st.PricePerUnit = *body.PricePerUnit
	}
	if body.SessionFee != nil {
		if *body.SessionFee < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "prices must not be negative"})
		}
		st.SessionFee = *body.SessionFee
	}
	st.UpdatedAt = time.Now().UTC()
	if err := h.Stations.Update(ctx, st); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update station"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": st})
}

// Deactivate handles POST /v1/stations/:id/deactivate.  A station with
// active (pending or approved) reservations cannot go inactive; the
// bookings must be completed or cancelled first.
func (h *StationHandler) Deactivate(c echo.Context) error {
	ctx := c.Request().Context()
	st, err := h.Stations.GetStation(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, booking.ErrStationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load station"})
	}
	active, err := h.Reservations.CountActiveByStation(ctx, st.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count reservations"})
	}
	if active > 0 {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":               "station has active reservations",
			"active_reservations": active,
		})
	}
	st.IsActive = false
	st.UpdatedAt = time.Now().UTC()
	if err := h.Stations.Update(ctx, st); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update station"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": st})
}
