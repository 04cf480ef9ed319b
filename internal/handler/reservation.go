package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-station-booking/internal/booking"
	"github.com/iliyamo/ev-station-booking/internal/model"
	"github.com/iliyamo/ev-station-booking/internal/queue"
	queue_publisher "github.com/iliyamo/ev-station-booking/internal/service"
)

// ReservationHandler exposes the booking engine over HTTP.  Field
// validation, windows, conflicts and state transitions all live in the
// engine; the handler binds requests, checks ownership and maps typed
// errors onto status codes.  JWT authentication and role checks have
// already run in middleware.
type ReservationHandler struct {
	Engine *booking.Engine
}

// NewReservationHandler constructs a ReservationHandler.  The engine
// must be non-nil.
func NewReservationHandler(engine *booking.Engine) *ReservationHandler {
	if engine == nil {
		panic("nil engine passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: engine}
}

// Create handles POST /v1/reservations.  The owner id is taken from
// the JWT, never from the body.  Returns 201 with the stored
// reservation, 400 on validation/window failures and 409 on conflicts.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var in booking.CreateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	in.OwnerID = userID
	r, err := h.Engine.Create(c.Request().Context(), in)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": r})
}

// Update handles PATCH /v1/reservations/:id.  Owners may only patch
// their own reservations; backoffice may patch any.  The 12-hour rule
// is enforced by the engine against the stored start time.
func (h *ReservationHandler) Update(c echo.Context) error {
	cur, httpErr := h.loadOwned(c)
	if httpErr != nil {
		return httpErr
	}
	var patch booking.UpdatePatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	r, err := h.Engine.Update(c.Request().Context(), cur.ID, patch)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": r})
}

// Cancel handles POST /v1/reservations/:id/cancel.  Subject to the
// modification notice period; the freed slot becomes bookable at once.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	cur, httpErr := h.loadOwned(c)
	if httpErr != nil {
		return httpErr
	}
	r, err := h.Engine.Cancel(c.Request().Context(), cur.ID)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": r})
}

// Approve handles POST /v1/reservations/:id/approve (backoffice only).
// Approval mints the QR token and publishes a reservation.approved
// event; a publish failure is logged but never fails the request.
func (h *ReservationHandler) Approve(c echo.Context) error {
	r, err := h.Engine.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeBookingError(c, err)
	}
	publishReservationEvent(queue.KindReservationApproved, r)
	return c.JSON(http.StatusOK, echo.Map{"item": r})
}

// Complete handles POST /v1/reservations/:id/complete (backoffice
// only).  The strict transition: only APPROVED reservations complete.
func (h *ReservationHandler) Complete(c echo.Context) error {
	r, err := h.Engine.Complete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeBookingError(c, err)
	}
	publishReservationEvent(queue.KindReservationCompleted, r)
	return c.JSON(http.StatusOK, echo.Map{"item": r})
}

// Get handles GET /v1/reservations/:id.  Owners see only their own
// reservations; backoffice and operators see all.
func (h *ReservationHandler) Get(c echo.Context) error {
	r, httpErr := h.loadOwned(c)
	if httpErr != nil {
		return httpErr
	}
	return c.JSON(http.StatusOK, echo.Map{"item": r})
}

// ListMine handles GET /v1/my-reservations.  Returns all reservations
// of the authenticated account, newest first; an empty list when none
// exist.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Engine.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	if items == nil {
		items = []model.Reservation{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// loadOwned fetches the reservation from the path parameter and
// enforces that OWNER accounts only touch their own records.
func (h *ReservationHandler) loadOwned(c echo.Context) (*model.Reservation, error) {
	userID, err := getUserID(c)
	if err != nil {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	r, err := h.Engine.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, writeBookingError(c, err)
	}
	if getRole(c) == model.RoleOwner && r.OwnerID != userID {
		return nil, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return r, nil
}

// publishReservationEvent sends a reservation event to the broker
// without blocking the request on broker health.
func publishReservationEvent(kind string, r *model.Reservation) {
	ev := queue.ReservationEvent{
		Kind:          kind,
		ReservationID: r.ID,
		OwnerID:       r.OwnerID,
		StationID:     r.StationID,
		SlotNumber:    r.SlotNumber,
		Date:          r.Date,
		Start:         r.StartTime,
		End:           r.EndTime,
		TotalCost:     r.TotalCost,
		Status:        string(r.Status),
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := queue_publisher.PublishReservationEvent(ctx, ev); err != nil {
		log.Printf("reservation handler: publish %s failed: %v", kind, err)
	}
}
