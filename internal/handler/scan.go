package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-station-booking/internal/booking"
	"github.com/iliyamo/ev-station-booking/internal/queue"
)

// ScanHandler serves the station operator's on-site check-in flow.
// Camera/image decoding happens on the device; by the time a request
// arrives here the QR code has already been reduced to its token
// string.
type ScanHandler struct {
	Engine *booking.Engine
}

// NewScanHandler constructs a ScanHandler.  The engine must be non-nil.
func NewScanHandler(engine *booking.Engine) *ScanHandler {
	if engine == nil {
		panic("nil engine passed to NewScanHandler")
	}
	return &ScanHandler{Engine: engine}
}

// Scan handles POST /v1/scan.  The body carries the decoded token; the
// response is the full reservation snapshot for operator display.
// Unknown tokens yield 404, already-completed reservations 409.
func (h *ScanHandler) Scan(c echo.Context) error {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}
	r, err := h.Engine.Scan(c.Request().Context(), body.Token)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": r})
}

// Finalize handles POST /v1/reservations/:id/finalize.  Operators
// confirm session completion right after a scan; double-taps are
// harmless because finalizing an already-completed reservation is a
// no-op success.
func (h *ScanHandler) Finalize(c echo.Context) error {
	r, err := h.Engine.Finalize(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeBookingError(c, err)
	}
	publishReservationEvent(queue.KindReservationCompleted, r)
	return c.JSON(http.StatusOK, echo.Map{"item": r})
}
