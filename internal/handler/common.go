package handler // handler defines http handlers for the booking service

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-station-booking/internal/booking"
)

// getUserID extracts the authenticated account id placed into the
// context by the JWT middleware.  Account ids are UUID strings.
func getUserID(c echo.Context) (string, error) {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("invalid user_id in context")
}

// getRole extracts the role claim placed into the context by the JWT
// middleware.
func getRole(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}

// writeBookingError maps the engine's typed errors onto HTTP responses.
// Every rejected precondition carries a machine-readable "error" code;
// validation failures additionally name the offending field.  Anything
// unrecognised is reported as a 500 database/engine failure.
func writeBookingError(c echo.Context, err error) error {
	var fieldErr *booking.FieldValidationError
	if errors.As(err, &fieldErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "validation_failed",
			"field":   fieldErr.Field,
			"message": fieldErr.Message,
		})
	}
	var createWin *booking.CreationWindowError
	if errors.As(err, &createWin) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "outside_booking_window",
			"message": createWin.Error(),
		})
	}
	var modWin *booking.ModificationWindowError
	if errors.As(err, &modWin) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "too_late_to_modify",
			"message": modWin.Error(),
		})
	}
	var conflict *booking.ConflictError
	if errors.As(err, &conflict) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "slot_conflict",
			"message": conflict.Error(),
		})
	}
	var trans *booking.IllegalTransitionError
	if errors.As(err, &trans) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "illegal_transition",
			"message": trans.Error(),
		})
	}
	switch {
	case errors.Is(err, booking.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, booking.ErrStationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
	case errors.Is(err, booking.ErrTokenNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "qr token not found"})
	case errors.Is(err, booking.ErrStationInactive):
		return c.JSON(http.StatusConflict, echo.Map{"error": "station is not active"})
	case errors.Is(err, booking.ErrAlreadyCompleted):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already completed"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
