package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/avelys/salonops/internal/repository"
	"github.com/avelys/salonops/internal/service"
)

// getUserID extracts the authenticated user's ID from the echo context.
// JWTAuth stores the sub claim there; JSON numbers arrive as float64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id path parameter as a positive integer.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// respondServiceError translates service and repository errors into
// HTTP responses. Anything it does not recognize becomes a 500 with a
// generic body so internals never leak to clients.
func respondServiceError(c echo.Context, err error) error {
	var verrs service.ValidationErrors
	if errors.As(err, &verrs) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "validation failed",
			"fields": verrs,
		})
	}
	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":               "schedule conflict",
			"conflict_booking_id": conflict.BookingID,
		})
	}
	var transition *service.TransitionError
	if errors.As(err, &transition) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": transition.Error(),
		})
	}
	switch {
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrPaymentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
	case errors.Is(err, repository.ErrCustomerNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
