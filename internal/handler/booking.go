package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avelys/salonops/internal/service"
)

// BookingHandler exposes the booking lifecycle over HTTP. All routes
// assume JWTAuth and RequireRole have already run.
type BookingHandler struct {
	Bookings *service.BookingService
	Payments *service.PaymentService
}

// NewBookingHandler constructs a BookingHandler. Both services must be
// non-nil.
func NewBookingHandler(bookings *service.BookingService, payments *service.PaymentService) *BookingHandler {
	if bookings == nil || payments == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Payments: payments}
}

// Create handles POST /v1/bookings. Responses: 201 with the booking and
// its id; 400 listing every violated field; 409 with the conflicting
// booking's id on a schedule overlap.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var input service.CreateBookingInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	booking, err := h.Bookings.Create(c.Request().Context(), input, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id": booking.ID,
		"booking":    booking,
	})
}

// List handles GET /v1/bookings and returns all active bookings with
// their staff assignments.
func (h *BookingHandler) List(c echo.Context) error {
	bookings, err := h.Bookings.List(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// Get handles GET /v1/bookings/:id and returns one booking together
// with its full payment history.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	booking, err := h.Bookings.Get(ctx, id)
	if err != nil {
		return respondServiceError(c, err)
	}
	payments, err := h.Payments.ListForBooking(ctx, id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking":  booking,
		"payments": payments,
	})
}

// UpdateStatus handles PATCH /v1/bookings/:id/status. Disallowed state
// machine edges come back as 422; a soft-deleted booking is a silent
// no-op and still returns 200.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	booking, err := h.Bookings.UpdateStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": booking})
}

// Delete handles DELETE /v1/bookings/:id. The booking is hidden, not
// purged; its payments and staff assignments stay in storage.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.Bookings.SoftDelete(c.Request().Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
