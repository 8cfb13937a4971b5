package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avelys/salonops/internal/service"
)

// PaymentHandler exposes the payment ledger over HTTP.
type PaymentHandler struct {
	Payments *service.PaymentService
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	if payments == nil {
		panic("nil service passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: payments}
}

// Create handles POST /v1/payments. 201 on success; 400 on field
// violations; 404 when the booking is missing or inactive. The owning
// booking's payment status is reconciled before the response is sent.
func (h *PaymentHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var input service.AddPaymentInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	payment, err := h.Payments.Add(c.Request().Context(), input, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"payment_id": payment.ID,
		"payment":    payment,
	})
}

// ListForBooking handles GET /v1/bookings/:id/payments and returns the
// full ledger history for one booking, reversed rows included.
func (h *PaymentHandler) ListForBooking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	payments, err := h.Payments.ListForBooking(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": payments})
}

// Delete handles DELETE /v1/payments/:id. The payment is reversed (soft
// deleted) and the owning booking reconciled; 404 when it does not
// exist or was already reversed.
func (h *PaymentHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	if err := h.Payments.Reverse(c.Request().Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
