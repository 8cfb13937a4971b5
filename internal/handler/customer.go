package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelys/salonops/internal/model"
	"github.com/avelys/salonops/internal/repository"
)

// CustomerHandler exposes the customer address book.
type CustomerHandler struct {
	Customers *repository.CustomerRepo
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(customers *repository.CustomerRepo) *CustomerHandler {
	if customers == nil {
		panic("nil repository passed to NewCustomerHandler")
	}
	return &CustomerHandler{Customers: customers}
}

// Create handles POST /v1/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	var body struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Note     string `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.FullName = strings.TrimSpace(body.FullName)
	if body.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name is required"})
	}
	customer := &model.Customer{
		FullName: body.FullName,
		Phone:    strings.TrimSpace(body.Phone),
		Email:    strings.ToLower(strings.TrimSpace(body.Email)),
		Note:     body.Note,
	}
	if err := h.Customers.Create(c.Request().Context(), customer); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create customer failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"customer": customer})
}

// List handles GET /v1/customers.
func (h *CustomerHandler) List(c echo.Context) error {
	customers, err := h.Customers.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list customers failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"customers": customers})
}

// Get handles GET /v1/customers/:id.
func (h *CustomerHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	customer, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"customer": customer})
}
