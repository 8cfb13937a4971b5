package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avelys/salonops/internal/repository"
)

// ReportHandler serves the read-only dashboard aggregates. The route is
// wrapped in the response-cache middleware, so repeated loads within
// the cache TTL never hit the database.
type ReportHandler struct {
	Reports *repository.ReportRepo
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reports *repository.ReportRepo) *ReportHandler {
	if reports == nil {
		panic("nil repository passed to NewReportHandler")
	}
	return &ReportHandler{Reports: reports}
}

// Summary handles GET /v1/reports/daily?date=YYYY-MM-DD. The date
// defaults to today (UTC) when omitted.
func (h *ReportHandler) Summary(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	summary, err := h.Reports.Summary(c.Request().Context(), date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build summary failed"})
	}
	return c.JSON(http.StatusOK, summary)
}
