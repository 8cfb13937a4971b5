package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelys/salonops/internal/repository"
	"github.com/avelys/salonops/internal/service"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			"validation errors",
			service.ValidationErrors{{Field: "start_time", Message: "is required"}},
			http.StatusBadRequest,
			`"start_time"`,
		},
		{
			"schedule conflict carries the blocking id",
			&service.ConflictError{BookingID: 17},
			http.StatusConflict,
			`"conflict_booking_id":17`,
		},
		{
			"bad transition",
			&service.TransitionError{From: "completed", To: "pending"},
			http.StatusUnprocessableEntity,
			"completed",
		},
		{
			"missing booking",
			repository.ErrBookingNotFound,
			http.StatusNotFound,
			"booking not found",
		},
		{
			"missing payment",
			repository.ErrPaymentNotFound,
			http.StatusNotFound,
			"payment not found",
		},
		{
			"unknown errors stay generic",
			errors.New("dial tcp: connection refused"),
			http.StatusInternalServerError,
			"internal error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t)
			require.NoError(t, respondServiceError(c, tt.err))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestGetUserID(t *testing.T) {
	c, _ := newTestContext(t)
	c.Set("user_id", float64(42))
	id, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	c.Set("user_id", "7")
	id, err = getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)

	c.Set("user_id", nil)
	_, err = getUserID(c)
	require.Error(t, err)
}

func TestPathID(t *testing.T) {
	c, _ := newTestContext(t)
	c.SetParamNames("id")
	c.SetParamValues("15")
	id, err := pathID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), id)

	for _, bad := range []string{"0", "-3", "abc", ""} {
		c.SetParamValues(bad)
		_, err := pathID(c)
		require.Errorf(t, err, "value %q", bad)
	}
}
