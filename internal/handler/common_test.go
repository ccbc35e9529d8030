package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/hall-booking/internal/timerange"
)

func TestTimeErrorMessage(t *testing.T) {
	for _, err := range []error{
		timerange.ErrInvalidDate,
		timerange.ErrInvalidTimeFormat,
		timerange.ErrInvalidTimeGranularity,
		fmt.Errorf("wrapped: %w", timerange.ErrInvalidTimeRange),
	} {
		msg, ok := timeErrorMessage(err)
		assert.True(t, ok, err.Error())
		assert.NotEmpty(t, msg)
	}
	_, ok := timeErrorMessage(fmt.Errorf("db down"))
	assert.False(t, ok)
}

func TestBindAndValidate(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	ctx := func(body string) echo.Context {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		return e.NewContext(req, httptest.NewRecorder())
	}

	var ok bookingReq
	assert.Empty(t, bindAndValidate(ctx(`{"bookingType":"Lecture","date":"2024-06-01","hallName":"Lab A","startTime":"10:00","endTime":"11:00"}`), &ok))
	assert.Equal(t, "Lab A", ok.HallName)

	var missing bookingReq
	assert.Equal(t, "HallName is required",
		bindAndValidate(ctx(`{"bookingType":"Lecture","date":"2024-06-01","startTime":"10:00","endTime":"11:00"}`), &missing))

	var bad staffReq
	assert.Equal(t, "invalid request body", bindAndValidate(ctx(`{"reg_no":`), &bad))
}

func TestParseIDParam(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("42")
	id, ok := parseIDParam(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)

	c.SetParamValues("0")
	_, ok = parseIDParam(c, "id")
	assert.False(t, ok)
}
