package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	base := errors.New("boom")
	err := UnprocessableError("ERR_DEGENERATE_VALUATION", "discount rate must exceed terminal growth rate").
		WithParam("discount", 0.05).
		WithError(base)

	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "discount rate must exceed terminal growth rate: boom", err.Error())

	v := err.Validation()
	require.Len(t, v, 1)
	assert.Equal(t, "ERR_DEGENERATE_VALUATION", v[0].Code)
	assert.Equal(t, 0.05, v[0].Params["discount"])

	details := []ValidationError{{Code: "ERR_REQUIRED", Field: "fcf"}}
	assert.Equal(t, details, BadRequestError("bad").WithDetails(details).Validation())
}

func TestBindingErrors(t *testing.T) {
	errs := []error{
		echo.NewBindingError("fcf", []string{}, "required field value is empty", nil),
		echo.NewBindingError("years", []string{"two"}, "failed to bind field value to uint", errors.New("parse")),
	}

	got := BindingErrors(errs)
	require.Len(t, got, 2)
	assert.Equal(t, ValidationError{Code: "ERR_REQUIRED", Field: "fcf", Message: "fcf is required"}, got[0])
	assert.Equal(t, "ERR_NUMERIC", got[1].Code)
	assert.Equal(t, "years", got[1].Field)
	assert.Equal(t, "two", got[1].Params["value"])

	assert.Nil(t, BindingErrors(nil))
}

func TestValidateStruct(t *testing.T) {
	type req struct {
		Years uint `json:"years" validate:"gte=1"`
		Name  string
	}

	assert.Nil(t, ValidateStruct(context.Background(), &req{Years: 2}))

	got := ValidateStruct(context.Background(), &req{})
	require.Len(t, got, 1)
	assert.Equal(t, "ERR_GTE", got[0].Code)
	assert.Equal(t, "years", got[0].Field)
	assert.Equal(t, "1", got[0].Params["min"])
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "app error", err: BadRequestError("nope"), status: http.StatusBadRequest, code: "ERR_BAD_REQUEST"},
		{name: "echo error", err: echo.ErrNotFound, status: http.StatusNotFound, code: "ERR_HTTP"},
		{name: "plain error", err: errors.New("x"), status: http.StatusInternalServerError, code: "ERR_INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			ErrorHandler(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			var body APIResponse400Err
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			require.Len(t, body.Data, 1)
			assert.Equal(t, tt.code, body.Data[0].Code)
		})
	}
}
