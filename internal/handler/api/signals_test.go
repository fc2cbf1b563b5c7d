package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"FinStream/internal/domain/models"
	xhttp "FinStream/pkg/http"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, target, contentType, body string) echo.Context {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func validSignals() models.RawSignals {
	return models.RawSignals{
		"fcf":      "100",
		"growth":   "0.05",
		"discount": "0.1",
		"terminal": "0.02",
		"years":    "3",
	}
}

func fieldCodes(t *testing.T, err error) map[string]string {
	t.Helper()
	var mie *MalformedInputError
	require.True(t, errors.As(err, &mie), "expected MalformedInputError, got %v", err)
	codes := make(map[string]string, len(mie.Details))
	for _, d := range mie.Details {
		codes[d.Field] = d.Code
	}
	return codes
}

func TestReadSignals_DatastarQuery(t *testing.T) {
	q := url.Values{datastarParam: {`{"fcf":100,"growth":0.05,"label":"x","live":true,"none":null,"nested":{"a":1}}`}}
	c := newContext(http.MethodGet, "/calculator/valuation?"+q.Encode(), "", "")

	raw, err := ReadSignals(c)
	require.NoError(t, err)
	assert.Equal(t, models.RawSignals{
		"fcf":    "100",
		"growth": "0.05",
		"label":  "x",
		"live":   "true",
	}, raw)
}

func TestReadSignals_JSONBody(t *testing.T) {
	c := newContext(http.MethodPost, "/calculator/valuation", echo.MIMEApplicationJSON, `{"years":5,"fcf":1e3}`)

	raw, err := ReadSignals(c)
	require.NoError(t, err)
	assert.Equal(t, "5", raw.Get("years"))
	assert.Equal(t, "1e3", raw.Get("fcf"))
}

func TestReadSignals_DatastarQueryWinsOverBody(t *testing.T) {
	q := url.Values{datastarParam: {`{"delay":10}`}}
	c := newContext(http.MethodPost, "/hello-world?"+q.Encode(), echo.MIMEApplicationJSON, `{"delay":99}`)

	raw, err := ReadSignals(c)
	require.NoError(t, err)
	assert.Equal(t, "10", raw.Get("delay"))
}

func TestReadSignals_PlainQueryAndForm(t *testing.T) {
	c := newContext(http.MethodGet, "/hello-world?delay=250", "", "")
	raw, err := ReadSignals(c)
	require.NoError(t, err)
	assert.Equal(t, models.RawSignals{"delay": "250"}, raw)

	c = newContext(http.MethodPost, "/calculator/valuation", echo.MIMEApplicationForm, "fcf=10&years=2")
	raw, err = ReadSignals(c)
	require.NoError(t, err)
	assert.Equal(t, "10", raw.Get("fcf"))
	assert.Equal(t, "2", raw.Get("years"))
}

func TestReadSignals_Malformed(t *testing.T) {
	tests := []struct {
		name string
		ctx  echo.Context
	}{
		{
			name: "query not json",
			ctx:  newContext(http.MethodGet, "/hello-world?"+url.Values{datastarParam: {"{delay"}}.Encode(), "", ""),
		},
		{
			name: "query json array",
			ctx:  newContext(http.MethodGet, "/hello-world?"+url.Values{datastarParam: {"[1,2]"}}.Encode(), "", ""),
		},
		{
			name: "body not json",
			ctx:  newContext(http.MethodPost, "/calculator/valuation", echo.MIMEApplicationJSON, "fcf=1"),
		},
		{
			name: "two objects",
			ctx:  newContext(http.MethodPost, "/calculator/valuation", echo.MIMEApplicationJSON, `{"a":1}{"b":2}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSignals(tt.ctx)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrMalformedInput)
		})
	}
}

func TestDecodeValuation(t *testing.T) {
	req, err := DecodeValuation(context.Background(), validSignals())
	require.NoError(t, err)
	assert.Equal(t, models.ValuationRequest{
		FreeCashFlow:       100,
		GrowthRate:         0.05,
		DiscountRate:       0.1,
		TerminalGrowthRate: 0.02,
		HorizonYears:       3,
	}, req)
}

func TestDecodeValuation_MissingTerminal(t *testing.T) {
	raw := validSignals()
	delete(raw, "terminal")

	_, err := DecodeValuation(context.Background(), raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrMalformedInput)
	assert.Equal(t, map[string]string{"terminal": "ERR_REQUIRED"}, fieldCodes(t, err))
}

func TestDecodeValuation_ReportsEveryField(t *testing.T) {
	raw := models.RawSignals{
		"fcf":      "lots",
		"discount": "0.1",
		"terminal": "0.02",
		"years":    "-1",
	}

	_, err := DecodeValuation(context.Background(), raw)
	assert.Equal(t, map[string]string{
		"fcf":    "ERR_NUMERIC",
		"growth": "ERR_REQUIRED",
		"years":  "ERR_NUMERIC",
	}, fieldCodes(t, err))
}

func TestDecodeValuation_ZeroYears(t *testing.T) {
	raw := validSignals()
	raw["years"] = "0"

	_, err := DecodeValuation(context.Background(), raw)
	assert.Equal(t, map[string]string{"years": "ERR_GTE"}, fieldCodes(t, err))
}

func TestDecodeValuation_HorizonUpperBound(t *testing.T) {
	for _, years := range []string{"1001", "1099511627776", "18446744073709551615"} {
		t.Run(years, func(t *testing.T) {
			raw := validSignals()
			raw["years"] = years

			_, err := DecodeValuation(context.Background(), raw)
			assert.Equal(t, map[string]string{"years": "ERR_LTE"}, fieldCodes(t, err))
		})
	}

	raw := validSignals()
	raw["years"] = strconv.Itoa(models.MaxHorizonYears)
	req, err := DecodeValuation(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, uint(models.MaxHorizonYears), req.HorizonYears)
}

func TestDecodeValuation_NoClamping(t *testing.T) {
	raw := validSignals()
	raw["growth"] = "-0.5"
	raw["discount"] = "0.01"
	raw["terminal"] = "0.5"

	req, err := DecodeValuation(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, -0.5, req.GrowthRate)
	assert.Equal(t, 0.01, req.DiscountRate)
	assert.Equal(t, 0.5, req.TerminalGrowthRate)
}

func TestDecodePacing(t *testing.T) {
	sig, err := DecodePacing(models.RawSignals{"delay": "400"})
	require.NoError(t, err)
	assert.Equal(t, uint64(400), sig.DelayMilliseconds)

	_, err = DecodePacing(models.RawSignals{})
	assert.Equal(t, map[string]string{"delay": "ERR_REQUIRED"}, fieldCodes(t, err))

	_, err = DecodePacing(models.RawSignals{"delay": "1.5"})
	assert.Equal(t, map[string]string{"delay": "ERR_NUMERIC"}, fieldCodes(t, err))
}

func TestMalformedInputError(t *testing.T) {
	err := &MalformedInputError{Details: []xhttp.ValidationError{
		{Field: "fcf", Message: "fcf is required"},
		{Field: "years", Message: "years must be a number"},
	}}
	assert.True(t, errors.Is(err, models.ErrMalformedInput))
	assert.Equal(t, "malformed input: fcf is required; years must be a number", err.Error())
}
