package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"FinStream/internal/domain/models"
	xhttp "FinStream/pkg/http"

	"github.com/labstack/echo/v4"
)

// datastarParam carries the JSON-encoded signals of datastar GET requests.
const datastarParam = "datastar"

const maxSignalBytes = 64 << 10

// MalformedInputError lists every signal that was missing or unparsable.
type MalformedInputError struct {
	Details []xhttp.ValidationError
}

func (e *MalformedInputError) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Message)
	}
	return fmt.Sprintf("%s: %s", models.ErrMalformedInput, strings.Join(parts, "; "))
}

func (e *MalformedInputError) Unwrap() error { return models.ErrMalformedInput }

func malformed(code, message string) *MalformedInputError {
	return &MalformedInputError{Details: []xhttp.ValidationError{{Code: code, Message: message}}}
}

// ReadSignals collects the raw signals of a request. The datastar query
// parameter wins over a JSON body, which wins over plain query or form
// values. Only the first source present is read.
func ReadSignals(c echo.Context) (models.RawSignals, error) {
	req := c.Request()

	if v := c.QueryParam(datastarParam); v != "" {
		return parseSignalJSON(strings.NewReader(v))
	}

	if req.Body != nil && req.Method != http.MethodGet &&
		strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		body, err := io.ReadAll(io.LimitReader(req.Body, maxSignalBytes+1))
		if err != nil {
			return nil, fmt.Errorf("read signals body: %w", err)
		}
		if len(body) > maxSignalBytes {
			return nil, malformed("ERR_TOO_LARGE", "signals body is too large")
		}
		if len(bytes.TrimSpace(body)) > 0 {
			return parseSignalJSON(bytes.NewReader(body))
		}
	}

	values := c.QueryParams()
	if req.Method == http.MethodPost {
		form, err := c.FormParams()
		if err != nil {
			return nil, malformed("ERR_MALFORMED_SIGNALS", "form body could not be parsed")
		}
		values = form
	}
	raw := make(models.RawSignals, len(values))
	for k, vs := range values {
		if k == datastarParam || len(vs) == 0 {
			continue
		}
		raw[k] = vs[0]
	}
	return raw, nil
}

// parseSignalJSON flattens a JSON object into text values. Numbers keep
// their literal text; null, objects and arrays count as absent.
func parseSignalJSON(r io.Reader) (models.RawSignals, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, malformed("ERR_MALFORMED_SIGNALS", "signals must be a JSON object")
	}
	if dec.More() {
		return nil, malformed("ERR_MALFORMED_SIGNALS", "signals must be a single JSON object")
	}

	raw := make(models.RawSignals, len(obj))
	for k, v := range obj {
		switch t := v.(type) {
		case json.Number:
			raw[k] = t.String()
		case string:
			raw[k] = t
		case bool:
			raw[k] = strconv.FormatBool(t)
		}
	}
	return raw, nil
}

func binder(raw models.RawSignals) *echo.ValueBinder {
	b := &echo.ValueBinder{
		ValueFunc:  raw.Get,
		ValuesFunc: raw.Values,
		ErrorFunc:  echo.NewBindingError,
	}
	return b.FailFast(false)
}

// DecodeValuation parses the five valuation signals. All of them are
// required; every bad field is reported.
func DecodeValuation(ctx context.Context, raw models.RawSignals) (models.ValuationRequest, error) {
	var req models.ValuationRequest
	b := binder(raw).
		MustFloat64("fcf", &req.FreeCashFlow).
		MustFloat64("growth", &req.GrowthRate).
		MustFloat64("discount", &req.DiscountRate).
		MustFloat64("terminal", &req.TerminalGrowthRate).
		MustUint("years", &req.HorizonYears)

	details := xhttp.BindingErrors(b.BindErrors())
	details = appendRuleErrors(details, xhttp.ValidateStruct(ctx, &req))
	if len(details) > 0 {
		return models.ValuationRequest{}, &MalformedInputError{Details: details}
	}
	return req, nil
}

// DecodePacing parses the delay signal, in milliseconds.
func DecodePacing(raw models.RawSignals) (models.PacingSignal, error) {
	var sig models.PacingSignal
	b := binder(raw).MustUint64("delay", &sig.DelayMilliseconds)
	if details := xhttp.BindingErrors(b.BindErrors()); len(details) > 0 {
		return models.PacingSignal{}, &MalformedInputError{Details: details}
	}
	return sig, nil
}

// appendRuleErrors adds struct rule failures for fields that bound cleanly.
func appendRuleErrors(details, rules []xhttp.ValidationError) []xhttp.ValidationError {
	seen := make(map[string]bool, len(details))
	for _, d := range details {
		seen[d.Field] = true
	}
	for _, r := range rules {
		if !seen[r.Field] {
			details = append(details, r)
		}
	}
	return details
}
