package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/dafibh/budgetly/budgetly-backend/internal/domain"
	"github.com/dafibh/budgetly/budgetly-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// fieldError pins a domain validation error to the request field it came from
type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string { return e.err.Error() }

func (e *fieldError) Unwrap() error { return e.err }

func withField(field string, err error) error {
	if err == nil {
		return nil
	}
	return &fieldError{field: field, err: err}
}

// errorField returns the request field an error refers to, if known
func errorField(err error) (string, bool) {
	var fe *fieldError
	if errors.As(err, &fe) {
		return fe.field, true
	}
	for target, field := range errorFields {
		if errors.Is(err, target) {
			return field, true
		}
	}
	return "", false
}

// parseID reads the :id path parameter
func parseID(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return int32(id), nil
}

// isNull reports whether a raw JSON field was sent as an explicit null
func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// parseAmount accepts an amount sent either as a JSON string ("12.50") or as
// a JSON number (12.5). The number literal is parsed as text so no float
// rounding happens.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isNull(raw) {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, domain.ErrInvalidAmount
		}
		return domain.ParseAmount(s)
	}
	return domain.ParseAmount(string(raw))
}

// parseCategoryRef reads a category reference. A missing field yields
// (nil, false); an explicit null yields (nil, true).
func parseCategoryRef(raw json.RawMessage) (id *int32, null bool, err error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, false, nil
	}
	if isNull(raw) {
		return nil, true, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, false, domain.ErrInvalidCategory
		}
		n = json.Number(s)
	}
	v, err := strconv.ParseInt(n.String(), 10, 32)
	if err != nil || v <= 0 {
		return nil, false, domain.ErrInvalidCategory
	}
	id32 := int32(v)
	return &id32, false, nil
}

// parseText reads an optional free-text field. An explicit null reads as an
// empty string, which clears the stored value.
func parseText(field string, raw json.RawMessage) (*string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	if isNull(raw) {
		empty := ""
		return &empty, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, withField(field, domain.ErrInvalidText)
	}
	return &s, nil
}

// parseDateField parses an optional YYYY-MM-DD field
func parseDateField(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	d, err := util.ParseOptionalDate(*value)
	if err != nil {
		return nil, withField(field, domain.ErrInvalidDateFmt)
	}
	return d, nil
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter
func parseDateQuery(c echo.Context, name string) (*time.Time, error) {
	value := c.QueryParam(name)
	return parseDateField(name, &value)
}
