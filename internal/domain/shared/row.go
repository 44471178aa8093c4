package shared

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Canonical encodings used at the gateway boundary
const (
	DateLayout = "2006-01-02"
)

// Row is an untyped record as stored in the remote tabular store. Rows are
// decoded into typed entities by the persistence layer; business logic never
// touches a Row directly.
type Row map[string]any

// Clone returns a shallow copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether the field is present and non-nil
func (r Row) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}

// String decodes a required string field
func (r Row) String(field string) (string, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", fmt.Errorf("row field %q is missing", field)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("row field %q is not a string (got %T)", field, v)
	}
	return s, nil
}

// OptString decodes an optional string field; absent or null yields nil
func (r Row) OptString(field string) (*string, error) {
	if !r.Has(field) {
		return nil, nil
	}
	s, err := r.String(field)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Bool decodes a required boolean field
func (r Row) Bool(field string) (bool, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return false, fmt.Errorf("row field %q is missing", field)
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case int64:
		return b != 0, nil
	case float64:
		return b != 0, nil
	default:
		return false, fmt.Errorf("row field %q is not a bool (got %T)", field, v)
	}
}

// OptBool decodes an optional boolean field
func (r Row) OptBool(field string) (*bool, error) {
	if !r.Has(field) {
		return nil, nil
	}
	b, err := r.Bool(field)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Int decodes a required integer field
func (r Row) Int(field string) (int, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return 0, fmt.Errorf("row field %q is missing", field)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("row field %q is not an integer: %w", field, err)
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("row field %q is not an integer (got %T)", field, v)
	}
}

// OptInt decodes an optional integer field
func (r Row) OptInt(field string) (*int, error) {
	if !r.Has(field) {
		return nil, nil
	}
	n, err := r.Int(field)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Decimal decodes a required decimal field; the store carries decimals as
// numbers, but string and json.Number forms are tolerated
func (r Row) Decimal(field string) (decimal.Decimal, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return decimal.Zero, fmt.Errorf("row field %q is missing", field)
	}
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, fmt.Errorf("row field %q is not a decimal: %w", field, err)
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("row field %q is not a decimal: %w", field, err)
		}
		return d, nil
	case decimal.Decimal:
		return n, nil
	default:
		return decimal.Zero, fmt.Errorf("row field %q is not a decimal (got %T)", field, v)
	}
}

// OptDecimal decodes an optional decimal field
func (r Row) OptDecimal(field string) (*decimal.Decimal, error) {
	if !r.Has(field) {
		return nil, nil
	}
	d, err := r.Decimal(field)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Date decodes a required ISO-8601 date field (no time component)
func (r Row) Date(field string) (time.Time, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return time.Time{}, fmt.Errorf("row field %q is missing", field)
	}
	switch d := v.(type) {
	case string:
		t, err := time.Parse(DateLayout, d)
		if err != nil {
			// Some stores echo dates back with a time component
			t, err = time.Parse(time.RFC3339, d)
			if err != nil {
				return time.Time{}, fmt.Errorf("row field %q is not an ISO date: %w", field, err)
			}
		}
		return t, nil
	case time.Time:
		return d, nil
	default:
		return time.Time{}, fmt.Errorf("row field %q is not a date (got %T)", field, v)
	}
}

// OptDate decodes an optional ISO-8601 date field
func (r Row) OptDate(field string) (*time.Time, error) {
	if !r.Has(field) {
		return nil, nil
	}
	t, err := r.Date(field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Time decodes a required RFC 3339 timestamp field
func (r Row) Time(field string) (time.Time, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return time.Time{}, fmt.Errorf("row field %q is missing", field)
	}
	switch ts := v.(type) {
	case string:
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return time.Time{}, fmt.Errorf("row field %q is not an RFC 3339 timestamp: %w", field, err)
		}
		return t, nil
	case time.Time:
		return ts, nil
	default:
		return time.Time{}, fmt.Errorf("row field %q is not a timestamp (got %T)", field, v)
	}
}

// OptTime decodes an optional RFC 3339 timestamp field
func (r Row) OptTime(field string) (*time.Time, error) {
	if !r.Has(field) {
		return nil, nil
	}
	t, err := r.Time(field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// EncodeDate encodes a date for the gateway boundary
func EncodeDate(t time.Time) string {
	return t.Format(DateLayout)
}

// EncodeTime encodes a timestamp for the gateway boundary
func EncodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// EncodeDecimal encodes a decimal as a number for the gateway boundary
func EncodeDecimal(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
