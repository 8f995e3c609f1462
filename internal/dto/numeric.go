package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Numeric accepts a JSON number or numeric-looking text ("72.5", " 180 ").
// Forms post values as strings, so both shapes must decode.
type Numeric struct {
	Value float64
	Set   bool
	Valid bool
}

func (n *Numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*n = Numeric{Set: true}
	if bytes.Equal(b, []byte("null")) {
		n.Set = false
		return nil
	}

	var raw string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil
		}
	} else {
		raw = string(b)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n.Value = f
	n.Valid = true
	return nil
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Int reports the value as an integer when it has no fractional part.
func (n Numeric) Int() (int64, bool) {
	if !n.Valid || n.Value != math.Trunc(n.Value) {
		return 0, false
	}
	return int64(n.Value), true
}

// Num builds a valid Numeric, mostly for tests and internal callers.
func Num(v float64) Numeric {
	return Numeric{Value: v, Set: true, Valid: true}
}
