package trade

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrNotANumber is returned when a raw quantity cannot be coerced to an integer
var ErrNotANumber = errors.New("quantity is not a valid integer")

// CoerceQuantity converts a user-supplied quantity into an int64
// Accepted: Go integer types, integral float64/float32/json.Number values,
// and strings holding a base-10 integer (surrounding whitespace and a sign allowed).
// Rejected: fractional numbers, decimal strings ("10.0"), bool, nil, and anything outside int64.
// Positivity is checked by the caller.
func CoerceQuantity(raw any) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return fromUint(uint64(v))
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return fromUint(v)
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	case json.Number:
		return fromNumber(v)
	case string:
		return fromString(v)
	default:
		return 0, ErrNotANumber
	}
}

func fromUint(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, ErrNotANumber
	}
	return int64(v), nil
}

func fromFloat(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, ErrNotANumber
	}
	// 2^63 is the first float64 above MaxInt64
	if v >= math.Exp2(63) || v < -math.Exp2(63) {
		return 0, ErrNotANumber
	}
	return int64(v), nil
}

// fromNumber accepts any integral JSON number, including "10.0" and "1e3" forms
func fromNumber(n json.Number) (int64, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, ErrNotANumber
	}
	return fromFloat(f)
}

// fromString accepts only base-10 integer text; "10.0" is not an integer string
func fromString(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, ErrNotANumber
	}
	return n, nil
}
