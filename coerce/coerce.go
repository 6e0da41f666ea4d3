// Package coerce converts raw update values (strings and JSON-decoded
// primitives) into the native Go types backing scalar columns.
package coerce

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"restmap/schema"
)

// ConversionError reports a value that cannot be converted to the requested
// column type.
type ConversionError struct {
	Value any
	Kind  schema.ScalarKind
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("unable to convert %v to %s", e.Value, e.Kind)
}

// Coerce converts a raw value to the native type for the given scalar kind:
// string, int64, float64, bool, or time.Time. Nil passes through untouched
// so nullable columns can be cleared. Numeric strings are accepted for
// numeric columns since flat update payloads often arrive as query
// parameters where everything is a string.
func Coerce(raw any, kind schema.ScalarKind) (any, error) {
	if raw == nil {
		return nil, nil
	}

	switch kind {
	case schema.ScalarString:
		return toString(raw)
	case schema.ScalarInt:
		return toInt(raw)
	case schema.ScalarFloat:
		return toFloat(raw)
	case schema.ScalarBool:
		return toBool(raw)
	case schema.ScalarTime:
		return toTime(raw)
	default:
		return nil, &ConversionError{Value: raw, Kind: kind}
	}
}

func toString(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return nil, &ConversionError{Value: raw, Kind: schema.ScalarString}
	}
}

func toInt(raw any) (any, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return nil, &ConversionError{Value: raw, Kind: schema.ScalarInt}
		}

		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, &ConversionError{Value: raw, Kind: schema.ScalarInt}
		}

		return n, nil
	default:
		return nil, &ConversionError{Value: raw, Kind: schema.ScalarInt}
	}
}

func toFloat(raw any) (any, error) {
	switch v := raw.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &ConversionError{Value: raw, Kind: schema.ScalarFloat}
		}

		return f, nil
	default:
		return nil, &ConversionError{Value: raw, Kind: schema.ScalarFloat}
	}
}

func toBool(raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case int64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case float64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case string:
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b, nil
		}
	}

	return nil, &ConversionError{Value: raw, Kind: schema.ScalarBool}
}

func toTime(raw any) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
	}

	return nil, &ConversionError{Value: raw, Kind: schema.ScalarTime}
}
