package marshal

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cdsmodel/cellbridge/analytics"
	"github.com/cdsmodel/cellbridge/domain/entities"
)

// Converter turns one non-array host value into T. The name is used in
// TypeError messages.
type Converter[T any] struct {
	Name    string
	Convert func(entities.Value) (T, error)
}

var errNotFinite = errors.New("number is not finite")

// Double reads a finite number. Booleans read as 0 and 1.
var Double = Converter[float64]{Name: "number", Convert: func(v entities.Value) (float64, error) {
	switch x := v.(type) {
	case entities.Number:
		return finite(float64(x))
	case entities.Boolean:
		if x {
			return 1, nil
		}
		return 0, nil
	case entities.Text:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		if err != nil {
			return 0, err
		}
		return finite(f)
	}
	return 0, errUnsupported
}}

// finite rejects NaN and the infinities, which ParseFloat also accepts as
// text.
func finite(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}

// Long reads a whole number, truncating any fraction toward zero.
var Long = Converter[int64]{Name: "integer", Convert: func(v entities.Value) (int64, error) {
	f, err := Double.Convert(v)
	if err != nil {
		return 0, err
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%g is out of range", f)
	}
	return int64(f), nil
}}

// Bool reads a flag from a boolean, a number (non-zero is true) or the text
// TRUE / FALSE.
var Bool = Converter[bool]{Name: "boolean", Convert: func(v entities.Value) (bool, error) {
	switch x := v.(type) {
	case entities.Boolean:
		return bool(x), nil
	case entities.Number:
		return x != 0, nil
	case entities.Text:
		return strconv.ParseBool(strings.TrimSpace(string(x)))
	}
	return false, errUnsupported
}}

// String reads text. Numbers are not coerced.
var String = Converter[string]{Name: "text", Convert: func(v entities.Value) (string, error) {
	if x, ok := v.(entities.Text); ok {
		return string(x), nil
	}
	return "", errUnsupported
}}

// Date reads a host serial date number.
var Date = Converter[analytics.Date]{Name: "date", Convert: func(v entities.Value) (analytics.Date, error) {
	if x, ok := v.(entities.Number); ok {
		return analytics.FromSerial(float64(x))
	}
	return 0, errUnsupported
}}

var errUnsupported = errors.New("unsupported value")

var errLengthMismatch = errors.New("dates and values differ in length")
