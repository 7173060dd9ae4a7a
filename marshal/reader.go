package marshal

import (
	"github.com/cdsmodel/cellbridge/domain/entities"
	domainerrors "github.com/cdsmodel/cellbridge/domain/errors"
)

// ReadScalar reads a single value. A missing mandatory value fails with
// MissingRequiredError; a missing optional one yields the zero value. A
// one-cell array is read as its cell; a larger array fails with ArityError.
func ReadScalar[T any](v entities.Value, param string, mandatory bool, conv Converter[T]) (T, error) {
	out, _, err := readScalar(v, param, mandatory, conv)
	return out, err
}

// ReadOptional reads a value that may be missing, returning def in that case.
func ReadOptional[T any](v entities.Value, param string, def T, conv Converter[T]) (T, error) {
	out, present, err := readScalar(v, param, false, conv)
	if err != nil || !present {
		return def, err
	}
	return out, nil
}

func readScalar[T any](v entities.Value, param string, mandatory bool, conv Converter[T]) (T, bool, error) {
	var zero T
	v, err := scalarOf(v, param)
	if err != nil {
		return zero, false, err
	}
	if isMissing(v) {
		if mandatory {
			return zero, false, &domainerrors.MissingRequiredError{Param: param}
		}
		return zero, false, nil
	}
	out, err := convertCell(v, param, conv)
	return out, err == nil, err
}

// ReadArray reads a column of expected values. An array must have exactly
// expected rows; only its first column is read. A scalar counts as one
// element. A missing optional value yields nil.
func ReadArray[T any](v entities.Value, param string, expected int, mandatory bool, conv Converter[T]) ([]T, error) {
	cells, err := cellsOf(v, param, expected, mandatory)
	if err != nil || cells == nil {
		return nil, err
	}
	out := make([]T, len(cells))
	for i, c := range cells {
		if out[i], err = convertCell(c, param, conv); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// InferCount is the element count implied by a parameter: zero when
// missing, the row count of an array, and one for a scalar.
func InferCount(v entities.Value) int {
	switch x := v.(type) {
	case nil, entities.Missing:
		return 0
	case entities.Array:
		return x.Rows
	default:
		return 1
	}
}

// IsMissing reports whether v was left empty by the caller.
func IsMissing(v entities.Value) bool {
	return isMissing(v)
}

// cellsOf applies the array arity rules and returns the cells to convert.
func cellsOf(v entities.Value, param string, expected int, mandatory bool) ([]entities.Value, error) {
	switch x := v.(type) {
	case nil, entities.Missing:
		if mandatory {
			return nil, &domainerrors.MissingRequiredError{Param: param}
		}
		return nil, nil
	case entities.Array:
		if malformed(x) {
			return nil, &domainerrors.ArityError{Param: param, Expected: expected, Actual: len(x.Cells)}
		}
		if x.Rows != expected {
			return nil, &domainerrors.ArityError{Param: param, Expected: expected, Actual: x.Rows}
		}
		cells := make([]entities.Value, x.Rows)
		for i := range cells {
			cells[i] = x.At(i, 0)
		}
		return cells, nil
	default:
		if expected != 1 {
			return nil, &domainerrors.ArityError{Param: param, Expected: expected, Actual: 1}
		}
		return []entities.Value{v}, nil
	}
}

func scalarOf(v entities.Value, param string) (entities.Value, error) {
	a, ok := v.(entities.Array)
	if !ok {
		return v, nil
	}
	if malformed(a) {
		return nil, &domainerrors.ArityError{Param: param, Expected: 1, Actual: len(a.Cells), Scalar: true}
	}
	if a.Len() != 1 {
		return nil, &domainerrors.ArityError{Param: param, Expected: 1, Actual: a.Len(), Scalar: true}
	}
	return a.Cells[0], nil
}

// malformed reports an array whose dimensions disagree with its cells.
func malformed(a entities.Array) bool {
	return a.Rows < 0 || a.Cols < 0 || len(a.Cells) != a.Len() || (a.Rows > 0 && a.Cols == 0)
}

func convertCell[T any](v entities.Value, param string, conv Converter[T]) (T, error) {
	out, err := conv.Convert(v)
	if err != nil {
		var zero T
		return zero, &domainerrors.TypeError{Err: err, Param: param, Want: conv.Name, Actual: kindOf(v)}
	}
	return out, nil
}

func isMissing(v entities.Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(entities.Missing)
	return ok
}

func kindOf(v entities.Value) entities.Kind {
	if v == nil {
		return entities.KindMissing
	}
	return v.Kind()
}
