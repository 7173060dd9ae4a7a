package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the variants of a host Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindText
	KindBoolean
	KindError
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBoolean:
		return "boolean"
	case KindError:
		return "error"
	case KindArray:
		return "array"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is the tagged, dynamically-typed value exchanged with the host.
// It is sealed: only Number, Text, Boolean, ErrorCode, Missing and Array
// implement it, so a type switch over those six is exhaustive.
type Value interface {
	Kind() Kind
	hostValue()
}

// Number is a double precision host number. Dates travel as serial numbers.
type Number float64

func (Number) Kind() Kind { return KindNumber }
func (Number) hostValue() {}

// Text is a host string.
type Text string

func (Text) Kind() Kind { return KindText }
func (Text) hostValue() {}

// Boolean is a host logical.
type Boolean bool

func (Boolean) Kind() Kind { return KindBoolean }
func (Boolean) hostValue() {}

// Missing marks an omitted argument.
type Missing struct{}

func (Missing) Kind() Kind { return KindMissing }
func (Missing) hostValue() {}

// ErrorCode is one of the host's cell error values.
type ErrorCode uint8

const (
	ErrNull ErrorCode = iota
	ErrDiv0
	ErrValue
	ErrRef
	ErrName
	ErrNum
	ErrNA
)

func (ErrorCode) Kind() Kind { return KindError }
func (ErrorCode) hostValue() {}

func (e ErrorCode) String() string {
	switch e {
	case ErrNull:
		return "#NULL!"
	case ErrDiv0:
		return "#DIV/0!"
	case ErrValue:
		return "#VALUE!"
	case ErrRef:
		return "#REF!"
	case ErrName:
		return "#NAME?"
	case ErrNum:
		return "#NUM!"
	case ErrNA:
		return "#N/A"
	default:
		return "#ERR(" + strconv.Itoa(int(e)) + ")"
	}
}

// ParseErrorCode maps a host error literal such as "#N/A" back to its code.
func ParseErrorCode(s string) (ErrorCode, bool) {
	for c := ErrNull; c <= ErrNA; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// Array is a rectangular, row-major block of cells.
// Cells never contain nested arrays.
type Array struct {
	Cells []Value
	Rows  int
	Cols  int
}

func (Array) Kind() Kind { return KindArray }
func (Array) hostValue() {}

// NewArray builds an Array and checks that len(cells) == rows*cols and that
// no cell is itself an array.
func NewArray(rows, cols int, cells []Value) (Array, error) {
	if rows < 0 || cols < 0 {
		return Array{}, fmt.Errorf("array dimensions must be non-negative, got %dx%d", rows, cols)
	}
	if len(cells) != rows*cols {
		return Array{}, fmt.Errorf("array %dx%d needs %d cells, got %d", rows, cols, rows*cols, len(cells))
	}
	for i, c := range cells {
		if c == nil {
			return Array{}, fmt.Errorf("array cell %d is nil", i)
		}
		if c.Kind() == KindArray {
			return Array{}, fmt.Errorf("array cell %d is a nested array", i)
		}
	}
	return Array{Rows: rows, Cols: cols, Cells: cells}, nil
}

// Column builds a single-column array from cells.
func Column(cells ...Value) Array {
	return Array{Rows: len(cells), Cols: 1, Cells: cells}
}

// At returns the cell at (row, col).
func (a Array) At(row, col int) Value {
	return a.Cells[row*a.Cols+col]
}

// Len returns rows*cols.
func (a Array) Len() int {
	return a.Rows * a.Cols
}

// Clone returns a deep copy of v whose text does not share memory with v.
// Values composed in a transient arena must be cloned before the arena is
// reset if they are to outlive the call.
func Clone(v Value) Value {
	switch x := v.(type) {
	case Text:
		return Text(strings.Clone(string(x)))
	case Array:
		cells := make([]Value, len(x.Cells))
		for i, c := range x.Cells {
			cells[i] = Clone(c)
		}
		return Array{Rows: x.Rows, Cols: x.Cols, Cells: cells}
	default:
		return v
	}
}

// Format renders v the way a cell would display it. Used in diagnostics.
func Format(v Value) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case Number:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	case Text:
		return strconv.Quote(string(x))
	case Boolean:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case ErrorCode:
		return x.String()
	case Missing:
		return "<missing>"
	case Array:
		return fmt.Sprintf("{%dx%d}", x.Rows, x.Cols)
	default:
		return fmt.Sprintf("%v", v)
	}
}
