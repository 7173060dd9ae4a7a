// Package wireformat defines the JSON wire format for values, calls and
// registration requests exchanged with an out-of-process host or read from a
// call script. These types must remain stable; scripts and transcripts are
// written against them.
//
// A value is written in its natural JSON form: numbers, strings, booleans
// and null (missing) map to themselves, an array is a list of rows, and an
// error code is an object such as {"error": "#N/A"}. A flat list is read as
// a single column.
package wireformat

import (
	"errors"
	"fmt"
	"math"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/cdsmodel/cellbridge/domain/entities"
)

const errorKey = "error"

// Cell wraps a value so it can be encoded and decoded as JSON or YAML.
type Cell struct {
	entities.Value
}

// MarshalJSON implements json.Marshaler.
func (c Cell) MarshalJSON() ([]byte, error) {
	x, err := ToAny(c.Value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(x)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var x any
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	v, err := FromAny(x)
	if err != nil {
		return err
	}
	c.Value = v
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Cell) UnmarshalYAML(node *yaml.Node) error {
	var x any
	if err := node.Decode(&x); err != nil {
		return err
	}
	v, err := FromAny(x)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	c.Value = v
	return nil
}

// CallRequestWire is one function call: the display name and its arguments.
type CallRequestWire struct {
	Function string `json:"function" yaml:"function"`
	Args     []Cell `json:"args,omitempty" yaml:"args,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler. yaml.v3 skips null sequence
// items when decoding into a struct element, so args are decoded as nodes
// first and every position is kept, a null one as Missing.
func (r *CallRequestWire) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Function string      `yaml:"function"`
		Args     []yaml.Node `yaml:"args"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	args := make([]Cell, len(raw.Args))
	for i := range raw.Args {
		if err := args[i].UnmarshalYAML(&raw.Args[i]); err != nil {
			return fmt.Errorf("args[%d]: %w", i, err)
		}
	}
	r.Function = raw.Function
	r.Args = args
	return nil
}

// Values returns the arguments as host values.
func (r CallRequestWire) Values() []entities.Value {
	out := make([]entities.Value, len(r.Args))
	for i, a := range r.Args {
		out[i] = a.Value
		if out[i] == nil {
			out[i] = entities.Missing{}
		}
	}
	return out
}

// CallResponseWire is the result of one call. Log holds the diagnostic
// lines the call wrote, if any.
type CallResponseWire struct {
	Function string                `json:"function"`
	Result   Cell                  `json:"result"`
	Error    *entities.ErrorDetail `json:"error,omitempty"`
	Log      []string              `json:"log,omitempty"`
}

// RegistrationWire is the transcript of an announcement.
type RegistrationWire struct {
	Module    string                         `json:"module"`
	Functions []entities.RegistrationRequest `json:"functions"`
	Alerts    []string                       `json:"alerts,omitempty"`
}

// EncodeValue renders v as JSON.
func EncodeValue(v entities.Value) ([]byte, error) {
	return json.Marshal(Cell{v})
}

// DecodeValue reads a value written by EncodeValue.
func DecodeValue(data []byte) (entities.Value, error) {
	var c Cell
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.Value == nil {
		return entities.Missing{}, nil
	}
	return c.Value, nil
}

// Encode renders any wire structure as indented JSON.
func Encode(x any) ([]byte, error) {
	return json.MarshalIndent(x, "", "  ")
}

// Decode reads a wire structure from JSON.
func Decode(data []byte, x any) error {
	return json.Unmarshal(data, x)
}

var errNotFinite = errors.New("non-finite numbers have no JSON form")

// ToAny converts v to plain Go data: float64, string, bool, nil, a list of
// rows, or a map holding an error literal.
func ToAny(v entities.Value) (any, error) {
	switch x := v.(type) {
	case nil, entities.Missing:
		return nil, nil
	case entities.Number:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errNotFinite
		}
		return f, nil
	case entities.Text:
		return string(x), nil
	case entities.Boolean:
		return bool(x), nil
	case entities.ErrorCode:
		return map[string]any{errorKey: x.String()}, nil
	case entities.Array:
		rows := make([]any, x.Rows)
		for r := range x.Rows {
			row := make([]any, x.Cols)
			for c := range x.Cols {
				cell, err := ToAny(x.At(r, c))
				if err != nil {
					return nil, fmt.Errorf("cell (%d,%d): %w", r, c, err)
				}
				row[c] = cell
			}
			rows[r] = row
		}
		return rows, nil
	}
	return nil, fmt.Errorf("unsupported value %T", v)
}

// FromAny converts decoded JSON or YAML data to a value. A list of lists is
// a row-major array; a flat list is a column.
func FromAny(x any) (entities.Value, error) {
	if list, ok := x.([]any); ok {
		return arrayFromList(list)
	}
	return cellFromAny(x)
}

func arrayFromList(list []any) (entities.Value, error) {
	if len(list) == 0 {
		return entities.Array{}, nil
	}
	if _, nested := list[0].([]any); !nested {
		cells := make([]entities.Value, len(list))
		for i, item := range list {
			v, err := cellFromAny(item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			cells[i] = v
		}
		return entities.Column(cells...), nil
	}

	cols := -1
	var cells []entities.Value
	for r, item := range list {
		row, ok := item.([]any)
		if !ok {
			return nil, fmt.Errorf("row %d is not a list", r)
		}
		if cols < 0 {
			cols = len(row)
		} else if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d cells, want %d", r, len(row), cols)
		}
		for c, item := range row {
			v, err := cellFromAny(item)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", r, c, err)
			}
			cells = append(cells, v)
		}
	}
	return entities.NewArray(len(list), cols, cells)
}

func cellFromAny(x any) (entities.Value, error) {
	switch v := x.(type) {
	case nil:
		return entities.Missing{}, nil
	case float64:
		return entities.Number(v), nil
	case int:
		return entities.Number(v), nil
	case int64:
		return entities.Number(v), nil
	case uint64:
		return entities.Number(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return entities.Number(f), nil
	case string:
		return entities.Text(v), nil
	case bool:
		return entities.Boolean(v), nil
	case map[string]any:
		return errorFromMap(v)
	case []any:
		return nil, errors.New("arrays cannot be nested")
	}
	return nil, fmt.Errorf("unsupported %T", x)
}

func errorFromMap(m map[string]any) (entities.Value, error) {
	lit, ok := m[errorKey].(string)
	if !ok || len(m) != 1 {
		return nil, fmt.Errorf("object must have a single %q key", errorKey)
	}
	code, ok := entities.ParseErrorCode(lit)
	if !ok {
		return nil, fmt.Errorf("unknown error literal %q", lit)
	}
	return code, nil
}
