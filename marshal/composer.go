package marshal

import (
	"unicode/utf8"

	"github.com/cdsmodel/cellbridge/analytics"
	"github.com/cdsmodel/cellbridge/domain/entities"
	"github.com/cdsmodel/cellbridge/internal/arena"
)

// CellSize is the arena charge for one cell. Text bytes are charged on top.
const CellSize = 16

// MaxTextLen is the longest text the host accepts in a cell.
const MaxTextLen = 255

// Composer builds return values in a call's arena. Text returned by a
// Composer aliases arena memory and is only valid until the arena is reset.
type Composer struct {
	arena *arena.Arena
}

// NewComposer returns a Composer allocating from a.
func NewComposer(a *arena.Arena) *Composer {
	return &Composer{arena: a}
}

func (c *Composer) cells(n int) error {
	if n == 0 {
		return nil
	}
	_, err := c.arena.Allocate(n * CellSize)
	return err
}

// Number composes a numeric cell.
func (c *Composer) Number(f float64) (entities.Value, error) {
	if err := c.cells(1); err != nil {
		return nil, err
	}
	return entities.Number(f), nil
}

// Bool composes a boolean cell.
func (c *Composer) Bool(b bool) (entities.Value, error) {
	if err := c.cells(1); err != nil {
		return nil, err
	}
	return entities.Boolean(b), nil
}

// Error composes an error cell.
func (c *Composer) Error(code entities.ErrorCode) (entities.Value, error) {
	if err := c.cells(1); err != nil {
		return nil, err
	}
	return code, nil
}

// Date composes a date as a host serial number.
func (c *Composer) Date(d analytics.Date) (entities.Value, error) {
	return c.Number(d.Serial())
}

// Text composes a text cell, cut to MaxTextLen bytes on a rune boundary.
func (c *Composer) Text(s string) (entities.Value, error) {
	if err := c.cells(1); err != nil {
		return nil, err
	}
	t, err := c.text(s)
	if err != nil {
		return nil, err
	}
	return entities.Text(t), nil
}

func (c *Composer) text(s string) (string, error) {
	if len(s) > MaxTextLen {
		cut := MaxTextLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return c.arena.CopyString(s)
}

// Numbers composes a one-column array.
func (c *Composer) Numbers(vals []float64) (entities.Value, error) {
	if err := c.cells(1 + len(vals)); err != nil {
		return nil, err
	}
	cells := make([]entities.Value, len(vals))
	for i, v := range vals {
		cells[i] = entities.Number(v)
	}
	return entities.Column(cells...), nil
}

// Texts composes a one-column array of text.
func (c *Composer) Texts(lines []string) (entities.Value, error) {
	if err := c.cells(1 + len(lines)); err != nil {
		return nil, err
	}
	cells := make([]entities.Value, len(lines))
	for i, l := range lines {
		t, err := c.text(l)
		if err != nil {
			return nil, err
		}
		cells[i] = entities.Text(t)
	}
	return entities.Column(cells...), nil
}

// DatedValues composes a two-column array of (serial date, value) rows.
func (c *Composer) DatedValues(dates []analytics.Date, vals []float64) (entities.Value, error) {
	if len(dates) != len(vals) {
		return nil, errLengthMismatch
	}
	if err := c.cells(1 + 2*len(dates)); err != nil {
		return nil, err
	}
	cells := make([]entities.Value, 0, 2*len(dates))
	for i, d := range dates {
		cells = append(cells, entities.Number(d.Serial()), entities.Number(vals[i]))
	}
	return entities.NewArray(len(dates), 2, cells)
}
