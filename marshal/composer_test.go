package marshal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdsmodel/cellbridge/analytics"
	"github.com/cdsmodel/cellbridge/domain/entities"
	domainerrors "github.com/cdsmodel/cellbridge/domain/errors"
	"github.com/cdsmodel/cellbridge/internal/arena"
)

func TestComposer_ChargesArena(t *testing.T) {
	a := arena.New(1024)
	c := NewComposer(a)

	_, err := c.Number(1)
	require.NoError(t, err)
	assert.Equal(t, CellSize, a.Offset())

	_, err = c.Text("abc")
	require.NoError(t, err)
	assert.Equal(t, 2*CellSize+4, a.Offset())
}

func TestComposer_Exhausted(t *testing.T) {
	a := arena.New(1024)
	c := NewComposer(a)

	vals := make([]float64, 1024/CellSize)
	_, err := c.Numbers(vals)
	var e *domainerrors.ExhaustedError
	require.ErrorAs(t, err, &e)
	assert.Zero(t, a.Offset())

	a.Reset()
	_, err = c.Numbers(vals[:len(vals)-1])
	assert.NoError(t, err)
}

func TestComposer_TextCappedOnRuneBoundary(t *testing.T) {
	c := NewComposer(arena.New(0))

	v, err := c.Text(strings.Repeat("a", 300))
	require.NoError(t, err)
	assert.Len(t, string(v.(entities.Text)), MaxTextLen)

	long := strings.Repeat("a", 254) + "é"
	v, err = c.Text(long)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 254), string(v.(entities.Text)))
}

func TestComposer_Arrays(t *testing.T) {
	c := NewComposer(arena.New(0))

	v, err := c.Numbers([]float64{0.01, 0.02})
	require.NoError(t, err)
	assert.Equal(t, entities.Column(entities.Number(0.01), entities.Number(0.02)), v)

	v, err = c.Texts([]string{"line 1", "line 2"})
	require.NoError(t, err)
	arr := v.(entities.Array)
	assert.Equal(t, 2, arr.Rows)
	assert.Equal(t, entities.Text("line 2"), arr.At(1, 0))

	d := analytics.NewDate(2008, 7, 3)
	v, err = c.DatedValues([]analytics.Date{d}, []float64{0.5})
	require.NoError(t, err)
	arr = v.(entities.Array)
	assert.Equal(t, 2, arr.Cols)
	assert.Equal(t, entities.Number(39632), arr.At(0, 0))
	assert.Equal(t, entities.Number(0.5), arr.At(0, 1))

	_, err = c.DatedValues([]analytics.Date{d}, nil)
	assert.Error(t, err)
}

func TestComposer_Scalars(t *testing.T) {
	c := NewComposer(arena.New(0))

	v, err := c.Error(entities.ErrNA)
	require.NoError(t, err)
	assert.Equal(t, entities.ErrNA, v)

	v, err = c.Bool(true)
	require.NoError(t, err)
	assert.Equal(t, entities.Boolean(true), v)
}
