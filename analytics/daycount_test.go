package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayCount(t *testing.T) {
	for in, want := range map[string]DayCount{
		"Act/360":    Act360,
		"ACT/365F":   Act365F,
		" act / 360": Act360,
		"30/360":     Thirty360,
		"30E/360":    Thirty360E,
		"Act/Act":    ActAct,
	} {
		got, err := ParseDayCount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDayCount("Act/999")
	assert.Error(t, err)
}

func TestDayCount_YearFraction(t *testing.T) {
	start, end := NewDate(2008, 1, 3), NewDate(2008, 7, 3)

	assert.InDelta(t, 182.0/360, Act360.YearFraction(start, end), 1e-15)
	assert.InDelta(t, 182.0/365, Act365F.YearFraction(start, end), 1e-15)
	assert.InDelta(t, 0.5, Thirty360.YearFraction(start, end), 1e-15)
	assert.InDelta(t, 182.0/366, ActAct.YearFraction(start, end), 1e-15)
	assert.InDelta(t, -182.0/360, Act360.YearFraction(end, start), 1e-15)
}

func TestDayCount_Thirty360MonthEnd(t *testing.T) {
	start, end := NewDate(2008, 1, 15), NewDate(2008, 3, 31)
	assert.InDelta(t, 76.0/360, Thirty360.YearFraction(start, end), 1e-15)
	assert.InDelta(t, 75.0/360, Thirty360E.YearFraction(start, end), 1e-15)

	start = NewDate(2008, 1, 31)
	assert.InDelta(t, 60.0/360, Thirty360.YearFraction(start, end), 1e-15)
}

func TestDayCount_ActActAcrossYears(t *testing.T) {
	got := ActAct.YearFraction(NewDate(2007, 7, 1), NewDate(2009, 7, 1))
	want := 184.0/365 + 1 + 181.0/365
	assert.InDelta(t, want, got, 1e-12)
}

func TestParseStubMethod(t *testing.T) {
	for in, want := range map[string]StubMethod{
		"f/s": {Front: true},
		"F/L": {Front: true, Long: true},
		"b/s": {},
		"B/L": {Long: true},
		"f":   {Front: true},
	} {
		got, err := ParseStubMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	assert.Equal(t, "f/s", StubMethod{Front: true}.String())
	for _, in := range []string{"", "x/s", "f/x"} {
		_, err := ParseStubMethod(in)
		assert.Error(t, err, in)
	}
}
