package analytics

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// DayCount is a day count convention.
type DayCount int

const (
	Act365F DayCount = iota + 1
	Act360
	Thirty360
	Thirty360E
	ActAct
)

var dayCountNames = map[DayCount]string{
	Act365F:    "ACT/365F",
	Act360:     "ACT/360",
	Thirty360:  "30/360",
	Thirty360E: "30E/360",
	ActAct:     "ACT/ACT",
}

var dayCountAliases = map[string]DayCount{
	"act/365f":      Act365F,
	"a/365f":        Act365F,
	"act/365fixed":  Act365F,
	"actual/365f":   Act365F,
	"act/360":       Act360,
	"a/360":         Act360,
	"actual/360":    Act360,
	"30/360":        Thirty360,
	"b30/360":       Thirty360,
	"30/360bond":    Thirty360,
	"30e/360":       Thirty360E,
	"b30e/360":      Thirty360E,
	"act/act":       ActAct,
	"a/a":           ActAct,
	"act/365":       ActAct,
	"actual/actual": ActAct,
}

var fold = cases.Fold()

// ParseDayCount reads a convention name such as "Act/360" or "30/360".
// Matching ignores case and blanks.
func ParseDayCount(s string) (DayCount, error) {
	key := fold.String(strings.Join(strings.Fields(s), ""))
	if dc, ok := dayCountAliases[key]; ok {
		return dc, nil
	}
	return 0, fmt.Errorf("invalid day count convention %q", s)
}

func (dc DayCount) String() string {
	if n, ok := dayCountNames[dc]; ok {
		return n
	}
	return fmt.Sprintf("DayCount(%d)", int(dc))
}

// YearFraction returns the accrual fraction between start and end.
// It is negative when end precedes start.
func (dc DayCount) YearFraction(start, end Date) float64 {
	if end < start {
		return -dc.YearFraction(end, start)
	}
	switch dc {
	case Act360:
		return float64(end-start) / 360
	case Thirty360, Thirty360E:
		return float64(dc.days30(start, end)) / 360
	case ActAct:
		return actAct(start, end)
	default:
		return float64(end-start) / 365
	}
}

func (dc DayCount) days30(start, end Date) int {
	y1, m1, d1 := start.YMD()
	y2, m2, d2 := end.YMD()
	if d1 == 31 {
		d1 = 30
	}
	if d2 == 31 && (dc == Thirty360E || d1 == 30) {
		d2 = 30
	}
	return 360*(y2-y1) + 30*int(m2-m1) + d2 - d1
}

func actAct(start, end Date) float64 {
	y1, _, _ := start.YMD()
	y2, _, _ := end.YMD()
	if y1 == y2 {
		return float64(end-start) / yearDays(y1)
	}
	first := NewDate(y1+1, 1, 1)
	last := NewDate(y2, 1, 1)
	return float64(first-start)/yearDays(y1) + float64(y2-y1-1) + float64(end-last)/yearDays(y2)
}

func yearDays(y int) float64 {
	if isLeap(y) {
		return 366
	}
	return 365
}
