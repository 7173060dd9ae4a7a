package analytics

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Date is a calendar date counted in days since 1970-01-01.
type Date int

var serialEpoch = NewDate(1899, time.December, 30)

// NewDate builds a Date from its calendar components. Out-of-range
// components are normalised the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date(t.Unix() / 86400)
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// YMD splits d into year, month and day.
func (d Date) YMD() (int, time.Month, int) {
	return d.Time().Date()
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// AddDays returns d shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return d + Date(n)
}

// AddMonths returns d shifted by n months. The day is clipped to the end of
// the target month; with eom set, a month-end d stays on month-end.
func (d Date) AddMonths(n int, eom bool) Date {
	y, m, day := d.YMD()
	total := int(m) - 1 + n
	ty := y + floorDiv(total, 12)
	tm := time.Month(floorMod(total, 12) + 1)
	last := daysIn(ty, tm)
	if day > last || (eom && day == daysIn(y, m)) {
		day = last
	}
	return NewDate(ty, tm, day)
}

func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// Serial returns d as a host serial number in the 1900 date system.
func (d Date) Serial() float64 {
	s := int(d - serialEpoch)
	if s < 61 {
		// 1900 is treated as a leap year by the host; before March 1900 the
		// serial numbers are one lower than the day count.
		s--
	}
	return float64(s)
}

// FromSerial converts a host serial number in the 1900 date system to a Date.
// The fractional (time of day) part is discarded.
func FromSerial(serial float64) (Date, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return 0, fmt.Errorf("invalid serial date %v", serial)
	}
	s := int(math.Floor(serial))
	switch {
	case s < 1:
		return 0, fmt.Errorf("serial date %d is before 1900-01-01", s)
	case s == 60:
		return 0, fmt.Errorf("serial date 60 (1900-02-29) does not exist")
	case s < 60:
		return serialEpoch + Date(s+1), nil
	default:
		return serialEpoch + Date(s), nil
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"20060102",
	"2006/01/02",
	"02-Jan-2006",
	"2-Jan-2006",
}

// ParseDate reads a literal date. Accepted forms are 2008-07-03, 20080703,
// 2008/07/03 and 03-Jul-2008.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Date()), nil
		}
	}
	return 0, fmt.Errorf("invalid date %q", s)
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
