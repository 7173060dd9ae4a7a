package analytics

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is the unit of an Interval.
type Unit byte

// Units after normalisation. Quarters, semesters and years parse as months.
const (
	UnitDay   Unit = 'D'
	UnitWeek  Unit = 'W'
	UnitMonth Unit = 'M'
)

// Interval is a signed calendar period such as 6M or -2D. EndOfMonth marks
// an interval whose rolls stick to month-end.
type Interval struct {
	Amount     int
	Unit       Unit
	EndOfMonth bool
}

// ParseInterval reads a tenor string: an optional sign, an optional count
// (default 1), a unit letter and an optional trailing E for end-of-month
// rolls. Units are D, W, M, Q (3M), S (6M), A and Y (12M), case-insensitive.
func ParseInterval(s string) (Interval, error) {
	in := strings.ToUpper(strings.TrimSpace(s))
	if in == "" {
		return Interval{}, fmt.Errorf("empty interval")
	}
	var ivl Interval
	if strings.HasSuffix(in, "E") && len(in) > 1 {
		ivl.EndOfMonth = true
		in = in[:len(in)-1]
	}
	unit := in[len(in)-1]
	num := in[:len(in)-1]
	n := 1
	switch num {
	case "", "+":
	case "-":
		n = -1
	default:
		v, err := strconv.Atoi(num)
		if err != nil {
			return Interval{}, fmt.Errorf("invalid interval %q", s)
		}
		n = v
	}
	switch unit {
	case 'D', 'W', 'M':
		ivl.Amount, ivl.Unit = n, Unit(unit)
	case 'Q':
		ivl.Amount, ivl.Unit = 3*n, UnitMonth
	case 'S':
		ivl.Amount, ivl.Unit = 6*n, UnitMonth
	case 'A', 'Y':
		ivl.Amount, ivl.Unit = 12*n, UnitMonth
	default:
		return Interval{}, fmt.Errorf("invalid interval %q: unknown unit %q", s, unit)
	}
	return ivl, nil
}

// MustParseInterval is ParseInterval for literals known to be valid.
func MustParseInterval(s string) Interval {
	ivl, err := ParseInterval(s)
	if err != nil {
		panic(err)
	}
	return ivl
}

// Days returns the length in days of a day or week interval.
func (i Interval) Days() (int, bool) {
	switch i.Unit {
	case UnitDay:
		return i.Amount, true
	case UnitWeek:
		return 7 * i.Amount, true
	}
	return 0, false
}

// Scale multiplies the interval by n.
func (i Interval) Scale(n int) Interval {
	i.Amount *= n
	return i
}

// Freq returns the number of intervals per year, e.g. 2 for 6M.
func (i Interval) Freq() (float64, error) {
	if i.Amount <= 0 {
		return 0, fmt.Errorf("interval %s has no positive frequency", i)
	}
	switch i.Unit {
	case UnitMonth:
		return 12 / float64(i.Amount), nil
	case UnitWeek:
		return 52 / float64(i.Amount), nil
	case UnitDay:
		return 365 / float64(i.Amount), nil
	}
	return 0, fmt.Errorf("interval %s has unknown unit", i)
}

// AddTo rolls d forward (or back, for negative amounts) by the interval.
func (i Interval) AddTo(d Date) Date {
	if days, ok := i.Days(); ok {
		return d.AddDays(days)
	}
	return d.AddMonths(i.Amount, i.EndOfMonth)
}

func (i Interval) String() string {
	s := strconv.Itoa(i.Amount) + string(i.Unit)
	if i.EndOfMonth {
		s += "E"
	}
	return s
}
