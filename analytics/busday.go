package analytics

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// BadDayConv says how a date falling on a non-business day is moved.
type BadDayConv byte

const (
	BadDayNone              BadDayConv = 'N'
	BadDayFollowing         BadDayConv = 'F'
	BadDayModifiedFollowing BadDayConv = 'M'
	BadDayPrevious          BadDayConv = 'P'
	BadDayModifiedPrevious  BadDayConv = 'Q'
)

const (
	defaultCalendarName  = "NONE"
	holidayCommentPrefix = "#"
)

// ParseBadDayConv reads a convention from its first letter, case-insensitive.
func ParseBadDayConv(s string) (BadDayConv, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty bad day convention")
	}
	switch c := BadDayConv(strings.ToUpper(s[:1])[0]); c {
	case BadDayNone, BadDayFollowing, BadDayModifiedFollowing, BadDayPrevious, BadDayModifiedPrevious:
		return c, nil
	}
	return 0, fmt.Errorf("invalid bad day convention %q", s)
}

func (c BadDayConv) String() string { return string(rune(c)) }

// Calendar is a set of non-business days: weekends plus listed holidays.
type Calendar struct {
	Name     string
	holidays map[Date]struct{}
}

// NewCalendar returns a calendar with the given holidays. Saturdays and
// Sundays are always non-business days.
func NewCalendar(name string, holidays ...Date) *Calendar {
	c := &Calendar{Name: name, holidays: make(map[Date]struct{}, len(holidays))}
	for _, h := range holidays {
		c.holidays[h] = struct{}{}
	}
	return c
}

// Holidays returns the listed holidays in ascending order.
func (c *Calendar) Holidays() []Date {
	out := make([]Date, 0, len(c.holidays))
	for d := range c.holidays {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsBusinessDay reports whether d is neither a weekend nor a holiday.
func (c *Calendar) IsBusinessDay(d Date) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	if c == nil {
		return true
	}
	_, hol := c.holidays[d]
	return !hol
}

// Adjust moves d to a business day according to conv.
func (c *Calendar) Adjust(d Date, conv BadDayConv) Date {
	switch conv {
	case BadDayFollowing:
		return c.step(d, 1)
	case BadDayPrevious:
		return c.step(d, -1)
	case BadDayModifiedFollowing:
		adj := c.step(d, 1)
		if _, m, _ := adj.YMD(); m != month(d) {
			return c.step(d, -1)
		}
		return adj
	case BadDayModifiedPrevious:
		adj := c.step(d, -1)
		if _, m, _ := adj.YMD(); m != month(d) {
			return c.step(d, 1)
		}
		return adj
	}
	return d
}

// AddBusinessDays moves d by n business days. A zero count leaves d as is.
func (c *Calendar) AddBusinessDays(d Date, n int) Date {
	dir := 1
	if n < 0 {
		dir, n = -1, -n
	}
	for ; n > 0; n-- {
		d = c.step(d.AddDays(dir), dir)
	}
	return d
}

func (c *Calendar) step(d Date, dir int) Date {
	for !c.IsBusinessDay(d) {
		d = d.AddDays(dir)
	}
	return d
}

func month(d Date) time.Month {
	_, m, _ := d.YMD()
	return m
}

// DateFwdThenAdjust rolls d by ivl and applies conv on cal.
func DateFwdThenAdjust(d Date, ivl Interval, conv BadDayConv, cal *Calendar) Date {
	return cal.Adjust(ivl.AddTo(d), conv)
}

// Calendars is a named set of holiday calendars. The name NONE (any case,
// or empty) always resolves to a weekends-only calendar.
type Calendars struct {
	mu  sync.RWMutex
	set map[string]*Calendar
}

// NewCalendars returns an empty calendar set.
func NewCalendars() *Calendars {
	return &Calendars{set: map[string]*Calendar{}}
}

// Lookup finds a calendar by name.
func (cs *Calendars) Lookup(name string) (*Calendar, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" || key == defaultCalendarName {
		return NewCalendar(defaultCalendarName), nil
	}
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if c, ok := cs.set[key]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("holiday calendar %q is not loaded", name)
}

// Add registers cal under its name, replacing any previous definition.
func (cs *Calendars) Add(cal *Calendar) error {
	key := strings.ToUpper(strings.TrimSpace(cal.Name))
	if key == "" || key == defaultCalendarName {
		return fmt.Errorf("calendar name %q is reserved", cal.Name)
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.set[key] = cal
	return nil
}

// Load reads holidays from r, one date per line. Blank lines and lines
// starting with # are skipped. Trailing text after the date is ignored.
func (cs *Calendars) Load(name string, r io.Reader) (*Calendar, error) {
	var dates []Date
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, holidayCommentPrefix) {
			continue
		}
		fields := strings.Fields(text)
		d, err := ParseDate(fields[0])
		if err != nil {
			return nil, fmt.Errorf("holidays %s line %d: %w", name, line, err)
		}
		dates = append(dates, d)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading holidays %s: %w", name, err)
	}
	cal := NewCalendar(name, dates...)
	if err := cs.Add(cal); err != nil {
		return nil, err
	}
	return cal, nil
}

// LoadFile is Load reading from a file path.
func (cs *Calendars) LoadFile(name, path string) (*Calendar, error) {
	f, err := os.Open(path) //nolint:gosec // path is supplied by the spreadsheet user
	if err != nil {
		return nil, fmt.Errorf("opening holidays %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()
	return cs.Load(name, f)
}
