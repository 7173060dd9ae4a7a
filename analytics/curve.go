package analytics

import (
	"fmt"
	"math"
)

// Basis is the compounding basis of the rates stored in a Curve.
type Basis int

const (
	BasisSimple     Basis = 0
	BasisAnnual     Basis = 1
	BasisContinuous Basis = 5000
)

// ParseBasis maps the numeric basis codes used by spreadsheet callers:
// 0 simple, 1 annual, 2 semi-annual, 4 quarterly, 12 monthly, 5000 continuous.
func ParseBasis(v int) (Basis, error) {
	switch v {
	case 0, 1, 2, 4, 12, 5000:
		return Basis(v), nil
	}
	return 0, fmt.Errorf("invalid compounding basis %d", v)
}

// Curve is a term structure of zero rates. ZeroPrice interpolates
// linearly in rate times time, which keeps forwards flat between nodes.
type Curve struct {
	BaseDate Date
	Dates    []Date
	Rates    []float64
	Basis    Basis
	DayCount DayCount

	rt []float64
	t  []float64
}

// MakeCurve builds a curve from dated zero rates. Dates must be strictly
// increasing and after base.
func MakeCurve(base Date, dates []Date, rates []float64, basis Basis, dc DayCount) (*Curve, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("curve needs at least one point")
	}
	if len(dates) != len(rates) {
		return nil, fmt.Errorf("curve has %d dates but %d rates", len(dates), len(rates))
	}
	if _, err := ParseBasis(int(basis)); err != nil {
		return nil, err
	}
	c := &Curve{
		BaseDate: base,
		Dates:    append([]Date(nil), dates...),
		Rates:    append([]float64(nil), rates...),
		Basis:    basis,
		DayCount: dc,
		rt:       make([]float64, len(dates)),
		t:        make([]float64, len(dates)),
	}
	prev := base
	for i, d := range dates {
		if d <= prev {
			return nil, fmt.Errorf("curve date %s must be after %s", d, prev)
		}
		prev = d
		c.t[i] = dc.YearFraction(base, d)
		rt, err := toRT(rates[i], c.t[i], basis)
		if err != nil {
			return nil, fmt.Errorf("curve point %s: %w", d, err)
		}
		c.rt[i] = rt
	}
	return c, nil
}

// curveFromDiscounts builds a continuously compounded curve from discount
// factors.
func curveFromDiscounts(base Date, dates []Date, dfs []float64, dc DayCount) (*Curve, error) {
	rates := make([]float64, len(dates))
	for i, d := range dates {
		t := dc.YearFraction(base, d)
		if dfs[i] <= 0 || t <= 0 {
			return nil, fmt.Errorf("invalid discount factor %g at %s", dfs[i], d)
		}
		rates[i] = -math.Log(dfs[i]) / t
	}
	return MakeCurve(base, dates, rates, BasisContinuous, dc)
}

func toRT(rate, t float64, basis Basis) (float64, error) {
	switch basis {
	case BasisContinuous:
		return rate * t, nil
	case BasisSimple:
		v := 1 + rate*t
		if v <= 0 {
			return 0, fmt.Errorf("simple rate %g gives non-positive discount", rate)
		}
		return math.Log(v), nil
	default:
		b := float64(basis)
		v := 1 + rate/b
		if v <= 0 {
			return 0, fmt.Errorf("rate %g is below -%d", rate, basis)
		}
		return b * math.Log(v) * t, nil
	}
}

// ZeroPrice returns the discount factor from the base date to d.
func (c *Curve) ZeroPrice(d Date) float64 {
	return math.Exp(-c.rtAt(d))
}

// ForwardPrice returns the discount factor from d1 to d2.
func (c *Curve) ForwardPrice(d1, d2 Date) float64 {
	return math.Exp(c.rtAt(d1) - c.rtAt(d2))
}

// ZeroRate returns the continuously compounded zero rate to d.
func (c *Curve) ZeroRate(d Date) float64 {
	t := c.DayCount.YearFraction(c.BaseDate, d)
	if t == 0 {
		return c.rt[0] / c.t[0]
	}
	return c.rtAt(d) / t
}

func (c *Curve) rtAt(d Date) float64 {
	if d == c.BaseDate {
		return 0
	}
	t := c.DayCount.YearFraction(c.BaseDate, d)
	n := len(c.t)
	switch {
	case t <= c.t[0]:
		return c.rt[0] / c.t[0] * t
	case t >= c.t[n-1]:
		return c.rt[n-1] / c.t[n-1] * t
	}
	i := 1
	for c.t[i] < t {
		i++
	}
	w := (t - c.t[i-1]) / (c.t[i] - c.t[i-1])
	return c.rt[i-1] + w*(c.rt[i]-c.rt[i-1])
}

// Len returns the number of nodes.
func (c *Curve) Len() int { return len(c.Dates) }
