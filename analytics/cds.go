package analytics

import (
	"fmt"
	"math"
	"sort"
)

// Contract is a vanilla CDS: a fee leg paying CouponRate on the schedule
// from StartDate to EndDate, and protection from the later of StartDate and
// StepinDate to the end of EndDate. Prices are stated per unit notional as
// of ValueDate.
type Contract struct {
	Today           Date
	ValueDate       Date
	StepinDate      Date
	StartDate       Date
	EndDate         Date
	CouponRate      float64
	PayAccOnDefault bool
	Interval        Interval
	Stub            StubMethod
	DayCount        DayCount
	BadDay          BadDayConv
	Calendar        *Calendar
}

// legs holds the per unit notional leg values discounted to Today.
type legs struct {
	protection float64
	annuity    float64
	accrued    float64
}

func (c Contract) validate() error {
	switch {
	case c.EndDate <= c.StartDate:
		return fmt.Errorf("end date %s must be after start date %s", c.EndDate, c.StartDate)
	case c.StepinDate < c.Today:
		return fmt.Errorf("step-in date %s is before today %s", c.StepinDate, c.Today)
	case c.ValueDate < c.Today:
		return fmt.Errorf("value date %s is before today %s", c.ValueDate, c.Today)
	}
	return nil
}

func (c Contract) legs(disc, surv *Curve, recovery float64) (legs, error) {
	var l legs
	if err := c.validate(); err != nil {
		return l, err
	}
	if recovery < 0 || recovery > 1 {
		return l, fmt.Errorf("recovery rate %g outside [0, 1]", recovery)
	}
	periods, err := Schedule(c.StartDate, c.EndDate, c.Interval, c.Stub, c.BadDay, c.Calendar)
	if err != nil {
		return l, err
	}
	protStart := maxDate(c.StartDate, c.StepinDate)
	if protStart < c.EndDate {
		l.protection = (1 - recovery) * defaultLeg(protStart, c.EndDate, disc, surv)
	}
	for _, p := range periods {
		if p.AccEnd <= c.StepinDate {
			continue
		}
		yf := c.DayCount.YearFraction(p.AccStart, p.AccEnd)
		l.annuity += yf * surv.ZeroPrice(p.AccEnd) * disc.ZeroPrice(p.PayDate)
		if p.AccStart <= c.StepinDate {
			l.accrued = c.DayCount.YearFraction(p.AccStart, c.StepinDate)
		}
		if c.PayAccOnDefault {
			l.annuity += c.accrualOnDefault(p, maxDate(p.AccStart, protStart), disc, surv)
		}
	}
	return l, nil
}

// accrualOnDefault values the coupon accrued up to a default inside the
// period, paid at the default time.
func (c Contract) accrualOnDefault(p Period, from Date, disc, surv *Curve) float64 {
	total := 0.0
	grid := integrationGrid(from, p.AccEnd, disc, surv)
	for i := 1; i < len(grid); i++ {
		a, b := grid[i-1], grid[i]
		mid := c.DayCount.YearFraction(p.AccStart, a) + c.DayCount.YearFraction(a, b)/2
		dp := surv.ZeroPrice(a) - surv.ZeroPrice(b)
		total += mid * dp * math.Sqrt(disc.ZeroPrice(a)*disc.ZeroPrice(b))
	}
	return total
}

// defaultLeg integrates the discounted default density over [from, to],
// exact for curves that are log-linear between grid nodes.
func defaultLeg(from, to Date, disc, surv *Curve) float64 {
	total := 0.0
	grid := integrationGrid(from, to, disc, surv)
	for i := 1; i < len(grid); i++ {
		a, b := grid[i-1], grid[i]
		sa, sb := surv.ZeroPrice(a), surv.ZeroPrice(b)
		da, db := disc.ZeroPrice(a), disc.ZeroPrice(b)
		lambda := math.Log(sa / sb)
		fwd := math.Log(da / db)
		x := lambda + fwd
		if math.Abs(x) < 1e-10 {
			total += sa * da * lambda * (1 - x/2)
			continue
		}
		total += sa * da * lambda / x * (1 - math.Exp(-x))
	}
	return total
}

func integrationGrid(from, to Date, curves ...*Curve) []Date {
	seen := map[Date]struct{}{from: {}, to: {}}
	for _, c := range curves {
		for _, d := range c.Dates {
			if d > from && d < to {
				seen[d] = struct{}{}
			}
		}
	}
	grid := make([]Date, 0, len(seen))
	for d := range seen {
		grid = append(grid, d)
	}
	sort.Slice(grid, func(i, j int) bool { return grid[i] < grid[j] })
	return grid
}

// Price returns the upfront value of the contract to the protection buyer.
// A clean price excludes the coupon accrued up to the step-in date.
func (c Contract) Price(disc, surv *Curve, recovery float64, clean bool) (float64, error) {
	l, err := c.legs(disc, surv, recovery)
	if err != nil {
		return 0, err
	}
	pv := l.protection - c.CouponRate*l.annuity
	pv /= disc.ZeroPrice(c.ValueDate)
	if clean {
		pv += c.CouponRate * l.accrued
	}
	return pv, nil
}

// ParSpread returns the coupon that gives the contract zero value.
func (c Contract) ParSpread(disc, surv *Curve, recovery float64) (float64, error) {
	l, err := c.legs(disc, surv, recovery)
	if err != nil {
		return 0, err
	}
	if l.annuity <= 0 {
		return 0, fmt.Errorf("contract ending %s has no risky annuity", c.EndDate)
	}
	return l.protection / l.annuity, nil
}

// ParSpreads prices par spreads of contracts that differ from c only in
// their end date.
func (c Contract) ParSpreads(endDates []Date, disc, surv *Curve, recovery float64) ([]float64, error) {
	out := make([]float64, len(endDates))
	for i, end := range endDates {
		ci := c
		ci.EndDate = end
		s, err := ci.ParSpread(disc, surv, recovery)
		if err != nil {
			return nil, fmt.Errorf("end date %d: %w", i+1, err)
		}
		out[i] = s
	}
	return out, nil
}

// CreditCurveSpec lists the benchmark CDS quotes of a clean spread curve.
// Includes may be nil, meaning every benchmark is used.
type CreditCurveSpec struct {
	Template    Contract
	EndDates    []Date
	CouponRates []float64
	Includes    []bool
	Recovery    float64
}

// CleanSpreadCurve bootstraps a survival curve from par CDS quotes. The
// returned curve is based at Today; its ZeroPrice is a survival probability.
func CleanSpreadCurve(spec CreditCurveSpec, disc *Curve) (*Curve, error) {
	n := len(spec.EndDates)
	if n == 0 {
		return nil, fmt.Errorf("clean spread curve needs at least one benchmark")
	}
	if len(spec.CouponRates) != n {
		return nil, fmt.Errorf("clean spread curve has %d end dates but %d rates", n, len(spec.CouponRates))
	}
	if spec.Includes != nil && len(spec.Includes) != n {
		return nil, fmt.Errorf("clean spread curve has %d end dates but %d include flags", n, len(spec.Includes))
	}
	today := spec.Template.Today
	var dates []Date
	var rates []float64
	for i, end := range spec.EndDates {
		if spec.Includes != nil && !spec.Includes[i] {
			continue
		}
		if len(dates) > 0 && end <= dates[len(dates)-1] {
			return nil, fmt.Errorf("benchmark %d end date %s is not increasing", i+1, end)
		}
		bench := spec.Template
		bench.EndDate = end
		bench.CouponRate = spec.CouponRates[i]
		value := func(h float64) (float64, error) {
			surv, err := MakeCurve(today, append(append([]Date(nil), dates...), end),
				append(append([]float64(nil), rates...), h), BasisContinuous, Act365F)
			if err != nil {
				return 0, err
			}
			return bench.Price(disc, surv, spec.Recovery, false)
		}
		h, err := findRoot(value, 0, 1)
		if err != nil {
			return nil, &BootstrapError{Index: i + 1, Date: end, Err: err}
		}
		dates = append(dates, end)
		rates = append(rates, h)
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("every benchmark is excluded")
	}
	return MakeCurve(today, dates, rates, BasisContinuous, Act365F)
}

// BootstrapError reports the benchmark a curve bootstrap failed on.
type BootstrapError struct {
	Index int
	Date  Date
	Err   error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("benchmark %d (%s) failed to bootstrap: %v", e.Index, e.Date, e.Err)
}

func (e *BootstrapError) Unwrap() error { return e.Err }

// FlatCurve is a contract priced off a single benchmark quote starting at
// BenchmarkStart.
type FlatCurve struct {
	Contract
	BenchmarkStart Date
}

func (f FlatCurve) curve(disc *Curve, parSpread, recovery float64) (*Curve, error) {
	bench := f.Contract
	bench.StartDate = f.BenchmarkStart
	return CleanSpreadCurve(CreditCurveSpec{
		Template:    bench,
		EndDates:    []Date{f.EndDate},
		CouponRates: []float64{parSpread},
		Recovery:    recovery,
	}, disc)
}

// UpfrontCharge prices the contract off a flat curve implied by parSpread.
func (f FlatCurve) UpfrontCharge(disc *Curve, parSpread, recovery float64, clean bool) (float64, error) {
	surv, err := f.curve(disc, parSpread, recovery)
	if err != nil {
		return 0, err
	}
	return f.Price(disc, surv, recovery, clean)
}

// Spread finds the flat par spread at which the contract is worth upfront.
func (f FlatCurve) Spread(disc *Curve, upfront, recovery float64, clean bool) (float64, error) {
	return findRoot(func(s float64) (float64, error) {
		u, err := f.UpfrontCharge(disc, s, recovery, clean)
		return u - upfront, err
	}, 0, 1)
}

// CashFlow is a dated amount.
type CashFlow struct {
	Date   Date
	Amount float64
}

// FeeLegFlows lists the coupon payments of a fee leg.
func FeeLegFlows(start, end Date, ivl Interval, stub StubMethod, notional, rate float64, dc DayCount, conv BadDayConv, cal *Calendar) ([]CashFlow, error) {
	periods, err := Schedule(start, end, ivl, stub, conv, cal)
	if err != nil {
		return nil, err
	}
	flows := make([]CashFlow, len(periods))
	for i, p := range periods {
		flows[i] = CashFlow{Date: p.PayDate, Amount: notional * rate * dc.YearFraction(p.AccStart, p.AccEnd)}
	}
	return flows, nil
}

func maxDate(a, b Date) Date {
	if a > b {
		return a
	}
	return b
}
