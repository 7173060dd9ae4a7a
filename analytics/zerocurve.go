package analytics

import (
	"fmt"
	"strings"
)

// Instrument types accepted by BuildZeroCurve.
const (
	InstrumentMoneyMarket = 'M'
	InstrumentSwap        = 'S'
)

// ZeroCurveSpec describes the money market and swap quotes of a zero curve.
type ZeroCurveSpec struct {
	ValueDate     Date
	Types         string
	EndDates      []Date
	Rates         []float64
	MMDayCount    DayCount
	FixedInterval Interval
	FloatInterval Interval
	FixedDayCount DayCount
	FloatDayCount DayCount
	BadDay        BadDayConv
	Calendar      *Calendar
}

// BuildZeroCurve bootstraps a zero curve. Money market rates are simple
// rates on MMDayCount; swaps are par rates with fixed legs paid every
// FixedInterval. The result is continuously compounded on Act/365F.
func BuildZeroCurve(spec ZeroCurveSpec) (*Curve, error) {
	n := len(spec.Types)
	if n == 0 {
		return nil, fmt.Errorf("zero curve needs at least one instrument")
	}
	if len(spec.EndDates) != n || len(spec.Rates) != n {
		return nil, fmt.Errorf("zero curve has %d types, %d dates and %d rates", n, len(spec.EndDates), len(spec.Rates))
	}
	types := strings.ToUpper(spec.Types)
	var dates []Date
	var dfs []float64
	for i := 0; i < n; i++ {
		end := spec.EndDates[i]
		if end <= spec.ValueDate || (len(dates) > 0 && end <= dates[len(dates)-1]) {
			return nil, fmt.Errorf("instrument %d maturity %s is not increasing", i+1, end)
		}
		var df float64
		switch types[i] {
		case InstrumentMoneyMarket:
			df = 1 / (1 + spec.Rates[i]*spec.MMDayCount.YearFraction(spec.ValueDate, end))
		case InstrumentSwap:
			var err error
			if df, err = swapDiscount(spec, dates, dfs, end, spec.Rates[i]); err != nil {
				return nil, fmt.Errorf("instrument %d: %w", i+1, err)
			}
		default:
			return nil, fmt.Errorf("instrument %d has unknown type %q", i+1, types[i])
		}
		if df <= 0 {
			return nil, fmt.Errorf("instrument %d gives non-positive discount factor", i+1)
		}
		dates = append(dates, end)
		dfs = append(dfs, df)
	}
	return curveFromDiscounts(spec.ValueDate, dates, dfs, Act365F)
}

// swapDiscount solves for the maturity discount factor that prices the swap
// at par given the nodes already bootstrapped.
func swapDiscount(spec ZeroCurveSpec, dates []Date, dfs []float64, end Date, rate float64) (float64, error) {
	periods, err := Schedule(spec.ValueDate, end, spec.FixedInterval, StubMethod{Front: true}, spec.BadDay, spec.Calendar)
	if err != nil {
		return 0, err
	}
	pv := func(z float64) (float64, error) {
		c, err := curveFromDiscounts(spec.ValueDate, append(append([]Date(nil), dates...), end),
			append(append([]float64(nil), dfs...), z), Act365F)
		if err != nil {
			return 0, err
		}
		total := 0.0
		for _, p := range periods {
			total += rate * spec.FixedDayCount.YearFraction(p.AccStart, p.AccEnd) * c.ZeroPrice(p.PayDate)
		}
		return total + c.ZeroPrice(periods[len(periods)-1].PayDate) - 1, nil
	}
	return findRoot(pv, 1e-6, 1)
}

// MoneyMarketMaturity adjusts a quoted money market end date. Terms of up to
// three days count business days forward, terms of up to three weeks use
// following, and longer terms use modified following.
func MoneyMarketMaturity(value, end Date, cal *Calendar) Date {
	switch days := int(end - value); {
	case days <= 3:
		return cal.AddBusinessDays(value, days)
	case days <= 21:
		return cal.Adjust(end, BadDayFollowing)
	default:
		return cal.Adjust(end, BadDayModifiedFollowing)
	}
}
