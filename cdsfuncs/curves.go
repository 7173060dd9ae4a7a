package cdsfuncs

import (
	"fmt"
	"strings"

	"github.com/cdsmodel/cellbridge/addin"
	"github.com/cdsmodel/cellbridge/analytics"
	"github.com/cdsmodel/cellbridge/domain/entities"
	domainerrors "github.com/cdsmodel/cellbridge/domain/errors"
	"github.com/cdsmodel/cellbridge/marshal"
)

type zeroCurveBuildReq struct {
	spec  analytics.ZeroCurveSpec
	types []string
	name  string
}

func decodeZeroCurveBuild(p *params) zeroCurveBuildReq {
	var r zeroCurveBuildReq
	n := p.count(1)
	s := &r.spec
	s.ValueDate = p.date(0)
	r.types = p.texts(1, n)
	s.EndDates = p.datesOrIntervals(2, s.ValueDate, n)
	s.Rates = p.doubles(3, n)
	s.MMDayCount = p.optDayCount(4, DefaultMoneyMarket)
	s.FixedInterval = p.interval(5)
	s.FloatInterval = p.optInterval(6, s.FixedInterval)
	s.FixedDayCount = p.dayCount(7)
	s.FloatDayCount = s.FixedDayCount
	if !p.missing(8) {
		s.FloatDayCount = p.dayCount(8)
	}
	s.BadDay = p.badDay(9)
	s.Calendar = p.calendar(10)
	r.name = p.text(11)
	return r
}

func irZeroCurveBuild(ctx addin.CallContext, r zeroCurveBuildReq) (entities.Value, error) {
	var types strings.Builder
	for i, t := range r.types {
		t = strings.TrimSpace(t)
		if t == "" {
			return nil, fmt.Errorf("%s: instrument %d has no type", IRZeroCurveBuildDesc.ParamName(1), i+1)
		}
		types.WriteByte(strings.ToUpper(t)[0])
	}
	spec := r.spec
	spec.Types = types.String()

	// Money market maturities are quoted unadjusted.
	for i := range spec.EndDates {
		if spec.Types[i] == analytics.InstrumentMoneyMarket {
			spec.EndDates[i] = analytics.MoneyMarketMaturity(spec.ValueDate, spec.EndDates[i], spec.Calendar)
		}
	}

	curve, err := analytics.BuildZeroCurve(spec)
	if err != nil {
		return nil, &domainerrors.EngineError{Routine: "BuildZeroCurve", Err: err}
	}
	return storeCurve(ctx, r.name, curve)
}

type zeroCurveMakeReq struct {
	base     analytics.Date
	dates    []analytics.Date
	rates    []float64
	basis    int64
	dayCount analytics.DayCount
	name     string
}

func decodeZeroCurveMake(p *params) zeroCurveMakeReq {
	var r zeroCurveMakeReq
	n := p.count(1)
	r.base = p.date(0)
	r.dates = p.datesOrIntervals(1, r.base, n)
	r.rates = p.doubles(2, n)
	r.basis = p.long(3)
	r.dayCount = p.optDayCount(4, DefaultZeroCurveDCC)
	r.name = p.text(5)
	return r
}

func irZeroCurveMake(ctx addin.CallContext, r zeroCurveMakeReq) (entities.Value, error) {
	basis, err := analytics.ParseBasis(int(r.basis))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", IRZeroCurveMakeDesc.ParamName(3), err)
	}
	curve, err := analytics.MakeCurve(r.base, r.dates, r.rates, basis, r.dayCount)
	if err != nil {
		return nil, &domainerrors.EngineError{Routine: "MakeCurve", Err: err}
	}
	return storeCurve(ctx, r.name, curve)
}

type spreadCurveReq struct {
	spec analytics.CreditCurveSpec
	disc *analytics.Curve
	name string
}

func decodeSpreadCurve(p *params) spreadCurveReq {
	var r spreadCurveReq
	n := p.count(4)
	t := &r.spec.Template
	t.Today = p.date(0)
	t.StartDate = p.date(1)
	t.StepinDate = p.date(2)
	t.ValueDate = p.date(3)
	r.spec.EndDates = p.datesOrIntervals(4, t.StartDate, n)
	r.spec.CouponRates = p.doubles(5, n)
	if !p.missing(6) && p.count(6) != 0 {
		flags := array(p, 6, n, marshal.Long)
		if flags != nil {
			r.spec.Includes = make([]bool, n)
			for i, f := range flags {
				r.spec.Includes[i] = f != 0
			}
		}
	}
	p.conventions(t, 7)
	r.disc = p.curve(13)
	r.spec.Recovery = p.double(14)
	r.name = p.text(15)
	return r
}

func cleanSpreadCurveBuild(ctx addin.CallContext, r spreadCurveReq) (entities.Value, error) {
	curve, err := analytics.CleanSpreadCurve(r.spec, r.disc)
	if err != nil {
		return nil, &domainerrors.EngineError{Routine: "CleanSpreadCurve", Err: err}
	}
	return storeCurve(ctx, r.name, curve)
}

type discountFactorReq struct {
	curve *analytics.Curve
	date  analytics.Date
}

func decodeDiscountFactor(p *params) discountFactorReq {
	var r discountFactorReq
	r.curve = p.curve(0)
	if r.curve != nil {
		r.date = p.dateOrInterval(1, r.curve.BaseDate)
	}
	return r
}

func discountFactor(ctx addin.CallContext, r discountFactorReq) (entities.Value, error) {
	return ctx.Results().Number(r.curve.ZeroPrice(r.date))
}

func datesAndRates(ctx addin.CallContext, c *analytics.Curve) (entities.Value, error) {
	return ctx.Results().DatedValues(c.Dates, c.Rates)
}

// storeCurve keeps curve under name and returns the handle as text.
func storeCurve(ctx addin.CallContext, name string, curve *analytics.Curve) (entities.Value, error) {
	handle, err := ctx.Objects().Store(strings.Clone(name), curve)
	if err != nil {
		return nil, err
	}
	return ctx.Results().Text(handle)
}

// CurvesBundle returns the curve functions: IRZeroCurveBuild,
// IRZeroCurveMake, CleanSpreadCurveBuild, DiscountFactor and DatesAndRates.
func CurvesBundle() addin.Bundle {
	return addin.NewBundle(
		typed(IRZeroCurveBuildDesc, decodeZeroCurveBuild, irZeroCurveBuild),
		typed(IRZeroCurveMakeDesc, decodeZeroCurveMake, irZeroCurveMake),
		typed(CleanSpreadCurveBuildDesc, decodeSpreadCurve, cleanSpreadCurveBuild),
		typed(DiscountFactorDesc, decodeDiscountFactor, discountFactor),
		typed(DatesAndRatesDesc, func(p *params) *analytics.Curve { return p.curve(0) }, datesAndRates),
	)
}
