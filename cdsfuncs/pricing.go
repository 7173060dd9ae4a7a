package cdsfuncs

import (
	"github.com/cdsmodel/cellbridge/addin"
	"github.com/cdsmodel/cellbridge/analytics"
	"github.com/cdsmodel/cellbridge/domain/entities"
	domainerrors "github.com/cdsmodel/cellbridge/domain/errors"
)

type flatReq struct {
	flat     analytics.FlatCurve
	disc     *analytics.Curve
	quote    float64
	recovery float64
	clean    bool
}

func decodeFlat(p *params) flatReq {
	var r flatReq
	c := &r.flat.Contract
	c.Today = p.date(0)
	c.ValueDate = p.date(1)
	r.flat.BenchmarkStart = p.date(2)
	c.StepinDate = p.date(3)
	c.StartDate = p.date(4)
	c.EndDate = p.dateOrInterval(5, c.StartDate)
	c.CouponRate = p.double(6)
	p.conventions(c, 7)
	r.disc = p.curve(13)
	r.quote = p.double(14)
	r.recovery = p.double(15)
	r.clean = p.flag(16)
	return r
}

func parSpreadFlat(ctx addin.CallContext, r flatReq) (entities.Value, error) {
	s, err := r.flat.Spread(r.disc, r.quote, r.recovery, r.clean)
	if err != nil {
		return nil, &domainerrors.EngineError{Routine: "ParSpreadFlat", Err: err}
	}
	return ctx.Results().Number(s)
}

func upfrontFlat(ctx addin.CallContext, r flatReq) (entities.Value, error) {
	u, err := r.flat.UpfrontCharge(r.disc, r.quote, r.recovery, r.clean)
	if err != nil {
		return nil, &domainerrors.EngineError{Routine: "UpfrontFlat", Err: err}
	}
	return ctx.Results().Number(u)
}

type priceReq struct {
	contract analytics.Contract
	disc     *analytics.Curve
	surv     *analytics.Curve
	recovery float64
	clean    bool
}

func decodePrice(p *params) priceReq {
	var r priceReq
	c := &r.contract
	c.Today = p.date(0)
	c.ValueDate = p.date(1)
	c.StepinDate = p.date(2)
	c.StartDate = p.date(3)
	c.EndDate = p.dateOrInterval(4, c.StartDate)
	c.CouponRate = p.double(5)
	p.conventions(c, 6)
	r.disc = p.curve(12)
	r.surv = p.curve(13)
	r.recovery = p.double(14)
	r.clean = p.flag(15)
	return r
}

func cdsPrice(ctx addin.CallContext, r priceReq) (entities.Value, error) {
	pv, err := r.contract.Price(r.disc, r.surv, r.recovery, r.clean)
	if err != nil {
		return nil, &domainerrors.EngineError{Routine: "Price", Err: err}
	}
	return ctx.Results().Number(pv)
}

type parSpreadsReq struct {
	contract analytics.Contract
	endDates []analytics.Date
	disc     *analytics.Curve
	surv     *analytics.Curve
	recovery float64
}

func decodeParSpreads(p *params) parSpreadsReq {
	var r parSpreadsReq
	n := p.count(3)
	c := &r.contract
	c.Today = p.date(0)
	c.ValueDate = c.Today
	c.StepinDate = p.date(1)
	c.StartDate = p.date(2)
	r.endDates = p.datesOrIntervals(3, c.StepinDate, n)
	p.conventions(c, 4)
	r.disc = p.curve(10)
	r.surv = p.curve(11)
	r.recovery = p.double(12)
	return r
}

func parSpreads(ctx addin.CallContext, r parSpreadsReq) (entities.Value, error) {
	spreads, err := r.contract.ParSpreads(r.endDates, r.disc, r.surv, r.recovery)
	if err != nil {
		return nil, &domainerrors.EngineError{Routine: "ParSpreads", Err: err}
	}
	return ctx.Results().Numbers(spreads)
}

type feeLegReq struct {
	start, end analytics.Date
	rate       float64
	notional   float64
	conv       analytics.Contract // only the conventions are used
}

func decodeFeeLeg(p *params) feeLegReq {
	var r feeLegReq
	r.start = p.date(0)
	r.end = p.dateOrInterval(1, r.start)
	r.rate = p.double(2)
	r.notional = p.double(3)
	c := &r.conv
	c.Interval = p.interval(4)
	c.Stub = p.stub(5)
	c.DayCount = p.optDayCount(6, DefaultPaymentDCC)
	c.BadDay = p.badDay(7)
	c.Calendar = p.calendar(8)
	return r
}

func feeLegFlows(ctx addin.CallContext, r feeLegReq) (entities.Value, error) {
	c := r.conv
	flows, err := analytics.FeeLegFlows(r.start, r.end, c.Interval, c.Stub, r.notional, r.rate, c.DayCount, c.BadDay, c.Calendar)
	if err != nil {
		return nil, &domainerrors.EngineError{Routine: "FeeLegFlows", Err: err}
	}
	dates := make([]analytics.Date, len(flows))
	amounts := make([]float64, len(flows))
	for i, f := range flows {
		dates[i], amounts[i] = f.Date, f.Amount
	}
	return ctx.Results().DatedValues(dates, amounts)
}

// PricingBundle returns the contract functions: ParSpreadFlat, UpfrontFlat,
// CdsPrice, ParSpreads and FeeLegFlows.
func PricingBundle() addin.Bundle {
	return addin.NewBundle(
		typed(ParSpreadFlatDesc, decodeFlat, parSpreadFlat),
		typed(UpfrontFlatDesc, decodeFlat, upfrontFlat),
		typed(CdsPriceDesc, decodePrice, cdsPrice),
		typed(ParSpreadsDesc, decodeParSpreads, parSpreads),
		typed(FeeLegFlowsDesc, decodeFeeLeg, feeLegFlows),
	)
}
