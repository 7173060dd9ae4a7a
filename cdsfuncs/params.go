package cdsfuncs

import (
	"fmt"

	"github.com/cdsmodel/cellbridge/addin"
	"github.com/cdsmodel/cellbridge/analytics"
	"github.com/cdsmodel/cellbridge/domain/entities"
	"github.com/cdsmodel/cellbridge/marshal"
	"github.com/cdsmodel/cellbridge/objects"
)

// Defaults applied when an optional convention is left missing.
const (
	DefaultStub         = "f/s"
	DefaultPaymentDCC   = "ACT/360"
	DefaultBadDay       = "N"
	DefaultMoneyMarket  = "ACT/360"
	DefaultZeroCurveDCC = "ACT/365F"
)

// params reads the arguments of one call in declaration order. The first
// failure sticks: later reads return zero values and Err reports it.
type params struct {
	ctx  addin.CallContext
	args addin.Args
	desc entities.FunctionDescriptor
	err  error
}

func newParams(ctx addin.CallContext, args addin.Args, desc entities.FunctionDescriptor) *params {
	return &params{ctx: ctx, args: args, desc: desc}
}

// Err returns the first read failure.
func (p *params) Err() error {
	return p.err
}

func (p *params) name(i int) string {
	return p.desc.ParamName(i)
}

func (p *params) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// count is the element count implied by argument i.
func (p *params) count(i int) int {
	return marshal.InferCount(p.args.At(i))
}

func (p *params) missing(i int) bool {
	return marshal.IsMissing(p.args.At(i))
}

func scalar[T any](p *params, i int, conv marshal.Converter[T]) T {
	var zero T
	if p.err != nil {
		return zero
	}
	v, err := marshal.ReadScalar(p.args.At(i), p.name(i), true, conv)
	if err != nil {
		p.fail(err)
		return zero
	}
	return v
}

func optional[T any](p *params, i int, def T, conv marshal.Converter[T]) T {
	if p.err != nil {
		return def
	}
	v, err := marshal.ReadOptional(p.args.At(i), p.name(i), def, conv)
	if err != nil {
		p.fail(err)
		return def
	}
	return v
}

func array[T any](p *params, i, n int, conv marshal.Converter[T]) []T {
	if p.err != nil {
		return nil
	}
	v, err := marshal.ReadArray(p.args.At(i), p.name(i), n, true, conv)
	if err != nil {
		p.fail(err)
		return nil
	}
	return v
}

func (p *params) date(i int) analytics.Date {
	return scalar(p, i, marshal.Date)
}

func (p *params) double(i int) float64 {
	return scalar(p, i, marshal.Double)
}

func (p *params) long(i int) int64 {
	return scalar(p, i, marshal.Long)
}

// flag reads a long where any non-zero value means true.
func (p *params) flag(i int) bool {
	return p.long(i) != 0
}

func (p *params) text(i int) string {
	return scalar(p, i, marshal.String)
}

func (p *params) optText(i int, def string) string {
	return optional(p, i, def, marshal.String)
}

func (p *params) doubles(i, n int) []float64 {
	return array(p, i, n, marshal.Double)
}

func (p *params) texts(i, n int) []string {
	return array(p, i, n, marshal.String)
}

func (p *params) dateOrInterval(i int, anchor analytics.Date) analytics.Date {
	if p.err != nil {
		return 0
	}
	d, err := marshal.ReadDateOrInterval(p.args.At(i), anchor, p.name(i), 1)
	if err != nil {
		p.fail(err)
	}
	return d
}

func (p *params) datesOrIntervals(i int, anchor analytics.Date, n int) []analytics.Date {
	if p.err != nil {
		return nil
	}
	ds, err := marshal.ReadDateOrIntervalArray(p.args.At(i), anchor, p.name(i), n, true)
	if err != nil {
		p.fail(err)
	}
	return ds
}

// parse applies fn to a text value and records a failure against argument i.
func parse[T any](p *params, i int, s string, fn func(string) (T, error)) T {
	var zero T
	if p.err != nil {
		return zero
	}
	v, err := fn(s)
	if err != nil {
		p.fail(fmt.Errorf("%s: %w", p.name(i), err))
		return zero
	}
	return v
}

func (p *params) interval(i int) analytics.Interval {
	return parse(p, i, p.text(i), analytics.ParseInterval)
}

func (p *params) optInterval(i int, def analytics.Interval) analytics.Interval {
	if p.err == nil && p.missing(i) {
		return def
	}
	return p.interval(i)
}

func (p *params) dayCount(i int) analytics.DayCount {
	return parse(p, i, p.text(i), analytics.ParseDayCount)
}

func (p *params) optDayCount(i int, def string) analytics.DayCount {
	return parse(p, i, p.optText(i, def), analytics.ParseDayCount)
}

func (p *params) stub(i int) analytics.StubMethod {
	return parse(p, i, p.optText(i, DefaultStub), analytics.ParseStubMethod)
}

func (p *params) badDay(i int) analytics.BadDayConv {
	return parse(p, i, p.optText(i, DefaultBadDay), analytics.ParseBadDayConv)
}

func (p *params) calendar(i int) *analytics.Calendar {
	return parse(p, i, p.text(i), p.ctx.Calendars().Lookup)
}

func (p *params) curve(i int) *analytics.Curve {
	handle := p.text(i)
	if p.err != nil {
		return nil
	}
	c, err := objects.Retrieve[*analytics.Curve](p.ctx.Objects(), handle)
	if err != nil {
		p.fail(fmt.Errorf("%s: %w", p.name(i), err))
		return nil
	}
	return c
}

// conventions reads the fee leg conventions found in a run of consecutive
// arguments starting at first: pay accrued on default, coupon interval,
// stub, payment day count, bad day convention and holidays.
func (p *params) conventions(c *analytics.Contract, first int) {
	c.PayAccOnDefault = p.flag(first)
	c.Interval = p.interval(first + 1)
	c.Stub = p.stub(first + 2)
	c.DayCount = p.optDayCount(first+3, DefaultPaymentDCC)
	c.BadDay = p.badDay(first + 4)
	c.Calendar = p.calendar(first + 5)
}

// typed adapts a decode step and a compute step into an entry point.
// decode reads every argument through params; compute runs only if all
// reads succeeded.
func typed[Req any](desc entities.FunctionDescriptor, decode func(*params) Req, compute func(addin.CallContext, Req) (entities.Value, error)) addin.Function {
	return addin.Define(desc, func(ctx addin.CallContext, args addin.Args) (entities.Value, error) {
		p := newParams(ctx, args, desc)
		req := decode(p)
		if err := p.Err(); err != nil {
			return nil, err
		}
		return compute(ctx, req)
	})
}
