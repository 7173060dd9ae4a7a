package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cdsmodel/cellbridge/analytics"
	"github.com/cdsmodel/cellbridge/cdsfuncs"
	"github.com/cdsmodel/cellbridge/domain/entities"
	"github.com/cdsmodel/cellbridge/host"
)

const (
	demoCurve    = "ZC"
	demoNotional = 1e7
)

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Build the example zero curve and price three upfronts",
		Long: `Build a zero curve from 14 benchmark instruments, print discount
factors on three dates and upfront charges for coupons of 0, 3600 and 7200
basis points, then print the error log. Every step goes through the
worksheet functions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(rootOpts, cmd)
		},
	}
}

func serial(y int, m time.Month, d int) entities.Number {
	return entities.Number(analytics.NewDate(y, m, d).Serial())
}

func column[T any](xs []T, conv func(T) entities.Value) entities.Array {
	cells := make([]entities.Value, len(xs))
	for i, x := range xs {
		cells[i] = conv(x)
	}
	return entities.Column(cells...)
}

func text(s string) entities.Value {
	return entities.Text(s)
}

func number(f float64) entities.Value {
	return entities.Number(f)
}

func failed(v entities.Value) bool {
	return v.Kind() == entities.KindError
}

// show renders a result for the terminal; text is printed bare.
func show(v entities.Value) string {
	if t, ok := v.(entities.Text); ok {
		return string(t)
	}
	return formatResult(v)
}

// demo runs the example against exec, writing to out.
type demo struct {
	ctx  context.Context
	exec *host.Executor
	out  io.Writer
}

func (d *demo) call(name string, args ...entities.Value) entities.Value {
	return d.exec.Call(d.ctx, d.exec.AddIn().DisplayName(name), args...)
}

func (d *demo) buildZeroCurve() error {
	types := []string{"M", "M", "M", "M", "M", "S", "S", "S", "S", "S", "S", "S", "S", "S"}
	tenors := []string{"1M", "2M", "3M", "6M", "9M", "1Y", "2Y", "3Y", "4Y", "5Y", "6Y", "7Y", "8Y", "9Y"}
	rates := make([]float64, len(tenors))
	for i := range rates {
		rates[i] = 1e-9
	}

	v := d.call("IRZeroCurveBuild",
		serial(2008, time.January, 3),
		column(types, text),
		column(tenors, text),
		column(rates, number),
		text("Act/360"),
		text("6M"),
		text("6M"),
		text("30/360"),
		text("30/360"),
		text("M"),
		text("None"),
		text(demoCurve),
	)
	if failed(v) {
		return fmt.Errorf("IRZeroCurveBuild returned %s", show(v))
	}
	return nil
}

// upfront prices a short contract against the demo curve at a coupon given
// in basis points, scaled to the demo notional.
func (d *demo) upfront(couponBP float64) entities.Value {
	const parSpreadBP = 3600
	v := d.call("UpfrontFlat",
		serial(2008, time.February, 1),  // today
		serial(2008, time.February, 1),  // value date
		serial(2008, time.February, 2),  // benchmark start
		serial(2008, time.February, 9),  // step-in
		serial(2008, time.February, 8),  // start
		serial(2008, time.February, 12), // end
		number(couponBP/10000),
		entities.Boolean(true),
		text("1S"),
		text("f/s"),
		text("Act/360"),
		text("F"),
		text("None"),
		text(demoCurve),
		number(parSpreadBP/10000.0),
		number(0.4),
		entities.Boolean(false),
	)
	if n, ok := v.(entities.Number); ok {
		return n * demoNotional
	}
	return v
}

func (d *demo) run() error {
	fmt.Fprintln(d.out, "starting...")
	fmt.Fprintln(d.out, show(d.call("Version")))

	fmt.Fprintln(d.out, "enabling logging...")
	if v := d.call("SetErrorLogStatus", entities.Boolean(true)); failed(v) {
		return fmt.Errorf("SetErrorLogStatus returned %s", show(v))
	}

	fmt.Fprintln(d.out, "building zero curve...")
	if err := d.buildZeroCurve(); err != nil {
		return err
	}

	fmt.Fprintln(d.out)
	for _, at := range []struct {
		label string
		date  entities.Number
	}{
		{"3rd Jan 08", serial(2008, time.January, 3)},
		{"3rd Jan 09", serial(2009, time.January, 3)},
		{"3rd Jan 17", serial(2017, time.January, 3)},
	} {
		fmt.Fprintf(d.out, "Discount factor on %s = %s\n", at.label, show(d.call("DiscountFactor", text(demoCurve), at.date)))
	}

	fmt.Fprintln(d.out)
	for _, bp := range []float64{0, 3600, 7200} {
		fmt.Fprintf(d.out, "Upfront charge @ cpn = %gbps = %s\n", bp, show(d.upfront(bp)))
	}
	return nil
}

func (d *demo) dumpLog() {
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, "Error log contains:")
	fmt.Fprintln(d.out, "------------------:")
	v := d.call("ErrorLogContents")
	switch x := v.(type) {
	case entities.Array:
		for i := range x.Rows {
			fmt.Fprintln(d.out, show(x.At(i, 0)))
		}
	case entities.Text:
		fmt.Fprintln(d.out, string(x))
	default:
		fmt.Fprintln(d.out, cdsfuncs.NoLogContents)
	}
}

func runDemo(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	exec, err := opts.load(ctx, opts.config())
	if err != nil {
		return err
	}
	defer func() { _ = exec.Close(ctx) }()

	d := &demo{ctx: ctx, exec: exec, out: cmd.OutOrStdout()}
	err = d.run()
	if err != nil {
		fmt.Fprintln(d.out)
		fmt.Fprintln(d.out, "*** ERROR ***")
	}
	d.dumpLog()
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	return nil
}
