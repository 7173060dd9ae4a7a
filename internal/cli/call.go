package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cdsmodel/cellbridge/domain/entities"
	"github.com/cdsmodel/cellbridge/wireformat"
)

// NewCallCommand creates the call command.
func NewCallCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "call <script.yaml>",
		Short: "Run a script of worksheet calls",
		Long: `Run a YAML list of calls against the add-in, in order, as one sheet.
Objects created by earlier calls are visible to later ones. Use - to read
the script from standard input.

Arguments are written in their natural form; a list is a column, a list of
lists is a range, null is a missing argument and an error value is
written as {error: "#N/A"}.

Example script:
  - function: CDS_IRZeroCurveMake
    args: [39450, ["1Y", "5Y"], [0.05, 0.05], 5000, null, ZC]
  - function: CDS_DiscountFactor
    args: [ZC, "2Y"]`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(rootOpts, args[0], cmd)
		},
	}
}

func readScript(path string, stdin io.Reader) ([]wireformat.CallRequestWire, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	var calls []wireformat.CallRequestWire
	if err := yaml.Unmarshal(data, &calls); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return calls, nil
}

func runCall(opts *RootOptions, path string, cmd *cobra.Command) error {
	calls, err := readScript(path, cmd.InOrStdin())
	if err != nil {
		return &ExitError{Code: ExitCommandError, Err: err}
	}

	// Failures are reported per call, so the log is on regardless of the
	// configuration.
	cfg := opts.config()
	cfg.Log.Enabled = true

	ctx := cmd.Context()
	exec, err := opts.load(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = exec.Close(ctx) }()

	responses := make([]wireformat.CallResponseWire, 0, len(calls))
	failed := 0
	for _, c := range calls {
		resp := exec.CallWire(ctx, c)
		if resp.Error != nil {
			failed++
		}
		responses = append(responses, resp)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		data, err := wireformat.Encode(responses)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	} else {
		for _, r := range responses {
			fmt.Fprintf(out, "%s = %s\n", r.Function, formatResult(r.Result.Value))
			for _, line := range r.Log {
				fmt.Fprintf(out, "  | %s\n", line)
			}
		}
	}

	if failed > 0 {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("%d of %d calls failed", failed, len(calls))}
	}
	return nil
}

// formatResult renders a value on one line; ranges are written row by row.
func formatResult(v entities.Value) string {
	a, ok := v.(entities.Array)
	if !ok {
		return entities.Format(v)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%dx%d", a.Rows, a.Cols)
	for r := range a.Rows {
		b.WriteString(" [")
		for c := range a.Cols {
			if c > 0 {
				b.WriteString(", ")
			}
			b.WriteString(entities.Format(a.At(r, c)))
		}
		b.WriteString("]")
	}
	return b.String()
}
