package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cdsmodel/cellbridge/domain/entities"
	"github.com/cdsmodel/cellbridge/wireformat"
)

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Show what the add-in registers with the host",
		Long: `Load the add-in, print every register and alert call it makes to the
host, then unload it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRegister(rootOpts, cmd)
		},
	}
}

func runRegister(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	exec, err := opts.load(ctx, opts.config())
	if err != nil {
		return err
	}
	rec := exec.Recorder()

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		module, _ := rec.ModuleName(ctx)
		reg := wireformat.RegistrationWire{Module: module, Alerts: rec.Alerts()}
		for _, name := range exec.AddIn().Functions() {
			if req, ok := rec.Request(name); ok {
				reg.Functions = append(reg.Functions, req)
			}
		}
		if reg.Functions == nil {
			reg.Functions = []entities.RegistrationRequest{}
		}
		data, err := wireformat.Encode(reg)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprint(out, rec.Transcript())
	}
	return exec.Close(ctx)
}
