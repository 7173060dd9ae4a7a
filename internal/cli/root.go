// Package cli implements the cellbridge command line: it loads the CDS
// add-in into an in-process host and drives it the way a spreadsheet would.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/cdsmodel/cellbridge/addin"
	"github.com/cdsmodel/cellbridge/application/config"
	"github.com/cdsmodel/cellbridge/cdsfuncs"
	"github.com/cdsmodel/cellbridge/host"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // a call or the load failed
	ExitCommandError = 2 // bad flags, unreadable files
)

// ExitError carries the exit code a command wants.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// GetExitCode extracts the exit code from an error. Errors that are not
// ExitErrors map to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
	Verbose    bool

	cfg    config.Config
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cellbridge",
		Short: "Drive the CDS spreadsheet add-in from the command line",
		Long: `cellbridge loads the CDS analytics add-in into an in-process host,
registers its worksheet functions and calls them as a spreadsheet would.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.prepare(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "add-in configuration file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewCallCommand(opts))
	cmd.AddCommand(NewDemoCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))

	return cmd
}

func (o *RootOptions) prepare(cmd *cobra.Command) error {
	if !slices.Contains(ValidFormats, o.Format) {
		return &ExitError{Code: ExitCommandError,
			Err: fmt.Errorf("invalid format %q: must be one of %v", o.Format, ValidFormats)}
	}

	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	o.cfg = config.Default()
	if o.ConfigPath != "" {
		cfg, err := config.Load(o.ConfigPath)
		if err != nil {
			return &ExitError{Code: ExitCommandError, Err: err}
		}
		o.cfg = cfg
	}
	return nil
}

// config returns the loaded configuration, falling back to the default when
// a command runs without the root's pre-run.
func (o *RootOptions) config() config.Config {
	if o.cfg.Prefix == "" {
		return config.Default()
	}
	return o.cfg
}

func (o *RootOptions) log() *slog.Logger {
	if o.logger == nil {
		return slog.Default()
	}
	return o.logger
}

// load starts an in-process host with the full CDS function table. A
// partially registered table is usable; the failures are logged.
func (o *RootOptions) load(ctx context.Context, cfg config.Config) (*host.Executor, error) {
	addinOpts := []addin.Option{addin.WithBundle(cdsfuncs.AllBundles())}
	if o.Verbose {
		addinOpts = append(addinOpts, addin.WithMiddleware(addin.LoggingMiddleware(o.log())))
	}
	exec, err := host.NewExecutor(ctx,
		host.WithConfig(cfg),
		host.WithLogger(o.log()),
		host.WithAddInOptions(addinOpts...),
	)
	if exec == nil {
		return nil, &ExitError{Code: ExitFailure, Err: err}
	}
	return exec, nil
}
