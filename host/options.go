package host

import (
	"log/slog"

	"github.com/cdsmodel/cellbridge/addin"
	"github.com/cdsmodel/cellbridge/application/config"
)

// Option defines a functional option for configuring the Executor.
type Option func(*Executor)

// WithModule sets the add-in path the host reports. Defaults to
// DefaultModule.
func WithModule(module string) Option {
	return func(e *Executor) {
		e.module = module
	}
}

// WithRecorder uses rec as the host instead of a fresh Recorder.
func WithRecorder(rec *Recorder) Option {
	return func(e *Executor) {
		e.recorder = rec
	}
}

// WithConfig sets the add-in configuration. Defaults to config.Default().
func WithConfig(cfg config.Config) Option {
	return func(e *Executor) {
		e.cfg = cfg
	}
}

// WithAddInOptions passes options through to addin.Load.
func WithAddInOptions(opts ...addin.Option) Option {
	return func(e *Executor) {
		e.addinOpts = append(e.addinOpts, opts...)
	}
}

// WithLogger sets the operator logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}
