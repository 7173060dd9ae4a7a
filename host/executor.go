package host

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cdsmodel/cellbridge/addin"
	"github.com/cdsmodel/cellbridge/application/config"
	"github.com/cdsmodel/cellbridge/domain/entities"
	domainerrors "github.com/cdsmodel/cellbridge/domain/errors"
	"github.com/cdsmodel/cellbridge/domain/ports"
	"github.com/cdsmodel/cellbridge/wireformat"
)

// DefaultModule is the add-in path reported when none is configured.
const DefaultModule = "cellbridge.xll"

// Executor manages the lifecycle of one loaded add-in. Calls are
// serialized, as a spreadsheet recalculates one cell at a time.
type Executor struct {
	module    string
	cfg       config.Config
	recorder  *Recorder
	addinOpts []addin.Option
	logger    *slog.Logger

	mu    sync.Mutex
	addin *addin.AddIn
	tap   *tap
}

// NewExecutor loads an add-in with the given options. Functions the host
// rejected are reported in the returned error alongside a usable Executor;
// a nil Executor means nothing could be registered.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	e := &Executor{
		module: DefaultModule,
		cfg:    config.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.recorder == nil {
		e.recorder = NewRecorder(e.module)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	rec, err := addin.NewDiagnosticLog(e.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open diagnostic log: %w", err)
	}
	e.tap = &tap{DiagnosticLog: rec}

	loadOpts := append([]addin.Option{
		addin.WithConfig(e.cfg),
		addin.WithDiagnosticLog(e.tap),
		addin.WithLogger(e.logger),
	}, e.addinOpts...)

	ai, err := addin.Load(ctx, e.recorder, loadOpts...)
	if ai == nil {
		_ = rec.Close()
		return nil, fmt.Errorf("failed to load add-in: %w", err)
	}
	e.addin = ai
	if err != nil {
		e.logger.WarnContext(ctx, "some functions were not registered", slog.Any("error", err))
	}
	return e, err
}

// Call invokes a function by display name and returns a copy of its result
// that does not depend on the add-in's transient memory.
func (e *Executor) Call(ctx context.Context, displayName string, args ...entities.Value) entities.Value {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.call(ctx, displayName, args).value
}

// CallWire runs a scripted call and reports its result together with the
// failure detail and the diagnostic lines it wrote.
func (e *Executor) CallWire(ctx context.Context, req wireformat.CallRequestWire) wireformat.CallResponseWire {
	e.mu.Lock()
	defer e.mu.Unlock()
	o := e.call(ctx, req.Function, req.Values())
	return wireformat.CallResponseWire{
		Function: req.Function,
		Result:   wireformat.Cell{Value: o.value},
		Error:    domainerrors.ToErrorDetail(o.err),
		Log:      o.lines,
	}
}

// outcome is what one call produced on both sides of the boundary.
type outcome struct {
	value entities.Value
	err   error
	lines []string
}

func (e *Executor) call(ctx context.Context, displayName string, args []entities.Value) outcome {
	e.tap.take()

	v, err := e.addin.Evaluate(ctx, displayName, args...)
	o := outcome{value: entities.Clone(v), err: err}
	e.addin.Reclaim()

	o.lines = e.tap.take()
	return o
}

// AddIn returns the loaded add-in.
func (e *Executor) AddIn() *addin.AddIn {
	return e.addin
}

// Recorder returns the host transcript.
func (e *Executor) Recorder() *Recorder {
	return e.recorder
}

// Install performs the add-in manager's install step.
func (e *Executor) Install(ctx context.Context) {
	e.addin.Added(ctx)
}

// Uninstall performs the add-in manager's removal step and closes the
// add-in.
func (e *Executor) Uninstall(ctx context.Context) error {
	e.addin.Removed(ctx)
	return e.Close(ctx)
}

// Close unloads the add-in. It is safe to call more than once.
func (e *Executor) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addin.Unload(ctx)
}

// tap forwards to the diagnostic log and keeps the lines written since the
// last take.
type tap struct {
	ports.DiagnosticLog

	mu    sync.Mutex
	lines []string
}

func (t *tap) Append(line string) {
	t.DiagnosticLog.Append(line)
	if !t.Enabled() {
		return
	}
	t.mu.Lock()
	t.lines = append(t.lines, line)
	t.mu.Unlock()
}

func (t *tap) take() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.lines
	t.lines = nil
	return out
}

func (t *tap) Close() error {
	if c, ok := t.DiagnosticLog.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

var _ ports.DiagnosticLog = (*tap)(nil)
