// Package addin is the call adapter between a spreadsheet host and the
// analytics functions.
//
// Load announces every function in the configured bundles to the host and
// wires the services one call needs: a transient arena for results, the
// object registry for handles, holiday calendars and the diagnostic log.
// Call dispatches a host invocation by display name and always returns a
// value; failures come back as the #N/A sentinel after being logged.
//
// The host owns the call boundary. A value returned by Call may point into
// the arena and stays valid until the host calls Reclaim, which it must do
// once it has consumed the value and before the next Call.
package addin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/cdsmodel/cellbridge/analytics"
	"github.com/cdsmodel/cellbridge/application/config"
	"github.com/cdsmodel/cellbridge/domain/entities"
	"github.com/cdsmodel/cellbridge/domain/ports"
	"github.com/cdsmodel/cellbridge/internal/arena"
	"github.com/cdsmodel/cellbridge/log"
	"github.com/cdsmodel/cellbridge/marshal"
	"github.com/cdsmodel/cellbridge/objects"
	"github.com/cdsmodel/cellbridge/registration"
)

// ManagerInfoName is the add-in manager action that asks for the library
// name.
const ManagerInfoName = 1

type loadConfig struct {
	cfg        config.Config
	bundles    []Bundle
	middleware []Middleware
	diag       ports.DiagnosticLog
	calendars  *analytics.Calendars
	objects    ports.ObjectStore
	logger     *slog.Logger
}

// Option configures Load.
type Option func(*loadConfig)

// WithConfig replaces the default configuration.
func WithConfig(cfg config.Config) Option {
	return func(c *loadConfig) {
		c.cfg = cfg
	}
}

// WithBundle adds a bundle of functions. Bundles register in the order
// given.
func WithBundle(b Bundle) Option {
	return func(c *loadConfig) {
		c.bundles = append(c.bundles, b)
	}
}

// WithFunction adds a single function after any bundles given so far.
func WithFunction(fn Function) Option {
	return WithBundle(NewBundle(fn))
}

// WithMiddleware wraps every entry point. The first middleware given is
// the outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *loadConfig) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithDiagnosticLog replaces the ring record built from the configuration.
func WithDiagnosticLog(d ports.DiagnosticLog) Option {
	return func(c *loadConfig) {
		c.diag = d
	}
}

// WithCalendars shares a calendar set with the add-in.
func WithCalendars(cs *analytics.Calendars) Option {
	return func(c *loadConfig) {
		c.calendars = cs
	}
}

// WithObjectStore replaces the object registry built from the
// configuration.
func WithObjectStore(s ports.ObjectStore) Option {
	return func(c *loadConfig) {
		c.objects = s
	}
}

// WithLogger sets the operator-facing logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *loadConfig) {
		c.logger = logger
	}
}

// NewDiagnosticLog builds the diagnostic log described by cfg.Log.
func NewDiagnosticLog(cfg config.Config) (*log.Record, error) {
	rec := log.NewRecord(
		log.WithLines(cfg.Log.Lines),
		log.WithWidth(cfg.Log.Width),
		log.WithEnabled(cfg.Log.Enabled),
	)
	if cfg.Log.File != "" {
		if err := rec.SetFilename(cfg.Log.File, cfg.Log.Append); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// AddIn is a loaded add-in.
type AddIn struct {
	host     ports.Host
	cfg      config.Config
	arena    *arena.Arena
	table    *FunctionTable
	protocol *registration.Protocol
	byName   map[string]Function // keyed by display name
	svc      *services
	closed   bool
}

// Load builds the add-in and registers its functions with host. Functions
// the host rejects are alerted and skipped; their errors are joined into
// the returned error while the AddIn is still returned. A nil AddIn means
// nothing was registered.
func Load(ctx context.Context, host ports.Host, opts ...Option) (*AddIn, error) {
	lc := loadConfig{cfg: config.Default()}
	for _, opt := range opts {
		opt(&lc)
	}
	if err := lc.cfg.Validate(); err != nil {
		return nil, err
	}
	if lc.logger == nil {
		lc.logger = slog.Default()
	}

	var fns []Function
	for _, b := range lc.bundles {
		fns = append(fns, b.Functions()...)
	}
	mw := append([]Middleware{PanicRecoveryMiddleware()}, lc.middleware...)
	table, err := NewTable(fns, mw...)
	if err != nil {
		return nil, fmt.Errorf("building function table: %w", err)
	}

	if lc.diag == nil {
		rec, err := NewDiagnosticLog(lc.cfg)
		if err != nil {
			return nil, err
		}
		lc.diag = rec
	}
	if lc.calendars == nil {
		lc.calendars = analytics.NewCalendars()
	}
	if lc.objects == nil {
		lc.objects = objects.New(
			objects.WithCapacity(lc.cfg.MaxObjects),
			objects.WithNamePrefix(lc.cfg.HandlePrefix),
		)
	}

	a := arena.New(lc.cfg.ArenaCapacity)
	recorder := slog.New(log.NewHandler(lc.diag, log.WithLevel(lc.cfg.SlogLevel())))
	proto := registration.New(host,
		registration.WithPrefix(lc.cfg.Prefix),
		registration.WithCategory(lc.cfg.Category),
		registration.WithLogger(lc.logger),
	)

	ai := &AddIn{
		host:     host,
		cfg:      lc.cfg,
		arena:    a,
		table:    table,
		protocol: proto,
		byName:   make(map[string]Function, table.Len()),
		svc: &services{
			composer:  marshal.NewComposer(a),
			objects:   lc.objects,
			calendars: lc.calendars,
			diag:      lc.diag,
			recorder:  recorder,
			ops:       lc.logger,
		},
	}
	err = proto.Announce(ctx, table.Descriptors())
	registered := proto.Registered()
	if len(registered) == 0 && table.Len() > 0 {
		return nil, err
	}
	// Only functions the host accepted are callable.
	for _, name := range table.order {
		display := proto.DisplayName(name)
		if slices.Contains(registered, display) {
			ai.byName[display] = table.functions[name]
		}
	}
	lc.logger.InfoContext(ctx, "add-in loaded",
		slog.String("library", lc.cfg.LibraryName),
		slog.Int("functions", len(registered)))
	return ai, err
}

// Call invokes the function registered under displayName. It never fails:
// an unknown name yields #NAME? and any other failure yields #N/A after
// the message and "Failed!" are written to the diagnostic log.
func (ai *AddIn) Call(ctx context.Context, displayName string, args ...entities.Value) entities.Value {
	v, _ := ai.Evaluate(ctx, displayName, args...)
	return v
}

// Evaluate is Call that also returns the failure behind an error value.
// The value is the same one Call would hand the host.
func (ai *AddIn) Evaluate(ctx context.Context, displayName string, args ...entities.Value) (entities.Value, error) {
	fn, ok := ai.byName[displayName]
	if !ok || ai.closed {
		ai.svc.ops.WarnContext(ctx, "call to unknown function", slog.String("function", displayName))
		return entities.ErrName, fmt.Errorf("function %q is not registered", displayName)
	}
	logger := ai.svc.recorder.With(slog.String(log.RoutineKey, displayName))

	v, err := ai.invoke(ctx, displayName, fn, logger, args)
	if err != nil {
		logger.ErrorContext(ctx, err.Error())
		logger.ErrorContext(ctx, "Failed!")
		ai.svc.ops.DebugContext(ctx, "call failed",
			slog.String("function", displayName), slog.Any("error", err))
		return entities.ErrNA, err
	}
	return v, nil
}

func (ai *AddIn) invoke(ctx context.Context, displayName string, fn Function, logger *slog.Logger, vals []entities.Value) (entities.Value, error) {
	args, err := NewArgs(vals...)
	if err != nil {
		return nil, err
	}
	cc := newCallContext(ctx, displayName, ai.svc, logger)
	v, err := fn.Entry(cc, args)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errors.New("no result")
	}
	return v, nil
}

// Reclaim releases every transient value produced since the last Reclaim.
// Values returned by Call are invalid afterwards unless cloned.
func (ai *AddIn) Reclaim() {
	ai.arena.Reset()
}

// Unload withdraws every registered function and releases all stored
// objects. Calling it again is a no-op.
func (ai *AddIn) Unload(ctx context.Context) error {
	if ai.closed {
		return nil
	}
	ai.closed = true
	err := ai.protocol.Revoke(ctx)
	ai.svc.objects.ReleaseAll()
	ai.arena.Reset()
	if c, ok := ai.svc.diag.(interface{ Close() error }); ok {
		err = errors.Join(err, c.Close())
	}
	ai.svc.ops.InfoContext(ctx, "add-in unloaded", slog.String("library", ai.cfg.LibraryName))
	return err
}

// Added tells the user the add-in was installed.
func (ai *AddIn) Added(ctx context.Context) {
	ai.host.Alert(ctx, ai.cfg.LibraryName+" add-in has been loaded")
}

// Removed tells the user the add-in was uninstalled.
func (ai *AddIn) Removed(ctx context.Context) {
	ai.host.Alert(ctx, ai.cfg.LibraryName+" add-in has been removed")
}

// ManagerInfo answers the host's add-in manager. Action ManagerInfoName
// returns the library name; anything else is #VALUE!.
func (ai *AddIn) ManagerInfo(action entities.Value) entities.Value {
	n, err := marshal.ReadScalar(action, "action", false, marshal.Long)
	if err != nil || n != ManagerInfoName {
		return entities.ErrValue
	}
	v, err := ai.svc.composer.Text(ai.cfg.LibraryName)
	if err != nil {
		return entities.ErrValue
	}
	return v
}

// Functions returns the display names of the registered functions in
// registration order.
func (ai *AddIn) Functions() []string {
	return ai.protocol.Registered()
}

// Descriptor returns the descriptor behind a display name.
func (ai *AddIn) Descriptor(displayName string) (entities.FunctionDescriptor, bool) {
	fn, ok := ai.byName[displayName]
	return fn.Descriptor, ok
}

// DisplayName decorates an undecorated function name with the prefix.
func (ai *AddIn) DisplayName(name string) string {
	return ai.protocol.DisplayName(name)
}

// Diagnostics returns the diagnostic log.
func (ai *AddIn) Diagnostics() ports.DiagnosticLog {
	return ai.svc.diag
}

// Objects returns the object registry.
func (ai *AddIn) Objects() ports.ObjectStore {
	return ai.svc.objects
}

// Calendars returns the holiday calendars.
func (ai *AddIn) Calendars() *analytics.Calendars {
	return ai.svc.calendars
}

// Config returns the configuration the add-in was loaded with.
func (ai *AddIn) Config() config.Config {
	return ai.cfg
}

// ArenaStats reports arena usage for diagnostics.
func (ai *AddIn) ArenaStats() string {
	return fmt.Sprintf("offset=%d capacity=%d allocations=%d peak=%d",
		ai.arena.Offset(), ai.arena.Capacity(), ai.arena.Allocations(), ai.arena.Peak())
}
