package addin

import (
	"context"
	"log/slog"

	"github.com/cdsmodel/cellbridge/analytics"
	"github.com/cdsmodel/cellbridge/domain/ports"
	"github.com/cdsmodel/cellbridge/marshal"
)

// CallContext wraps a standard context.Context with the services one call
// may use. Values obtained from Results are only valid until the host
// reclaims the call.
type CallContext interface {
	context.Context

	// FunctionName returns the display name of the function being invoked.
	FunctionName() string

	// Results composes return values in the call arena.
	Results() *marshal.Composer

	// Objects resolves and stores handles.
	Objects() ports.ObjectStore

	// Calendars resolves holiday calendar names.
	Calendars() *analytics.Calendars

	// Diagnostics is the diagnostic log the worksheet functions expose.
	Diagnostics() ports.DiagnosticLog

	// Logger writes to the diagnostic log with the function name attached.
	Logger() *slog.Logger

	// SetValue stores a request-scoped value. Unlike context.WithValue,
	// this mutates the existing CallContext.
	SetValue(key, value any)

	// GetValue retrieves a request-scoped value set by SetValue.
	GetValue(key any) (value any, ok bool)
}

// services are the long-lived collaborators shared by every call.
type services struct {
	composer  *marshal.Composer
	objects   ports.ObjectStore
	calendars *analytics.Calendars
	diag      ports.DiagnosticLog
	recorder  *slog.Logger // writes to diag
	ops       *slog.Logger // operator-facing log
}

type callContext struct {
	context.Context
	*services
	funcName string
	logger   *slog.Logger
	values   map[any]any
}

func newCallContext(ctx context.Context, funcName string, svc *services, logger *slog.Logger) *callContext {
	return &callContext{
		Context:  ctx,
		services: svc,
		funcName: funcName,
		logger:   logger,
	}
}

func (c *callContext) FunctionName() string { return c.funcName }
func (c *callContext) Results() *marshal.Composer { return c.composer }
func (c *callContext) Objects() ports.ObjectStore { return c.objects }
func (c *callContext) Calendars() *analytics.Calendars { return c.calendars }
func (c *callContext) Diagnostics() ports.DiagnosticLog { return c.diag }
func (c *callContext) Logger() *slog.Logger { return c.logger }

func (c *callContext) SetValue(key, value any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = value
}

func (c *callContext) GetValue(key any) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}
