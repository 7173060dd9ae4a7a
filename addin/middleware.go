package addin

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/cdsmodel/cellbridge/domain/entities"
)

// Middleware wraps an EntryPoint to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion
// model).
type Middleware func(next EntryPoint) EntryPoint

// PanicError is returned in place of a value when an entry point panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// PanicRecoveryMiddleware returns a middleware that converts panics into a
// PanicError so the call degrades to #N/A instead of crashing the host.
func PanicRecoveryMiddleware() Middleware {
	return func(next EntryPoint) EntryPoint {
		return func(ctx CallContext, args Args) (v entities.Value, err error) {
			defer func() {
				if r := recover(); r != nil {
					v = nil
					err = &PanicError{Value: r, Stack: debug.Stack()}
				}
			}()
			return next(ctx, args)
		}
	}
}

// LoggingMiddleware returns a middleware that logs each invocation and its
// outcome to logger at debug level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next EntryPoint) EntryPoint {
		return func(ctx CallContext, args Args) (entities.Value, error) {
			start := time.Now()
			v, err := next(ctx, args)
			attrs := []any{
				slog.String("function", ctx.FunctionName()),
				slog.Int("args", args.Len()),
				slog.Duration("elapsed", time.Since(start)),
			}
			if err != nil {
				logger.DebugContext(ctx, "call failed", append(attrs, slog.Any("error", err))...)
				return v, err
			}
			logger.DebugContext(ctx, "call completed", append(attrs, slog.String("kind", v.Kind().String()))...)
			return v, nil
		}
	}
}
