package log

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/cdsmodel/cellbridge/domain/ports"
)

// RoutineKey is the attribute that names the function a message is about.
// The handler renders it as a "routine: " prefix instead of a key=value pair.
const RoutineKey = "routine"

// Handler implements slog.Handler by appending one line per record to a
// DiagnosticLog.
type Handler struct {
	opts   handlerConfig
	sink   ports.DiagnosticLog
	attrs  []slog.Attr
	groups []string
}

// HandlerOption configures the Handler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	level     slog.Level
	addSource bool
}

// defaultHandlerConfig returns the default configuration.
func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level: slog.LevelInfo,
	}
}

// WithLevel sets the minimum log level to record.
func WithLevel(level slog.Level) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file:line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// NewHandler creates a Handler writing to sink.
func NewHandler(sink ports.DiagnosticLog, opts ...HandlerOption) *Handler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Handler{opts: cfg, sink: sink}
}

// Enabled reports whether the handler handles records at the given level.
// Records are dropped early while the sink is off.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level && h.sink.Enabled()
}

// Handle renders the record as "routine: message key=value ...".
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	var routine string
	var kv []string
	add := func(prefix string, a slog.Attr) {
		if a.Key == RoutineKey && prefix == "" {
			routine = a.Value.Resolve().String()
			return
		}
		kv = appendAttr(kv, prefix, a)
	}
	prefix := strings.Join(h.groups, ".")
	for _, a := range h.attrs {
		add("", a)
	}
	record.Attrs(func(a slog.Attr) bool {
		add(prefix, a)
		return true
	})

	var b strings.Builder
	if h.opts.addSource && record.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{record.PC})
		f, _ := frames.Next()
		fmt.Fprintf(&b, "%s:%d ", filepath.Base(f.File), f.Line)
	}
	if record.Level >= slog.LevelWarn && record.Level != slog.LevelError {
		b.WriteString(record.Level.String() + " ")
	}
	if routine != "" {
		b.WriteString(routine + ": ")
	}
	b.WriteString(record.Message)
	for _, s := range kv {
		b.WriteString(" " + s)
	}
	h.sink.Append(b.String())
	return nil
}

// WithAttrs returns a new Handler that includes the given attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	prefix := strings.Join(h.groups, ".")
	nh.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		if prefix != "" && a.Key != RoutineKey {
			a.Key = prefix + "." + a.Key
		}
		nh.attrs = append(nh.attrs, a)
	}
	return &nh
}

// WithGroup returns a new Handler that qualifies later keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.groups = append(append([]string{}, h.groups...), name)
	return &nh
}

func appendAttr(dst []string, prefix string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			dst = appendAttr(dst, key, ga)
		}
		return dst
	}
	return append(dst, key+"="+attrText(a.Value))
}

// attrText renders a resolved value compactly; structured values are
// rendered as JSON.
func attrText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " =\"") {
			return fmt.Sprintf("%q", s)
		}
		return s
	case slog.KindFloat64:
		return fmt.Sprintf("%g", v.Float64())
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		x := v.Any()
		if x == nil {
			return "<nil>"
		}
		if err, ok := x.(error); ok {
			return fmt.Sprintf("%q", err.Error())
		}
		if _, ok := x.(fmt.Stringer); !ok {
			if data, err := json.Marshal(x); err == nil {
				return string(data)
			}
		}
		return fmt.Sprintf("%v", x)
	default:
		return v.String()
	}
}
