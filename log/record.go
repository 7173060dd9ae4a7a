// Package log holds the add-in's diagnostic log: a bounded record of short
// lines users can read back from cells, an optional file mirror, and an
// slog handler that feeds both.
package log

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/cdsmodel/cellbridge/domain/ports"
)

// Defaults for the record.
const (
	DefaultLines = 20
	DefaultWidth = 128
)

type recordConfig struct {
	lines   int
	width   int
	enabled bool
}

// RecordOption configures a Record.
type RecordOption func(*recordConfig)

// WithLines sets how many lines the record keeps.
func WithLines(n int) RecordOption {
	return func(c *recordConfig) {
		if n > 0 {
			c.lines = n
		}
	}
}

// WithWidth sets the maximum line width in bytes, terminator included.
// Longer lines are cut to width-1 bytes.
func WithWidth(n int) RecordOption {
	return func(c *recordConfig) {
		if n > 1 {
			c.width = n
		}
	}
}

// WithEnabled sets whether the record starts on.
func WithEnabled(on bool) RecordOption {
	return func(c *recordConfig) {
		c.enabled = on
	}
}

// Record is a ring of the most recent log lines plus an optional file mirror.
// It is safe for concurrent use.
type Record struct {
	mu      sync.Mutex
	cfg     recordConfig
	ring    []string
	next    int
	full    bool
	file    *os.File
	path    string
	enabled bool
}

var _ ports.DiagnosticLog = (*Record)(nil)

// NewRecord creates a record. It starts disabled unless WithEnabled(true)
// is given.
func NewRecord(opts ...RecordOption) *Record {
	cfg := recordConfig{lines: DefaultLines, width: DefaultWidth}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Record{cfg: cfg, ring: make([]string, cfg.lines), enabled: cfg.enabled}
}

// Append records a message. Multi-line messages take one slot per line.
// Nothing is recorded while the record is disabled.
func (r *Record) Append(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(msg, "\n"), "\n") {
		if r.file != nil {
			_, _ = fmt.Fprintln(r.file, line)
		}
		line = clip(line, r.cfg.width-1)
		r.ring[r.next] = line
		r.next = (r.next + 1) % len(r.ring)
		if r.next == 0 {
			r.full = true
		}
	}
}

// clip cuts line to at most n bytes without splitting a UTF-8 sequence.
func clip(line string, n int) string {
	if len(line) <= n {
		return line
	}
	for n > 0 && !utf8.RuneStart(line[n]) {
		n--
	}
	return line[:n]
}

// Lines returns the recorded lines, oldest first, or nil when disabled.
func (r *Record) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled {
		return nil
	}
	if !r.full {
		return append([]string{}, r.ring[:r.next]...)
	}
	out := make([]string, 0, len(r.ring))
	out = append(out, r.ring[r.next:]...)
	return append(out, r.ring[:r.next]...)
}

// Enabled reports whether messages are being recorded.
func (r *Record) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// SetEnabled turns recording on or off. Either transition clears the ring.
func (r *Record) SetEnabled(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if on == r.enabled {
		return
	}
	r.enabled = on
	r.clear()
}

// Filename returns the path of the file mirror, if any.
func (r *Record) Filename() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// SetFilename mirrors recorded lines to path. The file is truncated unless
// appendTo is set. Any previous mirror is closed.
func (r *Record) SetFilename(path string, appendTo bool) error {
	flags := os.O_CREATE | os.O_WRONLY
	if appendTo {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o600) //nolint:gosec // path is chosen by the spreadsheet user
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file != nil {
		_ = r.file.Close()
	}
	r.file, r.path = f, path
	return nil
}

// Close closes the file mirror.
func (r *Record) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

func (r *Record) clear() {
	for i := range r.ring {
		r.ring[i] = ""
	}
	r.next, r.full = 0, false
}
