package log

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_DisabledByDefault(t *testing.T) {
	r := NewRecord()
	r.Append("ignored")

	assert.False(t, r.Enabled())
	assert.Nil(t, r.Lines())
}

func TestRecord_RingKeepsNewest(t *testing.T) {
	r := NewRecord(WithLines(3), WithEnabled(true))
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		r.Append(s)
	}
	assert.Equal(t, []string{"c", "d", "e"}, r.Lines())
}

func TestRecord_PartialRing(t *testing.T) {
	r := NewRecord(WithEnabled(true))
	r.Append("first\nsecond\n")
	assert.Equal(t, []string{"first", "second"}, r.Lines())
}

func TestRecord_TruncatesToWidth(t *testing.T) {
	r := NewRecord(WithWidth(8), WithEnabled(true))
	r.Append("0123456789")
	assert.Equal(t, []string{"0123456"}, r.Lines())
}

func TestRecord_TruncatesOnRuneBoundary(t *testing.T) {
	r := NewRecord(WithWidth(8), WithEnabled(true))
	r.Append("abcdef€uro")
	r.Append("abcdeé€")
	r.Append("ééééé")

	lines := r.Lines()
	assert.Equal(t, []string{"abcdef", "abcdeé", "ééé"}, lines)
	for _, line := range lines {
		assert.True(t, utf8.ValidString(line), "%q", line)
	}
}

func TestRecord_ToggleClears(t *testing.T) {
	r := NewRecord(WithEnabled(true))
	r.Append("old")
	r.SetEnabled(false)
	r.SetEnabled(true)
	assert.Empty(t, r.Lines())

	r.Append("new")
	r.SetEnabled(true)
	assert.Equal(t, []string{"new"}, r.Lines())
}

func TestRecord_FileMirror(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cds.log")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0o600))

	r := NewRecord(WithWidth(4), WithEnabled(true))
	require.NoError(t, r.SetFilename(path, true))
	assert.Equal(t, path, r.Filename())
	r.Append("full line")
	require.NoError(t, r.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous\nfull line\n", string(data))
	assert.Equal(t, []string{"ful"}, r.Lines())

	r2 := NewRecord(WithEnabled(true))
	require.NoError(t, r2.SetFilename(path, false))
	r2.Append("fresh")
	require.NoError(t, r2.Close())
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", string(data))

	assert.Error(t, r2.SetFilename(filepath.Join(t.TempDir(), "missing", "x.log"), false))
}

func TestHandler_RendersRoutineAndAttrs(t *testing.T) {
	r := NewRecord(WithEnabled(true))
	logger := slog.New(NewHandler(r))

	logger.Error("Rates parameter is required", slog.String(RoutineKey, "CDS_IRZeroCurveBuild"))
	logger.Info("stored", "handle", "ZC", "count", 3, "rate", 0.25)
	logger.Error("failed", "err", errors.New("boom"))

	assert.Equal(t, []string{
		"CDS_IRZeroCurveBuild: Rates parameter is required",
		"stored handle=ZC count=3 rate=0.25",
		`failed err="boom"`,
	}, r.Lines())
}

func TestHandler_WithAttrsAndGroup(t *testing.T) {
	r := NewRecord(WithEnabled(true))
	logger := slog.New(NewHandler(r)).With(RoutineKey, "CDS_Version").WithGroup("call").With("arg", 1)

	logger.Info("done", "ok", true, slog.Group("res", "rows", 2))
	assert.Equal(t, []string{"CDS_Version: done call.arg=1 call.ok=true call.res.rows=2"}, r.Lines())
}

func TestHandler_Levels(t *testing.T) {
	r := NewRecord(WithEnabled(true))
	h := NewHandler(r)
	assert.True(t, h.Enabled(context.TODO(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.TODO(), slog.LevelDebug))

	h = NewHandler(r, WithLevel(slog.LevelDebug), WithSource(true))
	assert.True(t, h.Enabled(context.TODO(), slog.LevelDebug))

	slog.New(h).Warn("careful")
	lines := r.Lines()
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "log_test.go:"), lines[0])
	assert.Contains(t, lines[0], "WARN careful")

	r.SetEnabled(false)
	assert.False(t, h.Enabled(context.TODO(), slog.LevelError))
}

func TestAttrText(t *testing.T) {
	type payload struct {
		Field string `json:"field"`
	}
	assert.Equal(t, `{"field":"data"}`, attrText(slog.AnyValue(payload{Field: "data"})))
	assert.Equal(t, "<nil>", attrText(slog.AnyValue(nil)))
	assert.Equal(t, `"two words"`, attrText(slog.StringValue("two words")))
}
