package addin

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdsmodel/cellbridge/domain/entities"
)

func constant(v entities.Value) EntryPoint {
	return func(CallContext, Args) (entities.Value, error) { return v, nil }
}

func TestNewTable_Empty(t *testing.T) {
	tbl, err := NewTable(nil)
	require.NoError(t, err)
	assert.Zero(t, tbl.Len())
	assert.Empty(t, tbl.Names())
	assert.Empty(t, tbl.Descriptors())
}

func TestNewTable_OrderAndNames(t *testing.T) {
	tbl, err := NewTable([]Function{
		Define(entities.FunctionDescriptor{Name: "Zeta"}, constant(entities.Number(1))),
		Define(entities.FunctionDescriptor{Name: "Alpha"}, constant(entities.Number(2))),
	})
	require.NoError(t, err)

	assert.True(t, tbl.Has("Zeta"))
	assert.False(t, tbl.Has("Beta"))
	assert.Equal(t, []string{"Alpha", "Zeta"}, tbl.Names())

	descs := tbl.Descriptors()
	require.Len(t, descs, 2)
	assert.Equal(t, "Zeta", descs[0].Name)
	assert.Equal(t, "Alpha", descs[1].Name)
}

func TestNewTable_Rejects(t *testing.T) {
	tests := []struct {
		name string
		fns  []Function
		want string
	}{
		{"empty name", []Function{Define(entities.FunctionDescriptor{}, constant(entities.Number(1)))}, "empty"},
		{"nil entry", []Function{Define(entities.FunctionDescriptor{Name: "X"}, nil)}, "no entry point"},
		{"duplicate", []Function{
			Define(entities.FunctionDescriptor{Name: "X"}, constant(entities.Number(1))),
			Define(entities.FunctionDescriptor{Name: "X"}, constant(entities.Number(2))),
		}, "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.fns)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestArgs(t *testing.T) {
	args, err := NewArgs(entities.Number(1), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, args.Len())
	assert.Equal(t, entities.Number(1), args.At(0))
	assert.Equal(t, entities.Missing{}, args.At(1))
	assert.Equal(t, entities.Missing{}, args.At(5))
	assert.Equal(t, entities.Missing{}, args.At(-1))

	_, err = NewArgs(make([]entities.Value, MaxCallArgs+1)...)
	assert.Error(t, err)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	entry := LoggingMiddleware(logger)(constant(entities.Number(1)))
	cc := newCallContext(context.Background(), "CDS_One", &services{}, logger)

	v, err := entry(cc, Args{})
	require.NoError(t, err)
	assert.Equal(t, entities.Number(1), v)
	assert.Contains(t, buf.String(), "call completed")
	assert.Contains(t, buf.String(), "function=CDS_One")
	assert.Contains(t, buf.String(), "kind=number")
}

func TestPanicRecoveryMiddleware(t *testing.T) {
	entry := PanicRecoveryMiddleware()(func(CallContext, Args) (entities.Value, error) {
		panic("test panic")
	})
	cc := newCallContext(context.Background(), "CDS_P", &services{}, slog.Default())

	v, err := entry(cc, Args{})
	assert.Nil(t, v)
	var perr *PanicError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "test panic", perr.Value)
	assert.NotEmpty(t, perr.Stack)
}
