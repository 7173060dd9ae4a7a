package addin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdsmodel/cellbridge/addin"
	"github.com/cdsmodel/cellbridge/application/config"
	"github.com/cdsmodel/cellbridge/domain/entities"
	"github.com/cdsmodel/cellbridge/host"
	"github.com/cdsmodel/cellbridge/marshal"
	"github.com/cdsmodel/cellbridge/objects"
	"github.com/cdsmodel/cellbridge/registration"
)

type counted struct{ released int }

func (c *counted) Release() { c.released++ }

func sample() addin.Bundle {
	return addin.NewBundle(
		addin.Define(entities.FunctionDescriptor{
			Name:   "Add",
			Params: []entities.ParamSpec{entities.Param("A", ""), entities.Param("B", "")},
		}, func(ctx addin.CallContext, args addin.Args) (entities.Value, error) {
			a, err := marshal.ReadScalar(args.At(0), "A", true, marshal.Double)
			if err != nil {
				return nil, err
			}
			b, err := marshal.ReadScalar(args.At(1), "B", true, marshal.Double)
			if err != nil {
				return nil, err
			}
			return ctx.Results().Number(a + b)
		}),
		addin.Define(entities.FunctionDescriptor{Name: "Greet"},
			func(ctx addin.CallContext, _ addin.Args) (entities.Value, error) {
				return ctx.Results().Text("hello " + ctx.FunctionName())
			}),
		addin.Define(entities.FunctionDescriptor{Name: "Fail"},
			func(addin.CallContext, addin.Args) (entities.Value, error) {
				return nil, errors.New("boom")
			}),
		addin.Define(entities.FunctionDescriptor{Name: "Panic"},
			func(addin.CallContext, addin.Args) (entities.Value, error) {
				panic("oops")
			}),
		addin.Define(entities.FunctionDescriptor{
			Name:   "Keep",
			Params: []entities.ParamSpec{entities.Param("Name", "")},
		}, func(ctx addin.CallContext, args addin.Args) (entities.Value, error) {
			name, err := marshal.ReadScalar(args.At(0), "Name", true, marshal.String)
			if err != nil {
				return nil, err
			}
			handle, err := ctx.Objects().Store(name, &counted{})
			if err != nil {
				return nil, err
			}
			return ctx.Results().Text(handle)
		}),
	)
}

func load(t *testing.T, opts ...addin.Option) (*addin.AddIn, *host.Recorder) {
	t.Helper()
	rec := host.NewRecorder("cellbridge.xll")
	opts = append([]addin.Option{
		addin.WithConfig(config.New(config.WithLogging(true))),
		addin.WithBundle(sample()),
	}, opts...)
	ai, err := addin.Load(context.Background(), rec, opts...)
	require.NoError(t, err)
	require.NotNil(t, ai)
	return ai, rec
}

func TestLoad_RegistersInOrder(t *testing.T) {
	ai, rec := load(t)

	assert.Equal(t, []string{"CDS_Add", "CDS_Greet", "CDS_Fail", "CDS_Panic", "CDS_Keep"}, ai.Functions())
	assert.Len(t, rec.Registered(), 5)

	req, ok := rec.Request("CDS_Add")
	require.True(t, ok)
	assert.Equal(t, "PPP", req.Signature)
	assert.Equal(t, "A,B", req.ArgumentNames)
	assert.Equal(t, "cellbridge.xll", req.Module)
}

func TestLoad_ModuleNameFailure(t *testing.T) {
	rec := host.NewRecorder("x")
	rec.FailModule = errors.New("no module")

	ai, err := addin.Load(context.Background(), rec, addin.WithBundle(sample()))
	require.Error(t, err)
	assert.Nil(t, ai)
	assert.Equal(t, []string{registration.ModuleNameFailed}, rec.Alerts())
	assert.Empty(t, rec.Registered())
}

func TestLoad_PartialFailure(t *testing.T) {
	rec := host.NewRecorder("x")
	rec.FailRegister = map[string]error{"CDS_Greet": errors.New("rejected")}

	ai, err := addin.Load(context.Background(), rec, addin.WithBundle(sample()))
	require.Error(t, err)
	require.NotNil(t, ai)
	assert.NotContains(t, ai.Functions(), "CDS_Greet")
	assert.Contains(t, ai.Functions(), "CDS_Add")
	assert.Equal(t, []string{"CDS_Greet: register: rejected"}, rec.Alerts())
}

func TestLoad_DuplicateFunction(t *testing.T) {
	fn := addin.Define(entities.FunctionDescriptor{Name: "Twice"},
		func(addin.CallContext, addin.Args) (entities.Value, error) { return entities.Number(1), nil })

	_, err := addin.Load(context.Background(), host.NewRecorder("x"),
		addin.WithFunction(fn), addin.WithFunction(fn))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoad_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Prefix = ""

	_, err := addin.Load(context.Background(), host.NewRecorder("x"), addin.WithConfig(cfg))
	require.Error(t, err)
}

func TestCall_Success(t *testing.T) {
	ai, _ := load(t)
	ctx := context.Background()

	v := ai.Call(ctx, "CDS_Add", entities.Number(2), entities.Number(3))
	assert.Equal(t, entities.Number(5), v)
	ai.Reclaim()

	v = ai.Call(ctx, "CDS_Greet")
	assert.Equal(t, entities.Text("hello CDS_Greet"), v)
}

func TestCall_UnknownFunction(t *testing.T) {
	ai, _ := load(t)
	assert.Equal(t, entities.ErrName, ai.Call(context.Background(), "CDS_Nope"))
	assert.Equal(t, entities.ErrName, ai.Call(context.Background(), "Add"))
}

func TestCall_FailureLogsAndReturnsNA(t *testing.T) {
	ai, _ := load(t)

	v := ai.Call(context.Background(), "CDS_Fail")
	assert.Equal(t, entities.ErrNA, v)
	assert.Equal(t, []string{"CDS_Fail: boom", "CDS_Fail: Failed!"}, ai.Diagnostics().Lines())
}

func TestCall_MarshalErrorShortCircuits(t *testing.T) {
	ai, _ := load(t)

	v := ai.Call(context.Background(), "CDS_Add", entities.Number(2))
	assert.Equal(t, entities.ErrNA, v)
	lines := ai.Diagnostics().Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "CDS_Add: ")
	assert.Contains(t, lines[0], "B")
}

func TestCall_PanicBecomesNA(t *testing.T) {
	ai, _ := load(t)

	v := ai.Call(context.Background(), "CDS_Panic")
	assert.Equal(t, entities.ErrNA, v)
	lines := ai.Diagnostics().Lines()
	require.NotEmpty(t, lines)
	assert.Equal(t, "CDS_Panic: panic: oops", lines[0])
}

func TestCall_TooManyArguments(t *testing.T) {
	ai, _ := load(t)

	args := make([]entities.Value, addin.MaxCallArgs+1)
	for i := range args {
		args[i] = entities.Number(1)
	}
	assert.Equal(t, entities.ErrNA, ai.Call(context.Background(), "CDS_Add", args...))

	v, err := ai.Evaluate(context.Background(), "CDS_Add", args...)
	assert.Equal(t, entities.ErrNA, v)
	assert.EqualError(t, err, "too many arguments (30), maximum = 29")
}

func TestEvaluate_ReturnsFailure(t *testing.T) {
	ai, _ := load(t)
	ctx := context.Background()

	v, err := ai.Evaluate(ctx, "CDS_Add", entities.Number(2), entities.Number(3))
	require.NoError(t, err)
	assert.Equal(t, entities.Number(5), v)

	v, err = ai.Evaluate(ctx, "CDS_Fail")
	assert.Equal(t, entities.ErrNA, v)
	assert.EqualError(t, err, "boom")

	v, err = ai.Evaluate(ctx, "CDS_Nope")
	assert.Equal(t, entities.ErrName, v)
	assert.EqualError(t, err, `function "CDS_Nope" is not registered`)
}

func TestCall_LoggingOff(t *testing.T) {
	ai, _ := load(t, addin.WithConfig(config.New(config.WithLogging(false))))

	assert.Equal(t, entities.ErrNA, ai.Call(context.Background(), "CDS_Fail"))
	assert.Nil(t, ai.Diagnostics().Lines())
}

func TestLoad_HandlePrefix(t *testing.T) {
	ai, _ := load(t, addin.WithConfig(config.New(config.WithHandlePrefix("crv"))))

	handle, err := ai.Objects().Store("", &counted{})
	require.NoError(t, err)
	assert.Regexp(t, `^crv-[0-9a-f]{8}$`, handle)
}

func TestReclaim_AfterClone(t *testing.T) {
	ai, _ := load(t)

	v := ai.Call(context.Background(), "CDS_Greet")
	kept := entities.Clone(v)
	assert.NotContains(t, ai.ArenaStats(), "offset=0 ")

	ai.Reclaim()
	assert.Contains(t, ai.ArenaStats(), "offset=0 ")
	assert.Equal(t, entities.Text("hello CDS_Greet"), kept)
}

func TestUnload(t *testing.T) {
	ai, rec := load(t)
	ctx := context.Background()

	assert.Equal(t, entities.Text("curve"), ai.Call(ctx, "CDS_Keep", entities.Text("curve")))
	obj, err := objects.Retrieve[*counted](ai.Objects(), "curve")
	require.NoError(t, err)

	require.NoError(t, ai.Unload(ctx))
	assert.Empty(t, rec.Registered())
	assert.Equal(t, 1, obj.released)

	_, err = ai.Objects().Retrieve("curve")
	assert.Error(t, err)
	assert.Equal(t, entities.ErrName, ai.Call(ctx, "CDS_Add", entities.Number(1), entities.Number(2)))

	// second unload is a no-op
	require.NoError(t, ai.Unload(ctx))
	assert.Equal(t, 1, obj.released)
}

func TestAddedRemovedAlerts(t *testing.T) {
	ai, rec := load(t)
	ctx := context.Background()

	ai.Added(ctx)
	ai.Removed(ctx)
	assert.Equal(t, []string{
		"CDS analytics add-in has been loaded",
		"CDS analytics add-in has been removed",
	}, rec.Alerts())
}

func TestManagerInfo(t *testing.T) {
	ai, _ := load(t)

	assert.Equal(t, entities.Text("CDS analytics"), ai.ManagerInfo(entities.Number(1)))
	assert.Equal(t, entities.ErrValue, ai.ManagerInfo(entities.Number(2)))
	assert.Equal(t, entities.ErrValue, ai.ManagerInfo(entities.Text("x")))
	assert.Equal(t, entities.ErrValue, ai.ManagerInfo(entities.Missing{}))
}

func TestWithMiddleware_Order(t *testing.T) {
	var order []string
	trace := func(name string) addin.Middleware {
		return func(next addin.EntryPoint) addin.EntryPoint {
			return func(ctx addin.CallContext, args addin.Args) (entities.Value, error) {
				order = append(order, name+"-before")
				v, err := next(ctx, args)
				order = append(order, name+"-after")
				return v, err
			}
		}
	}
	ai, _ := load(t, addin.WithMiddleware(trace("mw1"), trace("mw2")))

	ai.Call(context.Background(), "CDS_Greet")
	assert.Equal(t, []string{"mw1-before", "mw2-before", "mw2-after", "mw1-after"}, order)
}
