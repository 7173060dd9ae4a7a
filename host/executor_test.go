package host_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/cdsmodel/cellbridge/addin"
	"github.com/cdsmodel/cellbridge/application/config"
	"github.com/cdsmodel/cellbridge/cdsfuncs"
	"github.com/cdsmodel/cellbridge/domain/entities"
	"github.com/cdsmodel/cellbridge/host"
	"github.com/cdsmodel/cellbridge/wireformat"
)

// ExecutorSuite drives the CDS function table through an Executor.
type ExecutorSuite struct {
	suite.Suite
	ctx  context.Context
	exec *host.Executor
}

func (s *ExecutorSuite) SetupTest() {
	s.ctx = context.Background()
	exec, err := host.NewExecutor(s.ctx,
		host.WithConfig(config.New(config.WithLogging(true))),
		host.WithAddInOptions(addin.WithBundle(cdsfuncs.AllBundles())),
	)
	s.Require().NoError(err)
	s.exec = exec
}

func (s *ExecutorSuite) TearDownTest() {
	s.NoError(s.exec.Close(s.ctx))
}

func (s *ExecutorSuite) TestRegistersEveryFunction() {
	s.Len(s.exec.Recorder().Registered(), 17)
	s.Equal(host.DefaultModule, s.exec.Recorder().Calls()[0].Operands[0])
}

func (s *ExecutorSuite) TestCall_ResultOutlivesReclaim() {
	v := s.exec.Call(s.ctx, "CDS_Version")
	s.Equal(entities.Text("CDS Standard Model Version 1.7.0"), v)

	// The next call reuses the arena; the first result must be unaffected.
	s.exec.Call(s.ctx, "CDS_ErrorLogContents")
	s.Equal(entities.Text("CDS Standard Model Version 1.7.0"), v)
	s.Contains(s.exec.AddIn().ArenaStats(), "offset=0 ")
}

func (s *ExecutorSuite) TestCallWire_Success() {
	resp := s.exec.CallWire(s.ctx, wireformat.CallRequestWire{
		Function: "CDS_IRZeroCurveMake",
		Args: []wireformat.Cell{
			{Value: entities.Number(39450)},
			{Value: entities.Column(entities.Text("1Y"))},
			{Value: entities.Column(entities.Number(0.05))},
			{Value: entities.Number(5000)},
			{},
			{Value: entities.Text("ZC")},
		},
	})
	s.Equal(entities.Text("ZC"), resp.Result.Value)
	s.Nil(resp.Error)
	s.Empty(resp.Log)
}

func (s *ExecutorSuite) TestCallWire_FailureDetail() {
	resp := s.exec.CallWire(s.ctx, wireformat.CallRequestWire{
		Function: "CDS_DiscountFactor",
		Args:     []wireformat.Cell{{}, {Value: entities.Number(39450)}},
	})
	s.Equal(entities.ErrNA, resp.Result.Value)
	s.Require().NotNil(resp.Error)
	s.Equal("missing_required", resp.Error.Code)
	s.Equal([]string{
		"CDS_DiscountFactor: Curve parameter is required",
		"CDS_DiscountFactor: Failed!",
	}, resp.Log)

	// A later successful call does not inherit the failure.
	resp = s.exec.CallWire(s.ctx, wireformat.CallRequestWire{Function: "CDS_Version"})
	s.Nil(resp.Error)
	s.Empty(resp.Log)
}

func (s *ExecutorSuite) TestCallWire_UnknownFunction() {
	resp := s.exec.CallWire(s.ctx, wireformat.CallRequestWire{Function: "CDS_Nope"})
	s.Equal(entities.ErrName, resp.Result.Value)
	s.Require().NotNil(resp.Error)
	s.Contains(resp.Error.Message, "CDS_Nope")
}

func (s *ExecutorSuite) TestCallWire_TooManyArguments() {
	args := make([]wireformat.Cell, addin.MaxCallArgs+1)
	for i := range args {
		args[i] = wireformat.Cell{Value: entities.Number(1)}
	}
	resp := s.exec.CallWire(s.ctx, wireformat.CallRequestWire{Function: "CDS_Version", Args: args})
	s.Equal(entities.ErrNA, resp.Result.Value)
	s.Require().NotNil(resp.Error)
	s.Equal("too many arguments (30), maximum = 29", resp.Error.Message)
	s.Equal([]string{
		"CDS_Version: too many arguments (30), maximum = 29",
		"CDS_Version: Failed!",
	}, resp.Log)
}

func (s *ExecutorSuite) TestInstallUninstall() {
	s.exec.Install(s.ctx)
	s.Require().NoError(s.exec.Uninstall(s.ctx))

	s.Equal([]string{
		"CDS analytics add-in has been loaded",
		"CDS analytics add-in has been removed",
	}, s.exec.Recorder().Alerts())
	s.Empty(s.exec.Recorder().Registered())
	s.Equal(entities.ErrName, s.exec.Call(s.ctx, "CDS_Version"))
}

func TestExecutorSuite(t *testing.T) {
	suite.Run(t, new(ExecutorSuite))
}

func TestNewExecutor_NothingRegistered(t *testing.T) {
	rec := host.NewRecorder("cellbridge.xll")
	rec.FailModule = errors.New("no module")

	exec, err := host.NewExecutor(context.Background(),
		host.WithRecorder(rec),
		host.WithAddInOptions(addin.WithBundle(cdsfuncs.DiagnosticsBundle())),
	)
	require.Error(t, err)
	assert.Nil(t, exec)
	assert.Equal(t, []string{"Get add-in module name failed"}, rec.Alerts())
}

func TestNewExecutor_PartialRegistration(t *testing.T) {
	rec := host.NewRecorder("cellbridge.xll")
	rec.FailRegister = map[string]error{"CDS_Version": errors.New("rejected")}

	exec, err := host.NewExecutor(context.Background(),
		host.WithRecorder(rec),
		host.WithAddInOptions(addin.WithBundle(cdsfuncs.DiagnosticsBundle())),
	)
	require.Error(t, err)
	require.NotNil(t, exec)
	t.Cleanup(func() { _ = exec.Close(context.Background()) })

	assert.Len(t, rec.Registered(), 5)
	assert.Equal(t, entities.ErrName, exec.Call(context.Background(), "CDS_Version"))
	assert.Equal(t, entities.Number(0), exec.Call(context.Background(), "CDS_ErrorLogStatus"))
}

func TestExecutor_PanicIsReported(t *testing.T) {
	ctx := context.Background()
	boom := addin.Define(entities.FunctionDescriptor{Name: "Boom"},
		func(addin.CallContext, addin.Args) (entities.Value, error) {
			panic("boom")
		})

	exec, err := host.NewExecutor(ctx, host.WithAddInOptions(addin.WithFunction(boom)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = exec.Close(ctx) })

	resp := exec.CallWire(ctx, wireformat.CallRequestWire{Function: "CDS_Boom"})
	assert.Equal(t, entities.ErrNA, resp.Result.Value)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "panic: boom", resp.Error.Message)
}
