package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdsmodel/cellbridge/wireformat"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootInvalidFormat(t *testing.T) {
	_, err := execute(t, "", "register", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRegisterText(t *testing.T) {
	out, err := execute(t, "", "register")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 17)
	assert.True(t, strings.HasPrefix(lines[0], `register "cellbridge.xll" "CDS_Version" "P" "CDS_Version"`), lines[0])
	assert.Contains(t, lines[16], `"CDS_FeeLegFlows"`)
}

func TestRegisterJSON(t *testing.T) {
	out, err := execute(t, "", "register", "--format", "json")
	require.NoError(t, err)

	var reg wireformat.RegistrationWire
	require.NoError(t, json.Unmarshal([]byte(out), &reg))
	assert.Equal(t, "cellbridge.xll", reg.Module)
	require.Len(t, reg.Functions, 17)
	assert.Equal(t, "CDS_IRZeroCurveBuild", reg.Functions[7].DisplayName)
	assert.Empty(t, reg.Alerts)
}

func TestRegisterWithConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cellbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prefix: ISDA\n"), 0o600))

	out, err := execute(t, "", "register", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"ISDA_Version"`)

	require.NoError(t, os.WriteFile(path, []byte("prefix: not-valid\n"), 0o600))
	_, err = execute(t, "", "register", "--config", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

const script = `
- function: CDS_IRZeroCurveMake
  args: [39450, ["1Y", "5Y"], [0.05, 0.05], 5000, null, ZC]
- function: CDS_DiscountFactor
  args: [ZC, 39450]
- function: CDS_DatesAndRates
  args: [ZC]
`

func TestCallText(t *testing.T) {
	out, err := execute(t, script, "call", "-")
	require.NoError(t, err)

	assert.Equal(t, []string{
		`CDS_IRZeroCurveMake = "ZC"`,
		`CDS_DiscountFactor = 1`,
		`CDS_DatesAndRates = 2x2 [39816, 0.05] [41277, 0.05]`,
	}, strings.Split(strings.TrimSpace(out), "\n"))
}

func TestCallVerboseLogsEachCall(t *testing.T) {
	stderr := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(script))
	cmd.SetArgs([]string{"call", "-", "--verbose"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, 3, strings.Count(stderr.String(), "call completed"))
	assert.Contains(t, stderr.String(), "function=CDS_DiscountFactor")
}

func TestCallJSON_Failure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- function: CDS_Version
- function: CDS_DiscountFactor
  args: [NOPE, 39450]
`), 0o600))

	out, err := execute(t, "", "call", path, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resps []wireformat.CallResponseWire
	require.NoError(t, json.Unmarshal([]byte(out), &resps))
	require.Len(t, resps, 2)
	assert.Nil(t, resps[0].Error)

	require.NotNil(t, resps[1].Error)
	assert.True(t, resps[1].Error.IsNotFound)
	assert.Equal(t, []string{
		`CDS_DiscountFactor: Curve: object "NOPE" not found`,
		"CDS_DiscountFactor: Failed!",
	}, resps[1].Log)
}

func TestCallBadScript(t *testing.T) {
	_, err := execute(t, "- function: [", "call", "-")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "", "call", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDemo(t *testing.T) {
	out, err := execute(t, "", "demo")
	require.NoError(t, err)

	assert.Contains(t, out, "CDS Standard Model Version 1.7.0")
	assert.Contains(t, out, "Discount factor on 3rd Jan 08 = 1\n")
	assert.Contains(t, out, "Upfront charge @ cpn = 3600bps = ")
	assert.Contains(t, out, "Error log contains:")
}

func TestSchema(t *testing.T) {
	out, err := execute(t, "", "schema")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
	assert.Contains(t, out, "arena_capacity")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("x")))
	assert.Equal(t, ExitCommandError, GetExitCode(&ExitError{Code: ExitCommandError, Err: errors.New("x")}))
}
