package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFunctionDescriptor(t *testing.T) {
	d := FunctionDescriptor{
		Name: "DiscountFactor",
		Params: []ParamSpec{
			Param("Curve", "Discount curve"),
			OptionalParam("Date", ""),
		},
	}
	assert.Equal(t, 2, d.Arity())
	assert.Equal(t, "Curve", d.ParamName(0))
	assert.True(t, d.Params[1].Optional)
	assert.Equal(t, "arg3", d.ParamName(2))
	assert.NoError(t, d.Validate())
}

func TestFunctionDescriptor_Validate(t *testing.T) {
	long := strings.Repeat("x", 256)

	assert.Error(t, FunctionDescriptor{}.Validate())
	assert.Error(t, FunctionDescriptor{Name: long}.Validate())
	assert.Error(t, FunctionDescriptor{Name: "F", Params: []ParamSpec{{Name: long}}}.Validate())
	assert.Error(t, FunctionDescriptor{Name: "F", Category: long}.Validate())
	assert.NoError(t, FunctionDescriptor{Name: "F", Description: long}.Validate())
}

func TestRegistrationRequest_Operands(t *testing.T) {
	req := RegistrationRequest{
		Module:        "cds.xll",
		DisplayName:   "CDS_Version",
		Signature:     "P",
		EntryPoint:    "CDS_Version",
		ArgumentNames: "",
		Version:       " 1",
		Category:      "CDS",
		Shortcut:      " ",
		HelpTopic:     " ",
		Description:   "Get library version. ",
		ArgumentHelp:  []string{"a", "b"},
	}
	ops := req.Operands()
	assert.Len(t, ops, 12)
	assert.Equal(t, "cds.xll", ops[0])
	assert.Equal(t, "Get library version. ", ops[9])
	assert.Equal(t, []string{"a", "b"}, ops[10:])
}

func TestErrorDetail_Error(t *testing.T) {
	err := NewErrorDetail("marshal", "Rates parameter is required").WithCode("missing_required")
	assert.Equal(t, "marshal: Rates parameter is required [missing_required]", err.Error())

	internal := NewErrorDetail("internal", "boom")
	assert.Equal(t, "boom", internal.Error())

	var nilErr *ErrorDetail
	assert.Equal(t, "", nilErr.Error())
}

func TestErrorDetail_Builders(t *testing.T) {
	details := map[string]any{"param": "Rates"}
	err := NewErrorDetail("marshal", "bad").WithDetails(details).WithFunction("CDS_ParSpreads")

	assert.Equal(t, details, err.Details)
	assert.Equal(t, "CDS_ParSpreads", err.Function)

	outer := NewErrorDetail("engine", "failed")
	outer.Wrapped = NewErrorDetail("internal", "root cause")
	assert.Equal(t, "engine: failed: root cause", outer.Error())
}
