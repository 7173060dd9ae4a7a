package wireformat_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cdsmodel/cellbridge/domain/entities"
	"github.com/cdsmodel/cellbridge/wireformat"
)

func TestEncodeValue(t *testing.T) {
	grid, err := entities.NewArray(2, 2, []entities.Value{
		entities.Number(39450), entities.Number(0.05),
		entities.Text("x"), entities.ErrNA,
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   entities.Value
		want string
	}{
		{"number", entities.Number(1.5), `1.5`},
		{"text", entities.Text("ZC"), `"ZC"`},
		{"boolean", entities.Boolean(true), `true`},
		{"missing", entities.Missing{}, `null`},
		{"error", entities.ErrDiv0, `{"error":"#DIV/0!"}`},
		{"grid", grid, `[[39450,0.05],["x",{"error":"#N/A"}]]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wireformat.EncodeValue(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))

			back, err := wireformat.DecodeValue(got)
			require.NoError(t, err)
			assert.Equal(t, tt.in, back)
		})
	}
}

func TestEncodeValue_NotFinite(t *testing.T) {
	_, err := wireformat.EncodeValue(entities.Number(math.Inf(1)))
	assert.Error(t, err)
}

func TestDecodeValue_FlatListIsColumn(t *testing.T) {
	v, err := wireformat.DecodeValue([]byte(`["1M", "2M", null]`))
	require.NoError(t, err)
	assert.Equal(t, entities.Column(entities.Text("1M"), entities.Text("2M"), entities.Missing{}), v)

	v, err = wireformat.DecodeValue([]byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, entities.Array{}, v)
}

func TestDecodeValue_Invalid(t *testing.T) {
	tests := map[string]string{
		"ragged":        `[[1, 2], [3]]`,
		"nested":        `[1, [2]]`,
		"mixed rows":    `[[1], 2]`,
		"unknown error": `{"error": "#BOGUS"}`,
		"extra keys":    `{"error": "#N/A", "x": 1}`,
		"plain object":  `{"a": 1}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := wireformat.DecodeValue([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestCallRequestWire_YAML(t *testing.T) {
	src := `
- function: CDS_IRZeroCurveMake
  args:
    - 39450
    - ["1Y", "5Y"]
    - [0.05, 0.05]
    - 5000
    -
    - ZC
- function: CDS_DiscountFactor
  args: [ZC, "1Y"]
- function: CDS_ManagerInfo
  args: [{error: "#N/A"}, true]
`
	var calls []wireformat.CallRequestWire
	require.NoError(t, yaml.Unmarshal([]byte(src), &calls))
	require.Len(t, calls, 3)

	first := calls[0].Values()
	require.Len(t, first, 6)
	assert.Equal(t, entities.Number(39450), first[0])
	assert.Equal(t, entities.Column(entities.Text("1Y"), entities.Text("5Y")), first[1])
	assert.Equal(t, entities.Column(entities.Number(0.05), entities.Number(0.05)), first[2])
	assert.Equal(t, entities.Missing{}, first[4])
	assert.Equal(t, entities.Text("ZC"), first[5])

	assert.Equal(t, []entities.Value{entities.Text("ZC"), entities.Text("1Y")}, calls[1].Values())
	assert.Equal(t, []entities.Value{entities.ErrNA, entities.Boolean(true)}, calls[2].Values())
}

func TestCallRequestWire_MissingKeepsPosition(t *testing.T) {
	want := []entities.Value{entities.Number(1), entities.Missing{}, entities.Number(3), entities.Missing{}}

	tests := map[string]string{
		"flow null":  "function: F\nargs: [1, null, 3, ~]",
		"block null": "function: F\nargs:\n  - 1\n  -\n  - 3\n  - ~\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			var c wireformat.CallRequestWire
			require.NoError(t, yaml.Unmarshal([]byte(src), &c))
			assert.Equal(t, "F", c.Function)
			assert.Equal(t, want, c.Values())
		})
	}

	t.Run("json null", func(t *testing.T) {
		var c wireformat.CallRequestWire
		require.NoError(t, wireformat.Decode([]byte(`{"function":"F","args":[1,null,3,null]}`), &c))
		assert.Equal(t, want, c.Values())
	})

	t.Run("bad argument", func(t *testing.T) {
		var c wireformat.CallRequestWire
		err := yaml.Unmarshal([]byte("function: F\nargs: [1, {error: \"#BAD\"}]"), &c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "args[1]")
	})
}

func TestCallResponseWire_Encode(t *testing.T) {
	resp := wireformat.CallResponseWire{
		Function: "CDS_DiscountFactor",
		Result:   wireformat.Cell{Value: entities.ErrNA},
		Error:    &entities.ErrorDetail{Message: "Curve parameter is required", Type: "marshal", Code: "missing_required"},
		Log:      []string{"CDS_DiscountFactor: Curve parameter is required", "CDS_DiscountFactor: Failed!"},
	}
	data, err := wireformat.Encode(resp)
	require.NoError(t, err)

	var back wireformat.CallResponseWire
	require.NoError(t, wireformat.Decode(data, &back))
	assert.Equal(t, resp, back)
}

func TestRegistrationWire_Encode(t *testing.T) {
	reg := wireformat.RegistrationWire{
		Module: "cellbridge.xll",
		Functions: []entities.RegistrationRequest{{
			Module:        "cellbridge.xll",
			DisplayName:   "CDS_Version",
			Signature:     "P",
			EntryPoint:    "CDS_Version",
			ArgumentNames: " ",
			Version:       " 1",
			Category:      "CDS",
			Shortcut:      " ",
			HelpTopic:     " ",
			Description:   "Get library version. ",
		}},
	}
	data, err := wireformat.Encode(reg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"displayName": "CDS_Version"`)

	var back wireformat.RegistrationWire
	require.NoError(t, wireformat.Decode(data, &back))
	assert.Equal(t, reg, back)
}
