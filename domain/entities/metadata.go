package entities

import (
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ParamSpec describes one positional argument of an add-in function.
// Order within FunctionDescriptor.Params is significant and fixed.
type ParamSpec struct {
	// Name is the display label shown by the host's function wizard.
	Name string `json:"name" yaml:"name" validate:"required,max=255"`

	// Description is optional help text; empty means undocumented.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Optional marks arguments the caller may leave missing.
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// FunctionDescriptor is the declarative definition of an add-in function.
type FunctionDescriptor struct {
	// Name is the undecorated function name, e.g. "DiscountFactor".
	Name string `json:"name" yaml:"name" validate:"required,max=255"`

	// Description is the function-level help text.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Category groups functions in the host's wizard. Empty means the
	// add-in default category.
	Category string `json:"category,omitempty" yaml:"category,omitempty" validate:"max=255"`

	// Params lists the inputs in call order.
	Params []ParamSpec `json:"params,omitempty" yaml:"params,omitempty" validate:"dive"`
}

// Param describes a single parameter by name and description.
func Param(name, description string) ParamSpec {
	return ParamSpec{Name: name, Description: description}
}

// OptionalParam describes a parameter the caller may omit.
func OptionalParam(name, description string) ParamSpec {
	return ParamSpec{Name: name, Description: description, Optional: true}
}

// Arity returns the number of inputs.
func (d FunctionDescriptor) Arity() int {
	return len(d.Params)
}

// ParamName returns the display name of the i-th parameter, or "arg<i+1>"
// when i is out of range.
func (d FunctionDescriptor) ParamName(i int) string {
	if i >= 0 && i < len(d.Params) {
		return d.Params[i].Name
	}
	return "arg" + strconv.Itoa(i+1)
}

// Validate checks the descriptor's struct tags: a name is required and no
// name may exceed the host's string limit.
func (d FunctionDescriptor) Validate() error {
	return validate.Struct(d)
}
