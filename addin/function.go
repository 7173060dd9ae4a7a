package addin

import (
	"fmt"

	"github.com/cdsmodel/cellbridge/domain/entities"
	"github.com/cdsmodel/cellbridge/registration"
)

// MaxCallArgs is the most arguments a single call can carry; the host's
// arity limit includes the return slot.
const MaxCallArgs = registration.MaxArgs - 1

// Args holds the positional arguments of one call. Its length never exceeds
// MaxCallArgs; positions the host left off read as Missing.
type Args struct {
	vals [MaxCallArgs]entities.Value
	n    int
}

// NewArgs copies vals into a bounded argument list.
func NewArgs(vals ...entities.Value) (Args, error) {
	var a Args
	if len(vals) > MaxCallArgs {
		return a, fmt.Errorf("too many arguments (%d), maximum = %d", len(vals), MaxCallArgs)
	}
	a.n = copy(a.vals[:], vals)
	return a, nil
}

// Len returns the number of arguments supplied.
func (a Args) Len() int {
	return a.n
}

// At returns argument i, or Missing when it was not supplied.
func (a Args) At(i int) entities.Value {
	if i < 0 || i >= a.n || a.vals[i] == nil {
		return entities.Missing{}
	}
	return a.vals[i]
}

// EntryPoint is the body of one add-in function. It returns the value for
// the calling cell or an error, which the adapter turns into #N/A.
type EntryPoint func(ctx CallContext, args Args) (entities.Value, error)

// Function pairs a descriptor with the code that implements it.
type Function struct {
	Descriptor entities.FunctionDescriptor
	Entry      EntryPoint
}

// Define is shorthand for building a Function.
func Define(d entities.FunctionDescriptor, entry EntryPoint) Function {
	return Function{Descriptor: d, Entry: entry}
}

// Bundle is a pre-configured, ordered set of related functions.
type Bundle interface {
	Functions() []Function
}

type staticBundle []Function

func (b staticBundle) Functions() []Function {
	return b
}

// NewBundle groups fns in registration order.
func NewBundle(fns ...Function) Bundle {
	return staticBundle(fns)
}

// compositeBundle combines multiple bundles into one.
type compositeBundle []Bundle

func (c compositeBundle) Functions() []Function {
	var out []Function
	for _, b := range c {
		out = append(out, b.Functions()...)
	}
	return out
}

// Combine concatenates bundles, keeping their order.
func Combine(bundles ...Bundle) Bundle {
	return compositeBundle(bundles)
}
