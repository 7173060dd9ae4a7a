package addin

import (
	"fmt"
	"sort"

	"github.com/cdsmodel/cellbridge/domain/entities"
)

// FunctionTable is an immutable collection of add-in functions. Once
// created via NewTable, functions cannot be added or removed, so lookups
// during calls need no locking.
type FunctionTable struct {
	functions  map[string]Function
	order      []string // registration order
	middleware []Middleware
}

// NewTable creates a FunctionTable from fns, wrapping every entry point in
// middleware. Middleware executes in FIFO order (first listed wraps
// outermost). Returns an error if a name is registered twice or an entry
// point is nil.
func NewTable(fns []Function, middleware ...Middleware) (*FunctionTable, error) {
	t := &FunctionTable{
		functions:  make(map[string]Function, len(fns)),
		middleware: middleware,
	}
	for _, fn := range fns {
		if err := t.add(fn); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *FunctionTable) add(fn Function) error {
	name := fn.Descriptor.Name
	if name == "" {
		return fmt.Errorf("function name cannot be empty")
	}
	if fn.Entry == nil {
		return fmt.Errorf("function %q has no entry point", name)
	}
	if _, exists := t.functions[name]; exists {
		return fmt.Errorf("duplicate function name: %q", name)
	}

	// Apply middleware in reverse order so first middleware wraps outermost
	wrapped := fn.Entry
	for i := len(t.middleware) - 1; i >= 0; i-- {
		wrapped = t.middleware[i](wrapped)
	}
	fn.Entry = wrapped

	t.functions[name] = fn
	t.order = append(t.order, name)
	return nil
}

// Lookup returns the function registered under its undecorated name.
func (t *FunctionTable) Lookup(name string) (Function, bool) {
	fn, ok := t.functions[name]
	return fn, ok
}

// Has returns true if a function with the given name is registered.
func (t *FunctionTable) Has(name string) bool {
	_, ok := t.functions[name]
	return ok
}

// Descriptors returns the descriptors in registration order.
func (t *FunctionTable) Descriptors() []entities.FunctionDescriptor {
	out := make([]entities.FunctionDescriptor, len(t.order))
	for i, name := range t.order {
		out[i] = t.functions[name].Descriptor
	}
	return out
}

// Names returns a sorted list of all function names.
func (t *FunctionTable) Names() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	sort.Strings(names)
	return names
}

// Len returns the number of functions.
func (t *FunctionTable) Len() int {
	return len(t.order)
}
