// Package objects keeps native results alive between spreadsheet calls.
//
// A cell can only hold a string, so every object the analytics hand back is
// stored here under a name, and the name is what the cell receives. Later
// calls pass the name back and the registry resolves it. Objects live until
// they are replaced or the add-in unloads.
package objects

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	domainerrors "github.com/cdsmodel/cellbridge/domain/errors"
	"github.com/cdsmodel/cellbridge/domain/ports"
)

// ErrFull is wrapped by the AllocationError returned when the registry is
// at capacity.
var ErrFull = errors.New("object registry is full")

// Releaser is implemented by objects that hold resources beyond memory.
type Releaser interface {
	Release()
}

// Kinder lets an object name its own kind tag.
type Kinder interface {
	Kind() string
}

// Entry is one stored object.
type Entry struct {
	Name   string
	Kind   string
	Object any
}

// registryConfig holds configuration for the Registry.
type registryConfig struct {
	capacity   int // 0 means unbounded
	namePrefix string
}

func defaultRegistryConfig() registryConfig {
	return registryConfig{namePrefix: "obj"}
}

// Option configures a Registry instance.
type Option func(*registryConfig)

// WithCapacity bounds the number of live objects. Zero means unbounded.
func WithCapacity(n int) Option {
	return func(c *registryConfig) {
		if n >= 0 {
			c.capacity = n
		}
	}
}

// WithNamePrefix sets the prefix of generated names.
func WithNamePrefix(prefix string) Option {
	return func(c *registryConfig) {
		if prefix != "" {
			c.namePrefix = prefix
		}
	}
}

// Registry maps names to objects.
type Registry struct {
	config  registryConfig
	mu      sync.Mutex
	entries map[string]*Entry
}

var _ ports.ObjectStore = (*Registry)(nil)

// New creates an empty registry.
func New(opts ...Option) *Registry {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{config: cfg, entries: make(map[string]*Entry)}
}

// Store saves obj under name and returns the handle, which is the name.
// An empty name is replaced by a generated unique one. Storing under a name
// already in use releases the previous object first.
func (r *Registry) Store(name string, obj any) (string, error) {
	if obj == nil {
		return "", &domainerrors.AllocationError{Name: name, Err: errors.New("nil object")}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		name = r.generateName()
	}
	if old, ok := r.entries[name]; ok {
		release(old.Object)
	} else if r.config.capacity > 0 && len(r.entries) >= r.config.capacity {
		return "", &domainerrors.AllocationError{Name: name, Err: ErrFull}
	}
	r.entries[name] = &Entry{Name: name, Kind: kindOf(obj), Object: obj}
	return name, nil
}

// Retrieve returns the object stored under handle. Every caller shares the
// same object.
func (r *Registry) Retrieve(handle string) (any, error) {
	e, err := r.Lookup(handle)
	if err != nil {
		return nil, err
	}
	return e.Object, nil
}

// Lookup returns a copy of the entry stored under handle.
func (r *Registry) Lookup(handle string) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[handle]
	if !ok {
		return Entry{}, &domainerrors.NotFoundError{Handle: handle}
	}
	return *e, nil
}

// Retrieve fetches handle from store and asserts its type.
func Retrieve[T any](store ports.ObjectStore, handle string) (T, error) {
	var zero T
	obj, err := store.Retrieve(handle)
	if err != nil {
		return zero, err
	}
	v, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("object %q is a %s, not a %T", handle, kindOf(obj), zero)
	}
	return v, nil
}

// ReleaseAll releases every object and empties the registry.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, e := range r.entries {
		release(e.Object)
		delete(r.entries, name)
	}
}

// Len returns the number of live objects.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// generateName must be called with mu held.
func (r *Registry) generateName() string {
	for {
		name := r.config.namePrefix + "-" + uuid.NewString()[:8]
		if _, taken := r.entries[name]; !taken {
			return name
		}
	}
}

func release(obj any) {
	switch o := obj.(type) {
	case Releaser:
		o.Release()
	case io.Closer:
		_ = o.Close()
	}
}

func kindOf(obj any) string {
	if k, ok := obj.(Kinder); ok {
		return k.Kind()
	}
	return fmt.Sprintf("%T", obj)
}
