// Package arena provides the call-scoped bump allocator that backs every value
// handed to the host.
//
// Allocations are never freed individually. The host's call boundary is the
// single point at which everything produced for one call becomes garbage, so
// Reset reclaims the whole block at once. Memory returned by Allocate or
// CopyString is valid only until the next Reset.
package arena

import (
	"fmt"
	"unsafe"

	"github.com/cdsmodel/cellbridge/domain/errors"
)

// DefaultCapacity is the size of the block used when none is configured.
const DefaultCapacity = 10240

// Alignment is the minimum alignment of every allocation; odd offsets are
// rounded up after each allocation.
const Alignment = 2

// Arena is a fixed-capacity bump allocator. It is not safe for concurrent use;
// the add-in assumes a single-threaded, non-reentrant host.
type Arena struct {
	buf         []byte
	offset      int
	peak        int
	allocations int
}

// New creates an Arena with the given capacity in bytes. Capacity is rounded
// down to a multiple of Alignment; non-positive values select DefaultCapacity.
func New(capacity int) *Arena {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	capacity -= capacity % Alignment
	return &Arena{buf: make([]byte, capacity)}
}

// Allocate reserves size bytes and returns them zeroed. The returned slice has
// its capacity clipped so appends cannot spill into the next allocation.
// When the request does not fit, Allocate returns *errors.ExhaustedError and
// leaves the arena untouched.
func (a *Arena) Allocate(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("arena: negative allocation size %d", size)
	}
	if size == 0 {
		return nil, nil
	}
	if a.offset+size > len(a.buf) {
		return nil, &errors.ExhaustedError{
			Requested: size,
			Offset:    a.offset,
			Capacity:  len(a.buf),
		}
	}

	start := a.offset
	block := a.buf[start : start+size : start+size]
	clear(block)

	a.offset += size
	if a.offset%Alignment != 0 {
		a.offset += Alignment - a.offset%Alignment
	}
	if a.offset > a.peak {
		a.peak = a.offset
	}
	a.allocations++
	return block, nil
}

// CopyString copies s into the arena and returns a string that aliases the
// arena block. The result must not be retained past the next Reset.
func (a *Arena) CopyString(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	block, err := a.Allocate(len(s))
	if err != nil {
		return "", err
	}
	copy(block, s)
	//nolint:gosec // G103: the string aliases the arena block until Reset
	return unsafe.String(unsafe.SliceData(block), len(block)), nil
}

// Reset reclaims every allocation made since the previous Reset.
func (a *Arena) Reset() {
	a.offset = 0
	a.allocations = 0
}

// Offset returns the next free byte.
func (a *Arena) Offset() int {
	return a.offset
}

// Capacity returns the fixed size of the block.
func (a *Arena) Capacity() int {
	return len(a.buf)
}

// Remaining returns the number of bytes still available.
func (a *Arena) Remaining() int {
	return len(a.buf) - a.offset
}

// Allocations returns the number of successful allocations since the last Reset.
func (a *Arena) Allocations() int {
	return a.allocations
}

// Peak returns the highest offset reached over the arena's lifetime.
func (a *Arena) Peak() int {
	return a.peak
}
