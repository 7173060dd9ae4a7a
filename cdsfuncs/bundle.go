// Package cdsfuncs is the worksheet function table of the CDS analytics
// add-in.
//
// Each function is a descriptor, naming its parameters for the host's
// function wizard, and an entry point that reads the arguments in order,
// calls the analytics and composes the result. Curves are kept in the
// object registry and travel between cells as their handle.
package cdsfuncs

import (
	"github.com/cdsmodel/cellbridge/addin"
	"github.com/cdsmodel/cellbridge/domain/entities"
)

// AllBundles returns every function in registration order.
func AllBundles() addin.Bundle {
	return addin.Combine(
		DiagnosticsBundle(),
		CalendarBundle(),
		CurvesBundle(),
		PricingBundle(),
	)
}

// Descriptors lists the descriptors of AllBundles in registration order.
func Descriptors() []entities.FunctionDescriptor {
	fns := AllBundles().Functions()
	out := make([]entities.FunctionDescriptor, len(fns))
	for i, fn := range fns {
		out[i] = fn.Descriptor
	}
	return out
}
