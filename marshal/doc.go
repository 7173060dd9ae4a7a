// Package marshal converts between host values and typed inputs and outputs
// of the analytics.
//
// Readers validate one parameter at a time and report the first problem as a
// typed error from domain/errors. The Composer builds return values, charging
// every cell to the call's transient arena.
package marshal
