// Package analytics is the numerical engine the add-in calls into: calendar
// dates and tenors, day counts, bad-day conventions, holiday calendars, zero
// and clean-spread curves, CDS pricing and fee-leg cash flows.
//
// Every function here is pure with respect to its inputs. Failures are
// returned as errors; the caller decides how to report them.
package analytics
