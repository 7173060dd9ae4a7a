// Package host is the spreadsheet side of the add-in boundary.
//
// Recorder is an in-memory host that keeps a transcript of the register,
// unregister and alert callbacks an add-in makes. Executor loads an add-in
// against a Recorder and calls its functions the way a spreadsheet does:
// each result is copied out before the add-in's transient memory is
// reclaimed, so values returned by Executor stay valid.
package host
