package ports

// DiagnosticLog is the bounded message record users can inspect from cells.
type DiagnosticLog interface {
	// Append records one line.
	Append(line string)

	// Lines returns the recorded lines, oldest first. It returns nil when
	// recording is off.
	Lines() []string

	Enabled() bool
	SetEnabled(on bool)

	// Filename is the file mirror path, empty when there is none.
	Filename() string

	// SetFilename starts mirroring to path, truncating it unless appendTo
	// is set.
	SetFilename(path string, appendTo bool) error
}
