package entities

// RegistrationRequest is the record sent to the host to make one function
// callable. Field order matches the host's register call.
type RegistrationRequest struct {
	// Module identifies the loaded add-in file.
	Module string `json:"module"`

	// DisplayName is the name users type in a cell, e.g. "CDS_Version".
	DisplayName string `json:"displayName"`

	// Signature has one type marker for the return value followed by one per
	// argument.
	Signature string `json:"signature"`

	// EntryPoint is the exported procedure the host calls.
	EntryPoint string `json:"entryPoint"`

	// ArgumentNames is the comma-joined list of argument labels.
	ArgumentNames string `json:"argumentNames"`

	// Version is the macro type marker; " 1" registers a worksheet function.
	Version string `json:"version"`

	Category string `json:"category"`

	// Shortcut and HelpTopic are reserved by the host and always blank.
	Shortcut  string `json:"shortcut"`
	HelpTopic string `json:"helpTopic"`

	Description string `json:"description"`

	// ArgumentHelp holds the per-argument descriptions the host displays.
	ArgumentHelp []string `json:"argumentHelp,omitempty"`
}

// Operands flattens the request into the ordered operand list of the host
// register call.
func (r RegistrationRequest) Operands() []string {
	ops := make([]string, 0, 10+len(r.ArgumentHelp))
	ops = append(ops,
		r.Module,
		r.DisplayName,
		r.Signature,
		r.EntryPoint,
		r.ArgumentNames,
		r.Version,
		r.Category,
		r.Shortcut,
		r.HelpTopic,
		r.Description,
	)
	return append(ops, r.ArgumentHelp...)
}
