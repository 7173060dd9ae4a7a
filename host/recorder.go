package host

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/cdsmodel/cellbridge/domain/entities"
)

// Call is one callback the add-in made into a Recorder.
type Call struct {
	Op       string   // "register", "unregister" or "alert"
	Operands []string // copied operands
}

// Recorder is an in-memory ports.Host. It keeps a transcript of every
// callback and the set of functions currently registered.
type Recorder struct {
	mu         sync.Mutex
	module     string
	calls      []Call
	registered map[string]entities.RegistrationRequest

	// FailRegister makes Register fail for the listed display names.
	FailRegister map[string]error

	// FailModule makes ModuleName fail.
	FailModule error
}

// NewRecorder creates a Recorder that reports module as the add-in path.
func NewRecorder(module string) *Recorder {
	return &Recorder{
		module:     module,
		registered: make(map[string]entities.RegistrationRequest),
	}
}

// ModuleName implements ports.Host.
func (r *Recorder) ModuleName(_ context.Context) (string, error) {
	if r.FailModule != nil {
		return "", r.FailModule
	}
	return r.module, nil
}

// Register implements ports.Host.
func (r *Recorder) Register(_ context.Context, req entities.RegistrationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.FailRegister[req.DisplayName]; err != nil {
		return err
	}
	kept := cloneRequest(req)
	r.calls = append(r.calls, Call{Op: "register", Operands: kept.Operands()})
	r.registered[kept.DisplayName] = kept
	return nil
}

// Unregister implements ports.Host.
func (r *Recorder) Unregister(_ context.Context, displayName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.Clone(displayName)
	r.calls = append(r.calls, Call{Op: "unregister", Operands: []string{name}})
	if _, ok := r.registered[name]; !ok {
		return fmt.Errorf("%s is not registered", name)
	}
	delete(r.registered, name)
	return nil
}

// Alert implements ports.Host.
func (r *Recorder) Alert(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: "alert", Operands: []string{strings.Clone(message)}})
}

// Calls returns the transcript so far.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Alerts returns the alert messages in order.
func (r *Recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.calls {
		if c.Op == "alert" {
			out = append(out, c.Operands[0])
		}
	}
	return out
}

// Registered returns the sorted display names currently registered.
func (r *Recorder) Registered() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.registered))
	for name := range r.registered {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Request returns the request a function was registered with.
func (r *Recorder) Request(displayName string) (entities.RegistrationRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.registered[displayName]
	return req, ok
}

// Transcript renders the calls one per line, operands quoted.
func (r *Recorder) Transcript() string {
	var b strings.Builder
	for _, c := range r.Calls() {
		b.WriteString(c.Op)
		for _, op := range c.Operands {
			fmt.Fprintf(&b, " %q", op)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func cloneRequest(req entities.RegistrationRequest) entities.RegistrationRequest {
	out := entities.RegistrationRequest{
		Module:        strings.Clone(req.Module),
		DisplayName:   strings.Clone(req.DisplayName),
		Signature:     strings.Clone(req.Signature),
		EntryPoint:    strings.Clone(req.EntryPoint),
		ArgumentNames: strings.Clone(req.ArgumentNames),
		Version:       strings.Clone(req.Version),
		Category:      strings.Clone(req.Category),
		Shortcut:      strings.Clone(req.Shortcut),
		HelpTopic:     strings.Clone(req.HelpTopic),
		Description:   strings.Clone(req.Description),
	}
	for _, h := range req.ArgumentHelp {
		out.ArgumentHelp = append(out.ArgumentHelp, strings.Clone(h))
	}
	return out
}
