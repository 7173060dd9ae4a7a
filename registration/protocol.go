// Package registration announces add-in functions to the host and withdraws
// them again at unload.
//
// Each FunctionDescriptor becomes one register call whose operands are built
// in a scratch arena and checked against the host's size limits. A function
// that breaks a limit is reported through the host's alert channel and
// skipped; the rest still register.
package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cdsmodel/cellbridge/domain/entities"
	"github.com/cdsmodel/cellbridge/domain/ports"
	"github.com/cdsmodel/cellbridge/internal/arena"
)

// DefaultPrefix is prepended to every function name.
const DefaultPrefix = "CDS"

// ModuleNameFailed is alerted when the host cannot report the add-in path.
const ModuleNameFailed = "Get add-in module name failed"

// DefaultCategory is the wizard category for descriptors that name none.
const DefaultCategory = "CDS"

// scratchSize holds the largest possible request: ten fixed operands and
// MaxDocumentedArgs descriptions, each at most MaxStringLen bytes, plus room
// for a long module path.
const scratchSize = (10+MaxDocumentedArgs)*(MaxStringLen+1) + 4096

type protocolConfig struct {
	prefix   string
	category string
	logger   *slog.Logger
	scratch  *arena.Arena
}

// Option configures a Protocol.
type Option func(*protocolConfig)

// WithPrefix sets the display-name prefix.
func WithPrefix(prefix string) Option {
	return func(c *protocolConfig) {
		c.prefix = prefix
	}
}

// WithCategory sets the default category.
func WithCategory(category string) Option {
	return func(c *protocolConfig) {
		c.category = category
	}
}

// WithLogger routes registration diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *protocolConfig) {
		c.logger = logger
	}
}

// WithArena builds request strings in a instead of a private arena. The
// arena is reset after every register call.
func WithArena(a *arena.Arena) Option {
	return func(c *protocolConfig) {
		c.scratch = a
	}
}

// Protocol registers descriptors with a host and remembers what it
// registered so Revoke can undo it.
type Protocol struct {
	host       ports.Host
	cfg        protocolConfig
	registered []string
}

// New creates a Protocol talking to host.
func New(host ports.Host, opts ...Option) *Protocol {
	cfg := protocolConfig{
		prefix:   DefaultPrefix,
		category: DefaultCategory,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.scratch == nil {
		cfg.scratch = arena.New(scratchSize)
	}
	return &Protocol{host: host, cfg: cfg}
}

// DisplayName returns the name users type for function.
func (p *Protocol) DisplayName(function string) string {
	return p.cfg.prefix + "_" + function
}

// Build assembles the register request for d without talking to the host.
// The returned strings are ordinary heap strings.
func (p *Protocol) Build(module string, d entities.FunctionDescriptor) (entities.RegistrationRequest, error) {
	if err := d.Validate(); err != nil {
		return entities.RegistrationRequest{}, fmt.Errorf("%s: invalid descriptor: %w", p.DisplayName(d.Name), err)
	}
	display := p.DisplayName(d.Name)
	if len(display) > MaxStringLen {
		return entities.RegistrationRequest{}, fmt.Errorf("%s: display name longer than %d bytes", display, MaxStringLen)
	}

	sig, err := Signature(display, d.Arity())
	if err != nil {
		return entities.RegistrationRequest{}, err
	}
	names, err := ArgumentNames(display, d.Params)
	if err != nil {
		return entities.RegistrationRequest{}, err
	}

	category := d.Category
	if category == "" {
		category = p.cfg.category
	}

	return entities.RegistrationRequest{
		Module:        module,
		DisplayName:   display,
		Signature:     sig,
		EntryPoint:    display,
		ArgumentNames: names,
		Version:       WorksheetVersion,
		Category:      orBlank(category),
		Shortcut:      blank,
		HelpTopic:     blank,
		Description:   orBlank(d.Description),
		ArgumentHelp:  argumentHelp(d.Params),
	}, nil
}

// Announce registers every descriptor in order. Failures are alerted and
// skipped; the joined failures are returned once all descriptors have been
// tried. An error fetching the module name aborts before anything registers.
func (p *Protocol) Announce(ctx context.Context, descs []entities.FunctionDescriptor) error {
	module, err := p.host.ModuleName(ctx)
	if err != nil {
		p.host.Alert(ctx, ModuleNameFailed)
		return fmt.Errorf("get module name: %w", err)
	}

	var errs []error
	for _, d := range descs {
		if err := p.announce(ctx, module, d); err != nil {
			p.cfg.logger.WarnContext(ctx, "registration failed",
				slog.String("function", d.Name),
				slog.Any("error", err),
			)
			p.host.Alert(ctx, err.Error())
			errs = append(errs, err)
			continue
		}
		p.cfg.logger.DebugContext(ctx, "registered", slog.String("function", p.DisplayName(d.Name)))
	}
	return errors.Join(errs...)
}

func (p *Protocol) announce(ctx context.Context, module string, d entities.FunctionDescriptor) error {
	req, err := p.Build(module, d)
	if err != nil {
		return err
	}

	defer p.cfg.scratch.Reset()
	staged, err := p.stage(req)
	if err != nil {
		return fmt.Errorf("%s: %w", req.DisplayName, err)
	}
	if err := p.host.Register(ctx, staged); err != nil {
		return fmt.Errorf("%s: register: %w", req.DisplayName, err)
	}
	p.registered = append(p.registered, req.DisplayName)
	return nil
}

// stage copies every operand into the scratch arena so the host sees
// arena-backed strings for the duration of the register call.
func (p *Protocol) stage(req entities.RegistrationRequest) (entities.RegistrationRequest, error) {
	a := p.cfg.scratch
	var err error
	cp := func(s string) string {
		if err != nil {
			return ""
		}
		var out string
		out, err = a.CopyString(s)
		return out
	}

	out := entities.RegistrationRequest{
		Module:        cp(req.Module),
		DisplayName:   cp(req.DisplayName),
		Signature:     cp(req.Signature),
		EntryPoint:    cp(req.EntryPoint),
		ArgumentNames: cp(req.ArgumentNames),
		Version:       cp(req.Version),
		Category:      cp(req.Category),
		Shortcut:      cp(req.Shortcut),
		HelpTopic:     cp(req.HelpTopic),
		Description:   cp(req.Description),
	}
	if len(req.ArgumentHelp) > 0 {
		out.ArgumentHelp = make([]string, len(req.ArgumentHelp))
		for i, h := range req.ArgumentHelp {
			out.ArgumentHelp[i] = cp(h)
		}
	}
	return out, err
}

// Revoke unregisters every function Announce registered, in registration
// order, and forgets them. Unregister failures are returned joined.
func (p *Protocol) Revoke(ctx context.Context) error {
	var errs []error
	for _, name := range p.registered {
		if err := p.host.Unregister(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("unregister %s: %w", name, err))
		}
	}
	p.registered = nil
	return errors.Join(errs...)
}

// Registered returns the display names currently registered.
func (p *Protocol) Registered() []string {
	out := make([]string, len(p.registered))
	copy(out, p.registered)
	return out
}
