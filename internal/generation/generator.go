package generation

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"idlgen/errors"
	"idlgen/internal/metadata"
)

// Artifact names one of the three files sets emitted per interface.
type Artifact string

const (
	ArtifactInterface Artifact = "interface"
	ArtifactProxy     Artifact = "proxy"
	ArtifactStub      Artifact = "stub"
)

// AllArtifacts is the default emission order.
var AllArtifacts = []Artifact{ArtifactInterface, ArtifactProxy, ArtifactStub}

// ParseArtifacts reads a comma separated artifact list such as "proxy,stub".
func ParseArtifacts(list string) ([]Artifact, error) {
	if strings.TrimSpace(list) == "" {
		return AllArtifacts, nil
	}
	var artifacts []Artifact
	for _, part := range strings.Split(list, ",") {
		a := Artifact(strings.TrimSpace(part))
		switch a {
		case ArtifactInterface, ArtifactProxy, ArtifactStub:
			artifacts = append(artifacts, a)
		default:
			return nil, errors.InvalidInput(errors.PhaseEmit, fmt.Sprintf("unknown artifact %q", part))
		}
	}
	return artifacts, nil
}

// Dialect renders the artifacts of one interface in a target language.
// Implementations hold no per-interface state; everything an emission needs
// comes through the Context.
type Dialect interface {
	Name() string
	EmitInterface(ctx *Context) error
	EmitInterfaceProxy(ctx *Context) error
	EmitInterfaceStub(ctx *Context) error
}

type Options struct {
	// Interface selects the interface by short or full name. Empty selects
	// the first interface that is not external.
	Interface string
	// BaseCommand is the id of the first method. Nil means DefaultBaseCommand.
	BaseCommand *uint32
}

// Base returns a BaseCommand value for id.
func Base(id uint32) *uint32 {
	return &id
}

func (o Options) baseCommand() uint32 {
	if o.BaseCommand == nil {
		return DefaultBaseCommand
	}
	return *o.BaseCommand
}

// Context is what a dialect sees while emitting one artifact.
type Context struct {
	Component *metadata.Component
	Interface *metadata.Interface
	Names     Names
	Commands  []Command
	Artifact  Artifact

	output      Output
	written     []string
	diagnostics []Diagnostic
	reported    map[string]bool
}

// Type resolves a handle against the component.
func (c *Context) Type(h metadata.TypeHandle) metadata.Type {
	return c.Component.Type(h)
}

// WriteFile opens path, lets render fill it and closes it on every exit path.
// Open and close failures are returned as PhaseWrite errors.
func (c *Context) WriteFile(path string, render func(w io.Writer) error) (err error) {
	f, err := c.output.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.IO(errors.PhaseWrite, path, cerr)
		}
	}()

	if err := render(f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}

	c.written = append(c.written, path)
	Logger().Debug("wrote file",
		zap.String("interface", c.Names.FullName),
		zap.String("artifact", string(c.Artifact)),
		zap.String("path", path),
	)
	return nil
}

// CodeEmitter emits the artifacts of one interface through a dialect. The
// interface, its derived names and its command table are fixed at creation.
type CodeEmitter struct {
	component *metadata.Component
	iface     *metadata.Interface
	dialect   Dialect
	output    Output
	names     Names
	commands  []Command

	written     []string
	diagnostics []Diagnostic
}

func NewCodeEmitter(component *metadata.Component, dialect Dialect, output Output, opts Options) (*CodeEmitter, error) {
	if component == nil || dialect == nil || output == nil {
		return nil, errors.InvalidInput(errors.PhaseEmit, "component, dialect and output are required")
	}

	iface, err := SelectInterface(component, opts.Interface)
	if err != nil {
		return nil, err
	}

	return &CodeEmitter{
		component: component,
		iface:     iface,
		dialect:   dialect,
		output:    output,
		names:     DeriveNames(iface),
		commands:  Commands(iface, opts.baseCommand()),
	}, nil
}

// SelectInterface finds the interface to emit. External interfaces are only
// ever imported, so selecting one by name is an error.
func SelectInterface(component *metadata.Component, name string) (*metadata.Interface, error) {
	for i := range component.Interfaces {
		iface := &component.Interfaces[i]
		if name == "" {
			if !iface.External {
				return iface, nil
			}
			continue
		}
		if iface.Name == name || iface.FullName() == name {
			if iface.External {
				return nil, errors.Unsupported(errors.PhaseEmit, fmt.Sprintf("interface %s is external", iface.FullName()))
			}
			return iface, nil
		}
	}
	if name == "" {
		return nil, errors.NotFound(errors.PhaseEmit, "interface", "<first non-external>")
	}
	return nil, errors.NotFound(errors.PhaseEmit, "interface", name)
}

func (e *CodeEmitter) Interface() *metadata.Interface { return e.iface }
func (e *CodeEmitter) Names() Names                   { return e.names }
func (e *CodeEmitter) Commands() []Command            { return e.commands }
func (e *CodeEmitter) Dialect() Dialect               { return e.dialect }

// Written lists the files emitted so far.
func (e *CodeEmitter) Written() []string { return e.written }

// Diagnostics lists the placeholders emitted so far.
func (e *CodeEmitter) Diagnostics() []Diagnostic { return e.diagnostics }

func (e *CodeEmitter) EmitInterface() error {
	return e.emit(ArtifactInterface, e.dialect.EmitInterface)
}

func (e *CodeEmitter) EmitInterfaceProxy() error {
	return e.emit(ArtifactProxy, e.dialect.EmitInterfaceProxy)
}

func (e *CodeEmitter) EmitInterfaceStub() error {
	return e.emit(ArtifactStub, e.dialect.EmitInterfaceStub)
}

// Emit runs the given artifacts in order, all three when none are given.
func (e *CodeEmitter) Emit(artifacts ...Artifact) error {
	if len(artifacts) == 0 {
		artifacts = AllArtifacts
	}
	for _, a := range artifacts {
		var err error
		switch a {
		case ArtifactInterface:
			err = e.EmitInterface()
		case ArtifactProxy:
			err = e.EmitInterfaceProxy()
		case ArtifactStub:
			err = e.EmitInterfaceStub()
		default:
			err = errors.InvalidInput(errors.PhaseEmit, fmt.Sprintf("unknown artifact %q", a))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *CodeEmitter) emit(artifact Artifact, fn func(*Context) error) error {
	ctx := &Context{
		Component: e.component,
		Interface: e.iface,
		Names:     e.names,
		Commands:  e.commands,
		Artifact:  artifact,
		output:    e.output,
		reported:  make(map[string]bool),
	}

	Logger().Debug("emitting",
		zap.String("dialect", e.dialect.Name()),
		zap.String("interface", e.names.FullName),
		zap.String("artifact", string(artifact)),
	)

	err := fn(ctx)
	e.written = append(e.written, ctx.written...)
	e.diagnostics = append(e.diagnostics, ctx.diagnostics...)
	if err != nil {
		return fmt.Errorf("%s %s for %s: %w", e.dialect.Name(), artifact, e.names.FullName, err)
	}
	return nil
}

// Result summarises a GenerateAll run.
type Result struct {
	Interfaces  []string
	Written     []string
	Diagnostics []Diagnostic
}

// GenerateAll emits every interface that is not external, one goroutine per
// interface. Interfaces have disjoint outputs, so only the result is shared.
func GenerateAll(ctx context.Context, component *metadata.Component, dialect Dialect, output Output, opts Options, artifacts ...Artifact) (*Result, error) {
	var (
		mu     sync.Mutex
		result Result
	)

	g, ctx := errgroup.WithContext(ctx)
	for i := range component.Interfaces {
		iface := &component.Interfaces[i]
		if iface.External {
			continue
		}

		o := opts
		o.Interface = iface.FullName()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			emitter, err := NewCodeEmitter(component, dialect, output, o)
			if err != nil {
				return err
			}
			err = emitter.Emit(artifacts...)

			mu.Lock()
			result.Interfaces = append(result.Interfaces, emitter.Names().FullName)
			result.Written = append(result.Written, emitter.Written()...)
			result.Diagnostics = append(result.Diagnostics, emitter.Diagnostics()...)
			mu.Unlock()
			return err
		})
	}

	err := g.Wait()
	sort.Strings(result.Interfaces)
	sort.Strings(result.Written)
	sort.SliceStable(result.Diagnostics, func(i, j int) bool {
		return result.Diagnostics[i].Interface < result.Diagnostics[j].Interface
	})
	return &result, err
}
