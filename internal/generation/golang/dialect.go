// Package golang emits interfaces, proxies and stubs as Go source that links
// against the parcel runtime. Files are built with jennifer.
package golang

import (
	"path"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/mod/module"

	"idlgen/errors"
	"idlgen/internal/generation"
	"idlgen/internal/metadata"
	"idlgen/internal/naming"
)

// DefaultRuntimePath is the import path of the parcel runtime.
const DefaultRuntimePath = "idlgen/parcel"

// HeaderComment opens every generated file.
const HeaderComment = "Code generated by idlgen. DO NOT EDIT."

type Options struct {
	// ImportPrefix is the import path of the output root. Each namespace
	// becomes a package below it.
	ImportPrefix string
	// RuntimePath overrides DefaultRuntimePath.
	RuntimePath string
}

type Dialect struct {
	importPrefix string
	runtime      string
}

func New(opts Options) (*Dialect, error) {
	d := &Dialect{importPrefix: opts.ImportPrefix, runtime: opts.RuntimePath}
	if d.runtime == "" {
		d.runtime = DefaultRuntimePath
	}
	if d.importPrefix != "" {
		if err := module.CheckImportPath(d.importPrefix); err != nil {
			return nil, errors.New(errors.PhaseEmit, errors.KindInvalidInput).
				Path("import-prefix").
				Value(d.importPrefix).
				Detail("invalid import prefix").
				Cause(err).
				Build()
		}
	}
	if err := module.CheckImportPath(d.runtime); err != nil {
		return nil, errors.New(errors.PhaseEmit, errors.KindInvalidInput).
			Path("runtime").
			Value(d.runtime).
			Detail("invalid runtime import path").
			Cause(err).
			Build()
	}
	return d, nil
}

func (d *Dialect) Name() string { return "go" }

// PackagePath is the import path of the package holding namespace.
func (d *Dialect) PackagePath(namespace string) string {
	return path.Join(d.importPrefix, naming.FileName(namespace))
}

// gen is the state of one generated file.
type gen struct {
	d   *Dialect
	ctx *generation.Context
	f   *jen.File
}

func (d *Dialect) newGen(ctx *generation.Context) *gen {
	ns := ctx.Names.Namespace
	f := jen.NewFilePathName(d.PackagePath(ns), naming.GoPackageName(ns))
	if ctx.Interface.License != "" {
		f.HeaderComment(strings.TrimRight(ctx.Interface.License, "\n"))
	}
	f.HeaderComment(HeaderComment)
	f.ImportName(d.runtime, "parcel")
	return &gen{d: d, ctx: ctx, f: f}
}

func (g *gen) save(file string) error {
	return g.ctx.WriteFile(file+".go", g.f.Render)
}

func (g *gen) runtime(name string) *jen.Statement {
	return jen.Qual(g.d.runtime, name)
}

// qual refers to a declaration in the package of namespace.
func (g *gen) qual(namespace, name string) *jen.Statement {
	p := g.d.PackagePath(namespace)
	g.f.ImportName(p, naming.GoPackageName(namespace))
	return jen.Qual(p, name)
}

// Declaration names shared by the three files of an interface.

func descriptorConst(n generation.Names) string { return naming.Exported(n.Interface) + "Descriptor" }

func commandConst(n generation.Names, c generation.Command) string {
	return naming.Exported(n.Interface) + "Command" + naming.Exported(c.Method.Name)
}

func castFunc(iface string) string   { return "Cast" + iface }
func objectFunc(iface string) string { return iface + "Object" }

// packageNames lists the package names a generated function body may refer
// to. Locals must not shadow them.
func (g *gen) packageNames() []string {
	names := []string{"parcel"}
	for _, s := range g.ctx.Component.Sequenceables {
		if !s.IsRemoteObject() {
			names = append(names, naming.GoPackageName(s.Namespace))
		}
	}
	for _, i := range g.ctx.Component.Interfaces {
		names = append(names, naming.GoPackageName(i.Namespace))
	}
	return names
}

// paramNames returns the Go identifiers of m's parameters. Every file derives
// them the same way.
func (g *gen) paramNames(m *metadata.Method) []string {
	_, params, _ := g.methodScope(m)
	return params
}

// methodScope claims the parameter names and then the given locals, which may
// be renamed to stay clear of parameters.
func (g *gen) methodScope(m *metadata.Method, locals ...string) (*naming.Scope, []string, []string) {
	scope := naming.NewScope(g.packageNames()...)
	params := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		params[i] = scope.Name(p.Name)
	}
	claimed := make([]string, len(locals))
	for i, l := range locals {
		claimed[i] = scope.Name(l)
	}
	return scope, params, claimed
}
