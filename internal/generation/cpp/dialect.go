// Package cpp emits interfaces, proxies and stubs for the C++ binder
// runtime (MessageParcel, IRemoteBroker, IRemoteProxy, IRemoteStub).
package cpp

import (
	"io"
	"sort"
	"strings"

	"idlgen/internal/codewriter"
	"idlgen/internal/generation"
	"idlgen/internal/metadata"
	"idlgen/internal/naming"
)

// MaxContainerSize bounds container counts in generated marshalling code.
const MaxContainerSize = 102400

type Dialect struct{}

func New() *Dialect {
	return &Dialect{}
}

func (d *Dialect) Name() string { return "cpp" }

// file accumulates one header or source. Includes are collected while the
// body is written and rendered above it.
type file struct {
	ctx      *generation.Context
	body     *codewriter.Writer
	includes map[string]bool
}

func newFile(ctx *generation.Context) *file {
	return &file{
		ctx:      ctx,
		body:     codewriter.New(),
		includes: make(map[string]bool),
	}
}

// systemInclude registers <name>, localInclude registers "name".
func (f *file) systemInclude(name string) { f.includes["<"+name+">"] = true }
func (f *file) localInclude(name string)  { f.includes["\""+name+"\""] = true }

func headerPath(fullName string) string {
	return naming.FileName(fullName) + ".h"
}

// render writes license, optional include guard, includes and body.
func (f *file) render(w io.Writer, guard string) error {
	out := codewriter.New()
	if license := f.ctx.Interface.License; license != "" {
		out.Raw(strings.TrimRight(license, "\n"))
		out.Raw("\n\n")
	}
	if guard != "" {
		out.Linef("#ifndef %s", guard)
		out.Linef("#define %s", guard)
		out.Blank()
	}

	var local, system []string
	for inc := range f.includes {
		if strings.HasPrefix(inc, "\"") {
			local = append(local, inc)
		} else {
			system = append(system, inc)
		}
	}
	sort.Strings(local)
	sort.Strings(system)
	for _, inc := range local {
		out.Line("#include " + inc)
	}
	for _, inc := range system {
		out.Line("#include " + inc)
	}
	if len(local)+len(system) > 0 {
		out.Blank()
	}

	segments := naming.Segments(f.ctx.Names.Namespace)
	for _, s := range segments {
		out.Linef("namespace %s {", s)
	}
	out.Raw(f.body.String())
	for i := len(segments) - 1; i >= 0; i-- {
		out.Linef("} // namespace %s", segments[i])
	}

	if guard != "" {
		out.Linef("#endif // %s", guard)
	}
	_, err := out.WriteTo(w)
	return err
}

func (f *file) save(path, guard string) error {
	return f.ctx.WriteFile(path, func(w io.Writer) error {
		return f.render(w, guard)
	})
}

// qualify names a declaration relative to the namespace being emitted.
func (f *file) qualify(namespace, name string) string {
	if namespace == f.ctx.Names.Namespace || namespace == "" {
		return name
	}
	return strings.ReplaceAll(namespace, ".", "::") + "::" + name
}

// resultName is the trailing out parameter carrying a non-void return value.
// It is derived from the parameter list alone so that every file agrees.
func resultName(m *metadata.Method) string {
	scope := naming.NewScope()
	for _, p := range m.Parameters {
		scope.Name(p.Name)
	}
	return scope.Name("result")
}

// methodScope reserves parameter names, the result name and the names every
// generated function body uses.
func methodScope(m *metadata.Method, reserved ...string) *naming.Scope {
	scope := naming.NewScope(reserved...)
	for _, p := range m.Parameters {
		scope.Name(p.Name)
	}
	scope.Name(resultName(m))
	return scope
}

// signature writes "head(params) tail", one parameter per line.
func (f *file) signature(w *codewriter.Writer, head string, m *metadata.Method, tail string) {
	params := f.params(m)
	if len(params) == 0 {
		w.Line(head + "()" + tail)
		return
	}
	w.Line(head + "(")
	w.Indent()
	for i, p := range params {
		if i == len(params)-1 {
			w.Line(p + ")" + tail)
		} else {
			w.Line(p + ",")
		}
	}
	w.Dedent()
}

func (f *file) params(m *metadata.Method) []string {
	var params []string
	for _, p := range m.Parameters {
		params = append(params, f.paramType(p, []string{m.Name, p.Name})+" "+p.Name)
	}
	if f.ctx.Type(m.ReturnType).Kind != metadata.KindVoid {
		params = append(params, f.typeName(m.ReturnType, []string{m.Name, "return"})+"& "+resultName(m))
	}
	return params
}

func (f *file) commandConstants(w *codewriter.Writer) {
	for _, c := range f.ctx.Commands {
		w.Linef("static constexpr int32_t %s = %d;", c.Constant, c.ID)
	}
}
