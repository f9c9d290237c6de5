package golang

import (
	"github.com/dave/jennifer/jen"

	"idlgen/internal/metadata"
	"idlgen/internal/naming"
)

// goType maps a type to its Go spelling. Void maps to nil.
func (g *gen) goType(h metadata.TypeHandle, path []string) *jen.Statement {
	t := g.ctx.Type(h)
	switch t.Kind {
	case metadata.KindVoid:
		return nil
	case metadata.KindBoolean:
		return jen.Bool()
	case metadata.KindChar:
		return jen.Rune()
	case metadata.KindByte:
		return jen.Int8()
	case metadata.KindShort:
		return jen.Int16()
	case metadata.KindInteger:
		return jen.Int32()
	case metadata.KindLong:
		return jen.Int64()
	case metadata.KindFloat:
		return jen.Float32()
	case metadata.KindDouble:
		return jen.Float64()
	case metadata.KindString:
		return jen.String()
	case metadata.KindSequenceable:
		seq := g.ctx.Component.Sequenceable(t)
		if seq.IsRemoteObject() {
			return g.runtime("RemoteObject")
		}
		return g.qual(seq.Namespace, naming.Exported(seq.Name))
	case metadata.KindInterface:
		iface := g.ctx.Component.Interface(t)
		return g.qual(iface.Namespace, naming.Exported(iface.Name))
	case metadata.KindArray, metadata.KindList:
		return jen.Index().Add(g.goType(t.Nested[0], child(path, "elem")))
	case metadata.KindMap:
		g.checkMapKey(t.Nested[0], child(path, "key"))
		return jen.Map(g.goType(t.Nested[0], child(path, "key"))).Add(g.goType(t.Nested[1], child(path, "value")))
	default:
		g.ctx.Unknown(path, t)
		return jen.Id("UnknownType")
	}
}

// checkMapKey reports key types Go cannot compare. Sequenceables are
// structs of unknown shape and only compile as keys when every field is
// comparable.
func (g *gen) checkMapKey(h metadata.TypeHandle, path []string) {
	t := g.ctx.Type(h)
	switch t.Kind {
	case metadata.KindArray, metadata.KindList, metadata.KindMap:
		g.ctx.Unsupported(path, "%s is not a valid Go map key", g.ctx.Component.TypeName(h))
	case metadata.KindSequenceable:
		if seq := g.ctx.Component.Sequenceable(t); !seq.IsRemoteObject() {
			g.ctx.Unsupported(path, "map key %s must be a comparable Go struct", seq.FullName())
		}
	}
}

// paramType passes in parameters by value and out or inout parameters by
// pointer so the callee can assign them.
func (g *gen) paramType(p metadata.Parameter, path []string) *jen.Statement {
	t := g.goType(p.Type, path)
	if p.Direction.IsOut() {
		return jen.Op("*").Add(t)
	}
	return t
}

func (g *gen) hasResult(m *metadata.Method) bool {
	return g.ctx.Type(m.ReturnType).Kind != metadata.KindVoid
}

// signature appends "(params) (T, error)" or "(params) error" to s.
func (g *gen) signature(s *jen.Statement, m *metadata.Method, names []string) *jen.Statement {
	s.ParamsFunc(func(params *jen.Group) {
		for i, p := range m.Parameters {
			params.Id(names[i]).Add(g.paramType(p, []string{m.Name, p.Name}))
		}
	})
	if g.hasResult(m) {
		return s.Params(g.goType(m.ReturnType, []string{m.Name, "return"}), jen.Error())
	}
	return s.Error()
}

// child extends a diagnostic path without sharing its backing array.
func child(path []string, elem string) []string {
	return append(path[:len(path):len(path)], elem)
}
