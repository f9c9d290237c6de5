package golang

import (
	"github.com/dave/jennifer/jen"

	"idlgen/internal/metadata"
	"idlgen/internal/naming"
)

// operand is a variable the marshaller reads from or assigns to. A deref
// operand holds a pointer, as out parameters do in proxies.
type operand struct {
	name  string
	deref bool
}

func (o operand) value() *jen.Statement {
	if o.deref {
		return jen.Op("*").Id(o.name)
	}
	return jen.Id(o.name)
}

// indexable is value() wrapped so that it can be indexed.
func (o operand) indexable() *jen.Statement {
	if o.deref {
		return jen.Parens(jen.Op("*").Id(o.name))
	}
	return jen.Id(o.name)
}

func (o operand) addr() *jen.Statement {
	if o.deref {
		return jen.Id(o.name)
	}
	return jen.Op("&").Id(o.name)
}

// marshaller generates the parcel calls of one function body. Temporaries
// come from scope, so nested containers never redeclare a name.
type marshaller struct {
	g     *gen
	scope *naming.Scope
}

var writeCalls = map[metadata.TypeKind]string{
	metadata.KindBoolean: "WriteBool",
	metadata.KindChar:    "WriteChar",
	metadata.KindByte:    "WriteInt8",
	metadata.KindShort:   "WriteInt16",
	metadata.KindInteger: "WriteInt32",
	metadata.KindLong:    "WriteInt64",
	metadata.KindFloat:   "WriteFloat32",
	metadata.KindDouble:  "WriteFloat64",
	metadata.KindString:  "WriteString16",
}

var readCalls = map[metadata.TypeKind]string{
	metadata.KindBoolean: "ReadBool",
	metadata.KindChar:    "ReadChar",
	metadata.KindByte:    "ReadInt8",
	metadata.KindShort:   "ReadInt16",
	metadata.KindInteger: "ReadInt32",
	metadata.KindLong:    "ReadInt64",
	metadata.KindFloat:   "ReadFloat32",
	metadata.KindDouble:  "ReadFloat64",
	metadata.KindString:  "ReadString16",
}

// write appends the statements encoding v of type h into parcel p.
func (m *marshaller) write(grp *jen.Group, p string, v operand, h metadata.TypeHandle, path []string) {
	t := m.g.ctx.Type(h)
	if call, ok := writeCalls[t.Kind]; ok {
		grp.Id(p).Dot(call).Call(v.value())
		return
	}

	switch t.Kind {
	case metadata.KindSequenceable:
		if m.g.ctx.Component.Sequenceable(t).IsRemoteObject() {
			grp.Id(p).Dot("WriteRemoteObject").Call(v.value())
			return
		}
		grp.Id(p).Dot("WriteSequenceable").Call(v.addr())
	case metadata.KindInterface:
		iface := m.g.ctx.Component.Interface(t)
		grp.Id(p).Dot("WriteRemoteObject").Call(
			m.g.qual(iface.Namespace, objectFunc(naming.Exported(iface.Name))).Call(v.value()),
		)
	case metadata.KindArray, metadata.KindList:
		grp.Id(p).Dot("WriteLength").Call(jen.Len(v.value()))
		elem := m.scope.Temp("elem")
		grp.For(jen.List(jen.Id("_"), jen.Id(elem)).Op(":=").Range().Add(v.value())).BlockFunc(func(body *jen.Group) {
			m.write(body, p, operand{name: elem}, t.Nested[0], child(path, "elem"))
		})
	case metadata.KindMap:
		grp.Id(p).Dot("WriteLength").Call(jen.Len(v.value()))
		key, val := m.scope.Temp("key"), m.scope.Temp("val")
		grp.For(jen.List(jen.Id(key), jen.Id(val)).Op(":=").Range().Add(v.value())).BlockFunc(func(body *jen.Group) {
			m.write(body, p, operand{name: key}, t.Nested[0], child(path, "key"))
			m.write(body, p, operand{name: val}, t.Nested[1], child(path, "value"))
		})
	default:
		m.g.ctx.Unknown(path, t)
		grp.Commentf("unknown type %s: %s is not written", kindLabel(t), v.name)
	}
}

// read appends the statements decoding a value of type h from parcel p into
// v. With declare the statements introduce v with :=; otherwise v exists and
// is assigned.
func (m *marshaller) read(grp *jen.Group, p string, v operand, h metadata.TypeHandle, declare bool, path []string) {
	t := m.g.ctx.Type(h)
	assign := func(expr jen.Code) {
		if declare {
			grp.Id(v.name).Op(":=").Add(expr)
		} else {
			grp.Add(v.value()).Op("=").Add(expr)
		}
	}

	if call, ok := readCalls[t.Kind]; ok {
		assign(jen.Id(p).Dot(call).Call())
		return
	}

	switch t.Kind {
	case metadata.KindSequenceable:
		if m.g.ctx.Component.Sequenceable(t).IsRemoteObject() {
			assign(jen.Id(p).Dot("ReadRemoteObject").Call())
			return
		}
		assign(m.g.runtime("ReadSequenceable").Types(m.g.goType(h, path)).Call(jen.Id(p)))
	case metadata.KindInterface:
		iface := m.g.ctx.Component.Interface(t)
		assign(m.g.qual(iface.Namespace, castFunc(naming.Exported(iface.Name))).Call(jen.Id(p).Dot("ReadRemoteObject").Call()))
	case metadata.KindArray, metadata.KindList:
		n := m.scope.Temp("n")
		grp.Id(n).Op(":=").Id(p).Dot("ReadLength").Call()
		assign(jen.Make(m.g.goType(h, path), jen.Lit(0), jen.Id(n)))
		elem := m.scope.Temp("elem")
		grp.For(jen.Range().Id(n)).BlockFunc(func(body *jen.Group) {
			m.read(body, p, operand{name: elem}, t.Nested[0], true, child(path, "elem"))
			body.Add(v.value()).Op("=").Append(v.value(), jen.Id(elem))
		})
	case metadata.KindMap:
		n := m.scope.Temp("n")
		grp.Id(n).Op(":=").Id(p).Dot("ReadLength").Call()
		assign(jen.Make(m.g.goType(h, path), jen.Id(n)))
		key, val := m.scope.Temp("key"), m.scope.Temp("val")
		grp.For(jen.Range().Id(n)).BlockFunc(func(body *jen.Group) {
			m.read(body, p, operand{name: key}, t.Nested[0], true, child(path, "key"))
			m.read(body, p, operand{name: val}, t.Nested[1], true, child(path, "value"))
			body.Add(v.indexable()).Index(jen.Id(key)).Op("=").Id(val)
		})
	default:
		m.g.ctx.Unknown(path, t)
		if declare {
			grp.Var().Id(v.name).Id("UnknownType").Commentf("unknown type %s", kindLabel(t))
		} else {
			grp.Commentf("unknown type %s: %s is not read", kindLabel(t), v.name)
		}
	}
}

func kindLabel(t metadata.Type) string {
	if t.KindName != "" {
		return t.KindName
	}
	return t.Kind.String()
}
