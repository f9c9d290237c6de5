package cpp

import (
	"idlgen/internal/codewriter"
	"idlgen/internal/metadata"
	"idlgen/internal/naming"
)

// marshaller writes the parcel statements of one function body. Every
// temporary it introduces is claimed from scope, so nested containers never
// redeclare a name.
type marshaller struct {
	f     *file
	w     *codewriter.Writer
	scope *naming.Scope
	// fail is the statement returned when a parcel operation fails.
	fail string
}

func (m *marshaller) check(call string) {
	m.w.Block("if (!"+call+")", "", func() {
		m.w.Line(m.fail)
	})
}

// write emits the statements that encode expr of type h into parcel.
func (m *marshaller) write(parcel, expr string, h metadata.TypeHandle, path []string) {
	t := m.f.ctx.Type(h)
	switch t.Kind {
	case metadata.KindBoolean:
		m.check(parcel + ".WriteInt32(" + expr + " ? 1 : 0)")
	case metadata.KindChar, metadata.KindByte, metadata.KindShort, metadata.KindInteger:
		m.check(parcel + ".WriteInt32(" + expr + ")")
	case metadata.KindLong:
		m.check(parcel + ".WriteInt64(" + expr + ")")
	case metadata.KindFloat:
		m.check(parcel + ".WriteFloat(" + expr + ")")
	case metadata.KindDouble:
		m.check(parcel + ".WriteDouble(" + expr + ")")
	case metadata.KindString:
		m.f.systemInclude("string_ex.h")
		m.check(parcel + ".WriteString16(Str8ToStr16(" + expr + "))")
	case metadata.KindSequenceable:
		if m.f.ctx.Component.Sequenceable(t).IsRemoteObject() {
			m.check(parcel + ".WriteRemoteObject(" + expr + ")")
			return
		}
		m.check(parcel + ".WriteParcelable(&" + expr + ")")
	case metadata.KindInterface:
		m.w.Block("if ("+expr+" == nullptr)", "", func() {
			m.w.Line(m.fail)
		})
		m.check(parcel + ".WriteRemoteObject(" + expr + "->AsObject())")
	case metadata.KindArray, metadata.KindList:
		m.writeLength(parcel, expr, t.Kind)
		it := m.scope.Temp("it")
		m.w.Block("for (const auto& "+it+" : "+expr+")", "", func() {
			m.write(parcel, it, t.Nested[0], child(path, "elem"))
		})
	case metadata.KindMap:
		m.writeLength(parcel, expr, t.Kind)
		it := m.scope.Temp("it")
		m.w.Block("for (const auto& "+it+" : "+expr+")", "", func() {
			m.write(parcel, it+".first", t.Nested[0], child(path, "key"))
			m.write(parcel, it+".second", t.Nested[1], child(path, "value"))
		})
	default:
		m.f.ctx.Unknown(path, t)
		m.w.Linef("// unknown type %s: %s is not written", kindLabel(t), expr)
	}
}

func (m *marshaller) writeLength(parcel, expr string, kind metadata.TypeKind) {
	m.w.Block("if ("+expr+".size() > static_cast<size_t>("+maxSizeConstant(kind)+"))", "", func() {
		m.w.Line(m.fail)
	})
	m.check(parcel + ".WriteInt32(" + expr + ".size())")
}

// read emits the statements that decode a value of type h from parcel into
// name. With declare the statements introduce name; otherwise name already
// exists and is assigned.
func (m *marshaller) read(parcel, name string, h metadata.TypeHandle, declare bool, path []string) {
	t := m.f.ctx.Type(h)
	decl := ""
	if declare {
		decl = m.f.typeName(h, path) + " "
	}

	switch t.Kind {
	case metadata.KindBoolean:
		m.w.Line(decl + name + " = " + parcel + ".ReadInt32() == 1 ? true : false;")
	case metadata.KindChar, metadata.KindByte, metadata.KindShort:
		m.w.Line(decl + name + " = static_cast<" + m.f.typeName(h, path) + ">(" + parcel + ".ReadInt32());")
	case metadata.KindInteger:
		m.w.Line(decl + name + " = " + parcel + ".ReadInt32();")
	case metadata.KindLong:
		m.w.Line(decl + name + " = " + parcel + ".ReadInt64();")
	case metadata.KindFloat:
		m.w.Line(decl + name + " = " + parcel + ".ReadFloat();")
	case metadata.KindDouble:
		m.w.Line(decl + name + " = " + parcel + ".ReadDouble();")
	case metadata.KindString:
		m.f.systemInclude("string_ex.h")
		m.w.Line(decl + name + " = Str16ToStr8(" + parcel + ".ReadString16());")
	case metadata.KindSequenceable:
		seq := m.f.ctx.Component.Sequenceable(t)
		if seq.IsRemoteObject() {
			m.w.Line(decl + name + " = " + parcel + ".ReadRemoteObject();")
			return
		}
		typ := m.f.qualify(seq.Namespace, seq.Name)
		info := m.scope.Name(name + "Info")
		m.w.Line("std::unique_ptr<" + typ + "> " + info + "(" + parcel + ".ReadParcelable<" + typ + ">());")
		m.f.systemInclude("memory")
		m.w.Block("if ("+info+" == nullptr)", "", func() {
			m.w.Line(m.fail)
		})
		m.w.Line(decl + name + " = *" + info + ";")
	case metadata.KindInterface:
		iface := m.f.ctx.Component.Interface(t)
		typ := m.f.qualify(iface.Namespace, iface.Name)
		m.f.systemInclude("iremote_object.h")
		m.w.Line(decl + name + " = iface_cast<" + typ + ">(" + parcel + ".ReadRemoteObject());")
		m.w.Block("if ("+name+" == nullptr)", "", func() {
			m.w.Line(m.fail)
		})
	case metadata.KindArray, metadata.KindList:
		size := m.readLength(parcel, name, t.Kind)
		if declare {
			m.w.Line(decl + name + ";")
		} else {
			m.w.Line(name + ".clear();")
		}
		i := m.scope.Temp("i")
		m.w.Block("for (int32_t "+i+" = 0; "+i+" < "+size+"; ++"+i+")", "", func() {
			value := m.scope.Temp("value")
			m.read(parcel, value, t.Nested[0], true, child(path, "elem"))
			m.w.Line(name + ".push_back(" + value + ");")
		})
	case metadata.KindMap:
		size := m.readLength(parcel, name, t.Kind)
		if declare {
			m.w.Line(decl + name + ";")
		} else {
			m.w.Line(name + ".clear();")
		}
		i := m.scope.Temp("i")
		m.w.Block("for (int32_t "+i+" = 0; "+i+" < "+size+"; ++"+i+")", "", func() {
			key := m.scope.Temp("key")
			value := m.scope.Temp("value")
			m.read(parcel, key, t.Nested[0], true, child(path, "key"))
			m.read(parcel, value, t.Nested[1], true, child(path, "value"))
			m.w.Line(name + "[" + key + "] = " + value + ";")
		})
	default:
		m.f.ctx.Unknown(path, t)
		if declare {
			m.w.Line(decl + name + ";")
		}
		m.w.Linef("// unknown type %s: %s is not read", kindLabel(t), name)
	}
}

func (m *marshaller) readLength(parcel, name string, kind metadata.TypeKind) string {
	size := m.scope.Name(name + "Size")
	m.w.Line("int32_t " + size + " = " + parcel + ".ReadInt32();")
	m.w.Block("if ("+size+" < 0 || "+size+" > static_cast<int32_t>("+maxSizeConstant(kind)+"))", "", func() {
		m.w.Line(m.fail)
	})
	return size
}

func kindLabel(t metadata.Type) string {
	if t.KindName != "" {
		return t.KindName
	}
	return t.Kind.String()
}
