package cpp

import (
	"idlgen/internal/metadata"
)

// typeName maps a type to its bare C++ spelling and registers the includes it
// needs. path locates the type in the model for diagnostics.
func (f *file) typeName(h metadata.TypeHandle, path []string) string {
	t := f.ctx.Type(h)
	switch t.Kind {
	case metadata.KindVoid:
		return "void"
	case metadata.KindBoolean:
		return "bool"
	case metadata.KindChar:
		return "char"
	case metadata.KindByte:
		f.systemInclude("cstdint")
		return "int8_t"
	case metadata.KindShort:
		f.systemInclude("cstdint")
		return "int16_t"
	case metadata.KindInteger:
		f.systemInclude("cstdint")
		return "int32_t"
	case metadata.KindLong:
		f.systemInclude("cstdint")
		return "int64_t"
	case metadata.KindFloat:
		return "float"
	case metadata.KindDouble:
		return "double"
	case metadata.KindString:
		f.systemInclude("string")
		return "std::string"
	case metadata.KindSequenceable:
		seq := f.ctx.Component.Sequenceable(t)
		if seq.IsRemoteObject() {
			f.systemInclude("iremote_object.h")
			return "sptr<IRemoteObject>"
		}
		f.localInclude(headerPath(seq.FullName()))
		return f.qualify(seq.Namespace, seq.Name)
	case metadata.KindInterface:
		iface := f.ctx.Component.Interface(t)
		if iface.FullName() != f.ctx.Names.FullName {
			f.localInclude(headerPath(iface.FullName()))
		}
		return "sptr<" + f.qualify(iface.Namespace, iface.Name) + ">"
	case metadata.KindArray, metadata.KindList:
		f.systemInclude("vector")
		return "std::vector<" + f.typeName(t.Nested[0], child(path, "elem")) + ">"
	case metadata.KindMap:
		f.systemInclude("unordered_map")
		return "std::unordered_map<" + f.typeName(t.Nested[0], child(path, "key")) + ", " +
			f.typeName(t.Nested[1], child(path, "value")) + ">"
	default:
		f.ctx.Unknown(path, t)
		return "UnknownType"
	}
}

// paramType applies the reference convention: in scalars by value, other in
// parameters by const reference, out and inout parameters by reference.
func (f *file) paramType(p metadata.Parameter, path []string) string {
	name := f.typeName(p.Type, path)
	if p.Direction.IsOut() {
		return name + "&"
	}
	if f.ctx.Type(p.Type).Kind.IsScalar() {
		return name
	}
	return "const " + name + "&"
}

// zeroValue is the initializer for local storage of kind, empty when the
// default constructor already yields the zero value.
func zeroValue(kind metadata.TypeKind) string {
	switch kind {
	case metadata.KindBoolean:
		return " = false"
	case metadata.KindFloat:
		return " = 0.0f"
	case metadata.KindDouble:
		return " = 0.0"
	case metadata.KindChar, metadata.KindByte, metadata.KindShort, metadata.KindInteger, metadata.KindLong:
		return " = 0"
	default:
		return ""
	}
}

func maxSizeConstant(kind metadata.TypeKind) string {
	switch kind {
	case metadata.KindList:
		return "LIST_MAX_SIZE"
	case metadata.KindMap:
		return "MAP_MAX_SIZE"
	default:
		return "VECTOR_MAX_SIZE"
	}
}

// child extends a diagnostic path without sharing its backing array.
func child(path []string, elem string) []string {
	return append(path[:len(path):len(path)], elem)
}
