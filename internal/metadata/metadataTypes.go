package metadata

import (
	"fmt"
	"strings"
)

// TypeKind identifies the shape of a type node.
type TypeKind uint8

const (
	KindUnknown TypeKind = iota
	KindVoid
	KindBoolean
	KindChar
	KindByte
	KindShort
	KindInteger
	KindLong
	KindFloat
	KindDouble
	KindString
	KindSequenceable
	KindInterface
	KindArray
	KindList
	KindMap
)

var kindNames = [...]string{
	KindUnknown:      "unknown",
	KindVoid:         "void",
	KindBoolean:      "boolean",
	KindChar:         "char",
	KindByte:         "byte",
	KindShort:        "short",
	KindInteger:      "integer",
	KindLong:         "long",
	KindFloat:        "float",
	KindDouble:       "double",
	KindString:       "string",
	KindSequenceable: "sequenceable",
	KindInterface:    "interface",
	KindArray:        "array",
	KindList:         "list",
	KindMap:          "map",
}

func (k TypeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ParseTypeKind maps a kind name to its TypeKind. Names the model format does
// not know yield KindUnknown so that emitters can degrade instead of failing.
func ParseTypeKind(name string) TypeKind {
	name = strings.ToLower(name)
	for k, n := range kindNames {
		if n == name {
			return TypeKind(k)
		}
	}
	return KindUnknown
}

// IsScalar reports whether the kind is encoded in a single fixed-width slot.
func (k TypeKind) IsScalar() bool {
	return k >= KindBoolean && k <= KindDouble
}

// NestedCount is the number of nested type handles a node of this kind carries.
func (k TypeKind) NestedCount() int {
	switch k {
	case KindArray, KindList:
		return 1
	case KindMap:
		return 2
	default:
		return 0
	}
}

// TypeHandle is an index into Component.Types.
type TypeHandle int

// Type is one node of the type table. Sequenceable and Interface nodes refer
// to their declaration through Ref; containers refer to element types through
// Nested (element for Array/List, key and value for Map).
type Type struct {
	Kind     TypeKind
	Nested   []TypeHandle
	Ref      int
	KindName string // original kind name when Kind is KindUnknown
}

// Direction is the set of parameter direction flags.
type Direction uint8

const (
	DirIn Direction = 1 << iota
	DirOut

	DirInOut = DirIn | DirOut
)

// IsIn reports whether the parameter travels from caller to callee.
func (d Direction) IsIn() bool { return d&DirIn != 0 }

// IsOut reports whether the parameter travels back to the caller.
func (d Direction) IsOut() bool { return d&DirOut != 0 }

func (d Direction) String() string {
	switch d {
	case DirIn:
		return "in"
	case DirOut:
		return "out"
	case DirInOut:
		return "inout"
	default:
		return fmt.Sprintf("direction(%d)", d)
	}
}

// Property is the set of method property flags.
type Property uint8

const (
	PropOneway Property = 1 << iota
)

type Parameter struct {
	Name      string
	Type      TypeHandle
	Direction Direction
}

type Method struct {
	Name       string
	Parameters []Parameter
	ReturnType TypeHandle
	Properties Property
}

// IsOneway reports whether the caller never waits for a reply.
func (m *Method) IsOneway() bool {
	return m.Properties&PropOneway != 0
}

type Interface struct {
	Name      string
	Namespace string
	License   string
	External  bool
	Methods   []Method
}

// FullName returns the namespace-qualified interface name.
func (i *Interface) FullName() string {
	return QualifiedName(i.Namespace, i.Name)
}

// Sequenceable is an opaque value type carrying its own marshalling.
type Sequenceable struct {
	Name      string
	Namespace string
}

// FullName returns the namespace-qualified sequenceable name.
func (s *Sequenceable) FullName() string {
	return QualifiedName(s.Namespace, s.Name)
}

// RemoteObjectName is the sequenceable name that designates a raw remote
// object handle instead of a self-marshalling value.
const RemoteObjectName = "IRemoteObject"

// IsRemoteObject reports whether the sequenceable is the raw remote object handle.
func (s *Sequenceable) IsRemoteObject() bool {
	return s.Name == RemoteObjectName
}

// QualifiedName joins a dotted namespace and a name.
func QualifiedName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}
