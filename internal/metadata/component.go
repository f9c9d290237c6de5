package metadata

import (
	"fmt"
	"strconv"
	"strings"

	"idlgen/errors"
)

// Component is the root of the type model. Types are stored in a flat,
// append-only table and referenced everywhere by TypeHandle; sequenceables
// and interfaces are referenced by their index in the matching table.
type Component struct {
	Types         []Type
	Sequenceables []Sequenceable
	Interfaces    []Interface

	index map[string]TypeHandle
}

// AddType appends t to the type table unless an identical node exists and
// returns its handle.
func (c *Component) AddType(t Type) TypeHandle {
	if c.index == nil {
		c.index = make(map[string]TypeHandle, len(c.Types))
		for i, existing := range c.Types {
			c.index[typeKey(existing)] = TypeHandle(i)
		}
	}

	key := typeKey(t)
	if h, ok := c.index[key]; ok {
		return h
	}

	t.Nested = append([]TypeHandle(nil), t.Nested...)
	c.Types = append(c.Types, t)
	h := TypeHandle(len(c.Types) - 1)
	c.index[key] = h
	return h
}

func typeKey(t Type) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(t.Kind)))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(t.Ref))
	b.WriteByte(':')
	b.WriteString(t.KindName)
	for _, n := range t.Nested {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(int(n)))
	}
	return b.String()
}

// Type returns the node behind a handle. Handles are assumed valid; see Validate.
func (c *Component) Type(h TypeHandle) Type {
	return c.Types[h]
}

// ValidHandle reports whether h indexes the type table.
func (c *Component) ValidHandle(h TypeHandle) bool {
	return h >= 0 && int(h) < len(c.Types)
}

// Sequenceable returns the declaration referenced by a Sequenceable type node.
func (c *Component) Sequenceable(t Type) *Sequenceable {
	return &c.Sequenceables[t.Ref]
}

// Interface returns the declaration referenced by an Interface type node.
func (c *Component) Interface(t Type) *Interface {
	return &c.Interfaces[t.Ref]
}

// TypeName renders a handle in IDL notation, e.g. "List<Map<String, Integer>>".
func (c *Component) TypeName(h TypeHandle) string {
	if !c.ValidHandle(h) {
		return fmt.Sprintf("<invalid #%d>", h)
	}
	t := c.Type(h)
	switch t.Kind {
	case KindSequenceable:
		return c.Sequenceables[t.Ref].Name
	case KindInterface:
		return c.Interfaces[t.Ref].Name
	case KindArray:
		return c.TypeName(t.Nested[0]) + "[]"
	case KindList:
		return "List<" + c.TypeName(t.Nested[0]) + ">"
	case KindMap:
		return "Map<" + c.TypeName(t.Nested[0]) + ", " + c.TypeName(t.Nested[1]) + ">"
	case KindUnknown:
		return t.KindName
	default:
		name := t.Kind.String()
		return strings.ToUpper(name[:1]) + name[1:]
	}
}

// Validate checks the structural invariants every emitter relies on.
// Unknown kinds are accepted; emitters degrade on them.
func (c *Component) Validate() error {
	for i, t := range c.Types {
		path := []string{fmt.Sprintf("types[%d]", i)}
		if t.Kind != KindUnknown && len(t.Nested) != t.Kind.NestedCount() {
			return errors.InvalidModel(path, "%s type has %d nested types, want %d", t.Kind, len(t.Nested), t.Kind.NestedCount())
		}
		for _, n := range t.Nested {
			if !c.ValidHandle(n) {
				return errors.InvalidModel(path, "nested type handle %d out of range", n)
			}
			if int(n) >= i {
				return errors.InvalidModel(path, "nested type handle %d does not precede its container", n)
			}
		}
		switch t.Kind {
		case KindSequenceable:
			if t.Ref < 0 || t.Ref >= len(c.Sequenceables) {
				return errors.InvalidModel(path, "sequenceable index %d out of range", t.Ref)
			}
		case KindInterface:
			if t.Ref < 0 || t.Ref >= len(c.Interfaces) {
				return errors.InvalidModel(path, "interface index %d out of range", t.Ref)
			}
		}
	}

	seen := make(map[string]bool, len(c.Interfaces))
	for i := range c.Interfaces {
		iface := &c.Interfaces[i]
		ipath := fmt.Sprintf("interfaces[%d]", i)
		if iface.Name == "" {
			return errors.InvalidModel([]string{ipath}, "interface has no name")
		}
		if seen[iface.FullName()] {
			return errors.InvalidModel([]string{ipath}, "duplicate interface %s", iface.FullName())
		}
		seen[iface.FullName()] = true

		for j := range iface.Methods {
			m := &iface.Methods[j]
			mpath := []string{ipath, m.Name}
			if !c.ValidHandle(m.ReturnType) {
				return errors.InvalidModel(mpath, "return type handle %d out of range", m.ReturnType)
			}
			if m.IsOneway() && c.Type(m.ReturnType).Kind != KindVoid {
				return errors.InvalidModel(mpath, "oneway method returns %s", c.TypeName(m.ReturnType))
			}
			for _, p := range m.Parameters {
				if !c.ValidHandle(p.Type) {
					return errors.InvalidModel(append(mpath, p.Name), "type handle %d out of range", p.Type)
				}
				if p.Direction&DirInOut == 0 || p.Direction&^DirInOut != 0 {
					return errors.InvalidModel(append(mpath, p.Name), "invalid direction %d", p.Direction)
				}
				if c.Type(p.Type).Kind == KindVoid {
					return errors.InvalidModel(append(mpath, p.Name), "parameter of type void")
				}
				if m.IsOneway() && p.Direction.IsOut() {
					return errors.InvalidModel(append(mpath, p.Name), "oneway method has %s parameter", p.Direction)
				}
			}
		}
	}
	return nil
}

// Builder assembles a Component the way a parser front end would: types are
// interned on the fly and declarations are appended in order.
type Builder struct {
	c *Component
}

// NewBuilder returns a builder over an empty component.
func NewBuilder() *Builder {
	return &Builder{c: &Component{}}
}

// Component returns the component built so far.
func (b *Builder) Component() *Component {
	return b.c
}

// Scalar interns a scalar, String or Void type.
func (b *Builder) Scalar(kind TypeKind) TypeHandle {
	return b.c.AddType(Type{Kind: kind})
}

func (b *Builder) Void() TypeHandle       { return b.Scalar(KindVoid) }
func (b *Builder) Boolean() TypeHandle    { return b.Scalar(KindBoolean) }
func (b *Builder) Integer() TypeHandle    { return b.Scalar(KindInteger) }
func (b *Builder) Long() TypeHandle       { return b.Scalar(KindLong) }
func (b *Builder) StringType() TypeHandle { return b.Scalar(KindString) }

func (b *Builder) Array(elem TypeHandle) TypeHandle {
	return b.c.AddType(Type{Kind: KindArray, Nested: []TypeHandle{elem}})
}

func (b *Builder) List(elem TypeHandle) TypeHandle {
	return b.c.AddType(Type{Kind: KindList, Nested: []TypeHandle{elem}})
}

func (b *Builder) Map(key, value TypeHandle) TypeHandle {
	return b.c.AddType(Type{Kind: KindMap, Nested: []TypeHandle{key, value}})
}

// Unknown interns a node of a kind the model format does not define.
func (b *Builder) Unknown(kindName string) TypeHandle {
	return b.c.AddType(Type{Kind: KindUnknown, KindName: kindName})
}

// Sequenceable declares a sequenceable and returns its type handle.
func (b *Builder) Sequenceable(namespace, name string) TypeHandle {
	for i, s := range b.c.Sequenceables {
		if s.Namespace == namespace && s.Name == name {
			return b.c.AddType(Type{Kind: KindSequenceable, Ref: i})
		}
	}
	b.c.Sequenceables = append(b.c.Sequenceables, Sequenceable{Name: name, Namespace: namespace})
	return b.c.AddType(Type{Kind: KindSequenceable, Ref: len(b.c.Sequenceables) - 1})
}

// Interface declares an interface and returns its index.
func (b *Builder) Interface(namespace, name string, external bool) int {
	b.c.Interfaces = append(b.c.Interfaces, Interface{Name: name, Namespace: namespace, External: external})
	return len(b.c.Interfaces) - 1
}

// InterfaceType returns the type handle referring to interface i.
func (b *Builder) InterfaceType(i int) TypeHandle {
	return b.c.AddType(Type{Kind: KindInterface, Ref: i})
}

// License sets the license text of interface i.
func (b *Builder) License(i int, text string) {
	b.c.Interfaces[i].License = text
}

// Method appends a method to interface i and returns its method index.
func (b *Builder) Method(i int, name string, ret TypeHandle, props Property, params ...Parameter) int {
	iface := &b.c.Interfaces[i]
	iface.Methods = append(iface.Methods, Method{
		Name:       name,
		Parameters: params,
		ReturnType: ret,
		Properties: props,
	})
	return len(iface.Methods) - 1
}

// In, Out and InOut build parameters.
func In(name string, t TypeHandle) Parameter    { return Parameter{Name: name, Type: t, Direction: DirIn} }
func Out(name string, t TypeHandle) Parameter   { return Parameter{Name: name, Type: t, Direction: DirOut} }
func InOut(name string, t TypeHandle) Parameter { return Parameter{Name: name, Type: t, Direction: DirInOut} }
