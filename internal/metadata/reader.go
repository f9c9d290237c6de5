// The package used for describing and loading the IDL type model.
package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"idlgen/errors"
)

// Reader gives lookup access to a loaded component.
type Reader struct {
	component *Component
	source    string
}

// The JSON document produced by the parser front end.
type document struct {
	FormatVersion string            `json:"formatVersion"`
	Types         []typeDoc         `json:"types"`
	Sequenceables []sequenceableDoc `json:"sequenceables"`
	Interfaces    []interfaceDoc    `json:"interfaces"`
}

type typeDoc struct {
	Kind   string `json:"kind"`
	Nested []int  `json:"nested,omitempty"`
	Ref    int    `json:"ref,omitempty"`
}

type sequenceableDoc struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
}

type interfaceDoc struct {
	Name      string      `json:"name"`
	Namespace string      `json:"namespace"`
	License   string      `json:"license,omitempty"`
	External  bool        `json:"external,omitempty"`
	Methods   []methodDoc `json:"methods"`
}

type methodDoc struct {
	Name       string         `json:"name"`
	ReturnType int            `json:"returnType"`
	Properties []string       `json:"properties,omitempty"`
	Parameters []parameterDoc `json:"parameters"`
}

type parameterDoc struct {
	Name      string `json:"name"`
	Type      int    `json:"type"`
	Direction string `json:"direction"`
}

// NewReader loads the model at path, which may be a file or an http(s) URL.
func NewReader(path string) (*Reader, error) {
	component, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Reader{component: component, source: path}, nil
}

// NewReaderFor wraps an already built component.
func NewReaderFor(component *Component) *Reader {
	return &Reader{component: component}
}

// Component returns the loaded component.
func (reader *Reader) Component() *Component {
	return reader.component
}

// Load reads and validates a model from a file or an http(s) URL.
func Load(path string) (*Component, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		data, err := Fetch(path)
		if err != nil {
			return nil, err
		}
		return Decode(bytes.NewReader(data))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseLoad, path, err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode parses a JSON model document, checks its format version and
// validates the resulting component.
func Decode(r io.Reader) (*Component, error) {
	var doc document
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "decode model document")
	}

	if err := CheckFormatVersion(doc.FormatVersion); err != nil {
		return nil, err
	}

	component, err := doc.component()
	if err != nil {
		return nil, err
	}
	if err := component.Validate(); err != nil {
		return nil, err
	}
	return component, nil
}

func (doc *document) component() (*Component, error) {
	component := &Component{
		Types:         make([]Type, 0, len(doc.Types)),
		Sequenceables: make([]Sequenceable, 0, len(doc.Sequenceables)),
		Interfaces:    make([]Interface, 0, len(doc.Interfaces)),
	}

	// Handles in the document are positions in the type table, so nodes are
	// copied as they are instead of being interned.
	for _, t := range doc.Types {
		node := Type{Kind: ParseTypeKind(t.Kind), Ref: t.Ref}
		if node.Kind == KindUnknown {
			node.KindName = t.Kind
		}
		for _, n := range t.Nested {
			node.Nested = append(node.Nested, TypeHandle(n))
		}
		component.Types = append(component.Types, node)
	}

	for _, s := range doc.Sequenceables {
		component.Sequenceables = append(component.Sequenceables, Sequenceable(s))
	}

	for i, in := range doc.Interfaces {
		iface := Interface{
			Name:      in.Name,
			Namespace: in.Namespace,
			License:   in.License,
			External:  in.External,
		}
		for _, m := range in.Methods {
			method := Method{Name: m.Name, ReturnType: TypeHandle(m.ReturnType)}
			for _, prop := range m.Properties {
				switch strings.ToLower(prop) {
				case "oneway":
					method.Properties |= PropOneway
				default:
					return nil, errors.InvalidModel([]string{fmt.Sprintf("interfaces[%d]", i), m.Name}, "unknown method property %q", prop)
				}
			}
			for _, p := range m.Parameters {
				dir, err := parseDirection(p.Direction)
				if err != nil {
					return nil, errors.InvalidModel([]string{fmt.Sprintf("interfaces[%d]", i), m.Name, p.Name}, "%v", err)
				}
				method.Parameters = append(method.Parameters, Parameter{Name: p.Name, Type: TypeHandle(p.Type), Direction: dir})
			}
			iface.Methods = append(iface.Methods, method)
		}
		component.Interfaces = append(component.Interfaces, iface)
	}

	return component, nil
}

func parseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.ReplaceAll(s, " ", "")) {
	case "", "in":
		return DirIn, nil
	case "out":
		return DirOut, nil
	case "inout", "in|out", "in,out":
		return DirInOut, nil
	default:
		return 0, fmt.Errorf("unknown parameter direction %q", s)
	}
}

// Tries to get the interface with given name. The name may be qualified with
// its namespace.
func (reader *Reader) TryGetInterface(name string) (element *Interface, found bool) {
	element = findElement(reader.component.Interfaces, func(iface *Interface) bool {
		return iface.Name == name || iface.FullName() == name
	})
	return element, element != nil
}

// Tries to get the sequenceable with given name.
func (reader *Reader) TryGetSequenceable(name string) (element *Sequenceable, found bool) {
	element = findElement(reader.component.Sequenceables, func(s *Sequenceable) bool {
		return s.Name == name || s.FullName() == name
	})
	return element, element != nil
}

// Primary returns the index of the first interface that is declared rather
// than merely referenced.
func (reader *Reader) Primary() (int, bool) {
	for i := range reader.component.Interfaces {
		if !reader.component.Interfaces[i].External {
			return i, true
		}
	}
	return -1, false
}

// Declared returns the indices of every non-external interface in declaration order.
func (reader *Reader) Declared() []int {
	var indices []int
	for i := range reader.component.Interfaces {
		if !reader.component.Interfaces[i].External {
			indices = append(indices, i)
		}
	}
	return indices
}

// IndexOf returns the position of iface in the interface table.
func (reader *Reader) IndexOf(iface *Interface) int {
	for i := range reader.component.Interfaces {
		if &reader.component.Interfaces[i] == iface {
			return i
		}
	}
	return -1
}

// Finds element in given table and returns it. If element is not found then `nil` is returned.
func findElement[T any](table []T, match func(*T) bool) *T {
	for idx := range table {
		if match(&table[idx]) {
			return &table[idx]
		}
	}
	return nil
}
