package naming

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Exported returns name with its first letter upper-cased, e.g. "getValue" -> "GetValue".
// A Caser is stateful, so each call gets its own.
func Exported(name string) string {
	return cases.Title(language.Und, cases.NoLower).String(name)
}

// Unexported returns name with its first letter lower-cased.
func Unexported(name string) string {
	for i, c := range name {
		if i == 0 {
			return string(unicode.ToLower(c)) + name[len(string(c)):]
		}
	}
	return name
}

// GoPackageName derives a Go package name from the last namespace segment.
func GoPackageName(namespace string) string {
	segments := Segments(namespace)
	if len(segments) == 0 {
		return "idl"
	}

	var b strings.Builder
	for _, c := range strings.ToLower(segments[len(segments)-1]) {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			b.WriteRune(c)
		}
	}
	name := b.String()
	if name == "" || !unicode.IsLetter(rune(name[0])) || token.IsKeyword(name) {
		return "idl" + name
	}
	return name
}

// Scope hands out local identifiers that are unique within one generated
// function body and never collide with Go keywords or with the builtins
// generated code relies on.
type Scope struct {
	used map[string]bool
}

var predeclared = map[string]bool{
	"bool": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"float32": true, "float64": true, "string": true, "rune": true, "error": true,
	"any": true, "nil": true, "true": true, "false": true,
	"len": true, "make": true, "append": true, "new": true,
}

// NewScope returns a scope in which reserved names are already taken.
func NewScope(reserved ...string) *Scope {
	s := &Scope{used: make(map[string]bool)}
	for _, name := range reserved {
		s.used[name] = true
	}
	return s
}

// Name claims base, or base followed by the smallest free numeric suffix.
func (s *Scope) Name(base string) string {
	if base == "" {
		base = "v"
	}
	if token.IsKeyword(base) || predeclared[base] {
		base += "_"
	}
	if !s.used[base] {
		s.used[base] = true
		return base
	}
	for i := 1; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !s.used[candidate] {
			s.used[candidate] = true
			return candidate
		}
	}
}

// Temp claims a numbered temporary such as "elem1", "elem2".
func (s *Scope) Temp(base string) string {
	for i := 1; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !s.used[candidate] {
			s.used[candidate] = true
			return candidate
		}
	}
}
