// Package naming derives file paths, constant names, include guards and
// proxy/stub class names from namespaced IDL identifiers. Every function is
// pure: proxy and stub generation agree on names without sharing state.
package naming

import (
	"strings"
	"unicode"
)

// FileName maps a dotted name to a slash-separated path. Within each segment
// an underscore is inserted before every lower-to-upper case transition and
// the result is lower-cased; the first letter of a segment never gets one.
//
//	FileName("pkg.sub.FooBarBaz") == "pkg/sub/foo_bar_baz"
func FileName(name string) string {
	if name == "" {
		return name
	}

	var b strings.Builder
	b.Grow(len(name) + 4)

	var prev rune
	for i, c := range name {
		switch {
		case c == '.':
			b.WriteByte('/')
		case unicode.IsUpper(c):
			if i > 0 && prev != '.' && unicode.IsLower(prev) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(c))
		default:
			b.WriteRune(c)
		}
		prev = c
	}
	return b.String()
}

// ConstantName maps an identifier to UPPER_SNAKE_CASE. An underscore precedes
// each run of capitals that does not start the identifier.
//
//	ConstantName("fooBar") == "FOO_BAR"
func ConstantName(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)

	var prev rune
	for i, c := range name {
		if unicode.IsUpper(c) && i > 0 && !unicode.IsUpper(prev) && prev != '_' {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(c))
		prev = c
	}
	return b.String()
}

// MacroName derives an include guard from a dotted name.
//
//	MacroName("ohos.demo.IPing") == "OHOS_DEMO_IPING_H"
func MacroName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(strings.ReplaceAll(name, ".", "_")) + "_H"
}

// ProxyName returns the client class name for an interface name.
func ProxyName(interfaceName string) string {
	return baseName(interfaceName) + "Proxy"
}

// StubName returns the server class name for an interface name.
func StubName(interfaceName string) string {
	return baseName(interfaceName) + "Stub"
}

func baseName(interfaceName string) string {
	if strings.HasPrefix(interfaceName, "I") {
		return interfaceName[1:]
	}
	return interfaceName
}

// Segments splits a dotted namespace into its parts.
func Segments(namespace string) []string {
	if namespace == "" {
		return nil
	}
	return strings.Split(namespace, ".")
}
