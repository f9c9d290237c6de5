// Package codewriter accumulates indented source text for dialects that are
// not emitted through a syntax-tree builder.
package codewriter

import (
	"fmt"
	"io"
	"strings"
)

// DefaultIndent is four spaces, the layout of the C++ binder sources.
const DefaultIndent = "    "

type Writer struct {
	sb        strings.Builder
	indent    int
	indentStr string
}

func New() *Writer {
	return &Writer{indentStr: DefaultIndent}
}

// Line writes one line at the current indentation. An empty line is written
// without trailing whitespace.
func (w *Writer) Line(s string) {
	if s != "" {
		for range w.indent {
			w.sb.WriteString(w.indentStr)
		}
		w.sb.WriteString(s)
	}
	w.sb.WriteByte('\n')
}

func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

func (w *Writer) Blank() {
	w.sb.WriteByte('\n')
}

// Raw appends text verbatim, without indentation.
func (w *Writer) Raw(s string) {
	w.sb.WriteString(s)
}

func (w *Writer) Indent() { w.indent++ }

func (w *Writer) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

// Block writes head followed by " {", runs body one level deeper and closes
// the brace with tail appended (e.g. ";" for class declarations).
func (w *Writer) Block(head, tail string, body func()) {
	w.Line(head + " {")
	w.Indent()
	body()
	w.Dedent()
	w.Line("}" + tail)
}

// Depth reports the current indentation level.
func (w *Writer) Depth() int {
	return w.indent
}

func (w *Writer) String() string {
	return w.sb.String()
}

// WriteTo flushes the accumulated text to out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	n, err := io.WriteString(out, w.sb.String())
	return int64(n), err
}
