// Package writer provides an indentation-aware builder for generated
// TypeScript and JavaScript source.
package writer

import (
	"fmt"
	"strings"
)

// Writer accumulates generated code with automatic line indentation.
type Writer struct {
	sb          strings.Builder
	indentLevel int
	indent      string
	needsIndent bool
}

// New creates a writer using the given indentation unit (generated output
// uses two spaces throughout).
func New(indent string) *Writer {
	return &Writer{indent: indent, needsIndent: true}
}

// Indent increases the indentation level.
func (w *Writer) Indent() { w.indentLevel++ }

// Dedent decreases the indentation level.
func (w *Writer) Dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// Write appends s to the current line, indenting first if the line is fresh.
func (w *Writer) Write(s string) {
	if w.needsIndent && s != "" {
		w.sb.WriteString(strings.Repeat(w.indent, w.indentLevel))
		w.needsIndent = false
	}
	w.sb.WriteString(s)
}

// Line writes s followed by a newline.
func (w *Writer) Line(s string) {
	w.Write(s)
	w.Newline()
}

// Linef writes a formatted line.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Newline terminates the current line.
func (w *Writer) Newline() {
	w.sb.WriteString("\n")
	w.needsIndent = true
}

// Blank inserts an empty line unless the previous line was already empty.
func (w *Writer) Blank() {
	if w.sb.Len() > 0 && !strings.HasSuffix(w.sb.String(), "\n\n") {
		w.Newline()
	}
}

// Block writes opener, runs body at one deeper indentation level, then
// writes closer. Used for braces, parameter objects and template literals.
func (w *Writer) Block(opener, closer string, body func()) {
	w.Line(opener)
	w.Indent()
	body()
	w.Dedent()
	w.Line(closer)
}

// JSDoc writes a JSDoc comment block. A single line collapses to the
// one-line form.
func (w *Writer) JSDoc(lines ...string) {
	if len(lines) == 0 {
		return
	}
	if len(lines) == 1 && !strings.HasPrefix(lines[0], "@") {
		w.Linef("/** %s */", lines[0])
		return
	}
	w.Line("/**")
	for _, line := range lines {
		if line == "" {
			w.Line(" *")
			continue
		}
		w.Linef(" * %s", line)
	}
	w.Line(" */")
}

// String returns the accumulated source.
func (w *Writer) String() string {
	return w.sb.String()
}
