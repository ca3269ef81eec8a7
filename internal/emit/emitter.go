// Package emit assembles the generated TypeScript files and writes them to
// disk.
package emit

import (
	"fmt"
	"strings"
)

// Emitter builds TypeScript source code with proper indentation.
type Emitter struct {
	buf    strings.Builder
	indent int
}

// NewEmitter creates a new TypeScript code emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Line writes a single line of code at the current indentation level.
func (e *Emitter) Line(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if line == "" {
		e.buf.WriteByte('\n')
		return
	}
	e.writeIndent()
	e.buf.WriteString(line)
	e.buf.WriteByte('\n')
}

// Raw writes s verbatim followed by a newline. Multi-line generated
// declarations go through Raw so their own line breaks are kept.
func (e *Emitter) Raw(s string) {
	e.buf.WriteString(s)
	e.buf.WriteByte('\n')
}

// Blank writes an empty line.
func (e *Emitter) Blank() {
	e.buf.WriteByte('\n')
}

// Doc writes lines as a JSDoc comment: a single line becomes "/** x */".
// Nothing is written when lines is empty.
func (e *Emitter) Doc(lines []string) {
	switch len(lines) {
	case 0:
		return
	case 1:
		e.Line("/** %s */", lines[0])
		return
	}
	e.Line("/**")
	for _, l := range lines {
		if l == "" {
			e.Line(" *")
		} else {
			e.Line(" * %s", l)
		}
	}
	e.Line(" */")
}

// Indent increases the indentation level.
func (e *Emitter) Indent() {
	e.indent++
}

// Dedent decreases the indentation level.
func (e *Emitter) Dedent() {
	if e.indent > 0 {
		e.indent--
	}
}

// String returns the accumulated source code.
func (e *Emitter) String() string {
	return e.buf.String()
}

func (e *Emitter) writeIndent() {
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString("  ")
	}
}

// docLines splits a description into JSDoc lines, dropping surrounding
// blank lines and any "*/" that would end the comment early.
func docLines(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "*/", "*\\/")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return lines
}
