// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package listing formats the assembly listing produced by the asm
// package.
package listing

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/at6502/asm"
	"github.com/beevik/term"
)

// Column at which the source text of a code line starts.
const textColumn = 43

// A Listing collects the lines of an assembly listing. Lines are kept only
// during the final pass, but errors are always kept and echoed to the
// console. A Listing implements asm.Listing.
type Listing struct {
	lines   []string
	enabled bool
	console io.Writer // echo target, or nil
	errOut  io.Writer // error echo target
	width   int       // console width for truncation, 0 for none
}

var _ asm.Listing = (*Listing)(nil)

// New creates a listing. When console is non-nil every listing line is
// echoed to it. Errors are echoed to errOut, or to console when errOut is
// nil.
func New(console, errOut io.Writer) *Listing {
	if errOut == nil {
		errOut = console
	}
	return &Listing{console: console, errOut: errOut}
}

// NewStdout creates a listing that echoes to standard output when echo is
// set, and always echoes errors there. When standard output is a terminal,
// echoed lines are truncated to its width.
func NewStdout(echo bool) *Listing {
	l := New(nil, os.Stdout)
	if echo {
		l.console = os.Stdout
	}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			l.width = w
		}
	}
	return l
}

// SetWidth sets the width to which echoed lines are truncated. A width of
// zero disables truncation.
func (l *Listing) SetWidth(w int) {
	l.width = w
}

// Lines returns the lines of the listing.
func (l *Listing) Lines() []string {
	return l.lines
}

// WriteTo writes the listing, one line per row.
func (l *Listing) WriteTo(w io.Writer) (n int64, err error) {
	bw := bufio.NewWriter(w)
	for _, line := range l.lines {
		nn, err := fmt.Fprintln(bw, line)
		n += int64(nn)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

func (l *Listing) add(line string) {
	if l.enabled {
		l.lines = append(l.lines, line)
	}
	if l.console != nil {
		l.echo(l.console, line)
	}
}

func (l *Listing) echo(w io.Writer, line string) {
	if l.width > 0 && len(line) > l.width {
		line = line[:l.width]
	}
	fmt.Fprintln(w, line)
}

// Pass starts a new pass. Only the lines of pass 2 are kept.
func (l *Listing) Pass(n int) {
	l.enabled = n == 2
}

// Line adds a code line. Lines that produced no bytes are not listed.
func (l *Listing) Line(file string, line, pc int, b []byte, text string) {
	if len(b) == 0 {
		return
	}
	l.add(FormatLine(line, pc, b, text))
}

// FormatLine formats a code line: the line number, the address, the bytes
// and the source text aligned to a fixed column.
func FormatLine(line, pc int, b []byte, text string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%6d  %04X    ", line, pc)
	for _, v := range b {
		fmt.Fprintf(&sb, "%02X ", v)
	}
	if pad := textColumn - sb.Len(); pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	sb.WriteString(text)
	return sb.String()
}

// Label adds a global label line.
func (l *Listing) Label(name string) {
	l.add(name + ":")
}

// PseudoOp adds a pseudo-op line as written.
func (l *Listing) PseudoOp(text string) {
	l.add(text)
}

// Comment adds a comment line.
func (l *Listing) Comment(text string) {
	l.add(";" + text)
}

// MacroCall adds the line invoking a macro.
func (l *Listing) MacroCall(text string) {
	l.add(text)
}

// Message adds an informational line, such as a pass marker.
func (l *Listing) Message(text string) {
	l.add(text)
}

// FileSwitch marks the start of lines from another file.
func (l *Listing) FileSwitch(name string) {
	l.add("------- FILE " + name)
}

// Error adds the offending source line and the error message. Errors are
// kept regardless of pass.
func (l *Listing) Error(err *asm.Error) {
	msg := fmt.Sprintf("ERROR [%s:%d]: %s", err.File, err.Line, err.Error())
	l.lines = append(l.lines, err.Text, msg)
	if l.errOut != nil {
		l.echo(l.errOut, err.Text)
		l.echo(l.errOut, msg)
	}
}
