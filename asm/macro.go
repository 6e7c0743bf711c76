// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"strings"
)

// A Macro is a named block of source lines defined with .MACRO and .ENDM.
// Parameters beginning with '?' are auto-local: when the caller omits them
// they receive a generated local label.
type Macro struct {
	Name   string
	Params []string
	Lines  []string
}

// The first generated macro-local label number in each pass.
const firstMacroLocal = 30000

// Capture a macro definition. The .MACRO line has already been read; the
// body extends to the matching .ENDM.
func (a *Assembler) defineMacro(line string) error {
	rest, _ := matchDirective(line, ".MACRO")
	n := scanIdentifier(rest)
	name := rest[:n]

	m := &Macro{Name: name, Params: splitList(rest[n:])}

	nesting := 0
	for {
		raw, ok := a.segs.next()
		if !ok {
			break
		}
		raw = a.replaceLine(raw)

		stripped := stripTrailingComment(raw)
		if _, ok := matchDirective(stripped, ".MACRO"); ok {
			nesting++
		}
		if _, ok := matchDirective(stripped, ".ENDM"); ok {
			nesting--
			if nesting < 0 {
				break
			}
		}
		m.Lines = append(m.Lines, raw)
	}

	if name == "" {
		return a.error(InvalidExpression, "missing macro name")
	}

	// Pass 2 reads every definition a second time.
	if _, found := a.macros[name]; !found {
		a.macros[name] = m
		a.log("macro %s defined with %d params and %d lines", name, len(m.Params), len(m.Lines))
	}
	return nil
}

// Expand a macro call, pushing the expanded body as a new segment.
func (a *Assembler) invokeMacro(line string) error {
	a.listing.MacroCall(line)

	line = strings.TrimSpace(line)
	n := scanIdentifier(line)
	name := line[:n]
	m, found := a.macros[name]
	if n == 0 || !found {
		return a.error(UnknownMacro, "unknown macro %s", firstField(line))
	}

	args := splitList(line[n:])
	repl := make(map[string]string, len(m.Params))
	for i, p := range m.Params {
		var v string
		switch {
		case i < len(args):
			v = args[i]
		case strings.HasPrefix(p, "?"):
			v = fmt.Sprintf("%d$", a.macroLocal)
			a.macroLocal++
		}
		repl[strings.TrimPrefix(p, "?")] = v
	}

	lines := make([]string, len(m.Lines))
	for i, l := range m.Lines {
		lines[i] = substitute(l, repl)
	}

	a.logLine(line, "expand macro %s", name)
	a.segs.push(name, lines)
	return nil
}

// Return the first whitespace-delimited field of s.
func firstField(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return s
}
