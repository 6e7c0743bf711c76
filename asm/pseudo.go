// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
)

type pseudoOpData struct {
	fn    func(a *Assembler, args string, param any) error
	param any
}

var pseudoOps = map[string]pseudoOpData{
	".BYTE":       {fn: (*Assembler).parseData, param: 1},
	".WORD":       {fn: (*Assembler).parseData, param: 2},
	".VCTRS":      {fn: (*Assembler).parseData, param: 2},
	".ASCII":      {fn: (*Assembler).parseASCII},
	".BLKB":       {fn: (*Assembler).parseBlock},
	".RADIX":      {fn: (*Assembler).parseRadix},
	".INCLUDE":    {fn: (*Assembler).parseInclude},
	".DEFSTACK":   {fn: (*Assembler).parseDefStack},
	".PUSH":       {fn: (*Assembler).parsePush},
	".POP":        {fn: (*Assembler).parsePop},
	".GETPOINTER": {fn: (*Assembler).parseGetPointer},
	".ENDM":       {fn: (*Assembler).parseEndRepeat},
	".ERROR":      {fn: (*Assembler).parseError},

	// Listing and linkage controls with no effect on the image.
	".TITLE":   {fn: (*Assembler).parseIgnored},
	".ASECT":   {fn: (*Assembler).parseIgnored},
	".NOCROSS": {fn: (*Assembler).parseIgnored},
	".PRINT":   {fn: (*Assembler).parseIgnored},
	".LIST":    {fn: (*Assembler).parseIgnored},
	".SBTTL":   {fn: (*Assembler).parseIgnored},
	".NLIST":   {fn: (*Assembler).parseIgnored},
	".PAGE":    {fn: (*Assembler).parseIgnored},
	".ENABLE":  {fn: (*Assembler).parseIgnored},
	".ENABL":   {fn: (*Assembler).parseIgnored},
	".GLOBL":   {fn: (*Assembler).parseIgnored},
	".GLOBB":   {fn: (*Assembler).parseIgnored},
	".WARN":    {fn: (*Assembler).parseIgnored},
	".END":     {fn: (*Assembler).parseIgnored},
}

// Dispatch a pseudo-op line. The pseudo-op name occupies the first n
// characters.
func (a *Assembler) pseudoOp(line string, n int) error {
	a.listing.PseudoOp(line)

	name, args := line[:n], strings.TrimSpace(line[n:])
	d, ok := pseudoOps[name]
	if !ok {
		return a.error(UnknownPseudoOp, "unknown pseudo-op %s", name)
	}
	a.logLine(line, "pseudo-op %s", name)
	return d.fn(a, args, d.param)
}

// Split a comma-separated argument list, trimming each entry.
func splitArgs(args string) []string {
	parts := strings.Split(args, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (a *Assembler) parseData(args string, param any) error {
	if args == "" {
		return nil
	}
	unit := param.(int)
	for _, expr := range splitArgs(args) {
		v, err := a.eval(expr, evalZero)
		if err != nil {
			return err
		}
		for _, b := range toBytes(unit, v.Int()) {
			a.emit(b)
		}
	}
	return nil
}

func (a *Assembler) parseASCII(args string, param any) error {
	start := strings.IndexByte(args, '/')
	if start < 0 {
		return a.error(InvalidExpression, "missing string delimiter")
	}
	text := args[start+1:]
	if end := strings.IndexByte(text, '/'); end >= 0 {
		text = text[:end]
	}
	for i := 0; i < len(text); i++ {
		a.emit(text[i])
	}
	return nil
}

func (a *Assembler) parseBlock(args string, param any) error {
	v, err := a.eval(args, evalZero)
	if err != nil {
		return err
	}
	a.setPC(a.pc + v.Int())
	return nil
}

func (a *Assembler) parseRadix(args string, param any) error {
	radix, err := strconv.Atoi(args)
	if err != nil {
		v, err := a.eval(args, evalZero)
		if err != nil {
			return err
		}
		radix = v.Int()
	}
	switch radix {
	case 2, 10, 16:
		a.radix = radix
		return nil
	default:
		return a.error(UnknownRadix, "invalid radix %s", args)
	}
}

func (a *Assembler) parseInclude(args string, param any) error {
	lines, err := a.loader.Load(args)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return a.error(FileNotFound, "include file %s not found", args)
		}
		return a.error(FileReadError, "unable to read include file %s: %v", args, err)
	}

	a.logLine(args, "include %d lines", len(lines))
	a.segs.push(args, lines)
	a.listing.FileSwitch(args)
	return nil
}

func (a *Assembler) parseDefStack(args string, param any) error {
	parts := splitArgs(args)
	if len(parts) < 2 || parts[0] == "" {
		return a.error(InvalidExpression, "expected stack name and size")
	}
	size, err := a.eval(parts[1], evalZero)
	if err != nil {
		return err
	}
	a.stacks[parts[0]] = newStack(parts[0], size.Int())
	return nil
}

// Look up the stack named by the first argument.
func (a *Assembler) lookupStack(args string) (*Stack, []string, error) {
	parts := splitArgs(args)
	s, ok := a.stacks[parts[0]]
	if !ok {
		return nil, nil, a.error(StackNotFound, "stack %s not found", parts[0])
	}
	return s, parts[1:], nil
}

func (a *Assembler) parsePush(args string, param any) error {
	s, exprs, err := a.lookupStack(args)
	if err != nil {
		return err
	}
	for _, expr := range exprs {
		v, err := a.eval(expr, evalZero)
		if err != nil {
			return err
		}
		s.Push(v)
	}
	return nil
}

func (a *Assembler) parsePop(args string, param any) error {
	s, names, err := a.lookupStack(args)
	if err != nil {
		return err
	}
	for _, name := range names {
		v, ok := s.Pop()
		if !ok {
			return a.error(StackNotFound, "stack %s is empty", s.Name)
		}
		a.setVariable(name, v)
	}
	return nil
}

func (a *Assembler) parseGetPointer(args string, param any) error {
	s, names, err := a.lookupStack(args)
	if err != nil {
		return err
	}
	if len(names) == 0 || names[0] == "" {
		return a.error(InvalidExpression, "expected symbol name")
	}
	a.setVariable(names[0], Known(float64(s.Pointer())))
	return nil
}

func (a *Assembler) parseEndRepeat(args string, param any) error {
	a.endRepeat()
	return nil
}

func (a *Assembler) parseError(args string, param any) error {
	return a.error(ErrorDirective, ".ERROR %s", args)
}

func (a *Assembler) parseIgnored(args string, param any) error {
	return nil
}
