// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"strings"
)

// A conditionState records one entry of the conditional assembly stack.
type conditionState struct {
	line       string
	lineNumber int
	eval       bool // lines in the block are assembled
	sub        bool // pushed by .IFT, .IFF or .IFTF
	suppress   bool // inside a false block; nothing nested is evaluated
}

type repeatKind byte

const (
	countRepeat   repeatKind = iota // .REPT
	replaceRepeat                   // .IRP
)

// A repeat records one entry of the repeat stack.
type repeat struct {
	kind        repeatKind
	remaining   int      // countRepeat: iterations left
	index       int      // replaceRepeat: index of the current value
	placeholder string   // replaceRepeat: token to replace
	values      []string // replaceRepeat: replacement values
	startLine   int      // cursor of the first line of the body
}

// Return the next line for the driver to assemble, after expanding
// repeats, conditionals and macro definitions. The second return value is
// false at the end of input. A non-nil error belongs to the last line read
// and does not stop preprocessing.
func (a *Assembler) nextLine() (string, bool, error) {
	for {
		raw, ok := a.segs.next()
		if !ok {
			if !a.segs.resume() {
				return "", false, nil
			}
			continue
		}

		if isCommentLine(raw) {
			return raw, true, nil
		}

		line := stripTrailingComment(raw)

		if isDirective(line, ".ENDR") || isDirective(line, ".ENDM") {
			a.endRepeat()
			continue
		}

		if rest, ok := matchDirective(line, ".REPT"); ok {
			if err := a.beginRepeat(rest); err != nil {
				return raw, true, err
			}
			continue
		}

		if a.repeatZero {
			// A skipped .IRP still owns the next .ENDR.
			if isDirective(line, ".IRP") {
				a.repeats = append(a.repeats, &repeat{kind: replaceRepeat, values: []string{""}})
			}
			continue
		}

		if isDirective(line, ".ENDC") {
			if err := a.endCondition(line); err != nil {
				return raw, true, err
			}
			continue
		}

		if isIf(line) {
			if err := a.beginCondition(line); err != nil {
				return raw, true, err
			}
			continue
		}

		if c := a.topCondition(); c != nil && c.suppress {
			continue
		}

		if isDirective(line, ".IFT") || isDirective(line, ".IFF") || isDirective(line, ".IFTF") {
			if err := a.subCondition(line); err != nil {
				return raw, true, err
			}
			continue
		}

		if c := a.topCondition(); c != nil && !c.eval {
			continue
		}

		raw = a.replaceLine(raw)
		line = stripTrailingComment(raw)

		if rest, ok := matchDirective(line, ".IRP"); ok {
			a.beginIrp(rest)
			continue
		}

		if isDirective(line, ".MACRO") {
			if err := a.defineMacro(line); err != nil {
				return raw, true, err
			}
			continue
		}

		if rest, ok := matchDirective(line, ".IIF"); ok {
			return a.inlineIf(rest)
		}

		return raw, true, nil
	}
}

func isDirective(line, kw string) bool {
	_, ok := matchDirective(line, kw)
	return ok
}

// .IF must be followed by whitespace, which keeps it from matching the
// sub-condition directives.
func isIf(line string) bool {
	return strings.HasPrefix(line, ".IF") && len(line) > 3 && whitespace(line[3])
}

//
// repeats
//

func (a *Assembler) beginRepeat(expr string) error {
	r := &repeat{kind: countRepeat, startLine: a.segs.cursor()}

	var err error
	if !a.repeatZero {
		var v Value
		v, err = a.eval(expr, evalZero)
		r.remaining = v.Int()
	}
	if r.remaining <= 0 {
		r.remaining = 0
		a.repeatZero = true
	}

	a.repeats = append(a.repeats, r)
	return err
}

func (a *Assembler) beginIrp(rest string) {
	placeholder, list, _ := strings.Cut(rest, ",")
	list = strings.TrimSpace(list)
	list = strings.TrimRight(strings.TrimLeft(list, "<"), ">")

	a.repeats = append(a.repeats, &repeat{
		kind:        replaceRepeat,
		placeholder: strings.TrimSpace(placeholder),
		values:      strings.Split(list, ","),
		startLine:   a.segs.cursor(),
	})
}

// Close the innermost repeat, rewinding to its first line when another
// iteration remains.
func (a *Assembler) endRepeat() {
	r := a.topRepeat()
	if r == nil {
		return
	}

	switch r.kind {
	case countRepeat:
		r.remaining--
		if r.remaining <= 0 {
			a.popRepeat()
			a.repeatZero = false
			if t := a.topRepeat(); t != nil && t.kind == countRepeat && t.remaining == 0 {
				a.repeatZero = true
			}
			return
		}
	case replaceRepeat:
		r.index++
		if r.index >= len(r.values) {
			a.popRepeat()
			return
		}
	}
	a.segs.rewind(r.startLine)
}

func (a *Assembler) topRepeat() *repeat {
	if n := len(a.repeats); n > 0 {
		return a.repeats[n-1]
	}
	return nil
}

func (a *Assembler) popRepeat() {
	a.repeats = a.repeats[:len(a.repeats)-1]
}

// Substitute the active .IRP value into a line.
func (a *Assembler) replaceLine(line string) string {
	r := a.topRepeat()
	if r == nil || r.kind != replaceRepeat {
		return line
	}
	return replaceToken(line, r.placeholder, strings.TrimSpace(r.values[r.index]))
}

//
// conditionals
//

func (a *Assembler) topCondition() *conditionState {
	if n := len(a.conditions); n > 0 {
		return a.conditions[n-1]
	}
	return nil
}

func (a *Assembler) beginCondition(line string) error {
	c := &conditionState{line: line, lineNumber: a.segs.lineNumber()}

	var err error
	if top := a.topCondition(); top != nil && !top.eval {
		c.suppress = true
	} else {
		cond, expr, _ := strings.Cut(strings.TrimSpace(line[3:]), ",")
		c.eval, err = a.condition(cond, expr)
	}

	a.conditions = append(a.conditions, c)
	a.listing.PseudoOp(fmt.Sprintf("%s [%v]", line, c.eval))
	return err
}

func (a *Assembler) subCondition(line string) error {
	if top := a.topCondition(); top != nil && top.sub {
		a.conditions = a.conditions[:len(a.conditions)-1]
	}
	parent := a.topCondition()
	if parent == nil {
		return a.error(UnbalancedConditional, "%s without .IF", line)
	}

	c := &conditionState{line: line, lineNumber: a.segs.lineNumber(), sub: true}
	switch {
	case isDirective(line, ".IFTF"):
		c.eval = true
	case isDirective(line, ".IFT"):
		c.eval = parent.eval
	default:
		c.eval = !parent.eval
	}

	a.conditions = append(a.conditions, c)
	a.listing.PseudoOp(fmt.Sprintf("%s [%v]", line, c.eval))
	return nil
}

func (a *Assembler) endCondition(line string) error {
	for c := a.topCondition(); c != nil && c.sub; c = a.topCondition() {
		a.conditions = a.conditions[:len(a.conditions)-1]
	}
	if len(a.conditions) == 0 {
		return a.error(UnbalancedConditional, ".ENDC without .IF")
	}
	a.conditions = a.conditions[:len(a.conditions)-1]
	a.listing.PseudoOp(line)
	return nil
}

// Handle .IIF cond,expr,line. The line is assembled only if the condition
// holds. It may itself contain commas.
func (a *Assembler) inlineIf(rest string) (string, bool, error) {
	parts := strings.SplitN(rest, ",", 3)
	if len(parts) < 2 {
		return "", true, a.error(InvalidExpression, "malformed .IIF")
	}

	ok, err := a.condition(parts[0], parts[1])
	if err != nil || !ok || len(parts) < 3 {
		return "", true, err
	}
	return parts[2], true, nil
}

// Evaluate a condition code against an expression.
func (a *Assembler) condition(cond, expr string) (bool, error) {
	cond = strings.TrimSpace(cond)

	switch cond {
	case "NDF", "B", "NB":
		v, err := a.eval(expr, evalProbe)
		if err != nil {
			return false, err
		}
		if cond == "NB" {
			return v.IsKnown(), nil
		}
		return !v.IsKnown(), nil

	case "IDN":
		return false, nil

	case "NE", "EQ", "GE", "GT", "LT", "LE":
		v, err := a.eval(expr, evalTolerate)
		if err != nil || !v.IsKnown() {
			return false, err
		}
		n := v.Float()
		switch cond {
		case "NE":
			return n != 0, nil
		case "EQ":
			return n == 0, nil
		case "GE":
			return n >= 0, nil
		case "GT":
			return n > 0, nil
		case "LT":
			return n < 0, nil
		default:
			return n <= 0, nil
		}

	default:
		return false, a.error(UnknownComparisonType, "unknown comparison type %s", cond)
	}
}
