// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// A Value is the result of evaluating an expression. It is either a known
// number or undefined, the latter meaning the expression referred to a
// symbol that has not been defined yet.
type Value struct {
	n     float64
	known bool
}

// Undefined is the value of an expression that refers to an undefined
// symbol.
var Undefined = Value{}

// Known returns a defined value.
func Known(n float64) Value {
	return Value{n: n, known: true}
}

// IsKnown reports whether the value is defined.
func (v Value) IsKnown() bool {
	return v.known
}

// Float returns the numeric value, or 0 if undefined.
func (v Value) Float() float64 {
	return v.n
}

// Int returns the value truncated toward zero, or 0 if undefined.
func (v Value) Int() int {
	if !v.known {
		return 0
	}
	return int(v.n)
}

// Word returns the low 16 bits of the truncated value.
func (v Value) Word() uint16 {
	return uint16(v.Int())
}

// Byte returns the low 8 bits of the truncated value.
func (v Value) Byte() byte {
	return byte(v.Int())
}

// Equal reports whether both values are undefined or both are defined and
// equal.
func (v Value) Equal(o Value) bool {
	return v.known == o.known && v.n == o.n
}

func (v Value) String() string {
	if !v.known {
		return "undefined"
	}
	return strconv.FormatFloat(v.n, 'f', -1, 64)
}

// evalMode controls how an expression referring to undefined symbols is
// resolved.
type evalMode int

const (
	// Undefined results become 0.
	evalZero evalMode = iota

	// Undefined results are returned as Undefined.
	evalTolerate

	// Like evalTolerate, but undefined symbols are never reported, even
	// when the evaluator is strict. Used by definedness conditions.
	evalProbe
)

// An Evaluator computes expression values against a symbol table. Operators
// are applied strictly left to right with no precedence.
type Evaluator struct {
	Symbols *SymbolTable
	Scope   string // scope used to resolve local labels
	Radix   int    // radix of bare numbers: 2, 10 or 16

	// When Strict is set, references to undefined symbols are reported
	// through OnUndefined and the expression yields 0.
	Strict      bool
	OnUndefined func(name string)
}

// Eval computes the value of an expression. Undefined symbols produce an
// Undefined result unless the evaluator is strict.
func (e *Evaluator) Eval(expr string) (Value, error) {
	return e.eval(expr, evalTolerate)
}

func (e *Evaluator) eval(expr string, mode evalMode) (Value, error) {
	s := exprScanner{e: e, mode: mode}
	v, err := s.expression(newFstring(strings.TrimSpace(expr)))
	if err != nil {
		return Undefined, err
	}

	switch {
	case s.undefined && e.Strict && mode == evalZero:
		return Known(0), nil
	case !v.known && mode == evalZero:
		return Known(0), nil
	default:
		return v, nil
	}
}

// An exprScanner holds the state of a single top-level evaluation.
type exprScanner struct {
	e         *Evaluator
	mode      evalMode
	undefined bool // an undefined symbol was referenced
}

func (s *exprScanner) expression(l fstring) (Value, error) {
	l = trimFstring(l)
	if l.isEmpty() {
		return Undefined, nil
	}

	var result Value
	var op byte
	for first := true; ; first = false {
		l = trimFstring(l)

		negate := false
		if l.startsWithChar('-') {
			negate = true
			for l.startsWithChar('-') {
				l = l.consume(1)
			}
			l = l.consumeWhitespace()
		}

		v, remain, err := s.primary(l)
		if err != nil {
			return Undefined, err
		}
		l = trimFstring(remain)

		if negate && v.known {
			v = Known(float64((int(v.n) ^ 0xffff) + 1))
		}

		if first {
			result = v
		} else {
			result, err = applyOp(op, result, v)
			if err != nil {
				return Undefined, err
			}
		}

		if l.isEmpty() {
			return result, nil
		}

		op = l.str[0]
		if !binaryOp(op) {
			return Undefined, exprError(UnknownOperator, "unknown operator '%c'", op)
		}
		l = l.consume(1)
		if trimFstring(l).isEmpty() {
			return Undefined, exprError(InvalidExpression, "missing operand after '%c'", op)
		}
	}
}

func (s *exprScanner) primary(l fstring) (v Value, remain fstring, err error) {
	switch {
	case l.startsWithString("^H") && len(l.str) > 2 && hexadecimal(l.str[2]):
		digits, remain := l.consume(2).consumeWhile(hexadecimal)
		n, err := strconv.ParseInt(digits.str, 16, 32)
		if err != nil {
			return Undefined, l, exprError(InvalidExpression, "invalid hex number '%s'", digits.str)
		}
		return Known(float64(n)), remain, nil

	case l.startsWithString("^B") && len(l.str) > 2 && binarynum(l.str[2]):
		digits, remain := l.consume(2).consumeWhile(binarynum)
		n, err := strconv.ParseUint(digits.str, 2, 16)
		if err != nil {
			return Undefined, l, exprError(InvalidExpression, "invalid binary number '%s'", digits.str)
		}
		return Known(float64(n)), remain, nil

	case scanLocalLabel(l.str) > 0:
		n := scanLocalLabel(l.str)
		name := l.str[:n]
		return s.symbol(s.e.Symbols.LookupLocal(name, s.e.Scope), name), l.consume(n), nil

	case l.startsWith(decimal):
		num, remain := l.consumeWhile(numberChar)
		v, err := s.number(num.str)
		return v, remain, err

	case l.startsWith(identifierStartChar):
		n := scanIdentifier(l.str)
		name := l.str[:n]
		return s.symbol(s.e.Symbols.Lookup(name), name), l.consume(n), nil

	case l.startsWithChar('<'):
		close := matchingBracket(l.str)
		if close < 0 {
			return Undefined, l, exprError(InvalidExpression, "unbalanced '<' at column %d", l.column+1)
		}
		v, err := s.expression(l.consume(1).trunc(close - 1))
		return v, l.consume(close + 1), err

	default:
		if l.isEmpty() {
			return Undefined, l, exprError(InvalidExpression, "missing operand")
		}
		return Undefined, l, exprError(InvalidExpression, "unexpected '%c' at column %d", l.str[0], l.column+1)
	}
}

// Resolve a symbol reference, recording references to undefined symbols.
func (s *exprScanner) symbol(sym *Symbol, name string) Value {
	if sym != nil && sym.Value.known {
		return sym.Value
	}
	s.undefined = true
	if s.e.Strict && s.mode != evalProbe && s.e.OnUndefined != nil {
		s.e.OnUndefined(name)
	}
	return Undefined
}

// Convert a bare number. Numbers containing a '.' are always decimal;
// others use the active radix.
func (s *exprScanner) number(num string) (Value, error) {
	if strings.IndexByte(num, '.') >= 0 {
		f, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return Undefined, exprError(InvalidExpression, "invalid decimal number '%s'", num)
		}
		return Known(f), nil
	}

	var n uint64
	var err error
	switch s.e.Radix {
	case 16:
		n, err = strconv.ParseUint(num, 16, 16)
	case 2:
		n, err = strconv.ParseUint(num, 2, 32)
	default:
		n, err = strconv.ParseUint(num, 10, 64)
	}
	if err != nil {
		return Undefined, exprError(InvalidExpression, "invalid number '%s' in radix %d", num, s.e.Radix)
	}
	return Known(float64(n)), nil
}

func trimFstring(l fstring) fstring {
	l = l.consumeWhitespace()
	return l.trunc(len(strings.TrimRight(l.str, " \t")))
}

// Return the index of the '>' closing the '<' at the start of s, or -1 if
// the brackets do not balance.
func matchingBracket(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func binaryOp(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '&', '!', '\\':
		return true
	default:
		return false
	}
}

func applyOp(op byte, a, b Value) (Value, error) {
	if !a.known || !b.known {
		return Undefined, nil
	}

	switch op {
	case '+':
		return Known(a.n + b.n), nil
	case '-':
		return Known(a.n - b.n), nil
	case '*':
		return Known(a.n * b.n), nil
	case '/':
		if b.n == 0 {
			return Undefined, exprError(InvalidExpression, "division by zero")
		}
		return Known(a.n / b.n), nil
	case '&':
		return Known(float64(int(a.n) & int(b.n))), nil
	case '!':
		return Known(float64(int(a.n) | int(b.n))), nil
	case '\\':
		return Known(float64(int(a.n) ^ int(b.n))), nil
	default:
		return Undefined, exprError(UnknownOperator, "unknown operator '%c'", op)
	}
}

// exprError creates an error without location information. The assembler
// fills in the location when it records the error.
func exprError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
