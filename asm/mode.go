// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "strings"

// Pseudo-modes produced by the X and Y markers. They resolve to a zero-page
// or absolute indexed mode once the operand value is known.
const (
	genericX Mode = modeCount + iota
	genericY
	noMarker
)

type modeMarker struct {
	text string
	mode Mode
}

// Operand prefixes selecting an addressing mode, in match order.
var modePrefixes = []modeMarker{
	{"#", IM},
	{"I,", IM},
	{"ZX,", ZX},
	{"ZY,", ZY},
	{"Z,", ZP},
	{"X,", genericX},
	{"Y,", genericY},
	{"NY,", IY},
	{"NX,", IX},
	{"AX,", AX},
	{"AY,", AY},
	{"A,", AB},
}

// Operand suffixes selecting an indexed addressing mode, in match order.
var modeSuffixes = []modeMarker{
	{"(X)", genericX},
	{"(Y)", genericY},
	{"(X", genericX},
	{"(Y", genericY},
}

// Return the operand expression with its addressing mode marker removed.
func removeModeMarker(operand string) string {
	operand = strings.TrimPrefix(operand, "@")
	for _, m := range modePrefixes {
		if strings.HasPrefix(operand, m.text) {
			return operand[len(m.text):]
		}
	}
	for _, m := range modeSuffixes {
		if strings.HasSuffix(operand, m.text) {
			return operand[:len(operand)-len(m.text)]
		}
	}
	return operand
}

// Return the mode selected by the operand's marker, or noMarker.
func markedMode(operand string) Mode {
	for _, m := range modePrefixes {
		if strings.HasPrefix(operand, m.text) {
			return m.mode
		}
	}
	for _, m := range modeSuffixes {
		if strings.HasSuffix(operand, m.text) {
			return m.mode
		}
	}
	return noMarker
}

func zeroPage(v Value) bool {
	return v.IsKnown() && v.Float() < 0x100
}

// InferMode determines the addressing mode of an instruction from its
// mnemonic, its operand text (including any mode marker) and the operand's
// evaluated value. It returns false if the mnemonic does not support the
// selected mode.
func (s *InstructionSet) InferMode(name, operand string, v Value) (Mode, bool) {
	mode := s.inferMode(name, operand, v)
	return mode, s.Has(name, mode)
}

func (s *InstructionSet) inferMode(name, operand string, v Value) Mode {
	switch {
	case s.Has(name, RE):
		return RE
	case s.Has(name, IP):
		return IP
	case s.Has(name, AC) && operand == "":
		return AC
	}

	if strings.HasPrefix(operand, "@") {
		switch {
		case strings.HasSuffix(operand, "(Y)"):
			return IY
		case strings.HasSuffix(operand, "(X)"):
			return IX
		case s.Has(name, ID) && markedMode(operand[1:]) == noMarker:
			return ID
		}
	}

	switch mode := markedMode(operand); mode {
	case genericX:
		if zeroPage(v) && s.Has(name, ZX) {
			return ZX
		}
		return AX
	case genericY:
		if zeroPage(v) && s.Has(name, ZY) {
			return ZY
		}
		return AY
	case noMarker:
		if zeroPage(v) && name[0] != 'J' && s.Has(name, ZP) {
			return ZP
		}
		return AB
	default:
		return mode
	}
}

// Encode an instruction's operand. The pc is the address immediately
// following the opcode byte.
func encodeOperand(mode Mode, v Value, pc int) []byte {
	word := v.Int()
	switch mode {
	case IM, ZP, ZX, ZY, IX, IY:
		return []byte{byte(word)}
	case AB, AX, AY, ID:
		return []byte{byte(word), byte(word >> 8)}
	case RE:
		if word >= pc {
			return []byte{byte(word - pc - 1)}
		}
		return []byte{byte((pc - word) ^ 0xff)}
	default:
		return nil
	}
}
