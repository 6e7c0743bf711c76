// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferMode(t *testing.T) {
	tests := []struct {
		name    string
		operand string
		value   Value
		mode    Mode
	}{
		{"BCC", "^H1000", Known(0x1000), RE},
		{"NOP", "", Known(0), IP},
		{"ASL", "", Known(0), AC},
		{"ADC", "#10", Known(10), IM},
		{"ADC", "I,10", Known(10), IM},
		{"ADC", "Z,10", Known(10), ZP},
		{"ADC", "ZX,10", Known(10), ZX},
		{"LDX", "ZY,10", Known(10), ZY},
		{"ADC", "X,^H1000", Known(0x1000), AX},
		{"ADC", "Y,^H1000", Known(0x1000), AY},
		{"ADC", "X,^H10", Known(0x10), ZX},
		{"LDX", "Y,^H10", Known(0x10), ZY},
		{"ADC", "Y,^H10", Known(0x10), AY},
		{"ADC", "10(X)", Known(10), ZX},
		{"ADC", "10(Y)", Known(10), AY},
		{"ADC", "AX,10", Known(10), AX},
		{"ADC", "AY,10", Known(10), AY},
		{"ADC", "A,10", Known(10), AB},
		{"ADC", "10", Known(10), ZP},
		{"ADC", "FWD", Undefined, AB},
		{"ADC", "X,FWD", Undefined, AX},
		{"JMP", "^H10", Known(0x10), AB},
		{"JMP", "@TEMP", Known(0x10), ID},
		{"LDA", "@TEMP(X)", Known(0x10), IX},
		{"LDA", "@TEMP(Y)", Known(0x10), IY},
		{"LDA", "NX,TEMP", Known(0x10), IX},
		{"LDA", "NY,TEMP", Known(0x10), IY},
	}

	s := GetInstructionSet()
	for _, test := range tests {
		mode, ok := s.InferMode(test.name, test.operand, test.value)
		assert.True(t, ok, "%s %s", test.name, test.operand)
		assert.Equal(t, test.mode, mode, "%s %s", test.name, test.operand)
	}

	_, ok := s.InferMode("STA", "#10", Known(10))
	assert.False(t, ok)
	_, ok = s.InferMode("STX", "X,^H1000", Known(0x1000))
	assert.False(t, ok)
}

func TestRemoveModeMarker(t *testing.T) {
	tests := map[string]string{
		"#20":       "20",
		"I,20":      "20",
		"X,TEST":    "TEST",
		"NY,TEST":   "TEST",
		"TEST(X)":   "TEST",
		"@TEST(Y)":  "TEST",
		"@TEST":     "TEST",
		"TEST+1":    "TEST+1",
		"<1+2>(X":   "<1+2>",
		"ZX,^H0010": "^H0010",
	}
	for operand, expr := range tests {
		assert.Equal(t, expr, removeModeMarker(operand), operand)
	}
}

func TestEncodeOperand(t *testing.T) {
	assert.Equal(t, []byte{0x20}, encodeOperand(ZP, Known(0x20), 0x1001))
	assert.Equal(t, []byte{0x34, 0x12}, encodeOperand(AB, Known(0x1234), 0x1001))
	assert.Equal(t, []byte{0x01}, encodeOperand(RE, Known(0x1004), 0x1002))
	assert.Equal(t, []byte{0xfb}, encodeOperand(RE, Known(0x1000), 0x1004))
	assert.Equal(t, []byte{0xfc}, encodeOperand(RE, Known(0x1000), 0x1003))
	assert.Equal(t, []byte{0x00}, encodeOperand(IM, Undefined, 0x1001))
	assert.Nil(t, encodeOperand(IP, Known(0), 0x1001))
}

func TestInstructionSet(t *testing.T) {
	s := GetInstructionSet()

	assert.True(t, s.IsMnemonic("LDA"))
	assert.False(t, s.IsMnemonic("STZ"))
	assert.False(t, s.IsMnemonic("BRA"))

	inst := s.Lookup("LDA", IM)
	if assert.NotNil(t, inst) {
		assert.Equal(t, byte(0xa9), inst.Opcode)
		assert.Equal(t, byte(2), inst.Length)
	}
	assert.Nil(t, s.Lookup("LDA", ID))
	assert.Nil(t, s.Lookup("XYZ", IM))

	assert.Len(t, s.GetInstructions("LDA"), 8)
	assert.Len(t, s.GetInstructions("JMP"), 2)
	assert.Len(t, s.GetInstructions("NOP"), 1)

	n := 0
	for _, d := range opcodeTable {
		if s.Lookup(d.name, d.mode).Opcode == d.opcode {
			n++
		}
	}
	assert.Equal(t, 151, n)

	decoded := 0
	for op := 0; op < 256; op++ {
		if inst := s.Decode(byte(op)); inst != nil {
			assert.Equal(t, byte(op), inst.Opcode)
			decoded++
		}
	}
	assert.Equal(t, 151, decoded)
	assert.Equal(t, "JMP", s.Decode(0x6c).Name)
	assert.Equal(t, ID, s.Decode(0x6c).Mode)

	assert.Equal(t, "ZX", ZX.String())
	assert.Equal(t, "??", genericX.String())
}
