// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a 6502 instruction set disassembler. Its
// output uses the operand markers of the AT6502 source dialect, so a
// disassembled line assembles back to the same bytes.
package disasm

import (
	"fmt"

	"github.com/beevik/at6502/asm"
)

// Disassembler formatting for addressing modes
var modeFormat = []string{
	"#^H%s",    // IM
	"Z,^H%s",   // ZP
	"ZX,^H%s",  // ZX
	"ZY,^H%s",  // ZY
	"A,^H%s",   // AB
	"AX,^H%s",  // AX
	"AY,^H%s",  // AY
	"@^H%s(X)", // IX
	"@^H%s(Y)", // IY
	"",         // AC
	"",         // IP
	"^H%s",     // RE
	"@^H%s",    // ID
}

var hex = "0123456789ABCDEF"

// Return a hexadecimal string representation of the byte slice, most
// significant byte first.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// Disassemble the machine code in memory 'm' at address 'addr'. Return a
// 'line' string representing the disassembled instruction and a 'next'
// address that starts the following line of machine code. Bytes that are
// not valid opcodes disassemble as .BYTE data.
func Disassemble(m *asm.Memory, addr uint16) (line string, next uint16) {
	opcode := m.LoadByte(addr)
	inst := asm.GetInstructionSet().Decode(opcode)
	if inst == nil {
		return ".BYTE ^H" + hexString([]byte{opcode}), addr + 1
	}

	operand := make([]byte, inst.Length-1)
	m.LoadBytes(addr+1, operand)
	if inst.Mode == asm.RE {
		// Convert relative offset to absolute address.
		braddr := int(addr) + int(inst.Length) + int(int8(operand[0]))
		operand = []byte{byte(braddr & 0xff), byte(braddr >> 8)}
	}

	line = inst.Name
	if f := modeFormat[inst.Mode]; f != "" {
		line += " " + fmt.Sprintf(f, hexString(operand))
	}
	next = addr + uint16(inst.Length)
	return
}
