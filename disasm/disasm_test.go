// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disasm

import (
	"testing"

	"github.com/beevik/at6502/asm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassemble(t *testing.T) {
	code := []byte{
		0xa9, 0x01,
		0xa5, 0x20,
		0xb5, 0x20,
		0xb6, 0x20,
		0xad, 0x34, 0x12,
		0xbd, 0x34, 0x12,
		0xb9, 0x34, 0x12,
		0xa1, 0x20,
		0xb1, 0x20,
		0x0a,
		0xea,
		0xd0, 0xfe,
		0x6c, 0x00, 0x30,
		0x02,
	}
	want := []string{
		"LDA #^H01",
		"LDA Z,^H20",
		"LDA ZX,^H20",
		"LDX ZY,^H20",
		"LDA A,^H1234",
		"LDA AX,^H1234",
		"LDA AY,^H1234",
		"LDA @^H20(X)",
		"LDA @^H20(Y)",
		"ASL",
		"NOP",
		"BNE ^H1017",
		"JMP @^H3000",
		".BYTE ^H02",
	}

	m := asm.NewMemory()
	for i, b := range code {
		m.StoreByte(0x1000+uint16(i), b)
	}

	addr := uint16(0x1000)
	for _, w := range want {
		line, next := Disassemble(m, addr)
		assert.Equal(t, w, line)
		require.Greater(t, next, addr)
		addr = next
	}
	assert.Equal(t, uint16(0x1000+len(code)), addr)
}

func TestRoundTrip(t *testing.T) {
	src := []string{
		".=^H2000",
		"START: LDA #1",
		" STA ^H0300",
		" LDA 10(Y)",
		" ROR",
		" BEQ START",
		" JMP @^H2000",
	}
	a := asm.New(asm.Options{})
	require.NoError(t, a.AssembleLines(src))
	mem := a.Memory()

	// Disassemble and assemble the result again at the same address.
	lines := []string{".=^H2000"}
	for addr := uint16(0x2000); addr < 0x200e; {
		var line string
		line, addr = Disassemble(mem, addr)
		lines = append(lines, " "+line)
	}

	b := asm.New(asm.Options{})
	require.NoError(t, b.AssembleLines(lines))
	assert.Equal(t, mem.Bytes()[0x2000:0x200e], b.Memory().Bytes()[0x2000:0x200e])
}
