// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapLoader map[string]string

func (m mapLoader) Load(path string) ([]string, error) {
	src, ok := m[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return strings.Split(src, "\n"), nil
}

var testSources = mapLoader{
	"MAIN.S": ".=^H1000\nSTART: LDA #1\nJMP START",
	"BAD.S":  " LDA #1\n .BOGUS",
}

func run(t *testing.T, h *Host, script ...string) string {
	t.Helper()
	var sb strings.Builder
	h.RunCommands(strings.NewReader(strings.Join(script, "\n")+"\n"), &sb, false)
	return sb.String()
}

func newHost() *Host {
	return New(Options{Loader: testSources})
}

func TestNothingAssembled(t *testing.T) {
	out := run(t, newHost(), "symbols", "list", "memory dump 0")
	assert.Equal(t, "Nothing assembled.\nNothing assembled.\nNothing assembled.\n", out)
}

func TestAssemble(t *testing.T) {
	h := newHost()
	out := run(t, h, "assemble MAIN.S")
	assert.Equal(t, "Assembled MAIN.S: 2 symbols.\n", out)

	out = run(t, h, "symbols", "symbols ST")
	assert.Equal(t, 3, strings.Count(out, "\n"))
	assert.Contains(t, out, "(GlobalLabel)  1000")

	out = run(t, h, "list")
	assert.Contains(t, out, "A9 01")
	assert.Contains(t, out, "4C 00 10")
}

func TestAssembleErrors(t *testing.T) {
	h := newHost()
	out := run(t, h, "assemble BAD.S")
	assert.True(t, strings.HasPrefix(out, "Failed to assemble: BAD.S\n"))
	assert.Contains(t, out, "BAD.S(2)")

	out = run(t, h, "assemble MISSING.S")
	assert.Contains(t, out, "Failed to assemble: MISSING.S")
	assert.Contains(t, out, "unable to load MISSING.S")

	out = run(t, h, "assemble")
	assert.Equal(t, "Syntax: assemble <filename> [<filename> ...]\n", out)
}

func TestEvaluate(t *testing.T) {
	h := newHost()
	out := run(t, h, "evaluate 1+2", "evaluate ^H10*2", "evaluate NOWHERE")
	assert.Equal(t, "^H0003 (3)\n^H0020 (32)\nUndefined.\n", out)

	run(t, h, "assemble MAIN.S")
	out = run(t, h, "e START+1")
	assert.Equal(t, "^H1001 (4097)\n", out)
}

func TestSettings(t *testing.T) {
	h := newHost()
	out := run(t, h, "set radix 16", "evaluate 10")
	assert.Equal(t, "Setting updated.\n^H0010 (16)\n", out)

	out = run(t, h, "set radix 3", "set bogus 1", "set hexmode true")
	assert.Equal(t, "invalid radix 3\nsetting 'bogus' not found\nSetting updated.\n", out)
	assert.True(t, h.settings.HexMode)

	out = run(t, h, "set")
	assert.Contains(t, out, "Variables:")
	assert.Contains(t, out, "MemDumpBytes")
}

func TestMemoryDump(t *testing.T) {
	h := newHost()
	run(t, h, "assemble MAIN.S")

	out := run(t, h, "memory dump ^H1000 3", "")
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1000- A9 01 4C"))
	assert.Contains(t, lines[0], ").L")
	assert.True(t, strings.HasPrefix(lines[1], "1003- 00 10"))
	assert.Equal(t, uint16(0x1006), h.settings.NextMemDumpAddr)

	out = run(t, h, "m ^H1000 ^H10")
	lines = strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1000- A9 01 4C 00 10 00 00 00"))
	assert.True(t, strings.HasPrefix(lines[1], "1008-"))
}

func TestSave(t *testing.T) {
	h := newHost()
	dir := t.TempDir()
	symbols := filepath.Join(dir, "out.sym")
	image := filepath.Join(dir, "out.bin")
	list := filepath.Join(dir, "out.lst")
	smap := filepath.Join(dir, "out.map")

	out := run(t, h,
		"assemble MAIN.S",
		"save symbols "+symbols,
		"save image "+image,
		"save listing "+list,
		"save map "+smap,
	)
	assert.Contains(t, out, "Saved '"+symbols+"'.")

	b, err := os.ReadFile(symbols)
	require.NoError(t, err)
	assert.Equal(t, ".,1005\nSTART,1000\n", string(b))

	b, err = os.ReadFile(image)
	require.NoError(t, err)
	require.Len(t, b, 0x10000)
	assert.Equal(t, []byte{0xa9, 0x01, 0x4c, 0x00, 0x10}, b[0x1000:0x1005])

	b, err = os.ReadFile(list)
	require.NoError(t, err)
	assert.Contains(t, string(b), "LDA #1")

	_, err = os.Stat(smap)
	require.NoError(t, err)

	out = run(t, h, "save image "+filepath.Join(dir, "missing", "x.bin"))
	assert.Contains(t, out, "failed to create")
}

func TestHelp(t *testing.T) {
	h := newHost()
	out := run(t, h, "help")
	assert.True(t, strings.HasPrefix(out, "at6502 commands:\n"))
	assert.Contains(t, out, "assemble")
	assert.Contains(t, out, "Memory commands")

	out = run(t, h, "help memory")
	assert.True(t, strings.HasPrefix(out, "Memory commands:\n"))
	assert.Contains(t, out, "dump")

	out = run(t, h, "? assemble")
	assert.Contains(t, out, "Syntax: assemble <filename> [<filename> ...]")
	assert.Contains(t, out, "Description:\n   Run the assembler")
}

func TestCommandLoop(t *testing.T) {
	h := newHost()
	out := run(t, h, "bogus", "s", "quit", "evaluate 1")
	assert.Equal(t, "Command not found.\nCommand is ambiguous.\n", out)
}

func TestDisassemble(t *testing.T) {
	h := newHost()
	run(t, h, "assemble MAIN.S")

	out := run(t, h, "disassemble ^H1000 1", "")
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1000-   A9 01       LDA #^H01"))
	assert.True(t, strings.HasSuffix(lines[0], "; MAIN.S(2)"))
	assert.True(t, strings.HasPrefix(lines[1], "1002-   4C 00 10    JMP A,^H1000"))
	assert.True(t, strings.HasSuffix(lines[1], "; MAIN.S(3)"))
	assert.Equal(t, uint16(0x1005), h.settings.NextDisasmAddr)
}

func TestExports(t *testing.T) {
	h := newHost()
	run(t, h, "assemble MAIN.S")
	out := run(t, h, "exports")
	assert.Equal(t, "START            ^H1000\n", out)
}
