// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/at6502/asm"
	"github.com/beevik/at6502/config"
	"github.com/beevik/at6502/listing"
	"github.com/beevik/at6502/rom"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeArgs(t *testing.T) {
	in := []string{
		"A.MAC,B.MAC", "-console", "-list:out.lst", "-OUTPUT:rom.bin",
		"-symbols:c:out.sym", "--map=x.map", "-x", "-start:9000", "rom",
	}
	want := []string{
		"A.MAC,B.MAC", "--console", "--list=out.lst", "--output=rom.bin",
		"--symbols=c:out.sym", "--map=x.map", "-x", "--start=9000", "rom",
	}
	assert.Equal(t, want, normalizeArgs(in))
}

func TestSourceFiles(t *testing.T) {
	assert.Equal(t, []string{"A.MAC", "B.MAC", "C.MAC"}, sourceFiles([]string{"A.MAC,B.MAC", ",C.MAC"}))
	assert.Nil(t, sourceFiles(nil))
}

func TestHexValue(t *testing.T) {
	var n int
	h := newHexValue(&n, 0xffff)
	require.NoError(t, h.Set("9000"))
	assert.Equal(t, 0x9000, n)
	require.NoError(t, h.Set("0x1F"))
	assert.Equal(t, 0x1f, n)
	require.NoError(t, h.Set("$ff"))
	assert.Equal(t, 0xff, n)
	assert.Equal(t, "ff", h.String())
	assert.Equal(t, "hex", h.Type())

	assert.Error(t, h.Set("10000"))
	assert.Error(t, h.Set("zz"))
}

func TestRomOptions(t *testing.T) {
	romOpts = romFlags{}
	require.NoError(t, romCmd.ParseFlags([]string{"--start=9000", "--length=1000", "--romnum=2"}))
	opts := romOptions(romCmd)
	assert.Equal(t, 0x9000, opts.Start)
	assert.Equal(t, 0x1000, opts.Length)
	require.NotNil(t, opts.RomNum)
	assert.Equal(t, 2, *opts.RomNum)
	assert.Nil(t, opts.ChkOff)
}

func TestReportChecksum(t *testing.T) {
	var buf bytes.Buffer
	reportChecksum(&buf, &rom.Result{})
	reportChecksum(&buf, &rom.Result{Summed: true, Checksum: 0xf8})
	reportChecksum(&buf, &rom.Result{Summed: true, Stored: true, Checksum: 0xfa, Offset: 3})
	assert.Equal(t, "Checksum: F8\nChecksum: FA at offset 0003\n", buf.String())
}

func TestWriteOutputs(t *testing.T) {
	lst := listing.New(nil, nil)
	a := asm.New(asm.Options{Listing: lst})
	err := a.AssembleLines([]string{".=^H9000", "START: LDA #1", "CHKSUM: .BYTE 0"})
	require.NoError(t, err)

	dir := t.TempDir()
	romNum := 0
	c := &config.Config{
		Listing: filepath.Join(dir, "out.lst"),
		Symbols: filepath.Join(dir, "out.sym"),
		Output:  filepath.Join(dir, "out.bin"),
		Map:     filepath.Join(dir, "out.map"),
		ROMs: []config.ROM{
			{Dest: filepath.Join(dir, "rom.bin"), Start: 0x9000, Length: 3, RomNum: &romNum, ChkSymbol: "CHKSUM"},
		},
	}
	require.NoError(t, writeOutputs(c, a, lst))

	b, err := os.ReadFile(c.Symbols)
	require.NoError(t, err)
	assert.Equal(t, ".,9003\nSTART,9000\nCHKSUM,9002\n", string(b))

	b, err = os.ReadFile(c.Output)
	require.NoError(t, err)
	assert.Len(t, b, 0x10000)

	b, err = os.ReadFile(c.Listing)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "A9 01"))

	// 0xff ^ 0xa9 ^ 0x01 = 0x57
	b, err = os.ReadFile(c.ROMs[0].Dest)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xa9, 0x01, 0x57}, b)
}

func TestWriteOutputsErrors(t *testing.T) {
	a := asm.New(asm.Options{})
	require.NoError(t, a.AssembleLines([]string{" NOP"}))

	dir := filepath.Join(t.TempDir(), "missing")
	c := &config.Config{
		Symbols: filepath.Join(dir, "out.sym"),
		Output:  filepath.Join(dir, "out.bin"),
	}
	err := writeOutputs(c, a, listing.New(nil, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors occurred")
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestDumpSymbolsError(t *testing.T) {
	a := asm.New(asm.Options{})
	require.NoError(t, a.AssembleLines([]string{"START: NOP"}))

	hook := test.NewGlobal()
	defer hook.Reset()

	var sb strings.Builder
	dumpSymbols(&sb, a.Symbols())
	assert.Contains(t, sb.String(), "START")
	assert.Nil(t, hook.LastEntry())

	dumpSymbols(failWriter{}, a.Symbols())
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "disk full")
}
