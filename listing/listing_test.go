// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package listing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/beevik/at6502/asm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLine(t *testing.T) {
	assert.Equal(t,
		"     2  1000    A9 20                      LDA #^H20",
		FormatLine(2, 0x1000, []byte{0xa9, 0x20}, "LDA #^H20"))

	// Text follows a prefix that is already past the text column.
	b := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	line := FormatLine(10, 0x0200, b, ".BYTE")
	assert.Equal(t, "    10  0200    01 02 03 04 05 06 07 08 09 0A 0B .BYTE", line)
}

func TestAssemblyListing(t *testing.T) {
	var console, errs bytes.Buffer
	l := New(&console, &errs)

	a := asm.New(asm.Options{Listing: l})
	err := a.AssembleLines([]string{
		"; reset vector",
		".=^H1000",
		"START:",
		"\tLDA #1",
		"\t.BYTE 2,3",
	})
	require.NoError(t, err)

	expected := []string{
		"; RESET VECTOR",
		"START:",
		"     4  1000    A9 01                      \tLDA #1",
		".BYTE 2,3",
		"     5  1002    02 03                      \t.BYTE 2,3",
	}
	assert.Equal(t, expected, l.Lines())
	assert.Empty(t, errs.String())

	// Both passes are echoed, then pass 2 is announced.
	assert.Contains(t, console.String(), "PASS 2\n")

	var sb strings.Builder
	_, err = l.WriteTo(&sb)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(expected, "\n")+"\n", sb.String())
}

func TestErrors(t *testing.T) {
	var errs bytes.Buffer
	l := New(nil, &errs)

	a := asm.New(asm.Options{Listing: l})
	err := a.AssembleLines([]string{"\tNOP", "\t.BOGUS 1"})
	require.Error(t, err)

	expected := []string{
		"\t.BOGUS 1",
		"ERROR [lines:2]: lines(2) unknown pseudo-op .BOGUS",
	}
	assert.Equal(t, expected, l.Lines())
	assert.Equal(t, strings.Join(expected, "\n")+"\n", errs.String())
}

func TestOtherEvents(t *testing.T) {
	var console bytes.Buffer
	l := New(&console, nil)
	l.Pass(1)
	l.Label("SKIPPED")
	l.Pass(2)
	l.FileSwitch("DEFS.MAC")
	l.MacroCall("PUSHALL")
	l.Message("PASS 2")
	l.Line("x", 1, 0, nil, "NOTHING")

	assert.Equal(t, []string{"------- FILE DEFS.MAC", "PUSHALL", "PASS 2"}, l.Lines())
	assert.Equal(t, "SKIPPED:\n------- FILE DEFS.MAC\nPUSHALL\nPASS 2\n", console.String())
}

func TestTruncate(t *testing.T) {
	var console bytes.Buffer
	l := New(&console, nil)
	l.SetWidth(8)
	l.Pass(2)
	l.Comment("a long comment line")

	assert.Equal(t, ";a long \n", console.String())
	assert.Equal(t, []string{";a long comment line"}, l.Lines())
}
