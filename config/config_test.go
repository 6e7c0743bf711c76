// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "at6502.toml", `
sources = ["main.mac", "/abs/defs.mac"]
listing = "out.lst"
output = "out.bin"
symbols = "out.sym"
console = true
include_dir = "src"

[[rom]]
dest = "rom0.bin"
start = 0x9000
length = 0x1000
romnum = 0
chkoff = 0x0FFF
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out.lst", c.Listing)
	assert.Equal(t, "out.bin", c.Output)
	assert.Equal(t, "out.sym", c.Symbols)
	assert.True(t, c.Console)
	assert.False(t, c.Verbose)
	assert.Equal(t, DefaultLogLevel, c.LogLevel)
	assert.Equal(t, []string{filepath.Join("src", "main.mac"), "/abs/defs.mac"}, c.SourcePaths())

	require.Len(t, c.ROMs, 1)
	r := c.ROMs[0]
	assert.Equal(t, uint16(0x9000), r.Start)
	assert.Equal(t, 0x1000, r.Length)
	require.NotNil(t, r.RomNum)
	assert.Equal(t, 0, *r.RomNum)
	require.NotNil(t, r.ChkOff)
	assert.Equal(t, 0x0fff, *r.ChkOff)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "at6502.yaml", `
sources:
  - a.mac
  - b.mac
output: image.bin
verbose: true
log_level: debug
roms:
  - dest: r.bin
    start: 0xC000
    length: 16384
    chksymbol: CHKSUM
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mac", "b.mac"}, c.SourcePaths())
	assert.Equal(t, "image.bin", c.Output)
	assert.True(t, c.Verbose)
	assert.Equal(t, "debug", c.LogLevel)
	require.Len(t, c.ROMs, 1)
	assert.Equal(t, uint16(0xc000), c.ROMs[0].Start)
	assert.Nil(t, c.ROMs[0].RomNum)
	assert.Equal(t, "CHKSUM", c.ROMs[0].ChkSymbol)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading configuration file")
	assert.True(t, os.IsNotExist(errors.Cause(err)))

	_, err = Load(writeFile(t, "bad.toml", "sources = ["))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding configuration file")

	_, err = Load(writeFile(t, "bad.yml", "roms:\n  - start: 1\n    length: 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing destination")

	_, err = Load(writeFile(t, "big.toml", "[[rom]]\ndest = \"x\"\nstart = 0xF000\nlength = 0x2000\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid length")
}
