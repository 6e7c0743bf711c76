// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rom extracts ROM segments from an assembled memory image and
// stamps them with a checksum.
package rom

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Errors returned for invalid arguments. Compare with errors.Cause.
var (
	ErrRange          = errors.New("segment outside image")
	ErrOffset         = errors.New("checksum offset outside segment")
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrNoSymbolFile   = errors.New("no symbol file")
)

// Options select the segment to extract and where its checksum goes.
type Options struct {
	Start  int
	Length int

	// RomNum is the ROM number mixed into the checksum. No checksum is
	// computed when it is nil.
	RomNum *int

	// ChkOff is the offset within the segment where the checksum is
	// stored. When nil, ChkSymbol names a symbol whose address holds the
	// checksum. When both are empty the checksum is only reported.
	ChkOff    *int
	ChkSymbol string
}

// A Result is an extracted ROM segment.
type Result struct {
	ROM      []byte
	Checksum byte
	Summed   bool // a checksum was computed
	Stored   bool // the checksum was written into ROM
	Offset   int  // offset of the stored checksum
}

// Extract returns a copy of length bytes of the image starting at start.
func Extract(image []byte, start, length int) ([]byte, error) {
	if start < 0 || length < 0 || start+length > len(image) {
		return nil, errors.Wrapf(ErrRange, "start %04X length %04X", start, length)
	}
	rom := make([]byte, length)
	copy(rom, image[start:start+length])
	return rom, nil
}

// Checksum computes the checksum of a ROM segment: 0xFF exclusive-ored
// with every byte of the segment and then with the ROM number.
func Checksum(rom []byte, romNum int) byte {
	sum := byte(0xff)
	for _, b := range rom {
		sum ^= b
	}
	return sum ^ byte(romNum)
}

// LookupSymbol finds the address of a symbol in a symbol export, which
// holds one "NAME,XXXX" line per symbol. The last definition wins.
func LookupSymbol(r io.Reader, name string) (uint16, error) {
	var addr uint16
	found := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		sym, value, ok := strings.Cut(scanner.Text(), ",")
		if !ok || !strings.EqualFold(sym, name) {
			continue
		}
		v, err := strconv.ParseUint(strings.TrimSpace(value), 16, 16)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid address for symbol %s", sym)
		}
		addr, found = uint16(v), true
	}
	if err := scanner.Err(); err != nil {
		return 0, errors.Wrap(err, "error reading symbol file")
	}
	if !found {
		return 0, errors.Wrapf(ErrSymbolNotFound, "symbol %s", name)
	}
	return addr, nil
}

// Build extracts a ROM segment and applies its checksum. The symbol
// export is read only when the checksum location is given by a symbol.
func Build(image []byte, opts Options, symbols io.Reader) (*Result, error) {
	rom, err := Extract(image, opts.Start, opts.Length)
	if err != nil {
		return nil, err
	}

	res := &Result{ROM: rom}
	if opts.RomNum == nil {
		return res, nil
	}

	switch {
	case opts.ChkOff != nil:
		res.Offset = *opts.ChkOff
	case opts.ChkSymbol != "":
		if symbols == nil {
			return nil, errors.Wrapf(ErrNoSymbolFile, "symbol %s", opts.ChkSymbol)
		}
		addr, err := LookupSymbol(symbols, opts.ChkSymbol)
		if err != nil {
			return nil, err
		}
		res.Offset = int(addr) - opts.Start
	default:
		res.Checksum = Checksum(rom, *opts.RomNum)
		res.Summed = true
		return res, nil
	}

	if res.Offset < 0 || res.Offset >= len(rom) {
		return nil, errors.Wrapf(ErrOffset, "offset %04X", res.Offset)
	}

	// The checksum byte itself is summed as zero.
	rom[res.Offset] = 0
	res.Checksum = Checksum(rom, *opts.RomNum)
	rom[res.Offset] = res.Checksum
	res.Summed, res.Stored = true, true
	return res, nil
}
