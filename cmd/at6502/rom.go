// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/at6502/rom"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// A hexValue is an integer flag written in hexadecimal.
type hexValue struct {
	v   *int
	max int
}

func newHexValue(p *int, max int) *hexValue {
	return &hexValue{v: p, max: max}
}

func (h *hexValue) String() string {
	if h.v == nil {
		return "0"
	}
	return strconv.FormatInt(int64(*h.v), 16)
}

func (h *hexValue) Set(s string) error {
	t := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "0x"), "$")
	n, err := strconv.ParseUint(t, 16, 32)
	if err != nil || int(n) > h.max {
		return errors.Errorf("invalid hex value %q", s)
	}
	*h.v = int(n)
	return nil
}

func (h *hexValue) Type() string {
	return "hex"
}

type romFlags struct {
	Start     int
	Length    int
	RomNum    int
	ChkOff    int
	Symbols   string
	ChkSymbol string
}

var romOpts romFlags

var romCmd = &cobra.Command{
	Use:   "rom [flags] FULL DEST",
	Short: "Extract a ROM segment from a memory image",
	Long: "Extract a segment of a full memory image into its own file. When a\n" +
		"ROM number is given, a checksum is computed over the segment and\n" +
		"written at the check offset, or at the address of the check symbol.\n" +
		"Without either, the checksum is only displayed.",
	Args: cobra.ExactArgs(2),
	RunE: romRun,
}

func init() {
	f := romCmd.Flags()
	f.Var(newHexValue(&romOpts.Start, 0xffff), "start", "Hex starting location of the segment in FULL")
	f.Var(newHexValue(&romOpts.Length, 0x10000), "length", "Hex length of the segment")
	f.IntVar(&romOpts.RomNum, "romnum", 0, "ROM number used to calculate the checksum")
	f.Var(newHexValue(&romOpts.ChkOff, 0xffff), "chkoff", "Hex offset in DEST at which to write the checksum")
	f.StringVar(&romOpts.Symbols, "symbols", "", "Symbol table `file` used to locate --chksymbol")
	f.StringVar(&romOpts.ChkSymbol, "chksymbol", "", "Symbol whose address holds the checksum")
}

// Build the ROM options from the flags that were given.
func romOptions(cmd *cobra.Command) rom.Options {
	f := cmd.Flags()
	opts := rom.Options{
		Start:     romOpts.Start,
		Length:    romOpts.Length,
		ChkSymbol: romOpts.ChkSymbol,
	}
	if f.Changed("romnum") {
		n := romOpts.RomNum
		opts.RomNum = &n
	}
	if f.Changed("chkoff") {
		off := romOpts.ChkOff
		opts.ChkOff = &off
	}
	return opts
}

func romRun(cmd *cobra.Command, args []string) error {
	full, dest := args[0], args[1]

	image, err := os.ReadFile(full)
	if err != nil {
		return errors.Wrapf(err, "error reading %s", full)
	}

	var symbols io.Reader
	if romOpts.Symbols != "" {
		b, err := os.ReadFile(romOpts.Symbols)
		if err != nil {
			return errors.Wrapf(err, "error reading %s", romOpts.Symbols)
		}
		symbols = bytes.NewReader(b)
	}

	res, err := rom.Build(image, romOptions(cmd), symbols)
	if err != nil {
		return err
	}
	reportChecksum(cmd.OutOrStdout(), res)
	return writeFile(dest, bytes.NewReader(res.ROM))
}

func reportChecksum(w io.Writer, res *rom.Result) {
	switch {
	case res.Stored:
		fmt.Fprintf(w, "Checksum: %02X at offset %04X\n", res.Checksum, res.Offset)
	case res.Summed:
		fmt.Fprintf(w, "Checksum: %02X\n", res.Checksum)
	}
}
