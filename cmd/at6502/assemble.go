// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/at6502/asm"
	"github.com/beevik/at6502/config"
	"github.com/beevik/at6502/listing"
	"github.com/beevik/at6502/rom"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// errAssembly is returned when the source program had errors.
var errAssembly = errors.New("assembly failed")

type assembleFlags struct {
	Console bool
	List    string
	Output  string
	Symbols string
	Map     string
}

var assembleOpts assembleFlags

func addAssembleFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&assembleOpts.Console, "console", false, "Echo the listing to the console")
	f.StringVar(&assembleOpts.List, "list", "", "Write the listing to `file`")
	f.StringVar(&assembleOpts.Output, "output", "", "Write the 64K memory image to `file`")
	f.StringVar(&assembleOpts.Symbols, "symbols", "", "Write the symbol table to `file`")
	f.StringVar(&assembleOpts.Map, "map", "", "Write the source map to `file`")
}

// Apply the assemble flags that were given on the command line.
func mergeAssembleFlags(f *pflag.FlagSet, c *config.Config) {
	if f.Changed("console") {
		c.Console = assembleOpts.Console
	}
	if f.Changed("list") {
		c.Listing = assembleOpts.List
	}
	if f.Changed("output") {
		c.Output = assembleOpts.Output
	}
	if f.Changed("symbols") {
		c.Symbols = assembleOpts.Symbols
	}
	if f.Changed("map") {
		c.Map = assembleOpts.Map
	}
}

// Split positional arguments into file names. Files may be separated by
// commas as well as spaces.
func sourceFiles(args []string) []string {
	var files []string
	for _, a := range args {
		for _, f := range strings.Split(a, ",") {
			if f = strings.TrimSpace(f); f != "" {
				files = append(files, f)
			}
		}
	}
	return files
}

func assembleRun(cmd *cobra.Command, args []string) error {
	mergeAssembleFlags(cmd.Flags(), cfg)

	files := sourceFiles(args)
	if len(files) == 0 {
		files = cfg.SourcePaths()
	}
	if len(files) == 0 {
		return cmd.Help()
	}

	lst := listing.NewStdout(cfg.Console)
	a := asm.New(asm.Options{
		Listing: lst,
		Loader:  asm.FileLoader{Dir: cfg.Include},
		Logger:  logrus.StandardLogger(),
		Verbose: cfg.Verbose,
	})

	asmErr := a.AssembleFiles(files...)
	if asmErr != nil {
		logrus.Debugf("assembly of %s recorded %d errors", strings.Join(files, ","), len(a.Errors()))
	}
	if cfg.Verbose {
		dumpSymbols(os.Stdout, a.Symbols())
	}

	// Outputs are written even when the assembly failed.
	if err := writeOutputs(cfg, a, lst); err != nil {
		return err
	}

	if asmErr != nil {
		fmt.Fprintf(os.Stderr, "%d error(s)\n", len(a.Errors()))
		return errAssembly
	}
	return nil
}

func dumpSymbols(w io.Writer, st *asm.SymbolTable) {
	if err := st.Dump(w); err != nil {
		logrus.Errorf("error writing symbol table: %v", err)
	}
}

func writeOutputs(c *config.Config, a *asm.Assembler, lst *listing.Listing) error {
	var result *multierror.Error

	outputs := []struct {
		path string
		w    io.WriterTo
	}{
		{c.Listing, lst},
		{c.Symbols, a.Symbols()},
		{c.Output, a.Memory()},
		{c.Map, a.SourceMap()},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := writeFile(o.path, o.w); err != nil {
			result = multierror.Append(result, err)
		}
	}

	for i, r := range c.ROMs {
		if err := buildROM(a, r); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "rom %d", i+1))
		}
	}
	return result.ErrorOrNil()
}

// Build a configured ROM segment from the assembled image.
func buildROM(a *asm.Assembler, r config.ROM) error {
	var symbols io.Reader
	if r.ChkSymbol != "" {
		var buf bytes.Buffer
		if _, err := a.Symbols().WriteTo(&buf); err != nil {
			return err
		}
		symbols = &buf
	}

	res, err := rom.Build(a.Memory().Bytes(), rom.Options{
		Start:     int(r.Start),
		Length:    r.Length,
		RomNum:    r.RomNum,
		ChkOff:    r.ChkOff,
		ChkSymbol: r.ChkSymbol,
	}, symbols)
	if err != nil {
		return err
	}
	reportChecksum(os.Stdout, res)
	return writeFile(r.Dest, bytes.NewReader(res.ROM))
}

func writeFile(path string, w io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "error creating %s", path)
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "error writing %s", path)
	}
	return errors.Wrapf(f.Close(), "error closing %s", path)
}
