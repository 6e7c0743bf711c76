// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command at6502 assembles AT6502 source files into a 64K memory image,
// builds ROM segments from an image, and runs the interactive assembler
// workbench.
package main

import (
	"fmt"
	"os"

	"github.com/beevik/at6502/config"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// globalFlags are the flags shared by every command.
type globalFlags struct {
	Config   string
	LogLevel string
	Verbose  bool
}

var (
	globalOpts globalFlags

	// cfg is loaded before any command runs.
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "at6502 [flags] FILE[,FILE...]",
	Short: "AT6502 macro assembler",
	Long: "Assemble AT6502 source files, in order, into a 64K memory image.\n" +
		"The listing, image and symbol table are written when requested,\n" +
		"even when the assembly records errors.",
	RunE:              assembleRun,
	PersistentPreRunE: before,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalOpts.Config, "config", "", "Path of a TOML or YAML configuration file")
	pf.StringVar(&globalOpts.LogLevel, "log-level", config.DefaultLogLevel, "Log messages above specified level: debug, info, warning, error, fatal or panic")
	pf.BoolVar(&globalOpts.Verbose, "verbose", false, "Trace the assembly (implies --log-level=debug)")

	addAssembleFlags(rootCmd)
	rootCmd.AddCommand(romCmd, shellCmd)
}

func before(cmd *cobra.Command, args []string) error {
	if globalOpts.Config != "" {
		c, err := config.Load(globalOpts.Config)
		if err != nil {
			return err
		}
		cfg = c
	}

	pf := cmd.Flags()
	if pf.Changed("verbose") {
		cfg.Verbose = globalOpts.Verbose
	}
	if pf.Changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel = globalOpts.LogLevel
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}
	if cfg.Verbose {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
	logrus.Debugf("Called %s.PersistentPreRunE(%v)", cmd.Name(), args)
	return nil
}

func main() {
	rootCmd.SetArgs(normalizeArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		// Assembly errors have already been reported by the listing.
		if errors.Cause(err) != errAssembly {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
