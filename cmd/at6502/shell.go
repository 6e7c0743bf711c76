// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"os/signal"

	"github.com/beevik/at6502/asm"
	"github.com/beevik/at6502/host"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell [script ...]",
	Short: "Run the interactive assembler workbench",
	Long: "Run the commands contained in each script file, then accept\n" +
		"commands interactively. Type 'help' at the prompt for a list of\n" +
		"commands.",
	RunE: shellRun,
}

func shellRun(cmd *cobra.Command, args []string) error {
	h := host.New(host.Options{
		Loader: asm.FileLoader{Dir: cfg.Include},
		Logger: logrus.StandardLogger(),
	})

	// Run commands contained in command-line files.
	for _, filename := range args {
		file, err := os.Open(filename)
		if err != nil {
			return errors.Wrapf(err, "error opening script %s", filename)
		}
		h.RunCommands(file, os.Stdout, false)
		file.Close()
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer signal.Stop(c)
	go handleInterrupt(h, c)

	// Run commands interactively.
	h.RunCommands(os.Stdin, os.Stdout, true)
	return nil
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for range c {
		h.Break()
	}
}
