// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host implements an interactive assembler workbench. Within the
// host it is possible to assemble source files, inspect the resulting
// memory image and symbol table, evaluate expressions against the symbols,
// and save the assembly's outputs.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/beevik/at6502/asm"
	"github.com/beevik/at6502/disasm"
	"github.com/beevik/at6502/listing"
	"github.com/beevik/cmd"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// errQuit stops the command loop.
var errQuit = errors.New("exiting program")

// Options configure a Host.
type Options struct {
	Loader asm.Loader     // source loader; defaults to the working directory
	Logger *logrus.Logger // defaults to the logrus standard logger
}

// A Host is an interactive assembler workbench. It keeps the results of
// the last assembly.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	lastCmd     *cmd.Selection
	settings    *settings
	loader      asm.Loader
	logger      *logrus.Logger

	assembler *asm.Assembler
	listing   *listing.Listing
	sourceMap *asm.SourceMap
}

// New creates a new workbench host.
func New(opts Options) *Host {
	h := &Host{
		settings: newSettings(),
		loader:   opts.Loader,
		logger:   opts.Logger,
		output:   bufio.NewWriter(io.Discard),
	}
	if h.logger == nil {
		h.logger = logrus.StandardLogger()
	}
	return h
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered. An empty line
// repeats the previous command.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		var c cmd.Selection
		if strings.TrimSpace(line) != "" {
			c, err = cmds.Lookup(line)
			switch {
			case err == cmd.ErrNotFound:
				h.println("Command not found.")
				continue
			case err == cmd.ErrAmbiguous:
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		handler, ok := c.Command.Data.(*command)
		if !ok {
			continue
		}
		if err := handler.fn(h, c); err != nil {
			break
		}
	}
	h.flush()
}

// Break interrupts the current command and redisplays the prompt.
func (h *Host) Break() {
	h.println()
	h.prompt()
}

func (h *Host) print(args ...any) {
	fmt.Fprint(h.output, args...)
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
		h.flush()
	}
}

// AssembleFiles assembles source files, replacing the results of any
// previous assembly. The returned error aggregates the assembly errors.
func (h *Host) AssembleFiles(files ...string) error {
	h.listing = listing.New(nil, nil)
	h.assembler = asm.New(asm.Options{
		Listing: h.listing,
		Loader:  h.loader,
		Logger:  h.logger,
		Verbose: h.settings.Verbose,
	})
	err := h.assembler.AssembleFiles(files...)
	h.sourceMap = h.assembler.SourceMap()
	return err
}

func (h *Host) cmdAssemble(c cmd.Selection) error {
	files := splitFileArgs(c.Args)
	if len(files) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	err := h.AssembleFiles(files...)
	if err != nil {
		h.printf("Failed to assemble: %s\n", strings.Join(files, ","))
		for _, e := range h.assembler.Errors() {
			h.println(e)
		}
		return nil
	}

	h.printf("Assembled %s: %d symbols.\n", strings.Join(files, ","), h.assembler.Symbols().Len())
	return nil
}

func (h *Host) cmdDisassemble(c cmd.Selection) error {
	if !h.assembled() {
		return nil
	}
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var addr uint16
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextDisasmAddr

	default:
		a, err := h.parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.DisasmLines
	if len(c.Args) > 1 {
		l, err := h.parseAddr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = int(l)
	}

	for i := 0; i < lines; i++ {
		d, next := h.disassemble(addr)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastCmd.Args = []string{"$", fmt.Sprintf("^H%X", lines)}
	return nil
}

func (h *Host) cmdExports(c cmd.Selection) error {
	if !h.assembled() {
		return nil
	}
	if len(h.sourceMap.Exports) == 0 {
		h.println("No active exports.")
		return nil
	}
	for _, e := range h.sourceMap.Exports {
		h.printf("%-16s ^H%04X\n", e.Label, e.Address)
	}
	return nil
}

func (h *Host) cmdEval(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	expr := strings.Join(c.Args, " ")
	v, err := h.evaluate(expr)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if !v.IsKnown() {
		h.println("Undefined.")
		return nil
	}
	h.printf("^H%04X (%s)\n", v.Word(), v)
	return nil
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	if len(c.Args) == 0 {
		h.displayCommands(groups[""])
		return nil
	}

	if g, ok := groups[strings.ToLower(c.Args[0])]; ok && len(c.Args) == 1 {
		h.displayCommands(g)
		return nil
	}

	s, err := cmds.Lookup(strings.Join(c.Args, " "))
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	hc, ok := s.Command.Data.(*command)
	if !ok {
		return nil
	}
	if hc.Usage != "" {
		h.printf("Syntax: %s\n\n", hc.Usage)
	}
	switch {
	case hc.Description != "":
		h.printf("Description:\n%s\n\n", indentWrap(3, hc.Description))
	case hc.Brief != "":
		h.printf("Description:\n%s.\n\n", indentWrap(3, hc.Brief))
	}
	return nil
}

func (h *Host) cmdList(c cmd.Selection) error {
	if !h.assembled() {
		return nil
	}
	for _, line := range h.listing.Lines() {
		h.print(line, "\n")
	}
	h.flush()
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	if !h.assembled() {
		return nil
	}
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	var addr uint16
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextMemDumpAddr

	default:
		a, err := h.parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := uint16(h.settings.MemDumpBytes)
	if len(c.Args) >= 2 {
		var err error
		bytes, err = h.parseAddr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = addr + bytes
	h.lastCmd.Args = []string{"$", fmt.Sprintf("^H%X", bytes)}
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return errQuit
}

func (h *Host) cmdSaveImage(c cmd.Selection) error {
	return h.save(c, func(w io.Writer) error {
		_, err := h.assembler.Memory().WriteTo(w)
		return err
	})
}

func (h *Host) cmdSaveSymbols(c cmd.Selection) error {
	return h.save(c, func(w io.Writer) error {
		_, err := h.assembler.Symbols().WriteTo(w)
		return err
	})
}

func (h *Host) cmdSaveListing(c cmd.Selection) error {
	return h.save(c, func(w io.Writer) error {
		_, err := h.listing.WriteTo(w)
		return err
	})
}

func (h *Host) cmdSaveMap(c cmd.Selection) error {
	return h.save(c, func(w io.Writer) error {
		_, err := h.assembler.SourceMap().WriteTo(w)
		return err
	})
}

func (h *Host) save(c cmd.Selection, write func(w io.Writer) error) error {
	if !h.assembled() {
		return nil
	}
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	filename := c.Args[0]
	if err := writeFile(filename, write); err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.printf("Saved '%s'.\n", filename)
	return nil
}

func writeFile(filename string, write func(w io.Writer) error) error {
	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create '%s'", filename)
	}
	if err := write(file); err != nil {
		file.Close()
		return pkgerrors.Wrapf(err, "failed to write '%s'", filename)
	}
	return pkgerrors.Wrapf(file.Close(), "failed to close '%s'", filename)
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayHelpText(c.Command)

	default:
		key, value := strings.ToLower(c.Args[0]), strings.Join(c.Args[1:], " ")

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("setting '%s' not found", key)
		case reflect.Bool:
			var v bool
			v, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		default:
			// Numbers are always read in decimal unless marked.
			var v asm.Value
			v, err = h.evaluateRadix(value, 10)
			if err == nil {
				err = h.settings.Set(key, v.Int())
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}
	}

	return nil
}

func (h *Host) cmdSymbols(c cmd.Selection) error {
	if !h.assembled() {
		return nil
	}

	var prefix string
	if len(c.Args) > 0 {
		prefix = strings.ToUpper(c.Args[0])
	}

	symbols := append([]*asm.Symbol(nil), h.assembler.Symbols().Symbols()...)
	sort.SliceStable(symbols, func(i, j int) bool {
		return symbols[i].ExportName() < symbols[j].ExportName()
	})
	for _, s := range symbols {
		if strings.HasPrefix(s.ExportName(), prefix) {
			h.print(s.String(), "\n")
		}
	}
	h.flush()
	return nil
}

// Report whether an assembly is available, complaining if not.
func (h *Host) assembled() bool {
	if h.assembler == nil {
		h.println("Nothing assembled.")
		return false
	}
	return true
}

func (h *Host) evaluate(expr string) (asm.Value, error) {
	return h.evaluateRadix(expr, h.settings.radix())
}

func (h *Host) evaluateRadix(expr string, radix int) (asm.Value, error) {
	symbols := asm.NewSymbolTable()
	if h.assembler != nil {
		symbols = h.assembler.Symbols()
	}
	e := asm.Evaluator{Symbols: symbols, Radix: radix}
	return e.Eval(strings.ToUpper(expr))
}

func (h *Host) parseAddr(expr string) (uint16, error) {
	v, err := h.evaluate(expr)
	if err != nil {
		return 0, err
	}
	if !v.IsKnown() {
		return 0, fmt.Errorf("undefined expression '%s'", expr)
	}
	return v.Word(), nil
}

func (h *Host) disassemble(addr uint16) (str string, next uint16) {
	mem := h.assembler.Memory()

	var line string
	line, next = disasm.Disassemble(mem, addr)

	b := make([]byte, next-addr)
	mem.LoadBytes(addr, b)

	str = fmt.Sprintf("%04X-   %-8s    %-15s", addr, codeString(b), line)
	if file, n := h.sourceMap.Search(int(addr)); n >= 0 {
		str += fmt.Sprintf(" ; %s(%d)", file, n)
	}
	return str, next
}

func (h *Host) dumpMemory(addr0, bytes uint16) {
	if bytes == 0 {
		return
	}
	mem := h.assembler.Memory()

	addr1 := addr0 + bytes - 1
	if addr1 < addr0 {
		addr1 = 0xffff
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := uint32(addr0), 6, 32; a <= uint32(addr1); a, c1, c2 = a+1, c1+3, c2+1 {
			m := mem.LoadByte(uint16(a))
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(string(buf))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := uint32(addr0) & 0xfff8
	stop := (uint32(addr1) + 8) & 0xffff8
	if stop > 0x10000 {
		stop = 0x10000
	}

	a := uint32(start)
	for r := start; r < stop; r += 8 {
		addrToBuf(uint16(a), buf[0:4])
		for c1, c2 := 6, 32; c1 < 29; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= uint32(addr0) && a <= uint32(addr1) {
				m := mem.LoadByte(uint16(a))
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}

func (h *Host) displayHelpText(c *cmd.Command) {
	if hc, ok := c.Data.(*command); ok && hc.Usage != "" {
		h.printf("Syntax: %s\n", hc.Usage)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) displayCommands(g *commandGroup) {
	h.printf("%s commands:\n", g.title)
	for _, c := range g.commands {
		if c.Brief != "" {
			h.printf("    %-15s  %s\n", c.Name, c.Brief)
		}
	}
}
