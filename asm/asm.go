// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements a two-pass 6502 macro assembler for the AT6502
// source dialect.
package asm

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// A Source is a named sequence of source lines to be assembled.
type Source struct {
	Name  string
	Lines []string
}

// A Loader reads the lines of a source file. It is used for the files
// passed to AssembleFiles and for .INCLUDE.
type Loader interface {
	Load(path string) ([]string, error)
}

// FileLoader loads source files from the file system. Relative paths are
// resolved against Dir.
type FileLoader struct {
	Dir string
}

// Load reads all lines of a file.
func (l FileLoader) Load(path string) ([]string, error) {
	if l.Dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(l.Dir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// Options configure an Assembler.
type Options struct {
	Listing Listing        // receives listing events; may be nil
	Loader  Loader         // defaults to a FileLoader for the working directory
	Logger  *logrus.Logger // defaults to the logrus standard logger
	Verbose bool           // trace assembly at debug level
}

// The Assembler is a state object used during the assembly of machine
// code from assembly code. It is intended for a single assembly.
type Assembler struct {
	listing Listing
	loader  Loader
	logger  *logrus.Logger
	verbose bool

	insts   *InstructionSet
	memory  *Memory
	symbols *SymbolTable
	macros  map[string]*Macro
	stacks  map[string]*Stack
	segs    *segmentSet

	conditions []*conditionState
	repeats    []*repeat
	repeatZero bool // inside a repeat with a count of zero

	pass       int
	pc         int
	scope      string // global label currently in scope
	radix      int
	macroLocal int // next generated macro-local label

	errors      []*Error
	fatal       bool
	files       []string
	fileIndex   map[string]int
	sourceLines []SourceLine
}

// New creates an assembler.
func New(opts Options) *Assembler {
	a := &Assembler{
		listing:   opts.Listing,
		loader:    opts.Loader,
		logger:    opts.Logger,
		verbose:   opts.Verbose,
		insts:     GetInstructionSet(),
		memory:    NewMemory(),
		symbols:   NewSymbolTable(),
		macros:    make(map[string]*Macro),
		stacks:    make(map[string]*Stack),
		segs:      newSegmentSet(),
		radix:     10,
		fileIndex: make(map[string]int),
	}
	if a.listing == nil {
		a.listing = NopListing{}
	}
	if a.loader == nil {
		a.loader = FileLoader{}
	}
	if a.logger == nil {
		a.logger = logrus.StandardLogger()
	}

	a.symbols.Add(&Symbol{Name: pcSymbol, Kind: ProgramCounter, Value: Known(0)})
	return a
}

// AssembleFiles loads and assembles source files in order. It returns the
// aggregated assembly errors, if any.
func (a *Assembler) AssembleFiles(paths ...string) error {
	var srcs []Source
	for _, path := range paths {
		lines, err := a.loader.Load(path)
		if err != nil {
			kind := FileReadError
			if os.IsNotExist(err) {
				kind = FileNotFound
			}
			a.record(&Error{Kind: kind, File: path, Msg: fmt.Sprintf("unable to load %s: %v", path, err)})
			return a.Err()
		}
		srcs = append(srcs, Source{Name: path, Lines: lines})
	}
	return a.AssembleSources(srcs...)
}

// AssembleLines assembles a single unnamed sequence of lines.
func (a *Assembler) AssembleLines(lines []string) error {
	return a.AssembleSources(Source{Name: "lines", Lines: lines})
}

// AssembleSources assembles the sources in order, running pass 2 only when
// pass 1 completes without errors.
func (a *Assembler) AssembleSources(srcs ...Source) error {
	for _, src := range srcs {
		a.segs.addRoot(src.Name, src.Lines)
		a.addFile(src.Name)
	}

	for pass := 1; pass <= 2; pass++ {
		if pass == 2 {
			if len(a.errors) > 0 {
				a.log("skipping pass 2 after %d errors", len(a.errors))
				break
			}
			a.listing.Message("PASS 2")
		}
		a.startPass(pass)
		for h := 0; h < a.segs.roots && !a.fatal; h++ {
			a.assembleSegment(segmentHandle(h))
		}
	}
	return a.Err()
}

func (a *Assembler) startPass(pass int) {
	a.pass = pass
	a.macroLocal = firstMacroLocal
	a.conditions = nil
	a.repeats = nil
	a.fatal = false
	a.sourceLines = nil
	a.listing.Pass(pass)
	a.logSection(fmt.Sprintf("Pass %d", pass))
}

// Assemble one top-level segment, along with everything it includes.
func (a *Assembler) assembleSegment(h segmentHandle) {
	a.segs.start(h)
	a.scope = ""
	a.setPC(0)
	a.radix = 10
	a.stacks = make(map[string]*Stack)
	a.repeatZero = false

	for !a.fatal {
		lastPC := a.pc

		text, more, err := a.nextLine()
		if !more {
			break
		}
		if err == nil {
			err = a.assembleLine(text)
		}
		if err != nil {
			a.record(err)
		}

		b := a.memory.Drain()
		if len(b) > 0 {
			file, line := a.segs.name(), a.segs.lineNumber()
			a.listing.Line(file, line, lastPC, b, text)
			a.logBytes(lastPC, b)
			if a.pass == 2 {
				a.sourceLines = append(a.sourceLines, SourceLine{
					Address:   lastPC,
					FileIndex: a.addFile(file),
					Line:      line,
				})
			}
		}
	}
}

// Classify and assemble a single logical line.
func (a *Assembler) assembleLine(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if isCommentLine(text) {
		a.listing.Comment(text[strings.IndexByte(text, ';')+1:])
		return nil
	}

	line := stripTrailingComment(text)
	a.logLine(line, "line")

	if n := scanIdentifier(line); n > 0 && n < len(line) && line[n] == ':' {
		if err := a.defineLabel(line[:n], GlobalLabel); err != nil {
			return err
		}
		line = strings.TrimSpace(strings.TrimLeft(line[n:], ":"))
		if line == "" {
			return nil
		}
	}

	if n := scanLocalLabel(line); n > 0 && n < len(line) && line[n] == ':' {
		if err := a.defineLabel(line[:n], LocalLabel); err != nil {
			return err
		}
		line = strings.TrimSpace(strings.TrimLeft(line[n:], ":"))
		if line == "" {
			return nil
		}
	}

	if name, expr, ok := splitAssignment(line); ok {
		return a.assign(name, expr)
	}

	if n := scanPseudoOp(line); n > 0 {
		return a.pseudoOp(line, n)
	}

	if a.isInstruction(line) {
		return a.assembleInstruction(line)
	}

	return a.invokeMacro(line)
}

// Split "name = expr", where name is an identifier or the program
// counter.
func splitAssignment(line string) (name, expr string, ok bool) {
	n := scanIdentifier(line)
	if n == 0 {
		return "", "", false
	}
	rest := strings.TrimLeft(line[n:], " \t")
	if !strings.HasPrefix(rest, "=") {
		return "", "", false
	}
	return line[:n], strings.TrimSpace(rest[1:]), true
}

func (a *Assembler) defineLabel(name string, kind SymbolKind) error {
	s := &Symbol{Name: name, Kind: kind, Value: Known(float64(a.pc))}
	if kind == LocalLabel {
		s.Scope = a.scope
	}
	if err := a.addSymbol(s); err != nil {
		return err
	}

	if kind == GlobalLabel {
		a.scope = name
		a.listing.Label(name)
	}
	a.logLine(name, "label=%s", s.QualifiedName())
	return nil
}

// Add a symbol to the symbol table. A symbol may be defined only once,
// and pass 2 must agree with the value found in pass 1.
func (a *Assembler) addSymbol(s *Symbol) error {
	existing := a.symbols.Lookup(s.QualifiedName())
	switch {
	case existing == nil:
		a.symbols.Add(s)
		return nil
	case a.pass == 1:
		return a.error(SymbolAlreadyDefined, "symbol %s already defined", s.Name)
	case !existing.Value.Equal(s.Value):
		return a.error(SymbolValueChangedBetweenPasses,
			"symbol %s changed from %s to %s between passes", s.Name, existing.Value, s.Value)
	default:
		return nil
	}
}

func (a *Assembler) assign(name, expr string) error {
	v, err := a.eval(expr, evalZero)
	if err != nil {
		return err
	}

	if name == pcSymbol {
		a.setPC(v.Int())
		a.logLine(expr, "pc=$%04X", a.pc)
		return nil
	}

	a.logLine(expr, "%s=%s", name, v)
	if a.symbols.Update(name, v) {
		return nil
	}
	return a.addSymbol(&Symbol{Name: name, Kind: Variable, Value: v})
}

// Assign a value to a variable, creating it if necessary.
func (a *Assembler) setVariable(name string, v Value) {
	if !a.symbols.Update(name, v) {
		a.symbols.Add(&Symbol{Name: name, Kind: Variable, Value: v})
	}
}

// A line holds an instruction when it starts with a mnemonic followed by
// whitespace or the end of the line.
func (a *Assembler) isInstruction(line string) bool {
	return len(line) >= 3 && a.insts.IsMnemonic(line[:3]) && (len(line) == 3 || whitespace(line[3]))
}

func (a *Assembler) assembleInstruction(line string) error {
	name := line[:3]
	operand := strings.TrimSpace(line[3:])
	expr := strings.TrimSpace(removeModeMarker(operand))

	v := Known(0)
	errs := len(a.errors)
	if expr != "" {
		var err error
		v, err = a.eval(expr, evalTolerate)
		if err != nil {
			return err
		}
	}

	mode, ok := a.insts.InferMode(name, operand, v)
	if !ok {
		return a.error(UnknownAddressingMode, "%s does not support addressing mode %s", name, mode)
	}
	inst := a.insts.Lookup(name, mode)
	a.logLine(line, "op=%s mode=%s val=%s", name, mode, v)

	// Branch targets are final only in pass 2.
	var rangeErr error
	if mode == RE && a.pass == 2 && v.IsKnown() && len(a.errors) == errs {
		if d := v.Int() - (a.pc + 2); d < -128 || d > 127 {
			rangeErr = a.error(InvalidExpression, "branch target %04X out of range", v.Word())
		}
	}

	a.emit(inst.Opcode)
	if operand != "" {
		for _, b := range encodeOperand(mode, v, a.pc) {
			a.emit(b)
		}
	}
	return rangeErr
}

// Store a byte at the program counter and advance it.
func (a *Assembler) emit(b byte) {
	a.memory.StoreByte(uint16(a.pc), b)
	a.setPC(a.pc + 1)
}

// Set the program counter, wrapping at the end of the address space.
func (a *Assembler) setPC(pc int) {
	a.pc = pc & 0xffff
	a.symbols.Update(pcSymbol, Known(float64(a.pc)))
}

// Evaluate an expression in the current scope and radix. Undefined
// symbols are reported only in pass 2.
func (a *Assembler) eval(expr string, mode evalMode) (Value, error) {
	e := Evaluator{
		Symbols:     a.symbols,
		Scope:       a.scope,
		Radix:       a.radix,
		Strict:      a.pass == 2,
		OnUndefined: a.undefinedSymbol,
	}
	return e.eval(expr, mode)
}

func (a *Assembler) undefinedSymbol(name string) {
	a.record(a.error(UndefinedSymbol, "undefined symbol %s", name))
}

func (a *Assembler) addFile(name string) int {
	if i, ok := a.fileIndex[name]; ok {
		return i
	}
	a.fileIndex[name] = len(a.files)
	a.files = append(a.files, name)
	return len(a.files) - 1
}

// Memory returns the assembled memory image.
func (a *Assembler) Memory() *Memory {
	return a.memory
}

// Symbols returns the symbol table.
func (a *Assembler) Symbols() *SymbolTable {
	return a.symbols
}

// Macro returns a defined macro, or nil.
func (a *Assembler) Macro(name string) *Macro {
	return a.macros[name]
}

// Stack returns a stack defined by the last assembled segment, or nil.
func (a *Assembler) Stack(name string) *Stack {
	return a.stacks[name]
}

// Errors returns every error recorded, in the order it was found.
func (a *Assembler) Errors() []*Error {
	return a.errors
}

// Err returns all recorded errors as a single error, or nil.
func (a *Assembler) Err() error {
	return flatten(a.errors)
}

// SourceMap returns the address-to-line mapping gathered in pass 2.
func (a *Assembler) SourceMap() *SourceMap {
	return newSourceMap(a.files, a.sourceLines, a.symbols)
}

// Create an error located at the line most recently read.
func (a *Assembler) error(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind: kind,
		File: a.segs.name(),
		Line: a.segs.lineNumber(),
		Text: a.segs.currentLine(),
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Record an error and report it to the listing.
func (a *Assembler) record(err error) {
	e, ok := err.(*Error)
	if !ok {
		e = &Error{Kind: InvalidExpression, Msg: err.Error()}
	}
	if e.File == "" && e.Line == 0 {
		e.File, e.Line, e.Text = a.segs.name(), a.segs.lineNumber(), a.segs.currentLine()
	}

	a.errors = append(a.errors, e)
	a.listing.Error(e)
	a.logger.WithFields(logrus.Fields{
		"pass": a.pass,
		"kind": e.Kind,
	}).Debug(e.Error())

	if e.Fatal() {
		a.fatal = true
	}
}

// In verbose mode, log a message.
func (a *Assembler) log(format string, args ...any) {
	if a.verbose {
		a.logger.WithField("pass", a.pass).Debugf(format, args...)
	}
}

// In verbose mode, log a message and its associated line of assembly
// code.
func (a *Assembler) logLine(line string, format string, args ...any) {
	if a.verbose {
		detail := fmt.Sprintf(format, args...)
		a.logger.WithFields(logrus.Fields{
			"pass": a.pass,
			"file": a.segs.name(),
			"line": a.segs.lineNumber(),
			"pc":   fmt.Sprintf("%04X", a.pc),
		}).Debugf("%-20s | %s", detail, line)
	}
}

// In verbose mode, log a series of bytes with starting address.
func (a *Assembler) logBytes(addr int, b []byte) {
	if a.verbose {
		for i, n := 0, len(b); i < n; i += 3 {
			j := min(i+3, n)
			a.log("%04X-*  %s", addr+i, byteString(b[i:j]))
		}
	}
}

// In verbose mode, log a section header.
func (a *Assembler) logSection(name string) {
	if a.verbose {
		a.logger.Debug(strings.Repeat("-", len(name)+6))
		a.logger.Debugf("-- %s --", name)
		a.logger.Debug(strings.Repeat("-", len(name)+6))
	}
}
