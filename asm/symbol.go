// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// A SymbolKind describes how a symbol was defined.
type SymbolKind int

// Symbol kinds.
const (
	Variable SymbolKind = iota
	GlobalLabel
	LocalLabel
	ProgramCounter
)

var symbolKindName = []string{"Variable", "GlobalLabel", "LocalLabel", "PC"}

func (k SymbolKind) String() string {
	return symbolKindName[k]
}

// pcSymbol is the name of the program counter pseudo-symbol.
const pcSymbol = "."

// A Symbol is a named value defined by the source program.
type Symbol struct {
	Name  string
	Scope string // enclosing global label, for local labels
	Kind  SymbolKind
	Value Value
}

// QualifiedName returns the name under which the symbol is stored in the
// symbol table. Local labels are qualified by their scope.
func (s *Symbol) QualifiedName() string {
	if s.Kind == LocalLabel {
		return qualify(s.Scope, s.Name)
	}
	return s.Name
}

// ExportName returns the symbol's name as written to a symbol export.
func (s *Symbol) ExportName() string {
	if s.Scope != "" {
		return qualify(s.Scope, s.Name)
	}
	return s.Name
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%-20s%-15s%04X", s.ExportName(), "("+s.Kind.String()+")", s.Value.Word())
}

func qualify(scope, name string) string {
	return scope + ":" + name
}

// A SymbolTable owns all symbols defined during an assembly. Symbols are
// kept in the order they were first defined.
type SymbolTable struct {
	symbols map[string]*Symbol
	order   []*Symbol
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// Add inserts a symbol. It returns false if a symbol with the same
// qualified name already exists.
func (t *SymbolTable) Add(s *Symbol) bool {
	key := s.QualifiedName()
	if _, found := t.symbols[key]; found {
		return false
	}
	t.symbols[key] = s
	t.order = append(t.order, s)
	return true
}

// Exists reports whether a symbol with the same qualified name as s is
// already in the table.
func (t *SymbolTable) Exists(s *Symbol) bool {
	_, found := t.symbols[s.QualifiedName()]
	return found
}

// Lookup finds a symbol by its qualified name.
func (t *SymbolTable) Lookup(name string) *Symbol {
	return t.symbols[name]
}

// LookupLocal finds a local label defined within a scope.
func (t *SymbolTable) LookupLocal(name, scope string) *Symbol {
	return t.symbols[qualify(scope, name)]
}

// Update replaces the value of an existing symbol. It returns false if the
// symbol does not exist.
func (t *SymbolTable) Update(name string, v Value) bool {
	s, found := t.symbols[name]
	if found {
		s.Value = v
	}
	return found
}

// Symbols returns all symbols in definition order.
func (t *SymbolTable) Symbols() []*Symbol {
	return t.order
}

// Len returns the number of symbols in the table.
func (t *SymbolTable) Len() int {
	return len(t.order)
}

// Dump writes a human-readable table of all symbols.
func (t *SymbolTable) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, s := range t.order {
		fmt.Fprintln(bw, s.String())
	}
	return bw.Flush()
}

// WriteTo writes the symbol export: one "NAME,XXXX" line per symbol.
func (t *SymbolTable) WriteTo(w io.Writer) (n int64, err error) {
	var sb strings.Builder
	for _, s := range t.order {
		fmt.Fprintf(&sb, "%s,%04X\n", s.ExportName(), s.Value.Word())
	}
	nn, err := io.WriteString(w, sb.String())
	return int64(nn), err
}
