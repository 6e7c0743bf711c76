// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"encoding/json"
	"io"
	"sort"
)

// A SourceMap describes the mapping between source code line numbers and
// the addresses of the bytes assembled from them.
type SourceMap struct {
	Files   []string
	Lines   []SourceLine
	Exports []Export
}

// A SourceLine represents a mapping between a machine code address and
// the source code file and line number used to generate it.
type SourceLine struct {
	Address   int // Machine code address
	FileIndex int // Source code file index
	Line      int // Source code line number
}

// An Export describes the address of a global label.
type Export struct {
	Label   string
	Address uint16
}

func newSourceMap(files []string, lines []SourceLine, symbols *SymbolTable) *SourceMap {
	m := &SourceMap{
		Files: files,
		Lines: append([]SourceLine(nil), lines...),
	}
	sort.SliceStable(m.Lines, func(i, j int) bool {
		return m.Lines[i].Address < m.Lines[j].Address
	})

	for _, s := range symbols.Symbols() {
		if s.Kind == GlobalLabel {
			m.Exports = append(m.Exports, Export{Label: s.Name, Address: s.Value.Word()})
		}
	}
	sort.SliceStable(m.Exports, func(i, j int) bool {
		return m.Exports[i].Address < m.Exports[j].Address
	})
	return m
}

// Search searches the source map for a mapping with the requested address.
func (s *SourceMap) Search(addr int) (filename string, line int) {
	i := sort.Search(len(s.Lines), func(i int) bool {
		return s.Lines[i].Address >= addr
	})
	if i < len(s.Lines) && s.Lines[i].Address == addr {
		return s.Files[s.Lines[i].FileIndex], s.Lines[i].Line
	}
	return "", -1
}

// ReadFrom reads the contents of an exported source map file.
func (s *SourceMap) ReadFrom(r io.Reader) (n int64, err error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	err = json.Unmarshal(b, s)
	if err != nil {
		return 0, err
	}
	return int64(len(b)), nil
}

// WriteTo writes the contents of the source map to an output stream.
func (s *SourceMap) WriteTo(w io.Writer) (n int64, err error) {
	b, err := json.MarshalIndent(*s, "", "  ")
	if err != nil {
		return 0, err
	}

	nn, err := w.Write(b)
	return int64(nn), err
}
