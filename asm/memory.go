// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "io"

// MemorySize is the size of the 6502 address space.
const MemorySize = 64 * 1024

// Memory represents the entire 16-bit address space as a singular 64K
// buffer. It also keeps a log of the bytes written since the log was last
// drained, which the assembler uses to associate emitted bytes with the
// source line that produced them.
type Memory struct {
	b       [MemorySize]byte
	written []byte
}

// NewMemory creates a new, zeroed 16-bit memory space.
func NewMemory() *Memory {
	return &Memory{}
}

// LoadByte loads a single byte from the address and returns it.
func (m *Memory) LoadByte(addr uint16) byte {
	return m.b[addr]
}

// LoadBytes loads multiple bytes starting at the address into the buffer
// 'b'. Bytes beyond the end of the address space are returned as zero.
func (m *Memory) LoadBytes(addr uint16, b []byte) {
	n := copy(b, m.b[addr:])
	clear(b[n:])
}

// StoreByte stores a byte at the requested address and appends it to the
// write log.
func (m *Memory) StoreByte(addr uint16, v byte) {
	m.b[addr] = v
	m.written = append(m.written, v)
}

// Drain returns the bytes written since the previous call and clears the
// write log.
func (m *Memory) Drain() []byte {
	b := m.written
	m.written = nil
	return b
}

// Bytes returns the full 64K memory image.
func (m *Memory) Bytes() []byte {
	return m.b[:]
}

// WriteTo writes the full 64K memory image to an output stream.
func (m *Memory) WriteTo(w io.Writer) (n int64, err error) {
	nn, err := w.Write(m.b[:])
	return int64(nn), err
}

// ReadFrom loads a memory image from an input stream. Images shorter than
// 64K fill memory from address 0; the remainder is left untouched.
func (m *Memory) ReadFrom(r io.Reader) (n int64, err error) {
	nn, err := io.ReadFull(r, m.b[:])
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		err = nil
	}
	return int64(nn), err
}
