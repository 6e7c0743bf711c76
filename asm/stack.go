// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// A Stack is a named value stack created by the .DEFSTACK pseudo-op. Its
// pointer models a descending hardware-style stack: it starts at the
// declared size, decreases on every push and increases on every pop.
type Stack struct {
	Name    string
	size    int
	pointer int
	values  []Value
}

func newStack(name string, size int) *Stack {
	return &Stack{Name: name, size: size, pointer: size}
}

// Pointer returns the current stack pointer.
func (s *Stack) Pointer() int {
	return s.pointer
}

// Count returns the number of values on the stack.
func (s *Stack) Count() int {
	return len(s.values)
}

// Push places a value on top of the stack.
func (s *Stack) Push(v Value) {
	s.pointer--
	s.values = append(s.values, v)
}

// Pop removes the value on top of the stack. It returns false if the stack
// is empty.
func (s *Stack) Pop() (Value, bool) {
	n := len(s.values)
	if n == 0 {
		return Undefined, false
	}
	v := s.values[n-1]
	s.values = s.values[:n-1]
	s.pointer++
	return v, true
}
