// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// A Listing receives assembly events in the order they occur. Events are
// sent during both passes; Pass is called at the start of each.
type Listing interface {
	Pass(n int)
	Line(file string, line, pc int, b []byte, text string)
	Label(name string)
	PseudoOp(text string)
	Comment(text string)
	MacroCall(text string)
	Message(text string)
	Error(err *Error)
	FileSwitch(name string)
}

// NopListing discards all listing events.
type NopListing struct{}

func (NopListing) Pass(n int) {}
func (NopListing) Line(file string, line, pc int, b []byte, text string) {}
func (NopListing) Label(name string) {}
func (NopListing) PseudoOp(text string) {}
func (NopListing) Comment(text string) {}
func (NopListing) MacroCall(text string) {}
func (NopListing) Message(text string) {}
func (NopListing) Error(err *Error) {}
func (NopListing) FileSwitch(name string) {}
