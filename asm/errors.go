// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// A Kind identifies the category of an assembly error.
type Kind int

// Error kinds reported during assembly.
const (
	FileNotFound Kind = iota
	FileReadError
	UnknownMacro
	UnknownPseudoOp
	UnknownAddressingMode
	UnknownOperator
	UnknownComparisonType
	UnknownRadix
	StackNotFound
	InvalidExpression
	UnbalancedConditional
	SymbolAlreadyDefined
	SymbolValueChangedBetweenPasses
	UndefinedSymbol
	ErrorDirective
)

var kindName = []string{
	"FileNotFound",
	"FileReadError",
	"UnknownMacro",
	"UnknownPseudoOp",
	"UnknownAddressingMode",
	"UnknownOperator",
	"UnknownComparisonType",
	"UnknownRadix",
	"StackNotFound",
	"InvalidExpression",
	"UnbalancedConditional",
	"SymbolAlreadyDefined",
	"SymbolValueChangedBetweenPasses",
	"UndefinedSymbol",
	"ErrorDirective",
}

func (k Kind) String() string {
	if int(k) < len(kindName) {
		return kindName[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Fatal reports whether errors of this kind stop the current pass.
func (k Kind) Fatal() bool {
	switch k {
	case FileNotFound, FileReadError, ErrorDirective:
		return true
	default:
		return false
	}
}

// An Error describes a problem found in the source program. It carries the
// name of the segment and the line number where the problem occurred, along
// with the raw text of that line.
type Error struct {
	Kind Kind
	File string
	Line int
	Text string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s(%d) %s", e.File, e.Line, e.Msg)
}

// Fatal reports whether the error stopped the pass in which it occurred.
func (e *Error) Fatal() bool {
	return e.Kind.Fatal()
}

// IsKind reports whether err is an assembly error of kind k.
func IsKind(err error, k Kind) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == k
	}
	return false
}

// flatten returns a multierror holding each error in the list, or nil if
// the list is empty.
func flatten(errs []*Error) error {
	if len(errs) == 0 {
		return nil
	}
	var merr *multierror.Error
	for _, e := range errs {
		merr = multierror.Append(merr, e)
	}
	return merr.ErrorOrNil()
}
