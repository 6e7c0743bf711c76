// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvaluator() *Evaluator {
	symbols := NewSymbolTable()
	symbols.Add(&Symbol{Name: "FIVE", Kind: Variable, Value: Known(5)})
	symbols.Add(&Symbol{Name: "MAIN", Kind: GlobalLabel, Value: Known(0x1000)})
	symbols.Add(&Symbol{Name: "10$", Scope: "MAIN", Kind: LocalLabel, Value: Known(0x1004)})
	return &Evaluator{Symbols: symbols, Scope: "MAIN", Radix: 10}
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		expr  string
		value float64
	}{
		{"23", 23},
		{"23.", 23},
		{"^H1F", 0x1f},
		{"^B101", 5},
		{"1+2*3", 9},
		{"10 - 4", 6},
		{"-1", 0xffff},
		{"--1", 0xffff},
		{"^H4321&-256/256", 0x43},
		{"^H50!^H05", 0x55},
		{`^H11\^H33`, 0x22},
		{"<1+2>*<3+4>", 21},
		{"5*<3+<2*2>>", 35},
		{"FIVE*2", 10},
		{"MAIN+1", 0x1001},
		{"10$", 0x1004},
		{"10$-MAIN", 4},
		{"7/2", 3.5},
	}

	e := newTestEvaluator()
	for _, test := range tests {
		v, err := e.Eval(test.expr)
		require.NoError(t, err, test.expr)
		require.True(t, v.IsKnown(), test.expr)
		assert.Equal(t, test.value, v.Float(), test.expr)
	}
}

func TestExpressionRadix(t *testing.T) {
	e := newTestEvaluator()

	e.Radix = 16
	v, err := e.Eval("1F")
	require.NoError(t, err)
	assert.Equal(t, 31, v.Int())

	v, err = e.Eval("10.")
	require.NoError(t, err)
	assert.Equal(t, 10, v.Int())

	e.Radix = 2
	v, err = e.Eval("1010")
	require.NoError(t, err)
	assert.Equal(t, 10, v.Int())

	_, err = e.Eval("12")
	assert.True(t, IsKind(err, InvalidExpression))
}

func TestExpressionErrors(t *testing.T) {
	tests := []struct {
		expr string
		kind Kind
	}{
		{"1+", InvalidExpression},
		{"<1+2", InvalidExpression},
		{"1%2", UnknownOperator},
		{"1/0", InvalidExpression},
		{"#1", InvalidExpression},
	}

	e := newTestEvaluator()
	for _, test := range tests {
		_, err := e.Eval(test.expr)
		require.Error(t, err, test.expr)
		assert.True(t, IsKind(err, test.kind), "%s: %v", test.expr, err)
	}
}

func TestExpressionUndefined(t *testing.T) {
	e := newTestEvaluator()

	v, err := e.Eval("MISSING+1")
	require.NoError(t, err)
	assert.False(t, v.IsKnown())

	v, err = e.eval("MISSING+1", evalZero)
	require.NoError(t, err)
	assert.True(t, v.IsKnown())
	assert.Equal(t, 0, v.Int())

	var reported []string
	e.Strict = true
	e.OnUndefined = func(name string) { reported = append(reported, name) }

	_, err = e.Eval("MISSING+20$")
	require.NoError(t, err)
	assert.Equal(t, []string{"MISSING", "20$"}, reported)

	reported = nil
	v, err = e.eval("MISSING", evalProbe)
	require.NoError(t, err)
	assert.False(t, v.IsKnown())
	assert.Empty(t, reported)
}

func TestValue(t *testing.T) {
	assert.Equal(t, "undefined", Undefined.String())
	assert.Equal(t, "3.5", Known(3.5).String())
	assert.Equal(t, uint16(0x2345), Known(0x12345).Word())
	assert.Equal(t, byte(0x45), Known(0x2345).Byte())
	assert.True(t, Known(1).Equal(Known(1)))
	assert.False(t, Known(0).Equal(Undefined))
	assert.True(t, Undefined.Equal(Value{}))
}
