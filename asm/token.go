// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "strings"

// Split a line into alternating runs of token characters and runs of all
// other characters. Concatenating the result yields the original line.
func tokenize(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var tokens []string
	start := 0
	ident := tokenChar(s[0])
	for i := 1; i < len(s); i++ {
		if tokenChar(s[i]) != ident {
			tokens = append(tokens, s[start:i])
			start, ident = i, !ident
		}
	}
	return append(tokens, s[start:])
}

// Replace every token of the line that names a key of repl with its value.
// A lone apostrophe next to a replaced token joins the replacement to its
// neighbor and is removed.
func substitute(line string, repl map[string]string) string {
	if len(repl) == 0 {
		return line
	}

	tokens := tokenize(line)
	replaced := func(i int) bool {
		if i < 0 || i >= len(tokens) {
			return false
		}
		_, ok := repl[tokens[i]]
		return ok
	}

	var sb strings.Builder
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if v, ok := repl[t]; ok {
			sb.WriteString(v)
			if i+1 < len(tokens) && tokens[i+1] == "'" {
				i++
			}
			continue
		}
		if t == "'" && replaced(i+1) {
			continue
		}
		sb.WriteString(t)
	}
	return sb.String()
}

// Replace a single placeholder token.
func replaceToken(line, placeholder, value string) string {
	return substitute(line, map[string]string{placeholder: value})
}
