// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "strings"

// An fstring is a substring of a line that keeps track of its position
// within the line from which it was taken.
type fstring struct {
	column int    // 0-based column of start of substring
	str    string // the actual substring of interest
	full   string // the full line as originally read
}

func newFstring(str string) fstring {
	return fstring{0, str, str}
}

func (l fstring) String() string {
	return l.str
}

func (l fstring) consume(n int) fstring {
	return fstring{l.column + n, l.str[n:], l.full}
}

func (l fstring) trunc(n int) fstring {
	return fstring{l.column, l.str[:n], l.full}
}

func (l fstring) isEmpty() bool {
	return len(l.str) == 0
}

func (l fstring) startsWith(fn func(c byte) bool) bool {
	return len(l.str) > 0 && fn(l.str[0])
}

func (l fstring) startsWithChar(c byte) bool {
	return len(l.str) > 0 && l.str[0] == c
}

func (l fstring) startsWithString(s string) bool {
	return strings.HasPrefix(l.str, s)
}

func (l fstring) consumeWhitespace() fstring {
	return l.consume(scanWhile(l.str, whitespace))
}

func (l fstring) consumeWhile(fn func(c byte) bool) (consumed, remain fstring) {
	i := scanWhile(l.str, fn)
	consumed, remain = l.trunc(i), l.consume(i)
	return
}

func scanWhile(s string, fn func(c byte) bool) int {
	i := 0
	for ; i < len(s) && fn(s[i]); i++ {
	}
	return i
}

//
// line matching helpers
//

// Return the length of the identifier at the start of s, or 0 if s does
// not start with one.
func scanIdentifier(s string) int {
	if len(s) == 0 || !identifierStartChar(s[0]) {
		return 0
	}
	return 1 + scanWhile(s[1:], identifierChar)
}

// Return the length of the local label ("digits$") at the start of s, or 0
// if s does not start with one.
func scanLocalLabel(s string) int {
	n := scanWhile(s, decimal)
	if n == 0 || n >= len(s) || s[n] != '$' {
		return 0
	}
	return n + 1
}

// Return the length of the pseudo-op name ('.' followed by letters) at the
// start of s, or 0 if s does not start with one.
func scanPseudoOp(s string) int {
	if len(s) < 2 || s[0] != '.' {
		return 0
	}
	n := scanWhile(s[1:], alpha)
	if n == 0 {
		return 0
	}
	return n + 1
}

// Report whether the trimmed line starts with the directive keyword kw,
// followed by end of line or a character that cannot continue a keyword.
// The text after the keyword is returned.
func matchDirective(line, kw string) (rest string, ok bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, kw) {
		return "", false
	}
	rest = line[len(kw):]
	if len(rest) > 0 && tokenChar(rest[0]) {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// Report whether the line is a comment, that is, whether its first
// non-blank character starts a comment.
func isCommentLine(line string) bool {
	i := scanWhile(line, whitespace)
	return i < len(line) && comment(line[i])
}

// Remove a trailing comment and surrounding whitespace from the line.
func stripTrailingComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// Split s on any of the separator characters, dropping empty fields.
func splitList(s string) []string {
	return strings.FieldsFunc(s, listSeparator)
}

//
// character helper functions
//

func whitespace(c byte) bool {
	return c == ' ' || c == '\t'
}

func listSeparator(r rune) bool {
	return r == ',' || r == ' ' || r == '\t'
}

func alpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func decimal(c byte) bool {
	return (c >= '0' && c <= '9')
}

func alphanumeric(c byte) bool {
	return alpha(c) || decimal(c)
}

func comment(c byte) bool {
	return c == ';'
}

func hexadecimal(c byte) bool {
	return decimal(c) || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

func binarynum(c byte) bool {
	return c == '0' || c == '1'
}

// Characters allowed in a bare number before radix conversion.
func numberChar(c byte) bool {
	return decimal(c) || (c >= 'A' && c <= 'F') || c == '.'
}

func identifierStartChar(c byte) bool {
	return alpha(c) || c == '.' || c == '$' || c == '?'
}

func identifierChar(c byte) bool {
	return alphanumeric(c) || c == '.' || c == '$' || c == '\''
}

// Characters that make up an identifier run for token substitution.
func tokenChar(c byte) bool {
	return alphanumeric(c) || c == '.'
}
