// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "strings"

// A segment is a replayable sequence of source lines: the contents of a
// source file, an included file, or a single macro expansion.
type segment struct {
	name   string   // file or macro name, for diagnostics
	lines  []string // upper-cased source lines
	cursor int      // index of the next line to read
}

func newSegment(name string, lines []string) *segment {
	s := &segment{name: name, lines: make([]string, len(lines))}
	for i, l := range lines {
		s.lines[i] = strings.ToUpper(l)
	}
	return s
}

// A segmentHandle identifies a segment within a segmentSet.
type segmentHandle int

const noSegment segmentHandle = -1

// A segmentSet is an arena of segments. One segment is active at a time;
// pushing a new segment suspends the active one until the new one is
// exhausted.
type segmentSet struct {
	arena     []*segment
	roots     int // number of top-level segments at the front of arena
	active    segmentHandle
	suspended []segmentHandle
}

func newSegmentSet() *segmentSet {
	return &segmentSet{active: noSegment}
}

// Add a top-level segment. Top-level segments survive between passes.
func (s *segmentSet) addRoot(name string, lines []string) segmentHandle {
	s.arena = append(s.arena[:s.roots], newSegment(name, lines))
	s.roots++
	return segmentHandle(s.roots - 1)
}

// Begin reading a top-level segment from its first line. Segments pushed
// while reading a previous root are discarded.
func (s *segmentSet) start(h segmentHandle) {
	s.arena = s.arena[:s.roots]
	s.suspended = s.suspended[:0]
	s.active = h
	s.arena[h].cursor = 0
}

// Suspend the active segment and activate a new one.
func (s *segmentSet) push(name string, lines []string) segmentHandle {
	s.arena = append(s.arena, newSegment(name, lines))
	if s.active != noSegment {
		s.suspended = append(s.suspended, s.active)
	}
	s.active = segmentHandle(len(s.arena) - 1)
	return s.active
}

// Return the next raw line of the active segment. The second return value
// is false when the active segment is exhausted.
func (s *segmentSet) next() (string, bool) {
	seg := s.current()
	if seg == nil || seg.cursor >= len(seg.lines) {
		return "", false
	}
	line := seg.lines[seg.cursor]
	seg.cursor++
	return line, true
}

// Resume the most recently suspended segment. It returns false when no
// segment is suspended.
func (s *segmentSet) resume() bool {
	n := len(s.suspended)
	if n == 0 {
		return false
	}
	s.active = s.suspended[n-1]
	s.suspended = s.suspended[:n-1]
	return true
}

func (s *segmentSet) current() *segment {
	if s.active == noSegment {
		return nil
	}
	return s.arena[s.active]
}

// Return the cursor of the active segment.
func (s *segmentSet) cursor() int {
	if seg := s.current(); seg != nil {
		return seg.cursor
	}
	return 0
}

// Move the cursor of the active segment.
func (s *segmentSet) rewind(cursor int) {
	if seg := s.current(); seg != nil {
		seg.cursor = cursor
	}
}

// Return the name of the active segment.
func (s *segmentSet) name() string {
	if seg := s.current(); seg != nil {
		return seg.name
	}
	return ""
}

// Return the 1-based number of the line most recently read from the active
// segment.
func (s *segmentSet) lineNumber() int {
	return s.cursor()
}

// Return the line most recently read from the active segment.
func (s *segmentSet) currentLine() string {
	seg := s.current()
	if seg == nil || seg.cursor == 0 || seg.cursor > len(seg.lines) {
		return ""
	}
	return seg.lines[seg.cursor-1]
}
