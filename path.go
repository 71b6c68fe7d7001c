// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package binout

import (
	"fmt"
	"strings"
)

// maxPathLength is the longest path the parser's CD buffer will accept,
// including the leading separator (spec.md §3, §6).
const maxPathLength = 1024

// pathView is a non-owning cursor over a slash-separated path string. It
// never allocates: segment returns a slice of the original string.
//
// Grounded on the segment-cutting idiom of the teacher's pathops.go
// (pcut/pmid), reshaped into an explicit cursor per the component design.
type pathView struct {
	s         string
	curStart  int
	curLen    int
	nextStart int
	started   bool
	done      bool
}

// newPathView positions the cursor just before the first segment of s.
// If s begins with "/", the first segment Advance reaches is empty,
// representing the root.
func newPathView(s string) pathView {
	return pathView{s: s}
}

// isAbsolutePath reports whether s begins with "/".
func isAbsolutePath(s string) bool {
	return len(s) > 0 && s[0] == '/'
}

// advance moves to the next segment, returning false once the cursor has
// passed the final segment.
func (v *pathView) advance() bool {
	if v.done {
		return false
	}
	if v.nextStart > len(v.s) {
		v.done = true
		return false
	}
	rest := v.s[v.nextStart:]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		v.curStart = v.nextStart
		v.curLen = i
		v.nextStart += i + 1
	} else {
		v.curStart = v.nextStart
		v.curLen = len(rest)
		v.nextStart = len(v.s) + 1 // one past len(s): next advance() stops
	}
	v.started = true
	return true
}

// segment returns the segment at the cursor, or "" before the first advance.
func (v *pathView) segment() string {
	if !v.started {
		return ""
	}
	return v.s[v.curStart : v.curStart+v.curLen]
}

// compare bytewise-compares the current segment with a literal.
func (v *pathView) compare(literal string) bool {
	return v.segment() == literal
}

// pathBuffer is the parser's mutable, fixed-capacity current-directory
// buffer. It always holds a well-formed absolute path starting with "/".
//
// Grounded on the 1024-byte char current_path_string[] buffer and the
// path_move_up/PATH_VIEW_CPY join logic of original_source's binout.c,
// and on the "grow but never past root" discipline of the teacher's
// path.go pathRenderer.
type pathBuffer struct {
	buf [maxPathLength]byte
	n   int
}

func newPathBuffer() *pathBuffer {
	b := &pathBuffer{n: 1}
	b.buf[0] = '/'
	return b
}

func (b *pathBuffer) String() string { return string(b.buf[:b.n]) }

// setAbsolute replaces the buffer wholesale with an absolute path.
func (b *pathBuffer) setAbsolute(p string) error {
	if !isAbsolutePath(p) {
		return fmt.Errorf("path %q is not absolute", p)
	}
	if len(p) > len(b.buf) {
		return fmt.Errorf("path exceeds %d bytes", maxPathLength)
	}
	copy(b.buf[:], p)
	b.n = len(p)
	return nil
}

// up pops one path segment, but never past the root "/".
func (b *pathBuffer) up() {
	if b.n <= 1 {
		return
	}
	i := b.n - 1
	for i > 0 && b.buf[i] != '/' {
		i--
	}
	if i == 0 {
		i = 1
	}
	b.n = i
}

// appendSegment appends one path component, separated by "/" unless the
// buffer currently holds only the root.
func (b *pathBuffer) appendSegment(seg string) error {
	if seg == "" {
		return nil
	}
	extra := len(seg)
	if b.n != 1 {
		extra++ // separating slash
	}
	if b.n+extra > len(b.buf) {
		return fmt.Errorf("path exceeds %d bytes", maxPathLength)
	}
	if b.n == 1 {
		copy(b.buf[1:], seg)
		b.n = 1 + len(seg)
	} else {
		b.buf[b.n] = '/'
		copy(b.buf[b.n+1:], seg)
		b.n += 1 + len(seg)
	}
	return nil
}

// joinRelative joins rel onto the buffer segment by segment; ".." pops one
// segment (never past root), "." and empty segments are skipped.
func (b *pathBuffer) joinRelative(rel string) error {
	v := newPathView(rel)
	for v.advance() {
		seg := v.segment()
		switch seg {
		case "", ".":
			continue
		case "..":
			b.up()
		default:
			if err := b.appendSegment(seg); err != nil {
				return err
			}
		}
	}
	return nil
}
