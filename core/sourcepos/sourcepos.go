// Package sourcepos tracks byte offsets and converts them to row/column
// positions for diagnostics.
package sourcepos

import "fmt"

// Pos is a single location in a source file.
type Pos struct {
	Row    int // 1-based line number
	Col    int // 1-based column number
	Offset int // 0-based byte offset
}

// Range spans from Begin (inclusive) to End (exclusive) within one named file.
type Range struct {
	File  string
	Begin Pos
	End   Pos
}

// Len returns the byte length of the range.
func (r Range) Len() int {
	if r.End.Offset < r.Begin.Offset {
		return 0
	}
	return r.End.Offset - r.Begin.Offset
}

// Text returns the slice of data covered by the range.
func (r Range) Text(data []byte) []byte {
	return data[r.Begin.Offset:r.End.Offset]
}

// String renders a range the way diagnostics print it: "(row:col - row:col)".
func (r Range) String() string {
	return fmt.Sprintf("(%d:%d - %d:%d)", r.Begin.Row, r.Begin.Col, r.End.Row, r.End.Col)
}

// Map converts byte offsets to (row, col) pairs for one source buffer.
//
// The lexer already tracks row/col incrementally while it scans, so Map
// isn't needed during lexing itself; it exists for components that receive
// a bare offset after the fact (the parser anchoring a diagnostic at a byte
// offset found by searching the raw buffer) without having to replay the
// scan.
type Map struct {
	file       string
	lineStarts []int // byte offset of the first byte of each line; lineStarts[0] == 0
}

// NewMap builds a Map for the given source text.
func NewMap(file string, data []byte) *Map {
	m := &Map{file: file, lineStarts: []int{0}}
	for i, b := range data {
		if b == '\n' {
			m.lineStarts = append(m.lineStarts, i+1)
		}
	}
	return m
}

// Position converts a byte offset into a Pos.
func (m *Map) Position(offset int) Pos {
	line := m.lineForOffset(offset)
	col := offset - m.lineStarts[line] + 1
	return Pos{Row: line + 1, Col: col, Offset: offset}
}

// lineForOffset returns the 0-based line index containing offset via binary search.
func (m *Map) lineForOffset(offset int) int {
	lo, hi := 0, len(m.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if m.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Range builds a Range from two byte offsets using this map's file name.
func (m *Map) Range(begin, end int) Range {
	return Range{File: m.file, Begin: m.Position(begin), End: m.Position(end)}
}
