package docblock

import "strings"

// LineEnding is the line break convention of a docblock.
type LineEnding int

const (
	LF LineEnding = iota
	CRLF
)

// Width returns the number of bytes a single line break occupies.
func (e LineEnding) Width() int {
	if e == CRLF {
		return 2
	}
	return 1
}

func (e LineEnding) String() string {
	if e == CRLF {
		return "CRLF"
	}
	return "LF"
}

// Point is a zero-based location in the docblock source.
type Point struct {
	Line   int `json:"line" msgpack:"line"`
	Column int `json:"column" msgpack:"column"` // byte column within the line
	Offset int `json:"offset" msgpack:"offset"` // byte offset from the start of the docblock
}

// Position is a half-open range [Start, End) of the docblock source.
type Position struct {
	Start Point `json:"start" msgpack:"start"`
	End   Point `json:"end" msgpack:"end"`
}

// Bias is a caller supplied coordinate adjustment. Line is added to every line field and
// Count to every offset field. Columns are never biased.
type Bias struct {
	Line  int
	Count int
}

// IsZero reports whether the bias leaves positions unchanged.
func (b Bias) IsZero() bool {
	return b.Line == 0 && b.Count == 0
}

// Shift returns the position moved by the bias.
func (p Position) Shift(b Bias) Position {
	p.Start.Line += b.Line
	p.Start.Offset += b.Count
	p.End.Line += b.Line
	p.End.Offset += b.Count
	return p
}

// IsEmpty reports whether the position is collapsed to a single point.
func (p Position) IsEmpty() bool {
	return p.Start.Offset == p.End.Offset
}

// OffsetOf converts a line index and column into an absolute offset: the length of all
// lines before lineIndex, plus column, plus one line break per preceding line.
func OffsetOf(lineIndex, column int, lines []string, ending LineEnding) int {
	offset := 0
	for i := 0; i < lineIndex; i++ {
		offset += len(lines[i])
	}
	return offset + column + lineIndex*ending.Width()
}

// DetectLineEnding decides the line break convention for the whole docblock from the
// first newline at or after index 1. Without any newline a bare carriage return still
// selects CRLF.
func DetectLineEnding(src string) LineEnding {
	if len(src) < 2 {
		return detectWithoutNewline(src)
	}
	i := strings.IndexByte(src[1:], '\n')
	if i < 0 {
		return detectWithoutNewline(src)
	}
	if src[i] == '\r' { // src[i] precedes the newline at i+1
		return CRLF
	}
	return LF
}

func detectWithoutNewline(src string) LineEnding {
	if strings.IndexByte(src, '\r') >= 0 {
		return CRLF
	}
	return LF
}

// splitLines splits src on \r?\n.
func splitLines(src string) []string {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// lineTable caches line start offsets so positions are computed in constant time.
// lineTable.offset(i, col) always equals OffsetOf(i, col, lines, ending).
type lineTable struct {
	lines  []string
	ending LineEnding
	starts []int
}

func newLineTable(src string) *lineTable {
	t := &lineTable{
		lines:  splitLines(src),
		ending: DetectLineEnding(src),
	}
	t.starts = make([]int, len(t.lines))
	off := 0
	for i, l := range t.lines {
		t.starts[i] = off
		off += len(l) + t.ending.Width()
	}
	return t
}

func (t *lineTable) point(line, column int) Point {
	return Point{Line: line, Column: column, Offset: t.starts[line] + column}
}

// span builds a TextSpan for the bytes [start, end) of the given line.
func (t *lineTable) span(line, start, end int) TextSpan {
	return TextSpan{
		Value: t.lines[line][start:end],
		Position: Position{
			Start: t.point(line, start),
			End:   t.point(line, end),
		},
	}
}
