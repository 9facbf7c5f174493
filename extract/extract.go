// Package extract finds docblocks in source files so that each can be parsed with
// positions expressed in file coordinates.
package extract

import (
	"strings"

	docblock "github.com/dpotapov/go-docblock"
)

// Block is one "/** ... */" comment of a source file.
type Block struct {
	// Text starts at the beginning of the line holding "/**" when only whitespace precedes
	// the delimiter, otherwise at the delimiter itself.
	Text string

	// Line and Offset locate the first byte of Text in the file (zero-based).
	Line   int
	Offset int

	// Column is the file column of the first byte of Text. It is non-zero only when code
	// precedes the comment on its first line, in which case the columns of that line are
	// relative to Text.
	Column int
}

// Parse parses the block with positions biased into file coordinates.
func (b Block) Parse(g docblock.Grammar) *docblock.Document {
	return docblock.Parse(b.Text, &docblock.Options{
		Line:    b.Line,
		Offset:  b.Offset,
		Grammar: g,
	})
}

// Docblocks returns the docblocks of src in order. Line comments and ordinary block
// comments are skipped; string literals are not recognised. An unterminated docblock runs
// to the end of src.
func Docblocks(src string) []Block {
	var blocks []Block

	line, lineStart := 0, 0
	advance := func(from, to int) {
		for i := from; i < to; i++ {
			if src[i] == '\n' {
				line++
				lineStart = i + 1
			}
		}
	}

	pos := 0
	for pos < len(src) {
		i := strings.Index(src[pos:], "/")
		if i < 0 {
			break
		}
		advance(pos, pos+i)
		pos += i
		rest := src[pos:]

		switch {
		case strings.HasPrefix(rest, "//"):
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				return blocks
			}
			pos += end // the newline is counted on the next iteration
		case strings.HasPrefix(rest, "/**") && !strings.HasPrefix(rest, "/**/"):
			end := len(rest)
			if j := strings.Index(rest[3:], "*/"); j >= 0 {
				end = 3 + j + 2
			}

			b := Block{Line: line, Offset: pos, Column: pos - lineStart}
			if strings.TrimSpace(src[lineStart:pos]) == "" {
				b.Offset, b.Column = lineStart, 0
			}
			b.Text = src[b.Offset : pos+end]
			blocks = append(blocks, b)

			advance(pos, pos+end)
			pos += end
		case strings.HasPrefix(rest, "/*"):
			end := len(rest)
			if j := strings.Index(rest[2:], "*/"); j >= 0 {
				end = 2 + j + 2
			}
			advance(pos, pos+end)
			pos += end
		default:
			pos++
		}
	}

	return blocks
}
