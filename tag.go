package docblock

import (
	"iter"
	"strings"
)

// tagPhase is the state of the tag scanner. Phases run strictly in order.
type tagPhase int

const (
	phaseName tagPhase = iota
	phaseType
	phaseDescriptor
	phaseDescription
	phaseDone
)

// tagScanner holds the transient state of one tag scan. A scanner is created for every
// tag line and discarded afterwards.
type tagScanner struct {
	table *lineTable
	line  int
	text  string
	limit int // end of the scannable text; excludes a trailing "*/"
	pos   int // cursor, only ever moves forward
	rules TagGrammar
	tag   Tag
}

// scanTag parses the tag starting at the given line. It returns the tag and the number of
// lines consumed, including the starting line.
func scanTag(table *lineTable, grammar Grammar, line int) (Tag, int) {
	s := &tagScanner{
		table: table,
		line:  line,
		text:  table.lines[line],
	}
	s.limit = trailingDecoration(s.text)

	consumed := 1
	for ph := phaseName; ph != phaseDone; {
		switch ph {
		case phaseName:
			s.scanName(grammar)
			ph = phaseType
		case phaseType:
			s.scanType()
			ph = phaseDescriptor
		case phaseDescriptor:
			s.scanDescriptor()
			ph = phaseDescription
		case phaseDescription:
			consumed += s.scanDescription()
			ph = phaseDone
		}
	}

	end := s.tag.Type.Position.End
	if n := len(s.tag.Description); n > 0 {
		end = s.tag.Description[n-1].Position.End
	}
	s.tag.Position = Position{Start: s.tag.Name.Position.Start, End: end}

	return s.tag, consumed
}

// scanName consumes '@' and the non-space bytes after it.
func (s *tagScanner) scanName(grammar Grammar) {
	at := strings.IndexByte(s.text, '@')
	if at < 0 {
		at = len(s.text)
	}
	next := min(at+1, len(s.text))
	s.limit = max(s.limit, next)

	end := skipToken(s.text, next, s.limit)
	s.tag.Name = s.table.span(s.line, at, end)
	s.pos = end
	s.rules = grammar.Lookup(s.tag.Name.Value)
}

// scanType consumes a "{...}" or bare-word type when the grammar declares one.
func (s *tagScanner) scanType() {
	s.tag.Type = s.empty()
	if !s.rules.HasType {
		return
	}

	i := skipSpace(s.text, s.pos, s.limit)
	switch {
	case i == s.limit || s.text[i] == '$':
		// no type: "@param $x" or a bare "@return"
		return
	case s.text[i] == '{':
		end := s.limit // unterminated: run to the end of the line
		if j := strings.IndexByte(s.text[i:s.limit], '}'); j >= 0 {
			end = i + j + 1
		}
		s.consume(&s.tag.Type, i, end)
	default:
		s.consume(&s.tag.Type, i, skipToken(s.text, i, s.limit))
	}
}

// scanDescriptor consumes the "$variable" or version token when the grammar declares an
// argument. A variable is the first "$" token of the line; words before it are dropped.
func (s *tagScanner) scanDescriptor() {
	s.tag.Descriptor = s.empty()
	if !s.rules.HasArgument() {
		return
	}

	i := skipSpace(s.text, s.pos, s.limit)
	if i == s.limit {
		return
	}
	if s.rules.Argument == VariableArgument {
		j := strings.IndexByte(s.text[i:s.limit], '$')
		if j < 0 {
			return
		}
		i += j
	}
	s.consume(&s.tag.Descriptor, i, skipToken(s.text, i, s.limit))
}

// scanDescription takes the rest of the line and the continuation lines that follow it.
// It returns the number of continuation lines.
func (s *tagScanner) scanDescription() int {
	desc := make([]TextSpan, 0, 1)

	if i := skipSpace(s.text, s.pos, s.limit); i < s.limit {
		desc = append(desc, s.table.span(s.line, i, s.limit))
		s.pos = s.limit
	}

	n := 0
	for span := range s.table.continuation(s.line + 1) {
		desc = append(desc, span)
		n++
	}

	s.tag.Description = desc
	return n
}

func (s *tagScanner) consume(dst *TextSpan, start, end int) {
	*dst = s.table.span(s.line, start, end)
	s.pos = end
}

// empty returns a zero-width span at the cursor.
func (s *tagScanner) empty() TextSpan {
	return s.table.span(s.line, s.pos, s.pos)
}

// continuation yields the description lines following a tag line, up to (and excluding)
// the first blank line or tag line.
func (t *lineTable) continuation(from int) iter.Seq[TextSpan] {
	return func(yield func(TextSpan) bool) {
		for i := from; i < len(t.lines); i++ {
			if IsBlankLine(t.lines[i]) || IsTagLine(t.lines[i]) {
				return
			}
			if !yield(t.content(i)) {
				return
			}
		}
	}
}

// content returns the line with its leading and trailing decoration removed.
func (t *lineTable) content(i int) TextSpan {
	line := t.lines[i]
	start := leadingDecoration(line)
	end := max(start, trailingDecoration(line))
	return t.span(i, start, end)
}
