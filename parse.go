// Package docblock parses JSDoc/PHPDoc style comment blocks into a summary, a description
// and a list of tags, keeping the exact source position of every extracted fragment.
//
// Positions are zero-based. Columns and offsets count bytes, so for any span
// src[span.Position.Start.Offset:span.Position.End.Offset] == span.Value when no bias is
// applied.
package docblock

// Options configures a Parse call. The zero value parses with the default grammar and no
// coordinate bias.
type Options struct {
	// Line is added to the line of every emitted position.
	Line int

	// Offset is added to the offset of every emitted position.
	Offset int

	// Grammar describes the tags that carry a type or an argument. DefaultGrammar is used
	// when nil.
	Grammar Grammar
}

func (o *Options) bias() Bias {
	if o == nil {
		return Bias{}
	}
	return Bias{Line: o.Line, Count: o.Offset}
}

func (o *Options) grammar() Grammar {
	if o == nil || o.Grammar == nil {
		return defaultGrammar
	}
	return o.Grammar
}

var defaultGrammar = DefaultGrammar()

// Parse parses a single docblock. The opening "/**" and closing "*/" delimiters are
// optional. Parse never fails: malformed input yields best-effort spans. opts may be nil.
//
// Parse keeps no state between calls and is safe for concurrent use.
func Parse(src string, opts *Options) *Document {
	table := newLineTable(src)
	grammar := opts.grammar()

	doc := &Document{
		Description: []TextSpan{},
		Tags:        []Tag{},
	}

	var metSummary, metDescription, metTags bool

	for i := 0; i < len(table.lines); {
		line := table.lines[i]

		if IsBlankLine(line) {
			i++
			continue
		}

		if IsTagLine(line) {
			metSummary, metDescription, metTags = true, true, true

			tag, consumed := scanTag(table, grammar, i)
			doc.Tags = append(doc.Tags, tag)
			i += consumed
			continue
		}

		// prose after the first tag is dropped
		if metTags {
			i++
			continue
		}

		span := table.content(i)
		switch {
		case !metSummary:
			doc.Summary.Value = span.Value
			if span.Value != "" {
				pos := span.Position
				doc.Summary.Position = &pos
			}
			metSummary = true
		case !metDescription:
			doc.Description = append(doc.Description, span)
		}
		i++
	}

	doc.shift(opts.bias())

	return doc
}
