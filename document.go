package docblock

// TextSpan is a fragment of the docblock together with its source position. Value is the
// exact source substring denoted by the position, regardless of any bias.
type TextSpan struct {
	Value    string   `json:"value" msgpack:"value"`
	Position Position `json:"position" msgpack:"position"`
}

// Tag is a single @name annotation.
type Tag struct {
	// Name includes the leading '@', e.g. "@param".
	Name TextSpan `json:"name" msgpack:"name"`

	// Type is the type text as written, e.g. "{string}" or "string|int". Its value is
	// empty when the tag grammar has no type or the tag omits it.
	Type TextSpan `json:"type" msgpack:"type"`

	// Descriptor is the tag argument: a "$variable" for @param, a version for @since.
	Descriptor TextSpan `json:"descriptor" msgpack:"descriptor"`

	// Description holds one span per source line of the tag description.
	Description []TextSpan `json:"description" msgpack:"description"`

	// Position covers the tag from its name to the end of the description, or to the end
	// of the type when there is no description.
	Position Position `json:"position" msgpack:"position"`
}

// Summary is the first line of prose in a docblock.
type Summary struct {
	Value string `json:"value" msgpack:"value"`

	// Position is nil when Value is empty.
	Position *Position `json:"position,omitempty" msgpack:"position,omitempty"`
}

// Document is a parsed docblock.
type Document struct {
	Summary     Summary    `json:"summary" msgpack:"summary"`
	Description []TextSpan `json:"description" msgpack:"description"`
	Tags        []Tag      `json:"tags" msgpack:"tags"`
}

// TagsNamed returns the tags with the given name in source order.
func (d *Document) TagsNamed(name string) []Tag {
	tags := []Tag{}
	for _, t := range d.Tags {
		if t.Name.Value == name {
			tags = append(tags, t)
		}
	}
	return tags
}

// shift applies the bias to every position of the document.
func (d *Document) shift(b Bias) {
	if b.IsZero() {
		return
	}
	if d.Summary.Position != nil {
		p := d.Summary.Position.Shift(b)
		d.Summary.Position = &p
	}
	shiftSpans(d.Description, b)
	for i := range d.Tags {
		t := &d.Tags[i]
		t.Name.Position = t.Name.Position.Shift(b)
		t.Type.Position = t.Type.Position.Shift(b)
		t.Descriptor.Position = t.Descriptor.Position.Shift(b)
		shiftSpans(t.Description, b)
		t.Position = t.Position.Shift(b)
	}
}

func shiftSpans(spans []TextSpan, b Bias) {
	for i := range spans {
		spans[i].Position = spans[i].Position.Shift(b)
	}
}
