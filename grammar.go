package docblock

import "maps"

// ArgumentKind describes the shape of a tag argument.
type ArgumentKind int

const (
	// NoArgument tags go straight from the type to the description.
	NoArgument ArgumentKind = iota

	// VariableArgument is a '$'-prefixed token, e.g. "$name" of @param.
	VariableArgument

	// VersionArgument is any token after the name, e.g. "1.0.0-beta.1" of @since.
	VersionArgument
)

func (k ArgumentKind) String() string {
	switch k {
	case VariableArgument:
		return "variable"
	case VersionArgument:
		return "version"
	default:
		return "none"
	}
}

// TagGrammar declares which parts a tag carries between its name and its description.
type TagGrammar struct {
	HasType  bool
	Argument ArgumentKind
}

// HasArgument reports whether the tag takes a descriptor.
func (g TagGrammar) HasArgument() bool {
	return g.Argument != NoArgument
}

// Grammar maps tag names (with the leading '@') to their grammar. Tags missing from the
// table have neither type nor argument.
type Grammar map[string]TagGrammar

// DefaultGrammar returns a fresh copy of the built-in table.
func DefaultGrammar() Grammar {
	return Grammar{
		"@param":  {HasType: true, Argument: VariableArgument},
		"@return": {HasType: true},
		"@since":  {Argument: VersionArgument},
	}
}

// Lookup returns the grammar of the named tag.
func (g Grammar) Lookup(name string) TagGrammar {
	return g[name]
}

// With returns a copy of g with the given entries added or replaced.
func (g Grammar) With(entries Grammar) Grammar {
	out := make(Grammar, len(g)+len(entries))
	maps.Copy(out, g)
	maps.Copy(out, entries)
	return out
}
