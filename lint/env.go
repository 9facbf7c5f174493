package lint

import (
	"strings"
	"unicode"

	"github.com/expr-lang/expr"
	"github.com/fatih/camelcase"

	docblock "github.com/dpotapov/go-docblock"
)

// tagEnv is the expression environment of a tag rule.
type tagEnv struct {
	Name        string `expr:"name"`
	Type        string `expr:"type"`
	Descriptor  string `expr:"descriptor"`
	Description string `expr:"description"` // description lines joined by a space
	Lines       int    `expr:"lines"`
}

// documentEnv is the expression environment of a document rule.
type documentEnv struct {
	Summary     string   `expr:"summary"`
	Description string   `expr:"description"`
	Tags        []tagEnv `expr:"tags"`

	HasTag   func(name string) bool `expr:"hasTag"`
	TagCount func(name string) int `expr:"tagCount"`
}

func newDocumentEnv(doc *docblock.Document) documentEnv {
	env := documentEnv{
		Summary:     doc.Summary.Value,
		Description: joinSpans(doc.Description),
		Tags:        make([]tagEnv, len(doc.Tags)),
	}
	for i, t := range doc.Tags {
		env.Tags[i] = tagEnv{
			Name:        t.Name.Value,
			Type:        t.Type.Value,
			Descriptor:  t.Descriptor.Value,
			Description: joinSpans(t.Description),
			Lines:       len(t.Description),
		}
	}

	tags := env.Tags
	env.TagCount = func(name string) int {
		n := 0
		for _, t := range tags {
			if t.Name == name {
				n++
			}
		}
		return n
	}
	env.HasTag = func(name string) bool {
		return env.TagCount(name) > 0
	}
	return env
}

func joinSpans(spans []docblock.TextSpan) string {
	parts := make([]string, len(spans))
	for i, s := range spans {
		parts[i] = strings.TrimSpace(s.Value)
	}
	return strings.Join(parts, " ")
}

// exprOptions returns the standard options for compiling rule expressions.
func exprOptions(env any) []expr.Option {
	return []expr.Option{
		expr.Env(env),
		expr.AsBool(),
		// "type" is a tag field, not the builtin
		expr.DisableBuiltin("type"),
		expr.Function("words", wordsFunction, new(func(string) []string)),
	}
}

// wordsFunction splits an identifier into its camel case words, dropping the '$' sigil
// and separators such as '_'.
func wordsFunction(params ...any) (any, error) {
	s, _ := params[0].(string)
	return words(s), nil
}

func words(s string) []string {
	out := []string{}
	for _, w := range camelcase.Split(strings.TrimLeft(s, "$")) {
		if strings.IndexFunc(w, isWordRune) >= 0 {
			out = append(out, w)
		}
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
