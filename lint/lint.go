// Package lint checks parsed docblocks against rules written as expr-lang expressions.
//
// A rule is evaluated either once per document or once per tag. Tag rules see the
// variables name, type, descriptor, description and lines; document rules see summary,
// description and tags (a list of tag values with the same fields). Both scopes can call
// words(s), which splits an identifier such as "$isItTrue" into ["is", "It", "True"].
// Document rules can also call hasTag(name) and tagCount(name).
package lint

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	docblock "github.com/dpotapov/go-docblock"
)

// Scope selects what a rule is evaluated against.
type Scope string

const (
	ScopeDocument Scope = "document"
	ScopeTag      Scope = "tag"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

var (
	ErrUnknownScope    = errors.New("unknown rule scope")
	ErrUnknownSeverity = errors.New("unknown rule severity")
	ErrEmptyAssert     = errors.New("rule has no assert expression")
)

// Rule is a single check. An empty Scope means ScopeTag and an empty Severity means
// SeverityWarning.
type Rule struct {
	ID       string   `yaml:"id" toml:"id" json:"id"`
	Scope    Scope    `yaml:"scope,omitempty" toml:"scope" json:"scope,omitempty"`
	When     string   `yaml:"when,omitempty" toml:"when" json:"when,omitempty"`
	Assert   string   `yaml:"assert" toml:"assert" json:"assert"`
	Message  string   `yaml:"message" toml:"message" json:"message"`
	Severity Severity `yaml:"severity,omitempty" toml:"severity" json:"severity,omitempty"`
}

// RuleError reports a rule that could not be compiled.
type RuleError struct {
	ID  string
	Err error
}

func (e *RuleError) Error() string {
	return "rule " + e.ID + ": " + e.Err.Error()
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// Violation is a failed rule.
type Violation struct {
	Rule     string            `json:"rule"`
	Severity Severity          `json:"severity"`
	Message  string            `json:"message"`
	Position docblock.Position `json:"position"`
}

func (v Violation) String() string {
	p := v.Position.Start
	return fmt.Sprintf("%d:%d: %s %s: %s", p.Line+1, p.Column+1, v.Severity, v.Rule, v.Message)
}

// DefaultRules returns the built-in rule set.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:      "summary-required",
			Scope:   ScopeDocument,
			Assert:  `summary != ""`,
			Message: "docblock has no summary",
		},
		{
			ID:       "param-variable",
			When:     `name == "@param"`,
			Assert:   `descriptor startsWith "$"`,
			Message:  "@param is missing its $variable",
			Severity: SeverityError,
		},
		{
			ID:      "param-type",
			When:    `name == "@param"`,
			Assert:  `type != ""`,
			Message: "@param has no type",
		},
		{
			ID:      "return-type",
			When:    `name == "@return"`,
			Assert:  `type != ""`,
			Message: "@return has no type",
		},
		{
			ID:      "since-version",
			When:    `name == "@since"`,
			Assert:  `descriptor matches "^v?[0-9]+(\\.[0-9]+)*([-+][0-9A-Za-z.-]+)?$"`,
			Message: "@since needs a version number",
		},
	}
}

type compiledRule struct {
	Rule
	when   *vm.Program // nil when the rule always applies
	assert *vm.Program
}

// Linter holds a compiled rule set. It is safe for concurrent use.
type Linter struct {
	document []compiledRule
	tag      []compiledRule
}

// New compiles the rules. Errors are of type *RuleError.
func New(rules []Rule) (*Linter, error) {
	l := &Linter{}
	for _, r := range rules {
		cr, err := compileRule(r)
		if err != nil {
			return nil, &RuleError{ID: r.ID, Err: err}
		}
		if cr.Scope == ScopeDocument {
			l.document = append(l.document, cr)
		} else {
			l.tag = append(l.tag, cr)
		}
	}
	return l, nil
}

func compileRule(r Rule) (compiledRule, error) {
	if r.Scope == "" {
		r.Scope = ScopeTag
	}
	if r.Severity == "" {
		r.Severity = SeverityWarning
	}

	var env any
	switch r.Scope {
	case ScopeDocument:
		env = documentEnv{}
	case ScopeTag:
		env = tagEnv{}
	default:
		return compiledRule{}, fmt.Errorf("%w %q", ErrUnknownScope, r.Scope)
	}

	switch r.Severity {
	case SeverityError, SeverityWarning, SeverityInfo:
	default:
		return compiledRule{}, fmt.Errorf("%w %q", ErrUnknownSeverity, r.Severity)
	}

	if strings.TrimSpace(r.Assert) == "" {
		return compiledRule{}, ErrEmptyAssert
	}

	cr := compiledRule{Rule: r}

	var err error
	if strings.TrimSpace(r.When) != "" {
		cr.when, err = expr.Compile(r.When, exprOptions(env)...)
		if err != nil {
			return cr, fmt.Errorf("compile when: %w", err)
		}
	}
	cr.assert, err = expr.Compile(r.Assert, exprOptions(env)...)
	if err != nil {
		return cr, fmt.Errorf("compile assert: %w", err)
	}
	return cr, nil
}

// Check evaluates every rule against the document. Violations are ordered by source
// position. A rule that fails to evaluate is reported as an error violation.
func (l *Linter) Check(doc *docblock.Document) []Violation {
	var out []Violation

	docPos := docblock.Position{}
	if doc.Summary.Position != nil {
		docPos = *doc.Summary.Position
	}
	denv := newDocumentEnv(doc)
	for _, r := range l.document {
		if v, failed := r.eval(denv, docPos); failed {
			out = append(out, v)
		}
	}

	for i, tag := range doc.Tags {
		tenv := denv.Tags[i]
		for _, r := range l.tag {
			if v, failed := r.eval(tenv, tag.Position); failed {
				out = append(out, v)
			}
		}
	}

	slices.SortStableFunc(out, func(a, b Violation) int {
		return a.Position.Start.Offset - b.Position.Start.Offset
	})
	return out
}

func (r compiledRule) eval(env any, at docblock.Position) (Violation, bool) {
	v := Violation{
		Rule:     r.ID,
		Severity: r.Severity,
		Message:  r.Message,
		Position: at,
	}

	if r.when != nil {
		ok, err := run(r.when, env)
		if err != nil {
			v.Severity, v.Message = SeverityError, "evaluate when: "+err.Error()
			return v, true
		}
		if !ok {
			return v, false
		}
	}

	ok, err := run(r.assert, env)
	if err != nil {
		v.Severity, v.Message = SeverityError, "evaluate assert: "+err.Error()
		return v, true
	}
	return v, !ok
}

func run(p *vm.Program, env any) (bool, error) {
	out, err := expr.Run(p, env)
	if err != nil {
		return false, err
	}
	b, _ := out.(bool)
	return b, nil
}
