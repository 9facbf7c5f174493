package lint

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	docblock "github.com/dpotapov/go-docblock"
)

const testDocblock = `/**
 * Summary.
 *
 * @since x.x.x
 * @param string Missing the variable.
 * @param $ok
 * @return
 */`

func violationIDs(vs []Violation) []string {
	var ids []string
	for _, v := range vs {
		ids = append(ids, v.Rule)
	}
	return ids
}

func TestLinter_DefaultRules(t *testing.T) {
	l, err := New(DefaultRules())
	require.NoError(t, err)

	got := l.Check(docblock.Parse(testDocblock, nil))

	want := []string{"since-version", "param-variable", "param-type", "return-type"}
	if diff := cmp.Diff(violationIDs(got), want); diff != "" {
		t.Errorf("Check() diff (-got +want):\n%s", diff)
	}

	assert.Equal(t, SeverityError, got[1].Severity)
	assert.Equal(t, 4, got[1].Position.Start.Line)
	assert.Equal(t, 3, got[1].Position.Start.Column)
	assert.Equal(t, "5:4: error param-variable: @param is missing its $variable", got[1].String())
}

func TestLinter_DefaultRulesClean(t *testing.T) {
	l, err := New(DefaultRules())
	require.NoError(t, err)

	doc := docblock.Parse(`/**
 * Adds two numbers.
 *
 * @since 1.2.0-rc.1
 * @param int $a First.
 * @param {number} $b Second.
 * @return int The sum.
 */`, nil)

	assert.Empty(t, l.Check(doc))
}

func TestLinter_VariableAfterWords(t *testing.T) {
	l, err := New(DefaultRules())
	require.NoError(t, err)

	doc := docblock.Parse("/**\n * Summary.\n * @param string The $x value.\n */", nil)
	assert.Empty(t, l.Check(doc))
}

func TestLinter_SummaryRequired(t *testing.T) {
	l, err := New(DefaultRules())
	require.NoError(t, err)

	got := l.Check(docblock.Parse("/**\n * @return int\n */", nil))
	require.Len(t, got, 1)
	assert.Equal(t, "summary-required", got[0].Rule)
	assert.Equal(t, docblock.Position{}, got[0].Position)
}

func TestLinter_CustomRules(t *testing.T) {
	rules := []Rule{
		{
			ID:      "return-required",
			Scope:   ScopeDocument,
			Assert:  `any(tags, .name == "@return")`,
			Message: "missing @return",
		},
		{
			ID:       "short-names",
			When:     `name == "@param"`,
			Assert:   `len(words(descriptor)) <= 2`,
			Message:  "parameter name is too long",
			Severity: SeverityInfo,
		},
		{
			ID:      "described",
			When:    `name == "@param"`,
			Assert:  `lines > 0 && description != ""`,
			Message: "parameter is not described",
		},
	}
	l, err := New(rules)
	require.NoError(t, err)

	doc := docblock.Parse(`/**
 * Summary.
 * @param bool $isItTrue
 * @param int $count How many.
 */`, nil)

	got := l.Check(doc)
	want := []string{"return-required", "short-names", "described"}
	if diff := cmp.Diff(violationIDs(got), want); diff != "" {
		t.Errorf("Check() diff (-got +want):\n%s", diff)
	}
	assert.Equal(t, SeverityInfo, got[1].Severity)
}

func TestLinter_TagFunctions(t *testing.T) {
	l, err := New([]Rule{
		{ID: "has-return", Scope: ScopeDocument, Assert: `hasTag("@return")`, Message: "no @return"},
		{ID: "one-since", Scope: ScopeDocument, Assert: `tagCount("@since") <= 1`, Message: "repeated @since"},
	})
	require.NoError(t, err)

	doc := docblock.Parse("/**\n * @since 1.0\n * @since 2.0\n * @return int\n */", nil)
	assert.Equal(t, []string{"one-since"}, violationIDs(l.Check(doc)))

	doc = docblock.Parse("/**\n * Summary.\n */", nil)
	assert.Equal(t, []string{"has-return"}, violationIDs(l.Check(doc)))
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		want error
	}{
		{"unknownScope", Rule{ID: "a", Scope: "file", Assert: "true"}, ErrUnknownScope},
		{"unknownSeverity", Rule{ID: "b", Severity: "fatal", Assert: "true"}, ErrUnknownSeverity},
		{"emptyAssert", Rule{ID: "c", Assert: " "}, ErrEmptyAssert},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]Rule{tt.rule})
			require.ErrorIs(t, err, tt.want)

			var re *RuleError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.rule.ID, re.ID)
		})
	}

	t.Run("syntax", func(t *testing.T) {
		_, err := New([]Rule{{ID: "d", Assert: "name =="}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rule d: compile assert")
	})

	t.Run("notBool", func(t *testing.T) {
		_, err := New([]Rule{{ID: "e", Assert: "lines"}})
		require.Error(t, err)
	})

	t.Run("unknownVariable", func(t *testing.T) {
		_, err := New([]Rule{{ID: "f", Scope: ScopeDocument, Assert: `name == ""`}})
		require.Error(t, err)
	})
}

func TestWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"$isItTrue", []string{"is", "It", "True"}},
		{"$is_it_true", []string{"is", "it", "true"}},
		{"HTTPServer", []string{"HTTP", "Server"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(words(tt.in), tt.want); diff != "" {
			t.Errorf("words(%q) diff (-got +want):\n%s", tt.in, diff)
		}
	}
}

func TestLoad(t *testing.T) {
	yamlCfg := `
defaults: true
rules:
  - id: described
    when: name == "@param"
    assert: description != ""
    message: "@param has no description"
    severity: info
`
	tomlCfg := `
[[rules]]
id = "described"
when = 'name == "@param"'
assert = 'description != ""'
message = "@param has no description"
severity = "info"
`
	want := Rule{
		ID:       "described",
		When:     `name == "@param"`,
		Assert:   `description != ""`,
		Message:  "@param has no description",
		Severity: SeverityInfo,
	}

	cfg, err := Load(strings.NewReader(yamlCfg), "yaml")
	require.NoError(t, err)
	assert.True(t, cfg.Defaults)
	assert.Equal(t, []Rule{want}, cfg.Rules)
	assert.Len(t, cfg.RuleSet(), len(DefaultRules())+1)

	cfg, err = Load(strings.NewReader(tomlCfg), "toml")
	require.NoError(t, err)
	assert.False(t, cfg.Defaults)
	assert.Equal(t, []Rule{want}, cfg.RuleSet())

	cfg, err = Load(strings.NewReader(""), "yml")
	require.NoError(t, err)
	assert.Empty(t, cfg.Rules)

	_, err = Load(strings.NewReader(""), "ini")
	require.ErrorIs(t, err, ErrUnknownConfigFormat)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.toml")
	require.NoError(t, os.WriteFile(path, []byte("defaults = true\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), cfg.RuleSet())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
