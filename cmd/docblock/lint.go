package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dpotapov/go-docblock/extract"
	"github.com/dpotapov/go-docblock/lint"
)

var (
	lintRulesPath string
	lintNoColor   bool
)

var lintCmd = &cobra.Command{
	Use:   "lint file...",
	Short: "Check the docblocks of source files",
	Long: `Check every docblock of the given source files against a rule set.

Rules come from a YAML or TOML file given with --rules, or the built-in set otherwise.
The command fails when any violation has error severity.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLint,
}

func init() {
	lintCmd.Flags().StringVar(&lintRulesPath, "rules", "", "Path to a YAML or TOML rule file")
	lintCmd.Flags().BoolVar(&lintNoColor, "no-color", false, "Disable colored output")
}

// fileReport holds the violations found in one file.
type fileReport struct {
	path       string
	violations []lint.Violation
}

// palette colours the parts of a violation line.
type palette struct {
	location *color.Color
	rule     *color.Color
	severity map[lint.Severity]*color.Color
}

func newPalette() palette {
	return palette{
		location: color.New(color.Bold),
		rule:     color.New(color.FgHiBlue),
		severity: map[lint.Severity]*color.Color{
			lint.SeverityError:   color.New(color.Bold, color.FgRed),
			lint.SeverityWarning: color.New(color.FgYellow),
			lint.SeverityInfo:    color.New(color.FgCyan),
		},
	}
}

func runLint(cmd *cobra.Command, args []string) error {
	if lintNoColor {
		color.NoColor = true
	}
	logger := newLogger()

	rules := lint.DefaultRules()
	if lintRulesPath != "" {
		cfg, err := lint.LoadFile(lintRulesPath)
		if err != nil {
			return err
		}
		rules = cfg.RuleSet()
	}
	linter, err := lint.New(rules)
	if err != nil {
		return err
	}
	logger.Debug("Loaded lint rules", "count", len(rules))

	reports := make([]fileReport, len(args))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range args {
		g.Go(func() error {
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			r := fileReport{path: path}
			blocks := extract.Docblocks(string(src))
			for _, b := range blocks {
				r.violations = append(r.violations, linter.Check(b.Parse(nil))...)
			}
			logger.Debug("Checked file", "path", path, "docblocks", len(blocks), "violations", len(r.violations))
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	errorCount := printReports(cmd.OutOrStdout(), reports, newPalette())
	if errorCount > 0 {
		return fmt.Errorf("%d error(s) found", errorCount)
	}
	return nil
}

// printReports writes one line per violation and returns the number of errors.
func printReports(w io.Writer, reports []fileReport, p palette) int {
	errorCount := 0
	for _, r := range reports {
		for _, v := range r.violations {
			start := v.Position.Start
			fmt.Fprintf(w, "%s %s %s: %s\n",
				p.location.Sprintf("%s:%d:%d:", r.path, start.Line+1, start.Column+1),
				p.severity[v.Severity].Sprint(v.Severity),
				p.rule.Sprint(v.Rule),
				v.Message,
			)
			if v.Severity == lint.SeverityError {
				errorCount++
			}
		}
	}
	return errorCount
}
