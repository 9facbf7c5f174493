package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	docblock "github.com/dpotapov/go-docblock"
	"github.com/dpotapov/go-docblock/extract"
	"github.com/dpotapov/go-docblock/render"
)

var (
	parseFormat  string
	parseLine    int
	parseOffset  int
	parseExtract bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a docblock",
	Long: `Parse a docblock read from file, or from stdin when no file is given.

With --extract the input is a source file and every docblock in it is parsed, with
positions in file coordinates; --line and --offset are ignored then.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "json", "Output format: json, xml, html, msgpack")
	parseCmd.Flags().IntVar(&parseLine, "line", 0, "Line bias added to every position")
	parseCmd.Flags().IntVar(&parseOffset, "offset", 0, "Offset bias added to every position")
	parseCmd.Flags().BoolVar(&parseExtract, "extract", false, "Parse every docblock of a source file")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(parseFormat)
	if err != nil {
		return err
	}

	src, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	if parseExtract {
		var docs []*docblock.Document
		for _, b := range extract.Docblocks(src) {
			docs = append(docs, b.Parse(nil))
		}
		if docs == nil {
			docs = []*docblock.Document{}
		}
		return render.Write(cmd.OutOrStdout(), format, docs)
	}

	doc := docblock.Parse(src, &docblock.Options{Line: parseLine, Offset: parseOffset})
	return render.Write(cmd.OutOrStdout(), format, doc)
}

// readInput reads the named file, or the command input when args is empty or "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(b), nil
}
