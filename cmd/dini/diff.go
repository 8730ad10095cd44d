package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ConradIrwin/dini-go"
)

var diffCmd = &cobra.Command{
	Use:   "diff a b",
	Short: "Compare two documents",
	Long: `Compare two documents by meaning rather than by text.

Both documents are parsed and printed in a canonical form, with sections and
keys sorted, so comments, spacing and ordering do not show up as changes.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := canonical(args[0])
		if err != nil {
			return err
		}
		b, err := canonical(args[1])
		if err != nil {
			return err
		}
		if a == b {
			logger.Debug("documents are equivalent", "a", args[0], "b", args[1])
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "--- %s\n+++ %s\n", args[0], args[1])
		return writeDiff(cmd.OutOrStdout(), a, b)
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func canonical(path string) (string, error) {
	doc, err := parseFile(path)
	if err != nil {
		return "", err
	}
	return canonicalString(doc)
}

func canonicalString(doc dini.Document) (string, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(doc.Plain()); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// writeDiff writes a line diff of a and b, prefixing removed lines with
// "-", added lines with "+" and unchanged lines with a space.
func writeDiff(w io.Writer, a, b string) error {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	for _, diff := range diffs {
		prefix, paint := " ", fmt.Sprint
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			prefix, paint = "-", color.New(color.FgRed).Sprint
		case diffmatchpatch.DiffInsert:
			prefix, paint = "+", color.New(color.FgGreen).Sprint
		}
		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}
			if _, err := fmt.Fprintln(w, paint(prefix+strings.TrimSuffix(line, "\n"))); err != nil {
				return err
			}
		}
	}
	return nil
}
