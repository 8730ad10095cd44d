package main

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ConradIrwin/dini-go"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Convert a document to JSON, YAML or TOML",
	Long: `Parse a document and print it in another format.

Sections become objects; pairs before the first section are stored under
"_". Numbers are printed as integers, text as strings and comma separated
values as arrays.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) > 0 {
			path = args[0]
		}
		doc, err := parseFile(path)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), doc, parseFormat)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "json", "output format: json, yaml, toml")
}

func render(w io.Writer, doc dini.Document, format string) error {
	plain := doc.Plain()
	switch format {
	case "json":
		data, err := json.MarshalIndent(plain, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plain); err != nil {
			return err
		}
		return enc.Close()
	case "toml":
		return toml.NewEncoder(w).Encode(plain)
	default:
		return fmt.Errorf("unknown format %q, expected json, yaml or toml", format)
	}
}
