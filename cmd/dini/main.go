// Command dini parses, checks and compares dini documents.
//
//	dini parse config.ini --format yaml
//	dini check *.ini --watch
//	dini diff old.ini new.ini
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ConradIrwin/dini-go"
)

var (
	debug   bool
	noColor bool
	logger  = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "dini",
	Short: "Work with dini documents",
	Long: `dini reads documents written in a small INI dialect: key = value lines,
optionally grouped under [section] headers, with ";" comments and comma
separated lists.

Use "-" as a file name to read from stdin.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(cmd.ErrOrStderr(), debug)
		color.NoColor = !useColor(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// useColor reports whether output to w should be colored: only terminals
// are, unless --no-color or NO_COLOR is set.
func useColor(w io.Writer) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func parseFile(path string) (dini.Document, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	doc, err := dini.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", path, err)
	}
	logger.Debug("parsed document", "path", path, "sections", len(doc))
	return doc, nil
}
