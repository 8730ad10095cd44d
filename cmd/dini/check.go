package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkWatch bool

var checkCmd = &cobra.Command{
	Use:   "check file...",
	Short: "Check that documents parse",
	Long: `Parse each file and report the first error in each, as
"file:line: message".

With --watch, check the files again whenever they change, until
interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !checkWatch {
			if failed := checkFiles(out, args); failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchFiles(ctx, out, args)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVarP(&checkWatch, "watch", "w", false, "re-check files when they change")
}

// checkFiles reports on each file and returns the number that failed.
func checkFiles(w io.Writer, paths []string) int {
	failed := 0
	for _, path := range paths {
		if _, err := parseFile(path); err != nil {
			failed++
			fmt.Fprintln(w, color.RedString("%v", err))
			continue
		}
		fmt.Fprintf(w, "%s %s\n", color.GreenString("ok"), path)
	}
	return failed
}

func watchFiles(ctx context.Context, w io.Writer, paths []string) error {
	fw, err := newFileWatcher(paths, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	checkFiles(w, paths)
	return fw.Run(ctx, func(changed []string) {
		checkFiles(w, changed)
	})
}
