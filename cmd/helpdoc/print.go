package main

import (
	"fmt"
	"strings"

	"github.com/andreyvit/diff"
	"github.com/spf13/cobra"

	"github.com/aledsdavies/helpdoc/runtime/printer"
)

func newPrintCmd() *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "print <file>",
		Short: "Parse a help-text file and render its deterministic pretty-printed form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runPipeline(args[0], false, cmd.ErrOrStderr())
			if err != nil {
				cmd.SilenceUsage = true
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			defer result.release()

			rendered := printer.Format(result.root)
			fmt.Fprint(cmd.OutOrStdout(), rendered)

			if showDiff {
				original := strings.TrimRight(string(result.data), "\n")
				trimmedRendered := strings.TrimRight(rendered, "\n")
				if original != trimmedRendered {
					fmt.Fprintln(cmd.ErrOrStderr(), "--- round-trip diff (original vs. printed) ---")
					fmt.Fprintln(cmd.ErrOrStderr(), diff.LineDiff(original, trimmedRendered))
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "show a line diff against the original input when the printed form doesn't round-trip byte-identically")
	return cmd
}
