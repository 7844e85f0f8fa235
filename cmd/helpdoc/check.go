package main

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse a help-text file and run the semantic checker over it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]

			if err := runCheckOnce(cmd, file); err != nil {
				cmd.SilenceUsage = true
				return err
			}

			if !watch {
				return nil
			}
			if err := watchAndRerun(cmd, file, func() error { return runCheckOnce(cmd, file) }); err != nil {
				cmd.SilenceUsage = true
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "reparse and recheck on every write to the file")
	return cmd
}

func runCheckOnce(cmd *cobra.Command, file string) error {
	result, err := runPipeline(file, false, cmd.ErrOrStderr())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}
	defer result.release()

	if result.diags.Empty() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: no issues found [fingerprint %s]\n", file, result.digest)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d issue(s) found [fingerprint %s]\n", file, len(result.diags.Diagnostics), result.digest)
	}
	return nil
}

// watchAndRerun invokes rerun on every write event to file. Each run is a
// full reparse from scratch; nothing is cached between runs.
func watchAndRerun(cmd *cobra.Command, file string, rerun func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error starting file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(file); err != nil {
		return fmt.Errorf("error watching %s: %w", file, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s for changes (ctrl-c to stop)\n", file)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := rerun(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
		}
	}
}
