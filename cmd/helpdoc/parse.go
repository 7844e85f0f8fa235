package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/helpdoc/core/canonical"
)

func newParseCmd() *cobra.Command {
	var emitCanonical bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a help-text file into a syntax tree and report lexical/syntactic diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runPipeline(args[0], true, cmd.ErrOrStderr())
			if err != nil {
				cmd.SilenceUsage = true
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			defer result.release()

			fmt.Fprintf(cmd.OutOrStdout(), "parsed %d usage line(s), %d option description(s) [fingerprint %s]\n",
				len(result.root.Usages), len(result.root.Descs), result.digest)

			if emitCanonical {
				root := canonical.FromAST(result.root)
				hash, err := canonical.Hash(root)
				if err != nil {
					cmd.SilenceUsage = true
					err = fmt.Errorf("error computing canonical hash: %w", err)
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "canonical hash: %x\n", hash)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&emitCanonical, "canonical", false, "also print the tree's canonical CBOR hash")
	return cmd
}
