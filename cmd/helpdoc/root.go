// Command helpdoc is the CLI driver around the core lexer/parser/checker
// pipeline: read a help-text file, parse it, check it, and either report
// diagnostics or render the tree back out.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/helpdoc/core/ast"
	"github.com/aledsdavies/helpdoc/internal/diagnostics"
	"github.com/aledsdavies/helpdoc/internal/fingerprint"
	"github.com/aledsdavies/helpdoc/runtime/checker"
	"github.com/aledsdavies/helpdoc/runtime/parser"
)

// 0 on successful parse regardless of diagnostics; 1 on I/O failure
// reading the input file. Callers wanting strictness inspect stderr.
const (
	exitOK      = 0
	exitIOError = 1
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// subcommands print their own errors before returning them
		// (SilenceErrors below), so this is just the final exit-code gate.
		os.Exit(exitIOError)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "helpdoc",
		Short:         "Parse docopt-style help text into a syntax tree",
		SilenceErrors: true, // subcommands print their own error before returning it
	}

	root.AddCommand(newParseCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newPrintCmd())

	return root
}

// pipelineResult is what every subcommand needs after running the shared
// read -> lex -> parse -> check steps.
type pipelineResult struct {
	file    string
	data    []byte
	root    *ast.Root
	diags   *diagnostics.Collector
	digest  fingerprint.Fingerprint
	release func() // drops the parse session's arena; call once root is no longer needed
}

// runPipeline reads file, parses it, and (unless skipCheck) runs the
// checker. Diagnostics stream to errW as they're produced - always ahead of
// any pretty-printed output - and are buffered in the result's collector so
// subcommands can count them. A read failure stops the pipeline before
// lexing ever starts.
func runPipeline(file string, skipCheck bool, errW io.Writer) (*pipelineResult, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", file, err)
	}

	collector := &diagnostics.Collector{}
	sink := diagnostics.Tee{collector, diagnostics.Writer{W: errW}}
	p := parser.New(file, data, sink)
	root := p.Parse()

	if !skipCheck {
		checker.Check(root, sink)
	}

	return &pipelineResult{
		file:    file,
		data:    data,
		root:    root,
		diags:   collector,
		digest:  fingerprint.Of(data),
		release: p.Release,
	}, nil
}
