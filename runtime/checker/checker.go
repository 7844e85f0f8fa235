// Package checker performs the single post-order semantic pass over a
// parsed tree: program-name consistency across usage lines, and
// option-argument agreement (plus default-value legality) within each
// option description. Findings go to the same diagnostic sink the parser
// reports to; the tree is never mutated.
package checker

import (
	"sort"

	"github.com/aledsdavies/helpdoc/core/ast"
	"github.com/aledsdavies/helpdoc/internal/diagnostics"
	"github.com/aledsdavies/helpdoc/internal/suggest"
)

type checker struct {
	sink diagnostics.Sink
}

// Check runs the semantic rules over root: program-name consistency,
// option-argument agreement within each description, and flagging a
// usage-line option that no description documents when a fuzzy match finds a
// close documented spelling to suggest.
func Check(root *ast.Root, sink diagnostics.Sink) {
	c := &checker{sink: sink}
	c.checkProgramNames(root)
	c.checkDescs(root)
	c.checkUndocumentedOptions(root)
}

func (c *checker) checkProgramNames(root *ast.Root) {
	if len(root.Usages) == 0 {
		return
	}
	want := root.Usages[0].Prog
	for _, u := range root.Usages[1:] {
		if u.Prog != want {
			c.sink.Report(u.Range(), "expected program name '%s', but got '%s'", want, u.Prog)
		}
	}
}

func (c *checker) checkDescs(root *ast.Root) {
	for _, d := range root.Descs {
		c.checkDesc(d)
	}
}

func (c *checker) checkDesc(d *ast.Desc) {
	if len(d.Options) == 0 {
		return
	}
	ref := d.Options[0]
	refHasArg := ref.Arg != nil

	for _, o := range d.Options[1:] {
		if (o.Arg != nil) == refHasArg {
			continue
		}
		withArg, without := o, ref
		if refHasArg {
			withArg, without = ref, o
		}
		c.sink.Report(o.Range(), "option '%s' requires an argument, but option '%s' does not",
			optionDisplay(withArg), optionDisplay(without))
	}

	if d.DefaultVal != nil && !refHasArg {
		c.sink.Report(d.Range(), "option '%s' has no arguments and cannot have a default value",
			optionDisplay(ref))
	}
}

func optionDisplay(o *ast.Option) string {
	if o.IsShort {
		return "-" + o.Name
	}
	return "--" + o.Name
}

// checkUndocumentedOptions flags an option spelled out in a Usage line that
// no Desc entry documents - a likely typo between the usage grammar and its
// option-description block. It suggests the closest documented option name
// via fuzzy matching rather than requiring an exact match, since the two
// blocks are maintained by hand and tend to drift. An undocumented option is
// reported only when such a suggestion is found; nothing is reported when
// the root has no Desc entries at all.
func (c *checker) checkUndocumentedOptions(root *ast.Root) {
	documented := documentedOptionNames(root)
	if len(documented) == 0 {
		return
	}

	seen := make(map[string]bool)
	for _, u := range root.Usages {
		for _, o := range collectOptions(u.Elems, nil) {
			key := optionDisplay(o)
			if documented[key] || seen[key] {
				continue
			}
			seen[key] = true
			if suggestion := suggest.Closest(key, documentedNamesList(documented)); suggestion != "" {
				c.sink.ReportSuggest(o.Range(), suggestion, "option '%s' is not documented in any option description", key)
			}
		}
	}
}

func documentedOptionNames(root *ast.Root) map[string]bool {
	names := make(map[string]bool)
	for _, d := range root.Descs {
		for _, o := range d.Options {
			names[optionDisplay(o)] = true
		}
	}
	return names
}

func documentedNamesList(names map[string]bool) []string {
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// collectOptions walks a sequence of usage-line elements, recursing into
// grouping/repetition/alternation nodes, and appends every Option found.
func collectOptions(elems []ast.Node, out []*ast.Option) []*ast.Option {
	for _, n := range elems {
		switch v := n.(type) {
		case *ast.Option:
			out = append(out, v)
		case *ast.Parens:
			out = collectOptions(v.Elems, out)
		case *ast.Brackets:
			out = collectOptions(v.Elems, out)
		case *ast.Or:
			out = collectOptions(v.Elems, out)
		case *ast.Repeat:
			out = collectOptions([]ast.Node{v.Elem}, out)
		}
	}
	return out
}
