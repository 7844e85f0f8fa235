// Package printer renders a core/ast tree back into docopt-style help text.
//
// Rendering is deterministic: the same tree always produces the same text,
// and reparsing the output yields a structurally identical tree.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/helpdoc/core/ast"
)

// Print writes root's deterministic textual rendering to w.
func Print(w io.Writer, root *ast.Root) error {
	_, err := io.WriteString(w, Format(root))
	return err
}

// Format renders root to a string: info text, a blank line, "Usage:", one
// indented line per Usage, a blank line, "Options:", one indented line per
// Desc.
func Format(root *ast.Root) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\nUsage:\n", root.Info)
	writeMany(&b, root.Usages, "\n", formatUsage)
	b.WriteString("\n\nOptions:\n")
	writeMany(&b, root.Descs, "\n", formatDesc)
	b.WriteByte('\n')

	return b.String()
}

func writeMany[T any](b *strings.Builder, items []T, sep string, format func(T) string) {
	for i, item := range items {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(format(item))
	}
}

func formatUsage(u *ast.Usage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s ", u.Prog)
	writeMany(&b, u.Elems, " ", formatNode)
	return b.String()
}

func formatDesc(d *ast.Desc) string {
	var b strings.Builder
	b.WriteString("  ")
	for i, o := range d.Options {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatOption(o))
	}
	// d.Info already carries a literal "[default: VALUE]" marker when
	// DefaultVal is set - extractDefault reads the value out but leaves the
	// source text untouched - so it is not re-appended here.
	fmt.Fprintf(&b, "  %s", d.Info)
	return b.String()
}

func formatNode(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Command:
		return v.Name
	case *ast.Option:
		return formatOption(v)
	case *ast.Arg:
		return formatArgName(v.Name)
	case *ast.Brackets:
		var b strings.Builder
		b.WriteByte('[')
		writeMany(&b, v.Elems, " ", formatNode)
		b.WriteByte(']')
		return b.String()
	case *ast.Parens:
		var b strings.Builder
		b.WriteByte('(')
		writeMany(&b, v.Elems, " ", formatNode)
		b.WriteByte(')')
		return b.String()
	case *ast.Repeat:
		return formatNode(v.Elem) + "..."
	case *ast.Stdin:
		return "-"
	case *ast.Sep:
		return "--"
	case *ast.Or:
		var b strings.Builder
		writeMany(&b, v.Elems, " | ", formatNode)
		return b.String()
	case *ast.Error:
		return "#error#"
	default:
		return ""
	}
}

func formatOption(o *ast.Option) string {
	var b strings.Builder
	if o.IsShort {
		b.WriteByte('-')
	} else {
		b.WriteString("--")
	}
	b.WriteString(o.Name)
	if o.Arg != nil {
		if o.IsShort {
			b.WriteByte(' ')
		} else {
			b.WriteByte('=')
		}
		b.WriteString(formatArgName(*o.Arg))
	}
	return b.String()
}

func formatArgName(name string) string {
	if ast.IsUpperName(name) {
		return name
	}
	return "<" + name + ">"
}
