// Package ast defines the syntax tree produced by parsing a help text.
//
// Every node carries a source range; child order is significant and held in
// ordered slices per parent. The tree is immutable once the parser returns
// it.
package ast

import "github.com/aledsdavies/helpdoc/core/sourcepos"

// Node is any syntax-tree node: the Root, Usage and Desc containers, and
// every element that can appear inside a Usage line or a grouping construct.
type Node interface {
	isNode()
	Range() sourcepos.Range
}

type Base struct {
	Rng sourcepos.Range
}

// Range returns the node's source range.
func (b Base) Range() sourcepos.Range { return b.Rng }

// Root is the top-level node produced by one parse.
type Root struct {
	Base
	Info   string  // free text preceding the usage section
	Usages []*Usage
	Descs  []*Desc
}

func (*Root) isNode() {}

// Usage is one program invocation line: a program name followed by a
// sequence of grammar elements.
type Usage struct {
	Base
	Prog  string
	Elems []Node
}

func (*Usage) isNode() {}

// Desc is one option-description entry: one or more option spellings that
// agree on argument shape, followed by descriptive text and an optional
// default value extracted from a "[default: VALUE]" marker.
type Desc struct {
	Base
	Options    []*Option
	Info       string
	DefaultVal *string // nil unless a "[default: ...]" marker was found
}

func (*Desc) isNode() {}

// Command is a bare identifier appearing in a usage line (a sub-command or
// positional word).
type Command struct {
	Base
	Name string
}

func (*Command) isNode() {}

// Option is a short (-x) or long (--name) option, with an optional spliced
// argument name.
type Option struct {
	Base
	IsShort bool
	Name    string  // without leading dashes
	Arg     *string // nil if the option takes no argument
}

func (*Option) isNode() {}

// Arg is a positional argument placeholder: an all-upper-case bareword
// (FILE) or a <delimited> name.
type Arg struct {
	Base
	Name string
}

func (*Arg) isNode() {}

// Parens is a "(...)" grouping of alternatives.
type Parens struct {
	Base
	Elems []Node
}

func (*Parens) isNode() {}

// Brackets is a "[...]" optional grouping of alternatives.
type Brackets struct {
	Base
	Elems []Node
}

func (*Brackets) isNode() {}

// Repeat wraps an element followed by "...".
type Repeat struct {
	Base
	Elem Node
}

func (*Repeat) isNode() {}

// Or is a "a | b | ..." alternation. Per invariant, len(Elems) >= 2 always;
// the parser never constructs an Or node with a single alternative.
type Or struct {
	Base
	Elems []Node
}

func (*Or) isNode() {}

// Stdin is the literal "-" token used to mean "read from standard input".
type Stdin struct {
	Base
}

func (*Stdin) isNode() {}

// Sep is the literal "--" token used to mean "end of options".
type Sep struct {
	Base
}

func (*Sep) isNode() {}

// Error is a recovery placeholder inserted where a malformed construct was
// found; parsing continues past it.
type Error struct {
	Base
}

func (*Error) isNode() {}

// IsUpperName reports whether name is non-empty and contains no lower-case
// ASCII letter, i.e. it should print as a bare NAME rather than <name>.
func IsUpperName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			return false
		}
	}
	return true
}
