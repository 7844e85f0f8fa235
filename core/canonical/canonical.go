// Package canonical converts a parsed core/ast tree into a range-free,
// deterministically encodable form: the hand-off format for downstream
// consumers of the tree, and the representation structural equality
// (ignoring source ranges) is checked against.
package canonical

import (
	"crypto/sha256"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/aledsdavies/helpdoc/core/ast"
)

// Root is ast.Root stripped of every sourcepos.Range: two trees parsed from
// differently-formatted but semantically identical text canonicalize to the
// same Root.
type Root struct {
	Info   string
	Usages []Usage
	Descs  []Desc
}

// Usage is ast.Usage without its range.
type Usage struct {
	Prog  string
	Elems []Node
}

// Desc is ast.Desc without its range.
type Desc struct {
	Options    []Option
	Info       string
	DefaultVal *string
}

// Option is ast.Option without its range.
type Option struct {
	IsShort bool
	Name    string
	Arg     *string
}

// Node is a CBOR-friendly union of every element kind that can appear inside
// a Usage or a grouping construct. At most one of the typed fields is set,
// selected by Kind (stdin, sep and error set none) - cbor has no native sum-type support, so a single struct
// with a kind tag stands in for Go interfaces (which cbor can't decode
// without a registered type registry).
type Node struct {
	Kind string

	// Command
	Name string `cbor:",omitempty"`

	// Option
	Option *Option `cbor:",omitempty"`

	// Arg (reuses Name above)

	// Parens / Brackets / Or
	Elems []Node `cbor:",omitempty"`

	// Repeat
	Elem *Node `cbor:",omitempty"`
}

const (
	kindCommand  = "command"
	kindOption   = "option"
	kindArg      = "arg"
	kindParens   = "parens"
	kindBrackets = "brackets"
	kindRepeat   = "repeat"
	kindOr       = "or"
	kindStdin    = "stdin"
	kindSep      = "sep"
	kindError    = "error"
)

// FromAST converts a parsed Root into its canonical, range-free form.
func FromAST(root *ast.Root) *Root {
	c := &Root{Info: root.Info}
	for _, u := range root.Usages {
		c.Usages = append(c.Usages, usageFromAST(u))
	}
	for _, d := range root.Descs {
		c.Descs = append(c.Descs, descFromAST(d))
	}
	return c
}

func usageFromAST(u *ast.Usage) Usage {
	cu := Usage{Prog: u.Prog}
	for _, e := range u.Elems {
		cu.Elems = append(cu.Elems, nodeFromAST(e))
	}
	return cu
}

func descFromAST(d *ast.Desc) Desc {
	cd := Desc{Info: d.Info, DefaultVal: d.DefaultVal}
	for _, o := range d.Options {
		opt := optionFromAST(o)
		cd.Options = append(cd.Options, opt)
	}
	return cd
}

func optionFromAST(o *ast.Option) Option {
	return Option{IsShort: o.IsShort, Name: o.Name, Arg: o.Arg}
}

func nodeFromAST(n ast.Node) Node {
	switch v := n.(type) {
	case *ast.Command:
		return Node{Kind: kindCommand, Name: v.Name}
	case *ast.Option:
		opt := optionFromAST(v)
		return Node{Kind: kindOption, Option: &opt}
	case *ast.Arg:
		return Node{Kind: kindArg, Name: v.Name}
	case *ast.Parens:
		return Node{Kind: kindParens, Elems: nodesFromAST(v.Elems)}
	case *ast.Brackets:
		return Node{Kind: kindBrackets, Elems: nodesFromAST(v.Elems)}
	case *ast.Or:
		return Node{Kind: kindOr, Elems: nodesFromAST(v.Elems)}
	case *ast.Repeat:
		elem := nodeFromAST(v.Elem)
		return Node{Kind: kindRepeat, Elem: &elem}
	case *ast.Stdin:
		return Node{Kind: kindStdin}
	case *ast.Sep:
		return Node{Kind: kindSep}
	case *ast.Error:
		return Node{Kind: kindError}
	default:
		panic(fmt.Sprintf("canonical: unhandled node type %T", n))
	}
}

func nodesFromAST(ns []ast.Node) []Node {
	if len(ns) == 0 {
		return nil
	}
	out := make([]Node, 0, len(ns))
	for _, n := range ns {
		out = append(out, nodeFromAST(n))
	}
	return out
}

// Marshal produces a deterministic CBOR encoding of root: the same tree
// always serializes to the same bytes regardless of map iteration order or
// encoder internals (this tree has no maps, but the canonical encoder
// configuration keeps that guarantee explicit).
func Marshal(root *Root) ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("canonical: failed to create CBOR encoder: %w", err)
	}
	data, err := encMode.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("canonical: CBOR encoding failed: %w", err)
	}
	return data, nil
}

// Hash returns the SHA-256 digest of root's canonical CBOR encoding. Two
// parses of semantically-equal help text (even if their surface formatting
// differs) produce the same hash.
func Hash(root *Root) ([32]byte, error) {
	data, err := Marshal(root)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(data), nil
}

// Equal reports whether two canonical roots describe the same tree
// structure.
func Equal(a, b *Root) (bool, error) {
	ha, err := Hash(a)
	if err != nil {
		return false, err
	}
	hb, err := Hash(b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}
