// Package parser builds a core/ast tree from a token stream using one-token
// lookahead recursive descent.
//
// Every subparser is total: on malformed input it records a diagnostic,
// may emit an Error node, and returns a well-formed subtree, so Parse
// always returns a Root and never panics on user input. Loop-progress
// guarantees (an unterminated group must not hang the parse) are asserted
// with internal/invariant rather than left implicit.
package parser

import (
	"bytes"
	"strings"

	"github.com/aledsdavies/helpdoc/core/ast"
	"github.com/aledsdavies/helpdoc/core/sourcepos"
	"github.com/aledsdavies/helpdoc/core/token"
	"github.com/aledsdavies/helpdoc/internal/arena"
	"github.com/aledsdavies/helpdoc/internal/diagnostics"
	"github.com/aledsdavies/helpdoc/internal/invariant"
	"github.com/aledsdavies/helpdoc/runtime/lexer"
)

// arenas groups one arena per concrete node kind the parser allocates, all
// released together when the parse session ends.
type arenas struct {
	roots    *arena.Arena[ast.Root]
	usages   *arena.Arena[ast.Usage]
	descs    *arena.Arena[ast.Desc]
	commands *arena.Arena[ast.Command]
	options  *arena.Arena[ast.Option]
	args     *arena.Arena[ast.Arg]
	parens   *arena.Arena[ast.Parens]
	brackets *arena.Arena[ast.Brackets]
	repeats  *arena.Arena[ast.Repeat]
	ors      *arena.Arena[ast.Or]
	stdins   *arena.Arena[ast.Stdin]
	seps     *arena.Arena[ast.Sep]
	errors   *arena.Arena[ast.Error]
}

func newArenas() *arenas {
	return &arenas{
		roots:    arena.New[ast.Root](1),
		usages:   arena.New[ast.Usage](4),
		descs:    arena.New[ast.Desc](8),
		commands: arena.New[ast.Command](16),
		options:  arena.New[ast.Option](16),
		args:     arena.New[ast.Arg](16),
		parens:   arena.New[ast.Parens](4),
		brackets: arena.New[ast.Brackets](4),
		repeats:  arena.New[ast.Repeat](4),
		ors:      arena.New[ast.Or](4),
		stdins:   arena.New[ast.Stdin](2),
		seps:     arena.New[ast.Sep](2),
		errors:   arena.New[ast.Error](4),
	}
}

func (a *arenas) release() {
	a.roots.Release()
	a.usages.Release()
	a.descs.Release()
	a.commands.Release()
	a.options.Release()
	a.args.Release()
	a.parens.Release()
	a.brackets.Release()
	a.repeats.Release()
	a.ors.Release()
	a.stdins.Release()
	a.seps.Release()
	a.errors.Release()
}

// Parser consumes a lexer's token stream and builds a Root.
type Parser struct {
	lex     *lexer.Lexer
	data    []byte
	file    string
	srcmap  *sourcepos.Map
	sink    diagnostics.Sink
	ahead   token.Token
	prevEnd sourcepos.Pos
	arenas  *arenas
}

// New creates a parser over data, reporting diagnostics to sink.
func New(file string, data []byte, sink diagnostics.Sink) *Parser {
	p := &Parser{
		lex:    lexer.New(file, data),
		data:   data,
		file:   file,
		srcmap: sourcepos.NewMap(file, data),
		sink:   sink,
		arenas: newArenas(),
	}
	p.skipToken()
	return p
}

// Release frees the parser's arena-backed node storage. Call once the
// returned tree (and anything that reads it) is no longer needed.
func (p *Parser) Release() {
	p.arenas.release()
}

func (p *Parser) skipToken() {
	p.prevEnd = p.ahead.Range.End
	p.ahead = p.lex.Next()
}

func (p *Parser) acceptToken(tag token.Tag) bool {
	if p.ahead.Tag == tag {
		p.skipToken()
		return true
	}
	return false
}

func (p *Parser) eatToken(tag token.Tag) {
	invariant.Precondition(p.ahead.Tag == tag, "eatToken called with ahead=%s, want %s", p.ahead.Tag, tag)
	p.skipToken()
}

func (p *Parser) report(r sourcepos.Range, format string, args ...any) {
	p.sink.Report(r, format, args...)
}

func (p *Parser) errorOnToken(context string) {
	if p.ahead.Tag == token.NL || p.ahead.Tag == token.END {
		p.report(p.ahead.Range, "expected %s, but got %s", context, p.ahead.Tag)
	} else {
		p.report(p.ahead.Range, "expected %s, but got '%s'", context, p.ahead.Text(p.data))
	}
	p.skipToken()
}

func (p *Parser) expectToken(tag token.Tag, context string) bool {
	if p.acceptToken(tag) {
		return true
	}
	p.errorOnToken(context)
	return false
}

func (p *Parser) closeRange(begin sourcepos.Pos) sourcepos.Range {
	return sourcepos.Range{File: p.file, Begin: begin, End: p.prevEnd}
}

// Parse runs the full pipeline (preamble scan, usage block, description
// block) and returns a Root. It never panics on ill-formed input.
func (p *Parser) Parse() *ast.Root {
	begin := p.ahead.Range.Begin

	found, info := p.locateUsage()
	if !found {
		p.report(p.closeRange(begin), "no usage section")
		root := p.arenas.roots.Alloc()
		*root = ast.Root{Base: ast.Base{Rng: p.closeRange(begin)}, Info: info}
		return root
	}

	firstUsage := p.parseUsage()
	usages := []*ast.Usage{firstUsage}
	for p.ahead.Tag == token.IDENT {
		usages = append(usages, p.parseUsage())
	}

	descs := p.parseDescBlock()

	root := p.arenas.roots.Alloc()
	*root = ast.Root{Base: ast.Base{Rng: p.closeRange(begin)}, Info: info, Usages: usages, Descs: descs}
	return root
}

// locateUsage scans forward, skipping whole lines that aren't the usage
// header, and reports whether one was found. info is the preamble text from
// the scan's starting offset up to (but not including) the USAGE token (or
// END when none is found), with trailing newlines trimmed.
func (p *Parser) locateUsage() (bool, string) {
	startOffset := p.ahead.Range.Begin.Offset
	for {
		for p.acceptToken(token.NL) {
		}
		if p.ahead.Tag == token.END {
			return false, preambleText(p.data, startOffset, p.ahead.Range.Begin.Offset)
		}
		if p.ahead.Tag == token.USAGE {
			break
		}
		p.lex.SkipLine()
		p.skipToken()
	}
	info := preambleText(p.data, startOffset, p.ahead.Range.Begin.Offset)
	p.eatToken(token.USAGE)
	p.acceptToken(token.NL)
	return true, info
}

func preambleText(data []byte, begin, end int) string {
	if end < begin {
		return ""
	}
	return strings.TrimRight(string(data[begin:end]), "\n")
}

func (p *Parser) parseUsage() *ast.Usage {
	begin := p.ahead.Range.Begin
	prog := p.parseIdentText()
	elems := p.parseElemSeq(token.NL)
	p.expectToken(token.NL, "newline")
	u := p.arenas.usages.Alloc()
	*u = ast.Usage{Base: ast.Base{Rng: p.closeRange(begin)}, Prog: prog, Elems: elems}
	return u
}

// parseIdentText captures the current token's text before validating its
// tag, so a mismatch still yields usable text for the node alongside the
// diagnostic.
func (p *Parser) parseIdentText() string {
	text := p.ahead.Text(p.data)
	p.expectToken(token.IDENT, "identifier")
	return text
}

// parseDescBlock scans the remainder of the input for option-description
// entries, skipping any line that isn't introduced by an option.
func (p *Parser) parseDescBlock() []*ast.Desc {
	var descs []*ast.Desc
	for p.ahead.Tag != token.END {
		if p.ahead.Tag == token.NL {
			p.skipToken()
			continue
		}
		if p.ahead.Tag == token.SOPT || p.ahead.Tag == token.LOPT {
			descs = append(descs, p.parseDesc())
			continue
		}
		p.lex.SkipLine()
		p.skipToken()
	}
	return descs
}

func (p *Parser) parseDesc() *ast.Desc {
	begin := p.ahead.Range.Begin
	options := []*ast.Option{p.parseOption()}
	for {
		if p.ahead.Tag == token.COMMA {
			p.skipToken()
		}
		if !p.ahead.Separated && (p.ahead.Tag == token.SOPT || p.ahead.Tag == token.LOPT) {
			options = append(options, p.parseOption())
			continue
		}
		break
	}
	info, defaultVal := p.parseDescText(begin)
	d := p.arenas.descs.Alloc()
	*d = ast.Desc{Base: ast.Base{Rng: p.closeRange(begin)}, Options: options, Info: info, DefaultVal: defaultVal}
	return d
}

// parseDescText accumulates the description text following a Desc's option
// list: the remainder of the current line, plus every following line whose
// first token is not NL/END/SOPT/LOPT. A blank line lexes as an immediate
// NL, so it terminates accumulation too.
func (p *Parser) parseDescText(descBegin sourcepos.Pos) (string, *string) {
	if p.ahead.Tag == token.NL || p.ahead.Tag == token.END {
		return "", nil
	}

	var lines []string
	appendLine := func() {
		lineStart := p.ahead.Range.Begin.Offset
		p.lex.SkipLine()
		lines = append(lines, string(p.data[lineStart:p.lex.Offset()]))
		p.skipToken()
		p.acceptToken(token.NL)
	}

	appendLine()
	for p.ahead.Tag != token.NL && p.ahead.Tag != token.END &&
		p.ahead.Tag != token.SOPT && p.ahead.Tag != token.LOPT {
		appendLine()
	}

	text := strings.Join(lines, "\n")
	text, defaultVal, unterminated := extractDefault(text)
	if unterminated {
		p.report(p.defaultMarkerRange(descBegin), "unterminated default value specifier")
	}
	return text, defaultVal
}

// defaultMarkerRange anchors an unterminated-default diagnostic at the
// "[default:" marker itself rather than the whole entry. The marker's byte
// offset is found in the raw buffer (the accumulated text is a joined copy
// whose offsets no longer line up with the source), then resolved to a
// row/col range through the source map.
func (p *Parser) defaultMarkerRange(descBegin sourcepos.Pos) sourcepos.Range {
	span := p.data[descBegin.Offset:p.prevEnd.Offset]
	off := bytes.Index(span, []byte(defaultMarker))
	if off < 0 {
		return p.closeRange(descBegin)
	}
	abs := descBegin.Offset + off
	return p.srcmap.Range(abs, abs+len(defaultMarker))
}

const defaultMarker = "[default:"

// extractDefault scans text for a "[default: VALUE]" marker. If the closing
// ']' isn't found before whitespace or the end of text, it reports the
// value read so far as unterminated.
func extractDefault(text string) (string, *string, bool) {
	idx := strings.Index(text, defaultMarker)
	if idx < 0 {
		return text, nil, false
	}
	rest := text[idx+len(defaultMarker):]
	rest = strings.TrimLeft(rest, " \t\n")

	closeIdx := strings.IndexByte(rest, ']')
	wsIdx := strings.IndexAny(rest, " \t\n")
	if closeIdx >= 0 && (wsIdx < 0 || closeIdx <= wsIdx) {
		val := rest[:closeIdx]
		return text, &val, false
	}

	var val string
	if wsIdx >= 0 {
		val = rest[:wsIdx]
	} else {
		val = rest
	}
	return text, &val, true
}

// parseElemSeq parses a sequence of Or expressions until stop (or END, so an
// unterminated group can't hang the parser - see the invariant check below).
func (p *Parser) parseElemSeq(stop token.Tag) []ast.Node {
	var elems []ast.Node
	for p.ahead.Tag != stop && p.ahead.Tag != token.END {
		before := p.prevEnd.Offset
		elems = append(elems, p.parseOr())
		invariant.Invariant(p.prevEnd.Offset > before, "parse loop failed to consume a token")
	}
	return elems
}

func (p *Parser) parseOr() ast.Node {
	begin := p.ahead.Range.Begin
	first := p.parseRepeat()
	elems := []ast.Node{first}
	for p.acceptToken(token.OR) {
		elems = append(elems, p.parseRepeat())
	}
	if len(elems) == 1 {
		return elems[0]
	}
	n := p.arenas.ors.Alloc()
	*n = ast.Or{Base: ast.Base{Rng: p.closeRange(begin)}, Elems: elems}
	return n
}

func (p *Parser) parseRepeat() ast.Node {
	begin := p.ahead.Range.Begin
	elem := p.parseElem()
	if !p.acceptToken(token.DOTS) {
		return elem
	}
	n := p.arenas.repeats.Alloc()
	*n = ast.Repeat{Base: ast.Base{Rng: p.closeRange(begin)}, Elem: elem}
	return n
}

func (p *Parser) parseElem() ast.Node {
	switch p.ahead.Tag {
	case token.IDENT:
		return p.parseCommand()
	case token.DASH:
		return p.parseStdin()
	case token.DDASH:
		return p.parseSep()
	case token.SOPT, token.LOPT:
		return p.parseOption()
	case token.UPPERARG, token.DELIMARG:
		return p.parseArg()
	case token.LPAREN:
		return p.parseParens()
	case token.LBRACKET:
		return p.parseBrackets()
	default:
		return p.parseErrorNode("option or positional argument")
	}
}

// parseErrorNode reports the current token as unexpected and consumes it,
// plus one more token past it, before resuming with siblings.
func (p *Parser) parseErrorNode(context string) ast.Node {
	begin := p.ahead.Range.Begin
	p.errorOnToken(context)
	p.skipToken()
	n := p.arenas.errors.Alloc()
	*n = ast.Error{Base: ast.Base{Rng: p.closeRange(begin)}}
	return n
}

func (p *Parser) parseCommand() *ast.Command {
	begin := p.ahead.Range.Begin
	name := p.ahead.Text(p.data)
	p.eatToken(token.IDENT)
	n := p.arenas.commands.Alloc()
	*n = ast.Command{Base: ast.Base{Rng: p.closeRange(begin)}, Name: name}
	return n
}

func (p *Parser) parseStdin() *ast.Stdin {
	begin := p.ahead.Range.Begin
	p.eatToken(token.DASH)
	n := p.arenas.stdins.Alloc()
	*n = ast.Stdin{Base: ast.Base{Rng: p.closeRange(begin)}}
	return n
}

func (p *Parser) parseSep() *ast.Sep {
	begin := p.ahead.Range.Begin
	p.eatToken(token.DDASH)
	n := p.arenas.seps.Alloc()
	*n = ast.Sep{Base: ast.Base{Rng: p.closeRange(begin)}}
	return n
}

func (p *Parser) parseArg() *ast.Arg {
	begin := p.ahead.Range.Begin
	isDelim := p.ahead.Tag == token.DELIMARG
	text := p.ahead.Text(p.data)
	name := text
	if isDelim {
		name = text[1 : len(text)-1]
	}
	p.skipToken()
	n := p.arenas.args.Alloc()
	*n = ast.Arg{Base: ast.Base{Rng: p.closeRange(begin)}, Name: name}
	return n
}

func (p *Parser) parseOption() *ast.Option {
	begin := p.ahead.Range.Begin
	isShort := p.ahead.Tag == token.SOPT
	name, arg := splitOptionNameArg(p.ahead.Text(p.data), isShort)
	p.skipToken()
	n := p.arenas.options.Alloc()
	*n = ast.Option{Base: ast.Base{Rng: p.closeRange(begin)}, IsShort: isShort, Name: name, Arg: arg}
	return n
}

// splitOptionNameArg splits an option token's text on the first ' ' or '='
// after the leading dashes: text before is the option name, text after is
// the spliced argument with surrounding '<' '>' stripped if present.
func splitOptionNameArg(text string, isShort bool) (string, *string) {
	skip := 2
	if isShort {
		skip = 1
	}
	body := text[skip:]
	idx := strings.IndexAny(body, " =")
	if idx < 0 {
		return body, nil
	}
	name := body[:idx]
	arg := strings.Trim(body[idx+1:], "<>")
	return name, &arg
}

func (p *Parser) parseParens() *ast.Parens {
	begin := p.ahead.Range.Begin
	p.eatToken(token.LPAREN)
	elems := p.parseElemSeq(token.RPAREN)
	p.expectToken(token.RPAREN, "')'")
	n := p.arenas.parens.Alloc()
	*n = ast.Parens{Base: ast.Base{Rng: p.closeRange(begin)}, Elems: elems}
	return n
}

func (p *Parser) parseBrackets() *ast.Brackets {
	begin := p.ahead.Range.Begin
	p.eatToken(token.LBRACKET)
	elems := p.parseElemSeq(token.RBRACKET)
	p.expectToken(token.RBRACKET, "']'")
	n := p.arenas.brackets.Alloc()
	*n = ast.Brackets{Base: ast.Base{Rng: p.closeRange(begin)}, Elems: elems}
	return n
}
