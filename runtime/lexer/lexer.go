// Package lexer classifies help-text bytes into the closed token set defined
// in core/token.
//
// Input is processed as raw bytes; only ASCII is structurally significant.
// A token preceded by two or more spaces or tabs carries the Separated
// flag, which is the sole signal distinguishing an option's own spelling
// from the start of its description text.
package lexer

import (
	"github.com/aledsdavies/helpdoc/core/sourcepos"
	"github.com/aledsdavies/helpdoc/core/token"
)

// Lexer scans one source buffer and emits tokens on demand.
type Lexer struct {
	file string
	data []byte
	pos  int
	row  int
	col  int
}

// New creates a lexer over data, reporting positions under the given file name.
func New(file string, data []byte) *Lexer {
	return &Lexer{file: file, data: data, pos: 0, row: 1, col: 1}
}

// Offset reports the current byte offset of the cursor, for callers (the
// parser's description-text accumulation) that need to slice raw source
// text alongside token-driven scanning.
func (l *Lexer) Offset() int {
	return l.pos
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.data)
}

func (l *Lexer) peek() byte {
	if l.eof() {
		return 0
	}
	return l.data[l.pos]
}

func (l *Lexer) currentPos() sourcepos.Pos {
	return sourcepos.Pos{Row: l.row, Col: l.col, Offset: l.pos}
}

// advance consumes exactly one byte, updating row/col bookkeeping.
func (l *Lexer) advance() {
	if l.eof() {
		return
	}
	if l.data[l.pos] == '\n' {
		l.row++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) acceptChar(c byte) bool {
	if l.peek() == c {
		l.advance()
		return true
	}
	return false
}

func (l *Lexer) acceptStr(s string) bool {
	begin := l.pos
	beginRow, beginCol := l.row, l.col
	for i := 0; i < len(s); i++ {
		if !l.acceptChar(s[i]) {
			l.pos, l.row, l.col = begin, beginRow, beginCol
			return false
		}
	}
	return true
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (l *Lexer) acceptIdent() bool {
	if !isIdentStart(l.peek()) {
		return false
	}
	for isIdentPart(l.peek()) {
		l.advance()
	}
	return true
}

func isUpperN(s []byte) bool {
	for _, c := range s {
		if c >= 'a' && c <= 'z' {
			return false
		}
	}
	return true
}

func lowerEquals(s []byte, ref string) bool {
	if len(s) != len(ref) {
		return false
	}
	for i, c := range s {
		lc := c
		if lc >= 'A' && lc <= 'Z' {
			lc += 'a' - 'A'
		}
		if lc != ref[i] {
			return false
		}
	}
	return true
}

// acceptArg attempts to splice one argument after a SOPT/LOPT name: sep (and
// otherSep, if non-zero) introduce it, and the argument is either an
// all-upper identifier or a <delimited> one. It consumes nothing on failure.
func (l *Lexer) acceptArg(sep, otherSep byte) bool {
	begin := l.pos
	beginRow, beginCol := l.row, l.col

	if !l.acceptChar(sep) && (otherSep == 0 || !l.acceptChar(otherSep)) {
		return false
	}
	afterSep := l.pos
	afterSepRow, afterSepCol := l.row, l.col

	identStart := l.pos
	if l.acceptIdent() && isUpperN(l.data[identStart:l.pos]) {
		return true
	}
	l.pos, l.row, l.col = afterSep, afterSepRow, afterSepCol

	if l.acceptChar('<') && l.acceptIdent() && l.acceptChar('>') {
		return true
	}
	l.pos, l.row, l.col = begin, beginRow, beginCol
	return false
}

// eatSpaces consumes horizontal whitespace and returns how many bytes were
// consumed; the lexer's sole use of this count is the >= 2 "separated" test.
func (l *Lexer) eatSpaces() int {
	n := 0
	for l.peek() == ' ' || l.peek() == '\t' {
		l.advance()
		n++
	}
	return n
}

// SkipLine advances the cursor to just before the next newline (or EOF)
// without emitting any tokens. Used by the parser while scanning the
// preamble for lines that aren't the usage header.
func (l *Lexer) SkipLine() {
	for !l.eof() && l.peek() != '\n' {
		l.advance()
	}
}

func (l *Lexer) makeToken(begin sourcepos.Pos, separated bool, tag token.Tag) token.Token {
	return token.Token{
		Tag:       tag,
		Separated: separated,
		Range: sourcepos.Range{
			File:  l.file,
			Begin: begin,
			End:   l.currentPos(),
		},
	}
}

// Next returns the next token from the input. It never fails: unrecognized
// bytes become UNKNOWN tokens for the parser to diagnose in context.
func (l *Lexer) Next() token.Token {
	separated := l.eatSpaces() >= 2
	begin := l.currentPos()

	if l.eof() {
		return l.makeToken(begin, separated, token.END)
	}

	switch {
	case l.acceptChar('\n'):
		return l.makeToken(begin, separated, token.NL)
	case l.acceptChar('['):
		return l.makeToken(begin, separated, token.LBRACKET)
	case l.acceptChar(']'):
		return l.makeToken(begin, separated, token.RBRACKET)
	case l.acceptChar('('):
		return l.makeToken(begin, separated, token.LPAREN)
	case l.acceptChar(')'):
		return l.makeToken(begin, separated, token.RPAREN)
	case l.acceptChar('|'):
		return l.makeToken(begin, separated, token.OR)
	case l.acceptStr("..."):
		return l.makeToken(begin, separated, token.DOTS)
	case l.acceptChar(':'):
		return l.makeToken(begin, separated, token.COLON)
	case l.acceptChar('='):
		return l.makeToken(begin, separated, token.COLON)
	case l.acceptChar(','):
		return l.makeToken(begin, separated, token.COMMA)
	}

	if isIdentStart(l.peek()) {
		textStart := l.pos
		l.acceptIdent()
		text := l.data[textStart:l.pos]
		if len(text) == 5 && lowerEquals(text, "usage") && l.acceptChar(':') {
			return l.makeToken(begin, separated, token.USAGE)
		}
		if isUpperN(text) {
			return l.makeToken(begin, separated, token.UPPERARG)
		}
		return l.makeToken(begin, separated, token.IDENT)
	}

	if l.peek() == '<' {
		afterAngle := l.pos
		afterAngleRow, afterAngleCol := l.row, l.col
		l.advance()
		if l.acceptIdent() && l.acceptChar('>') {
			return l.makeToken(begin, separated, token.DELIMARG)
		}
		l.pos, l.row, l.col = afterAngle, afterAngleRow, afterAngleCol
		l.advance()
		return l.makeToken(begin, separated, token.UNKNOWN)
	}

	if l.acceptChar('-') {
		if l.acceptIdent() {
			l.acceptArg(' ', 0)
			return l.makeToken(begin, separated, token.SOPT)
		}
		if l.acceptChar('-') {
			if l.acceptIdent() {
				l.acceptArg('=', ' ')
				return l.makeToken(begin, separated, token.LOPT)
			}
			return l.makeToken(begin, separated, token.DDASH)
		}
		return l.makeToken(begin, separated, token.DASH)
	}

	l.advance()
	return l.makeToken(begin, separated, token.UNKNOWN)
}
