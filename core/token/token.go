// Package token defines the closed set of lexical tokens recognized in
// docopt-style help text.
package token

import "github.com/aledsdavies/helpdoc/core/sourcepos"

// Tag identifies a token's lexical class.
type Tag int

const (
	UNKNOWN Tag = iota
	END
	NL
	COMMA
	OR
	DOTS
	COLON
	IDENT
	UPPERARG
	DELIMARG
	USAGE
	DASH
	DDASH
	SOPT
	LOPT
	LBRACKET
	RBRACKET
	LPAREN
	RPAREN
)

// tagInfo pairs each tag with the display name diagnostics use for it.
var tagInfo = [...]string{
	UNKNOWN:  "invalid token",
	END:      "end-of-file",
	NL:       "new line",
	COMMA:    "','",
	OR:       "'|'",
	DOTS:     "'...'",
	COLON:    "':'",
	IDENT:    "identifier",
	UPPERARG: "uppercase argument",
	DELIMARG: "delimited argument",
	USAGE:    "usage section start",
	DASH:     "'-'",
	DDASH:    "'--'",
	SOPT:     "short option",
	LOPT:     "long option",
	LBRACKET: "'['",
	RBRACKET: "']'",
	LPAREN:   "'('",
	RPAREN:   "')'",
}

// String returns the display name used in diagnostics, e.g. "short option".
func (t Tag) String() string {
	if int(t) < 0 || int(t) >= len(tagInfo) {
		return "unknown token"
	}
	return tagInfo[t]
}

// Token is an immutable lexical unit produced by the lexer.
type Token struct {
	Tag       Tag
	Range     sourcepos.Range
	Separated bool // preceded by >= 2 horizontal whitespace characters
}

// Text returns the token's source text.
func (t Token) Text(data []byte) string {
	return string(t.Range.Text(data))
}
