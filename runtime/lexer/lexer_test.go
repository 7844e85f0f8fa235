package lexer

import (
	"testing"

	"github.com/aledsdavies/helpdoc/core/token"
	"github.com/google/go-cmp/cmp"
)

type tokenExpectation struct {
	Tag       token.Tag
	Text      string
	Separated bool
	Row       int
	Col       int
}

func assertTokens(t *testing.T, name, input string, expected []tokenExpectation) {
	t.Helper()

	l := New("test", []byte(input))
	var actual []tokenExpectation
	for {
		tok := l.Next()
		actual = append(actual, tokenExpectation{
			Tag:       tok.Tag,
			Text:      tok.Text([]byte(input)),
			Separated: tok.Separated,
			Row:       tok.Range.Begin.Row,
			Col:       tok.Range.Begin.Col,
		})
		if tok.Tag == token.END {
			break
		}
	}

	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("%s: token mismatch (-expected +actual):\n%s", name, diff)
	}
}

func TestEmptyInput(t *testing.T) {
	assertTokens(t, "empty", "", []tokenExpectation{
		{token.END, "", false, 1, 1},
	})
}

func TestUsageKeyword(t *testing.T) {
	assertTokens(t, "usage keyword", "Usage:", []tokenExpectation{
		{token.USAGE, "Usage:", false, 1, 1},
		{token.END, "", false, 1, 7},
	})
}

func TestUsageKeywordRequiresColon(t *testing.T) {
	assertTokens(t, "usage without colon", "Usage", []tokenExpectation{
		{token.IDENT, "Usage", false, 1, 1},
		{token.END, "", false, 1, 6},
	})
}

func TestAllUpperIsUpperarg(t *testing.T) {
	assertTokens(t, "upper ident", "FILE", []tokenExpectation{
		{token.UPPERARG, "FILE", false, 1, 1},
		{token.END, "", false, 1, 5},
	})
}

func TestBareCommandIsIdent(t *testing.T) {
	assertTokens(t, "bare ident", "clone", []tokenExpectation{
		{token.IDENT, "clone", false, 1, 1},
		{token.END, "", false, 1, 6},
	})
}

func TestDelimitedArg(t *testing.T) {
	assertTokens(t, "delimited arg", "<file>", []tokenExpectation{
		{token.DELIMARG, "<file>", false, 1, 1},
		{token.END, "", false, 1, 7},
	})
}

func TestMalformedDelimitedArgIsUnknown(t *testing.T) {
	assertTokens(t, "malformed delimited arg", "<file", []tokenExpectation{
		{token.UNKNOWN, "<", false, 1, 1},
		{token.IDENT, "file", false, 1, 2},
		{token.END, "", false, 1, 6},
	})
}

func TestShortOptionNoArg(t *testing.T) {
	assertTokens(t, "short option, no arg", "-v", []tokenExpectation{
		{token.SOPT, "-v", false, 1, 1},
		{token.END, "", false, 1, 3},
	})
}

func TestShortOptionWithSpacedUpperArg(t *testing.T) {
	assertTokens(t, "short option with spaced upper arg", "-o FILE", []tokenExpectation{
		{token.SOPT, "-o FILE", false, 1, 1},
		{token.END, "", false, 1, 8},
	})
}

func TestShortOptionWithSpacedDelimArg(t *testing.T) {
	assertTokens(t, "short option with spaced delimited arg", "-o <file>", []tokenExpectation{
		{token.SOPT, "-o <file>", false, 1, 1},
		{token.END, "", false, 1, 10},
	})
}

// TestShortOptionGlued pins the "-oFILE" behavior: with no space before the
// argument, the whole run lexes as a single short option with no spliced
// argument.
func TestShortOptionGlued(t *testing.T) {
	assertTokens(t, "glued short option", "-oFILE", []tokenExpectation{
		{token.SOPT, "-oFILE", false, 1, 1},
		{token.END, "", false, 1, 7},
	})
}

func TestLongOptionWithEqualsArg(t *testing.T) {
	assertTokens(t, "long option with = arg", "--output=FILE", []tokenExpectation{
		{token.LOPT, "--output=FILE", false, 1, 1},
		{token.END, "", false, 1, 14},
	})
}

func TestLongOptionWithSpacedArg(t *testing.T) {
	assertTokens(t, "long option with spaced arg", "--output FILE", []tokenExpectation{
		{token.LOPT, "--output FILE", false, 1, 1},
		{token.END, "", false, 1, 14},
	})
}

func TestLongOptionNoArg(t *testing.T) {
	assertTokens(t, "long option, no arg", "--verbose", []tokenExpectation{
		{token.LOPT, "--verbose", false, 1, 1},
		{token.END, "", false, 1, 10},
	})
}

func TestDashAndDdash(t *testing.T) {
	assertTokens(t, "lone dash and ddash", "- --", []tokenExpectation{
		{token.DASH, "-", false, 1, 1},
		{token.DDASH, "--", false, 1, 3},
		{token.END, "", false, 1, 5},
	})
}

func TestColonAcceptsEquals(t *testing.T) {
	assertTokens(t, "= is COLON", "=", []tokenExpectation{
		{token.COLON, "=", false, 1, 1},
		{token.END, "", false, 1, 2},
	})
}

func TestSeparatedFlag(t *testing.T) {
	assertTokens(t, "two-space gap marks separated", "a  b", []tokenExpectation{
		{token.IDENT, "a", false, 1, 1},
		{token.IDENT, "b", true, 1, 4},
		{token.END, "", false, 1, 5},
	})
}

func TestSingleSpaceNotSeparated(t *testing.T) {
	assertTokens(t, "one-space gap is not separated", "a b", []tokenExpectation{
		{token.IDENT, "a", false, 1, 1},
		{token.IDENT, "b", false, 1, 3},
		{token.END, "", false, 1, 4},
	})
}

func TestNewlineTracksRowCol(t *testing.T) {
	assertTokens(t, "newline resets column", "a\nb", []tokenExpectation{
		{token.IDENT, "a", false, 1, 1},
		{token.NL, "\n", false, 1, 2},
		{token.IDENT, "b", false, 2, 1},
		{token.END, "", false, 2, 2},
	})
}

func TestDots(t *testing.T) {
	assertTokens(t, "dots", "FILE...", []tokenExpectation{
		{token.UPPERARG, "FILE", false, 1, 1},
		{token.DOTS, "...", false, 1, 5},
		{token.END, "", false, 1, 8},
	})
}

func TestBrackets(t *testing.T) {
	assertTokens(t, "brackets and parens", "[(a|b)]", []tokenExpectation{
		{token.LBRACKET, "[", false, 1, 1},
		{token.LPAREN, "(", false, 1, 2},
		{token.IDENT, "a", false, 1, 3},
		{token.OR, "|", false, 1, 4},
		{token.IDENT, "b", false, 1, 5},
		{token.RPAREN, ")", false, 1, 6},
		{token.RBRACKET, "]", false, 1, 7},
		{token.END, "", false, 1, 8},
	})
}

func TestUnknownCharConsumesOne(t *testing.T) {
	assertTokens(t, "unknown char", "@@", []tokenExpectation{
		{token.UNKNOWN, "@", false, 1, 1},
		{token.UNKNOWN, "@", false, 1, 2},
		{token.END, "", false, 1, 3},
	})
}

func TestSkipLine(t *testing.T) {
	l := New("test", []byte("preamble text\nUsage: prog"))
	l.SkipLine()
	tok := l.Next()
	if tok.Tag != token.NL {
		t.Fatalf("expected NL after SkipLine, got %s", tok.Tag)
	}
	tok = l.Next()
	if tok.Tag != token.USAGE {
		t.Fatalf("expected USAGE, got %s", tok.Tag)
	}
}
