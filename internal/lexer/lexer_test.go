package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/flatwire/internal/token"
)

func tokenize(t *testing.T, src string) []token.Kind {
	t.Helper()
	l := New(src, nil)
	var kinds []token.Kind
	for {
		tok := l.Next()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			return kinds
		}
	}
}

func TestNextPunctuationAndKeywords(t *testing.T) {
	got := tokenize(t, "table T : struct { a: Optional UInt8 }")
	want := []token.Kind{
		token.TABLE, token.IDENTIFIER, token.COLON, token.STRUCT,
		token.LBRACE, token.IDENTIFIER, token.COLON, token.OPTIONAL,
		token.UINT8, token.RBRACE, token.EOF,
	}
	require.Empty(t, cmp.Diff(want, got))
}

func TestNextMagicToken(t *testing.T) {
	l := New("@0A1B2C3D", nil)
	tok := l.Next()
	require.Equal(t, token.MAGIC, tok.Kind)
	require.Equal(t, "@0A1B2C3D", tok.Text([]byte("@0A1B2C3D")))
}

func TestNextNumberLiteral(t *testing.T) {
	cases := []string{"0", "-42", "3.14", "1e10", "-2.5e-3"}
	for _, c := range cases {
		l := New(c, nil)
		tok := l.Next()
		require.Equal(t, token.NUMBER, tok.Kind, "input %q", c)
		require.Equal(t, c, tok.Text([]byte(c)))
	}
}

func TestNextColonColon(t *testing.T) {
	got := tokenize(t, "a::b::c")
	want := []token.Kind{
		token.IDENTIFIER, token.COLONCOLON, token.IDENTIFIER,
		token.COLONCOLON, token.IDENTIFIER, token.EOF,
	}
	require.Empty(t, cmp.Diff(want, got))
}

func TestSkipTriviaComments(t *testing.T) {
	got := tokenize(t, "# line comment\nenum /* block */ E { A }")
	want := []token.Kind{
		token.ENUM, token.IDENTIFIER, token.LBRACE, token.IDENTIFIER, token.RBRACE, token.EOF,
	}
	require.Empty(t, cmp.Diff(want, got))
}

func TestBadCharacterProducesBadToken(t *testing.T) {
	l := New("$", nil)
	tok := l.Next()
	require.Equal(t, token.BAD, tok.Kind)
}
