package diag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/flatwire/internal/token"
)

func TestOKWithNoDiagnostics(t *testing.T) {
	r := New("test.fw", []byte("table T {}"))
	require.True(t, r.OK())
	require.Equal(t, 0, r.Count())
	require.Empty(t, r.Format())
}

func TestErrorfFormatsSourceCitation(t *testing.T) {
	src := []byte("table T {\n  a: UInt8\n}")
	r := New("test.fw", src)
	// "a" starts at offset 12, on line 2.
	r.Errorf(token.Token{Offset: 12, Length: 1}, "bad member %q", "a")

	require.False(t, r.OK())
	require.Equal(t, 1, r.Count())

	out := r.Format()
	require.True(t, strings.HasPrefix(out, "test.fw:2: bad member \"a\"\n"))
	lines := strings.Split(out, "\n")
	require.Equal(t, "  a: UInt8", lines[1])
	require.Equal(t, "  ^", lines[2])
}

func TestErrorfPreservesTabsInCaretLine(t *testing.T) {
	src := []byte("table T {\n\ta: UInt8\n}")
	r := New("test.fw", src)
	r.Errorf(token.Token{Offset: 11, Length: 1}, "oops")
	out := r.Format()
	lines := strings.Split(out, "\n")
	require.Equal(t, "\t^", lines[2])
}

func TestMultipleDiagnosticsAccumulateInOrder(t *testing.T) {
	r := New("test.fw", []byte("xy"))
	r.Errorf(token.Token{Offset: 0, Length: 1}, "first")
	r.Errorf(token.Token{Offset: 1, Length: 1}, "second")
	require.Equal(t, 2, r.Count())
	require.Equal(t, "first", r.Diagnostics()[0].Message)
	require.Equal(t, "second", r.Diagnostics()[1].Message)
}
