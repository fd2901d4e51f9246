package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/flatwire/internal/ast"
	"github.com/aledsdavies/flatwire/internal/diag"
	"github.com/aledsdavies/flatwire/internal/token"
)

func parse(t *testing.T, src string) (*ast.Document, *diag.Reporter) {
	t.Helper()
	b := []byte(src)
	rep := diag.New("test.fw", b)
	doc := Parse(b, rep)
	return doc, rep
}

func TestParseSimpleTable(t *testing.T) {
	doc, rep := parse(t, `table T @01020304 { a: UInt8, b: Optional Bool }`)
	require.True(t, rep.OK(), rep.Format())
	require.Len(t, doc.Tables, 1)
	tbl := doc.Tables[0]
	require.Equal(t, "T", tbl.DeclName([]byte(`table T @01020304 { a: UInt8, b: Optional Bool }`)))
	require.Len(t, tbl.Members, 2)
	require.True(t, tbl.Members[1].Optional)
}

func TestParseNamespace(t *testing.T) {
	doc, rep := parse(t, `namespace a::b::c; enum E { X, Y }`)
	require.True(t, rep.OK(), rep.Format())
	require.NotNil(t, doc.Namespace)
	require.Equal(t, "a.b.c", doc.Namespace.Name)
	require.Len(t, doc.Enums, 1)
	require.Len(t, doc.Enums[0].Values, 2)
}

func TestParseInlineStructHoisting(t *testing.T) {
	src := `table T @01020304 { pos: struct { x: Int32, y: Int32 } }`
	doc, rep := parse(t, src)
	require.True(t, rep.OK(), rep.Format())
	require.Len(t, doc.Structs, 1)
	require.Equal(t, "TPos", doc.Structs[0].DeclName([]byte(src)))
	require.True(t, doc.Structs[0].Synthetic)
}

func TestParseJunkTopLevelTokenRecoversAtNextDecl(t *testing.T) {
	src := `huh
table U @05060708 { b: UInt8 }`
	doc, rep := parse(t, src)
	require.False(t, rep.OK())
	require.Len(t, doc.Tables, 1)
	require.Equal(t, "U", doc.Tables[0].DeclName([]byte(src)))
}

func TestParseMissingMagicProducesTableWithZeroMagic(t *testing.T) {
	doc, rep := parse(t, `table T { a: UInt8 }`)
	require.True(t, rep.OK(), rep.Format())
	require.Equal(t, token.Kind(0), doc.Tables[0].Magic.Kind)
}
