package ir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/flatwire/internal/diag"
	"github.com/aledsdavies/flatwire/internal/parser"
	"github.com/aledsdavies/flatwire/internal/sema"
)

func build(t *testing.T, src string) *IR {
	t.Helper()
	b := []byte(src)
	rep := diag.New("test.fw", b)
	doc := parser.Parse(b, rep)
	require.True(t, rep.OK(), rep.Format())
	a := sema.Annotate(doc, b, rep, sema.DefaultOptions())
	require.True(t, rep.OK(), rep.Format())
	return Build(doc, a, b)
}

func TestBuildProducesOneDeclPerDeclaration(t *testing.T) {
	m := build(t, `enum Color { Red, Green, Blue }
table T @01020304 { c: Color, n: UInt32 }`)
	require.Len(t, m.Declarations, 2)
	require.Equal(t, 0, m.Lookup("Color"))
	require.Equal(t, 1, m.Lookup("T"))
}

func TestBuildResolvesMemberDeclReference(t *testing.T) {
	m := build(t, `enum Color { Red, Green }
table T @01020304 { c: Color }`)
	tbl := m.Declarations[m.Lookup("T")]
	require.Len(t, tbl.Members, 1)
	require.Equal(t, TypeDecl, tbl.Members[0].TypeKind)
	require.Equal(t, m.Lookup("Color"), tbl.Members[0].DeclIndex)
}

func TestBuildHoistsInlineStruct(t *testing.T) {
	m := build(t, `table T @01020304 { pos: struct { x: Int32, y: Int32 } }`)
	require.Equal(t, -1, m.Lookup("NoSuchThing"))
	idx := m.Lookup("TPos")
	require.GreaterOrEqual(t, idx, 0)
	require.Equal(t, DeclStruct, m.Declarations[idx].Kind)
}

func TestDumpIsStable(t *testing.T) {
	m := build(t, `table T @01020304 { a: UInt8 }`)
	out := m.Dump()
	require.Contains(t, out, "table T")
	require.Contains(t, out, "members=1")
}
