package sema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/flatwire/internal/diag"
	"github.com/aledsdavies/flatwire/internal/parser"
	"github.com/aledsdavies/flatwire/internal/wire"
)

func annotate(t *testing.T, src string) (*Annotator, *diag.Reporter) {
	t.Helper()
	b := []byte(src)
	rep := diag.New("test.fw", b)
	doc := parser.Parse(b, rep)
	require.True(t, rep.OK(), rep.Format())
	a := Annotate(doc, b, rep, DefaultOptions())
	return a, rep
}

func TestPresenceBitAndValueBitForOptionalBool(t *testing.T) {
	a, rep := annotate(t, `table T @01020304 { a: Optional UInt8, b: Optional Bool }`)
	require.True(t, rep.OK(), rep.Format())

	tbl := a.Tables["T"]
	mA, mB := tbl.Members[0], tbl.Members[1]

	require.True(t, mA.HasSlot)
	require.Equal(t, 0, mA.HasOffset)
	require.Equal(t, 0, mA.HasBit)

	require.Equal(t, 0, mB.HasOffset)
	require.Equal(t, 1, mB.HasBit)
	require.Equal(t, 0, mB.Offset)
	require.Equal(t, 2, mB.Bit)

	require.Equal(t, 1, mA.Offset) // presence byte reserved at offset 0, then the u8 value at offset 1
}

func TestSlotPackingIsDisjointAndCoversRecord(t *testing.T) {
	a, rep := annotate(t, `table T @01020304 { a: UInt8, b: UInt32, c: Optional Bool }`)
	require.True(t, rep.OK(), rep.Format())
	tbl := a.Tables["T"]

	type iv struct{ lo, hi int }
	var intervals []iv
	for _, m := range tbl.Members {
		if m.Bytes == 0 {
			continue // bit-packed bool
		}
		intervals = append(intervals, iv{m.Offset, m.Offset + m.Bytes})
	}
	covered := make([]bool, len(tbl.Default))
	for _, m := range tbl.Members {
		if m.Bytes == 0 {
			covered[m.Offset] = true // shared byte of a bit-packed bool
		}
		if m.HasSlot {
			covered[m.HasOffset] = true
		}
		for i := m.Offset; i < m.Offset+m.Bytes; i++ {
			covered[i] = true
		}
	}
	for i, c := range covered {
		require.True(t, c, "byte %d of the fixed part is not covered by any member", i)
	}
	for i := range intervals {
		for j := range intervals {
			if i == j {
				continue
			}
			overlap := intervals[i].lo < intervals[j].hi && intervals[j].lo < intervals[i].hi
			require.False(t, overlap, "intervals %v and %v overlap", intervals[i], intervals[j])
		}
	}
}

func TestEnumSentinelDefaultsToAbsent(t *testing.T) {
	a, rep := annotate(t, `enum Color { Red, Green, Blue }
table T @01020304 { c: Color }`)
	require.True(t, rep.OK(), rep.Format())
	tbl := a.Tables["T"]
	m := tbl.Members[0]
	require.Equal(t, byte(wire.EnumAbsent), tbl.Default[m.Offset])
}

func TestEnumLiteralDefaultEncodesOrdinal(t *testing.T) {
	a, rep := annotate(t, `enum Color { Red, Green, Blue }
table T @01020304 { c: Color = Green }`)
	require.True(t, rep.OK(), rep.Format())
	tbl := a.Tables["T"]
	m := tbl.Members[0]
	require.Equal(t, byte(1), tbl.Default[m.Offset])
}

func TestOptionalFloatDefaultsToNaN(t *testing.T) {
	a, rep := annotate(t, `table T @01020304 { f: Optional Float32 }`)
	require.True(t, rep.OK(), rep.Format())
	tbl := a.Tables["T"]
	m := tbl.Members[0]
	bits := uint32(tbl.Default[m.Offset]) | uint32(tbl.Default[m.Offset+1])<<8 |
		uint32(tbl.Default[m.Offset+2])<<16 | uint32(tbl.Default[m.Offset+3])<<24
	exp := bits >> 23 & 0xFF
	require.Equal(t, uint32(0xFF), exp, "expected all-ones exponent for NaN")
}

func TestDuplicateTopLevelNameIsRejected(t *testing.T) {
	_, rep := parseOnlyOK(t, `struct S { a: UInt8 }
table S @01020304 { b: UInt8 }`)
	require.False(t, rep.OK())
}

func TestForwardReferenceIsRejected(t *testing.T) {
	_, rep := parseOnlyOK(t, `table T @01020304 { next: U }
table U @05060708 { a: UInt8 }`)
	require.False(t, rep.OK())
}

func TestUnionArmsGetOneBasedTags(t *testing.T) {
	a, rep := annotate(t, `table A @01020304 { x: UInt8 }
table B @05060708 { y: UInt8 }
union U { a: A, b: B }`)
	require.True(t, rep.OK(), rep.Format())
	u := a.Unions["U"]
	require.Equal(t, 1, u.Members[0].Tag)
	require.Equal(t, 2, u.Members[1].Tag)
}

func TestStructCannotContainOptional(t *testing.T) {
	_, rep := parseOnlyOK(t, `struct S { a: Optional UInt8 }`)
	require.False(t, rep.OK())
}

func TestBoolCannotHaveDefault(t *testing.T) {
	_, rep := parseOnlyOK(t, `table T @01020304 { a: Bool = true }`)
	require.False(t, rep.OK())
}

func TestLowerCaseTypeNameIsRejected(t *testing.T) {
	_, rep := parseOnlyOK(t, `struct lowerCase { a: UInt8 }`)
	require.False(t, rep.OK())
}

// TestMemberNameCollidesWithDerivedAccessorIsRejected proves a member whose
// literal name equals another member's derived accessor (here "foo"'s
// "hasFoo") is caught, not just literal duplicate member names.
func TestMemberNameCollidesWithDerivedAccessorIsRejected(t *testing.T) {
	_, rep := parseOnlyOK(t, `table T @01020304 { foo: Optional UInt8, hasFoo: UInt8 }`)
	require.False(t, rep.OK())
}

func TestStrictCasingFalseAllowsLowerCaseTypeName(t *testing.T) {
	b := []byte(`struct lowerCase { a: UInt8 }`)
	rep := diag.New("test.fw", b)
	doc := parser.Parse(b, rep)
	require.True(t, rep.OK(), rep.Format())
	Annotate(doc, b, rep, Options{StrictCasing: false})
	require.True(t, rep.OK(), rep.Format())
}

func TestListOfInlineStructAnnotatesElementBytes(t *testing.T) {
	a, rep := annotate(t, `table T @01020304 { xs: List struct { x: Int32, y: Int32 } }`)
	require.True(t, rep.OK(), rep.Format())
	s, ok := a.Structs["TXs"]
	require.True(t, ok)
	require.Equal(t, 8, s.Bytes)
}

func TestListOfInlineTableChecksMagic(t *testing.T) {
	_, rep := parseOnlyOK(t, `table T @01020304 { xs: List table { a: UInt8 } }`)
	require.False(t, rep.OK())
}

func TestListOfUnionIsRejected(t *testing.T) {
	_, rep := parseOnlyOK(t, `union U { a: Text } table T @01020304 { xs: List U }`)
	require.False(t, rep.OK())
}

// TestUnionArmAcceptsListOfText proves a `list`-marked union arm is
// annotated by its element type rather than silently resolved as if the
// list modifier were never there (spec.md §3/§4.4 permit list union arms).
func TestUnionArmAcceptsListOfText(t *testing.T) {
	a, rep := annotate(t, `union U { names: List Text }`)
	require.True(t, rep.OK(), rep.Format())
	u := a.Unions["U"]
	require.True(t, u.Members[0].List)
}

// TestUnionArmListOfUnionIsRejected proves a list union arm whose element
// type is itself a union is still rejected, the same as a plain list member.
func TestUnionArmListOfUnionIsRejected(t *testing.T) {
	_, rep := parseOnlyOK(t, `union Inner { a: Text } union U { xs: List Inner }`)
	require.False(t, rep.OK())
}

// TestInplaceListParsesAsModifierPlusListType proves spec.md §8 scenario 5:
// `inplace` occupies the modifier slot and `List` appears in the type slot,
// combining into one inplace-list member instead of failing to parse. A
// value of [10, 20, 99] under this layout puts u32 3 (the element count) in
// the table's one 4-byte fixed-part slot and appends the tail
// [0A 00 00 00 14 00 00 00 63 00 00 00] (three little-endian UInt32s)
// directly after the fixed part, rather than storing an absolute offset.
func TestInplaceListParsesAsModifierPlusListType(t *testing.T) {
	a, rep := annotate(t, `table T @AABBCCDD { xs: inplace List UInt32 }`)
	require.True(t, rep.OK(), rep.Format())
	tbl := a.Tables["T"]
	m := tbl.Members[0]
	require.True(t, m.List)
	require.True(t, m.Inplace)
	require.Equal(t, 0, m.Offset)
	require.Equal(t, 4, m.Bytes, "the fixed part holds one u32 slot (count/tail-length, not an absolute offset)")
	require.Equal(t, 4, len(tbl.Default), "xs is the table's only member")
}

// parseOnlyOK parses and annotates src, returning the resulting reporter
// even when errors are expected; unlike annotate, it does not assert
// rep.OK() after parsing.
func parseOnlyOK(t *testing.T, src string) (*Annotator, *diag.Reporter) {
	t.Helper()
	b := []byte(src)
	rep := diag.New("test.fw", b)
	doc := parser.Parse(b, rep)
	a := Annotate(doc, b, rep, DefaultOptions())
	return a, rep
}
