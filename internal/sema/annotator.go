// Package sema implements the annotator (spec.md §4.3, component C3): name
// resolution, wire-offset/bit assignment, default byte images, and every
// semantic rule in spec.md §3. It is the sole writer of the annotator
// output fields on ast.Value (see internal/ast's package doc), and it
// writes Struct.Bytes / Table.Default once per record.
//
// The overall shape — a single struct walking declarations in order,
// maintaining incrementally-populated name tables so forward references
// fail closed, and pushing every problem into a shared diagnostics
// reporter rather than stopping at the first one — is grounded in the
// teacher's runtime/parser.Parser (tree.go) validation passes and
// core/types/validation.go's accumulate-then-report style, adapted here
// to the record-layout algorithm spec.md §4.3 spells out precisely.
package sema

import (
	"math"

	"github.com/aledsdavies/flatwire/internal/ast"
	"github.com/aledsdavies/flatwire/internal/diag"
	"github.com/aledsdavies/flatwire/internal/token"
	"github.com/aledsdavies/flatwire/internal/wire"
)

type recordKind int

const (
	kindStruct recordKind = iota
	kindTable
)

// Options controls annotator behavior beyond spec.md's fixed rules.
type Options struct {
	// StrictCasing enables the UpperCamelCase/lowerCamelCase and
	// no-underscore identifier checks (spec.md §3). Disabling it (via
	// .flatwire.yaml's strictCasing: false, SPEC_FULL.md §6.1) still
	// rejects reserved-keyword collisions and duplicate names — only the
	// casing/underscore convention check is skipped, for schemas migrated
	// from a naming style this compiler doesn't otherwise enforce.
	StrictCasing bool
}

// DefaultOptions returns the annotator options used when a caller has no
// project configuration to read (matches config.Default().StrictCasing).
func DefaultOptions() Options { return Options{StrictCasing: true} }

// Annotator holds the incrementally-populated name tables spec.md §4.3
// describes ("four name tables ... populated incrementally, so forward
// references are not permitted") plus per-enum ordinal tables.
type Annotator struct {
	src  *[]byte
	rep  *diag.Reporter
	opts Options

	Enums   map[string]*ast.Enum
	Structs map[string]*ast.Struct
	Tables  map[string]*ast.Table
	Unions  map[string]*ast.Union

	// declKind records which table a name was registered in, for a
	// precise "duplicate name" message ("already declared as a struct").
	declKind map[string]string

	enumOrdinals map[*ast.Enum]map[string]int
}

// Annotate runs the single annotation pass over doc in declaration order
// and returns the populated Annotator (the name tables and per-enum
// ordinals the IR facade needs). Errors are pushed into rep; callers must
// check rep.OK() before treating the result as usable.
func Annotate(doc *ast.Document, src []byte, rep *diag.Reporter, opts Options) *Annotator {
	a := &Annotator{
		src:          &src,
		rep:          rep,
		opts:         opts,
		Enums:        map[string]*ast.Enum{},
		Structs:      map[string]*ast.Struct{},
		Tables:       map[string]*ast.Table{},
		Unions:       map[string]*ast.Union{},
		declKind:     map[string]string{},
		enumOrdinals: map[*ast.Enum]map[string]int{},
	}
	for _, ref := range doc.Order {
		switch ref.Kind {
		case ast.KindEnum:
			a.annotateTopEnum(doc.Enums[ref.Index])
		case ast.KindStruct:
			a.annotateTopStruct(doc.Structs[ref.Index])
		case ast.KindTable:
			a.annotateTopTable(doc.Tables[ref.Index])
		case ast.KindUnion:
			a.annotateTopUnion(doc.Unions[ref.Index])
		}
	}
	return a
}

func (a *Annotator) text(t token.Token) string { return t.Text(*a.src) }

// registerName enforces "each declared top-level name is unique across
// enums, structs, tables, unions" (spec.md §3). It returns false (and has
// already reported an error) if name collides with an earlier declaration.
func (a *Annotator) registerName(nameTok token.Token, name, kind string) bool {
	if a.opts.StrictCasing && (!isUpperCamel(name) || hasUnderscore(name)) {
		a.rep.Errorf(nameTok, "%s name %q must be UpperCamelCase with no underscores", kind, name)
	}
	if isReservedWord(name) {
		a.rep.Errorf(nameTok, "%s name %q is a reserved keyword", kind, name)
	}
	if prior, ok := a.declKind[name]; ok {
		a.rep.Errorf(nameTok, "duplicate name %q: already declared as %s", name, prior)
		return false
	}
	a.declKind[name] = kind
	return true
}

func (a *Annotator) annotateTopEnum(e *ast.Enum) {
	name := e.DeclName(*a.src)
	if !a.registerName(e.Name, name, "enum") {
		return
	}
	a.annotateEnum(e)
	a.Enums[name] = e
}

func (a *Annotator) annotateEnum(e *ast.Enum) {
	ordinals := map[string]int{}
	seen := map[string]token.Token{}
	idx := 0
	for _, vt := range e.Values {
		v := a.text(vt)
		if prev, dup := seen[v]; dup {
			a.rep.Errorf(vt, "duplicate enum value %q", v)
			a.rep.Errorf(prev, "first declared here")
			continue
		}
		seen[v] = vt
		ordinals[v] = idx
		idx++
	}
	// At most 255 declared values: ordinals 0..254, leaving 0xFF free as
	// the absent sentinel.
	if idx > wire.MaxEnumValues {
		a.rep.Errorf(e.Tok, "enum has %d values; at most %d are allowed (0xFF is reserved for absent)", idx, wire.MaxEnumValues)
	}
	a.enumOrdinals[e] = ordinals
}

func (a *Annotator) annotateTopStruct(s *ast.Struct) {
	name := s.DeclName(*a.src)
	if !a.registerName(s.Name, name, "struct") {
		return
	}
	n, def := a.visitContent(name, s.Members, kindStruct)
	s.Bytes = n
	_ = def // structs have no default image of their own (spec.md §3)
	a.Structs[name] = s
}

func (a *Annotator) annotateTopTable(t *ast.Table) {
	name := t.DeclName(*a.src)
	if !a.registerName(t.Name, name, "table") {
		return
	}
	a.checkMagic(t, false)
	n, def := a.visitContent(name, t.Members, kindTable)
	_ = n
	t.Default = def
	a.Tables[name] = t
}

func (a *Annotator) annotateTopUnion(u *ast.Union) {
	name := u.DeclName(*a.src)
	if !a.registerName(u.Name, name, "union") {
		return
	}
	a.visitUnionArms(name, u.Members)
	a.Unions[name] = u
}

// checkMagic validates a table's magic per spec.md §4.3 "Magic assignment":
// required unless the table is an inline declaration reached through an
// inplace member chain.
func (a *Annotator) checkMagic(t *ast.Table, reachedViaInplace bool) {
	if t.Magic.Kind != token.MAGIC {
		if reachedViaInplace {
			return
		}
		at := t.Tok
		a.rep.Errorf(at, "table %q requires a magic id (@XXXXXXXX)", t.DeclName(*a.src))
		return
	}
	hex := a.text(t.Magic)[1:] // strip leading '@'
	if len(hex) != 8 {
		a.rep.Errorf(t.Magic, "magic id must be exactly 8 hex digits, got %d", len(hex))
		return
	}
	var v uint32
	for i := 0; i < 8; i++ {
		c := hex[i]
		var d uint32
		switch {
		case c >= '0' && c <= '9':
			d = uint32(c - '0')
		case c >= 'A' && c <= 'F':
			d = uint32(c-'A') + 10
		default:
			a.rep.Errorf(t.Magic, "magic id must use only uppercase hex digits")
			return
		}
		v = v<<4 | d
	}
	if v == 0 {
		a.rep.Errorf(t.Magic, "magic id must be in [1, 2^32)")
	}
}

// boolCursor is the presence/value-bit allocator spec.md §9 describes: a
// small stateful (byteOffset, nextBit) cursor, reused across a record's
// pass. nextBit == 8 means "exhausted": the next consumer reserves a new
// byte in the fixed part.
type boolCursor struct {
	byteOffset int
	nextBit    int
}

func newBoolCursor() *boolCursor { return &boolCursor{nextBit: 8} }

// alloc returns the (byteOffset, bit) for one more bit, reserving a fresh
// zero byte at *offset (advancing it by one) when the current byte is full.
func (c *boolCursor) alloc(offset *int, defaultBuf *[]byte) (byteOffset, bit int) {
	if c.nextBit == 8 {
		c.nextBit = 0
		c.byteOffset = *offset
		*offset++
		*defaultBuf = append(*defaultBuf, 0)
	}
	byteOffset, bit = c.byteOffset, c.nextBit
	c.nextBit++
	return
}

// visitContent implements spec.md §4.3's per-record layout algorithm for a
// struct or table's fixed part. It returns the record's total byte width
// and its default byte image (all zero bytes for a struct, whose callers
// discard it).
func (a *Annotator) visitContent(owner string, members []*ast.Value, kind recordKind) (int, []byte) {
	offset := 0
	var defaultBuf []byte
	cursor := newBoolCursor()
	// claimed holds every member name and every synthetic accessor name
	// derived from a member, in one shared namespace (grounded on
	// original_source/annotate.py's single `content` set), so a member
	// literally named e.g. "hasFoo" is caught colliding with "foo"'s
	// derived hasFoo accessor, not just with another literal "hasFoo".
	claimed := map[string]token.Token{}
	claimedBy := map[string]string{}
	isLiteral := map[string]bool{}
	inplaceUsed := false

	claim := func(nameTok token.Token, memberName, candidate string, literal bool) bool {
		if prevTok, dup := claimed[candidate]; dup {
			switch {
			case literal && isLiteral[candidate]:
				a.rep.Errorf(nameTok, "duplicate member name %q", candidate)
				a.rep.Errorf(prevTok, "first declared here")
			case literal:
				a.rep.Errorf(nameTok, "member name %q collides with an accessor derived from member %q", candidate, claimedBy[candidate])
			default:
				a.rep.Errorf(nameTok, "accessor name %q for member %q collides with member %q", candidate, memberName, claimedBy[candidate])
			}
			return false
		}
		claimed[candidate] = nameTok
		claimedBy[candidate] = memberName
		isLiteral[candidate] = literal
		return true
	}

	for _, v := range members {
		name := a.text(v.Name)

		if a.opts.StrictCasing && (!isLowerCamel(name) || hasUnderscore(name)) {
			a.rep.Errorf(v.Name, "member name %q must be lowerCamelCase with no underscores", name)
		}
		if isReservedWord(name) {
			a.rep.Errorf(v.Name, "member name %q is a reserved keyword", name)
		}
		if !claim(v.Name, name, name, true) {
			continue
		}

		up := upperFirst(name)
		claim(v.Name, name, "get"+up, false)
		claim(v.Name, name, "has"+up, false)
		claim(v.Name, name, "add"+up, false)

		isStruct := kind == kindStruct

		if v.Optional && isStruct {
			a.rep.Errorf(v.Name, "optional is not allowed in structs")
		}
		if v.List && isStruct {
			a.rep.Errorf(v.Name, "list members are not allowed in structs")
		}
		if v.Inplace {
			if isStruct {
				a.rep.Errorf(v.Name, "inplace is not allowed in structs")
			} else if inplaceUsed {
				a.rep.Errorf(v.Name, "a table may have at most one inplace member")
			} else {
				inplaceUsed = true
			}
		}
		if v.Literal.Kind != 0 && isStruct {
			a.rep.Errorf(v.Literal, "default values are not allowed in structs")
		}

		a.assignSlot(v, kind, &offset, &defaultBuf, cursor)
	}

	if len(defaultBuf) != offset {
		// Defensive: every branch of assignSlot must append exactly
		// v.Bytes bytes (zero for a bit-packed bool). A mismatch here is
		// an annotator bug, not a schema error.
		panic("flatwire: internal error: default image length does not match record size")
	}
	return offset, defaultBuf
}

// assignSlot dispatches on v's effective type and kind to set v.Offset/
// v.Bytes/v.Bit/v.HasOffset/v.HasBit, resolve references, validate literal
// defaults, and append that member's contribution to *defaultBuf. It is
// the Go rendering of spec.md §4.3's type-to-slot table.
func (a *Annotator) assignSlot(v *ast.Value, kind recordKind, offset *int, defaultBuf *[]byte, cursor *boolCursor) {
	isStruct := kind == kindStruct
	t := v.Type

	if t.Ident != "" && !v.List {
		a.resolveIdent(v, t.Ident, t.Tok)
	}

	// Presence bit for optional scalar/bool/enum/struct members (spec.md
	// §4.3 step 110). A Bool additionally always gets its own value bit
	// from the same cursor, allocated below in assignBoolSlot, so an
	// optional Bool costs two bits and a non-optional one costs one.
	// List/text/bytes/table/union are implicitly optional already and
	// never get a presence bit; struct context never does either (optional
	// is already rejected there).
	isTextOrBytes := t.Primitive == token.TEXT || t.Primitive == token.BYTES
	wantsPresenceBit := v.Optional && !isStruct && !v.List && !isTextOrBytes &&
		(t.Primitive != 0 || t.InlineEnum != nil || t.InlineStruct != nil ||
			v.ResolvedEnum != nil || v.ResolvedStruct != nil)

	if wantsPresenceBit {
		bo, bit := cursor.alloc(offset, defaultBuf)
		v.HasOffset, v.HasBit, v.HasSlot = bo, bit, true
	}

	switch {
	case v.List:
		a.assignListSlot(v, isStruct, offset, defaultBuf)
	case t.Primitive == token.BOOL:
		a.assignBoolSlot(v, isStruct, offset, defaultBuf, cursor)
	case t.Primitive == token.TEXT || t.Primitive == token.BYTES:
		if isStruct {
			a.rep.Errorf(v.Tok, "Text/Bytes members are not allowed in structs")
		}
		a.assignPointerSlot(v, offset, defaultBuf)
	case t.Primitive != 0:
		a.assignScalarSlot(v, offset, defaultBuf)
	case t.InlineEnum != nil:
		a.annotateEnum(t.InlineEnum)
		a.assignEnumSlot(v, t.InlineEnum, offset, defaultBuf)
	case t.InlineStruct != nil:
		sname := t.InlineStruct.DeclName(*a.src)
		n, _ := a.visitContent(sname, t.InlineStruct.Members, kindStruct)
		t.InlineStruct.Bytes = n
		a.declKind[sname] = "struct"
		a.Structs[sname] = t.InlineStruct
		a.assignStructSlot(v, t.InlineStruct, isStruct, offset, defaultBuf)
	case t.InlineTable != nil:
		if isStruct {
			a.rep.Errorf(v.Tok, "tables are not allowed in structs")
		}
		a.checkMagic(t.InlineTable, v.Inplace)
		a.annotateTopTableInline(t.InlineTable)
		a.assignPointerSlot(v, offset, defaultBuf)
	case t.InlineUnion != nil:
		if isStruct {
			a.rep.Errorf(v.Tok, "unions are not allowed in structs")
		}
		a.visitUnionArms(t.InlineUnion.DeclName(*a.src), t.InlineUnion.Members)
		a.assignUnionSlot(v, offset, defaultBuf)
	case t.Ident != "":
		a.assignIdentSlot(v, isStruct, offset, defaultBuf)
	default:
		a.rep.Errorf(v.Type.Tok, "unknown type")
		v.Offset = *offset
	}
}

func (a *Annotator) assignBoolSlot(v *ast.Value, isStruct bool, offset *int, defaultBuf *[]byte, cursor *boolCursor) {
	if v.Literal.Kind != 0 {
		a.rep.Errorf(v.Literal, "Bool members cannot have a default value")
	}
	if isStruct {
		v.Offset = *offset
		v.Bytes = wire.Int8Bytes
		*offset += wire.Int8Bytes
		*defaultBuf = append(*defaultBuf, 0)
		return
	}
	bo, bit := cursor.alloc(offset, defaultBuf)
	v.Offset, v.Bit, v.Bytes = bo, bit, wire.BoolSlotBytes
}

func (a *Annotator) assignScalarSlot(v *ast.Value, offset *int, defaultBuf *[]byte) {
	width := scalarWidth(v.Type.Primitive)
	v.Offset = *offset
	v.Bytes = width
	*offset += width

	var buf [8]byte
	isFloat := v.Type.Primitive == token.FLOAT32 || v.Type.Primitive == token.FLOAT64

	if v.Literal.Kind == 0 {
		if isFloat && v.Optional {
			putNaN(buf[:width], v.Type.Primitive)
		}
	} else {
		a.encodeNumericLiteral(v, buf[:width])
	}
	*defaultBuf = append(*defaultBuf, buf[:width]...)
}

func scalarWidth(k token.Kind) int {
	switch k {
	case token.INT8, token.UINT8:
		return wire.Int8Bytes
	case token.INT16, token.UINT16:
		return wire.Int16Bytes
	case token.INT32, token.UINT32, token.FLOAT32:
		return wire.Int32Bytes
	case token.INT64, token.UINT64, token.FLOAT64:
		return wire.Int64Bytes
	default:
		return 0
	}
}

func putNaN(buf []byte, k token.Kind) {
	switch k {
	case token.FLOAT32:
		putLE32(buf, math.Float32bits(float32(math.NaN())))
	case token.FLOAT64:
		putLE64(buf, math.Float64bits(math.NaN()))
	}
}

func putLE32(buf []byte, v uint32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
}

func putLE64(buf []byte, v uint64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
}

func (a *Annotator) encodeNumericLiteral(v *ast.Value, buf []byte) {
	text := a.text(v.Literal)
	k := v.Type.Primitive
	if k == token.FLOAT32 || k == token.FLOAT64 {
		f, ok := parseFloat(text)
		if !ok {
			a.rep.Errorf(v.Literal, "invalid float literal %q", text)
			return
		}
		if k == token.FLOAT32 {
			putLE32(buf, math.Float32bits(float32(f)))
		} else {
			putLE64(buf, math.Float64bits(f))
		}
		return
	}

	n, ok := parseInt(text)
	if !ok {
		a.rep.Errorf(v.Literal, "invalid integer literal %q", text)
		return
	}
	// parseInt's uint64 fallback wraps literals above 2^63-1 to negative
	// values; only UInt64 takes those, and UInt64 takes no negative literal.
	neg := text[0] == '-'
	if (k == token.UINT64 && neg) || (k != token.UINT64 && !neg && n < 0) {
		a.rep.Errorf(v.Literal, "literal %s does not fit in %s", text, k)
		return
	}
	if !inRange(k, n) {
		a.rep.Errorf(v.Literal, "literal %d does not fit in %s", n, k)
		return
	}
	u := uint64(n)
	for i := range buf {
		buf[i] = byte(u >> (8 * i))
	}
}

func inRange(k token.Kind, n int64) bool {
	switch k {
	case token.INT8:
		return n >= -128 && n <= 127
	case token.UINT8:
		return n >= 0 && n <= 255
	case token.INT16:
		return n >= -32768 && n <= 32767
	case token.UINT16:
		return n >= 0 && n <= 65535
	case token.INT32:
		return n >= math.MinInt32 && n <= math.MaxInt32
	case token.UINT32:
		return n >= 0 && n <= math.MaxUint32
	case token.INT64:
		return n >= wire.Int64Min && n <= wire.Int64Max
	case token.UINT64:
		return true // full uint64 range fits the int64 bit pattern parseInt returns
	default:
		return false
	}
}

func (a *Annotator) assignEnumSlot(v *ast.Value, e *ast.Enum, offset *int, defaultBuf *[]byte) {
	v.ResolvedEnum = e
	v.Offset = *offset
	v.Bytes = wire.EnumSlotBytes
	*offset += wire.EnumSlotBytes

	ords := a.enumOrdinals[e]
	b := byte(wire.EnumAbsent)
	if v.Literal.Kind != 0 {
		name := a.text(v.Literal)
		if ord, ok := ords[name]; ok {
			b = byte(ord)
		} else {
			a.rep.Errorf(v.Literal, "%q is not a member of enum %q", name, e.DeclName(*a.src))
		}
	}
	*defaultBuf = append(*defaultBuf, b)
}

func (a *Annotator) assignStructSlot(v *ast.Value, s *ast.Struct, isStruct bool, offset *int, defaultBuf *[]byte) {
	if v.Literal.Kind != 0 {
		a.rep.Errorf(v.Literal, "struct members cannot have a default value")
	}
	v.ResolvedStruct = s
	v.Offset = *offset
	v.Bytes = s.Bytes
	*offset += s.Bytes
	*defaultBuf = append(*defaultBuf, make([]byte, s.Bytes)...)
}

func (a *Annotator) assignPointerSlot(v *ast.Value, offset *int, defaultBuf *[]byte) {
	if v.Literal.Kind != 0 {
		a.rep.Errorf(v.Literal, "this member type does not support a default value")
	}
	v.Offset = *offset
	v.Bytes = wire.PointerBytes
	*offset += wire.PointerBytes
	*defaultBuf = append(*defaultBuf, 0, 0, 0, 0)
}

func (a *Annotator) assignUnionSlot(v *ast.Value, offset *int, defaultBuf *[]byte) {
	if v.Literal.Kind != 0 {
		a.rep.Errorf(v.Literal, "union members cannot have a default value")
	}
	v.Offset = *offset
	v.Bytes = wire.UnionSlotBytes
	*offset += wire.UnionSlotBytes
	*defaultBuf = append(*defaultBuf, 0, 0, 0, 0, 0, 0)
}

func (a *Annotator) assignListSlot(v *ast.Value, isStruct bool, offset *int, defaultBuf *[]byte) {
	if v.Optional {
		a.rep.Errorf(v.Tok, "list members are implicitly optional and cannot be declared optional")
	}
	if v.Literal.Kind != 0 {
		a.rep.Errorf(v.Literal, "list members cannot have a default value")
	}
	a.annotateListElement(v)
	a.assignPointerSlot(v, offset, defaultBuf)
}

// annotateListElement resolves and validates a `list`-marked member's
// element type, whether that member is a table field or a union arm
// (spec.md §3/§4.4 both allow list-typed members). It never itself
// assigns a fixed-part slot; callers do that according to their own
// record layout (assignPointerSlot for table/struct fields, the union
// tag+payload slot for union arms).
func (a *Annotator) annotateListElement(v *ast.Value) {
	t := v.Type
	switch {
	case t.Primitive != 0:
		// element is a scalar/Bool/Text/Bytes primitive; nothing further to
		// resolve beyond what parseTypeRef already captured.
	case t.InlineEnum != nil:
		a.annotateEnum(t.InlineEnum)
	case t.InlineStruct != nil:
		sname := t.InlineStruct.DeclName(*a.src)
		n, _ := a.visitContent(sname, t.InlineStruct.Members, kindStruct)
		t.InlineStruct.Bytes = n
		a.declKind[sname] = "struct"
		a.Structs[sname] = t.InlineStruct
	case t.InlineTable != nil:
		a.checkMagic(t.InlineTable, false)
		a.annotateTopTableInline(t.InlineTable)
	case t.InlineUnion != nil:
		a.rep.Errorf(t.Tok, "list of union elements is not supported")
	case t.Ident != "":
		a.resolveIdent(v, t.Ident, t.Tok)
		if v.ResolvedUnion != nil {
			a.rep.Errorf(t.Tok, "list of union elements is not supported")
		}
	}
}

// assignIdentSlot assigns the slot width for a bare identifier type
// reference (Enum/Struct/Table/Union by name), already resolved onto v by
// assignSlot before dispatch.
func (a *Annotator) assignIdentSlot(v *ast.Value, isStruct bool, offset *int, defaultBuf *[]byte) {
	switch {
	case v.ResolvedEnum != nil:
		a.assignEnumSlotResolved(v, offset, defaultBuf)
	case v.ResolvedStruct != nil:
		a.assignStructSlot(v, v.ResolvedStruct, isStruct, offset, defaultBuf)
	case v.ResolvedTable != nil:
		if isStruct {
			a.rep.Errorf(v.Type.Tok, "tables are not allowed in structs")
		}
		a.assignPointerSlot(v, offset, defaultBuf)
	case v.ResolvedUnion != nil:
		if isStruct {
			a.rep.Errorf(v.Type.Tok, "unions are not allowed in structs")
		}
		a.assignUnionSlot(v, offset, defaultBuf)
	default:
		v.Offset = *offset
	}
}

func (a *Annotator) assignEnumSlotResolved(v *ast.Value, offset *int, defaultBuf *[]byte) {
	a.assignEnumSlot(v, v.ResolvedEnum, offset, defaultBuf)
}

// resolveIdent looks name up across all four name tables and sets exactly
// one of v's Resolved* fields, per spec.md §3's "at most one of enum,
// struct, table, union is set". A name that resolves to nothing is an
// "unknown type" error (spec.md §7); forward references fail here too,
// since a.Tables/.Structs/.Enums/.Unions only ever contain declarations
// already visited (spec.md §4.3).
func (a *Annotator) resolveIdent(v *ast.Value, name string, at token.Token) {
	if e, ok := a.Enums[name]; ok {
		v.ResolvedEnum = e
		return
	}
	if s, ok := a.Structs[name]; ok {
		v.ResolvedStruct = s
		return
	}
	if t, ok := a.Tables[name]; ok {
		v.ResolvedTable = t
		return
	}
	if u, ok := a.Unions[name]; ok {
		v.ResolvedUnion = u
		return
	}
	if s := a.suggestName(name); s != "" {
		a.rep.Errorf(at, "unknown type %q (used before declaration, or never declared); did you mean %q?", name, s)
		return
	}
	a.rep.Errorf(at, "unknown type %q (used before declaration, or never declared)", name)
}

// suggestName returns the closest already-declared name to name by
// fuzzy/Levenshtein-style match, or "" if nothing declared so far is
// close enough to be worth suggesting. Grounded in the teacher's
// fuzzy-suggestion UX for mistyped decorator names.
func (a *Annotator) suggestName(name string) string {
	return fuzzySuggest(name, a.declKind)
}

// visitUnionArms assigns 1-based tags to a union's arms and validates that
// each arm is a table/list/text/bytes member per spec.md §3.
func (a *Annotator) visitUnionArms(owner string, members []*ast.Value) {
	seen := map[string]token.Token{}
	accessors := map[string]string{}
	tag := 1
	for _, v := range members {
		name := a.text(v.Name)
		if a.opts.StrictCasing && (!isLowerCamel(name) || hasUnderscore(name)) {
			a.rep.Errorf(v.Name, "union arm name %q must be lowerCamelCase with no underscores", name)
		}
		if isReservedWord(name) {
			a.rep.Errorf(v.Name, "union arm name %q is a reserved keyword", name)
		}
		if prev, dup := seen[name]; dup {
			a.rep.Errorf(v.Name, "duplicate union arm %q", name)
			a.rep.Errorf(prev, "first declared here")
			continue
		}
		seen[name] = v.Name

		up := upperFirst(name)
		if owner, dup := accessors["is"+up]; dup && owner != name {
			a.rep.Errorf(v.Name, "accessor name %q collides with arm %q", "is"+up, owner)
		}
		accessors["is"+up] = name

		if v.Optional {
			a.rep.Errorf(v.Name, "union arms cannot be individually optional")
		}
		if v.Literal.Kind != 0 {
			a.rep.Errorf(v.Literal, "union arms cannot have a default value")
		}

		t := v.Type
		switch {
		case v.List:
			a.annotateListElement(v)
		case t.Primitive == token.TEXT || t.Primitive == token.BYTES:
			// ok
		case t.InlineTable != nil:
			a.checkMagic(t.InlineTable, v.Inplace)
			a.annotateTopTableInline(t.InlineTable)
		case t.Ident != "":
			a.resolveIdent(v, t.Ident, t.Tok)
			if v.ResolvedTable == nil {
				a.rep.Errorf(t.Tok, "union arm %q must be a table, Text, or Bytes type", name)
			}
		default:
			a.rep.Errorf(t.Tok, "union arm %q must be a table, list, Text, or Bytes type", name)
		}
		v.Tag = tag
		tag++
	}
}

// annotateTopTableInline annotates an inline table's own fixed-part
// content and registers it under its synthetic name, exactly like a
// top-level table, so it can itself be referenced (e.g. in error
// messages, and by the IR facade) with a stable name.
func (a *Annotator) annotateTopTableInline(t *ast.Table) {
	name := t.DeclName(*a.src)
	a.declKind[name] = "table"
	n, def := a.visitContent(name, t.Members, kindTable)
	_ = n
	t.Default = def
	a.Tables[name] = t
}
