// Package ir builds the IR facade (spec.md §4.5, component C5): a
// read-only view of the annotated schema handed to code emitters. It is
// deliberately a second, fully-initialized structure built once from
// internal/sema's output rather than the annotated AST itself — spec.md
// §9's design note "model the annotator output as a second, fully
// initialized data structure ... rather than mutating the AST in place"
// — so an emitter walking the IR never sees a partially annotated node
// and never needs internal/ast or internal/sema in its import graph.
// Cross-references are plain integer indices into Declarations rather
// than owning pointers, per the same section's "resolved cross-references
// become index-into-declaration-table handles, not owning pointers".
package ir

import (
	"fmt"

	"golang.org/x/mod/semver"

	"github.com/aledsdavies/flatwire/internal/ast"
	"github.com/aledsdavies/flatwire/internal/sema"
	"github.com/aledsdavies/flatwire/internal/token"
)

// DeclKind tags a Declarations entry.
type DeclKind int

const (
	DeclEnum DeclKind = iota
	DeclStruct
	DeclTable
	DeclUnion
)

// TypeKind tags a Member's effective wire type.
type TypeKind int

const (
	TypePrimitive TypeKind = iota
	TypeDecl               // references Declarations[DeclIndex]: enum, struct, table, or union
)

// Member is one field of a struct/table, or one arm of a union. Every
// layout field the annotator computed (Offset/Bytes/Bit/HasOffset/HasBit/
// HasSlot/Default/Tag) is copied here verbatim; a Member never points
// back into internal/ast.
type Member struct {
	Name string
	Doc  []string

	TypeKind  TypeKind
	Primitive token.Kind // valid when TypeKind == TypePrimitive
	DeclIndex int        // valid when TypeKind == TypeDecl; index into Declarations

	Optional bool
	List     bool
	Inplace  bool

	Offset int
	Bytes  int
	Bit    int

	HasOffset int
	HasBit    int
	HasSlot   bool

	Default []byte

	// Tag is the 1-based arm ordinal for a union member; 0 otherwise.
	Tag int
}

// Decl is one top-level (or hoisted-inline) declaration.
type Decl struct {
	Kind DeclKind
	Name string
	Doc  []string

	// EnumValues holds ordinal-ordered value names; valid when Kind == DeclEnum.
	EnumValues []string

	// Bytes is the fixed-part width; valid for DeclStruct and DeclTable.
	Bytes int

	// Magic is the table's 32-bit wire magic; valid for DeclTable.
	Magic uint32

	// Default is the table's default byte image; valid for DeclTable.
	Default []byte

	// Members holds a struct/table's fields, or a union's arms.
	Members []Member
}

// IR is the complete, read-only view handed to an emitter.
type IR struct {
	// SchemaVersion is a semver-shaped stamp emitters can compare against
	// their own minimum-supported version. It is not derived from the
	// schema text (this compiler has no version-pragma syntax); it is the
	// fixed IR format version this package produces.
	SchemaVersion string

	Namespace string // dotted; empty if the schema had no namespace decl

	Declarations []Decl
	byName       map[string]int
}

// FormatVersion is the IR facade's own format version, checked with
// golang.org/x/mod/semver so an emitter can refuse to run against an IR
// shape it predates.
const FormatVersion = "v1.0.0"

func init() {
	if !semver.IsValid(FormatVersion) {
		panic("ir: FormatVersion is not a valid semver string")
	}
}

// Lookup returns the declaration index for name, or -1 if name is not a
// declared enum/struct/table/union.
func (m *IR) Lookup(name string) int {
	if m.byName == nil {
		m.reindex()
	}
	if i, ok := m.byName[name]; ok {
		return i
	}
	return -1
}

// reindex rebuilds byName from Declarations; used after an IR is
// reconstructed from internal/ircache, which round-trips only the
// exported fields.
func (m *IR) reindex() {
	m.byName = make(map[string]int, len(m.Declarations))
	for i, d := range m.Declarations {
		m.byName[d.Name] = i
	}
}

// Build walks the parsed AST and annotator output and produces an IR. Call
// only after sema.Annotate has returned with rep.OK() true; Build does not
// itself validate — it assumes a.rep recorded every problem already.
func Build(doc *ast.Document, a *sema.Annotator, src []byte) *IR {
	m := &IR{
		SchemaVersion: FormatVersion,
		byName:        map[string]int{},
	}
	if doc.Namespace != nil {
		m.Namespace = doc.Namespace.Name
	}

	b := &builder{m: m, a: a, src: src}
	for _, ref := range doc.Order {
		switch ref.Kind {
		case ast.KindEnum:
			b.declEnum(doc.Enums[ref.Index])
		case ast.KindStruct:
			b.declStruct(doc.Structs[ref.Index])
		case ast.KindTable:
			b.declTable(doc.Tables[ref.Index])
		case ast.KindUnion:
			b.declUnion(doc.Unions[ref.Index])
		}
	}
	return m
}

type builder struct {
	m   *IR
	a   *sema.Annotator
	src []byte
}

func (b *builder) reserve(name string) int {
	if i, ok := b.m.byName[name]; ok {
		return i
	}
	i := len(b.m.Declarations)
	b.m.Declarations = append(b.m.Declarations, Decl{})
	b.m.byName[name] = i
	return i
}

func (b *builder) declEnum(e *ast.Enum) int {
	name := e.DeclName(b.src)
	i := b.reserve(name)
	values := make([]string, len(e.Values))
	for j, vt := range e.Values {
		values[j] = vt.Text(b.src)
	}
	b.m.Declarations[i] = Decl{
		Kind:       DeclEnum,
		Name:       name,
		Doc:        []string(e.Doc),
		EnumValues: values,
	}
	return i
}

func (b *builder) declStruct(s *ast.Struct) int {
	name := s.DeclName(b.src)
	i := b.reserve(name)
	members := b.members(s.Members)
	b.m.Declarations[i] = Decl{
		Kind:    DeclStruct,
		Name:    name,
		Doc:     []string(s.Doc),
		Bytes:   s.Bytes,
		Members: members,
	}
	return i
}

func (b *builder) declTable(t *ast.Table) int {
	name := t.DeclName(b.src)
	i := b.reserve(name)
	members := b.members(t.Members)
	b.m.Declarations[i] = Decl{
		Kind:    DeclTable,
		Name:    name,
		Doc:     []string(t.Doc),
		Bytes:   b.tableBytes(t),
		Magic:   b.magicOf(t),
		Default: t.Default,
		Members: members,
	}
	return i
}

func (b *builder) declUnion(u *ast.Union) int {
	name := u.DeclName(b.src)
	i := b.reserve(name)
	members := b.members(u.Members)
	b.m.Declarations[i] = Decl{
		Kind:    DeclUnion,
		Name:    name,
		Doc:     []string(u.Doc),
		Members: members,
	}
	return i
}

func (b *builder) tableBytes(t *ast.Table) int { return len(t.Default) }

func (b *builder) magicOf(t *ast.Table) uint32 {
	if t.Magic.Kind == 0 {
		return 0
	}
	hex := t.Magic.Text(b.src)[1:]
	var v uint32
	for i := 0; i < len(hex) && i < 8; i++ {
		c := hex[i]
		var d uint32
		switch {
		case c >= '0' && c <= '9':
			d = uint32(c - '0')
		case c >= 'A' && c <= 'F':
			d = uint32(c-'A') + 10
		}
		v = v<<4 | d
	}
	return v
}

func (b *builder) members(vs []*ast.Value) []Member {
	out := make([]Member, 0, len(vs))
	for _, v := range vs {
		out = append(out, b.member(v))
	}
	return out
}

// member flattens one ast.Value's parser- and annotator-populated fields
// into a self-contained Member, resolving its declared reference (if any)
// to a Declarations index by recursively building that declaration the
// first time it's seen — this is what lets an inline-hoisted member type
// end up in Declarations even though nothing in doc.Order names it.
func (b *builder) member(v *ast.Value) Member {
	mem := Member{
		Name:      v.Name.Text(b.src),
		Doc:       []string(v.Doc),
		Optional:  v.Optional,
		List:      v.List,
		Inplace:   v.Inplace,
		Offset:    v.Offset,
		Bytes:     v.Bytes,
		Bit:       v.Bit,
		HasOffset: v.HasOffset,
		HasBit:    v.HasBit,
		HasSlot:   v.HasSlot,
		Default:   v.Default,
		Tag:       v.Tag,
	}

	switch {
	case v.Type.Primitive != 0 && v.Type.Ident == "" && !v.Type.IsInline():
		mem.TypeKind = TypePrimitive
		mem.Primitive = v.Type.Primitive
	case v.ResolvedEnum != nil:
		mem.TypeKind, mem.DeclIndex = TypeDecl, b.declEnum(v.ResolvedEnum)
	case v.ResolvedStruct != nil:
		mem.TypeKind, mem.DeclIndex = TypeDecl, b.declStruct(v.ResolvedStruct)
	case v.ResolvedTable != nil:
		mem.TypeKind, mem.DeclIndex = TypeDecl, b.declTable(v.ResolvedTable)
	case v.ResolvedUnion != nil:
		mem.TypeKind, mem.DeclIndex = TypeDecl, b.declUnion(v.ResolvedUnion)
	case v.Type.InlineEnum != nil:
		mem.TypeKind, mem.DeclIndex = TypeDecl, b.declEnum(v.Type.InlineEnum)
	case v.Type.InlineStruct != nil:
		mem.TypeKind, mem.DeclIndex = TypeDecl, b.declStruct(v.Type.InlineStruct)
	case v.Type.InlineTable != nil:
		mem.TypeKind, mem.DeclIndex = TypeDecl, b.declTable(v.Type.InlineTable)
	case v.Type.InlineUnion != nil:
		mem.TypeKind, mem.DeclIndex = TypeDecl, b.declUnion(v.Type.InlineUnion)
	default:
		mem.TypeKind = TypePrimitive
		mem.Primitive = v.Type.Primitive
	}
	return mem
}

// Dump renders a one-line-per-declaration summary, used by the `ir` debug
// CLI subcommand (SPEC_FULL.md §6.1) and in tests, which check substrings
// of it rather than the full struct graph.
func (m *IR) Dump() string {
	s := ""
	for _, d := range m.Declarations {
		s += fmt.Sprintf("%s %s bytes=%d magic=%08X members=%d\n",
			declKindName(d.Kind), d.Name, d.Bytes, d.Magic, len(d.Members))
	}
	return s
}

func declKindName(k DeclKind) string {
	switch k {
	case DeclEnum:
		return "enum"
	case DeclStruct:
		return "struct"
	case DeclTable:
		return "table"
	case DeclUnion:
		return "union"
	default:
		return "?"
	}
}
