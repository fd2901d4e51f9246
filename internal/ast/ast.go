// Package ast defines the tagged-variant tree the parser builds and the
// annotator reads. Nodes are created once by the parser and never mutated
// after annotation completes (see internal/sema); the annotator instead
// writes its output onto the same Value nodes via exported fields that the
// parser leaves zero, which keeps the AST a single arena-style tree rather
// than requiring a second owning structure, while still respecting the
// "annotator is sole writer of resolved state" rule because the parser
// never touches those fields.
package ast

import "github.com/aledsdavies/flatwire/internal/token"

// Kind tags the variant a Decl or member represents.
type Kind int

const (
	KindNamespace Kind = iota
	KindEnum
	KindStruct
	KindTable
	KindUnion
	KindValue
)

// Doc is a declaration's attached doc comment, one entry per DOC_COMMENT
// token with its comment markers and surrounding whitespace stripped by
// the parser (a multi-line /** */ block is a single entry). The IR facade
// copies the entries unchanged.
type Doc []string

// Namespace is a top-level `namespace a::b::c;` declaration.
type Namespace struct {
	Tok  token.Token
	Name string // dotted, e.g. "a.b.c"
}

// Enum is a top-level or inline `enum` declaration.
type Enum struct {
	Tok    token.Token
	Name   token.Token
	Values []token.Token
	Doc    Doc

	// Synthetic is set for an inline-hoisted enum, carrying the synthesized
	// name ParentUpperCamel(member) rather than a user-written identifier.
	Synthetic bool
	synth     string
}

// SetSynthName records a synthesized name for an inline-hoisted declaration.
func (e *Enum) SetSynthName(n string) { e.synth = n }

// DeclName returns the declaration's effective name: the synthesized
// name for an inline-hoisted declaration, or the source identifier's text
// otherwise.
func (e *Enum) DeclName(src []byte) string {
	if e.Synthetic {
		return e.synth
	}
	return e.Name.Text(src)
}

// Struct is a top-level or inline `struct` declaration.
type Struct struct {
	Tok     token.Token
	Name    token.Token
	Members []*Value
	Doc     Doc

	Synthetic bool
	synth     string
	Bytes     int // computed by internal/sema: total fixed size
}

func (s *Struct) SetSynthName(n string) { s.synth = n }

func (s *Struct) DeclName(src []byte) string {
	if s.Synthetic {
		return s.synth
	}
	return s.Name.Text(src)
}

// Table is a top-level or inline `table` declaration. Magic is the zero
// Token when the schema omitted it (only legal for an inline table nested
// inside an inplace chain, per spec.md §4.3 "Magic assignment").
type Table struct {
	Tok     token.Token
	Name    token.Token
	Magic   token.Token // kind token.MAGIC, or zero Token if absent
	Members []*Value
	Doc     Doc

	Synthetic bool
	synth     string
	Default   []byte // computed by internal/sema
}

func (t *Table) SetSynthName(n string) { t.synth = n }

func (t *Table) DeclName(src []byte) string {
	if t.Synthetic {
		return t.synth
	}
	return t.Name.Text(src)
}

// Union is a top-level or inline `union` declaration. Members are table,
// text, bytes, or list typed Values; never primitives, enums or structs.
type Union struct {
	Tok     token.Token
	Name    token.Token
	Members []*Value
	Doc     Doc

	Synthetic bool
	synth     string
}

func (u *Union) SetSynthName(n string) { u.synth = n }

func (u *Union) DeclName(src []byte) string {
	if u.Synthetic {
		return u.synth
	}
	return u.Name.Text(src)
}

// TypeRef is the type written after a member's ':'. Exactly one of
// Primitive (a token.Kind for which Kind.IsPrimitive() is true), Ident
// (a reference by name, resolved later by the annotator), or one of the
// inline declarations is set.
type TypeRef struct {
	Tok       token.Token
	Primitive token.Kind // zero value EOF when not a primitive reference

	Ident string // non-empty for a user-type reference by name

	InlineEnum   *Enum
	InlineStruct *Struct
	InlineTable  *Table
	InlineUnion  *Union
}

// IsInline reports whether the type reference is an anonymous declaration
// hoisted at parse time rather than a name or primitive keyword.
func (t *TypeRef) IsInline() bool {
	return t.InlineEnum != nil || t.InlineStruct != nil || t.InlineTable != nil || t.InlineUnion != nil
}

// Value is a single record member: `identifier ':' [modifier] type ['=' literal]`.
//
// Parser-populated fields are set once by internal/parser and read-only
// thereafter. Annotator-populated fields (the block below) start at their
// zero value out of the parser and are written exactly once by
// internal/sema; nothing else in the tree ever assigns them.
type Value struct {
	Tok     token.Token
	Name    token.Token
	Type    TypeRef
	Literal token.Token // zero Token when no '=' default was written
	Doc     Doc

	Optional bool
	List     bool
	Inplace  bool

	// --- annotator output (internal/sema), see internal/ast doc comment ---

	ResolvedEnum   *Enum
	ResolvedStruct *Struct
	ResolvedTable  *Table
	ResolvedUnion  *Union

	Offset int
	Bytes  int
	Bit    int // valid only for a bit-packed bool (Bytes == 0)

	HasOffset int
	HasBit    int
	HasSlot   bool // true if this member was allocated a presence bit

	Default []byte // this member's slice of the record's default image

	// Tag is the 1-based arm ordinal assigned to a union member; 0 for a
	// table/struct member (union tag 0 is reserved for NONE/absent).
	Tag int
}

// Document is the parsed, unannotated top-level tree: the result of
// internal/parser.Parse before internal/sema.Annotate runs.
type Document struct {
	Namespace *Namespace // nil if no namespace declaration was present
	Enums     []*Enum
	Structs   []*Struct
	Tables    []*Table
	Unions    []*Union

	// Order records top-level declarations in source order, as
	// (Kind, index into the slice above) pairs, so the annotator can walk
	// them in declaration order without re-sorting by token offset.
	Order []DeclRef
}

// DeclRef points at one top-level declaration by kind and slice index.
type DeclRef struct {
	Kind  Kind
	Index int
}
