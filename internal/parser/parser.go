// Package parser implements the single-pass, recursive-descent parser
// described in spec.md §4.2: it consumes the lexer's token stream and
// builds an ast.Document of top-level declarations, hoisting anonymous
// inline enum/struct/table/union declarations into synthetically named
// top-level-shaped nodes as it goes.
//
// The overall shape — a Parser holding the lexer, one token of lookahead,
// and a *diag.Reporter it pushes positioned errors into, with expect/
// accept helpers driving a hand-written grammar — follows the teacher's
// runtime/parser.Parser (see tree.go/parser.go: lookahead-driven descent,
// errors.go: BracketTracker-style "expected one of" messages).
package parser

import (
	"strings"

	"github.com/aledsdavies/flatwire/internal/ast"
	"github.com/aledsdavies/flatwire/internal/diag"
	"github.com/aledsdavies/flatwire/internal/lexer"
	"github.com/aledsdavies/flatwire/internal/token"
)

// Parser holds one token of lookahead over a lexer.Lexer.
type Parser struct {
	src  []byte
	lex  *lexer.Lexer
	rep  *diag.Reporter
	tok  token.Token
	doc  ast.Doc
	anon map[string]int // disambiguates repeated synthetic hoisted names
	out  *ast.Document  // receives hoisted inline declarations (not added to Order)
}

// Parse tokenizes and parses src, reporting errors into rep. It returns
// the best-effort Document it could build; callers must check rep.OK()
// before using the result for annotation (spec.md §7: non-zero error
// count aborts before any output is produced, but accumulating the
// Document here lets validate still report every declaration's errors
// in one run).
func Parse(src []byte, rep *diag.Reporter) *ast.Document {
	p := &Parser{
		src:  src,
		lex:  lexer.New(string(src), nil),
		rep:  rep,
		anon: map[string]int{},
	}
	p.advance()
	return p.parseDocument()
}

func (p *Parser) advance() {
	for {
		t := p.lex.NextDoc()
		if t.Kind == token.DOC_COMMENT {
			p.doc = append(p.doc, cleanDocLine(t.Text(p.src)))
			continue
		}
		p.tok = t
		return
	}
}

// takeDoc returns and clears the doc-comment lines accumulated since the
// last declaration, for attachment to the declaration now being parsed.
func (p *Parser) takeDoc() ast.Doc {
	d := p.doc
	p.doc = nil
	return d
}

func cleanDocLine(s string) string {
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimSuffix(s, "*/")
	s = strings.TrimPrefix(s, "///")
	s = strings.TrimPrefix(s, "##")
	return strings.TrimSpace(s)
}

func (p *Parser) at(k token.Kind) bool { return p.tok.Kind == k }

// expect verifies the current token's kind, reports a positioned "unexpected
// token" diagnostic naming the accepted kinds if it doesn't match, and
// always advances past it (error recovery resumes at the next token).
func (p *Parser) expect(kinds ...token.Kind) token.Token {
	t := p.tok
	for _, k := range kinds {
		if t.Kind == k {
			p.advance()
			return t
		}
	}
	p.rep.Errorf(t, "unexpected %s; expected one of %s", describe(t.Kind), joinKinds(kinds))
	p.advance()
	return t
}

func describe(k token.Kind) string {
	if k == token.EOF {
		return "end of file"
	}
	return k.String()
}

func joinKinds(kinds []token.Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.tok.Kind == k {
		t := p.tok
		p.advance()
		return t, true
	}
	return token.Token{}, false
}

func (p *Parser) parseDocument() *ast.Document {
	doc := &ast.Document{}
	p.out = doc
	for !p.at(token.EOF) {
		switch p.tok.Kind {
		case token.NAMESPACE:
			ns := p.parseNamespace()
			if doc.Namespace == nil {
				doc.Namespace = ns
			} else {
				p.rep.Errorf(ns.Tok, "duplicate namespace declaration")
			}
		case token.ENUM:
			p.parseTopDecl(doc, p.parseEnum)
		case token.STRUCT:
			p.parseTopDecl(doc, p.parseStruct)
		case token.TABLE:
			p.parseTopDecl(doc, p.parseTable)
		case token.UNION:
			p.parseTopDecl(doc, p.parseUnion)
		default:
			p.rep.Errorf(p.tok, "unexpected %s at top level; expected namespace, enum, struct, table, or union", describe(p.tok.Kind))
			p.syncToDeclBoundary()
		}
	}
	return doc
}

// parseTopDecl runs a single top-level parse function. Every expect()
// call already advances past an unexpected token and records a
// diagnostic rather than aborting, so a single declaration always
// completes; syncToDeclBoundary is only needed to recover from tokens
// that don't even start a recognizable declaration (see parseDocument's
// default case).
func (p *Parser) parseTopDecl(doc *ast.Document, fn func() any) {
	switch v := fn().(type) {
	case *ast.Enum:
		doc.Enums = append(doc.Enums, v)
		doc.Order = append(doc.Order, ast.DeclRef{Kind: ast.KindEnum, Index: len(doc.Enums) - 1})
	case *ast.Struct:
		doc.Structs = append(doc.Structs, v)
		doc.Order = append(doc.Order, ast.DeclRef{Kind: ast.KindStruct, Index: len(doc.Structs) - 1})
	case *ast.Table:
		doc.Tables = append(doc.Tables, v)
		doc.Order = append(doc.Order, ast.DeclRef{Kind: ast.KindTable, Index: len(doc.Tables) - 1})
	case *ast.Union:
		doc.Unions = append(doc.Unions, v)
		doc.Order = append(doc.Order, ast.DeclRef{Kind: ast.KindUnion, Index: len(doc.Unions) - 1})
	}
}

func (p *Parser) syncToDeclBoundary() {
	for !p.at(token.EOF) {
		switch p.tok.Kind {
		case token.NAMESPACE, token.ENUM, token.STRUCT, token.TABLE, token.UNION:
			return
		}
		p.advance()
	}
}

func (p *Parser) parseNamespace() *ast.Namespace {
	tok := p.tok
	p.expect(token.NAMESPACE)
	var parts []string
	id := p.expect(token.IDENTIFIER)
	parts = append(parts, id.Text(p.src))
	for {
		if _, ok := p.accept(token.COLONCOLON); !ok {
			break
		}
		id := p.expect(token.IDENTIFIER)
		parts = append(parts, id.Text(p.src))
	}
	p.expect(token.SEMICOLON)
	return &ast.Namespace{Tok: tok, Name: strings.Join(parts, ".")}
}

func (p *Parser) parseEnum() any {
	doc := p.takeDoc()
	tok := p.tok
	p.expect(token.ENUM)
	name := p.expect(token.IDENTIFIER)
	p.expect(token.LBRACE)
	var values []token.Token
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		values = append(values, p.expect(token.IDENTIFIER))
		if _, ok := p.accept(token.COMMA); !ok {
			p.accept(token.SEMICOLON)
		}
	}
	p.expect(token.RBRACE)
	return &ast.Enum{Tok: tok, Name: name, Values: values, Doc: doc}
}

func (p *Parser) parseStruct() any {
	doc := p.takeDoc()
	tok := p.tok
	p.expect(token.STRUCT)
	name := p.expect(token.IDENTIFIER)
	members := p.parseContent(name.Text(p.src))
	return &ast.Struct{Tok: tok, Name: name, Members: members, Doc: doc}
}

func (p *Parser) parseTable() any {
	doc := p.takeDoc()
	tok := p.tok
	p.expect(token.TABLE)
	name := p.expect(token.IDENTIFIER)
	var magic token.Token
	if p.at(token.MAGIC) {
		magic, _ = p.accept(token.MAGIC)
	}
	members := p.parseContent(name.Text(p.src))
	return &ast.Table{Tok: tok, Name: name, Magic: magic, Members: members, Doc: doc}
}

func (p *Parser) parseUnion() any {
	doc := p.takeDoc()
	tok := p.tok
	p.expect(token.UNION)
	name := p.expect(token.IDENTIFIER)
	members := p.parseContent(name.Text(p.src))
	return &ast.Union{Tok: tok, Name: name, Members: members, Doc: doc}
}

// parseContent parses '{' [ member { sep member } ] '}'. owner is the
// enclosing declaration's name, used as the prefix for synthetic names
// given to inline-hoisted anonymous declarations.
func (p *Parser) parseContent(owner string) []*ast.Value {
	p.expect(token.LBRACE)
	var members []*ast.Value
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		members = append(members, p.parseMember(owner))
		if _, ok := p.accept(token.COMMA); !ok {
			p.accept(token.SEMICOLON)
		}
	}
	p.expect(token.RBRACE)
	return members
}

func (p *Parser) parseMember(owner string) *ast.Value {
	doc := p.takeDoc()
	name := p.expect(token.IDENTIFIER)
	p.expect(token.COLON)

	v := &ast.Value{Name: name, Doc: doc}
	v.Tok = name

	switch p.tok.Kind {
	case token.OPTIONAL:
		p.advance()
		v.Optional = true
	case token.LIST:
		p.advance()
		v.List = true
	case token.INPLACE:
		p.advance()
		v.Inplace = true
	}

	// An inplace member's payload can itself be a list (spec.md §8 scenario
	// 5: `xs: inplace List UInt32`); List then appears in the type slot
	// rather than the modifier slot, so check for it again here.
	if !v.List && p.at(token.LIST) {
		p.advance()
		v.List = true
	}

	v.Type = p.parseTypeRef(owner, upperCamel(name.Text(p.src)))

	if _, ok := p.accept(token.EQUALS); ok {
		v.Literal = p.parseLiteral()
	}
	return v
}

func (p *Parser) parseLiteral() token.Token {
	switch p.tok.Kind {
	case token.NUMBER, token.TRUE, token.FALSE, token.IDENTIFIER:
		t := p.tok
		p.advance()
		return t
	default:
		p.rep.Errorf(p.tok, "unexpected %s; expected a literal default value", describe(p.tok.Kind))
		t := p.tok
		p.advance()
		return t
	}
}

// parseTypeRef parses `type := primitive | Ident | inline-struct |
// inline-table | inline-enum | inline-union`, hoisting inline
// declarations as ParentUpperCamel(member)-named synthetic nodes.
func (p *Parser) parseTypeRef(owner, member string) ast.TypeRef {
	tok := p.tok
	switch {
	case p.tok.Kind.IsPrimitive():
		p.advance()
		return ast.TypeRef{Tok: tok, Primitive: tok.Kind}
	case p.at(token.IDENTIFIER):
		p.advance()
		return ast.TypeRef{Tok: tok, Ident: tok.Text(p.src)}
	case p.at(token.ENUM):
		name := p.syntheticName(owner, member)
		e := p.parseInlineEnum(name)
		p.out.Enums = append(p.out.Enums, e)
		return ast.TypeRef{Tok: tok, InlineEnum: e}
	case p.at(token.STRUCT):
		name := p.syntheticName(owner, member)
		p.advance()
		members := p.parseContent(name)
		s := &ast.Struct{Tok: tok, Members: members, Synthetic: true}
		s.SetSynthName(name)
		p.out.Structs = append(p.out.Structs, s)
		return ast.TypeRef{Tok: tok, InlineStruct: s}
	case p.at(token.TABLE):
		name := p.syntheticName(owner, member)
		p.advance()
		var magic token.Token
		if p.at(token.MAGIC) {
			magic, _ = p.accept(token.MAGIC)
		}
		members := p.parseContent(name)
		t := &ast.Table{Tok: tok, Magic: magic, Members: members, Synthetic: true}
		t.SetSynthName(name)
		p.out.Tables = append(p.out.Tables, t)
		return ast.TypeRef{Tok: tok, InlineTable: t}
	case p.at(token.UNION):
		name := p.syntheticName(owner, member)
		p.advance()
		members := p.parseContent(name)
		u := &ast.Union{Tok: tok, Members: members, Synthetic: true}
		u.SetSynthName(name)
		p.out.Unions = append(p.out.Unions, u)
		return ast.TypeRef{Tok: tok, InlineUnion: u}
	default:
		p.rep.Errorf(tok, "unexpected %s; expected a type", describe(tok.Kind))
		p.advance()
		return ast.TypeRef{Tok: tok}
	}
}

func (p *Parser) parseInlineEnum(name string) *ast.Enum {
	tok := p.tok
	p.expect(token.ENUM)
	p.expect(token.LBRACE)
	var values []token.Token
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		values = append(values, p.expect(token.IDENTIFIER))
		if _, ok := p.accept(token.COMMA); !ok {
			p.accept(token.SEMICOLON)
		}
	}
	p.expect(token.RBRACE)
	e := &ast.Enum{Tok: tok, Values: values, Synthetic: true}
	e.SetSynthName(name)
	return e
}

// syntheticName builds ParentUpperCamel(member) and disambiguates repeats
// (e.g. owner "A" with member "bC" and owner "AB" with member "c" both
// yield "ABC") with a numeric suffix, since the schema itself guarantees
// member-name uniqueness within a record but says nothing about
// cross-record synthetic collisions.
func (p *Parser) syntheticName(owner, member string) string {
	base := owner + member
	p.anon[base]++
	if n := p.anon[base]; n > 1 {
		return base + itoa(n)
	}
	return base
}

func upperCamel(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
