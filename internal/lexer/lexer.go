// Package lexer scans schema text into a stream of token.Token values.
//
// The scanning strategy — precomputed ASCII classification tables built
// once in init(), a single forward-scanning cursor over the full input
// held as a string, and lazy token production via Next() rather than an
// up-front slice — follows the teacher's runtime/lexer.Lexer design
// (itself adapted to a single flat mode: this schema language has no
// shell/string-interpolation sub-modes, so the three-mode state machine
// collapses to one).
package lexer

import (
	"log/slog"

	"github.com/aledsdavies/flatwire/internal/token"
)

var (
	isSpace      [128]bool
	isIdentStart [128]bool
	isIdentPart  [128]bool
	isHexUpper   [128]bool
	isDigit      [128]bool
	singleChar   = map[byte]token.Kind{
		':': token.COLON,
		';': token.SEMICOLON,
		',': token.COMMA,
		'=': token.EQUALS,
		'{': token.LBRACE,
		'}': token.RBRACE,
	}
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isSpace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == '\v'
		isIdentStart[i] = ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentPart[i] = isIdentStart[i] || isDigit[i]
		isHexUpper[i] = isDigit[i] || ('A' <= ch && ch <= 'F')
	}
}

// Lexer scans a single schema source buffer. It is not safe for concurrent
// use; the compiler pipeline is single-threaded (see package diag/ pipeline
// docs), and a Lexer has no need to be otherwise.
type Lexer struct {
	src    string
	pos    int
	log    *slog.Logger
	badRun int // BAD tokens emitted so far; only the first one is debug-logged
}

// New returns a Lexer over src. log may be nil, in which case a discard
// logger is used (as the teacher's packages do when no *slog.Logger is
// supplied to a constructor).
func New(src string, log *slog.Logger) *Lexer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Lexer{src: src, log: log}
}

func (l *Lexer) byteAt(off int) byte {
	if off < 0 || off >= len(l.src) {
		return 0
	}
	return l.src[off]
}

// Next returns the next token in the stream. Once it returns a token of
// kind token.EOF, every subsequent call returns the same EOF token.
func (l *Lexer) Next() token.Token {
	l.skipTrivia()
	start := l.pos
	if l.pos >= len(l.src) {
		return token.Token{Kind: token.EOF, Offset: len(l.src)}
	}
	ch := l.src[l.pos]

	switch {
	case ch == ':' && l.byteAt(l.pos+1) == ':':
		l.pos += 2
		return token.Token{Kind: token.COLONCOLON, Offset: start, Length: 2}
	case ch < 128 && singleChar[ch] != 0:
		l.pos++
		return token.Token{Kind: singleChar[ch], Offset: start, Length: 1}
	case ch < 128 && isIdentStart[ch]:
		return l.scanIdentifier(start)
	case ch == '@':
		return l.scanMagic(start)
	case ch == '-' || (ch < 128 && isDigit[ch]):
		return l.scanNumber(start)
	default:
		l.pos++
		l.badRun++
		if l.badRun == 1 {
			l.log.Debug("bad character", "offset", start, "char", string(ch))
		}
		return token.Token{Kind: token.BAD, Offset: start, Length: 1}
	}
}

// skipTrivia advances past whitespace, line comments (# and //), and
// nested block comments (/* ... */). It stops at a doc comment (##, ///,
// /**): doc comments are not trivia to the parser, and NextDoc tokenizes
// them as DOC_COMMENT so they can be attached to the following
// declaration.
func (l *Lexer) skipTrivia() {
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		switch {
		case isSpace[ch&127] && ch < 128:
			l.pos++
		case ch == '#' && !l.atDocHash():
			l.skipLineComment()
		case ch == '/' && l.byteAt(l.pos+1) == '/' && !l.atDocSlash():
			l.skipLineComment()
		case ch == '/' && l.byteAt(l.pos+1) == '*' && !l.atDocBlock():
			l.skipBlockComment()
		default:
			return
		}
	}
}

func (l *Lexer) atDocHash() bool  { return l.byteAt(l.pos+1) == '#' }
func (l *Lexer) atDocSlash() bool { return l.byteAt(l.pos+1) == '/' && l.byteAt(l.pos+2) == '/' }
func (l *Lexer) atDocBlock() bool { return l.byteAt(l.pos+1) == '*' && l.byteAt(l.pos+2) == '*' }

func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
}

func (l *Lexer) skipBlockComment() {
	l.pos += 2
	depth := 1
	for l.pos < len(l.src) && depth > 0 {
		if l.byteAt(l.pos) == '/' && l.byteAt(l.pos+1) == '*' {
			depth++
			l.pos += 2
		} else if l.byteAt(l.pos) == '*' && l.byteAt(l.pos+1) == '/' {
			depth--
			l.pos += 2
		} else {
			l.pos++
		}
	}
}

// NextDoc is like Next but does not skip doc comments: it returns the next
// DOC_COMMENT token if one immediately precedes the next real token (after
// only whitespace and ordinary comments), or the next real token otherwise.
// The parser calls this between declarations so it can attach the doc
// comment to the declaration that follows it.
func (l *Lexer) NextDoc() token.Token {
	for {
		l.skipOnlyNonDocTrivia()
		if l.pos >= len(l.src) {
			return token.Token{Kind: token.EOF, Offset: len(l.src)}
		}
		start := l.pos
		switch {
		case l.byteAt(l.pos) == '#' && l.atDocHash():
			l.skipLineComment()
			return token.Token{Kind: token.DOC_COMMENT, Offset: start, Length: l.pos - start}
		case l.byteAt(l.pos) == '/' && l.atDocSlash():
			l.skipLineComment()
			return token.Token{Kind: token.DOC_COMMENT, Offset: start, Length: l.pos - start}
		case l.byteAt(l.pos) == '/' && l.atDocBlock():
			l.skipBlockComment()
			return token.Token{Kind: token.DOC_COMMENT, Offset: start, Length: l.pos - start}
		default:
			return l.Next()
		}
	}
}

func (l *Lexer) skipOnlyNonDocTrivia() {
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		switch {
		case ch < 128 && isSpace[ch]:
			l.pos++
		case ch == '#' && !l.atDocHash():
			l.skipLineComment()
		case ch == '/' && l.byteAt(l.pos+1) == '/' && !l.atDocSlash():
			l.skipLineComment()
		case ch == '/' && l.byteAt(l.pos+1) == '*' && !l.atDocBlock():
			l.skipBlockComment()
		default:
			return
		}
	}
}

func (l *Lexer) scanIdentifier(start int) token.Token {
	l.pos++
	for l.pos < len(l.src) && l.byteAt(l.pos) < 128 && isIdentPart[l.src[l.pos]] {
		l.pos++
	}
	text := l.src[start:l.pos]
	kind := token.IDENTIFIER
	if k, ok := token.Keywords[text]; ok {
		kind = k
	}
	return token.Token{Kind: kind, Offset: start, Length: l.pos - start}
}

// scanMagic consumes '@' followed by exactly 8 uppercase-hex digits. If
// fewer than 8 valid hex digits follow, or a 9th hex digit directly
// follows the 8th (making the literal longer than spec allows), the whole
// run is still returned as a single MAGIC token; the parser/annotator
// rejects malformed magics by length, producing a precise caret span
// rather than a misleading run of BAD tokens.
func (l *Lexer) scanMagic(start int) token.Token {
	l.pos++
	for l.pos < len(l.src) && l.byteAt(l.pos) < 128 && isHexUpper[l.src[l.pos]] {
		l.pos++
	}
	return token.Token{Kind: token.MAGIC, Offset: start, Length: l.pos - start}
}

// scanNumber consumes an optional leading '-', decimal digits, an optional
// fractional part, and an optional exponent, per spec.md's NUMBER grammar.
func (l *Lexer) scanNumber(start int) token.Token {
	if l.byteAt(l.pos) == '-' {
		l.pos++
	}
	for l.pos < len(l.src) && l.byteAt(l.pos) < 128 && isDigit[l.src[l.pos]] {
		l.pos++
	}
	if l.byteAt(l.pos) == '.' && isDigit[l.byteAt(l.pos+1)&127] {
		l.pos++
		for l.pos < len(l.src) && l.byteAt(l.pos) < 128 && isDigit[l.src[l.pos]] {
			l.pos++
		}
	}
	if ch := l.byteAt(l.pos); ch == 'e' || ch == 'E' {
		save := l.pos
		l.pos++
		if ch := l.byteAt(l.pos); ch == '+' || ch == '-' {
			l.pos++
		}
		if !isDigit[l.byteAt(l.pos)&127] {
			l.pos = save // not actually an exponent; back off
		} else {
			for l.pos < len(l.src) && l.byteAt(l.pos) < 128 && isDigit[l.src[l.pos]] {
				l.pos++
			}
		}
	}
	return token.Token{Kind: token.NUMBER, Offset: start, Length: l.pos - start}
}
