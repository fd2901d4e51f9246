// Package token defines the lexical vocabulary of the schema language and
// the Token value the lexer produces: a (kind, byte-offset, length) slice
// into the original schema text. Tokens never copy the source.
package token

// Kind identifies the lexical class of a Token.
type Kind int

const (
	EOF Kind = iota
	BAD

	// Punctuation
	COLON      // :
	COLONCOLON // ::
	SEMICOLON  // ;
	COMMA      // ,
	EQUALS     // =
	LBRACE     // {
	RBRACE     // }
	AT         // @ (lead character of a magic id, consumed as part of MAGIC)

	// Primitive type keywords
	BOOL
	BYTES
	TEXT
	INT8
	INT16
	INT32
	INT64
	UINT8
	UINT16
	UINT32
	UINT64
	FLOAT32
	FLOAT64
	LIST
	OPTIONAL

	// Declaration keywords
	ENUM
	STRUCT
	TABLE
	UNION
	NAMESPACE

	// Modifier keyword
	INPLACE

	// Boolean literals
	TRUE
	FALSE

	IDENTIFIER
	NUMBER
	MAGIC
	DOC_COMMENT
)

var kindNames = map[Kind]string{
	EOF:         "EOF",
	BAD:         "<bad>",
	COLON:       "':'",
	COLONCOLON:  "'::'",
	SEMICOLON:   "';'",
	COMMA:       "','",
	EQUALS:      "'='",
	LBRACE:      "'{'",
	RBRACE:      "'}'",
	AT:          "'@'",
	BOOL:        "Bool",
	BYTES:       "Bytes",
	TEXT:        "Text",
	INT8:        "Int8",
	INT16:       "Int16",
	INT32:       "Int32",
	INT64:       "Int64",
	UINT8:       "UInt8",
	UINT16:      "UInt16",
	UINT32:      "UInt32",
	UINT64:      "UInt64",
	FLOAT32:     "Float32",
	FLOAT64:     "Float64",
	LIST:        "List",
	OPTIONAL:    "Optional",
	ENUM:        "enum",
	STRUCT:      "struct",
	TABLE:       "table",
	UNION:       "union",
	NAMESPACE:   "namespace",
	INPLACE:     "inplace",
	TRUE:        "true",
	FALSE:       "false",
	IDENTIFIER:  "identifier",
	NUMBER:      "number",
	MAGIC:       "magic id",
	DOC_COMMENT: "doc comment",
}

// String returns a human-readable name for the kind, used in diagnostics
// such as "expected one of: ...".
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "<unknown>"
}

// Keywords maps the exact spelling of every reserved word to its Kind.
// Used by the lexer to distinguish IDENTIFIER from a keyword, so no user
// identifier can be spelled like one. Target-language keywords are a
// separate list in internal/sema (reserved.go).
var Keywords = map[string]Kind{
	"Bool":      BOOL,
	"Bytes":     BYTES,
	"Text":      TEXT,
	"Int8":      INT8,
	"Int16":     INT16,
	"Int32":     INT32,
	"Int64":     INT64,
	"UInt8":     UINT8,
	"UInt16":    UINT16,
	"UInt32":    UINT32,
	"UInt64":    UINT64,
	"Float32":   FLOAT32,
	"Float64":   FLOAT64,
	"List":      LIST,
	"Optional":  OPTIONAL,
	"enum":      ENUM,
	"struct":    STRUCT,
	"table":     TABLE,
	"union":     UNION,
	"namespace": NAMESPACE,
	"inplace":   INPLACE,
	"true":      TRUE,
	"false":     FALSE,
}

// IsPrimitive reports whether the kind denotes a primitive type keyword:
// Bool, Text, Bytes, or a numeric scalar (not List/Optional, which are
// modifiers rather than slot types).
func (k Kind) IsPrimitive() bool {
	switch k {
	case BOOL, BYTES, TEXT, INT8, INT16, INT32, INT64, UINT8, UINT16, UINT32, UINT64, FLOAT32, FLOAT64:
		return true
	default:
		return false
	}
}

// Token is a reference into the source buffer: no text is copied here.
// Position (line/column) is recomputed on demand for diagnostics only,
// per the source-position bookkeeping pattern: tokens stay cheap slices.
type Token struct {
	Kind   Kind
	Offset int // byte offset of the first byte in the source buffer
	Length int // byte length of the token's text
}

// Text returns the token's source text. src must be the same buffer the
// token was produced from.
func (t Token) Text(src []byte) string {
	return string(src[t.Offset : t.Offset+t.Length])
}

// End returns the byte offset one past the last byte of the token.
func (t Token) End() int {
	return t.Offset + t.Length
}
