package sema

// reservedWords is the union of keywords reserved by every target language
// an emitter might be asked to generate (spec.md §3: "neither is a reserved
// keyword of any supported target"). Code generation itself is an external
// collaborator (spec.md §1), so this compiler does not know the exact
// target list at compile time; it instead carries a conservative, curated
// union covering the languages spec.md §6 names as example targets
// (cpp, py) plus the other common targets schema compilers in this space
// support (Go, Rust, TypeScript), so a schema author never picks a name
// that would make every generator's job impossible.
var reservedWords = buildReserved(
	// C++
	"alignas", "alignof", "and", "asm", "auto", "bool", "break", "case",
	"catch", "char", "class", "const", "constexpr", "continue", "default",
	"delete", "do", "double", "else", "enum", "explicit", "export", "extern",
	"false", "float", "for", "friend", "goto", "if", "inline", "int", "long",
	"mutable", "namespace", "new", "noexcept", "nullptr", "operator", "or",
	"private", "protected", "public", "register", "return", "short",
	"signed", "sizeof", "static", "struct", "switch", "template", "this",
	"throw", "true", "try", "typedef", "typeid", "typename", "union",
	"unsigned", "using", "virtual", "void", "volatile", "while", "xor",
	// Python
	"and", "as", "assert", "async", "await", "class", "def", "del", "elif",
	"except", "finally", "from", "global", "import", "in", "is", "lambda",
	"nonlocal", "not", "or", "pass", "raise", "with", "yield",
	// Go
	"chan", "defer", "fallthrough", "func", "go", "import", "interface",
	"map", "package", "range", "select", "type", "var",
	// Rust
	"as", "async", "await", "crate", "dyn", "fn", "impl", "let", "loop",
	"match", "mod", "move", "mut", "pub", "ref", "self", "Self", "trait",
	"unsafe", "use", "where",
	// TypeScript / JavaScript
	"any", "boolean", "const", "declare", "export", "extends", "function",
	"implements", "import", "instanceof", "interface", "let", "module",
	"never", "number", "readonly", "string", "super", "symbol", "type",
	"typeof", "undefined", "unknown",
)

func buildReserved(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

func isReservedWord(name string) bool {
	return reservedWords[name]
}
