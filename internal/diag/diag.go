// Package diag accumulates and renders compiler diagnostics: lexical,
// syntactic, and semantic errors positioned against the original schema
// source. The source-citation format (file label, 1-based line, the
// source line verbatim — tabs preserved, per spec.md §6 — and a caret
// underline) is grounded in the teacher's cli/errors.go and
// runtime/parser/errors.go ParseError formatting, simplified to the single
// concern this compiler needs: one message, one source span.
package diag

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/flatwire/internal/token"
)

// Severity classifies a diagnostic. SeverityError is the only level; it
// is used for lexical, syntactic and semantic errors alike.
type Severity int

const (
	SeverityError Severity = iota
)

// Diagnostic is one reported problem, tied to a token span in the source.
type Diagnostic struct {
	Severity Severity
	Message  string
	Span     token.Token
}

// Reporter accumulates diagnostics across the lexer/parser/annotator
// passes. A Reporter is created once per compile and passed down through
// every phase; it never resets mid-pipeline, so `validate` and every
// emitter subcommand see the full error count before deciding whether to
// write output (spec.md §7: "non-zero error count ... abort before
// writing any output file").
type Reporter struct {
	File  string
	Src   []byte
	diags []Diagnostic
}

// New returns a Reporter for src, labeled file for source citations.
func New(file string, src []byte) *Reporter {
	return &Reporter{File: file, Src: src}
}

// Errorf records a semantic or syntactic diagnostic at span's position.
func (r *Reporter) Errorf(span token.Token, format string, args ...any) {
	r.diags = append(r.diags, Diagnostic{
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// Count returns the number of diagnostics recorded so far.
func (r *Reporter) Count() int { return len(r.diags) }

// OK reports whether no diagnostics have been recorded.
func (r *Reporter) OK() bool { return len(r.diags) == 0 }

// Diagnostics returns the accumulated diagnostics in report order.
func (r *Reporter) Diagnostics() []Diagnostic { return r.diags }

// lineCol computes the 1-based line number and the byte range of that
// line for the given offset. Tabs are preserved (not expanded) in the
// returned line text, matching spec.md §6's "tabs are preserved and
// expanded as-is in diagnostics".
func (r *Reporter) lineCol(offset int) (line int, lineStart, lineEnd int) {
	line = 1
	lineStart = 0
	for i := 0; i < offset && i < len(r.Src); i++ {
		if r.Src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	lineEnd = lineStart
	for lineEnd < len(r.Src) && r.Src[lineEnd] != '\n' {
		lineEnd++
	}
	return line, lineStart, lineEnd
}

// Format renders every accumulated diagnostic as:
//
//	<file>:<line>: <message>
//	<source line>
//	<caret underline>
func (r *Reporter) Format() string {
	var b strings.Builder
	for _, d := range r.diags {
		line, lineStart, lineEnd := r.lineCol(d.Span.Offset)
		col := d.Span.Offset - lineStart
		fmt.Fprintf(&b, "%s:%d: %s\n", r.File, line, d.Message)
		b.Write(r.Src[lineStart:lineEnd])
		b.WriteByte('\n')
		for i := 0; i < col; i++ {
			if i < len(r.Src) && r.Src[lineStart+i] == '\t' {
				b.WriteByte('\t')
			} else {
				b.WriteByte(' ')
			}
		}
		carets := d.Span.Length
		if carets < 1 {
			carets = 1
		}
		b.WriteString(strings.Repeat("^", carets))
		b.WriteByte('\n')
	}
	return b.String()
}
