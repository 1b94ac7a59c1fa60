// Package srcctx classifies every byte position of a Zig source file as code
// or one of several non-code regions (comments, string/char literals,
// @embedFile arguments) so that pattern matching elsewhere in the library
// never mistakes commented-out or quoted text for real code.
package srcctx

// Kind identifies the lexical region a byte position falls in.
type Kind int

const (
	// Code is ordinary source code subject to pattern matching.
	Code Kind = iota
	// LineComment is a `//` comment (not a doc comment).
	LineComment
	// DocComment is a `///` or `//!` comment.
	DocComment
	// BlockComment is a `/* ... */` comment. Nesting is not supported.
	BlockComment
	// StringRegular is a `"..."` literal closed on the same line.
	StringRegular
	// StringMultiline is a `\\...` line-string literal.
	StringMultiline
	// StringRaw is an `r"..."` or `r#"..."#` literal.
	StringRaw
	// CharLiteral is a `'x'` literal.
	CharLiteral
	// EmbedArgument is the string argument of an `@embedFile(...)` call.
	EmbedArgument
)

// String renders the Kind for diagnostics and test failure messages.
func (k Kind) String() string {
	switch k {
	case Code:
		return "code"
	case LineComment:
		return "line_comment"
	case DocComment:
		return "doc_comment"
	case BlockComment:
		return "block_comment"
	case StringRegular:
		return "string_regular"
	case StringMultiline:
		return "string_multiline"
	case StringRaw:
		return "string_raw"
	case CharLiteral:
		return "char_literal"
	case EmbedArgument:
		return "embed_argument"
	default:
		return "unknown"
	}
}

// IsComment reports whether k is any comment variant.
func (k Kind) IsComment() bool {
	return k == LineComment || k == DocComment || k == BlockComment
}

// IsString reports whether k is any string-like variant, including the
// @embedFile argument and character literals (both are quoted text from the
// classifier's point of view).
func (k Kind) IsString() bool {
	switch k {
	case StringRegular, StringMultiline, StringRaw, CharLiteral, EmbedArgument:
		return true
	default:
		return false
	}
}
