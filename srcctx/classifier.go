package srcctx

import "strings"

// state is the classifier's single running state variable, advanced
// byte-by-byte over the source. Nested block comments and nested raw-string
// delimiters beyond the current one are deliberately unsupported.
type state int

const (
	stCode state = iota
	stLineComment
	stBlockComment
	stStringRegular
	stStringMultiline
	stStringRaw
	stCharLiteral
)

// Classifier performs a single forward scan over source text and produces a
// Map. It never fails: malformed or truncated input yields a best-effort
// classification rather than an error.
type Classifier struct{}

// New returns a ready-to-use Classifier. It holds no state of its own; a
// single value may classify any number of files.
func New() *Classifier {
	return &Classifier{}
}

// Build scans src once and returns the resulting position map. Built once per
// file at the start of analysis and discarded at the end, per the caller's
// lifecycle.
func (c *Classifier) Build(src []byte) *Map {
	m := newMap()

	var (
		st         = stCode
		rawDepth   int  // number of '#' delimiters for the current raw string
		pendingAt  bool // saw "@embedFile(" and are waiting for its string arg
		line       = 1
		col        = 1 // 1-indexed byte offset within the current line
		segStart   = 1 // column where the current non-code segment started
		segKind    Kind
		inSegment  bool
	)

	closeSegment := func(endCol int) {
		if inSegment {
			m.addSegment(line, segStart, endCol, segKind)
			inSegment = false
		}
	}
	openSegment := func(startCol int, kind Kind) {
		closeSegment(startCol)
		segStart = startCol
		segKind = kind
		inSegment = true
	}
	newline := func() {
		closeSegment(col)
		m.markLineEnd(line, col)
		line++
		col = 1
		segStart = 1
	}

	n := len(src)
	i := 0
	byteAt := func(off int) byte {
		if i+off < n {
			return src[i+off]
		}
		return 0
	}

	for i < n {
		b := src[i]

		switch st {
		case stCode:
			// Multiline string literal: a line whose first non-whitespace
			// bytes are "\\". Only checked at the start of a line.
			if col == 1 && isMultilineStringStart(src, i) {
				openSegment(col, StringMultiline)
				st = stStringMultiline
				continue
			}
			switch {
			case b == '/' && byteAt(1) == '/':
				kind := LineComment
				if byteAt(2) == '/' || byteAt(2) == '!' {
					kind = DocComment
				}
				openSegment(col, kind)
				st = stLineComment
				i += 2
				col += 2
				continue
			case b == '/' && byteAt(1) == '*':
				openSegment(col, BlockComment)
				st = stBlockComment
				i += 2
				col += 2
				continue
			case b == '"':
				kind := StringRegular
				if pendingAt {
					kind = EmbedArgument
					pendingAt = false
				}
				openSegment(col, kind)
				st = stStringRegular
				i++
				col++
				continue
			case b == 'r' && isWordBoundaryBefore(src, i) && isRawStringOpener(src, i):
				depth := countHashes(src, i+1)
				kind := StringRaw
				if pendingAt {
					kind = EmbedArgument
					pendingAt = false
				}
				openSegment(col, kind)
				rawDepth = depth
				st = stStringRaw
				skip := 1 + depth + 1 // 'r' + '#'* + '"'
				i += skip
				col += skip
				continue
			case b == '\'' && isWordBoundaryBefore(src, i):
				if end, ok := charLiteralEnd(src, i); ok {
					openSegment(col, CharLiteral)
					length := end - i
					i = end
					col += length
					closeSegment(col)
					continue
				}
				// Not a char literal (e.g. a lifetime-like stray quote);
				// treat the quote as ordinary code.
			case b == '@' && strings.HasPrefix(string(src[i:min(i+len("@embedFile("), n)]), "@embedFile("):
				pendingAt = true
			case b == '\n':
				newline()
				i++
				continue
			}
			closeSegment(col)
		case stLineComment:
			if b == '\n' {
				newline()
				i++
				continue
			}
		case stBlockComment:
			if b == '*' && byteAt(1) == '/' {
				i += 2
				col += 2
				closeSegment(col)
				st = stCode
				continue
			}
			if b == '\n' {
				newline()
				openSegment(1, BlockComment)
				i++
				continue
			}
		case stStringRegular:
			switch b {
			case '\\':
				i++
				col++
				if i < n && src[i] != '\n' {
					i++
					col++
				}
				continue
			case '"':
				i++
				col++
				closeSegment(col)
				st = stCode
				continue
			case '\n':
				// Unterminated string at EOL: best-effort, keep going as
				// string into the next line rather than emitting a
				// diagnostic (out of scope per the error-handling design).
				newline()
				i++
				continue
			}
		case stStringMultiline:
			if b == '\n' {
				newline()
				st = stCode
				i++
				continue
			}
		case stStringRaw:
			if b == '"' && hasClosingHashes(src, i+1, rawDepth) {
				i += 1 + rawDepth
				col += 1 + rawDepth
				closeSegment(col)
				st = stCode
				continue
			}
			if b == '\n' {
				newline()
				i++
				continue
			}
		}

		i++
		col++
	}

	// EOF while still inside a region: close out whatever is open.
	closeSegment(col)
	m.markLineEnd(line, col)
	m.finalize()
	return m
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isWordBoundaryBefore(src []byte, i int) bool {
	if i == 0 {
		return true
	}
	return !isWordByte(src[i-1])
}

func isRawStringOpener(src []byte, i int) bool {
	j := i + 1
	for j < len(src) && src[j] == '#' {
		j++
	}
	return j < len(src) && src[j] == '"'
}

func countHashes(src []byte, i int) int {
	n := 0
	for i+n < len(src) && src[i+n] == '#' {
		n++
	}
	return n
}

func hasClosingHashes(src []byte, i, depth int) bool {
	if i+depth > len(src) {
		return false
	}
	for k := 0; k < depth; k++ {
		if src[i+k] != '#' {
			return false
		}
	}
	return true
}

// isMultilineStringStart reports whether the line beginning at i (a known
// line-start position) opens with a `\\` token, possibly after leading
// whitespace.
func isMultilineStringStart(src []byte, i int) bool {
	j := i
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}
	return j+1 < len(src) && src[j] == '\\' && src[j+1] == '\\'
}

// charLiteralEnd attempts to parse a 'x' or '\x' style character literal
// starting at the opening quote i. It returns the index just past the
// closing quote and true on success. Length is capped at a few bytes so a
// stray apostrophe (not valid Zig, but defensive against malformed input)
// cannot run the scan away.
func charLiteralEnd(src []byte, i int) (int, bool) {
	const maxLen = 8
	j := i + 1
	if j >= len(src) {
		return 0, false
	}
	if src[j] == '\\' {
		j++
		if j >= len(src) {
			return 0, false
		}
		// escape sequence: consume until closing quote, capped.
		for k := 0; k < maxLen && j < len(src); k++ {
			if src[j] == '\'' {
				return j + 1, true
			}
			j++
		}
		return 0, false
	}
	j++ // consume the single literal byte
	if j < len(src) && src[j] == '\'' {
		return j + 1, true
	}
	return 0, false
}
