package scope

import (
	"regexp"
	"strings"
)

// Param is one formal parameter of a parsed function signature.
type Param struct {
	Name string
	Type string
}

// Signature is the result of lightweight, pattern-based parsing of a
// function header: its name, formal parameters, and the return-type text
// between the parameter list's closing ')' and the body's opening '{'.
//
// Signature parsing never mixes a borrowed literal with a built string in
// the same field: every field here is always a freshly-built Go string
// (the product of a regexp submatch or strings.TrimSpace), so callers can
// treat all fields uniformly regardless of which branch produced them.
type Signature struct {
	Name       string
	Params     []Param
	ReturnType string
}

var (
	funcHeaderPrefixRe = regexp.MustCompile(`(?:pub\s+)?(?:export\s+)?(?:extern\s+)?(?:inline\s+)?fn\s+([A-Za-z_]\w*)\s*\(`)
	testHeaderRe        = regexp.MustCompile(`^\s*test\s+"([^"]*)"\s*$`)
)

// ParseFunctionHeader attempts to parse text (everything on the opening
// line up to, but not including, the '{') as a function declaration. The
// parameter list is located with a balanced-paren scan rather than a single
// regex capture, since a parameter's own type can contain parens (a
// function-pointer parameter such as `cb: fn (u8) void`).
func ParseFunctionHeader(text string) (Signature, bool) {
	loc := funcHeaderPrefixRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return Signature{}, false
	}
	open := loc[1] - 1 // index of the '(' the prefix match ends on
	close := matchingParen(text, open)
	if close < 0 {
		return Signature{}, false
	}
	sig := Signature{
		Name:       text[loc[2]:loc[3]],
		ReturnType: strings.TrimSpace(text[close+1:]),
	}
	sig.Params = parseParams(text[open+1 : close])
	return sig, true
}

// matchingParen returns the index of the ')' that closes the '(' at open,
// treating [] and {} as nested brackets too so a parameter type carrying
// either doesn't throw off the depth count.
func matchingParen(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ParseTestHeader attempts to parse text as a `test "name" {` declaration
// and returns the raw name string (category parsing happens downstream).
func ParseTestHeader(text string) (string, bool) {
	m := testHeaderRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func parseParams(text string) []Param {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	parts := splitTopLevel(text, ',')
	params := make([]Param, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = strings.TrimPrefix(p, "comptime ")
		p = strings.TrimSpace(p)
		idx := strings.IndexByte(p, ':')
		if idx < 0 {
			// Anonymous / type-only parameter (e.g. a generic "anytype"
			// slot written without a name); keep the raw text as the type
			// so allocator-type detection still has something to match.
			params = append(params, Param{Type: p})
			continue
		}
		name := strings.TrimSpace(p[:idx])
		typ := strings.TrimSpace(p[idx+1:])
		params = append(params, Param{Name: name, Type: typ})
	}
	return params
}

// splitTopLevel splits text on sep, ignoring occurrences nested inside
// (), [], or {} so a parameter type like `fn (u8) void` doesn't get cut in
// half.
func splitTopLevel(text string, sep byte) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		default:
			if text[i] == sep && depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, text[start:])
	return parts
}

// IsAllocatorType reports whether a parameter's declared type names an
// allocator handle.
func IsAllocatorType(typeText string) bool {
	return strings.Contains(typeText, "Allocator")
}

// IsFunctionPointerType reports whether a return-type string names a
// function pointer rather than an owned data pointer; ownership-transfer
// default rules exclude these.
func IsFunctionPointerType(typeText string) bool {
	return strings.Contains(typeText, "fn(")
}
