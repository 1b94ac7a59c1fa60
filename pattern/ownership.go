package pattern

import "strings"

// OwnershipRule marks a function as ownership-transferring when either its
// name or its return-type text matches. Either field may be empty, meaning
// that half of the rule never matches.
type OwnershipRule struct {
	FunctionPattern   string
	ReturnTypePattern string
}

// DefaultOwnershipRules returns the library's shipped ownership-transfer
// patterns: constructor-like names, and allocation-shaped return types.
func DefaultOwnershipRules() []OwnershipRule {
	var rules []OwnershipRule
	for _, name := range []string{
		"create", "init", "make", "new", "clone", "duplicate", "dupe",
		"copy", "toString", "toSlice", "format", "alloc",
	} {
		rules = append(rules, OwnershipRule{FunctionPattern: name})
	}
	for _, rt := range []string{
		"[]u8", "[]const u8",
		"![]u8", "![]const u8",
		"?[]u8", "?[]const u8",
		"*T", "!*T", "?*T",
	} {
		rules = append(rules, OwnershipRule{ReturnTypePattern: rt})
	}
	return rules
}

// isFunctionPointerReturn reports whether a return-type string names a
// function pointer, which the default return-type rules never match
// against even when their pattern text would otherwise line up (e.g. a
// `*T` pattern should not fire against `?fn(u8) *T`-shaped callback types).
func isFunctionPointerReturn(returnType string) bool {
	return strings.Contains(returnType, "fn(")
}
