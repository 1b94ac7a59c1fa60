// Package zigtooling is a static analysis library for Zig source code. It
// reports manual-memory-management hygiene issues (missing defer, arena
// misuse, ownership-transfer violations, allocator mismatches) and test
// organization compliance issues (naming, categorization, file placement)
// as a flat, ordered list of diagnostics.
//
// Detection is pattern and heuristic based, informed by a source context
// classifier and a line-driven scope tracker — there is no true parsing to
// an abstract syntax tree, no cross-file analysis, and no soundness
// guarantee. The library trades false negatives for a low false-positive
// rate; its value is practical warnings, not formal verification.
package zigtooling

// Position is a 1-indexed (line, column) pair. Column is a byte offset
// within the line, not a codepoint index.
type Position struct {
	Line   int
	Column int
}
