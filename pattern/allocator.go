// Package pattern resolves raw identifier and return-type text to the
// canonical allocator and ownership-transfer categories the Memory Analyzer
// reasons about, honoring user overrides and disabled defaults.
package pattern

// AllocatorRule maps a substring pattern to a canonical allocator identity.
// Multiple rules may share the same Name; the first one whose Pattern
// matches wins.
type AllocatorRule struct {
	Name    string
	Pattern string
}

// DefaultAllocatorRules returns the library's shipped allocator patterns, in
// the fixed order that is part of the library's stability contract: callers
// disabling defaults by name, or relying on "first default match wins" for
// ambiguous identifiers, can depend on this order across versions.
func DefaultAllocatorRules() []AllocatorRule {
	return []AllocatorRule{
		{Name: "std.heap.GeneralPurposeAllocator", Pattern: "GeneralPurposeAllocator"},
		{Name: "std.heap.GeneralPurposeAllocator", Pattern: "gpa"},
		{Name: "std.heap.ArenaAllocator", Pattern: "ArenaAllocator"},
		{Name: "std.heap.ArenaAllocator", Pattern: "arena"},
		{Name: "std.heap.page_allocator", Pattern: "page_allocator"},
		{Name: "std.heap.c_allocator", Pattern: "c_allocator"},
		{Name: "std.heap.FixedBufferAllocator", Pattern: "FixedBufferAllocator"},
		{Name: "std.testing.allocator", Pattern: "testing.allocator"},
		{Name: "std.testing.allocator", Pattern: "test_allocator"},
	}
}

// TestAllocatorNames lists the canonical allocator names that are always
// permitted inside test_function scopes, independent of any configured
// allow-list, unless the caller explicitly disables that leniency.
func TestAllocatorNames() []string {
	return []string{"std.testing.allocator", "testing.allocator"}
}
