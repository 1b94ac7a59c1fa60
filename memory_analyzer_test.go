package zigtooling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAnalyzer_ArenaInLibraryWithoutDeinit(t *testing.T) {
	src := `fn f(a: Allocator) void {
  var arena = ArenaAllocator.init(a);
  const alloc2 = arena.allocator();
  const b = try alloc2.alloc(u8, 16);
}
`
	a := NewAnalyzer()
	res, err := a.AnalyzeMemory([]byte(src), "f.zig", nil)
	require.NoError(t, err)
	var kinds []Kind
	for _, d := range res.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	assert.Contains(t, kinds, ArenaInLibrary)
}

func TestMemoryAnalyzer_ArenaWithDeinitIsClean(t *testing.T) {
	src := `fn f(a: Allocator) void {
  var arena = ArenaAllocator.init(a);
  defer arena.deinit();
  const alloc2 = arena.allocator();
  const b = try alloc2.alloc(u8, 16);
}
`
	a := NewAnalyzer()
	res, err := a.AnalyzeMemory([]byte(src), "f.zig", nil)
	require.NoError(t, err)
	for _, d := range res.Diagnostics {
		assert.NotEqual(t, ArenaInLibrary, d.Kind)
	}
}

func TestMemoryAnalyzer_DeferInLoop(t *testing.T) {
	src := `fn f(a: Allocator) void {
  while (true) {
    const b = try a.alloc(u8, 1);
    defer a.free(b);
  }
}
`
	a := NewAnalyzer()
	res, err := a.AnalyzeMemory([]byte(src), "f.zig", nil)
	require.NoError(t, err)
	var found bool
	for _, d := range res.Diagnostics {
		if d.Kind == DeferInLoop {
			found = true
			assert.Equal(t, SeverityWarning, d.Severity)
		}
	}
	assert.True(t, found, "expected a defer_in_loop diagnostic")
}

func TestMemoryAnalyzer_AllocatorMismatch(t *testing.T) {
	src := `fn f() void {
  const b = try std.heap.page_allocator.alloc(u8, 16);
  defer std.heap.c_allocator.free(b);
}
`
	a := NewAnalyzer()
	res, err := a.AnalyzeMemory([]byte(src), "f.zig", nil)
	require.NoError(t, err)
	var found bool
	for _, d := range res.Diagnostics {
		if d.Kind == AllocatorMismatch {
			found = true
		}
	}
	assert.True(t, found, "expected an allocator_mismatch diagnostic")
}

func TestMemoryAnalyzer_MissingErrdeferHeuristic(t *testing.T) {
	src := `fn create(a: Allocator) !void {
  const b = try a.alloc(u8, 16);
  defer a.free(b);
  try doSomethingFallible();
  return b;
}
`
	a := NewAnalyzer()
	res, err := a.AnalyzeMemory([]byte(src), "f.zig", nil)
	require.NoError(t, err)
	var found bool
	for _, d := range res.Diagnostics {
		if d.Kind == MissingErrdefer {
			found = true
		}
	}
	assert.True(t, found, "expected a missing_errdefer diagnostic")
}

func TestMemoryAnalyzer_TestAllocatorAlwaysAllowed(t *testing.T) {
	src := `test "unit: allocation uses the standard test allocator" {
  const b = try std.testing.allocator.alloc(u8, 16);
  defer std.testing.allocator.free(b);
}
`
	cfg := NewConfig(WithAllowedAllocators("std.heap.GeneralPurposeAllocator"))
	a := NewAnalyzer()
	res, err := a.AnalyzeMemory([]byte(src), "f_test.zig", cfg)
	require.NoError(t, err)
	for _, d := range res.Diagnostics {
		assert.NotEqual(t, IncorrectAllocator, d.Kind)
	}
}

func TestMemoryAnalyzer_ParameterAllocatorAlwaysSatisfiesAllowList(t *testing.T) {
	src := `fn f(allocator: std.mem.Allocator) void {
  const b = try allocator.alloc(u8, 16);
  defer allocator.free(b);
}
`
	cfg := NewConfig(WithAllowedAllocators("std.heap.GeneralPurposeAllocator"))
	a := NewAnalyzer()
	res, err := a.AnalyzeMemory([]byte(src), "f.zig", cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
}
