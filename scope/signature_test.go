package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFunctionHeader_CallbackParameterDoesNotTruncateParams(t *testing.T) {
	sig, ok := ParseFunctionHeader(`pub fn setCallback(self: *Self, cb: fn (u8) void, a: Allocator) void`)
	require.True(t, ok)
	assert.Equal(t, "setCallback", sig.Name)
	assert.Equal(t, "void", sig.ReturnType)
	require.Len(t, sig.Params, 3)
	assert.Equal(t, Param{Name: "self", Type: "*Self"}, sig.Params[0])
	assert.Equal(t, Param{Name: "cb", Type: "fn (u8) void"}, sig.Params[1])
	assert.Equal(t, Param{Name: "a", Type: "Allocator"}, sig.Params[2])
	assert.True(t, IsAllocatorType(sig.Params[2].Type))
}

func TestParseFunctionHeader_PlainParams(t *testing.T) {
	sig, ok := ParseFunctionHeader(`fn add(a: usize, b: usize) usize`)
	require.True(t, ok)
	assert.Equal(t, "add", sig.Name)
	assert.Equal(t, "usize", sig.ReturnType)
	require.Len(t, sig.Params, 2)
	assert.Equal(t, "a", sig.Params[0].Name)
	assert.Equal(t, "b", sig.Params[1].Name)
}

func TestParseFunctionHeader_NotAFunction(t *testing.T) {
	_, ok := ParseFunctionHeader(`if (x) `)
	assert.False(t, ok)
}
