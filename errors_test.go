package zigtooling

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesOnKind(t *testing.T) {
	err := newError(FileNotFound, "missing.zig", fmt.Errorf("no such file"))
	assert.True(t, errors.Is(err, &Error{Kind: FileNotFound}))
	assert.False(t, errors.Is(err, &Error{Kind: AccessDenied}))
}

func TestError_AsUnwrapsToTypedError(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	wrapped := fmt.Errorf("analysis failed: %w", newError(AccessDenied, "locked.zig", cause))

	var target *Error
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, AccessDenied, target.Kind)
	assert.Equal(t, "locked.zig", target.Path)
	assert.ErrorIs(t, wrapped, cause)
}
