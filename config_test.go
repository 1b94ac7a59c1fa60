package zigtooling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_PassesValidation(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Memory.CheckDefer)
	assert.True(t, cfg.Testing.EnforceCategories)
	assert.Equal(t, "_test", cfg.Testing.TestFileSuffix)
	assert.Equal(t, 0, cfg.Options.MaxIssues)
}

func TestConfig_ValidateRejectsNegativeMaxIssues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Options.MaxIssues = -1
	assert.Error(t, cfg.Validate())
}

func TestConfig_ValidateRejectsEmptyTestFileSuffix(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Testing.TestFileSuffix = ""
	assert.Error(t, cfg.Validate())
}

func TestNewConfig_AppliesOptionsOverDefaults(t *testing.T) {
	cfg := NewConfig(
		WithAllowedAllocators("std.heap.GeneralPurposeAllocator"),
		WithMaxIssues(5),
	)
	assert.Equal(t, []string{"std.heap.GeneralPurposeAllocator"}, cfg.Memory.AllowedAllocators)
	assert.Equal(t, 5, cfg.Options.MaxIssues)
	assert.True(t, cfg.Memory.UseDefaultAllocatorPatterns, "unrelated defaults must survive option application")
}

func TestNewConfig_DisablingThenReenablingAPatternReturnsToDefault(t *testing.T) {
	withDisabled := NewConfig(WithDisabledDefaultAllocatorPattern("std.heap.page_allocator"))
	assert.Equal(t, []string{"std.heap.page_allocator"}, withDisabled.Memory.DisabledDefaultAllocatorPatterns)

	plain := DefaultConfig()
	withDisabled.Memory.DisabledDefaultAllocatorPatterns = nil
	assert.Equal(t, plain.Memory, withDisabled.Memory)
}

func TestWithLogging_EnablesCallbackAtLevel(t *testing.T) {
	var got []string
	cfg := NewConfig(WithLogging(LogLevelInfo, func(level LogLevel, message string) {
		got = append(got, level.String()+": "+message)
	}))
	assert.True(t, cfg.Logging.Enabled)
	assert.Equal(t, LogLevelInfo, cfg.Logging.MinLevel)
	require.NotNil(t, cfg.Logging.Callback)
	cfg.Logging.Callback(LogLevelWarn, "hello")
	assert.Equal(t, []string{"warn: hello"}, got)
}
