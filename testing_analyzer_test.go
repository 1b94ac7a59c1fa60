package zigtooling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestingAnalyzer_ValidNamePassesCleanly(t *testing.T) {
	src := `test "unit: parser: handles empty input" {
  const x = 1;
}
`
	a := NewAnalyzer()
	res, err := a.AnalyzeTests([]byte(src), "parser_test.zig", nil)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
}

func TestTestingAnalyzer_InvalidNamingMissingComponent(t *testing.T) {
	src := `test "unit: no component separator here" {
}
`
	a := NewAnalyzer()
	res, err := a.AnalyzeTests([]byte(src), "x_test.zig", nil)
	require.NoError(t, err)
	var found bool
	for _, d := range res.Diagnostics {
		if d.Kind == InvalidTestNaming {
			found = true
		}
	}
	assert.True(t, found)
}

func TestTestingAnalyzer_UnrecognizedCategory(t *testing.T) {
	src := `test "bogus: widget: does a thing" {
}
`
	a := NewAnalyzer()
	res, err := a.AnalyzeTests([]byte(src), "x_test.zig", nil)
	require.NoError(t, err)
	var found bool
	for _, d := range res.Diagnostics {
		if d.Kind == MissingTestCategory {
			found = true
		}
	}
	assert.True(t, found)
}

func TestTestingAnalyzer_WrongFileSuffix(t *testing.T) {
	src := `test "unit: widget: does a thing" {
}
`
	a := NewAnalyzer()
	res, err := a.AnalyzeTests([]byte(src), "widget.zig", nil)
	require.NoError(t, err)
	var found bool
	for _, d := range res.Diagnostics {
		if d.Kind == InvalidTestLocation {
			found = true
		}
	}
	assert.True(t, found)
}

func TestTestingAnalyzer_DuplicateTestName(t *testing.T) {
	src := `test "unit: widget: does a thing" {
}
test "unit: widget: does a thing" {
}
`
	a := NewAnalyzer()
	res, err := a.AnalyzeTests([]byte(src), "widget_test.zig", nil)
	require.NoError(t, err)
	var found bool
	for _, d := range res.Diagnostics {
		if d.Kind == DuplicateTestName {
			found = true
			assert.Equal(t, 3, d.Line)
		}
	}
	assert.True(t, found)
}

func TestTestingAnalyzer_CustomAllowedCategories(t *testing.T) {
	src := `test "smoke: widget: boots up" {
}
`
	cfg := NewConfig()
	cfg.Testing.AllowedCategories = []string{"smoke"}
	a := NewAnalyzer()
	res, err := a.AnalyzeTests([]byte(src), "widget_test.zig", cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
}

func TestTestingAnalyzer_CustomTestFileSuffix(t *testing.T) {
	src := `test "unit: widget: does a thing" {
}
`
	cfg := NewConfig()
	cfg.Testing.TestFileSuffix = ".spec"
	a := NewAnalyzer()
	res, err := a.AnalyzeTests([]byte(src), "widget.spec.zig", cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
}
