package zigtooling

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/scoomboot/zig-tooling/pattern"
	"github.com/scoomboot/zig-tooling/scope"
	"github.com/scoomboot/zig-tooling/srcctx"
)

// testingAnalyzer detects test-declaration hygiene issues: category and
// naming convention violations, misplaced test files, and duplicate test
// names within one file.
type testingAnalyzer struct {
	cfg             TestingConfig
	verbose         bool
	maxDepth        int
	continueOnError bool
	log             *logger
}

func newTestingAnalyzer(cfg *Config, log *logger) *testingAnalyzer {
	return &testingAnalyzer{
		cfg:             cfg.Testing,
		verbose:         cfg.Options.Verbose,
		maxDepth:        cfg.Memory.MaxScopeDepth,
		continueOnError: cfg.Options.ContinueOnError,
		log:             log,
	}
}

func (t *testingAnalyzer) analyze(filePath string, lines []string, ctx *srcctx.Map) ([]Diagnostic, error) {
	// The testing analyzer only needs test-function boundaries and names;
	// arena/defer bookkeeping is irrelevant here, so it drives its own
	// tracker instance rather than sharing the memory analyzer's.
	tr := scope.NewTracker(scope.Options{MaxDepth: t.maxDepth}, pattern.NewRegistry(pattern.Config{}))
	for i, line := range lines {
		lineNum, text := i+1, line
		if !processLineSafely(func() { tr.ProcessLine(lineNum, text, ctx) }, t.log, lineNum, t.continueOnError) {
			return nil, newError(ParseError, filePath, errLineProcessing(lineNum))
		}
	}
	tr.Finish(len(lines))

	var out []diagWithSeq
	seq := 0
	emit := func(d Diagnostic) {
		out = append(out, diagWithSeq{d, seq})
		seq++
	}

	seen := make(map[string]int) // name -> first declaration line
	allowed := toStringSet(t.cfg.AllowedCategories)

	fileQualifies := t.fileQualifiesAsTestFile(filePath)
	rootID := tr.Root().ID

	for _, node := range tr.Nodes() {
		// Only a test declared directly at file scope counts as a test;
		// a `test` block nested inside a function is not a recognized
		// declaration and carries no hygiene obligations of its own.
		if node.Kind != scope.TestFunction || node.ParentID != rootID {
			continue
		}
		name := node.Name
		line := node.StartLine

		if t.cfg.EnforceTestFiles && !fileQualifies {
			emit(t.diag(filePath, line, lines, InvalidTestLocation,
				fmt.Sprintf("test %q declared in a file that does not end with %q", name, t.cfg.TestFileSuffix),
				fmt.Sprintf("move this test into a file named with the %q suffix", t.cfg.TestFileSuffix)))
		}

		category, hasCategory := splitCategory(name)
		if t.cfg.EnforceCategories {
			if !hasCategory || (len(allowed) > 0 && !allowed[category]) {
				emit(t.diag(filePath, line, lines, MissingTestCategory,
					fmt.Sprintf("test %q is missing a recognized category prefix", name),
					fmt.Sprintf("prefix the test name with one of: %s", strings.Join(t.cfg.AllowedCategories, ", "))))
			}
		}

		if t.cfg.EnforceNaming && hasCategory && strings.Count(name, ":") != 2 {
			emit(t.diag(filePath, line, lines, InvalidTestNaming,
				fmt.Sprintf("test %q does not follow the \"category: component: description\" naming convention", name),
				"rename the test to \"category: component: description\""))
		}

		if first, dup := seen[name]; dup {
			emit(t.diag(filePath, line, lines, DuplicateTestName,
				fmt.Sprintf("test %q is declared more than once in this file (first declared at line %d)", name, first),
				"give each test in the file a distinct name"))
		} else {
			seen[name] = line
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].d, out[j].d
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return out[i].seq < out[j].seq
	})
	diags := make([]Diagnostic, len(out))
	for i, dw := range out {
		diags[i] = dw.d
	}
	return diags, nil
}

func (t *testingAnalyzer) diag(filePath string, line int, lines []string, kind Kind, message, suggestion string) Diagnostic {
	d := Diagnostic{
		FilePath: filePath,
		Line:     line,
		Column:   1,
		Kind:     kind,
		Severity: SeverityWarning,
		Message:  message,
	}
	if t.verbose {
		d.Suggestion = suggestion
		if line >= 1 && line <= len(lines) {
			d.Snippet = strings.TrimRight(lines[line-1], "\r")
		}
	}
	return d
}

// fileQualifiesAsTestFile reports whether filePath's base name (extension
// stripped) ends with the configured test-file suffix.
func (t *testingAnalyzer) fileQualifiesAsTestFile(filePath string) bool {
	base := filepath.Base(filePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.HasSuffix(base, t.cfg.TestFileSuffix)
}

// splitCategory returns the trimmed prefix of name before its first ':', and
// whether a ':' was present at all.
func splitCategory(name string) (string, bool) {
	idx := strings.IndexByte(name, ':')
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(name[:idx]), true
}

func toStringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
