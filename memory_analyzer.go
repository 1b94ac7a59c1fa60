package zigtooling

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/scoomboot/zig-tooling/pattern"
	"github.com/scoomboot/zig-tooling/scope"
	"github.com/scoomboot/zig-tooling/srcctx"
)

// testAllocatorNames are always permitted inside test_function scopes when
// track_test_allocations is enabled, regardless of any configured allow
// list.
var testAllocatorNames = map[string]bool{
	"std.testing.allocator": true,
	"testing.allocator":     true,
}

// memoryAnalyzer detects manual-memory-management hygiene violations by
// driving a scope.Tracker over a file's lines and consulting the resolved
// pattern registry at each allocation site.
type memoryAnalyzer struct {
	cfg             MemoryConfig
	registry        *pattern.Registry
	verbose         bool
	continueOnError bool
	log             *logger
}

func newMemoryAnalyzer(cfg *Config, registry *pattern.Registry, log *logger) *memoryAnalyzer {
	return &memoryAnalyzer{
		cfg:             cfg.Memory,
		registry:        registry,
		verbose:         cfg.Options.Verbose,
		continueOnError: cfg.Options.ContinueOnError,
		log:             log,
	}
}

// analyze walks filePath's lines once, building the scope tree, then emits
// diagnostics for every rule in detection order. The returned slice is
// already sorted by (line, column, emission sequence). A non-nil error
// means a line could not be processed and cfg.Options.ContinueOnError was
// false, aborting the analysis rather than skipping past it.
func (m *memoryAnalyzer) analyze(filePath string, lines []string, ctx *srcctx.Map) ([]Diagnostic, error) {
	tr := scope.NewTracker(scope.Options{TrackArena: true, TrackDefer: true, MaxDepth: m.cfg.MaxScopeDepth}, m.registry)
	for i, line := range lines {
		lineNum, text := i+1, line
		if !processLineSafely(func() { tr.ProcessLine(lineNum, text, ctx) }, m.log, lineNum, m.continueOnError) {
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

	nodes := tr.Nodes()

	for _, node := range nodes {
		for _, v := range node.Variables() {
			if v.IsAllocationSite {
				m.checkMissingDefer(filePath, lines, nodes, node, v, emit)
				m.checkMissingErrdefer(filePath, lines, node, v, emit)
				m.checkIncorrectAllocator(filePath, lines, node, v, emit)
			}
			if v.IsArenaDeclaration {
				m.checkArenaInLibrary(filePath, lines, tr, node, v, emit)
			}
		}
	}

	for _, ev := range tr.DeferEvents() {
		if m.cfg.CheckDefer && ev.InLoop {
			emit(m.diag(filePath, ev.Line, lines, DeferInLoop, SeverityWarning,
				fmt.Sprintf("defer/errdefer for %q runs only at loop exit, not at end of this iteration", ev.Target),
				"move the allocation and its cleanup outside the loop, or free explicitly inside the loop body"))
		}
		m.checkAllocatorMismatch(filePath, lines, tr, ev, emit)
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

func errLineProcessing(lineNum int) error {
	return fmt.Errorf("recovered panic while processing line %d", lineNum)
}

type diagWithSeq struct {
	d   Diagnostic
	seq int
}

func (m *memoryAnalyzer) diag(filePath string, line int, lines []string, kind Kind, sev Severity, message, suggestion string) Diagnostic {
	d := Diagnostic{
		FilePath: filePath,
		Line:     line,
		Column:   1,
		Kind:     kind,
		Severity: sev,
		Message:  message,
	}
	if m.verbose {
		d.Suggestion = suggestion
		if line >= 1 && line <= len(lines) {
			d.Snippet = strings.TrimRight(lines[line-1], "\r")
		}
	}
	return d
}

func identColumn(line, name string) int {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	loc := re.FindStringIndex(line)
	if loc == nil {
		return 1
	}
	return loc[0] + 1
}

// isOwnershipExempt reports whether v's declaring scope is nested inside a
// function whose name or return type matches an ownership-transfer rule.
func (m *memoryAnalyzer) isOwnershipExempt(nodes []*scope.Node, declScope *scope.Node) bool {
	if !m.cfg.CheckOwnershipTransfer {
		return false
	}
	for n := declScope; n != nil; {
		if n.Kind == scope.Function || n.Kind == scope.TestFunction {
			if n.Signature != nil && m.registry.IsOwnershipTransfer(n.Signature.Name, n.Signature.ReturnType) {
				return true
			}
			break
		}
		if n.IsRoot() {
			break
		}
		n = nodes[n.ParentID]
	}
	return false
}

func (m *memoryAnalyzer) checkMissingDefer(filePath string, lines []string, nodes []*scope.Node, declScope *scope.Node, v *scope.Variable, emit func(Diagnostic)) {
	if !m.cfg.CheckDefer {
		return
	}
	if v.CleanupKind == "defer" || v.OwnershipTransferred || v.IsArenaAllocated {
		return
	}
	if m.isOwnershipExempt(nodes, declScope) {
		return
	}
	col := identColumn(lineOrEmpty(lines, v.DeclLine), v.Name)
	allocator := v.AllocatorSource
	if allocator == "" {
		allocator = "an unresolved allocator"
	}
	d := m.diag(filePath, v.DeclLine, lines, MissingDefer, SeverityError,
		fmt.Sprintf("%q is allocated via %s but never released on this path", v.Name, allocator),
		fmt.Sprintf("add `defer %s.free(%s);` (or the matching release call) after the declaration", allocator, v.Name))
	d.Column = col
	emit(d)
}

func (m *memoryAnalyzer) checkMissingErrdefer(filePath string, lines []string, declScope *scope.Node, v *scope.Variable, emit func(Diagnostic)) {
	if !m.cfg.CheckDefer {
		return
	}
	if v.CleanupKind != "defer" || !v.OwnershipTransferred {
		return
	}
	hasLaterTry := false
	for _, tryLine := range declScope.TryLines {
		if tryLine > v.DeclLine {
			hasLaterTry = true
			break
		}
	}
	if !hasLaterTry {
		return
	}
	col := identColumn(lineOrEmpty(lines, v.DeclLine), v.Name)
	d := m.diag(filePath, v.DeclLine, lines, MissingErrdefer, SeverityWarning,
		fmt.Sprintf("%q is released with defer but a fallible operation later in this scope could leave it unreleased on the error path", v.Name),
		fmt.Sprintf("use `errdefer %s.free(%s);` in addition to, or instead of, the plain defer", v.AllocatorSource, v.Name))
	d.Column = col
	emit(d)
}

func (m *memoryAnalyzer) checkIncorrectAllocator(filePath string, lines []string, declScope *scope.Node, v *scope.Variable, emit func(Diagnostic)) {
	if !m.cfg.CheckAllocatorUsage || !m.registry.HasAllowList() {
		return
	}
	if v.AllocatorSource == scope.ParameterAllocatorSource {
		return
	}
	if m.cfg.TrackTestAllocations && declScope.Kind == scope.TestFunction && testAllocatorNames[v.AllocatorSource] {
		return
	}
	if m.registry.IsAllowed(v.AllocatorSource) {
		return
	}
	col := identColumn(lineOrEmpty(lines, v.DeclLine), v.Name)
	name := v.AllocatorSource
	if name == "" {
		name = "<unresolved>"
	}
	d := m.diag(filePath, v.DeclLine, lines, IncorrectAllocator, SeverityWarning,
		fmt.Sprintf("%q is allocated via %s, which is not in the configured allow list", v.Name, name),
		"allocate through one of the configured allowed_allocators instead")
	d.Column = col
	emit(d)
}

func (m *memoryAnalyzer) checkArenaInLibrary(filePath string, lines []string, tr *scope.Tracker, declScope *scope.Node, v *scope.Variable, emit func(Diagnostic)) {
	if !m.cfg.CheckArenaUsage || declScope.Kind != scope.Function {
		return
	}
	for _, ev := range tr.DeferEvents() {
		if ev.ScopeID == declScope.ID && ev.Method == "deinit" && ev.Target == v.Name {
			return
		}
	}
	col := identColumn(lineOrEmpty(lines, v.DeclLine), v.Name)
	d := m.diag(filePath, v.DeclLine, lines, ArenaInLibrary, SeverityWarning,
		fmt.Sprintf("arena %q is declared in a library function without a matching `defer %s.deinit();`", v.Name, v.Name),
		fmt.Sprintf("add `defer %s.deinit();` immediately after the arena is created", v.Name))
	d.Column = col
	emit(d)
}

func (m *memoryAnalyzer) checkAllocatorMismatch(filePath string, lines []string, tr *scope.Tracker, ev scope.DeferEvent, emit func(Diagnostic)) {
	if ev.Method != "free" && ev.Method != "destroy" {
		return
	}
	receiverName, resolved := m.registry.ResolveAllocator(ev.Receiver)
	if !resolved {
		return
	}
	v, _, ok := tr.Lookup(ev.ScopeID, ev.Target)
	if !ok || v.AllocatorSource == "" || v.AllocatorSource == receiverName {
		return
	}
	col := identColumn(lineOrEmpty(lines, ev.Line), ev.Target)
	d := m.diag(filePath, ev.Line, lines, AllocatorMismatch, SeverityWarning,
		fmt.Sprintf("%q was allocated via %s but is released via %s", ev.Target, v.AllocatorSource, receiverName),
		"release through the same allocator that produced the allocation")
	d.Column = col
	emit(d)
}

func lineOrEmpty(lines []string, n int) string {
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}
