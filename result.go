package zigtooling

// Result is the output of a single analysis call: every diagnostic found,
// in source order, plus summary counters.
type Result struct {
	Diagnostics    []Diagnostic
	FilesAnalyzed  int
	IssuesFound    int
	AnalysisTimeMs int64
}

// newResult builds a Result from a diagnostic slice, deriving IssuesFound
// from its length so the two can never disagree.
func newResult(diags []Diagnostic, filesAnalyzed int, elapsedMs int64) *Result {
	return &Result{
		Diagnostics:    diags,
		FilesAnalyzed:  filesAnalyzed,
		IssuesFound:    len(diags),
		AnalysisTimeMs: elapsedMs,
	}
}

// FreeResult exists for API symmetry with callers migrating from the
// original manual-memory-management implementation; Go's garbage collector
// makes it a no-op. It is always safe to call, including on nil.
func FreeResult(r *Result) {
	_ = r
}
