package zigtooling

// Kind identifies the category of a reported issue. The set is closed: a
// Diagnostic's Kind is always one of these constants.
type Kind string

const (
	MissingDefer        Kind = "missing_defer"
	MemoryLeak          Kind = "memory_leak"
	DoubleFree          Kind = "double_free"
	UseAfterFree        Kind = "use_after_free"
	IncorrectAllocator  Kind = "incorrect_allocator"
	ArenaInLibrary      Kind = "arena_in_library"
	MissingErrdefer     Kind = "missing_errdefer"
	DeferInLoop         Kind = "defer_in_loop"
	OwnershipTransfer   Kind = "ownership_transfer"
	AllocatorMismatch   Kind = "allocator_mismatch"
	MissingTestCategory Kind = "missing_test_category"
	InvalidTestNaming   Kind = "invalid_test_naming"
	TestOutsideFile     Kind = "test_outside_file"
	MissingTestFile     Kind = "missing_test_file"
	OrphanedTest        Kind = "orphaned_test"
	MissingSourceFile   Kind = "missing_source_file"
	SourceWithoutTests  Kind = "source_without_tests"
	InvalidTestLocation Kind = "invalid_test_location"
	DuplicateTestName   Kind = "duplicate_test_name"
)

// Severity ranks how urgently a Diagnostic should be acted on.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is a single reported issue. Every string field is owned by the
// caller once a Result is returned: none of them alias internal analyzer
// state, so an Analyzer may be discarded before its Result is inspected.
type Diagnostic struct {
	FilePath   string
	Line       int
	Column     int
	Kind       Kind
	Severity   Severity
	Message    string
	Suggestion string
	Snippet    string
}

// Position returns the diagnostic's location as a Position value.
func (d *Diagnostic) Position() Position {
	return Position{Line: d.Line, Column: d.Column}
}
