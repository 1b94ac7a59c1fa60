package scope

// ParameterAllocatorSource is the synthetic allocator-source tag assigned to
// a function parameter whose declared type is an allocator handle, since the
// tracker has no caller-side information about which concrete allocator the
// caller actually passed in.
const ParameterAllocatorSource = "parameter_allocator"

// Variable is a single declaration tracked within one Node. It belongs to
// exactly one scope.
type Variable struct {
	// Name is unique within its declaring scope.
	Name string
	// DeclLine is the 1-indexed source line the declaration appeared on.
	DeclLine int
	// AllocatorSource is the resolved canonical name of the originating
	// allocator, or "" if unresolved.
	AllocatorSource string
	// IsArenaAllocated is true when this variable was obtained from an
	// arena, or from arena.allocator() of an arena-tracked variable.
	IsArenaAllocated bool
	// HasDeferCleanup is true once a defer/errdefer in the same or an
	// ancestor scope has been observed releasing this variable.
	HasDeferCleanup bool
	// OwnershipTransferred is true once the variable has been observed
	// flowing into a return statement, or into a field initializer of a
	// returned struct literal.
	OwnershipTransferred bool

	// IsAllocationSite is true when this variable was declared by an
	// allocation call (`.alloc`/`.create`/`.dupe`), as opposed to a
	// parameter-passed handle or an arena-method alias — only allocation
	// sites are candidates for missing_defer/missing_errdefer.
	IsAllocationSite bool
	// IsArenaDeclaration is true when this variable itself is the arena
	// struct instance (e.g. `var arena = ArenaAllocator.init(a)`), as
	// opposed to being an allocation sourced from one.
	IsArenaDeclaration bool
	// CleanupKind records which keyword produced HasDeferCleanup: "defer",
	// "errdefer", or "" if no cleanup has been observed. A plain defer
	// covers both the success and error paths; an errdefer alone covers
	// only the error path (see the library's errdefer-sufficiency policy).
	CleanupKind string
}
