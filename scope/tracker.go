package scope

import (
	"regexp"
	"strings"

	"github.com/scoomboot/zig-tooling/pattern"
	"github.com/scoomboot/zig-tooling/srcctx"
)

// Options configures a Tracker's bookkeeping.
type Options struct {
	// TrackArena enables arena-aliasing bookkeeping. Disabling it leaves
	// every allocation's IsArenaAllocated false.
	TrackArena bool
	// TrackDefer enables defer/errdefer cleanup bookkeeping. Disabling it
	// leaves every allocation's HasDeferCleanup false.
	TrackDefer bool
	// MaxDepth caps scope nesting; 0 means unlimited. Scopes opened past
	// the cap are attributed to the last permitted scope rather than
	// rejected outright.
	MaxDepth int
}

// DeferEvent records one recognized defer/errdefer statement.
type DeferEvent struct {
	Line     int
	ScopeID  int
	Keyword  string // "defer" or "errdefer"
	Receiver string // identifier left of the dot
	Method   string // "free", "destroy", or "deinit"
	Target   string // variable released: the call argument, or Receiver itself for deinit
	InLoop   bool
}

// Tracker builds a scope tree and variable tables in a single forward pass
// over a file's lines.
type Tracker struct {
	opts        Options
	registry    *pattern.Registry
	nodes       []*Node
	stack       []int
	deferEvents []DeferEvent
}

// NewTracker returns a Tracker ready to process a file's lines in order.
// registry resolves allocator and ownership patterns encountered while
// walking; it is typically shared with the Memory Analyzer driving the same
// analysis call.
func NewTracker(opts Options, registry *pattern.Registry) *Tracker {
	t := &Tracker{opts: opts, registry: registry}
	t.Reset()
	return t
}

// Reset discards all scope and variable state so a single Tracker instance
// can analyze many files in sequence without carrying state between them.
func (t *Tracker) Reset() {
	t.nodes = nil
	t.stack = nil
	t.deferEvents = nil
	root := newNode(0, Generic, "file", 1, rootParentID)
	t.nodes = append(t.nodes, root)
	t.stack = append(t.stack, 0)
}

// Nodes returns every scope node created so far, indexed by id.
func (t *Tracker) Nodes() []*Node { return t.nodes }

// Root returns the file's root scope.
func (t *Tracker) Root() *Node { return t.nodes[0] }

// DeferEvents returns every defer/errdefer statement recognized so far.
func (t *Tracker) DeferEvents() []DeferEvent { return t.deferEvents }

// Finish closes any scopes still open at EOF (malformed or truncated input)
// at the given final line, so every node ends up with a non-negative
// EndLine.
func (t *Tracker) Finish(lastLine int) {
	for len(t.stack) > 1 {
		t.closeScope(lastLine)
	}
	t.nodes[0].EndLine = lastLine
}

func (t *Tracker) top() *Node {
	return t.nodes[t.stack[len(t.stack)-1]]
}

// Lookup walks from scopeID outward, returning the first Variable named name
// it finds — inner declarations shadow outer ones.
func (t *Tracker) Lookup(scopeID int, name string) (*Variable, int, bool) {
	id := scopeID
	for id != rootParentID {
		node := t.nodes[id]
		if v, ok := node.Variable(name); ok {
			return v, id, true
		}
		id = node.ParentID
	}
	return nil, -1, false
}

// ProcessLine advances the tracker by one source line. ctx masks out
// comment/string regions so pattern matching below never reacts to quoted
// or commented-out text.
func (t *Tracker) ProcessLine(lineNum int, rawText string, ctx *srcctx.Map) {
	masked := rawText
	if !ctx.LineIsEntirelyCode(lineNum) {
		masked = ctx.MaskCode(lineNum, rawText)
	}

	t.scanBraces(lineNum, masked, rawText)

	if t.opts.TrackArena {
		t.detectArenaInit(lineNum, masked)
		t.detectArenaAlias(lineNum, masked)
	}
	t.detectAllocation(lineNum, masked)
	if t.opts.TrackDefer {
		t.detectDefer(lineNum, masked)
	}
	t.detectReturnOwnership(lineNum, masked)
	t.detectTry(lineNum, masked)
}

// scanBraces recognizes scope openers and closers on one line, in order,
// handling multiple braces on a single line (e.g. `} else if (x) {`). Braces
// are found in the masked text; the same span of the raw text is kept so a
// test declaration's quoted name survives masking.
func (t *Tracker) scanBraces(lineNum int, masked, raw string) {
	lastBoundary := 0
	for i := 0; i < len(masked); i++ {
		switch masked[i] {
		case '{':
			segment := masked[lastBoundary:i]
			t.openFromSegment(lineNum, segment, raw[lastBoundary:i])
			lastBoundary = i + 1
		case '}':
			t.closeScope(lineNum)
			lastBoundary = i + 1
		case ';':
			lastBoundary = i + 1
		}
	}
}

func (t *Tracker) openFromSegment(lineNum int, segment, rawSegment string) {
	kind, sig, hasSig, testName, hasTestName := classifyOpener(segment, rawSegment)
	name := ""
	switch {
	case hasSig:
		name = sig.Name
	case hasTestName:
		name = testName
	}
	node := t.openScope(kind, name, lineNum)
	if hasSig {
		s := sig
		node.Signature = &s
		if kind == Function {
			for _, p := range sig.Params {
				if p.Name != "" && IsAllocatorType(p.Type) {
					node.declare(&Variable{
						Name:            p.Name,
						DeclLine:        lineNum,
						AllocatorSource: ParameterAllocatorSource,
					})
				}
			}
		}
	}
}

func (t *Tracker) openScope(kind Kind, name string, startLine int) *Node {
	parentID := rootParentID
	if len(t.stack) > 0 {
		parentID = t.stack[len(t.stack)-1]
	}
	if t.opts.MaxDepth > 0 && len(t.stack) >= t.opts.MaxDepth {
		t.stack = append(t.stack, parentID)
		return t.nodes[parentID]
	}
	id := len(t.nodes)
	node := newNode(id, kind, name, startLine, parentID)
	t.nodes = append(t.nodes, node)
	if parentID != rootParentID {
		t.nodes[parentID].Children = append(t.nodes[parentID].Children, id)
	}
	t.stack = append(t.stack, id)
	return node
}

func (t *Tracker) closeScope(endLine int) {
	if len(t.stack) <= 1 {
		return
	}
	id := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	t.nodes[id].EndLine = endLine
}

var (
	reWhile   = regexp.MustCompile(`\bwhile\s*\(`)
	reFor     = regexp.MustCompile(`\bfor\s*\(`)
	reSwitch  = regexp.MustCompile(`\bswitch\s*\(`)
	reIf      = regexp.MustCompile(`\bif\s*\(`)
	reCaseArm = regexp.MustCompile(`=>\s*$`)
	reTail    = regexp.MustCompile(`(\.?[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\s*$`)
)

// classifyOpener determines what kind of scope the text immediately
// preceding an opening brace introduces. rawSegment is the same span before
// masking, used only to read a test declaration's quoted name.
func classifyOpener(segment, rawSegment string) (kind Kind, sig Signature, hasSig bool, testName string, hasTestName bool) {
	if s, ok := ParseFunctionHeader(segment); ok {
		return Function, s, true, "", false
	}
	if name, ok := ParseTestHeader(rawSegment); ok {
		return TestFunction, Signature{}, false, name, true
	}

	trimmed := strings.TrimSpace(segment)
	switch {
	case strings.HasPrefix(trimmed, "inline"):
		return Inline, Signature{}, false, "", false
	case strings.HasPrefix(trimmed, "comptime"):
		return Comptime, Signature{}, false, "", false
	case strings.HasPrefix(trimmed, "else"):
		return Else, Signature{}, false, "", false
	case reWhile.MatchString(trimmed):
		return WhileLoop, Signature{}, false, "", false
	case reFor.MatchString(trimmed):
		return ForLoop, Signature{}, false, "", false
	case reSwitch.MatchString(trimmed):
		return Switch, Signature{}, false, "", false
	case reIf.MatchString(trimmed):
		return If, Signature{}, false, "", false
	case strings.Contains(trimmed, "catch"), strings.HasPrefix(trimmed, "errdefer"):
		return ErrorBlock, Signature{}, false, "", false
	case reCaseArm.MatchString(trimmed):
		return Case, Signature{}, false, "", false
	}

	if isStructInitOpener(trimmed) {
		return StructInit, Signature{}, false, "", false
	}
	return Generic, Signature{}, false, "", false
}

func isStructInitOpener(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	tail := reTail.FindString(trimmed)
	if tail == "" {
		return false
	}
	if tail == "." {
		return true
	}
	tail = strings.TrimPrefix(tail, ".")
	r := rune(tail[0])
	return r >= 'A' && r <= 'Z'
}

var (
	reAlloc      = regexp.MustCompile(`(?:const|var)\s+([A-Za-z_]\w*)\s*=\s*(?:try\s+)?([A-Za-z_][\w.]*)\.(alloc\w*|create|dupe\w*)\s*\(`)
	reArenaAlias = regexp.MustCompile(`(?:const|var)\s+([A-Za-z_]\w*)\s*=\s*([A-Za-z_]\w*)\.allocator\s*\(\s*\)`)
	reArenaInit  = regexp.MustCompile(`(?:const|var)\s+([A-Za-z_]\w*)\s*=\s*(?:std\.heap\.)?ArenaAllocator\.init\s*\(`)
	reDeferFree  = regexp.MustCompile(`^(defer|errdefer)\s+([A-Za-z_][\w.]*)\.(free|destroy)\s*\(\s*([A-Za-z_]\w*)`)
	reDeferDeinit = regexp.MustCompile(`^(defer|errdefer)\s+([A-Za-z_][\w.]*)\.deinit\s*\(`)
	reReturn     = regexp.MustCompile(`^return\b(.*)$`)
	reIdent      = regexp.MustCompile(`[A-Za-z_]\w*`)
	reTry        = regexp.MustCompile(`\btry\b`)
)

func (t *Tracker) detectAllocation(line int, text string) {
	m := reAlloc.FindStringSubmatch(text)
	if m == nil {
		return
	}
	varName, allocExpr := m[1], m[2]
	top := t.top()

	name, resolved := t.registry.ResolveAllocator(allocExpr)
	isArena := false
	if v, _, ok := t.Lookup(top.ID, allocExpr); ok {
		isArena = v.IsArenaAllocated || v.IsArenaDeclaration || strings.Contains(v.AllocatorSource, "ArenaAllocator")
		if !resolved && (isArena || v.AllocatorSource == ParameterAllocatorSource) {
			name = v.AllocatorSource
		}
	}
	top.declare(&Variable{
		Name:             varName,
		DeclLine:         line,
		AllocatorSource:  name,
		IsArenaAllocated: t.opts.TrackArena && isArena,
		IsAllocationSite: true,
	})
}

func (t *Tracker) detectArenaAlias(line int, text string) {
	m := reArenaAlias.FindStringSubmatch(text)
	if m == nil {
		return
	}
	aliasName, arenaName := m[1], m[2]
	top := t.top()
	v, _, ok := t.Lookup(top.ID, arenaName)
	if !ok {
		return
	}
	if !(v.IsArenaDeclaration || v.IsArenaAllocated || strings.Contains(v.AllocatorSource, "ArenaAllocator")) {
		return
	}
	top.declare(&Variable{
		Name:             aliasName,
		DeclLine:         line,
		AllocatorSource:  v.AllocatorSource,
		IsArenaAllocated: true,
	})
}

func (t *Tracker) detectArenaInit(line int, text string) {
	m := reArenaInit.FindStringSubmatch(text)
	if m == nil {
		return
	}
	t.top().declare(&Variable{
		Name:               m[1],
		DeclLine:           line,
		AllocatorSource:    "std.heap.ArenaAllocator",
		IsArenaDeclaration: true,
	})
}

func (t *Tracker) detectDefer(line int, text string) {
	trimmed := strings.TrimSpace(text)
	var keyword, receiver, method, target string
	if m := reDeferFree.FindStringSubmatch(trimmed); m != nil {
		keyword, receiver, method, target = m[1], m[2], m[3], m[4]
	} else if m := reDeferDeinit.FindStringSubmatch(trimmed); m != nil {
		keyword, receiver, method, target = m[1], m[2], "deinit", m[2]
	} else {
		return
	}

	top := t.top()
	t.deferEvents = append(t.deferEvents, DeferEvent{
		Line:     line,
		ScopeID:  top.ID,
		Keyword:  keyword,
		Receiver: receiver,
		Method:   method,
		Target:   target,
		InLoop:   top.Kind.IsLoop(),
	})

	if v, _, ok := t.Lookup(top.ID, target); ok {
		v.HasDeferCleanup = true
		if v.CleanupKind == "" || keyword == "defer" {
			v.CleanupKind = keyword
		}
	}
}

func (t *Tracker) detectReturnOwnership(line int, text string) {
	trimmed := strings.TrimSpace(text)
	m := reReturn.FindStringSubmatch(trimmed)
	if m == nil {
		return
	}
	top := t.top()
	for _, tok := range reIdent.FindAllString(m[1], -1) {
		if tok == "try" {
			continue
		}
		if v, _, ok := t.Lookup(top.ID, tok); ok {
			v.OwnershipTransferred = true
		}
	}
}

func (t *Tracker) detectTry(line int, text string) {
	if reTry.MatchString(text) {
		top := t.top()
		top.TryLines = append(top.TryLines, line)
	}
}
