package srcctx

import "sort"

type segment struct {
	startCol int // inclusive, 1-indexed
	endCol   int // exclusive, 1-indexed
	kind     Kind
}

// Map answers context queries for any (line, column) position of the file it
// was built from. Lines not touched by any non-code segment are implicitly
// entirely code.
type Map struct {
	segments map[int][]segment // line -> non-code segments, sorted by startCol
	lineLen  map[int]int       // line -> length in bytes, for LineIsEntirelyCode
}

func newMap() *Map {
	return &Map{
		segments: make(map[int][]segment),
		lineLen:  make(map[int]int),
	}
}

func (m *Map) addSegment(line, start, end int, kind Kind) {
	if end <= start {
		return
	}
	m.segments[line] = append(m.segments[line], segment{startCol: start, endCol: end, kind: kind})
}

func (m *Map) markLineEnd(line, col int) {
	if cur, ok := m.lineLen[line]; !ok || col > cur {
		m.lineLen[line] = col
	}
}

func (m *Map) finalize() {
	for line := range m.segments {
		segs := m.segments[line]
		sort.Slice(segs, func(i, j int) bool { return segs[i].startCol < segs[j].startCol })
		m.segments[line] = segs
	}
}

// Kind returns the context classification at (line, column). Columns outside
// any recorded non-code segment are Code.
func (m *Map) Kind(line, column int) Kind {
	segs := m.segments[line]
	// Segment counts per line are small (typically 0-2); linear scan is
	// simpler than a binary search and just as fast in practice.
	for _, s := range segs {
		if column >= s.startCol && column < s.endCol {
			return s.kind
		}
	}
	return Code
}

// IsInComment reports whether the position lies in any comment variant.
func (m *Map) IsInComment(line, column int) bool {
	return m.Kind(line, column).IsComment()
}

// IsInString reports whether the position lies in any string-like variant
// (including character literals and @embedFile arguments).
func (m *Map) IsInString(line, column int) bool {
	return m.Kind(line, column).IsString()
}

// LineIsEntirelyCode is a fast pre-filter: true when the given line has no
// non-code segment at all, letting callers skip per-column queries for the
// overwhelming majority of ordinary source lines.
func (m *Map) LineIsEntirelyCode(line int) bool {
	return len(m.segments[line]) == 0
}

// MaskCode returns line with every non-code byte position replaced by a
// space, preserving column alignment so downstream regexes keep reporting
// correct offsets while ignoring comment/string content entirely.
func (m *Map) MaskCode(line int, text string) string {
	if m.LineIsEntirelyCode(line) {
		return text
	}
	b := []byte(text)
	for _, s := range m.segments[line] {
		start := s.startCol - 1
		end := s.endCol - 1
		if start < 0 {
			start = 0
		}
		if end > len(b) {
			end = len(b)
		}
		for i := start; i < end; i++ {
			if b[i] != '\t' {
				b[i] = ' '
			}
		}
	}
	return string(b)
}
