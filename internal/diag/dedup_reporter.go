package diag

import "tstl/internal/source"

// siteKey identifies one diagnostic occurrence. Severity is not part of
// the key: every code in the closed set has a fixed severity, so code
// plus site plus message pins the occurrence down.
type siteKey struct {
	code Code
	file source.FileID
	off  uint32
	msg  string
}

// DedupReporter suppresses repeat emissions before they reach the bag.
// The directive table re-parses a symbol's doc comment at every reference
// the cache misses, so without this filter a single '!tupleReturn' line
// warns once per call site of its function.
type DedupReporter struct {
	next Reporter
	seen map[siteKey]struct{}
}

// NewDedupReporter wraps next with per-site duplicate suppression. One
// instance covers one file's transformation.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[siteKey]struct{}),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil || r.next == nil {
		return
	}
	key := siteKey{code: code, file: primary.File, off: primary.Start, msg: msg}
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}
	r.next.Report(code, sev, primary, msg, notes)
}
