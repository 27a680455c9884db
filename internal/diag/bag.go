package diag

import (
	"cmp"
	"slices"
)

// Bag accumulates one file's diagnostics up to a limit. The transformer
// aborts a file on its first error, so a bag usually holds at most one
// error plus the directive warnings collected on the way there; the limit
// exists for hosts that keep feeding files after failures.
type Bag struct {
	items   []Diagnostic
	limit   int
	dropped int
}

// NewBag creates a bag that keeps at most limit diagnostics.
func NewBag(limit int) *Bag {
	return &Bag{limit: limit}
}

// Add appends d unless the limit is reached, in which case d is counted
// as dropped and false is returned.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.limit {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Dropped returns how many diagnostics the limit discarded; the CLI
// reports the count so truncation is never silent.
func (b *Bag) Dropped() int {
	return b.dropped
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the accumulated diagnostics. The slice aliases the bag's
// storage and must not be modified.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// ErrorCount counts the fatal diagnostics.
func (b *Bag) ErrorCount() int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity.Fatal() {
			n++
		}
	}
	return n
}

// WarningCount counts the warning diagnostics.
func (b *Bag) WarningCount() int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == SevWarning {
			n++
		}
	}
	return n
}

// HasErrors reports whether the file failed: any fatal diagnostic means
// no Lua output was emitted for it.
func (b *Bag) HasErrors() bool {
	return b.ErrorCount() > 0
}

// HasWarnings reports whether any non-fatal findings were collected.
func (b *Bag) HasWarnings() bool {
	return b.WarningCount() > 0
}

// Merge folds another bag in, growing the limit so nothing already
// collected is lost. The host merges per-file bags for the build summary.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); total > b.limit {
		b.limit = total
	}
	b.items = append(b.items, other.items...)
	b.dropped += other.dropped
}

// Sort orders diagnostics by file, span, severity (errors first within a
// span) and code, so output and golden files are deterministic.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, compareDiagnostics)
}

func compareDiagnostics(a, b Diagnostic) int {
	if c := cmp.Compare(a.Primary.File, b.Primary.File); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Primary.Start, b.Primary.Start); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Primary.End, b.Primary.End); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Severity, a.Severity); c != 0 {
		return c
	}
	return cmp.Compare(a.Code, b.Code)
}

// Dedup collapses diagnostics sharing code and primary span. Directive
// warnings are the usual offenders: one bad doc comment fires once per
// reference of its symbol, always at the same declaration span.
func (b *Bag) Dedup() {
	type key struct {
		code  Code
		file  uint32
		start uint32
		end   uint32
	}
	seen := make(map[key]struct{}, len(b.items))
	kept := b.items[:0]
	for _, d := range b.items {
		k := key{code: d.Code, file: uint32(d.Primary.File), start: d.Primary.Start, end: d.Primary.End}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, d)
	}
	b.items = kept
}
