package diag

import (
	"testing"

	"tstl/internal/source"
)

func span(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(InvalidThrowExpression, span(0, 0, 1), "a")) {
		t.Fatalf("first Add rejected")
	}
	if !b.Add(NewError(InvalidThrowExpression, span(0, 1, 2), "b")) {
		t.Fatalf("second Add rejected")
	}
	if b.Add(NewError(InvalidThrowExpression, span(0, 2, 3), "c")) {
		t.Fatalf("Add beyond limit accepted")
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	if b.Dropped() != 1 {
		t.Fatalf("Dropped = %d, want 1", b.Dropped())
	}
}

func TestBagCounts(t *testing.T) {
	b := NewBag(8)
	b.Add(NewError(UnsupportedKind, span(0, 0, 1), "e1"))
	b.Add(NewError(MissingClassName, span(0, 2, 3), "e2"))
	b.Add(NewWarning(WarnUnknownDirective, span(0, 4, 5), "w"))
	if b.ErrorCount() != 2 || b.WarningCount() != 1 {
		t.Fatalf("counts = (%d, %d), want (2, 1)", b.ErrorCount(), b.WarningCount())
	}
}

func TestBagMergeCarriesDropped(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(UnsupportedKind, span(0, 0, 1), "kept"))
	a.Add(NewError(UnsupportedKind, span(0, 1, 2), "dropped"))

	b := NewBag(4)
	b.Merge(a)
	b.Merge(nil)
	if b.Len() != 1 || b.Dropped() != 1 {
		t.Fatalf("merge = (len %d, dropped %d)", b.Len(), b.Dropped())
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag(8)
	b.Add(NewWarning(WarnUnknownDirective, span(0, 0, 1), "unknown directive"))
	if b.HasErrors() {
		t.Fatalf("warning counted as error")
	}
	if !b.HasWarnings() {
		t.Fatalf("warning not detected")
	}
	b.Add(NewError(UnsupportedKind, span(0, 0, 1), "boom"))
	if !b.HasErrors() {
		t.Fatalf("error not detected")
	}
}

func TestBagSortDeterministic(t *testing.T) {
	b := NewBag(8)
	b.Add(NewError(MissingClassName, span(0, 10, 12), "late"))
	b.Add(NewError(UnsupportedKind, span(0, 2, 4), "early"))
	b.Add(NewWarning(WarnUnknownDirective, span(0, 2, 4), "warn"))
	b.Sort()

	items := b.Items()
	if items[0].Message != "early" {
		t.Fatalf("sort: first = %q", items[0].Message)
	}
	// same span: error sorts before warning
	if items[1].Message != "warn" {
		t.Fatalf("sort: second = %q", items[1].Message)
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(8)
	d := NewError(ForbiddenForIn, span(0, 5, 9), "for-in over array")
	b.Add(d)
	b.Add(d)
	b.Dedup()
	if b.Len() != 1 {
		t.Fatalf("Dedup left %d items", b.Len())
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(8)
	r := NewDedupReporter(BagReporter{Bag: b})
	for range 3 {
		ReportWarning(r, WarnDeprecatedDirectiveSyntax, span(0, 0, 4), "old '!' directive")
	}
	if b.Len() != 1 {
		t.Fatalf("dedup reporter let through %d", b.Len())
	}
}

func TestCodeString(t *testing.T) {
	if got := InvalidThrowExpression.String(); got != "TL2012" {
		t.Fatalf("Code.String() = %q", got)
	}
}
