package directive

import (
	"testing"

	"tstl/internal/diag"
	"tstl/internal/source"
)

func parse(t *testing.T, doc []string) ([]Directive, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(16)
	dirs := FromDoc(doc, source.Span{}, diag.BagReporter{Bag: bag})
	return dirs, bag
}

func TestFromDocTags(t *testing.T) {
	dirs, bag := parse(t, []string{
		"Does something useful.",
		"@noSelf",
		"@forRange",
	})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}
	if !Has(dirs, NoSelf) || !Has(dirs, ForRange) {
		t.Fatalf("directives not parsed: %+v", dirs)
	}
	if Has(dirs, TupleReturn) {
		t.Fatalf("phantom directive parsed")
	}
}

func TestFromDocArgs(t *testing.T) {
	dirs, _ := parse(t, []string{"@extension MyGlobal extra"})
	d, ok := Get(dirs, Extension)
	if !ok {
		t.Fatalf("extension directive missing")
	}
	if len(d.Args) != 2 || d.Args[0] != "MyGlobal" {
		t.Fatalf("args = %v", d.Args)
	}
}

func TestDeprecatedBangSyntax(t *testing.T) {
	dirs, bag := parse(t, []string{"!tupleReturn"})
	if !Has(dirs, TupleReturn) {
		t.Fatalf("bang directive not parsed")
	}
	if !bag.HasWarnings() {
		t.Fatalf("deprecated syntax produced no warning")
	}
	if bag.Items()[0].Code != diag.WarnDeprecatedDirectiveSyntax {
		t.Fatalf("wrong warning code: %v", bag.Items()[0].Code)
	}
}

func TestUnknownDirectiveWarned(t *testing.T) {
	dirs, bag := parse(t, []string{"@definitelyNotADirective"})
	if len(dirs) != 0 {
		t.Fatalf("unknown directive kept: %+v", dirs)
	}
	if !bag.HasWarnings() || bag.Items()[0].Code != diag.WarnUnknownDirective {
		t.Fatalf("unknown directive not warned")
	}
}
