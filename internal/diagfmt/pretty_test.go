package diagfmt

import (
	"strings"
	"testing"

	"tstl/internal/diag"
	"tstl/internal/source"
)

func TestPrettyFrame(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.ts", []byte("let a = 1;\nthrow 42;\n"))

	bag := diag.NewBag(8)
	// span of "42" on line 2
	bag.Add(diag.NewError(diag.InvalidThrowExpression,
		source.Span{File: id, Start: 17, End: 19}, "only string values may be thrown"))
	bag.Sort()

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{Color: false, PathMode: "basename"})
	out := sb.String()

	for _, want := range []string{
		"main.ts:2:7: ERROR TL2012: only string values may be thrown",
		"throw 42;",
		"^^",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.ts", []byte("x\ny\n"))

	d := diag.NewError(diag.ReferencedBeforeDeclaration,
		source.Span{File: id, Start: 0, End: 1}, "'x' referenced before its declaration").
		WithNote(source.Span{File: id, Start: 2, End: 3}, "declared here")
	bag := diag.NewBag(8)
	bag.Add(d)

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{})
	if !strings.Contains(sb.String(), "note: main.ts:2:1: declared here") {
		t.Errorf("note not rendered:\n%s", sb.String())
	}
}
