package symbols

import (
	"testing"

	"tstl/internal/source"
	"tstl/internal/typeoracle"
)

func TestTrackerMintsStableIDs(t *testing.T) {
	tr := NewTracker(Hints{Symbols: 4})
	a := &typeoracle.Symbol{Name: "a"}
	b := &typeoracle.Symbol{Name: "b"}

	idA, fresh := tr.Track(a, source.Span{Start: 10, End: 11})
	if !fresh || idA == NoID {
		t.Fatalf("first Track = (%d, %v)", idA, fresh)
	}
	idB, _ := tr.Track(b, source.Span{Start: 20, End: 21})
	if idA == idB {
		t.Fatalf("distinct symbols share an id")
	}

	again, fresh := tr.Track(a, source.Span{Start: 99, End: 100})
	if fresh || again != idA {
		t.Fatalf("re-track changed the id: %d vs %d", again, idA)
	}
	// first-seen position is immutable
	if info := tr.Info(idA); info.FirstSeen.Start != 10 {
		t.Fatalf("FirstSeen mutated: %+v", info.FirstSeen)
	}
}

func TestTrackerNil(t *testing.T) {
	tr := NewTracker(Hints{})
	if id, _ := tr.Track(nil, source.Span{}); id != NoID {
		t.Fatalf("nil symbol minted id %d", id)
	}
	if tr.Info(NoID) != nil {
		t.Fatalf("Info(NoID) non-nil")
	}
}

type fakeOracle struct {
	typeoracle.Oracle
	exports map[*typeoracle.Symbol]map[string]*typeoracle.Symbol
}

func (f *fakeOracle) ExportsOf(scope *typeoracle.Symbol) map[string]*typeoracle.Symbol {
	return f.exports[scope]
}

func TestIsExported(t *testing.T) {
	file := &typeoracle.Symbol{Name: "main.ts", Flags: typeoracle.SymExportScope}
	exported := &typeoracle.Symbol{Name: "f", Parent: file}
	private := &typeoracle.Symbol{Name: "g", Parent: file}

	oracle := &fakeOracle{exports: map[*typeoracle.Symbol]map[string]*typeoracle.Symbol{
		file: {"f": exported},
	}}

	if !IsExported(oracle, exported) {
		t.Fatalf("exported symbol not detected")
	}
	if IsExported(oracle, private) {
		t.Fatalf("private symbol detected as exported")
	}
	if ExportScopeOf(oracle, exported) != file {
		t.Fatalf("wrong export scope")
	}
	if ExportScopeOf(oracle, private) != nil {
		t.Fatalf("private symbol has export scope")
	}
}
