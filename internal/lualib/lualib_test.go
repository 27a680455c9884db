package lualib

import (
	"strings"
	"testing"
)

func TestRegistryDependencies(t *testing.T) {
	r := NewRegistry()
	r.Use(Iterator)
	if !r.Has(SymbolFeature) {
		t.Fatalf("Iterator did not pull in Symbol")
	}

	r2 := NewRegistry()
	r2.Use(Map)
	for _, want := range []Feature{Map, Iterator, SymbolFeature} {
		if !r2.Has(want) {
			t.Fatalf("Map registry missing %s", want)
		}
	}
}

func TestRegistryDeterministicOrder(t *testing.T) {
	r := NewRegistry()
	r.Use(StringSplit)
	r.Use(ArrayPush)
	r.Use(Decorate)
	got := r.Features()
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("features not sorted: %v", got)
		}
	}
}

func TestRegistryMerge(t *testing.T) {
	a := NewRegistry()
	a.Use(ArrayPush)
	b := NewRegistry()
	b.Use(StringSplit)
	a.Merge(b)
	if !a.Has(StringSplit) || !a.Has(ArrayPush) {
		t.Fatalf("merge lost features")
	}
}

func TestLoadEveryFeature(t *testing.T) {
	for _, f := range AllFeatures() {
		src, err := LoadFeature(f)
		if err != nil {
			t.Fatalf("LoadFeature(%s): %v", f, err)
		}
		if strings.TrimSpace(src) == "" {
			t.Fatalf("feature %s is empty", f)
		}
	}
}

func TestBundleClosesDependencies(t *testing.T) {
	bundle, err := Bundle([]Feature{Iterator})
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	if !strings.Contains(bundle, "__TS__Iterator") {
		t.Fatalf("bundle missing iterator")
	}
	if !strings.Contains(bundle, "__TS__Symbol") {
		t.Fatalf("bundle missing symbol dependency")
	}
}

func TestParseImportKind(t *testing.T) {
	tests := []struct {
		in   string
		want ImportKind
		ok   bool
	}{
		{"inline", ImportInline, true},
		{"", ImportInline, true},
		{"require", ImportRequire, true},
		{"always", ImportAlways, true},
		{"none", ImportNone, true},
		{"bogus", ImportInline, false},
	}
	for _, tt := range tests {
		got, ok := ParseImportKind(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseImportKind(%q) = (%v, %v)", tt.in, got, ok)
		}
	}
}
