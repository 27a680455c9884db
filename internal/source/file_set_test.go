package source

import "testing"

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("main.ts", []byte("let a = 1;\nlet b = 2;\nreturn a + b;\n"))

	start, end := fs.Resolve(Span{File: id, Start: 15, End: 16})
	if start.Line != 2 || start.Col != 5 {
		t.Fatalf("start = %+v, want line 2 col 5", start)
	}
	if end.Line != 2 || end.Col != 6 {
		t.Fatalf("end = %+v, want line 2 col 6", end)
	}
}

func TestFileSetGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.ts", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	tests := []struct {
		line uint32
		want string
	}{
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
		{0, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestFileSetLookupLatestWins(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("a.ts", []byte("old"))
	fs.AddVirtual("a.ts", []byte("new"))

	f, ok := fs.Lookup("a.ts")
	if !ok || string(f.Content) != "new" {
		t.Fatalf("Lookup returned stale content")
	}
	if _, ok := fs.Lookup("missing.ts"); ok {
		t.Fatalf("Lookup invented a file")
	}
}

func TestFileSetGetBounds(t *testing.T) {
	fs := NewFileSet()
	if fs.Get(FileID(3)) != nil {
		t.Fatalf("Get of unknown id returned a file")
	}
}

func TestJSONClassification(t *testing.T) {
	fs := NewFileSet()
	ts := fs.Get(fs.Add("src/a.ts", []byte("let x = 1;"), 0))
	js := fs.Get(fs.Add("src/d.json", []byte("{}"), FileJSON))
	if ts.IsJSON() {
		t.Fatalf("TSL source classified as JSON")
	}
	if !js.IsJSON() {
		t.Fatalf("JSON module not classified")
	}
}

func TestToLineColNoNewlines(t *testing.T) {
	lc := toLineCol(nil, 7)
	if lc.Line != 1 || lc.Col != 8 {
		t.Fatalf("toLineCol = %+v, want line 1 col 8", lc)
	}
}

func TestToLineColAfterNewlines(t *testing.T) {
	// "ab\ncd\nef" — newlines at 2 and 5
	idx := []uint32{2, 5}
	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // the newline ends line 1
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{7, LineCol{3, 2}},
	}
	for _, tt := range tests {
		if got := toLineCol(idx, tt.off); got != tt.want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
}
