package source

import "testing"

func TestSpanBasics(t *testing.T) {
	s := Span{File: 1, Start: 4, End: 10}
	if s.Empty() {
		t.Fatalf("span %v reported empty", s)
	}
	if got := s.Len(); got != 6 {
		t.Fatalf("Len() = %d, want 6", got)
	}
	if got := s.String(); got != "1:4-10" {
		t.Fatalf("String() = %q", got)
	}
}

func TestSpanOrdering(t *testing.T) {
	ref := Span{File: 0, Start: 4, End: 6}
	decl := Span{File: 0, Start: 20, End: 24}
	if !ref.StartsBefore(decl) {
		t.Fatalf("reference does not precede declaration")
	}
	if decl.StartsBefore(ref) {
		t.Fatalf("declaration precedes its forward reference")
	}
	if ref.StartsBefore(Span{File: 1, Start: 99, End: 100}) {
		t.Fatalf("spans from different files ordered")
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{File: 0, Start: 4, End: 6}
	for off, want := range map[uint32]bool{3: false, 4: true, 5: true, 6: false} {
		if got := s.Contains(off); got != want {
			t.Errorf("Contains(%d) = %v, want %v", off, got, want)
		}
	}
}

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Span
		want  Span
	}{
		{
			name: "extends right",
			a:    Span{File: 0, Start: 2, End: 5},
			b:    Span{File: 0, Start: 4, End: 9},
			want: Span{File: 0, Start: 2, End: 9},
		},
		{
			name: "extends left",
			a:    Span{File: 0, Start: 6, End: 8},
			b:    Span{File: 0, Start: 1, End: 7},
			want: Span{File: 0, Start: 1, End: 8},
		},
		{
			name: "different file ignored",
			a:    Span{File: 0, Start: 6, End: 8},
			b:    Span{File: 1, Start: 0, End: 100},
			want: Span{File: 0, Start: 6, End: 8},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Fatalf("Cover() = %v, want %v", got, tt.want)
			}
		})
	}
}
