package scope

import (
	"testing"

	"tstl/internal/symbols"
	"tstl/internal/tsast"
)

func TestStackPushPop(t *testing.T) {
	st := NewStack()
	file := st.Push(File)
	fn := st.Push(Function)

	if st.Depth() != 2 {
		t.Fatalf("Depth = %d", st.Depth())
	}
	if file.ID == fn.ID {
		t.Fatalf("scope ids not unique")
	}
	if got := st.Pop(); got != fn {
		t.Fatalf("Pop returned wrong scope")
	}
	if got := st.Peek(); got != file {
		t.Fatalf("Peek returned wrong scope")
	}
}

func TestFindNearestMask(t *testing.T) {
	st := NewStack()
	st.Push(File)
	loop := st.Push(Loop)
	st.Push(Conditional)

	if got := st.FindNearest(Loop | Switch); got != loop {
		t.Fatalf("FindNearest(Loop|Switch) = %+v", got)
	}
	if st.FindNearest(Try) != nil {
		t.Fatalf("found a try scope that does not exist")
	}
	if !st.Inside(File) {
		t.Fatalf("Inside(File) = false")
	}
}

func TestFileScopeAtBottom(t *testing.T) {
	st := NewStack()
	st.Push(File)
	st.Push(Block)
	if st.FileScope() == nil {
		t.Fatalf("file scope not found at bottom")
	}

	other := NewStack()
	other.Push(Function)
	if other.FileScope() != nil {
		t.Fatalf("non-file bottom reported as file scope")
	}
}

func TestAddReferencePropagates(t *testing.T) {
	st := NewStack()
	outer := st.Push(File)
	inner := st.Push(Function)

	site := &tsast.Ident{Text: "x"}
	st.AddReference(symbols.ID(7), site)

	if !outer.HasReference(7) || !inner.HasReference(7) {
		t.Fatalf("reference not recorded on all scopes")
	}
	if len(inner.References[7]) != 1 {
		t.Fatalf("reference site list = %v", inner.References[7])
	}
	st.AddReference(symbols.NoID, site)
	if outer.HasReference(symbols.NoID) {
		t.Fatalf("NoID recorded")
	}
}
