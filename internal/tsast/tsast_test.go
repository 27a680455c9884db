package tsast

import "testing"

func sample() *SourceFile {
	return &SourceFile{
		Path: "main.ts",
		Stmts: []Stmt{
			&VarStmt{Decls: []*VarDecl{{
				Name: &Ident{Text: "a"},
				Init: &NumberLit{Value: 1},
			}}},
			&ExprStmt{E: &Call{
				Callee: &Ident{Text: "f"},
				Args:   []Expr{&Ident{Text: "a"}},
			}},
		},
	}
}

func TestIndexAssignsDepthFirstIDs(t *testing.T) {
	file := sample()
	reg := Index(file)

	if file.ID != 1 {
		t.Fatalf("root id = %d, want 1", file.ID)
	}
	// depth-first left-to-right: every child id exceeds its parent's
	var check func(n Node)
	check = func(n Node) {
		for _, c := range n.Children() {
			if c == nil {
				continue
			}
			if c.Base().ID <= n.Base().ID {
				t.Fatalf("child id %d not greater than parent id %d", c.Base().ID, n.Base().ID)
			}
			check(c)
		}
	}
	check(file)

	// file, var stmt, declarator, name, init, expr stmt, call, callee, arg
	if reg.Len() != 9 {
		t.Fatalf("indexed %d nodes", reg.Len())
	}
}

func TestIndexIsIdempotent(t *testing.T) {
	file := sample()
	Index(file)
	firstIDs := collectIDs(file)
	Index(file)
	secondIDs := collectIDs(file)
	for i := range firstIDs {
		if firstIDs[i] != secondIDs[i] {
			t.Fatalf("re-indexing changed ids: %v vs %v", firstIDs, secondIDs)
		}
	}
}

func collectIDs(file *SourceFile) []NodeID {
	var ids []NodeID
	var walk func(n Node)
	walk = func(n Node) {
		ids = append(ids, n.Base().ID)
		for _, c := range n.Children() {
			if c != nil {
				walk(c)
			}
		}
	}
	walk(file)
	return ids
}

func TestRegistryLookup(t *testing.T) {
	file := sample()
	reg := Index(file)

	if reg.Lookup(file.ID) != Node(file) {
		t.Fatalf("root lookup failed")
	}
	if reg.Lookup(NoNodeID) != nil {
		t.Fatalf("NoNodeID resolved")
	}
	if reg.Lookup(NodeID(999)) != nil {
		t.Fatalf("out-of-range id resolved")
	}
}

func TestCompoundOps(t *testing.T) {
	if !BinAddAssign.IsAssignment() || !BinAddAssign.IsCompoundAssignment() {
		t.Fatalf("+= misclassified")
	}
	if BinAssign.IsCompoundAssignment() {
		t.Fatalf("= classified as compound")
	}
	if BinAdd.IsAssignment() {
		t.Fatalf("+ classified as assignment")
	}
	if BinUshrAssign.UnderlyingOp() != BinUshr {
		t.Fatalf(">>>= underlying op = %v", BinUshrAssign.UnderlyingOp())
	}
}
