package statictypes

import (
	"testing"

	"tstl/internal/tsast"
	"tstl/internal/typeoracle"
)

func bindFile(t *testing.T, stmts []tsast.Stmt) (*Checker, *tsast.SourceFile, *typeoracle.Symbol) {
	t.Helper()
	file := &tsast.SourceFile{Path: "main.ts", Stmts: stmts}
	tsast.Index(file)
	c := NewChecker()
	fileSym := c.Bind(file)
	return c, file, fileSym
}

func TestBindResolvesReferences(t *testing.T) {
	decl := &tsast.VarDecl{Name: &tsast.Ident{Text: "a"}, Type: "number[]"}
	ref := &tsast.Ident{Text: "a"}
	c, file, fileSym := bindFile(t, []tsast.Stmt{
		&tsast.VarStmt{Decls: []*tsast.VarDecl{decl}},
		&tsast.ExprStmt{E: ref},
	})

	if c.SymbolOf(file) != fileSym {
		t.Fatalf("file symbol not recorded")
	}
	declSym := c.SymbolOf(decl.Name.(*tsast.Ident))
	if declSym == nil || c.SymbolOf(ref) != declSym {
		t.Fatalf("reference did not resolve to declaration symbol")
	}
	if typ := c.TypeOf(ref); !typ.IsArray() || typ.Elem.Kind != typeoracle.KindNumber {
		t.Fatalf("declared type not propagated: %v", typ)
	}
}

func TestBindExports(t *testing.T) {
	c, _, fileSym := bindFile(t, []tsast.Stmt{
		&tsast.VarStmt{Exported: true, Decls: []*tsast.VarDecl{{Name: &tsast.Ident{Text: "v"}}}},
		&tsast.VarStmt{Decls: []*tsast.VarDecl{{Name: &tsast.Ident{Text: "w"}}}},
	})
	exports := c.ExportsOf(fileSym)
	if _, ok := exports["v"]; !ok {
		t.Fatalf("exported symbol missing from export table")
	}
	if _, ok := exports["w"]; ok {
		t.Fatalf("private symbol present in export table")
	}
}

func TestBindForwardReferenceResolves(t *testing.T) {
	ref := &tsast.Ident{Text: "f"}
	fnName := &tsast.Ident{Text: "f"}
	c, _, _ := bindFile(t, []tsast.Stmt{
		&tsast.ExprStmt{E: &tsast.Call{Callee: ref}},
		&tsast.FunctionDecl{Name: fnName, Body: &tsast.Block{}},
	})
	if c.SymbolOf(ref) == nil || c.SymbolOf(ref) != c.SymbolOf(fnName) {
		t.Fatalf("forward reference resolved to a different symbol")
	}
}

func TestBindConstEnumValues(t *testing.T) {
	access := &tsast.PropertyAccess{Expr: &tsast.Ident{Text: "E"}, Name: "B"}
	c, _, _ := bindFile(t, []tsast.Stmt{
		&tsast.EnumDecl{Name: &tsast.Ident{Text: "E"}, Const: true, Members: []*tsast.EnumMember{
			{Name: "A"},
			{Name: "B"},
		}},
		&tsast.ExprStmt{E: access},
	})
	v, ok := c.ConstantValueOf(access)
	if !ok || v.IsString || v.Num != 1 {
		t.Fatalf("const enum member value = (%+v, %v)", v, ok)
	}
}

func TestBindClassMembers(t *testing.T) {
	class := &tsast.ClassDecl{Name: &tsast.Ident{Text: "C"}, Members: []*tsast.ClassMember{
		{Kind: tsast.MemberProperty, Name: "n", Type: "number"},
		{Kind: tsast.MemberMethod, Name: "m", ReturnType: "string",
			Body: &tsast.Block{}},
	}}
	newExpr := &tsast.New{Callee: &tsast.Ident{Text: "C"}}
	accessN := &tsast.PropertyAccess{Expr: &tsast.Ident{Text: "c"}, Name: "n"}
	callM := &tsast.Call{Callee: &tsast.PropertyAccess{Expr: &tsast.Ident{Text: "c"}, Name: "m"}}

	c, _, _ := bindFile(t, []tsast.Stmt{
		class,
		&tsast.VarStmt{Decls: []*tsast.VarDecl{{Name: &tsast.Ident{Text: "c"}, Init: newExpr}}},
		&tsast.ExprStmt{E: accessN},
		&tsast.ExprStmt{E: callM},
	})

	if typ := c.TypeOf(newExpr); typ == nil || typ.Kind != typeoracle.KindClass || typ.Name != "C" {
		t.Fatalf("new C type = %v", typ)
	}
	if typ := c.TypeOf(accessN); typ == nil || typ.Kind != typeoracle.KindNumber {
		t.Fatalf("member type = %v", typ)
	}
	if sig := c.ResolvedSignature(callM); sig == nil || sig.Return == nil || sig.Return.Kind != typeoracle.KindString {
		t.Fatalf("method signature not resolved")
	}
}

func TestParseAnnotation(t *testing.T) {
	c := NewChecker()
	tests := []struct {
		in   string
		want func(*typeoracle.Type) bool
	}{
		{"number", func(tt *typeoracle.Type) bool { return tt.Kind == typeoracle.KindNumber }},
		{"string[]", func(tt *typeoracle.Type) bool { return tt.IsArray() && tt.Elem.Kind == typeoracle.KindString }},
		{"Array<boolean>", func(tt *typeoracle.Type) bool { return tt.IsArray() && tt.Elem.Kind == typeoracle.KindBoolean }},
		{"[number, string]", func(tt *typeoracle.Type) bool { return tt.IsTuple() && len(tt.Members) == 2 }},
		{"number | undefined", func(tt *typeoracle.Type) bool { return tt.Kind == typeoracle.KindUnion }},
		{"Widget", func(tt *typeoracle.Type) bool { return tt.Kind == typeoracle.KindObject && tt.Name == "Widget" }},
	}
	for _, tt := range tests {
		got := c.TypeFromAnnotation(tt.in)
		if got == nil || !tt.want(got) {
			t.Errorf("TypeFromAnnotation(%q) = %v", tt.in, got)
		}
	}
	if c.TypeFromAnnotation("") != nil {
		t.Errorf("empty annotation produced a type")
	}
}
