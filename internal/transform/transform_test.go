package transform_test

import (
	"strings"
	"testing"

	"tstl/internal/diag"
	"tstl/internal/lualib"
	"tstl/internal/printer"
	"tstl/internal/source"
	"tstl/internal/transform"
	"tstl/internal/tsast"
	"tstl/internal/typeoracle/statictypes"
)

// compile builds a file from stmts, binds it with the reference checker
// and runs it through the transformer, returning the printed chunk.
func compile(t *testing.T, stmts []tsast.Stmt, mutate ...func(*transform.Options)) (string, []lualib.Feature, *diag.Bag, error) {
	t.Helper()
	file := &tsast.SourceFile{Path: "src/main.ts", Stmts: stmts}
	tsast.Index(file)
	assignSpans(file)

	checker := statictypes.NewChecker()
	checker.Bind(file)

	opts := transform.Options{LuaTarget: transform.TargetMid, RootDir: "src"}
	for _, m := range mutate {
		m(&opts)
	}

	bag := diag.NewBag(64)
	tr := transform.New(checker, opts, diag.BagReporter{Bag: bag}, nil)
	block, features, err := tr.TransformSourceFile(file)
	if err != nil {
		return "", features, bag, err
	}
	return printer.Print(block), features, bag, nil
}

// assignSpans gives every node an increasing span in depth-first order so
// first-seen positions mirror source order.
func assignSpans(file *tsast.SourceFile) {
	var pos uint32
	var walk func(n tsast.Node)
	walk = func(n tsast.Node) {
		n.Base().Span = source.Span{File: 0, Start: pos, End: pos + 1}
		pos += 2
		for _, c := range n.Children() {
			if c != nil {
				walk(c)
			}
		}
	}
	walk(file)
}

func mustCompile(t *testing.T, stmts []tsast.Stmt, mutate ...func(*transform.Options)) (string, []lualib.Feature) {
	t.Helper()
	lua, features, bag, err := compile(t, stmts, mutate...)
	if err != nil {
		t.Fatalf("transform failed: %v\ndiagnostics: %+v", err, bag.Items())
	}
	return lua, features
}

func wantContains(t *testing.T, lua string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(lua, w) {
			t.Errorf("output missing %q\n----\n%s", w, lua)
		}
	}
}

func wantOrder(t *testing.T, lua string, first, second string) {
	t.Helper()
	i := strings.Index(lua, first)
	j := strings.Index(lua, second)
	if i < 0 || j < 0 || i >= j {
		t.Errorf("expected %q before %q\n----\n%s", first, second, lua)
	}
}

func ident(name string) *tsast.Ident { return &tsast.Ident{Text: name} }
func num(v float64) *tsast.NumberLit { return &tsast.NumberLit{Value: v} }
func str(v string) *tsast.StringLit  { return &tsast.StringLit{Value: v} }

func letDecl(name, typeAnn string, init tsast.Expr) *tsast.VarStmt {
	return &tsast.VarStmt{Decls: []*tsast.VarDecl{{Name: ident(name), Type: typeAnn, Init: init}}}
}

func callStmt(callee tsast.Expr, args ...tsast.Expr) *tsast.ExprStmt {
	return &tsast.ExprStmt{E: &tsast.Call{Callee: callee, Args: args}}
}

func prop(obj tsast.Expr, name string) *tsast.PropertyAccess {
	return &tsast.PropertyAccess{Expr: obj, Name: name}
}

// Scenario: array push and length.
func TestArrayPushAndLength(t *testing.T) {
	lua, features := mustCompile(t, []tsast.Stmt{
		letDecl("a", "number[]", &tsast.ArrayLit{Elements: []tsast.Expr{num(1), num(2)}}),
		callStmt(prop(ident("a"), "push"), num(3)),
		&tsast.Return{Expr: prop(ident("a"), "length")},
	})
	wantContains(t, lua,
		"local a = {1, 2}",
		"__TS__ArrayPush(a, 3)",
		"return #a",
	)
	if !hasFeature(features, lualib.ArrayPush) {
		t.Errorf("ArrayPush feature not recorded: %v", features)
	}
}

func hasFeature(features []lualib.Feature, want lualib.Feature) bool {
	for _, f := range features {
		if f == want {
			return true
		}
	}
	return false
}

// Scenario: class with accessors.
func TestClassWithAccessors(t *testing.T) {
	class := &tsast.ClassDecl{
		Name: ident("C"),
		Members: []*tsast.ClassMember{
			{Kind: tsast.MemberProperty, Name: "_x", Init: num(0)},
			{Kind: tsast.MemberGet, Name: "x", ReturnType: "number", Body: &tsast.Block{Stmts: []tsast.Stmt{
				&tsast.Return{Expr: prop(&tsast.ThisExpr{}, "_x")},
			}}},
			{Kind: tsast.MemberSet, Name: "x", Params: []*tsast.Param{{Name: ident("v"), Type: "number"}},
				Body: &tsast.Block{Stmts: []tsast.Stmt{
					&tsast.ExprStmt{E: &tsast.Binary{Op: tsast.BinAssign,
						Left: prop(&tsast.ThisExpr{}, "_x"), Right: ident("v")}},
				}}},
		},
	}
	lua, features := mustCompile(t, []tsast.Stmt{
		class,
		letDecl("c", "", &tsast.New{Callee: ident("C")}),
		&tsast.ExprStmt{E: &tsast.Binary{Op: tsast.BinAssign, Left: prop(ident("c"), "x"), Right: num(5)}},
		&tsast.Return{Expr: prop(ident("c"), "x")},
	})
	wantContains(t, lua,
		"local C = {}",
		"C.name = \"C\"",
		"C.prototype = {}",
		"C.prototype.constructor = C",
		"C.prototype.__index = __TS__Index(C.prototype)",
		"C.prototype.__newindex = __TS__NewIndex(C.prototype)",
		"C.prototype.____getters = {}",
		"C.prototype.____setters = {}",
		"C.prototype.____constructor",
		"self._x = 0",
		"local c = C.new()",
		"c.x = 5",
		"return c.x",
	)
	if !hasFeature(features, lualib.Index) || !hasFeature(features, lualib.ClassIndex) {
		t.Errorf("accessor features not recorded: %v", features)
	}
}

// Scenario: for-of over a user iterable object.
func TestForOfIterableObject(t *testing.T) {
	body := &tsast.Block{Stmts: []tsast.Stmt{
		&tsast.ExprStmt{E: &tsast.Binary{Op: tsast.BinAddAssign,
			Left: ident("total"), Right: prop(ident("v"), "value")}},
	}}
	lua, features := mustCompile(t, []tsast.Stmt{
		letDecl("iter", "", &tsast.ObjectLit{}),
		letDecl("total", "number", num(0)),
		&tsast.ForOf{Decl: &tsast.VarDecl{Name: ident("v")}, Expr: ident("iter"), Body: body},
		&tsast.Return{Expr: ident("total")},
	})
	wantContains(t, lua,
		"for v in __TS__Iterator(iter) do",
		"total = total + v.value",
	)
	if !hasFeature(features, lualib.Iterator) || !hasFeature(features, lualib.SymbolFeature) {
		t.Errorf("iterator features not recorded: %v", features)
	}
}

// Scenario: try/catch/finally where the catch returns and the finally
// side effect runs before the cached return propagates.
func TestTryCatchFinallyWithReturn(t *testing.T) {
	fn := &tsast.FunctionDecl{
		Name: ident("f"),
		Body: &tsast.Block{Stmts: []tsast.Stmt{
			&tsast.Try{
				TryBlock: &tsast.Block{Stmts: []tsast.Stmt{
					&tsast.Throw{Expr: str("oops")},
					&tsast.Return{Expr: str("a")},
				}},
				CatchVar: ident("e"),
				CatchBlock: &tsast.Block{Stmts: []tsast.Stmt{
					&tsast.Return{Expr: str("b")},
				}},
				FinallyBlock: &tsast.Block{Stmts: []tsast.Stmt{
					callStmt(prop(ident("effects"), "push"), num(1)),
				}},
			},
		}},
	}
	lua, _ := mustCompile(t, []tsast.Stmt{
		letDecl("effects", "number[]", &tsast.ArrayLit{}),
		fn,
	})
	wantContains(t, lua,
		"pcall(function()",
		"error(\"oops\")",
		"return true, \"a\"",
		"return true, \"b\"",
		"__TS__ArrayPush(effects, 1)",
	)
	// finally runs before the cached return leaves the function
	wantOrder(t, lua, "__TS__ArrayPush(effects, 1)", "return ____TS_try_value")
}

// Scenario: switch with fall-through.
func TestSwitchFallThrough(t *testing.T) {
	mkPush := func(v float64) tsast.Stmt {
		return callStmt(prop(ident("r"), "push"), num(v))
	}
	sw := &tsast.Switch{
		Expr: num(2),
		Cases: []*tsast.CaseClause{
			{Test: num(1), Stmts: []tsast.Stmt{mkPush(1)}},
			{Test: num(2), Stmts: []tsast.Stmt{mkPush(2)}},
			{Test: num(3), Stmts: []tsast.Stmt{mkPush(3), &tsast.Break{}}},
			{Test: nil, Stmts: []tsast.Stmt{mkPush(0)}},
		},
	}
	lua, _ := mustCompile(t, []tsast.Stmt{
		letDecl("r", "number[]", &tsast.ArrayLit{}),
		sw,
	})
	wantContains(t, lua,
		"____TS_switch",
		"goto ____TS_switch",
		"_end",
		"__TS__ArrayPush(r, 2)",
		"__TS__ArrayPush(r, 3)",
	)
	// case 2 falls through into case 3, then break jumps to the end label
	wantOrder(t, lua, "__TS__ArrayPush(r, 2)", "__TS__ArrayPush(r, 3)")
	wantOrder(t, lua, "__TS__ArrayPush(r, 3)", "_end::")
}

// Scenario: destructuring with defaults and nesting:
// const { a: { b = 5 } = {} } = { a: undefined }.
func TestDestructuringDefaultsNested(t *testing.T) {
	inner := &tsast.ObjectBindingPattern{Elements: []*tsast.BindingElement{
		{Name: ident("b"), Init: num(5)},
	}}
	outer := &tsast.ObjectBindingPattern{Elements: []*tsast.BindingElement{
		{Name: inner, PropertyName: "a", Init: &tsast.ObjectLit{}},
	}}
	decl := &tsast.VarStmt{Decls: []*tsast.VarDecl{{
		Name: outer,
		Init: &tsast.ObjectLit{Props: []*tsast.ObjectProp{
			{Name: ident("a"), Value: ident("undefined")},
		}},
	}}}
	lua, _ := mustCompile(t, []tsast.Stmt{
		decl,
		&tsast.Return{Expr: ident("b")},
	})
	wantContains(t, lua,
		"local b = ",
		"if b == nil then",
		"b = 5",
		"return b",
	)
	// the pattern-level default {} applies before b is picked out
	wantOrder(t, lua, "= {}", "local b = ")
}
