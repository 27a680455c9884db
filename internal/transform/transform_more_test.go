package transform_test

import (
	"strings"
	"testing"

	"tstl/internal/diag"
	"tstl/internal/printer"
	"tstl/internal/source"
	"tstl/internal/transform"
	"tstl/internal/tsast"
	"tstl/internal/typeoracle/statictypes"
)

func TestDeterministicOutput(t *testing.T) {
	build := func() []tsast.Stmt {
		return []tsast.Stmt{
			letDecl("a", "number[]", &tsast.ArrayLit{Elements: []tsast.Expr{num(1)}}),
			callStmt(prop(ident("a"), "push"), num(2)),
			&tsast.Return{Expr: prop(ident("a"), "length")},
		}
	}
	first, _ := mustCompile(t, build())
	second, _ := mustCompile(t, build())
	if first != second {
		t.Fatalf("output not deterministic:\n%s\n----\n%s", first, second)
	}
}

func TestFunctionHoisting(t *testing.T) {
	lua, _ := mustCompile(t, []tsast.Stmt{
		callStmt(ident("f")),
		&tsast.FunctionDecl{Name: ident("f"), Body: &tsast.Block{}},
	})
	// the definition must precede the call site in emitted Lua
	wantOrder(t, lua, "local function f(self)", "f(_G)")
}

func TestVariableHoistingThroughClosure(t *testing.T) {
	g := &tsast.FunctionDecl{Name: ident("g"), Body: &tsast.Block{Stmts: []tsast.Stmt{
		&tsast.Return{Expr: ident("x")},
	}}}
	lua, _ := mustCompile(t, []tsast.Stmt{
		g,
		letDecl("x", "number", num(1)),
		callStmt(ident("g")),
	})
	// x splits into a local at the top plus an assignment at its site so
	// g's body captures the right upvalue
	wantContains(t, lua, "local x\n", "x = 1")
	wantOrder(t, lua, "local x\n", "local function g(self)")
	wantOrder(t, lua, "local function g(self)", "x = 1")
}

func TestNoHoistingFailsForwardReference(t *testing.T) {
	_, _, bag, err := compile(t, []tsast.Stmt{
		callStmt(ident("f")),
		&tsast.FunctionDecl{Name: ident("f"), Body: &tsast.Block{}},
	}, func(o *transform.Options) { o.NoHoisting = true })
	if err == nil {
		t.Fatalf("forward reference succeeded with hoisting disabled")
	}
	if !hasCode(bag, diag.ReferencedBeforeDeclaration) {
		t.Fatalf("wrong diagnostics: %+v", bag.Items())
	}
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestExportsTable(t *testing.T) {
	lua, _ := mustCompile(t, []tsast.Stmt{
		&tsast.VarStmt{Exported: true, Decls: []*tsast.VarDecl{{Name: ident("v"), Type: "number", Init: num(1)}}},
		letDecl("hidden", "number", num(2)),
		&tsast.Return{Expr: ident("v")},
	})
	wantContains(t, lua,
		"local ____exports = {}",
		"____exports.v = 1",
		"local hidden = 2",
		"return ____exports.v",
	)
	if !strings.Contains(lua, "return ____exports\n") {
		t.Errorf("module does not return its exports table:\n%s", lua)
	}
	if strings.Contains(lua, "____exports.hidden") {
		t.Errorf("non-exported symbol leaked into exports:\n%s", lua)
	}
}

func TestImportLoweringAndLifting(t *testing.T) {
	lua, _ := mustCompile(t, []tsast.Stmt{
		letDecl("before", "number", num(1)),
		&tsast.ImportDecl{ModulePath: "./utils", Named: []*tsast.ImportSpecifier{{Name: ident("util")}}},
		callStmt(prop(ident("util"), "go")),
	})
	wantContains(t, lua, "require(\"utils\")", "util:go()")
	// imports lift above everything else in the chunk
	wantOrder(t, lua, "require(\"utils\")", "local before = 1")
}

func TestImportOutsideRootFails(t *testing.T) {
	_, _, bag, err := compile(t, []tsast.Stmt{
		&tsast.ImportDecl{ModulePath: "../../outside", Named: []*tsast.ImportSpecifier{{Name: ident("x")}}},
	})
	if err == nil {
		t.Fatalf("import escaping the root directory succeeded")
	}
	if !hasCode(bag, diag.UnresolvableRequirePath) {
		t.Fatalf("wrong diagnostics: %+v", bag.Items())
	}
}

func TestEnumForwardAndReverseMappings(t *testing.T) {
	lua, _ := mustCompile(t, []tsast.Stmt{
		&tsast.EnumDecl{Name: ident("E"), Members: []*tsast.EnumMember{
			{Name: "A"},
			{Name: "B"},
		}},
	})
	wantContains(t, lua,
		"E.A = 0",
		"E[E.A] = \"A\"",
		"E.B = 1",
		"E[E.B] = \"B\"",
	)
}

func TestStringEnumHasNoReverseMapping(t *testing.T) {
	lua, _ := mustCompile(t, []tsast.Stmt{
		&tsast.EnumDecl{Name: ident("S"), Members: []*tsast.EnumMember{
			{Name: "A", Init: str("a")},
		}},
	})
	wantContains(t, lua, "S.A = \"a\"")
	if strings.Contains(lua, "S[S.A]") {
		t.Errorf("string member produced a reverse mapping:\n%s", lua)
	}
}

func TestHeterogeneousEnumFails(t *testing.T) {
	_, _, bag, err := compile(t, []tsast.Stmt{
		&tsast.EnumDecl{Name: ident("M"), Members: []*tsast.EnumMember{
			{Name: "A", Init: num(1)},
			{Name: "B", Init: str("b")},
		}},
	})
	if err == nil || !hasCode(bag, diag.HeterogeneousEnum) {
		t.Fatalf("mixed enum accepted: %v %+v", err, bag.Items())
	}
}

func TestConstEnumFoldsAway(t *testing.T) {
	lua, _ := mustCompile(t, []tsast.Stmt{
		&tsast.EnumDecl{Name: ident("K"), Const: true, Members: []*tsast.EnumMember{
			{Name: "A", Init: num(7)},
		}},
		&tsast.Return{Expr: prop(ident("K"), "A")},
	})
	wantContains(t, lua, "return 7")
	if strings.Contains(lua, "K.A") {
		t.Errorf("const enum member not folded:\n%s", lua)
	}
}

func TestNamespaceLowering(t *testing.T) {
	lua, _ := mustCompile(t, []tsast.Stmt{
		&tsast.ModuleDecl{Name: ident("NS"), Body: []tsast.Stmt{
			&tsast.VarStmt{Exported: true, Decls: []*tsast.VarDecl{{Name: ident("x"), Init: num(1)}}},
		}},
	})
	wantContains(t, lua, "local NS = NS or {}", "do", "NS.x = 1")
}

func TestClassInheritance(t *testing.T) {
	base := &tsast.ClassDecl{Name: ident("B"), Members: []*tsast.ClassMember{
		{Kind: tsast.MemberMethod, Name: "greet", Body: &tsast.Block{Stmts: []tsast.Stmt{
			&tsast.Return{Expr: str("hi")},
		}}},
	}}
	derived := &tsast.ClassDecl{Name: ident("D"), Extends: ident("B")}
	lua, _ := mustCompile(t, []tsast.Stmt{base, derived})
	wantContains(t, lua,
		"D.____super = B",
		"setmetatable(D, D.____super)",
		"setmetatable(D.prototype, D.____super.prototype)",
		"B.prototype.greet = function(self)",
		"D.prototype.____constructor = function(self, ...)",
		"D.____super.prototype.____constructor(self, ...)",
	)
}

func TestToStringBecomesMetamethod(t *testing.T) {
	class := &tsast.ClassDecl{Name: ident("P"), Members: []*tsast.ClassMember{
		{Kind: tsast.MemberMethod, Name: "toString", Body: &tsast.Block{Stmts: []tsast.Stmt{
			&tsast.Return{Expr: str("P")},
		}}},
	}}
	lua, _ := mustCompile(t, []tsast.Stmt{class})
	wantContains(t, lua, "P.prototype.__tostring = function(self)")
}

func TestThrowNonStringFails(t *testing.T) {
	_, _, bag, err := compile(t, []tsast.Stmt{
		&tsast.Throw{Expr: num(3)},
	})
	if err == nil || !hasCode(bag, diag.InvalidThrowExpression) {
		t.Fatalf("non-string throw accepted: %v %+v", err, bag.Items())
	}
}

func TestForInOverArrayFails(t *testing.T) {
	_, _, bag, err := compile(t, []tsast.Stmt{
		letDecl("arr", "number[]", &tsast.ArrayLit{}),
		&tsast.ForIn{Decl: &tsast.VarDecl{Name: ident("k")}, Expr: ident("arr"),
			Body: &tsast.Block{}},
	})
	if err == nil || !hasCode(bag, diag.ForbiddenForIn) {
		t.Fatalf("for-in over array accepted: %v %+v", err, bag.Items())
	}
}

func TestSwitchForbiddenOnLowestTarget(t *testing.T) {
	_, _, bag, err := compile(t, []tsast.Stmt{
		&tsast.Switch{Expr: num(1), Cases: []*tsast.CaseClause{{Test: num(1)}}},
	}, func(o *transform.Options) { o.LuaTarget = transform.TargetLowest })
	if err == nil || !hasCode(bag, diag.UnsupportedForTarget) {
		t.Fatalf("switch accepted on lowest target: %v %+v", err, bag.Items())
	}
}

func TestSignedRightShiftRejected(t *testing.T) {
	_, _, bag, err := compile(t, []tsast.Stmt{
		letDecl("x", "number", &tsast.Binary{Op: tsast.BinShr, Left: num(8), Right: num(1)}),
	}, func(o *transform.Options) { o.LuaTarget = transform.TargetNative })
	if err == nil || !hasCode(bag, diag.UnsupportedKind) {
		t.Fatalf("'>>' accepted: %v %+v", err, bag.Items())
	}
}

func TestBitwisePerTarget(t *testing.T) {
	build := func() []tsast.Stmt {
		return []tsast.Stmt{
			letDecl("x", "number", &tsast.Binary{Op: tsast.BinBitAnd, Left: num(6), Right: num(3)}),
		}
	}

	native, _ := mustCompile(t, build(), func(o *transform.Options) { o.LuaTarget = transform.TargetNative })
	wantContains(t, native, "6 & 3")

	mid, _ := mustCompile(t, build())
	wantContains(t, mid, "bit32.band(6, 3)")

	jit, _ := mustCompile(t, build(), func(o *transform.Options) { o.LuaTarget = transform.TargetJit })
	wantContains(t, jit, "bit.band(6, 3)")

	_, _, bag, err := compile(t, build(), func(o *transform.Options) { o.LuaTarget = transform.TargetLowest })
	if err == nil || !hasCode(bag, diag.UnsupportedForTarget) {
		t.Fatalf("bitwise accepted on lowest: %v %+v", err, bag.Items())
	}
}

func TestConditionalLowerings(t *testing.T) {
	// number branches stay in the and/or idiom
	safe, _ := mustCompile(t, []tsast.Stmt{
		letDecl("cond", "boolean", &tsast.BoolLit{Value: true}),
		letDecl("x", "number", &tsast.Conditional{Cond: ident("cond"), WhenTrue: num(1), WhenFalse: num(2)}),
	})
	wantContains(t, safe, "cond and 1 or 2")

	// a possibly-false true branch needs the function wrapping
	falsy, _ := mustCompile(t, []tsast.Stmt{
		letDecl("cond", "boolean", &tsast.BoolLit{Value: true}),
		letDecl("a", "boolean", &tsast.BoolLit{Value: false}),
		letDecl("x", "boolean", &tsast.Conditional{Cond: ident("cond"), WhenTrue: ident("a"), WhenFalse: &tsast.BoolLit{Value: true}}),
	})
	wantContains(t, falsy, "function()")
}

func TestElementAccessIndexAdjustment(t *testing.T) {
	lua, _ := mustCompile(t, []tsast.Stmt{
		letDecl("arr", "number[]", &tsast.ArrayLit{Elements: []tsast.Expr{num(10)}}),
		letDecl("i", "number", num(0)),
		&tsast.Return{Expr: &tsast.ElementAccess{Expr: ident("arr"), Index: ident("i")}},
	})
	wantContains(t, lua, "return arr[i + 1]")
}

func TestElementAccessConstantFolds(t *testing.T) {
	lua, _ := mustCompile(t, []tsast.Stmt{
		letDecl("arr", "number[]", &tsast.ArrayLit{Elements: []tsast.Expr{num(10)}}),
		letDecl("i", "number", num(1)),
		// arr[0] folds to arr[1]; arr[i - 1] cancels to arr[i]
		letDecl("first", "number", &tsast.ElementAccess{Expr: ident("arr"), Index: num(0)}),
		&tsast.Return{Expr: &tsast.ElementAccess{Expr: ident("arr"),
			Index: &tsast.Binary{Op: tsast.BinSub, Left: ident("i"), Right: num(1)}}},
	})
	wantContains(t, lua, "local first = arr[1]", "return arr[i]")
}

func TestCompoundAssignmentEvaluatesIndexOnce(t *testing.T) {
	// arr[f()] += 1 must call f exactly once
	lua, _ := mustCompile(t, []tsast.Stmt{
		letDecl("arr", "number[]", &tsast.ArrayLit{Elements: []tsast.Expr{num(0)}}),
		&tsast.FunctionDecl{Name: ident("f"), ReturnType: "number", Body: &tsast.Block{Stmts: []tsast.Stmt{
			&tsast.Return{Expr: num(0)},
		}}},
		&tsast.ExprStmt{E: &tsast.Binary{Op: tsast.BinAddAssign,
			Left:  &tsast.ElementAccess{Expr: ident("arr"), Index: &tsast.Call{Callee: ident("f")}},
			Right: num(1)}},
	})
	if got := strings.Count(lua, "f(_G)"); got != 1 {
		t.Fatalf("index call evaluated %d times:\n%s", got, lua)
	}
	wantContains(t, lua, "local ____TS_obj", "____TS_index")
}

func TestPostfixIncrementReturnsOriginal(t *testing.T) {
	lua, _ := mustCompile(t, []tsast.Stmt{
		letDecl("i", "number", num(0)),
		letDecl("old", "number", &tsast.PostfixUnary{Op: tsast.UnInc, Operand: ident("i")}),
	})
	// the temp snapshots i before the write-back
	wantOrder(t, lua, "local ____TS_val", "i = ____TS_val")
	wantContains(t, lua, "+ 1")
}

func TestTypeofFusion(t *testing.T) {
	lua, _ := mustCompile(t, []tsast.Stmt{
		letDecl("v", "", &tsast.ObjectLit{}),
		&tsast.Return{Expr: &tsast.Binary{Op: tsast.BinEq,
			Left:  &tsast.TypeOfExpr{Operand: ident("v")},
			Right: str("object")}},
	})
	wantContains(t, lua, "return type(v) == \"table\"")
}

func TestStringConcatLowering(t *testing.T) {
	lua, _ := mustCompile(t, []tsast.Stmt{
		letDecl("s", "string", str("n = ")),
		letDecl("v", "", &tsast.ObjectLit{}),
		&tsast.Return{Expr: &tsast.Binary{Op: tsast.BinAdd, Left: ident("s"), Right: ident("v")}},
	})
	wantContains(t, lua, "return s .. tostring(v)")
}

func TestSpecialIdentifiers(t *testing.T) {
	lua, _ := mustCompile(t, []tsast.Stmt{
		letDecl("u", "", ident("undefined")),
		letDecl("nan", "", ident("NaN")),
		letDecl("inf", "", ident("Infinity")),
		letDecl("g", "", ident("globalThis")),
	})
	wantContains(t, lua,
		"local u = nil",
		"(0 / 0)",
		"math.huge",
		"local g = _G",
	)
}

func TestGeneratorLowering(t *testing.T) {
	gen := &tsast.FunctionDecl{
		Name:        ident("counter"),
		IsGenerator: true,
		Body: &tsast.Block{Stmts: []tsast.Stmt{
			&tsast.ExprStmt{E: &tsast.YieldExpr{Expr: num(1)}},
		}},
	}
	lua, _ := mustCompile(t, []tsast.Stmt{gen})
	wantContains(t, lua,
		"coroutine.create(function()",
		"coroutine.yield(1)",
		"coroutine.resume(____co, ...)",
		"coroutine.status(____co) == \"dead\"",
		"next = function(____, ...)",
		"[Symbol.iterator] = function(self)",
	)
}

func TestMathIntrinsics(t *testing.T) {
	lua, _ := mustCompile(t, []tsast.Stmt{
		letDecl("a", "number", &tsast.Call{Callee: prop(ident("Math"), "atan2"), Args: []tsast.Expr{num(1), num(2)}}),
		letDecl("b", "number", &tsast.Call{Callee: prop(ident("Math"), "round"), Args: []tsast.Expr{num(1.5)}}),
		letDecl("c", "number", prop(ident("Math"), "PI")),
	})
	wantContains(t, lua,
		"math.atan(1 / 2)",
		"math.floor(1.5 + 0.5)",
		"math.pi",
	)
}

func TestHasOwnPropertyUsesRawget(t *testing.T) {
	lua, _ := mustCompile(t, []tsast.Stmt{
		letDecl("o", "", &tsast.ObjectLit{}),
		&tsast.Return{Expr: &tsast.Call{Callee: prop(ident("o"), "hasOwnProperty"), Args: []tsast.Expr{str("k")}}},
	})
	wantContains(t, lua, "rawget(o, \"k\") ~= nil")
}

func TestStrictModeBareCallContext(t *testing.T) {
	stmts := func() []tsast.Stmt {
		return []tsast.Stmt{
			&tsast.FunctionDecl{Name: ident("f"), Body: &tsast.Block{}},
			callStmt(ident("f")),
		}
	}
	loose, _ := mustCompile(t, stmts())
	wantContains(t, loose, "f(_G)")

	strict, _ := mustCompile(t, stmts(), func(o *transform.Options) { o.Strict = true })
	wantContains(t, strict, "f(nil)")
}

func TestJSONFileLowering(t *testing.T) {
	file := &tsast.SourceFile{
		Path:      "src/data.json",
		Flags:     source.FileJSON,
		JSONValue: &tsast.ObjectLit{Props: []*tsast.ObjectProp{{Name: ident("n"), Value: num(1)}}},
	}
	tsast.Index(file)
	checker := statictypes.NewChecker()
	checker.Bind(file)
	bag := diag.NewBag(8)
	tr := transform.New(checker, transform.Options{LuaTarget: transform.TargetMid}, diag.BagReporter{Bag: bag}, nil)
	block, _, err := tr.TransformSourceFile(file)
	if err != nil {
		t.Fatalf("json transform failed: %v", err)
	}
	lua := printer.Print(block)
	if lua != "return {n = 1}\n" {
		t.Fatalf("json module = %q", lua)
	}
}
