package printer

import (
	"strings"
	"testing"

	"tstl/internal/luaast"
)

func TestPrintLocalAndAssignment(t *testing.T) {
	a := luaast.NewAnonymousIdentifier("a", nil)
	block := luaast.NewBlock([]luaast.Stmt{
		luaast.NewLocal([]*luaast.Identifier{a}, []luaast.Expr{luaast.NewNumber(1, nil)}, nil),
		luaast.NewSingleAssignment(luaast.CloneIdentifier(a), luaast.NewNumber(2, nil), nil),
	}, nil)
	got := Print(block)
	want := "local a = 1\na = 2\n"
	if got != want {
		t.Fatalf("Print = %q, want %q", got, want)
	}
}

func TestPrintDottedAccess(t *testing.T) {
	obj := luaast.NewAnonymousIdentifier("obj", nil)
	stmt := luaast.NewSingleAssignment(
		luaast.NewDotAccess(obj, "field", nil), luaast.NewBoolean(true, nil), nil)
	got := Print(luaast.NewBlock([]luaast.Stmt{stmt}, nil))
	if got != "obj.field = true\n" {
		t.Fatalf("Print = %q", got)
	}
}

func TestPrintBracketsForNonIdentifierKeys(t *testing.T) {
	obj := luaast.NewAnonymousIdentifier("obj", nil)
	stmt := luaast.NewSingleAssignment(
		luaast.NewTableIndex(obj, luaast.NewString("not-an-ident", nil), nil),
		luaast.NewNil(nil), nil)
	got := Print(luaast.NewBlock([]luaast.Stmt{stmt}, nil))
	if got != "obj[\"not-an-ident\"] = nil\n" {
		t.Fatalf("Print = %q", got)
	}
}

func TestPrintPrecedenceParens(t *testing.T) {
	// (a + b) * c needs parens, a + b * c does not
	a := luaast.NewAnonymousIdentifier("a", nil)
	b := luaast.NewAnonymousIdentifier("b", nil)
	c := luaast.NewAnonymousIdentifier("c", nil)

	sum := luaast.NewBinaryExpr(luaast.BinaryAdd, a, b, nil)
	mul := luaast.NewBinaryExpr(luaast.BinaryMul, sum, c, nil)
	got := Print(luaast.NewBlock([]luaast.Stmt{
		luaast.NewLocal([]*luaast.Identifier{luaast.NewAnonymousIdentifier("x", nil)},
			[]luaast.Expr{mul}, nil),
	}, nil))
	if got != "local x = (a + b) * c\n" {
		t.Fatalf("Print = %q", got)
	}
}

func TestPrintIfElseChain(t *testing.T) {
	cond := luaast.NewAnonymousIdentifier("cond", nil)
	inner := luaast.NewIf(luaast.NewAnonymousIdentifier("other", nil),
		[]luaast.Stmt{luaast.NewBreak(nil)}, nil, nil)
	outer := luaast.NewIf(cond,
		[]luaast.Stmt{luaast.NewReturn(nil, nil)},
		[]luaast.Stmt{inner}, nil)
	got := Print(luaast.NewBlock([]luaast.Stmt{outer}, nil))
	want := "if cond then\n    return\nelseif other then\n    break\nend\n"
	if got != want {
		t.Fatalf("Print = %q, want %q", got, want)
	}
}

func TestPrintGenericFor(t *testing.T) {
	v := luaast.NewAnonymousIdentifier("v", nil)
	blank := luaast.NewAnonymousIdentifier("____", nil)
	ipairsCall := luaast.NewCall(luaast.NewAnonymousIdentifier("ipairs", nil),
		[]luaast.Expr{luaast.NewAnonymousIdentifier("arr", nil)}, nil)
	loop := luaast.NewGenericFor([]*luaast.Identifier{blank, v},
		[]luaast.Expr{ipairsCall}, []luaast.Stmt{luaast.NewBreak(nil)}, nil)
	got := Print(luaast.NewBlock([]luaast.Stmt{loop}, nil))
	want := "for ____, v in ipairs(arr) do\n    break\nend\n"
	if got != want {
		t.Fatalf("Print = %q, want %q", got, want)
	}
}

func TestPrintMethodCallAndLabels(t *testing.T) {
	obj := luaast.NewAnonymousIdentifier("obj", nil)
	call := luaast.NewMethodCall(obj, luaast.NewAnonymousIdentifier("m", nil),
		[]luaast.Expr{luaast.NewNumber(1, nil)}, nil)
	block := luaast.NewBlock([]luaast.Stmt{
		luaast.NewExprStmt(call, nil),
		luaast.NewGoto("done", nil),
		luaast.NewLabel("done", nil),
	}, nil)
	got := Print(block)
	want := "obj:m(1)\ngoto done\n::done::\n"
	if got != want {
		t.Fatalf("Print = %q, want %q", got, want)
	}
}

func TestPrintFunctionExpr(t *testing.T) {
	self := luaast.NewAnonymousIdentifier("self", nil)
	body := luaast.NewBlock([]luaast.Stmt{
		luaast.NewReturn([]luaast.Expr{luaast.CloneIdentifier(self)}, nil),
	}, nil)
	fn := luaast.NewFunctionExpr([]*luaast.Identifier{self}, true, body, nil)
	stmt := luaast.NewLocal([]*luaast.Identifier{luaast.NewAnonymousIdentifier("f", nil)},
		[]luaast.Expr{fn}, nil)
	got := Print(luaast.NewBlock([]luaast.Stmt{stmt}, nil))
	want := "local function f(self, ...)\n    return self\nend\n"
	if got != want {
		t.Fatalf("Print = %q, want %q", got, want)
	}
}

func TestPrintNumbers(t *testing.T) {
	tests := []struct {
		lit  *luaast.NumericLiteral
		want string
	}{
		{luaast.NewNumber(3, nil), "3"},
		{luaast.NewNumber(0.5, nil), "0.5"},
		{luaast.NewNumberRaw("0x10", 16, nil), "0x10"},
	}
	for _, tt := range tests {
		got := Print(luaast.NewBlock([]luaast.Stmt{
			luaast.NewReturn([]luaast.Expr{tt.lit}, nil),
		}, nil))
		if !strings.Contains(got, tt.want) {
			t.Errorf("number printed as %q, want %q", got, tt.want)
		}
	}
}
