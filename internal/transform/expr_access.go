package transform

import (
	"tstl/internal/directive"
	"tstl/internal/lualib"
	"tstl/internal/luaast"
	"tstl/internal/tsast"
)

// mathConstants maps Math members onto Lua numeric literals; PI routes to
// math.pi instead and is handled separately.
var mathConstants = map[string]float64{
	"E":       2.718281828459045,
	"LN10":    2.302585092994046,
	"LN2":     0.6931471805599453,
	"LOG10E":  0.4342944819032518,
	"LOG2E":   1.4426950408889634,
	"SQRT1_2": 0.7071067811865476,
	"SQRT2":   1.4142135623730951,
}

func (t *Transformer) transformPropertyAccess(n *tsast.PropertyAccess) luaast.Expr {
	// const-enum members fold to their constant value
	if cv, ok := t.oracle.ConstantValueOf(n); ok {
		if cv.IsString {
			return luaast.NewString(cv.Str, n)
		}
		return luaast.NewNumber(cv.Num, n)
	}

	// @compileMembersOnly enums reference their members as bare globals
	if sym := t.oracle.SymbolOf(rightmostIdent(n.Expr)); sym != nil &&
		t.directives.SymbolHas(sym, directive.CompileMembersOnly) {
		return luaast.NewAnonymousIdentifier(n.Name, n)
	}

	recvType := t.oracle.TypeOf(n.Expr)

	if n.Name == "length" && (recvType.IsArray() || recvType.IsTuple() || recvType.IsString()) {
		return luaast.NewUnaryExpr(luaast.UnaryLength, t.transformExpr(n.Expr), n)
	}

	if _, ok := n.Expr.(*tsast.SuperExpr); ok {
		return luaast.NewDotAccess(t.superPrototype(n), n.Name, n)
	}

	if recvType != nil {
		switch recvType.Name {
		case "Math":
			if n.Name == "PI" {
				return luaast.NewDotAccess(luaast.NewAnonymousIdentifier("math", n), "pi", n)
			}
			if v, ok := mathConstants[n.Name]; ok {
				return luaast.NewNumber(v, n)
			}
			return luaast.NewDotAccess(luaast.NewAnonymousIdentifier("math", n), n.Name, n)
		case "SymbolConstructor":
			t.useFeature(lualib.SymbolFeature)
			return luaast.NewDotAccess(luaast.NewAnonymousIdentifier("Symbol", n), n.Name, n)
		}
	}

	return luaast.NewDotAccess(t.transformExpr(n.Expr), n.Name, n)
}

func (t *Transformer) transformElementAccess(n *tsast.ElementAccess) luaast.Expr {
	obj := t.transformExpr(n.Expr)
	return luaast.NewTableIndex(obj, t.transformIndexExpr(n), n)
}

// transformIndexExpr lowers the index of an element access, adding 1 for
// numeric indexes into array-typed values. A source-level `- 1` on the
// index cancels against the added 1 instead of emitting `i - 1 + 1`.
func (t *Transformer) transformIndexExpr(n *tsast.ElementAccess) luaast.Expr {
	recvType := t.oracle.TypeOf(n.Expr)
	idxType := t.oracle.TypeOf(n.Index)
	if (recvType.IsArray() || recvType.IsTuple()) && (idxType == nil || idxType.IsNumber()) {
		switch idx := n.Index.(type) {
		case *tsast.NumberLit:
			return luaast.NewNumber(idx.Value+1, n.Index)
		case *tsast.Binary:
			if idx.Op == tsast.BinSub {
				if lit, ok := idx.Right.(*tsast.NumberLit); ok && lit.Value == 1 {
					return t.transformExpr(idx.Left)
				}
			}
		}
		return luaast.NewBinaryExpr(luaast.BinaryAdd,
			t.transformExpr(n.Index), luaast.NewNumber(1, n.Index), n.Index)
	}
	return t.transformExpr(n.Index)
}
