package transform

import (
	"tstl/internal/diag"
	"tstl/internal/directive"
	"tstl/internal/lualib"
	"tstl/internal/luaast"
	"tstl/internal/tsast"
)

var simpleBinaryOps = map[tsast.BinOp]luaast.BinaryOp{
	tsast.BinSub:        luaast.BinarySub,
	tsast.BinMul:        luaast.BinaryMul,
	tsast.BinDiv:        luaast.BinaryDiv,
	tsast.BinMod:        luaast.BinaryMod,
	tsast.BinPow:        luaast.BinaryPow,
	tsast.BinLt:         luaast.BinaryLt,
	tsast.BinGt:         luaast.BinaryGt,
	tsast.BinLe:         luaast.BinaryLe,
	tsast.BinGe:         luaast.BinaryGe,
	tsast.BinLogicalAnd: luaast.BinaryAnd,
	tsast.BinLogicalOr:  luaast.BinaryOr,
}

func (t *Transformer) transformBinaryExpr(n *tsast.Binary) luaast.Expr {
	if n.Op.IsAssignment() {
		return t.transformAssignmentExpr(n)
	}

	if op, ok := simpleBinaryOps[n.Op]; ok {
		return luaast.NewBinaryExpr(op, t.transformExpr(n.Left), t.transformExpr(n.Right), n)
	}

	switch n.Op {
	case tsast.BinAdd:
		if t.oracle.TypeOf(n.Left).IsString() || t.oracle.TypeOf(n.Right).IsString() {
			return luaast.NewBinaryExpr(luaast.BinaryConcat,
				t.concatOperand(n.Left), t.concatOperand(n.Right), n)
		}
		return luaast.NewBinaryExpr(luaast.BinaryAdd, t.transformExpr(n.Left), t.transformExpr(n.Right), n)

	case tsast.BinEq:
		return t.transformEquality(n, luaast.BinaryEq)
	case tsast.BinNeq:
		return t.transformEquality(n, luaast.BinaryNeq)

	case tsast.BinNullishCoalesce:
		return t.transformNullish(n)

	case tsast.BinBitAnd, tsast.BinBitOr, tsast.BinBitXor, tsast.BinShl, tsast.BinShr, tsast.BinUshr:
		return t.transformBitwise(n)

	case tsast.BinInstanceOf:
		return t.transformInstanceOf(n)

	case tsast.BinIn:
		// `key in obj` reads as a nil check on the slot
		obj := t.transformExpr(n.Right)
		key := t.transformExpr(n.Left)
		return luaast.NewBinaryExpr(luaast.BinaryNeq,
			luaast.NewTableIndex(obj, key, n), luaast.NewNil(n), n)

	case tsast.BinComma:
		return t.transformComma(n)

	default:
		t.fail(diag.UnsupportedKind, n, "unsupported binary operator '%s'", n.Op)
		return nil
	}
}

// transformEquality fuses `typeof x === "literal"` into a native type()
// comparison, mapping the TSL spellings onto Lua's.
func (t *Transformer) transformEquality(n *tsast.Binary, op luaast.BinaryOp) luaast.Expr {
	if fused := t.fuseTypeOfComparison(n.Left, n.Right, op, n); fused != nil {
		return fused
	}
	if fused := t.fuseTypeOfComparison(n.Right, n.Left, op, n); fused != nil {
		return fused
	}
	return luaast.NewBinaryExpr(op, t.transformExpr(n.Left), t.transformExpr(n.Right), n)
}

func (t *Transformer) fuseTypeOfComparison(a, b tsast.Expr, op luaast.BinaryOp, origin tsast.Node) luaast.Expr {
	tf, ok := a.(*tsast.TypeOfExpr)
	if !ok {
		return nil
	}
	lit, ok := b.(*tsast.StringLit)
	if !ok {
		return nil
	}
	mapped := lit.Value
	switch mapped {
	case "object":
		mapped = "table"
	case "undefined":
		mapped = "nil"
	}
	call := luaast.NewCall(luaast.NewAnonymousIdentifier("type", origin),
		[]luaast.Expr{t.transformExpr(tf.Operand)}, origin)
	return luaast.NewBinaryExpr(op, call, luaast.NewString(mapped, origin), origin)
}

// transformNullish caches the left operand so `a ?? b` evaluates a once.
func (t *Transformer) transformNullish(n *tsast.Binary) luaast.Expr {
	tmp := t.tempIdent("lhs", n)
	body := luaast.NewBlock([]luaast.Stmt{
		luaast.NewLocal([]*luaast.Identifier{tmp}, []luaast.Expr{t.transformExpr(n.Left)}, n),
		luaast.NewIf(
			luaast.NewBinaryExpr(luaast.BinaryNeq, luaast.CloneIdentifier(tmp), luaast.NewNil(n), n),
			[]luaast.Stmt{luaast.NewReturn([]luaast.Expr{luaast.CloneIdentifier(tmp)}, n)},
			nil, n),
		luaast.NewReturn([]luaast.Expr{t.transformExpr(n.Right)}, n),
	}, n)
	fn := luaast.NewFunctionExpr(nil, false, body, n)
	return luaast.NewCall(luaast.NewParen(fn, n), nil, n)
}

// transformBitwise emits native operators on the native target, routes to
// the dialect's bit library otherwise, and hard-errors on the lowest
// target. A lone `>>` is rejected everywhere: only `>>>` has a defined
// lowering.
func (t *Transformer) transformBitwise(n *tsast.Binary) luaast.Expr {
	if n.Op == tsast.BinShr {
		t.fail(diag.UnsupportedKind, n,
			"signed right shift '>>' is not supported; use '>>>' instead")
	}

	left := t.transformExpr(n.Left)
	right := t.transformExpr(n.Right)

	if t.opts.LuaTarget.NativeBitwise() {
		var op luaast.BinaryOp
		switch n.Op {
		case tsast.BinBitAnd:
			op = luaast.BinaryBitAnd
		case tsast.BinBitOr:
			op = luaast.BinaryBitOr
		case tsast.BinBitXor:
			op = luaast.BinaryBitXor
		case tsast.BinShl:
			op = luaast.BinaryShl
		case tsast.BinUshr:
			op = luaast.BinaryShr
		}
		return luaast.NewBinaryExpr(op, left, right, n)
	}

	lib := t.opts.LuaTarget.BitLibrary()
	if lib == "" {
		t.fail(diag.UnsupportedForTarget, n,
			"bitwise operations are not supported on target %s", t.opts.LuaTarget)
	}
	var fn string
	switch n.Op {
	case tsast.BinBitAnd:
		fn = "band"
	case tsast.BinBitOr:
		fn = "bor"
	case tsast.BinBitXor:
		fn = "bxor"
	case tsast.BinShl:
		fn = "lshift"
	case tsast.BinUshr:
		fn = "rshift"
	}
	callee := luaast.NewDotAccess(luaast.NewAnonymousIdentifier(lib, n), fn, n)
	return luaast.NewCall(callee, []luaast.Expr{left, right}, n)
}

// transformBitNot is the unary sibling of transformBitwise.
func (t *Transformer) transformBitNot(n *tsast.PrefixUnary) luaast.Expr {
	operand := t.transformExpr(n.Operand)
	if t.opts.LuaTarget.NativeBitwise() {
		return luaast.NewUnaryExpr(luaast.UnaryBitNot, operand, n)
	}
	lib := t.opts.LuaTarget.BitLibrary()
	if lib == "" {
		t.fail(diag.UnsupportedForTarget, n,
			"bitwise operations are not supported on target %s", t.opts.LuaTarget)
	}
	callee := luaast.NewDotAccess(luaast.NewAnonymousIdentifier(lib, n), "bnot", n)
	return luaast.NewCall(callee, []luaast.Expr{operand}, n)
}

func (t *Transformer) transformInstanceOf(n *tsast.Binary) luaast.Expr {
	rightSym := t.oracle.SymbolOf(rightmostIdent(n.Right))
	if rightSym != nil {
		if t.directives.SymbolHas(rightSym, directive.Extension) || t.directives.SymbolHas(rightSym, directive.MetaExtension) {
			t.fail(diag.InvalidInstanceOfExtension, n, "cannot use instanceof on an extension class")
		}
		if t.directives.SymbolHas(rightSym, directive.LuaTable) {
			t.fail(diag.InvalidInstanceOfLuaTable, n, "cannot use instanceof on a @luaTable class")
		}
		if rightSym.Name == "ObjectConstructor" || rightSym.Name == "Object" {
			t.useFeature(lualib.InstanceOfObject)
			return luaast.NewCall(luaast.NewAnonymousIdentifier("__TS__InstanceOfObject", n),
				[]luaast.Expr{t.transformExpr(n.Left)}, n)
		}
	}
	if id, ok := n.Right.(*tsast.Ident); ok && id.Text == "Object" {
		t.useFeature(lualib.InstanceOfObject)
		return luaast.NewCall(luaast.NewAnonymousIdentifier("__TS__InstanceOfObject", n),
			[]luaast.Expr{t.transformExpr(n.Left)}, n)
	}
	t.useFeature(lualib.InstanceOf)
	return luaast.NewCall(luaast.NewAnonymousIdentifier("__TS__InstanceOf", n),
		[]luaast.Expr{t.transformExpr(n.Left), t.transformExpr(n.Right)}, n)
}

func (t *Transformer) transformComma(n *tsast.Binary) luaast.Expr {
	discard := t.tempIdent("discard", n)
	body := luaast.NewBlock([]luaast.Stmt{
		luaast.NewLocal([]*luaast.Identifier{discard}, []luaast.Expr{t.transformExpr(n.Left)}, n),
		luaast.NewReturn([]luaast.Expr{t.transformExpr(n.Right)}, n),
	}, n)
	fn := luaast.NewFunctionExpr(nil, false, body, n)
	return luaast.NewCall(luaast.NewParen(fn, n), nil, n)
}

func (t *Transformer) transformPrefixUnary(n *tsast.PrefixUnary) luaast.Expr {
	switch n.Op {
	case tsast.UnNeg:
		return luaast.NewUnaryExpr(luaast.UnaryNegate, t.transformExpr(n.Operand), n)
	case tsast.UnPlus:
		return t.transformExpr(n.Operand)
	case tsast.UnNot:
		return luaast.NewUnaryExpr(luaast.UnaryNot, t.transformExpr(n.Operand), n)
	case tsast.UnBitNot:
		return t.transformBitNot(n)
	case tsast.UnInc, tsast.UnDec:
		return t.transformIncDecExpr(n.Operand, n.Op, true, n)
	default:
		t.fail(diag.UnsupportedKind, n, "unsupported unary operator '%s'", n.Op)
		return nil
	}
}

func (t *Transformer) transformPostfixUnary(n *tsast.PostfixUnary) luaast.Expr {
	return t.transformIncDecExpr(n.Operand, n.Op, false, n)
}

// rightmostIdent peels parens off an expression and returns the identifier
// node when one remains.
func rightmostIdent(e tsast.Expr) tsast.Node {
	for {
		if p, ok := e.(*tsast.ParenExpr); ok {
			e = p.Inner
			continue
		}
		break
	}
	if id, ok := e.(*tsast.Ident); ok {
		return id
	}
	return nil
}
