package transform

import (
	"tstl/internal/diag"
	"tstl/internal/directive"
	"tstl/internal/lualib"
	"tstl/internal/luaast"
	"tstl/internal/tsast"
	"tstl/internal/typeoracle"
)

// loweredTarget is an assignment LHS prepared for writing. When the target
// contains effectful sub-expressions and caching was requested, prelude
// declares temporaries so object and index evaluate exactly once.
type loweredTarget struct {
	prelude []luaast.Stmt
	target  luaast.Expr
}

// read returns a fresh expression reading the target's current value.
func (lt *loweredTarget) read() luaast.Expr {
	switch v := lt.target.(type) {
	case *luaast.Identifier:
		return luaast.CloneIdentifier(v)
	case *luaast.TableIndex:
		return luaast.NewTableIndex(v.Table, v.Index, nil)
	default:
		return lt.target
	}
}

// lowerAssignTarget lowers an assignment LHS. cache forces temporaries for
// effectful object/index parts so compound assignments avoid double
// evaluation.
func (t *Transformer) lowerAssignTarget(e tsast.Expr, cache bool) loweredTarget {
	switch n := e.(type) {
	case *tsast.Ident:
		return loweredTarget{target: t.transformIdentifierExpr(n)}
	case *tsast.PropertyAccess:
		obj := t.transformExpr(n.Expr)
		var prelude []luaast.Stmt
		if cache && exprHasEffects(n.Expr) {
			tmp := t.tempIdent("obj", n)
			prelude = append(prelude, luaast.NewLocal([]*luaast.Identifier{tmp}, []luaast.Expr{obj}, n))
			obj = luaast.CloneIdentifier(tmp)
		}
		return loweredTarget{prelude: prelude, target: luaast.NewDotAccess(obj, n.Name, n)}
	case *tsast.ElementAccess:
		obj := t.transformExpr(n.Expr)
		index := t.transformIndexExpr(n)
		var prelude []luaast.Stmt
		if cache && (exprHasEffects(n.Expr) || exprHasEffects(n.Index)) {
			objTmp := t.tempIdent("obj", n)
			idxTmp := t.tempIdent("index", n)
			prelude = append(prelude, luaast.NewLocal(
				[]*luaast.Identifier{objTmp, idxTmp}, []luaast.Expr{obj, index}, n))
			obj = luaast.CloneIdentifier(objTmp)
			index = luaast.CloneIdentifier(idxTmp)
		}
		return loweredTarget{prelude: prelude, target: luaast.NewTableIndex(obj, index, n)}
	case *tsast.ParenExpr:
		return t.lowerAssignTarget(n.Inner, cache)
	default:
		t.fail(diag.UnsupportedKind, e, "unsupported assignment target %T", e)
		return loweredTarget{}
	}
}

// exprHasEffects reports whether evaluating e may observably run code.
func exprHasEffects(e tsast.Expr) bool {
	switch n := e.(type) {
	case *tsast.Ident, *tsast.NumberLit, *tsast.StringLit, *tsast.BoolLit,
		*tsast.NullLit, *tsast.ThisExpr, *tsast.SuperExpr, *tsast.OmittedExpr:
		return false
	case *tsast.PropertyAccess:
		return exprHasEffects(n.Expr)
	case *tsast.ElementAccess:
		return exprHasEffects(n.Expr) || exprHasEffects(n.Index)
	case *tsast.ParenExpr:
		return exprHasEffects(n.Inner)
	case *tsast.PrefixUnary:
		return n.Op == tsast.UnInc || n.Op == tsast.UnDec || exprHasEffects(n.Operand)
	case *tsast.Binary:
		return n.Op.IsAssignment() || exprHasEffects(n.Left) || exprHasEffects(n.Right)
	default:
		return true
	}
}

// transformAssignmentStmt lowers an assignment used as a statement.
func (t *Transformer) transformAssignmentStmt(n *tsast.Binary) []luaast.Stmt {
	if lit, ok := n.Left.(*tsast.ArrayLit); ok && n.Op == tsast.BinAssign {
		return t.transformArrayDestructuringAssignment(lit, n.Right, n)
	}

	lt := t.lowerAssignTarget(n.Left, n.Op.IsCompoundAssignment())
	value := t.assignmentValue(n, &lt)

	assign := luaast.NewSingleAssignment(lt.target, value, n)
	if len(lt.prelude) > 0 {
		return []luaast.Stmt{luaast.NewDo(append(lt.prelude, assign), n)}
	}
	return []luaast.Stmt{assign}
}

// assignmentValue builds the RHS, folding compound operators into a binary
// read-modify expression over the cached target.
func (t *Transformer) assignmentValue(n *tsast.Binary, lt *loweredTarget) luaast.Expr {
	if !n.Op.IsCompoundAssignment() {
		return t.transformExpr(n.Right)
	}
	synthetic := &tsast.Binary{
		NodeBase: n.NodeBase,
		Op:       n.Op.UnderlyingOp(),
		Left:     n.Left,
		Right:    n.Right,
	}
	return t.compoundValue(synthetic, lt.read(), n.Right)
}

// compoundValue lowers `read <op> rhs` reusing the binary lowering rules
// (string +, bitwise routing) with the already-lowered read expression.
func (t *Transformer) compoundValue(op *tsast.Binary, read luaast.Expr, rhs tsast.Expr) luaast.Expr {
	switch op.Op {
	case tsast.BinAdd:
		if t.oracle.TypeOf(op.Left).IsString() || t.oracle.TypeOf(rhs).IsString() {
			return luaast.NewBinaryExpr(luaast.BinaryConcat, read, t.concatOperand(rhs), op)
		}
		return luaast.NewBinaryExpr(luaast.BinaryAdd, read, t.transformExpr(rhs), op)
	case tsast.BinBitAnd, tsast.BinBitOr, tsast.BinBitXor, tsast.BinShl, tsast.BinShr, tsast.BinUshr:
		synthetic := &tsast.Binary{NodeBase: op.NodeBase, Op: op.Op, Left: op.Left, Right: rhs}
		lowered := t.transformBitwise(synthetic)
		// rewire the left operand onto the cached read
		switch b := lowered.(type) {
		case *luaast.BinaryExpr:
			b.Left = read
		case *luaast.CallExpr:
			if len(b.Args) == 2 {
				b.Args[0] = read
			}
		}
		return lowered
	default:
		if op2, ok := simpleBinaryOps[op.Op]; ok {
			return luaast.NewBinaryExpr(op2, read, t.transformExpr(rhs), op)
		}
		t.fail(diag.UnsupportedKind, op, "unsupported compound assignment operator")
		return nil
	}
}

// transformAssignmentExpr lowers an assignment in value position: an
// immediately-invoked function caches temporaries to preserve evaluation
// order and returns the assigned value.
func (t *Transformer) transformAssignmentExpr(n *tsast.Binary) luaast.Expr {
	lt := t.lowerAssignTarget(n.Left, true)
	value := t.assignmentValue(n, &lt)

	valTmp := t.tempIdent("val", n)
	stmts := append(lt.prelude,
		luaast.NewLocal([]*luaast.Identifier{valTmp}, []luaast.Expr{value}, n),
		luaast.NewSingleAssignment(lt.target, luaast.CloneIdentifier(valTmp), n),
		luaast.NewReturn([]luaast.Expr{luaast.CloneIdentifier(valTmp)}, n),
	)
	fn := luaast.NewFunctionExpr(nil, false, luaast.NewBlock(stmts, n), n)
	return luaast.NewCall(luaast.NewParen(fn, n), nil, n)
}

// transformIncDecStmt lowers `x++`/`--x` in statement position to a plain
// read-modify-write assignment.
func (t *Transformer) transformIncDecStmt(operand tsast.Expr, op tsast.UnOp, origin tsast.Node) []luaast.Stmt {
	lt := t.lowerAssignTarget(operand, true)
	value := luaast.NewBinaryExpr(incDecOp(op), lt.read(), luaast.NewNumber(1, origin), origin)
	assign := luaast.NewSingleAssignment(lt.target, value, origin)
	if len(lt.prelude) > 0 {
		return []luaast.Stmt{luaast.NewDo(append(lt.prelude, assign), origin)}
	}
	return []luaast.Stmt{assign}
}

// transformIncDecExpr lowers increment/decrement in value position. The
// prefix form returns the updated value, the postfix form the original.
func (t *Transformer) transformIncDecExpr(operand tsast.Expr, op tsast.UnOp, prefix bool, origin tsast.Node) luaast.Expr {
	lt := t.lowerAssignTarget(operand, true)
	tmp := t.tempIdent("val", origin)

	var stmts []luaast.Stmt
	stmts = append(stmts, lt.prelude...)
	if prefix {
		stmts = append(stmts,
			luaast.NewLocal([]*luaast.Identifier{tmp}, []luaast.Expr{
				luaast.NewBinaryExpr(incDecOp(op), lt.read(), luaast.NewNumber(1, origin), origin),
			}, origin),
			luaast.NewSingleAssignment(lt.target, luaast.CloneIdentifier(tmp), origin),
		)
	} else {
		stmts = append(stmts,
			luaast.NewLocal([]*luaast.Identifier{tmp}, []luaast.Expr{lt.read()}, origin),
			luaast.NewSingleAssignment(lt.target,
				luaast.NewBinaryExpr(incDecOp(op), luaast.CloneIdentifier(tmp), luaast.NewNumber(1, origin), origin),
				origin),
		)
	}
	stmts = append(stmts, luaast.NewReturn([]luaast.Expr{luaast.CloneIdentifier(tmp)}, origin))
	fn := luaast.NewFunctionExpr(nil, false, luaast.NewBlock(stmts, origin), origin)
	return luaast.NewCall(luaast.NewParen(fn, origin), nil, origin)
}

func incDecOp(op tsast.UnOp) luaast.BinaryOp {
	if op == tsast.UnDec {
		return luaast.BinarySub
	}
	return luaast.BinaryAdd
}

// transformArrayDestructuringAssignment lowers `[a, b] = rhs` into a
// multi-value assignment: a tuple-returning call feeds the targets
// directly, an array RHS goes through unpack.
func (t *Transformer) transformArrayDestructuringAssignment(lit *tsast.ArrayLit, rhs tsast.Expr, origin tsast.Node) []luaast.Stmt {
	var prelude []luaast.Stmt
	targets := make([]luaast.Expr, 0, len(lit.Elements))
	for _, el := range lit.Elements {
		if _, ok := el.(*tsast.OmittedExpr); ok {
			targets = append(targets, t.tempIdent("unused", el))
			continue
		}
		if _, ok := el.(*tsast.SpreadElement); ok {
			t.fail(diag.ForbiddenEllipsisDestruction, el, "ellipsis destruction is not allowed")
		}
		lt := t.lowerAssignTarget(el, false)
		prelude = append(prelude, lt.prelude...)
		targets = append(targets, lt.target)
	}

	value := t.multiValueExpr(rhs)
	assign := luaast.NewAssignment(targets, []luaast.Expr{value}, origin)
	if len(prelude) > 0 {
		return []luaast.Stmt{luaast.NewDo(append(prelude, assign), origin)}
	}
	return []luaast.Stmt{assign}
}

// multiValueExpr lowers an RHS expected to produce multiple values.
func (t *Transformer) multiValueExpr(rhs tsast.Expr) luaast.Expr {
	if call, ok := rhs.(*tsast.Call); ok && t.isTupleReturnCall(call) {
		return t.transformExpr(rhs)
	}
	lowered := t.transformExpr(rhs)
	if t.oracle.TypeOf(rhs).IsArray() || t.oracle.TypeOf(rhs).IsTuple() {
		return t.unpackCall(lowered, rhs)
	}
	return lowered
}

// isTupleReturnCall reports whether the call's resolved signature is marked
// @tupleReturn (directly or via its owning property symbol).
func (t *Transformer) isTupleReturnCall(call *tsast.Call) bool {
	sig := t.oracle.ResolvedSignature(call)
	if sig == nil {
		return false
	}
	owner := t.calleeSymbol(call.Callee)
	return t.directives.SignatureHas(sig, owner, directive.TupleReturn)
}

// calleeSymbol resolves the symbol of the callee's name, for directive
// lookup on property-hosted function types.
func (t *Transformer) calleeSymbol(callee tsast.Expr) *typeoracle.Symbol {
	switch n := callee.(type) {
	case *tsast.Ident:
		return t.oracle.SymbolOf(n)
	case *tsast.PropertyAccess:
		return t.oracle.SymbolOf(n)
	case *tsast.ParenExpr:
		return t.calleeSymbol(n.Inner)
	default:
		return nil
	}
}

// unpackCall wraps e in the dialect's unpack spelling.
func (t *Transformer) unpackCall(e luaast.Expr, origin tsast.Node) luaast.Expr {
	var fn luaast.Expr
	if t.opts.LuaTarget.UnpackSpelling() {
		fn = luaast.NewDotAccess(luaast.NewAnonymousIdentifier("table", origin), "unpack", origin)
	} else {
		fn = luaast.NewAnonymousIdentifier("unpack", origin)
	}
	return luaast.NewCall(fn, []luaast.Expr{e}, origin)
}

// transformSpreadElement lowers `...x` per the spread contract: a
// tuple-return call passes through, a @vararg identifier becomes `...`, an
// array unpacks, anything else goes through the runtime spread helper.
func (t *Transformer) transformSpreadElement(n *tsast.SpreadElement) luaast.Expr {
	if call, ok := n.Expr.(*tsast.Call); ok && t.isTupleReturnCall(call) {
		return t.transformExpr(n.Expr)
	}
	if id, ok := n.Expr.(*tsast.Ident); ok {
		if sym := t.oracle.SymbolOf(id); sym != nil && t.directives.SymbolHas(sym, directive.Vararg) {
			return luaast.NewDots(n)
		}
	}
	typ := t.oracle.TypeOf(n.Expr)
	if typ.IsArray() || typ.IsTuple() {
		return t.unpackCall(t.transformExpr(n.Expr), n)
	}
	t.useFeature(lualib.Spread)
	return luaast.NewCall(luaast.NewAnonymousIdentifier("__TS__Spread", n),
		[]luaast.Expr{t.transformExpr(n.Expr)}, n)
}
