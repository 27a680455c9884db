package transform

import (
	"tstl/internal/luaast"
	"tstl/internal/scope"
	"tstl/internal/tsast"
)

// transformTry wraps the try block in a zero-argument function handed to
// pcall. The emission shape depends on whether the try or catch body
// returns: without returns a plain ok-check suffices, with returns the
// pcall carries a (returned, value) slot pair that is propagated after the
// finally block runs.
func (t *Transformer) transformTry(n *tsast.Try) []luaast.Stmt {
	trySc := t.scopes.Push(scope.Try)
	tryBody := t.transformStmtList(n.TryBlock.Stmts)
	t.scopes.Pop()
	tryBody = t.hoist(trySc, tryBody)
	tryFn := luaast.NewFunctionExpr(nil, false, luaast.NewBlock(tryBody, n.TryBlock), n.TryBlock)

	var catchBody []luaast.Stmt
	catchReturned := false
	if n.CatchBlock != nil {
		catchSc := t.scopes.Push(scope.Catch)
		catchBody = t.transformStmtList(n.CatchBlock.Stmts)
		t.scopes.Pop()
		catchBody = t.hoist(catchSc, catchBody)
		catchReturned = catchSc.FunctionReturned
	}

	hasReturns := trySc.FunctionReturned || catchReturned
	if hasReturns {
		return t.emitTryWithReturns(n, tryFn, catchBody)
	}
	return t.emitTryPlain(n, tryFn, catchBody)
}

// emitTryPlain handles the no-returns shape:
//
//	local ok, err = pcall(function() ... end)
//	if not ok then catch end
//	finally
func (t *Transformer) emitTryPlain(n *tsast.Try, tryFn *luaast.FunctionExpr, catchBody []luaast.Stmt) []luaast.Stmt {
	ok := t.tempIdent("try_ok", n)
	errVar := t.catchVariable(n)

	pcallCall := luaast.NewCall(luaast.NewAnonymousIdentifier("pcall", n),
		[]luaast.Expr{tryFn}, n)
	out := []luaast.Stmt{
		luaast.NewLocal([]*luaast.Identifier{ok, errVar}, []luaast.Expr{pcallCall}, n),
	}

	if n.CatchBlock != nil {
		notOk := luaast.NewUnaryExpr(luaast.UnaryNot, luaast.CloneIdentifier(ok), n)
		out = append(out, luaast.NewIf(notOk, catchBody, nil, n))
	}
	out = append(out, t.transformFinally(n)...)
	if n.CatchBlock == nil {
		// no catch: rethrow after finally
		notOk := luaast.NewUnaryExpr(luaast.UnaryNot, luaast.CloneIdentifier(ok), n)
		rethrow := luaast.NewExprStmt(luaast.NewCall(luaast.NewAnonymousIdentifier("error", n),
			[]luaast.Expr{luaast.CloneIdentifier(errVar)}, n), n)
		out = append(out, luaast.NewIf(notOk, []luaast.Stmt{rethrow}, nil, n))
	}
	return []luaast.Stmt{luaast.NewDo(out, n)}
}

// emitTryWithReturns handles the returning shape:
//
//	local ok, returned, value = pcall(function() ...return true, v... end)
//	if not ok then
//	    returned, value = (function(err) catch end)(returned)
//	end
//	finally
//	if returned then return value end
func (t *Transformer) emitTryWithReturns(n *tsast.Try, tryFn *luaast.FunctionExpr, catchBody []luaast.Stmt) []luaast.Stmt {
	ok := t.tempIdent("try_ok", n)
	returned := t.tempIdent("try_returned", n)
	value := t.tempIdent("try_value", n)

	pcallCall := luaast.NewCall(luaast.NewAnonymousIdentifier("pcall", n),
		[]luaast.Expr{tryFn}, n)
	out := []luaast.Stmt{
		luaast.NewLocal([]*luaast.Identifier{ok, returned, value}, []luaast.Expr{pcallCall}, n),
	}

	if n.CatchBlock != nil {
		// the error value rides in the returned slot when ok is false
		catchFn := luaast.NewFunctionExpr(
			[]*luaast.Identifier{t.catchVariable(n)}, false,
			luaast.NewBlock(catchBody, n.CatchBlock), n.CatchBlock)
		catchCall := luaast.NewCall(luaast.NewParen(catchFn, n),
			[]luaast.Expr{luaast.CloneIdentifier(returned)}, n)
		notOk := luaast.NewUnaryExpr(luaast.UnaryNot, luaast.CloneIdentifier(ok), n)
		reassign := luaast.NewAssignment(
			[]luaast.Expr{luaast.CloneIdentifier(returned), luaast.CloneIdentifier(value)},
			[]luaast.Expr{catchCall}, n)
		out = append(out, luaast.NewIf(notOk, []luaast.Stmt{reassign}, nil, n))
	}

	out = append(out, t.transformFinally(n)...)

	if n.CatchBlock == nil {
		notOk := luaast.NewUnaryExpr(luaast.UnaryNot, luaast.CloneIdentifier(ok), n)
		rethrow := luaast.NewExprStmt(luaast.NewCall(luaast.NewAnonymousIdentifier("error", n),
			[]luaast.Expr{luaast.CloneIdentifier(returned)}, n), n)
		out = append(out, luaast.NewIf(notOk, []luaast.Stmt{rethrow}, nil, n))
	}

	out = append(out, t.propagateTryReturn(n, returned, value))
	return []luaast.Stmt{luaast.NewDo(out, n)}
}

// propagateTryReturn re-emits the cached return after the finally block:
// inside an enclosing try the marker rides along, in a tuple-return
// function the table slot unpacks back into multiple values.
func (t *Transformer) propagateTryReturn(n *tsast.Try, returned, value *luaast.Identifier) luaast.Stmt {
	fc := t.currentFunc()
	nearest := t.scopes.FindNearest(scope.Try | scope.Catch | scope.Function)
	insideTry := nearest != nil && nearest.Kind != scope.Function

	var retValues []luaast.Expr
	switch {
	case insideTry:
		if nearest != nil {
			nearest.FunctionReturned = true
		}
		retValues = []luaast.Expr{luaast.NewBoolean(true, n), luaast.CloneIdentifier(value)}
	case fc != nil && fc.tupleReturn:
		retValues = []luaast.Expr{t.unpackCall(luaast.CloneIdentifier(value), n)}
	default:
		retValues = []luaast.Expr{luaast.CloneIdentifier(value)}
	}

	return luaast.NewIf(luaast.CloneIdentifier(returned),
		[]luaast.Stmt{luaast.NewReturn(retValues, n)}, nil, n)
}

// catchVariable lowers the catch binding, or a temporary when absent.
func (t *Transformer) catchVariable(n *tsast.Try) *luaast.Identifier {
	if n.CatchVar != nil {
		return t.declarationIdentifier(n.CatchVar)
	}
	return t.tempIdent("err", n)
}

// transformFinally lowers the finally block in its own scope.
func (t *Transformer) transformFinally(n *tsast.Try) []luaast.Stmt {
	if n.FinallyBlock == nil {
		return nil
	}
	return t.transformScopedBlock(n.FinallyBlock.Stmts, scope.Block)
}
