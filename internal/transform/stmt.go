package transform

import (
	"fmt"

	"tstl/internal/diag"
	"tstl/internal/directive"
	"tstl/internal/luaast"
	"tstl/internal/scope"
	"tstl/internal/tsast"
)

// transformStmt dispatches on the TSL statement kind. One TSL statement
// may lower to several Lua statements.
func (t *Transformer) transformStmt(s tsast.Stmt) []luaast.Stmt {
	switch n := s.(type) {
	case *tsast.Block:
		// do..end keeps inner locals invisible to later siblings
		return []luaast.Stmt{luaast.NewDo(t.transformScopedBlock(n.Stmts, scope.Block), n)}
	case *tsast.VarStmt:
		return t.transformVarStmt(n)
	case *tsast.ExprStmt:
		return t.transformExprStmt(n)
	case *tsast.If:
		return t.transformIf(n)
	case *tsast.While:
		cond := t.transformExpr(n.Cond)
		return []luaast.Stmt{luaast.NewWhile(cond, t.transformLoopBody(n.Body), n)}
	case *tsast.DoWhile:
		body := t.transformLoopBody(n.Body)
		until := luaast.NewUnaryExpr(luaast.UnaryNot,
			luaast.NewParen(t.transformExpr(n.Cond), n.Cond), n)
		return []luaast.Stmt{luaast.NewRepeat(body, until, n)}
	case *tsast.For:
		return t.transformFor(n)
	case *tsast.ForOf:
		return t.transformForOf(n)
	case *tsast.ForIn:
		return t.transformForIn(n)
	case *tsast.Switch:
		return t.transformSwitch(n)
	case *tsast.Break:
		return t.transformBreak(n)
	case *tsast.Continue:
		return t.transformContinue(n)
	case *tsast.Return:
		return t.transformReturn(n)
	case *tsast.Try:
		return t.transformTry(n)
	case *tsast.Throw:
		return t.transformThrow(n)
	case *tsast.FunctionDecl:
		return t.transformFunctionDecl(n)
	case *tsast.ClassDecl:
		return t.transformClassDecl(n)
	case *tsast.EnumDecl:
		return t.transformEnumDecl(n)
	case *tsast.ModuleDecl:
		return t.transformModuleDecl(n)
	case *tsast.ImportDecl:
		t.transformImportDecl(n)
		return nil
	case *tsast.ExportAssignment:
		t.fail(diag.UnsupportedDefaultExport, n, "default exports are not supported")
		return nil
	default:
		t.fail(diag.UnsupportedKind, s, "unsupported statement kind %T", s)
		return nil
	}
}

func (t *Transformer) transformVarStmt(n *tsast.VarStmt) []luaast.Stmt {
	if n.Ambient {
		return nil
	}
	var out []luaast.Stmt
	for _, d := range n.Decls {
		out = append(out, t.transformVarDecl(d)...)
	}
	return out
}

func (t *Transformer) transformVarDecl(d *tsast.VarDecl) []luaast.Stmt {
	id, ok := d.Name.(*tsast.Ident)
	if !ok {
		return t.lowerVarDeclPattern(d)
	}

	if target := t.exportTarget(id); target != nil {
		var value luaast.Expr = luaast.NewNil(d)
		if d.Init != nil {
			value = t.transformExpr(d.Init)
		}
		return []luaast.Stmt{luaast.NewSingleAssignment(target, value, d)}
	}

	name := t.declarationIdentifier(id)
	var exprs []luaast.Expr
	if d.Init != nil {
		exprs = []luaast.Expr{t.transformExpr(d.Init)}
	}
	decl := luaast.NewLocal([]*luaast.Identifier{name}, exprs, d)
	if sc := t.scopes.Peek(); sc != nil {
		sc.AddDeclaration(decl)
	}
	return []luaast.Stmt{decl}
}

func (t *Transformer) transformExprStmt(n *tsast.ExprStmt) []luaast.Stmt {
	switch e := n.E.(type) {
	case *tsast.Binary:
		if e.Op.IsAssignment() {
			return t.transformAssignmentStmt(e)
		}
	case *tsast.PrefixUnary:
		if e.Op == tsast.UnInc || e.Op == tsast.UnDec {
			return t.transformIncDecStmt(e.Operand, e.Op, n)
		}
	case *tsast.PostfixUnary:
		return t.transformIncDecStmt(e.Operand, e.Op, n)
	}

	lowered := t.transformExpr(n.E)
	switch lowered.(type) {
	case *luaast.CallExpr, *luaast.MethodCallExpr:
		return []luaast.Stmt{luaast.NewExprStmt(lowered, n)}
	default:
		// Lua has no bare expression statements; keep the evaluation
		discard := t.tempIdent("discard", n)
		return []luaast.Stmt{luaast.NewLocal([]*luaast.Identifier{discard}, []luaast.Expr{lowered}, n)}
	}
}

func (t *Transformer) transformIf(n *tsast.If) []luaast.Stmt {
	cond := t.transformExpr(n.Cond)
	then := t.transformScopedStmt(n.Then, scope.Conditional)
	var els []luaast.Stmt
	if n.Else != nil {
		els = t.transformScopedStmt(n.Else, scope.Conditional)
	}
	return []luaast.Stmt{luaast.NewIf(cond, then, els, n)}
}

// transformScopedStmt lowers a branch body inside its own scope, unwrapping
// a block so its statements sit directly in the branch.
func (t *Transformer) transformScopedStmt(s tsast.Stmt, kind scope.Kind) []luaast.Stmt {
	if block, ok := s.(*tsast.Block); ok {
		return t.transformScopedBlock(block.Stmts, kind)
	}
	sc := t.scopes.Push(kind)
	out := t.transformStmt(s)
	t.scopes.Pop()
	return t.hoist(sc, out)
}

// transformFor lowers the three-clause loop: initializer statements, then
// `while cond do body; incrementor end`, all inside a do block so the loop
// variable stays scoped to the loop.
func (t *Transformer) transformFor(n *tsast.For) []luaast.Stmt {
	sc := t.scopes.Push(scope.Loop)

	var out []luaast.Stmt
	if n.Init != nil {
		out = append(out, t.transformStmt(n.Init)...)
	}

	var cond luaast.Expr
	if n.Cond != nil {
		cond = t.transformExpr(n.Cond)
	} else {
		cond = luaast.NewBoolean(true, n)
	}

	var body []luaast.Stmt
	if block, ok := n.Body.(*tsast.Block); ok {
		body = t.transformStmtList(block.Stmts)
	} else {
		body = t.transformStmt(n.Body)
	}
	if sc.LoopContinued {
		body = append(body, luaast.NewLabel(fmt.Sprintf("__continue%d", sc.ID), n))
	}
	if n.Incr != nil {
		incr := &tsast.ExprStmt{NodeBase: *n.Incr.Base(), E: n.Incr}
		body = append(body, t.transformExprStmt(incr)...)
	}

	out = append(out, luaast.NewWhile(cond, body, n))
	t.scopes.Pop()
	out = t.hoist(sc, out)
	return []luaast.Stmt{luaast.NewDo(out, n)}
}

func (t *Transformer) transformBreak(n *tsast.Break) []luaast.Stmt {
	sc := t.scopes.FindNearest(scope.Loop | scope.Switch)
	if sc == nil {
		t.fail(diag.UndefinedScope, n, "break outside of a loop or switch")
	}
	if sc.Kind == scope.Switch {
		return []luaast.Stmt{luaast.NewGoto(switchEndLabel(sc.ID), n)}
	}
	return []luaast.Stmt{luaast.NewBreak(n)}
}

func (t *Transformer) transformContinue(n *tsast.Continue) []luaast.Stmt {
	sc := t.scopes.FindNearest(scope.Loop)
	if sc == nil {
		t.fail(diag.UndefinedScope, n, "continue outside of a loop")
	}
	if !t.opts.LuaTarget.SupportsGoto() {
		t.fail(diag.UnsupportedForTarget, n, "continue is not supported on target %s", t.opts.LuaTarget)
	}
	sc.LoopContinued = true
	return []luaast.Stmt{luaast.NewGoto(fmt.Sprintf("__continue%d", sc.ID), n)}
}

func (t *Transformer) transformReturn(n *tsast.Return) []luaast.Stmt {
	fc := t.currentFunc()

	var values []luaast.Expr
	if n.Expr != nil {
		if fc != nil && fc.tupleReturn {
			values = t.tupleReturnValues(n.Expr)
		} else {
			values = []luaast.Expr{t.transformExpr(n.Expr)}
		}
	}

	if fn := t.scopes.FindNearest(scope.Function); fn != nil {
		fn.FunctionReturned = true
	}

	// a return inside try/catch routes through the pcall slot protocol
	nearest := t.scopes.FindNearest(scope.Try | scope.Catch | scope.Function)
	if nearest != nil && nearest.Kind != scope.Function {
		nearest.FunctionReturned = true
		marked := []luaast.Expr{luaast.NewBoolean(true, n)}
		if fc != nil && fc.tupleReturn && len(values) > 0 {
			fields := make([]*luaast.TableField, len(values))
			for i, v := range values {
				fields[i] = luaast.NewTableField(nil, v, n)
			}
			marked = append(marked, luaast.NewTableExpr(fields, n))
		} else {
			marked = append(marked, values...)
		}
		return []luaast.Stmt{luaast.NewReturn(marked, n)}
	}

	return []luaast.Stmt{luaast.NewReturn(values, n)}
}

// tupleReturnValues spreads a returned array literal into multiple Lua
// return values; other expressions unpack at runtime.
func (t *Transformer) tupleReturnValues(e tsast.Expr) []luaast.Expr {
	if lit, ok := e.(*tsast.ArrayLit); ok {
		out := make([]luaast.Expr, 0, len(lit.Elements))
		for _, el := range lit.Elements {
			out = append(out, t.transformExpr(el))
		}
		return out
	}
	if call, ok := e.(*tsast.Call); ok && t.isTupleReturnCall(call) {
		return []luaast.Expr{t.transformExpr(e)}
	}
	return []luaast.Expr{t.unpackCall(t.transformExpr(e), e)}
}

func (t *Transformer) transformFunctionDecl(n *tsast.FunctionDecl) []luaast.Stmt {
	if n.Name == nil {
		t.fail(diag.MissingFunctionName, n, "function declaration requires a name")
	}
	if n.Body == nil {
		if n.Ambient {
			return nil
		}
		// overload signature; the implementation declaration follows
		return nil
	}

	addSelf := t.functionTakesSelf(n, n.Params)
	tupleReturn := t.directives.SymbolHas(t.oracle.SymbolOf(n.Name), directive.TupleReturn)
	lowered := t.transformFunctionBody(n.Params, n.Body, addSelf, false, n.IsGenerator, tupleReturn, n)
	fnExpr := luaast.NewFunctionExpr(lowered.params, lowered.dots, lowered.body, n)

	symID := t.trackSymbol(n.Name)

	if target := t.exportTarget(n.Name); target != nil {
		assign := luaast.NewSingleAssignment(target, fnExpr, n)
		if sc := t.scopes.Peek(); sc != nil {
			sc.AddFunctionDefinition(symID, lowered.captured, assign)
		}
		return []luaast.Stmt{assign}
	}

	name := t.declarationIdentifier(n.Name)
	decl := luaast.NewLocal([]*luaast.Identifier{name}, []luaast.Expr{fnExpr}, n)
	if sc := t.scopes.Peek(); sc != nil {
		sc.AddDeclaration(decl)
		sc.AddFunctionDefinition(symID, lowered.captured, decl)
	}
	return []luaast.Stmt{decl}
}

func (t *Transformer) transformThrow(n *tsast.Throw) []luaast.Stmt {
	if !t.oracle.TypeOf(n.Expr).IsString() {
		if _, isLit := n.Expr.(*tsast.StringLit); !isLit {
			t.fail(diag.InvalidThrowExpression, n, "only string values may be thrown")
		}
	}
	call := luaast.NewCall(luaast.NewAnonymousIdentifier("error", n),
		[]luaast.Expr{t.transformExpr(n.Expr)}, n)
	return []luaast.Stmt{luaast.NewExprStmt(call, n)}
}
