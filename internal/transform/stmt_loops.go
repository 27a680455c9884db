package transform

import (
	"tstl/internal/diag"
	"tstl/internal/directive"
	"tstl/internal/lualib"
	"tstl/internal/luaast"
	"tstl/internal/tsast"
	"tstl/internal/typeoracle"
)

// transformForOf picks one of four lowerings: a @forRange call becomes a
// numeric for, a @luaIterator iterable drives the generic for directly,
// arrays iterate via ipairs, and everything else goes through the runtime
// iterator protocol.
func (t *Transformer) transformForOf(n *tsast.ForOf) []luaast.Stmt {
	if n.Decl == nil && n.Target == nil {
		t.fail(diag.MissingForOfVariables, n, "for...of requires loop variables")
	}

	if call, ok := n.Expr.(*tsast.Call); ok {
		if sym := t.calleeSymbol(call.Callee); sym != nil && t.directives.SymbolHas(sym, directive.ForRange) {
			return t.transformForRange(n, call)
		}
	}

	if sym := t.iterableSymbol(n.Expr); sym != nil && t.directives.SymbolHas(sym, directive.LuaIterator) {
		return t.transformLuaIterator(n, sym)
	}

	if t.oracle.TypeOf(n.Expr).IsArray() {
		return t.transformArrayForOf(n)
	}

	return t.transformIteratorForOf(n)
}

// transformForRange turns the 2-3 numeric arguments of a @forRange call
// into the numeric for header.
func (t *Transformer) transformForRange(n *tsast.ForOf, call *tsast.Call) []luaast.Stmt {
	if len(call.Args) < 2 || len(call.Args) > 3 {
		t.fail(diag.InvalidForRangeCall, call, "@forRange call requires 2 or 3 arguments")
	}
	for _, a := range call.Args {
		if typ := t.oracle.TypeOf(a); typ != nil && !typ.IsNumber() {
			t.fail(diag.InvalidForRangeCall, a, "@forRange arguments must be numbers")
		}
	}
	loopVar := t.forOfSingleVar(n)
	start := t.transformExpr(call.Args[0])
	limit := t.transformExpr(call.Args[1])
	var step luaast.Expr
	if len(call.Args) == 3 {
		step = t.transformExpr(call.Args[2])
	}
	body := t.transformLoopBody(n.Body)
	return []luaast.Stmt{luaast.NewNumericFor(loopVar, start, limit, step, body, n)}
}

// transformLuaIterator drives the generic for straight off the iterable.
// A @tupleReturn iterator needs a destructuring declaration to name each
// loop value; an array pattern maps onto the for's variable list.
func (t *Transformer) transformLuaIterator(n *tsast.ForOf, sym *typeoracle.Symbol) []luaast.Stmt {
	tuple := t.directives.SymbolHas(sym, directive.TupleReturn)
	expr := t.transformExpr(n.Expr)

	if tuple {
		if n.Decl == nil {
			t.fail(diag.UnsupportedNonDestructuringLuaIterator, n,
				"@luaIterator with @tupleReturn requires destructured loop variables")
		}
		pattern, ok := n.Decl.Name.(*tsast.ArrayBindingPattern)
		if !ok {
			if _, isObj := n.Decl.Name.(*tsast.ObjectBindingPattern); isObj {
				t.fail(diag.UnsupportedObjectDestructuringInForOf, n,
					"object destructuring is not supported in for...of")
			}
			t.fail(diag.UnsupportedNonDestructuringLuaIterator, n,
				"@luaIterator with @tupleReturn requires destructured loop variables")
		}
		names, ok := t.simpleArrayPattern(pattern)
		if !ok {
			t.fail(diag.UnsupportedNonDestructuringLuaIterator, n,
				"@luaIterator loop variables cannot have defaults or nesting")
		}
		body := t.transformLoopBody(n.Body)
		return []luaast.Stmt{luaast.NewGenericFor(names, []luaast.Expr{expr}, body, n)}
	}

	loopVar := t.forOfSingleVar(n)
	body := t.transformLoopBody(n.Body)
	return []luaast.Stmt{luaast.NewGenericFor([]*luaast.Identifier{loopVar}, []luaast.Expr{expr}, body, n)}
}

func (t *Transformer) transformArrayForOf(n *tsast.ForOf) []luaast.Stmt {
	expr := t.transformExpr(n.Expr)
	ipairsCall := luaast.NewCall(luaast.NewAnonymousIdentifier("ipairs", n), []luaast.Expr{expr}, n)
	loopVar, prologue := t.forOfVar(n)
	vars := []*luaast.Identifier{luaast.NewAnonymousIdentifier("____", n), loopVar}
	body := append(prologue, t.transformLoopBody(n.Body)...)
	return []luaast.Stmt{luaast.NewGenericFor(vars, []luaast.Expr{ipairsCall}, body, n)}
}

func (t *Transformer) transformIteratorForOf(n *tsast.ForOf) []luaast.Stmt {
	t.useFeature(lualib.Iterator)
	expr := t.transformExpr(n.Expr)
	iterCall := luaast.NewCall(luaast.NewAnonymousIdentifier("__TS__Iterator", n), []luaast.Expr{expr}, n)
	loopVar, prologue := t.forOfVar(n)
	body := append(prologue, t.transformLoopBody(n.Body)...)
	return []luaast.Stmt{luaast.NewGenericFor([]*luaast.Identifier{loopVar}, []luaast.Expr{iterCall}, body, n)}
}

// forOfSingleVar requires a plain identifier loop variable.
func (t *Transformer) forOfSingleVar(n *tsast.ForOf) *luaast.Identifier {
	if n.Decl == nil {
		t.fail(diag.MissingForOfVariables, n, "for...of requires a loop variable declaration")
	}
	id, ok := n.Decl.Name.(*tsast.Ident)
	if !ok {
		t.fail(diag.UnsupportedObjectDestructuringInForOf, n,
			"destructuring is not supported in this for...of form")
	}
	return t.declarationIdentifier(id)
}

// forOfVar yields the loop variable plus a destructuring prologue when the
// declaration is a pattern or the loop writes to an existing target.
func (t *Transformer) forOfVar(n *tsast.ForOf) (*luaast.Identifier, []luaast.Stmt) {
	if n.Decl != nil {
		if id, ok := n.Decl.Name.(*tsast.Ident); ok {
			return t.declarationIdentifier(id), nil
		}
		if _, isObj := n.Decl.Name.(*tsast.ObjectBindingPattern); isObj {
			t.fail(diag.UnsupportedObjectDestructuringInForOf, n,
				"object destructuring is not supported in for...of")
		}
		tmp := t.tempIdent("value", n)
		prologue := t.lowerPatternInto(n.Decl.Name, luaast.CloneIdentifier(tmp), nil, n)
		return tmp, prologue
	}
	// existing binding: iterate through a temporary, assign in the body
	tmp := t.tempIdent("value", n)
	lt := t.lowerAssignTarget(n.Target, false)
	assign := luaast.NewSingleAssignment(lt.target, luaast.CloneIdentifier(tmp), n)
	return tmp, append(lt.prelude, assign)
}

// iterableSymbol resolves the symbol carrying iteration directives: the
// iterated identifier's own symbol or its type's symbol.
func (t *Transformer) iterableSymbol(e tsast.Expr) *typeoracle.Symbol {
	if sym := t.oracle.SymbolOf(rightmostIdent(e)); sym != nil {
		return sym
	}
	if typ := t.oracle.TypeOf(e); typ != nil {
		return typ.Symbol
	}
	return nil
}

func (t *Transformer) transformForIn(n *tsast.ForIn) []luaast.Stmt {
	if t.oracle.TypeOf(n.Expr).IsArray() {
		t.fail(diag.ForbiddenForIn, n, "for...in is not allowed on arrays")
	}
	if n.Decl == nil {
		t.fail(diag.MissingForOfVariables, n, "for...in requires a loop variable declaration")
	}
	id, ok := n.Decl.Name.(*tsast.Ident)
	if !ok {
		t.fail(diag.UnsupportedKind, n, "for...in loop variable must be an identifier")
	}
	keyVar := t.declarationIdentifier(id)
	pairsCall := luaast.NewCall(luaast.NewAnonymousIdentifier("pairs", n),
		[]luaast.Expr{t.transformExpr(n.Expr)}, n)
	body := t.transformLoopBody(n.Body)
	return []luaast.Stmt{luaast.NewGenericFor([]*luaast.Identifier{keyVar}, []luaast.Expr{pairsCall}, body, n)}
}
