package transform

import (
	"tstl/internal/diag"
	"tstl/internal/directive"
	"tstl/internal/lualib"
	"tstl/internal/luaast"
	"tstl/internal/mangle"
	"tstl/internal/tsast"
	"tstl/internal/typeoracle"
)

func (t *Transformer) transformCallExpr(n *tsast.Call) luaast.Expr {
	if _, ok := n.Callee.(*tsast.SuperExpr); ok {
		return t.transformSuperCall(n)
	}

	if pa, ok := n.Callee.(*tsast.PropertyAccess); ok {
		if builtin := t.transformBuiltinCall(n, pa); builtin != nil {
			return builtin
		}
	}

	// a @forRange function produces a numeric for header; any other use is
	// meaningless
	if sym := t.calleeSymbol(n.Callee); sym != nil && t.directives.SymbolHas(sym, directive.ForRange) {
		t.fail(diag.InvalidForRangeCall, n, "@forRange function can only be called in a for...of loop")
	}

	sig := t.oracle.ResolvedSignature(n)
	ctx := t.signatureContext(sig, t.calleeSymbol(n.Callee))
	args := t.transformCallArgs(n.Args)

	if pa, ok := n.Callee.(*tsast.PropertyAccess); ok {
		return t.transformMethodStyleCall(n, pa, ctx, args)
	}

	callee := t.transformExpr(n.Callee)
	if ctx == typeoracle.ContextNonVoid {
		args = append([]luaast.Expr{t.bareCallContext(n)}, args...)
	}
	return luaast.NewCall(callee, args, n)
}

// transformMethodStyleCall emits `table.method(args)` with no receiver when
// the callee takes no implicit self. Otherwise it emits `table:method(args)`
// when the name is a valid Lua identifier, and injects the receiver as an
// explicit first argument when it is not.
func (t *Transformer) transformMethodStyleCall(n *tsast.Call, pa *tsast.PropertyAccess, ctx typeoracle.ContextType, args []luaast.Expr) luaast.Expr {
	if _, ok := pa.Expr.(*tsast.SuperExpr); ok {
		// super.method(args) runs the base implementation on this instance
		callee := luaast.NewDotAccess(t.superPrototype(pa), pa.Name, pa)
		return luaast.NewCall(callee, append([]luaast.Expr{selfIdentifier(n)}, args...), n)
	}

	table := t.transformExpr(pa.Expr)

	if ctx != typeoracle.ContextNonVoid {
		return luaast.NewCall(luaast.NewDotAccess(table, pa.Name, pa), args, n)
	}

	if mangle.IsValidIdentifier(pa.Name) && !mangle.IsKeyword(pa.Name) {
		name := luaast.NewAnonymousIdentifier(pa.Name, pa)
		return luaast.NewMethodCall(table, name, args, n)
	}

	// invalid identifier name: inject the receiver explicitly, caching it
	// when its evaluation has effects
	if exprHasEffects(pa.Expr) {
		tmp := t.tempIdent("self", n)
		body := luaast.NewBlock([]luaast.Stmt{
			luaast.NewLocal([]*luaast.Identifier{tmp}, []luaast.Expr{table}, n),
			luaast.NewReturn([]luaast.Expr{
				luaast.NewCall(
					luaast.NewTableIndex(luaast.CloneIdentifier(tmp), luaast.NewString(pa.Name, pa), pa),
					append([]luaast.Expr{luaast.CloneIdentifier(tmp)}, args...), n),
			}, n),
		}, n)
		fn := luaast.NewFunctionExpr(nil, false, body, n)
		return luaast.NewCall(luaast.NewParen(fn, n), nil, n)
	}
	callee := luaast.NewTableIndex(table, luaast.NewString(pa.Name, pa), pa)
	selfArg := t.transformExpr(pa.Expr)
	return luaast.NewCall(callee, append([]luaast.Expr{selfArg}, args...), n)
}

// bareCallContext is the implicit context of a bare call: _G outside
// strict mode, nil inside it.
func (t *Transformer) bareCallContext(origin tsast.Node) luaast.Expr {
	if t.opts.Strict || t.opts.AlwaysStrict {
		return luaast.NewNil(origin)
	}
	return luaast.NewAnonymousIdentifier("_G", origin)
}

// signatureContext derives whether the callable receives an implicit self.
func (t *Transformer) signatureContext(sig *typeoracle.Signature, owner *typeoracle.Symbol) typeoracle.ContextType {
	if sig != nil {
		if sig.HasThisParam {
			if sig.ThisIsVoid {
				return typeoracle.ContextVoid
			}
			return typeoracle.ContextNonVoid
		}
		if t.directives.SignatureHas(sig, owner, directive.NoSelf) {
			return typeoracle.ContextVoid
		}
	} else if owner != nil && t.directives.SymbolHas(owner, directive.NoSelf) {
		return typeoracle.ContextVoid
	}
	if t.noSelfFile {
		return typeoracle.ContextVoid
	}
	return typeoracle.ContextNonVoid
}

// transformCallArgs lowers an argument list; only a trailing spread keeps
// its multi-value expansion.
func (t *Transformer) transformCallArgs(args []tsast.Expr) []luaast.Expr {
	out := make([]luaast.Expr, 0, len(args))
	for i, a := range args {
		lowered := t.transformExpr(a)
		if _, isSpread := a.(*tsast.SpreadElement); isSpread && i != len(args)-1 {
			lowered = luaast.NewParen(lowered, a)
		}
		out = append(out, lowered)
	}
	return out
}

func (t *Transformer) transformNewExpr(n *tsast.New) luaast.Expr {
	sym := t.calleeSymbol(n.Callee)
	if sym != nil {
		if t.directives.SymbolHas(sym, directive.Extension) || t.directives.SymbolHas(sym, directive.MetaExtension) {
			t.fail(diag.InvalidNewExpressionOnExtension, n, "cannot construct an extension class")
		}
		if t.directives.SymbolHas(sym, directive.LuaTable) {
			if len(n.Args) != 0 {
				t.fail(diag.ForbiddenLuaTableUseException, n, "@luaTable constructor takes no arguments")
			}
			return luaast.NewTableExpr(nil, n)
		}
		if d, ok := directive.Get(t.directives.ForSymbol(sym), directive.CustomConstructor); ok && len(d.Args) > 0 {
			callee := luaast.NewAnonymousIdentifier(d.Args[0], n)
			return luaast.NewCall(callee, t.transformCallArgs(n.Args), n)
		}
	}

	if id, ok := n.Callee.(*tsast.Ident); ok {
		switch id.Text {
		case "Map", "Set", "WeakMap", "WeakSet":
			t.useFeature(lualib.Feature(id.Text))
			callee := luaast.NewDotAccess(luaast.NewAnonymousIdentifier(id.Text, n), "new", n)
			return luaast.NewCall(callee, t.transformCallArgs(n.Args), n)
		}
	}

	callee := t.transformExpr(n.Callee)
	factory := luaast.NewDotAccess(callee, "new", n)
	return luaast.NewCall(factory, t.transformCallArgs(n.Args), n)
}
