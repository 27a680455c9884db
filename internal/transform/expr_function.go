package transform

import (
	"tstl/internal/diag"
	"tstl/internal/directive"
	"tstl/internal/lualib"
	"tstl/internal/luaast"
	"tstl/internal/scope"
	"tstl/internal/symbols"
	"tstl/internal/tsast"
	"tstl/internal/typeoracle"
)

// classContext tracks the class whose members are being lowered; the
// generator yields an expression naming the class table for super access.
type classContext struct {
	classRef func() luaast.Expr
}

func (t *Transformer) pushClass(ref func() luaast.Expr) {
	t.classStack = append(t.classStack, &classContext{classRef: ref})
}

func (t *Transformer) popClass() {
	t.classStack = t.classStack[:len(t.classStack)-1]
}

func (t *Transformer) currentClass() *classContext {
	if len(t.classStack) == 0 {
		return nil
	}
	return t.classStack[len(t.classStack)-1]
}

// transformSuperExpr names the base-class table: `C.____super`.
func (t *Transformer) transformSuperExpr(n tsast.Node) luaast.Expr {
	cc := t.currentClass()
	if cc == nil {
		t.fail(diag.UnknownSuperType, n, "'super' used outside of a class")
	}
	return luaast.NewDotAccess(cc.classRef(), SuperFieldName, n)
}

// superPrototype names `C.____super.prototype`.
func (t *Transformer) superPrototype(n tsast.Node) luaast.Expr {
	return luaast.NewDotAccess(t.transformSuperExpr(n), "prototype", n)
}

// transformSuperCall chains to the base constructor on this instance.
func (t *Transformer) transformSuperCall(n *tsast.Call) luaast.Expr {
	callee := luaast.NewDotAccess(t.superPrototype(n), "____constructor", n)
	args := append([]luaast.Expr{selfIdentifier(n)}, t.transformCallArgs(n.Args)...)
	return luaast.NewCall(callee, args, n)
}

// functionTakesSelf decides whether a declared function receives the
// implicit self parameter, from its own directives, an explicit `this`
// parameter and the file-level @noSelfInFile.
func (t *Transformer) functionTakesSelf(decl tsast.Node, params []*tsast.Param) bool {
	for _, p := range params {
		if p.IsThis {
			return p.Type != "void"
		}
	}
	if decl != nil && directive.Has(directive.ForNode(decl, t.reporter), directive.NoSelf) {
		return false
	}
	return !t.noSelfFile
}

// loweredFunction is the output of transformFunctionBody.
type loweredFunction struct {
	params   []*luaast.Identifier
	dots     bool
	body     *luaast.Block
	captured map[symbols.ID]struct{}
}

// transformFunctionBody lowers a parameter list and body: default values
// become nil-check prologues, a rest parameter materialises `...` into a
// table, destructuring parameters unpack from a synthetic temporary.
func (t *Transformer) transformFunctionBody(params []*tsast.Param, body *tsast.Block, addSelf, selfPlaceholder, isGenerator, tupleReturn bool, origin tsast.Node) loweredFunction {
	capture := make(map[symbols.ID]struct{})
	t.captureStack = append(t.captureStack, capture)
	defer func() {
		t.captureStack = t.captureStack[:len(t.captureStack)-1]
	}()

	sc := t.scopes.Push(scope.Function)
	t.pushFunc(&funcContext{tupleReturn: tupleReturn, isGenerator: isGenerator})

	var luaParams []*luaast.Identifier
	if addSelf {
		if selfPlaceholder {
			luaParams = append(luaParams, luaast.NewAnonymousIdentifier("____", origin))
		} else {
			luaParams = append(luaParams, selfIdentifier(origin))
		}
	}

	var prologue []luaast.Stmt
	dots := false
	for _, p := range params {
		if p.IsThis {
			continue
		}
		if p.Rest {
			dots = true
			if id, ok := p.Name.(*tsast.Ident); ok {
				rest := t.declarationIdentifier(id)
				prologue = append(prologue, luaast.NewLocal(
					[]*luaast.Identifier{rest},
					[]luaast.Expr{luaast.NewTableExpr([]*luaast.TableField{
						luaast.NewTableField(nil, luaast.NewDots(p), p),
					}, p)}, p))
			}
			continue
		}
		switch name := p.Name.(type) {
		case *tsast.Ident:
			param := t.declarationIdentifier(name)
			luaParams = append(luaParams, param)
			if p.Init != nil {
				cond := luaast.NewBinaryExpr(luaast.BinaryEq,
					luaast.CloneIdentifier(param), luaast.NewNil(p), p)
				assign := luaast.NewSingleAssignment(
					luaast.CloneIdentifier(param), t.transformExpr(p.Init), p)
				prologue = append(prologue, luaast.NewIf(cond, []luaast.Stmt{assign}, nil, p))
			}
		default:
			tmp := t.tempIdent("param", p)
			luaParams = append(luaParams, tmp)
			prologue = append(prologue, t.lowerPatternInto(name, luaast.CloneIdentifier(tmp), p.Init, p)...)
		}
	}

	var stmts []luaast.Stmt
	if body != nil {
		stmts = t.transformStmtList(body.Stmts)
	}
	t.popFunc()
	t.scopes.Pop()
	stmts = t.hoist(sc, stmts)
	stmts = append(prologue, stmts...)

	out := loweredFunction{
		params:   luaParams,
		dots:     dots,
		body:     luaast.NewBlock(stmts, origin),
		captured: capture,
	}
	if isGenerator {
		out.body = t.buildGeneratorBody(out.body, origin)
	}
	return out
}

// buildGeneratorBody wraps a lowered generator body into the coroutine
// iterator protocol: resume on next(), surface errors, report done from
// the coroutine status, and answer the iterable protocol with self.
func (t *Transformer) buildGeneratorBody(body *luaast.Block, origin tsast.Node) *luaast.Block {
	t.useFeature(lualib.SymbolFeature)

	co := luaast.NewAnonymousIdentifier("____co", origin)
	inner := luaast.NewFunctionExpr(nil, false, body, origin)
	create := luaast.NewDotAccess(luaast.NewAnonymousIdentifier("coroutine", origin), "create", origin)
	createCall := luaast.NewCall(create, []luaast.Expr{inner}, origin)

	ok := luaast.NewAnonymousIdentifier("____ok", origin)
	value := luaast.NewAnonymousIdentifier("____value", origin)
	resume := luaast.NewDotAccess(luaast.NewAnonymousIdentifier("coroutine", origin), "resume", origin)
	resumeCall := luaast.NewCall(resume, []luaast.Expr{luaast.CloneIdentifier(co), luaast.NewDots(origin)}, origin)

	status := luaast.NewDotAccess(luaast.NewAnonymousIdentifier("coroutine", origin), "status", origin)
	statusCall := luaast.NewCall(status, []luaast.Expr{luaast.CloneIdentifier(co)}, origin)
	done := luaast.NewBinaryExpr(luaast.BinaryEq, statusCall, luaast.NewString("dead", origin), origin)

	nextBody := luaast.NewBlock([]luaast.Stmt{
		luaast.NewLocal([]*luaast.Identifier{ok, value}, []luaast.Expr{resumeCall}, origin),
		luaast.NewIf(
			luaast.NewUnaryExpr(luaast.UnaryNot, luaast.CloneIdentifier(ok), origin),
			[]luaast.Stmt{luaast.NewExprStmt(
				luaast.NewCall(luaast.NewAnonymousIdentifier("error", origin),
					[]luaast.Expr{luaast.CloneIdentifier(value)}, origin), origin)},
			nil, origin),
		luaast.NewReturn([]luaast.Expr{
			luaast.NewTableExpr([]*luaast.TableField{
				luaast.NewTableField(luaast.NewString("done", origin), done, origin),
				luaast.NewTableField(luaast.NewString("value", origin), luaast.CloneIdentifier(value), origin),
			}, origin),
		}, origin),
	}, origin)
	nextFn := luaast.NewFunctionExpr(
		[]*luaast.Identifier{luaast.NewAnonymousIdentifier("____", origin)}, true, nextBody, origin)

	iterSelf := selfIdentifier(origin)
	iterBody := luaast.NewBlock([]luaast.Stmt{
		luaast.NewReturn([]luaast.Expr{luaast.CloneIdentifier(iterSelf)}, origin),
	}, origin)
	iterFn := luaast.NewFunctionExpr([]*luaast.Identifier{iterSelf}, false, iterBody, origin)
	iterKey := luaast.NewDotAccess(luaast.NewAnonymousIdentifier("Symbol", origin), "iterator", origin)

	iterator := luaast.NewTableExpr([]*luaast.TableField{
		luaast.NewTableField(luaast.NewString("next", origin), nextFn, origin),
		luaast.NewTableField(iterKey, iterFn, origin),
	}, origin)

	return luaast.NewBlock([]luaast.Stmt{
		luaast.NewLocal([]*luaast.Identifier{co}, []luaast.Expr{createCall}, origin),
		luaast.NewReturn([]luaast.Expr{iterator}, origin),
	}, origin)
}

// transformFunctionExpr lowers function and arrow expressions. The
// contextual type decides the calling convention when one is known; arrows
// with a non-void context receive a `____` placeholder so the convention
// matches while `this` keeps resolving to the enclosing self.
func (t *Transformer) transformFunctionExpr(n *tsast.FunctionExpr) luaast.Expr {
	addSelf := t.functionTakesSelf(n, n.Params)
	if ctx := t.oracle.ContextualType(n); ctx != nil && len(ctx.Sigs) > 0 {
		addSelf = t.signatureContext(ctx.Sigs[0], nil) == typeoracle.ContextNonVoid
	}
	tupleReturn := directive.Has(directive.ForNode(n, t.reporter), directive.TupleReturn)
	lowered := t.transformFunctionBody(
		n.Params, n.Body, addSelf, n.IsArrow, n.IsGenerator, tupleReturn, n)
	return luaast.NewFunctionExpr(lowered.params, lowered.dots, lowered.body, n)
}
