package transform

import (
	"tstl/internal/diag"
	"tstl/internal/lualib"
	"tstl/internal/luaast"
	"tstl/internal/tsast"
)

// transformExpr dispatches on the TSL expression kind.
func (t *Transformer) transformExpr(e tsast.Expr) luaast.Expr {
	switch n := e.(type) {
	case *tsast.Ident:
		return t.transformIdentifierExpr(n)
	case *tsast.NumberLit:
		return luaast.NewNumberRaw(n.Raw, n.Value, n)
	case *tsast.StringLit:
		return luaast.NewString(n.Value, n)
	case *tsast.BoolLit:
		return luaast.NewBoolean(n.Value, n)
	case *tsast.NullLit:
		return luaast.NewNil(n)
	case *tsast.ThisExpr:
		return selfIdentifier(n)
	case *tsast.SuperExpr:
		return t.transformSuperExpr(n)
	case *tsast.OmittedExpr:
		return luaast.NewNil(n)
	case *tsast.ArrayLit:
		return t.transformArrayLit(n)
	case *tsast.ObjectLit:
		return t.transformObjectLit(n)
	case *tsast.Binary:
		return t.transformBinaryExpr(n)
	case *tsast.PrefixUnary:
		return t.transformPrefixUnary(n)
	case *tsast.PostfixUnary:
		return t.transformPostfixUnary(n)
	case *tsast.Conditional:
		return t.transformConditional(n)
	case *tsast.Call:
		return t.transformCallExpr(n)
	case *tsast.New:
		return t.transformNewExpr(n)
	case *tsast.PropertyAccess:
		return t.transformPropertyAccess(n)
	case *tsast.ElementAccess:
		return t.transformElementAccess(n)
	case *tsast.TemplateLit:
		return t.transformTemplateLit(n)
	case *tsast.TaggedTemplate:
		return t.transformTaggedTemplate(n)
	case *tsast.SpreadElement:
		return t.transformSpreadElement(n)
	case *tsast.FunctionExpr:
		return t.transformFunctionExpr(n)
	case *tsast.YieldExpr:
		return t.transformYield(n)
	case *tsast.DeleteExpr:
		return t.transformDelete(n)
	case *tsast.TypeOfExpr:
		return t.transformTypeOf(n)
	case *tsast.ParenExpr:
		return luaast.NewParen(t.transformExpr(n.Inner), n)
	default:
		t.fail(diag.UnsupportedKind, e, "unsupported expression kind %T", e)
		return nil
	}
}

func (t *Transformer) transformArrayLit(n *tsast.ArrayLit) luaast.Expr {
	fields := make([]*luaast.TableField, 0, len(n.Elements))
	for i, el := range n.Elements {
		if sp, ok := el.(*tsast.SpreadElement); ok {
			v := t.transformSpreadElement(sp)
			if i != len(n.Elements)-1 {
				// a non-trailing multi-value would be truncated by Lua anyway
				v = luaast.NewParen(v, sp)
			}
			fields = append(fields, luaast.NewTableField(nil, v, sp))
			continue
		}
		fields = append(fields, luaast.NewTableField(nil, t.transformExpr(el), el))
	}
	return luaast.NewTableExpr(fields, n)
}

func (t *Transformer) transformObjectLit(n *tsast.ObjectLit) luaast.Expr {
	hasSpread := false
	for _, p := range n.Props {
		if p.Spread != nil {
			hasSpread = true
			break
		}
	}
	if hasSpread {
		return t.transformObjectLitWithSpread(n)
	}
	fields := make([]*luaast.TableField, 0, len(n.Props))
	for _, p := range n.Props {
		fields = append(fields, t.transformObjectProp(p))
	}
	return luaast.NewTableExpr(fields, n)
}

func (t *Transformer) transformObjectProp(p *tsast.ObjectProp) *luaast.TableField {
	var key luaast.Expr
	switch {
	case p.Computed != nil:
		key = t.transformExpr(p.Computed)
	case p.Name != nil:
		key = luaast.NewString(p.Name.Text, p.Name)
	}
	var value luaast.Expr
	if p.Shorthand {
		value = t.transformIdentifierExpr(p.Name)
	} else {
		value = t.transformExpr(p.Value)
	}
	return luaast.NewTableField(key, value, p)
}

// transformObjectLitWithSpread folds `{...a, b: 1}` through ObjectAssign
// so later entries overwrite spread-in ones in evaluation order.
func (t *Transformer) transformObjectLitWithSpread(n *tsast.ObjectLit) luaast.Expr {
	t.useFeature(lualib.ObjectAssign)
	args := []luaast.Expr{luaast.NewTableExpr(nil, n)}
	var pending []*luaast.TableField
	flush := func() {
		if len(pending) > 0 {
			args = append(args, luaast.NewTableExpr(pending, n))
			pending = nil
		}
	}
	for _, p := range n.Props {
		if p.Spread != nil {
			flush()
			args = append(args, t.transformExpr(p.Spread))
			continue
		}
		pending = append(pending, t.transformObjectProp(p))
	}
	flush()
	return luaast.NewCall(luaast.NewAnonymousIdentifier("__TS__ObjectAssign", n), args, n)
}

// transformConditional lowers `cond ? a : b` to `cond and a or b` when the
// true branch can never be falsy; otherwise both branches are wrapped in
// zero-argument functions and the chosen one is called so falsy truthy
// branches still flow through.
func (t *Transformer) transformConditional(n *tsast.Conditional) luaast.Expr {
	cond := t.transformExpr(n.Cond)
	if !t.conditionalBranchMayBeFalsy(n.WhenTrue) {
		whenTrue := t.transformExpr(n.WhenTrue)
		whenFalse := t.transformExpr(n.WhenFalse)
		return luaast.NewBinaryExpr(luaast.BinaryOr,
			luaast.NewBinaryExpr(luaast.BinaryAnd, cond, whenTrue, n),
			whenFalse, n)
	}
	wrap := func(e tsast.Expr) luaast.Expr {
		body := luaast.NewBlock([]luaast.Stmt{
			luaast.NewReturn([]luaast.Expr{t.transformExpr(e)}, e),
		}, e)
		return luaast.NewFunctionExpr(nil, false, body, e)
	}
	chosen := luaast.NewParen(luaast.NewBinaryExpr(luaast.BinaryOr,
		luaast.NewBinaryExpr(luaast.BinaryAnd, cond, wrap(n.WhenTrue), n),
		wrap(n.WhenFalse), n), n)
	return luaast.NewCall(chosen, nil, n)
}

// conditionalBranchMayBeFalsy decides whether the and/or idiom is unsafe
// for the true branch. Truthy literals are always safe regardless of
// strictness; everything else falls back to the type.
func (t *Transformer) conditionalBranchMayBeFalsy(e tsast.Expr) bool {
	switch lit := e.(type) {
	case *tsast.NumberLit, *tsast.StringLit:
		return false
	case *tsast.BoolLit:
		return !lit.Value
	}
	return t.oracle.TypeOf(e).CanBeFalsyNotNumber(t.opts.StrictNullChecks)
}

func (t *Transformer) transformTemplateLit(n *tsast.TemplateLit) luaast.Expr {
	var parts []luaast.Expr
	for i, quasi := range n.Quasis {
		if quasi != "" || len(n.Quasis) == 1 {
			parts = append(parts, luaast.NewString(quasi, n))
		}
		if i < len(n.Exprs) {
			parts = append(parts, t.concatOperand(n.Exprs[i]))
		}
	}
	if len(parts) == 0 {
		return luaast.NewString("", n)
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out = luaast.NewBinaryExpr(luaast.BinaryConcat, out, p, n)
	}
	return out
}

// transformTaggedTemplate builds the cooked-strings array with its `raw`
// field and passes it as the tag's first argument.
func (t *Transformer) transformTaggedTemplate(n *tsast.TaggedTemplate) luaast.Expr {
	tmpl := n.Template
	var cooked []*luaast.TableField
	var raw []*luaast.TableField
	for i, q := range tmpl.Quasis {
		cooked = append(cooked, luaast.NewTableField(nil, luaast.NewString(q, tmpl), tmpl))
		rawText := q
		if i < len(tmpl.RawQuasis) {
			rawText = tmpl.RawQuasis[i]
		}
		raw = append(raw, luaast.NewTableField(nil, luaast.NewString(rawText, tmpl), tmpl))
	}
	cooked = append(cooked, luaast.NewTableField(
		luaast.NewString("raw", tmpl), luaast.NewTableExpr(raw, tmpl), tmpl))
	args := []luaast.Expr{luaast.NewTableExpr(cooked, tmpl)}
	for _, e := range tmpl.Exprs {
		args = append(args, t.transformExpr(e))
	}
	tag := t.transformExpr(n.Tag)
	return luaast.NewCall(tag, args, n)
}

func (t *Transformer) transformYield(n *tsast.YieldExpr) luaast.Expr {
	var args []luaast.Expr
	if n.Expr != nil {
		args = append(args, t.transformExpr(n.Expr))
	}
	yield := luaast.NewDotAccess(luaast.NewAnonymousIdentifier("coroutine", n), "yield", n)
	return luaast.NewCall(yield, args, n)
}

// transformDelete assigns nil to the target and yields literal true from
// an immediately-invoked function.
func (t *Transformer) transformDelete(n *tsast.DeleteExpr) luaast.Expr {
	target := t.transformExpr(n.Target)
	if !luaast.AssignmentTarget(target) {
		t.fail(diag.UnsupportedKind, n, "delete target must be a property or element access")
	}
	body := luaast.NewBlock([]luaast.Stmt{
		luaast.NewSingleAssignment(target, luaast.NewNil(n), n),
		luaast.NewReturn([]luaast.Expr{luaast.NewBoolean(true, n)}, n),
	}, n)
	fn := luaast.NewFunctionExpr(nil, false, body, n)
	return luaast.NewCall(luaast.NewParen(fn, n), nil, n)
}

func (t *Transformer) transformTypeOf(n *tsast.TypeOfExpr) luaast.Expr {
	t.useFeature(lualib.TypeOf)
	return luaast.NewCall(luaast.NewAnonymousIdentifier("__TS__TypeOf", n),
		[]luaast.Expr{t.transformExpr(n.Operand)}, n)
}

// concatOperand prepares an operand for `..`: literal strings, numbers and
// nested concats pass through, everything else goes through tostring.
func (t *Transformer) concatOperand(e tsast.Expr) luaast.Expr {
	lowered := t.transformExpr(e)
	switch v := lowered.(type) {
	case *luaast.StringLiteral, *luaast.NumericLiteral:
		return lowered
	case *luaast.BinaryExpr:
		if v.Op == luaast.BinaryConcat {
			return lowered
		}
	}
	typ := t.oracle.TypeOf(e)
	if typ.IsString() || typ.IsNumber() {
		return lowered
	}
	return luaast.NewCall(luaast.NewAnonymousIdentifier("tostring", e), []luaast.Expr{lowered}, e)
}
