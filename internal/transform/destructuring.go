package transform

import (
	"tstl/internal/diag"
	"tstl/internal/luaast"
	"tstl/internal/tsast"
)

// lowerVarDeclPattern lowers a destructuring variable declaration. The
// fast path — an array pattern of plain names without defaults or nesting
// — becomes one multi-value local fed by the tuple call or unpack; every
// other shape binds the initializer to a temporary and picks it apart.
func (t *Transformer) lowerVarDeclPattern(d *tsast.VarDecl) []luaast.Stmt {
	switch pattern := d.Name.(type) {
	case *tsast.ArrayBindingPattern:
		if names, ok := t.simpleArrayPattern(pattern); ok {
			return []luaast.Stmt{luaast.NewLocal(names, []luaast.Expr{t.declInitValue(d)}, d)}
		}
	case *tsast.ObjectBindingPattern:
		// always through a temporary
	default:
		t.fail(diag.UnsupportedKind, d, "unsupported declaration name %T", d.Name)
	}

	tmp := t.tempIdent("bind", d)
	out := []luaast.Stmt{
		luaast.NewLocal([]*luaast.Identifier{tmp}, []luaast.Expr{t.transformExpr(d.Init)}, d),
	}
	return append(out, t.lowerPatternInto(d.Name, luaast.CloneIdentifier(tmp), nil, d)...)
}

// declInitValue produces the multi-value initializer of the fast path.
func (t *Transformer) declInitValue(d *tsast.VarDecl) luaast.Expr {
	if call, ok := d.Init.(*tsast.Call); ok && t.isTupleReturnCall(call) {
		return t.transformExpr(d.Init)
	}
	return t.unpackCall(t.transformExpr(d.Init), d)
}

// simpleArrayPattern lowers a pattern of plain identifier names, omitted
// slots allowed, into the local name list. It reports false for defaults,
// nesting and property renames; rest elements are rejected outright.
func (t *Transformer) simpleArrayPattern(p *tsast.ArrayBindingPattern) ([]*luaast.Identifier, bool) {
	names := make([]*luaast.Identifier, 0, len(p.Elements))
	for _, el := range p.Elements {
		if el.Rest {
			t.fail(diag.ForbiddenEllipsisDestruction, el, "ellipsis destruction is not allowed")
		}
		if el.Omitted {
			names = append(names, t.tempIdent("unused", el))
			continue
		}
		id, ok := el.Name.(*tsast.Ident)
		if !ok || el.Init != nil {
			return nil, false
		}
		names = append(names, t.declarationIdentifier(id))
	}
	return names, true
}

// lowerPatternInto binds pattern elements out of src. patternDefault, when
// set, applies first: `src == nil` falls back to it before the pattern is
// taken apart (the `{ a } = {} ` default shape).
func (t *Transformer) lowerPatternInto(pattern tsast.Node, src luaast.Expr, patternDefault tsast.Expr, origin tsast.Node) []luaast.Stmt {
	var out []luaast.Stmt
	if patternDefault != nil {
		cond := luaast.NewBinaryExpr(luaast.BinaryEq, src, luaast.NewNil(origin), origin)
		assign := luaast.NewSingleAssignment(src, t.transformExpr(patternDefault), origin)
		out = append(out, luaast.NewIf(cond, []luaast.Stmt{assign}, nil, origin))
	}

	switch p := pattern.(type) {
	case *tsast.Ident:
		name := t.declarationIdentifier(p)
		out = append(out, luaast.NewLocal([]*luaast.Identifier{name}, []luaast.Expr{src}, origin))
	case *tsast.ArrayBindingPattern:
		for i, el := range p.Elements {
			if el.Rest {
				t.fail(diag.ForbiddenEllipsisDestruction, el, "ellipsis destruction is not allowed")
			}
			if el.Omitted || el.Name == nil {
				continue
			}
			elemSrc := luaast.NewTableIndex(src, luaast.NewNumber(float64(i+1), el), el)
			out = append(out, t.lowerElement(el, elemSrc)...)
		}
	case *tsast.ObjectBindingPattern:
		for _, el := range p.Elements {
			if el.Rest {
				t.fail(diag.ForbiddenEllipsisDestruction, el, "ellipsis destruction is not allowed")
			}
			if el.Name == nil {
				continue
			}
			prop := el.PropertyName
			if prop == "" {
				if id, ok := el.Name.(*tsast.Ident); ok {
					prop = id.Text
				}
			}
			elemSrc := luaast.NewDotAccess(src, prop, el)
			out = append(out, t.lowerElement(el, elemSrc)...)
		}
	default:
		t.fail(diag.UnsupportedKind, pattern, "unsupported binding pattern %T", pattern)
	}
	return out
}

// lowerElement binds one pattern element from its source expression,
// applying the element default and recursing into nested patterns through
// a fresh temporary.
func (t *Transformer) lowerElement(el *tsast.BindingElement, elemSrc luaast.Expr) []luaast.Stmt {
	if id, ok := el.Name.(*tsast.Ident); ok {
		name := t.declarationIdentifier(id)
		out := []luaast.Stmt{luaast.NewLocal([]*luaast.Identifier{name}, []luaast.Expr{elemSrc}, el)}
		if el.Init != nil {
			cond := luaast.NewBinaryExpr(luaast.BinaryEq,
				luaast.CloneIdentifier(name), luaast.NewNil(el), el)
			assign := luaast.NewSingleAssignment(
				luaast.CloneIdentifier(name), t.transformExpr(el.Init), el)
			out = append(out, luaast.NewIf(cond, []luaast.Stmt{assign}, nil, el))
		}
		return out
	}
	tmp := t.tempIdent("bind", el)
	out := []luaast.Stmt{luaast.NewLocal([]*luaast.Identifier{tmp}, []luaast.Expr{elemSrc}, el)}
	return append(out, t.lowerPatternInto(el.Name, luaast.CloneIdentifier(tmp), el.Init, el)...)
}
