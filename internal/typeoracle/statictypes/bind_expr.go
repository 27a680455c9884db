package statictypes

import (
	"tstl/internal/tsast"
	"tstl/internal/typeoracle"
)

func (b *binder) expr(e tsast.Expr) {
	if e == nil {
		return
	}
	c := b.c
	switch n := e.(type) {
	case *tsast.Ident:
		if sym := b.resolve(n.Text); sym != nil {
			c.SetSymbol(n, sym)
		}
	case *tsast.NumberLit:
		c.SetType(n, typeoracle.Number)
	case *tsast.StringLit:
		c.SetType(n, typeoracle.String)
	case *tsast.BoolLit:
		c.SetType(n, typeoracle.Boolean)
	case *tsast.NullLit:
		c.SetType(n, typeoracle.Null)
	case *tsast.ThisExpr:
		if b.curClass != nil {
			c.SetType(n, b.curClass.typ)
		}
	case *tsast.SuperExpr, *tsast.OmittedExpr:
		// nothing to record
	case *tsast.ArrayLit:
		for _, el := range n.Elements {
			b.expr(el)
		}
		c.SetType(n, b.arrayLitType(n))
	case *tsast.ObjectLit:
		for _, p := range n.Props {
			if p.Computed != nil {
				b.expr(p.Computed)
			}
			if p.Value != nil {
				b.expr(p.Value)
			}
			if p.Spread != nil {
				b.expr(p.Spread)
			}
			if p.Shorthand && p.Name != nil {
				b.expr(p.Name)
			}
		}
		c.SetType(n, typeoracle.ObjectNamed(""))
	case *tsast.Binary:
		b.expr(n.Left)
		b.expr(n.Right)
		c.SetType(n, b.binaryType(n))
	case *tsast.PrefixUnary:
		b.expr(n.Operand)
		if n.Op == tsast.UnNot {
			c.SetType(n, typeoracle.Boolean)
		} else {
			c.SetType(n, typeoracle.Number)
		}
	case *tsast.PostfixUnary:
		b.expr(n.Operand)
		c.SetType(n, typeoracle.Number)
	case *tsast.Conditional:
		b.expr(n.Cond)
		b.expr(n.WhenTrue)
		b.expr(n.WhenFalse)
		if t := c.TypeOf(n.WhenTrue); t != nil {
			c.SetType(n, t)
		}
	case *tsast.Call:
		b.expr(n.Callee)
		for _, a := range n.Args {
			b.expr(a)
		}
		b.callTypes(n)
	case *tsast.New:
		b.expr(n.Callee)
		for _, a := range n.Args {
			b.expr(a)
		}
		b.newTypes(n)
	case *tsast.PropertyAccess:
		b.expr(n.Expr)
		b.propertyTypes(n)
	case *tsast.ElementAccess:
		b.expr(n.Expr)
		b.expr(n.Index)
		t := c.TypeOf(n.Expr)
		switch {
		case t.IsArray():
			c.SetType(n, t.Elem)
		case t.IsString():
			c.SetType(n, typeoracle.String)
		}
	case *tsast.TemplateLit:
		for _, x := range n.Exprs {
			b.expr(x)
		}
		c.SetType(n, typeoracle.String)
	case *tsast.TaggedTemplate:
		b.expr(n.Tag)
		b.expr(n.Template)
	case *tsast.SpreadElement:
		b.expr(n.Expr)
	case *tsast.FunctionExpr:
		sig := b.buildSignature(n, n.Params, n.ReturnType)
		c.SetType(n, typeoracle.FunctionOf(sig))
		if n.Body != nil {
			b.enterFunction(n.Params, n.Body)
		}
	case *tsast.YieldExpr:
		if n.Expr != nil {
			b.expr(n.Expr)
		}
	case *tsast.DeleteExpr:
		b.expr(n.Target)
		c.SetType(n, typeoracle.Boolean)
	case *tsast.TypeOfExpr:
		b.expr(n.Operand)
		c.SetType(n, typeoracle.String)
	case *tsast.ParenExpr:
		b.expr(n.Inner)
		if t := c.TypeOf(n.Inner); t != nil {
			c.SetType(n, t)
		}
	}
}

func (b *binder) arrayLitType(n *tsast.ArrayLit) *typeoracle.Type {
	var elem *typeoracle.Type
	for _, el := range n.Elements {
		if _, ok := el.(*tsast.SpreadElement); ok {
			continue
		}
		t := b.c.TypeOf(el)
		if t == nil {
			return typeoracle.ArrayOf(typeoracle.Any)
		}
		if elem == nil {
			elem = t
		} else if elem.Kind != t.Kind {
			return typeoracle.ArrayOf(typeoracle.Any)
		}
	}
	if elem == nil {
		elem = typeoracle.Any
	}
	return typeoracle.ArrayOf(elem)
}

func (b *binder) binaryType(n *tsast.Binary) *typeoracle.Type {
	c := b.c
	switch n.Op {
	case tsast.BinAdd:
		if c.TypeOf(n.Left).IsString() || c.TypeOf(n.Right).IsString() {
			return typeoracle.String
		}
		return typeoracle.Number
	case tsast.BinSub, tsast.BinMul, tsast.BinDiv, tsast.BinMod, tsast.BinPow,
		tsast.BinBitAnd, tsast.BinBitOr, tsast.BinBitXor, tsast.BinShl, tsast.BinShr, tsast.BinUshr:
		return typeoracle.Number
	case tsast.BinEq, tsast.BinNeq, tsast.BinLt, tsast.BinGt, tsast.BinLe, tsast.BinGe,
		tsast.BinInstanceOf, tsast.BinIn:
		return typeoracle.Boolean
	case tsast.BinLogicalAnd, tsast.BinLogicalOr, tsast.BinNullishCoalesce:
		return c.TypeOf(n.Right)
	default:
		if n.Op.IsAssignment() {
			return c.TypeOf(n.Right)
		}
		return nil
	}
}

func (b *binder) callTypes(n *tsast.Call) {
	c := b.c
	if t := c.TypeOf(n.Callee); t.IsFunction() && len(t.Sigs) > 0 {
		sig := t.Sigs[0]
		c.SetSignature(n, sig)
		if sig.Return != nil {
			c.SetType(n, sig.Return)
		}
		return
	}
	pa, ok := n.Callee.(*tsast.PropertyAccess)
	if !ok {
		return
	}
	recv := c.TypeOf(pa.Expr)
	switch {
	case recv.IsArray():
		c.SetType(n, arrayMethodReturn(pa.Name, recv))
	case recv.IsString():
		c.SetType(n, stringMethodReturn(pa.Name))
	case recv != nil && recv.Name == "Math":
		c.SetType(n, typeoracle.Number)
	case recv != nil && recv.Kind == typeoracle.KindClass:
		if ci := c.classes[recv.Name]; ci != nil {
			if m := ci.members[pa.Name]; m != nil && m.sig != nil {
				c.SetSignature(n, m.sig)
				if m.sig.Return != nil {
					c.SetType(n, m.sig.Return)
				}
			}
		}
	}
}

func arrayMethodReturn(name string, recv *typeoracle.Type) *typeoracle.Type {
	switch name {
	case "push", "unshift", "indexOf", "lastIndexOf", "findIndex":
		return typeoracle.Number
	case "pop", "shift", "find":
		return recv.Elem
	case "join":
		return typeoracle.String
	case "slice", "splice", "concat", "reverse", "sort", "filter":
		return recv
	case "map", "flat":
		return typeoracle.ArrayOf(typeoracle.Any)
	case "some", "every", "includes":
		return typeoracle.Boolean
	default:
		return typeoracle.Any
	}
}

func stringMethodReturn(name string) *typeoracle.Type {
	switch name {
	case "split":
		return typeoracle.ArrayOf(typeoracle.String)
	case "indexOf", "charCodeAt", "length":
		return typeoracle.Number
	case "includes", "startsWith", "endsWith":
		return typeoracle.Boolean
	default:
		return typeoracle.String
	}
}

func (b *binder) newTypes(n *tsast.New) {
	c := b.c
	id, ok := n.Callee.(*tsast.Ident)
	if !ok {
		return
	}
	ci := c.classes[id.Text]
	if ci == nil {
		return
	}
	c.SetType(n, ci.typ)
	if m := ci.members["constructor"]; m != nil && m.sig != nil {
		c.SetSignature(n, m.sig)
	}
}

func (b *binder) propertyTypes(n *tsast.PropertyAccess) {
	c := b.c
	recv := c.TypeOf(n.Expr)

	if n.Name == "length" && (recv.IsArray() || recv.IsString() || recv.IsTuple()) {
		c.SetType(n, typeoracle.Number)
		return
	}

	if sym := c.SymbolOf(exprIdent(n.Expr)); sym != nil {
		if ei := c.enums[sym]; ei != nil {
			if v, ok := ei.values[n.Name]; ok {
				if sym.Flags&typeoracle.SymConstEnum != 0 {
					c.SetConstantValue(n, v)
				}
				if v.IsString {
					c.SetType(n, typeoracle.String)
				} else {
					c.SetType(n, typeoracle.Number)
				}
				return
			}
		}
	}

	if recv != nil && recv.Kind == typeoracle.KindClass {
		if ci := c.classes[recv.Name]; ci != nil {
			if m := ci.members[n.Name]; m != nil && m.typ != nil {
				c.SetType(n, m.typ)
			}
		}
	}
}

func exprIdent(e tsast.Expr) tsast.Node {
	if id, ok := e.(*tsast.Ident); ok {
		return id
	}
	return nil
}
