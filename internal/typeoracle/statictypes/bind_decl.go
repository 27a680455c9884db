package statictypes

import (
	"tstl/internal/tsast"
	"tstl/internal/typeoracle"
)

func (b *binder) classDecl(n *tsast.ClassDecl) {
	if n.Name == nil {
		return
	}
	sym := b.c.SymbolOf(n.Name)
	ci := b.c.classes[n.Name.Text]
	if ci == nil {
		ci = &classInfo{
			typ:     &typeoracle.Type{Kind: typeoracle.KindClass, Name: n.Name.Text, Symbol: sym},
			members: make(map[string]*memberInfo),
			statics: make(map[string]*memberInfo),
		}
		b.c.classes[n.Name.Text] = ci
	}
	if sym != nil {
		b.typeSymDirect(sym, ci.typ)
	}

	for _, d := range n.Decorators {
		b.expr(d)
	}
	if n.Extends != nil {
		b.expr(n.Extends)
		if base := b.c.TypeOf(n.Extends); base != nil {
			b.c.bases[ci.typ] = append(b.c.bases[ci.typ], base)
			if parent := b.c.classes[base.Name]; parent != nil {
				for name, m := range parent.members {
					if _, shadowed := ci.members[name]; !shadowed {
						ci.members[name] = m
					}
				}
			}
		}
	}

	// member signatures first so bodies can call siblings
	for _, m := range n.Members {
		b.declareMember(ci, m)
	}

	prevClass := b.curClass
	b.curClass = ci
	for _, m := range n.Members {
		if m.Body != nil {
			b.enterFunction(m.Params, m.Body)
		}
		if m.Init != nil {
			b.expr(m.Init)
		}
	}
	b.curClass = prevClass
}

func (b *binder) declareMember(ci *classInfo, m *tsast.ClassMember) {
	table := ci.members
	if m.Static {
		table = ci.statics
	}
	switch m.Kind {
	case tsast.MemberConstructor:
		sig := b.buildSignature(m, m.Params, "")
		ci.members["constructor"] = &memberInfo{sig: sig}
		// parameter properties become instance members
		for _, p := range m.Params {
			if !p.Property {
				continue
			}
			if id, ok := p.Name.(*tsast.Ident); ok {
				ci.members[id.Text] = &memberInfo{typ: b.c.parseAnnotation(p.Type)}
			}
		}
	case tsast.MemberMethod:
		sig := b.buildSignature(m, m.Params, m.ReturnType)
		table[m.Name] = &memberInfo{sig: sig, typ: typeoracle.FunctionOf(sig)}
	case tsast.MemberProperty:
		t := b.c.parseAnnotation(m.Type)
		if t == nil && m.Init != nil {
			b.expr(m.Init)
			t = b.c.TypeOf(m.Init)
		}
		table[m.Name] = &memberInfo{typ: t}
	case tsast.MemberGet:
		table[m.Name] = &memberInfo{typ: b.c.parseAnnotation(m.ReturnType)}
	case tsast.MemberSet:
		if existing := table[m.Name]; existing == nil {
			var t *typeoracle.Type
			if len(m.Params) > 0 {
				t = b.c.parseAnnotation(m.Params[0].Type)
			}
			table[m.Name] = &memberInfo{typ: t}
		}
	}
}

func (b *binder) enumDecl(n *tsast.EnumDecl) {
	sym := b.c.SymbolOf(n.Name)
	if sym == nil {
		return
	}
	et := &typeoracle.Type{Kind: typeoracle.KindEnum, Name: n.Name.Text, Symbol: sym}
	b.typeSymDirect(sym, et)

	if b.c.enums == nil {
		b.c.enums = make(map[*typeoracle.Symbol]*enumInfo)
	}
	ei := &enumInfo{typ: et, values: make(map[string]typeoracle.ConstantValue), decl: n}
	b.c.enums[sym] = ei

	next := float64(0)
	for _, m := range n.Members {
		if m.Init != nil {
			b.expr(m.Init)
		}
		switch init := m.Init.(type) {
		case nil:
			ei.values[m.Name] = typeoracle.ConstantValue{Num: next}
			next++
		case *tsast.NumberLit:
			ei.values[m.Name] = typeoracle.ConstantValue{Num: init.Value}
			next = init.Value + 1
		case *tsast.StringLit:
			ei.values[m.Name] = typeoracle.ConstantValue{Str: init.Value, IsString: true}
		default:
			// computed member: value unavailable for folding
		}
	}
}

func (b *binder) moduleDecl(n *tsast.ModuleDecl) {
	nsSym := b.c.SymbolOf(n.Name)
	if nsSym == nil {
		return
	}
	prevScope := b.curScope
	b.curScope = nsSym
	b.pushScope()
	b.declareStmts(n.Body, nsSym)
	for _, s := range n.Body {
		b.stmt(s)
	}
	b.popScope()
	b.curScope = prevScope
}
