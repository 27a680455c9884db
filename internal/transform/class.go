package transform

import (
	"tstl/internal/diag"
	"tstl/internal/directive"
	"tstl/internal/lualib"
	"tstl/internal/luaast"
	"tstl/internal/tsast"
)

// forbiddenStaticNames collide with the emitted class protocol.
var forbiddenStaticNames = map[string]struct{}{
	"new": {}, "name": {}, "prototype": {}, SuperFieldName: {},
}

// transformClassDecl emits the prototype-table protocol for a class.
func (t *Transformer) transformClassDecl(n *tsast.ClassDecl) []luaast.Stmt {
	if n.Name == nil {
		t.fail(diag.MissingClassName, n, "class declarations require a name")
	}
	classSym := t.oracle.SymbolOf(n.Name)
	dirs := t.directives.ForSymbol(classSym)

	if directive.Has(dirs, directive.LuaTable) {
		if !n.Ambient {
			t.fail(diag.ForbiddenLuaTableNonDeclaration, n, "@luaTable classes must be ambient declarations")
		}
		return nil
	}
	if directive.Has(dirs, directive.PureAbstract) || n.Ambient {
		return nil
	}
	if directive.Has(dirs, directive.Extension) || directive.Has(dirs, directive.MetaExtension) {
		return t.transformExtensionClass(n, dirs)
	}

	t.validateHeritage(n)

	t.trackSymbol(n.Name)
	className := n.Name.Text
	local := t.declarationIdentifier(n.Name)
	classRef := func() luaast.Expr { return luaast.CloneIdentifier(local) }
	t.pushClass(classRef)
	defer t.popClass()

	var out []luaast.Stmt

	// 1. the class table, with a local alias when exported
	if target := t.exportTarget(n.Name); target != nil {
		out = append(out,
			luaast.NewSingleAssignment(target, luaast.NewTableExpr(nil, n), n),
			luaast.NewLocal([]*luaast.Identifier{local}, []luaast.Expr{t.exportTarget(n.Name)}, n))
	} else {
		decl := luaast.NewLocal([]*luaast.Identifier{local}, []luaast.Expr{luaast.NewTableExpr(nil, n)}, n)
		if sc := t.scopes.Peek(); sc != nil {
			sc.AddDeclaration(decl)
		}
		out = append(out, decl)
	}

	proto := func() luaast.Expr { return luaast.NewDotAccess(classRef(), "prototype", n) }
	hasGetters, hasSetters, hasStaticAccessors := classAccessorShape(n)

	// 2. identity fields and the prototype pair
	out = append(out,
		luaast.NewSingleAssignment(luaast.NewDotAccess(classRef(), "name", n),
			luaast.NewString(className, n), n),
		luaast.NewSingleAssignment(luaast.NewDotAccess(classRef(), "__index", n), classRef(), n),
		luaast.NewSingleAssignment(proto(), luaast.NewTableExpr(nil, n), n),
	)
	if hasGetters {
		t.useFeature(lualib.Index)
		idx := luaast.NewCall(luaast.NewAnonymousIdentifier("__TS__Index", n), []luaast.Expr{proto()}, n)
		out = append(out, luaast.NewSingleAssignment(
			luaast.NewDotAccess(proto(), "__index", n), idx, n))
	} else {
		out = append(out, luaast.NewSingleAssignment(
			luaast.NewDotAccess(proto(), "__index", n), proto(), n))
	}
	if hasSetters {
		t.useFeature(lualib.NewIndex)
		nidx := luaast.NewCall(luaast.NewAnonymousIdentifier("__TS__NewIndex", n), []luaast.Expr{proto()}, n)
		out = append(out, luaast.NewSingleAssignment(
			luaast.NewDotAccess(proto(), "__newindex", n), nidx, n))
	}
	out = append(out, luaast.NewSingleAssignment(
		luaast.NewDotAccess(proto(), "constructor", n), classRef(), n))

	// 3. heritage metatables
	if n.Extends != nil {
		super := luaast.NewDotAccess(classRef(), SuperFieldName, n)
		out = append(out, luaast.NewSingleAssignment(super, t.transformExpr(n.Extends), n))
		if hasStaticAccessors {
			t.useFeature(lualib.ClassIndex)
			t.useFeature(lualib.ClassNewIndex)
			meta := luaast.NewTableExpr([]*luaast.TableField{
				luaast.NewTableField(luaast.NewString("__index", n),
					luaast.NewAnonymousIdentifier("__TS__ClassIndex", n), n),
				luaast.NewTableField(luaast.NewString("__newindex", n),
					luaast.NewAnonymousIdentifier("__TS__ClassNewIndex", n), n),
			}, n)
			out = append(out, luaast.NewExprStmt(luaast.NewCall(
				luaast.NewAnonymousIdentifier("setmetatable", n),
				[]luaast.Expr{classRef(), meta}, n), n))
		} else {
			out = append(out, luaast.NewExprStmt(luaast.NewCall(
				luaast.NewAnonymousIdentifier("setmetatable", n),
				[]luaast.Expr{classRef(), luaast.NewDotAccess(classRef(), SuperFieldName, n)}, n), n))
		}
		out = append(out, luaast.NewExprStmt(luaast.NewCall(
			luaast.NewAnonymousIdentifier("setmetatable", n),
			[]luaast.Expr{proto(),
				luaast.NewDotAccess(luaast.NewDotAccess(classRef(), SuperFieldName, n), "prototype", n)}, n), n))
	}

	// 4. the instance factory
	out = append(out, t.emitClassFactory(n, classRef, proto))

	// constructor, methods, accessors, static members
	out = append(out, t.emitConstructor(n, proto)...)
	out = append(out, t.emitMembers(n, classRef, proto)...)

	// 7. class decorators
	if len(n.Decorators) > 0 {
		t.useFeature(lualib.Decorate)
		fields := make([]*luaast.TableField, len(n.Decorators))
		for i, d := range n.Decorators {
			fields[i] = luaast.NewTableField(nil, t.transformExpr(d), d)
		}
		decorate := luaast.NewCall(luaast.NewAnonymousIdentifier("__TS__Decorate", n),
			[]luaast.Expr{luaast.NewTableExpr(fields, n), classRef()}, n)
		out = append(out, luaast.NewSingleAssignment(classRef(), decorate, n))
		if target := t.exportTarget(n.Name); target != nil {
			out = append(out, luaast.NewSingleAssignment(target, classRef(), n))
		}
	}

	return out
}

func (t *Transformer) validateHeritage(n *tsast.ClassDecl) {
	if n.Extends == nil {
		return
	}
	baseSym := t.oracle.SymbolOf(rightmostIdent(n.Extends))
	if baseSym == nil {
		return
	}
	if t.directives.SymbolHas(baseSym, directive.Extension) || t.directives.SymbolHas(baseSym, directive.MetaExtension) {
		t.fail(diag.InvalidExtendsExtension, n, "cannot extend an extension class")
	}
	if t.directives.SymbolHas(baseSym, directive.LuaTable) {
		t.fail(diag.InvalidExtendsLuaTable, n, "cannot extend a @luaTable class")
	}
}

func classAccessorShape(n *tsast.ClassDecl) (getters, setters, staticAccessors bool) {
	for _, m := range n.Members {
		switch m.Kind {
		case tsast.MemberGet:
			if m.Static {
				staticAccessors = true
			} else {
				getters = true
			}
		case tsast.MemberSet:
			if m.Static {
				staticAccessors = true
			} else {
				setters = true
			}
		}
	}
	return
}

// emitClassFactory emits `C.new`, which allocates onto the prototype and
// runs the constructor.
func (t *Transformer) emitClassFactory(n *tsast.ClassDecl, classRef func() luaast.Expr, proto func() luaast.Expr) luaast.Stmt {
	self := selfIdentifier(n)
	alloc := luaast.NewCall(luaast.NewAnonymousIdentifier("setmetatable", n),
		[]luaast.Expr{luaast.NewTableExpr(nil, n), proto()}, n)
	ctor := luaast.NewDotAccess(proto(), "____constructor", n)
	body := luaast.NewBlock([]luaast.Stmt{
		luaast.NewLocal([]*luaast.Identifier{self}, []luaast.Expr{alloc}, n),
		luaast.NewExprStmt(luaast.NewCall(ctor,
			[]luaast.Expr{luaast.CloneIdentifier(self), luaast.NewDots(n)}, n), n),
		luaast.NewReturn([]luaast.Expr{luaast.CloneIdentifier(self)}, n),
	}, n)
	factory := luaast.NewFunctionExpr(nil, true, body, n)
	return luaast.NewSingleAssignment(luaast.NewDotAccess(classRef(), "new", n), factory, n)
}

// emitConstructor lowers the written constructor, or generates the default
// one chaining to super and initialising instance fields.
func (t *Transformer) emitConstructor(n *tsast.ClassDecl, proto func() luaast.Expr) []luaast.Stmt {
	var ctorMember *tsast.ClassMember
	for _, m := range n.Members {
		if m.Kind == tsast.MemberConstructor {
			ctorMember = m
			break
		}
	}

	fieldInits := t.instanceFieldInits(n)

	var fn *luaast.FunctionExpr
	if ctorMember != nil {
		if ctorMember.Body == nil {
			t.fail(diag.UnsupportedFunctionWithoutBody, ctorMember, "constructor requires a body")
		}
		lowered := t.transformFunctionBody(ctorMember.Params, ctorMember.Body,
			true, false, false, false, ctorMember)
		prologue := t.parameterPropertyAssignments(ctorMember)
		prologue = append(prologue, fieldInits...)
		lowered.body.Stmts = append(prologue, lowered.body.Stmts...)
		fn = luaast.NewFunctionExpr(lowered.params, lowered.dots, lowered.body, ctorMember)
	} else {
		var body []luaast.Stmt
		if n.Extends != nil {
			chain := luaast.NewCall(
				luaast.NewDotAccess(t.superPrototype(n), "____constructor", n),
				[]luaast.Expr{selfIdentifier(n), luaast.NewDots(n)}, n)
			body = append(body, luaast.NewExprStmt(chain, n))
		}
		body = append(body, fieldInits...)
		fn = luaast.NewFunctionExpr([]*luaast.Identifier{selfIdentifier(n)}, true,
			luaast.NewBlock(body, n), n)
	}

	target := luaast.NewDotAccess(proto(), "____constructor", n)
	return []luaast.Stmt{luaast.NewSingleAssignment(target, fn, n)}
}

// instanceFieldInits lowers `self.field = init` for each initialised
// instance property.
func (t *Transformer) instanceFieldInits(n *tsast.ClassDecl) []luaast.Stmt {
	var out []luaast.Stmt
	for _, m := range n.Members {
		if m.Kind != tsast.MemberProperty || m.Static || m.Init == nil {
			continue
		}
		target := luaast.NewDotAccess(selfIdentifier(m), m.Name, m)
		out = append(out, luaast.NewSingleAssignment(target, t.transformExpr(m.Init), m))
	}
	return out
}

// parameterPropertyAssignments lowers constructor parameter properties to
// explicit self assignments.
func (t *Transformer) parameterPropertyAssignments(ctor *tsast.ClassMember) []luaast.Stmt {
	var out []luaast.Stmt
	for _, p := range ctor.Params {
		if !p.Property {
			continue
		}
		id, ok := p.Name.(*tsast.Ident)
		if !ok {
			continue
		}
		target := luaast.NewDotAccess(selfIdentifier(p), id.Text, p)
		value := t.transformIdentifierExpr(id)
		out = append(out, luaast.NewSingleAssignment(target, value, p))
	}
	return out
}

// emitMembers lowers methods, accessors and static members.
func (t *Transformer) emitMembers(n *tsast.ClassDecl, classRef func() luaast.Expr, proto func() luaast.Expr) []luaast.Stmt {
	var out []luaast.Stmt
	gettersEmitted := false
	settersEmitted := false
	staticGettersEmitted := false
	staticSettersEmitted := false

	for _, m := range n.Members {
		if m.Static {
			if _, forbidden := forbiddenStaticNames[m.Name]; forbidden {
				t.fail(diag.ForbiddenStaticClassPropertyName, m,
					"static class member may not be named '%s'", m.Name)
			}
		}

		switch m.Kind {
		case tsast.MemberConstructor:
			// emitted separately
		case tsast.MemberMethod:
			if m.Body == nil {
				continue
			}
			lowered := t.transformFunctionBody(m.Params, m.Body, true, false, m.IsGenerator, false, m)
			fn := luaast.NewFunctionExpr(lowered.params, lowered.dots, lowered.body, m)
			name := m.Name
			if name == "toString" {
				name = "__tostring"
			}
			table := proto()
			if m.Static {
				table = classRef()
			}
			out = append(out, luaast.NewSingleAssignment(
				luaast.NewDotAccess(table, name, m), fn, m))
		case tsast.MemberProperty:
			if m.Static && m.Init != nil {
				out = append(out, luaast.NewSingleAssignment(
					luaast.NewDotAccess(classRef(), m.Name, m), t.transformExpr(m.Init), m))
			}
		case tsast.MemberGet:
			t.useFeature(lualib.ClassIndex)
			table := proto()
			if m.Static {
				table = classRef()
			}
			if !m.Static && !gettersEmitted {
				out = append(out, luaast.NewSingleAssignment(
					luaast.NewDotAccess(proto(), "____getters", m), luaast.NewTableExpr(nil, m), m))
				gettersEmitted = true
			}
			if m.Static && !staticGettersEmitted {
				out = append(out, luaast.NewSingleAssignment(
					luaast.NewDotAccess(classRef(), "____getters", m), luaast.NewTableExpr(nil, m), m))
				staticGettersEmitted = true
			}
			lowered := t.transformFunctionBody(nil, m.Body, true, false, false, false, m)
			fn := luaast.NewFunctionExpr(lowered.params, lowered.dots, lowered.body, m)
			out = append(out, luaast.NewSingleAssignment(
				luaast.NewDotAccess(luaast.NewDotAccess(table, "____getters", m), m.Name, m), fn, m))
		case tsast.MemberSet:
			t.useFeature(lualib.ClassNewIndex)
			table := proto()
			if m.Static {
				table = classRef()
			}
			if !m.Static && !settersEmitted {
				out = append(out, luaast.NewSingleAssignment(
					luaast.NewDotAccess(proto(), "____setters", m), luaast.NewTableExpr(nil, m), m))
				settersEmitted = true
			}
			if m.Static && !staticSettersEmitted {
				out = append(out, luaast.NewSingleAssignment(
					luaast.NewDotAccess(classRef(), "____setters", m), luaast.NewTableExpr(nil, m), m))
				staticSettersEmitted = true
			}
			lowered := t.transformFunctionBody(m.Params, m.Body, true, false, false, false, m)
			fn := luaast.NewFunctionExpr(lowered.params, lowered.dots, lowered.body, m)
			out = append(out, luaast.NewSingleAssignment(
				luaast.NewDotAccess(luaast.NewDotAccess(table, "____setters", m), m.Name, m), fn, m))
		}
	}
	return out
}

// transformExtensionClass lowers an @extension / @metaExtension class:
// no class tables are emitted, members attach to the extension target.
func (t *Transformer) transformExtensionClass(n *tsast.ClassDecl, dirs []directive.Directive) []luaast.Stmt {
	if directive.Has(dirs, directive.Extension) && directive.Has(dirs, directive.MetaExtension) {
		t.fail(diag.InvalidExtensionMetaExtension, n, "@extension and @metaExtension cannot be combined")
	}
	if n.Exported {
		t.fail(diag.InvalidExportsExtension, n, "extension classes cannot be exported")
	}

	var out []luaast.Stmt
	var target luaast.Expr

	if directive.Has(dirs, directive.MetaExtension) {
		if n.Extends == nil {
			t.fail(diag.MissingMetaExtension, n, "@metaExtension requires an extended type")
		}
		meta := t.tempIdent("meta", n)
		getmeta := luaast.NewCall(
			luaast.NewDotAccess(luaast.NewAnonymousIdentifier("debug", n), "getmetatable", n),
			[]luaast.Expr{t.transformExpr(n.Extends)}, n)
		out = append(out, luaast.NewLocal([]*luaast.Identifier{meta}, []luaast.Expr{getmeta}, n))
		target = luaast.CloneIdentifier(meta)
	} else {
		name := n.Name.Text
		if d, ok := directive.Get(dirs, directive.Extension); ok && len(d.Args) > 0 {
			name = d.Args[0]
		}
		target = luaast.NewAnonymousIdentifier(name, n)
	}

	for _, m := range n.Members {
		if m.Kind != tsast.MemberMethod || m.Body == nil {
			continue
		}
		lowered := t.transformFunctionBody(m.Params, m.Body, true, false, m.IsGenerator, false, m)
		fn := luaast.NewFunctionExpr(lowered.params, lowered.dots, lowered.body, m)
		out = append(out, luaast.NewSingleAssignment(
			luaast.NewDotAccess(target, m.Name, m), fn, m))
	}
	return out
}
