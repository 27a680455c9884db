package statictypes

import (
	"tstl/internal/tsast"
	"tstl/internal/typeoracle"
)

// Bind populates the checker's tables for one indexed file and returns the
// file's scope symbol. Binding is lexical and single-pass per block, with
// all declarations of a block pre-declared at entry so that forward
// references resolve to the same symbol the later declaration binds — the
// hoister depends on that.
func (c *Checker) Bind(file *tsast.SourceFile) *typeoracle.Symbol {
	fileSym := &typeoracle.Symbol{
		Name:  file.Path,
		Flags: typeoracle.SymExportScope,
		Decls: []tsast.Node{file},
	}

	c.SetSymbol(file, fileSym)

	b := &binder{c: c, fileSym: fileSym, curScope: fileSym}
	b.pushScope()
	b.declareGlobals()
	b.pushScope()
	b.declareStmts(file.Stmts, fileSym)
	for _, s := range file.Stmts {
		b.stmt(s)
	}
	b.popScope()
	b.popScope()
	return fileSym
}

type binder struct {
	c        *Checker
	fileSym  *typeoracle.Symbol
	scopes   []map[string]*typeoracle.Symbol
	curClass *classInfo
	curScope *typeoracle.Symbol // enclosing export scope (file or namespace)
}

func (b *binder) pushScope() {
	b.scopes = append(b.scopes, make(map[string]*typeoracle.Symbol))
}

func (b *binder) popScope() {
	b.scopes = b.scopes[:len(b.scopes)-1]
}

func (b *binder) declare(name string, sym *typeoracle.Symbol) {
	b.scopes[len(b.scopes)-1][name] = sym
}

func (b *binder) resolve(name string) *typeoracle.Symbol {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if s, ok := b.scopes[i][name]; ok {
			return s
		}
	}
	return nil
}

// declareGlobals seeds the ambient standard-library objects the expression
// lowerer dispatches on by nominal type name.
func (b *binder) declareGlobals() {
	globals := map[string]string{
		"Math":    "Math",
		"console": "Console",
		"Object":  "ObjectConstructor",
		"Symbol":  "SymbolConstructor",
		"Number":  "NumberConstructor",
		"String":  "StringConstructor",
		"Map":     "MapConstructor",
		"Set":     "SetConstructor",
		"WeakMap": "WeakMapConstructor",
		"WeakSet": "WeakSetConstructor",
	}
	for name, nominal := range globals {
		sym := &typeoracle.Symbol{Name: name, Flags: typeoracle.SymAmbient}
		b.declare(name, sym)
		b.c.globalType(sym, typeoracle.ObjectNamed(nominal))
	}
}

// globalType attaches a type to every future reference of sym.
func (c *Checker) globalType(sym *typeoracle.Symbol, t *typeoracle.Type) {
	if c.globalTypes == nil {
		c.globalTypes = make(map[*typeoracle.Symbol]*typeoracle.Type)
	}
	c.globalTypes[sym] = t
}

// declareStmts pre-declares every symbol a statement list introduces.
// exportScope is non-nil for file and namespace bodies.
func (b *binder) declareStmts(stmts []tsast.Stmt, exportScope *typeoracle.Symbol) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *tsast.VarStmt:
			for _, d := range n.Decls {
				b.declarePattern(d.Name, d, n.Ambient, exportScope, n.Exported)
			}
		case *tsast.FunctionDecl:
			b.declareNamed(n.Name, n, n.Ambient, exportScope, n.Exported)
		case *tsast.ClassDecl:
			if n.Name != nil {
				b.declareNamed(n.Name, n, n.Ambient, exportScope, n.Exported)
			}
		case *tsast.EnumDecl:
			sym := b.declareNamed(n.Name, n, false, exportScope, n.Exported)
			if n.Const && sym != nil {
				sym.Flags |= typeoracle.SymConstEnum
			}
		case *tsast.ModuleDecl:
			sym := b.declareNamed(n.Name, n, false, exportScope, n.Exported)
			if sym != nil {
				sym.Flags |= typeoracle.SymExportScope
			}
		case *tsast.ImportDecl:
			for _, spec := range n.Named {
				b.declareNamed(spec.Name, spec, false, nil, false)
			}
			if n.Namespace != nil {
				b.declareNamed(n.Namespace, n, false, nil, false)
			}
			if n.Default != nil {
				b.declareNamed(n.Default, n, false, nil, false)
			}
		}
	}
}

func (b *binder) declareNamed(name *tsast.Ident, decl tsast.Node, ambient bool, exportScope *typeoracle.Symbol, exported bool) *typeoracle.Symbol {
	if name == nil {
		return nil
	}
	if existing := b.scopes[len(b.scopes)-1][name.Text]; existing != nil {
		// merged declaration (namespace reopened, overloads)
		existing.Decls = append(existing.Decls, decl)
		b.c.SetSymbol(name, existing)
		return existing
	}
	sym := &typeoracle.Symbol{Name: name.Text, Decls: []tsast.Node{decl}}
	if ambient {
		sym.Flags |= typeoracle.SymAmbient
	}
	if exportScope != nil {
		sym.Parent = exportScope
	}
	if exported && exportScope != nil {
		b.c.AddExport(exportScope, name.Text, sym)
	}
	b.declare(name.Text, sym)
	b.c.SetSymbol(name, sym)
	return sym
}

func (b *binder) declarePattern(name tsast.Node, decl tsast.Node, ambient bool, exportScope *typeoracle.Symbol, exported bool) {
	switch n := name.(type) {
	case *tsast.Ident:
		b.declareNamed(n, decl, ambient, exportScope, exported)
	case *tsast.ArrayBindingPattern:
		for _, el := range n.Elements {
			if el.Name != nil {
				b.declarePattern(el.Name, decl, ambient, exportScope, exported)
			}
		}
	case *tsast.ObjectBindingPattern:
		for _, el := range n.Elements {
			if el.Name != nil {
				b.declarePattern(el.Name, decl, ambient, exportScope, exported)
			}
		}
	}
}

func (b *binder) stmt(s tsast.Stmt) {
	switch n := s.(type) {
	case *tsast.VarStmt:
		for _, d := range n.Decls {
			b.varDecl(d)
		}
	case *tsast.ExprStmt:
		b.expr(n.E)
	case *tsast.Block:
		b.pushScope()
		b.declareStmts(n.Stmts, nil)
		for _, inner := range n.Stmts {
			b.stmt(inner)
		}
		b.popScope()
	case *tsast.If:
		b.expr(n.Cond)
		b.stmt(n.Then)
		if n.Else != nil {
			b.stmt(n.Else)
		}
	case *tsast.While:
		b.expr(n.Cond)
		b.stmt(n.Body)
	case *tsast.DoWhile:
		b.stmt(n.Body)
		b.expr(n.Cond)
	case *tsast.For:
		b.pushScope()
		if n.Init != nil {
			b.declareStmts([]tsast.Stmt{n.Init}, nil)
			b.stmt(n.Init)
		}
		if n.Cond != nil {
			b.expr(n.Cond)
		}
		if n.Incr != nil {
			b.expr(n.Incr)
		}
		b.stmt(n.Body)
		b.popScope()
	case *tsast.ForOf:
		b.expr(n.Expr)
		b.pushScope()
		if n.Decl != nil {
			b.declarePattern(n.Decl.Name, n.Decl, false, nil, false)
			b.forOfDeclType(n)
		}
		if n.Target != nil {
			b.expr(n.Target)
		}
		b.stmt(n.Body)
		b.popScope()
	case *tsast.ForIn:
		b.expr(n.Expr)
		b.pushScope()
		if n.Decl != nil {
			b.declarePattern(n.Decl.Name, n.Decl, false, nil, false)
			if id, ok := n.Decl.Name.(*tsast.Ident); ok {
				b.typeSym(id, typeoracle.String)
			}
		}
		b.stmt(n.Body)
		b.popScope()
	case *tsast.Switch:
		b.expr(n.Expr)
		b.pushScope()
		for _, cc := range n.Cases {
			if cc.Test != nil {
				b.expr(cc.Test)
			}
			b.declareStmts(cc.Stmts, nil)
			for _, inner := range cc.Stmts {
				b.stmt(inner)
			}
		}
		b.popScope()
	case *tsast.Return:
		if n.Expr != nil {
			b.expr(n.Expr)
		}
	case *tsast.Try:
		b.stmt(n.TryBlock)
		if n.CatchBlock != nil {
			b.pushScope()
			if n.CatchVar != nil {
				sym := &typeoracle.Symbol{Name: n.CatchVar.Text, Decls: []tsast.Node{n.CatchVar}}
				b.declare(n.CatchVar.Text, sym)
				b.c.SetSymbol(n.CatchVar, sym)
			}
			b.stmt(n.CatchBlock)
			b.popScope()
		}
		if n.FinallyBlock != nil {
			b.stmt(n.FinallyBlock)
		}
	case *tsast.Throw:
		b.expr(n.Expr)
	case *tsast.FunctionDecl:
		b.functionDecl(n)
	case *tsast.ClassDecl:
		b.classDecl(n)
	case *tsast.EnumDecl:
		b.enumDecl(n)
	case *tsast.ModuleDecl:
		b.moduleDecl(n)
	case *tsast.ImportDecl:
		// declared in declareStmts; nothing to type
	case *tsast.ExportAssignment:
		b.expr(n.Expr)
	}
}

func (b *binder) varDecl(d *tsast.VarDecl) {
	if d.Init != nil {
		b.expr(d.Init)
	}
	declared := b.c.parseAnnotation(d.Type)
	if id, ok := d.Name.(*tsast.Ident); ok {
		t := declared
		if t == nil && d.Init != nil {
			t = b.c.TypeOf(d.Init)
		}
		if t != nil {
			b.typeSym(id, t)
		}
		return
	}
	// destructuring: flow element types where the initializer is known
	b.bindPatternTypes(d.Name, declared)
}

func (b *binder) bindPatternTypes(pattern tsast.Node, t *typeoracle.Type) {
	switch n := pattern.(type) {
	case *tsast.ArrayBindingPattern:
		for i, el := range n.Elements {
			if el == nil || el.Name == nil {
				continue
			}
			var elemT *typeoracle.Type
			if t.IsTuple() && i < len(t.Members) {
				elemT = t.Members[i]
			} else if t.IsArray() {
				elemT = t.Elem
			}
			if id, ok := el.Name.(*tsast.Ident); ok && elemT != nil {
				b.typeSym(id, elemT)
			} else {
				b.bindPatternTypes(el.Name, elemT)
			}
			if el.Init != nil {
				b.expr(el.Init)
			}
		}
	case *tsast.ObjectBindingPattern:
		for _, el := range n.Elements {
			if el == nil || el.Name == nil {
				continue
			}
			if el.Init != nil {
				b.expr(el.Init)
			}
			b.bindPatternTypes(el.Name, nil)
		}
	}
}

func (b *binder) typeSym(id *tsast.Ident, t *typeoracle.Type) {
	b.c.SetType(id, t)
	if sym := b.c.SymbolOf(id); sym != nil {
		if b.c.symTypes == nil {
			b.c.symTypes = make(map[*typeoracle.Symbol]*typeoracle.Type)
		}
		b.c.symTypes[sym] = t
	}
}

func (b *binder) forOfDeclType(n *tsast.ForOf) {
	iterT := b.c.TypeOf(n.Expr)
	id, ok := n.Decl.Name.(*tsast.Ident)
	if !ok {
		return
	}
	if iterT.IsArray() {
		b.typeSym(id, iterT.Elem)
	}
}

func (b *binder) functionDecl(n *tsast.FunctionDecl) {
	sig := b.buildSignature(n, n.Params, n.ReturnType)
	if sym := b.c.SymbolOf(n.Name); sym != nil {
		b.typeSymDirect(sym, typeoracle.FunctionOf(sig))
		b.c.SetType(n.Name, typeoracle.FunctionOf(sig))
	}
	if n.Body != nil {
		b.enterFunction(n.Params, n.Body)
	}
}

func (b *binder) typeSymDirect(sym *typeoracle.Symbol, t *typeoracle.Type) {
	if b.c.symTypes == nil {
		b.c.symTypes = make(map[*typeoracle.Symbol]*typeoracle.Type)
	}
	b.c.symTypes[sym] = t
}

func (b *binder) buildSignature(decl tsast.Node, params []*tsast.Param, returnType string) *typeoracle.Signature {
	sig := &typeoracle.Signature{Decl: decl}
	for _, p := range params {
		if p.IsThis {
			sig.HasThisParam = true
			sig.ThisIsVoid = p.Type == "void"
			continue
		}
		sig.ParamCount++
	}
	if rt := b.c.parseAnnotation(returnType); rt != nil {
		sig.Return = rt
	}
	return sig
}

func (b *binder) enterFunction(params []*tsast.Param, body *tsast.Block) {
	b.pushScope()
	for _, p := range params {
		if p.IsThis {
			continue
		}
		b.declarePattern(p.Name, p, false, nil, false)
		if id, ok := p.Name.(*tsast.Ident); ok {
			if t := b.c.parseAnnotation(p.Type); t != nil {
				b.typeSym(id, t)
			}
		}
		if p.Init != nil {
			b.expr(p.Init)
		}
	}
	b.declareStmts(body.Stmts, nil)
	for _, s := range body.Stmts {
		b.stmt(s)
	}
	b.popScope()
}
