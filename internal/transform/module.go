package transform

import (
	"path"
	"strings"

	"tstl/internal/diag"
	"tstl/internal/directive"
	"tstl/internal/luaast"
	"tstl/internal/scope"
	"tstl/internal/tsast"
	"tstl/internal/typeoracle"
)

// wrapModule turns a file containing exports into a module chunk: the
// exports table is declared first and returned last.
func (t *Transformer) wrapModule(file *tsast.SourceFile, stmts []luaast.Stmt) []luaast.Stmt {
	if !t.fileHasExports(file) {
		return stmts
	}
	exports := luaast.NewAnonymousIdentifier(ExportsTableName, file)
	header := luaast.NewLocal([]*luaast.Identifier{exports},
		[]luaast.Expr{luaast.NewTableExpr(nil, file)}, file)
	footer := luaast.NewReturn([]luaast.Expr{
		luaast.NewAnonymousIdentifier(ExportsTableName, file)}, file)
	out := make([]luaast.Stmt, 0, len(stmts)+2)
	out = append(out, header)
	out = append(out, stmts...)
	return append(out, footer)
}

func (t *Transformer) fileHasExports(file *tsast.SourceFile) bool {
	if len(t.oracle.ExportsOf(t.fileSym)) > 0 {
		return true
	}
	for _, s := range file.Stmts {
		switch n := s.(type) {
		case *tsast.VarStmt:
			if n.Exported {
				return true
			}
		case *tsast.FunctionDecl:
			if n.Exported {
				return true
			}
		case *tsast.ClassDecl:
			if n.Exported {
				return true
			}
		case *tsast.EnumDecl:
			if n.Exported && !n.Const {
				return true
			}
		case *tsast.ModuleDecl:
			if n.Exported {
				return true
			}
		}
	}
	return false
}

// transformImportDecl lowers an import to require statements recorded on
// the file scope; the hoister lifts them to the top of the chunk.
func (t *Transformer) transformImportDecl(n *tsast.ImportDecl) {
	fileScope := t.scopes.FileScope()
	if fileScope == nil {
		t.fail(diag.UndefinedScope, n, "import outside of a file scope")
	}

	if n.Default != nil {
		t.fail(diag.DefaultImportsNotSupported, n, "default imports are not supported")
	}

	modulePath := t.resolveRequirePath(n.ModulePath, n)
	requireCall := luaast.NewCall(luaast.NewAnonymousIdentifier("require", n),
		[]luaast.Expr{luaast.NewString(modulePath, n)}, n)

	if n.Namespace != nil {
		name := t.declarationIdentifier(n.Namespace)
		fileScope.AddImport(luaast.NewLocal([]*luaast.Identifier{name},
			[]luaast.Expr{requireCall}, n))
		return
	}

	if len(n.Named) == 0 {
		// side-effecting import
		fileScope.AddImport(luaast.NewExprStmt(requireCall, n))
		return
	}

	var referenced []*tsast.ImportSpecifier
	for _, spec := range n.Named {
		if t.emitResolver.IsValueAliasDeclaration(spec) {
			referenced = append(referenced, spec)
		}
	}
	if len(referenced) == 0 {
		if t.emitResolver.ModuleExportsSomeValue(n.ModulePath) {
			fileScope.AddImport(luaast.NewExprStmt(requireCall, n))
		}
		return
	}

	moduleTmp := t.tempIdent("module", n)
	fileScope.AddImport(luaast.NewLocal([]*luaast.Identifier{moduleTmp},
		[]luaast.Expr{requireCall}, n))
	for _, spec := range referenced {
		local := t.declarationIdentifier(spec.Name)
		prop := spec.PropertyName
		if prop == "" {
			prop = spec.Name.Text
		}
		fileScope.AddImport(luaast.NewLocal([]*luaast.Identifier{local},
			[]luaast.Expr{luaast.NewDotAccess(luaast.CloneIdentifier(moduleTmp), prop, spec)}, spec))
	}
}

// resolveRequirePath maps an import path onto a dotted Lua module path: a
// relative path resolves against the importing file's directory, anything
// else against the configured base URL, and the result is expressed
// relative to the root directory. Escaping the root is a hard error.
func (t *Transformer) resolveRequirePath(importPath string, origin tsast.Node) string {
	importPath = strings.ReplaceAll(importPath, "\\", "/")
	importPath = strings.TrimSuffix(importPath, ".ts")

	var resolved string
	if strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") {
		dir := path.Dir(strings.ReplaceAll(t.file.Path, "\\", "/"))
		resolved = path.Join(dir, importPath)
	} else {
		base := t.opts.BaseURL
		if base == "" {
			base = t.opts.RootDir
		}
		resolved = path.Join(strings.ReplaceAll(base, "\\", "/"), importPath)
	}

	root := strings.ReplaceAll(t.opts.RootDir, "\\", "/")
	root = path.Clean(root)
	if root == "." || root == "" {
		resolved = path.Clean(resolved)
	} else {
		prefix := root + "/"
		if resolved != root && !strings.HasPrefix(resolved, prefix) {
			t.fail(diag.UnresolvableRequirePath, origin,
				"import path %q is outside the root directory", importPath)
		}
		resolved = strings.TrimPrefix(strings.TrimPrefix(resolved, root), "/")
	}
	if strings.HasPrefix(resolved, "../") {
		t.fail(diag.UnresolvableRequirePath, origin,
			"import path %q is outside the root directory", importPath)
	}
	return strings.ReplaceAll(resolved, "/", ".")
}

// transformModuleDecl lowers a namespace: the table is created (or reused
// when the declaration merges into an earlier one) and the body mutates it
// inside a do block.
func (t *Transformer) transformModuleDecl(n *tsast.ModuleDecl) []luaast.Stmt {
	nsSym := t.oracle.SymbolOf(n.Name)
	first := t.isFirstDeclaration(nsSym, n)

	var out []luaast.Stmt
	local := t.declarationIdentifier(n.Name)

	if target := t.exportTarget(n.Name); target != nil {
		value := luaast.NewBinaryExpr(luaast.BinaryOr, t.exportTarget(n.Name),
			luaast.NewTableExpr(nil, n), n)
		out = append(out,
			luaast.NewSingleAssignment(target, value, n),
			luaast.NewLocal([]*luaast.Identifier{local}, []luaast.Expr{t.exportTarget(n.Name)}, n))
	} else if first {
		value := luaast.NewBinaryExpr(luaast.BinaryOr,
			luaast.NewIdentifier(local.Text, local.SymbolID, local.OriginalText, n),
			luaast.NewTableExpr(nil, n), n)
		decl := luaast.NewLocal([]*luaast.Identifier{local}, []luaast.Expr{value}, n)
		if sc := t.scopes.Peek(); sc != nil {
			sc.AddDeclaration(decl)
		}
		out = append(out, decl)
	}

	if nsSym != nil {
		t.exportScopes = append(t.exportScopes, nsSym)
		t.exportTables[nsSym] = func() luaast.Expr { return luaast.CloneIdentifier(local) }
		defer func() {
			t.exportScopes = t.exportScopes[:len(t.exportScopes)-1]
			delete(t.exportTables, nsSym)
		}()
	}

	body := t.transformScopedBlock(n.Body, scope.Block)
	out = append(out, luaast.NewDo(body, n))
	return out
}

// isFirstDeclaration reports whether decl is the first declaration of sym,
// which decides whether a merged namespace re-declares its table.
func (t *Transformer) isFirstDeclaration(sym *typeoracle.Symbol, decl tsast.Node) bool {
	if sym == nil {
		return true
	}
	decls := t.oracle.SymbolDeclarations(sym)
	return len(decls) == 0 || decls[0] == decl
}

// transformEnumDecl expands an enum into its table with forward mappings,
// plus reverse mappings for numeric members. Const enums vanish: member
// references fold at their use sites.
func (t *Transformer) transformEnumDecl(n *tsast.EnumDecl) []luaast.Stmt {
	if n.Const {
		return nil
	}
	enumSym := t.oracle.SymbolOf(n.Name)
	if t.directives.SymbolHas(enumSym, directive.CompileMembersOnly) {
		return nil
	}

	t.validateEnumHomogeneity(n)

	var out []luaast.Stmt
	local := t.declarationIdentifier(n.Name)
	ref := func() luaast.Expr { return luaast.CloneIdentifier(local) }

	if target := t.exportTarget(n.Name); target != nil {
		out = append(out,
			luaast.NewSingleAssignment(target, luaast.NewTableExpr(nil, n), n),
			luaast.NewLocal([]*luaast.Identifier{local}, []luaast.Expr{t.exportTarget(n.Name)}, n))
	} else {
		decl := luaast.NewLocal([]*luaast.Identifier{local},
			[]luaast.Expr{luaast.NewTableExpr(nil, n)}, n)
		if sc := t.scopes.Peek(); sc != nil {
			sc.AddDeclaration(decl)
		}
		out = append(out, decl)
	}

	next := float64(0)
	for _, m := range n.Members {
		member := luaast.NewDotAccess(ref(), m.Name, m)
		var value luaast.Expr
		isString := false
		switch init := m.Init.(type) {
		case nil:
			value = luaast.NewNumber(next, m)
			next++
		case *tsast.NumberLit:
			value = luaast.NewNumber(init.Value, m)
			next = init.Value + 1
		case *tsast.StringLit:
			value = luaast.NewString(init.Value, m)
			isString = true
		default:
			value = t.transformExpr(m.Init)
		}
		out = append(out, luaast.NewSingleAssignment(member, value, m))
		if !isString {
			reverse := luaast.NewTableIndex(ref(), luaast.NewDotAccess(ref(), m.Name, m), m)
			out = append(out, luaast.NewSingleAssignment(reverse, luaast.NewString(m.Name, m), m))
		}
	}
	return out
}

// validateEnumHomogeneity rejects enums mixing numeric and string members.
func (t *Transformer) validateEnumHomogeneity(n *tsast.EnumDecl) {
	hasNumeric := false
	hasString := false
	for _, m := range n.Members {
		switch m.Init.(type) {
		case *tsast.StringLit:
			hasString = true
		default:
			hasNumeric = true
		}
	}
	if hasNumeric && hasString {
		t.fail(diag.HeterogeneousEnum, n, "enum '%s' mixes numeric and string members", n.Name.Text)
	}
}
