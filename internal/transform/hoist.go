package transform

import (
	"slices"

	"tstl/internal/diag"
	"tstl/internal/luaast"
	"tstl/internal/scope"
	"tstl/internal/source"
	"tstl/internal/symbols"
)

// hoist rewrites a popped scope's statement list. Function definitions
// referenced before their definition site move to the top in their
// original relative order; forward-referenced variable declarations split
// into a `local` at block entry plus an assignment at the original site;
// import statements are placed first unconditionally. The relative order
// of everything else is preserved.
func (t *Transformer) hoist(sc *scope.Scope, stmts []luaast.Stmt) []luaast.Stmt {
	split, move := t.hoistPlan(sc)

	out := stmts
	if t.opts.NoHoisting {
		// with hoisting disabled a forward reference has no rescue
		for _, set := range []map[symbols.ID]struct{}{split, move} {
			for symID := range set {
				if info := t.tracker.Info(symID); info != nil {
					name := "symbol"
					if info.Symbol != nil {
						name = "'" + info.Symbol.Name + "'"
					}
					panic(fatalDiag{d: diag.NewError(diag.ReferencedBeforeDeclaration,
						info.FirstSeen, name+" referenced before its declaration")})
				}
			}
		}
	} else {
		var hoistedLocals []luaast.Stmt
		out, hoistedLocals = t.splitHoistedDeclarations(sc, out, split)
		out = t.liftFunctionDefinitions(sc, out, move)
		out = append(hoistedLocals, out...)
	}

	if len(sc.ImportStatements) > 0 {
		out = append(slices.Clone(sc.ImportStatements), out...)
	}
	return out
}

// hoistPlan decides, to a fixpoint, what each forward-referenced symbol
// needs. A function definition whose first reference precedes it simply
// moves. A declaration splits when a reference site precedes it, or when a
// function defined in the scope references it from a definition site that
// precedes it — including sites that only precede it because the function
// moved.
func (t *Transformer) hoistPlan(sc *scope.Scope) (split, move map[symbols.ID]struct{}) {
	split = make(map[symbols.ID]struct{})
	move = make(map[symbols.ID]struct{})

	declSpans := make(map[symbols.ID]source.Span)
	for _, decl := range sc.Declarations {
		for _, name := range decl.Names {
			if name.SymbolID != symbols.NoID {
				declSpans[name.SymbolID] = decl.Span
			}
		}
	}
	isFuncDef := func(id symbols.ID) bool {
		def, ok := sc.FunctionDefinitions[id]
		return ok && def.Definition != nil
	}

	for fnSym, def := range sc.FunctionDefinitions {
		if def.Definition == nil {
			continue
		}
		info := t.tracker.Info(fnSym)
		if info != nil && info.FirstSeen.StartsBefore(def.Definition.Base().Span) {
			move[fnSym] = struct{}{}
		}
	}

	changed := true
	for changed {
		changed = false
		for symID, declSpan := range declSpans {
			if _, done := split[symID]; done {
				continue
			}
			if !sc.HasReference(symID) {
				continue
			}
			needs := false
			if !isFuncDef(symID) {
				if info := t.tracker.Info(symID); info != nil && info.FirstSeen.StartsBefore(declSpan) {
					needs = true
				}
			}
			if !needs {
				for fnSym, def := range sc.FunctionDefinitions {
					if fnSym == symID || def.Definition == nil {
						continue
					}
					if _, refs := def.ReferencedSymbols[symID]; !refs {
						continue
					}
					_, moved := move[fnSym]
					_, alsoSplit := split[fnSym]
					if moved || alsoSplit || def.Definition.Base().Span.StartsBefore(declSpan) {
						needs = true
						break
					}
				}
			}
			if needs {
				split[symID] = struct{}{}
				delete(move, symID)
				changed = true
			}
		}
	}
	return split, move
}

// splitHoistedDeclarations rewrites each split declaration in place into
// an assignment (or drops it when it carried no initializer) and returns
// the `local` statements for the block top.
func (t *Transformer) splitHoistedDeclarations(sc *scope.Scope, stmts []luaast.Stmt, split map[symbols.ID]struct{}) (out []luaast.Stmt, locals []luaast.Stmt) {
	if len(split) == 0 {
		return stmts, nil
	}
	needsSplit := func(decl *luaast.LocalStmt) bool {
		for _, name := range decl.Names {
			if _, ok := split[name.SymbolID]; ok {
				return true
			}
		}
		return false
	}

	declSet := make(map[*luaast.LocalStmt]struct{}, len(sc.Declarations))
	for _, d := range sc.Declarations {
		declSet[d] = struct{}{}
	}

	out = make([]luaast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		decl, ok := s.(*luaast.LocalStmt)
		if !ok {
			out = append(out, s)
			continue
		}
		if _, tracked := declSet[decl]; !tracked || !needsSplit(decl) {
			out = append(out, s)
			continue
		}

		names := make([]*luaast.Identifier, len(decl.Names))
		for i, name := range decl.Names {
			names[i] = luaast.CloneIdentifier(name)
		}
		localDecl := luaast.NewLocal(names, nil, nil)
		localDecl.NodeBase = decl.NodeBase
		locals = append(locals, localDecl)

		if len(decl.Exprs) == 0 {
			continue
		}
		targets := make([]luaast.Expr, len(decl.Names))
		for i, name := range decl.Names {
			targets[i] = luaast.CloneIdentifier(name)
		}
		assign := luaast.NewAssignment(targets, decl.Exprs, nil)
		assign.NodeBase = decl.NodeBase
		// keep the definition back-pointer valid for enclosing scopes
		for fnSym, def := range sc.FunctionDefinitions {
			if def.Definition == luaast.Stmt(decl) {
				sc.FunctionDefinitions[fnSym].Definition = assign
			}
		}
		out = append(out, assign)
	}
	return out, locals
}

// liftFunctionDefinitions moves the planned definitions to the front,
// keeping their original relative order.
func (t *Transformer) liftFunctionDefinitions(sc *scope.Scope, stmts []luaast.Stmt, move map[symbols.ID]struct{}) []luaast.Stmt {
	if len(move) == 0 {
		return stmts
	}
	lift := make(map[luaast.Stmt]struct{}, len(move))
	for fnSym := range move {
		if def := sc.FunctionDefinitions[fnSym]; def != nil && def.Definition != nil {
			lift[def.Definition] = struct{}{}
		}
	}

	var front, rest []luaast.Stmt
	for _, s := range stmts {
		if _, ok := lift[s]; ok {
			front = append(front, s)
		} else {
			rest = append(rest, s)
		}
	}
	return append(front, rest...)
}
