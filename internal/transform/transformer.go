// Package transform implements the AST-to-AST core: it consumes a typed
// TSL syntax tree and emits a Lua syntax tree, preserving TSL observable
// semantics (lexical scope, evaluation order, iteration protocols,
// this-binding, exception propagation) on a target that has none of these
// natively.
package transform

import (
	"fmt"

	"tstl/internal/diag"
	"tstl/internal/directive"
	"tstl/internal/lualib"
	"tstl/internal/luaast"
	"tstl/internal/scope"
	"tstl/internal/source"
	"tstl/internal/symbols"
	"tstl/internal/tsast"
	"tstl/internal/typeoracle"
)

// ExportsTableName is the literal local holding a module's export table.
// The name is observable in downstream Lua and must not change.
const ExportsTableName = "____exports"

// SuperFieldName is the class-table field pointing at the base class.
const SuperFieldName = "____super"

// Transformer drives transformation of one source file. Instances are not
// reusable across files: symbol ids and scope ids are per-file state.
type Transformer struct {
	oracle     typeoracle.Oracle
	opts       Options
	reporter   diag.Reporter
	directives *directive.Table
	scopes     *scope.Stack
	tracker    *symbols.Tracker
	registry   *lualib.Registry
	usedHere   map[lualib.Feature]struct{}

	file         *tsast.SourceFile
	fileSym      *typeoracle.Symbol
	emitResolver typeoracle.EmitResolver
	noSelfFile   bool

	// exportScopes holds the symbols of the file and any namespaces being
	// emitted, innermost last; identifiers exported from one of them
	// rewrite to table accesses.
	exportScopes []*typeoracle.Symbol
	// exportTables maps an export-scope symbol to the expression naming
	// its table (____exports for the file, the namespace local otherwise).
	exportTables map[*typeoracle.Symbol]func() luaast.Expr

	// funcStack tracks enclosing function facts for return lowering.
	funcStack []*funcContext
	// classStack tracks the classes whose members are being lowered.
	classStack []*classContext
	// captureStack collects the symbols referenced inside each function
	// being lowered, for the hoister's definition records.
	captureStack []map[symbols.ID]struct{}

	tempCounter int
}

type funcContext struct {
	tupleReturn bool
	isGenerator bool
}

// fatalDiag aborts the current file through the recover in
// TransformSourceFile; transformation never recovers internally.
type fatalDiag struct {
	d diag.Diagnostic
}

// New builds a transformer for one file. The registry is owned by the host
// and accumulates across files; per-file usage is reported separately.
func New(oracle typeoracle.Oracle, opts Options, reporter diag.Reporter, registry *lualib.Registry) *Transformer {
	if registry == nil {
		registry = lualib.NewRegistry()
	}
	return &Transformer{
		oracle:       oracle,
		opts:         opts,
		reporter:     reporter,
		directives:   directive.NewTable(oracle, reporter),
		scopes:       scope.NewStack(),
		tracker:      symbols.NewTracker(symbols.Hints{Symbols: 128}),
		registry:     registry,
		usedHere:     make(map[lualib.Feature]struct{}),
		exportTables: make(map[*typeoracle.Symbol]func() luaast.Expr),
	}
}

// TransformSourceFile lowers one file to a Lua block and reports the lualib
// features its chunk uses. A hard error aborts the file: the diagnostic is
// reported and no partial output is returned.
func (t *Transformer) TransformSourceFile(file *tsast.SourceFile) (block *luaast.Block, used []lualib.Feature, err error) {
	if file == nil {
		diag.ReportError(t.reporter, diag.MissingSourceFile, source.Span{}, "missing source file")
		return nil, nil, fmt.Errorf("transform: missing source file")
	}
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(fatalDiag)
			if !ok {
				panic(r)
			}
			t.reporter.Report(f.d.Code, f.d.Severity, f.d.Primary, f.d.Message, f.d.Notes)
			block = nil
			used = nil
			err = fmt.Errorf("%s: %s", f.d.Code, f.d.Message)
		}
	}()

	t.file = file
	t.fileSym = t.oracle.SymbolOf(file)
	t.emitResolver = t.oracle.EmitResolver(file)
	t.noSelfFile = t.directives.FileHas(file, directive.NoSelfInFile)

	if file.Flags&source.FileJSON != 0 {
		return t.transformJSONFile(file)
	}

	if t.fileSym != nil {
		t.exportScopes = []*typeoracle.Symbol{t.fileSym}
		t.exportTables[t.fileSym] = func() luaast.Expr {
			return luaast.NewAnonymousIdentifier(ExportsTableName, nil)
		}
	}

	fileScope := t.scopes.Push(scope.File)
	stmts := t.transformStmtList(file.Stmts)
	t.scopes.Pop()
	stmts = t.hoist(fileScope, stmts)

	stmts = t.wrapModule(file, stmts)

	return luaast.NewBlock(stmts, file), t.featuresUsed(), nil
}

// transformJSONFile emits `return <expr>` for files the host flagged as
// JSON modules. No exports table is produced; this is deliberate.
func (t *Transformer) transformJSONFile(file *tsast.SourceFile) (*luaast.Block, []lualib.Feature, error) {
	if file.JSONValue == nil {
		t.fail(diag.InvalidJsonFileContent, file, "invalid JSON file content")
	}
	t.scopes.Push(scope.File)
	value := t.transformExpr(file.JSONValue)
	t.scopes.Pop()
	ret := luaast.NewReturn([]luaast.Expr{value}, file)
	return luaast.NewBlock([]luaast.Stmt{ret}, file), t.featuresUsed(), nil
}

func (t *Transformer) featuresUsed() []lualib.Feature {
	snapshot := lualib.NewRegistry()
	for f := range t.usedHere {
		snapshot.Use(f)
	}
	return snapshot.Features()
}

// useFeature records a lualib feature both per-file and compilation-wide.
func (t *Transformer) useFeature(f lualib.Feature) {
	t.usedHere[f] = struct{}{}
	t.registry.Use(f)
}

// fail raises a fatal error for the current file.
func (t *Transformer) fail(code diag.Code, origin tsast.Node, format string, args ...any) {
	var span source.Span
	if origin != nil {
		span = origin.Base().Span
	}
	panic(fatalDiag{d: diag.NewError(code, span, fmt.Sprintf(format, args...))})
}

// warn emits a non-fatal diagnostic.
func (t *Transformer) warn(code diag.Code, origin tsast.Node, format string, args ...any) {
	var span source.Span
	if origin != nil {
		span = origin.Base().Span
	}
	diag.ReportWarning(t.reporter, code, span, fmt.Sprintf(format, args...))
}

// tempIdent mints a fresh `____TS_...` temporary.
func (t *Transformer) tempIdent(hint string, origin tsast.Node) *luaast.Identifier {
	t.tempCounter++
	return luaast.NewAnonymousIdentifier(fmt.Sprintf("____TS_%s%d", hint, t.tempCounter), origin)
}

// pushFunc/popFunc bracket function-body transformation.
func (t *Transformer) pushFunc(fc *funcContext) {
	t.funcStack = append(t.funcStack, fc)
}

func (t *Transformer) popFunc() {
	t.funcStack = t.funcStack[:len(t.funcStack)-1]
}

func (t *Transformer) currentFunc() *funcContext {
	if len(t.funcStack) == 0 {
		return nil
	}
	return t.funcStack[len(t.funcStack)-1]
}

// currentExportScope returns the innermost namespace or file being emitted.
func (t *Transformer) currentExportScope() *typeoracle.Symbol {
	if len(t.exportScopes) == 0 {
		return nil
	}
	return t.exportScopes[len(t.exportScopes)-1]
}

// exportTableFor returns the expression naming the export table of
// scopeSym, or nil when scopeSym is not currently being emitted.
func (t *Transformer) exportTableFor(scopeSym *typeoracle.Symbol) luaast.Expr {
	if gen, ok := t.exportTables[scopeSym]; ok {
		return gen()
	}
	return nil
}

// trackSymbol mints or fetches the id for the symbol behind node and
// records the reference on the scope stack.
func (t *Transformer) trackSymbol(node tsast.Node) symbols.ID {
	sym := t.oracle.SymbolOf(node)
	if sym == nil {
		return symbols.NoID
	}
	id, _ := t.tracker.Track(sym, node.Base().Span)
	t.scopes.AddReference(id, node)
	for _, capture := range t.captureStack {
		capture[id] = struct{}{}
	}
	return id
}

// transformStmtList lowers a statement list without opening a new scope;
// callers bracket it with push/pop as the construct requires.
func (t *Transformer) transformStmtList(stmts []tsast.Stmt) []luaast.Stmt {
	var out []luaast.Stmt
	for _, s := range stmts {
		out = append(out, t.transformStmt(s)...)
	}
	return out
}

// transformScopedBlock lowers stmts inside a fresh scope of the given kind
// and hoists the result.
func (t *Transformer) transformScopedBlock(stmts []tsast.Stmt, kind scope.Kind) []luaast.Stmt {
	sc := t.scopes.Push(kind)
	out := t.transformStmtList(stmts)
	t.scopes.Pop()
	return t.hoist(sc, out)
}

// transformLoopBody lowers a loop body statement, appending the continue
// label when the body contained a continue.
func (t *Transformer) transformLoopBody(body tsast.Stmt) []luaast.Stmt {
	sc := t.scopes.Push(scope.Loop)
	var out []luaast.Stmt
	if block, ok := body.(*tsast.Block); ok {
		out = t.transformStmtList(block.Stmts)
	} else {
		out = t.transformStmt(body)
	}
	t.scopes.Pop()
	out = t.hoist(sc, out)
	if sc.LoopContinued {
		out = append(out, luaast.NewLabel(fmt.Sprintf("__continue%d", sc.ID), body))
	}
	return out
}
