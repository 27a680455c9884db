package directive

import (
	"tstl/internal/diag"
	"tstl/internal/tsast"
	"tstl/internal/typeoracle"
)

// Table answers directive queries against the oracle's symbol graph,
// caching per-symbol results for the life of one file's transformation.
type Table struct {
	oracle typeoracle.Oracle
	r      diag.Reporter

	symCache  map[*typeoracle.Symbol][]Directive
	fileCache map[*tsast.SourceFile][]Directive
}

// NewTable builds a table over the given oracle. Warnings about unknown or
// deprecated directive syntax flow through r.
func NewTable(oracle typeoracle.Oracle, r diag.Reporter) *Table {
	return &Table{
		oracle:    oracle,
		r:         r,
		symCache:  make(map[*typeoracle.Symbol][]Directive),
		fileCache: make(map[*tsast.SourceFile][]Directive),
	}
}

// ForSymbol merges the directives of every declaration of sym.
func (t *Table) ForSymbol(sym *typeoracle.Symbol) []Directive {
	if sym == nil {
		return nil
	}
	if cached, ok := t.symCache[sym]; ok {
		return cached
	}
	var out []Directive
	for _, decl := range t.oracle.SymbolDeclarations(sym) {
		out = append(out, ForNode(decl, t.r)...)
	}
	t.symCache[sym] = out
	return out
}

// ForSignature returns the directives that apply to one callable: the ones
// on its declaration, plus — for function types hosted on a property
// signature — the ones on the owning property's symbol.
func (t *Table) ForSignature(sig *typeoracle.Signature, owner *typeoracle.Symbol) []Directive {
	if sig == nil {
		return nil
	}
	out := ForNode(sig.Decl, t.r)
	if owner != nil {
		out = append(out, t.ForSymbol(owner)...)
	}
	return out
}

// ForFile returns the file-level directives, cached per file.
func (t *Table) ForFile(f *tsast.SourceFile) []Directive {
	if f == nil {
		return nil
	}
	if cached, ok := t.fileCache[f]; ok {
		return cached
	}
	out := ForFile(f, t.r)
	t.fileCache[f] = out
	return out
}

// SymbolHas reports whether any declaration of sym carries kind.
func (t *Table) SymbolHas(sym *typeoracle.Symbol, kind Kind) bool {
	return Has(t.ForSymbol(sym), kind)
}

// SignatureHas reports whether the callable carries kind.
func (t *Table) SignatureHas(sig *typeoracle.Signature, owner *typeoracle.Symbol, kind Kind) bool {
	return Has(t.ForSignature(sig, owner), kind)
}

// NodeHas reports whether the node's own doc comment carries kind.
func (t *Table) NodeHas(n tsast.Node, kind Kind) bool {
	return Has(ForNode(n, t.r), kind)
}

// FileHas reports whether the file carries kind (e.g. NoSelfInFile).
func (t *Table) FileHas(f *tsast.SourceFile, kind Kind) bool {
	return Has(t.ForFile(f), kind)
}
