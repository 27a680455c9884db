package transform

import (
	"tstl/internal/diag"
	"tstl/internal/luaast"
	"tstl/internal/mangle"
	"tstl/internal/symbols"
	"tstl/internal/tsast"
	"tstl/internal/typeoracle"
)

// transformIdentifierExpr lowers an identifier reference. Exported symbols
// rewrite to an index into their scope's export table; a handful of global
// names have dedicated spellings.
func (t *Transformer) transformIdentifierExpr(id *tsast.Ident) luaast.Expr {
	switch id.Text {
	case "undefined":
		return luaast.NewNil(id)
	case "NaN":
		return luaast.NewParen(
			luaast.NewBinaryExpr(luaast.BinaryDiv, luaast.NewNumber(0, id), luaast.NewNumber(0, id), id), id)
	case "Infinity":
		return luaast.NewDotAccess(luaast.NewAnonymousIdentifier("math", id), "huge", id)
	case "globalThis":
		return luaast.NewAnonymousIdentifier("_G", id)
	}

	sym := t.oracle.SymbolOf(id)
	symID := t.trackSymbol(id)

	if scopeSym := symbols.ExportScopeOf(t.oracle, sym); scopeSym != nil {
		if table := t.exportTableFor(scopeSym); table != nil {
			return luaast.NewTableIndex(table, luaast.NewString(id.Text, id), id)
		}
	}

	return t.emitIdentifier(id, sym, symID)
}

// emitIdentifier renders the (possibly mangled) local identifier for a
// reference or declaration name.
func (t *Transformer) emitIdentifier(id *tsast.Ident, sym *typeoracle.Symbol, symID symbols.ID) *luaast.Identifier {
	text := id.Text
	if mangle.IsUnsafeName(text) {
		if sym.Ambient() {
			t.fail(diag.InvalidAmbientIdentifierName, id,
				"invalid ambient identifier name '%s'; ambient declarations cannot be renamed", text)
		}
		text = mangle.Safe(text)
	}
	return luaast.NewIdentifier(text, symID, id.Text, id)
}

// declarationIdentifier lowers the name of a local declaration, minting
// the symbol id without consulting export scopes (the declaration site
// itself decides whether to assign into the export table).
func (t *Transformer) declarationIdentifier(id *tsast.Ident) *luaast.Identifier {
	sym := t.oracle.SymbolOf(id)
	symID := t.trackSymbol(id)
	return t.emitIdentifier(id, sym, symID)
}

// isSymbolExported reports whether the identifier's symbol is exported
// from an export scope currently being emitted.
func (t *Transformer) isSymbolExported(id *tsast.Ident) bool {
	sym := t.oracle.SymbolOf(id)
	scopeSym := symbols.ExportScopeOf(t.oracle, sym)
	return scopeSym != nil && t.exportTableFor(scopeSym) != nil
}

// exportTarget returns the `____exports.name` (or namespace table) index
// an exported declaration assigns into.
func (t *Transformer) exportTarget(id *tsast.Ident) luaast.Expr {
	sym := t.oracle.SymbolOf(id)
	scopeSym := symbols.ExportScopeOf(t.oracle, sym)
	if scopeSym == nil {
		return nil
	}
	table := t.exportTableFor(scopeSym)
	if table == nil {
		return nil
	}
	t.trackSymbol(id)
	return luaast.NewTableIndex(table, luaast.NewString(id.Text, id), id)
}

// selfIdentifier is the implicit method receiver.
func selfIdentifier(origin tsast.Node) *luaast.Identifier {
	return luaast.NewAnonymousIdentifier("self", origin)
}
