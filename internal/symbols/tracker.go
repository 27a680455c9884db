// Package symbols assigns stable integer ids to TSL symbols as the
// transformer encounters them and answers export-scope queries. Ids are
// deterministic because the transformer's traversal order is.
package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"tstl/internal/source"
	"tstl/internal/typeoracle"
)

// ID identifies a tracked symbol within one file's transformation.
type ID uint32

// NoID marks an identifier with no associated symbol.
const NoID ID = 0

// Info records everything remembered about a tracked symbol. Records are
// immutable after insertion.
type Info struct {
	Symbol    *typeoracle.Symbol
	FirstSeen source.Span
}

// Hints provide optional capacity suggestions for the tracker arena.
type Hints struct{ Symbols uint }

// Tracker mints ids for oracle symbols on first encounter.
type Tracker struct {
	infos *Arena[Info]
	ids   map[*typeoracle.Symbol]ID
}

// NewTracker builds a fresh tracker with optional capacity hints.
func NewTracker(h Hints) *Tracker {
	capHint, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	return &Tracker{
		infos: NewArena[Info](capHint),
		ids:   make(map[*typeoracle.Symbol]ID, h.Symbols),
	}
}

// Track returns the id for sym, minting one on first encounter with the
// given span as the first-seen position. fresh is true on the mint.
func (t *Tracker) Track(sym *typeoracle.Symbol, firstSeen source.Span) (id ID, fresh bool) {
	if sym == nil {
		return NoID, false
	}
	if id, ok := t.ids[sym]; ok {
		return id, false
	}
	id = ID(t.infos.Allocate(Info{Symbol: sym, FirstSeen: firstSeen}))
	t.ids[sym] = id
	return id, true
}

// Lookup returns the id previously minted for sym, or NoID.
func (t *Tracker) Lookup(sym *typeoracle.Symbol) ID {
	return t.ids[sym]
}

// Info returns the record for id, or nil for NoID.
func (t *Tracker) Info(id ID) *Info {
	return t.infos.Get(uint32(id))
}

// Len returns the number of tracked symbols.
func (t *Tracker) Len() int {
	return int(t.infos.Len())
}

// IsExported reports whether sym is exported from its nearest enclosing
// file or namespace: the scope's export table must contain it.
func IsExported(oracle typeoracle.Oracle, sym *typeoracle.Symbol) bool {
	if sym == nil {
		return false
	}
	scope := sym.ExportScope()
	if scope == nil {
		return false
	}
	exports := oracle.ExportsOf(scope)
	for _, exported := range exports {
		if exported == sym {
			return true
		}
	}
	return false
}

// ExportScopeOf returns the symbol of the file or namespace sym is
// exported from, or nil when sym is not exported.
func ExportScopeOf(oracle typeoracle.Oracle, sym *typeoracle.Symbol) *typeoracle.Symbol {
	if IsExported(oracle, sym) {
		return sym.ExportScope()
	}
	return nil
}
