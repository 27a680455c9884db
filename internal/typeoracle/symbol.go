package typeoracle

import "tstl/internal/tsast"

// SymbolFlags carries the declaration facts the transformer cares about.
type SymbolFlags uint8

const (
	// SymAmbient marks `declare`d symbols: they keep their source name and
	// may not require mangling-incompatible identifiers.
	SymAmbient SymbolFlags = 1 << iota
	// SymExportScope marks symbols that own an export table (source files
	// and namespaces).
	SymExportScope
	// SymConstEnum marks const-enum symbols whose members fold away.
	SymConstEnum
)

// Symbol is the oracle's handle for a named entity. The transformer never
// inspects it beyond identity, Name, Parent and Flags; everything else goes
// through Oracle queries.
type Symbol struct {
	Name   string
	Parent *Symbol // enclosing export scope, nil at the top
	Flags  SymbolFlags
	Decls  []tsast.Node
}

// Ambient reports whether the symbol comes from an ambient declaration.
func (s *Symbol) Ambient() bool {
	return s != nil && s.Flags&SymAmbient != 0
}

// ExportScope walks up to the nearest enclosing file or namespace symbol.
func (s *Symbol) ExportScope() *Symbol {
	for p := s.Parent; p != nil; p = p.Parent {
		if p.Flags&SymExportScope != 0 {
			return p
		}
	}
	return nil
}

// Signature describes one callable shape.
type Signature struct {
	Decl        tsast.Node // declaration node; directive lookup goes through it
	ParamCount  int
	Return      *Type
	HasThisParam bool // explicit `this` parameter written in source
	ThisIsVoid   bool // explicit `this: void`
}
