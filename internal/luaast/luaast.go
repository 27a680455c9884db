// Package luaast models the emitted Lua syntax tree: a closed set of
// statement and expression variants built through structural constructors
// that carry an optional back-pointer to the TSL origin node. Traversal is
// external (the printer walks it); the model has no visitor protocol.
package luaast

import (
	"tstl/internal/source"
	"tstl/internal/symbols"
	"tstl/internal/tsast"
)

// NodeBase carries the origin reference every emitted node keeps for
// position preservation. Origin is a numeric TSL node id (the TSL tree is
// immutable during transformation, so non-owning references are safe);
// Span is denormalised alongside it for diagnostics that outlive the
// registry.
type NodeBase struct {
	Origin tsast.NodeID
	Span   source.Span
}

func (b *NodeBase) Base() *NodeBase { return b }

// Node is implemented by every Lua AST node.
type Node interface {
	Base() *NodeBase
}

// Expr is implemented by Lua expression nodes.
type Expr interface {
	Node
	luaExpr()
}

// Stmt is implemented by Lua statement nodes.
type Stmt interface {
	Node
	luaStmt()
}

// originBase extracts the NodeBase for a constructor's origin argument.
func originBase(origin tsast.Node) NodeBase {
	if origin == nil {
		return NodeBase{}
	}
	b := origin.Base()
	return NodeBase{Origin: b.ID, Span: b.Span}
}

// SetOrigin re-points an emitted node at a different TSL origin.
func SetOrigin(n Node, origin tsast.Node) {
	if n == nil || origin == nil {
		return
	}
	*n.Base() = originBase(origin)
}

// Block is an ordered statement list. It is not itself a statement: block
// statements in emitted Lua are DoStmt.
type Block struct {
	NodeBase
	Stmts []Stmt
}

// NewBlock builds a block from stmts.
func NewBlock(stmts []Stmt, origin tsast.Node) *Block {
	return &Block{NodeBase: originBase(origin), Stmts: stmts}
}

// AssignmentTarget reports whether e may appear on the left of an
// assignment: identifier, table index, or dotted access (which the model
// expresses as a table index with a string key).
func AssignmentTarget(e Expr) bool {
	switch e.(type) {
	case *Identifier, *TableIndex:
		return true
	default:
		return false
	}
}

// SymbolID re-exports the tracker's id type for identifier tagging.
type SymbolID = symbols.ID
