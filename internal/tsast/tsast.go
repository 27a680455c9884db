package tsast

import (
	"tstl/internal/source"
)

// NodeID identifies a node within one source file's tree. IDs are assigned
// by Index in depth-first left-to-right order, which makes every downstream
// consumer (symbol minting, lualib registration) deterministic.
type NodeID uint32

// NoNodeID marks an absent origin reference.
const NoNodeID NodeID = 0

// NodeBase carries the fields shared by every TSL node. Doc holds the raw
// doc-comment lines attached to the node; the directive table parses them.
type NodeBase struct {
	ID   NodeID
	Span source.Span
	Doc  []string
}

func (b *NodeBase) Base() *NodeBase { return b }

// Node is implemented by every TSL AST node.
type Node interface {
	Base() *NodeBase
	Children() []Node
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// SourceFile is the root of one parsed TSL file.
type SourceFile struct {
	NodeBase
	Path  string
	Stmts []Stmt
	Flags source.FileFlags
	// JSONValue is set instead of Stmts when Flags has source.FileJSON:
	// the file lowers to a single `return <expr>` chunk.
	JSONValue Expr
}

func (f *SourceFile) Children() []Node {
	out := make([]Node, 0, len(f.Stmts)+1)
	for _, s := range f.Stmts {
		out = append(out, s)
	}
	if f.JSONValue != nil {
		out = append(out, f.JSONValue)
	}
	return out
}

// Registry maps node IDs back to nodes for one indexed file.
type Registry struct {
	nodes []Node // nodes[0] unused, IDs are 1-based
}

// Index walks the file depth-first left-to-right, assigns consecutive IDs
// starting from 1 and returns the lookup registry. Calling Index twice on
// the same file reassigns identical IDs; the walk order is part of the
// transformer's determinism contract.
func Index(file *SourceFile) *Registry {
	r := &Registry{nodes: make([]Node, 1, 64)}
	r.walk(file)
	return r
}

func (r *Registry) walk(n Node) {
	if n == nil {
		return
	}
	r.nodes = append(r.nodes, n)
	n.Base().ID = NodeID(len(r.nodes) - 1)
	for _, c := range n.Children() {
		if c != nil {
			r.walk(c)
		}
	}
}

// Lookup returns the node for id, or nil when id is invalid.
func (r *Registry) Lookup(id NodeID) Node {
	if id == NoNodeID || int(id) >= len(r.nodes) {
		return nil
	}
	return r.nodes[id]
}

// Len returns the number of indexed nodes.
func (r *Registry) Len() int { return len(r.nodes) - 1 }

// SpanOf returns the span recorded for id, or the zero span.
func (r *Registry) SpanOf(id NodeID) source.Span {
	if n := r.Lookup(id); n != nil {
		return n.Base().Span
	}
	return source.Span{}
}
