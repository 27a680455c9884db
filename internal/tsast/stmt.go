package tsast

// Block is `{ ... }`.
type Block struct {
	NodeBase
	Stmts []Stmt
}

// VarKind distinguishes `let` and `const` declarations.
type VarKind uint8

const (
	VarLet VarKind = iota
	VarConst
)

// VarDecl is one declarator of a variable statement. Name is either an
// *Ident or a destructuring pattern. Type carries the written annotation in
// source form; the oracle resolves it.
type VarDecl struct {
	NodeBase
	Name Node
	Type string
	Init Expr
}

// VarStmt is `let a = 1, b = 2;`.
type VarStmt struct {
	NodeBase
	Kind     VarKind
	Decls    []*VarDecl
	Exported bool
	Ambient  bool // `declare let ...`
}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	NodeBase
	E Expr
}

// If is `if (cond) then else alt`.
type If struct {
	NodeBase
	Cond Expr
	Then Stmt
	Else Stmt
}

// While is `while (cond) body`.
type While struct {
	NodeBase
	Cond Expr
	Body Stmt
}

// DoWhile is `do body while (cond);`.
type DoWhile struct {
	NodeBase
	Body Stmt
	Cond Expr
}

// For is the classic three-clause loop. Init is a *VarStmt, *ExprStmt or
// nil; Cond and Incr may each be nil.
type For struct {
	NodeBase
	Init Stmt
	Cond Expr
	Incr Expr
	Body Stmt
}

// ForOf is `for (const v of expr) body`. Decl is nil when the loop writes
// to an existing binding via Target.
type ForOf struct {
	NodeBase
	Decl   *VarDecl
	Target Expr
	Expr   Expr
	Body   Stmt
}

// ForIn is `for (const k in expr) body`.
type ForIn struct {
	NodeBase
	Decl *VarDecl
	Expr Expr
	Body Stmt
}

// CaseClause is one `case test:` (Test nil for `default:`).
type CaseClause struct {
	NodeBase
	Test  Expr
	Stmts []Stmt
}

// Switch is `switch (expr) { cases }`.
type Switch struct {
	NodeBase
	Expr  Expr
	Cases []*CaseClause
}

// Break is `break;`.
type Break struct {
	NodeBase
}

// Continue is `continue;`.
type Continue struct {
	NodeBase
}

// Return is `return expr?;`.
type Return struct {
	NodeBase
	Expr Expr
}

// Try is `try {} catch (v) {} finally {}`. CatchBlock may be present with a
// nil CatchVar (`catch {}`); both catch and finally are optional.
type Try struct {
	NodeBase
	TryBlock     *Block
	CatchVar     *Ident
	CatchBlock   *Block
	FinallyBlock *Block
}

// Throw is `throw expr;`.
type Throw struct {
	NodeBase
	Expr Expr
}

// FunctionDecl is a top-level or nested function declaration. A nil Body
// marks an overload signature or ambient declaration.
type FunctionDecl struct {
	NodeBase
	Name        *Ident
	Params      []*Param
	Body        *Block
	ReturnType  string
	Exported    bool
	Ambient     bool
	IsGenerator bool
}

// ClassMemberKind discriminates ClassMember.
type ClassMemberKind uint8

const (
	MemberConstructor ClassMemberKind = iota
	MemberMethod
	MemberProperty
	MemberGet
	MemberSet
)

// ClassMember is one member of a class body. Methods and accessors use
// Params/Body; properties use Init.
type ClassMember struct {
	NodeBase
	Kind        ClassMemberKind
	Name        string
	Params      []*Param
	Body        *Block
	Init        Expr
	Type        string // property annotation
	ReturnType  string // method/get annotation
	Static      bool
	IsGenerator bool
}

// ClassDecl is a class declaration with optional heritage and decorators.
type ClassDecl struct {
	NodeBase
	Name       *Ident
	Extends    Expr
	Members    []*ClassMember
	Decorators []Expr
	Exported   bool
	Ambient    bool
}

// EnumMember is one `Name = init?` entry.
type EnumMember struct {
	NodeBase
	Name string
	Init Expr
}

// EnumDecl is `enum E { ... }` or `const enum E { ... }`.
type EnumDecl struct {
	NodeBase
	Name     *Ident
	Members  []*EnumMember
	Const    bool
	Exported bool
}

// ModuleDecl is a namespace declaration.
type ModuleDecl struct {
	NodeBase
	Name     *Ident
	Body     []Stmt
	Exported bool
}

// ImportSpecifier is one `name` or `propertyName as name` entry.
type ImportSpecifier struct {
	NodeBase
	Name         *Ident
	PropertyName string // "" when not renamed
}

// ImportDecl is an import statement. Exactly one of Default, Namespace and
// Named is populated, or none for a side-effect import.
type ImportDecl struct {
	NodeBase
	ModulePath string
	Default    *Ident
	Namespace  *Ident
	Named      []*ImportSpecifier
}

// ExportAssignment is `export default expr` / `export = expr`; unsupported
// by the lowering but modelled so it can be diagnosed with a span.
type ExportAssignment struct {
	NodeBase
	Expr Expr
}

func (*Block) stmtNode()            {}
func (*VarStmt) stmtNode()          {}
func (*ExprStmt) stmtNode()         {}
func (*If) stmtNode()               {}
func (*While) stmtNode()            {}
func (*DoWhile) stmtNode()          {}
func (*For) stmtNode()              {}
func (*ForOf) stmtNode()            {}
func (*ForIn) stmtNode()            {}
func (*Switch) stmtNode()           {}
func (*Break) stmtNode()            {}
func (*Continue) stmtNode()         {}
func (*Return) stmtNode()           {}
func (*Try) stmtNode()              {}
func (*Throw) stmtNode()            {}
func (*FunctionDecl) stmtNode()     {}
func (*ClassDecl) stmtNode()        {}
func (*EnumDecl) stmtNode()         {}
func (*ModuleDecl) stmtNode()       {}
func (*ImportDecl) stmtNode()       {}
func (*ExportAssignment) stmtNode() {}

func (n *Block) Children() []Node { return stmtNodes(n.Stmts) }

func (n *VarDecl) Children() []Node {
	var out []Node
	if n.Name != nil {
		out = append(out, n.Name)
	}
	if n.Init != nil {
		out = append(out, n.Init)
	}
	return out
}

func (n *VarStmt) Children() []Node {
	out := make([]Node, len(n.Decls))
	for i, d := range n.Decls {
		out[i] = d
	}
	return out
}

func (n *ExprStmt) Children() []Node { return []Node{n.E} }

func (n *If) Children() []Node {
	out := []Node{n.Cond, n.Then}
	if n.Else != nil {
		out = append(out, n.Else)
	}
	return out
}

func (n *While) Children() []Node   { return []Node{n.Cond, n.Body} }
func (n *DoWhile) Children() []Node { return []Node{n.Body, n.Cond} }

func (n *For) Children() []Node {
	var out []Node
	if n.Init != nil {
		out = append(out, n.Init)
	}
	if n.Cond != nil {
		out = append(out, n.Cond)
	}
	if n.Incr != nil {
		out = append(out, n.Incr)
	}
	out = append(out, n.Body)
	return out
}

func (n *ForOf) Children() []Node {
	var out []Node
	if n.Decl != nil {
		out = append(out, n.Decl)
	}
	if n.Target != nil {
		out = append(out, n.Target)
	}
	out = append(out, n.Expr, n.Body)
	return out
}

func (n *ForIn) Children() []Node {
	var out []Node
	if n.Decl != nil {
		out = append(out, n.Decl)
	}
	out = append(out, n.Expr, n.Body)
	return out
}

func (n *CaseClause) Children() []Node {
	var out []Node
	if n.Test != nil {
		out = append(out, n.Test)
	}
	return append(out, stmtNodes(n.Stmts)...)
}

func (n *Switch) Children() []Node {
	out := []Node{n.Expr}
	for _, c := range n.Cases {
		out = append(out, c)
	}
	return out
}

func (n *Break) Children() []Node    { return nil }
func (n *Continue) Children() []Node { return nil }

func (n *Return) Children() []Node {
	if n.Expr == nil {
		return nil
	}
	return []Node{n.Expr}
}

func (n *Try) Children() []Node {
	out := []Node{n.TryBlock}
	if n.CatchVar != nil {
		out = append(out, n.CatchVar)
	}
	if n.CatchBlock != nil {
		out = append(out, n.CatchBlock)
	}
	if n.FinallyBlock != nil {
		out = append(out, n.FinallyBlock)
	}
	return out
}

func (n *Throw) Children() []Node { return []Node{n.Expr} }

func (n *FunctionDecl) Children() []Node {
	out := []Node{n.Name}
	for _, p := range n.Params {
		out = append(out, p)
	}
	if n.Body != nil {
		out = append(out, n.Body)
	}
	return out
}

func (n *ClassMember) Children() []Node {
	var out []Node
	for _, p := range n.Params {
		out = append(out, p)
	}
	if n.Body != nil {
		out = append(out, n.Body)
	}
	if n.Init != nil {
		out = append(out, n.Init)
	}
	return out
}

func (n *ClassDecl) Children() []Node {
	var out []Node
	for _, d := range n.Decorators {
		out = append(out, d)
	}
	if n.Name != nil {
		out = append(out, n.Name)
	}
	if n.Extends != nil {
		out = append(out, n.Extends)
	}
	for _, m := range n.Members {
		out = append(out, m)
	}
	return out
}

func (n *EnumMember) Children() []Node {
	if n.Init == nil {
		return nil
	}
	return []Node{n.Init}
}

func (n *EnumDecl) Children() []Node {
	out := []Node{n.Name}
	for _, m := range n.Members {
		out = append(out, m)
	}
	return out
}

func (n *ModuleDecl) Children() []Node {
	return append([]Node{n.Name}, stmtNodes(n.Body)...)
}

func (n *ImportSpecifier) Children() []Node { return []Node{n.Name} }

func (n *ImportDecl) Children() []Node {
	var out []Node
	if n.Default != nil {
		out = append(out, n.Default)
	}
	if n.Namespace != nil {
		out = append(out, n.Namespace)
	}
	for _, s := range n.Named {
		out = append(out, s)
	}
	return out
}

func (n *ExportAssignment) Children() []Node { return []Node{n.Expr} }

func stmtNodes(stmts []Stmt) []Node {
	out := make([]Node, len(stmts))
	for i, s := range stmts {
		out[i] = s
	}
	return out
}
