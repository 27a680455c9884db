package luaast

import (
	"tstl/internal/tsast"
)

// DoStmt is `do body end`, used to preserve TSL block scoping.
type DoStmt struct {
	NodeBase
	Body []Stmt
}

// LocalStmt is `local names = exprs`.
type LocalStmt struct {
	NodeBase
	Names []*Identifier
	Exprs []Expr
}

// AssignmentStmt is `targets = exprs`. Targets must satisfy
// AssignmentTarget.
type AssignmentStmt struct {
	NodeBase
	Targets []Expr
	Exprs   []Expr
}

// IfStmt is `if cond then thenBody else elseBody end`. An else branch that
// is a single IfStmt prints as `elseif`.
type IfStmt struct {
	NodeBase
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// WhileStmt is `while cond do body end`.
type WhileStmt struct {
	NodeBase
	Cond Expr
	Body []Stmt
}

// RepeatStmt is `repeat body until cond`.
type RepeatStmt struct {
	NodeBase
	Body  []Stmt
	Until Expr
}

// NumericForStmt is `for var = start, limit, step do body end`.
type NumericForStmt struct {
	NodeBase
	Var   *Identifier
	Start Expr
	Limit Expr
	Step  Expr // nil for the default step of 1
	Body  []Stmt
}

// GenericForStmt is `for vars in exprs do body end`.
type GenericForStmt struct {
	NodeBase
	Vars  []*Identifier
	Exprs []Expr
	Body  []Stmt
}

// GotoStmt is `goto label`.
type GotoStmt struct {
	NodeBase
	Label string
}

// LabelStmt is `::label::`.
type LabelStmt struct {
	NodeBase
	Name string
}

// ReturnStmt is `return exprs`.
type ReturnStmt struct {
	NodeBase
	Exprs []Expr
}

// BreakStmt is `break`.
type BreakStmt struct {
	NodeBase
}

// ExprStmt is a call used as a statement; Lua allows nothing else in
// expression-statement position.
type ExprStmt struct {
	NodeBase
	E Expr
}

func (*DoStmt) luaStmt()         {}
func (*LocalStmt) luaStmt()      {}
func (*AssignmentStmt) luaStmt() {}
func (*IfStmt) luaStmt()         {}
func (*WhileStmt) luaStmt()      {}
func (*RepeatStmt) luaStmt()     {}
func (*NumericForStmt) luaStmt() {}
func (*GenericForStmt) luaStmt() {}
func (*GotoStmt) luaStmt()       {}
func (*LabelStmt) luaStmt()      {}
func (*ReturnStmt) luaStmt()     {}
func (*BreakStmt) luaStmt()      {}
func (*ExprStmt) luaStmt()       {}

func NewDo(body []Stmt, origin tsast.Node) *DoStmt {
	return &DoStmt{NodeBase: originBase(origin), Body: body}
}

func NewLocal(names []*Identifier, exprs []Expr, origin tsast.Node) *LocalStmt {
	return &LocalStmt{NodeBase: originBase(origin), Names: names, Exprs: exprs}
}

func NewAssignment(targets []Expr, exprs []Expr, origin tsast.Node) *AssignmentStmt {
	return &AssignmentStmt{NodeBase: originBase(origin), Targets: targets, Exprs: exprs}
}

// NewSingleAssignment is the common one-target one-value case.
func NewSingleAssignment(target Expr, value Expr, origin tsast.Node) *AssignmentStmt {
	return NewAssignment([]Expr{target}, []Expr{value}, origin)
}

func NewIf(cond Expr, then, els []Stmt, origin tsast.Node) *IfStmt {
	return &IfStmt{NodeBase: originBase(origin), Cond: cond, Then: then, Else: els}
}

func NewWhile(cond Expr, body []Stmt, origin tsast.Node) *WhileStmt {
	return &WhileStmt{NodeBase: originBase(origin), Cond: cond, Body: body}
}

func NewRepeat(body []Stmt, until Expr, origin tsast.Node) *RepeatStmt {
	return &RepeatStmt{NodeBase: originBase(origin), Body: body, Until: until}
}

func NewNumericFor(v *Identifier, start, limit, step Expr, body []Stmt, origin tsast.Node) *NumericForStmt {
	return &NumericForStmt{NodeBase: originBase(origin), Var: v, Start: start, Limit: limit, Step: step, Body: body}
}

func NewGenericFor(vars []*Identifier, exprs []Expr, body []Stmt, origin tsast.Node) *GenericForStmt {
	return &GenericForStmt{NodeBase: originBase(origin), Vars: vars, Exprs: exprs, Body: body}
}

func NewGoto(label string, origin tsast.Node) *GotoStmt {
	return &GotoStmt{NodeBase: originBase(origin), Label: label}
}

func NewLabel(name string, origin tsast.Node) *LabelStmt {
	return &LabelStmt{NodeBase: originBase(origin), Name: name}
}

func NewReturn(exprs []Expr, origin tsast.Node) *ReturnStmt {
	return &ReturnStmt{NodeBase: originBase(origin), Exprs: exprs}
}

func NewBreak(origin tsast.Node) *BreakStmt {
	return &BreakStmt{NodeBase: originBase(origin)}
}

func NewExprStmt(e Expr, origin tsast.Node) *ExprStmt {
	return &ExprStmt{NodeBase: originBase(origin), E: e}
}
