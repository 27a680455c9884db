package luaast

import (
	"tstl/internal/tsast"
)

// NilLiteral is `nil`.
type NilLiteral struct {
	NodeBase
}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	NodeBase
	Value bool
}

// DotsLiteral is the vararg expression `...`.
type DotsLiteral struct {
	NodeBase
}

// NumericLiteral is a number. Raw, when set, preserves the exact source
// spelling; otherwise the printer formats Value.
type NumericLiteral struct {
	NodeBase
	Value float64
	Raw   string
}

// StringLiteral is a quoted string.
type StringLiteral struct {
	NodeBase
	Value string
}

// Identifier names a local, global or field. SymbolID ties the identifier
// to the TSL symbol it stands for; OriginalText keeps the pre-mangling
// name for diagnostics and exported-name resolution.
type Identifier struct {
	NodeBase
	Text         string
	SymbolID     SymbolID
	OriginalText string
}

// FunctionExpr is `function(params) body end`. Dots marks a trailing
// vararg parameter.
type FunctionExpr struct {
	NodeBase
	Params []*Identifier
	Dots   bool
	Body   *Block
}

// TableField is one `[key] = value` (or positional, key nil) table entry.
type TableField struct {
	NodeBase
	Key   Expr
	Value Expr
}

// TableExpr is a table constructor.
type TableExpr struct {
	NodeBase
	Fields []*TableField
}

// UnaryExpr applies a unary operator.
type UnaryExpr struct {
	NodeBase
	Op      UnaryOp
	Operand Expr
}

// BinaryExpr applies a binary operator.
type BinaryExpr struct {
	NodeBase
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// ParenExpr forces grouping; required around some call shapes and kept
// where TSL had explicit parentheses that change Lua semantics.
type ParenExpr struct {
	NodeBase
	Inner Expr
}

// CallExpr is `fn(args)`.
type CallExpr struct {
	NodeBase
	Func Expr
	Args []Expr
}

// MethodCallExpr is `table:name(args)`.
type MethodCallExpr struct {
	NodeBase
	Table Expr
	Name  *Identifier
	Args  []Expr
}

// TableIndex is `table[index]`; the printer renders string-literal indexes
// that are valid identifiers as dotted access.
type TableIndex struct {
	NodeBase
	Table Expr
	Index Expr
}

func (*NilLiteral) luaExpr()     {}
func (*BooleanLiteral) luaExpr() {}
func (*DotsLiteral) luaExpr()    {}
func (*NumericLiteral) luaExpr() {}
func (*StringLiteral) luaExpr()  {}
func (*Identifier) luaExpr()     {}
func (*FunctionExpr) luaExpr()   {}
func (*TableExpr) luaExpr()      {}
func (*UnaryExpr) luaExpr()      {}
func (*BinaryExpr) luaExpr()     {}
func (*ParenExpr) luaExpr()      {}
func (*CallExpr) luaExpr()       {}
func (*MethodCallExpr) luaExpr() {}
func (*TableIndex) luaExpr()     {}

func NewNil(origin tsast.Node) *NilLiteral {
	return &NilLiteral{NodeBase: originBase(origin)}
}

func NewBoolean(v bool, origin tsast.Node) *BooleanLiteral {
	return &BooleanLiteral{NodeBase: originBase(origin), Value: v}
}

func NewDots(origin tsast.Node) *DotsLiteral {
	return &DotsLiteral{NodeBase: originBase(origin)}
}

func NewNumber(v float64, origin tsast.Node) *NumericLiteral {
	return &NumericLiteral{NodeBase: originBase(origin), Value: v}
}

func NewNumberRaw(raw string, v float64, origin tsast.Node) *NumericLiteral {
	return &NumericLiteral{NodeBase: originBase(origin), Value: v, Raw: raw}
}

func NewString(v string, origin tsast.Node) *StringLiteral {
	return &StringLiteral{NodeBase: originBase(origin), Value: v}
}

// NewIdentifier builds an identifier carrying its TSL symbol id and the
// unmangled original text.
func NewIdentifier(text string, symbol SymbolID, original string, origin tsast.Node) *Identifier {
	return &Identifier{NodeBase: originBase(origin), Text: text, SymbolID: symbol, OriginalText: original}
}

// NewAnonymousIdentifier builds an identifier with no symbol.
func NewAnonymousIdentifier(text string, origin tsast.Node) *Identifier {
	return &Identifier{NodeBase: originBase(origin), Text: text, OriginalText: text}
}

// CloneIdentifier copies id, preserving symbol id and original text.
func CloneIdentifier(id *Identifier) *Identifier {
	if id == nil {
		return nil
	}
	cp := *id
	return &cp
}

func NewFunctionExpr(params []*Identifier, dots bool, body *Block, origin tsast.Node) *FunctionExpr {
	return &FunctionExpr{NodeBase: originBase(origin), Params: params, Dots: dots, Body: body}
}

func NewTableField(key, value Expr, origin tsast.Node) *TableField {
	return &TableField{NodeBase: originBase(origin), Key: key, Value: value}
}

func NewTableExpr(fields []*TableField, origin tsast.Node) *TableExpr {
	return &TableExpr{NodeBase: originBase(origin), Fields: fields}
}

func NewUnaryExpr(op UnaryOp, operand Expr, origin tsast.Node) *UnaryExpr {
	return &UnaryExpr{NodeBase: originBase(origin), Op: op, Operand: operand}
}

func NewBinaryExpr(op BinaryOp, left, right Expr, origin tsast.Node) *BinaryExpr {
	return &BinaryExpr{NodeBase: originBase(origin), Op: op, Left: left, Right: right}
}

func NewParen(inner Expr, origin tsast.Node) *ParenExpr {
	return &ParenExpr{NodeBase: originBase(origin), Inner: inner}
}

func NewCall(fn Expr, args []Expr, origin tsast.Node) *CallExpr {
	return &CallExpr{NodeBase: originBase(origin), Func: fn, Args: args}
}

func NewMethodCall(table Expr, name *Identifier, args []Expr, origin tsast.Node) *MethodCallExpr {
	return &MethodCallExpr{NodeBase: originBase(origin), Table: table, Name: name, Args: args}
}

func NewTableIndex(table, index Expr, origin tsast.Node) *TableIndex {
	return &TableIndex{NodeBase: originBase(origin), Table: table, Index: index}
}

// NewDotAccess is a convenience for `table.name` expressed as a
// string-keyed index.
func NewDotAccess(table Expr, name string, origin tsast.Node) *TableIndex {
	return NewTableIndex(table, NewString(name, origin), origin)
}

// FlattenConcat collapses a left-fold of `..` concatenations into the flat
// operand list, recovering `a .. b .. c` from nested binary nodes.
func FlattenConcat(e Expr) []Expr {
	b, ok := e.(*BinaryExpr)
	if !ok || b.Op != BinaryConcat {
		return []Expr{e}
	}
	return append(FlattenConcat(b.Left), FlattenConcat(b.Right)...)
}
