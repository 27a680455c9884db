// Package printer renders the emitted Lua AST to source text. The
// transformer treats printing as an external collaborator; this reference
// printer exists so the CLI and the end-to-end tests produce inspectable
// chunks.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"tstl/internal/luaast"
	"tstl/internal/mangle"
)

// Print renders a block as a Lua chunk ending with a newline.
func Print(block *luaast.Block) string {
	p := &printer{}
	p.stmts(block.Stmts)
	return p.sb.String()
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (p *printer) line(format string, args ...any) {
	p.sb.WriteString(strings.Repeat("    ", p.indent))
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteByte('\n')
}

func (p *printer) stmts(list []luaast.Stmt) {
	for _, s := range list {
		p.stmt(s)
	}
}

func (p *printer) stmt(s luaast.Stmt) {
	switch n := s.(type) {
	case *luaast.LocalStmt:
		names := make([]string, len(n.Names))
		for i, id := range n.Names {
			names[i] = id.Text
		}
		if len(n.Names) == 1 && len(n.Exprs) == 1 {
			if fn, ok := n.Exprs[0].(*luaast.FunctionExpr); ok {
				// local function sugar brings the name into scope before
				// the body, which self-recursive functions rely on
				p.localFunction(names[0], fn)
				return
			}
		}
		if len(n.Exprs) == 0 {
			p.line("local %s", strings.Join(names, ", "))
		} else {
			p.line("local %s = %s", strings.Join(names, ", "), p.exprList(n.Exprs))
		}
	case *luaast.AssignmentStmt:
		targets := make([]string, len(n.Targets))
		for i, e := range n.Targets {
			targets[i] = p.expr(e, 0)
		}
		p.line("%s = %s", strings.Join(targets, ", "), p.exprList(n.Exprs))
	case *luaast.DoStmt:
		p.line("do")
		p.indent++
		p.stmts(n.Body)
		p.indent--
		p.line("end")
	case *luaast.IfStmt:
		p.ifChain(n, "if")
	case *luaast.WhileStmt:
		p.line("while %s do", p.expr(n.Cond, 0))
		p.indent++
		p.stmts(n.Body)
		p.indent--
		p.line("end")
	case *luaast.RepeatStmt:
		p.line("repeat")
		p.indent++
		p.stmts(n.Body)
		p.indent--
		p.line("until %s", p.expr(n.Until, 0))
	case *luaast.NumericForStmt:
		header := fmt.Sprintf("%s = %s, %s", n.Var.Text, p.expr(n.Start, 0), p.expr(n.Limit, 0))
		if n.Step != nil {
			header += ", " + p.expr(n.Step, 0)
		}
		p.line("for %s do", header)
		p.indent++
		p.stmts(n.Body)
		p.indent--
		p.line("end")
	case *luaast.GenericForStmt:
		names := make([]string, len(n.Vars))
		for i, id := range n.Vars {
			names[i] = id.Text
		}
		p.line("for %s in %s do", strings.Join(names, ", "), p.exprList(n.Exprs))
		p.indent++
		p.stmts(n.Body)
		p.indent--
		p.line("end")
	case *luaast.GotoStmt:
		p.line("goto %s", n.Label)
	case *luaast.LabelStmt:
		p.line("::%s::", n.Name)
	case *luaast.ReturnStmt:
		if len(n.Exprs) == 0 {
			p.line("return")
		} else {
			p.line("return %s", p.exprList(n.Exprs))
		}
	case *luaast.BreakStmt:
		p.line("break")
	case *luaast.ExprStmt:
		p.line("%s", p.expr(n.E, 0))
	default:
		p.line("--[[ unknown statement %T ]]", s)
	}
}

// localFunction renders `local f = function(...) end` through Lua's
// local-function sugar.
func (p *printer) localFunction(name string, fn *luaast.FunctionExpr) {
	params := make([]string, 0, len(fn.Params)+1)
	for _, id := range fn.Params {
		params = append(params, id.Text)
	}
	if fn.Dots {
		params = append(params, "...")
	}
	p.line("local function %s(%s)", name, strings.Join(params, ", "))
	p.indent++
	p.stmts(fn.Body.Stmts)
	p.indent--
	p.line("end")
}

// ifChain renders else-branches holding a single if as elseif.
func (p *printer) ifChain(n *luaast.IfStmt, keyword string) {
	p.line("%s %s then", keyword, p.expr(n.Cond, 0))
	p.indent++
	p.stmts(n.Then)
	p.indent--
	if len(n.Else) == 1 {
		if elseif, ok := n.Else[0].(*luaast.IfStmt); ok {
			p.ifChain(elseif, "elseif")
			return
		}
	}
	if len(n.Else) > 0 {
		p.line("else")
		p.indent++
		p.stmts(n.Else)
		p.indent--
	}
	p.line("end")
}

func (p *printer) exprList(list []luaast.Expr) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = p.expr(e, 0)
	}
	return strings.Join(parts, ", ")
}

// expr renders an expression; parent is the precedence of the surrounding
// operator, used to decide parenthesisation.
func (p *printer) expr(e luaast.Expr, parent int) string {
	switch n := e.(type) {
	case *luaast.NilLiteral:
		return "nil"
	case *luaast.BooleanLiteral:
		if n.Value {
			return "true"
		}
		return "false"
	case *luaast.DotsLiteral:
		return "..."
	case *luaast.NumericLiteral:
		return formatNumber(n)
	case *luaast.StringLiteral:
		return strconv.Quote(n.Value)
	case *luaast.Identifier:
		return n.Text
	case *luaast.FunctionExpr:
		return p.functionExpr(n)
	case *luaast.TableExpr:
		return p.tableExpr(n)
	case *luaast.UnaryExpr:
		operand := p.expr(n.Operand, 12)
		if n.Op == luaast.UnaryNot {
			return "not " + operand
		}
		if n.Op == luaast.UnaryNegate {
			if strings.HasPrefix(operand, "-") {
				operand = "(" + operand + ")"
			}
		}
		return n.Op.String() + operand
	case *luaast.BinaryExpr:
		return p.binaryExpr(n, parent)
	case *luaast.ParenExpr:
		return "(" + p.expr(n.Inner, 0) + ")"
	case *luaast.CallExpr:
		return p.callable(n.Func) + "(" + p.exprList(n.Args) + ")"
	case *luaast.MethodCallExpr:
		return p.callable(n.Table) + ":" + n.Name.Text + "(" + p.exprList(n.Args) + ")"
	case *luaast.TableIndex:
		return p.tableIndex(n)
	default:
		return fmt.Sprintf("--[[ unknown expression %T ]]", e)
	}
}

// callable renders a call target, parenthesising shapes Lua's grammar
// rejects in call position.
func (p *printer) callable(e luaast.Expr) string {
	switch e.(type) {
	case *luaast.Identifier, *luaast.TableIndex, *luaast.CallExpr, *luaast.MethodCallExpr, *luaast.ParenExpr:
		return p.expr(e, 0)
	default:
		return "(" + p.expr(e, 0) + ")"
	}
}

func (p *printer) binaryExpr(n *luaast.BinaryExpr, parent int) string {
	prec := n.Op.Precedence()
	leftPrec, rightPrec := prec, prec+1
	if n.Op.RightAssociative() {
		leftPrec, rightPrec = prec+1, prec
	}
	out := p.expr(n.Left, leftPrec) + " " + n.Op.String() + " " + p.expr(n.Right, rightPrec)
	if prec < parent {
		return "(" + out + ")"
	}
	return out
}

func (p *printer) functionExpr(n *luaast.FunctionExpr) string {
	params := make([]string, 0, len(n.Params)+1)
	for _, id := range n.Params {
		params = append(params, id.Text)
	}
	if n.Dots {
		params = append(params, "...")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "function(%s)\n", strings.Join(params, ", "))
	inner := &printer{indent: p.indent + 1}
	inner.stmts(n.Body.Stmts)
	sb.WriteString(inner.sb.String())
	sb.WriteString(strings.Repeat("    ", p.indent))
	sb.WriteString("end")
	return sb.String()
}

func (p *printer) tableExpr(n *luaast.TableExpr) string {
	if len(n.Fields) == 0 {
		return "{}"
	}
	parts := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		value := p.expr(f.Value, 0)
		switch {
		case f.Key == nil:
			parts[i] = value
		default:
			if lit, ok := f.Key.(*luaast.StringLiteral); ok && mangle.IsValidIdentifier(lit.Value) && !mangle.IsKeyword(lit.Value) {
				parts[i] = lit.Value + " = " + value
			} else {
				parts[i] = "[" + p.expr(f.Key, 0) + "] = " + value
			}
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (p *printer) tableIndex(n *luaast.TableIndex) string {
	table := p.expr(n.Table, 0)
	switch n.Table.(type) {
	case *luaast.Identifier, *luaast.TableIndex, *luaast.CallExpr, *luaast.MethodCallExpr, *luaast.ParenExpr:
		// printable as-is
	default:
		table = "(" + table + ")"
	}
	if lit, ok := n.Index.(*luaast.StringLiteral); ok && mangle.IsValidIdentifier(lit.Value) && !mangle.IsKeyword(lit.Value) {
		return table + "." + lit.Value
	}
	return table + "[" + p.expr(n.Index, 0) + "]"
}

func formatNumber(n *luaast.NumericLiteral) string {
	if n.Raw != "" {
		return n.Raw
	}
	if n.Value == float64(int64(n.Value)) {
		return strconv.FormatInt(int64(n.Value), 10)
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}
