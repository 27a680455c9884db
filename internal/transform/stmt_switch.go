package transform

import (
	"fmt"

	"tstl/internal/diag"
	"tstl/internal/luaast"
	"tstl/internal/scope"
	"tstl/internal/tsast"
)

func switchEndLabel(scopeID uint32) string {
	return fmt.Sprintf("____TS_switch%d_end", scopeID)
}

// transformSwitch lowers a switch to a chain of equality tests that goto
// their case labels, followed by the labelled bodies in order so
// fall-through works, and a shared end label that break targets. The
// switch variable and labels are suffixed with the scope id so nested
// switches stay distinct.
func (t *Transformer) transformSwitch(n *tsast.Switch) []luaast.Stmt {
	if !t.opts.LuaTarget.SupportsGoto() {
		t.fail(diag.UnsupportedForTarget, n, "switch statements are not supported on target %s", t.opts.LuaTarget)
	}

	sc := t.scopes.Push(scope.Switch)
	id := sc.ID

	switchVar := luaast.NewAnonymousIdentifier(fmt.Sprintf("____TS_switch%d", id), n)
	out := []luaast.Stmt{
		luaast.NewLocal([]*luaast.Identifier{switchVar}, []luaast.Expr{t.transformExpr(n.Expr)}, n),
	}

	caseLabel := func(i int) string {
		return fmt.Sprintf("____TS_switch%d_case_%d", id, i)
	}
	defaultLabel := fmt.Sprintf("____TS_switch%d_default", id)

	hasDefault := false
	for i, c := range n.Cases {
		if c.Test == nil {
			hasDefault = true
			continue
		}
		cond := luaast.NewBinaryExpr(luaast.BinaryEq,
			luaast.CloneIdentifier(switchVar), t.transformExpr(c.Test), c)
		out = append(out, luaast.NewIf(cond,
			[]luaast.Stmt{luaast.NewGoto(caseLabel(i), c)}, nil, c))
	}
	if hasDefault {
		out = append(out, luaast.NewGoto(defaultLabel, n))
	} else {
		out = append(out, luaast.NewGoto(switchEndLabel(id), n))
	}

	for i, c := range n.Cases {
		if c.Test == nil {
			out = append(out, luaast.NewLabel(defaultLabel, c))
		} else {
			out = append(out, luaast.NewLabel(caseLabel(i), c))
		}
		out = append(out, t.transformStmtList(c.Stmts)...)
	}
	out = append(out, luaast.NewLabel(switchEndLabel(id), n))

	t.scopes.Pop()
	out = t.hoist(sc, out)
	return []luaast.Stmt{luaast.NewDo(out, n)}
}
