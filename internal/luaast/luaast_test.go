package luaast

import (
	"testing"

	"tstl/internal/symbols"
)

func TestFlattenConcat(t *testing.T) {
	a := NewString("a", nil)
	b := NewString("b", nil)
	c := NewString("c", nil)
	// left-folded a .. b .. c
	fold := NewBinaryExpr(BinaryConcat, NewBinaryExpr(BinaryConcat, a, b, nil), c, nil)

	flat := FlattenConcat(fold)
	if len(flat) != 3 {
		t.Fatalf("FlattenConcat returned %d operands", len(flat))
	}
	if flat[0] != Expr(a) || flat[2] != Expr(c) {
		t.Fatalf("operand order lost")
	}

	single := FlattenConcat(a)
	if len(single) != 1 {
		t.Fatalf("non-concat expression flattened to %d", len(single))
	}
}

func TestCloneIdentifier(t *testing.T) {
	id := NewIdentifier("____exports", symbols.ID(3), "exports", nil)
	cp := CloneIdentifier(id)
	if cp == id {
		t.Fatalf("clone aliases the original")
	}
	if cp.Text != id.Text || cp.SymbolID != id.SymbolID || cp.OriginalText != id.OriginalText {
		t.Fatalf("clone lost fields: %+v", cp)
	}
	if CloneIdentifier(nil) != nil {
		t.Fatalf("clone of nil not nil")
	}
}

func TestAssignmentTarget(t *testing.T) {
	id := NewAnonymousIdentifier("x", nil)
	idx := NewDotAccess(id, "field", nil)
	if !AssignmentTarget(id) || !AssignmentTarget(idx) {
		t.Fatalf("valid targets rejected")
	}
	if AssignmentTarget(NewNumber(1, nil)) {
		t.Fatalf("literal accepted as target")
	}
	if AssignmentTarget(NewCall(id, nil, nil)) {
		t.Fatalf("call accepted as target")
	}
}

func TestOperatorPrecedence(t *testing.T) {
	if BinaryMul.Precedence() <= BinaryAdd.Precedence() {
		t.Fatalf("* does not bind tighter than +")
	}
	if BinaryAnd.Precedence() <= BinaryOr.Precedence() {
		t.Fatalf("and does not bind tighter than or")
	}
	if !BinaryConcat.RightAssociative() || !BinaryPow.RightAssociative() {
		t.Fatalf("right-associative operators misreported")
	}
	if BinaryAdd.RightAssociative() {
		t.Fatalf("+ reported right-associative")
	}
}
