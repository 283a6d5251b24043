package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func num(v float64) Expression { return &Number{Value: v} }
func varE(name string) Expression { return &Variable{Name: name} }

func TestHashDistinguishesOperandOrder(t *testing.T) {
	for _, op := range []BinaryOp{Sub, Div, Pow} {
		ab := &Binary{Left: varE("a"), Right: varE("b"), Op: op}
		ba := &Binary{Left: varE("b"), Right: varE("a"), Op: op}
		if ab.Hash() == ba.Hash() {
			t.Errorf("op %v: hash(a %v b) == hash(b %v a), want distinct", op, op, op)
		}
		if ab.Equal(ba) {
			t.Errorf("op %v: a %v b should not equal b %v a", op, op, op)
		}
	}
}

func TestEqualStructural(t *testing.T) {
	a := &Binary{Left: num(1), Right: varE("x"), Op: Add}
	b := &Binary{Left: num(1), Right: varE("x"), Op: Add}
	if !a.Equal(b) {
		t.Fatal("structurally identical trees should be Equal")
	}
	if a.Hash() != b.Hash() {
		t.Fatal("structurally identical trees should hash equal")
	}
}

func TestEqualDiffersOnNumberValue(t *testing.T) {
	a := num(1)
	b := num(2)
	if a.Equal(b) {
		t.Fatal("1 should not equal 2")
	}
}

func TestCallEqualityIncludesBaseAndOptional(t *testing.T) {
	a := &Call{Name: "log", Args: []Expression{num(8)}, Base: num(2)}
	b := &Call{Name: "log", Args: []Expression{num(8)}, Base: num(3)}
	if a.Equal(b) {
		t.Fatal("different log bases should not be equal")
	}
}

func TestGoCmpCanDiffTrees(t *testing.T) {
	a := &Binary{Left: num(1), Right: varE("x"), Op: Add}
	b := &Binary{Left: num(1), Right: varE("y"), Op: Add}
	diff := cmp.Diff(a, b, cmpopts.IgnoreFields(Binary{}, "SourceToken"))
	if diff == "" {
		t.Fatal("expected go-cmp to report a difference between x and y trees")
	}
}
