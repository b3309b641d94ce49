/*
NAME
  deps_test.go - tests for deps.go.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package generate

import (
	"testing"

	"github.com/Anthonymm0994/ch10-1553-flightgen/generate/expr"
)

func mustParse(t *testing.T, formula string) *expr.Expr {
	t.Helper()
	e, err := expr.Parse(formula)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func indexOf(order []FieldKey, k FieldKey) int {
	for i, o := range order {
		if o == k {
			return i
		}
	}
	return -1
}

// TestBuildOrderChain follows scenario 4 of spec.md §8: b=expression "a*2",
// c=expression "b+a" must order b before c. a (a sine field in the
// scenario) is not bound here, so it imposes no ordering constraint.
func TestBuildOrderChain(t *testing.T) {
	bindings := []Binding{
		{Key: FieldKey{"Nav", "b"}, Spec: &Spec{Mode: Expression, AST: mustParse(t, "a * 2")}},
		{Key: FieldKey{"Nav", "c"}, Spec: &Spec{Mode: Expression, AST: mustParse(t, "b + a")}},
	}
	order, err := BuildOrder(bindings)
	if err != nil {
		t.Fatal(err)
	}
	b := indexOf(order, FieldKey{"Nav", "b"})
	c := indexOf(order, FieldKey{"Nav", "c"})
	if b < 0 || c < 0 || b > c {
		t.Fatalf("expected b before c, got order %v", order)
	}
}

func TestBuildOrderCrossMessage(t *testing.T) {
	bindings := []Binding{
		{Key: FieldKey{"Nav", "x"}, Spec: &Spec{Mode: Expression, AST: mustParse(t, "Fuel.level * 2")}},
		{Key: FieldKey{"Fuel", "level"}, Spec: &Spec{Mode: Expression, AST: mustParse(t, "10")}},
	}
	order, err := BuildOrder(bindings)
	if err != nil {
		t.Fatal(err)
	}
	x := indexOf(order, FieldKey{"Nav", "x"})
	level := indexOf(order, FieldKey{"Fuel", "level"})
	if level > x {
		t.Fatalf("expected Fuel.level before Nav.x, got order %v", order)
	}
}

func TestBuildOrderDetectsCycle(t *testing.T) {
	bindings := []Binding{
		{Key: FieldKey{"Nav", "a"}, Spec: &Spec{Mode: Expression, AST: mustParse(t, "b + 1")}},
		{Key: FieldKey{"Nav", "b"}, Spec: &Spec{Mode: Expression, AST: mustParse(t, "a + 1")}},
	}
	_, err := BuildOrder(bindings)
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if _, ok := err.(*CycleError); !ok {
		t.Fatalf("expected *CycleError, got %T: %v", err, err)
	}
}

func TestBuildOrderSelfReferenceIsCycle(t *testing.T) {
	bindings := []Binding{
		{Key: FieldKey{"Nav", "a"}, Spec: &Spec{Mode: Expression, AST: mustParse(t, "a + 1")}},
	}
	if _, err := BuildOrder(bindings); err == nil {
		t.Fatal("expected cycle error for self-reference")
	}
}

func TestBuildOrderIndependentFieldsAnyOrder(t *testing.T) {
	bindings := []Binding{
		{Key: FieldKey{"Nav", "a"}, Spec: &Spec{Mode: Expression, AST: mustParse(t, "1")}},
		{Key: FieldKey{"Nav", "b"}, Spec: &Spec{Mode: Expression, AST: mustParse(t, "2")}},
	}
	order, err := BuildOrder(bindings)
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 {
		t.Fatalf("expected 2 entries, got %v", order)
	}
}
