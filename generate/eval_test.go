/*
NAME
  eval_test.go - tests for eval.go.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package generate

import (
	"math"
	"testing"

	"github.com/Anthonymm0994/ch10-1553-flightgen/generate/expr"
)

func TestEvaluateConstant(t *testing.T) {
	v, _, err := Evaluate(&Spec{Mode: Constant, Value: 42}, &Context{})
	if err != nil {
		t.Fatal(err)
	}
	if v != 42 {
		t.Fatalf("got %v, want 42", v)
	}
}

func TestEvaluateIncrementWrap(t *testing.T) {
	spec := &Spec{Mode: Increment, Start: 0, Step: 3, HasWrap: true, WrapAt: 10}
	v, _, err := Evaluate(spec, &Context{MessageCount: 4})
	if err != nil {
		t.Fatal(err)
	}
	if v != 2 { // 0 + 3*4 = 12, mod 10 = 2
		t.Fatalf("got %v, want 2", v)
	}
}

func TestEvaluatePatternRepeat(t *testing.T) {
	spec := &Spec{Mode: Pattern, Values: []float64{1, 2, 3}, Repeat: true}
	v, _, err := Evaluate(spec, &Context{MessageCount: 4})
	if err != nil {
		t.Fatal(err)
	}
	if v != 2 { // index 4 % 3 = 1 -> Values[1] = 2
		t.Fatalf("got %v, want 2", v)
	}
}

func TestEvaluatePatternNoRepeatClampsToLast(t *testing.T) {
	spec := &Spec{Mode: Pattern, Values: []float64{1, 2, 3}, Repeat: false}
	v, _, err := Evaluate(spec, &Context{MessageCount: 10})
	if err != nil {
		t.Fatal(err)
	}
	if v != 3 {
		t.Fatalf("got %v, want 3", v)
	}
}

func TestEvaluateSine(t *testing.T) {
	spec := &Spec{Mode: Sine, Center: 0, Amplitude: 1, FrequencyHz: 1, PhaseRad: 0}
	v, _, err := Evaluate(spec, &Context{TimeSeconds: 0.25})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(v-1) > 1e-9 {
		t.Fatalf("got %v, want ~1 at quarter period", v)
	}
}

func TestEvaluateSquareDuty(t *testing.T) {
	spec := &Spec{Mode: Square, Low: -1, High: 1, PeriodS: 1, Duty: 0.5}
	v, _, err := Evaluate(spec, &Context{TimeSeconds: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Fatalf("got %v, want high phase value 1", v)
	}
	v, _, err = Evaluate(spec, &Context{TimeSeconds: 0.9})
	if err != nil {
		t.Fatal(err)
	}
	if v != -1 {
		t.Fatalf("got %v, want low phase value -1", v)
	}
}

func TestEvaluateRampClampsPastDuration(t *testing.T) {
	spec := &Spec{Mode: Ramp, Start: 0, RampEnd: 100, RampDuration: 10}
	v, _, err := Evaluate(spec, &Context{TimeSeconds: 20})
	if err != nil {
		t.Fatal(err)
	}
	if v != 100 {
		t.Fatalf("got %v, want 100 (clamped at ramp end)", v)
	}
}

func TestEvaluateRampRepeatsPastDuration(t *testing.T) {
	spec := &Spec{Mode: Ramp, Start: 0, RampEnd: 100, RampDuration: 10, Repeat: true}
	v, _, err := Evaluate(spec, &Context{TimeSeconds: 25})
	if err != nil {
		t.Fatal(err)
	}
	if v != 50 {
		t.Fatalf("got %v, want 50 (25s into a 10s repeating ramp is halfway through the third cycle)", v)
	}
}

func TestEvaluateExpressionUsesPriorValues(t *testing.T) {
	ast, err := expr.Parse("a * 2")
	if err != nil {
		t.Fatal(err)
	}
	spec := &Spec{Mode: Expression, Formula: "a * 2", AST: ast}
	ctx := &Context{Values: map[string]float64{"a": 5}}
	v, _, err := Evaluate(spec, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v != 10 {
		t.Fatalf("got %v, want 10", v)
	}
}

func TestEvaluateExpressionUndefinedFieldIsFatal(t *testing.T) {
	ast, err := expr.Parse("missing + 1")
	if err != nil {
		t.Fatal(err)
	}
	spec := &Spec{Mode: Expression, Formula: "missing + 1", AST: ast}
	if _, _, err := Evaluate(spec, &Context{Values: map[string]float64{}}); err == nil {
		t.Fatal("expected error for undefined field reference")
	}
}

func TestEvaluateRandomDeterministic(t *testing.T) {
	spec := &Spec{Mode: Random, HasMin: true, Min: 0, HasMax: true, Max: 1}
	r1 := SubStream(42, "Nav", "x")
	r2 := SubStream(42, "Nav", "x")
	v1, _, err := Evaluate(spec, &Context{Rng: r1})
	if err != nil {
		t.Fatal(err)
	}
	v2, _, err := Evaluate(spec, &Context{Rng: r2})
	if err != nil {
		t.Fatal(err)
	}
	if v1 != v2 {
		t.Fatalf("same seed/message/field must reproduce the same draw: %v != %v", v1, v2)
	}
}

func TestEvaluateRandomNormalClampRange(t *testing.T) {
	spec := &Spec{Mode: RandomNormal, Mean: 0, Stddev: 1000, HasMin: true, Min: -1, HasMax: true, Max: 1}
	r := SubStream(1, "Nav", "x")
	for i := 0; i < 50; i++ {
		v, _, err := Evaluate(spec, &Context{Rng: r})
		if err != nil {
			t.Fatal(err)
		}
		if v < -1 || v > 1 {
			t.Fatalf("value %v escaped clamp range [-1, 1]", v)
		}
	}
}
