/*
NAME
  spec.go - the closed set of data generator variants (C3, spec.md §4.3).

DESCRIPTION
  Spec is a tagged variant over the thirteen generator modes of spec.md's
  table in §4.3 (sine and cosine counted separately): constant, increment,
  pattern, random (uniform), random_normal, random_multimodal,
  random_exponential, sine, cosine, square, sawtooth, ramp and expression.
  Evaluate (eval.go) computes every mode with one closed switch over Mode,
  as a static function of an evaluation Context rather than runtime
  dispatch by name, per the "tagged variant" design note in spec.md §9.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

// Package generate implements the data generator kernel: per-emission
// evaluation of scenario-bound generator specs, including the whitelisted
// expression language and per-field deterministic PRNG streams.
package generate

import "github.com/Anthonymm0994/ch10-1553-flightgen/generate/expr"

// Mode identifies one of the closed set of generator variants.
type Mode int

const (
	Constant Mode = iota
	Increment
	Pattern
	Random
	RandomNormal
	RandomMultimodal
	RandomExponential
	Sine
	Cosine
	Square
	Sawtooth
	Ramp
	Expression
)

// String names a Mode the way it would appear in a scenario document.
func (m Mode) String() string {
	switch m {
	case Constant:
		return "constant"
	case Increment:
		return "increment"
	case Pattern:
		return "pattern"
	case Random:
		return "random"
	case RandomNormal:
		return "random_normal"
	case RandomMultimodal:
		return "random_multimodal"
	case RandomExponential:
		return "random_exponential"
	case Sine:
		return "sine"
	case Cosine:
		return "cosine"
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	case Ramp:
		return "ramp"
	case Expression:
		return "expression"
	default:
		return "unknown"
	}
}

// Peak is one component of a random_multimodal mixture.
type Peak struct {
	Mean   float64
	Stddev float64
	Weight float64
}

// Spec is one field's generator binding. Only the fields relevant to Mode
// are populated; the rest are zero. When Mode == Expression, Formula/AST
// carry the parsed expression.
type Spec struct {
	Mode Mode

	// constant
	Value float64

	// increment
	Start float64
	Step  float64
	Wrap  bool
	HasWrap bool
	WrapAt  float64

	// pattern
	Values []float64
	Repeat bool

	// random (uniform), and shared min/max clipping for the random_* modes
	Min    float64
	Max    float64
	HasMin bool
	HasMax bool

	// random_normal / one component of random_multimodal
	Mean   float64
	Stddev float64

	// random_multimodal
	Peaks []Peak

	// random_exponential
	Lambda float64

	// sine / cosine
	Center      float64
	Amplitude   float64
	FrequencyHz float64
	PhaseRad    float64

	// square
	Low, High, PeriodS, Duty float64

	// sawtooth reuses Min/Max/PeriodS

	// ramp reuses Start and Repeat (holds at RampEnd if false, restarts
	// from Start if true); dedicated fields below
	RampEnd      float64
	RampDuration float64

	// expression
	Formula string
	AST     *expr.Expr
}
