/*
NAME
  context.go - per-emission evaluation context.

DESCRIPTION
  Context carries everything a generator needs to compute one field's value
  for one message instance: elapsed time, the message's emission index, a
  per-(message,field) PRNG, and the partial map of already-computed field
  values for the current event (spec.md §4.3). Context is stack-scoped:
  generators never retain it beyond a single emission (spec.md §9).

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package generate

import "math/rand/v2"

// Context is passed to Evaluate for a single field, for a single message
// instance.
type Context struct {
	TimeSeconds  float64
	MessageName  string
	MessageCount int64
	Rng          *rand.Rand

	// Values holds already-computed field values for the current event,
	// keyed by unqualified field name (within MessageName) and additionally
	// by "Message.field" for expressions that qualify a cross-referenced
	// field explicitly.
	Values map[string]float64
}

// Warning describes a non-fatal condition raised during evaluation (divide
// by zero, domain error, clamp), per spec.md §4.3/§7.
type Warning struct {
	Field   string
	Message string
}
