/*
NAME
  scenario.go - scenario data model (C4).

DESCRIPTION
  scenario describes data-source behavior over a bounded time span: a
  duration, optional start time and RNG seed, defaults, and per-message
  field generator bindings, validated against an already-loaded ICD. See
  spec.md §3 and §4.4.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

// Package scenario loads and resolves scenario documents that bind data
// generators to ICD fields.
package scenario

import (
	"time"

	"github.com/Anthonymm0994/ch10-1553-flightgen/generate"
)

// BusParams carries the bus configuration inputs of spec.md §3.
type BusParams struct {
	PacketBytesTarget  int
	TimePacketInterval time.Duration
	JitterMS           float64
}

// DefaultBusParams returns the documented defaults (65536 bytes, 1s).
func DefaultBusParams() BusParams {
	return BusParams{PacketBytesTarget: 65536, TimePacketInterval: time.Second}
}

// FieldRef identifies one field within one message.
type FieldRef struct {
	Message string
	Field   string
}

// Scenario is a validated, read-only scenario, immutable after Load.
type Scenario struct {
	Name            string
	DurationSeconds float64
	HasStartTime    bool
	StartTimeUTC    time.Time
	HasSeed         bool
	Seed            uint64
	Bus             BusParams

	// Bindings maps every (message, field) to its resolved generator spec,
	// including fields that fell back to a scenario default or the
	// ICD-implicit uniform-random fallback (spec.md §4.4).
	Bindings map[FieldRef]*generate.Spec
}

// Binding looks up the resolved generator for a field.
func (s *Scenario) Binding(message, field string) (*generate.Spec, bool) {
	spec, ok := s.Bindings[FieldRef{Message: message, Field: field}]
	return spec, ok
}
