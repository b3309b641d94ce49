/*
NAME
  event.go - scheduled event model (C5).

DESCRIPTION
  Event is one scheduled emission of a message, before data generation or
  encoding. The bus scheduler produces a time-ordered (non-decreasing)
  sequence of these for a scenario's duration (spec.md §4.5).

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package schedule

import "github.com/Anthonymm0994/ch10-1553-flightgen/icd"

// Event is one scheduled message emission.
type Event struct {
	EmitTimeNS int64
	Message    *icd.Message
	SeqIndex   int64
	Bus        icd.Bus
}

// Warning describes a non-fatal scheduling condition (spec.md §4.5).
type Warning struct {
	Code    string
	Message string
}

const (
	WarnRateExceedsBusCapacity   = "RateExceedsBusCapacity"
	WarnScheduleOverlapUnresolvable = "ScheduleOverlapUnresolvable"
)
