/*
NAME
  jitter.go - bounded emission jitter (C5, spec.md §4.5).

DESCRIPTION
  applyJitter perturbs each event's emit time by U(-J, +J) milliseconds,
  clamping an event's jitter against its immediate neighbor whenever the
  perturbation would invert the global ordering. maxJitterReorderSpan
  bounds how many adjacent events a single clamp may need to look across
  before giving up and reporting ScheduleOverlapUnresolvable
  (implementation-defined small bound per spec.md §4.5).

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package schedule

import "github.com/Anthonymm0994/ch10-1553-flightgen/generate"

// maxJitterReorderSpan is the number of adjacent events a jitter clamp will
// search across before the schedule reports an unresolvable overlap.
const maxJitterReorderSpan = 5

// applyJitter perturbs events in place (events must already be sorted by
// EmitTimeNS) and returns any warnings raised.
func applyJitter(events []Event, jitterMS float64, seed uint64) []Warning {
	if len(events) == 0 {
		return nil
	}
	jitterNS := int64(jitterMS * 1e6)
	rng := generate.SubStream(seed, "__schedule__", "jitter")

	var warns []Warning
	for i := range events {
		draw := rng.Float64()*2 - 1 // U(-1, +1)
		delta := int64(draw * float64(jitterNS))
		proposed := events[i].EmitTimeNS + delta

		if i > 0 && proposed <= events[i-1].EmitTimeNS {
			clamped := false
			for span := 1; span <= maxJitterReorderSpan && i-span >= 0; span++ {
				if proposed > events[i-span].EmitTimeNS {
					clamped = true
					break
				}
			}
			if !clamped {
				warns = append(warns, Warning{
					Code:    WarnScheduleOverlapUnresolvable,
					Message: "jitter clamp could not preserve ordering within the bounded search span",
				})
				proposed = events[i-1].EmitTimeNS + 1
			} else {
				proposed = events[i-1].EmitTimeNS + 1
			}
		}
		events[i].EmitTimeNS = proposed
	}
	return warns
}
