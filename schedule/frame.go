/*
NAME
  frame.go - minor/major frame reporting and bus utilization (C5, spec.md §4.5).

DESCRIPTION
  frameBounds derives an advisory minor-frame period from the GCD of all
  message periods and a major-frame period from their LCM (or a 1-second
  fallback when the LCM would be degenerate); these are reporting-only,
  never used to gate emission times. utilizationPerSecond aggregates wire
  cost (command + data*wc + status words, 20 bits each including
  sync/parity per spec.md §4.5) into a per-second utilization percentage
  using gonum/floats for the summation, the way the teacher's `cmd/rv/probe.go`
  leans on `gonum.org/v1/gonum/stat` for aggregate statistics.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package schedule

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Anthonymm0994/ch10-1553-flightgen/icd"
)

func gcdNS(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

func lcmNS(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	g := gcdNS(a, b)
	return a / g * b
}

// frameBounds returns the advisory minor-frame (GCD of periods) and
// major-frame (LCM of periods, or 1s fallback) in nanoseconds.
func frameBounds(messages []*icd.Message) (minorNS, majorNS int64) {
	var periods []int64
	for _, m := range messages {
		if m.RateHz <= 0 {
			continue
		}
		periods = append(periods, int64(math.Round(1e9/m.RateHz)))
	}
	if len(periods) == 0 {
		return 0, int64(1e9)
	}

	minor := periods[0]
	major := periods[0]
	for _, p := range periods[1:] {
		minor = gcdNS(minor, p)
		l := lcmNS(major, p)
		if l <= 0 || l > 60*int64(1e9) {
			// Degenerate or impractically large LCM: fall back to 1s.
			major = int64(1e9)
			continue
		}
		major = l
	}
	return minor, major
}

// utilizationPerSecond returns the bus utilization percentage for each
// whole second of [0, durationSeconds).
func utilizationPerSecond(messages []*icd.Message, durationSeconds float64) []float64 {
	seconds := int(math.Ceil(durationSeconds))
	if seconds <= 0 {
		return nil
	}

	bitsPerSecond := make([]float64, len(messages))
	for i, m := range messages {
		if m.RateHz <= 0 {
			continue
		}
		bitsPerMessage := float64(m.WC+2) * 20
		bitsPerSecond[i] = m.RateHz * bitsPerMessage
	}
	total := floats.Sum(bitsPerSecond)

	out := make([]float64, seconds)
	for i := range out {
		out[i] = total / busBitRateHz * 100
	}
	return out
}
