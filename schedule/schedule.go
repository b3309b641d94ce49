/*
NAME
  schedule.go - bus scheduler (C5).

DESCRIPTION
  Scheduler produces the finite, time-ordered event stream of spec.md
  §4.5: each message with rate r Hz emits at integer-nanosecond times
  k*1e9/r for k = 0, 1, 2, ... while k/r < duration. Events at the same
  instant share one EmitTimeNS (times are non-decreasing) and are ordered
  by the stable key (rt, sa, declaration_order). Bus utilization is
  tracked in the run Report but never rejects a configuration; exceeding
  capacity is surfaced as a Warning.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package schedule

import (
	"iter"
	"math"
	"sort"

	"github.com/ausocean/utils/logging"

	"github.com/Anthonymm0994/ch10-1553-flightgen/icd"
	"github.com/Anthonymm0994/ch10-1553-flightgen/scenario"
)

// busBitRateHz is the nominal MIL-STD-1553B data rate: 1 Mbit/s.
const busBitRateHz = 1_000_000

// Report summarizes scheduling outcomes for the pipeline's run report
// (spec.md §4.5/§7): utilization per second, minor/major frame reporting,
// and any non-fatal warnings.
type Report struct {
	TotalEvents      int
	UtilizationPct   []float64 // one entry per whole second of the scenario
	MinorFrameNS     int64
	MajorFrameNS     int64
	JitterClampBound int
	Warnings         []Warning
}

// Scheduler produces the event stream for one (icd, scenario) pair.
type Scheduler struct {
	icd *icd.ICD
	sc  *scenario.Scenario
	log logging.Logger

	events []Event
	report Report
}

// New builds a Scheduler for the given ICD and scenario. It eagerly
// computes the full event stream and the associated Report; Events then
// iterates that pre-computed, sorted sequence.
func New(d *icd.ICD, sc *scenario.Scenario, log logging.Logger) *Scheduler {
	s := &Scheduler{icd: d, sc: sc, log: log, report: Report{JitterClampBound: maxJitterReorderSpan}}
	s.build()
	return s
}

// Events returns the time-ordered (non-decreasing) event stream.
func (s *Scheduler) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for _, e := range s.events {
			if !yield(e) {
				return
			}
		}
	}
}

// Report returns the utilization/warning summary computed alongside the
// event stream.
func (s *Scheduler) Report() Report { return s.report }

func (s *Scheduler) build() {
	type seed struct {
		ev  Event
		sa  uint8
		ord int
	}
	var seeds []seed

	durationNS := int64(s.sc.DurationSeconds * 1e9)
	bitsPerSecond := 0.0

	for _, m := range s.icd.Messages {
		if m.RateHz <= 0 {
			continue
		}
		periodNS := 1e9 / m.RateHz
		bitsPerMessage := float64(m.WC+2) * 20
		bitsPerSecond += m.RateHz * bitsPerMessage

		for k := int64(0); ; k++ {
			t := int64(math.Round(float64(k) * periodNS))
			if t >= durationNS {
				break
			}
			seeds = append(seeds, seed{
				ev:  Event{EmitTimeNS: t, Message: m, Bus: s.icd.Bus},
				sa:  m.SA,
				ord: m.DeclarationOrder(),
			})
		}
	}

	sort.SliceStable(seeds, func(i, j int) bool {
		a, b := seeds[i], seeds[j]
		if a.ev.EmitTimeNS != b.ev.EmitTimeNS {
			return a.ev.EmitTimeNS < b.ev.EmitTimeNS
		}
		if a.ev.Message.RT != b.ev.Message.RT {
			return a.ev.Message.RT < b.ev.Message.RT
		}
		if a.sa != b.sa {
			return a.sa < b.sa
		}
		return a.ord < b.ord
	})

	events := make([]Event, len(seeds))
	for i, sd := range seeds {
		events[i] = sd.ev
	}

	if s.sc.Bus.JitterMS > 0 {
		warns := applyJitter(events, s.sc.Bus.JitterMS, s.sc.Seed)
		s.report.Warnings = append(s.report.Warnings, warns...)
	}

	for i := range events {
		events[i].SeqIndex = int64(i)
	}
	s.events = events
	s.report.TotalEvents = len(events)

	s.report.MinorFrameNS, s.report.MajorFrameNS = frameBounds(s.icd.Messages)
	s.report.UtilizationPct = utilizationPerSecond(s.icd.Messages, s.sc.DurationSeconds)

	capacityPct := bitsPerSecond / busBitRateHz * 100
	if capacityPct > 100 {
		s.report.Warnings = append(s.report.Warnings, Warning{
			Code:    WarnRateExceedsBusCapacity,
			Message: "aggregate message rate exceeds nominal 1 Mbit/s bus capacity",
		})
		if s.log != nil {
			s.log.Warning("schedule: aggregate rate exceeds bus capacity", "utilizationPct", capacityPct)
		}
	}
}
