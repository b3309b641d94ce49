/*
NAME
  tmats.go - TMATS text assembly (C6 §4.6).

DESCRIPTION
  Build assembles the minimal-but-valid TMATS attribute stream: general
  information (G\...), one recorder/bus attribute group (R-1\...), and one
  message attribute group per ICD message (M-x\...), the way
  container/mts/psi.NewPATPSI/NewPMTPSI build canned table structures from a
  source model, here serialized via the semicolon-terminated key/value
  writer in kv.go rather than PSI's fixed binary table layout.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

// Package tmats builds IRIG-106 TMATS ("Telemetry Attributes Transfer
// Standard") text from a loaded ICD and scenario.
package tmats

import (
	"fmt"
	"time"
)

// Source is the subset of the loaded ICD/scenario TMATS needs, kept
// narrow so this package has no import-time dependency on icd/scenario
// concrete types.
type Source struct {
	ProgramName  string
	Bus          string // "A" or "B"
	StartTimeUTC time.Time
	HasStartTime bool
	Messages     []Message
}

// Message is one 1553 message's TMATS-relevant addressing.
type Message struct {
	Name   string
	RT     uint8
	TR     string
	SA     uint8
	WC     uint8
	RateHz float64
}

// Build assembles the TMATS packet payload for src: a 4-byte
// channel-specific data word (zero-initialized; spec.md §4.6 reserves it
// without defining any TMATS-specific bits), followed by the TMATS ASCII
// text, mirroring the CSDW prefix every other packet type in this package
// carries (timef1.Build, ms1553.Build).
func Build(src Source) []byte {
	w := &kvWriter{}

	w.add("G\\PN", nonEmpty(src.ProgramName, "CH10GEN"))
	w.add("G\\DSI\\N", "1")
	if src.HasStartTime {
		w.add("G\\DSI\\TA", src.StartTimeUTC.UTC().Format(time.RFC3339))
	}
	w.addf("G\\1553\\N", "%d", len(src.Messages))

	w.add("R-1\\ID", "1553-BUS")
	w.addf("R-1\\CDT", "%s", nonEmpty(src.Bus, "A"))
	w.addf("R-1\\CHAN-COUNT", "%d", len(src.Messages))

	for i, m := range src.Messages {
		n := i + 1
		w.add(fmt.Sprintf("M-%d\\ID", n), m.Name)
		w.add(fmt.Sprintf("M-%d\\RT1", n), fmt.Sprintf("%d", m.RT))
		w.add(fmt.Sprintf("M-%d\\TR", n), m.TR)
		w.add(fmt.Sprintf("M-%d\\SA1", n), fmt.Sprintf("%d", m.SA))
		w.add(fmt.Sprintf("M-%d\\WC", n), fmt.Sprintf("%d", m.WC))
		w.add(fmt.Sprintf("M-%d\\RATE", n), formatRate(m.RateHz))
	}

	w.add("G\\COM", "PRODUCED BY CH10GEN")

	csdw := make([]byte, 4)
	return append(csdw, w.bytes()...)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func formatRate(hz float64) string {
	return fmt.Sprintf("%g", hz)
}
