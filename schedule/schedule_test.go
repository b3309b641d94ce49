/*
NAME
  schedule_test.go - tests for schedule.go, jitter.go and frame.go.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package schedule

import (
	"strings"
	"testing"

	"github.com/Anthonymm0994/ch10-1553-flightgen/icd"
	"github.com/Anthonymm0994/ch10-1553-flightgen/scenario"
)

func loadICD(t *testing.T, yaml string) *icd.ICD {
	t.Helper()
	d, err := icd.Load(strings.NewReader(yaml))
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func loadScenario(t *testing.T, yaml string, d *icd.ICD) *scenario.Scenario {
	t.Helper()
	s, err := scenario.Load(strings.NewReader(yaml), d)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// TestEventCountTwoRates reproduces scenario 5 of spec.md §8: a 50 Hz and a
// 20 Hz message over 1 second produce exactly 70 events.
func TestEventCountTwoRates(t *testing.T) {
	d := loadICD(t, `
bus: A
messages:
  - name: FAST
    rate_hz: 50
    rt: 1
    tr: BC2RT
    sa: 1
    wc: 1
    words: [{name: v, encode: u16}]
  - name: SLOW
    rate_hz: 20
    rt: 2
    tr: BC2RT
    sa: 1
    wc: 1
    words: [{name: v, encode: u16}]
`)
	sc := loadScenario(t, "name: s\nduration_s: 1\n", d)

	s := New(d, sc, nil)
	var count int
	for range s.Events() {
		count++
	}
	if count != 70 {
		t.Fatalf("got %d events, want 70", count)
	}
}

func TestEventsNonDecreasingWithTieBreak(t *testing.T) {
	d := loadICD(t, `
bus: A
messages:
  - name: A
    rate_hz: 50
    rt: 1
    tr: BC2RT
    sa: 1
    wc: 1
    words: [{name: v, encode: u16}]
  - name: B
    rate_hz: 50
    rt: 2
    tr: BC2RT
    sa: 1
    wc: 1
    words: [{name: v, encode: u16}]
`)
	sc := loadScenario(t, "name: s\nduration_s: 1\n", d)
	s := New(d, sc, nil)

	var prev int64 = -1
	var prevRT uint8
	for ev := range s.Events() {
		if ev.EmitTimeNS < prev {
			t.Fatalf("event time decreased: %d after %d", ev.EmitTimeNS, prev)
		}
		if ev.EmitTimeNS == prev && ev.Message.RT < prevRT {
			t.Fatalf("tie-break ordering violated at t=%d", ev.EmitTimeNS)
		}
		prev = ev.EmitTimeNS
		prevRT = ev.Message.RT
	}
}

func TestTieBreakByRTThenSA(t *testing.T) {
	d := loadICD(t, `
bus: A
messages:
  - name: SECOND
    rate_hz: 10
    rt: 5
    tr: BC2RT
    sa: 2
    wc: 1
    words: [{name: v, encode: u16}]
  - name: FIRST
    rate_hz: 10
    rt: 5
    tr: BC2RT
    sa: 1
    wc: 1
    words: [{name: v, encode: u16}]
`)
	sc := loadScenario(t, "name: s\nduration_s: 0.2\n", d)
	s := New(d, sc, nil)

	var names []string
	for ev := range s.Events() {
		names = append(names, ev.Message.Name)
	}
	if len(names) < 2 || names[0] != "FIRST" || names[1] != "SECOND" {
		t.Fatalf("expected FIRST before SECOND at same instant, got %v", names)
	}
}

func TestFrameBoundsGCDLCM(t *testing.T) {
	d := loadICD(t, `
bus: A
messages:
  - name: A
    rate_hz: 10
    rt: 1
    tr: BC2RT
    sa: 1
    wc: 1
    words: [{name: v, encode: u16}]
  - name: B
    rate_hz: 5
    rt: 2
    tr: BC2RT
    sa: 1
    wc: 1
    words: [{name: v, encode: u16}]
`)
	sc := loadScenario(t, "name: s\nduration_s: 1\n", d)
	s := New(d, sc, nil)
	report := s.Report()
	if report.MinorFrameNS != 100_000_000 { // GCD(100ms, 200ms) = 100ms
		t.Fatalf("got minor frame %dns, want 100ms", report.MinorFrameNS)
	}
	if report.MajorFrameNS != 200_000_000 { // LCM(100ms, 200ms) = 200ms
		t.Fatalf("got major frame %dns, want 200ms", report.MajorFrameNS)
	}
}

func TestRateExceedsBusCapacityWarning(t *testing.T) {
	d := loadICD(t, `
bus: A
messages:
  - name: HUGE
    rate_hz: 100000
    rt: 1
    tr: BC2RT
    sa: 1
    wc: 1
    words: [{name: v, encode: u16}]
`)
	sc := loadScenario(t, "name: s\nduration_s: 0.01\n", d)
	s := New(d, sc, nil)
	report := s.Report()

	found := false
	for _, w := range report.Warnings {
		if w.Code == WarnRateExceedsBusCapacity {
			found = true
		}
	}
	if !found {
		t.Fatal("expected RateExceedsBusCapacity warning")
	}
}
