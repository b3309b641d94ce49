/*
NAME
  timef1_test.go - tests for timef1.go.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package timef1

import (
	"testing"
	"time"
)

func TestBuildLength(t *testing.T) {
	b := Build(Default(), time.Date(2026, 3, 15, 12, 30, 45, 500_000_000, time.UTC))
	if len(b) != 12 {
		t.Fatalf("got %d bytes, want 12 (4-byte CSDW + 8-byte body)", len(b))
	}
}

func TestBuildCSDWDefaultsToInternalIRIGB(t *testing.T) {
	b := Build(Default(), time.Unix(0, 0))
	csdw := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	source := csdw & 0x7
	format := (csdw >> 3) & 0xF
	if source != SourceInternal || format != FormatIRIGB {
		t.Fatalf("got source=%d format=%d, want internal/IRIG-B", source, format)
	}
}

func TestBuildBCDDay(t *testing.T) {
	b := Build(Default(), time.Date(2026, 1, 23, 0, 0, 0, 0, time.UTC))
	day := b[4]
	if day != 0x23 {
		t.Fatalf("got packed-BCD day 0x%02X, want 0x23", day)
	}
}
