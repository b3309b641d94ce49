/*
NAME
  timef1.go - IRIG-106 Time-F1 packet payload (C6 §4.6).

DESCRIPTION
  Build assembles the Time-F1 payload: a 4-byte CSDW naming the time source
  and format, followed by an 8-byte BCD time body (day/hour/minute/second/
  millisecond/microsecond) packed per the selected format. The generator
  defaults to TimeSourceInternal/FormatIRIGB (spec.md §9 Open Question
  resolution: no external time reference exists in a synthetic recording).

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

// Package timef1 builds IRIG-106 Time-F1 packet payloads.
package timef1

import (
	"time"

	"github.com/Anthonymm0994/ch10-1553-flightgen/word"
)

// Time source values for the CSDW (spec.md §4.6).
const (
	SourceInternal        = 0
	SourceExternal        = 1
	SourceInternalFromRMM = 2
	SourceExternalFromRMM = 3
)

// Time format values for the CSDW (spec.md §4.6).
const (
	FormatIRIGB = 0
	FormatIRIGA = 1
	FormatIRIGG = 2
	FormatRTC   = 3
	FormatUTCGPS = 4
)

// Config selects the time source/format. The zero value is the default:
// internal source, IRIG-B format.
type Config struct {
	Source uint8
	Format uint8
}

// Default returns the generator's default Time-F1 configuration.
func Default() Config { return Config{Source: SourceInternal, Format: FormatIRIGB} }

// Build assembles the Time-F1 payload for instant t: a 4-byte CSDW followed
// by an 8-byte packed-BCD time body (day, hour, minute, second,
// millisecond, microsecond; spec.md §4.6). Millisecond and microsecond
// each need three BCD digits (000-999) to round-trip without loss, so
// their hundreds digits are packed into one shared nibble-pair byte,
// leaving the body's eighth byte reserved/zero.
func Build(cfg Config, t time.Time) []byte {
	t = t.UTC()
	csdw := uint32(cfg.Source&0x7) | uint32(cfg.Format&0xF)<<3

	buf := make([]byte, 0, 12)
	buf = word.WriteU32LE(buf, csdw)

	ms := (t.Nanosecond() / int(time.Millisecond)) % 1000
	us := (t.Nanosecond() / int(time.Microsecond)) % 1000

	buf = append(buf,
		bcdByte(t.Day()),
		bcdByte(t.Hour()),
		bcdByte(t.Minute()),
		bcdByte(t.Second()),
		bcdByte(ms%100),              // millisecond tens/units
		byte(ms/100)<<4|byte(us/100), // millisecond hundreds | microsecond hundreds
		bcdByte(us%100),              // microsecond tens/units
		0,                            // reserved
	)
	return buf
}

// bcdByte packs a 0-99 value into one packed-BCD byte (two decimal digits).
func bcdByte(v int) byte {
	if v < 0 {
		v = 0
	}
	if v > 99 {
		v = 99
	}
	tens := v / 10
	ones := v % 10
	return byte(tens<<4 | ones)
}
