/*
NAME
  defaults.go - ICD-implicit fallback generator.

DESCRIPTION
  implicitDefault builds the "uniform random over encoding range" fallback
  spec.md §4.4 requires for any field with neither a scenario binding nor a
  scenario-level default: a bounded random spec whose range is derived from
  the field's encoding and any declared min/max.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package scenario

import (
	"github.com/Anthonymm0994/ch10-1553-flightgen/generate"
	"github.com/Anthonymm0994/ch10-1553-flightgen/icd"
	"github.com/Anthonymm0994/ch10-1553-flightgen/word"
)

// implicitDefault returns the ICD-implicit fallback generator for a field
// that has neither a scenario binding nor a resolved scenario default.
func implicitDefault(f *icd.Field) *generate.Spec {
	spec := &generate.Spec{Mode: generate.Random}

	lo, hi := encodingRange(f.Encoding)
	if f.HasMin {
		lo = f.Min
	}
	if f.HasMax {
		hi = f.Max
	}
	spec.HasMin, spec.Min = true, lo
	spec.HasMax, spec.Max = true, hi
	return spec
}

// encodingRange returns the fallback generator's range for an encoding,
// before any scale/offset is applied: the natural representable range for
// u16, i16 and bcd, and [-1, 1] for bnr16 and float32_split.
func encodingRange(enc word.Encoding) (lo, hi float64) {
	switch enc {
	case word.U16:
		return 0, 65535
	case word.I16:
		return -32768, 32767
	case word.BNR16:
		return -1, 1
	case word.BCD:
		return 0, 9999
	case word.Float32Split:
		return -1, 1
	default:
		return 0, 1
	}
}
