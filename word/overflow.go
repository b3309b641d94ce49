/*
NAME
  overflow.go - overflow-policy-aware scalar encoding (spec.md §7).

DESCRIPTION
  EncodeWithPolicy wraps EncodeScalar with the Strict/Clamp/Wrap recovery
  policy a field declares via icd.Field.OnOverflow: Strict fails encoding
  outside the encoding's natural range, Clamp and Wrap adjust the value and
  report a warning. For u16, i16 and bcd the bounds are the same ones
  scenario.encodingRange gives the ICD-implicit fallback generator; bnr16
  and float32_split are unbounded here, so their [-1, 1] fallback range
  never triggers a policy.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package word

import (
	"fmt"
	"math"
)

// naturalRange returns the bounded engineering-unit range an overflow
// policy is checked against. BNR16 and Float32Split have no hard bound
// worth enforcing here - BNR16's usable range depends on scale/offset the
// caller already applies, and float32_split round-trips any finite value
// by construction (spec.md §8).
func naturalRange(enc Encoding) (lo, hi float64, bounded bool) {
	switch enc {
	case U16:
		return 0, 65535, true
	case I16:
		return -32768, 32767, true
	case BCD:
		return 0, 9999, true
	default:
		return 0, 0, false
	}
}

// EncodeWithPolicy encodes value for enc/scale/offset/order, applying
// policy when value falls outside the encoding's natural range. warned
// reports whether a Clamp or Wrap adjustment occurred; err is non-nil only
// for a Strict violation or an encoding failure from EncodeScalar itself.
func EncodeWithPolicy(value float64, enc Encoding, scale, offset float64, order WordOrder, policy OverflowPolicy) (words []uint16, warned bool, err error) {
	lo, hi, bounded := naturalRange(enc)
	if bounded && (value < lo || value > hi) {
		switch policy {
		case Strict:
			return nil, false, fmt.Errorf("%w: value %v outside [%v, %v] for %s", ErrOutOfRangeForEncoding, value, lo, hi, enc)
		case Wrap:
			span := hi - lo + 1
			wrapped := math.Mod(value-lo, span)
			if wrapped < 0 {
				wrapped += span
			}
			value = lo + wrapped
			warned = true
		default: // Clamp
			if value < lo {
				value = lo
			} else {
				value = hi
			}
			warned = true
		}
	}
	words, err = EncodeScalar(value, enc, scale, offset, order)
	return words, warned, err
}
