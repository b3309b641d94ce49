/*
NAME
  layout.go - slot layout resolution (C2 algorithm, spec.md §4.2).

DESCRIPTION
  computeLayout assigns each of a message's wc word positions to a scalar
  field, a two-word split field, or an ordered list of bitfields sharing a
  packed slot, then verifies the invariants of spec.md §3: total slot width
  equals wc, and no two bitfields placed in the same slot overlap.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package icd

import (
	"fmt"

	"github.com/Anthonymm0994/ch10-1553-flightgen/word"
)

func computeLayout(m *Message) ([]Slot, error) {
	slots := make([]Slot, m.WC)
	filled := make([]bool, m.WC)

	// Pass 1: place every field with an explicit word_index.
	next := 0
	var explicit, implicit []*Field
	for _, f := range m.Fields {
		if f.WordIndex >= 0 {
			explicit = append(explicit, f)
		} else {
			implicit = append(implicit, f)
		}
	}

	for _, f := range explicit {
		width := 1
		if f.Encoding == word.Float32Split {
			width = 2
		}
		idx := f.WordIndex
		if idx < 0 || idx+width > len(slots) {
			return nil, fmt.Errorf("%w: field %q word_index %d out of range for wc=%d", ErrSlotCountMismatch, f.Name, idx, m.WC)
		}
		if err := place(slots, filled, idx, width, f); err != nil {
			return nil, err
		}
	}

	// Pass 2: lay out fields without an explicit word_index into the next
	// free slot(s), in declaration order.
	for _, f := range implicit {
		width := 1
		if f.Encoding == word.Float32Split {
			width = 2
		}
		for next < len(slots) && slotUnavailable(slots, filled, next, width) {
			next++
		}
		if next+width > len(slots) {
			return nil, fmt.Errorf("%w: no room for field %q (wc=%d)", ErrSlotCountMismatch, f.Name, m.WC)
		}
		f.WordIndex = next
		if err := place(slots, filled, next, width, f); err != nil {
			return nil, err
		}
		next += width
	}

	// Pass 3: verify every slot is either filled (scalar/split) or, for
	// packed slots, that the constituent bitfields don't overlap.
	total := 0
	for i := range slots {
		switch slots[i].Kind {
		case SlotScalar:
			if slots[i].Scalar != nil {
				total++
			}
		case SlotSplit:
			total++
		case SlotPacked:
			if err := verifyNoOverlap(slots[i].Packed); err != nil {
				return nil, err
			}
			total++
		}
	}
	if total != len(slots) {
		return nil, fmt.Errorf("%w: message %q resolved %d/%d slots", ErrSlotCountMismatch, m.Name, total, len(slots))
	}

	return slots, nil
}

// slotUnavailable reports whether placing a field of the given width at idx
// would collide with an already-occupied slot: a scalar/split field (via
// filled) or an explicit bitfield already placed there in Pass 1 (via
// slots[i].Kind). Pass 2 only ever widens scalars/splits into fresh slots,
// never into an existing packed slot, so SlotPacked here always means
// unavailable to this call.
func slotUnavailable(slots []Slot, filled []bool, idx, width int) bool {
	for i := idx; i < idx+width && i < len(slots); i++ {
		if filled[i] || slots[i].Kind == SlotPacked {
			return true
		}
	}
	return false
}

func place(slots []Slot, filled []bool, idx, width int, f *Field) error {
	if f.HasMask {
		if width != 1 {
			return fmt.Errorf("%w: bitfield %q may not span multiple words", ErrInvalidBitfieldPlacement, f.Name)
		}
		if filled[idx] {
			return fmt.Errorf("%w: word %d already holds a scalar/split field, cannot add bitfield %q", ErrBitfieldOverlap, idx, f.Name)
		}
		slots[idx].Kind = SlotPacked
		slots[idx].Packed = append(slots[idx].Packed, f)
		return nil
	}

	if width == 1 {
		if filled[idx] || slots[idx].Kind == SlotPacked {
			return fmt.Errorf("%w: word %d already occupied, cannot place scalar %q", ErrSlotCountMismatch, idx, f.Name)
		}
		slots[idx] = Slot{Kind: SlotScalar, Scalar: f}
		filled[idx] = true
		return nil
	}

	// Split float, width == 2.
	for i := idx; i < idx+2; i++ {
		if filled[i] || slots[i].Kind == SlotPacked {
			return fmt.Errorf("%w: word %d already occupied, cannot place split field %q", ErrSlotCountMismatch, i, f.Name)
		}
	}
	slots[idx] = Slot{Kind: SlotSplit, SplitField: f, SplitHalf: 0}
	slots[idx+1] = Slot{Kind: SlotSplit, SplitField: f, SplitHalf: 1}
	filled[idx], filled[idx+1] = true, true
	return nil
}

func verifyNoOverlap(fields []*Field) error {
	var acc uint32
	for _, f := range fields {
		placed := uint32(f.Mask) << f.Shift
		if acc&placed != 0 {
			return fmt.Errorf("%w: field %q overlaps another field in word_index %d", ErrBitfieldOverlap, f.Name, f.WordIndex)
		}
		acc |= placed
	}
	return nil
}
