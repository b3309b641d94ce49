/*
NAME
  icd_test.go - tests for ICD parsing, layout and validation.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package icd

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const minimalICD = `
bus: A
messages:
  - name: TEST
    rate_hz: 1
    rt: 1
    tr: BC2RT
    sa: 1
    wc: 1
    words:
      - name: data
        encode: u16
        const: 42
`

func TestLoadMinimal(t *testing.T) {
	d, err := Load(strings.NewReader(minimalICD))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(d.Messages))
	}
	m := d.Messages[0]
	if m.Name != "TEST" || m.RT != 1 || m.SA != 1 || m.WC != 1 {
		t.Errorf("unexpected message: %+v", m)
	}
	if len(m.Slots) != 1 || m.Slots[0].Kind != SlotScalar {
		t.Fatalf("expected single scalar slot, got %+v", m.Slots)
	}
	if m.Slots[0].Scalar.Name != "data" {
		t.Errorf("expected scalar field 'data', got %q", m.Slots[0].Scalar.Name)
	}
}

const bitfieldICD = `
bus: A
messages:
  - name: BF
    rate_hz: 1
    rt: 1
    tr: BC2RT
    sa: 1
    wc: 1
    words:
      - name: a
        encode: u16
        const: 170
        mask: 255
        shift: 0
        word_index: 0
      - name: b
        encode: u16
        const: 85
        mask: 255
        shift: 8
        word_index: 0
`

func TestLoadBitfieldNonOverlap(t *testing.T) {
	d, err := Load(strings.NewReader(bitfieldICD))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := d.Messages[0]
	if len(m.Slots) != 1 || m.Slots[0].Kind != SlotPacked {
		t.Fatalf("expected single packed slot, got %+v", m.Slots)
	}
	if len(m.Slots[0].Packed) != 2 {
		t.Fatalf("expected 2 packed fields, got %d", len(m.Slots[0].Packed))
	}
}

const overlapICD = `
bus: A
messages:
  - name: BF
    rate_hz: 1
    rt: 1
    tr: BC2RT
    sa: 1
    wc: 1
    words:
      - name: a
        encode: u16
        const: 1
        mask: 255
        shift: 0
        word_index: 0
      - name: b
        encode: u16
        const: 1
        mask: 255
        shift: 4
        word_index: 0
`

func TestLoadBitfieldOverlapRejected(t *testing.T) {
	_, err := Load(strings.NewReader(overlapICD))
	if err == nil {
		t.Fatal("expected bitfield overlap to be rejected")
	}
}

const splitFloatICD = `
bus: A
messages:
  - name: NAV
    rate_hz: 1
    rt: 2
    tr: BC2RT
    sa: 1
    wc: 2
    words:
      - name: lat
        encode: float32_split
        const: 37.7749
`

func TestLoadSplitFloatSlots(t *testing.T) {
	d, err := Load(strings.NewReader(splitFloatICD))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := d.Messages[0]
	if len(m.Slots) != 2 {
		t.Fatalf("expected 2 slots for split float, got %d", len(m.Slots))
	}
	if m.Slots[0].Kind != SlotSplit || m.Slots[1].Kind != SlotSplit {
		t.Fatalf("expected both slots to be split, got %+v", m.Slots)
	}
	if m.Slots[0].SplitHalf != 0 || m.Slots[1].SplitHalf != 1 {
		t.Errorf("unexpected split halves: %d, %d", m.Slots[0].SplitHalf, m.Slots[1].SplitHalf)
	}
}

const slotMismatchICD = `
bus: A
messages:
  - name: BAD
    rate_hz: 1
    rt: 1
    tr: BC2RT
    sa: 1
    wc: 2
    words:
      - name: only
        encode: u16
        const: 1
`

const packedThenImplicitICD = `
bus: A
messages:
  - name: PACKED_THEN_IMPLICIT
    rate_hz: 1
    rt: 1
    tr: BC2RT
    sa: 1
    wc: 2
    words:
      - name: flag
        encode: u16
        const: 1
        mask: 1
        shift: 0
        word_index: 0
      - name: data
        encode: u16
        const: 42
`

func TestLoadImplicitFieldSkipsOccupiedPackedSlot(t *testing.T) {
	d, err := Load(strings.NewReader(packedThenImplicitICD))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := d.Messages[0]
	if len(m.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(m.Slots))
	}
	if m.Slots[0].Kind != SlotPacked {
		t.Fatalf("expected word 0 to stay packed, got %+v", m.Slots[0])
	}
	if m.Slots[1].Kind != SlotScalar || m.Slots[1].Scalar.Name != "data" {
		t.Fatalf("expected implicit field 'data' placed in the free word 1, got %+v", m.Slots[1])
	}
}

func TestLoadSlotCountMismatch(t *testing.T) {
	_, err := Load(strings.NewReader(slotMismatchICD))
	if err == nil {
		t.Fatal("expected slot count mismatch error")
	}
}

func TestLoadInvalidAddressing(t *testing.T) {
	bad := strings.Replace(minimalICD, "rt: 1", "rt: 99", 1)
	if _, err := Load(strings.NewReader(bad)); err == nil {
		t.Fatal("expected invalid addressing error for rt=99")
	}
}

func TestReloadCanonicalEqual(t *testing.T) {
	d1, err := Load(strings.NewReader(minimalICD))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d2, err := Load(strings.NewReader(minimalICD))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(d1, d2,
		cmpopts.IgnoreFields(ICD{}, "byName"),
		cmpopts.IgnoreUnexported(Message{}),
	); diff != "" {
		t.Errorf("reloaded ICD differs (-first +second):\n%s", diff)
	}
}
