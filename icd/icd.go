/*
NAME
  icd.go - ICD (Interface Control Document) data model.

DESCRIPTION
  icd defines the in-memory representation of a validated 1553 Interface
  Control Document: a named collection of messages, each with an ordered
  slot layout computed from its word/bitfield declarations. See spec.md §3
  and §4.2 for the data model and load algorithm this package implements.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the ch10gen project contributors.
*/

// Package icd loads and validates Interface Control Documents describing
// MIL-STD-1553B messages at the word/bit level.
package icd

import (
	"errors"

	"github.com/Anthonymm0994/ch10-1553-flightgen/word"
)

// Bus designates which 1553 bus (A or B) an ICD's traffic belongs to.
type Bus byte

const (
	BusA Bus = iota
	BusB
)

func (b Bus) String() string {
	if b == BusB {
		return "B"
	}
	return "A"
}

// Errors reported at load time (spec.md §4.2).
var (
	ErrUnknownEncoding          = errors.New("icd: unknown encoding")
	ErrSlotCountMismatch        = errors.New("icd: slot widths do not sum to wc")
	ErrBitfieldOverlap          = errors.New("icd: bitfield placements overlap")
	ErrInvalidBitfieldPlacement = errors.New("icd: invalid bitfield placement")
	ErrDuplicateFieldName       = errors.New("icd: duplicate field name in message")
	ErrInvalidMessageAddressing = errors.New("icd: invalid rt/sa/wc addressing")
)

// OverflowPolicy controls what a field does when its generated value cannot
// be represented by its encoding (spec.md §7).
type OverflowPolicy = word.OverflowPolicy

// ICD is a validated, read-only Interface Control Document. Once returned by
// Load it is never mutated; the pipeline driver owns it by value and every
// downstream component receives an immutable borrow (spec.md §9).
type ICD struct {
	Name     string
	Bus      Bus
	Messages []*Message

	byName map[string]*Message
}

// Message describes one 1553 message and its resolved slot layout.
type Message struct {
	Name   string
	RateHz float64
	RT     uint8
	TR     word.TR
	SA     uint8
	WC     uint8 // 1-32; 0 is never stored here, see EncodedWC.
	Fields []*Field
	Slots  []Slot // length == WC, the resolved per-word layout.

	// order is this message's position in the ICD's declaration order, used
	// by the scheduler's stable tie-break key (spec.md §4.5).
	order int
}

// EncodedWC returns the wire-form word count: 32 is encoded as 0.
func (m *Message) EncodedWC() uint8 {
	if m.WC == 32 {
		return 0
	}
	return m.WC
}

// DeclarationOrder returns the message's position in the ICD, for the
// scheduler's stable tie-break key.
func (m *Message) DeclarationOrder() int { return m.order }

// FieldByName looks up a field by name within this message.
func (m *Message) FieldByName(name string) (*Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Field is one value within a message.
type Field struct {
	Name      string
	Encoding  word.Encoding
	Scale     float64
	Offset    float64
	HasMin    bool
	Min       float64
	HasMax    bool
	Max       float64
	HasConst  bool
	Const     float64
	WordIndex int // 0-based index into the owning message's Slots.
	HasMask   bool
	Mask      uint16
	Shift     uint16
	WordOrder word.WordOrder
	Src       string // semantic source path, resolved by scenario bindings.
	OnOverflow OverflowPolicy
}

// SlotKind identifies how a word slot is filled.
type SlotKind int

const (
	// SlotScalar is filled by exactly one non-split field.
	SlotScalar SlotKind = iota
	// SlotSplit is the first or second word of a float32_split field.
	SlotSplit
	// SlotPacked is shared by one or more bitfields.
	SlotPacked
)

// Slot is one 16-bit word position within a message.
type Slot struct {
	Kind SlotKind

	// Scalar holds the field when Kind == SlotScalar.
	Scalar *Field

	// SplitField holds the owning field when Kind == SlotSplit; SplitHalf is
	// 0 for the first word written, 1 for the second.
	SplitField *Field
	SplitHalf  int

	// Packed holds every bitfield sharing this word when Kind == SlotPacked.
	Packed []*Field
}

// ByName returns the message with the given name, or nil.
func (d *ICD) ByName(name string) (*Message, bool) {
	m, ok := d.byName[name]
	return m, ok
}
