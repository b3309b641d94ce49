/*
NAME
  loader.go - ICD parsing and validation (C2).

DESCRIPTION
  Load parses a YAML ICD document, builds the Message/Field model, computes
  each message's slot layout (layout.go) and validates the invariants listed
  in spec.md §3 and §4.2 before returning a read-only ICD.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package icd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Anthonymm0994/ch10-1553-flightgen/word"
)

// Load parses and validates an ICD document from r.
func Load(r io.Reader) (*ICD, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "icd: could not read document")
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "icd: could not parse YAML")
	}

	return fromDocument(&doc)
}

// LoadFile is a convenience wrapper around Load for a document on disk.
func LoadFile(path string) (*ICD, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "icd: could not open %s", path)
	}
	defer f.Close()
	return Load(f)
}

func parseBus(s string) (Bus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "A":
		return BusA, nil
	case "B":
		return BusB, nil
	default:
		return BusA, fmt.Errorf("icd: unknown bus designator %q", s)
	}
}

func parseTR(s string) (word.TR, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BC2RT", "BC_TO_RT", "BC-RT":
		return word.BC2RT, nil
	case "RT2BC", "RT_TO_BC", "RT-BC":
		return word.RT2BC, nil
	case "RT2RT", "RT_TO_RT", "RT-RT":
		return word.RT2RT, nil
	case "MC", "MODE", "MODE_CODE":
		return word.ModeCode, nil
	default:
		return 0, fmt.Errorf("icd: unknown transfer direction %q", s)
	}
}

func parseEncoding(s string) (word.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "u16":
		return word.U16, nil
	case "i16":
		return word.I16, nil
	case "bnr16", "bnr":
		return word.BNR16, nil
	case "bcd":
		return word.BCD, nil
	case "float32_split", "float32split":
		return word.Float32Split, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
	}
}

func parseWordOrder(s string) word.WordOrder {
	if strings.EqualFold(strings.TrimSpace(s), "msw_lsw") || strings.EqualFold(s, "msw-lsw") {
		return word.MSWLSW
	}
	return word.LSWMSW
}

func parseOverflow(s string) word.OverflowPolicy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return word.Strict
	case "wrap":
		return word.Wrap
	default:
		return word.Clamp
	}
}

func fromDocument(doc *document) (*ICD, error) {
	bus, err := parseBus(doc.Bus)
	if err != nil {
		return nil, err
	}

	d := &ICD{Bus: bus, byName: make(map[string]*Message)}

	for i, md := range doc.Messages {
		m, err := buildMessage(md, i)
		if err != nil {
			return nil, fmt.Errorf("icd: message %q: %w", md.Name, err)
		}
		if _, exists := d.byName[m.Name]; exists {
			return nil, fmt.Errorf("%w: message name %q", ErrDuplicateFieldName, m.Name)
		}
		d.byName[m.Name] = m
		d.Messages = append(d.Messages, m)
	}

	return d, nil
}

func buildMessage(md messageDoc, order int) (*Message, error) {
	tr, err := parseTR(md.TR)
	if err != nil {
		return nil, err
	}
	if md.RT > 31 {
		return nil, fmt.Errorf("%w: rt=%d", ErrInvalidMessageAddressing, md.RT)
	}
	if md.SA > 31 {
		return nil, fmt.Errorf("%w: sa=%d", ErrInvalidMessageAddressing, md.SA)
	}
	if md.WC < 1 || md.WC > 32 {
		return nil, fmt.Errorf("%w: wc=%d", ErrInvalidMessageAddressing, md.WC)
	}
	if md.RateHz <= 0 {
		return nil, fmt.Errorf("icd: rate_hz must be positive, got %v", md.RateHz)
	}

	m := &Message{
		Name:   md.Name,
		RateHz: md.RateHz,
		RT:     md.RT,
		TR:     tr,
		SA:     md.SA,
		WC:     md.WC,
		order:  order,
	}

	seen := make(map[string]bool)
	for _, wd := range md.Words {
		if seen[wd.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateFieldName, wd.Name)
		}
		seen[wd.Name] = true

		enc, err := parseEncoding(wd.Encode)
		if err != nil {
			return nil, err
		}

		f := &Field{
			Name:       wd.Name,
			Encoding:   enc,
			Scale:      1,
			Src:        wd.Src,
			WordIndex:  -1,
			WordOrder:  parseWordOrder(wd.WordOrder),
			OnOverflow: parseOverflow(wd.OnOverflow),
		}
		if wd.Scale != nil {
			f.Scale = *wd.Scale
		}
		if wd.Offset != nil {
			f.Offset = *wd.Offset
		}
		if wd.MinValue != nil {
			f.HasMin, f.Min = true, *wd.MinValue
		}
		if wd.MaxValue != nil {
			f.HasMax, f.Max = true, *wd.MaxValue
		}
		if wd.Const != nil {
			f.HasConst, f.Const = true, *wd.Const
		}
		if wd.WordIndex != nil {
			f.WordIndex = *wd.WordIndex
		}
		if wd.Mask != nil {
			f.HasMask, f.Mask = true, *wd.Mask
			if wd.Shift != nil {
				f.Shift = *wd.Shift
			}
			if err := word.ValidatePlacement(f.Mask, f.Shift); err != nil {
				return nil, fmt.Errorf("%w: field %q: %v", ErrInvalidBitfieldPlacement, f.Name, err)
			}
		}

		if f.HasMask && (enc == word.BNR16 || enc == word.Float32Split) {
			return nil, fmt.Errorf("%w: field %q: %s may not share a slot", ErrInvalidBitfieldPlacement, f.Name, enc)
		}
		if f.HasMask && f.WordIndex < 0 {
			return nil, fmt.Errorf("%w: packed field %q requires word_index", ErrInvalidBitfieldPlacement, f.Name)
		}

		m.Fields = append(m.Fields, f)
	}

	slots, err := computeLayout(m)
	if err != nil {
		return nil, err
	}
	m.Slots = slots

	return m, nil
}
