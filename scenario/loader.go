/*
NAME
  loader.go - scenario parsing and validation (C4).

DESCRIPTION
  Load parses a YAML scenario document, validates every referenced message
  and field against an already-loaded ICD, resolves each field's generator
  binding (explicit binding, else message/scenario default, else the
  ICD-implicit uniform-random fallback) and returns a read-only Scenario
  (spec.md §4.4).

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package scenario

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Anthonymm0994/ch10-1553-flightgen/generate"
	"github.com/Anthonymm0994/ch10-1553-flightgen/icd"
)

// Load parses and validates a scenario document from r against d.
func Load(r io.Reader, d *icd.ICD) (*Scenario, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "scenario: could not read document")
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "scenario: could not parse YAML")
	}

	return fromDocument(&doc, d)
}

// LoadFile is a convenience wrapper around Load for a document on disk.
func LoadFile(path string, d *icd.ICD) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "scenario: could not open %s", path)
	}
	defer f.Close()
	return Load(f, d)
}

func fromDocument(doc *document, d *icd.ICD) (*Scenario, error) {
	if doc.DurationS <= 0 {
		return nil, fmt.Errorf("scenario: duration_s must be positive, got %v", doc.DurationS)
	}

	s := &Scenario{
		Name:            doc.Name,
		DurationSeconds: doc.DurationS,
		Bus:             DefaultBusParams(),
	}

	if doc.StartTimeUTC != "" {
		t, err := time.Parse(time.RFC3339, doc.StartTimeUTC)
		if err != nil {
			return nil, fmt.Errorf("scenario: invalid start_time_utc %q: %w", doc.StartTimeUTC, err)
		}
		s.HasStartTime, s.StartTimeUTC = true, t.UTC()
	}
	if doc.Seed != nil {
		s.HasSeed, s.Seed = true, *doc.Seed
	}
	if doc.Bus.PacketBytesTarget != nil {
		s.Bus.PacketBytesTarget = *doc.Bus.PacketBytesTarget
	}
	if doc.Bus.TimePacketIntervalS != nil {
		s.Bus.TimePacketInterval = time.Duration(*doc.Bus.TimePacketIntervalS * float64(time.Second))
	}
	if doc.Bus.JitterMS != nil {
		s.Bus.JitterMS = *doc.Bus.JitterMS
	}

	var scenarioDefault *generate.Spec
	if doc.Defaults != nil {
		spec, err := specFromParams(doc.Defaults.DataMode, doc.Defaults.DefaultConfig, "defaults")
		if err != nil {
			return nil, err
		}
		scenarioDefault = spec
	}

	bindings := make(map[FieldRef]*generate.Spec)
	for _, m := range d.Messages {
		mb, hasSection := doc.Messages[m.Name]

		var messageDefault *generate.Spec
		if hasSection && mb.DefaultMode != "" {
			spec, err := specFromParams(mb.DefaultMode, mb.DefaultConfig, m.Name+".<default>")
			if err != nil {
				return nil, err
			}
			messageDefault = spec
		}

		for _, f := range m.Fields {
			if f.HasConst {
				bindings[FieldRef{Message: m.Name, Field: f.Name}] = &generate.Spec{Mode: generate.Constant, Value: f.Const}
				continue
			}

			owner := m.Name + "." + f.Name
			if hasSection {
				if fb, ok := mb.Fields[f.Name]; ok {
					spec, err := specFromParams(fb.Mode, fb.Params, owner)
					if err != nil {
						return nil, err
					}
					bindings[FieldRef{Message: m.Name, Field: f.Name}] = spec
					continue
				}
			}
			if messageDefault != nil {
				bindings[FieldRef{Message: m.Name, Field: f.Name}] = messageDefault
				continue
			}
			if scenarioDefault != nil {
				bindings[FieldRef{Message: m.Name, Field: f.Name}] = scenarioDefault
				continue
			}
			bindings[FieldRef{Message: m.Name, Field: f.Name}] = implicitDefault(f)
		}

		if hasSection {
			for name := range mb.Fields {
				if _, ok := m.FieldByName(name); !ok {
					return nil, fmt.Errorf("scenario: message %q: unknown field %q", m.Name, name)
				}
			}
		}
	}

	for name := range doc.Messages {
		if _, ok := d.ByName(name); !ok {
			return nil, fmt.Errorf("scenario: unknown message %q", name)
		}
	}

	s.Bindings = bindings
	return s, nil
}
