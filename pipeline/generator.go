/*
NAME
  generator.go - per-event field evaluation (C3/C6, spec.md §4.3, §4.6).

DESCRIPTION
  generator is the stateful piece of the pipeline that evaluates a
  scheduled event into a fully encoded ms1553.Message: it owns the
  dependency-ordered field list computed once at load time, the
  per-(message,field) PRNG streams (each created lazily and then reused
  so a Random mode's stream advances across successive emissions rather
  than restarting), and the last-known value of every bound field so an
  expression in one message can reference another message's field by
  "Message.field" even though the two are scheduled independently
  (spec.md §4.3, scenario 4 of §8).

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package pipeline

import (
	"fmt"
	"math/rand/v2"

	"github.com/Anthonymm0994/ch10-1553-flightgen/chapter10/ms1553"
	"github.com/Anthonymm0994/ch10-1553-flightgen/generate"
	"github.com/Anthonymm0994/ch10-1553-flightgen/icd"
	"github.com/Anthonymm0994/ch10-1553-flightgen/scenario"
	"github.com/Anthonymm0994/ch10-1553-flightgen/schedule"
	"github.com/Anthonymm0994/ch10-1553-flightgen/word"
)

// generator evaluates scheduled events into encoded ms1553.Message values.
type generator struct {
	icd  *icd.ICD
	sc   *scenario.Scenario
	seed uint64

	order  []generate.FieldKey
	rngs   map[generate.FieldKey]*rand.Rand
	values map[generate.FieldKey]float64
	counts map[string]int64
}

func newGenerator(d *icd.ICD, sc *scenario.Scenario) (*generator, error) {
	var bindings []generate.Binding
	for ref, spec := range sc.Bindings {
		bindings = append(bindings, generate.Binding{
			Key:  generate.FieldKey{Message: ref.Message, Field: ref.Field},
			Spec: spec,
		})
	}
	order, err := generate.BuildOrder(bindings)
	if err != nil {
		return nil, fmt.Errorf("resolving field evaluation order: %w", err)
	}

	var seed uint64
	if sc.HasSeed {
		seed = sc.Seed
	}

	return &generator{
		icd:    d,
		sc:     sc,
		seed:   seed,
		order:  order,
		rngs:   make(map[generate.FieldKey]*rand.Rand),
		values: make(map[generate.FieldKey]float64),
		counts: make(map[string]int64),
	}, nil
}

// evaluateMessage computes every bound field of ev.Message, encodes the
// result into wire words, and returns the ms1553.Message ready for
// writer.Accept.
func (g *generator) evaluateMessage(ev schedule.Event) (ms1553.Message, []string, error) {
	m := ev.Message
	count := g.counts[m.Name]
	g.counts[m.Name] = count + 1

	values := make(map[string]float64, len(g.values)+len(m.Fields))
	for k, v := range g.values {
		values[k.Message+"."+k.Field] = v
	}
	for _, f := range m.Fields {
		if v, ok := g.values[generate.FieldKey{Message: m.Name, Field: f.Name}]; ok {
			values[f.Name] = v
		}
	}

	tSec := float64(ev.EmitTimeNS) / 1e9
	var warnings []string

	for _, key := range g.order {
		if key.Message != m.Name {
			continue
		}
		spec, ok := g.sc.Binding(key.Message, key.Field)
		if !ok {
			continue
		}

		rng := g.rngs[key]
		if rng == nil {
			rng = generate.SubStream(g.seed, key.Message, key.Field)
			g.rngs[key] = rng
		}

		ctx := &generate.Context{
			TimeSeconds:  tSec,
			MessageName:  m.Name,
			MessageCount: count,
			Rng:          rng,
			Values:       values,
		}

		v, warns, err := generate.Evaluate(spec, ctx)
		if err != nil {
			return ms1553.Message{}, warnings, fmt.Errorf("field %q: %w", key.Field, err)
		}
		for _, w := range warns {
			warnings = append(warnings, fmt.Sprintf("%s.%s: %s", m.Name, key.Field, w.Message))
		}

		values[key.Field] = v
		values[m.Name+"."+key.Field] = v
		g.values[key] = v
	}

	wireData, encWarnings, err := encodeMessageWords(m, values)
	if err != nil {
		return ms1553.Message{}, warnings, err
	}
	warnings = append(warnings, encWarnings...)

	msg := ms1553.Message{
		IPTS: uint64(ev.EmitTimeNS) & 0xFFFFFFFFFFFF,
		Status: ms1553.BlockStatus{
			BusB:   g.icd.Bus == icd.BusB,
			RTToRT: m.TR == word.RT2RT,
		},
		Words: buildWireWords(m, wireData),
	}
	return msg, warnings, nil
}
