/*
NAME
  params.go - generator mode parameter resolution.

DESCRIPTION
  specFromParams converts a YAML mode name and loosely-typed parameter map
  into a validated generate.Spec, dispatching on the closed set of modes in
  spec.md §4.3. A missing numeric parameter defaults to zero and an
  unrecognized key is ignored; an unknown mode, a missing or invalid
  expression formula, or a random_multimodal without peaks is reported
  with the owning (message, field) for context.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package scenario

import (
	"fmt"

	"github.com/Anthonymm0994/ch10-1553-flightgen/generate"
	"github.com/Anthonymm0994/ch10-1553-flightgen/generate/expr"
)

func numParam(params map[string]interface{}, key string) (float64, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func boolParam(params map[string]interface{}, key string) bool {
	v, ok := params[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func floatsParam(params map[string]interface{}, key string) []float64 {
	raw, ok := params[key]
	if !ok {
		return nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(list))
	for _, e := range list {
		switch n := e.(type) {
		case float64:
			out = append(out, n)
		case int:
			out = append(out, float64(n))
		}
	}
	return out
}

func peaksParam(params map[string]interface{}) []generate.Peak {
	raw, ok := params["peaks"]
	if !ok {
		return nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	var out []generate.Peak
	for _, e := range list {
		m, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		mean, _ := numParam(m, "mean")
		stddev, _ := numParam(m, "stddev")
		weight, _ := numParam(m, "weight")
		out = append(out, generate.Peak{Mean: mean, Stddev: stddev, Weight: weight})
	}
	return out
}

// specFromParams builds a generate.Spec for mode from the raw YAML params,
// tagging any error with owner (typically "message.field") for context.
func specFromParams(mode string, params map[string]interface{}, owner string) (*generate.Spec, error) {
	spec := &generate.Spec{}

	if min, ok := numParam(params, "min"); ok {
		spec.HasMin, spec.Min = true, min
	}
	if max, ok := numParam(params, "max"); ok {
		spec.HasMax, spec.Max = true, max
	}

	switch mode {
	case "constant", "":
		spec.Mode = generate.Constant
		v, _ := numParam(params, "value")
		spec.Value = v

	case "increment":
		spec.Mode = generate.Increment
		spec.Start, _ = numParam(params, "start")
		spec.Step, _ = numParam(params, "step")
		if wrap, ok := numParam(params, "wrap_at"); ok {
			spec.HasWrap, spec.WrapAt = true, wrap
		}

	case "pattern":
		spec.Mode = generate.Pattern
		spec.Values = floatsParam(params, "values")
		spec.Repeat = boolParam(params, "repeat")

	case "random":
		spec.Mode = generate.Random

	case "random_normal":
		spec.Mode = generate.RandomNormal
		spec.Mean, _ = numParam(params, "mean")
		spec.Stddev, _ = numParam(params, "stddev")

	case "random_multimodal":
		spec.Mode = generate.RandomMultimodal
		spec.Peaks = peaksParam(params)
		if len(spec.Peaks) == 0 {
			return nil, fmt.Errorf("scenario: %s: random_multimodal requires at least one peak", owner)
		}

	case "random_exponential":
		spec.Mode = generate.RandomExponential
		spec.Lambda, _ = numParam(params, "lambda")

	case "sine":
		spec.Mode = generate.Sine
		spec.Center, _ = numParam(params, "center")
		spec.Amplitude, _ = numParam(params, "amplitude")
		spec.FrequencyHz, _ = numParam(params, "frequency_hz")
		spec.PhaseRad, _ = numParam(params, "phase_rad")

	case "cosine":
		spec.Mode = generate.Cosine
		spec.Center, _ = numParam(params, "center")
		spec.Amplitude, _ = numParam(params, "amplitude")
		spec.FrequencyHz, _ = numParam(params, "frequency_hz")
		spec.PhaseRad, _ = numParam(params, "phase_rad")

	case "square":
		spec.Mode = generate.Square
		spec.Low, _ = numParam(params, "low")
		spec.High, _ = numParam(params, "high")
		spec.PeriodS, _ = numParam(params, "period_s")
		spec.Duty, _ = numParam(params, "duty")

	case "sawtooth":
		spec.Mode = generate.Sawtooth
		spec.PeriodS, _ = numParam(params, "period_s")

	case "ramp":
		spec.Mode = generate.Ramp
		spec.Start, _ = numParam(params, "start")
		spec.RampEnd, _ = numParam(params, "end")
		spec.RampDuration, _ = numParam(params, "duration_s")
		spec.Repeat = boolParam(params, "repeat")

	case "expression":
		spec.Mode = generate.Expression
		formula, _ := params["formula"].(string)
		if formula == "" {
			return nil, fmt.Errorf("scenario: %s: expression mode requires a formula", owner)
		}
		ast, err := expr.Parse(formula)
		if err != nil {
			return nil, fmt.Errorf("scenario: %s: %w", owner, err)
		}
		spec.Formula = formula
		spec.AST = ast

	default:
		return nil, fmt.Errorf("scenario: %s: unknown generator mode %q", owner, mode)
	}

	return spec, nil
}
