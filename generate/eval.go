/*
NAME
  eval.go - generator kernel evaluation (C3, spec.md §4.3).

DESCRIPTION
  Evaluate computes one field's value for one message emission, dispatching
  on Spec.Mode. The random_* modes draw from gonum's distuv distributions
  seeded from the Context's per-(message,field) PRNG stream, so repeated
  runs with the same scenario seed reproduce byte-identical output
  (spec.md §4.3 determinism requirement). Expression mode delegates to the
  expr sub-package, implementing expr.Env against Context's Values map and
  Rng.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package generate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Anthonymm0994/ch10-1553-flightgen/generate/expr"
)

// Evaluate computes the field's value for the given Context, returning any
// non-fatal warnings raised along the way (spec.md §7).
func Evaluate(spec *Spec, ctx *Context) (float64, []Warning, error) {
	var warns []Warning
	warn := func(msg string) { warns = append(warns, Warning{Message: msg}) }

	var v float64
	switch spec.Mode {
	case Constant:
		v = spec.Value

	case Increment:
		v = spec.Start + spec.Step*float64(ctx.MessageCount)
		if spec.HasWrap && spec.WrapAt != 0 {
			v = math.Mod(v, spec.WrapAt)
			if v < 0 {
				v += spec.WrapAt
			}
		}

	case Pattern:
		if len(spec.Values) == 0 {
			return 0, warns, fmt.Errorf("generate: pattern mode has no values")
		}
		idx := int(ctx.MessageCount)
		if spec.Repeat {
			idx = idx % len(spec.Values)
		} else if idx >= len(spec.Values) {
			idx = len(spec.Values) - 1
		}
		v = spec.Values[idx]

	case Random:
		lo, hi := 0.0, 1.0
		if spec.HasMin {
			lo = spec.Min
		}
		if spec.HasMax {
			hi = spec.Max
		}
		v = lo + ctx.Rng.Float64()*(hi-lo)

	case RandomNormal:
		d := distuv.Normal{Mu: spec.Mean, Sigma: spec.Stddev, Src: rngSource{ctx.Rng}}
		v = d.Rand()
		v = clipOptional(spec, v)

	case RandomMultimodal:
		v = sampleMultimodal(spec, ctx)
		v = clipOptional(spec, v)

	case RandomExponential:
		lambda := spec.Lambda
		if lambda <= 0 {
			warn("generate: random_exponential lambda must be positive, using 1.0")
			lambda = 1.0
		}
		d := distuv.Exponential{Rate: lambda, Src: rngSource{ctx.Rng}}
		v = d.Rand()
		v = clipOptional(spec, v)

	case Sine:
		v = spec.Center + spec.Amplitude*math.Sin(2*math.Pi*spec.FrequencyHz*ctx.TimeSeconds+spec.PhaseRad)

	case Cosine:
		v = spec.Center + spec.Amplitude*math.Cos(2*math.Pi*spec.FrequencyHz*ctx.TimeSeconds+spec.PhaseRad)

	case Square:
		v = squareWave(spec, ctx.TimeSeconds, warn)

	case Sawtooth:
		v = sawtoothWave(spec, ctx.TimeSeconds, warn)

	case Ramp:
		v = rampValue(spec, ctx.TimeSeconds)

	case Expression:
		if spec.AST == nil {
			return 0, warns, fmt.Errorf("generate: expression mode has no parsed formula")
		}
		env := &exprEnv{ctx: ctx, warn: warn}
		val, err := expr.Eval(spec.AST, env)
		if err != nil {
			return 0, warns, fmt.Errorf("generate: evaluating %q: %w", spec.Formula, err)
		}
		v = val

	default:
		return 0, warns, fmt.Errorf("generate: unknown generator mode %v", spec.Mode)
	}

	return v, warns, nil
}

func clipOptional(spec *Spec, v float64) float64 {
	if spec.HasMin && v < spec.Min {
		return spec.Min
	}
	if spec.HasMax && v > spec.Max {
		return spec.Max
	}
	return v
}

func sampleMultimodal(spec *Spec, ctx *Context) float64 {
	if len(spec.Peaks) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range spec.Peaks {
		total += p.Weight
	}
	if total <= 0 {
		total = float64(len(spec.Peaks))
	}
	r := ctx.Rng.Float64() * total
	acc := 0.0
	chosen := spec.Peaks[len(spec.Peaks)-1]
	for _, p := range spec.Peaks {
		w := p.Weight
		if w <= 0 {
			w = total / float64(len(spec.Peaks))
		}
		acc += w
		if r <= acc {
			chosen = p
			break
		}
	}
	d := distuv.Normal{Mu: chosen.Mean, Sigma: chosen.Stddev, Src: rngSource{ctx.Rng}}
	return d.Rand()
}

func squareWave(spec *Spec, t float64, warn func(string)) float64 {
	period := spec.PeriodS
	if period <= 0 {
		warn("generate: square period must be positive, using 1.0")
		period = 1.0
	}
	duty := spec.Duty
	if duty <= 0 || duty >= 1 {
		duty = 0.5
	}
	phase := math.Mod(t, period) / period
	if phase < duty {
		return spec.High
	}
	return spec.Low
}

func sawtoothWave(spec *Spec, t float64, warn func(string)) float64 {
	period := spec.PeriodS
	if period <= 0 {
		warn("generate: sawtooth period must be positive, using 1.0")
		period = 1.0
	}
	phase := math.Mod(t, period) / period
	if phase < 0 {
		phase += 1
	}
	return spec.Min + phase*(spec.Max-spec.Min)
}

func rampValue(spec *Spec, t float64) float64 {
	if spec.RampDuration <= 0 {
		return spec.RampEnd
	}
	frac := t / spec.RampDuration
	if spec.Repeat {
		frac -= math.Floor(frac)
	} else if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	return spec.Start + frac*(spec.RampEnd-spec.Start)
}

// rngSource adapts *rand.Rand (math/rand/v2) to the golang.org/x/exp/rand
// Source interface gonum's distuv distributions draw from. Seed is a no-op:
// the underlying *rand.Rand is already seeded deterministically by
// SubStream, and distuv never needs to reseed it.
type rngSource struct {
	r interface{ Uint64() uint64 }
}

func (s rngSource) Uint64() uint64    { return s.r.Uint64() }
func (s rngSource) Seed(seed uint64) {}

// exprEnv implements expr.Env against a generator Context.
type exprEnv struct {
	ctx  *Context
	warn func(string)
}

func (e *exprEnv) Lookup(name string) (float64, bool) {
	switch name {
	case "time":
		return e.ctx.TimeSeconds, true
	case "message_count":
		return float64(e.ctx.MessageCount), true
	}
	v, ok := e.ctx.Values[name]
	return v, ok
}

func (e *exprEnv) Random() float64 { return e.ctx.Rng.Float64() }

func (e *exprEnv) RandomRange(min, max float64) float64 {
	return min + e.ctx.Rng.Float64()*(max-min)
}

func (e *exprEnv) RandomNormal(mean, stddev float64) float64 {
	d := distuv.Normal{Mu: mean, Sigma: stddev, Src: rngSource{e.ctx.Rng}}
	return d.Rand()
}

func (e *exprEnv) RandomInt(min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + int64(e.ctx.Rng.IntN(int(max-min+1)))
}

func (e *exprEnv) Warn(msg string) { e.warn(msg) }
