/*
NAME
  pipeline.go - single-call generation driver (spec.md §5).

DESCRIPTION
  Generate is the synchronous entry point wiring every stage together:
  the already-loaded ICD and scenario drive the bus scheduler, each
  scheduled event is evaluated by the data generator kernel and encoded
  into 1553 words, and the result is handed to the writer's flush
  controller. There are no goroutines and no locks in this path - one
  call frame owns the scheduler, the per-field PRNG streams, and the
  writer, the same way revid.Revid composes input/filters/encoders as
  plain struct fields, but invoked synchronously rather than through a
  Start/Stop pair, since there is no real-time source here to poll.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

// Package pipeline composes the ICD loader, scenario loader, scheduler,
// generator kernel, and writer into the single generate(icd, scenario,
// config, sink) entry point spec.md §5 describes.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/ausocean/utils/logging"

	"github.com/Anthonymm0994/ch10-1553-flightgen/chapter10/tmats"
	"github.com/Anthonymm0994/ch10-1553-flightgen/chapter10/timef1"
	"github.com/Anthonymm0994/ch10-1553-flightgen/icd"
	"github.com/Anthonymm0994/ch10-1553-flightgen/scenario"
	"github.com/Anthonymm0994/ch10-1553-flightgen/schedule"
	"github.com/Anthonymm0994/ch10-1553-flightgen/writer"
)

// ErrCancelled is returned by Generate when ctx is done before the
// scheduled event stream is exhausted. In-flight packets are flushed and
// the sink is closed before it is returned; the partial file is left on
// disk for the caller to inspect or discard (spec.md §5).
var ErrCancelled = fmt.Errorf("pipeline: cancelled")

// Default Chapter 10 channel IDs for the bus-configuration value object of
// spec.md §3: TMATS and time are fixed, independent channels; the 1553
// data channel depends on which bus (A or B) the ICD declares. A zero
// TimeChannelID or DataChannelID in BusConfig means "use the default for
// this bus" (TMATSChannelID's zero value, 0x000, is already its own
// spec-mandated default, so it needs no such fallback).
const (
	DefaultTMATSChannelID = 0x000
	DefaultTimeChannelID  = 0x001
	DefaultBusAChannelID  = 0x002
	DefaultBusBChannelID  = 0x003
)

// BusConfig carries the identity and presentation details Generate needs
// beyond what the ICD and scenario already supply: the three Chapter 10
// channel IDs (TMATS, time, 1553 data), the TMATS program name, the
// time-packet source/format, and the logger every stage shares.
type BusConfig struct {
	TMATSChannelID uint16
	TimeChannelID  uint16
	DataChannelID  uint16
	ProgramName    string
	TimeConfig     timef1.Config
	TimeTagBits    uint8
	Log            logging.Logger
}

// Stats summarizes one Generate run for the CLI's final report
// (spec.md §6).
type Stats struct {
	MessagesWritten int
	Schedule        schedule.Report
	Writer          writer.Stats
	Warnings        []string
}

// Generate runs the whole pipeline to completion: it schedules every
// message instance for the scenario's duration, evaluates and encodes
// each one, and writes the resulting Chapter 10 recording to sink.
// sink is closed on every exit path.
func Generate(ctx context.Context, d *icd.ICD, sc *scenario.Scenario, cfg BusConfig, sink io.WriteCloser) (Stats, error) {
	var stats Stats

	g, err := newGenerator(d, sc)
	if err != nil {
		sink.Close()
		return stats, fmt.Errorf("pipeline: %w", err)
	}

	sched := schedule.New(d, sc, cfg.Log)

	timeChannel := cfg.TimeChannelID
	if timeChannel == 0 {
		timeChannel = DefaultTimeChannelID
	}
	dataChannel := cfg.DataChannelID
	if dataChannel == 0 {
		dataChannel = DefaultBusAChannelID
		if d.Bus == icd.BusB {
			dataChannel = DefaultBusBChannelID
		}
	}

	wcfg := writer.BusConfig{
		TMATSChannelID:     cfg.TMATSChannelID,
		TimeChannelID:      timeChannel,
		DataChannelID:      dataChannel,
		ProgramName:        cfg.ProgramName,
		BusLabel:           d.Bus.String(),
		HasStartTime:       sc.HasStartTime,
		StartTimeUTC:       sc.StartTimeUTC,
		Messages:           tmatsMessages(d),
		PacketBytesTarget:  sc.Bus.PacketBytesTarget,
		TimePacketInterval: sc.Bus.TimePacketInterval,
		TimeTagBits:        cfg.TimeTagBits,
		TimeConfig:         cfg.TimeConfig,
	}
	w := writer.New(wcfg, sink, cfg.Log)

	for ev := range sched.Events() {
		select {
		case <-ctx.Done():
			stats.Schedule = sched.Report()
			if wstats, err := w.Close(); err != nil {
				return stats, err
			} else {
				stats.Writer = wstats
			}
			return stats, ErrCancelled
		default:
		}

		msg, warnings, err := g.evaluateMessage(ev)
		if err != nil {
			w.Close()
			return stats, fmt.Errorf("pipeline: evaluating message %q: %w", ev.Message.Name, err)
		}
		stats.Warnings = append(stats.Warnings, warnings...)

		if err := w.Accept(ev, msg); err != nil {
			w.Close()
			return stats, fmt.Errorf("pipeline: writing message %q: %w", ev.Message.Name, err)
		}
		stats.MessagesWritten++
	}

	wstats, err := w.Close()
	if err != nil {
		return stats, err
	}
	stats.Writer = wstats
	stats.Schedule = sched.Report()

	return stats, nil
}

// tmatsMessages adapts the ICD's derived channel catalogue to the type
// chapter10/tmats.Build expects.
func tmatsMessages(d *icd.ICD) []tmats.Message {
	chans := d.TMATSChannels()
	out := make([]tmats.Message, len(chans))
	for i, c := range chans {
		out[i] = tmats.Message{
			Name:   c.Name,
			RT:     c.RT,
			TR:     c.TR,
			SA:     c.SA,
			WC:     c.WC,
			RateHz: c.RateHz,
		}
	}
	return out
}
