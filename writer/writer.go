/*
NAME
  writer.go - Chapter 10 flush controller (C7).

DESCRIPTION
  Writer accumulates encoded 1553 messages into MS1553-F1 packets and
  flushes them to the byte sink per spec.md §4.7: a packet is flushed when
  the next message would push the accumulated payload past
  PacketBytesTarget, when a Time-F1 packet is due, or at end of stream.
  Pending messages are always appended in the order Accept receives them,
  so a flush emits them in IPTS order for free; the Time-F1 packet for the
  window boundary follows immediately after.

  The first packet written is always TMATS, followed by an initial Time-F1
  packet, before any data packet - enforced by bootstrap on the first call
  to Accept.

  Grounded on the teacher's container/mts.Encoder: a functional-options
  constructor (NewEncoder) wrapping an io.WriteCloser, an accumulate-then-
  flush Write loop gated by a condition (writePSI on a packet/time/NAL
  trigger), and per-stream continuity counters (ccFor). The flush
  conditions here are the writer's own (size/time/EOS per spec.md §4.7)
  rather than mts's PSI triggers, and the "continuity counter" is the
  per-channel Chapter 10 sequence_number.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

// Package writer implements the Chapter 10 accumulate/flush policy that
// turns scheduled, encoded 1553 messages into a byte-exact recording file.
package writer

import (
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/ausocean/utils/logging"

	"github.com/Anthonymm0994/ch10-1553-flightgen/chapter10"
	"github.com/Anthonymm0994/ch10-1553-flightgen/chapter10/ms1553"
	"github.com/Anthonymm0994/ch10-1553-flightgen/chapter10/tmats"
	"github.com/Anthonymm0994/ch10-1553-flightgen/chapter10/timef1"
	"github.com/Anthonymm0994/ch10-1553-flightgen/schedule"
)

// ErrIPTSRegression is returned by Accept when a message's IPTS is less
// than the last-accepted IPTS on its channel, indicating a scheduler bug
// (spec.md §4.7).
var ErrIPTSRegression = errors.New("writer: IPTS regression")

// BusConfig carries everything the writer needs to bootstrap and flush a
// single bus's recording: the three Chapter 10 channel IDs the bus-
// configuration value object defines (spec.md §3 - TMATS, time, and the
// 1553 data channel, each sequence-numbered independently), the TMATS
// source text, the time packet cadence, and the packet size target
// (spec.md §4.7).
type BusConfig struct {
	TMATSChannelID     uint16
	TimeChannelID      uint16
	DataChannelID      uint16
	ProgramName        string
	BusLabel           string // "A" or "B", used only for the TMATS record.
	HasStartTime       bool
	StartTimeUTC       time.Time
	Messages           []tmats.Message // TMATS message records, one per ICD message.
	PacketBytesTarget  int
	TimePacketInterval time.Duration
	TimeTagBits        uint8
	TimeConfig         timef1.Config
}

// Stats summarizes one writer run, folded into the pipeline's final run
// report (spec.md §7).
type Stats struct {
	TMATSPackets   int
	TimeF1Packets  int
	MS1553Packets  int
	MessagesWritten int
	BytesWritten   int64
}

// Writer accumulates 1553 messages per channel and flushes Chapter 10
// packets to sink following the accumulate/flush policy of spec.md §4.7.
// A Writer is single-use: one run from New through Close.
type Writer struct {
	cfg  BusConfig
	sink io.WriteCloser
	log  logging.Logger

	bootstrapped bool
	tmatsSeq     uint8 // sequence_number on cfg.TMATSChannelID, wraps at 256.
	timeSeq      uint8 // sequence_number on cfg.TimeChannelID, wraps at 256.
	dataSeq      uint8 // sequence_number on cfg.DataChannelID, wraps at 256.

	pending      []ms1553.Message
	pendingBytes int // estimated payload bytes if flushed now, excl. CSDW/header.

	hasLastIPTS    bool
	lastIPTS       uint64
	lastEmitTimeNS int64

	lastTimePacketNS int64
	hasTimePacket    bool

	stats Stats
}

// New returns a Writer ready to accept scheduled, encoded messages for
// one channel. sink is owned by the caller's generate call and is closed
// by Close.
func New(cfg BusConfig, sink io.WriteCloser, log logging.Logger) *Writer {
	if cfg.PacketBytesTarget <= 0 {
		cfg.PacketBytesTarget = 65536
	}
	if cfg.TimePacketInterval <= 0 {
		cfg.TimePacketInterval = time.Second
	}
	return &Writer{cfg: cfg, sink: sink, log: log}
}

// Accept buffers one scheduled message, flushing the in-progress packet
// first if required by spec.md §4.7's size or time conditions.
func (w *Writer) Accept(ev schedule.Event, msg ms1553.Message) error {
	if !w.bootstrapped {
		if err := w.bootstrap(ev); err != nil {
			return err
		}
	}

	if w.hasLastIPTS && msg.IPTS < w.lastIPTS {
		return errors.Wrapf(ErrIPTSRegression, "message IPTS %d < last accepted IPTS %d", msg.IPTS, w.lastIPTS)
	}

	msgBytes := 14 + len(msg.Words)*2
	if w.pendingBytes+msgBytes > w.cfg.PacketBytesTarget && len(w.pending) > 0 {
		if w.log != nil {
			w.log.Debug("flushing MS1553 packet on size bound", "pending", len(w.pending), "bytes", w.pendingBytes)
		}
		if err := w.flushData(ev.EmitTimeNS); err != nil {
			return err
		}
	}

	w.pending = append(w.pending, msg)
	w.pendingBytes += msgBytes
	w.hasLastIPTS = true
	w.lastIPTS = msg.IPTS
	w.lastEmitTimeNS = ev.EmitTimeNS

	if ev.EmitTimeNS-w.lastTimePacketNS >= w.cfg.TimePacketInterval.Nanoseconds() {
		if w.log != nil {
			w.log.Debug("flushing on time-packet due", "since_last_ns", ev.EmitTimeNS-w.lastTimePacketNS)
		}
		if err := w.flushData(ev.EmitTimeNS); err != nil {
			return err
		}
		if err := w.writeTimePacket(ev.EmitTimeNS); err != nil {
			return err
		}
	}

	return nil
}

// Close flushes any in-flight packet and returns the run's Stats. Close
// must be called exactly once, on every exit path (success, error, or
// cancellation) - the pipeline calls it on a cancelled context too, so
// partial output is always left in a structurally valid state
// (spec.md §5; cancellation itself is reported by the caller as
// pipeline.ErrCancelled, not by Writer).
func (w *Writer) Close() (Stats, error) {
	if err := w.flushData(w.lastEmitTimeNS); err != nil {
		return w.stats, err
	}
	if err := w.sink.Close(); err != nil {
		return w.stats, errors.Wrap(err, "writer: closing sink")
	}
	return w.stats, nil
}

// bootstrap writes the mandatory TMATS packet followed by an initial
// Time-F1 packet, before any data packet (spec.md §4.7).
func (w *Writer) bootstrap(ev schedule.Event) error {
	src := tmats.Source{
		ProgramName:  w.cfg.ProgramName,
		Bus:          w.cfg.BusLabel,
		StartTimeUTC: w.cfg.StartTimeUTC,
		HasStartTime: w.cfg.HasStartTime,
		Messages:     w.cfg.Messages,
	}
	payload := tmats.Build(src)
	pkt := chapter10.BuildPacket(w.cfg.TMATSChannelID, chapter10.DataTypeTMATS, w.nextTMATSSeq(), w.rtc(0), payload)
	if _, err := w.sink.Write(pkt); err != nil {
		return errors.Wrap(err, "writer: writing TMATS packet")
	}
	w.stats.TMATSPackets++
	w.stats.BytesWritten += int64(len(pkt))

	w.bootstrapped = true
	return w.writeTimePacket(ev.EmitTimeNS)
}

// writeTimePacket builds and writes a Time-F1 packet for tNS, the virtual
// scheduled time of the window boundary it anchors.
func (w *Writer) writeTimePacket(tNS int64) error {
	wall := w.cfg.StartTimeUTC.Add(time.Duration(tNS))
	payload := timef1.Build(w.cfg.TimeConfig, wall)
	pkt := chapter10.BuildPacket(w.cfg.TimeChannelID, chapter10.DataTypeTimeF1, w.nextTimeSeq(), w.rtc(tNS), payload)
	if _, err := w.sink.Write(pkt); err != nil {
		return errors.Wrap(err, "writer: writing Time-F1 packet")
	}
	w.stats.TimeF1Packets++
	w.stats.BytesWritten += int64(len(pkt))
	w.lastTimePacketNS = tNS
	w.hasTimePacket = true
	return nil
}

// flushData writes the pending MS1553-F1 packet, if any, then clears it.
// tNS anchors the packet's relative_time_counter.
func (w *Writer) flushData(tNS int64) error {
	if len(w.pending) == 0 {
		return nil
	}
	payload, err := ms1553.Build(w.pending, w.cfg.TimeTagBits)
	if err != nil {
		return errors.Wrap(err, "writer: building MS1553-F1 payload")
	}
	pkt := chapter10.BuildPacket(w.cfg.DataChannelID, chapter10.DataTypeMS1553F1, w.nextDataSeq(), w.rtc(tNS), payload)
	if _, err := w.sink.Write(pkt); err != nil {
		return errors.Wrap(err, "writer: writing MS1553-F1 packet")
	}
	w.stats.MS1553Packets++
	w.stats.MessagesWritten += len(w.pending)
	w.stats.BytesWritten += int64(len(pkt))

	w.pending = w.pending[:0]
	w.pendingBytes = 0
	return nil
}

// nextTMATSSeq, nextTimeSeq and nextDataSeq each return their channel's
// next sequence_number, wrapping at 256.
func (w *Writer) nextTMATSSeq() uint8 { s := w.tmatsSeq; w.tmatsSeq++; return s }
func (w *Writer) nextTimeSeq() uint8  { s := w.timeSeq; w.timeSeq++; return s }
func (w *Writer) nextDataSeq() uint8  { s := w.dataSeq; w.dataSeq++; return s }

// rtc derives the packet's relative_time_counter from scheduled time:
// nanoseconds since StartTimeUTC, masked to the header's 48-bit field.
// The RTC's tick unit is implementation-defined by spec.md §4.6; using
// the scheduler's own nanosecond clock keeps it monotonic by construction
// and needs no separate clock model.
func (w *Writer) rtc(tNS int64) uint64 {
	if tNS < 0 {
		tNS = 0
	}
	return uint64(tNS) & 0xFFFFFFFFFFFF
}
