/*
NAME
  writer_test.go - tests for writer.go.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package writer

import (
	"bytes"
	"testing"
	"time"

	"github.com/Anthonymm0994/ch10-1553-flightgen/chapter10"
	"github.com/Anthonymm0994/ch10-1553-flightgen/chapter10/ms1553"
	"github.com/Anthonymm0994/ch10-1553-flightgen/chapter10/tmats"
	"github.com/Anthonymm0994/ch10-1553-flightgen/schedule"
)

// nopSink is an io.WriteCloser over an in-memory buffer.
type nopSink struct {
	bytes.Buffer
}

func (s *nopSink) Close() error { return nil }

func testConfig() BusConfig {
	return BusConfig{
		TMATSChannelID: 0x000,
		TimeChannelID:  0x001,
		DataChannelID:  0x002,
		ProgramName:    "TESTGEN",
		BusLabel:       "A",
		Messages: []tmats.Message{
			{Name: "NAV", RT: 1, TR: "BC2RT", SA: 1, WC: 1, RateHz: 10},
		},
		PacketBytesTarget:  65536,
		TimePacketInterval: time.Second,
	}
}

func readPackets(t *testing.T, b []byte) []*chapter10.Header {
	t.Helper()
	var out []*chapter10.Header
	for len(b) > 0 {
		h, err := chapter10.ParseHeader(b[:chapter10.HeaderSize])
		if err != nil {
			t.Fatalf("parsing packet header: %v", err)
		}
		out = append(out, h)
		b = b[h.PacketLength:]
	}
	return out
}

func TestBootstrapOrderIsTMATSThenTimeF1(t *testing.T) {
	sink := &nopSink{}
	w := New(testConfig(), sink, nil)

	msg := ms1553.Message{IPTS: 0, Words: []uint16{0xAAAA}}
	ev := schedule.Event{EmitTimeNS: 0}
	if err := w.Accept(ev, msg); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Close(); err != nil {
		t.Fatal(err)
	}

	pkts := readPackets(t, sink.Bytes())
	if len(pkts) < 3 {
		t.Fatalf("got %d packets, want at least 3 (TMATS, Time-F1, MS1553-F1)", len(pkts))
	}
	if pkts[0].DataType != chapter10.DataTypeTMATS {
		t.Fatalf("first packet data_type = 0x%02X, want TMATS", pkts[0].DataType)
	}
	if pkts[1].DataType != chapter10.DataTypeTimeF1 {
		t.Fatalf("second packet data_type = 0x%02X, want Time-F1", pkts[1].DataType)
	}
}

func TestSequenceNumbersIncrementAndWrapPerChannel(t *testing.T) {
	sink := &nopSink{}
	w := New(testConfig(), sink, nil)

	for i := int64(0); i < 300; i++ {
		msg := ms1553.Message{IPTS: uint64(i), Words: []uint16{1}}
		ev := schedule.Event{EmitTimeNS: i * int64(time.Second)}
		if err := w.Accept(ev, msg); err != nil {
			t.Fatalf("Accept(%d): %v", i, err)
		}
	}
	if _, err := w.Close(); err != nil {
		t.Fatal(err)
	}

	pkts := readPackets(t, sink.Bytes())
	nextWant := map[uint16]uint8{}
	var dataCount int
	for i, p := range pkts {
		want := nextWant[p.ChannelID]
		if p.SequenceNumber != want {
			t.Fatalf("packet %d on channel 0x%03X: sequence_number = %d, want %d (wraps at 256, counted per channel)", i, p.ChannelID, p.SequenceNumber, want)
		}
		nextWant[p.ChannelID] = want + 1
		if p.ChannelID == 0x002 {
			dataCount++
		}
	}
	if dataCount < 257 {
		t.Fatalf("expected over 300 messages to produce at least 257 data-channel packets, exercising the wrap past 256; got %d", dataCount)
	}
}

func TestIPTSRegressionRejected(t *testing.T) {
	sink := &nopSink{}
	w := New(testConfig(), sink, nil)

	if err := w.Accept(schedule.Event{EmitTimeNS: 0}, ms1553.Message{IPTS: 100, Words: []uint16{1}}); err != nil {
		t.Fatal(err)
	}
	err := w.Accept(schedule.Event{EmitTimeNS: 1}, ms1553.Message{IPTS: 50, Words: []uint16{1}})
	if err == nil {
		t.Fatal("expected an error for an IPTS regression")
	}
}

func TestSizeBoundTriggersFlush(t *testing.T) {
	cfg := testConfig()
	cfg.PacketBytesTarget = 20 // tiny, forces a flush every message
	sink := &nopSink{}
	w := New(cfg, sink, nil)

	for i := int64(0); i < 5; i++ {
		msg := ms1553.Message{IPTS: uint64(i), Words: []uint16{1, 2, 3, 4}}
		if err := w.Accept(schedule.Event{EmitTimeNS: i}, msg); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := w.Close(); err != nil {
		t.Fatal(err)
	}

	pkts := readPackets(t, sink.Bytes())
	var ms1553Count int
	for _, p := range pkts {
		if p.DataType == chapter10.DataTypeMS1553F1 {
			ms1553Count++
		}
	}
	if ms1553Count < 5 {
		t.Fatalf("got %d MS1553-F1 packets, want at least 5 (one per message under the tiny size bound)", ms1553Count)
	}
}

func TestTimePacketDueTriggersFlush(t *testing.T) {
	cfg := testConfig()
	cfg.TimePacketInterval = time.Millisecond
	sink := &nopSink{}
	w := New(cfg, sink, nil)

	for i := int64(0); i < 3; i++ {
		msg := ms1553.Message{IPTS: uint64(i), Words: []uint16{1}}
		ev := schedule.Event{EmitTimeNS: i * int64(time.Millisecond)}
		if err := w.Accept(ev, msg); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := w.Close(); err != nil {
		t.Fatal(err)
	}

	pkts := readPackets(t, sink.Bytes())
	var timeF1Count int
	for _, p := range pkts {
		if p.DataType == chapter10.DataTypeTimeF1 {
			timeF1Count++
		}
	}
	if timeF1Count < 3 {
		t.Fatalf("got %d Time-F1 packets, want at least 3 (bootstrap plus one per due interval)", timeF1Count)
	}
}

func TestStatsCountPacketsAndMessages(t *testing.T) {
	sink := &nopSink{}
	w := New(testConfig(), sink, nil)

	for i := int64(0); i < 4; i++ {
		msg := ms1553.Message{IPTS: uint64(i), Words: []uint16{1, 2}}
		if err := w.Accept(schedule.Event{EmitTimeNS: i}, msg); err != nil {
			t.Fatal(err)
		}
	}
	stats, err := w.Close()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TMATSPackets != 1 {
		t.Fatalf("got %d TMATS packets, want 1", stats.TMATSPackets)
	}
	if stats.MessagesWritten != 4 {
		t.Fatalf("got %d messages written, want 4", stats.MessagesWritten)
	}
	if stats.BytesWritten != int64(sink.Len()) {
		t.Fatalf("stats.BytesWritten = %d, want %d (actual sink size)", stats.BytesWritten, sink.Len())
	}
}

func TestCloseAfterPartialRunFlushesPending(t *testing.T) {
	sink := &nopSink{}
	w := New(testConfig(), sink, nil)
	if err := w.Accept(schedule.Event{EmitTimeNS: 0}, ms1553.Message{IPTS: 1, Words: []uint16{1}}); err != nil {
		t.Fatal(err)
	}
	stats, err := w.Close()
	if err != nil {
		t.Fatal(err)
	}
	if stats.MS1553Packets != 1 || stats.MessagesWritten != 1 {
		t.Fatalf("got %+v, want one flushed MS1553 packet carrying the one accepted message", stats)
	}
}
