/*
NAME
  ms1553_test.go - tests for ms1553.go and words.go.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package ms1553

import (
	"testing"

	"github.com/Anthonymm0994/ch10-1553-flightgen/word"
)

func TestBuildLengthArithmetic(t *testing.T) {
	msgs := []Message{
		{IPTS: 100, Words: []uint16{0x1111, 0x2222, 0x3333}},
		{IPTS: 200, Words: []uint16{0x4444, 0x5555}},
	}
	payload, err := Build(msgs, 0)
	if err != nil {
		t.Fatal(err)
	}

	want := 4 + (14+3*2) + (14 + 2*2)
	if len(payload) != want {
		t.Fatalf("got %d bytes, want %d", len(payload), want)
	}
}

func TestBuildMessageCountInCSDW(t *testing.T) {
	msgs := []Message{{IPTS: 1, Words: []uint16{1}}, {IPTS: 2, Words: []uint16{2}}}
	payload, err := Build(msgs, 0)
	if err != nil {
		t.Fatal(err)
	}
	count := uint32(payload[0]) | uint32(payload[1])<<8 | uint32(payload[2])<<16
	if count != 2 {
		t.Fatalf("got message_count %d, want 2", count)
	}
}

func TestBlockStatusRoundTrip(t *testing.T) {
	s := BlockStatus{BusB: true, MessageError: true, RTToRT: true}
	v := encodeBlockStatus(s)
	got := DecodeBlockStatus(v)
	if got != s {
		t.Fatalf("got %+v, want %+v", got, s)
	}
}

func TestOrderWordsBC2RT(t *testing.T) {
	out := OrderWords(word.BC2RT, 0xAAAA, RTRTCommands{}, []uint16{1, 2, 3}, 0xBBBB, 0, 0)
	want := []uint16{0xAAAA, 1, 2, 3, 0xBBBB}
	if len(out) != len(want) {
		t.Fatalf("got %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("got %v, want %v", out, want)
		}
	}
}

func TestOrderWordsRT2BC(t *testing.T) {
	out := OrderWords(word.RT2BC, 0xAAAA, RTRTCommands{}, []uint16{1, 2}, 0xBBBB, 0, 0)
	want := []uint16{0xAAAA, 0xBBBB, 1, 2}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("got %v, want %v", out, want)
		}
	}
}

func TestOrderWordsRT2RT(t *testing.T) {
	out := OrderWords(word.RT2RT, 0, RTRTCommands{Receive: 0x1111, Transmit: 0x2222}, []uint16{9}, 0, 0x3333, 0x4444)
	want := []uint16{0x1111, 0x2222, 0x3333, 9, 0x4444}
	if len(out) != len(want) {
		t.Fatalf("got %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("got %v, want %v", out, want)
		}
	}
}
