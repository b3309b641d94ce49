/*
NAME
  header_test.go - tests for header.go.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package chapter10

import "testing"

func TestHeaderRoundTrip(t *testing.T) {
	h := &Header{
		ChannelID:           1,
		PacketLength:        48,
		DataLength:          24,
		DataTypeVersion:     0,
		SequenceNumber:      3,
		PacketFlags:         0,
		DataType:            DataTypeMS1553F1,
		RelativeTimeCounter: 0x0000_1234_5678,
	}
	b := h.Bytes()
	if len(b) != HeaderSize {
		t.Fatalf("got %d bytes, want %d", len(b), HeaderSize)
	}

	got, err := ParseHeader(b)
	if err != nil {
		t.Fatal(err)
	}
	if got.ChannelID != h.ChannelID || got.PacketLength != h.PacketLength ||
		got.DataLength != h.DataLength || got.SequenceNumber != h.SequenceNumber ||
		got.DataType != h.DataType || got.RelativeTimeCounter != h.RelativeTimeCounter {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestHeaderBadSync(t *testing.T) {
	b := (&Header{DataType: DataTypeTMATS}).Bytes()
	b[0] ^= 0xFF
	if _, err := ParseHeader(b); err == nil {
		t.Fatal("expected error for corrupted sync pattern")
	}
}

func TestHeaderBadChecksum(t *testing.T) {
	b := (&Header{DataType: DataTypeTMATS}).Bytes()
	b[5] ^= 0xFF
	if _, err := ParseHeader(b); err == nil {
		t.Fatal("expected error for corrupted checksum")
	}
}

func TestPadTo4(t *testing.T) {
	padded, padLen := PadTo4([]byte{1, 2, 3})
	if len(padded) != 4 || padLen != 1 {
		t.Fatalf("got len=%d padLen=%d, want 4 and 1", len(padded), padLen)
	}
	padded, padLen = PadTo4([]byte{1, 2, 3, 4})
	if len(padded) != 4 || padLen != 0 {
		t.Fatalf("already-aligned payload should not be padded, got len=%d padLen=%d", len(padded), padLen)
	}
}

func TestBuildPacketLengthIsMultipleOf4(t *testing.T) {
	pkt := BuildPacket(1, DataTypeMS1553F1, 0, 0, []byte{1, 2, 3})
	if len(pkt)%4 != 0 {
		t.Fatalf("packet length %d is not a multiple of 4", len(pkt))
	}
	h, err := ParseHeader(pkt)
	if err != nil {
		t.Fatal(err)
	}
	if h.DataLength != 3 {
		t.Fatalf("data_length should exclude padding: got %d, want 3", h.DataLength)
	}
	if int(h.PacketLength) != len(pkt) {
		t.Fatalf("packet_length %d does not match actual packet size %d", h.PacketLength, len(pkt))
	}
}
