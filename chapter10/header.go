/*
NAME
  header.go - IRIG-106 Chapter 10 common packet header.

DESCRIPTION
  Header encapsulates the fields of the 24-byte common packet header every
  Chapter 10 packet carries. Below is the formatting of the header for
  reference!

  ============================================================================
  | octet no  | contents                                                     |
  ============================================================================
  | 0-1       | sync (u16 LE) = 0xEB25                                       |
  ----------------------------------------------------------------------------
  | 2-3       | channel_id (u16 LE)                                          |
  ----------------------------------------------------------------------------
  | 4-7       | packet_length (u32 LE), total bytes including this header    |
  ----------------------------------------------------------------------------
  | 8-11      | data_length (u32 LE), payload bytes excluding this header    |
  ----------------------------------------------------------------------------
  | 12        | data_type_version (u8)                                      |
  ----------------------------------------------------------------------------
  | 13        | sequence_number (u8), wraps per channel at 256               |
  ----------------------------------------------------------------------------
  | 14        | packet_flags (u8)                                           |
  ----------------------------------------------------------------------------
  | 15        | data_type (u8): 0x01 TMATS, 0x11 Time-F1, 0x19 MS1553-F1     |
  ----------------------------------------------------------------------------
  | 16-21     | relative_time_counter (48-bit LE), monotonic tick            |
  ----------------------------------------------------------------------------
  | 22-23     | header_checksum (u16 LE), sum of octets 0-21 taken as 11     |
  |           | u16 LE words, mod 2^16                                       |
  ----------------------------------------------------------------------------

  A secondary header is not used; packet_flags bit 0 (secondary header
  present) is always 0.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

// Package chapter10 implements the IRIG-106 Chapter 10 common packet
// header and assembles the three packet kinds this generator produces
// (TMATS, Time-F1, MS1553-F1) from the tmats/timef1/ms1553 sub-packages.
package chapter10

import (
	"fmt"

	"github.com/Anthonymm0994/ch10-1553-flightgen/word"
)

// HeaderSize is the fixed size of the common packet header in bytes.
const HeaderSize = 24

// Data type codes (spec.md §4.6).
const (
	DataTypeTMATS    = 0x01
	DataTypeTimeF1   = 0x11
	DataTypeMS1553F1 = 0x19
)

const syncPattern = 0xEB25

// Header is the 24-byte common packet header preceding every packet's
// payload.
type Header struct {
	ChannelID           uint16
	PacketLength        uint32
	DataLength          uint32
	DataTypeVersion     uint8
	SequenceNumber      uint8
	PacketFlags         uint8
	DataType            uint8
	RelativeTimeCounter uint64 // low 48 bits significant
}

// Bytes serializes the header, computing header_checksum over the
// preceding 22 bytes.
func (h *Header) Bytes() []byte {
	buf := make([]byte, 0, HeaderSize)
	buf = word.WriteU16LE(buf, syncPattern)
	buf = word.WriteU16LE(buf, h.ChannelID)
	buf = word.WriteU32LE(buf, h.PacketLength)
	buf = word.WriteU32LE(buf, h.DataLength)
	buf = append(buf, h.DataTypeVersion, h.SequenceNumber, h.PacketFlags, h.DataType)
	buf = word.WriteU48LE(buf, h.RelativeTimeCounter)

	checksum := checksumU16(buf)
	buf = word.WriteU16LE(buf, checksum)
	return buf
}

// ParseHeader decodes a 24-byte buffer into a Header, verifying sync and
// checksum.
func ParseHeader(b []byte) (*Header, error) {
	if len(b) < HeaderSize {
		return nil, fmt.Errorf("chapter10: header requires %d bytes, got %d", HeaderSize, len(b))
	}
	sync := word.ReadU16LE(b[0:2])
	if sync != syncPattern {
		return nil, fmt.Errorf("chapter10: bad sync pattern 0x%04X", sync)
	}
	wantChecksum := checksumU16(b[0:22])
	gotChecksum := word.ReadU16LE(b[22:24])
	if wantChecksum != gotChecksum {
		return nil, fmt.Errorf("chapter10: header checksum mismatch: want 0x%04X, got 0x%04X", wantChecksum, gotChecksum)
	}

	return &Header{
		ChannelID:           word.ReadU16LE(b[2:4]),
		PacketLength:        word.ReadU32LE(b[4:8]),
		DataLength:          word.ReadU32LE(b[8:12]),
		DataTypeVersion:     b[12],
		SequenceNumber:      b[13],
		PacketFlags:         b[14],
		DataType:            b[15],
		RelativeTimeCounter: word.ReadU48LE(b[16:22]),
	}, nil
}

func checksumU16(b []byte) uint16 {
	var sum uint32
	for i := 0; i+1 < len(b); i += 2 {
		sum += uint32(word.ReadU16LE(b[i : i+2]))
	}
	if len(b)%2 == 1 {
		sum += uint32(b[len(b)-1])
	}
	return uint16(sum)
}

// PadTo4 returns payload padded with zero bytes to a multiple of 4, and the
// pad length (not counted in data_length, per spec.md §4.6).
func PadTo4(payload []byte) (padded []byte, padLen int) {
	rem := len(payload) % 4
	if rem == 0 {
		return payload, 0
	}
	pad := 4 - rem
	return append(payload, make([]byte, pad)...), pad
}

// BuildPacket assembles a full packet (header + payload, payload padded to
// a multiple of 4) given the already-serialized payload.
func BuildPacket(channelID uint16, dataType uint8, seq uint8, rtc uint64, payload []byte) []byte {
	dataLen := uint32(len(payload))
	padded, _ := PadTo4(payload)

	h := &Header{
		ChannelID:           channelID,
		PacketLength:        uint32(HeaderSize + len(padded)),
		DataLength:          dataLen,
		DataTypeVersion:     0,
		SequenceNumber:      seq,
		PacketFlags:         0,
		DataType:            dataType,
		RelativeTimeCounter: rtc,
	}

	out := make([]byte, 0, HeaderSize+len(padded))
	out = append(out, h.Bytes()...)
	out = append(out, padded...)
	return out
}
