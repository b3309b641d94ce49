/*
NAME
  ms1553.go - IRIG-106 MS1553-F1 packet payload (C6 §4.6).

DESCRIPTION
  Build assembles the CSDW and the IPDH+word blocks of one MS1553-F1
  packet payload. Below is the formatting of the payload for reference!

  ============================================================================
  | section        | contents                                               |
  ============================================================================
  | CSDW (4 bytes) | bits 0-23 message_count, bits 24-29 reserved,          |
  |                | bits 30-31 time_tag_bits                               |
  ----------------------------------------------------------------------------
  | IPDH (14 bytes)| 8-byte IPTS (48-bit RTC tick, extended to 64-bit LE),  |
  |   per message  | 2-byte block status word (below), 2-byte gap time     |
  |                | word (gap1/gap2, half-microseconds), 2-byte length    |
  |                | word (bytes of 1553 words that follow)                |
  ----------------------------------------------------------------------------
  | 1553 words     | raw command/data/status words, order per TR (words.go)|
  ----------------------------------------------------------------------------

  Block status word bit layout (bit 0 = LSB of the 16-bit value):
    bit 0       bus ID (0 = A, 1 = B)
    bit 1       word count error
    bit 2       sync error
    bit 3       word count error in gap
    bit 4       response timeout
    bit 5       format error
    bit 6       RT-to-RT transfer
    bit 7       message error
    bit 8       broadcast command received
    bits 9-15   reserved

  Both words here are byte/bit-position-literal in spec.md §4.6 (unlike the
  command/status words' irregular 5/1/5/5-bit split, which is why
  command_status.go reaches for icza/bitio); plain shifts are the more
  direct and less error-prone fit for a field whose bit numbering is already
  given verbatim.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

// Package ms1553 builds IRIG-106 MS1553-F1 packet payloads: the channel
// specific data word, per-message intra-packet headers, and raw 1553 word
// sequences.
package ms1553

import (
	"fmt"

	"github.com/Anthonymm0994/ch10-1553-flightgen/word"
)

// BlockStatus carries the block-status-word flags of one message's IPDH.
type BlockStatus struct {
	BusB                bool
	WordCountError      bool
	SyncError           bool
	WordCountErrorInGap bool
	ResponseTimeout     bool
	FormatError         bool
	RTToRT              bool
	MessageError        bool
	BroadcastReceived   bool
}

// Message is one 1553 bus message ready to be packed into an MS1553-F1
// packet: its intra-packet time stamp, status flags, gap times, and the
// already-ordered raw 16-bit words (command/data/status, per TR).
type Message struct {
	IPTS       uint64 // 48-bit RTC tick value, stored in the low 48 bits
	Status     BlockStatus
	// Gap1HalfUS and Gap2HalfUS share the IPDH's single gap time word:
	// gap1 in its low byte, gap2 in its high byte (bits above 0xFF are
	// dropped).
	Gap1HalfUS uint16
	Gap2HalfUS uint16
	Words      []uint16
}

func encodeCSDW(messageCount uint32, timeTagBits uint8) uint32 {
	return (messageCount & 0xFFFFFF) | uint32(timeTagBits&0x3)<<30
}

func encodeBlockStatus(s BlockStatus) uint16 {
	var v uint16
	if s.BusB {
		v |= 1 << 0
	}
	if s.WordCountError {
		v |= 1 << 1
	}
	if s.SyncError {
		v |= 1 << 2
	}
	if s.WordCountErrorInGap {
		v |= 1 << 3
	}
	if s.ResponseTimeout {
		v |= 1 << 4
	}
	if s.FormatError {
		v |= 1 << 5
	}
	if s.RTToRT {
		v |= 1 << 6
	}
	if s.MessageError {
		v |= 1 << 7
	}
	if s.BroadcastReceived {
		v |= 1 << 8
	}
	return v
}

// DecodeBlockStatus is the inverse of encodeBlockStatus, exported for the
// validator.
func DecodeBlockStatus(v uint16) BlockStatus {
	return BlockStatus{
		BusB:                v&(1<<0) != 0,
		WordCountError:      v&(1<<1) != 0,
		SyncError:           v&(1<<2) != 0,
		WordCountErrorInGap: v&(1<<3) != 0,
		ResponseTimeout:     v&(1<<4) != 0,
		FormatError:         v&(1<<5) != 0,
		RTToRT:              v&(1<<6) != 0,
		MessageError:        v&(1<<7) != 0,
		BroadcastReceived:   v&(1<<8) != 0,
	}
}

// Build assembles the MS1553-F1 payload for a channel's messages.
func Build(messages []Message, timeTagBits uint8) ([]byte, error) {
	if len(messages) > 1<<24-1 {
		return nil, fmt.Errorf("ms1553: message count %d exceeds 24-bit CSDW field", len(messages))
	}

	buf := make([]byte, 0, 4+len(messages)*(14+4))
	buf = word.WriteU32LE(buf, encodeCSDW(uint32(len(messages)), timeTagBits))

	for i, m := range messages {
		buf = word.WriteU64LE(buf, m.IPTS&0xFFFFFFFFFFFF)
		buf = word.WriteU16LE(buf, encodeBlockStatus(m.Status))
		buf = word.WriteU16LE(buf, uint16(m.Gap1HalfUS&0xFF)|uint16(m.Gap2HalfUS&0xFF)<<8)

		lengthBytes := len(m.Words) * 2
		if lengthBytes > 0xFFFF {
			return nil, fmt.Errorf("ms1553: message %d word length %d exceeds u16 length field", i, lengthBytes)
		}
		buf = word.WriteU16LE(buf, uint16(lengthBytes))

		for _, w16 := range m.Words {
			buf = word.WriteU16LE(buf, w16)
		}
	}

	return buf, nil
}
