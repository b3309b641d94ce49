/*
NAME
  validate.go - post-write structural validation (C8).

DESCRIPTION
  File streams a produced Chapter 10 recording back and performs every
  check spec.md §4.8 lists: header well-formedness, TMATS/Time-F1
  ordering, MS1553-F1 internal arithmetic, IPTS monotonicity per channel,
  and command/status word consistency.

  No third-party Chapter 10 decoder exists in the example pack (spec.md
  §1 treats decoder libraries as a test-only external collaborator, not a
  generator dependency), so the reader here is hand-rolled - it mirrors
  the writer's own byte layout (chapter10.ParseHeader, ms1553.Build's
  inverse) rather than reimplementing a general-purpose decoder.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

// Package validate streams a Chapter 10 recording produced by this
// generator back and checks it for the structural properties spec.md
// §4.8 requires.
package validate

import (
	"fmt"
	"io"

	"github.com/Anthonymm0994/ch10-1553-flightgen/chapter10"
	"github.com/Anthonymm0994/ch10-1553-flightgen/word"
)

// Severity classifies a Finding. Error severity means the file is
// non-conformant; Warning flags a condition worth surfacing but not
// disqualifying.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Finding codes (spec.md §4.8).
const (
	CodeBadSync               = "BadSync"
	CodeBadChecksum           = "BadChecksum"
	CodeBadPacketLength       = "BadPacketLength"
	CodeUnknownDataType       = "UnknownDataType"
	CodeTMATSNotFirst         = "TMATSNotFirst"
	CodeMultipleTMATS         = "MultipleTMATS"
	CodeMissingTMATS          = "MissingTMATS"
	CodeTimeF1BeforeData      = "TimeF1BeforeData"
	CodeMessageCountMismatch  = "MessageCountMismatch"
	CodeDataLengthMismatch    = "DataLengthMismatch"
	CodeIPTSRegression        = "IPTSRegression"
	CodeWordCountMismatch     = "WordCountMismatch"
	CodeStatusRTMismatch      = "StatusRTMismatch"
)

// Finding is one structured diagnostic (spec.md §4.8).
type Finding struct {
	Severity Severity
	Code     string
	Offset   int64
	Message  string
}

// Report is the outcome of validating one file.
type Report struct {
	Findings []Finding
}

// OK reports whether the file is conformant: no Error-severity findings.
func (r Report) OK() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return false
		}
	}
	return true
}

type channelState struct {
	hasLastIPTS bool
	lastIPTS    uint64
	seenData    bool
}

// File streams r and validates it per spec.md §4.8. It never returns an
// error for structural non-conformance - that is reported via Findings -
// only for I/O failures reading the stream itself.
func File(r io.Reader) (Report, error) {
	var rep Report
	add := func(sev Severity, code string, offset int64, format string, args ...interface{}) {
		rep.Findings = append(rep.Findings, Finding{
			Severity: sev,
			Code:     code,
			Offset:   offset,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	var offset int64
	var tmatsCount int
	var sawTimeF1 bool
	var firstPacket = true
	channels := map[uint16]*channelState{}

	for {
		hdrBuf := make([]byte, chapter10.HeaderSize)
		n, err := io.ReadFull(r, hdrBuf)
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			add(SeverityError, CodeBadPacketLength, offset, "truncated header: got %d of %d bytes", n, chapter10.HeaderSize)
			break
		}
		if err != nil {
			return rep, fmt.Errorf("validate: reading header at offset %d: %w", offset, err)
		}

		h, perr := chapter10.ParseHeader(hdrBuf)
		if perr != nil {
			code := CodeBadSync
			if word.ReadU16LE(hdrBuf[0:2]) == 0xEB25 {
				code = CodeBadChecksum
			}
			add(SeverityError, code, offset, "%v", perr)
			// Cannot reliably resynchronize without a valid packet_length; stop.
			break
		}

		if h.PacketLength < uint32(chapter10.HeaderSize) || h.PacketLength%4 != 0 {
			add(SeverityError, CodeBadPacketLength, offset, "packet_length %d invalid (must be >= %d and a multiple of 4)", h.PacketLength, chapter10.HeaderSize)
			break
		}

		payloadLen := int64(h.PacketLength) - int64(chapter10.HeaderSize)
		payload := make([]byte, payloadLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			add(SeverityError, CodeBadPacketLength, offset, "truncated payload: %v", err)
			break
		}

		switch h.DataType {
		case chapter10.DataTypeTMATS:
			tmatsCount++
			if !firstPacket {
				add(SeverityError, CodeTMATSNotFirst, offset, "TMATS packet found after the first packet")
			}
			if tmatsCount > 1 {
				add(SeverityError, CodeMultipleTMATS, offset, "more than one TMATS packet found")
			}

		case chapter10.DataTypeTimeF1:
			sawTimeF1 = true

		case chapter10.DataTypeMS1553F1:
			if !sawTimeF1 {
				add(SeverityError, CodeTimeF1BeforeData, offset, "MS1553-F1 packet found before any Time-F1 packet")
			}
			cs := channels[h.ChannelID]
			if cs == nil {
				cs = &channelState{}
				channels[h.ChannelID] = cs
			}
			validateMS1553Payload(payload, int(h.DataLength), offset+int64(chapter10.HeaderSize), cs, add)

		default:
			add(SeverityWarning, CodeUnknownDataType, offset, "unrecognized data_type 0x%02X", h.DataType)
		}

		offset += int64(h.PacketLength)
		firstPacket = false
	}

	if tmatsCount == 0 {
		add(SeverityError, CodeMissingTMATS, 0, "no TMATS packet found")
	}

	return rep, nil
}

// validateMS1553Payload checks one MS1553-F1 packet's internal arithmetic,
// IPTS monotonicity, and per-message word consistency.
func validateMS1553Payload(payload []byte, dataLength int, payloadOffset int64, cs *channelState, add func(Severity, string, int64, string, ...interface{})) {
	if len(payload) < 4 {
		add(SeverityError, CodeMessageCountMismatch, payloadOffset, "MS1553-F1 payload shorter than CSDW")
		return
	}
	csdw := word.ReadU32LE(payload[0:4])
	messageCount := int(csdw & 0xFFFFFF)

	off := 4
	count := 0
	for count < messageCount && off+14 <= len(payload) {
		ipts := word.ReadU64LE(payload[off : off+8])
		lengthBytes := int(word.ReadU16LE(payload[off+12 : off+14]))
		wordsStart := off + 14
		wordsEnd := wordsStart + lengthBytes
		if wordsEnd > len(payload) {
			add(SeverityError, CodeMessageCountMismatch, payloadOffset+int64(off), "message %d's word length %d exceeds remaining payload", count, lengthBytes)
			return
		}

		if cs.hasLastIPTS && ipts < cs.lastIPTS {
			add(SeverityError, CodeIPTSRegression, payloadOffset+int64(off), "IPTS %d is less than the previous message's IPTS %d on this channel", ipts, cs.lastIPTS)
		}
		cs.hasLastIPTS = true
		cs.lastIPTS = ipts

		checkWords(payload[wordsStart:wordsEnd], payloadOffset+int64(wordsStart), add)

		off = wordsEnd
		count++
	}

	if count != messageCount {
		add(SeverityError, CodeMessageCountMismatch, payloadOffset, "message_count %d in CSDW does not match %d IPDH blocks found", messageCount, count)
	}
	if off != dataLength {
		add(SeverityError, CodeDataLengthMismatch, payloadOffset, "sum of CSDW+IPDH+word bytes %d does not match data_length %d", off, dataLength)
	}
}

// checkWords decodes the leading command word and the responding status
// word (the last word when T/R=0, the second word when T/R=1) and checks
// word-count and RT-address agreement per spec.md §4.8. RT2RT messages
// carry two command words and cannot be told apart from the other transfer
// kinds by the leading command word alone, so every word-count mismatch is
// reported as a warning rather than an error, and the status RT check runs
// only when the word count matches wc+2.
func checkWords(words []byte, offset int64, add func(Severity, string, int64, string, ...interface{})) {
	if len(words) < 2 {
		return
	}
	cmd := word.ReadU16LE(words[0:2])
	rt, tBit, sa, wc := word.DecodeCommandWord(cmd)
	_ = tBit

	nWords := len(words) / 2
	if sa == 0 || sa == 31 {
		// Mode code: word count field carries the mode-code value, not a
		// data word count, per MIL-STD-1553B; no further check here.
		return
	}

	// BC2RT: command, data*wc, status -> nWords == wc+2.
	// RT2BC: command, status, data*wc -> nWords == wc+2.
	if nWords != int(wc)+2 {
		add(SeverityWarning, CodeWordCountMismatch, offset, "command word wc=%d implies %d total words, but message carries %d", wc, wc+2, nWords)
		return
	}

	var statusWord uint16
	if !tBit {
		// BC2RT: status is the last word.
		statusWord = word.ReadU16LE(words[len(words)-2:])
	} else {
		// RT2BC: status is the second word.
		statusWord = word.ReadU16LE(words[2:4])
	}
	statusRT, _ := word.DecodeStatusWord(statusWord)
	if statusRT != rt {
		add(SeverityError, CodeStatusRTMismatch, offset, "status word RT %d does not match command word RT %d", statusRT, rt)
	}
}
