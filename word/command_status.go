/*
NAME
  command_status.go - 1553 command and status word encoding.

DESCRIPTION
  Encodes the command word (rt/tr/sa/wc) and status word (rt + response
  flags) that bracket every 1553 message, using github.com/icza/bitio for
  the bit-at-a-time field placement rather than ad hoc shifting, since the
  fields here are irregular widths (5,1,5,5 and 5,1,1,1,1,1,1,1,1,1,1,1 bits)
  spread across a single 16-bit word.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the ch10gen project contributors.
*/

package word

import (
	"bytes"

	"github.com/icza/bitio"
)

// TR identifies the transfer direction of a command word.
type TR int

const (
	BC2RT TR = iota
	RT2BC
	RT2RT
	ModeCode
)

// String names a TR the way it would appear in an ICD document.
func (t TR) String() string {
	switch t {
	case BC2RT:
		return "BC2RT"
	case RT2BC:
		return "RT2BC"
	case RT2RT:
		return "RT2RT"
	case ModeCode:
		return "MC"
	default:
		return "unknown"
	}
}

// EncodeCommandWord packs rt (0-31), tr, sa (0-31) and wc (0-32, 32 encoded
// as 0) into the 16-bit command word: bits 15-11 rt, bit 10 T/R (1 for
// RT->BC), bits 9-5 sa, bits 4-0 wc mod 32. For an RT2RT transfer the
// receive command word (tr == RT2RT) gets T/R=0; the caller builds that
// transfer's transmit command word with tr == RT2BC to get T/R=1.
func EncodeCommandWord(rt uint8, tr TR, sa uint8, wc uint8) uint16 {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	w.WriteBits(uint64(rt&0x1F), 5)
	tbit := uint64(0)
	if tr == RT2BC {
		tbit = 1
	}
	w.WriteBits(tbit, 1)
	w.WriteBits(uint64(sa&0x1F), 5)
	w.WriteBits(uint64(wc%32), 5)
	w.Close()
	return decode16(buf.Bytes())
}

// DecodeCommandWord is the inverse of EncodeCommandWord. wc==0 means 32
// words per spec.md §3.
func DecodeCommandWord(cw uint16) (rt uint8, tBit bool, sa uint8, wc uint8) {
	r := bitio.NewReader(bytes.NewReader(encode16(cw)))
	rtv, _ := r.ReadBits(5)
	tv, _ := r.ReadBits(1)
	sav, _ := r.ReadBits(5)
	wcv, _ := r.ReadBits(5)
	wc = uint8(wcv)
	if wc == 0 {
		wc = 32
	}
	return uint8(rtv), tv == 1, uint8(sav), wc
}

// StatusFlags carries the response-side flag bits of a status word.
type StatusFlags struct {
	MessageError      bool
	Instrumentation   bool
	ServiceRequest    bool
	BroadcastReceived bool
	Busy              bool
	SubsystemFlag     bool
	DBCA              bool
	TerminalFlag      bool
	AcceptanceError   bool // non-standard; packed into a reserved bit, not the RT address field.
	ParityError       bool // non-standard; packed into a reserved bit, not the RT address field.
}

// EncodeStatusWord packs rt (bits 15-11) and the fixed-position response
// flags into a 16-bit status word. AcceptanceError and ParityError are not
// standard MIL-STD-1553B status bits; they occupy two of the three
// reserved bits (7-5) rather than the RT address field.
func EncodeStatusWord(rt uint8, f StatusFlags) uint16 {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	w.WriteBits(uint64(rt&0x1F), 5)
	w.WriteBool(f.MessageError)
	w.WriteBool(f.Instrumentation)
	w.WriteBool(f.ServiceRequest)
	w.WriteBool(f.AcceptanceError)
	w.WriteBool(f.ParityError)
	w.WriteBool(false) // remaining reserved bit, always zero.
	w.WriteBool(f.BroadcastReceived)
	w.WriteBool(f.Busy)
	w.WriteBool(f.SubsystemFlag)
	w.WriteBool(f.DBCA)
	w.WriteBool(f.TerminalFlag)
	w.Close()
	return decode16(buf.Bytes())
}

// DecodeStatusWord is the inverse of EncodeStatusWord.
func DecodeStatusWord(sw uint16) (rt uint8, f StatusFlags) {
	r := bitio.NewReader(bytes.NewReader(encode16(sw)))
	rtv, _ := r.ReadBits(5)
	me, _ := r.ReadBool()
	inst, _ := r.ReadBool()
	sr, _ := r.ReadBool()
	ae, _ := r.ReadBool()
	pe, _ := r.ReadBool()
	r.ReadBool() // remaining reserved bit.
	br, _ := r.ReadBool()
	busy, _ := r.ReadBool()
	ssf, _ := r.ReadBool()
	dbca, _ := r.ReadBool()
	tf, _ := r.ReadBool()
	return uint8(rtv), StatusFlags{
		MessageError:      me,
		Instrumentation:   inst,
		ServiceRequest:    sr,
		AcceptanceError:   ae,
		ParityError:       pe,
		BroadcastReceived: br,
		Busy:              busy,
		SubsystemFlag:     ssf,
		DBCA:              dbca,
		TerminalFlag:      tf,
	}
}

func encode16(w uint16) []byte {
	return []byte{byte(w >> 8), byte(w)}
}

func decode16(b []byte) uint16 {
	if len(b) < 2 {
		b = append(b, make([]byte, 2-len(b))...)
	}
	return uint16(b[0])<<8 | uint16(b[1])
}
