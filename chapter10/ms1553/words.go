/*
NAME
  words.go - raw 1553 word ordering per transfer direction (C6 §4.6).

DESCRIPTION
  OrderWords arranges a message's command/status/data words into the wire
  order spec.md §4.6 specifies per TR:
    BC2RT:    command, data*wc, status
    RT2BC:    command, status, data*wc
    RT2RT:    receive-command, transmit-command, transmit-status, data*wc, receive-status
    ModeCode: command, status (data present only for mode codes that carry one)

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package ms1553

import "github.com/Anthonymm0994/ch10-1553-flightgen/word"

// RTRTCommands carries the two command words an RT2RT transfer requires:
// the receive command (addressed to the receiving RT) and the transmit
// command (addressed to the transmitting RT).
type RTRTCommands struct {
	Receive  uint16
	Transmit uint16
}

// OrderWords arranges one message's words for the wire per tr.
//
// command is the primary command word (BC2RT/RT2BC/ModeCode); for RT2RT,
// rtrt carries both command words and command is ignored. status is the
// responding RT's status word; for RT2RT, transmitStatus/receiveStatus
// bracket the data per spec.md §4.6 and status is ignored.
func OrderWords(tr word.TR, command uint16, rtrt RTRTCommands, data []uint16, status, transmitStatus, receiveStatus uint16) []uint16 {
	switch tr {
	case word.BC2RT:
		out := make([]uint16, 0, 2+len(data))
		out = append(out, command)
		out = append(out, data...)
		out = append(out, status)
		return out

	case word.RT2BC:
		out := make([]uint16, 0, 2+len(data))
		out = append(out, command, status)
		out = append(out, data...)
		return out

	case word.RT2RT:
		out := make([]uint16, 0, 3+len(data))
		out = append(out, rtrt.Receive, rtrt.Transmit, transmitStatus)
		out = append(out, data...)
		out = append(out, receiveStatus)
		return out

	case word.ModeCode:
		out := make([]uint16, 0, 2+len(data))
		out = append(out, command)
		out = append(out, data...)
		out = append(out, status)
		return out

	default:
		return append([]uint16{command}, status)
	}
}
