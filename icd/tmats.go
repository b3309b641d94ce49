/*
NAME
  tmats.go - ICD-derived TMATS channel/message catalogue.

DESCRIPTION
  TMATSChannels derives the channel and message catalogue consumed by
  chapter10/tmats directly from the loaded model, so TMATS generation never
  re-parses the source document.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package icd

// TMATSMessage is the subset of a Message's addressing that TMATS reports.
type TMATSMessage struct {
	Name   string
	RT     uint8
	TR     string
	SA     uint8
	WC     uint8
	RateHz float64
}

// TMATSChannels returns the message catalogue for the ICD's single 1553 bus,
// in declaration order, for use by chapter10/tmats.Build.
func (d *ICD) TMATSChannels() []TMATSMessage {
	out := make([]TMATSMessage, 0, len(d.Messages))
	for _, m := range d.Messages {
		out = append(out, TMATSMessage{
			Name:   m.Name,
			RT:     m.RT,
			TR:     m.TR.String(),
			SA:     m.SA,
			WC:     m.WC,
			RateHz: m.RateHz,
		})
	}
	return out
}
