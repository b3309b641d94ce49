/*
NAME
  kv.go - TMATS semicolon-terminated key/value serialization.

DESCRIPTION
  TMATS text is a flat stream of "Code:Value;" records. kvWriter assembles
  one in declaration order, the way pes.Packet.Bytes(buf []byte) assembles a
  byte-table payload into a reusable buffer.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package tmats

import "fmt"

// kvWriter accumulates ordered TMATS records.
type kvWriter struct {
	buf []byte
}

func (w *kvWriter) add(code, value string) {
	w.buf = append(w.buf, code...)
	w.buf = append(w.buf, ':')
	w.buf = append(w.buf, value...)
	w.buf = append(w.buf, ';', '\n')
}

func (w *kvWriter) addf(code, format string, args ...interface{}) {
	w.add(code, fmt.Sprintf(format, args...))
}

func (w *kvWriter) bytes() []byte { return w.buf }
