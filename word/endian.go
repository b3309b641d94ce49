/*
NAME
  endian.go - little-endian typed byte writers.

DESCRIPTION
  Every integer serialized to a Chapter 10 file is explicitly little-endian
  at the byte-write call, per spec.md §9; these helpers make that explicit
  rather than relying on host endianness anywhere in the packet builder.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the ch10gen project contributors.
*/

package word

import "encoding/binary"

// WriteU16LE appends v to dst in little-endian order.
func WriteU16LE(dst []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(dst, v)
}

// WriteU32LE appends v to dst in little-endian order.
func WriteU32LE(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

// WriteU64LE appends v to dst in little-endian order.
func WriteU64LE(dst []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, v)
}

// WriteU48LE appends the low 48 bits of v to dst in little-endian order, the
// width used for the Chapter 10 header's relative time counter.
func WriteU48LE(dst []byte, v uint64) []byte {
	var b [6]byte
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	return append(dst, b[:]...)
}

// ReadU16LE reads a little-endian uint16 from the front of b.
func ReadU16LE(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

// ReadU32LE reads a little-endian uint32 from the front of b.
func ReadU32LE(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// ReadU48LE reads a little-endian 48-bit value from the front of b.
func ReadU48LE(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 |
		uint64(b[3])<<24 | uint64(b[4])<<32 | uint64(b[5])<<40
}

// ReadU64LE reads a little-endian uint64 from the front of b.
func ReadU64LE(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}
