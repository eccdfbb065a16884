// Package codec decodes raw Solana account buffers into typed records.
//
// The pool account is a zero-copy #[repr(C)] struct, not Borsh, so it is
// read at fixed offsets: every field has a static width and multi-byte
// integers are little-endian. Each layout is a single descriptor table
// consumed by one generic routine, so the offset arithmetic lives in
// exactly one place.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTruncatedRecord is returned when a buffer is shorter than the layout
// requires. Length is verified before every read; decoding never touches
// bytes past the supplied buffer and never returns a partial record.
var ErrTruncatedRecord = errors.New("truncated record")

// Anchor accounts carry an 8-byte type discriminator before the payload.
const discriminatorLen = 8

type field struct {
	name  string
	width int
	// read consumes exactly width bytes. nil means skip (discriminator,
	// alignment padding, reserved tail).
	read func(b []byte)
}

// decode walks the layout over buf, checking the remaining length before
// each field.
func decode(buf []byte, layout []field) error {
	off := 0
	for _, f := range layout {
		if len(buf)-off < f.width {
			return fmt.Errorf("%w: need %d bytes for %s at offset %d, have %d",
				ErrTruncatedRecord, f.width, f.name, off, len(buf)-off)
		}
		if f.read != nil {
			f.read(buf[off : off+f.width])
		}
		off += f.width
	}
	return nil
}

func u64Field(name string, dst *uint64) field {
	return field{name, 8, func(b []byte) { *dst = binary.LittleEndian.Uint64(b) }}
}

func i64Field(name string, dst *int64) field {
	return field{name, 8, func(b []byte) { *dst = int64(binary.LittleEndian.Uint64(b)) }}
}

func u8Field(name string, dst *uint8) field {
	return field{name, 1, func(b []byte) { *dst = b[0] }}
}

func boolField(name string, dst *bool) field {
	return field{name, 1, func(b []byte) { *dst = b[0] != 0 }}
}

func keyField(name string, dst *[32]byte) field {
	return field{name, 32, func(b []byte) { copy(dst[:], b) }}
}

// u64VectorField reads count little-endian u64 values from the head of a
// width-byte region; any remainder is reserved space.
func u64VectorField(name string, width, count int, dst *[]uint64) field {
	return field{name, width, func(b []byte) {
		out := make([]uint64, count)
		for i := range out {
			out[i] = binary.LittleEndian.Uint64(b[i*8:])
		}
		*dst = out
	}}
}

func skip(name string, width int) field {
	return field{name, width, nil}
}
