// Package binutil contains helpers for reading binary data out of byte
// slices borrowed from a larger buffer, without copying unless asked to.
package binutil

import "encoding/binary"

// Duplicate creates a full copy of the input byte slice.
func Duplicate(in []byte) []byte {
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

// IsOnlyZeroes reports whether every byte in data is zero. An empty slice
// is considered all-zero.
func IsOnlyZeroes(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

// Reader reads values from an underlying byte slice at caller-supplied
// offsets. Unlike a plain slice expression, every accessor except ReadFrom
// also has a bounds-checked Try form that reports failure instead of panicking, so
// on-disk corruption in a variable-length structure (an attribute chain, a
// runlist, an index entry list) surfaces as an error instead of crashing
// whatever is reading a live volume.
type Reader struct {
	data []byte
	bo   binary.ByteOrder
}

// NewReader creates a Reader over data using the given byte order. No copy
// is made; mutating data also mutates what the Reader sees.
func NewReader(data []byte, bo binary.ByteOrder) *Reader {
	return &Reader{data: data, bo: bo}
}

// NewLittleEndianReader creates a Reader over data using binary.LittleEndian,
// the byte order of every NTFS on-disk structure this module decodes.
func NewLittleEndianReader(data []byte) *Reader {
	return NewReader(data, binary.LittleEndian)
}

// Data returns the full backing slice.
func (r *Reader) Data() []byte {
	return r.data
}

// Len returns the length of the backing slice.
func (r *Reader) Len() int {
	return len(r.data)
}

// InBounds reports whether length bytes starting at offset are available.
func (r *Reader) InBounds(offset, length int) bool {
	if offset < 0 || length < 0 {
		return false
	}
	end := offset + length
	if end < offset { // overflow
		return false
	}
	return end <= len(r.data)
}

// Read returns length bytes starting at offset, panicking if out of bounds.
// Use this only once the caller has already established the read is safe
// (for example on a record buffer whose declared length was validated at
// parse time); for untrusted, on-disk-controlled offsets use the Try*
// variants below instead.
func (r *Reader) Read(offset, length int) []byte {
	return r.data[offset : offset+length]
}

// ReadFrom returns every byte from offset to the end of the backing slice.
func (r *Reader) ReadFrom(offset int) []byte {
	return r.data[offset:]
}

// Byte returns the byte at offset.
func (r *Reader) Byte(offset int) byte {
	return r.Read(offset, 1)[0]
}

// Uint16 reads a uint16 at offset using the Reader's byte order.
func (r *Reader) Uint16(offset int) uint16 {
	return r.bo.Uint16(r.Read(offset, 2))
}

// Uint32 reads a uint32 at offset.
func (r *Reader) Uint32(offset int) uint32 {
	return r.bo.Uint32(r.Read(offset, 4))
}

// Uint64 reads a uint64 at offset.
func (r *Reader) Uint64(offset int) uint64 {
	return r.bo.Uint64(r.Read(offset, 8))
}

// TryRead returns length bytes starting at offset, and false if that range
// falls outside the backing slice.
func (r *Reader) TryRead(offset, length int) ([]byte, bool) {
	if !r.InBounds(offset, length) {
		return nil, false
	}
	return r.data[offset : offset+length], true
}

// TryByte is the bounds-checked form of Byte.
func (r *Reader) TryByte(offset int) (byte, bool) {
	b, ok := r.TryRead(offset, 1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

// TryUint16 is the bounds-checked form of Uint16.
func (r *Reader) TryUint16(offset int) (uint16, bool) {
	b, ok := r.TryRead(offset, 2)
	if !ok {
		return 0, false
	}
	return r.bo.Uint16(b), true
}

// TryUint32 is the bounds-checked form of Uint32.
func (r *Reader) TryUint32(offset int) (uint32, bool) {
	b, ok := r.TryRead(offset, 4)
	if !ok {
		return 0, false
	}
	return r.bo.Uint32(b), true
}

// TryUint64 is the bounds-checked form of Uint64.
func (r *Reader) TryUint64(offset int) (uint64, bool) {
	b, ok := r.TryRead(offset, 8)
	if !ok {
		return 0, false
	}
	return r.bo.Uint64(b), true
}

// SignExtend interprets data (1 to 8 bytes, little-endian) as a signed
// integer of that width and widens it to int64, propagating the sign bit.
// This is the width-variable two's-complement widening an NTFS data run's
// offset field needs, since that field can be anywhere from 0 to 8 bytes.
func SignExtend(data []byte) int64 {
	if len(data) == 0 {
		return 0
	}
	padded := make([]byte, 8)
	copy(padded, data)
	if data[len(data)-1]&0x80 != 0 {
		for i := len(data); i < 8; i++ {
			padded[i] = 0xFF
		}
	}
	return int64(binary.LittleEndian.Uint64(padded))
}

// ZeroExtend interprets data (0 to 8 bytes, little-endian) as an unsigned
// integer of that width and widens it to uint64.
func ZeroExtend(data []byte) uint64 {
	if len(data) == 0 {
		return 0
	}
	padded := make([]byte, 8)
	copy(padded, data)
	return binary.LittleEndian.Uint64(padded)
}
