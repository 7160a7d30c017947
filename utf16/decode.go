// Package utf16 decodes the UTF-16 encoded names NTFS stores for file names
// and attribute names into Go strings.
package utf16

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// DecodeString decodes b as a sequence of UTF-16 code units in the given
// byte order into a string. b must have an even length.
func DecodeString(b []byte, bo binary.ByteOrder) (string, error) {
	if len(b)%2 != 0 {
		return "", fmt.Errorf("utf16: input must have an even number of bytes, got %d", len(b))
	}

	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = bo.Uint16(b[i*2 : i*2+2])
	}
	return string(utf16.Decode(units)), nil
}

// DecodeLittleEndian is DecodeString with binary.LittleEndian, the byte
// order every UTF-16 field in an NTFS record uses.
func DecodeLittleEndian(b []byte) (string, error) {
	return DecodeString(b, binary.LittleEndian)
}
