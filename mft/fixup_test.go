package mft_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowndaisy76/FACT/mft"
)

func buildFixupBuffer(sectorCount int, usn [2]byte) []byte {
	const sectorSize = 512
	b := make([]byte, sectorSize*sectorCount)
	usaOffset := 0x10
	copy(b[usaOffset:], usn[:])
	for i := 0; i < sectorCount; i++ {
		original := []byte{byte(0xA0 + i), byte(0xB0 + i)}
		copy(b[usaOffset+2+i*2:], original)
		trailer := sectorSize*(i+1) - 2
		copy(b[trailer:trailer+2], usn[:])
	}
	return b
}

func TestApplyFixupRestoresTrailers(t *testing.T) {
	usn := [2]byte{0x12, 0x34}
	b := buildFixupBuffer(3, usn)

	fixed, err := mft.ApplyFixup(b, 0x10, 4) // usaCount = sectorCount + 1
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		trailer := 512*(i+1) - 2
		assert.Equal(t, []byte{byte(0xA0 + i), byte(0xB0 + i)}, fixed[trailer:trailer+2])
	}
}

func TestApplyFixupMismatchFails(t *testing.T) {
	usn := [2]byte{0x12, 0x34}
	b := buildFixupBuffer(2, usn)
	b[512-2] = 0xFF // corrupt sector 1's trailing word

	_, err := mft.ApplyFixup(b, 0x10, 3)
	assert.Error(t, err)
}

func TestApplyFixupCountOneDoesNothing(t *testing.T) {
	b := make([]byte, 512)
	b[0x10] = 0xAB
	b[0x11] = 0xCD

	fixed, err := mft.ApplyFixup(b, 0x10, 1)
	require.NoError(t, err)
	assert.Equal(t, b, fixed)
}

func TestApplyFixupDoesNotMutateInput(t *testing.T) {
	usn := [2]byte{0x12, 0x34}
	b := buildFixupBuffer(2, usn)
	original := append([]byte{}, b...)

	_, err := mft.ApplyFixup(b, 0x10, 3)
	require.NoError(t, err)
	assert.Equal(t, original, b, "ApplyFixup must operate on a copy, never the input")
}
