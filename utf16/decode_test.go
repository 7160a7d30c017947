package utf16_test

import (
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowndaisy76/FACT/utf16"
)

func TestDecodeStringLittleEndian(t *testing.T) {
	input, err := hex.DecodeString("530041004d00")
	require.NoError(t, err)

	output, err := utf16.DecodeString(input, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, "SAM", output)
}

func TestDecodeStringBigEndian(t *testing.T) {
	input, err := hex.DecodeString("00530041")
	require.NoError(t, err)

	output, err := utf16.DecodeString(input, binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, "SA", output)
}

func TestDecodeLittleEndianHelper(t *testing.T) {
	input, err := hex.DecodeString("24004d00460054000000")
	require.NoError(t, err)

	output, err := utf16.DecodeLittleEndian(input)
	require.NoError(t, err)
	assert.Equal(t, "$MFT\x00", output)
}

func TestDecodeStringOddLength(t *testing.T) {
	_, err := utf16.DecodeString(make([]byte, 3), binary.LittleEndian)
	assert.Error(t, err)
}

func TestDecodeStringEmpty(t *testing.T) {
	output, err := utf16.DecodeString(nil, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, "", output)
}
