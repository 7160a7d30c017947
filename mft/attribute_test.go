package mft_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowndaisy76/FACT/mft"
)

func buildResidentAttribute(attrType mft.AttributeType, content []byte) []byte {
	const contentOffset = 0x18
	length := contentOffset + len(content)
	b := make([]byte, length)
	binary.LittleEndian.PutUint32(b[0x00:], uint32(attrType))
	binary.LittleEndian.PutUint32(b[0x04:], uint32(length))
	b[0x08] = 0x00 // resident
	b[0x09] = 0    // name length
	binary.LittleEndian.PutUint16(b[0x0C:], 0) // flags
	binary.LittleEndian.PutUint16(b[0x0E:], 5) // attribute id
	binary.LittleEndian.PutUint32(b[0x10:], uint32(len(content)))
	binary.LittleEndian.PutUint16(b[0x14:], contentOffset)
	copy(b[contentOffset:], content)
	return b
}

func buildNonResidentAttribute(attrType mft.AttributeType, runlist []byte) []byte {
	const runArrayOffset = 0x40
	length := runArrayOffset + len(runlist)
	b := make([]byte, length)
	binary.LittleEndian.PutUint32(b[0x00:], uint32(attrType))
	binary.LittleEndian.PutUint32(b[0x04:], uint32(length))
	b[0x08] = 0x01 // non-resident
	b[0x09] = 0    // name length
	binary.LittleEndian.PutUint16(b[0x0E:], 9) // attribute id
	binary.LittleEndian.PutUint64(b[0x18:], 3) // last VCN
	binary.LittleEndian.PutUint16(b[0x20:], runArrayOffset)
	binary.LittleEndian.PutUint64(b[0x28:], 8192) // allocated size
	binary.LittleEndian.PutUint64(b[0x30:], 8000) // real size
	copy(b[runArrayOffset:], runlist)
	return b
}

func TestParseAttributeResident(t *testing.T) {
	content := []byte{0xAA, 0xBB, 0xCC, 0xDD, 1, 2, 3, 4}
	b := buildResidentAttribute(mft.AttributeTypeFileName, content)

	attr, err := mft.ParseAttribute(b)
	require.NoError(t, err)
	assert.Equal(t, mft.AttributeTypeFileName, attr.Type)
	assert.True(t, attr.Resident)
	assert.Equal(t, content, attr.Data)
	assert.Equal(t, 5, attr.AttributeId)
}

func TestParseAttributeResidentEmptyContent(t *testing.T) {
	b := buildResidentAttribute(mft.AttributeTypeData, nil)

	attr, err := mft.ParseAttribute(b)
	require.NoError(t, err)
	assert.Empty(t, attr.Data)
}

func TestParseAttributeNonResident(t *testing.T) {
	runlist := []byte{0x21, 0x18, 0x34, 0x56, 0x00}
	b := buildNonResidentAttribute(mft.AttributeTypeData, runlist)

	attr, err := mft.ParseAttribute(b)
	require.NoError(t, err)
	assert.False(t, attr.Resident)
	assert.Equal(t, runlist, attr.Data)
	assert.EqualValues(t, 8000, attr.NonResident.RealSize)
	assert.EqualValues(t, 3, attr.NonResident.LastVCN)

	runs, err := mft.ParseDataRuns(attr.Data)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.EqualValues(t, 0x5634, runs[0].OffsetCluster)
}

func TestParseAttributesStopsAtTerminator(t *testing.T) {
	a1 := buildResidentAttribute(mft.AttributeTypeStandardInformation, make([]byte, 8))
	terminator := make([]byte, 4)
	binary.LittleEndian.PutUint32(terminator, uint32(mft.AttributeTypeTerminator))
	b := append(a1, terminator...)

	attrs, err := mft.ParseAttributes(b)
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, mft.AttributeTypeStandardInformation, attrs[0].Type)
}

func TestParseAttributesZeroLengthFails(t *testing.T) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b[0x00:], uint32(mft.AttributeTypeData))
	binary.LittleEndian.PutUint32(b[0x04:], 0) // zero length

	_, err := mft.ParseAttributes(b)
	assert.Error(t, err)
}

func TestParseAttributesRecordLengthExceedsBuffer(t *testing.T) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b[0x00:], uint32(mft.AttributeTypeData))
	binary.LittleEndian.PutUint32(b[0x04:], 100)

	_, err := mft.ParseAttributes(b)
	assert.Error(t, err)
}
