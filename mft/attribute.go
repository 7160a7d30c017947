package mft

import (
	"encoding/binary"

	"github.com/crowndaisy76/FACT/binutil"
	"github.com/crowndaisy76/FACT/ntfserr"
	"github.com/crowndaisy76/FACT/utf16"
)

const maxInt = int64(^uint(0) >> 1)

// AttributeType identifies an attribute's kind. Use Name() for a
// human-readable label.
type AttributeType uint32

const (
	AttributeTypeStandardInformation AttributeType = 0x10       // $STANDARD_INFORMATION; always resident
	AttributeTypeAttributeList       AttributeType = 0x20       // $ATTRIBUTE_LIST; mixed residency
	AttributeTypeFileName            AttributeType = 0x30       // $FILE_NAME; always resident
	AttributeTypeObjectId            AttributeType = 0x40       // $OBJECT_ID; always resident
	AttributeTypeSecurityDescriptor  AttributeType = 0x50       // $SECURITY_DESCRIPTOR
	AttributeTypeVolumeName          AttributeType = 0x60       // $VOLUME_NAME
	AttributeTypeVolumeInformation   AttributeType = 0x70       // $VOLUME_INFORMATION
	AttributeTypeData                AttributeType = 0x80       // $DATA; mixed residency
	AttributeTypeIndexRoot           AttributeType = 0x90       // $INDEX_ROOT; always resident
	AttributeTypeIndexAllocation     AttributeType = 0xa0       // $INDEX_ALLOCATION; never resident
	AttributeTypeBitmap              AttributeType = 0xb0       // $BITMAP
	AttributeTypeReparsePoint        AttributeType = 0xc0       // $REPARSE_POINT
	AttributeTypeEAInformation       AttributeType = 0xd0       // $EA_INFORMATION
	AttributeTypeEA                  AttributeType = 0xe0       // $EA
	AttributeTypePropertySet         AttributeType = 0xf0       // $PROPERTY_SET
	AttributeTypeLoggedUtilityStream AttributeType = 0x100      // $LOGGED_UTILITY_STREAM
	AttributeTypeTerminator          AttributeType = 0xFFFFFFFF // marks the end of the chain; never returned
)

// Name returns a human-readable attribute type name, or "unknown".
func (at AttributeType) Name() string {
	switch at {
	case AttributeTypeStandardInformation:
		return "$STANDARD_INFORMATION"
	case AttributeTypeAttributeList:
		return "$ATTRIBUTE_LIST"
	case AttributeTypeFileName:
		return "$FILE_NAME"
	case AttributeTypeObjectId:
		return "$OBJECT_ID"
	case AttributeTypeSecurityDescriptor:
		return "$SECURITY_DESCRIPTOR"
	case AttributeTypeVolumeName:
		return "$VOLUME_NAME"
	case AttributeTypeVolumeInformation:
		return "$VOLUME_INFORMATION"
	case AttributeTypeData:
		return "$DATA"
	case AttributeTypeIndexRoot:
		return "$INDEX_ROOT"
	case AttributeTypeIndexAllocation:
		return "$INDEX_ALLOCATION"
	case AttributeTypeBitmap:
		return "$BITMAP"
	case AttributeTypeReparsePoint:
		return "$REPARSE_POINT"
	case AttributeTypeEAInformation:
		return "$EA_INFORMATION"
	case AttributeTypeEA:
		return "$EA"
	case AttributeTypePropertySet:
		return "$PROPERTY_SET"
	case AttributeTypeLoggedUtilityStream:
		return "$LOGGED_UTILITY_STREAM"
	}
	return "unknown"
}

// AttributeFlags is a bit mask of attribute-wide properties.
type AttributeFlags uint16

const (
	AttributeFlagsCompressed AttributeFlags = 0x0001
	AttributeFlagsEncrypted  AttributeFlags = 0x4000
	AttributeFlagsSparse     AttributeFlags = 0x8000
)

// Is reports whether f's bit mask contains c.
func (f AttributeFlags) Is(c AttributeFlags) bool {
	return f&c == c
}

// Attribute is a decoded attribute header plus its raw body. For a
// resident attribute, Data is the attribute's content, already sliced at
// its own content_offset (never a hardcoded 24, since a named attribute's
// content can start later). For a non-resident attribute, Data is the
// run array, sliced at its own run_array_offset; NonResident holds the
// rest of the non-resident header.
type Attribute struct {
	Type        AttributeType
	Resident    bool
	Name        string
	Flags       AttributeFlags
	AttributeId int
	NonResident NonResidentHeader
	Data        []byte
}

// NonResidentHeader is the fixed part of a non-resident attribute body
// that follows the common 16-byte attribute header.
type NonResidentHeader struct {
	StartingVCN      uint64
	LastVCN          uint64
	RunArrayOffset   int
	CompressionUnit  uint16
	AllocatedSize    uint64
	RealSize         uint64
	InitializedSize  uint64
}

// ParseAttributes walks an attribute chain starting at b, stopping at the
// terminator type code or at the end of b. It returns only attribute
// headers and raw bodies; attribute-specific bodies are decoded separately.
func ParseAttributes(b []byte) ([]Attribute, error) {
	attributes := make([]Attribute, 0)
	r := binutil.NewLittleEndianReader(b)
	offset := 0

	for offset < len(b) {
		attrType, ok := r.TryUint32(offset)
		if !ok {
			return nil, ntfserr.Parsef("attribute chain", "attribute header at offset %d exceeds buffer", offset)
		}
		if attrType == uint32(AttributeTypeTerminator) {
			break
		}

		uRecordLength, ok := r.TryUint32(offset + 0x04)
		if !ok {
			return nil, ntfserr.Parsef("attribute chain", "cannot read record length at offset %d", offset)
		}
		if int64(uRecordLength) > maxInt {
			return nil, ntfserr.Parsef("attribute chain", "record length %d overflows int", uRecordLength)
		}
		recordLength := int(uRecordLength)
		if recordLength <= 0 {
			return nil, ntfserr.Parse("attribute chain", "zero length")
		}

		recordData, ok := r.TryRead(offset, recordLength)
		if !ok {
			return nil, ntfserr.Parsef("attribute chain", "attribute record length %d at offset %d exceeds buffer", recordLength, offset)
		}

		attribute, err := ParseAttribute(recordData)
		if err != nil {
			return nil, err
		}
		attributes = append(attributes, attribute)
		offset += recordLength
	}

	return attributes, nil
}

// ParseAttribute parses a single attribute (header plus body) from b. b
// must contain exactly one attribute record (as sliced out by
// ParseAttributes's recordLength).
func ParseAttribute(b []byte) (Attribute, error) {
	r := binutil.NewLittleEndianReader(b)
	nameLength, ok := r.TryByte(0x09)
	nameOffsetU, ok2 := r.TryUint16(0x0A)
	residentByte, ok3 := r.TryByte(0x08)
	if !ok || !ok2 || !ok3 {
		return Attribute{}, ntfserr.Parsef("attribute", "common header exceeds buffer of length %d", len(b))
	}

	name := ""
	if nameLength != 0 {
		nameBytes, ok := r.TryRead(int(nameOffsetU), int(nameLength)*2)
		if !ok {
			return Attribute{}, ntfserr.Parse("attribute", "name exceeds buffer")
		}
		decoded, err := utf16.DecodeString(nameBytes, binary.LittleEndian)
		if err != nil {
			return Attribute{}, ntfserr.Parsef("attribute", "name: %v", err)
		}
		name = decoded
	}

	resident := residentByte == 0x00
	attr := Attribute{
		Type:        AttributeType(r.Uint32(0)),
		Resident:    resident,
		Name:        name,
		Flags:       AttributeFlags(r.Uint16(0x0C)),
		AttributeId: int(r.Uint16(0x0E)),
	}

	if resident {
		dataOffset, ok1 := r.TryUint16(0x14)
		uDataLength, ok2 := r.TryUint32(0x10)
		if !ok1 || !ok2 {
			return Attribute{}, ntfserr.Parse("attribute", "resident prefix exceeds buffer")
		}
		if int64(uDataLength) > maxInt {
			return Attribute{}, ntfserr.Parsef("attribute", "data length %d overflows int", uDataLength)
		}
		data, ok := r.TryRead(int(dataOffset), int(uDataLength))
		if !ok {
			return Attribute{}, ntfserr.Parsef("attribute", "content_offset %d + length %d exceeds buffer of length %d", dataOffset, uDataLength, len(b))
		}
		attr.Data = binutil.Duplicate(data)
		return attr, nil
	}

	nonResident, ok := parseNonResidentHeader(r)
	if !ok {
		return Attribute{}, ntfserr.Parse("attribute", "non-resident header exceeds buffer")
	}
	attr.NonResident = nonResident

	runArray, ok := r.TryRead(nonResident.RunArrayOffset, len(b)-nonResident.RunArrayOffset)
	if !ok {
		return Attribute{}, ntfserr.Parsef("attribute", "run_array_offset %d exceeds buffer of length %d", nonResident.RunArrayOffset, len(b))
	}
	attr.Data = binutil.Duplicate(runArray)
	return attr, nil
}

func parseNonResidentHeader(r *binutil.Reader) (NonResidentHeader, bool) {
	startingVCN, ok1 := r.TryUint64(0x10)
	lastVCN, ok2 := r.TryUint64(0x18)
	runArrayOffset, ok3 := r.TryUint16(0x20)
	compressionUnit, ok4 := r.TryUint16(0x22)
	allocatedSize, ok5 := r.TryUint64(0x28)
	realSize, ok6 := r.TryUint64(0x30)
	initializedSize, ok7 := r.TryUint64(0x38)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 || !ok7 {
		return NonResidentHeader{}, false
	}
	return NonResidentHeader{
		StartingVCN:     startingVCN,
		LastVCN:         lastVCN,
		RunArrayOffset:  int(runArrayOffset),
		CompressionUnit: compressionUnit,
		AllocatedSize:   allocatedSize,
		RealSize:        realSize,
		InitializedSize: initializedSize,
	}, true
}
