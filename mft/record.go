// Package mft decodes NTFS Master File Table records: the file record
// header, its attribute chain, runlists, directory indexes, and the small
// set of attribute bodies this reader understands ($STANDARD_INFORMATION,
// $FILE_NAME, $INDEX_ROOT, $INDEX_ALLOCATION index records).
package mft

import (
	"bytes"

	"github.com/crowndaisy76/FACT/binutil"
	"github.com/crowndaisy76/FACT/ntfserr"
)

var fileSignature = []byte{0x46, 0x49, 0x4c, 0x45} // "FILE"

// RecordSize is the fixed on-disk size of one MFT record under the common
// configuration this reader targets. It is not read from the volume: the
// boot sector's FileRecordSegmentSizeInBytes is not consulted.
const RecordSize = 1024

// FileReference identifies an MFT record: the low 48 bits of an 8-byte
// on-disk reference are the record number, the high 16 bits a sequence
// number used to detect stale references.
type FileReference struct {
	RecordNumber   uint64
	SequenceNumber uint16
}

// ParseFileReference decodes an 8-byte little-endian file reference.
func ParseFileReference(b []byte) (FileReference, error) {
	if len(b) != 8 {
		return FileReference{}, ntfserr.Parsef("file reference", "expected 8 bytes, got %d", len(b))
	}
	return FileReference{
		RecordNumber:   binutil.ZeroExtend(b[:6]),
		SequenceNumber: binutil.NewLittleEndianReader(b).Uint16(6),
	}, nil
}

// RecordFlag is a bit mask describing the status of an MFT record.
type RecordFlag uint16

const (
	RecordFlagInUse       RecordFlag = 0x0001
	RecordFlagIsDirectory RecordFlag = 0x0002
	RecordFlagInExtend    RecordFlag = 0x0004
	RecordFlagIsIndex     RecordFlag = 0x0008
)

// Is reports whether f's bit mask contains c.
func (f RecordFlag) Is(c RecordFlag) bool {
	return f&c == c
}

// RecordHeader is the 48-byte fixed prefix of an MFT record, before the
// attribute chain.
type RecordHeader struct {
	Signature             []byte
	UpdateSequenceOffset  int
	UpdateSequenceCount   int
	LogFileSequenceNumber uint64
	SequenceNumber        uint16
	HardLinkCount         int
	FirstAttributeOffset  int
	Flags                 RecordFlag
	BytesInUse            uint32
	BytesAllocated        uint32
	BaseRecordReference   FileReference
	NextAttributeId       int
	RecordNumber          uint64
}

// ParseRecordHeader parses the fixed-layout prefix of a record. It does not
// apply fixup and does not touch the attribute chain; callers read the
// header first to learn the USA location and first_attr_offset.
func ParseRecordHeader(b []byte) (RecordHeader, error) {
	if len(b) < 48 {
		return RecordHeader{}, ntfserr.Parsef("record header", "need at least 48 bytes, got %d", len(b))
	}
	sig := b[:4]
	if !bytes.Equal(sig, fileSignature) {
		return RecordHeader{}, ntfserr.Parsef("record header", "unknown signature %# x", sig)
	}

	r := binutil.NewLittleEndianReader(b)
	baseRef, err := ParseFileReference(r.Read(0x20, 8))
	if err != nil {
		return RecordHeader{}, ntfserr.Parsef("record header", "base record reference: %v", err)
	}

	firstAttributeOffset := int(r.Uint16(0x14))
	if firstAttributeOffset < 0 || firstAttributeOffset >= len(b) {
		return RecordHeader{}, ntfserr.Parsef("record header", "first attribute offset %d out of bounds (length %d)", firstAttributeOffset, len(b))
	}

	return RecordHeader{
		Signature:             binutil.Duplicate(sig),
		UpdateSequenceOffset:  int(r.Uint16(0x04)),
		UpdateSequenceCount:   int(r.Uint16(0x06)),
		LogFileSequenceNumber: r.Uint64(0x08),
		SequenceNumber:        r.Uint16(0x10),
		HardLinkCount:         int(r.Uint16(0x12)),
		FirstAttributeOffset:  firstAttributeOffset,
		Flags:                 RecordFlag(r.Uint16(0x16)),
		BytesInUse:            r.Uint32(0x18),
		BytesAllocated:        r.Uint32(0x1C),
		BaseRecordReference:   baseRef,
		NextAttributeId:       int(r.Uint16(0x28)),
		RecordNumber:          uint64(r.Uint32(0x2C)),
	}, nil
}

// Record is a fully decoded MFT entry: its header plus the attribute
// chain, after fixup has been applied. Attribute bodies beyond the common
// header are not parsed here; use the Parse* functions in fileattributes.go
// and index.go on an Attribute's Data.
type Record struct {
	Header     RecordHeader
	Attributes []Attribute
}

// ParseRecord applies fixup to b and decodes the record header and
// attribute chain. b is assumed little-endian and RecordSize-or-a-multiple
// -of-512 bytes; it fails with a ParseError on bad signature, bad fixup, or
// a malformed attribute chain.
func ParseRecord(b []byte) (Record, error) {
	header, err := ParseRecordHeader(b)
	if err != nil {
		return Record{}, err
	}

	fixed, err := ApplyFixup(b, header.UpdateSequenceOffset, header.UpdateSequenceCount)
	if err != nil {
		return Record{}, err
	}

	attributes, err := ParseAttributes(fixed[header.FirstAttributeOffset:])
	if err != nil {
		return Record{}, err
	}

	return Record{Header: header, Attributes: attributes}, nil
}

// FindAttributes returns every attribute of the given type, in physical
// order. An empty (non-nil) slice is returned when there are no matches.
func (r *Record) FindAttributes(attrType AttributeType) []Attribute {
	ret := make([]Attribute, 0)
	for _, a := range r.Attributes {
		if a.Type == attrType {
			ret = append(ret, a)
		}
	}
	return ret
}
