package mft

import (
	"bytes"

	"github.com/crowndaisy76/FACT/binutil"
	"github.com/crowndaisy76/FACT/ntfserr"
)

// CollationType identifies how an index's entries are ordered.
type CollationType uint32

const (
	CollationTypeBinary            CollationType = 0x00000000
	CollationTypeFileName          CollationType = 0x00000001
	CollationTypeUnicodeString     CollationType = 0x00000002
	CollationTypeNtofsULong        CollationType = 0x00000010
	CollationTypeNtofsSid          CollationType = 0x00000011
	CollationTypeNtofsSecurityHash CollationType = 0x00000012
	CollationTypeNtofsUlongs       CollationType = 0x00000013
)

// IndexEntryFlag is a bit mask on an IndexEntry's flags field.
type IndexEntryFlag uint32

const (
	// IndexEntryFlagPointsToSubNode marks an entry that carries a child VCN
	// pointer (interior B-tree node). This reader does not descend; see
	// volume.ListDirectory, which unions all index nodes as a flat set.
	IndexEntryFlagPointsToSubNode IndexEntryFlag = 0x01
	// IndexEntryFlagLastInNode marks the terminal, content-less entry of a
	// node.
	IndexEntryFlagLastInNode IndexEntryFlag = 0x02
)

// IndexEntry is one child reference in a directory index: a file reference
// plus (usually) the $FILE_NAME stream for that name.
type IndexEntry struct {
	FileReference FileReference
	Flags         uint32
	FileName      FileName
	SubNodeVCN    uint64
}

// IndexRoot is $INDEX_ROOT (type 0x90): the always-resident root of a
// directory's index, holding the fixed index parameters and the entries
// that fit inline.
type IndexRoot struct {
	AttributeType     AttributeType
	CollationType     CollationType
	BytesPerRecord    uint32
	ClustersPerRecord uint32
	Flags             uint32
	Entries           []IndexEntry
}

// ParseIndexRoot decodes an $INDEX_ROOT body. Only AttributeTypeFileName
// indexes (ordinary directories) are supported.
func ParseIndexRoot(b []byte) (IndexRoot, error) {
	if len(b) < 32 {
		return IndexRoot{}, ntfserr.Parsef("$INDEX_ROOT", "need at least 32 bytes, got %d", len(b))
	}
	r := binutil.NewLittleEndianReader(b)
	attributeType := AttributeType(r.Uint32(0x00))
	if attributeType != AttributeTypeFileName {
		return IndexRoot{}, ntfserr.Unsupported("index attribute type " + attributeType.Name())
	}

	totalSize := int(r.Uint32(0x14))
	firstEntryOffset := int(r.Uint32(0x10))
	if totalSize < firstEntryOffset {
		return IndexRoot{}, ntfserr.Parsef("$INDEX_ROOT", "total_size_of_entries %d smaller than first_entry_offset %d", totalSize, firstEntryOffset)
	}
	entryData, ok := r.TryRead(0x10+firstEntryOffset, totalSize-firstEntryOffset)
	if !ok {
		return IndexRoot{}, ntfserr.Parsef("$INDEX_ROOT", "total_size_of_entries %d exceeds buffer of length %d", totalSize, len(b))
	}

	entries, err := parseIndexEntries(entryData)
	if err != nil {
		return IndexRoot{}, err
	}

	return IndexRoot{
		AttributeType:     attributeType,
		CollationType:     CollationType(r.Uint32(0x04)),
		BytesPerRecord:    r.Uint32(0x08),
		ClustersPerRecord: r.Uint32(0x0C),
		Flags:             r.Uint32(0x1C),
		Entries:           entries,
	}, nil
}

var indexRecordSignature = []byte{0x49, 0x4e, 0x44, 0x58} // "INDX"

// IndexRecordSize is the fixed block size of one $INDEX_ALLOCATION unit.
const IndexRecordSize = 4096

// IndexRecordHeader is the header of one 4096-byte INDX block within
// $INDEX_ALLOCATION, before fixup.
type IndexRecordHeader struct {
	VCN                  uint64
	UpdateSequenceOffset int
	UpdateSequenceCount  int
}

// ParseIndexAllocationBlock applies fixup to one IndexRecordSize-byte block
// and, if its signature is "INDX", returns the entries in it. Blocks with
// any other signature (unused slots, or "BAAD") are not an error: ok is
// false and the caller should skip the block silently.
func ParseIndexAllocationBlock(b []byte) (entries []IndexEntry, ok bool, err error) {
	if len(b) < IndexRecordSize {
		return nil, false, ntfserr.Parsef("$INDEX_ALLOCATION", "block is %d bytes, want %d", len(b), IndexRecordSize)
	}
	if !bytes.Equal(b[:4], indexRecordSignature) {
		return nil, false, nil
	}

	r := binutil.NewLittleEndianReader(b)
	usaOffset := int(r.Uint16(0x04))
	usaCount := int(r.Uint16(0x06))

	fixed, err := ApplyFixup(b, usaOffset, usaCount)
	if err != nil {
		return nil, true, err
	}

	fr := binutil.NewLittleEndianReader(fixed)
	firstEntryOffset := int(fr.Uint32(0x18))
	totalSizeOfEntries := int(fr.Uint32(0x1C))
	if totalSizeOfEntries < 16 {
		return nil, true, ntfserr.Parsef("$INDEX_ALLOCATION", "total_size_of_entries %d too small", totalSizeOfEntries)
	}

	const indexHeaderStart = 0x18
	entryStart := indexHeaderStart + firstEntryOffset
	entryLength := totalSizeOfEntries - firstEntryOffset
	entryData, okRange := fr.TryRead(entryStart, entryLength)
	if !okRange {
		return nil, true, ntfserr.Parsef("$INDEX_ALLOCATION", "entries at offset %d, length %d exceed block", entryStart, entryLength)
	}

	entries, err = parseIndexEntries(entryData)
	if err != nil {
		return nil, true, err
	}
	return entries, true, nil
}

func parseIndexEntries(b []byte) ([]IndexEntry, error) {
	entries := make([]IndexEntry, 0)
	r := binutil.NewLittleEndianReader(b)
	offset := 0

	for offset < len(b) {
		entryLength, ok := r.TryUint16(offset + 0x08)
		if !ok {
			return entries, ntfserr.Parsef("index entry", "header at offset %d exceeds buffer", offset)
		}
		if entryLength == 0 {
			break
		}
		if offset+int(entryLength) > len(b) {
			return entries, ntfserr.Parsef("index entry", "length %d at offset %d exceeds buffer of length %d", entryLength, offset, len(b))
		}

		flags, _ := r.TryUint32(offset + 0x0C)
		pointsToSubNode := IndexEntryFlag(flags).pointsToSubNode()
		isLastInNode := IndexEntryFlag(flags).lastInNode()
		contentLength, _ := r.TryUint16(offset + 0x0A)

		fileReference, err := ParseFileReference(r.Read(offset+0x00, 8))
		if err != nil {
			return entries, ntfserr.Parsef("index entry", "file reference: %v", err)
		}

		fileName := FileName{}
		if contentLength != 0 && !isLastInNode {
			data, ok := r.TryRead(offset+0x10, int(contentLength))
			if !ok {
				return entries, ntfserr.Parse("index entry", "$FILE_NAME stream exceeds buffer")
			}
			parsed, err := ParseFileName(data)
			if err != nil {
				return entries, ntfserr.Parsef("index entry", "$FILE_NAME: %v", err)
			}
			fileName = parsed
		}

		subNodeVCN := uint64(0)
		if pointsToSubNode {
			subNodeVCN, _ = r.TryUint64(offset + int(entryLength) - 8)
		}

		if fileName.Name != "" {
			entries = append(entries, IndexEntry{
				FileReference: fileReference,
				Flags:         flags,
				FileName:      fileName,
				SubNodeVCN:    subNodeVCN,
			})
		}

		if isLastInNode {
			break
		}
		offset += int(entryLength)
	}
	return entries, nil
}

func (f IndexEntryFlag) pointsToSubNode() bool { return f&IndexEntryFlagPointsToSubNode != 0 }
func (f IndexEntryFlag) lastInNode() bool      { return f&IndexEntryFlagLastInNode != 0 }
