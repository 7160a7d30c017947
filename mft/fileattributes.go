package mft

import (
	"encoding/binary"
	"time"

	"github.com/crowndaisy76/FACT/binutil"
	"github.com/crowndaisy76/FACT/ntfserr"
	"github.com/crowndaisy76/FACT/utf16"
)

// FileAttribute is a bit mask of Windows file attributes, as stored in
// $STANDARD_INFORMATION and $FILE_NAME.
type FileAttribute uint32

const (
	FileAttributeReadOnly          FileAttribute = 0x0001
	FileAttributeHidden            FileAttribute = 0x0002
	FileAttributeSystem            FileAttribute = 0x0004
	FileAttributeArchive           FileAttribute = 0x0020
	FileAttributeDevice            FileAttribute = 0x0040
	FileAttributeNormal            FileAttribute = 0x0080
	FileAttributeTemporary         FileAttribute = 0x0100
	FileAttributeSparseFile        FileAttribute = 0x0200
	FileAttributeReparsePoint      FileAttribute = 0x0400
	FileAttributeCompressed        FileAttribute = 0x0800
	FileAttributeOffline           FileAttribute = 0x1000
	FileAttributeNotContentIndexed FileAttribute = 0x2000
	FileAttributeEncrypted         FileAttribute = 0x4000
)

// StandardInformation is $STANDARD_INFORMATION (type 0x10): file timestamps
// and owner/security/quota bookkeeping. Always resident.
type StandardInformation struct {
	Creation                time.Time
	FileLastModified        time.Time
	MftLastModified         time.Time
	LastAccess              time.Time
	FileAttributes          FileAttribute
	MaximumNumberOfVersions uint32
	VersionNumber           uint32
	ClassId                 uint32
	OwnerId                 uint32
	SecurityId              uint32
	QuotaCharged            uint64
	UpdateSequenceNumber    uint64
}

// ParseStandardInformation decodes a $STANDARD_INFORMATION body. The NTFS
// 1.2 layout is 48 bytes; NTFS 3.0+ adds the fields from OwnerId onward, so
// those are read only when present.
func ParseStandardInformation(b []byte) (StandardInformation, error) {
	if len(b) < 48 {
		return StandardInformation{}, ntfserr.Parsef("$STANDARD_INFORMATION", "need at least 48 bytes, got %d", len(b))
	}

	r := binutil.NewLittleEndianReader(b)
	ownerId, _ := r.TryUint32(0x30)
	securityId, _ := r.TryUint32(0x34)
	quotaCharged, _ := r.TryUint64(0x38)
	updateSequenceNumber, _ := r.TryUint64(0x40)

	return StandardInformation{
		Creation:                ConvertFileTime(r.Uint64(0x00)),
		FileLastModified:        ConvertFileTime(r.Uint64(0x08)),
		MftLastModified:         ConvertFileTime(r.Uint64(0x10)),
		LastAccess:              ConvertFileTime(r.Uint64(0x18)),
		FileAttributes:          FileAttribute(r.Uint32(0x20)),
		MaximumNumberOfVersions: r.Uint32(0x24),
		VersionNumber:           r.Uint32(0x28),
		ClassId:                 r.Uint32(0x2C),
		OwnerId:                 ownerId,
		SecurityId:              securityId,
		QuotaCharged:            quotaCharged,
		UpdateSequenceNumber:    updateSequenceNumber,
	}, nil
}

// FileNameNamespace identifies which naming convention a $FILE_NAME record
// follows (POSIX, Win32, DOS, or the Win32+DOS shared form).
type FileNameNamespace byte

// FileName is $FILE_NAME (type 0x30): a name of the file under one parent
// directory, plus a duplicate of several $STANDARD_INFORMATION fields. A
// file can carry more than one $FILE_NAME (e.g. a long name and an 8.3
// short name).
type FileName struct {
	ParentFileReference FileReference
	Creation            time.Time
	FileLastModified    time.Time
	MftLastModified     time.Time
	LastAccess          time.Time
	AllocatedSize       uint64
	RealSize            uint64
	Flags               FileAttribute
	ExtendedData        uint32
	Namespace           FileNameNamespace
	Name                string
}

// ParseFileName decodes a $FILE_NAME body (or the equivalent stream
// embedded after an index entry's fixed header).
func ParseFileName(b []byte) (FileName, error) {
	if len(b) < 66 {
		return FileName{}, ntfserr.Parsef("$FILE_NAME", "need at least 66 bytes, got %d", len(b))
	}

	nameLength := int(b[0x40]) * 2
	minExpectedSize := 66 + nameLength
	if len(b) < minExpectedSize {
		return FileName{}, ntfserr.Parsef("$FILE_NAME", "name_length implies %d bytes, got %d", minExpectedSize, len(b))
	}

	r := binutil.NewLittleEndianReader(b)
	name, err := utf16.DecodeString(r.Read(0x42, nameLength), binary.LittleEndian)
	if err != nil {
		return FileName{}, ntfserr.Parsef("$FILE_NAME", "name: %v", err)
	}
	parentRef, err := ParseFileReference(r.Read(0x00, 8))
	if err != nil {
		return FileName{}, ntfserr.Parsef("$FILE_NAME", "parent reference: %v", err)
	}

	return FileName{
		ParentFileReference: parentRef,
		Creation:            ConvertFileTime(r.Uint64(0x08)),
		FileLastModified:    ConvertFileTime(r.Uint64(0x10)),
		MftLastModified:     ConvertFileTime(r.Uint64(0x18)),
		LastAccess:          ConvertFileTime(r.Uint64(0x20)),
		AllocatedSize:       r.Uint64(0x28),
		RealSize:            r.Uint64(0x30),
		Flags:               FileAttribute(r.Uint32(0x38)),
		ExtendedData:        r.Uint32(0x3c),
		Namespace:           FileNameNamespace(r.Byte(0x41)),
		Name:                name,
	}, nil
}

// AttributeListEntry is one entry of $ATTRIBUTE_LIST (type 0x20), which
// chains an attribute's storage across more than one MFT record. This
// reader does not follow attribute lists (see artifact.Collector); parsing
// is provided so callers can at least detect and report their presence.
type AttributeListEntry struct {
	Type                AttributeType
	Name                string
	StartingVCN         uint64
	BaseRecordReference FileReference
	AttributeId         uint16
}

// ParseAttributeList decodes a $ATTRIBUTE_LIST body into its entries.
func ParseAttributeList(b []byte) ([]AttributeListEntry, error) {
	entries := make([]AttributeListEntry, 0)
	r := binutil.NewLittleEndianReader(b)
	offset := 0

	for offset < len(b) {
		entryLength, ok := r.TryUint16(offset + 0x04)
		if !ok {
			return entries, ntfserr.Parsef("$ATTRIBUTE_LIST", "entry header at offset %d exceeds buffer", offset)
		}
		if entryLength == 0 {
			break
		}
		entryEnd := offset + int(entryLength)
		if entryEnd > len(b) {
			return entries, ntfserr.Parsef("$ATTRIBUTE_LIST", "entry length %d at offset %d exceeds buffer", entryLength, offset)
		}

		nameLength, _ := r.TryByte(offset + 0x06)
		name := ""
		if nameLength != 0 {
			nameOffset, _ := r.TryByte(offset + 0x07)
			nameBytes, ok := r.TryRead(offset+int(nameOffset), int(nameLength)*2)
			if !ok {
				return entries, ntfserr.Parse("$ATTRIBUTE_LIST", "name exceeds buffer")
			}
			decoded, err := utf16.DecodeString(nameBytes, binary.LittleEndian)
			if err != nil {
				return entries, ntfserr.Parsef("$ATTRIBUTE_LIST", "name: %v", err)
			}
			name = decoded
		}

		baseRef, err := ParseFileReference(r.Read(offset+0x10, 8))
		if err != nil {
			return entries, ntfserr.Parsef("$ATTRIBUTE_LIST", "base record reference: %v", err)
		}

		entries = append(entries, AttributeListEntry{
			Type:                AttributeType(r.Uint32(offset)),
			Name:                name,
			StartingVCN:         r.Uint64(offset + 0x08),
			BaseRecordReference: baseRef,
			AttributeId:         r.Uint16(offset + 0x18),
		})
		offset = entryEnd
	}
	return entries, nil
}

// ConvertFileTime converts an NTFS FILETIME (100-nanosecond intervals since
// 1601-01-01 UTC) into a time.Time.
func ConvertFileTime(timeValue uint64) time.Time {
	// Seconds between 1601-01-01 and the Unix epoch.
	const epochDelta = 11644473600
	return time.Unix(int64(timeValue/10_000_000)-epochDelta, int64(timeValue%10_000_000)*100).UTC()
}
