// Package bootsect parses the boot sector (the Volume Boot Record, also
// known as $Boot) of an NTFS volume and derives the volume geometry the
// rest of this module bootstraps from.
package bootsect

import (
	"encoding/binary"
	"math/bits"

	"github.com/go-restruct/restruct"

	"github.com/crowndaisy76/FACT/ntfserr"
)

// Size is the number of leading boot sector bytes Parse decodes (the
// fields up to and including the volume serial number); Parse requires at
// least this many bytes of input.
const Size = 80

// rawBootSector mirrors the on-disk layout of the fields this module reads
// from the boot sector. It is unpacked with restruct rather than by hand
// because every field in it is fixed-offset and fixed-width.
type rawBootSector struct {
	Jump                   [3]byte
	OemID                  [8]byte
	BytesPerSector         uint16
	SectorsPerCluster      int8
	Unused0                [7]byte
	MediaDescriptor        byte
	Unused1                [2]byte
	SectorsPerTrack        uint16
	NumberOfHeads          uint16
	HiddenSectors          uint16
	Unused2                [10]byte
	TotalSectors           uint64
	MftStartLCN            uint64
	MftMirrorStartLCN      uint64
	ClustersPerFileRecord  int8
	Unused3                [3]byte
	ClustersPerIndexBuffer int8
	Unused4                [3]byte
	VolumeSerialNumber     [8]byte
}

// BootSector is the parsed data of an NTFS boot sector. OemId is typically
// "NTFS    " ("NTFS" followed by four trailing spaces) for a valid NTFS
// volume, but this package does not reject other values: the fields it
// validates are the geometry fields the rest of the module depends on.
type BootSector struct {
	OemId                        string
	BytesPerSector               int
	SectorsPerCluster            int
	MediaDescriptor              byte
	SectorsPerTrack              int
	NumberofHeads                int
	HiddenSectors                int
	TotalSectors                 uint64
	MftClusterNumber             uint64
	MftMirrorClusterNumber       uint64
	FileRecordSegmentSizeInBytes int
	IndexBufferSizeInBytes       int
	VolumeSerialNumber           []byte

	// ClusterSize is bytes_per_sector * sectors_per_cluster.
	ClusterSize int
	// MftByteOffset is mft_start_lcn * ClusterSize: the byte offset of the
	// start of the $MFT's first data run.
	MftByteOffset int64
}

// Parse parses the first Size bytes of data as an NTFS boot sector. It
// fails with a ParseError if bytes_per_sector or sectors_per_cluster is
// zero, or if the resulting cluster size is not a power of two in the
// range [512, 2^20].
func Parse(data []byte) (BootSector, error) {
	if len(data) < Size {
		return BootSector{}, ntfserr.Parsef("boot sector", "need at least %d bytes, got %d", Size, len(data))
	}

	var raw rawBootSector
	if err := restruct.Unpack(data[:Size], binary.LittleEndian, &raw); err != nil {
		return BootSector{}, ntfserr.Parsef("boot sector", "unpack: %v", err)
	}

	bytesPerSector := int(raw.BytesPerSector)
	sectorsPerCluster := int(raw.SectorsPerCluster)
	if sectorsPerCluster < 0 {
		// A negative value denotes that a cluster spans 2^|n| sectors rather
		// than n sectors.
		sectorsPerCluster = 1 << -sectorsPerCluster
	}

	if bytesPerSector == 0 || sectorsPerCluster == 0 {
		return BootSector{}, ntfserr.Parse("boot sector", "bytes_per_sector and sectors_per_cluster must be nonzero")
	}

	clusterSize := bytesPerSector * sectorsPerCluster
	if clusterSize < 512 || clusterSize > 1<<20 || bits.OnesCount(uint(clusterSize)) != 1 {
		return BootSector{}, ntfserr.Parsef("boot sector", "cluster size %d is not a power of two in [512, 2^20]", clusterSize)
	}

	if raw.MftStartLCN == 0 {
		return BootSector{}, ntfserr.Parse("boot sector", "mft_start_lcn must be nonzero")
	}

	return BootSector{
		OemId:                        string(raw.OemID[:]),
		BytesPerSector:               bytesPerSector,
		SectorsPerCluster:            sectorsPerCluster,
		MediaDescriptor:              raw.MediaDescriptor,
		SectorsPerTrack:              int(raw.SectorsPerTrack),
		NumberofHeads:                int(raw.NumberOfHeads),
		HiddenSectors:                int(raw.HiddenSectors),
		TotalSectors:                 raw.TotalSectors,
		MftClusterNumber:             raw.MftStartLCN,
		MftMirrorClusterNumber:       raw.MftMirrorStartLCN,
		FileRecordSegmentSizeInBytes: sizeFromSignedByte(raw.ClustersPerFileRecord, clusterSize),
		IndexBufferSizeInBytes:       sizeFromSignedByte(raw.ClustersPerIndexBuffer, clusterSize),
		VolumeSerialNumber:           append([]byte{}, raw.VolumeSerialNumber[:]...),

		ClusterSize:   clusterSize,
		MftByteOffset: int64(raw.MftStartLCN) * int64(clusterSize),
	}, nil
}

// sizeFromSignedByte interprets one of the two "clusters per X" boot sector
// fields: a positive value is a cluster count, a negative value v means the
// size is 2^|v| bytes.
func sizeFromSignedByte(b int8, clusterSize int) int {
	if b < 0 {
		return 1 << -b
	}
	return int(b) * clusterSize
}
