// Package volume bootstraps an NTFS $MFT reader over a raw, seekable
// volume source and serves record lookups and directory listings from it.
// It owns the only state that has to survive across calls: the volume
// geometry and the $MFT's own runlist, both fixed at Open time.
package volume

import (
	"io"
	"sync"

	"github.com/crowndaisy76/FACT/bootsect"
	"github.com/crowndaisy76/FACT/fragment"
	"github.com/crowndaisy76/FACT/mft"
	"github.com/crowndaisy76/FACT/ntfserr"
)

// RootInode is the well-known MFT index of the NTFS volume root directory.
const RootInode = 5

// DirectoryStreamCeiling bounds how many bytes of a directory's
// $INDEX_ALLOCATION stream ListDirectory will read, guarding against a
// pathologically large or corrupt directory driving unbounded allocation.
const DirectoryStreamCeiling = 20 * 1024 * 1024

// Reader bootstraps itself from a volume's boot sector and $MFT entry 0,
// then serves ReadRecord/ReadDataFromRunlist/ListDirectory calls against
// that volume. Reader owns src for its lifetime: seek+read sequences are
// not atomic, so concurrent calls are serialized with an internal mutex
// rather than left to the caller to coordinate.
type Reader struct {
	mu  sync.Mutex
	src io.ReadSeeker

	boot    bootsect.BootSector
	mftRuns []mft.DataRun
}

// Open reads the boot sector and bootstraps the $MFT runlist from entry 0.
// It fails with a ParseError if entry 0's $DATA attribute is missing or
// resident (the $MFT's own data must live in external clusters).
func Open(src io.ReadSeeker) (*Reader, error) {
	bootBytes := make([]byte, 512)
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, ntfserr.IO(err)
	}
	if _, err := io.ReadFull(src, bootBytes); err != nil {
		return nil, ntfserr.IO(err)
	}

	boot, err := bootsect.Parse(bootBytes)
	if err != nil {
		return nil, err
	}

	r := &Reader{src: src, boot: boot}

	if _, err := src.Seek(boot.MftByteOffset, io.SeekStart); err != nil {
		return nil, ntfserr.IO(err)
	}
	recordZero := make([]byte, mft.RecordSize)
	if _, err := io.ReadFull(src, recordZero); err != nil {
		return nil, ntfserr.IO(err)
	}

	record, err := mft.ParseRecord(recordZero)
	if err != nil {
		return nil, err
	}

	dataAttrs := record.FindAttributes(mft.AttributeTypeData)
	var dataAttr *mft.Attribute
	for i := range dataAttrs {
		if !dataAttrs[i].Resident {
			dataAttr = &dataAttrs[i]
			break
		}
	}
	if dataAttr == nil {
		return nil, ntfserr.Parse("$MFT bootstrap", "entry 0 has no non-resident $DATA attribute")
	}

	runs, err := mft.ParseDataRuns(dataAttr.Data)
	if err != nil {
		return nil, err
	}
	r.mftRuns = runs

	return r, nil
}

// ClusterSize returns the volume's cluster size in bytes.
func (r *Reader) ClusterSize() int {
	return r.boot.ClusterSize
}

// ReadRecord reads the raw, not-yet-fixed-up RecordSize-byte MFT record at
// index, translating the index to a physical offset by walking the $MFT
// runlist. It fails with IndexOutOfRange if index lies beyond the VCN
// range the runlist covers. Callers parse the result with mft.ParseRecord,
// which applies fixup itself; applying fixup here as well would run it
// twice on the same buffer, which is not idempotent (see mft.ApplyFixup).
func (r *Reader) ReadRecord(index uint64) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clusterSize := int64(r.boot.ClusterSize)
	v := int64(index) * int64(mft.RecordSize)
	targetVCN := v / clusterSize
	offsetInCluster := v % clusterSize

	runBaseVCN := int64(0)
	previousLCN := int64(0)
	for _, run := range r.mftRuns {
		absoluteLCN := previousLCN + run.OffsetCluster
		runLength := int64(run.LengthInClusters)

		if targetVCN >= runBaseVCN && targetVCN < runBaseVCN+runLength {
			if run.Sparse {
				return nil, ntfserr.Unsupported("sparse run in $MFT runlist")
			}
			physicalOffset := (absoluteLCN+(targetVCN-runBaseVCN))*clusterSize + offsetInCluster
			return r.readRecordAt(physicalOffset)
		}

		runBaseVCN += runLength
		previousLCN = absoluteLCN
	}

	return nil, ntfserr.IndexOutOfRange(index)
}

func (r *Reader) readRecordAt(physicalOffset int64) ([]byte, error) {
	if _, err := r.src.Seek(physicalOffset, io.SeekStart); err != nil {
		return nil, ntfserr.IO(err)
	}
	raw := make([]byte, mft.RecordSize)
	if _, err := io.ReadFull(r.src, raw); err != nil {
		return nil, ntfserr.IO(err)
	}
	return raw, nil
}

// ReadDataFromRunlist concatenates raw bytes from successive runs, up to
// maxBytes, without applying fixup (this is file data, not a metadata
// record). It fails with UnsupportedFormat if any run is sparse.
func (r *Reader) ReadDataFromRunlist(runs []mft.DataRun, maxBytes int64) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frags, err := mft.ResolveExtents(runs, r.boot.ClusterSize)
	if err != nil {
		return nil, err
	}

	fr := fragment.NewReader(r.src, frags)
	limited := io.LimitReader(fr, maxBytes)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, ntfserr.IO(err)
	}
	return data, nil
}
