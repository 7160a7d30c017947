package mft

import (
	"github.com/crowndaisy76/FACT/binutil"
	"github.com/crowndaisy76/FACT/fragment"
	"github.com/crowndaisy76/FACT/ntfserr"
)

// DataRun is one decoded entry of an NTFS runlist: a contiguous extent of
// clusters. OffsetCluster is relative to the previous run's resolved LCN
// (the first run's offset is relative to 0 clusters). Callers needing
// absolute LCNs should accumulate OffsetCluster themselves, or use
// DataRunsToFragments, which does that and converts to byte offsets.
type DataRun struct {
	OffsetCluster    int64
	LengthInClusters uint64
	// Sparse is true when the run's offset field had zero width (O == 0):
	// the run has a VCN length but no physical backing on the volume.
	Sparse bool
}

// ParseDataRuns decodes an NTFS runlist. Each run's header byte packs the
// byte-width of the following length field in its low nibble and the
// byte-width of the signed offset field in its high nibble; a header byte
// of 0 terminates the list.
func ParseDataRuns(b []byte) ([]DataRun, error) {
	runs := make([]DataRun, 0)
	r := binutil.NewLittleEndianReader(b)
	offset := 0

	for offset < len(b) {
		header, ok := r.TryByte(offset)
		if !ok {
			return nil, ntfserr.Parsef("runlist", "header byte at offset %d exceeds buffer", offset)
		}
		if header == 0 {
			break
		}

		lengthWidth := int(header & 0x0F)
		offsetWidth := int(header >> 4)

		lengthBytes, ok := r.TryRead(offset+1, lengthWidth)
		if !ok {
			return nil, ntfserr.Parsef("runlist", "length field at offset %d exceeds buffer", offset+1)
		}
		offsetBytes, ok := r.TryRead(offset+1+lengthWidth, offsetWidth)
		if !ok {
			return nil, ntfserr.Parsef("runlist", "offset field at offset %d exceeds buffer", offset+1+lengthWidth)
		}

		runs = append(runs, DataRun{
			LengthInClusters: binutil.ZeroExtend(lengthBytes),
			OffsetCluster:    binutil.SignExtend(offsetBytes),
			Sparse:           offsetWidth == 0,
		})

		offset += 1 + lengthWidth + offsetWidth
	}

	return runs, nil
}

// DataRunsToFragments converts a runlist with cluster-relative offsets and
// lengths into absolute-byte fragment.Fragments, suitable for a
// fragment.Reader. A sparse run contributes no fragment (its length
// advances the VCN accumulator in NTFS but this reader does not support
// reading sparse data; see ResolveExtents for the point where that is
// enforced).
func DataRunsToFragments(runs []DataRun, clusterSize int) []fragment.Fragment {
	frags := make([]fragment.Fragment, 0, len(runs))
	previousLCN := int64(0)
	for _, run := range runs {
		absoluteLCN := previousLCN + run.OffsetCluster
		if !run.Sparse {
			frags = append(frags, fragment.Fragment{
				Offset: absoluteLCN * int64(clusterSize),
				Length: int64(run.LengthInClusters) * int64(clusterSize),
			})
		}
		previousLCN = absoluteLCN
	}
	return frags
}

// ResolveExtents is DataRunsToFragments with an explicit rejection of
// sparse runs, for callers (artifact extraction) that must fail loudly
// instead of silently reading a shorter stream than real_size promises.
func ResolveExtents(runs []DataRun, clusterSize int) ([]fragment.Fragment, error) {
	for _, run := range runs {
		if run.Sparse {
			return nil, ntfserr.Unsupported("sparse data run")
		}
	}
	return DataRunsToFragments(runs, clusterSize), nil
}
