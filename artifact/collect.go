package artifact

import (
	"github.com/crowndaisy76/FACT/mft"
	"github.com/crowndaisy76/FACT/ntfserr"
	"github.com/crowndaisy76/FACT/volume"
)

// DefaultMaxBytes caps a single non-resident $DATA extraction, a safety
// bound for registry hives and similar artifacts. Callers needing a
// different ceiling should use CollectWithLimit.
const DefaultMaxBytes = 100 * 1024 * 1024

// Collector resolves Targets against a volume.Reader and extracts their
// $DATA stream. It does not catch errors across calls: the first failure
// in a Collect aborts that target's extraction, but the Collector itself
// remains usable for the next target.
type Collector struct {
	vol *volume.Reader
}

// NewCollector wraps an already-bootstrapped volume.Reader.
func NewCollector(vol *volume.Reader) *Collector {
	return &Collector{vol: vol}
}

// Collect extracts target's $DATA stream, capped at DefaultMaxBytes for a
// non-resident stream. If the record has no $DATA attribute (legal for a
// directory), Collect returns an empty, non-nil byte slice.
func (c *Collector) Collect(target Target) ([]byte, error) {
	return c.CollectWithLimit(target, DefaultMaxBytes)
}

// CollectWithLimit is Collect with an explicit non-resident read ceiling.
func (c *Collector) CollectWithLimit(target Target, maxBytes int64) ([]byte, error) {
	inode, err := c.resolve(target)
	if err != nil {
		return nil, err
	}

	raw, err := c.vol.ReadRecord(inode)
	if err != nil {
		return nil, err
	}

	record, err := mft.ParseRecord(raw)
	if err != nil {
		return nil, err
	}

	if len(record.FindAttributes(mft.AttributeTypeAttributeList)) > 0 {
		return nil, ntfserr.Unsupported("attribute list spanning base records")
	}

	dataAttrs := record.FindAttributes(mft.AttributeTypeData)
	if len(dataAttrs) == 0 {
		return []byte{}, nil
	}
	attr := dataAttrs[0]

	if attr.Flags.Is(mft.AttributeFlagsCompressed) {
		return nil, ntfserr.Unsupported("compressed $DATA")
	}
	if attr.Flags.Is(mft.AttributeFlagsEncrypted) {
		return nil, ntfserr.Unsupported("encrypted $DATA")
	}

	if attr.Resident {
		return append([]byte{}, attr.Data...), nil
	}

	runs, err := mft.ParseDataRuns(attr.Data)
	if err != nil {
		return nil, err
	}

	readLimit := attr.NonResident.RealSize
	if readLimit > uint64(maxBytes) {
		readLimit = uint64(maxBytes)
	}
	return c.vol.ReadDataFromRunlist(runs, int64(readLimit))
}

func (c *Collector) resolve(target Target) (uint64, error) {
	if target.hasIndex {
		return target.fixedIndex, nil
	}
	return c.vol.InodeByPath(target.path)
}
