package volume

import (
	"github.com/crowndaisy76/FACT/mft"
	"github.com/crowndaisy76/FACT/ntfserr"
)

// ListDirectory returns every entry found in the directory's $INDEX_ROOT
// and all valid blocks of its $INDEX_ALLOCATION stream, as a flat union
// (this reader does not descend the B+-tree or follow sub-node pointers).
// A file appearing under more than one name (an 8.3 short name and a long
// name) is returned twice, once per $FILE_NAME stream.
func (r *Reader) ListDirectory(dirInode uint64) ([]mft.IndexEntry, error) {
	raw, err := r.ReadRecord(dirInode)
	if err != nil {
		return nil, err
	}

	record, err := mft.ParseRecord(raw)
	if err != nil {
		return nil, err
	}

	entries := make([]mft.IndexEntry, 0)

	for _, attr := range record.FindAttributes(mft.AttributeTypeIndexRoot) {
		root, err := mft.ParseIndexRoot(attr.Data)
		if err != nil {
			return nil, err
		}
		entries = append(entries, root.Entries...)
	}

	for _, attr := range record.FindAttributes(mft.AttributeTypeIndexAllocation) {
		runs, err := mft.ParseDataRuns(attr.Data)
		if err != nil {
			return nil, err
		}

		stream, err := r.ReadDataFromRunlist(runs, DirectoryStreamCeiling)
		if err != nil {
			return nil, err
		}

		for offset := 0; offset+mft.IndexRecordSize <= len(stream); offset += mft.IndexRecordSize {
			block := stream[offset : offset+mft.IndexRecordSize]
			blockEntries, ok, err := mft.ParseIndexAllocationBlock(block)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			entries = append(entries, blockEntries...)
		}
	}

	if len(entries) == 0 && len(record.FindAttributes(mft.AttributeTypeIndexRoot)) == 0 {
		return nil, ntfserr.Parse("index walker", "record has no $INDEX_ROOT attribute")
	}

	return entries, nil
}
