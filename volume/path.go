package volume

import (
	"strings"

	"github.com/crowndaisy76/FACT/ntfserr"
)

// InodeByPath resolves a `\`-separated path from the volume root (inode 5)
// to an MFT index. Matching is ASCII case-insensitive, an acceptable
// approximation of NTFS's Unicode upcase-table collation for the ASCII
// artifact paths this reader targets.
func (r *Reader) InodeByPath(path string) (uint64, error) {
	current := uint64(RootInode)

	for _, segment := range strings.Split(path, `\`) {
		if segment == "" {
			continue
		}

		entries, err := r.ListDirectory(current)
		if err != nil {
			return 0, err
		}

		found := false
		for _, entry := range entries {
			if strings.EqualFold(entry.FileName.Name, segment) {
				current = entry.FileReference.RecordNumber
				found = true
				break
			}
		}
		if !found {
			return 0, ntfserr.PathNotFound(segment)
		}
	}

	return current, nil
}
