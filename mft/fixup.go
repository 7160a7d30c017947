package mft

import (
	"bytes"

	"github.com/crowndaisy76/FACT/binutil"
	"github.com/crowndaisy76/FACT/ntfserr"
)

// ApplyFixup applies the NTFS Update Sequence Array repair to a copy of b
// and returns the repaired copy. usaOffset and usaCount come from the
// record or INDX block header: the first two bytes at usaOffset are the
// Update Sequence Number (USN); the following 2*(usaCount-1) bytes are the
// original sector-trailing words that the on-disk sectors had those two
// bytes swapped out for.
//
// b's length must be a whole multiple of 512. A mismatch between a
// sector's trailing word and the USN fails the whole record: ApplyFixup
// does not attempt partial recovery.
func ApplyFixup(b []byte, usaOffset int, usaCount int) ([]byte, error) {
	if usaCount == 0 {
		return binutil.Duplicate(b), nil
	}

	r := binutil.NewLittleEndianReader(b)
	usaBytes, ok := r.TryRead(usaOffset, usaCount*2)
	if !ok {
		return nil, ntfserr.Parsef("fixup", "update sequence array at offset %d, count %d exceeds record length %d", usaOffset, usaCount, len(b))
	}

	usn := usaBytes[:2]
	originals := usaBytes[2:]

	sectorCount := len(originals) / 2
	if sectorCount == 0 {
		return binutil.Duplicate(b), nil
	}
	if len(b)%512 != 0 {
		return nil, ntfserr.Parsef("fixup", "record length %d is not a multiple of 512", len(b))
	}
	sectorSize := len(b) / sectorCount

	out := binutil.Duplicate(b)
	for i := 0; i < sectorCount; i++ {
		trailerOffset := sectorSize*(i+1) - 2
		if !bytes.Equal(usn, out[trailerOffset:trailerOffset+2]) {
			return nil, ntfserr.Parse("fixup", "fixup mismatch")
		}
	}

	for i := 0; i < sectorCount; i++ {
		trailerOffset := sectorSize*(i+1) - 2
		copy(out[trailerOffset:trailerOffset+2], originals[i*2:i*2+2])
	}

	return out, nil
}
