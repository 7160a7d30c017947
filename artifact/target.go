// Package artifact maps a forensic artifact identifier — a well-known
// fixed MFT index or a `\`-separated path — to the bytes of its $DATA
// stream, via a volume.Reader.
package artifact

// Target names an artifact to collect: either a FixedIndex (a well-known
// MFT record number) or a Path resolved from the volume root. Exactly one
// of FixedIndex/Path should be meaningful; use one of the constructors
// below rather than building a Target by hand.
type Target struct {
	name       string
	fixedIndex uint64
	hasIndex   bool
	path       string
}

// String returns a human-readable label for the target, suitable for
// logging or CLI display.
func (t Target) String() string {
	return t.name
}

// ByIndex builds a Target for a fixed MFT index, labeled name.
func ByIndex(name string, index uint64) Target {
	return Target{name: name, fixedIndex: index, hasIndex: true}
}

// ByPath builds a Target resolved by path from the volume root.
func ByPath(path string) Target {
	return Target{name: path, path: path}
}

// Well-known fixed-index NTFS system files (see the inode table in the
// on-disk format reference this reader targets).
var (
	MFT     = ByIndex("$MFT", 0)
	MFTMirr = ByIndex("$MFTMirr", 1)
	LogFile = ByIndex("$LogFile", 2)
	Volume  = ByIndex("$Volume", 3)
	AttrDef = ByIndex("$AttrDef", 4)
	Root    = ByIndex(".", 5)
	Bitmap  = ByIndex("$Bitmap", 6)
	Boot    = ByIndex("$Boot", 7)
	BadClus = ByIndex("$BadClus", 8)
	Secure  = ByIndex("$Secure", 9)
	UpCase  = ByIndex("$UpCase", 10)
	Extend  = ByIndex("$Extend", 11)
)

// Well-known registry hive targets, resolved by path under
// Windows\System32\config. These supplement the fixed-index targets above
// with the path-based lookups this reader's path resolver makes possible.
var (
	SAM      = ByPath(`Windows\System32\config\SAM`)
	System   = ByPath(`Windows\System32\config\SYSTEM`)
	Security = ByPath(`Windows\System32\config\SECURITY`)
	Software = ByPath(`Windows\System32\config\SOFTWARE`)
)
