// Package ntfserr defines the error taxonomy the NTFS reader surfaces to its
// callers. Each kind is its own type so a caller can distinguish them with
// errors.As instead of string-matching a message.
package ntfserr

import "fmt"

// IOError wraps a failure performing a seek or read against the underlying
// volume handle.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("io error: %v", e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// IO wraps err as an IOError. Returns nil if err is nil.
func IO(err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Err: err}
}

// ParseError reports a malformed on-disk structure: a bad signature, a
// zero-length attribute, a runlist that reads past its buffer, an update
// sequence mismatch, and so on.
type ParseError struct {
	Artifact string
	Detail   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Artifact, e.Detail)
}

// Parse builds a ParseError for the named artifact with the given detail.
func Parse(artifact, detail string) error {
	return &ParseError{Artifact: artifact, Detail: detail}
}

// Parsef is Parse with a formatted detail message.
func Parsef(artifact, format string, args ...interface{}) error {
	return &ParseError{Artifact: artifact, Detail: fmt.Sprintf(format, args...)}
}

// PathNotFoundError reports that a path component could not be resolved
// while walking a directory index from the volume root.
type PathNotFoundError struct {
	Segment string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path component not found: %q", e.Segment)
}

// PathNotFound builds a PathNotFoundError for segment.
func PathNotFound(segment string) error {
	return &PathNotFoundError{Segment: segment}
}

// IndexOutOfRangeError reports that an MFT record index is not covered by
// the $MFT runlist's virtual cluster range.
type IndexOutOfRangeError struct {
	Index uint64
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("mft record index %d is out of range", e.Index)
}

// IndexOutOfRange builds an IndexOutOfRangeError for idx.
func IndexOutOfRange(idx uint64) error {
	return &IndexOutOfRangeError{Index: idx}
}

// UnsupportedFormatError reports an on-disk feature this reader
// deliberately does not interpret: encrypted or compressed attribute data,
// sparse data runs, or an attribute list spanning multiple base records.
type UnsupportedFormatError struct {
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %s", e.Reason)
}

// Unsupported builds an UnsupportedFormatError with the given reason.
func Unsupported(reason string) error {
	return &UnsupportedFormatError{Reason: reason}
}

// PermissionDeniedError reports that the caller's device handle lacks the
// access needed to read the volume. The core never constructs this itself;
// it exists so a collaborator that opens a locked volume with elevated
// privileges has a concrete type to bubble up through this package's error
// taxonomy.
type PermissionDeniedError struct{}

func (e *PermissionDeniedError) Error() string {
	return "permission denied reading volume"
}

// PermissionDenied is the single PermissionDeniedError value; it carries no
// state so one instance suffices for errors.Is comparisons.
var PermissionDenied error = &PermissionDeniedError{}
