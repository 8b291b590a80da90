// Package fsops is the filesystem capability consumed by the sweep engine.
// Swapping the implementation lets tests prove that preview sweeps never
// touch the disk and force individual deletions to fail.
package fsops

// EntryKind classifies a directory entry at visit time
type EntryKind int

const (
	// KindLeaf is a regular file or a symlink (to anything, dangling included)
	KindLeaf EntryKind = iota
	// KindDirectory is a real directory, not a symlink to one
	KindDirectory
	// KindUnknown covers sockets, FIFOs, devices and anything else
	KindUnknown
)

// String returns a human-readable kind name
func (k EntryKind) String() string {
	switch k {
	case KindLeaf:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Filesystem abstracts the operations a sweep needs
type Filesystem interface {
	// IsDir reports whether path resolves (following symlinks) to a directory
	IsDir(path string) (bool, error)
	// List returns the names of the immediate children of dir
	List(dir string) ([]string, error)
	// Classify inspects path without following a final symlink
	Classify(path string) (EntryKind, error)
	// Remove deletes a single file or symlink
	Remove(path string) error
	// RemoveAll deletes path and everything below it
	RemoveAll(path string) error
}
