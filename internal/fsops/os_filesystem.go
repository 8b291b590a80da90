package fsops

import (
	"io/fs"
	"os"
)

// OSFilesystem implements Filesystem using real os package calls
type OSFilesystem struct{}

func (OSFilesystem) IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (OSFilesystem) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

func (OSFilesystem) Classify(path string) (EntryKind, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return KindUnknown, err
	}
	return KindOf(info.Mode()), nil
}

func (OSFilesystem) Remove(path string) error {
	return os.Remove(path)
}

func (OSFilesystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// KindOf maps an Lstat mode to an EntryKind. A symlink is always a leaf,
// even when it points at a directory.
func KindOf(mode fs.FileMode) EntryKind {
	switch {
	case mode&fs.ModeSymlink != 0, mode.IsRegular():
		return KindLeaf
	case mode.IsDir():
		return KindDirectory
	default:
		return KindUnknown
	}
}
