package fsops

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FakeFilesystem implements Filesystem in memory for testing.
// Every mutating call is recorded in Calls; paths listed in Failures
// return the configured error instead of being removed.
type FakeFilesystem struct {
	mu       sync.Mutex
	kinds    map[string]EntryKind
	Failures map[string]error
	Calls    []string
}

// NewFakeFilesystem creates an empty fake with root registered as a directory
func NewFakeFilesystem(root string) *FakeFilesystem {
	return &FakeFilesystem{
		kinds:    map[string]EntryKind{filepath.Clean(root): KindDirectory},
		Failures: make(map[string]error),
	}
}

// Add registers path (and any missing parent directories) with the given kind
func (f *FakeFilesystem) Add(path string, kind EntryKind) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path = filepath.Clean(path)
	f.kinds[path] = kind
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if _, ok := f.kinds[dir]; ok {
			return
		}
		f.kinds[dir] = KindDirectory
		if filepath.Dir(dir) == dir {
			return
		}
	}
}

// Fail makes every mutating call on path return err
func (f *FakeFilesystem) Fail(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Failures[filepath.Clean(path)] = err
}

// Exists reports whether path is still present
func (f *FakeFilesystem) Exists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.kinds[filepath.Clean(path)]
	return ok
}

func (f *FakeFilesystem) IsDir(path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	kind, ok := f.kinds[filepath.Clean(path)]
	if !ok {
		return false, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return kind == KindDirectory, nil
}

func (f *FakeFilesystem) List(dir string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir = filepath.Clean(dir)
	if _, ok := f.kinds[dir]; !ok {
		return nil, &fs.PathError{Op: "open", Path: dir, Err: fs.ErrNotExist}
	}

	var names []string
	for path := range f.kinds {
		if path != dir && filepath.Dir(path) == dir {
			names = append(names, filepath.Base(path))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *FakeFilesystem) Classify(path string) (EntryKind, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	kind, ok := f.kinds[filepath.Clean(path)]
	if !ok {
		return KindUnknown, &fs.PathError{Op: "lstat", Path: path, Err: fs.ErrNotExist}
	}
	return kind, nil
}

func (f *FakeFilesystem) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path = filepath.Clean(path)
	f.Calls = append(f.Calls, "rm:"+path)
	if err, ok := f.Failures[path]; ok {
		return &fs.PathError{Op: "remove", Path: path, Err: err}
	}
	if _, ok := f.kinds[path]; !ok {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	delete(f.kinds, path)
	return nil
}

func (f *FakeFilesystem) RemoveAll(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path = filepath.Clean(path)
	f.Calls = append(f.Calls, "rmall:"+path)
	if err, ok := f.Failures[path]; ok {
		return &fs.PathError{Op: "unlinkat", Path: path, Err: err}
	}
	prefix := path + string(filepath.Separator)
	for p := range f.kinds {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(f.kinds, p)
		}
	}
	return nil
}
