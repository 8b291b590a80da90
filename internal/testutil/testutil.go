// Package testutil provides test helpers and fixtures for sweep tests.
// All file operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// TestFixture holds a throwaway directory to sweep
type TestFixture struct {
	T       *testing.T
	RootDir string // Directory being swept (auto-cleaned)
}

// NewFixture creates a new, empty sweep directory
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()
	return &TestFixture{T: t, RootDir: t.TempDir()}
}

// =============================================================================
// File Creation Helpers
// =============================================================================

// CreateFile creates a file with specified content and returns its path
func (f *TestFixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateFiles creates n small files named file-<i>.tmp
func (f *TestFixture) CreateFiles(n int) []string {
	f.T.Helper()

	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		paths = append(paths, f.CreateFile(fmt.Sprintf("file-%d.tmp", i), []byte("tmp")))
	}
	return paths
}

// =============================================================================
// Directory Helpers
// =============================================================================

// CreateDir creates a directory and returns its path
func (f *TestFixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateTree creates relPath as a directory holding nested files and
// subdirectories, and returns its path
func (f *TestFixture) CreateTree(relPath string) string {
	f.T.Helper()

	dir := f.CreateDir(relPath)
	f.CreateFile(filepath.Join(relPath, "top.txt"), []byte("top"))
	f.CreateFile(filepath.Join(relPath, "a", "one.log"), []byte("one"))
	f.CreateFile(filepath.Join(relPath, "a", "b", "two.bin"), []byte("two"))
	f.CreateDir(filepath.Join(relPath, "a", "empty"))
	return dir
}

// CreateLockedDir creates a directory whose contents cannot be removed by an
// unprivileged user: it holds a read-only subdirectory with a file inside
func (f *TestFixture) CreateLockedDir(relPath string) string {
	f.T.Helper()

	dir := f.CreateDir(relPath)
	inner := f.CreateDir(filepath.Join(relPath, "locked"))
	f.CreateFile(filepath.Join(relPath, "locked", "trapped.txt"), []byte("trapped"))
	if err := os.Chmod(inner, 0555); err != nil {
		f.T.Fatalf("failed to chmod directory %s: %v", inner, err)
	}

	// Restore permissions so TempDir cleanup works
	f.T.Cleanup(func() {
		os.Chmod(inner, 0755)
	})

	return dir
}

// =============================================================================
// Symlink Helpers
// =============================================================================

// CreateSymlink creates a symlink at linkPath pointing to target. Skips the
// test when the platform refuses symlinks.
func (f *TestFixture) CreateSymlink(target, linkPath string) string {
	f.T.Helper()

	fullLink := filepath.Join(f.RootDir, linkPath)
	if err := os.Symlink(target, fullLink); err != nil {
		f.T.Skipf("symlinks not supported: %v", err)
	}
	return fullLink
}

// CreateBrokenSymlink creates a symlink to a path that does not exist
func (f *TestFixture) CreateBrokenSymlink(linkPath string) string {
	f.T.Helper()
	return f.CreateSymlink(filepath.Join(f.RootDir, "nonexistent-target"), linkPath)
}

// =============================================================================
// Inspection Helpers
// =============================================================================

// Entries returns the names of the immediate children of the root
func (f *TestFixture) Entries() []string {
	f.T.Helper()

	entries, err := os.ReadDir(f.RootDir)
	if err != nil {
		f.T.Fatalf("failed to read %s: %v", f.RootDir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// Snapshot maps every path under the root to its mode and content, so two
// snapshots compare equal only when nothing changed
func (f *TestFixture) Snapshot() map[string]string {
	f.T.Helper()

	snap := make(map[string]string)
	err := filepath.WalkDir(f.RootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		value := info.Mode().String()
		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			value += " -> " + target
		case info.Mode().IsRegular():
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			value += " " + string(data)
		}
		snap[path] = value
		return nil
	})
	if err != nil {
		f.T.Fatalf("failed to snapshot %s: %v", f.RootDir, err)
	}
	return snap
}

// FileExists checks if a path exists without following a final symlink
func (f *TestFixture) FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// AssertFileExists fails the test if path does not exist
func (f *TestFixture) AssertFileExists(path string) {
	f.T.Helper()
	if !f.FileExists(path) {
		f.T.Errorf("expected %s to exist", path)
	}
}

// AssertFileNotExists fails the test if path exists
func (f *TestFixture) AssertFileNotExists(path string) {
	f.T.Helper()
	if f.FileExists(path) {
		f.T.Errorf("expected %s to be gone", path)
	}
}

// =============================================================================
// Environment Helpers
// =============================================================================

// IsRoot returns true if running as root/admin
func IsRoot() bool {
	return os.Geteuid() == 0
}

// SkipIfRoot skips the test if running as root, where permission checks
// cannot be provoked
func SkipIfRoot(t *testing.T) {
	t.Helper()
	if IsRoot() {
		t.Skip("skipping test when running as root")
	}
}

// SkipOnWindows skips tests that rely on POSIX permissions
func SkipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on windows")
	}
}
