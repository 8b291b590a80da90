package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultProtectedPaths are directories whose children must never be swept
var DefaultProtectedPaths = []string{
	// Unix system directories
	"/",
	"/bin",
	"/boot",
	"/dev",
	"/etc",
	"/home",
	"/lib",
	"/lib64",
	"/opt",
	"/proc",
	"/root",
	"/sbin",
	"/sys",
	"/usr",
	"/var",
	// macOS system directories
	"/System",
	"/Applications",
	"/Library",
	"/Users",
	"/private",
	"/private/var",
}

// PathValidator decides whether a directory is safe to sweep
type PathValidator struct {
	protectedPaths []string
}

// NewPathValidator creates a PathValidator with the default protected paths,
// the current user's home directory, and any extra paths
func NewPathValidator(extra ...string) *PathValidator {
	pv := &PathValidator{}
	for _, p := range DefaultProtectedPaths {
		pv.AddProtectedPath(p)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		pv.AddProtectedPath(home)
	}
	for _, p := range extra {
		pv.AddProtectedPath(p)
	}
	return pv
}

// ValidateSweepRoot checks that dir may have all of its children removed.
// Only exact matches are refused: /var is protected but /var/tmp is not.
func (pv *PathValidator) ValidateSweepRoot(dir string) error {
	if !filepath.IsAbs(dir) {
		return fmt.Errorf("sweep directory must be absolute: %s", dir)
	}

	if strings.ContainsAny(dir, "\x00\n\r") {
		return fmt.Errorf("sweep directory contains control characters: %q", dir)
	}

	// Resolve symlinks so /tmp -> /private/tmp style aliases are compared by target
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to resolve symlinks: %w", err)
		}
		resolved = dir
	}

	for _, candidate := range []string{filepath.Clean(dir), filepath.Clean(resolved)} {
		if pv.IsProtectedPath(candidate) {
			return fmt.Errorf("refusing to sweep protected path: %s", candidate)
		}
	}

	return nil
}

// IsProtectedPath reports whether path is exactly one of the protected paths
func (pv *PathValidator) IsProtectedPath(path string) bool {
	cleanPath := filepath.Clean(path)
	for _, protected := range pv.protectedPaths {
		if cleanPath == protected {
			return true
		}
	}
	return false
}

// AddProtectedPath adds a custom protected path
func (pv *PathValidator) AddProtectedPath(path string) {
	cleanPath := filepath.Clean(path)
	if pv.IsProtectedPath(cleanPath) {
		return
	}
	pv.protectedPaths = append(pv.protectedPaths, cleanPath)
}

// ProtectedPaths returns a copy of the protected path list
func (pv *PathValidator) ProtectedPaths() []string {
	out := make([]string, len(pv.protectedPaths))
	copy(out, pv.protectedPaths)
	return out
}
