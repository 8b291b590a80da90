package security

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateSweepRoot(t *testing.T) {
	pv := NewPathValidator()
	tmp := t.TempDir()

	tests := []struct {
		name        string
		path        string
		shouldError bool
		errorMsg    string
	}{
		{
			name:        "test temp dir - valid",
			path:        tmp,
			shouldError: false,
		},
		{
			name:        "relative path - invalid",
			path:        "relative/tmp",
			shouldError: true,
			errorMsg:    "must be absolute",
		},
		{
			name:        "empty path - invalid",
			path:        "",
			shouldError: true,
			errorMsg:    "must be absolute",
		},
		{
			name:        "root directory - protected",
			path:        "/",
			shouldError: true,
			errorMsg:    "protected path",
		},
		{
			name:        "system directory - protected",
			path:        "/usr",
			shouldError: true,
			errorMsg:    "protected path",
		},
		{
			name:        "trailing slash still protected",
			path:        "/etc/",
			shouldError: true,
			errorMsg:    "protected path",
		},
		{
			name:        "newline - invalid",
			path:        "/tmp/a\nb",
			shouldError: true,
			errorMsg:    "control characters",
		},
		{
			name:        "missing directory - not protected",
			path:        filepath.Join(tmp, "does-not-exist"),
			shouldError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pv.ValidateSweepRoot(tt.path)
			if tt.shouldError {
				if err == nil {
					t.Fatalf("expected error for %q", tt.path)
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("error %q should contain %q", err, tt.errorMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error for %q: %v", tt.path, err)
			}
		})
	}
}

func TestValidateSweepRootFollowsSymlink(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "guarded")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(root, "alias")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	pv := NewPathValidator(target)
	if err := pv.ValidateSweepRoot(link); err == nil {
		t.Error("symlink to a protected directory should be refused")
	}
}

func TestNestedTempDirAllowed(t *testing.T) {
	pv := NewPathValidator()
	if pv.IsProtectedPath("/var/tmp") {
		t.Error("/var/tmp must not be protected, only /var itself")
	}
	if !pv.IsProtectedPath("/var") {
		t.Error("/var should be protected")
	}
}

func TestAddProtectedPathDeduplicates(t *testing.T) {
	pv := &PathValidator{}
	pv.AddProtectedPath("/data/scratch/")
	pv.AddProtectedPath("/data/scratch")

	paths := pv.ProtectedPaths()
	if len(paths) != 1 || paths[0] != "/data/scratch" {
		t.Errorf("ProtectedPaths = %v", paths)
	}
}
