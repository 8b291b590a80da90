package cleaner

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		path   string
		reason ErrorReason
	}{
		{"EACCES - permission denied", syscall.EACCES, "/protected/file.txt", ErrorPermissionDenied},
		{"EPERM - operation not permitted", syscall.EPERM, "/system/file.txt", ErrorPermissionDenied},
		{"ENOENT - file not found", syscall.ENOENT, "/missing/file.txt", ErrorFileNotFound},
		{"EBUSY - resource busy", syscall.EBUSY, "/open/file.txt", ErrorFileInUse},
		{"EISDIR - is directory", syscall.EISDIR, "/some/dir", ErrorIsDirectory},
		{"ENAMETOOLONG - invalid path", syscall.ENAMETOOLONG, "/very/long", ErrorInvalidPath},
		{"wrapped EACCES", fmt.Errorf("failed to remove: %w", syscall.EACCES), "/wrapped/file.txt", ErrorPermissionDenied},
		{"os.PathError with EACCES", &os.PathError{Op: "remove", Path: "/test/file.txt", Err: syscall.EACCES}, "/test/file.txt", ErrorPermissionDenied},
		{"os.ErrNotExist", os.ErrNotExist, "/not/exist.txt", ErrorFileNotFound},
		{"os.ErrPermission", os.ErrPermission, "/no/access.txt", ErrorPermissionDenied},
		{"generic error", errors.New("boom"), "/some/file.txt", ErrorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategorizeError(tt.path, tt.err)
			if got == nil {
				t.Fatal("CategorizeError returned nil")
			}
			if got.Reason != tt.reason {
				t.Errorf("Reason = %v, want %v", got.Reason, tt.reason)
			}
			if got.Path != tt.path {
				t.Errorf("Path = %s, want %s", got.Path, tt.path)
			}
			if got.Message != tt.err.Error() {
				t.Errorf("Message = %q, want %q", got.Message, tt.err.Error())
			}
		})
	}
}

func TestCategorizeErrorNil(t *testing.T) {
	if got := CategorizeError("/path", nil); got != nil {
		t.Errorf("CategorizeError(nil) = %v, want nil", got)
	}
}

func TestEntryErrorMessages(t *testing.T) {
	e := &EntryError{Path: "/tmp/x", Message: "boom", Reason: ErrorUnknown}
	if e.Error() != "/tmp/x: boom" {
		t.Errorf("Error() = %q", e.Error())
	}

	tests := []struct {
		reason ErrorReason
		want   string
	}{
		{ErrorPermissionDenied, "Permission denied"},
		{ErrorFileInUse, "being used"},
		{ErrorFileNotFound, "Already gone"},
		{ErrorIsDirectory, "Cannot delete directory"},
		{ErrorInvalidPath, "Invalid or unsafe path"},
		{ErrorUnknown, "boom"},
	}
	for _, tt := range tests {
		msg := (&EntryError{Path: "/tmp/x", Message: "boom", Reason: tt.reason}).UserMessage()
		if !strings.Contains(msg, tt.want) || !strings.Contains(msg, "/tmp/x") {
			t.Errorf("UserMessage(%v) = %q, want it to mention %q", tt.reason, msg, tt.want)
		}
	}
}

func TestErrorReasonText(t *testing.T) {
	tests := []struct {
		reason ErrorReason
		want   string
	}{
		{ErrorPermissionDenied, "permission_denied"},
		{ErrorFileInUse, "file_is_in_use"},
		{ErrorUnknown, "unknown_error"},
	}
	for _, tt := range tests {
		text, err := tt.reason.MarshalText()
		if err != nil || string(text) != tt.want {
			t.Errorf("MarshalText(%v) = %s, %v; want %s", tt.reason, text, err, tt.want)
		}
	}
}

func TestGroupErrors(t *testing.T) {
	errs := []EntryError{
		{Path: "/a", Reason: ErrorPermissionDenied},
		{Path: "/b", Reason: ErrorPermissionDenied},
		{Path: "/c", Reason: ErrorFileInUse},
	}

	grouped := GroupErrors(errs)
	if len(grouped[ErrorPermissionDenied]) != 2 {
		t.Errorf("permission group = %d, want 2", len(grouped[ErrorPermissionDenied]))
	}
	if len(grouped[ErrorFileInUse]) != 1 {
		t.Errorf("in-use group = %d, want 1", len(grouped[ErrorFileInUse]))
	}
	if _, ok := grouped[ErrorUnknown]; ok {
		t.Error("unexpected unknown group")
	}
}

func TestFormatErrorSummary(t *testing.T) {
	if got := FormatErrorSummary(nil); got != "" {
		t.Errorf("FormatErrorSummary(nil) = %q, want empty", got)
	}

	summary := FormatErrorSummary([]EntryError{
		{Path: "/a", Reason: ErrorPermissionDenied},
		{Path: "/b", Reason: ErrorPermissionDenied},
		{Path: "/c", Reason: ErrorUnknown},
	})

	for _, want := range []string{"Issues encountered", "Permission denied: 2 entries", "Other errors: 1 entries"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Contains(summary, "In use") {
		t.Errorf("summary should not mention absent groups:\n%s", summary)
	}
}

func TestConfigurationErrorFormatting(t *testing.T) {
	inner := errors.New("stat failed")
	err := &ConfigurationError{Reason: ReasonUnresolvable, Directory: "/nope", Err: inner}

	want := "configuration error: directory cannot be resolved: /nope: stat failed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, inner) {
		t.Error("ConfigurationError should unwrap to its cause")
	}

	wrapped := fmt.Errorf("scan: %w", err)
	if !IsConfigurationError(wrapped) {
		t.Error("IsConfigurationError should see through wrapping")
	}
	if IsConfigurationError(inner) {
		t.Error("plain errors are not configuration errors")
	}
}

func TestLogWriteError(t *testing.T) {
	err := &LogWriteError{Path: "/ro/log.txt", Err: os.ErrPermission}
	if !errors.Is(err, os.ErrPermission) {
		t.Error("LogWriteError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "/ro/log.txt") {
		t.Errorf("Error() = %q, want it to name the path", err.Error())
	}
}
