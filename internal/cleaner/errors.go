package cleaner

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
)

// ErrorReason categorizes why removing an entry failed
type ErrorReason int

const (
	ErrorPermissionDenied ErrorReason = iota
	ErrorFileInUse
	ErrorFileNotFound
	ErrorIsDirectory
	ErrorInvalidPath
	ErrorUnknown
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ErrorPermissionDenied:
		return "Permission denied"
	case ErrorFileInUse:
		return "File is in use"
	case ErrorFileNotFound:
		return "File not found"
	case ErrorIsDirectory:
		return "Is a directory"
	case ErrorInvalidPath:
		return "Invalid path"
	case ErrorUnknown:
		return "Unknown error"
	default:
		return "Unspecified error"
	}
}

// MarshalText implements encoding.TextMarshaler
func (e ErrorReason) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(strings.ReplaceAll(e.String(), " ", "_"))), nil
}

// EntryError is a recoverable failure on one entry of a sweep
type EntryError struct {
	Path    string      `json:"path" yaml:"path"`
	Message string      `json:"message" yaml:"message"`
	Reason  ErrorReason `json:"reason" yaml:"reason"`
}

// Error implements the error interface
func (e *EntryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// UserMessage returns a user-friendly error message
func (e *EntryError) UserMessage() string {
	switch e.Reason {
	case ErrorPermissionDenied:
		return fmt.Sprintf("⚠️  Permission denied: %s", e.Path)
	case ErrorFileInUse:
		return fmt.Sprintf("⚠️  File is being used: %s (close the application and try again)", e.Path)
	case ErrorFileNotFound:
		return fmt.Sprintf("ℹ️  Already gone: %s", e.Path)
	case ErrorIsDirectory:
		return fmt.Sprintf("⚠️  Cannot delete directory: %s", e.Path)
	case ErrorInvalidPath:
		return fmt.Sprintf("❌ Invalid or unsafe path: %s", e.Path)
	default:
		return fmt.Sprintf("❌ Error deleting %s: %s", e.Path, e.Message)
	}
}

// CategorizeError analyzes an error and returns a categorized EntryError
func CategorizeError(path string, err error) *EntryError {
	if err == nil {
		return nil
	}

	entryErr := &EntryError{
		Path:    path,
		Message: err.Error(),
		Reason:  ErrorUnknown,
	}

	// Check syscall errors first, they are the most specific
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			entryErr.Reason = ErrorPermissionDenied
		case syscall.EBUSY, syscall.ETXTBSY:
			entryErr.Reason = ErrorFileInUse
		case syscall.ENOENT:
			entryErr.Reason = ErrorFileNotFound
		case syscall.EISDIR:
			entryErr.Reason = ErrorIsDirectory
		case syscall.EINVAL, syscall.ENAMETOOLONG:
			entryErr.Reason = ErrorInvalidPath
		}
		return entryErr
	}

	switch {
	case errors.Is(err, os.ErrNotExist):
		entryErr.Reason = ErrorFileNotFound
	case errors.Is(err, os.ErrPermission):
		entryErr.Reason = ErrorPermissionDenied
	}

	return entryErr
}

// GroupErrors groups entry errors by reason
func GroupErrors(errs []EntryError) map[ErrorReason][]EntryError {
	grouped := make(map[ErrorReason][]EntryError)
	for _, err := range errs {
		grouped[err.Reason] = append(grouped[err.Reason], err)
	}
	return grouped
}

// FormatErrorSummary creates a user-friendly summary of errors
func FormatErrorSummary(errs []EntryError) string {
	if len(errs) == 0 {
		return ""
	}

	grouped := GroupErrors(errs)
	var b strings.Builder
	b.WriteString("\n⚠️  Issues encountered:\n")

	if perms, ok := grouped[ErrorPermissionDenied]; ok {
		fmt.Fprintf(&b, "   ├─ Permission denied: %d entries\n", len(perms))
		b.WriteString("   │  └─ Tip: Run with elevated permissions\n")
	}

	if busy, ok := grouped[ErrorFileInUse]; ok {
		fmt.Fprintf(&b, "   ├─ In use: %d entries\n", len(busy))
		b.WriteString("   │  └─ Tip: Close applications and retry\n")
	}

	if notFound, ok := grouped[ErrorFileNotFound]; ok {
		fmt.Fprintf(&b, "   ├─ Already gone: %d entries\n", len(notFound))
	}

	if dirs, ok := grouped[ErrorIsDirectory]; ok {
		fmt.Fprintf(&b, "   ├─ Directories: %d entries\n", len(dirs))
	}

	if invalid, ok := grouped[ErrorInvalidPath]; ok {
		fmt.Fprintf(&b, "   ├─ Invalid paths: %d entries\n", len(invalid))
	}

	if unknown, ok := grouped[ErrorUnknown]; ok {
		fmt.Fprintf(&b, "   └─ Other errors: %d entries\n", len(unknown))
	}

	return b.String()
}

// ConfigReason says which precondition of a sweep was not met
type ConfigReason string

const (
	ReasonNoDirectory  ConfigReason = "no directory configured"
	ReasonUnresolvable ConfigReason = "directory cannot be resolved"
	ReasonNotDirectory ConfigReason = "not a directory"
	ReasonUnreadable   ConfigReason = "directory cannot be listed"
	ReasonProtected    ConfigReason = "directory is protected"
	ReasonInvalidMode  ConfigReason = "invalid mode"
)

// ConfigurationError is returned before any entry is visited
type ConfigurationError struct {
	Reason    ConfigReason
	Directory string
	Err       error
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	msg := "configuration error: " + string(e.Reason)
	if e.Directory != "" {
		msg += ": " + e.Directory
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// LogWriteError is returned with the report when the log artifact could not
// be written under LogPolicyFatal
type LogWriteError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *LogWriteError) Error() string {
	return fmt.Sprintf("failed to write sweep log %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *LogWriteError) Unwrap() error {
	return e.Err
}
