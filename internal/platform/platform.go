package platform

import (
	"os"
	"path/filepath"
	"runtime"
)

// Platform represents the operating system platform
type Platform string

const (
	MacOS   Platform = "darwin"
	Linux   Platform = "linux"
	Windows Platform = "windows"
	Unknown Platform = "unknown"
)

// Detect returns the current platform
func Detect() Platform {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	case "windows":
		return Windows
	default:
		return Unknown
	}
}

// DefaultTempEnvVar returns the environment variable that names the
// temporary directory on the current platform
func DefaultTempEnvVar() string {
	return TempEnvVarFor(Detect())
}

// TempEnvVarFor returns the temp directory variable for p
func TempEnvVarFor(p Platform) string {
	if p == Windows {
		return "TEMP"
	}
	return "TMPDIR"
}

// FallbackTempEnvVar is consulted when the platform variable is unset. TEMP
// is what Windows uses and what many shells and CI runners export elsewhere.
const FallbackTempEnvVar = "TEMP"

// ResolveTempEnvVar picks the variable to read the temp directory from: the
// platform default when it is set, else TEMP when that is set, else the
// platform default so the error names the variable users expect.
func ResolveTempEnvVar(env EnvResolver) string {
	primary := DefaultTempEnvVar()
	if v, ok := env.LookupEnv(primary); ok && v != "" {
		return primary
	}
	if v, ok := env.LookupEnv(FallbackTempEnvVar); ok && v != "" {
		return FallbackTempEnvVar
	}
	return primary
}

// EnvResolver looks up environment variables. The sweep engine only sees the
// environment through this interface.
type EnvResolver interface {
	LookupEnv(key string) (string, bool)
}

// OSEnv resolves variables from the process environment
type OSEnv struct{}

func (OSEnv) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnv resolves variables from a fixed map
type MapEnv map[string]string

func (m MapEnv) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// GetUserConfigDir returns the user's config directory
func GetUserConfigDir() (string, error) {
	switch Detect() {
	case Linux:
		// Try XDG_CONFIG_HOME first
		if configDir := os.Getenv("XDG_CONFIG_HOME"); configDir != "" {
			return configDir, nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, ".config"), nil
	case MacOS:
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, ".config"), nil
	case Windows:
		return os.UserConfigDir()
	default:
		return "", ErrUnsupportedPlatform
	}
}

// Errors
var (
	ErrUnsupportedPlatform = &PlatformError{"unsupported platform"}
)

// PlatformError represents a platform-related error
type PlatformError struct {
	Message string
}

func (e *PlatformError) Error() string {
	return e.Message
}
