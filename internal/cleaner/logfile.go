package cleaner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// LogFilePrefix starts every log artifact name
	LogFilePrefix = "temp_clean_log_"

	logTimestampLayout = "2006-01-02_15-04-05"
)

// LogPolicy decides what a failed log artifact write does to the sweep
type LogPolicy int

const (
	// LogPolicyFatal returns a *LogWriteError alongside the report
	LogPolicyFatal LogPolicy = iota
	// LogPolicyDegrade logs a warning and leaves Report.LogFilePath empty
	LogPolicyDegrade
)

// String returns the policy name used in configuration
func (p LogPolicy) String() string {
	if p == LogPolicyDegrade {
		return "degrade"
	}
	return "fatal"
}

// ParseLogPolicy converts a configuration value
func ParseLogPolicy(s string) (LogPolicy, error) {
	switch s {
	case "", "fatal":
		return LogPolicyFatal, nil
	case "degrade":
		return LogPolicyDegrade, nil
	default:
		return LogPolicyFatal, fmt.Errorf("unknown log failure policy %q (want fatal or degrade)", s)
	}
}

// LogFileName returns the artifact name for a sweep logged at t
func LogFileName(t time.Time) string {
	return LogFilePrefix + t.Format(logTimestampLayout) + ".txt"
}

// WriteLogArtifact writes the plain-text sweep log into dir (the working
// directory when dir is empty) and returns its path
func WriteLogArtifact(dir string, report *Report, at time.Time) (string, error) {
	path := filepath.Join(dir, LogFileName(at))
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	file, err := os.Create(path)
	if err != nil {
		return path, err
	}

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "Temp path: %s\n", report.Directory)
	fmt.Fprintf(w, "Files seen: %d\n", report.EntriesSeen)
	fmt.Fprintf(w, "Files deleted: %d\n", report.EntriesRemoved)
	fmt.Fprintf(w, "Errors: %d\n\n", len(report.Errors))
	for _, e := range report.Errors {
		fmt.Fprintf(w, "[ERROR] %s -> %s\n", e.Path, e.Message)
	}

	if err := w.Flush(); err != nil {
		file.Close()
		return path, err
	}
	return path, file.Close()
}
