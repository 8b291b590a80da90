package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fenilsonani/tempclean/internal/cleaner"
	"github.com/fenilsonani/tempclean/internal/history"
	"github.com/fenilsonani/tempclean/internal/progress"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// DryRunNote is printed under every preview summary
const DryRunNote = "Dry run only, nothing deleted."

// ParseFormat converts a user-supplied format name
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML, FormatSummary:
		return f, nil
	case "":
		return FormatSummary, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Reporter handles report generation
type Reporter struct {
	writer       io.Writer
	format       OutputFormat
	errorPreview int
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer:       writer,
		format:       format,
		errorPreview: 10,
	}
}

// WithErrorPreview caps how many errors the text formats list; 0 lists all
func (r *Reporter) WithErrorPreview(n int) *Reporter {
	r.errorPreview = n
	return r
}

// Report renders a sweep report
func (r *Reporter) Report(report *cleaner.Report) error {
	switch r.format {
	case FormatTable:
		return r.reportTable(report)
	case FormatJSON:
		return r.reportJSON(report)
	case FormatYAML:
		return r.reportYAML(report)
	case FormatSummary:
		return r.reportSummary(report)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// FormatRate renders a success rate with one decimal
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}

// reportSummary generates a summary report
func (r *Reporter) reportSummary(report *cleaner.Report) error {
	w := r.writer

	if report.DryRun() {
		fmt.Fprintf(w, "=== Preview Summary ===\n")
	} else {
		fmt.Fprintf(w, "=== Sweep Summary ===\n")
	}
	fmt.Fprintf(w, "Directory: %s\n", report.Directory)
	fmt.Fprintf(w, "Entries found: %d\n", report.EntriesSeen)

	if report.DryRun() {
		fmt.Fprintf(w, "\n%s\n", DryRunNote)
		return nil
	}

	fmt.Fprintf(w, "Entries removed: %d\n", report.EntriesRemoved)
	if report.EntriesSkipped > 0 {
		fmt.Fprintf(w, "Entries skipped (unknown kind): %d\n", report.EntriesSkipped)
	}
	fmt.Fprintf(w, "Errors: %d\n", len(report.Errors))
	fmt.Fprintf(w, "Success rate: %s\n", FormatRate(report.SuccessRate))
	fmt.Fprintf(w, "Duration: %s\n", progress.FormatDuration(report.Duration))
	if report.LogFilePath != "" {
		fmt.Fprintf(w, "Log file: %s\n", report.LogFilePath)
	}

	r.writeErrorPreview(report)
	if summary := cleaner.FormatErrorSummary(report.Errors); summary != "" {
		fmt.Fprint(w, summary)
	}

	return nil
}

func (r *Reporter) writeErrorPreview(report *cleaner.Report) {
	shown, more := report.ErrorPreview(r.errorPreview)
	if len(shown) == 0 {
		return
	}

	fmt.Fprintf(r.writer, "\nErrors:\n")
	for _, e := range shown {
		fmt.Fprintf(r.writer, "  [ERROR] %s -> %s\n", e.Path, e.Message)
	}
	if more > 0 {
		fmt.Fprintf(r.writer, "  ... and %d more\n", more)
	}
}

// reportTable generates a table report
func (r *Reporter) reportTable(report *cleaner.Report) error {
	w := r.writer
	rule := strings.Repeat("-", 100)

	fmt.Fprintf(w, "%-20s | %s\n", "Field", "Value")
	fmt.Fprintf(w, "%s\n", rule)
	fmt.Fprintf(w, "%-20s | %s\n", "Directory", report.Directory)
	fmt.Fprintf(w, "%-20s | %s\n", "Mode", report.Mode)
	fmt.Fprintf(w, "%-20s | %d\n", "Entries seen", report.EntriesSeen)
	fmt.Fprintf(w, "%-20s | %d\n", "Entries removed", report.EntriesRemoved)
	fmt.Fprintf(w, "%-20s | %d\n", "Entries skipped", report.EntriesSkipped)
	fmt.Fprintf(w, "%-20s | %d\n", "Errors", len(report.Errors))
	fmt.Fprintf(w, "%-20s | %s\n", "Success rate", FormatRate(report.SuccessRate))
	if report.LogFilePath != "" {
		fmt.Fprintf(w, "%-20s | %s\n", "Log file", report.LogFilePath)
	}

	shown, more := report.ErrorPreview(r.errorPreview)
	if len(shown) > 0 {
		fmt.Fprintf(w, "\n%-60s | %-18s | %s\n", "Path", "Reason", "Message")
		fmt.Fprintf(w, "%s\n", rule)
		for _, e := range shown {
			fmt.Fprintf(w, "%-60s | %-18s | %s\n", truncatePath(e.Path, 60), e.Reason, e.Message)
		}
		if more > 0 {
			fmt.Fprintf(w, "... and %d more\n", more)
		}
	}

	if report.DryRun() {
		fmt.Fprintf(w, "\n%s\n", DryRunNote)
	}

	return nil
}

// document is the machine-readable shape of a report
type document struct {
	Timestamp   string               `json:"timestamp" yaml:"timestamp"`
	Directory   string               `json:"directory" yaml:"directory"`
	Mode        cleaner.Mode         `json:"mode" yaml:"mode"`
	DryRun      bool                 `json:"dry_run" yaml:"dry_run"`
	Seen        int                  `json:"entries_seen" yaml:"entries_seen"`
	Removed     int                  `json:"entries_removed" yaml:"entries_removed"`
	Skipped     int                  `json:"entries_skipped" yaml:"entries_skipped"`
	SuccessRate float64              `json:"success_rate" yaml:"success_rate"`
	LogFile     string               `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	Duration    string               `json:"duration" yaml:"duration"`
	Errors      []cleaner.EntryError `json:"errors" yaml:"errors"`
}

func newDocument(report *cleaner.Report) document {
	errs := report.Errors
	if errs == nil {
		errs = []cleaner.EntryError{}
	}
	return document{
		Timestamp:   report.StartedAt.Format(time.RFC3339),
		Directory:   report.Directory,
		Mode:        report.Mode,
		DryRun:      report.DryRun(),
		Seen:        report.EntriesSeen,
		Removed:     report.EntriesRemoved,
		Skipped:     report.EntriesSkipped,
		SuccessRate: report.SuccessRate,
		LogFile:     report.LogFilePath,
		Duration:    report.Duration.String(),
		Errors:      errs,
	}
}

// reportJSON generates a JSON report
func (r *Reporter) reportJSON(report *cleaner.Report) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newDocument(report))
}

// reportYAML generates a YAML report
func (r *Reporter) reportYAML(report *cleaner.Report) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(newDocument(report))
}

// SaveToFile saves the report to a file
func SaveToFile(report *cleaner.Report, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return New(file, format).Report(report)
}

// History renders recorded sweeps as a table
func History(w io.Writer, sweeps []history.Sweep) {
	if len(sweeps) == 0 {
		fmt.Fprintln(w, "No sweeps recorded.")
		return
	}

	fmt.Fprintf(w, "%-36s | %-19s | %-7s | %6s | %7s | %6s | %7s | %s\n",
		"ID", "Started", "Mode", "Seen", "Removed", "Errors", "Rate", "Directory")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 120))
	for _, s := range sweeps {
		fmt.Fprintf(w, "%-36s | %-19s | %-7s | %6d | %7d | %6d | %7s | %s\n",
			s.ID,
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			s.Mode,
			s.EntriesSeen,
			s.EntriesRemoved,
			s.ErrorCount,
			FormatRate(s.SuccessRate),
			s.Directory)
	}
}

func truncatePath(path string, max int) string {
	if len(path) <= max {
		return path
	}
	return "..." + path[len(path)-(max-3):]
}
