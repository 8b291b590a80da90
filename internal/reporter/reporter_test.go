package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fenilsonani/tempclean/internal/cleaner"
	"github.com/fenilsonani/tempclean/internal/history"
	"gopkg.in/yaml.v3"
)

func executeReport(errCount int) *cleaner.Report {
	r := &cleaner.Report{
		Directory:      "/tmp/scratch",
		Mode:           cleaner.ModeExecute,
		EntriesSeen:    3 + errCount,
		EntriesRemoved: 3,
		Errors:         []cleaner.EntryError{},
		LogFilePath:    "/work/temp_clean_log_2024-01-02_03-04-05.txt",
		StartedAt:      time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:       2 * time.Second,
	}
	for i := 0; i < errCount; i++ {
		r.Errors = append(r.Errors, cleaner.EntryError{
			Path:    filepath.Join("/tmp/scratch", string(rune('a'+i))),
			Message: "permission denied",
			Reason:  cleaner.ErrorPermissionDenied,
		})
	}
	r.SuccessRate = cleaner.SuccessRate(r.EntriesRemoved, r.EntriesSeen)
	return r
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatSummary, false},
		{"summary", FormatSummary, false},
		{"TABLE", FormatTable, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{0, "0.0%"},
		{100, "100.0%"},
		{200.0 / 3, "66.7%"},
	}
	for _, tt := range tests {
		if got := FormatRate(tt.rate); got != tt.want {
			t.Errorf("FormatRate(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}
}

func TestSummaryExecute(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatSummary).Report(executeReport(1)); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"=== Sweep Summary ===",
		"Directory: /tmp/scratch",
		"Entries found: 4",
		"Entries removed: 3",
		"Errors: 1",
		"Success rate: 75.0%",
		"Log file: /work/temp_clean_log_2024-01-02_03-04-05.txt",
		"[ERROR] /tmp/scratch/a -> permission denied",
		"Permission denied: 1 entries",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, DryRunNote) {
		t.Errorf("execute summary must not carry the dry-run note:\n%s", out)
	}
}

func TestSummaryPreview(t *testing.T) {
	report := &cleaner.Report{Directory: "/tmp/scratch", Mode: cleaner.ModePreview, EntriesSeen: 12}

	var buf bytes.Buffer
	if err := New(&buf, FormatSummary).Report(report); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "Entries found: 12") || !strings.Contains(out, DryRunNote) {
		t.Errorf("preview summary = %s", out)
	}
	if strings.Contains(out, "Success rate") {
		t.Errorf("preview summary should not show a success rate:\n%s", out)
	}
}

func TestErrorPreviewTruncation(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatSummary).WithErrorPreview(2).Report(executeReport(5)); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if got := strings.Count(out, "[ERROR]"); got != 2 {
		t.Errorf("listed %d errors, want 2:\n%s", got, out)
	}
	if !strings.Contains(out, "... and 3 more") {
		t.Errorf("missing truncation line:\n%s", out)
	}

	buf.Reset()
	if err := New(&buf, FormatSummary).WithErrorPreview(0).Report(executeReport(5)); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "[ERROR]"); got != 5 {
		t.Errorf("preview 0 listed %d errors, want 5", got)
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatTable).Report(executeReport(1)); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"Entries removed", "| 3", "Permission denied", "/tmp/scratch/a"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatJSON).Report(executeReport(1)); err != nil {
		t.Fatal(err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if doc["mode"] != "execute" || doc["dry_run"] != false {
		t.Errorf("mode/dry_run = %v/%v", doc["mode"], doc["dry_run"])
	}
	if doc["entries_removed"] != float64(3) {
		t.Errorf("entries_removed = %v", doc["entries_removed"])
	}
	errs, ok := doc["errors"].([]interface{})
	if !ok || len(errs) != 1 {
		t.Fatalf("errors = %v", doc["errors"])
	}
	if errs[0].(map[string]interface{})["reason"] != "permission_denied" {
		t.Errorf("reason = %v", errs[0])
	}
}

func TestJSONEmptyErrorsIsArray(t *testing.T) {
	var buf bytes.Buffer
	report := &cleaner.Report{Directory: "/tmp", Mode: cleaner.ModePreview}
	if err := New(&buf, FormatJSON).Report(report); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"errors": []`) {
		t.Errorf("errors should render as an empty array:\n%s", buf.String())
	}
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatYAML).Report(executeReport(0)); err != nil {
		t.Fatal(err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if doc["directory"] != "/tmp/scratch" || doc["mode"] != "execute" {
		t.Errorf("doc = %v", doc)
	}
	if fmt.Sprint(doc["success_rate"]) != "100" {
		t.Errorf("success_rate = %v", doc["success_rate"])
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if err := New(&bytes.Buffer{}, "xml").Report(executeReport(0)); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSaveToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := SaveToFile(executeReport(0), path, FormatJSON); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Errorf("saved report is not JSON: %s", data)
	}
}

func TestHistory(t *testing.T) {
	var buf bytes.Buffer
	History(&buf, nil)
	if !strings.Contains(buf.String(), "No sweeps recorded") {
		t.Errorf("empty history = %s", buf.String())
	}

	buf.Reset()
	History(&buf, []history.Sweep{{
		ID:             "0f8fad5b-d9cb-469f-a165-70867728950e",
		Directory:      "/tmp/scratch",
		Mode:           "execute",
		EntriesSeen:    4,
		EntriesRemoved: 3,
		ErrorCount:     1,
		SuccessRate:    75,
		StartedAt:      time.Now(),
	}})
	out := buf.String()
	for _, want := range []string{"0f8fad5b-d9cb-469f-a165-70867728950e", "/tmp/scratch", "75.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("history missing %q:\n%s", want, out)
		}
	}
}
