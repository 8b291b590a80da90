package models

import (
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/tempclean/internal/cleaner"
	"github.com/fenilsonani/tempclean/internal/fsops"
	"github.com/fenilsonani/tempclean/internal/progress"
)

// fakeSweeper returns canned reports and records the modes it ran
type fakeSweeper struct {
	mu      sync.Mutex
	modes   []cleaner.Mode
	preview *cleaner.Report
	execute *cleaner.Report
	err     error
}

func (f *fakeSweeper) Run(directory string, mode cleaner.Mode) (*cleaner.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modes = append(f.modes, mode)
	if mode == cleaner.ModePreview {
		return f.preview, f.err
	}
	return f.execute, f.err
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func previewReport(n int) *cleaner.Report {
	return &cleaner.Report{Directory: "/tmp/scratch", Mode: cleaner.ModePreview, EntriesSeen: n, Errors: []cleaner.EntryError{}}
}

func TestPreviewRunsFirst(t *testing.T) {
	sw := &fakeSweeper{preview: previewReport(3)}
	m := NewAppModel(sw, nil, "/tmp/scratch", 10)

	if m.Init() == nil {
		t.Fatal("Init should start the preview")
	}
	msg := m.scanView.performPreview()

	done, ok := msg.(PreviewCompleteMsg)
	if !ok {
		t.Fatalf("performPreview returned %T", msg)
	}
	if done.Report.EntriesSeen != 3 {
		t.Errorf("EntriesSeen = %d, want 3", done.Report.EntriesSeen)
	}
	if len(sw.modes) != 1 || sw.modes[0] != cleaner.ModePreview {
		t.Errorf("modes run = %v, want only preview", sw.modes)
	}
}

func TestPreviewMovesToConfirmation(t *testing.T) {
	m := NewAppModel(&fakeSweeper{}, nil, "", 10)
	m.Init()

	m.Update(PreviewCompleteMsg{Report: previewReport(4)})
	if m.State() != ViewConfirmation {
		t.Fatalf("state = %v, want confirmation", m.State())
	}
	if !strings.Contains(m.View(), "delete 4 entries") {
		t.Errorf("confirm view = %s", m.View())
	}
}

func TestEmptyPreviewSkipsConfirmation(t *testing.T) {
	m := NewAppModel(&fakeSweeper{}, nil, "", 10)
	m.Init()

	m.Update(PreviewCompleteMsg{Report: previewReport(0)})
	if m.State() != ViewSummary {
		t.Fatalf("state = %v, want summary", m.State())
	}
	if !strings.Contains(m.View(), "Nothing to clean") {
		t.Errorf("summary view = %s", m.View())
	}
}

func TestPreviewConfigurationError(t *testing.T) {
	m := NewAppModel(&fakeSweeper{}, nil, "", 10)
	m.Init()

	cfgErr := &cleaner.ConfigurationError{Reason: cleaner.ReasonNoDirectory}
	m.Update(PreviewCompleteMsg{Err: cfgErr})

	if !errors.Is(m.Err(), cfgErr) {
		t.Errorf("Err() = %v", m.Err())
	}
	if !strings.Contains(m.View(), "no directory configured") {
		t.Errorf("error view = %s", m.View())
	}
}

func TestConfirmKeys(t *testing.T) {
	cv := NewConfirmViewModel(previewReport(3), 80, 24)

	_, cmd := cv.Update(key("y"))
	if cmd == nil {
		t.Fatal("y should confirm")
	}
	if _, ok := cmd().(ConfirmedMsg); !ok {
		t.Error("y should produce ConfirmedMsg")
	}

	_, cmd = cv.Update(key("n"))
	if !isQuit(cmd) {
		t.Error("n should quit")
	}

	cv.Update(key("right"))
	_, cmd = cv.Update(key("enter"))
	if !isQuit(cmd) {
		t.Error("enter on cancel should quit")
	}
}

func TestHighRiskDefaultsToCancel(t *testing.T) {
	cv := NewConfirmViewModel(previewReport(1000), 80, 24)
	if cv.riskLevel != RiskHigh {
		t.Fatalf("risk = %v, want high", cv.riskLevel)
	}

	_, cmd := cv.Update(key("enter"))
	if !isQuit(cmd) {
		t.Error("enter on a high-risk sweep should default to cancel")
	}
}

func TestCalculateRiskLevel(t *testing.T) {
	tests := []struct {
		entries int
		want    RiskLevel
	}{
		{0, RiskLow},
		{49, RiskLow},
		{50, RiskMedium},
		{500, RiskMedium},
		{501, RiskHigh},
	}
	for _, tt := range tests {
		if got := CalculateRiskLevel(tt.entries); got != tt.want {
			t.Errorf("CalculateRiskLevel(%d) = %v, want %v", tt.entries, got, tt.want)
		}
	}
}

func TestSweepFlow(t *testing.T) {
	executed := &cleaner.Report{
		Directory:      "/tmp/scratch",
		Mode:           cleaner.ModeExecute,
		EntriesSeen:    3,
		EntriesRemoved: 2,
		Errors:         []cleaner.EntryError{{Path: "/tmp/scratch/locked", Message: "permission denied"}},
		SuccessRate:    200.0 / 3,
		LogFilePath:    "/work/temp_clean_log.txt",
	}
	sw := &fakeSweeper{preview: previewReport(3), execute: executed}
	m := NewAppModel(sw, nil, "/tmp/scratch", 10)
	m.Init()

	m.Update(PreviewCompleteMsg{Report: previewReport(3)})
	_, cmd := m.Update(ConfirmedMsg{})
	if m.State() != ViewSweeping || cmd == nil {
		t.Fatalf("state = %v, cmd = %v; want sweeping with a command", m.State(), cmd)
	}

	// Quitting is refused mid-sweep
	if _, cmd := m.Update(key("q")); isQuit(cmd) {
		t.Error("q must not quit while sweeping")
	}

	msg := m.cleanupView.performSweep()
	m.Update(msg)
	if m.State() != ViewSummary {
		t.Fatalf("state = %v, want summary", m.State())
	}

	view := m.View()
	for _, want := range []string{"Removed 2 of 3 entries", "66.7%", "permission denied", "/work/temp_clean_log.txt"} {
		if !strings.Contains(view, want) {
			t.Errorf("summary missing %q:\n%s", want, view)
		}
	}

	if _, cmd := m.Update(key("q")); !isQuit(cmd) {
		t.Error("q should quit from the summary")
	}
}

func TestSweepLogFailureShownInSummary(t *testing.T) {
	executed := &cleaner.Report{Directory: "/tmp/scratch", Mode: cleaner.ModeExecute, EntriesSeen: 1, EntriesRemoved: 1, SuccessRate: 100}
	m := NewAppModel(&fakeSweeper{}, nil, "", 10)
	m.Init()
	m.Update(PreviewCompleteMsg{Report: previewReport(1)})
	m.Update(ConfirmedMsg{})

	logErr := &cleaner.LogWriteError{Path: "/ro/log.txt", Err: errors.New("read-only file system")}
	m.Update(SweepCompleteMsg{Report: executed, Err: logErr})

	if m.State() != ViewSummary {
		t.Fatalf("state = %v, want summary", m.State())
	}
	if !strings.Contains(m.View(), "Sweep log not written: read-only file system") {
		t.Errorf("summary should mention the log failure:\n%s", m.View())
	}
}

func TestSummaryErrorPreview(t *testing.T) {
	r := &cleaner.Report{Mode: cleaner.ModeExecute, EntriesSeen: 5}
	for i := 0; i < 5; i++ {
		r.Errors = append(r.Errors, cleaner.EntryError{Path: "/tmp/e", Message: "boom"})
	}

	view := NewSummaryViewModel(r, nil, 2).View()
	if got := strings.Count(view, "-> boom"); got != 2 {
		t.Errorf("listed %d errors, want 2", got)
	}
	if !strings.Contains(view, "... and 3 more") {
		t.Errorf("missing truncation line:\n%s", view)
	}
}

func TestHelpToggle(t *testing.T) {
	m := NewAppModel(&fakeSweeper{}, nil, "", 10)
	m.Init()
	m.Update(PreviewCompleteMsg{Report: previewReport(2)})

	m.Update(key("?"))
	if m.State() != ViewHelp {
		t.Fatalf("state = %v, want help", m.State())
	}
	if !strings.Contains(m.View(), "Help - Confirm") {
		t.Errorf("help view = %s", m.View())
	}

	m.Update(key("x"))
	if m.State() != ViewConfirmation {
		t.Errorf("any key should close help, state = %v", m.State())
	}
}

func TestCleanupViewFollowsEngineProgress(t *testing.T) {
	fake := fsops.NewFakeFilesystem("/scratch")
	fake.Add("/scratch/a", fsops.KindLeaf)
	fake.Add("/scratch/b", fsops.KindLeaf)

	pr := progress.NewReporter()
	c := cleaner.New(
		cleaner.WithFilesystem(fake),
		cleaner.WithLogDir(t.TempDir()),
		cleaner.WithProgressReporter(pr),
	)

	cv := NewCleanupViewModel(c, pr, "/scratch", 2)
	cv.Init()

	done, ok := cv.performSweep().(SweepCompleteMsg)
	if !ok || done.Err != nil {
		t.Fatalf("performSweep = %+v", done)
	}

	// Drain the buffered snapshots the way the program would
	for i := 0; i < 4; i++ {
		msg := waitForProgress(cv.updates)()
		cv.Update(msg)
	}
	cv.Stop()

	if cv.latest == nil || cv.latest.Phase != progress.PhaseComplete {
		t.Fatalf("latest = %+v, want completion snapshot", cv.latest)
	}
	if cv.Percent() != 1 {
		t.Errorf("Percent = %v, want 1", cv.Percent())
	}
	if !strings.Contains(cv.View(), "2 removed") {
		t.Errorf("cleanup view = %s", cv.View())
	}
	if fake.Exists("/scratch/a") || fake.Exists("/scratch/b") {
		t.Error("entries should be removed")
	}
}
