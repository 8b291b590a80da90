package cleaner

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fenilsonani/tempclean/internal/fsops"
	"github.com/fenilsonani/tempclean/internal/platform"
	"github.com/fenilsonani/tempclean/internal/progress"
	"go.uber.org/zap"
)

// Mode selects whether a sweep may mutate the directory
type Mode int

const (
	// ModePreview counts entries and never touches them
	ModePreview Mode = iota
	// ModeExecute classifies and deletes every entry
	ModeExecute
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case ModePreview:
		return "preview"
	case ModeExecute:
		return "execute"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMode converts a user-supplied mode name
func ParseMode(s string) (Mode, error) {
	switch s {
	case "preview", "dry-run", "dryrun":
		return ModePreview, nil
	case "execute", "delete", "clean":
		return ModeExecute, nil
	default:
		return ModePreview, fmt.Errorf("unknown mode %q (want preview or execute)", s)
	}
}

// Report is the outcome of one sweep. A fresh Report is built on every Run
// and the Cleaner keeps no reference to it.
type Report struct {
	Directory      string        `json:"directory" yaml:"directory"`
	Mode           Mode          `json:"mode" yaml:"mode"`
	EntriesSeen    int           `json:"entries_seen" yaml:"entries_seen"`
	EntriesRemoved int           `json:"entries_removed" yaml:"entries_removed"`
	EntriesSkipped int           `json:"entries_skipped" yaml:"entries_skipped"` // unknown kind, neither removed nor failed
	Errors         []EntryError  `json:"errors" yaml:"errors"`
	SuccessRate    float64       `json:"success_rate" yaml:"success_rate"`
	LogFilePath    string        `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	StartedAt      time.Time     `json:"started_at" yaml:"started_at"`
	Duration       time.Duration `json:"duration_ns" yaml:"duration"`
}

// DryRun reports whether the sweep was a preview
func (r *Report) DryRun() bool {
	return r.Mode == ModePreview
}

// ErrorPreview returns at most limit errors plus the number left out.
// A limit <= 0 returns every error.
func (r *Report) ErrorPreview(limit int) ([]EntryError, int) {
	if limit <= 0 || len(r.Errors) <= limit {
		return r.Errors, 0
	}
	return r.Errors[:limit], len(r.Errors) - limit
}

// Observer is notified with every completed report
type Observer interface {
	Observe(report *Report)
}

// Validator vets the resolved directory before anything is listed
type Validator interface {
	ValidateSweepRoot(dir string) error
}

// Cleaner sweeps the immediate children of a directory
type Cleaner struct {
	fs        fsops.Filesystem
	env       platform.EnvResolver
	envVar    string
	now       func() time.Time
	logDir    string
	writeLog  bool
	logPolicy LogPolicy
	logger    *zap.Logger
	validator Validator
	progress  *progress.Reporter
	observers []Observer
}

// Option configures a Cleaner
type Option func(*Cleaner)

// WithFilesystem sets the filesystem capability
func WithFilesystem(fs fsops.Filesystem) Option {
	return func(c *Cleaner) { c.fs = fs }
}

// WithEnv sets the environment resolver used when no directory is given
func WithEnv(env platform.EnvResolver) Option {
	return func(c *Cleaner) { c.env = env }
}

// WithEnvVar sets the variable consulted for the default directory
func WithEnvVar(name string) Option {
	return func(c *Cleaner) { c.envVar = name }
}

// WithClock sets the time source used to name the log artifact
func WithClock(now func() time.Time) Option {
	return func(c *Cleaner) { c.now = now }
}

// WithLogDir sets where the log artifact is written. Empty means the
// working directory.
func WithLogDir(dir string) Option {
	return func(c *Cleaner) { c.logDir = dir }
}

// WithLogArtifact toggles writing the log artifact after execute sweeps
func WithLogArtifact(enabled bool) Option {
	return func(c *Cleaner) { c.writeLog = enabled }
}

// WithLogPolicy chooses how a failed artifact write is surfaced
func WithLogPolicy(p LogPolicy) Option {
	return func(c *Cleaner) { c.logPolicy = p }
}

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cleaner) { c.logger = logger }
}

// WithValidator sets a safety check for the resolved directory
func WithValidator(v Validator) Option {
	return func(c *Cleaner) { c.validator = v }
}

// WithProgressReporter publishes per-entry progress
func WithProgressReporter(pr *progress.Reporter) Option {
	return func(c *Cleaner) { c.progress = pr }
}

// WithObserver registers an observer for completed reports
func WithObserver(o Observer) Option {
	return func(c *Cleaner) { c.observers = append(c.observers, o) }
}

// New creates a new Cleaner
func New(opts ...Option) *Cleaner {
	c := &Cleaner{
		fs:        fsops.OSFilesystem{},
		env:       platform.OSEnv{},
		envVar:    platform.DefaultTempEnvVar(),
		now:       time.Now,
		writeLog:  true,
		logPolicy: LogPolicyFatal,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run sweeps directory, or the environment default when directory is empty.
// Configuration problems return a *ConfigurationError and no report. Per-entry
// failures are recorded in the report and never abort the sweep. Under
// LogPolicyFatal a failed artifact write returns the report together with a
// *LogWriteError, since the deletions have already happened.
func (c *Cleaner) Run(directory string, mode Mode) (*Report, error) {
	if mode != ModePreview && mode != ModeExecute {
		return nil, &ConfigurationError{Reason: ReasonInvalidMode, Directory: directory, Err: fmt.Errorf("%v", mode)}
	}

	dir, err := c.resolveDirectory(directory)
	if err != nil {
		return nil, err
	}

	startTime := c.now()
	log := c.logger.With(zap.String("directory", dir), zap.Stringer("mode", mode))
	log.Info("sweep started")

	c.reportProgress(progress.PhaseListing, dir, "", 0, 0, nil, startTime)

	names, err := c.fs.List(dir)
	if err != nil {
		return nil, &ConfigurationError{Reason: ReasonUnreadable, Directory: dir, Err: err}
	}

	report := &Report{
		Directory: dir,
		Mode:      mode,
		Errors:    []EntryError{},
		StartedAt: startTime,
	}

	for _, name := range names {
		path := filepath.Join(dir, name)
		report.EntriesSeen++

		if mode == ModeExecute {
			c.sweepEntry(path, report, log)
		}

		c.reportProgress(progress.PhaseSweeping, dir, path, report.EntriesSeen, len(names), report, startTime)
	}

	report.SuccessRate = SuccessRate(report.EntriesRemoved, report.EntriesSeen)
	report.Duration = c.now().Sub(startTime)

	var logErr error
	if mode == ModeExecute && c.writeLog {
		logErr = c.writeLogArtifact(report, log)
	}

	c.reportProgress(progress.PhaseComplete, dir, "", report.EntriesSeen, len(names), report, startTime)

	log.Info("sweep finished",
		zap.Int("seen", report.EntriesSeen),
		zap.Int("removed", report.EntriesRemoved),
		zap.Int("skipped", report.EntriesSkipped),
		zap.Int("errors", len(report.Errors)),
		zap.Duration("duration", report.Duration))

	for _, o := range c.observers {
		o.Observe(report)
	}

	return report, logErr
}

// resolveDirectory picks the sweep target and checks it is a usable directory
func (c *Cleaner) resolveDirectory(directory string) (string, error) {
	dir := directory
	if dir == "" && c.env != nil && c.envVar != "" {
		dir, _ = c.env.LookupEnv(c.envVar)
	}
	if dir == "" {
		return "", &ConfigurationError{Reason: ReasonNoDirectory, Err: fmt.Errorf("no directory given and $%s is not set", c.envVar)}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", &ConfigurationError{Reason: ReasonUnresolvable, Directory: dir, Err: err}
	}

	if c.validator != nil {
		if err := c.validator.ValidateSweepRoot(abs); err != nil {
			return "", &ConfigurationError{Reason: ReasonProtected, Directory: abs, Err: err}
		}
	}

	isDir, err := c.fs.IsDir(abs)
	if err != nil {
		return "", &ConfigurationError{Reason: ReasonUnresolvable, Directory: abs, Err: err}
	}
	if !isDir {
		return "", &ConfigurationError{Reason: ReasonNotDirectory, Directory: abs}
	}

	return abs, nil
}

// sweepEntry classifies and deletes a single entry, recording the outcome
func (c *Cleaner) sweepEntry(path string, report *Report, log *zap.Logger) {
	kind, err := c.fs.Classify(path)
	if err != nil {
		c.recordFailure(path, err, report, log)
		return
	}

	switch kind {
	case fsops.KindLeaf:
		err = c.fs.Remove(path)
	case fsops.KindDirectory:
		err = c.fs.RemoveAll(path)
	default:
		report.EntriesSkipped++
		log.Debug("skipping entry of unknown kind", zap.String("path", path))
		return
	}

	if err != nil {
		c.recordFailure(path, err, report, log)
		return
	}

	report.EntriesRemoved++
	log.Debug("removed", zap.String("path", path), zap.Stringer("kind", kind))
}

func (c *Cleaner) recordFailure(path string, err error, report *Report, log *zap.Logger) {
	entryErr := CategorizeError(path, err)
	report.Errors = append(report.Errors, *entryErr)
	log.Warn("failed to remove entry",
		zap.String("path", path),
		zap.Stringer("reason", entryErr.Reason),
		zap.Error(err))
}

func (c *Cleaner) writeLogArtifact(report *Report, log *zap.Logger) error {
	path, err := WriteLogArtifact(c.logDir, report, c.now())
	if err == nil {
		report.LogFilePath = path
		return nil
	}

	if c.logPolicy == LogPolicyDegrade {
		log.Warn("log artifact not written", zap.Error(err))
		return nil
	}
	return &LogWriteError{Path: path, Err: err}
}

// reportProgress publishes a snapshot to listeners
func (c *Cleaner) reportProgress(phase progress.Phase, dir, current string, visited, total int, report *Report, startTime time.Time) {
	if c.progress == nil {
		return
	}

	update := &progress.SweepProgress{
		Phase:        phase,
		Directory:    dir,
		CurrentEntry: current,
		Visited:      visited,
		Total:        total,
		StartTime:    startTime,
	}
	if report != nil {
		update.Removed = report.EntriesRemoved
		update.Failed = len(report.Errors)
	}
	c.progress.Update(update)
}

// SuccessRate returns removed/seen as a percentage, 0 when nothing was seen
func SuccessRate(removed, seen int) float64 {
	if seen <= 0 {
		return 0.0
	}
	return float64(removed) / float64(seen) * 100
}
