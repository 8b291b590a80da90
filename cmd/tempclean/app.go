package main

import (
	"fmt"
	"io"

	"github.com/fenilsonani/tempclean/internal/cleaner"
	"github.com/fenilsonani/tempclean/internal/config"
	"github.com/fenilsonani/tempclean/internal/history"
	"github.com/fenilsonani/tempclean/internal/logging"
	"github.com/fenilsonani/tempclean/internal/metrics"
	"github.com/fenilsonani/tempclean/internal/platform"
	"github.com/fenilsonani/tempclean/internal/progress"
	"github.com/fenilsonani/tempclean/internal/reporter"
	"github.com/fenilsonani/tempclean/internal/security"
	"go.uber.org/zap"
)

// app bundles what every sweeping command needs
type app struct {
	cfg      *config.Config
	format   reporter.OutputFormat
	log      *logging.Logger
	metrics  *metrics.Metrics
	progress *progress.Reporter
	history  *history.Store
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cfg)

	format, err := reporter.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Options{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
		JSON:  cfg.Logging.JSON,
	})
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		format:   format,
		log:      log,
		metrics:  metrics.New(),
		progress: progress.NewReporter(),
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.DBPath)
		if err != nil {
			log.Close()
			return nil, err
		}
		a.history = store
	}

	return a, nil
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// applyFlags lets command line flags override the config file
func applyFlags(cfg *config.Config) {
	if envVar != "" {
		cfg.TempEnvVar = envVar
	}
	if logDir != "" {
		cfg.LogDir = logDir
	}
	if outputFmt != "" {
		cfg.Output = outputFmt
	}
	if noLog {
		cfg.WriteLog = false
	}
	if verbose {
		cfg.Verbose = true
	}
	if verbose || quiet {
		cfg.Logging.Level = logging.LevelFor(cfg.Verbose, quiet)
	}
}

// cleaner builds the engine for sweeps that count as runs: metrics and
// history observe them
func (a *app) cleaner() *cleaner.Cleaner {
	opts := append(a.baseOptions(), cleaner.WithObserver(a.metrics))
	if a.history != nil {
		opts = append(opts, cleaner.WithObserver(&historyRecorder{store: a.history, log: a.log.Logger}))
	}
	return cleaner.New(opts...)
}

// confirmCleaner builds the engine for the preview shown before a
// confirmation prompt. It has no observers, so only the sweep that follows
// is exported.
func (a *app) confirmCleaner() *cleaner.Cleaner {
	return cleaner.New(a.baseOptions()...)
}

// confirmedSweeper previews on one engine and executes on another, so a
// confirmation flow exports only the sweep the user agreed to
type confirmedSweeper struct {
	preview *cleaner.Cleaner
	execute *cleaner.Cleaner
}

func (s confirmedSweeper) Run(directory string, mode cleaner.Mode) (*cleaner.Report, error) {
	if mode == cleaner.ModePreview {
		return s.preview.Run(directory, mode)
	}
	return s.execute.Run(directory, mode)
}

func (a *app) baseOptions() []cleaner.Option {
	return []cleaner.Option{
		cleaner.WithEnvVar(a.cfg.EnvVar(platform.OSEnv{})),
		cleaner.WithLogDir(a.cfg.LogDir),
		cleaner.WithLogPolicy(a.cfg.LogPolicy()),
		cleaner.WithLogArtifact(a.cfg.WriteLog),
		cleaner.WithLogger(a.log.Logger),
		cleaner.WithValidator(security.NewPathValidator(a.cfg.ProtectedPaths...)),
		cleaner.WithProgressReporter(a.progress),
	}
}

// target returns the directory named on the command line, else the
// configured one. Empty leaves the choice to the temp variable.
func (a *app) target(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return a.cfg.Directory
}

func (a *app) render(w io.Writer, report *cleaner.Report) error {
	if outputFile != "" {
		if err := reporter.SaveToFile(report, outputFile, a.format); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		fmt.Fprintf(w, "Report saved to: %s\n", outputFile)
		return nil
	}
	return reporter.New(w, a.format).WithErrorPreview(a.cfg.ErrorPreview).Report(report)
}

// finish exports metrics once the command's sweeps are done
func (a *app) finish() error {
	if a.cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

func (a *app) Close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.log.Warn("failed to close history", zap.Error(err))
		}
	}
	a.log.Close()
}

// historyRecorder stores Execute reports in the audit trail
type historyRecorder struct {
	store *history.Store
	log   *zap.Logger
}

func (h *historyRecorder) Observe(report *cleaner.Report) {
	if report.Mode != cleaner.ModeExecute {
		return
	}
	id, err := h.store.Record(report)
	if err != nil {
		h.log.Warn("failed to record sweep", zap.Error(err))
		return
	}
	h.log.Debug("sweep recorded", zap.String("id", id))
}
