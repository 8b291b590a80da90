package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// File appends log lines to a file instead of stderr
	File string
	// JSON switches from the console encoder to JSON lines
	JSON bool
}

// Logger wraps a zap logger together with the file it may own
type Logger struct {
	*zap.Logger
	file *os.File
}

// LevelFor maps the CLI verbosity flags to a level name
func LevelFor(verbose, quiet bool) string {
	switch {
	case verbose:
		return "debug"
	case quiet:
		return "warn"
	default:
		return "info"
	}
}

// ParseLevel converts a level name
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// New creates a logger. Output goes to stderr so rendered reports on stdout
// stay machine readable.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var file *os.File
	var out io.Writer = os.Stderr
	if opts.File != "" {
		file, err = os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = file
	}

	return &Logger{
		Logger: zap.New(newCore(out, level, opts.JSON)),
		file:   file,
	}, nil
}

// NewWriter creates a logger writing to w, used by tests
func NewWriter(w io.Writer, level zapcore.Level) *zap.Logger {
	return zap.New(newCore(w, level, false))
}

func newCore(w io.Writer, level zapcore.Level, json bool) zapcore.Core {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if json {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewCore(enc, zapcore.AddSync(w), level)
}

// Close flushes buffered entries and closes the log file
func (l *Logger) Close() error {
	_ = l.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
