package logging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RunLogConfig describes where a run writes its logs.
type RunLogConfig struct {
	// Dir is the log directory, created if missing.
	Dir string

	// DRPGOCID names the log files.
	DRPGOCID string

	// Level is the console level. The files always record info and above.
	Level string

	// Environment selects the console format.
	Environment Environment

	// Console receives console records. Default: stderr.
	Console zapcore.WriteSyncer

	// Now stamps the error log name. Default: time.Now.
	Now func() time.Time
}

// RunLog is the logger of a single run together with its files.
//
// Three sinks are teed:
//   - the console, at the configured level
//   - <dir>/<ocid>.log, appended across runs, info and above
//   - <dir>/<ocid>_<timestamp>_error.log, this run only, error records only
//
// The error log is what a failure notification carries.
type RunLog struct {
	Logger *zap.Logger

	AllLogPath   string
	ErrorLogPath string

	allFile   *os.File
	errorFile *os.File
}

// NewRunLog opens the log files and builds the teed logger.
func NewRunLog(cfg RunLogConfig) (*RunLog, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	console := cfg.Console
	if console == nil {
		console = zapcore.Lock(os.Stderr)
	}

	name := fileSafe(cfg.DRPGOCID)
	r := &RunLog{
		AllLogPath:   filepath.Join(cfg.Dir, name+".log"),
		ErrorLogPath: filepath.Join(cfg.Dir, fmt.Sprintf("%s_%s_error.log", name, now().Format("20060102150405"))),
	}

	if r.allFile, err = os.OpenFile(r.AllLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if r.errorFile, err = os.OpenFile(r.ErrorLogPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644); err != nil {
		r.allFile.Close()
		return nil, fmt.Errorf("failed to open error log file: %w", err)
	}

	var consoleEncoder zapcore.Encoder
	if cfg.Environment == EnvironmentProduction {
		consoleEncoder = zapcore.NewJSONEncoder(consoleEncoderConfig(cfg.Environment))
	} else {
		consoleEncoder = zapcore.NewConsoleEncoder(consoleEncoderConfig(cfg.Environment))
	}
	fileEncoder := zapcore.NewConsoleEncoder(fileEncoderConfig())

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, console, level),
		zapcore.NewCore(fileEncoder, zapcore.AddSync(r.allFile), zapcore.InfoLevel),
		zapcore.NewCore(fileEncoder, zapcore.AddSync(r.errorFile), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l == zapcore.ErrorLevel
		})),
	)
	r.Logger = zap.New(core)

	return r, nil
}

// ErrorLog returns the error records written so far by this run.
func (r *RunLog) ErrorLog() (string, error) {
	_ = r.Logger.Sync()
	data, err := os.ReadFile(r.ErrorLogPath)
	if err != nil {
		return "", fmt.Errorf("failed to read error log: %w", err)
	}
	return string(data), nil
}

// Close flushes the logger and closes both files. The files are kept on disk.
func (r *RunLog) Close() error {
	_ = r.Logger.Sync()
	return errors.Join(r.allFile.Close(), r.errorFile.Close())
}

// RemoveErrorLog deletes this run's error log. A missing file is not an error.
func (r *RunLog) RemoveErrorLog() error {
	if err := os.Remove(r.ErrorLogPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove error log: %w", err)
	}
	return nil
}

func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, name)
}
