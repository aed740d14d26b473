// Package logger provides the global zerolog logger for worktrunk.
// Console output is human-readable; optional file output is JSON with
// rotation via lumberjack.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Log is the global logger instance.
	Log zerolog.Logger

	// fileWriter is the file output for logging (with rotation).
	fileWriter *lumberjack.Logger

	// logContext holds optional repo/branch context for log entries.
	logContext   logContextData
	logContextMu sync.RWMutex
)

type logContextData struct {
	Repo   string
	Branch string
}

// SetContext sets repository and branch context for all subsequent log
// entries. Pass empty strings to clear. Thread-safe.
func SetContext(repo, branch string) {
	logContextMu.Lock()
	defer logContextMu.Unlock()
	logContext = logContextData{Repo: repo, Branch: branch}
}

// ClearContext clears the repo/branch context.
func ClearContext() {
	SetContext("", "")
}

func addContext(event *zerolog.Event) *zerolog.Event {
	logContextMu.RLock()
	ctx := logContext
	logContextMu.RUnlock()
	if ctx.Repo != "" {
		event = event.Str("repo", ctx.Repo)
	}
	if ctx.Branch != "" {
		event = event.Str("branch", ctx.Branch)
	}
	return event
}

// RotationConfig holds configuration for file-based logging. It mirrors
// internal/config.LoggingSettings but is duplicated here to avoid a
// circular import.
type RotationConfig struct {
	FileEnabled *bool
	MaxSizeMB   int
	MaxAgeDays  int
	MaxBackups  int
}

// IsFileEnabled returns whether file logging is enabled. Defaults to true
// when not explicitly set.
func (c *RotationConfig) IsFileEnabled() bool {
	if c.FileEnabled == nil {
		return true
	}
	return *c.FileEnabled
}

// GetMaxSizeMB returns the max size in MB, defaulting to 50.
func (c *RotationConfig) GetMaxSizeMB() int {
	if c.MaxSizeMB <= 0 {
		return 50
	}
	return c.MaxSizeMB
}

// GetMaxAgeDays returns the max age in days, defaulting to 7.
func (c *RotationConfig) GetMaxAgeDays() int {
	if c.MaxAgeDays <= 0 {
		return 7
	}
	return c.MaxAgeDays
}

// GetMaxBackups returns the max backups, defaulting to 3.
func (c *RotationConfig) GetMaxBackups() int {
	if c.MaxBackups <= 0 {
		return 3
	}
	return c.MaxBackups
}

// Init initializes the global logger with console-only output.
// Use InitWithFile for file logging.
func Init(debug bool) {
	Log = zerolog.New(consoleWriter()).
		Level(level(debug)).
		With().
		Timestamp().
		Logger()
}

// InitWithFile initializes the logger with optional rotating file output.
// If logsDir is empty or cfg disables file logging, this behaves like Init.
func InitWithFile(debug bool, logsDir string, cfg *RotationConfig) error {
	if logsDir == "" || cfg == nil || !cfg.IsFileEnabled() {
		Init(debug)
		return nil
	}

	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileWriter = &lumberjack.Logger{
		Filename:   filepath.Join(logsDir, "worktrunk.log"),
		MaxSize:    cfg.GetMaxSizeMB(),
		MaxAge:     cfg.GetMaxAgeDays(),
		MaxBackups: cfg.GetMaxBackups(),
		LocalTime:  true,
		Compress:   false,
	}

	// Console gets the human-readable format, the file gets JSON.
	multi := io.MultiWriter(consoleWriter(), fileWriter)
	Log = zerolog.New(multi).
		Level(level(debug)).
		With().
		Timestamp().
		Logger()
	return nil
}

func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
}

func level(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// CloseFileWriter closes the file writer if it exists. Call on program
// shutdown for clean log file closure.
func CloseFileWriter() error {
	if fileWriter != nil {
		err := fileWriter.Close()
		fileWriter = nil
		return err
	}
	return nil
}

// GetLogFilePath returns the path of the current log file, or empty string
// when file logging is disabled.
func GetLogFilePath() string {
	if fileWriter != nil {
		return fileWriter.Filename
	}
	return ""
}

// Debug starts a debug-level log event.
func Debug() *zerolog.Event {
	return addContext(Log.Debug())
}

// Info starts an info-level log event.
func Info() *zerolog.Event {
	return addContext(Log.Info())
}

// Warn starts a warn-level log event.
func Warn() *zerolog.Event {
	return addContext(Log.Warn())
}

// Error starts an error-level log event.
func Error() *zerolog.Event {
	return addContext(Log.Error())
}

// WithField returns a logger with an additional field.
func WithField(key string, value interface{}) zerolog.Logger {
	return Log.With().Interface(key, value).Logger()
}
