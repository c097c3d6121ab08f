package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ParseLogLevel maps a config value onto a LogLevel, falling back to info.
func ParseLogLevel(value string) LogLevel {
	switch LogLevel(strings.ToLower(strings.TrimSpace(value))) {
	case LogLevelDebug:
		return LogLevelDebug
	case LogLevelWarn:
		return LogLevelWarn
	case LogLevelError:
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// dailyFileWriter appends to <dir>/<prefix>-<yyyy-mm-dd>.log and switches files at midnight (local time).
type dailyFileWriter struct {
	dir    string
	prefix string

	mu   sync.Mutex
	day  string
	file *os.File
}

func newDailyFileWriter(dir, prefix string) *dailyFileWriter {
	return &dailyFileWriter{dir: dir, prefix: prefix}
}

func (w *dailyFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	today := time.Now().Format("2006-01-02")
	if w.file == nil || w.day != today {
		if err := w.open(today); err != nil {
			return 0, err
		}
	}

	return w.file.Write(p)
}

func (w *dailyFileWriter) open(day string) error {
	if w.file != nil {
		_ = w.file.Close()
		w.file = nil
	}

	path := filepath.Join(w.dir, fmt.Sprintf("%s-%s.log", w.prefix, day))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	w.file = file
	w.day = day
	return nil
}

func (w *dailyFileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// CreateLogger creates a JSON logger writing to daily log files in logDir.
// An empty logDir, or one that cannot be created, logs to stdout instead.
func CreateLogger(logLevel LogLevel, logDir string, fileName string) Logger {
	var out io.Writer = os.Stdout

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err == nil {
			out = newDailyFileWriter(logDir, fileName)
		}
	}

	return NewLogger(out, logLevel)
}

// NewLogger creates a JSON logger writing to out.
func NewLogger(out io.Writer, logLevel LogLevel) Logger {
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: logLevel.slogLevel(),
	}))
}

type nopLogger struct{}

// NopLogger discards everything. Constructors fall back to it when given a nil logger.
var NopLogger Logger = &nopLogger{}

func (l *nopLogger) Info(msg string, args ...any)  {}
func (l *nopLogger) Warn(msg string, args ...any)  {}
func (l *nopLogger) Error(msg string, args ...any) {}
func (l *nopLogger) Debug(msg string, args ...any) {}
