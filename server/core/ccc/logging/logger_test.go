package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LogLevelDebug,
		" WARN ":  LogLevelWarn,
		"error":   LogLevelError,
		"info":    LogLevelInfo,
		"":        LogLevelInfo,
		"verbose": LogLevelInfo,
	}

	for input, expected := range cases {
		if got := ParseLogLevel(input); got != expected {
			t.Errorf("ParseLogLevel(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelWarn)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("Info message should have been filtered, got %q", output)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &entry); err != nil {
		t.Fatalf("Expected a single JSON log line, got %q: %v", output, err)
	}
	if entry["msg"] != "shown" || entry["key"] != "value" {
		t.Errorf("Unexpected log entry: %v", entry)
	}
}

func TestCreateLogger_WritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	logger := CreateLogger(LogLevelInfo, dir, "dashboard")

	logger.Info("hello")

	expected := filepath.Join(dir, "dashboard-"+time.Now().Format("2006-01-02")+".log")
	data, err := os.ReadFile(expected)
	if err != nil {
		t.Fatalf("Expected log file %s: %v", expected, err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("Log file does not contain message: %q", string(data))
	}
}

func TestNopLogger(t *testing.T) {
	// must not panic
	NopLogger.Info("x")
	NopLogger.Warn("x")
	NopLogger.Error("x")
	NopLogger.Debug("x")
}
