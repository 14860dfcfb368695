package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("pass") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("pass") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("pass") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("cache unavailable") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestNewLoggerFormat(t *testing.T) {
	tests := []struct {
		format string
		check  func(string) bool
	}{
		{"", func(s string) bool { return strings.Contains(s, "diagram=arrow") }},
		{"logfmt", func(s string) bool { return strings.Contains(s, "msg=rendered") }},
		{"JSON", func(s string) bool {
			var m map[string]any
			return json.Unmarshal([]byte(s), &m) == nil && m["diagram"] == "arrow"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Setenv(logFormatEnv, tt.format)
			var buf bytes.Buffer
			newLogger(&buf, log.InfoLevel).Info("rendered", "diagram", "arrow")
			if !tt.check(buf.String()) {
				t.Errorf("unexpected %q output: %s", tt.format, buf.String())
			}
		})
	}
}

func TestProgress(t *testing.T) {
	t.Setenv(logFormatEnv, "")
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("rendered", "diagram", "pyramid")

	out := buf.String()
	for _, want := range []string{"rendered", "diagram=pyramid", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Fatal("no default logger")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}
