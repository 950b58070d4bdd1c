package logging

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 30, 45, 123_000_000, time.UTC)
}

func newTestLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(Config{Level: level, Output: &buf, Prefix: "test", Now: fixedClock})
	return l, &buf
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = '%s', expected '%s'", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"Info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"WARNING", LevelWarn, false},
		{" error ", LevelError, false},
		{"", LevelInfo, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel('%s') error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrUnknownLevel) {
			t.Errorf("expected ErrUnknownLevel, got %v", err)
		}
		if got != tt.expected {
			t.Errorf("ParseLevel('%s') = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestLogger_Format(t *testing.T) {
	l, buf := newTestLogger(LevelInfo)

	l.Info("processed %d steps", 3)

	want := "2024-03-01T12:30:45.123 [INFO] test: processed 3 steps\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	l, buf := newTestLogger(LevelWarn)

	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	out := buf.String()
	if strings.Contains(out, "debug") || strings.Contains(out, "[INFO]") {
		t.Errorf("messages below warn should be filtered: %q", out)
	}
	if !strings.Contains(out, "[WARN] test: warn") || !strings.Contains(out, "[ERROR] test: error") {
		t.Errorf("expected warn and error lines, got %q", out)
	}

	if l.Enabled(LevelInfo) {
		t.Error("info should not be enabled at warn level")
	}
	l.SetLevel(LevelDebug)
	if !l.Enabled(LevelDebug) {
		t.Error("debug should be enabled after SetLevel")
	}
}

func TestLogger_Fields(t *testing.T) {
	l, buf := newTestLogger(LevelDebug)

	l.WithComponent("pipeline").WithFields(map[string]any{"step": 2, "op": "wrap"}).Debug("applied")

	if !strings.HasSuffix(buf.String(), "applied {component=pipeline, op=wrap, step=2}\n") {
		t.Errorf("expected sorted fields, got %q", buf.String())
	}
}

func TestLogger_WithFieldDoesNotModifyParent(t *testing.T) {
	l, buf := newTestLogger(LevelInfo)

	_ = l.WithField("run", "abc")
	l.Info("plain")

	if strings.Contains(buf.String(), "run=") {
		t.Errorf("parent logger picked up child field: %q", buf.String())
	}
}

func TestLogger_DerivedShareOutput(t *testing.T) {
	l, _ := newTestLogger(LevelInfo)
	child := l.WithField("k", "v")

	var other bytes.Buffer
	l.SetOutput(&other)
	l.SetLevel(LevelError)

	child.Info("hidden")
	child.Error("shown")

	if strings.Contains(other.String(), "hidden") || !strings.Contains(other.String(), "shown {k=v}") {
		t.Errorf("derived logger should follow parent output and level, got %q", other.String())
	}
}

func TestLogger_NoPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf, Now: fixedClock})

	l.Info("bare")
	if buf.String() != "2024-03-01T12:30:45.123 [INFO] bare\n" {
		t.Errorf("unexpected line %q", buf.String())
	}
}

func TestNullLogger(t *testing.T) {
	NullLogger.Error("nothing %s", "here")
	NullLogger.WithComponent("x").Info("still nothing")

	if NullLogger.Enabled(LevelError) {
		t.Error("null logger should never be enabled")
	}
}

func TestLogger_Concurrent(t *testing.T) {
	l, buf := newTestLogger(LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			child := l.WithField("worker", n)
			for j := 0; j < 50; j++ {
				child.Info("tick %d", j)
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Count(buf.String(), "\n")
	if lines != 500 {
		t.Errorf("expected 500 lines, got %d", lines)
	}
}
