package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warn("warn %d", 3)
	l.Error("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("messages below level leaked through: %q", out)
	}
	if !strings.Contains(out, "warn 3") || !strings.Contains(out, "error 4") {
		t.Errorf("expected warn and error lines, got %q", out)
	}
	if !strings.Contains(out, "sdmx") {
		t.Errorf("log line missing prefix: %q", out)
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelError)

	l.Warn("hidden")
	l.SetLevel(LevelDebug)
	l.Debug("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("warn logged below level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("debug not logged after SetLevel: %q", out)
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelNone, ""},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q; want %q", tt.level, got, tt.want)
		}
	}
}
