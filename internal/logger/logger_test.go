package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetLevel(LevelInfo)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	if buf.String() != "[DEBUG] test message arg\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestDebug_HiddenAtInfo(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("hidden")

	if buf.Len() != 0 {
		t.Errorf("expected no output at INFO level, got %q", buf.String())
	}
}

func TestInfo_PrintedAtInfo(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Info("indexed %d chunks", 12)

	if buf.String() != "[INFO] indexed 12 chunks\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelWarn)

	Info("skip me")
	Warn("keep %s", "warn")
	Error("keep %s", "error")

	out := buf.String()
	if strings.Contains(out, "skip me") {
		t.Errorf("info should be filtered at WARN: %q", out)
	}
	if !strings.Contains(out, "[WARN] keep warn") || !strings.Contains(out, "[ERROR] keep error") {
		t.Errorf("missing warn/error lines: %q", out)
	}
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Section("Ingest")
	if buf.Len() != 0 {
		t.Error("section should be hidden when not verbose")
	}

	SetVerbose(true)
	Section("Ingest")
	if buf.String() != "\n=== Ingest ===\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"DEBUG":   LevelDebug,
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"WARNING": LevelWarn,
		"WARN":    LevelWarn,
		"ERROR":   LevelError,
		"bogus":   LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
