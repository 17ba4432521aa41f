package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func reset(t *testing.T) {
	t.Cleanup(func() {
		Logger = nil
		fileWriter = nil
	})
}

func TestInitCreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	reset(t)

	if err := Init(Config{ConfigDir: dir}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after Init")
	}

	Warn("something happened", "key", "value")
	Info("below the default level")

	data, err := os.ReadFile(Path(dir))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "something happened") {
		t.Errorf("warning missing from log file:\n%s", data)
	}
	if strings.Contains(string(data), "below the default level") {
		t.Errorf("info should be filtered at the default level:\n%s", data)
	}
}

func TestInitLevel(t *testing.T) {
	dir := t.TempDir()
	reset(t)

	if err := Init(Config{ConfigDir: dir, Level: "info"}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	Info("quest generated")

	data, err := os.ReadFile(Path(dir))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "quest generated") {
		t.Errorf("info missing at info level:\n%s", data)
	}
}

func TestInitInvalidLevel(t *testing.T) {
	reset(t)
	if err := Init(Config{ConfigDir: t.TempDir(), Level: "loud"}); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
	if Logger != nil {
		t.Error("Logger should stay nil after a failed Init")
	}
}

func TestPath(t *testing.T) {
	want := filepath.Join("cfg", "logs", "arise.log")
	if got := Path("cfg"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestHelpersBeforeInit(t *testing.T) {
	reset(t)
	Logger = nil
	// Must not panic
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
	FileOnly()

	if Get() == nil {
		t.Error("Get() returned nil before Init")
	}
}
