package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeRequiresOutputWithoutProbe(t *testing.T) {
	configPath := writeTestConfig(t)

	_, _, err := runCLI(t, []string{"in.mkv"}, configPath)
	if err == nil {
		t.Fatal("expected error when output is missing")
	}
	requireContains(t, err.Error(), "output path required")
}

func TestEncodeRejectsTooManyArgs(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, _, err := runCLI(t, []string{"a.mkv", "b.mp4", "c.mp4"}, configPath); err == nil {
		t.Fatal("expected argument count error")
	}
}

// Dry runs must not touch the filesystem: no output directory, no
// history database. Probing the missing input fails either way, but
// the directories used to be created before the encoder ran.
func TestDryRunCreatesNothing(t *testing.T) {
	configPath := writeTestConfig(t)
	base := t.TempDir()
	output := filepath.Join(base, "out", "ep01.mp4")

	_, _, err := runCLI(t, []string{"--dry-run", filepath.Join(base, "missing.mkv"), output}, configPath)
	if err == nil {
		t.Fatal("expected probe failure for missing input")
	}

	if _, err := os.Stat(filepath.Dir(output)); !os.IsNotExist(err) {
		t.Fatalf("dry run must not create the output directory: %v", err)
	}
	stateDir := filepath.Join(filepath.Dir(configPath), "state")
	if _, err := os.Stat(stateDir); !os.IsNotExist(err) {
		t.Fatalf("dry run must not create the state directory: %v", err)
	}
}

func TestHistoryDisabled(t *testing.T) {
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(
		"[paths]\nstate_dir = %q\n\n[history]\nenabled = false\n",
		filepath.Join(base, "state"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, err := runCLI(t, []string{"history"}, configPath)
	if err == nil {
		t.Fatal("expected error when ledger disabled")
	}
	requireContains(t, err.Error(), "disabled")
}

func TestHistoryEmptyLedger(t *testing.T) {
	configPath := writeTestConfig(t)

	out, _, err := runCLI(t, []string{"history"}, configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}
