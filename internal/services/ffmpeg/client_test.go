package ffmpeg

import (
	"context"
	"errors"
	"strings"
	"testing"

	"animutools/internal/services"
)

type fakeExecutor struct {
	binary string
	args   []string
	stdout []string
	stderr []string
	err    error
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string, onStdout, onStderr func(string)) error {
	f.binary = binary
	f.args = append([]string(nil), args...)
	for _, line := range f.stdout {
		if onStdout != nil {
			onStdout(line)
		}
	}
	for _, line := range f.stderr {
		if onStderr != nil {
			onStderr(line)
		}
	}
	return f.err
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestEncodePrependsProgressFlags(t *testing.T) {
	exec := &fakeExecutor{}
	client, err := New("ffmpeg", WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := client.Encode(context.Background(), []string{"-i", "in.mkv", "out.mp4"}, func(ProgressUpdate) {}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []string{"-nostats", "-progress", "pipe:1", "-i", "in.mkv", "out.mp4"}
	if strings.Join(exec.args, " ") != strings.Join(want, " ") {
		t.Fatalf("unexpected args %v", exec.args)
	}
}

func TestEncodeWithoutProgressKeepsArgs(t *testing.T) {
	exec := &fakeExecutor{}
	client, _ := New("ffmpeg", WithExecutor(exec))

	if err := client.Encode(context.Background(), []string{"-i", "in.mkv", "out.mp4"}, nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Join(exec.args, " ") != "-i in.mkv out.mp4" {
		t.Fatalf("unexpected args %v", exec.args)
	}
}

func TestEncodeParsesProgressBlocks(t *testing.T) {
	exec := &fakeExecutor{stdout: []string{
		"fps=23.98",
		"out_time_us=30000000",
		"speed=2.1x",
		"progress=continue",
		"out_time=00:01:00.000000",
		"progress=end",
	}}
	client, _ := New("ffmpeg", WithExecutor(exec))

	var updates []ProgressUpdate
	if err := client.Encode(context.Background(), []string{"-i", "a", "b"}, func(u ProgressUpdate) {
		updates = append(updates, u)
	}); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(updates))
	}
	if updates[0].Seconds != 30 || updates[0].Speed != "2.1x" || updates[0].Done {
		t.Fatalf("unexpected first update %+v", updates[0])
	}
	if updates[1].Seconds != 60 || !updates[1].Done {
		t.Fatalf("unexpected final update %+v", updates[1])
	}
}

func TestEncodeFailureCarriesStderrTail(t *testing.T) {
	exec := &fakeExecutor{
		stderr: []string{"Stream map '0:s:9' matches no streams.", ""},
		err:    errors.New("exit status 1"),
	}
	client, _ := New("ffmpeg", WithExecutor(exec))

	err := client.Encode(context.Background(), []string{"-i", "a", "b"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "matches no streams") {
		t.Fatalf("expected stderr detail in %v", err)
	}
}
