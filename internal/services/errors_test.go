package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrExternalTool, "encoder", "run ffmpeg", "encode failed", cause)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool marker in %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause in %v", err)
	}
	want := "external tool error: encoder: run ffmpeg: encode failed: exit status 1"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWrapNilMarkerDefaults(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if err.Error() != "external tool error: service failure" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
