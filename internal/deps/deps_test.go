package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func writeStub(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	writeStub(t, present)

	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}
}

func TestRequirementsDefaults(t *testing.T) {
	reqs := Requirements("", "")
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	if reqs[0].Command != "ffmpeg" || reqs[1].Command != "ffprobe" {
		t.Fatalf("unexpected default commands: %#v", reqs)
	}

	reqs = Requirements("/opt/ffmpeg", "")
	if reqs[0].Command != "/opt/ffmpeg" {
		t.Fatalf("expected override to win, got %q", reqs[0].Command)
	}
}

func TestResolveBinaryOverride(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "ffmpeg-custom")
	writeStub(t, bin)

	path, err := ResolveBinary(bin, "ffmpeg")
	if err != nil {
		t.Fatalf("resolve override: %v", err)
	}
	if path != bin {
		t.Fatalf("expected %q, got %q", bin, path)
	}

	if _, err := ResolveBinary(filepath.Join(dir, "absent"), "ffmpeg"); err == nil {
		t.Fatal("expected missing override to fail")
	}
	if _, err := ResolveBinary(dir, "ffmpeg"); err == nil {
		t.Fatal("expected directory override to fail")
	}
}

func TestResolveBinaryPathLookup(t *testing.T) {
	binDir := t.TempDir()
	writeStub(t, filepath.Join(binDir, "fake-encoder"))
	t.Setenv("PATH", binDir)

	path, err := ResolveBinary("", "fake-encoder")
	if err != nil {
		t.Fatalf("resolve from PATH: %v", err)
	}
	if filepath.Dir(path) != binDir {
		t.Fatalf("unexpected resolution: %q", path)
	}

	if _, err := ResolveBinary("", "definitely-not-here"); err == nil {
		t.Fatal("expected lookup failure")
	}
}

func TestResolveToolsReportsFirstFailure(t *testing.T) {
	t.Setenv("PATH", "")
	if _, err := ResolveTools("", ""); err == nil {
		t.Fatal("expected resolution to fail with empty PATH")
	}
}
