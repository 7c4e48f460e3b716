package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drunkleen/cli-video-enhancer/internal/config"
	"github.com/drunkleen/cli-video-enhancer/internal/history"
)

func TestRunEnhancementEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t)
	makeStubTools(t, filepath.Join(env.baseDir, "bin"), false)
	input := writeInputFile(t, env.baseDir)
	output := filepath.Join(env.baseDir, "out.mp4")

	stdout, _, err := runCLI(t, []string{
		"--input", input,
		"--output", output,
		"--speed", "2",
		"--denoise", "60",
		"--scale", "360",
	}, env.configPath)
	if err != nil {
		t.Fatalf("enhancer run: %v", err)
	}
	requireContains(t, stdout, "Enhanced")
	requireContains(t, stdout, output)

	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output file: %v", err)
	}

	store, err := history.Open(env.stateDir)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()
	records, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 run recorded, got %d", len(records))
	}
	record := records[0]
	if record.Status != history.StatusCompleted {
		t.Errorf("status = %q, want completed", record.Status)
	}
	if record.Speed != 2 {
		t.Errorf("speed = %v, want 2", record.Speed)
	}
	if !strings.Contains(record.VideoFilters, "hqdn3d=") {
		t.Errorf("video filters missing denoise chain: %q", record.VideoFilters)
	}
	if !strings.Contains(record.VideoFilters, "scale=-2:360") {
		t.Errorf("video filters missing scale: %q", record.VideoFilters)
	}
	if !strings.Contains(record.AudioFilters, "atempo=2.0") {
		t.Errorf("audio filters missing atempo: %q", record.AudioFilters)
	}
	// 10s source at 2x collapses to 5s of output.
	if record.DurationMS != 5000 {
		t.Errorf("target duration = %d, want 5000", record.DurationMS)
	}
}

func TestRunEnhancementRecordsFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	makeStubTools(t, filepath.Join(env.baseDir, "bin"), true)
	input := writeInputFile(t, env.baseDir)

	_, _, err := runCLI(t, []string{"-i", input}, env.configPath)
	if err == nil {
		t.Fatal("expected run to fail")
	}
	requireContains(t, err.Error(), "ffmpeg failed")

	store, err := history.Open(env.stateDir)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()
	records, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(records) != 1 || records[0].Status != history.StatusFailed {
		t.Fatalf("expected one failed record, got %+v", records)
	}
	if records[0].ErrorMessage == "" {
		t.Error("failed record should carry the error message")
	}
}

func TestRunEnhancementInteractiveFlow(t *testing.T) {
	env := setupCLITestEnv(t)
	makeStubTools(t, filepath.Join(env.baseDir, "bin"), false)
	input := writeInputFile(t, env.baseDir)

	// Input path followed by enter for every remaining prompt.
	script := input + "\n" + strings.Repeat("\n", 12)
	stdout, _, err := runCLIWithInput(t, nil, env.configPath, strings.NewReader(script))
	if err != nil {
		t.Fatalf("interactive run: %v", err)
	}
	requireContains(t, stdout, "Enhanced")

	wantOutput := strings.TrimSuffix(input, ".mp4") + "_enhanced_speed1.mp4"
	if _, err := os.Stat(wantOutput); err != nil {
		t.Fatalf("expected default-named output: %v", err)
	}
}

func TestRunEnhancementInteractiveKeepsSpeedFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	makeStubTools(t, filepath.Join(env.baseDir, "bin"), false)
	input := writeInputFile(t, env.baseDir)

	// --speed without --input drops into the prompts; accepting every
	// default must keep the flag value.
	script := input + "\n" + strings.Repeat("\n", 12)
	_, _, err := runCLIWithInput(t, []string{"--speed", "2"}, env.configPath, strings.NewReader(script))
	if err != nil {
		t.Fatalf("interactive run: %v", err)
	}

	wantOutput := strings.TrimSuffix(input, ".mp4") + "_enhanced_speed2.mp4"
	if _, err := os.Stat(wantOutput); err != nil {
		t.Fatalf("expected output named for the flagged speed: %v", err)
	}

	store, err := history.Open(env.stateDir)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()
	records, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(records) != 1 || records[0].Speed != 2 {
		t.Fatalf("expected one record at speed 2, got %+v", records)
	}
}

func TestRunEnhancementRejectsBadFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	input := writeInputFile(t, env.baseDir)

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"missing input", []string{"-i", filepath.Join(env.baseDir, "nope.mp4")}, "inspect input"},
		{"zero speed", []string{"-i", input, "-s", "0"}, "speed must be > 0.0"},
		{"knob out of range", []string{"-i", input, "--denoise", "150"}, "between 0 and 100"},
		{"odd scale", []string{"-i", input, "--scale", "721"}, "positive even integer"},
		{"bad crf", []string{"-i", input, "--crf", "99"}, "between 0 and 51"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, tc.args, env.configPath)
			if err == nil {
				t.Fatal("expected error")
			}
			requireContains(t, err.Error(), tc.want)
		})
	}
}

func TestJoinEncodeErrors(t *testing.T) {
	waitErr := errors.New("ffmpeg failed: exit status 1")
	feedErr := errors.New("read |0: file already closed")

	if got := joinEncodeErrors(nil, nil); got != nil {
		t.Fatalf("clean encode should return nil, got %v", got)
	}
	if got := joinEncodeErrors(waitErr, feedErr); !errors.Is(got, waitErr) {
		t.Fatalf("process failure should win, got %v", got)
	}
	if got := joinEncodeErrors(nil, feedErr); !errors.Is(got, feedErr) {
		t.Fatalf("feed error after a clean exit should surface, got %v", got)
	}
}

func TestResolveOutputPath(t *testing.T) {
	cfg := &config.Config{}

	got, err := resolveOutputPath(cfg, "/media/clip.mkv", runOptions{Speed: 1.5})
	if err != nil {
		t.Fatalf("resolveOutputPath: %v", err)
	}
	if got != "/media/clip_enhanced_speed1.5.mp4" {
		t.Errorf("derived output = %q", got)
	}

	cfg.Paths.OutputDir = "/out"
	got, err = resolveOutputPath(cfg, "/media/clip.mkv", runOptions{Speed: 1.5})
	if err != nil {
		t.Fatalf("resolveOutputPath with output dir: %v", err)
	}
	if got != "/out/clip_enhanced_speed1.5.mp4" {
		t.Errorf("output-dir output = %q", got)
	}

	got, err = resolveOutputPath(cfg, "/media/clip.mkv", runOptions{Speed: 1.5, Output: "/elsewhere/final.mp4"})
	if err != nil {
		t.Fatalf("resolveOutputPath explicit: %v", err)
	}
	if got != "/elsewhere/final.mp4" {
		t.Errorf("explicit output = %q", got)
	}
}

func TestRunOptionsValidate(t *testing.T) {
	bad := 150
	good := 60
	cases := []struct {
		name string
		opts runOptions
		ok   bool
	}{
		{"valid", runOptions{Input: "a.mp4", Speed: 1, CRF: 17}, true},
		{"no input", runOptions{Speed: 1}, false},
		{"negative speed", runOptions{Input: "a.mp4", Speed: -2}, false},
		{"knob too high", runOptions{Input: "a.mp4", Speed: 1, Denoise: &bad}, false},
		{"knob in range", runOptions{Input: "a.mp4", Speed: 1, Sharpen: &good}, true},
		{"negative threads", runOptions{Input: "a.mp4", Speed: 1, Threads: -1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
