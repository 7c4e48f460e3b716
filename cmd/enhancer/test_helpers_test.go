package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drunkleen/cli-video-enhancer/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	stateDir   string
	logDir     string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:  base,
		stateDir: filepath.Join(base, "state"),
		logDir:   filepath.Join(base, "logs"),
	}
	env.configPath = filepath.Join(base, "config.toml")
	writeTestConfig(t, env.configPath, env.stateDir, env.logDir)
	return env
}

func writeTestConfig(t *testing.T, path, stateDir, logDir string) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nstate_dir = %q\nlog_dir = %q\n\n[logging]\nlevel = %q\n",
		stateDir, logDir, "error",
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, strings.NewReader(""))
}

func runCLIWithInput(t *testing.T, args []string, configPath string, in io.Reader) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(in)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// makeStubTools drops fake ffmpeg/ffprobe scripts into dir and prepends it
// to PATH. The ffmpeg stub emits a realistic -progress feed and creates the
// output file named by its final argument.
func makeStubTools(t *testing.T, dir string, ffmpegFails bool) {
	t.Helper()

	ffprobe := `#!/bin/sh
printf '%s' '{"streams":[{"index":0,"codec_type":"video","codec_name":"h264","width":640,"height":360},{"index":1,"codec_type":"audio","codec_name":"aac","channels":2}],"format":{"duration":"10.000000"}}'
exit 0
`
	ffmpeg := `#!/bin/sh
for last; do :; done
printf 'out_time_ms=2500000\nprogress=continue\n'
printf 'out_time_ms=10000000\nprogress=end\n'
: > "$last"
exit 0
`
	if ffmpegFails {
		ffmpeg = `#!/bin/sh
echo 'conversion failed' >&2
exit 1
`
	}

	testsupport.StubBinaries(t, dir, map[string]string{"ffprobe": ffprobe, "ffmpeg": ffmpeg})
}

func writeInputFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(path, []byte("not a real container"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
